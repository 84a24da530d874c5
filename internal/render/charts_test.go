package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/model"
)

func TestScoreDonut(t *testing.T) {
	cfg := DefaultChartConfig()

	chart := ScoreDonut(cfg, 68)
	if chart.W != 140 || chart.H != 140 {
		t.Errorf("donut is %dx%d, want 140x140", chart.W, chart.H)
	}
	if !strings.Contains(chart.SVG, ">68%<") {
		t.Error("donut label missing the score")
	}
	if !strings.HasPrefix(chart.SVG, "<svg ") || !strings.HasSuffix(chart.SVG, "</svg>") {
		t.Error("donut is not a well-formed svg element")
	}

	t.Run("clamped", func(t *testing.T) {
		if c := ScoreDonut(cfg, 180); !strings.Contains(c.SVG, ">100%<") {
			t.Error("score above 100 not clamped")
		}
		if c := ScoreDonut(cfg, -5); !strings.Contains(c.SVG, ">0%<") {
			t.Error("negative score not clamped")
		}
	})
}

func TestSkillProficiencyChart(t *testing.T) {
	cfg := DefaultChartConfig()
	skills := []model.SkillEntry{
		{Name: "SQL", Proficiency: 4},
		{Name: "R & Python", Proficiency: 3},
	}
	chart := SkillProficiencyChart(cfg, skills)

	if chart.W != cfg.Width {
		t.Errorf("chart width %d, want %d", chart.W, cfg.Width)
	}
	wantH := cfg.Padding*2 + len(skills)*(22+8)
	if chart.H != wantH {
		t.Errorf("chart height %d, want %d", chart.H, wantH)
	}
	if !strings.Contains(chart.SVG, "R &amp; Python") {
		t.Error("skill name not escaped")
	}
	if !strings.Contains(chart.SVG, ">4/5<") {
		t.Error("proficiency label missing")
	}

	t.Run("capped at twelve", func(t *testing.T) {
		var many []model.SkillEntry
		for i := 0; i < 20; i++ {
			many = append(many, model.SkillEntry{Name: fmt.Sprintf("Skill %d", i), Proficiency: 3})
		}
		chart := SkillProficiencyChart(cfg, many)
		if got := strings.Count(chart.SVG, "<rect "); got != 12 {
			t.Errorf("%d bars drawn, want 12", got)
		}
	})
}

func TestGapPriorityChart(t *testing.T) {
	cfg := DefaultChartConfig()
	gaps := []model.SkillGap{
		{Skill: "MLOps", Priority: "high"},
		{Skill: "Kubernetes", Priority: "low"},
		{Skill: "<script>", Priority: "weird"},
	}
	chart := GapPriorityChart(cfg, gaps)

	if !strings.Contains(chart.SVG, cfg.AccentHigh) {
		t.Error("high-priority bar not colored with the high accent")
	}
	if !strings.Contains(chart.SVG, cfg.AccentLow) {
		t.Error("low-priority bar not colored with the low accent")
	}
	if strings.Contains(chart.SVG, "<script>") {
		t.Error("gap skill text not escaped")
	}
	if !strings.Contains(chart.SVG, "&lt;script&gt;") {
		t.Error("escaped gap skill missing from the chart")
	}
}

func TestPriorityWeight(t *testing.T) {
	cfg := DefaultChartConfig()
	tests := []struct {
		priority string
		weight   int
		color    string
	}{
		{"high", 100, cfg.AccentHigh},
		{"medium", 65, cfg.AccentMed},
		{"low", 35, cfg.AccentLow},
		{"unknown", 50, cfg.BarColor},
	}
	for _, tt := range tests {
		w, c := priorityWeight(cfg, tt.priority)
		if w != tt.weight || c != tt.color {
			t.Errorf("priorityWeight(%q) = (%d, %s), want (%d, %s)", tt.priority, w, c, tt.weight, tt.color)
		}
	}
}

func TestPathwayTimeline(t *testing.T) {
	cfg := DefaultChartConfig()
	pathways := []model.Pathway{
		{
			Title:     "Technical Track",
			Timeframe: "12-24 months",
			Steps: []model.PathwayStep{
				{Title: "Ship a production model"},
				{Title: "A very long step title that will certainly not fit the label"},
				{Title: "Lead the platform"},
			},
		},
	}
	chart := PathwayTimeline(cfg, pathways)

	if chart.H != cfg.Padding+64 {
		t.Errorf("single lane height %d, want %d", chart.H, cfg.Padding+64)
	}
	if got := strings.Count(chart.SVG, "<circle "); got != 3 {
		t.Errorf("%d step markers, want 3", got)
	}
	if !strings.Contains(chart.SVG, "…") {
		t.Error("long step title not shortened")
	}
	if !strings.Contains(chart.SVG, "Technical Track") {
		t.Error("pathway title missing")
	}
}

func TestCanvasTag(t *testing.T) {
	tag := CanvasTag(GapChartID, 760, 320)
	for _, want := range []string{
		`data-chart-id="gap-priorities"`,
		`width="760"`,
		`height="320"`,
		"<canvas ",
	} {
		if !strings.Contains(tag, want) {
			t.Errorf("canvas tag %q missing %q", tag, want)
		}
	}
}

func TestRasterCache(t *testing.T) {
	cache := NewRasterCache()
	chart := ScoreDonut(DefaultChartConfig(), 75)

	if err := cache.Rasterize("donut", chart.SVG, chart.W, chart.H, 3); err != nil {
		t.Fatalf("Rasterize: %v", err)
	}

	png, ok := cache.ChartPNG("donut")
	if !ok || len(png) == 0 {
		t.Fatal("rasterized chart not retrievable")
	}
	// PNG magic number.
	if png[0] != 0x89 || string(png[1:4]) != "PNG" {
		t.Error("cached bytes are not a PNG")
	}

	w, h, ok := cache.ChartSize("donut")
	if !ok || w != chart.W || h != chart.H {
		t.Errorf("ChartSize = (%d, %d, %v), want display size (%d, %d)", w, h, ok, chart.W, chart.H)
	}

	uri, ok := cache.DataURI("donut")
	if !ok || !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("DataURI = %q", uri)
	}

	if _, ok := cache.ChartPNG("absent"); ok {
		t.Error("unknown id reported as cached")
	}

	t.Run("rejects bad size", func(t *testing.T) {
		if err := cache.Rasterize("bad", chart.SVG, 0, 100, 1); err == nil {
			t.Error("zero display width accepted")
		}
	})
}
