package render

import (
	"fmt"
	"strings"

	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/model"
)

// SVG chart builders for the report page. Output is deterministic for a
// given report so captures are reproducible.

// ChartConfig holds shared chart dimensions and palette.
type ChartConfig struct {
	Width   int
	Height  int
	Padding int

	BarColor   string
	GridColor  string
	TextColor  string
	AccentHigh string
	AccentMed  string
	AccentLow  string
}

// DefaultChartConfig returns the report palette.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      760,
		Height:     320,
		Padding:    48,
		BarColor:   "#2563eb",
		GridColor:  "#e2e8f0",
		TextColor:  "#334155",
		AccentHigh: "#dc2626",
		AccentMed:  "#d97706",
		AccentLow:  "#16a34a",
	}
}

// Chart canvas identifiers referenced by the report template.
const (
	GapChartID = "gap-priorities"
)

// Chart is a built SVG with its display dimensions.
type Chart struct {
	SVG  string
	W, H int
}

// SkillProficiencyChart renders mapped skills as horizontal bars on a
// 1-5 proficiency axis.
func SkillProficiencyChart(cfg ChartConfig, skills []model.SkillEntry) Chart {
	if len(skills) > 12 {
		skills = skills[:12]
	}
	rowH := 22
	gap := 8
	height := cfg.Padding*2 + len(skills)*(rowH+gap)
	plotW := cfg.Width - cfg.Padding*2 - 140

	var b strings.Builder
	writeHeader(&b, cfg.Width, height)
	writeProficiencyGrid(&b, cfg, height, plotW)

	y := cfg.Padding
	for _, s := range skills {
		w := plotW * clampProficiency(s.Proficiency) / 5
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" fill="%s" text-anchor="end">%s</text>`,
			cfg.Padding+132, y+rowH/2+4, cfg.TextColor, escapeText(s.Name))
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" rx="3" fill="%s" opacity="0.9"/>`,
			cfg.Padding+140, y, w, rowH, cfg.BarColor)
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11" fill="%s">%d/5</text>`,
			cfg.Padding+146+w, y+rowH/2+4, cfg.TextColor, clampProficiency(s.Proficiency))
		y += rowH + gap
	}

	b.WriteString("</svg>")
	return Chart{SVG: b.String(), W: cfg.Width, H: height}
}

// GapPriorityChart renders skill gaps as bars colored by priority; the
// bar length encodes priority weight so high-priority gaps dominate the
// visual.
func GapPriorityChart(cfg ChartConfig, gaps []model.SkillGap) Chart {
	if len(gaps) > 10 {
		gaps = gaps[:10]
	}
	rowH := 24
	gap := 10
	height := cfg.Padding*2 + len(gaps)*(rowH+gap)
	plotW := cfg.Width - cfg.Padding*2 - 160

	var b strings.Builder
	writeHeader(&b, cfg.Width, height)

	y := cfg.Padding
	for _, g := range gaps {
		weight, color := priorityWeight(cfg, g.Priority)
		w := plotW * weight / 100
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" fill="%s" text-anchor="end">%s</text>`,
			cfg.Padding+152, y+rowH/2+4, cfg.TextColor, escapeText(g.Skill))
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" rx="3" fill="%s"/>`,
			cfg.Padding+160, y, w, rowH, color)
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11" fill="%s">%s</text>`,
			cfg.Padding+166+w, y+rowH/2+4, cfg.TextColor, g.Priority)
		y += rowH + gap
	}

	b.WriteString("</svg>")
	return Chart{SVG: b.String(), W: cfg.Width, H: height}
}

// PathwayTimeline renders each pathway as a horizontal step sequence.
func PathwayTimeline(cfg ChartConfig, pathways []model.Pathway) Chart {
	if len(pathways) > 4 {
		pathways = pathways[:4]
	}
	laneH := 64
	height := cfg.Padding + len(pathways)*laneH

	var b strings.Builder
	writeHeader(&b, cfg.Width, height)

	y := cfg.Padding
	for _, p := range pathways {
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="13" font-weight="bold" fill="%s">%s</text>`,
			cfg.Padding, y, cfg.TextColor, escapeText(p.Title))
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11" fill="%s" text-anchor="end">%s</text>`,
			cfg.Width-cfg.Padding, y, cfg.TextColor, escapeText(p.Timeframe))

		steps := p.Steps
		if len(steps) > 6 {
			steps = steps[:6]
		}
		lineY := y + 20
		x0 := cfg.Padding
		x1 := cfg.Width - cfg.Padding
		fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`,
			x0, lineY, x1, lineY, cfg.GridColor)
		if len(steps) > 0 {
			span := x1 - x0
			for i, st := range steps {
				cx := x0
				if len(steps) > 1 {
					cx = x0 + span*i/(len(steps)-1)
				}
				fmt.Fprintf(&b, `<circle cx="%d" cy="%d" r="5" fill="%s"/>`, cx, lineY, cfg.BarColor)
				anchor := "middle"
				if i == 0 {
					anchor = "start"
				} else if i == len(steps)-1 {
					anchor = "end"
				}
				fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="10" fill="%s" text-anchor="%s">%s</text>`,
					cx, lineY+18, cfg.TextColor, anchor, escapeText(shorten(st.Title, 28)))
			}
		}
		y += laneH
	}

	b.WriteString("</svg>")
	return Chart{SVG: b.String(), W: cfg.Width, H: height}
}

// ScoreDonut renders the readiness score as a donut gauge.
func ScoreDonut(cfg ChartConfig, score int) Chart {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	size := 140
	r := 54.0
	circ := 2 * 3.14159265 * r
	filled := circ * float64(score) / 100

	var b strings.Builder
	writeHeader(&b, size, size)
	fmt.Fprintf(&b, `<circle cx="70" cy="70" r="%.0f" fill="none" stroke="%s" stroke-width="14"/>`, r, cfg.GridColor)
	fmt.Fprintf(&b, `<circle cx="70" cy="70" r="%.0f" fill="none" stroke="%s" stroke-width="14" stroke-dasharray="%.1f %.1f" stroke-linecap="round" transform="rotate(-90 70 70)"/>`,
		r, cfg.BarColor, filled, circ-filled)
	fmt.Fprintf(&b, `<text x="70" y="78" font-size="26" font-weight="bold" fill="%s" text-anchor="middle">%d%%</text>`, cfg.TextColor, score)
	b.WriteString("</svg>")
	return Chart{SVG: b.String(), W: size, H: size}
}

// CanvasTag emits the canvas element a chart renders into on the live
// dashboard; exports repaint it from the raster cache.
func CanvasTag(id string, w, h int) string {
	return fmt.Sprintf(`<canvas class="chart-canvas" data-chart-id="%s" width="%d" height="%d"></canvas>`, id, w, h)
}

func writeHeader(b *strings.Builder, w, h int) {
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="Helvetica, Arial, sans-serif">`, w, h, w, h)
}

func writeProficiencyGrid(b *strings.Builder, cfg ChartConfig, height, plotW int) {
	for i := 0; i <= 5; i++ {
		x := cfg.Padding + 140 + plotW*i/5
		fmt.Fprintf(b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`,
			x, cfg.Padding-8, x, height-cfg.Padding+8, cfg.GridColor)
		fmt.Fprintf(b, `<text x="%d" y="%d" font-size="10" fill="%s" text-anchor="middle">%d</text>`,
			x, cfg.Padding-14, cfg.TextColor, i)
	}
}

func priorityWeight(cfg ChartConfig, priority string) (int, string) {
	switch priority {
	case "high":
		return 100, cfg.AccentHigh
	case "medium":
		return 65, cfg.AccentMed
	case "low":
		return 35, cfg.AccentLow
	default:
		return 50, cfg.BarColor
	}
}

func clampProficiency(p int) int {
	if p < 1 {
		return 1
	}
	if p > 5 {
		return 5
	}
	return p
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func shorten(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
