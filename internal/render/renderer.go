package render

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/model"
)

// Renderer turns a career report into the standalone HTML page the
// capture engine works from.
type Renderer struct {
	tplDir string
	// rasterScale is the oversampling factor chart canvases are
	// rasterized at for print-quality repaints.
	rasterScale float64
}

func NewRenderer(tplDir string, rasterScale float64) *Renderer {
	if tplDir == "" {
		tplDir = "templates"
	}
	if rasterScale <= 0 {
		rasterScale = 1
	}
	return &Renderer{tplDir: tplDir, rasterScale: rasterScale}
}

// Page is a fully rendered report document plus the raster cache
// backing its chart canvases.
type Page struct {
	HTML   string
	Charts *RasterCache
}

type pageData struct {
	Report      *model.CareerReport
	GeneratedAt string

	ScoreDonut template.HTML
	SkillChart template.HTML
	GapCanvas  template.HTML
	Timeline   template.HTML
}

// RenderPage executes report.html for the given report. Sections whose
// data is absent render no container at all; exports treat that as a
// silent skip.
func (r *Renderer) RenderPage(rep *model.CareerReport) (*Page, error) {
	if rep == nil {
		return nil, fmt.Errorf("render: nil report")
	}

	cfg := DefaultChartConfig()
	cache := NewRasterCache()

	data := pageData{
		Report:      rep,
		GeneratedAt: formatGeneratedAt(rep.GeneratedAt),
	}

	data.ScoreDonut = template.HTML(ScoreDonut(cfg, rep.ExecutiveSummary.MatchScore).SVG)
	if len(rep.SkillMapping.Skills) > 0 {
		data.SkillChart = template.HTML(SkillProficiencyChart(cfg, rep.SkillMapping.Skills).SVG)
	}
	if len(rep.SkillGapAnalysis.Gaps) > 0 {
		gapChart := GapPriorityChart(cfg, rep.SkillGapAnalysis.Gaps)
		if err := cache.Rasterize(GapChartID, gapChart.SVG, gapChart.W, gapChart.H, r.rasterScale); err != nil {
			slog.Warn("render: gap chart rasterization failed, canvas will stay blank", "error", err)
		}
		data.GapCanvas = template.HTML(CanvasTag(GapChartID, gapChart.W, gapChart.H))
	}
	if len(rep.CareerPathways.Pathways) > 0 {
		data.Timeline = template.HTML(PathwayTimeline(cfg, rep.CareerPathways.Pathways).SVG)
	}

	tplPath := filepath.Join(r.tplDir, "report.html")
	tpl, err := template.ParseFiles(tplPath)
	if err != nil {
		return nil, fmt.Errorf("render: parse %s: %w", tplPath, err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render: execute template: %w", err)
	}

	html := r.inlineStylesheet(buf.String())
	return &Page{HTML: html, Charts: cache}, nil
}

// inlineStylesheet embeds style.css into the head so the page renders
// identically from any directory, including the capture scratch dir.
func (r *Renderer) inlineStylesheet(html string) string {
	candidates := []string{
		filepath.Join(r.tplDir, "style.css"),
		filepath.Join(".", r.tplDir, "style.css"),
		"templates/style.css",
		"./style.css",
	}
	var cssContent string
	for _, c := range candidates {
		if b, err := os.ReadFile(c); err == nil {
			cssContent = string(b)
			break
		}
	}
	if cssContent == "" {
		slog.Warn("render: style.css not found, page will be unstyled")
		return html
	}

	cssBlock := "<style>" + cssContent + "</style>"
	if strings.Contains(strings.ToLower(html), "<head>") {
		return strings.Replace(html, "<head>", "<head>"+cssBlock, 1)
	}
	return cssBlock + html
}

func formatGeneratedAt(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("2 January 2006")
	}
	if s != "" {
		return s
	}
	return time.Now().UTC().Format("2 January 2006")
}
