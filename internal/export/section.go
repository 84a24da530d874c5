package export

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrSectionNotFound means the rendered page has no container for a
	// section key. Callers skip the section rather than fail the job.
	ErrSectionNotFound = errors.New("export: section not present in rendered page")

	// ErrExportBusy means an export is already running for the analysis.
	ErrExportBusy = errors.New("export: a job is already running for this analysis")
)

// Section identifies one report section by its stable key and the title
// shown in headers and the table of contents.
type Section struct {
	Key   string
	Title string
}

// DefaultSections returns the document order. Sections whose container is
// missing from a rendered page are skipped, but the relative order of the
// survivors never changes.
func DefaultSections() []Section {
	return []Section{
		{Key: "executive-summary", Title: "Executive Summary"},
		{Key: "skill-mapping", Title: "Skill Mapping"},
		{Key: "skill-gap-analysis", Title: "Skill Gap Analysis"},
		{Key: "career-pathways", Title: "Career Pathway Options"},
		{Key: "development-plan", Title: "Development Plan"},
		{Key: "learning-resources", Title: "Learning Resources"},
	}
}

// CapturedSection is the immutable result of rasterizing one section:
// the bitmap plus its pixel dimensions. Pagination reads it, never
// mutates it.
type CapturedSection struct {
	Section Section
	Image   image.Image
	Width   int
	Height  int
}

// NewCapturedSection wraps a decoded bitmap, recording its dimensions.
func NewCapturedSection(sec Section, img image.Image) *CapturedSection {
	b := img.Bounds()
	return &CapturedSection{Section: sec, Image: img, Width: b.Dx(), Height: b.Dy()}
}

// ChartSource supplies pre-rasterized chart pixels for canvas repaints
// inside section snapshots.
type ChartSource interface {
	// ChartPNG returns the encoded bitmap for a chart id, if one was
	// rasterized during page rendering.
	ChartPNG(id string) ([]byte, bool)
	// ChartSize returns the display dimensions the chart was laid out at.
	ChartSize(id string) (w, h int, ok bool)
}

// SectionCapturer turns one resolved section of a rendered page into a
// bitmap. Implementations are driven sequentially by the exporter.
type SectionCapturer interface {
	Capture(ctx context.Context, sec Section) (*CapturedSection, error)
}
