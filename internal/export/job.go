package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CapturerFactory builds the section capturer for one job. The returned
// func releases whatever the capturer holds (browser, scratch space) and
// runs on every exit path.
type CapturerFactory func(ctx context.Context, snap *Snapshot) (SectionCapturer, func(), error)

// Request describes one export job.
type Request struct {
	JobID       uuid.UUID
	AnalysisID  uuid.UUID
	UserName    string
	PageHTML    string
	Charts      ChartSource
	GeneratedAt time.Time
}

// Result is what a finished job produced.
type Result struct {
	Path     string
	Manifest Manifest
}

// Exporter turns rendered report pages into paginated PDF documents. At
// most one job runs per analysis; a second request while one is active
// fails with ErrExportBusy rather than queueing.
type Exporter struct {
	outDir   string
	sections []Section
	factory  CapturerFactory
	notifier Notifier
	active   sync.Map
}

func NewExporter(outDir string, factory CapturerFactory, notifier Notifier) *Exporter {
	return &Exporter{
		outDir:   outDir,
		sections: DefaultSections(),
		factory:  factory,
		notifier: notifier,
	}
}

// Export runs one job to completion: resolve sections against the page,
// capture each in order, paginate and assemble, then write the artifact.
// A section that fails to capture becomes a placeholder block and the
// job carries on; failures outside section scope fail the whole job. The
// busy flag for the analysis is cleared on every exit path.
func (e *Exporter) Export(ctx context.Context, req Request) (*Result, error) {
	if _, loaded := e.active.LoadOrStore(req.AnalysisID, struct{}{}); loaded {
		return nil, ErrExportBusy
	}
	defer e.active.Delete(req.AnalysisID)

	res, err := e.run(ctx, req)
	if err != nil {
		e.notify(Event{Type: EventJobFailed, JobID: req.JobID, AnalysisID: req.AnalysisID, Err: err.Error()})
		return nil, err
	}
	e.notify(Event{
		Type:       EventJobCompleted,
		JobID:      req.JobID,
		AnalysisID: req.AnalysisID,
		Pages:      res.Manifest.PageCount,
		Path:       res.Path,
	})
	return res, nil
}

// Busy reports whether an export is currently running for the analysis.
func (e *Exporter) Busy(analysisID uuid.UUID) bool {
	_, ok := e.active.Load(analysisID)
	return ok
}

func (e *Exporter) run(ctx context.Context, req Request) (*Result, error) {
	generatedAt := req.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	snap, err := NewSnapshot(req.PageHTML, req.Charts)
	if err != nil {
		return nil, err
	}
	resolved := snap.Resolve(e.sections)
	total := len(resolved)
	e.notify(Event{Type: EventJobStarted, JobID: req.JobID, AnalysisID: req.AnalysisID, Total: total})

	builder := NewDocumentBuilder(DocumentMeta{UserName: req.UserName, GeneratedAt: generatedAt})
	builder.AddTitlePage(resolved)

	capturer, release, err := e.factory(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("export: start capturer: %w", err)
	}
	defer release()

	for i, sec := range resolved {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.notify(Event{
			Type: EventSectionStarted, JobID: req.JobID, AnalysisID: req.AnalysisID,
			Section: sec.Key, Index: i + 1, Total: total,
		})
		builder.StartSection(sec, i+1)

		cs, err := capturer.Capture(ctx, sec)
		if err != nil {
			builder.PlaceFailure(sec)
			e.notify(Event{
				Type: EventSectionFailed, JobID: req.JobID, AnalysisID: req.AnalysisID,
				Section: sec.Key, Index: i + 1, Total: total, Err: err.Error(),
			})
		} else {
			if err := builder.PlaceSection(cs); err != nil {
				return nil, err
			}
			e.notify(Event{
				Type: EventSectionCompleted, JobID: req.JobID, AnalysisID: req.AnalysisID,
				Section: sec.Key, Index: i + 1, Total: total,
			})
		}
		if i < total-1 {
			builder.SectionDivider()
		}
	}

	man, err := builder.Finish()
	if err != nil {
		return nil, err
	}
	man.Filename = ExportFilename(req.UserName, generatedAt)

	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create output dir: %w", err)
	}
	path := filepath.Join(e.outDir, man.Filename)
	if err := builder.Output(path); err != nil {
		return nil, err
	}
	return &Result{Path: path, Manifest: man}, nil
}

func (e *Exporter) notify(ev Event) {
	if e.notifier != nil {
		e.notifier.Notify(ev)
	}
}
