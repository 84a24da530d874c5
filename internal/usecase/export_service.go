package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/domain"
	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/export"
	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/model"
	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/render"

	"github.com/google/uuid"
)

// ErrAnalysisNotReady rejects export requests for analyses that have not
// completed yet.
var ErrAnalysisNotReady = errors.New("analysis is not completed yet")

// AnalysesReader loads stored analyses for export.
type AnalysesReader interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.AnalysisJob, error)
}

// ExportJobsRepo persists export job rows.
type ExportJobsRepo interface {
	Save(ctx context.Context, j *domain.ExportJob) error
	Get(ctx context.Context, id uuid.UUID) (*domain.ExportJob, error)
}

// ExportService starts and tracks report exports: it renders the
// analysis into the live page, hands it to the capture engine, and keeps
// the job row in sync with progress.
type ExportService struct {
	renderer *render.Renderer
	exporter *export.Exporter
	analyses AnalysesReader
	jobs     ExportJobsRepo
}

func NewExportService(renderer *render.Renderer, exporter *export.Exporter, analyses AnalysesReader, jobs ExportJobsRepo) *ExportService {
	return &ExportService{renderer: renderer, exporter: exporter, analyses: analyses, jobs: jobs}
}

// StartExport creates and launches an export job for a completed
// analysis. Returns export.ErrExportBusy while one is already running;
// requests are never queued.
func (s *ExportService) StartExport(ctx context.Context, analysisID uuid.UUID) (*domain.ExportJob, error) {
	analysis, err := s.analyses.Get(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	if analysis.Status != domain.StatusCompleted {
		return nil, ErrAnalysisNotReady
	}
	if s.exporter.Busy(analysisID) {
		return nil, export.ErrExportBusy
	}

	report, err := model.ReportFromMap(analysis.Report)
	if err != nil {
		return nil, fmt.Errorf("load stored report: %w", err)
	}

	job := domain.NewExportJob(analysisID, report.UserName)
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("create export job: %w", err)
	}
	go s.runJob(job, report)
	return job, nil
}

// Job returns the stored state of an export job.
func (s *ExportService) Job(ctx context.Context, id uuid.UUID) (*domain.ExportJob, error) {
	return s.jobs.Get(ctx, id)
}

// runJob executes the export in the background. All failure paths land
// in one place: the job row is marked failed and the busy flag is
// already released by the exporter.
func (s *ExportService) runJob(job *domain.ExportJob, report *model.CareerReport) {
	ctx := context.Background()

	job.Status = domain.StatusProcessing
	job.UpdatedAt = time.Now().UTC()
	if err := s.jobs.Save(ctx, job); err != nil {
		slog.Warn("export: save processing status", "job", job.ID, "error", err)
	}

	page, err := s.renderer.RenderPage(report)
	if err != nil {
		s.failJob(ctx, job, fmt.Errorf("render report page: %w", err))
		return
	}

	res, err := s.exporter.Export(ctx, export.Request{
		JobID:       job.ID,
		AnalysisID:  job.AnalysisID,
		UserName:    job.UserName,
		PageHTML:    page.HTML,
		Charts:      page.Charts,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		s.failJob(ctx, job, err)
		return
	}

	job.Status = domain.StatusCompleted
	job.Error = ""
	job.Pages = res.Manifest.PageCount
	job.SectionsTotal = len(res.Manifest.Sections)
	job.SectionsDone = len(res.Manifest.Sections)
	job.ArtifactPath = res.Path
	job.UpdatedAt = time.Now().UTC()
	if err := s.jobs.Save(ctx, job); err != nil {
		slog.Error("export: save completed job", "job", job.ID, "error", err)
	}
}

func (s *ExportService) failJob(ctx context.Context, job *domain.ExportJob, err error) {
	slog.Error("export: job failed", "job", job.ID, "error", err)
	job.Status = domain.StatusFailed
	job.Error = err.Error()
	job.UpdatedAt = time.Now().UTC()
	if serr := s.jobs.Save(ctx, job); serr != nil {
		slog.Error("export: save failed job", "job", job.ID, "error", serr)
	}
}

// JobProgressSink mirrors section progress onto the stored job row so
// polling clients see "section N of M" without a websocket.
type JobProgressSink struct {
	jobs ExportJobsRepo
}

func NewJobProgressSink(jobs ExportJobsRepo) *JobProgressSink {
	return &JobProgressSink{jobs: jobs}
}

func (s *JobProgressSink) Notify(e export.Event) {
	switch e.Type {
	case export.EventJobStarted, export.EventSectionCompleted, export.EventSectionFailed:
	default:
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	job, err := s.jobs.Get(ctx, e.JobID)
	if err != nil {
		slog.Debug("export: progress sink skipped", "job", e.JobID, "error", err)
		return
	}
	job.SectionsTotal = e.Total
	if e.Index > job.SectionsDone {
		job.SectionsDone = e.Index
	}
	job.UpdatedAt = time.Now().UTC()
	if err := s.jobs.Save(ctx, job); err != nil {
		slog.Debug("export: progress sink save", "job", e.JobID, "error", err)
	}
}
