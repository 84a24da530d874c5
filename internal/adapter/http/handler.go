package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	repo "github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/adapter/repository"
	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/cv"
	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/domain"
	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/export"
	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AnalysesStore is the slice of the analyses repository the handlers
// need.
type AnalysesStore interface {
	Save(ctx context.Context, j *domain.AnalysisJob) error
	Get(ctx context.Context, id uuid.UUID) (*domain.AnalysisJob, error)
}

type Handler struct {
	processor *usecase.Processor
	exports   *usecase.ExportService
	analyses  AnalysesStore
}

func NewHandler(p *usecase.Processor, e *usecase.ExportService, a AnalysesStore) *Handler {
	return &Handler{processor: p, exports: e, analyses: a}
}

type submitReq struct {
	UserID  string                 `json:"userId"`
	Profile map[string]interface{} `json:"profile"`
}

// SubmitAnalysis accepts the profile form, JSON or multipart with an
// attached CV, and starts the analysis in the background.
func (h *Handler) SubmitAnalysis(c *fiber.Ctx) error {
	var req submitReq

	if profileField := c.FormValue("profile"); profileField != "" {
		req.UserID = c.FormValue("userId")
		if err := json.Unmarshal([]byte(profileField), &req.Profile); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "profile field is not valid JSON"})
		}
		if text, err := h.extractCV(c); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		} else if text != "" {
			req.Profile["cv_text"] = text
		}
	} else if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	uid, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid userId"})
	}
	if req.Profile == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "profile is required"})
	}

	job := &domain.AnalysisJob{
		ID:        uuid.New(),
		UserID:    uid,
		Status:    domain.StatusPending,
		Metadata:  map[string]interface{}{},
		Profile:   req.Profile,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	// persist initial job (best-effort)
	if err := h.analyses.Save(context.Background(), job); err != nil {
		log.Printf("warning: failed to save analysis job: %v", err)
	}

	go func(j *domain.AnalysisJob) {
		if err := h.processor.Process(context.Background(), j); err != nil {
			log.Printf("analysis %s failed: %v", j.ID.String(), err)
		}
	}(job)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"analysisId": job.ID.String(),
		"status":     "started",
	})
}

// extractCV pulls text from an uploaded CV, if one came with the form.
func (h *Handler) extractCV(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("cv")
	if err != nil || file == nil {
		return "", nil
	}
	tmp := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveFile(file, tmp); err != nil {
		return "", errors.New("unable to store uploaded CV")
	}
	defer os.Remove(tmp)

	text, err := cv.ExtractText(tmp)
	if err != nil {
		return "", err
	}
	return text, nil
}

// GetAnalysis returns job status, and the report once completed.
func (h *Handler) GetAnalysis(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid analysis id"})
	}
	job, err := h.analyses.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrAnalysisNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "analysis not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage unavailable"})
	}

	resp := fiber.Map{
		"analysisId": job.ID.String(),
		"status":     job.Status,
		"createdAt":  job.CreatedAt,
		"updatedAt":  job.UpdatedAt,
	}
	if job.Status == domain.StatusCompleted {
		resp["report"] = job.Report
	}
	if job.Error != "" {
		resp["error"] = job.Error
	}
	return c.JSON(resp)
}

// StartExport launches a PDF export for a completed analysis. While one
// is running for the same analysis the request is rejected, not queued.
func (h *Handler) StartExport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid analysis id"})
	}

	job, err := h.exports.StartExport(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrAnalysisNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "analysis not found"})
		case errors.Is(err, usecase.ErrAnalysisNotReady):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "analysis is not completed yet"})
		case errors.Is(err, export.ErrExportBusy):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "an export is already running for this analysis"})
		default:
			log.Printf("start export for %s failed: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unable to start export"})
		}
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"exportId": job.ID.String(),
		"status":   "started",
	})
}

// GetExport reports export job progress and outcome.
func (h *Handler) GetExport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid export id"})
	}
	job, err := h.exports.Job(c.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrExportJobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "export job not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage unavailable"})
	}

	resp := fiber.Map{
		"exportId":      job.ID.String(),
		"analysisId":    job.AnalysisID.String(),
		"status":        job.Status,
		"sectionsDone":  job.SectionsDone,
		"sectionsTotal": job.SectionsTotal,
		"createdAt":     job.CreatedAt,
		"updatedAt":     job.UpdatedAt,
	}
	if job.Pages > 0 {
		resp["pages"] = job.Pages
	}
	if job.ArtifactPath != "" {
		resp["filename"] = filepath.Base(job.ArtifactPath)
	}
	if job.Error != "" {
		resp["error"] = job.Error
	}
	return c.JSON(resp)
}

// DownloadExport streams the finished PDF with its deterministic name.
func (h *Handler) DownloadExport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid export id"})
	}
	job, err := h.exports.Job(c.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrExportJobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "export job not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage unavailable"})
	}
	if job.Status != domain.StatusCompleted || job.ArtifactPath == "" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "export is not finished"})
	}
	return c.Download(job.ArtifactPath, filepath.Base(job.ArtifactPath))
}

// Health is the liveness probe.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
