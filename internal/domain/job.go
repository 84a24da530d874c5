package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job statuses shared by analysis and export jobs.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// AnalysisJob tracks one career analysis request from intake to the
// persisted report.
type AnalysisJob struct {
	ID        uuid.UUID              `json:"id"`
	UserID    uuid.UUID              `json:"user_id"`
	Status    string                 `json:"status"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`

	// Profile is the submitted career profile form, plus extracted CV
	// text when a file was uploaded.
	Profile map[string]interface{} `json:"profile"`
	// Report is the completed analysis document, nil until done.
	Report map[string]interface{} `json:"report,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// ExportJob tracks one PDF export of a completed analysis. At most one
// export runs per analysis at a time; a second request while one is in
// flight is rejected, never queued.
type ExportJob struct {
	ID         uuid.UUID `json:"id"`
	AnalysisID uuid.UUID `json:"analysis_id"`
	UserName   string    `json:"user_name"`
	Status     string    `json:"status"`

	// Progress counts composited sections out of the resolved total.
	SectionsDone  int    `json:"sections_done"`
	SectionsTotal int    `json:"sections_total"`
	Pages         int    `json:"pages"`
	ArtifactPath  string `json:"artifact_path,omitempty"`
	Error         string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewExportJob builds a pending export job for an analysis.
func NewExportJob(analysisID uuid.UUID, userName string) *ExportJob {
	now := time.Now().UTC()
	return &ExportJob{
		ID:         uuid.New(),
		AnalysisID: analysisID,
		UserName:   userName,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
