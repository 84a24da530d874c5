package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var ErrExportJobNotFound = errors.New("export job not found")

// ExportJobsRepo persists export-job bookkeeping in Postgres. A nil
// pool is tolerated: the service keeps exporting, it just loses the
// audit trail.
type ExportJobsRepo struct {
	pool *pgxpool.Pool
}

func NewExportJobsRepo(pool *pgxpool.Pool) *ExportJobsRepo {
	return &ExportJobsRepo{pool: pool}
}

func (r *ExportJobsRepo) Save(ctx context.Context, j *domain.ExportJob) error {
	if r.pool == nil {
		return nil
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO export_jobs (id, analysis_id, user_name, status, sections_done, sections_total, pages, artifact_path, error, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, sections_done = EXCLUDED.sections_done, sections_total = EXCLUDED.sections_total, pages = EXCLUDED.pages, artifact_path = EXCLUDED.artifact_path, error = EXCLUDED.error, updated_at = EXCLUDED.updated_at`,
		j.ID, j.AnalysisID, j.UserName, j.Status, j.SectionsDone, j.SectionsTotal, j.Pages, j.ArtifactPath, j.Error, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return err
	}

	// Best-effort: record the finished artifact so downloads survive a
	// restart even if the job row is later overwritten by a retry.
	if j.Status == domain.StatusCompleted && j.ArtifactPath != "" {
		if _, e := r.pool.Exec(ctx, `INSERT INTO export_artifacts (id, analysis_id, file_name, file_path, pages, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (id) DO UPDATE SET file_name = EXCLUDED.file_name, file_path = EXCLUDED.file_path, pages = EXCLUDED.pages`,
			j.ID, j.AnalysisID, filepath.Base(j.ArtifactPath), j.ArtifactPath, j.Pages, j.CreatedAt); e != nil {
			fmt.Printf("jobs_repo: unable to upsert export_artifacts row (non-fatal): %v\n", e)
		}
	}

	return nil
}

func (r *ExportJobsRepo) Get(ctx context.Context, id uuid.UUID) (*domain.ExportJob, error) {
	if r.pool == nil {
		return nil, ErrExportJobNotFound
	}

	j := &domain.ExportJob{}
	err := r.pool.QueryRow(ctx, `SELECT id, analysis_id, user_name, status, sections_done, sections_total, pages, COALESCE(artifact_path,''), COALESCE(error,''), created_at, updated_at
		FROM export_jobs WHERE id = $1`, id).
		Scan(&j.ID, &j.AnalysisID, &j.UserName, &j.Status, &j.SectionsDone, &j.SectionsTotal, &j.Pages, &j.ArtifactPath, &j.Error, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExportJobNotFound
		}
		return nil, err
	}
	return j, nil
}
