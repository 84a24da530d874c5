package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	migrations := []Migration{
		{
			Name: "create_export_jobs",
			Up: func(ctx context.Context, pool *pgxpool.Pool) error {
				return createExportJobs(ctx, pool)
			},
		},
		{
			Name: "create_export_artifacts",
			Up: func(ctx context.Context, pool *pgxpool.Pool) error {
				return createExportArtifacts(ctx, pool)
			},
		},
		{
			Name: "index_export_jobs_analysis_id",
			Up: func(ctx context.Context, pool *pgxpool.Pool) error {
				return indexExportJobsAnalysisID(ctx, pool)
			},
		},
	}

	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

func createExportJobs(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS export_jobs (
			id UUID PRIMARY KEY,
			analysis_id UUID NOT NULL,
			user_name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			sections_done INT NOT NULL DEFAULT 0,
			sections_total INT NOT NULL DEFAULT 0,
			pages INT NOT NULL DEFAULT 0,
			artifact_path TEXT,
			error TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`

	if _, err := pool.Exec(ctx, query); err != nil {
		return err
	}
	return nil
}

func createExportArtifacts(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS export_artifacts (
			id UUID PRIMARY KEY,
			analysis_id UUID NOT NULL,
			file_name TEXT NOT NULL,
			file_path TEXT NOT NULL,
			pages INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL
		);
	`

	if _, err := pool.Exec(ctx, query); err != nil {
		return err
	}
	return nil
}

func indexExportJobsAnalysisID(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE INDEX IF NOT EXISTS idx_export_jobs_analysis_id
		ON export_jobs (analysis_id, created_at DESC);
	`

	if _, err := pool.Exec(ctx, query); err != nil {
		// Log the error but don't fail - the index may already exist
		slog.Warn("Error creating export_jobs index (may already exist)", "error", err)
		return nil
	}
	return nil
}
