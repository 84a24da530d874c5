package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/adapter/http"
	repo "github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/adapter/repository"
	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/config"
	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/export"
	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/infrastructure/migration"
	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/render"
	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/usecase"
	ai "github.com/sahil-skillgenix/CareerNavigatorAI-sub000/pkg/ai"
	infra "github.com/sahil-skillgenix/CareerNavigatorAI-sub000/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// analyses live in Mongo; the service cannot run without it
	mongoClient, err := infra.NewMongoClient(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo not available: %v", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()
	analysesRepo := repo.NewAnalysesRepo(mongoClient.Database(cfg.MongoDB))

	// export jobs live in Postgres; the service degrades without it
	jobsPool, err := infra.NewJobsPool(ctx, cfg.JobsDBURL)
	if err != nil {
		log.Printf("warning: jobs DB not available: %v", err)
	}
	if jobsPool != nil {
		defer jobsPool.Close()
		if err := migration.RunMigrations(ctx, jobsPool); err != nil {
			log.Printf("warning: migrations failed: %v", err)
		}
	}
	jobsRepo := repo.NewExportJobsRepo(jobsPool)

	aiClient, err := ai.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AIRequestsPerMinute)
	if err != nil {
		log.Fatalf("ai client: %v", err)
	}
	processor := usecase.NewProcessor(analysesRepo, aiClient)

	renderer := render.NewRenderer(cfg.TemplateDir, export.OversampleScale)
	hub := httpadapter.NewHub()
	notifier := export.MultiNotifier{
		export.LogNotifier{},
		hub,
		usecase.NewJobProgressSink(jobsRepo),
	}
	exporter := export.NewExporter(
		cfg.ExportDir,
		export.NewChromeFactory(infra.AllocatorOptions(cfg.ChromePath)),
		notifier,
	)
	exportSvc := usecase.NewExportService(renderer, exporter, analysesRepo, jobsRepo)

	app := fiber.New(fiber.Config{
		AppName:   "skillgenix-career-api",
		BodyLimit: 16 * 1024 * 1024, // CV uploads
	})
	h := httpadapter.NewHandler(processor, exportSvc, analysesRepo)
	httpadapter.RegisterRoutes(app, h, hub)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()
	slog.Info("server started", "port", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
