package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts the API surface on the fiber app.
func RegisterRoutes(app *fiber.App, h *Handler, hub *Hub) {
	app.Use(requestLogger)

	api := app.Group("/api")
	api.Post("/analyses", h.SubmitAnalysis)
	api.Get("/analyses/:id", h.GetAnalysis)
	api.Post("/analyses/:id/export", h.StartExport)
	api.Get("/exports/:id", h.GetExport)
	api.Get("/exports/:id/download", h.DownloadExport)

	api.Use("/exports/:id/progress", UpgradeRequired)
	api.Get("/exports/:id/progress", websocket.New(hub.ServeProgress))

	app.Get("/health", h.Health)
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	slog.Info("http",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"took", time.Since(start),
	)
	return err
}
