package main

import (
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"clipgenius/editor-service/config"
	"clipgenius/editor-service/handlers"
	"clipgenius/editor-service/internal/editor"
	"clipgenius/editor-service/internal/jobs"
	"clipgenius/editor-service/internal/persistence"
	"clipgenius/editor-service/internal/renderclient"
	"clipgenius/editor-service/internal/worker"
	"clipgenius/editor-service/middleware"
)

func main() {
	config.InitLogger()
	log := config.Log

	if err := config.InitSupabase(); err != nil {
		log.Fatalf("Failed to initialize Supabase: %v", err)
	}

	renderURL := os.Getenv("RENDER_SERVICE_URL")
	if renderURL == "" {
		renderURL = "http://localhost:9090"
	}

	workerCount := 4
	if n, err := strconv.Atoi(os.Getenv("WORKER_COUNT")); err == nil && n > 0 {
		workerCount = n
	}

	documents := persistence.NewDocumentStore(config.SupabaseClient, log)
	jobStatuses := jobs.NewStatusStore(config.SupabaseClient, log)
	render := renderclient.New(renderURL, log)
	editors := editor.NewRegistry(log)

	dispatcher := worker.NewDispatcher(workerCount, 64, log)
	dispatcher.Run()
	defer dispatcher.Stop()

	h := handlers.NewApplicationHandler(log, documents, editors, dispatcher, render, jobStatuses)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "editor service is healthy",
		})
	})

	apiV1 := app.Group("/api/v1")

	// Editor session routes, one editor per clip.
	clipEditor := apiV1.Group("/clips/:clipId/editor")
	clipEditor.Get("", h.GetEditorData)
	clipEditor.Put("", h.SaveEditorData)
	clipEditor.Delete("", h.CloseEditor)
	clipEditor.Post("/cues", h.AddCue)
	clipEditor.Patch("/cues/:cueId", h.UpdateCue)
	clipEditor.Delete("/cues/:cueId", h.DeleteCue)
	clipEditor.Put("/style", h.UpdateStyle)
	clipEditor.Post("/undo", h.Undo)
	clipEditor.Post("/redo", h.Redo)
	clipEditor.Put("/viewport", h.UpdateViewport)
	clipEditor.Get("/frame", h.GetFrame)
	clipEditor.Post("/pointer", h.PointerEvent)

	// Export routes.
	apiV1.Post("/clips/:clipId/export", h.ExportClip)
	apiV1.Get("/jobs", h.ListJobs)
	apiV1.Get("/jobs/:jobId", h.GetJobStatus)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Infof("Starting editor service on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
