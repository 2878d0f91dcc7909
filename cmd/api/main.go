package main

import (
	"context"
	"errors"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"comesapi/internal/ai"
	"comesapi/internal/config"
	"comesapi/internal/extract"
	handlers "comesapi/internal/http/handler"
	"comesapi/internal/http/middleware"
	"comesapi/internal/logger"
	"comesapi/internal/otel"
	"comesapi/internal/repository/memory"
	"comesapi/internal/service"
	"comesapi/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	ctx := context.Background()

	// Tracing degrades to a no-op provider when the exporter is unreachable
	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer shutdownTracing(ctx)

	// Uploaded documents go to local disk by default; MinIO when configured
	var store storage.Storage
	switch cfg.StorageBackend {
	case "minio":
		store, err = storage.NewMinIO(cfg.MinIO)
	default:
		store, err = storage.NewLocal(cfg.UploadDir)
	}
	if err != nil {
		log.Fatal("failed to initialize storage", zap.String("backend", cfg.StorageBackend), zap.Error(err))
	}

	appRepo := memory.NewApplicationMemory()
	verRepo := memory.NewVerificationMemory()
	extractor := extract.New(log)

	// A missing or broken GenAI credential must not prevent startup:
	// uploads keep working and analysis reports the configuration error.
	var analyzer service.DocumentAnalyzer = service.UnavailableAnalyzer{}
	var verifier service.TranscriptVerifier = service.UnavailableVerifier{}

	gen, err := ai.NewGeminiClient(ctx, cfg.GenAI.APIKey)
	switch {
	case err == nil:
		defer gen.Close()
		analyzer = service.NewAnalysisService(gen, store, extractor, cfg.GenAI.AnalysisModel, log)
		verifier = service.NewTranscriptService(gen, store, extractor, cfg.GenAI.TranscriptModels, log)
	case errors.Is(err, ai.ErrMissingAPIKey):
		log.Warn("GOOGLE_GENAI_API_KEY not set; uploads will work but analysis is disabled")
	default:
		log.Warn("genai client initialization failed; analysis is disabled", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.MaxUploadBytes,
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))

	registry := prometheus.NewRegistry()
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, handlers.Deps{
		Applications:  appRepo,
		Verifications: verRepo,
		Analyzer:      analyzer,
		Verifier:      verifier,
		Store:         store,
		Log:           log,
	})

	addr := ":" + cfg.Port
	log.Info("starting server", zap.String("addr", addr), zap.String("storage_backend", cfg.StorageBackend))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
