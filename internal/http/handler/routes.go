package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"comesapi/internal/repository"
	"comesapi/internal/service"
	"comesapi/internal/storage"
)

const (
	serviceName    = "Comes Student Application API"
	serviceVersion = "1.0.0"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Applications  repository.ApplicationRepository
	Verifications repository.VerificationRepository
	Analyzer      service.DocumentAnalyzer
	Verifier      service.TranscriptVerifier
	Store         storage.Storage
	Log           *zap.Logger
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
// Handlers stay thin; business logic lives in the service layer.
func RegisterRoutes(app *fiber.App, d Deps) {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}

	app.Get("/", Index())
	app.Get("/api/health", HealthCheck())
	app.Get("/healthz", LivenessProbe())

	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	api := app.Group("/api/student-applications")
	api.Get("/", ListApplications(d.Applications))
	api.Post("/upload", UploadApplication(d.Applications, d.Store, d.Log))
	api.Post("/analyze/:id", AnalyzeApplication(d.Applications, d.Analyzer, d.Log))
	api.Get("/template", GetTemplate())
	api.Post("/transcript/upload", UploadTranscript(d.Verifications, d.Store, d.Log))
	api.Post("/transcript/verify/:id", VerifyTranscript(d.Verifications, d.Verifier, d.Log))
	api.Get("/transcript", ListTranscriptVerifications(d.Verifications))
	api.Get("/transcript/:id", GetTranscriptVerification(d.Verifications))
	// Registered last so /template and /transcript don't match as IDs.
	api.Get("/:id", GetApplication(d.Applications))
}

// HealthCheck reports service identity and readiness. There are no
// backing dependencies to probe; records live in process memory.
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": serviceName,
			"version": serviceVersion,
		})
	}
}

// LivenessProbe is a bare liveness endpoint for orchestrators.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Index lists the main endpoints for anyone poking the API root.
func Index() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Comes Student Application Information API",
			"endpoints": fiber.Map{
				"health":               "/api/health",
				"student_applications": "/api/student-applications/",
				"upload":               "/api/student-applications/upload",
				"analyze":              "/api/student-applications/analyze",
			},
		})
	}
}
