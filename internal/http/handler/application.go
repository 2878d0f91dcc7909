package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"comesapi/internal/model"
	"comesapi/internal/repository"
	"comesapi/internal/service"
	"comesapi/internal/storage"
)

// applicationRequiredFiles are the four documents every application
// upload must include.
var applicationRequiredFiles = []string{"transcript", "degree_certificate", "resume", "ielts_score"}

// ListApplications returns all application records with a count.
func ListApplications(repo repository.ApplicationRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apps, err := repo.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{
			"applications": apps,
			"count":        len(apps),
		})
	}
}

// UploadApplication accepts the four required multipart files, stores
// them, and creates an uploaded application record.
func UploadApplication(repo repository.ApplicationRepository, store storage.Storage, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		files, missing, badKey, err := collectUploads(c, store, applicationRequiredFiles)
		if err != nil {
			log.Error("storing application upload failed", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "UPLOAD_FAILED", "failed to store uploaded file")
		}
		if badKey != "" {
			msg := fmt.Sprintf("file type not allowed for %s (allowed: %s)", badKey, allowedExtensionList())
			return writeError(c, fiber.StatusBadRequest, "INVALID_FILE_TYPE", msg)
		}
		if len(missing) > 0 {
			msg := "missing required files: " + strings.Join(missing, ", ")
			return writeError(c, fiber.StatusBadRequest, "MISSING_FILES", msg)
		}

		app := &model.Application{
			ID:     newRecordID(),
			Files:  files,
			Status: model.StatusUploaded,
		}
		if _, err := repo.Create(c.UserContext(), app); err != nil {
			log.Error("creating application record failed", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		log.Info("application uploaded", zap.String("application_id", app.ID), zap.Int("files", len(files)))

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":        "Files uploaded successfully",
			"application_id": app.ID,
			"uploaded_files": uploadedFilenames(files),
			"next_step": fiber.Map{
				"analyze": "/api/student-applications/analyze/" + app.ID,
				"status":  "/api/student-applications/" + app.ID,
			},
		})
	}
}

// AnalyzeApplication runs the analysis pipeline for an uploaded
// application. Results are persisted in two phases so a crash between
// analysis and summary generation leaves the partial result visible.
func AnalyzeApplication(repo repository.ApplicationRepository, svc service.DocumentAnalyzer, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		app, err := repo.FindByID(ctx, c.Params("id"))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "application not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		app.Status = model.StatusAnalyzing
		if app, err = repo.Save(ctx, app); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		result, err := svc.AnalyzeDocuments(ctx, app.Files)
		if err != nil {
			log.Error("document analysis failed",
				zap.String("application_id", app.ID), zap.Error(err))
			app.Status = model.StatusFailed
			msg := err.Error()
			app.ErrorMessage = &msg
			if _, serr := repo.Save(ctx, app); serr != nil {
				log.Error("recording failed analysis status failed",
					zap.String("application_id", app.ID), zap.Error(serr))
			}
			return writeError(c, fiber.StatusInternalServerError, "ANALYSIS_FAILED", "document analysis failed")
		}

		app.AnalysisResult = result
		app.Status = model.StatusAnalyzed
		if app, err = repo.Save(ctx, app); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		summary := svc.GenerateStructuredSummary(result)
		app.StructuredSummary = &summary
		app.Status = model.StatusCompleted
		if app, err = repo.Save(ctx, app); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		log.Info("application analyzed", zap.String("application_id", app.ID))

		return c.JSON(fiber.Map{
			"message":          "Analysis completed successfully",
			"application_id":   app.ID,
			"status":           app.Status,
			"analysis_summary": summary,
		})
	}
}

// GetApplication returns the full application record.
func GetApplication(repo repository.ApplicationRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		app, err := repo.FindByID(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "application not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(app)
	}
}

// GetTemplate serves the blank application-information template.
func GetTemplate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"template": applicationTemplate})
	}
}
