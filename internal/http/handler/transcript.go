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

// transcriptRequiredFiles maps each upload type to the multipart keys it
// requires.
var transcriptRequiredFiles = map[string][]string{
	model.UploadTypeSingle:   {"transcript"},
	model.UploadTypeSeparate: {"transcript_zh", "transcript_en"},
}

// UploadTranscript accepts transcript files for verification. The
// upload_type form field selects between one bilingual file and a
// Chinese/English pair.
func UploadTranscript(repo repository.VerificationRepository, store storage.Storage, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uploadType := c.FormValue("upload_type", model.UploadTypeSingle)
		required, ok := transcriptRequiredFiles[uploadType]
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_UPLOAD_TYPE",
				`invalid upload_type, must be "single" or "separate"`)
		}

		files, missing, badKey, err := collectUploads(c, store, required)
		if err != nil {
			log.Error("storing transcript upload failed", zap.Error(err))
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

		v := &model.TranscriptVerification{
			ID:         newRecordID(),
			Files:      files,
			UploadType: uploadType,
			Status:     model.StatusUploaded,
		}
		if _, err := repo.Create(c.UserContext(), v); err != nil {
			log.Error("creating verification record failed", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		log.Info("transcript uploaded",
			zap.String("verification_id", v.ID), zap.String("upload_type", uploadType))

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":         "Transcript files uploaded successfully",
			"verification_id": v.ID,
			"upload_type":     uploadType,
			"uploaded_files":  uploadedFilenames(files),
			"next_step": fiber.Map{
				"verify": "/api/student-applications/transcript/verify/" + v.ID,
				"status": "/api/student-applications/transcript/" + v.ID,
			},
		})
	}
}

// VerifyTranscript runs the verification pipeline for an uploaded
// transcript, persisting the raw result before rendering the report.
func VerifyTranscript(repo repository.VerificationRepository, svc service.TranscriptVerifier, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		v, err := repo.FindByID(ctx, c.Params("id"))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "transcript verification not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		v.Status = model.StatusAnalyzing
		if v, err = repo.Save(ctx, v); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		result, err := svc.VerifyTranscript(ctx, v.Files, v.UploadType)
		if err != nil {
			log.Error("transcript verification failed",
				zap.String("verification_id", v.ID), zap.Error(err))
			v.Status = model.StatusFailed
			msg := err.Error()
			v.ErrorMessage = &msg
			if _, serr := repo.Save(ctx, v); serr != nil {
				log.Error("recording failed verification status failed",
					zap.String("verification_id", v.ID), zap.Error(serr))
			}
			return writeError(c, fiber.StatusInternalServerError, "VERIFICATION_FAILED", "transcript verification failed")
		}

		v.VerificationResult = result
		v.Status = model.StatusAnalyzed
		if v, err = repo.Save(ctx, v); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		structured := svc.GenerateStructuredTranscript(result)
		v.StructuredResult = &structured
		v.Status = model.StatusCompleted
		if v, err = repo.Save(ctx, v); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		log.Info("transcript verified", zap.String("verification_id", v.ID))

		return c.JSON(fiber.Map{
			"message":             "Transcript verification completed successfully",
			"verification_id":     v.ID,
			"status":              v.Status,
			"verification_result": result,
			"structured_result":   structured,
		})
	}
}

// GetTranscriptVerification returns the full verification record.
func GetTranscriptVerification(repo repository.VerificationRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := repo.FindByID(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "transcript verification not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(v)
	}
}

// ListTranscriptVerifications returns all verification records with a
// count.
func ListTranscriptVerifications(repo repository.VerificationRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vs, err := repo.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{
			"verifications": vs,
			"count":         len(vs),
		})
	}
}
