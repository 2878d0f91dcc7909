package repository

import (
	"context"

	"comesapi/internal/model"
)

// ApplicationRepository defines record access for student applications.
// No business logic here — strictly storage operations.
type ApplicationRepository interface {
	// Create stores a new application record. The caller provides the ID.
	Create(ctx context.Context, app *model.Application) (*model.Application, error)

	// Save overwrites an existing record (last-write-wins) and refreshes
	// its updated_at timestamp.
	Save(ctx context.Context, app *model.Application) (*model.Application, error)

	// FindByID returns an application by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Application, error)

	// List returns all applications in creation order.
	List(ctx context.Context) ([]model.Application, error)

	// Clear removes every record. Exposed for tests only.
	Clear(ctx context.Context) error
}

// VerificationRepository defines record access for transcript verifications.
type VerificationRepository interface {
	Create(ctx context.Context, v *model.TranscriptVerification) (*model.TranscriptVerification, error)
	Save(ctx context.Context, v *model.TranscriptVerification) (*model.TranscriptVerification, error)
	FindByID(ctx context.Context, id string) (*model.TranscriptVerification, error)
	List(ctx context.Context) ([]model.TranscriptVerification, error)
	Clear(ctx context.Context) error
}
