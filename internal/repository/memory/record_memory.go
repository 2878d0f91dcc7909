package memory

import (
	"context"
	"sync"
	"time"

	"comesapi/internal/model"
	"comesapi/internal/repository"
)

// ApplicationMemory is an in-memory implementation of
// repository.ApplicationRepository backed by a map keyed by record ID.
// Updates are last-write-wins; the map itself is guarded by a mutex so the
// store is safe to share across request handlers.
type ApplicationMemory struct {
	mu      sync.RWMutex
	records map[string]model.Application
	order   []string
}

// NewApplicationMemory creates an empty application store.
func NewApplicationMemory() *ApplicationMemory {
	return &ApplicationMemory{records: make(map[string]model.Application)}
}

var _ repository.ApplicationRepository = (*ApplicationMemory)(nil)

func (r *ApplicationMemory) Create(_ context.Context, app *model.Application) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := *app
	stored.CreatedAt = now
	stored.UpdatedAt = now

	if _, exists := r.records[stored.ID]; !exists {
		r.order = append(r.order, stored.ID)
	}
	r.records[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *ApplicationMemory) Save(_ context.Context, app *model.Application) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, exists := r.records[app.ID]
	if !exists {
		return nil, repository.ErrNotFound
	}

	stored := *app
	stored.CreatedAt = prev.CreatedAt
	stored.UpdatedAt = time.Now()
	r.records[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *ApplicationMemory) FindByID(_ context.Context, id string) (*model.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.records[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	out := stored
	return &out, nil
}

func (r *ApplicationMemory) List(_ context.Context) ([]model.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Application, 0, len(r.order))
	for _, id := range r.order {
		if stored, exists := r.records[id]; exists {
			out = append(out, stored)
		}
	}
	return out, nil
}

func (r *ApplicationMemory) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = make(map[string]model.Application)
	r.order = nil
	return nil
}

// VerificationMemory is the in-memory transcript verification store.
// Same discipline as ApplicationMemory.
type VerificationMemory struct {
	mu      sync.RWMutex
	records map[string]model.TranscriptVerification
	order   []string
}

// NewVerificationMemory creates an empty verification store.
func NewVerificationMemory() *VerificationMemory {
	return &VerificationMemory{records: make(map[string]model.TranscriptVerification)}
}

var _ repository.VerificationRepository = (*VerificationMemory)(nil)

func (r *VerificationMemory) Create(_ context.Context, v *model.TranscriptVerification) (*model.TranscriptVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := *v
	stored.CreatedAt = now
	stored.UpdatedAt = now

	if _, exists := r.records[stored.ID]; !exists {
		r.order = append(r.order, stored.ID)
	}
	r.records[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *VerificationMemory) Save(_ context.Context, v *model.TranscriptVerification) (*model.TranscriptVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, exists := r.records[v.ID]
	if !exists {
		return nil, repository.ErrNotFound
	}

	stored := *v
	stored.CreatedAt = prev.CreatedAt
	stored.UpdatedAt = time.Now()
	r.records[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *VerificationMemory) FindByID(_ context.Context, id string) (*model.TranscriptVerification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.records[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	out := stored
	return &out, nil
}

func (r *VerificationMemory) List(_ context.Context) ([]model.TranscriptVerification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.TranscriptVerification, 0, len(r.order))
	for _, id := range r.order {
		if stored, exists := r.records[id]; exists {
			out = append(out, stored)
		}
	}
	return out, nil
}

func (r *VerificationMemory) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = make(map[string]model.TranscriptVerification)
	r.order = nil
	return nil
}
