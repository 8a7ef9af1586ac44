package captures

import (
	"context"

	"github.com/capseal/capseal-go/internal/client/models"
)

// Patch is a partial update of a capture's sync bookkeeping fields. Nil
// fields are left untouched.
type Patch struct {
	Status          *models.CaptureStatus
	SyncAttempts    *int
	LastSyncAttempt *int64
	ErrorMessage    *string
}

// Repository persists pending captures across restarts.
//
// Update and DeleteByLocalID treat a missing row as a benign no-op: the
// record may have been removed by a concurrent deletion, which is a
// legitimate race, not an error.
type Repository interface {
	Add(ctx context.Context, c *models.PendingCapture) error
	GetByLocalID(ctx context.Context, localID string) (*models.PendingCapture, error)
	GetByStatus(ctx context.Context, statuses ...models.CaptureStatus) ([]*models.PendingCapture, error)
	GetAll(ctx context.Context) ([]*models.PendingCapture, error)
	Update(ctx context.Context, localID string, p Patch) error
	DeleteByLocalID(ctx context.Context, localID string) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context, statuses ...models.CaptureStatus) (int, error)
}
