package seals

import (
	"context"

	"github.com/capseal/capseal-go/internal/client/models"
)

// Repository persists synced-seal receipts. Seals are append-only from this
// subsystem's point of view: created once on a successful sync, never
// mutated, never deleted here.
type Repository interface {
	Add(ctx context.Context, s *models.SyncedSeal) error
	GetAll(ctx context.Context) ([]*models.SyncedSeal, error)
	GetByLocalID(ctx context.Context, localID string) (*models.SyncedSeal, error)
}
