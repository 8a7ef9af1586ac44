// Package seals stores durable receipts of successful synchronizations.
package seals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/capseal/capseal-go/internal/client/models"
	"github.com/capseal/capseal-go/internal/common"
	"github.com/capseal/capseal-go/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Add inserts a seal receipt.
func (r *SQLiteRepository) Add(ctx context.Context, s *models.SyncedSeal) error {
	query := `INSERT INTO synced_seals
		(seal_id, local_id, timestamp, trust_tier, has_device_attestation, thumbnail, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.SealID, s.LocalID, s.Timestamp, s.TrustTier, s.HasDeviceAttestation, s.Thumbnail, s.SyncedAt)
	if err != nil {
		return fmt.Errorf("failed to insert seal: %w", err)
	}
	return nil
}

// GetAll lists all seals, most recently synced first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.SyncedSeal, error) {
	query := `SELECT seal_id, local_id, timestamp, trust_tier, has_device_attestation, thumbnail, synced_at
		FROM synced_seals ORDER BY synced_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select seals: %w", err)
	}
	defer rows.Close()

	var result []*models.SyncedSeal
	for rows.Next() {
		s := &models.SyncedSeal{}
		if err := rows.Scan(&s.SealID, &s.LocalID, &s.Timestamp, &s.TrustTier,
			&s.HasDeviceAttestation, &s.Thumbnail, &s.SyncedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByLocalID returns the seal that replaced the given pending capture, or
// common.ErrorNotFound.
func (r *SQLiteRepository) GetByLocalID(ctx context.Context, localID string) (*models.SyncedSeal, error) {
	query := `SELECT seal_id, local_id, timestamp, trust_tier, has_device_attestation, thumbnail, synced_at
		FROM synced_seals WHERE local_id = ?`
	row := r.db.QueryRowContext(ctx, query, localID)

	s := &models.SyncedSeal{}
	err := row.Scan(&s.SealID, &s.LocalID, &s.Timestamp, &s.TrustTier,
		&s.HasDeviceAttestation, &s.Thumbnail, &s.SyncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get seal: %w", err)
	}
	return s, nil
}
