package captures

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

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

const captureColumns = `local_id, media_data, filename, mime_type, media_type, file_size,
	local_hash, thumbnail, captured_at, location, device_attestation,
	status, sync_attempts, last_sync_attempt, error_message`

// Add inserts a new pending capture row.
func (r *SQLiteRepository) Add(ctx context.Context, c *models.PendingCapture) error {
	var loc sql.NullString
	if c.Location != nil {
		b, err := json.Marshal(c.Location)
		if err != nil {
			return fmt.Errorf("failed to encode location: %w", err)
		}
		loc = sql.NullString{String: string(b), Valid: true}
	}

	query := `INSERT INTO pending_captures (` + captureColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.LocalID, c.MediaData, c.Filename, c.MimeType, string(c.MediaType), c.FileSize,
		c.LocalHash, c.Thumbnail, c.CapturedAt, loc, c.DeviceAttestation,
		string(c.Status), c.SyncAttempts, c.LastSyncAttempt, c.ErrorMessage)
	if err != nil {
		return fmt.Errorf("failed to insert capture: %w", err)
	}
	return nil
}

func scanCapture(scan func(dest ...any) error) (*models.PendingCapture, error) {
	c := &models.PendingCapture{}
	var mediaType, status string
	var loc sql.NullString

	err := scan(&c.LocalID, &c.MediaData, &c.Filename, &c.MimeType, &mediaType, &c.FileSize,
		&c.LocalHash, &c.Thumbnail, &c.CapturedAt, &loc, &c.DeviceAttestation,
		&status, &c.SyncAttempts, &c.LastSyncAttempt, &c.ErrorMessage)
	if err != nil {
		return nil, err
	}

	c.MediaType = models.MediaType(mediaType)
	c.Status = models.CaptureStatus(status)

	if loc.Valid {
		var l models.Location
		if err := json.Unmarshal([]byte(loc.String), &l); err != nil {
			return nil, fmt.Errorf("failed to decode location: %w", err)
		}
		c.Location = &l
	}
	return c, nil
}

// GetByLocalID returns a single capture or common.ErrorNotFound.
func (r *SQLiteRepository) GetByLocalID(ctx context.Context, localID string) (*models.PendingCapture, error) {
	query := `SELECT ` + captureColumns + ` FROM pending_captures WHERE local_id = ?`
	row := r.db.QueryRowContext(ctx, query, localID)

	c, err := scanCapture(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get capture: %w", err)
	}
	return c, nil
}

func statusPlaceholders(statuses []models.CaptureStatus) (string, []any) {
	marks := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, s := range statuses {
		marks[i] = "?"
		args[i] = string(s)
	}
	return strings.Join(marks, ", "), args
}

// GetByStatus lists captures whose status matches any of the given values,
// ordered by capture time descending.
func (r *SQLiteRepository) GetByStatus(ctx context.Context, statuses ...models.CaptureStatus) ([]*models.PendingCapture, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	marks, args := statusPlaceholders(statuses)
	query := `SELECT ` + captureColumns + ` FROM pending_captures
		WHERE status IN (` + marks + `) ORDER BY captured_at DESC`
	return r.queryCaptures(ctx, query, args...)
}

// GetAll lists every capture, newest first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.PendingCapture, error) {
	query := `SELECT ` + captureColumns + ` FROM pending_captures ORDER BY captured_at DESC`
	return r.queryCaptures(ctx, query)
}

func (r *SQLiteRepository) queryCaptures(ctx context.Context, query string, args ...any) ([]*models.PendingCapture, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select captures: %w", err)
	}
	defer rows.Close()

	var result []*models.PendingCapture
	for rows.Next() {
		c, err := scanCapture(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update applies a partial update. A missing row is a no-op, not an error:
// the capture may have been deleted concurrently.
func (r *SQLiteRepository) Update(ctx context.Context, localID string, p Patch) error {
	var sets []string
	var args []any

	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*p.Status))
	}
	if p.SyncAttempts != nil {
		sets = append(sets, "sync_attempts = ?")
		args = append(args, *p.SyncAttempts)
	}
	if p.LastSyncAttempt != nil {
		sets = append(sets, "last_sync_attempt = ?")
		args = append(args, *p.LastSyncAttempt)
	}
	if p.ErrorMessage != nil {
		sets = append(sets, "error_message = ?")
		args = append(args, *p.ErrorMessage)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, localID)
	query := `UPDATE pending_captures SET ` + strings.Join(sets, ", ") + ` WHERE local_id = ?`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update capture: %w", err)
	}
	return nil
}

// DeleteByLocalID removes a capture row. Deleting a row that is already gone
// is a no-op.
func (r *SQLiteRepository) DeleteByLocalID(ctx context.Context, localID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_captures WHERE local_id = ?`, localID); err != nil {
		return fmt.Errorf("failed to delete capture: %w", err)
	}
	return nil
}

// DeleteAll clears the pending queue.
func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_captures`); err != nil {
		return fmt.Errorf("failed to clear captures: %w", err)
	}
	return nil
}

// Count returns the number of captures, optionally restricted to the given
// statuses.
func (r *SQLiteRepository) Count(ctx context.Context, statuses ...models.CaptureStatus) (int, error) {
	var row *sql.Row
	if len(statuses) == 0 {
		row = r.db.QueryRowContext(ctx, `SELECT count(*) FROM pending_captures`)
	} else {
		marks, args := statusPlaceholders(statuses)
		row = r.db.QueryRowContext(ctx, `SELECT count(*) FROM pending_captures WHERE status IN (`+marks+`)`, args...)
	}

	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count captures: %w", err)
	}
	return n, nil
}
