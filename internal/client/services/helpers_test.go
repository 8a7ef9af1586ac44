package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/capseal/capseal-go/internal/client/client"
	"github.com/capseal/capseal-go/internal/client/models"
	"github.com/capseal/capseal-go/internal/client/repositories/captures"
	"github.com/capseal/capseal-go/internal/client/repositories/metadata"
	"github.com/capseal/capseal-go/internal/client/repositories/seals"
	"github.com/capseal/capseal-go/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type testRepos struct {
	repos    *client.Repositories
	captures captures.Repository
	seals    seals.Repository
	metadata metadata.Repository
	summary  *SummaryStore
}

func setupRepos(t *testing.T) *testRepos {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// the pool must not fan out over separate in-memory databases
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE pending_captures (
  local_id TEXT PRIMARY KEY,
  media_data BLOB NOT NULL,
  filename TEXT NOT NULL,
  mime_type TEXT NOT NULL,
  media_type TEXT NOT NULL,
  file_size INTEGER NOT NULL,
  local_hash TEXT NOT NULL,
  thumbnail TEXT NOT NULL DEFAULT '',
  captured_at INTEGER NOT NULL,
  location TEXT,
  device_attestation TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  sync_attempts INTEGER NOT NULL DEFAULT 0,
  last_sync_attempt INTEGER NOT NULL DEFAULT 0,
  error_message TEXT NOT NULL DEFAULT ''
);
CREATE TABLE synced_seals (
  seal_id TEXT PRIMARY KEY,
  local_id TEXT NOT NULL,
  timestamp INTEGER NOT NULL,
  trust_tier TEXT NOT NULL DEFAULT '',
  has_device_attestation INTEGER NOT NULL DEFAULT 0,
  thumbnail TEXT NOT NULL DEFAULT '',
  synced_at INTEGER NOT NULL
);
CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB);
`)
	require.NoError(t, err)

	repos := client.NewRepositories(db)

	return &testRepos{
		repos:    repos,
		captures: repos.Captures,
		seals:    repos.Seals,
		metadata: repos.Metadata,
		summary:  NewSummaryStore(repos.Metadata, repos.Captures),
	}
}

func quietLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func seedCapture(t *testing.T, r *testRepos, id string, status models.CaptureStatus, attempts int) *models.PendingCapture {
	t.Helper()
	c := &models.PendingCapture{
		LocalID:      id,
		MediaData:    []byte{0xFF, 0xD8, 0xFF, 0x01},
		Filename:     id + ".jpg",
		MimeType:     "image/jpeg",
		MediaType:    models.MediaTypeImage,
		FileSize:     4,
		LocalHash:    "cafebabe",
		Thumbnail:    "dGh1bWI=",
		CapturedAt:   1000,
		Status:       status,
		SyncAttempts: attempts,
	}
	require.NoError(t, r.captures.Add(context.Background(), c))
	return c
}
