package client

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/capseal/capseal-go/internal/client/models"
	"github.com/capseal/capseal-go/internal/client/repositories/captures"
	"github.com/capseal/capseal-go/internal/client/repositories/seals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDatabase_CreatesSchemaAndRepos(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "capseal.db")

	repos, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	// captures table usable
	require.NoError(t, repos.Captures.Add(ctx, &models.PendingCapture{
		LocalID: "id1", MediaData: []byte{1}, Filename: "a.jpg",
		MimeType: "image/jpeg", MediaType: models.MediaTypeImage,
		FileSize: 1, LocalHash: "h", CapturedAt: 1, Status: models.StatusPending,
	}))
	n, err := repos.Captures.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// seals table usable
	require.NoError(t, repos.Seals.Add(ctx, &models.SyncedSeal{SealID: "s1", LocalID: "id1", SyncedAt: 1}))

	// metadata table usable
	require.NoError(t, repos.Metadata.Set(ctx, "k", []byte("v")))
	got, err := repos.Metadata.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "capseal.db")

	repos, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	require.NoError(t, repos.Captures.Add(ctx, &models.PendingCapture{
		LocalID: "id1", MediaData: []byte{1}, Filename: "a.jpg",
		MimeType: "image/jpeg", MediaType: models.MediaTypeImage,
		FileSize: 1, LocalHash: "h", CapturedAt: 1, Status: models.StatusPending,
	}))

	sentinel := errors.New("stop")
	err = repos.InTx(ctx, func(c captures.Repository, s seals.Repository) error {
		if err := s.Add(ctx, &models.SyncedSeal{SealID: "s1", LocalID: "id1", SyncedAt: 1}); err != nil {
			return err
		}
		if err := c.DeleteByLocalID(ctx, "id1"); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	// neither half of the aborted transaction is visible
	n, err := repos.Captures.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	all, err := repos.Seals.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestInTx_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "capseal.db")

	repos, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	require.NoError(t, repos.Captures.Add(ctx, &models.PendingCapture{
		LocalID: "id1", MediaData: []byte{1}, Filename: "a.jpg",
		MimeType: "image/jpeg", MediaType: models.MediaTypeImage,
		FileSize: 1, LocalHash: "h", CapturedAt: 1, Status: models.StatusPending,
	}))

	err = repos.InTx(ctx, func(c captures.Repository, s seals.Repository) error {
		if err := s.Add(ctx, &models.SyncedSeal{SealID: "s1", LocalID: "id1", SyncedAt: 1}); err != nil {
			return err
		}
		return c.DeleteByLocalID(ctx, "id1")
	})
	require.NoError(t, err)

	n, err := repos.Captures.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	all, err := repos.Seals.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestInitDatabase_MigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "capseal.db")

	repos, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, repos.Close())

	// reopening the same file must not fail or lose data
	repos2, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos2.Close() })
}
