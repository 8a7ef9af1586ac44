package services

import (
	"context"
	"testing"

	"github.com/capseal/capseal-go/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryLoadEmpty(t *testing.T) {
	r := setupRepos(t)

	sum, err := r.summary.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.PendingCount)
	assert.Nil(t, sum.LastSyncAt)
	assert.Empty(t, sum.LastSyncError)
}

func TestSummaryRefreshCountsQueueStatuses(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	seedCapture(t, r, "p1", models.StatusPending, 0)
	seedCapture(t, r, "p2", models.StatusSyncing, 1)
	seedCapture(t, r, "p3", models.StatusFailed, 2)

	require.NoError(t, r.summary.RefreshCount(ctx))

	sum, err := r.summary.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.PendingCount)
}

func TestSummaryRecordSuccessClearsError(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	require.NoError(t, r.summary.RecordError(ctx, "server error"))
	sum, err := r.summary.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "server error", sum.LastSyncError)

	require.NoError(t, r.summary.RecordSuccess(ctx, 1700000000123))
	sum, err = r.summary.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, sum.LastSyncError)
	require.NotNil(t, sum.LastSyncAt)
	assert.Equal(t, int64(1700000000123), *sum.LastSyncAt)
}

func TestSummaryErrorKeepsLastSyncAt(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	require.NoError(t, r.summary.RecordSuccess(ctx, 42))
	require.NoError(t, r.summary.RecordError(ctx, "boom"))

	sum, err := r.summary.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "boom", sum.LastSyncError)
	require.NotNil(t, sum.LastSyncAt)
	assert.Equal(t, int64(42), *sum.LastSyncAt)
}

func TestSummarySurvivesStoreRestart(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	require.NoError(t, r.summary.RecordSuccess(ctx, 99))

	reopened := NewSummaryStore(r.metadata, r.captures)
	sum, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, sum.LastSyncAt)
	assert.Equal(t, int64(99), *sum.LastSyncAt)
}
