package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/capseal/capseal-go/internal/client/models"
	"github.com/capseal/capseal-go/internal/client/repositories/captures"
	"github.com/capseal/capseal-go/internal/client/repositories/metadata"
	"github.com/capseal/capseal-go/internal/common"
)

// queueStatuses are the statuses that count as "still in the queue" for the
// summary's pending count.
var queueStatuses = []models.CaptureStatus{models.StatusPending, models.StatusSyncing, models.StatusFailed}

// SummaryStore maintains the persisted sync summary: a tiny projection of
// queue state kept in the metadata table so consumers can render it without
// touching the full capture store. It is a cache — the capture store stays
// authoritative — and is refreshed after every admission, deletion and sync
// completion.
type SummaryStore struct {
	meta     metadata.Repository
	captures captures.Repository
}

func NewSummaryStore(meta metadata.Repository, captures captures.Repository) *SummaryStore {
	return &SummaryStore{meta: meta, captures: captures}
}

// Load returns the persisted summary, or a zero summary when none has been
// stored yet.
func (s *SummaryStore) Load(ctx context.Context) (models.SyncSummary, error) {
	var sum models.SyncSummary

	data, err := s.meta.Get(ctx, common.SummaryStateKey)
	if err != nil {
		return sum, err
	}
	if data == nil {
		return sum, nil
	}
	if err := json.Unmarshal(data, &sum); err != nil {
		return sum, fmt.Errorf("failed to decode summary: %w", err)
	}
	return sum, nil
}

func (s *SummaryStore) save(ctx context.Context, sum models.SyncSummary) error {
	data, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return s.meta.Set(ctx, common.SummaryStateKey, data)
}

// RefreshCount re-derives the pending count from the capture store.
func (s *SummaryStore) RefreshCount(ctx context.Context) error {
	sum, err := s.Load(ctx)
	if err != nil {
		return err
	}
	n, err := s.captures.Count(ctx, queueStatuses...)
	if err != nil {
		return err
	}
	sum.PendingCount = n
	return s.save(ctx, sum)
}

// RecordSuccess stores the completion timestamp of a successful sync, clears
// any recorded error and refreshes the count.
func (s *SummaryStore) RecordSuccess(ctx context.Context, syncedAt int64) error {
	sum, err := s.Load(ctx)
	if err != nil {
		return err
	}
	sum.LastSyncAt = &syncedAt
	sum.LastSyncError = ""

	n, err := s.captures.Count(ctx, queueStatuses...)
	if err != nil {
		return err
	}
	sum.PendingCount = n
	return s.save(ctx, sum)
}

// RecordError stores the most recent sync failure message and refreshes the
// count.
func (s *SummaryStore) RecordError(ctx context.Context, msg string) error {
	sum, err := s.Load(ctx)
	if err != nil {
		return err
	}
	sum.LastSyncError = msg

	n, err := s.captures.Count(ctx, queueStatuses...)
	if err != nil {
		return err
	}
	sum.PendingCount = n
	return s.save(ctx, sum)
}
