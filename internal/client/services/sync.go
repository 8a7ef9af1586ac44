package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/capseal/capseal-go/internal/client/client"
	"github.com/capseal/capseal-go/internal/client/models"
	"github.com/capseal/capseal-go/internal/client/repositories/captures"
	"github.com/capseal/capseal-go/internal/client/repositories/seals"
	"github.com/capseal/capseal-go/internal/common"
	"github.com/capseal/capseal-go/internal/logging"
)

// TokenProvider supplies a bearer token for a submission. Returning an error
// is not fatal: the attempt proceeds unauthenticated and the server decides.
type TokenProvider func(ctx context.Context) (string, error)

// genericSyncError is recorded when a failure carries no usable message.
const genericSyncError = "sync failed"

// SyncConfig holds the engine's tunable policy. The values are policy, not
// invariants; defaults match DefaultSyncConfig.
type SyncConfig struct {
	// Timeout bounds a single network submission. On expiry the request
	// is aborted and the attempt counts as failed.
	Timeout time.Duration

	// PaceDelay is the pause inserted between items of a batch run to
	// smooth load on the sealing service.
	PaceDelay time.Duration
}

func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		Timeout:   30 * time.Second,
		PaceDelay: 500 * time.Millisecond,
	}
}

// SyncService drives pending captures through network submission.
//
// Concurrency contract: an in-memory in-flight set guarantees at most one
// concurrent attempt per local id, regardless of whether the attempt came
// from a batch run, a manual sync or a retry. The persisted status field is
// deliberately not used for this guard — between reading and writing it a
// second caller could slip in.
type SyncService interface {
	// SyncOne submits a single capture. It returns (nil, nil) when the
	// capture is already in flight, no longer exists, or the submission
	// failed — failures are absorbed into the record's persisted state,
	// not thrown. A non-nil error indicates a local storage fault.
	SyncOne(ctx context.Context, localID string, tokens TokenProvider) (*client.SealResponse, error)

	// SyncAll drains every pending|failed capture serially. The eligible
	// set is snapshotted once at the start; captures admitted afterwards
	// wait for the next run.
	SyncAll(ctx context.Context, tokens TokenProvider) error

	// Retry resets a failed capture to pending, clearing its error, and
	// immediately attempts it again.
	Retry(ctx context.Context, localID string, tokens TokenProvider) (*client.SealResponse, error)

	// IsSyncing reports whether a batch run is in progress.
	IsSyncing() bool

	// InFlight reports whether the given capture has an attempt running.
	InFlight(localID string) bool
}

type syncService struct {
	api      client.SealClient
	repos    *client.Repositories
	captures captures.Repository
	seals    seals.Repository
	summary  *SummaryStore
	log      logging.Logger
	cfg      SyncConfig

	mu       sync.Mutex
	inFlight map[string]struct{}

	batchRunning atomic.Bool

	// now is a test seam.
	now func() time.Time
}

func NewSyncService(
	api client.SealClient,
	repos *client.Repositories,
	summary *SummaryStore,
	log logging.Logger,
	cfg SyncConfig,
) SyncService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSyncConfig().Timeout
	}
	return &syncService{
		api:      api,
		repos:    repos,
		captures: repos.Captures,
		seals:    repos.Seals,
		summary:  summary,
		log:      log,
		cfg:      cfg,
		inFlight: make(map[string]struct{}),
		now:      time.Now,
	}
}

// tryAcquire atomically claims the single-flight slot for localID.
func (s *syncService) tryAcquire(localID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inFlight[localID]; ok {
		return false
	}
	s.inFlight[localID] = struct{}{}
	return true
}

func (s *syncService) release(localID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, localID)
}

func (s *syncService) InFlight(localID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[localID]
	return ok
}

func (s *syncService) IsSyncing() bool {
	return s.batchRunning.Load()
}

func (s *syncService) SyncOne(ctx context.Context, localID string, tokens TokenProvider) (*client.SealResponse, error) {
	if !s.tryAcquire(localID) {
		return nil, nil
	}
	defer s.release(localID)

	rec, err := s.captures.GetByLocalID(ctx, localID)
	if errors.Is(err, common.ErrorNotFound) {
		// deleted concurrently; benign
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	startedAt := s.now().UnixMilli()
	attempts := rec.SyncAttempts + 1
	syncing := models.StatusSyncing
	noError := ""
	err = s.captures.Update(ctx, localID, captures.Patch{
		Status:          &syncing,
		SyncAttempts:    &attempts,
		LastSyncAttempt: &startedAt,
		ErrorMessage:    &noError,
	})
	if err != nil {
		return nil, err
	}

	token := ""
	if tokens != nil {
		tk, terr := tokens(ctx)
		if terr != nil {
			s.log.Warn(ctx, "token unavailable, submitting unauthenticated",
				"local_id", localID, "error", terr.Error())
		} else {
			token = tk
		}
	}

	req := &client.SealRequest{
		Media:             rec.MediaData,
		Filename:          rec.Filename,
		MediaType:         rec.MediaType,
		DeviceAttestation: rec.DeviceAttestation,
		Location:          rec.Location,
	}

	subCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	resp, err := s.api.Seal(subCtx, req, token)
	cancel()

	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.log.Warn(ctx, "submission rejected as unauthorized, login again", "local_id", localID)
		}
		s.recordFailure(ctx, localID, attempts, err)
		return nil, nil
	}

	syncedAt := s.now().UnixMilli()
	seal := &models.SyncedSeal{
		SealID:               resp.SealID,
		LocalID:              rec.LocalID,
		Timestamp:            resp.Timestamp,
		TrustTier:            resp.TrustTier,
		HasDeviceAttestation: resp.HasDeviceAttestation,
		Thumbnail:            rec.Thumbnail,
		SyncedAt:             syncedAt,
	}
	err = s.repos.InTx(ctx, func(capturesTx captures.Repository, sealsTx seals.Repository) error {
		if err := sealsTx.Add(ctx, seal); err != nil {
			return err
		}
		return capturesTx.DeleteByLocalID(ctx, localID)
	})
	if err != nil {
		// the server sealed it but we could not record the receipt;
		// keep the capture row so nothing is lost
		s.recordFailure(ctx, localID, attempts, err)
		return nil, nil
	}

	if err := s.summary.RecordSuccess(ctx, syncedAt); err != nil {
		s.log.Warn(ctx, "failed to update summary", "error", err.Error())
	}

	s.log.Info(ctx, "capture sealed", "local_id", localID, "seal_id", seal.SealID, "attempts", attempts)
	return resp, nil
}

func (s *syncService) recordFailure(ctx context.Context, localID string, attempts int, cause error) {
	msg := cause.Error()
	if msg == "" {
		msg = genericSyncError
	}

	failed := models.StatusFailed
	if err := s.captures.Update(ctx, localID, captures.Patch{Status: &failed, ErrorMessage: &msg}); err != nil {
		s.log.Error(ctx, "failed to persist sync failure", "local_id", localID, "error", err.Error())
	}
	if err := s.summary.RecordError(ctx, msg); err != nil {
		s.log.Warn(ctx, "failed to update summary", "error", err.Error())
	}

	s.log.Info(ctx, "sync failed", "local_id", localID, "attempts", attempts, "error", msg)
}

func (s *syncService) SyncAll(ctx context.Context, tokens TokenProvider) error {
	eligible, err := s.captures.GetByStatus(ctx, models.StatusPending, models.StatusFailed)
	if err != nil {
		return err
	}
	if len(eligible) == 0 {
		return nil
	}

	// one batch at a time
	if !s.batchRunning.CompareAndSwap(false, true) {
		return nil
	}
	defer s.batchRunning.Store(false)

	s.log.Info(ctx, "batch sync started", "eligible", len(eligible))

	for i, rec := range eligible {
		if i > 0 && s.cfg.PaceDelay > 0 {
			select {
			case <-time.After(s.cfg.PaceDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		// defensive double-check; SyncOne guards again atomically
		if s.InFlight(rec.LocalID) {
			continue
		}

		if _, err := s.SyncOne(ctx, rec.LocalID, tokens); err != nil {
			s.log.Error(ctx, "sync aborted by storage fault", "local_id", rec.LocalID, "error", err.Error())
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	s.log.Info(ctx, "batch sync finished")
	return nil
}

func (s *syncService) Retry(ctx context.Context, localID string, tokens TokenProvider) (*client.SealResponse, error) {
	if s.InFlight(localID) {
		return nil, nil
	}

	_, err := s.captures.GetByLocalID(ctx, localID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	pending := models.StatusPending
	noError := ""
	err = s.captures.Update(ctx, localID, captures.Patch{Status: &pending, ErrorMessage: &noError})
	if err != nil {
		return nil, err
	}

	return s.SyncOne(ctx, localID, tokens)
}
