package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/capseal/capseal-go/internal/client/client"
	"github.com/capseal/capseal-go/internal/client/models"
	"github.com/capseal/capseal-go/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// coordFixture stands up a sealing server whose reachability can be toggled,
// plus a coordinator wired with millisecond-scale intervals.
type coordFixture struct {
	repos *testRepos
	coord *Coordinator
	sync  SyncService

	online    atomic.Bool
	sealCalls atomic.Int32

	mu        sync.Mutex
	summaries []models.SyncSummary
}

func newCoordFixture(t *testing.T, source WakeSource) *coordFixture {
	t.Helper()
	f := &coordFixture{repos: setupRepos(t)}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !f.online.Load() {
			http.Error(w, "unreachable", http.StatusServiceUnavailable)
			return
		}
		if req.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		n := f.sealCalls.Add(1)
		writeSealResponse(w, "seal-"+string(rune('a'+n-1)))
	}))
	t.Cleanup(srv.Close)

	api := client.NewHTTPSealClient(srv.URL, 200*time.Millisecond)
	t.Cleanup(func() { _ = api.Close() })

	f.sync = NewSyncService(api, f.repos.repos, f.repos.summary,
		quietLogger(), SyncConfig{Timeout: time.Second, PaceDelay: time.Millisecond})

	f.coord = NewCoordinator(api, f.sync, f.repos.captures, f.repos.summary,
		staticToken("tok"), source, quietLogger(), CoordinatorConfig{
			ProbeInterval:   15 * time.Millisecond,
			SettleDelay:     5 * time.Millisecond,
			RefreshInterval: 15 * time.Millisecond,
		})
	f.coord.OnChange = func(sum models.SyncSummary) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.summaries = append(f.summaries, sum)
	}
	return f
}

func (f *coordFixture) run(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.coord.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func (f *coordFixture) lastSummary() (models.SyncSummary, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.summaries) == 0 {
		return models.SyncSummary{}, false
	}
	return f.summaries[len(f.summaries)-1], true
}

func TestCoordinatorSyncsOnReconnect(t *testing.T) {
	f := newCoordFixture(t, nil)
	ctx := context.Background()

	seedCapture(t, f.repos, "p1", models.StatusPending, 0)
	seedCapture(t, f.repos, "p2", models.StatusFailed, 1)

	f.run(t)

	// offline at start, nothing must move
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), f.sealCalls.Load())

	f.online.Store(true)

	require.Eventually(t, func() bool {
		n, err := f.repos.captures.Count(ctx, models.StatusPending, models.StatusSyncing, models.StatusFailed)
		return err == nil && n == 0
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, int32(2), f.sealCalls.Load())

	sealed, err := f.repos.seals.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, sealed, 2)

	require.Eventually(t, func() bool {
		sum, ok := f.lastSummary()
		return ok && sum.PendingCount == 0 && sum.LastSyncAt != nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCoordinatorIdleWhenQueueEmpty(t *testing.T) {
	f := newCoordFixture(t, nil)

	f.online.Store(true)
	f.run(t)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), f.sealCalls.Load())
}

func TestCoordinatorRequestSync(t *testing.T) {
	f := newCoordFixture(t, nil)
	ctx := context.Background()

	f.online.Store(true)
	f.run(t)

	// let the startup transition pass with an empty queue
	time.Sleep(40 * time.Millisecond)

	seedCapture(t, f.repos, "p1", models.StatusPending, 0)
	f.coord.RequestSync()

	require.Eventually(t, func() bool {
		_, err := f.repos.seals.GetByLocalID(ctx, "p1")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCoordinatorOfflineRequestRecordsFailure(t *testing.T) {
	f := newCoordFixture(t, nil)
	ctx := context.Background()

	seedCapture(t, f.repos, "p1", models.StatusPending, 0)
	f.run(t)
	f.coord.RequestSync()

	require.Eventually(t, func() bool {
		rec, err := f.repos.captures.GetByLocalID(ctx, "p1")
		return err == nil && rec.Status == models.StatusFailed
	}, 2*time.Second, 10*time.Millisecond)

	rec, err := f.repos.captures.GetByLocalID(ctx, "p1")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ErrorMessage)
	assert.Equal(t, 1, rec.SyncAttempts)
}

func TestCoordinatorPauseStopsSummaryUpdates(t *testing.T) {
	f := newCoordFixture(t, nil)

	f.online.Store(true)
	f.run(t)

	require.Eventually(t, func() bool {
		_, ok := f.lastSummary()
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	f.coord.Pause()
	time.Sleep(40 * time.Millisecond)
	f.mu.Lock()
	paused := len(f.summaries)
	f.mu.Unlock()

	time.Sleep(60 * time.Millisecond)
	f.mu.Lock()
	after := len(f.summaries)
	f.mu.Unlock()
	assert.Equal(t, paused, after)

	f.coord.Resume()
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.summaries) > after
	}, 2*time.Second, 5*time.Millisecond)
}

type manualWake struct{ ch chan struct{} }

func (m *manualWake) Wake() <-chan struct{} { return m.ch }

func TestCoordinatorExternalWakeSource(t *testing.T) {
	src := &manualWake{ch: make(chan struct{}, 1)}
	f := newCoordFixture(t, src)
	ctx := context.Background()

	f.online.Store(true)
	f.run(t)
	time.Sleep(40 * time.Millisecond)

	seedCapture(t, f.repos, "p1", models.StatusPending, 0)
	src.ch <- struct{}{}

	require.Eventually(t, func() bool {
		_, err := f.repos.seals.GetByLocalID(ctx, "p1")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	_, err := f.repos.captures.GetByLocalID(ctx, "p1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
