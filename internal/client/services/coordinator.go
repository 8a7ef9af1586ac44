package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/capseal/capseal-go/internal/client/client"
	"github.com/capseal/capseal-go/internal/client/models"
	"github.com/capseal/capseal-go/internal/client/repositories/captures"
	"github.com/capseal/capseal-go/internal/logging"
)

// WakeSource is an optional platform capability that delivers external sync
// requests while the client is otherwise idle — the moral equivalent of a
// background-sync wakeup. Absence of the capability is a valid state, not an
// error.
type WakeSource interface {
	Wake() <-chan struct{}
}

// CoordinatorConfig holds the coordinator's timing policy.
type CoordinatorConfig struct {
	// ProbeInterval is how often reachability of the sealing service is
	// checked.
	ProbeInterval time.Duration

	// SettleDelay is waited after an offline→online transition before
	// syncing, to avoid firing on flaky reconnects.
	SettleDelay time.Duration

	// RefreshInterval is how often the summary projection is re-derived
	// while the consumer view is visible.
	RefreshInterval time.Duration
}

func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		ProbeInterval:   3 * time.Second,
		SettleDelay:     time.Second,
		RefreshInterval: 2 * time.Second,
	}
}

// Coordinator decides when synchronization should be attempted; it performs
// none itself. It watches reachability transitions, keeps the summary
// projection fresh while visible, and relays externally requested wakeups
// into the batch orchestrator.
type Coordinator struct {
	api      client.SealClient
	sync     SyncService
	captures captures.Repository
	summary  *SummaryStore
	tokens   TokenProvider
	source   WakeSource
	log      logging.Logger
	cfg      CoordinatorConfig

	// OnChange, when set before Run, receives every refreshed summary.
	OnChange func(models.SyncSummary)

	wake    chan struct{}
	visible atomic.Bool

	// online tracks the previous probe result; touched only by Run.
	online bool
}

func NewCoordinator(
	api client.SealClient,
	syncSvc SyncService,
	capturesRepo captures.Repository,
	summary *SummaryStore,
	tokens TokenProvider,
	source WakeSource,
	log logging.Logger,
	cfg CoordinatorConfig,
) *Coordinator {
	def := DefaultCoordinatorConfig()
	if cfg.ProbeInterval <= 0 {
		cfg.ProbeInterval = def.ProbeInterval
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = def.RefreshInterval
	}

	c := &Coordinator{
		api:      api,
		sync:     syncSvc,
		captures: capturesRepo,
		summary:  summary,
		tokens:   tokens,
		source:   source,
		log:      log,
		cfg:      cfg,
		wake:     make(chan struct{}, 1),
	}
	c.visible.Store(true)
	return c
}

// RequestSync asks the coordinator to run a batch as soon as possible. It
// never blocks; a request arriving while one is already queued is folded
// into it.
func (c *Coordinator) RequestSync() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Pause suspends summary polling, e.g. while the consuming view is hidden.
func (c *Coordinator) Pause() { c.visible.Store(false) }

// Resume re-enables summary polling.
func (c *Coordinator) Resume() { c.visible.Store(true) }

// Run drives the coordinator until ctx is cancelled. It is meant to be
// launched as a goroutine.
func (c *Coordinator) Run(ctx context.Context) {
	probe := time.NewTicker(c.cfg.ProbeInterval)
	defer probe.Stop()
	refresh := time.NewTicker(c.cfg.RefreshInterval)
	defer refresh.Stop()

	// a nil channel blocks forever, which is exactly what we want when
	// the capability is absent
	var external <-chan struct{}
	if c.source != nil {
		external = c.source.Wake()
	} else {
		c.log.Info(ctx, "background wake capability absent, relying on reachability probes")
	}

	c.checkConnectivity(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-probe.C:
			c.checkConnectivity(ctx)
		case <-refresh.C:
			if c.visible.Load() {
				c.refreshSummary(ctx)
			}
		case <-external:
			c.log.Info(ctx, "external sync request received")
			c.syncIfPending(ctx)
		case <-c.wake:
			c.syncIfPending(ctx)
		}
	}
}

func (c *Coordinator) checkConnectivity(ctx context.Context) {
	online := c.api.Ping(ctx) == nil

	switch {
	case online && !c.online:
		c.log.Info(ctx, "connectivity restored")
		// settle before syncing so flaky reconnects don't trigger runs
		if c.cfg.SettleDelay > 0 {
			select {
			case <-time.After(c.cfg.SettleDelay):
			case <-ctx.Done():
				return
			}
		}
		c.syncIfPending(ctx)
	case !online && c.online:
		// non-destructive: in-flight submissions fail via their own
		// timeouts and re-enter the failed state
		c.log.Warn(ctx, "connectivity lost")
	}

	c.online = online
}

func (c *Coordinator) syncIfPending(ctx context.Context) {
	n, err := c.captures.Count(ctx, models.StatusPending, models.StatusFailed)
	if err != nil {
		c.log.Error(ctx, "failed to count pending captures", "error", err.Error())
		return
	}
	if n == 0 {
		return
	}

	if err := c.sync.SyncAll(ctx, c.tokens); err != nil && ctx.Err() == nil {
		c.log.Error(ctx, "batch sync failed", "error", err.Error())
	}
	c.refreshSummary(ctx)
}

func (c *Coordinator) refreshSummary(ctx context.Context) {
	if err := c.summary.RefreshCount(ctx); err != nil {
		c.log.Warn(ctx, "failed to refresh summary", "error", err.Error())
		return
	}
	if c.OnChange == nil {
		return
	}
	sum, err := c.summary.Load(ctx)
	if err != nil {
		return
	}
	c.OnChange(sum)
}
