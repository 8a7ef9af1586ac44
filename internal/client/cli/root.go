package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"time"
)

func (a *App) getStatus() string {
	s := string(a.Mode)
	if sum, err := a.captures.Summary(context.Background()); err == nil && sum.PendingCount > 0 {
		s = fmt.Sprintf("%s, %d queued", s, sum.PendingCount)
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to CapSeal CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	go a.coordinator.Run(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, scanner)
}

// StartOnlineStatusWatcher keeps the prompt's mode indicator in step with
// service reachability. Sync scheduling is the coordinator's job; this loop
// only drives the UI.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.api.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.Mode == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
