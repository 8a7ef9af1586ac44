package cli

import (
	"bufio"
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/capseal/capseal-go/internal/client/auth"
	"github.com/capseal/capseal-go/internal/client/client"
	"github.com/capseal/capseal-go/internal/client/config"
	"github.com/capseal/capseal-go/internal/client/services"
	"github.com/capseal/capseal-go/internal/client/thumbnail"
	"github.com/capseal/capseal-go/internal/client/wakeup"
	"github.com/capseal/capseal-go/internal/filex"
	"github.com/capseal/capseal-go/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config      *config.Config
	repos       *client.Repositories
	api         client.SealClient
	tokens      *auth.FileTokenSource
	captures    services.CaptureService
	sync        services.SyncService
	coordinator *services.Coordinator
	source      *wakeup.SignalSource
	Mode        Mode
	reader      *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	if err := placeDataFiles(c); err != nil {
		return nil, err
	}

	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	logger := logging.NewDefault()

	api := client.NewHTTPSealClient(c.ServerEndpointAddr, c.OnlineCheckInterval)
	tokens := auth.NewFileTokenSource(c.TokenPath)
	summary := services.NewSummaryStore(repos.Metadata, repos.Captures)
	thumbs := thumbnail.NewGenerator(c.ThumbnailMaxSourceBytes)

	cs := services.NewCaptureService(repos.Captures, repos.Seals, summary, thumbs, nil, logger)
	ss := services.NewSyncService(api, repos, summary, logger, services.SyncConfig{
		Timeout:   c.SyncTimeout,
		PaceDelay: c.SyncPaceDelay,
	})

	source := wakeup.NewSignalSource()
	coordinator := services.NewCoordinator(api, ss, repos.Captures, summary, tokens.Token, source, logger, services.CoordinatorConfig{
		ProbeInterval:   c.OnlineCheckInterval,
		SettleDelay:     c.ReconnectSettleDelay,
		RefreshInterval: c.SummaryRefreshInterval,
	})

	return &App{
		config:      c,
		repos:       repos,
		api:         api,
		tokens:      tokens,
		captures:    cs,
		sync:        ss,
		coordinator: coordinator,
		source:      source,
		Mode:        ModeOffline,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

// placeDataFiles moves bare-filename paths into the app's data subdirectory
// so default configs don't scatter files over the working directory.
// Explicit paths are left alone.
func placeDataFiles(c *config.Config) error {
	if filepath.Dir(c.DatabasePath) != "." && filepath.Dir(c.TokenPath) != "." {
		return nil
	}

	dir, err := filex.EnsureSubDir("capseal")
	if err != nil {
		return err
	}
	if filepath.Dir(c.DatabasePath) == "." {
		c.DatabasePath = filepath.Join(dir, c.DatabasePath)
	}
	if filepath.Dir(c.TokenPath) == "." {
		c.TokenPath = filepath.Join(dir, c.TokenPath)
	}
	return nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.source.Stop()
	defer func() {
		if err := a.repos.Close(); err != nil {
			log.Printf("error closing database: %s", err.Error())
		}
	}()
	a.Root(ctx)
}
