package config

import "time"

// Config holds runtime settings for the CapSeal CLI.
//
// Units: all intervals are time.Duration values (e.g., 3*time.Second);
// ThumbnailMaxSourceBytes is a byte count.
type Config struct {
	// ServerEndpointAddr is the base URL of the sealing service.
	ServerEndpointAddr string

	// DatabasePath is where the local capture queue lives.
	DatabasePath string

	// TokenPath is where the auth token is stored between runs.
	TokenPath string

	// OnlineCheckInterval is how often the client probes server
	// reachability.
	OnlineCheckInterval time.Duration

	// SyncTimeout bounds a single submission to the sealing service.
	SyncTimeout time.Duration

	// SyncPaceDelay is the pause between items of a batch sync run.
	SyncPaceDelay time.Duration

	// ReconnectSettleDelay is how long the client waits after
	// connectivity returns before starting a sync run.
	ReconnectSettleDelay time.Duration

	// SummaryRefreshInterval is how often the persisted sync summary is
	// re-derived while the client is in the foreground.
	SummaryRefreshInterval time.Duration

	// ThumbnailMaxSourceBytes caps the media size eligible for preview
	// generation.
	ThumbnailMaxSourceBytes int64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabasePath = "capseal.db"
	c.TokenPath = "capseal_token"
	c.OnlineCheckInterval = 3 * time.Second
	c.SyncTimeout = 30 * time.Second
	c.SyncPaceDelay = 500 * time.Millisecond
	c.ReconnectSettleDelay = time.Second
	c.SummaryRefreshInterval = 2 * time.Second
	c.ThumbnailMaxSourceBytes = 10 << 20
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, from JSON (if present) and from command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
