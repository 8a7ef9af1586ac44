package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/capseal/capseal-go/internal/flagx"
	"github.com/capseal/capseal-go/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerEndpointAddr      string         `json:"server_endpoint_addr"`
	DatabasePath            string         `json:"database_path"`
	TokenPath               string         `json:"token_path"`
	OnlineCheckInterval     timex.Duration `json:"online_check_interval"`
	SyncTimeout             timex.Duration `json:"sync_timeout"`
	SyncPaceDelay           timex.Duration `json:"sync_pace_delay"`
	ReconnectSettleDelay    timex.Duration `json:"reconnect_settle_delay"`
	SummaryRefreshInterval  timex.Duration `json:"summary_refresh_interval"`
	ThumbnailMaxSourceBytes int64          `json:"thumbnail_max_source_bytes"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c / -config flags via
// flagx.JsonConfigFlags(); when no path is given nothing is loaded. Fields
// absent from the JSON keep their earlier values. Read or unmarshal errors
// panic (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.TokenPath != "" {
		cfg.TokenPath = jc.TokenPath
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.SyncTimeout.Duration != 0 {
		cfg.SyncTimeout = time.Duration(jc.SyncTimeout.Duration)
	}
	if jc.SyncPaceDelay.Duration != 0 {
		cfg.SyncPaceDelay = time.Duration(jc.SyncPaceDelay.Duration)
	}
	if jc.ReconnectSettleDelay.Duration != 0 {
		cfg.ReconnectSettleDelay = time.Duration(jc.ReconnectSettleDelay.Duration)
	}
	if jc.SummaryRefreshInterval.Duration != 0 {
		cfg.SummaryRefreshInterval = time.Duration(jc.SummaryRefreshInterval.Duration)
	}
	if jc.ThumbnailMaxSourceBytes != 0 {
		cfg.ThumbnailMaxSourceBytes = jc.ThumbnailMaxSourceBytes
	}
}
