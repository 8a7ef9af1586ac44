// Package config loads runtime configuration for the CapSeal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally seeded from a .env file
//     (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the sealing service
//	-d string   path to the local capture database
//	-t string   path to the stored auth token
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "http://127.0.0.1:8080",
//	  "database_path": "capseal.db",
//	  "online_check_interval": "3s",
//	  "sync_timeout": "30s",
//	  "sync_pace_delay": "500ms"
//	}
//
// Primary API
//
//   - type Config                     — all runtime settings of the client
//   - func LoadConfig() *Config       — defaults, then env, JSON and flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
