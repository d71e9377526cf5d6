// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers a YAML file and environment on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Storage selects the persistence backend: memory or postgres.
	Storage string `koanf:"storage"`

	// PostgresDSN is required when Storage is postgres.
	PostgresDSN string `koanf:"postgres_dsn"`

	// SeedFile optionally preloads the memory store from YAML.
	SeedFile string `koanf:"seed_file"`

	// DefaultView is the calendar mode used when a request names none.
	DefaultView string `koanf:"default_view"`

	// Timezone is the IANA zone used for "today" when a request names none.
	Timezone string `koanf:"timezone"`

	// MaxLeaderboardLimit caps GET /challenges/{id}/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		Storage:             StorageMemory,
		DefaultView:         "month",
		Timezone:            "UTC",
		MaxLeaderboardLimit: 100,
	}
}
