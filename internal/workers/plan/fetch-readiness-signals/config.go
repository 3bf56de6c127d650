// internal/workers/plan/fetch-readiness-signals/config.go
package fetchreadinesssignals

import (
	"time"

	appconfig "fitplan-workers/internal/common/config"
)

type Config struct {
	Timeout  time.Duration
	BaseURL  string
	APIKey   string
	MaxAge   time.Duration
	CacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		MaxAge:   24 * time.Hour,
		CacheTTL: 15 * time.Minute,
	}
}

// ConfigFrom builds the worker config from the application-level signal
// source settings, keeping LoadConfig defaults for anything unset.
func ConfigFrom(sc appconfig.SignalsConfig) *Config {
	cfg := LoadConfig()
	if sc.BaseURL != "" {
		cfg.BaseURL = sc.BaseURL
	}
	if sc.APIKey != "" {
		cfg.APIKey = sc.APIKey
	}
	if sc.Timeout > 0 {
		cfg.Timeout = time.Duration(sc.Timeout) * time.Millisecond
	}
	if sc.MaxAgeSeconds > 0 {
		cfg.MaxAge = time.Duration(sc.MaxAgeSeconds) * time.Second
	}
	if sc.CacheTTL > 0 {
		cfg.CacheTTL = time.Duration(sc.CacheTTL) * time.Second
	}
	return cfg
}
