package wsbridge

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const defaultPingInterval = 30 * time.Second

// Config holds the configuration for a bridge Server.
type Config struct {
	// AllowedOrigins lists the Origin header values accepted on the
	// WebSocket endpoint. "*" accepts any origin. If empty, only pages served
	// from the bridge's own host may connect.
	// Fallback: WEBLN_BRIDGE_ORIGINS environment variable (comma-separated).
	AllowedOrigins []string

	// PingInterval is how often the bridge pings the browser tab. A tab that
	// misses two pings is dropped.
	// Fallback: WEBLN_BRIDGE_PING_INTERVAL environment variable; default 30s.
	PingInterval time.Duration
}

// resolveConfig fills empty fields from environment variables and validates them.
func resolveConfig(cfg Config) (Config, error) {
	if len(cfg.AllowedOrigins) == 0 {
		if env := os.Getenv("WEBLN_BRIDGE_ORIGINS"); env != "" {
			for _, origin := range strings.Split(env, ",") {
				if origin = strings.TrimSpace(origin); origin != "" {
					cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
				}
			}
		}
	}

	if cfg.PingInterval == 0 {
		if env := os.Getenv("WEBLN_BRIDGE_PING_INTERVAL"); env != "" {
			d, err := time.ParseDuration(env)
			if err != nil {
				return cfg, fmt.Errorf("invalid WEBLN_BRIDGE_PING_INTERVAL %q: %w", env, err)
			}
			cfg.PingInterval = d
		}
	}
	if cfg.PingInterval == 0 {
		cfg.PingInterval = defaultPingInterval
	}
	if cfg.PingInterval < 0 {
		return cfg, fmt.Errorf("PingInterval must be positive, got %s", cfg.PingInterval)
	}

	return cfg, nil
}
