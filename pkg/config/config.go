// Package config assembles Config from environment variables, with an
// optional YAML overlay (calendar_config.go) for the long calendar list
// that would be unwieldy as a single env var.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/opentimestamps/go-ots/pkg/model"
)

// DefaultCalendars are the public calendars a caller gets if neither an
// env var nor a YAML overlay names any.
var DefaultCalendars = []string{
	"https://alice.btc.calendar.opentimestamps.org",
	"https://bob.btc.calendar.opentimestamps.org",
}

// Config holds the settings a submit/upgrade/shrink/verify caller needs:
// the calendar list, per-request HTTP timeout, and the default chain for
// shrink.
type Config struct {
	CalendarURLs       []model.URL
	HTTPTimeout        time.Duration
	DefaultShrinkChain model.LeafKind
	LogLevel           string
	MetricsAddr        string
}

// Load assembles a Config from environment variables, falling back to
// DefaultCalendars and sane timeouts when unset.
func Load() (*Config, error) {
	urls, err := parseCalendarURLs(getEnv("OTS_CALENDAR_URLS", strings.Join(DefaultCalendars, ",")))
	if err != nil {
		return nil, err
	}

	chain, err := parseChain(getEnv("OTS_DEFAULT_SHRINK_CHAIN", "bitcoin"))
	if err != nil {
		return nil, err
	}

	return &Config{
		CalendarURLs:       urls,
		HTTPTimeout:        getEnvDuration("OTS_HTTP_TIMEOUT", 30*time.Second),
		DefaultShrinkChain: chain,
		LogLevel:           getEnv("OTS_LOG_LEVEL", "info"),
		MetricsAddr:        getEnv("OTS_METRICS_ADDR", ""),
	}, nil
}

func parseCalendarURLs(value string) ([]model.URL, error) {
	var out []model.URL
	for _, raw := range strings.Split(value, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := model.ParseURL(raw)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		out = append(out, u)
	}
	return out, nil
}

func parseChain(value string) (model.LeafKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "bitcoin":
		return model.LeafBitcoin, nil
	case "litecoin":
		return model.LeafLitecoin, nil
	case "ethereum":
		return model.LeafEthereum, nil
	default:
		return 0, fmt.Errorf("config: unknown default shrink chain %q", value)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
