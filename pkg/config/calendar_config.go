package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opentimestamps/go-ots/pkg/model"
)

// Duration wraps time.Duration for YAML unmarshaling, grounded on the
// reference repository's own ${VAR}-substituting YAML config loader.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// CalendarEntry is one configured calendar: its URL and whether workflows
// should submit to it (a caller may keep a calendar on the list for
// upgrade purposes only).
type CalendarEntry struct {
	URL    string `yaml:"url"`
	Submit bool   `yaml:"submit"`
}

// CalendarFileConfig is the YAML overlay for a long calendar list plus
// per-workflow timeouts, the natural home for settings unwieldy as
// environment variables.
type CalendarFileConfig struct {
	Calendars          []CalendarEntry `yaml:"calendars"`
	HTTPTimeout        Duration        `yaml:"http_timeout"`
	DefaultShrinkChain string          `yaml:"default_shrink_chain"`
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// LoadCalendarConfig reads a YAML calendar list from path, substituting
// ${VAR_NAME} environment references first.
func LoadCalendarConfig(path string) (*CalendarFileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	expanded := substituteEnvVars(string(data))

	var cfg CalendarFileConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// Merge overlays file's settings onto base, returning a new Config. A
// non-empty calendar list replaces base's CalendarURLs with every calendar
// in the file; the Submit flag of an entry is not consulted.
func (file *CalendarFileConfig) Merge(base *Config) (*Config, error) {
	out := *base
	if file.HTTPTimeout != 0 {
		out.HTTPTimeout = file.HTTPTimeout.Duration()
	}
	if file.DefaultShrinkChain != "" {
		chain, err := parseChain(file.DefaultShrinkChain)
		if err != nil {
			return nil, err
		}
		out.DefaultShrinkChain = chain
	}
	if len(file.Calendars) > 0 {
		urls := make([]model.URL, 0, len(file.Calendars))
		for _, entry := range file.Calendars {
			u, err := model.ParseURL(entry.URL)
			if err != nil {
				return nil, fmt.Errorf("config: %w", err)
			}
			urls = append(urls, u)
		}
		out.CalendarURLs = urls
	}
	return &out, nil
}
