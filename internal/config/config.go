// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LocationRule maps a free-text fragment to a canonical location token.
// Rules are ordered: first match wins.
type LocationRule struct {
	Match     string `yaml:"match"`
	Canonical string `yaml:"canonical"`
}

// TagRule assigns a tag when any of its phrases appears in title+summary.
type TagRule struct {
	Tag     string   `yaml:"tag"`
	Phrases []string `yaml:"phrases"`
}

// Signal is one visa-scoring table entry. Label is what shows up in the
// visa reason; it defaults to the phrase itself.
type Signal struct {
	Phrase string `yaml:"phrase"`
	Label  string `yaml:"label"`
}

// UnmarshalYAML accepts either a bare string or a {phrase, label} map.
func (s *Signal) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.Phrase = value.Value
		s.Label = value.Value
		return nil
	}
	type plain Signal
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	s.Phrase = p.Phrase
	s.Label = p.Label
	if s.Label == "" {
		s.Label = s.Phrase
	}
	return nil
}

// VisaSignals holds the four ordered phrase tables used by the scorer.
type VisaSignals struct {
	Negative         []Signal `yaml:"negative"`
	ModerateNegative []Signal `yaml:"moderate_negative"`
	Positive         []Signal `yaml:"positive"`
	Neutral          []Signal `yaml:"neutral"`
}

// SourceConfig toggles one connector and sets its politeness delay.
type SourceConfig struct {
	Enabled          bool    `yaml:"enabled"`
	RateLimitSeconds float64 `yaml:"rate_limit_seconds"`
}

type Config struct {
	// target canonical locations; a job must land in one of these
	Locations []string `yaml:"locations"`

	// heuristic tables (configuration data, not code)
	LocationRules       []LocationRule `yaml:"location_rules"`
	LevelRules          []TagRule      `yaml:"level_rules"`
	RoleRules           []TagRule      `yaml:"role_rules"`
	ExcludeTitlePhrases []string       `yaml:"exclude_title_phrases"`
	Visa                VisaSignals    `yaml:"visa_signals"`

	// connectors
	Sources        map[string]SourceConfig `yaml:"sources"`
	SourcePriority []string                `yaml:"source_priority"`
	SinceWindow    string                  `yaml:"since_window"` // e.g. "24h", "7d"
	AlertsDir      string                  `yaml:"alerts_dir"`   // saved .eml job alerts

	// state store
	StateBackend string `yaml:"state_backend"` // file | postgres | redis
	StatePath    string `yaml:"state_path"`

	// output
	OutputDir string `yaml:"output_dir"`

	// run behaviour
	DryRun   bool   `yaml:"dry_run"`
	Schedule string `yaml:"schedule"` // cron spec for daemon mode, empty = run once

	// credentials, env only, never in yaml
	DatabaseURL    string `yaml:"-"`
	RedisURL       string `yaml:"-"`
	AdzunaAppID    string `yaml:"-"`
	AdzunaAppKey   string `yaml:"-"`
	EmailAddress   string `yaml:"-"`
	EmailPassword  string `yaml:"-"`
	EmailTo        string `yaml:"-"`
	SMTPServer     string `yaml:"-"`
	SMTPPort       int    `yaml:"-"`
	TelegramToken  string `yaml:"-"`
	TelegramChatID int64  `yaml:"-"`
}

// Load reads config.yaml (optional), overlays .env / environment variables,
// and fills defaults. Only hard misconfiguration returns an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		log.Printf("⚠️ No config file at %s, using defaults", path)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// env overrides
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.AdzunaAppID = os.Getenv("ADZUNA_APP_ID")
	cfg.AdzunaAppKey = os.Getenv("ADZUNA_APP_KEY")
	cfg.EmailAddress = os.Getenv("EMAIL_ADDRESS")
	cfg.EmailPassword = os.Getenv("EMAIL_PASSWORD")
	cfg.EmailTo = os.Getenv("EMAIL_TO")
	if cfg.EmailTo == "" {
		cfg.EmailTo = cfg.EmailAddress
	}
	cfg.SMTPServer = envOr("SMTP_SERVER", "smtp.gmail.com")
	cfg.SMTPPort = 587
	if s := os.Getenv("SMTP_PORT"); s != "" {
		port, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", s, err)
		}
		cfg.SMTPPort = port
	}
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if s := os.Getenv("TELEGRAM_CHAT_ID"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", s, err)
		}
		cfg.TelegramChatID = id
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StateBackend {
	case "file":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("state_backend postgres requires DATABASE_URL")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("state_backend redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown state_backend %q", c.StateBackend)
	}
	if _, err := c.Since(); err != nil {
		return err
	}
	return nil
}

// Since parses the recency window. Accepts time.ParseDuration forms plus a
// "d" day suffix ("7d").
func (c *Config) Since() (time.Duration, error) {
	s := strings.TrimSpace(c.SinceWindow)
	if s == "" {
		return 24 * time.Hour, nil
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid since_window %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid since_window %q: %w", s, err)
	}
	return d, nil
}

// Source returns the config block for a connector, with defaults applied.
func (c *Config) Source(name string) SourceConfig {
	sc, ok := c.Sources[name]
	if !ok {
		return SourceConfig{Enabled: false, RateLimitSeconds: 2.0}
	}
	if sc.RateLimitSeconds <= 0 {
		sc.RateLimitSeconds = 2.0
	}
	return sc
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
