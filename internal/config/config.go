package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/enrollmate/enrollmate/internal/bridge"
	"github.com/enrollmate/enrollmate/internal/calendar"
	yaml "gopkg.in/yaml.v3"
)

const (
	DefaultDataDir     = "~/.local/share/enrollmate"
	DefaultConsumerDir = "~/.local/share/enrollmate/consumer"
	DefaultLogLevel    = "warn"

	// TermStartLayout is the date format of calendar.termStart.
	TermStartLayout = "2006-01-02"
)

// Config holds the resolved settings.
type Config struct {
	DataDir      string
	ShortNames   string
	ConsumerURL  string
	ConsumerDir  string
	AllowedHosts []string
	LogLevel     string
	TermStart    string
	Weeks        int
	// Timezone is an IANA zone name for calendar times; empty means local time.
	Timezone string
}

// FileConfig is the on-disk schema.
type FileConfig struct {
	DataDir    string `yaml:"dataDir" json:"dataDir"`
	ShortNames string `yaml:"shortNames" json:"shortNames"`

	Consumer struct {
		URL string `yaml:"url" json:"url"`
		Dir string `yaml:"dir" json:"dir"`
	} `yaml:"consumer" json:"consumer"`

	AllowedHosts []string `yaml:"allowedHosts" json:"allowedHosts"`
	LogLevel     string   `yaml:"logLevel" json:"logLevel"`

	Calendar struct {
		TermStart string `yaml:"termStart" json:"termStart"`
		Weeks     int    `yaml:"weeks" json:"weeks"`
		Timezone  string `yaml:"timezone" json:"timezone"`
	} `yaml:"calendar" json:"calendar"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DataDir:      DefaultDataDir,
		ConsumerURL:  bridge.DefaultConsumerURL,
		ConsumerDir:  DefaultConsumerDir,
		AllowedHosts: append([]string{}, bridge.DefaultAllowedHosts...),
		LogLevel:     DefaultLogLevel,
		Weeks:        calendar.DefaultWeeks,
	}
}

// LoadFile reads YAML or JSON into FileConfig, chosen by extension.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFile overlays every value set in fc.
func (c *Config) ApplyFile(fc FileConfig) {
	if fc.DataDir != "" {
		c.DataDir = fc.DataDir
	}
	if fc.ShortNames != "" {
		c.ShortNames = fc.ShortNames
	}
	if fc.Consumer.URL != "" {
		c.ConsumerURL = fc.Consumer.URL
	}
	if fc.Consumer.Dir != "" {
		c.ConsumerDir = fc.Consumer.Dir
	}
	if len(fc.AllowedHosts) > 0 {
		c.AllowedHosts = append([]string{}, fc.AllowedHosts...)
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.Calendar.TermStart != "" {
		c.TermStart = fc.Calendar.TermStart
	}
	if fc.Calendar.Weeks > 0 {
		c.Weeks = fc.Calendar.Weeks
	}
	if fc.Calendar.Timezone != "" {
		c.Timezone = fc.Calendar.Timezone
	}
}

// ApplyEnv overlays ENROLLMATE_* variables that are set. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.DataDir, "ENROLLMATE_DATA_DIR")
	set(&c.ShortNames, "ENROLLMATE_SHORT_NAMES")
	set(&c.ConsumerURL, "ENROLLMATE_CONSUMER_URL")
	set(&c.ConsumerDir, "ENROLLMATE_CONSUMER_DIR")
	set(&c.LogLevel, "ENROLLMATE_LOG_LEVEL")
	set(&c.TermStart, "ENROLLMATE_TERM_START")
	set(&c.Timezone, "ENROLLMATE_TIMEZONE")

	if v := strings.TrimSpace(getenv("ENROLLMATE_ALLOWED_HOSTS")); v != "" {
		var hosts []string
		for _, h := range strings.Split(v, ",") {
			if h = strings.TrimSpace(h); h != "" {
				hosts = append(hosts, h)
			}
		}
		if len(hosts) > 0 {
			c.AllowedHosts = hosts
		}
	}
	if v := strings.TrimSpace(getenv("ENROLLMATE_WEEKS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Weeks = n
		}
	}
}

// Load resolves defaults, the optional file at path and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("loading config %s: %w", path, err)
		}
		cfg.ApplyFile(fc)
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

// Validate checks values that cannot be repaired silently.
func (c Config) Validate() error {
	if c.TermStart != "" {
		if _, err := time.Parse(TermStartLayout, c.TermStart); err != nil {
			return fmt.Errorf("invalid calendar term start %q: want YYYY-MM-DD", c.TermStart)
		}
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid calendar timezone %q: %w", c.Timezone, err)
		}
	}
	if c.Weeks < 1 {
		return fmt.Errorf("invalid calendar weeks %d: must be at least 1", c.Weeks)
	}
	return nil
}

// Location returns the calendar time zone, time.Local when unset or unknown.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// TermStartIn returns the term start date in loc, or the zero time when unset.
func (c Config) TermStartIn(loc *time.Location) time.Time {
	if c.TermStart == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(TermStartLayout, c.TermStart, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
