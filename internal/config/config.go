package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// NOTE: Load creates the file with defaults on first run (0600). Save is
// atomic (temp file + rename).

const (
	DefaultListen       = "127.0.0.1:8080"
	DefaultModel        = "gemini-3-flash-preview"
	DefaultRefreshCron  = "*/15 * * * *"
	DefaultHorizonDays  = 60
	DefaultCacheDir     = "./cache"
	DefaultNotifyTarget = "desktop"
)

// GeminiConfig selects the AI text service.
type GeminiConfig struct {
	// APIKey is usually left empty in the file and supplied through
	// GEMINI_API_KEY or API_KEY.
	APIKey string `yaml:"api_key,omitempty" json:"-"`
	Model  string `yaml:"model" json:"model"`
	// Timeout bounds a single generation request.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// NotificationsConfig configures the scheduled-post notifier.
type NotificationsConfig struct {
	// Backend is one of "desktop", "log" or "none".
	Backend string `yaml:"backend" json:"backend"`
	AppName string `yaml:"app_name" json:"app_name"`
}

// FeedConfig describes one ICS subscription imported into the calendar.
type FeedConfig struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
	// Platform and Status are applied to every imported occurrence.
	Platform string `yaml:"platform" json:"platform"`
	Status   string `yaml:"status" json:"status"`
}

// SnapshotConfig controls the headless calendar capture.
type SnapshotConfig struct {
	Output string `yaml:"output" json:"output"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the dashboard and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone that defines "today". Empty means the host zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// StartMonth ("2006-01") is the month shown first. Empty means the
	// current month.
	StartMonth string `yaml:"start_month,omitempty" json:"start_month,omitempty"`

	// SeedDemo loads the sample content plan at start-up.
	SeedDemo bool `yaml:"seed_demo" json:"seed_demo"`

	Gemini        GeminiConfig        `yaml:"gemini" json:"gemini"`
	Notifications NotificationsConfig `yaml:"notifications" json:"notifications"`

	// Feeds are ICS subscriptions whose occurrences are imported as events.
	Feeds []FeedConfig `yaml:"feeds" json:"feeds"`

	// RefreshCron is the cron schedule for re-importing feeds.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// HorizonDays is how far ahead feed occurrences are imported.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`

	// CacheDir holds the ICS HTTP cache and the latest snapshot.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{
		Listen:   DefaultListen,
		SeedDemo: true,
		Feeds:    []FeedConfig{},
	}
	c.Normalize()
	return c
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultModel
	}
	if c.Gemini.Timeout <= 0 {
		c.Gemini.Timeout = 60 * time.Second
	}
	switch c.Notifications.Backend {
	case "desktop", "log", "none":
		// ok
	default:
		c.Notifications.Backend = DefaultNotifyTarget
	}
	if c.Notifications.AppName == "" {
		c.Notifications.AppName = "CreatorFlow"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = DefaultRefreshCron
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = DefaultHorizonDays
	}
	if c.CacheDir == "" {
		c.CacheDir = DefaultCacheDir
	}
	if c.Snapshot.Width <= 0 {
		c.Snapshot.Width = 1280
	}
	if c.Snapshot.Height <= 0 {
		c.Snapshot.Height = 1024
	}
	if c.Snapshot.Output == "" {
		c.Snapshot.Output = filepath.Join(c.CacheDir, "preview.png")
	}
	if c.Feeds == nil {
		c.Feeds = []FeedConfig{}
	}
	for i := range c.Feeds {
		f := &c.Feeds[i]
		if f.ID == "" {
			if f.Name != "" {
				f.ID = f.Name
			} else {
				f.ID = f.URL
			}
		}
		if f.Platform == "" {
			f.Platform = "Instagram"
		}
		if f.Status == "" {
			f.Status = "Draft"
		}
	}
}

// ApplyEnv overlays environment variables. GEMINI_API_KEY wins over API_KEY;
// neither replaces a key set in the file.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if c.Gemini.APIKey == "" {
		if k := getenv("GEMINI_API_KEY"); k != "" {
			c.Gemini.APIKey = k
		} else if k := getenv("API_KEY"); k != "" {
			c.Gemini.APIKey = k
		}
	}
	if v := getenv("CREATORFLOW_LISTEN"); v != "" {
		c.Listen = v
	}
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Start parses StartMonth. ok is false when it is unset.
func (c *Config) Start() (year int, month time.Month, ok bool, err error) {
	if c.StartMonth == "" {
		return 0, 0, false, nil
	}
	t, err := time.Parse("2006-01", c.StartMonth)
	if err != nil {
		return 0, 0, false, fmt.Errorf("start_month %q: %w", c.StartMonth, err)
	}
	return t.Year(), t.Month(), true, nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically and with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".creatorflow-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method that delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
