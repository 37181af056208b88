package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

type Config struct {
	General GeneralConfig           `toml:"general"`
	Fetch   FetchConfig             `toml:"fetch"`
	Sources map[string]SourceConfig `toml:"sources"`
	Stats   StatsConfig             `toml:"stats"`
	Store   StoreConfig             `toml:"store"`
	Server  ServerConfig            `toml:"server"`
}

type GeneralConfig struct {
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
	Sport    string `toml:"sport"`
	// Timezone decides which calendar day a scraped line without a date belongs to.
	Timezone string `toml:"timezone"`
}

type FetchConfig struct {
	Timeout   Duration `toml:"timeout"`
	UserAgent string   `toml:"user_agent"`
	MinDelay  Duration `toml:"min_delay"`
	MaxDelay  Duration `toml:"max_delay"`
	RenderJS  bool     `toml:"render_js"`
}

type SourceConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
}

type StatsConfig struct {
	// URLTemplate takes the team slug and the season year, in that order.
	URLTemplate string `toml:"url_template"`
}

type StoreConfig struct {
	Backend   string `toml:"backend"`
	RedisURL  string `toml:"redis_url"`
	ExportDir string `toml:"export_dir"`
}

type ServerConfig struct {
	ListenAddr  string   `toml:"listen_addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// Duration wraps time.Duration for TOML unmarshaling.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Load reads the TOML file at path over DefaultConfig. A missing file is only
// tolerated when allowMissing is set.
func Load(path string, allowMissing bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, fs.ErrNotExist) {
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, cfg.Validate()
}

// ApplyEnv overrides selected settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("NCAAB_DB_PATH"); v != "" {
		c.General.DBPath = v
	}
	if v := os.Getenv("NCAAB_LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("NCAAB_REDIS_URL"); v != "" {
		c.Store.RedisURL = v
	}
}

func (c *Config) Validate() error {
	if c.Fetch.MinDelay.Duration < 0 || c.Fetch.MaxDelay.Duration < c.Fetch.MinDelay.Duration {
		return fmt.Errorf("fetch delay range [%s, %s] is invalid", c.Fetch.MinDelay, c.Fetch.MaxDelay)
	}
	if c.Fetch.Timeout.Duration <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	switch c.Store.Backend {
	case "sqlite", "memory":
	case "redis":
		if c.Store.RedisURL == "" {
			return fmt.Errorf("store backend redis needs redis_url")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves General.Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.General.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.General.Timezone, err)
	}
	return loc, nil
}

// Source returns the settings for a named source and whether it is configured.
func (c *Config) Source(name string) (SourceConfig, bool) {
	sc, ok := c.Sources[name]
	return sc, ok
}

func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			DBPath:   "./data/ncaablines.db",
			LogLevel: "info",
			Sport:    "ncaab",
			Timezone: "America/New_York",
		},
		Fetch: FetchConfig{
			Timeout:   Duration{10 * time.Second},
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			MinDelay:  Duration{1 * time.Second},
			MaxDelay:  Duration{3 * time.Second},
		},
		Sources: map[string]SourceConfig{
			"draftkings": {
				Enabled: true,
				URL:     "https://sportsbook.draftkings.com/leagues/basketball/ncaab",
			},
			"fanduel": {
				Enabled: false,
				URL:     "https://sportsbook.fanduel.com/navigation/ncaab",
			},
			"espn_bets": {
				Enabled: true,
				URL:     "https://site.api.espn.com/apis/site/v2/sports/basketball/mens-college-basketball/scoreboard",
			},
		},
		Stats: StatsConfig{
			URLTemplate: "https://www.sports-reference.com/cbb/schools/%s/%s-gamelogs.html",
		},
		Store: StoreConfig{
			Backend:   "sqlite",
			ExportDir: "./data/exports",
		},
		Server: ServerConfig{
			ListenAddr:  ":8000",
			CORSOrigins: []string{"*"},
		},
	}
}
