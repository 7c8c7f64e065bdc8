// Package config resolves the dashboard configuration from defaults, an
// optional YAML or TOML file, a .env file and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/etnz/holdings"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration of the dashboard.
type Config struct {
	Source  Source  `yaml:"source" toml:"source"`
	Display Display `yaml:"display" toml:"display"`
	Server  Server  `yaml:"server" toml:"server"`
	Logging Logging `yaml:"logging" toml:"logging"`
	// Categories adds to, or overrides, the built-in stock name to category
	// table.
	Categories map[string]string `yaml:"categories" toml:"categories"`
}

// Source configures the remote holdings endpoint and its polling.
type Source struct {
	BaseURL           string `yaml:"base_url" toml:"base_url"`
	Path              string `yaml:"path" toml:"path"`
	RefreshMS         int    `yaml:"refresh_ms" toml:"refresh_ms"` // <= 0 disables polling
	RevalidateOnFocus bool   `yaml:"revalidate_on_focus" toml:"revalidate_on_focus"`
	HoldingsPath      string `yaml:"holdings_path" toml:"holdings_path"` // JSONPath to the holdings array
	TimeoutMS         int    `yaml:"timeout_ms" toml:"timeout_ms"`
	Retries           int    `yaml:"retries" toml:"retries"`
	CacheFile         string `yaml:"cache_file" toml:"cache_file"` // empty disables the snapshot cache
}

// Display configures how numbers and pages look.
type Display struct {
	Currency string `yaml:"currency" toml:"currency"`
	Locale   string `yaml:"locale" toml:"locale"`
	Theme    string `yaml:"theme" toml:"theme"` // dark or light
	Category string `yaml:"category" toml:"category"`
}

// Server holds the HTTP listener configuration.
type Server struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level" toml:"level"`
	Pretty bool   `yaml:"pretty" toml:"pretty"`
	File   string `yaml:"file" toml:"file"`
}

// Defaults.
const (
	DefaultBaseURL      = "https://assignment-be-whj6.onrender.com"
	DefaultPath         = "/api/portfolio"
	DefaultRefreshMS    = 15000
	DefaultHoldingsPath = "$.holdings"
	DefaultTimeoutMS    = 10000
	DefaultRetries      = 3
	DefaultCurrency     = "INR"
	DefaultTheme        = "dark"
	DefaultAddr         = ":8080"
)

// Themes lists the supported display themes.
var Themes = []string{"dark", "light"}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Source: Source{
			BaseURL:      DefaultBaseURL,
			Path:         DefaultPath,
			RefreshMS:    DefaultRefreshMS,
			HoldingsPath: DefaultHoldingsPath,
			TimeoutMS:    DefaultTimeoutMS,
			Retries:      DefaultRetries,
		},
		Display: Display{
			Currency: DefaultCurrency,
			Locale:   holdings.EnvLocale(),
			Theme:    DefaultTheme,
			Category: holdings.All,
		},
		Server:  Server{Addr: DefaultAddr},
		Logging: Logging{Level: "info"},
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load builds the configuration: defaults, then the file at path if not
// empty (TOML when it ends in .toml, YAML otherwise), then the .env file of
// the working directory, then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			err = toml.Unmarshal(data, cfg)
		} else {
			err = yaml.Unmarshal(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
	}

	// a missing .env is the normal case.
	_ = godotenv.Load()

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := firstEnv("PORTFOLIO_BACKEND_URL", "PORTFOLIO_API_URL"); v != "" {
		cfg.Source.BaseURL = v
	}
	if v := os.Getenv("PORTFOLIO_API_PATH"); v != "" {
		cfg.Source.Path = v
	}
	if v := os.Getenv("PORTFOLIO_REFRESH_MS"); v != "" {
		cfg.Source.RefreshMS = ParseMillis(v, DefaultRefreshMS)
	}
	if v := os.Getenv("PORTFOLIO_REVALIDATE_ON_FOCUS"); v != "" {
		cfg.Source.RevalidateOnFocus = ParseFlag(v)
	}
	if v := os.Getenv("PORTFOLIO_HOLDINGS_PATH"); v != "" {
		cfg.Source.HoldingsPath = v
	}
	if v := os.Getenv("PORTFOLIO_CACHE_FILE"); v != "" {
		cfg.Source.CacheFile = v
	}
	if v := os.Getenv("PORTFOLIO_CURRENCY"); v != "" {
		cfg.Display.Currency = v
	}
	if v := os.Getenv("PORTFOLIO_LOCALE"); v != "" {
		cfg.Display.Locale = v
	}
	if v := os.Getenv("PORTFOLIO_THEME"); v != "" {
		cfg.Display.Theme = v
	}
	if v := os.Getenv("PORTFOLIO_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// ParseMillis reads the leading integer of s, ignoring leading spaces, the
// way parseInt does: "15000", " 2000ms" and "-1" are read, "fast" gives def.
func ParseMillis(s string, def int) int {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return def
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return def
	}
	return n
}

// ParseFlag reports whether s is exactly 1, true or yes, ignoring case.
func ParseFlag(s string) bool {
	return s == "1" || strings.EqualFold(s, "true") || strings.EqualFold(s, "yes")
}

// Validate normalizes cfg and checks values that cannot be guessed.
func (c *Config) Validate() error {
	if c.Source.BaseURL == "" {
		return fmt.Errorf("source base URL is required")
	}
	if c.Source.Path == "" {
		c.Source.Path = DefaultPath
	}
	if c.Source.HoldingsPath == "" {
		c.Source.HoldingsPath = DefaultHoldingsPath
	}
	if c.Source.TimeoutMS <= 0 {
		c.Source.TimeoutMS = DefaultTimeoutMS
	}
	if c.Source.Retries < 1 {
		c.Source.Retries = 1
	}
	if c.Display.Category == "" {
		c.Display.Category = holdings.All
	}
	c.Display.Theme = strings.ToLower(strings.TrimSpace(c.Display.Theme))
	if c.Display.Theme == "" {
		c.Display.Theme = DefaultTheme
	}
	if !ValidTheme(c.Display.Theme) {
		return fmt.Errorf("unknown theme %q, want one of %v", c.Display.Theme, Themes)
	}
	return nil
}

// ValidTheme reports whether theme is supported.
func ValidTheme(theme string) bool {
	for _, t := range Themes {
		if t == theme {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Derived values
// ---------------------------------------------------------------------------

// URL is the holdings endpoint: the base URL without its trailing slash,
// followed by the path with a leading slash.
func (s Source) URL() string {
	path := s.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(s.BaseURL, "/") + path
}

// RefreshInterval is the polling period, zero when polling is disabled.
func (s Source) RefreshInterval() time.Duration {
	if s.RefreshMS <= 0 {
		return 0
	}
	return time.Duration(s.RefreshMS) * time.Millisecond
}

// Timeout is the HTTP request timeout.
func (s Source) Timeout() time.Duration {
	return time.Duration(s.TimeoutMS) * time.Millisecond
}

// Resolver returns the category resolver: the built-in table extended with
// the configured categories.
func (c *Config) Resolver() *holdings.CategoryResolver {
	return holdings.DefaultCategories().With(c.Categories)
}

// NumberFormat returns the number format of the configured locale.
func (d Display) NumberFormat() holdings.NumberFormat {
	return holdings.ParseNumberFormat(d.Locale)
}
