package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds extractor configuration.
type Config struct {
	BaseURL     string `yaml:"base_url"`
	AccountPath string `yaml:"account_path"`
	Headless    bool   `yaml:"headless"`

	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	RedirectTimeout   time.Duration `yaml:"redirect_timeout"`
	LoginTimeout      time.Duration `yaml:"login_timeout"`
	HistoryTimeout    time.Duration `yaml:"history_timeout"`
	AllOrdersTimeout  time.Duration `yaml:"all_orders_timeout"`
	OrderDataTimeout  time.Duration `yaml:"order_data_timeout"`
	RevealTimeout     time.Duration `yaml:"reveal_timeout"`
	GrowthTimeout     time.Duration `yaml:"growth_timeout"`
	TextTimeout       time.Duration `yaml:"text_timeout"`
	AttributeTimeout  time.Duration `yaml:"attribute_timeout"`
	NewPageTimeout    time.Duration `yaml:"new_page_timeout"`
	DetailTimeout     time.Duration `yaml:"detail_timeout"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	MaxReveals        int           `yaml:"max_reveals"`

	OutputFile    string `yaml:"output_file"`
	OutputFormat  string `yaml:"output_format"` // csv, json, or dual
	OutputDir     string `yaml:"output_dir"`
	BatchSize     int    `yaml:"batch_size"`
	DedupeMaxSize int    `yaml:"dedupe_max_size"`
	ArchivePath   string `yaml:"archive_path"`

	Catalog CatalogConfig `yaml:"catalog"`

	MetricsAddr string `yaml:"metrics_addr"`
	Verbose     bool   `yaml:"verbose"`
}

// CatalogConfig holds purchase-order export settings.
type CatalogConfig struct {
	File          string  `yaml:"file"`
	Vendor        string  `yaml:"vendor"`
	Location      string  `yaml:"location"`
	Department    string  `yaml:"department"`
	SubDepartment string  `yaml:"sub_department"`
	Category      string  `yaml:"category"`
	POPrefix      string  `yaml:"po_prefix"`
	Markup        float64 `yaml:"markup"`
	MatchCache    int     `yaml:"match_cache"`
}

// DefaultConfig returns the settings used against the vendor portal.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://www.gofigdisplays.com",
		AccountPath: "/s/customer-accounts",
		Headless:    false,

		NavigationTimeout: 30 * time.Second,
		RedirectTimeout:   10 * time.Second,
		LoginTimeout:      5 * time.Minute,
		HistoryTimeout:    10 * time.Second,
		AllOrdersTimeout:  5 * time.Second,
		OrderDataTimeout:  15 * time.Second,
		RevealTimeout:     3 * time.Second,
		GrowthTimeout:     10 * time.Second,
		TextTimeout:       8 * time.Second,
		AttributeTimeout:  2 * time.Second,
		NewPageTimeout:    10 * time.Second,
		DetailTimeout:     15 * time.Second,
		PollInterval:      250 * time.Millisecond,
		MaxReveals:        500,

		OutputFile:    "orders.csv",
		OutputFormat:  "dual",
		OutputDir:     ".",
		BatchSize:     64,
		DedupeMaxSize: 10000,

		Catalog: CatalogConfig{
			File:          "heartland_items.json",
			Vendor:        "Go Figure Displays",
			Location:      "Bricks & Minifigs Herndon",
			Department:    "Custom & Accesories",
			SubDepartment: "Display",
			Category:      "Minifig Stand",
			POPrefix:      "Gofig",
			Markup:        2,
			MatchCache:    1024,
		},
	}
}

// AccountURL is the customer account page.
func (c *Config) AccountURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + c.AccountPath
}

// LoadFile overlays a YAML file onto the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from ORDERS_* environment variables.
func (c *Config) ApplyEnv() error {
	if value, ok := EnvString("ORDERS_BASE_URL"); ok {
		c.BaseURL = value
	}
	if value, ok := EnvString("ORDERS_OUTPUT"); ok {
		c.OutputFile = value
	}
	if value, ok := EnvString("ORDERS_METRICS_ADDR"); ok {
		c.MetricsAddr = value
	}
	if value, ok := EnvString("ORDERS_ARCHIVE"); ok {
		c.ArchivePath = value
	}
	if value, ok := EnvString("ORDERS_CATALOG"); ok {
		c.Catalog.File = value
	}
	if value, ok, err := EnvDuration("ORDERS_LOGIN_TIMEOUT"); err != nil {
		return fmt.Errorf("invalid ORDERS_LOGIN_TIMEOUT: %w", err)
	} else if ok {
		c.LoginTimeout = value
	}
	if value, ok, err := EnvInt("ORDERS_MAX_REVEALS"); err != nil {
		return fmt.Errorf("invalid ORDERS_MAX_REVEALS: %w", err)
	} else if ok {
		c.MaxReveals = value
	}
	return nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}
	if !strings.HasPrefix(c.AccountPath, "/") {
		return fmt.Errorf("account path must start with /")
	}

	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"navigation timeout", c.NavigationTimeout},
		{"redirect timeout", c.RedirectTimeout},
		{"login timeout", c.LoginTimeout},
		{"history timeout", c.HistoryTimeout},
		{"all orders timeout", c.AllOrdersTimeout},
		{"order data timeout", c.OrderDataTimeout},
		{"reveal timeout", c.RevealTimeout},
		{"growth timeout", c.GrowthTimeout},
		{"text timeout", c.TextTimeout},
		{"attribute timeout", c.AttributeTimeout},
		{"new page timeout", c.NewPageTimeout},
		{"detail timeout", c.DetailTimeout},
		{"poll interval", c.PollInterval},
	}
	for _, timeout := range timeouts {
		if timeout.value <= 0 {
			return fmt.Errorf("%s must be positive", timeout.name)
		}
	}
	if c.MaxReveals <= 0 {
		return fmt.Errorf("max reveals must be positive")
	}

	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}

	if c.Catalog.Markup <= 0 {
		return fmt.Errorf("catalog markup must be positive")
	}
	if c.Catalog.MatchCache <= 0 {
		return fmt.Errorf("catalog match cache must be positive")
	}

	return nil
}

// EnvString returns a non-empty environment variable.
func EnvString(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != ""
}

// EnvInt parses an integer environment variable.
func EnvInt(key string) (int, bool, error) {
	raw, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

// EnvDuration parses a duration environment variable such as "90s".
func EnvDuration(key string) (time.Duration, bool, error) {
	raw, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}
