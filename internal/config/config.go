package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meditrak/opsdash/internal/model"
)

// SheetRef names one remote sheet to pull into the pipeline.
type SheetRef struct {
	SpreadsheetID string `yaml:"spreadsheet_id"`
	SheetName     string `yaml:"sheet_name"`
}

// Config holds all runtime configuration for an opsdash run.
type Config struct {
	DataDir   string `yaml:"data_dir"`
	CacheDir  string `yaml:"cache_dir"`
	LogFormat string // "text" or "json"

	// Sources restricts which raw inputs a refresh loads; empty means all.
	Sources []string `yaml:"sources"`

	CredentialsPath string        `yaml:"credentials_path"`
	TPASheet        SheetRef      `yaml:"tpa_sheet"`
	SchemeSheet     SheetRef      `yaml:"scheme_sheet"`
	SheetRetries    int           `yaml:"sheet_retries"`
	SheetRetryDelay time.Duration `yaml:"sheet_retry_delay"`

	ListenAddr string `yaml:"listen_addr"`

	// PDF rendering
	ChromeNoSandbox bool `yaml:"chrome_no_sandbox"`

	// Report flags (not in YAML)
	Month      int
	Year       int
	OutputPath string
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	DataDir         string   `yaml:"data_dir"`
	CacheDir        string   `yaml:"cache_dir"`
	Sources         []string `yaml:"sources"`
	CredentialsPath string   `yaml:"credentials_path"`
	TPASheet        SheetRef `yaml:"tpa_sheet"`
	SchemeSheet     SheetRef `yaml:"scheme_sheet"`
	SheetRetries    int      `yaml:"sheet_retries"`
	SheetRetryDelay string   `yaml:"sheet_retry_delay"` // time.ParseDuration syntax
	ListenAddr      string   `yaml:"listen_addr"`
	ChromeNoSandbox bool     `yaml:"chrome_no_sandbox"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Values already set by flags win over file values only when the file leaves
// them empty.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.DataDir != "" {
		c.DataDir = yc.DataDir
	}
	if yc.CacheDir != "" {
		c.CacheDir = yc.CacheDir
	}
	if len(yc.Sources) > 0 {
		c.Sources = yc.Sources
	}
	if yc.CredentialsPath != "" {
		c.CredentialsPath = yc.CredentialsPath
	}
	if yc.TPASheet.SpreadsheetID != "" {
		c.TPASheet = yc.TPASheet
	}
	if yc.SchemeSheet.SpreadsheetID != "" {
		c.SchemeSheet = yc.SchemeSheet
	}
	if yc.SheetRetries > 0 {
		c.SheetRetries = yc.SheetRetries
	}
	if yc.SheetRetryDelay != "" {
		d, err := time.ParseDuration(yc.SheetRetryDelay)
		if err != nil {
			return fmt.Errorf("parse sheet_retry_delay: %w", err)
		}
		c.SheetRetryDelay = d
	}
	if yc.ListenAddr != "" {
		c.ListenAddr = yc.ListenAddr
	}
	if yc.ChromeNoSandbox {
		c.ChromeNoSandbox = true
	}
	return c.validateSources()
}

// validateSources checks that every entry in Sources is a known source name.
// If Sources is empty, it defaults to all registered sources.
func (c *Config) validateSources() error {
	if len(c.Sources) == 0 {
		c.Sources = model.SourceNames()
		return nil
	}
	for _, name := range c.Sources {
		if _, ok := model.SourceByName(name); !ok {
			return fmt.Errorf("unknown source %q in config", name)
		}
	}
	return nil
}

// ApplyDefaults fills zero-valued fields with sane defaults.
func (c *Config) ApplyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.CacheDir == "" {
		c.CacheDir = "."
	}
	if c.SheetRetries == 0 {
		c.SheetRetries = 5
	}
	if c.SheetRetryDelay == 0 {
		c.SheetRetryDelay = 3 * time.Second
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8085"
	}
	if len(c.Sources) == 0 {
		c.Sources = model.SourceNames()
	}
}

// Validate checks required fields and returns an error if the config is
// invalid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("--data-dir is required")
	}
	if _, err := os.Stat(c.DataDir); err != nil {
		return fmt.Errorf("data dir not accessible: %w", err)
	}
	return c.validateSources()
}

// SourceEnabled reports whether the named source is part of this run.
func (c *Config) SourceEnabled(name string) bool {
	for _, s := range c.Sources {
		if s == name {
			return true
		}
	}
	return false
}
