// Package config loads the settings of the ewt tool.
//
// Values are resolved in order, each source overriding the previous one:
// the defaults, an optional YAML file, a .env file, and the environment
// variables prefixed by EWT (e.g. EWT_FETCH_MAX_ATTEMPTS). Command line flags
// are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/etnz/equalweight"
	"github.com/etnz/equalweight/eodhd"
	"github.com/etnz/equalweight/logging"
	"github.com/etnz/equalweight/renderer"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "EWT"

// DefaultUniverse is the list of stocks used when none is given.
const DefaultUniverse = "sp500_companies.csv"

// Config is the complete configuration of the tool.
type Config struct {
	Universe  string        `yaml:"universe" split_words:"true"`
	Currency  string        `yaml:"currency" split_words:"true"`
	Precision int32         `yaml:"precision" split_words:"true"`
	OutputDir string        `yaml:"output_dir" split_words:"true"`
	Fetch     FetchConfig   `yaml:"fetch" split_words:"true"`
	EODHD     EODHDConfig   `yaml:"eodhd" split_words:"true"`
	Report    ReportConfig  `yaml:"report" split_words:"true"`
	Logging   LoggingConfig `yaml:"logging" split_words:"true"`
}

// FetchConfig is the retry policy of the quote retrieval.
type FetchConfig struct {
	MaxAttempts    int           `yaml:"max_attempts" split_words:"true"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout" split_words:"true"`
	Backoff        bool          `yaml:"backoff" split_words:"true"`
	BaseDelay      time.Duration `yaml:"base_delay" split_words:"true"`
	Multiplier     float64       `yaml:"multiplier" split_words:"true"`
	MaxDelay       time.Duration `yaml:"max_delay" split_words:"true"`
}

// EODHDConfig configures the EODHD quote source.
type EODHDConfig struct {
	APIKey            string        `yaml:"api_key" split_words:"true"`
	BaseURL           string        `yaml:"base_url" split_words:"true"`
	Exchange          string        `yaml:"exchange" split_words:"true"`
	Timeout           time.Duration `yaml:"timeout" split_words:"true"`
	RequestsPerSecond float64       `yaml:"requests_per_second" split_words:"true"`
	Burst             int           `yaml:"burst" split_words:"true"`
}

// ReportConfig is the layout of the xlsx report.
type ReportConfig struct {
	SheetName   string  `yaml:"sheet_name" split_words:"true"`
	FileName    string  `yaml:"file_name" split_words:"true"`
	ColumnWidth float64 `yaml:"column_width" split_words:"true"`
	FontColor   string  `yaml:"font_color" split_words:"true"`
	Background  string  `yaml:"background" split_words:"true"`
	Border      int     `yaml:"border" split_words:"true"`
}

// LoggingConfig configures the diagnostics.
type LoggingConfig struct {
	Level      string `yaml:"level" split_words:"true"`
	File       string `yaml:"file" split_words:"true"`
	MaxSizeMB  int    `yaml:"max_size_mb" split_words:"true"`
	MaxBackups int    `yaml:"max_backups" split_words:"true"`
	MaxAgeDays int    `yaml:"max_age_days" split_words:"true"`
	Compress   bool   `yaml:"compress" split_words:"true"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	fetch := equalweight.DefaultFetchConfig()
	alloc := equalweight.DefaultAllocationConfig()
	src := eodhd.DefaultConfig()
	report := renderer.DefaultConfig()
	logs := logging.DefaultOptions()
	return &Config{
		Universe:  DefaultUniverse,
		Currency:  alloc.Currency,
		Precision: alloc.Precision,
		OutputDir: ".",
		Fetch: FetchConfig{
			MaxAttempts:    fetch.MaxAttempts,
			AttemptTimeout: fetch.AttemptTimeout,
			Backoff:        fetch.Backoff.Enabled,
			BaseDelay:      fetch.Backoff.BaseDelay,
			Multiplier:     fetch.Backoff.Multiplier,
			MaxDelay:       fetch.Backoff.MaxDelay,
		},
		EODHD: EODHDConfig{
			BaseURL:  src.BaseURL,
			Exchange: src.Exchange,
			Timeout:  src.Timeout,
			Burst:    src.Burst,
		},
		Report: ReportConfig{
			SheetName:   report.SheetName,
			FileName:    report.FileName,
			ColumnWidth: report.ColumnWidth,
			FontColor:   report.FontColor,
			Background:  report.Background,
			Border:      report.Border,
		},
		Logging: LoggingConfig{
			Level:      logs.Level,
			MaxSizeMB:  logs.MaxSizeMB,
			MaxBackups: logs.MaxBackups,
			MaxAgeDays: logs.MaxAgeDays,
		},
	}
}

// Load returns the configuration read from the YAML file at path, the .env
// file at dotenv and the environment.
//
// An empty path skips the YAML file, but a path that cannot be read is an
// error. A missing .env file is ignored.
func Load(path, dotenv string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config file %q: %w", path, err)
		}
	}

	if dotenv != "" {
		if _, err := os.Stat(dotenv); err == nil {
			// Variables already set in the environment are not overridden.
			if err := godotenv.Load(dotenv); err != nil {
				return nil, fmt.Errorf("cannot load %q: %w", dotenv, err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("cannot load config from environment: %w", err)
	}
	if cfg.EODHD.APIKey == "" {
		cfg.EODHD.APIKey = os.Getenv(eodhd.APIKeyEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting of c.
func (c *Config) Validate() error {
	var errs []error
	if money.GetCurrency(c.Currency) == nil {
		errs = append(errs, fmt.Errorf("unknown currency %q", c.Currency))
	}
	if c.Precision <= 0 {
		errs = append(errs, fmt.Errorf("precision must be positive, got %d", c.Precision))
	}
	if c.Fetch.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("fetch.max_attempts must be at least 1, got %d", c.Fetch.MaxAttempts))
	}
	if c.Fetch.AttemptTimeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch.attempt_timeout must be positive, got %v", c.Fetch.AttemptTimeout))
	}
	if c.Fetch.Backoff && c.Fetch.Multiplier < 1 {
		errs = append(errs, fmt.Errorf("fetch.multiplier must be at least 1, got %v", c.Fetch.Multiplier))
	}
	if c.EODHD.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("eodhd.requests_per_second cannot be negative"))
	}
	if _, err := logrus.ParseLevel(strings.TrimSpace(c.Logging.Level)); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// FetchConfig returns the retry policy of the Fetcher.
func (c *Config) FetchConfig() equalweight.FetchConfig {
	return equalweight.FetchConfig{
		MaxAttempts:    c.Fetch.MaxAttempts,
		AttemptTimeout: c.Fetch.AttemptTimeout,
		Backoff: equalweight.BackoffConfig{
			Enabled:    c.Fetch.Backoff,
			BaseDelay:  c.Fetch.BaseDelay,
			Multiplier: c.Fetch.Multiplier,
			MaxDelay:   c.Fetch.MaxDelay,
		},
	}
}

// AllocationConfig returns the settings of the Engine.
func (c *Config) AllocationConfig() equalweight.AllocationConfig {
	return equalweight.AllocationConfig{Currency: c.Currency, Precision: c.Precision}
}

// EODHDConfig returns the settings of the EODHD source.
func (c *Config) EODHDConfig() eodhd.Config {
	return eodhd.Config{
		APIKey:            c.EODHD.APIKey,
		BaseURL:           c.EODHD.BaseURL,
		Exchange:          c.EODHD.Exchange,
		Timeout:           c.EODHD.Timeout,
		RequestsPerSecond: c.EODHD.RequestsPerSecond,
		Burst:             c.EODHD.Burst,
	}
}

// ReportConfig returns the layout of the xlsx report.
func (c *Config) ReportConfig() renderer.Config {
	return renderer.Config{
		SheetName:   c.Report.SheetName,
		FileName:    c.Report.FileName,
		ColumnWidth: c.Report.ColumnWidth,
		FontColor:   c.Report.FontColor,
		Background:  c.Report.Background,
		Border:      c.Report.Border,
		Currency:    c.Currency,
	}
}

// LoggingOptions returns the options of the logger.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:      c.Logging.Level,
		File:       c.Logging.File,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
		Compress:   c.Logging.Compress,
	}
}
