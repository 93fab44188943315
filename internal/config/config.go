// Package config resolves run settings from defaults, the environment, a
// YAML or JSONC file and command-line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/PhotoPack/internal/model"
)

const defaultPaper = "letter"

// Config aggregates run settings resolved from multiple sources.
// Precedence: CLI flags > config file > environment variables > defaults
type Config struct {
	Paper         string  `yaml:"paper" json:"paper"`
	PageWidth     float64 `yaml:"page_width" json:"page_width"`   // Overrides Paper when both sides are set
	PageHeight    float64 `yaml:"page_height" json:"page_height"` // Overrides Paper when both sides are set
	Margin        float64 `yaml:"margin" json:"margin"`
	MaxSideLength float64 `yaml:"max_side_length" json:"max_side_length"`
	DPI           float64 `yaml:"dpi" json:"dpi"`
	Landscape     bool    `yaml:"landscape" json:"landscape"`
	Workers       int     `yaml:"workers" json:"workers"`
	LogLevel      string  `yaml:"log_level" json:"log_level"`
}

// fileConfig mirrors Config with optional fields so that explicit zeros in a
// file (a zero margin, say) are told apart from absent keys.
type fileConfig struct {
	Paper         *string  `yaml:"paper" json:"paper"`
	PageWidth     *float64 `yaml:"page_width" json:"page_width"`
	PageHeight    *float64 `yaml:"page_height" json:"page_height"`
	Margin        *float64 `yaml:"margin" json:"margin"`
	MaxSideLength *float64 `yaml:"max_side_length" json:"max_side_length"`
	DPI           *float64 `yaml:"dpi" json:"dpi"`
	Landscape     *bool    `yaml:"landscape" json:"landscape"`
	Workers       *int     `yaml:"workers" json:"workers"`
	LogLevel      *string  `yaml:"log_level" json:"log_level"`
}

// CLIOverrides holds command-line flag overrides. Nil fields were not given.
type CLIOverrides struct {
	ConfigFile    string
	Paper         *string
	Margin        *float64
	MaxSideLength *float64
	DPI           *float64
	Landscape     *bool
	Workers       *int
	LogLevel      *string
}

// Default returns the built-in settings: letter paper, quarter-inch margins,
// a 3.5 inch side cap and 300 dpi.
func Default() Config {
	return Config{
		Paper:         defaultPaper,
		Margin:        model.DefaultMargin,
		MaxSideLength: model.DefaultMaxSideLength,
		DPI:           model.DefaultDPI,
		Workers:       runtime.NumCPU(),
		LogLevel:      "info",
	}
}

// DefaultConfigDir returns the per-user configuration directory, ~/.photopack/.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".photopack")
}

// DefaultConfigPath returns the config file read when no --config is given.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load resolves the configuration. An explicit config file must exist; the
// default one is read only when present.
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := Default()

	applyEnvConfig(&cfg)

	path := DefaultConfigPath()
	explicit := overrides != nil && overrides.ConfigFile != ""
	if explicit {
		path = overrides.ConfigFile
	}
	fc, err := loadFromFile(path)
	switch {
	case err == nil:
		applyFileConfig(&cfg, fc)
	case explicit || !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFromFile reads YAML, or JSON with comments for .json and .jsonc files.
func loadFromFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &fc); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	}
	return &fc, nil
}

func applyFileConfig(cfg *Config, fc *fileConfig) {
	if fc.Paper != nil {
		cfg.Paper = *fc.Paper
	}
	if fc.PageWidth != nil {
		cfg.PageWidth = *fc.PageWidth
	}
	if fc.PageHeight != nil {
		cfg.PageHeight = *fc.PageHeight
	}
	if fc.Margin != nil {
		cfg.Margin = *fc.Margin
	}
	if fc.MaxSideLength != nil {
		cfg.MaxSideLength = *fc.MaxSideLength
	}
	if fc.DPI != nil {
		cfg.DPI = *fc.DPI
	}
	if fc.Landscape != nil {
		cfg.Landscape = *fc.Landscape
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
}

// applyEnvConfig applies environment variables. Unparseable values are ignored.
func applyEnvConfig(cfg *Config) {
	if paper := strings.TrimSpace(os.Getenv("PHOTOPACK_PAPER")); paper != "" {
		cfg.Paper = paper
	}
	if v, ok := envFloat("PHOTOPACK_MARGIN"); ok {
		cfg.Margin = v
	}
	if v, ok := envFloat("PHOTOPACK_DPI"); ok {
		cfg.DPI = v
	}
	if v, ok := envFloat("PHOTOPACK_MAX_SIDE"); ok {
		cfg.MaxSideLength = v
	}
	if level := strings.TrimSpace(os.Getenv("PHOTOPACK_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}
}

func envFloat(key string) (float64, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, o *CLIOverrides) {
	if o.Paper != nil && *o.Paper != "" {
		cfg.Paper = *o.Paper
		// A named paper on the command line beats custom file dimensions
		cfg.PageWidth, cfg.PageHeight = 0, 0
	}
	if o.Margin != nil {
		cfg.Margin = *o.Margin
	}
	if o.MaxSideLength != nil {
		cfg.MaxSideLength = *o.MaxSideLength
	}
	if o.DPI != nil {
		cfg.DPI = *o.DPI
	}
	if o.Landscape != nil {
		cfg.Landscape = *o.Landscape
	}
	if o.Workers != nil {
		cfg.Workers = *o.Workers
	}
	if o.LogLevel != nil && *o.LogLevel != "" {
		cfg.LogLevel = *o.LogLevel
	}
}

// PageSettings resolves the paper and orientation into packing settings.
func (c Config) PageSettings() (model.PageSettings, error) {
	w, h := c.PageWidth, c.PageHeight
	if w <= 0 || h <= 0 {
		paper, ok := model.LookupPaper(c.Paper)
		if !ok {
			return model.PageSettings{}, fmt.Errorf("%w: unknown paper %q (known: %s)",
				model.ErrInvalidDimension, c.Paper, strings.Join(model.PaperNames(), ", "))
		}
		w, h = paper.Width, paper.Height
	}
	if c.Landscape && w < h {
		w, h = h, w
	}

	s := model.PageSettings{Width: w, Height: h, Margin: c.Margin, MaxSideLength: c.MaxSideLength}
	if err := s.Validate(); err != nil {
		return model.PageSettings{}, err
	}
	return s, nil
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	if c.DPI <= 0 {
		return fmt.Errorf("%w: dpi must be positive, got %g", model.ErrInvalidDimension, c.DPI)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	_, err := c.PageSettings()
	return err
}
