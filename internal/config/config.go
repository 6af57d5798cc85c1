// Package config loads librecur settings from a YAML file and LIBRECUR_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cyp0633/librecur/i18n"
	"github.com/cyp0633/librecur/recurrence"
	"github.com/spf13/viper"
)

// Config holds the settings shared by every librecur command.
type Config struct {
	// Built-in catalog used for summaries ("en", "de")
	Locale string `yaml:"locale" mapstructure:"locale"`

	// Optional YAML catalog that replaces the built-in one
	CatalogFile string `yaml:"catalog_file" mapstructure:"catalog_file"`

	// Strategy attached to rules that carry none
	Strategy string `yaml:"strategy" mapstructure:"strategy"`

	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Locale:   "en",
		Strategy: string(recurrence.StrategyFixed),
		LogLevel: "warn",
	}
}

// Load reads path (if non-empty) over the defaults, then applies LIBRECUR_*
// environment overrides such as LIBRECUR_LOCALE.
func Load(path string) (*Config, error) {
	def := Default()

	v := viper.New()
	v.SetDefault("locale", def.Locale)
	v.SetDefault("catalog_file", def.CatalogFile)
	v.SetDefault("strategy", def.Strategy)
	v.SetDefault("log_level", def.LogLevel)
	v.SetEnvPrefix("LIBRECUR")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	var errs []error
	if c.CatalogFile == "" && c.Locale != "" && !isBuiltin(c.Locale) {
		errs = append(errs, fmt.Errorf("locale %q has no built-in catalog (have %s)",
			c.Locale, strings.Join(i18n.Languages(), ", ")))
	}
	if c.Strategy != "" {
		if _, err := recurrence.ParseStrategy(c.Strategy); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func isBuiltin(lang string) bool {
	for _, l := range i18n.Languages() {
		if l == lang {
			return true
		}
	}
	return false
}

// Level returns the slog level named by LogLevel, or warn when it is unset.
func (c *Config) Level() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelWarn, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return lvl, nil
}

// DefaultStrategy returns the configured strategy, falling back to fixed.
func (c *Config) DefaultStrategy() recurrence.Strategy {
	s, err := recurrence.ParseStrategy(c.Strategy)
	if err != nil {
		return recurrence.StrategyFixed
	}
	return s
}

// Catalog loads the message catalog selected by CatalogFile or Locale.
func (c *Config) Catalog() (*i18n.Catalog, error) {
	if c.CatalogFile != "" {
		return i18n.LoadFile(c.CatalogFile)
	}
	lang := c.Locale
	if lang == "" {
		lang = "en"
	}
	return i18n.Builtin(lang)
}
