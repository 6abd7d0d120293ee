// Package config loads the price-list settings from defaults, an optional
// YAML file, a .env file and the environment, in that order.
package config

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"pricecatalog/catalog"
	"pricecatalog/services"
)

// Config holds every setting of a render run.
type Config struct {
	Title   string `yaml:"title"`
	Locale  string `yaml:"locale"`  // fr or en
	Column  string `yaml:"column"`  // selected price column code, empty for per-class default
	Details bool   `yaml:"details"` // show the cost column and margins
	Format  string `yaml:"format"`  // default output format

	Log    LogConfig              `yaml:"log"`
	Layout services.LayoutOptions `yaml:"layout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Title:  "Liste de prix",
		Locale: string(services.LocaleFR),
		Format: string(services.FormatPDF),
		Log: LogConfig{
			Level: "info",
		},
		Layout: services.DefaultLayoutOptions(),
	}
}

// Load reads configuration from an optional YAML file and the environment.
// A missing .env file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PRICELIST_TITLE"); v != "" {
		cfg.Title = v
	}
	if v := os.Getenv("PRICELIST_LOCALE"); v != "" {
		cfg.Locale = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("PRICELIST_COLUMN"); v != "" {
		cfg.Column = v
	}
	if v := os.Getenv("PRICELIST_DETAILS"); v != "" {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return fmt.Errorf("PRICELIST_DETAILS: %w", err)
		}
		cfg.Details = b
	}
	if v := os.Getenv("PRICELIST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PRICELIST_PAGE_HEIGHT"); v != "" {
		h, err := cast.ToFloat64E(v)
		if err != nil {
			return fmt.Errorf("PRICELIST_PAGE_HEIGHT: %w", err)
		}
		cfg.Layout.PageHeight = h
	}
	return nil
}

var (
	locales   = []any{string(services.LocaleFR), string(services.LocaleEN)}
	formats   = []any{string(services.FormatPDF), string(services.FormatXLSX), string(services.FormatHTML), string(services.FormatText)}
	logLevels = []any{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&c.Locale, validation.Required, validation.In(locales...)),
		validation.Field(&c.Format, validation.Required, validation.In(formats...)),
		validation.Field(&c.Column, validation.By(validColumn)),
		validation.Field(&c.Log),
		validation.Field(&c.Layout, validation.By(validLayout)),
	)
}

// Validate checks the logger settings.
func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.Required, validation.In(logLevels...)),
	)
}

// validColumn accepts any header an imported file can carry as a price
// column, so 05-GROS, PROMO and 06-A1 all select. Only blank or control
// characters are refused.
func validColumn(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	code := string(catalog.ParseColumnCode(raw))
	if code == "" || strings.IndexFunc(code, unicode.IsControl) >= 0 {
		return validation.NewError("validation_price_column", "must be a price column code such as 05-GROS or PROMO")
	}
	return nil
}

func validLayout(value any) error {
	o, ok := value.(services.LayoutOptions)
	if !ok {
		return fmt.Errorf("unexpected layout type %T", value)
	}
	return validation.ValidateStruct(&o,
		validation.Field(&o.PageHeight, validation.Required, validation.Min(50.0), validation.Max(1000.0)),
		validation.Field(&o.CategoryBannerHeight, validation.Required, validation.Min(1.0)),
		validation.Field(&o.ClassBannerHeight, validation.Required, validation.Min(1.0)),
		validation.Field(&o.HeaderHeight, validation.Required, validation.Min(1.0)),
		validation.Field(&o.RowHeight, validation.Required, validation.Min(1.0)),
		validation.Field(&o.CategoryGap, validation.Min(0.0)),
	)
}

// ComposeOptions converts the settings into composer options.
func (c *Config) ComposeOptions() services.ComposeOptions {
	return services.ComposeOptions{
		SelectedColumn: catalog.ParseColumnCode(c.Column),
		Details:        c.Details,
		Locale:         services.ParseLocale(c.Locale),
		Layout:         c.Layout,
	}
}
