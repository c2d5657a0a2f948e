// Package config holds the touchmount command configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/printmount/touchmount/helpers/matter"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// Variants that can be built.
const (
	VariantStock = "stock"
	VariantRPi   = "rpi"
)

// Config holds command configuration. Environment variables set the
// defaults and flags override them.
type Config struct {
	Variant     string        `env:"TOUCHMOUNT_VARIANT"     envDefault:"stock"`
	Out         string        `env:"TOUCHMOUNT_OUT"         envDefault:"."`
	Resolution  int           `env:"TOUCHMOUNT_RESOLUTION"  envDefault:"200"`
	Preview     bool          `env:"TOUCHMOUNT_PREVIEW"`
	LogLevel    string        `env:"TOUCHMOUNT_LOG_LEVEL"   envDefault:"info"`
	Concurrency int           `env:"TOUCHMOUNT_CONCURRENCY" envDefault:"4"`
	Material    string        `env:"TOUCHMOUNT_MATERIAL"`
	Timeout     time.Duration `env:"TOUCHMOUNT_TIMEOUT"     envDefault:"10m"`
}

// Parse reads the environment, then parses args with fs.
func Parse(fs *pflag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	fs.StringVar(&cfg.Variant, "variant", cfg.Variant, "mount variant: stock or rpi")
	fs.StringVarP(&cfg.Out, "out", "o", cfg.Out, "output directory")
	fs.IntVarP(&cfg.Resolution, "resolution", "r", cfg.Resolution, "mesh cells along the longest side of the plate")
	fs.BoolVar(&cfg.Preview, "preview", cfg.Preview, "also render PNG previews")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.IntVarP(&cfg.Concurrency, "concurrency", "j", cfg.Concurrency, "parts meshed at once")
	fs.StringVar(&cfg.Material, "material", cfg.Material, "compensate shrinkage for material (PLA, PETG), empty for nominal size")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "abort export after this long")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks option values.
func (c Config) Validate() error {
	var errs []error
	switch c.Variant {
	case VariantStock, VariantRPi:
	default:
		errs = append(errs, fmt.Errorf("unknown variant %q", c.Variant))
	}
	if c.Out == "" {
		errs = append(errs, errors.New("empty output directory"))
	}
	if c.Resolution < 2 {
		errs = append(errs, fmt.Errorf("resolution %d below 2", c.Resolution))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency %d below 1", c.Concurrency))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout %s not positive", c.Timeout))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	if _, err := c.MaterialSpec(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the configured log level.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// MaterialSpec returns the material to compensate for, nil for none.
func (c Config) MaterialSpec() (*matter.ViscousMaterial, error) {
	if c.Material == "" {
		return nil, nil
	}
	m, err := matter.ByName(c.Material)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
