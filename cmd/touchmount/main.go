// Command touchmount builds a touchscreen mount and writes its printable
// parts, assembly and drawings.
//
// Usage:
//
//	touchmount [--variant stock|rpi] [--out DIR] [--resolution N] [--preview]
//	           [--concurrency N] [--material PLA|PETG] [--timeout D]
//	           [--log-level LEVEL]
//
// Every flag has a TOUCHMOUNT_* environment variable counterpart.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/printmount/touchmount/config"
	"github.com/printmount/touchmount/export"
	"github.com/printmount/touchmount/mount"
	"github.com/printmount/touchmount/mount/rpi"
	"github.com/printmount/touchmount/mount/stock"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	fs := pflag.NewFlagSet("touchmount", pflag.ContinueOnError)
	cfg, err := config.Parse(fs, os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log = log.Level(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := run(ctx, log, cfg); err != nil {
		log.Error().Err(err).Str("variant", cfg.Variant).Msg("export failed")
		stop()
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, log zerolog.Logger, cfg config.Config) error {
	mat, err := cfg.MaterialSpec()
	if err != nil {
		return err
	}
	var m *mount.Mount
	switch cfg.Variant {
	case config.VariantRPi:
		m, err = rpi.New(mat)
	default:
		m, err = stock.New(mat)
	}
	if err != nil {
		return err
	}
	ev := log.Info().Str("name", m.Name).Int("spacers", len(m.Spacers))
	if mat != nil {
		ev = ev.Str("material", mat.Name)
	}
	ev.Msg("built mount")
	arts, err := export.Run(ctx, log, export.Options{
		Dir:         cfg.Out,
		Resolution:  cfg.Resolution,
		Preview:     cfg.Preview,
		Concurrency: cfg.Concurrency,
	}, m)
	if err != nil {
		return err
	}
	log.Info().Int("files", len(arts)).Str("dir", cfg.Out).Msg("done")
	return nil
}
