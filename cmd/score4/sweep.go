package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"score4/internal/config"
	"score4/internal/session"
	"score4/internal/storage"
)

var flagMaxAge time.Duration

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Abandon games idle past a cutoff",
	Long: `Mark unfinished human-vs-human games with no activity inside the
window as abandoned, with no winner declared. Meant to run periodically
from cron or a systemd timer.

Examples:
  score4 sweep
  score4 sweep --max-age 48h --db ./games.db`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().DurationVar(&flagMaxAge, "max-age", 0, "Idle cutoff (overrides config, default 24h)")
}

func runSweep(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	maxAge := cfg.Sweep.MaxAge.Std()
	if flagMaxAge > 0 {
		maxAge = flagMaxAge
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "score4-sweep",
	})

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open game database: %w", err)
	}
	defer store.Close()

	machine := session.NewMachine(store, session.NopPublisher{}, logger, session.Rule(cfg.Game.DefaultRule), cfg.Game.DefaultDifficulty)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	swept, err := machine.SweepStale(ctx, maxAge)
	if err != nil {
		return err
	}
	logger.Info("sweep complete", "swept", swept, "max_age", maxAge)
	return nil
}
