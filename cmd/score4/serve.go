package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"score4/internal/config"
	"score4/internal/realtime"
	"score4/internal/server"
	"score4/internal/session"
	"score4/internal/storage"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the game server",
	Long: `Start the HTTP server hosting the game API and per-game websocket
channels.

Examples:
  score4 serve
  score4 serve --listen :9000
  score4 serve --config ./score4.yaml --db ./games.db`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (overrides config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagListen != "" {
		cfg.Server.Listen = flagListen
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "score4",
	})

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open game database: %w", err)
	}
	defer store.Close()

	hub := realtime.NewHub(logger)
	machine := session.NewMachine(store, hub, logger, session.Rule(cfg.Game.DefaultRule), cfg.Game.DefaultDifficulty)

	// a dropped websocket forfeits the participant's open game
	hub.SetDisconnectHandler(func(gameID, playerID string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := machine.Abandon(ctx, session.Identity{ID: playerID}, gameID); err != nil {
			logger.Error("abandon after disconnect", "game", gameID, "player", playerID, "error", err)
		}
	})

	srv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           server.New(machine, hub, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Listen, "db", cfg.Storage.Path)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
