package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/avoronin/exchange-sim/internal/config"
	"github.com/avoronin/exchange-sim/internal/database"
	"github.com/avoronin/exchange-sim/internal/exchange"
	"github.com/avoronin/exchange-sim/internal/journal"
	"github.com/avoronin/exchange-sim/internal/server"
	"github.com/avoronin/exchange-sim/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting exchanged",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	var cfg *config.ExchangeConfig
	if *configPath != "" {
		loaded, err := config.LoadAndValidate(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	logger.Info("configuration loaded",
		"listen", cfg.Server.Listen,
		"journal_enabled", cfg.Database.Enabled(),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Seed the registry
	registry := exchange.NewRegistry()
	if err := exchange.Seed(registry); err != nil {
		logger.Error("failed to seed registry", "error", err)
		os.Exit(1)
	}
	for _, sec := range registry.List() {
		logger.Info("seeded security", "ticker", sec.Ticker, "price", sec.Price)
	}

	// Optional execution journal
	var recorder journal.Recorder = journal.Nop{}
	if cfg.Database.Enabled() {
		logger.Info("connecting to journal database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		writer := journal.NewWriter(cfg.Journal, pool, logger)
		if err := writer.Start(ctx); err != nil {
			logger.Error("failed to start journal", "error", err)
			os.Exit(1)
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer stopCancel()
			writer.Stop(stopCtx)
		}()
		recorder = writer
	}

	// Serve
	srv := server.New(cfg, registry, recorder, logger)
	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("stopping")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stopCancel()
	if err := srv.Stop(stopCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
