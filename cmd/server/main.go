package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/daysync/internal/config"
	"github.com/iudanet/daysync/internal/server"
	"github.com/iudanet/daysync/internal/server/handlers"
	"github.com/iudanet/daysync/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}

	logger, closer, err := config.NewLogger(cfg.LogLevel, "")
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	srv := server.New(logger, server.Config{
		Version: Version,
		JWT: handlers.JWTConfig{
			Secret:         []byte(cfg.JWTSecret),
			AccessTokenTTL: cfg.TokenTTL,
		},
		RateLimit:  cfg.RateLimit,
		RateWindow: cfg.RateWindow,
	}, store, store, store.DB())
	defer srv.Close()

	logger.Info("DaySync server starting", "version", Version, "db", cfg.DBPath)

	return srv.Run(ctx, cfg.Addr, cfg.ShutdownTTL)
}

func printVersion() {
	fmt.Printf("DaySync Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
