package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"clipforge/internal/config"
	"clipforge/internal/daemon"
	"clipforge/internal/logging"
	"clipforge/internal/queue"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	// Credentials (Twitch tokens, upload secrets) may live in a .env next to
	// the working directory rather than the config file.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		os.Exit(1)
	}

	d, err := bootstrap(cfg, store, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		store.Close()
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		os.Exit(1)
	}
	if addr := d.APIAddr(); addr != "" {
		fmt.Printf("clipforged listening on http://%s\n", addr)
	}

	<-ctx.Done()
	logger.Info("clipforge daemon shutting down")
	shutdown(d, store, logger)
}

// shutdown stops processing and fails any in-flight items so a restart
// re-runs their stage instead of leaving them stuck in a processing status.
func shutdown(d *daemon.Daemon, store *queue.Store, logger *slog.Logger) {
	d.Stop()
	if count, err := store.FailProcessing(context.Background(), queue.DaemonStopReason); err != nil {
		logger.Warn("failed to mark in-flight items", logging.Error(err))
	} else if count > 0 {
		logger.Info("marked in-flight items as failed for retry", logging.Int64("count", count))
	}
}
