// Command cleanup hard-deletes soft-deleted splits and settlements that have
// been in the bin longer than the configured retention. Run it from cron;
// the server never purges on its own.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/storage/sqlite"
	"github.com/tallyhq/tally/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	cutoff := time.Now().Add(-cfg.PurgeRetention).Unix()
	removed, err := store.PurgeDeleted(context.Background(), cutoff)
	if err != nil {
		slog.Error("Purge failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Purge complete", "rows_removed", removed, "retention", cfg.PurgeRetention)
}
