// Command seed creates the schema and fills the database with a
// deterministic synthetic affiliate history. Knobs come from AFF_SEED_* env
// vars; reruns with the same seed produce the same dataset.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/commercedesk/affiliate-kpi/internal/config"
	"github.com/commercedesk/affiliate-kpi/internal/seed"
	"github.com/commercedesk/affiliate-kpi/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx := context.Background()
	db, err := store.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("database error", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := store.EnsureSchema(ctx, db); err != nil {
		logger.Error("schema error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	gen := seed.New(db, seed.Config{
		Partners:  cfg.SeedPartners,
		Campaigns: cfg.SeedCampaigns,
		Days:      cfg.SeedDays,
		Seed:      cfg.SeedValue,
	}, logger)

	if err := gen.Run(ctx); err != nil {
		logger.Error("seed error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
