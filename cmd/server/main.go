package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/commercedesk/affiliate-kpi/internal/config"
	"github.com/commercedesk/affiliate-kpi/internal/httpx"
	"github.com/commercedesk/affiliate-kpi/internal/report"
	"github.com/commercedesk/affiliate-kpi/internal/service"
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

	loader := store.NewLoader(db, logger)
	svc := service.New(loader, report.NewAssembler(), logger)
	r := httpx.NewRouter(logger, svc, cfg.ReportPath)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.HTTPTimeout,
		WriteTimeout:      cfg.HTTPTimeout,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
