package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendance-app/data/form"
	"attendance-app/data/remote"
	"attendance-app/data/repository"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

type application struct {
	Config Config
	// nil when no DATABASE_URL is configured
	Repo  repository.DBRepo
	Forms *formStore
	API   remote.AttendanceAPI
}

func main() {
	initLogging()

	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var app = &application{Config: cfg}
	deps := form.Deps{}

	if cfg.DSN != "" {
		db, err := app.ConnectToDB()
		if err != nil {
			slog.Error("failed to connect to db", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		repo := &repository.SqlRepo{DB: db}
		if err = repo.RunMigrations(dbNameFromDSN(cfg.DSN)); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		app.Repo = repo
		deps.Journal = repo
	} else {
		slog.Info("DATABASE_URL not set, submission journal disabled")
	}

	app.API = remote.NewClient(remote.Config{
		BaseURL: cfg.BaseURLAPI,
		Timeout: cfg.RequestTimeout,
	})
	deps.API = app.API
	app.Forms = newFormStore(deps, cfg.FormTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go app.Forms.Run(ctx, sweepInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port, "events_api", cfg.BaseURLAPI)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
