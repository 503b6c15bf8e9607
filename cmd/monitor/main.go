package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"pingwatch/internal/config"
	"pingwatch/internal/database"
	"pingwatch/internal/database/postgres"
	"pingwatch/internal/models"
	"pingwatch/internal/monitor"
	"pingwatch/internal/web"
)

func main() {
	godotenv.Load()

	// Parse configuration
	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Failed to parse configuration",
			slog.String("err", err.Error()))
		os.Exit(2)
	}

	setupLogging(cfg)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration",
			slog.String("err", err.Error()))
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("Monitor failed",
			slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func setupLogging(cfg config.Config) {
	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if cfg.JSONLogs {
		level := slog.LevelInfo
		if cfg.Debug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}
}

func run(cfg config.Config) error {
	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		return err
	}

	var exporters []models.ResultWriter
	if cfg.PostgresURL != "" {
		pg, err := postgres.New(cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer pg.Close()
		exporters = append(exporters, pg)
	}

	// Initialize components
	mon, err := monitor.New(cfg, db, exporters...)
	if err != nil {
		return err
	}
	webServer := web.New(db, cfg.Port)

	// Handle shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return mon.Run(ctx)
	})

	g.Go(func() error {
		return webServer.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return webServer.Shutdown(shutdownCtx)
	})

	slog.Info("Web interface available",
		slog.String("url", fmt.Sprintf("http://localhost:%d", cfg.Port)))

	return g.Wait()
}
