package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"pingwatch/internal/config"
	"pingwatch/internal/database"
	"pingwatch/internal/report"
)

func main() {
	godotenv.Load()

	var (
		dbPath = flag.String("db", "pingwatch.db", "Database path")
		hours  = flag.Int("hours", 24, "Reporting period in hours")
		outDir = flag.String("out", "reports", "Output directory")
		debug  = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	if *debug || os.Getenv(config.EnvDebug) == "true" {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if *hours <= 0 {
		slog.Error("Reporting period must be positive")
		os.Exit(1)
	}

	db, err := database.New(*dbPath)
	if err != nil {
		slog.Error("Failed to open database",
			slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("err", err.Error()))
		os.Exit(1)
	}

	if _, err := report.NewGenerator(db).GenerateReport(*outDir, *hours); err != nil {
		slog.Error("Failed to generate report",
			slog.String("err", err.Error()))
		os.Exit(1)
	}
}
