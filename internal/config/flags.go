package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"pingwatch/internal/action"
	"pingwatch/internal/ping"
)

// Environment overrides, usually set through .env
const (
	EnvPostgresURL = "PINGWATCH_POSTGRES_URL"
	EnvDebug       = "DEBUG"
	EnvLogFormat   = "LOGFMT"
)

// ParseFlags parses command-line arguments and returns a Config.
// When -config names a file its probe groups replace the -targets group.
func ParseFlags(args []string) (Config, error) {
	fs := flag.NewFlagSet("pingwatch", flag.ContinueOnError)

	var (
		interval   = fs.Duration("interval", action.DefaultInterval, "Minimum time between probe runs")
		poll       = fs.Duration("poll", 1*time.Second, "How often running probes are checked")
		count      = fs.Int("count", ping.DefaultCount, "Echo requests per probe run")
		dbPath     = fs.String("db", "pingwatch.db", "Database path")
		port       = fs.Int("port", 8080, "Web server port")
		targets    = fs.String("targets", "8.8.8.8,1.1.1.1,208.67.222.222", "Comma-separated ping targets, probed in rotation")
		configFile = fs.String("config", "", "YAML or JSON probe configuration file")
		debug      = fs.Bool("debug", false, "Enable debug logging")
		jsonLogs   = fs.Bool("json-logs", false, "Log in JSON format")
	)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Probes: []ProbeGroup{{
			Name:     "default",
			Targets:  strings.Split(*targets, ","),
			Interval: *interval,
			Count:    *count,
		}},
		Poll:         *poll,
		DatabasePath: *dbPath,
		Port:         *port,
		PostgresURL:  os.Getenv(EnvPostgresURL),
		ConfigFile:   *configFile,
		Debug:        *debug || os.Getenv(EnvDebug) == "true",
		JSONLogs:     *jsonLogs || os.Getenv(EnvLogFormat) == "json",
	}

	if cfg.ConfigFile != "" {
		file, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return Config{}, err
		}
		file.apply(&cfg, *interval, *count)
	}

	return cfg, nil
}
