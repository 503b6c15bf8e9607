package models

import (
	"context"
)

// Database interface defines operations for data persistence
type Database interface {
	ResultWriter
	GetRecent(hours int) ([]ProbeResult, error)
	GetLatest() ([]ProbeResult, error)
	GetStats(hours int) ([]Stats, error)
	GetOutages(days int) ([]Outage, error)
	GetHeatmapData(days int) ([]HeatmapPoint, error)
	GetPatterns(hour int) ([]PatternDetail, error)
	ArchiveOldData() error
	Close() error
}

// ResultWriter receives every completed probe result
type ResultWriter interface {
	SaveResult(ctx context.Context, result ProbeResult) error
}

// Action is a repeatable probe polled by a driver.
// Tick never blocks; it returns a nil result while nothing is ready.
type Action interface {
	Tick() (*ProbeResult, error)
}
