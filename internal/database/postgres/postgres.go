// Package postgres exports probe results into a PostgreSQL table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"pingwatch/internal/models"
)

const tableName = "pingwatch_results_v1"

// Writer appends results to Postgres
type Writer struct {
	db    *sql.DB
	table string
}

// New connects to dbURL and creates the results table if needed
func New(dbURL string) (*Writer, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	query := fmt.Sprintf(`create table if not exists %s (
		time timestamp with time zone not null,
		finished timestamp with time zone not null,
		run_id text not null,
		target text not null,
		status text not null,
		reason text,
		message text,
		loss_percent double precision,
		rtt_min_ms double precision,
		rtt_avg_ms double precision,
		rtt_max_ms double precision,
		rtt_stddev_ms double precision
	)`, tableName)

	if _, err := db.ExecContext(ctx, query); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres table setup failed: %w", err)
	}

	slog.Info("Postgres export enabled",
		slog.String("table", tableName))

	return &Writer{db: db, table: tableName}, nil
}

// Close closes the database connections
func (w *Writer) Close() error {
	return w.db.Close()
}

// SaveResult writes a single probe result
func (w *Writer) SaveResult(ctx context.Context, result models.ProbeResult) error {
	row, err := resultRow(result)
	if err != nil {
		return err
	}

	query, args := insertQuery(w.table, row)
	_, err = w.db.ExecContext(ctx, query, args...)
	return err
}

func resultRow(result models.ProbeResult) (map[string]any, error) {
	if result.Target == "" {
		return nil, errors.New("empty result target")
	}

	if result.StartedAt.IsZero() {
		result.StartedAt = time.Now()
	}
	if result.FinishedAt.IsZero() {
		result.FinishedAt = result.StartedAt
	}

	row := map[string]any{
		"time":     result.StartedAt,
		"finished": result.FinishedAt,
		"run_id":   result.RunID,
		"target":   result.Target,
		"status":   result.Status,
	}

	if result.Reason != "" {
		row["reason"] = result.Reason
	}
	if result.Message != "" {
		row["message"] = result.Message
	}

	if result.Success() {
		row["loss_percent"] = result.LossPercent
		row["rtt_min_ms"] = result.RoundTrip.Min
		row["rtt_avg_ms"] = result.RoundTrip.Avg
		row["rtt_max_ms"] = result.RoundTrip.Max
		row["rtt_stddev_ms"] = result.RoundTrip.StdDev
	} else if result.LossPercent > 0 {
		row["loss_percent"] = result.LossPercent
	}

	return row, nil
}

func insertQuery(table string, row map[string]any) (string, []any) {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	args := make([]any, len(columns))
	bindvars := make([]string, len(columns))
	for idx, col := range columns {
		args[idx] = row[col]
		bindvars[idx] = "$" + strconv.Itoa(idx+1)
	}

	query := fmt.Sprintf("insert into %s (%s) values (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(bindvars, ", "))

	return query, args
}
