package database

import (
	"context"
	"time"

	"github.com/guregu/null"

	"pingwatch/internal/models"
)

const resultColumns = `run_id, timestamp, finished, target, status, reason, message,
            loss_percent, rtt_min_ms, rtt_avg_ms, rtt_max_ms, rtt_stddev_ms`

// SaveResult saves a probe result to the database
func (db *DB) SaveResult(ctx context.Context, result models.ProbeResult) error {
	query := `
        INSERT INTO probe_results (` + resultColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	ok := result.Success()
	rt := result.RoundTrip

	_, err := db.ExecContext(ctx, query,
		result.RunID,
		result.StartedAt.UnixNano(),
		result.FinishedAt.UnixNano(),
		result.Target,
		result.Status,
		null.NewString(result.Reason, result.Reason != ""),
		null.NewString(result.Message, result.Message != ""),
		null.NewFloat(result.LossPercent, ok || result.LossPercent > 0),
		null.NewFloat(rt.Min, ok),
		null.NewFloat(rt.Avg, ok),
		null.NewFloat(rt.Max, ok),
		null.NewFloat(rt.StdDev, ok),
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(rows rowScanner) (models.ProbeResult, error) {
	var (
		r                      models.ProbeResult
		started, finished      int64
		reason, message        null.String
		loss                   null.Float
		rttMin, rttAvg, rttMax null.Float
		rttStdDev              null.Float
	)

	err := rows.Scan(&r.RunID, &started, &finished, &r.Target, &r.Status, &reason, &message,
		&loss, &rttMin, &rttAvg, &rttMax, &rttStdDev)
	if err != nil {
		return r, err
	}

	r.StartedAt = time.Unix(0, started)
	r.FinishedAt = time.Unix(0, finished)
	r.Reason = reason.ValueOrZero()
	r.Message = message.ValueOrZero()
	r.LossPercent = loss.ValueOrZero()
	r.RoundTrip = models.RoundTrip{
		Min:    rttMin.ValueOrZero(),
		Avg:    rttAvg.ValueOrZero(),
		Max:    rttMax.ValueOrZero(),
		StdDev: rttStdDev.ValueOrZero(),
	}
	return r, nil
}

// since returns the unix-nano cutoff for a lookback window
func since(d time.Duration) int64 {
	return time.Now().Add(-d).UnixNano()
}

// GetRecent retrieves recent probe results, newest first
func (db *DB) GetRecent(hours int) ([]models.ProbeResult, error) {
	query := `
        SELECT ` + resultColumns + `
        FROM probe_results
        WHERE timestamp > ?
        ORDER BY timestamp DESC
        LIMIT 10000
    `

	rows, err := db.Query(query, since(time.Duration(hours)*time.Hour))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.ProbeResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			continue
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// GetLatest retrieves the most recent result for every target
func (db *DB) GetLatest() ([]models.ProbeResult, error) {
	query := `
        SELECT ` + resultColumns + `
        FROM probe_results
        WHERE id IN (SELECT MAX(id) FROM probe_results GROUP BY target)
        ORDER BY target
    `

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.ProbeResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			continue
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// GetStats retrieves aggregated statistics
func (db *DB) GetStats(hours int) ([]models.Stats, error) {
	query := `
        SELECT
            target,
            COUNT(*) as total_runs,
            SUM(CASE WHEN status != 'ok' THEN 1 ELSE 0 END) as failed_runs,
            AVG(loss_percent) as avg_loss,
            AVG(rtt_avg_ms) as avg_rtt,
            MAX(rtt_max_ms) as max_rtt,
            MIN(rtt_min_ms) as min_rtt,
            AVG(rtt_stddev_ms) as avg_stddev,
            (
                SELECT message FROM probe_results e
                WHERE e.target = p.target AND e.status != 'ok' AND e.timestamp > ?
                ORDER BY e.timestamp DESC LIMIT 1
            ) as last_error
        FROM probe_results p
        WHERE timestamp > ?
        GROUP BY target
        ORDER BY target
    `

	cutoff := since(time.Duration(hours) * time.Hour)
	rows, err := db.Query(query, cutoff, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.Stats
	for rows.Next() {
		var (
			s                      models.Stats
			avgLoss                null.Float
			avgRTT, maxRTT, minRTT null.Float
			avgJitter              null.Float
			lastError              null.String
		)
		err := rows.Scan(&s.Target, &s.TotalRuns, &s.FailedRuns,
			&avgLoss, &avgRTT, &maxRTT, &minRTT, &avgJitter, &lastError)
		if err != nil {
			continue
		}
		s.AvgLoss = avgLoss.ValueOrZero()
		s.AvgRTT = avgRTT.ValueOrZero()
		s.MaxRTT = maxRTT.ValueOrZero()
		s.MinRTT = minRTT.ValueOrZero()
		s.AvgJitter = avgJitter.ValueOrZero()
		s.LastMessage = lastError.ValueOrZero()
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetOutages retrieves periods of 3+ consecutive failed runs per target.
// A run fails when it errored or lost every packet.
func (db *DB) GetOutages(days int) ([]models.Outage, error) {
	query := `
        WITH classified AS (
            SELECT
                target,
                timestamp,
                CASE WHEN status != 'ok' OR loss_percent >= 100 THEN 1 ELSE 0 END as failed
            FROM probe_results
            WHERE timestamp > ?
        ),
        grouped AS (
            SELECT
                target,
                timestamp,
                failed,
                ROW_NUMBER() OVER (PARTITION BY target ORDER BY timestamp) -
                ROW_NUMBER() OVER (PARTITION BY target, failed ORDER BY timestamp) as grp
            FROM classified
        )
        SELECT
            target,
            MIN(timestamp) as start_time,
            MAX(timestamp) as end_time,
            COUNT(*) as failed_runs
        FROM grouped
        WHERE failed = 1
        GROUP BY target, grp
        HAVING COUNT(*) >= 3
        ORDER BY start_time DESC
        LIMIT 100
    `

	rows, err := db.Query(query, since(time.Duration(days)*24*time.Hour))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outages []models.Outage
	for rows.Next() {
		var (
			o          models.Outage
			start, end int64
		)
		if err := rows.Scan(&o.Target, &start, &end, &o.FailedRuns); err != nil {
			continue
		}
		o.StartTime = time.Unix(0, start)
		o.EndTime = time.Unix(0, end)
		o.Duration = o.EndTime.Sub(o.StartTime).String()
		outages = append(outages, o)
	}

	return outages, rows.Err()
}
