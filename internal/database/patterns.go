package database

import (
	"fmt"
	"time"

	"github.com/guregu/null"

	"pingwatch/internal/models"
)

// patternWindow is how far back GetPatterns looks
const patternWindow = 30 * 24 * time.Hour

// hourlyRows merges archived rollups with raw results bucketed the same way.
// Hours are UTC. Takes the hour cutoff and the raw timestamp cutoff.
const hourlyRows = `
        hourly AS (
            SELECT hour, target, total_runs, failed_runs, avg_rtt_ms, max_rtt_ms
            FROM hourly_stats
            WHERE hour >= ?
            UNION ALL
            SELECT
                strftime('%Y-%m-%d %H:00:00', timestamp / 1000000000, 'unixepoch') as hour,
                target,
                COUNT(*) as total_runs,
                SUM(CASE WHEN status != 'ok' THEN 1 ELSE 0 END) as failed_runs,
                AVG(rtt_avg_ms) as avg_rtt_ms,
                MAX(rtt_max_ms) as max_rtt_ms
            FROM probe_results
            WHERE timestamp >= ?
            GROUP BY hour, target
        )`

func hourlyCutoffs(d time.Duration) (string, int64) {
	cutoff := time.Now().Add(-d)
	return cutoff.UTC().Format("2006-01-02 15:00:00"), cutoff.UnixNano()
}

func failureRate(failed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(failed) / float64(total) * 100
}

// GetHeatmapData retrieves failure rate and latency per hour of day and target
func (db *DB) GetHeatmapData(days int) ([]models.HeatmapPoint, error) {
	query := `
        WITH ` + hourlyRows + `
        SELECT
            CAST(substr(hour, 12, 2) AS INTEGER) as hour_of_day,
            target,
            SUM(failed_runs) as failed_runs,
            SUM(total_runs) as total_runs,
            AVG(avg_rtt_ms) as avg_latency,
            MAX(max_rtt_ms) as max_latency,
            COUNT(DISTINCT substr(hour, 1, 10)) as days_with_data
        FROM hourly
        GROUP BY hour_of_day, target
        ORDER BY hour_of_day, target
    `

	hourCutoff, rawCutoff := hourlyCutoffs(time.Duration(days) * 24 * time.Hour)
	rows, err := db.Query(query, hourCutoff, rawCutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.HeatmapPoint
	for rows.Next() {
		var (
			h                      models.HeatmapPoint
			avgLatency, maxLatency null.Float
		)
		err := rows.Scan(&h.Hour, &h.Target, &h.FailedRuns, &h.TotalRuns,
			&avgLatency, &maxLatency, &h.DaysWithData)
		if err != nil {
			continue
		}
		h.AvgLatency = avgLatency.ValueOrZero()
		h.MaxLatency = maxLatency.ValueOrZero()
		h.FailureRate = failureRate(h.FailedRuns, h.TotalRuns)
		points = append(points, h)
	}

	return points, rows.Err()
}

// GetPatterns retrieves the daily figures for one hour of the day (0-23, UTC)
func (db *DB) GetPatterns(hour int) ([]models.PatternDetail, error) {
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("hour out of range: %d", hour)
	}

	query := `
        WITH ` + hourlyRows + `
        SELECT
            substr(hour, 1, 10) as date,
            target,
            SUM(total_runs) as total_runs,
            SUM(failed_runs) as failed_runs,
            AVG(avg_rtt_ms) as avg_rtt,
            MAX(max_rtt_ms) as max_rtt
        FROM hourly
        WHERE substr(hour, 12, 2) = ?
        GROUP BY date, target
        ORDER BY date DESC, target
    `

	hourCutoff, rawCutoff := hourlyCutoffs(patternWindow)
	rows, err := db.Query(query, hourCutoff, rawCutoff, fmt.Sprintf("%02d", hour))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patterns []models.PatternDetail
	for rows.Next() {
		var (
			p              models.PatternDetail
			avgRTT, maxRTT null.Float
		)
		err := rows.Scan(&p.Date, &p.Target, &p.TotalRuns, &p.FailedRuns, &avgRTT, &maxRTT)
		if err != nil {
			continue
		}
		p.AvgRTT = avgRTT.ValueOrZero()
		p.MaxRTT = maxRTT.ValueOrZero()
		p.FailureRate = failureRate(p.FailedRuns, p.TotalRuns)
		patterns = append(patterns, p)
	}

	return patterns, rows.Err()
}
