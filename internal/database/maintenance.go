package database

import (
	"time"
)

const (
	rawRetention    = 7 * 24 * time.Hour
	hourlyRetention = 90 * 24 * time.Hour
)

// ArchiveOldData rolls old results up into hourly_stats and cleans up
func (db *DB) ArchiveOldData() error {
	rawCutoff := since(rawRetention)
	hourlyCutoff := since(hourlyRetention)

	// First, ensure hourly stats are captured for old data
	archiveQuery := `
        INSERT OR IGNORE INTO hourly_stats (hour, target, total_runs, failed_runs, avg_loss_percent, avg_rtt_ms, max_rtt_ms, min_rtt_ms)
        SELECT
            strftime('%Y-%m-%d %H:00:00', timestamp / 1000000000, 'unixepoch') as hour,
            target,
            COUNT(*) as total_runs,
            SUM(CASE WHEN status != 'ok' THEN 1 ELSE 0 END) as failed_runs,
            AVG(loss_percent) as avg_loss_percent,
            AVG(rtt_avg_ms) as avg_rtt_ms,
            MAX(rtt_max_ms) as max_rtt_ms,
            MIN(rtt_min_ms) as min_rtt_ms
        FROM probe_results
        WHERE timestamp < ?
        AND timestamp > ?
        GROUP BY hour, target
    `

	if _, err := db.Exec(archiveQuery, rawCutoff, hourlyCutoff); err != nil {
		return err
	}

	// Delete raw results older than 7 days (we keep aggregated data)
	if _, err := db.Exec(`DELETE FROM probe_results WHERE timestamp < ?`, rawCutoff); err != nil {
		return err
	}

	// Delete hourly stats older than 90 days
	oldestHour := time.Unix(0, hourlyCutoff).UTC().Format("2006-01-02 15:00:00")
	if _, err := db.Exec(`DELETE FROM hourly_stats WHERE hour < ?`, oldestHour); err != nil {
		return err
	}

	// Vacuum to reclaim space (run occasionally)
	if time.Now().Day() == 1 { // Run on first day of month
		_, err := db.Exec("VACUUM")
		return err
	}

	return nil
}
