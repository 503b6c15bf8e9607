package monitor

import (
	"context"
	"log/slog"
	"time"
)

// maintenanceWorker runs periodic maintenance tasks
func (m *Monitor) maintenanceWorker(ctx context.Context) {
	// Run maintenance every hour
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	// Run immediately on start
	m.performMaintenance()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.performMaintenance()
		}
	}
}

// performMaintenance runs maintenance tasks
func (m *Monitor) performMaintenance() {
	slog.Debug("Running maintenance tasks")

	// Roll up raw results older than 7 days, keep hourly stats for 90 days
	if err := m.db.ArchiveOldData(); err != nil {
		slog.Error("Failed to archive old data",
			slog.String("err", err.Error()))
		return
	}

	slog.Debug("Maintenance complete")
}
