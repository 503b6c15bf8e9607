package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pingwatch/internal/action"
	"pingwatch/internal/models"
)

// spawnFailureLimit is how many consecutive spawn failures end the monitor
const spawnFailureLimit = 3

const saveTimeout = 10 * time.Second

// probeWorker ticks one action at the poll interval
func (m *Monitor) probeWorker(ctx context.Context, pa probeAction) error {
	ticker := time.NewTicker(m.config.Poll)
	defer ticker.Stop()

	spawnFailures := 0

	for {
		result, err := pa.action.Tick()

		switch {
		case errors.Is(err, action.ErrSpawnFailure):
			spawnFailures++
			if spawnFailures >= spawnFailureLimit {
				slog.Error("Probe command cannot be started",
					slog.String("group", pa.name),
					slog.String("err", err.Error()))
				return fmt.Errorf("probe group '%s': %w", pa.name, err)
			}
			slog.Warn("Probe spawn failed",
				slog.String("group", pa.name),
				slog.Int("attempt", spawnFailures),
				slog.String("err", err.Error()))

		case err != nil:
			return fmt.Errorf("probe group '%s': %w", pa.name, err)

		case result != nil:
			spawnFailures = 0
			m.publish(pa.name, *result)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// publish hands a result to the processor without blocking the worker
func (m *Monitor) publish(group string, result models.ProbeResult) {
	slog.Debug("Probe finished",
		slog.String("group", group),
		slog.String("result", result.Tuple()),
		slog.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)))

	select {
	case m.results <- result:
	default:
		slog.Warn("Result channel full, dropping result",
			slog.String("target", result.Target))
	}
}

// processResults saves results until the channel is closed
func (m *Monitor) processResults() {
	for result := range m.results {
		for _, w := range m.writers {
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			if err := w.SaveResult(ctx, result); err != nil {
				slog.Error("Failed to save result",
					slog.String("target", result.Target),
					slog.String("err", err.Error()))
			}
			cancel()
		}
	}
}
