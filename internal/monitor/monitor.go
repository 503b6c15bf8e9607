package monitor

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"pingwatch/internal/action"
	"pingwatch/internal/config"
	"pingwatch/internal/models"
	"pingwatch/internal/ping"
)

// Monitor drives probe actions and stores their results
type Monitor struct {
	config  config.Config
	db      models.Database
	writers []models.ResultWriter
	actions []probeAction
	results chan models.ProbeResult
}

type probeAction struct {
	name   string
	action models.Action
}

func newMonitor(cfg config.Config, db models.Database, exporters ...models.ResultWriter) *Monitor {
	return &Monitor{
		config:  cfg,
		db:      db,
		writers: append([]models.ResultWriter{db}, exporters...),
		results: make(chan models.ProbeResult, 100),
	}
}

// New creates a Monitor with one ping action per configured probe group.
// Results go to db and to every exporter.
func New(cfg config.Config, db models.Database, exporters ...models.ResultWriter) (*Monitor, error) {
	m := newMonitor(cfg, db, exporters...)

	for _, group := range cfg.Probes {
		a, err := ping.NewAction(group.Count, group.Targets, action.WithInterval(group.Interval))
		if err != nil {
			return nil, fmt.Errorf("probe group '%s': %w", group.Name, err)
		}
		m.actions = append(m.actions, probeAction{name: group.Name, action: a})
	}

	return m, nil
}

// Run polls every action until ctx is cancelled or a probe command
// repeatedly fails to start. Pending results are saved before it returns.
func (m *Monitor) Run(ctx context.Context) error {
	slog.Info("Starting monitor",
		slog.Int("groups", len(m.actions)),
		slog.Any("targets", m.config.Targets()),
		slog.Duration("poll", m.config.Poll))

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.processResults()
	}()

	g, ctx := errgroup.WithContext(ctx)

	for _, pa := range m.actions {
		g.Go(func() error {
			return m.probeWorker(ctx, pa)
		})
	}

	g.Go(func() error {
		m.maintenanceWorker(ctx)
		return nil
	})

	err := g.Wait()

	close(m.results)
	<-done

	slog.Info("Monitor stopped")
	return err
}
