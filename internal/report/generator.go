package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"pingwatch/internal/models"
)

// Source is the read side of the result store
type Source interface {
	GetRecent(hours int) ([]models.ProbeResult, error)
	GetStats(hours int) ([]models.Stats, error)
	GetOutages(days int) ([]models.Outage, error)
}

// Generator creates static images and reports of probe history
type Generator struct {
	src Source
	now func() time.Time
}

// NewGenerator creates a new report generator
func NewGenerator(src Source) *Generator {
	return &Generator{src: src, now: time.Now}
}

// GenerateReport creates a report directory with charts and a text summary
// and returns its path
func (g *Generator) GenerateReport(outputDir string, hours int) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := g.now().Format("2006-01-02_15-04-05")
	reportDir := filepath.Join(outputDir, fmt.Sprintf("ping_report_%s", timestamp))
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	results, err := g.src.GetRecent(hours)
	if err != nil {
		return "", fmt.Errorf("failed to load results: %w", err)
	}
	series := byTarget(results)

	// Charts are best effort; the text summary is the report
	if err := generateLatencyCharts(reportDir, series); err != nil {
		slog.Warn("Failed to generate latency chart",
			slog.String("err", err.Error()))
	}

	if err := generateLossChart(reportDir, series); err != nil {
		slog.Warn("Failed to generate loss chart",
			slog.String("err", err.Error()))
	}

	if err := g.generateTextReport(reportDir, hours); err != nil {
		return "", fmt.Errorf("failed to generate text report: %w", err)
	}

	slog.Info("Report generated",
		slog.String("dir", reportDir))
	return reportDir, nil
}

// byTarget groups results per target in chronological order
func byTarget(results []models.ProbeResult) map[string][]models.ProbeResult {
	grouped := make(map[string][]models.ProbeResult)
	for _, r := range results {
		grouped[r.Target] = append(grouped[r.Target], r)
	}
	for _, rs := range grouped {
		sort.Slice(rs, func(i, j int) bool {
			return rs[i].StartedAt.Before(rs[j].StartedAt)
		})
	}
	return grouped
}

func sortedKeys(m map[string][]models.ProbeResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
