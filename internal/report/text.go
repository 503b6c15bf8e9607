package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func (g *Generator) generateTextReport(outputDir string, hours int) error {
	file, err := os.Create(filepath.Join(outputDir, "summary.txt"))
	if err != nil {
		return err
	}
	defer file.Close()

	// Outages are looked up by whole days covering the period
	days := (hours + 23) / 24
	return g.writeTextReport(file, hours, days)
}

func (g *Generator) writeTextReport(w io.Writer, hours, days int) error {
	stats, err := g.src.GetStats(hours)
	if err != nil {
		return err
	}

	outages, err := g.src.GetOutages(days)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Network Reachability Report\n")
	fmt.Fprintf(w, "Generated: %s\n", g.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Period: Last %d hours\n\n", hours)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintln(w, "\nOVERALL STATISTICS")

	if len(stats) == 0 {
		fmt.Fprintln(w, "No probe runs recorded.")
	}

	for _, s := range stats {
		succeeded := s.TotalRuns - s.FailedRuns
		availability := 0.0
		if s.TotalRuns > 0 {
			availability = float64(succeeded) / float64(s.TotalRuns) * 100
		}

		fmt.Fprintf(w, "Target: %s\n", s.Target)
		fmt.Fprintf(w, "  Probe Runs: %d\n", s.TotalRuns)
		fmt.Fprintf(w, "  Successful: %d (%.2f%%)\n", succeeded, availability)
		fmt.Fprintf(w, "  Average Packet Loss: %.2f%%\n", s.AvgLoss)

		if succeeded > 0 {
			fmt.Fprintf(w, "  Average RTT: %.2f ms\n", s.AvgRTT)
			fmt.Fprintf(w, "  Min RTT: %.2f ms\n", s.MinRTT)
			fmt.Fprintf(w, "  Max RTT: %.2f ms\n", s.MaxRTT)
			fmt.Fprintf(w, "  Average Std Dev: %.2f ms\n", s.AvgJitter)
		}
		if s.LastMessage != "" {
			fmt.Fprintf(w, "  Last Error: %s\n", s.LastMessage)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "\nOUTAGE PERIODS (3+ consecutive failed runs, last %d days)\n", days)

	for i, o := range outages {
		fmt.Fprintf(w, "Outage #%d\n", i+1)
		fmt.Fprintf(w, "  Target: %s\n", o.Target)
		fmt.Fprintf(w, "  Start: %s\n", o.StartTime.Format(time.DateTime))
		fmt.Fprintf(w, "  End: %s\n", o.EndTime.Format(time.DateTime))
		fmt.Fprintf(w, "  Duration: %s\n", o.Duration)
		fmt.Fprintf(w, "  Failed Runs: %d\n", o.FailedRuns)
		fmt.Fprintln(w)
	}

	if len(outages) == 0 {
		fmt.Fprintln(w, "No significant outages detected.")
	} else {
		fmt.Fprintf(w, "\nTotal Outages: %d\n", len(outages))
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "\nCharts and detailed data are available in the accompanying files.")

	return nil
}
