package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"pingwatch/internal/models"
)

var (
	axisStyle = chart.Style{
		StrokeColor: drawing.ColorBlack,
		FontSize:    10,
	}
	gridStyle = chart.Style{
		StrokeColor: drawing.Color{R: 200, G: 200, B: 200, A: 255},
		StrokeWidth: 1.0,
	}
	padding = chart.Style{
		Padding: chart.Box{
			Top:    20,
			Left:   20,
			Right:  20,
			Bottom: 20,
		},
	}
)

// filenameReplacer maps characters that may appear in hostnames and
// addresses, including IPv6 zones like fe80::1%eth0, to underscores
var filenameReplacer = strings.NewReplacer(
	".", "_",
	":", "_",
	"%", "_",
	"/", "_",
	"\\", "_",
	" ", "_",
)

func sanitizeFilename(target string) string {
	return filenameReplacer.Replace(target)
}

func generateLatencyCharts(outputDir string, series map[string][]models.ProbeResult) error {
	for _, target := range sortedKeys(series) {
		var (
			timestamps        []time.Time
			mins, avgs, maxes []float64
		)
		for _, r := range series[target] {
			if !r.Success() {
				continue
			}
			timestamps = append(timestamps, r.StartedAt)
			mins = append(mins, r.RoundTrip.Min)
			avgs = append(avgs, r.RoundTrip.Avg)
			maxes = append(maxes, r.RoundTrip.Max)
		}

		// A line needs two points
		if len(timestamps) < 2 {
			continue
		}

		avgSeries := chart.TimeSeries{
			Name: "avg",
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(0),
				StrokeWidth: 2,
			},
			XValues: timestamps,
			YValues: avgs,
		}

		graph := chart.Chart{
			Title: fmt.Sprintf("Round Trip - %s", target),
			TitleStyle: chart.Style{
				FontSize: 16,
			},
			Background: padding,
			Width:      1200,
			Height:     400,
			XAxis: chart.XAxis{
				Name:           "Time",
				Style:          axisStyle,
				ValueFormatter: chart.TimeMinuteValueFormatter,
			},
			YAxis: chart.YAxis{
				Name:           "Latency (ms)",
				Style:          axisStyle,
				GridMajorStyle: gridStyle,
			},
			Series: []chart.Series{
				chart.TimeSeries{
					Name: "min",
					Style: chart.Style{
						StrokeColor:     chart.GetDefaultColor(2),
						StrokeWidth:     1,
						StrokeDashArray: []float64{2, 2},
					},
					XValues: timestamps,
					YValues: mins,
				},
				avgSeries,
				chart.TimeSeries{
					Name: "max",
					Style: chart.Style{
						StrokeColor:     chart.GetDefaultColor(3),
						StrokeWidth:     1,
						StrokeDashArray: []float64{2, 2},
					},
					XValues: timestamps,
					YValues: maxes,
				},
			},
		}

		// Add moving average
		if len(avgs) > 10 {
			graph.Series = append(graph.Series, chart.SMASeries{
				Name: "Moving Avg",
				Style: chart.Style{
					StrokeColor:     chart.GetDefaultColor(1),
					StrokeWidth:     2,
					StrokeDashArray: []float64{5, 5},
				},
				InnerSeries: avgSeries,
				Period:      10,
			})
		}

		graph.Elements = []chart.Renderable{
			chart.Legend(&graph),
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("latency_%s.png", sanitizeFilename(target)))
		if err := renderPNG(filename, graph); err != nil {
			return err
		}
	}

	return nil
}

// generateLossChart plots packet loss for every target; failed runs count as total loss
func generateLossChart(outputDir string, series map[string][]models.ProbeResult) error {
	var allSeries []chart.Series

	for i, target := range sortedKeys(series) {
		var (
			timestamps []time.Time
			values     []float64
		)
		for _, r := range series[target] {
			loss := r.LossPercent
			if !r.Success() {
				loss = 100
			}
			timestamps = append(timestamps, r.StartedAt)
			values = append(values, loss)
		}

		if len(timestamps) < 2 {
			continue
		}

		allSeries = append(allSeries, chart.TimeSeries{
			Name: target,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 2,
			},
			XValues: timestamps,
			YValues: values,
		})
	}

	if len(allSeries) == 0 {
		return nil
	}

	graph := chart.Chart{
		Title: "Packet Loss",
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		Background: padding,
		Width:      1200,
		Height:     400,
		XAxis: chart.XAxis{
			Name:           "Time",
			Style:          axisStyle,
			ValueFormatter: chart.TimeHourValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:  "Loss %",
			Style: axisStyle,
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 100,
			},
			GridMajorStyle: gridStyle,
		},
		Series: allSeries,
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	return renderPNG(filepath.Join(outputDir, "packet_loss.png"), graph)
}

func renderPNG(filename string, graph chart.Chart) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := graph.Render(chart.PNG, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
