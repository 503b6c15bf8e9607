package models

import "time"

// Stats represents aggregated statistics for a target
type Stats struct {
	Target      string  `json:"target"`
	TotalRuns   int     `json:"total_runs"`
	FailedRuns  int     `json:"failed_runs"`
	AvgLoss     float64 `json:"avg_loss_percent"`
	AvgRTT      float64 `json:"avg_rtt"`
	MaxRTT      float64 `json:"max_rtt"`
	MinRTT      float64 `json:"min_rtt"`
	AvgJitter   float64 `json:"avg_stddev"`
	LastMessage string  `json:"last_error,omitempty"`
}

// Outage represents a run of consecutive failed probes against one target
type Outage struct {
	Target     string    `json:"target"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	FailedRuns int       `json:"failed_runs"`
	Duration   string    `json:"duration"`
}

// HeatmapPoint summarises one target at one hour of the day across several days
type HeatmapPoint struct {
	Hour         int     `json:"hour"`
	Target       string  `json:"target"`
	FailureRate  float64 `json:"failure_rate"`
	AvgLatency   float64 `json:"avg_latency"`
	MaxLatency   float64 `json:"max_latency"`
	FailedRuns   int     `json:"failed_runs"`
	TotalRuns    int     `json:"total_runs"`
	DaysWithData int     `json:"days_with_data"`
}

// PatternDetail is one day's figures for a single hour of the day
type PatternDetail struct {
	Date        string  `json:"date"`
	Target      string  `json:"target"`
	TotalRuns   int     `json:"total_runs"`
	FailedRuns  int     `json:"failed_runs"`
	AvgRTT      float64 `json:"avg_rtt"`
	MaxRTT      float64 `json:"max_rtt"`
	FailureRate float64 `json:"failure_rate"`
}
