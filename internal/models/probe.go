package models

import (
	"fmt"
	"time"
)

// Result statuses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Failure reasons carried by error results
const (
	ReasonToolError       = "tool_error"
	ReasonUnknownHost     = "unknown_host"
	ReasonMalformedOutput = "malformed_output"
)

// RoundTrip holds the latency summary of one probe run, in milliseconds
type RoundTrip struct {
	Min    float64 `json:"min"`
	Avg    float64 `json:"avg"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"stddev"`
}

// Slice returns the statistics in min, avg, max, stddev order
func (rt RoundTrip) Slice() []float64 {
	return []float64{rt.Min, rt.Avg, rt.Max, rt.StdDev}
}

// ProbeResult is the outcome of one completed probe run
type ProbeResult struct {
	RunID       string    `json:"run_id"`
	Target      string    `json:"target"`
	Status      string    `json:"status"`
	LossPercent float64   `json:"loss_percent"` // percentage
	RoundTrip   RoundTrip `json:"round_trip"`
	Reason      string    `json:"reason,omitempty"`
	Message     string    `json:"message,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// OK builds a successful result
func OK(target string, loss float64, rt RoundTrip) ProbeResult {
	return ProbeResult{
		Target:      target,
		Status:      StatusOK,
		LossPercent: loss,
		RoundTrip:   rt,
	}
}

// Failed builds an error result
func Failed(target, reason, message string) ProbeResult {
	return ProbeResult{
		Target:  target,
		Status:  StatusError,
		Reason:  reason,
		Message: message,
	}
}

// Success reports whether the run produced loss and latency figures
func (r ProbeResult) Success() bool {
	return r.Status == StatusOK
}

// Tuple renders the result in its tagged form:
// ("ok", target, {loss_percent, round_trip}) or ("error", target, message)
func (r ProbeResult) Tuple() string {
	if r.Success() {
		return fmt.Sprintf("(%q, %q, {loss_percent: %g, round_trip: %v})",
			r.Status, r.Target, r.LossPercent, r.RoundTrip.Slice())
	}
	return fmt.Sprintf("(%q, %q, %q)", r.Status, r.Target, r.Message)
}
