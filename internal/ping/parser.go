package ping

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"pingwatch/internal/models"
)

// Summary lines of ping output, e.g.
//
//	10 packets transmitted, 9 packets received, 10.0% packet loss
//	round-trip min/avg/max/stddev = 366.381/377.219/421.605/15.761 ms
var (
	packetLossPattern  = regexp.MustCompile(`(?:^|\s)([\d.]+)% packet loss`)
	roundTripPattern   = regexp.MustCompile(`(?:round-trip|rtt) min/avg/max/(?:std|m)dev = ([\d.]+)/([\d.]+)/([\d.]+)/([\d.]+) ms`)
	unknownHostPattern = regexp.MustCompile(`cannot resolve .*?: Unknown host`)
)

// summaryLines is how many trailing output lines carry the statistics
const summaryLines = 2

var (
	// ErrUnknownHost is returned when ping could not resolve the target
	ErrUnknownHost = errors.New("Unknown host")

	// ErrMalformedOutput is matched by every MalformedOutputError
	ErrMalformedOutput = errors.New("malformed ping output")
)

// Summary is the parsed statistics of one ping run
type Summary struct {
	LossPercent float64
	RoundTrip   models.RoundTrip
}

// ToolError carries whatever ping wrote to stderr
type ToolError struct {
	Message string
}

func (e *ToolError) Error() string {
	return e.Message
}

// MalformedOutputError means the summary lines were missing or unparsable.
// Partial holds whatever was captured before parsing gave up.
type MalformedOutputError struct {
	Reason  string
	Partial Summary
	HasLoss bool
	Err     error
}

func (e *MalformedOutputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedOutput, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedOutput, e.Reason)
}

func (e *MalformedOutputError) Is(target error) bool {
	return target == ErrMalformedOutput
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}

// ParseOutput turns the streams of a finished ping run into a Summary.
//
// Non-empty stderr yields a *ToolError. Otherwise the last two lines of
// stdout are matched for packet loss, round-trip statistics and an
// unresolvable host; the latter wins over anything else captured. A run
// missing either statistic yields a *MalformedOutputError.
func ParseOutput(stderr, stdout string) (Summary, error) {
	if stderr != "" {
		return Summary{}, &ToolError{Message: trimNewline(stderr)}
	}

	var (
		summary     Summary
		hasLoss     bool
		hasRTT      bool
		unknownHost bool
		parseErr    error
	)

	for _, line := range lastLines(stdout, summaryLines) {
		if m := packetLossPattern.FindStringSubmatch(line); m != nil {
			loss, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				parseErr = errors.Join(parseErr, fmt.Errorf("packet loss %q: %w", m[1], err))
			} else {
				summary.LossPercent = loss
				hasLoss = true
			}
		}

		if m := roundTripPattern.FindStringSubmatch(line); m != nil {
			rt, err := parseRoundTrip(m[1:])
			if err != nil {
				parseErr = errors.Join(parseErr, err)
			} else {
				summary.RoundTrip = rt
				hasRTT = true
			}
		}

		if unknownHostPattern.MatchString(line) {
			unknownHost = true
		}
	}

	if unknownHost {
		return Summary{}, ErrUnknownHost
	}

	malformed := func(reason string, err error) error {
		return &MalformedOutputError{Reason: reason, Partial: summary, HasLoss: hasLoss, Err: err}
	}

	switch {
	case parseErr != nil:
		return Summary{}, malformed("invalid number", parseErr)
	case !hasLoss && !hasRTT:
		return Summary{}, malformed("no summary lines", nil)
	case !hasLoss:
		return Summary{}, malformed("missing packet loss line", nil)
	case !hasRTT:
		return Summary{}, malformed("missing round-trip line", nil)
	}

	return summary, nil
}

func parseRoundTrip(fields []string) (models.RoundTrip, error) {
	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return models.RoundTrip{}, fmt.Errorf("round trip %q: %w", field, err)
		}
		values[i] = v
	}

	return models.RoundTrip{
		Min:    values[0],
		Avg:    values[1],
		Max:    values[2],
		StdDev: values[3],
	}, nil
}

// trimNewline drops a single trailing LF or CRLF
func trimNewline(s string) string {
	if trimmed, ok := strings.CutSuffix(s, "\r\n"); ok {
		return trimmed
	}
	return strings.TrimSuffix(s, "\n")
}

// lastLines returns up to n trailing lines of out
func lastLines(out string, n int) []string {
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return nil
	}

	lines := strings.Split(out, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
