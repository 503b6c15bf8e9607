package ping

import (
	"errors"
	"strconv"

	"pingwatch/internal/action"
	"pingwatch/internal/models"
)

// DefaultCount is how many echo requests each run sends
const DefaultCount = 10

// Probe is the network reachability probe: one ping batch per run,
// rotating through its targets
type Probe struct {
	rotator *action.Rotator
	count   int
}

// NewProbe creates a Probe over targets; count <= 0 uses DefaultCount
func NewProbe(count int, targets ...string) (*Probe, error) {
	rotator, err := action.NewRotator(targets...)
	if err != nil {
		return nil, err
	}

	if count <= 0 {
		count = DefaultCount
	}

	return &Probe{rotator: rotator, count: count}, nil
}

// NewAction creates a non-blocking ping action over targets
func NewAction(count int, targets []string, opts ...action.Option) (*action.Action, error) {
	probe, err := NewProbe(count, targets...)
	if err != nil {
		return nil, err
	}
	return action.New(probe, opts...), nil
}

// Command builds the ping argument vector for target
func Command(target string, count int) []string {
	return []string{"ping", "-c", strconv.Itoa(count), target}
}

// Targets returns the rotation order
func (p *Probe) Targets() []string {
	return p.rotator.Targets()
}

// Next picks the next target and its command
func (p *Probe) Next() (string, []string) {
	target := p.rotator.Next()
	return target, Command(target, p.count)
}

// Read parses a finished run. Per-run failures become error results.
func (p *Probe) Read(target, stdout, stderr string) models.ProbeResult {
	summary, err := ParseOutput(stderr, stdout)
	if err == nil {
		return models.OK(target, summary.LossPercent, summary.RoundTrip)
	}

	var (
		toolErr   *ToolError
		malformed *MalformedOutputError
	)

	switch {
	case errors.As(err, &toolErr):
		return models.Failed(target, models.ReasonToolError, toolErr.Message)

	case errors.Is(err, ErrUnknownHost):
		return models.Failed(target, models.ReasonUnknownHost, ErrUnknownHost.Error())

	case errors.As(err, &malformed):
		result := models.Failed(target, models.ReasonMalformedOutput, malformed.Error())
		if malformed.HasLoss {
			result.LossPercent = malformed.Partial.LossPercent
		}
		return result
	}

	return models.Failed(target, models.ReasonMalformedOutput, err.Error())
}
