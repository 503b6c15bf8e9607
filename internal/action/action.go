// Package action runs an external probe command without blocking the caller.
//
// An Action moves through Idle, Starting, Running and Completing inside Tick.
// A new run may start only when nothing is in flight and more than the
// throttle interval has passed since the previous start attempt.
package action

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pingwatch/internal/models"
)

// DefaultInterval is the minimum time between two run starts
const DefaultInterval = 10 * time.Second

// ErrSpawnFailure marks a probe command that could not be started at all
var ErrSpawnFailure = errors.New("probe spawn failed")

// State is the lifecycle position of an Action
type State int

const (
	Idle State = iota
	Starting
	Running
	Completing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Completing:
		return "completing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Probe is one kind of probe: it names the next run and interprets its output
type Probe interface {
	// Next selects the target of a new run and builds its argument vector.
	// It is called exactly once per run start.
	Next() (target string, argv []string)
	// Read converts the streams of a finished run into a result.
	Read(target, stdout, stderr string) models.ProbeResult
}

// Action drives at most one probe process at a time.
// It is not safe for concurrent use.
type Action struct {
	probe    Probe
	spawner  Spawner
	interval time.Duration
	now      func() time.Time

	state       State
	lastAttempt time.Time
	run         *run
}

type run struct {
	id      string
	target  string
	started time.Time
	proc    Process
}

// Option configures an Action
type Option func(*Action)

// WithInterval overrides the throttle interval
func WithInterval(d time.Duration) Option {
	return func(a *Action) {
		if d > 0 {
			a.interval = d
		}
	}
}

// WithSpawner overrides how processes are started
func WithSpawner(s Spawner) Option {
	return func(a *Action) {
		if s != nil {
			a.spawner = s
		}
	}
}

// WithClock overrides the wall clock
func WithClock(now func() time.Time) Option {
	return func(a *Action) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an idle Action for probe
func New(probe Probe, opts ...Option) *Action {
	a := &Action{
		probe:    probe,
		spawner:  ExecSpawner{},
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns the current lifecycle state
func (a *Action) State() State {
	return a.state
}

// LastAttempt returns when the most recent run start was attempted
func (a *Action) LastAttempt() time.Time {
	return a.lastAttempt
}

// Tick advances the action without blocking.
//
// It returns (nil, nil) while nothing is ready, a result exactly once per
// finished run, and an error wrapping ErrSpawnFailure when the probe
// command could not be started.
func (a *Action) Tick() (*models.ProbeResult, error) {
	now := a.now()

	switch a.state {
	case Idle:
		if !a.due(now) {
			return nil, nil
		}
		a.state = Starting
		return nil, a.start(now)

	case Running:
		if !a.run.proc.Exited() {
			return nil, nil
		}
		a.state = Completing
		result := a.complete()
		return &result, nil
	}

	return nil, nil
}

func (a *Action) due(now time.Time) bool {
	return a.lastAttempt.IsZero() || now.Sub(a.lastAttempt) > a.interval
}

func (a *Action) start(now time.Time) error {
	target, argv := a.probe.Next()

	// Failed spawns count against the throttle as well
	a.lastAttempt = now

	proc, err := a.spawner.Spawn(argv)
	if err != nil {
		a.state = Idle
		return fmt.Errorf("%w: %s: %w", ErrSpawnFailure, target, err)
	}

	a.run = &run{
		id:      uuid.NewString(),
		target:  target,
		started: now,
		proc:    proc,
	}
	a.state = Running
	return nil
}

func (a *Action) complete() models.ProbeResult {
	r := a.run

	result := a.probe.Read(r.target, r.proc.Stdout(), r.proc.Stderr())
	result.RunID = r.id
	result.Target = r.target
	result.StartedAt = r.started
	result.FinishedAt = a.now()

	a.run = nil
	a.state = Idle
	return result
}
