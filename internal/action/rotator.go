package action

import "errors"

// ErrNoTargets is returned when a rotator is built without targets
var ErrNoTargets = errors.New("at least one target must be specified")

// Rotator hands out targets in round-robin order
type Rotator struct {
	targets []string
	cursor  int
}

// NewRotator creates a Rotator over a copy of targets
func NewRotator(targets ...string) (*Rotator, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	return &Rotator{targets: append([]string(nil), targets...)}, nil
}

// Next returns the next target, wrapping after the last one
func (r *Rotator) Next() string {
	target := r.targets[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.targets)
	return target
}

// Targets returns the rotation order
func (r *Rotator) Targets() []string {
	return append([]string(nil), r.targets...)
}
