package domain

import (
	"slices"
	"time"
)

// RunState is the observable state of a session's run.
// A new run replaces it; it is never mutated by anything but the run loop while Running.
type RunState struct {
	ID         string    `json:"id,omitempty"`
	Running    bool      `json:"is_running"`
	Progress   int       `json:"progress"`
	TotalSteps int       `json:"total_steps"`
	Log        []string  `json:"log"`
	StartedAt  time.Time `json:"started_at,omitzero"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// NewRunState returns the idle state shown before the first run.
func NewRunState() RunState {
	return RunState{Log: WelcomeLog()}
}

// Snapshot returns a copy that does not share the log slice.
func (r RunState) Snapshot() RunState {
	r.Log = slices.Clone(r.Log)
	return r
}

// StepIncrement is the per-step progress increment for a plan of total steps,
// truncated to an integer (floor(1/total*100)).
func StepIncrement(total int) int {
	if total <= 0 {
		return 0
	}
	return 100 / total
}

// Advance adds increment to progress, capped at 100.
func Advance(progress, increment int) int {
	return min(100, progress+increment)
}

// View is everything the presentation layer reads for one session.
type View struct {
	Run        RunState        `json:"run"`
	Selection  map[string]bool `json:"selection"`
	Collapsed  map[string]bool `json:"collapsed"`
	Theme      string          `json:"theme"`
	PlanLength int             `json:"plan_length"`
}
