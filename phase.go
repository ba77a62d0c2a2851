package fogwall

import "time"

// Clock supplies monotonic time to the phase state machine.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real system time, including its monotonic reading.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// PhaseController sequences a navigation transition through
// idle → scatter → assemble → idle. It owns every pending deadline of a
// gallery session, so Cancel stops all of them at once.
type PhaseController struct {
	// OnScatter fires when a transition begins.
	OnScatter func()
	// OnSwap fires exactly once per transition, at the scatter → assemble
	// boundary, with the index to display next.
	OnSwap func(index int)
	// OnIdle fires when the assemble phase ends.
	OnIdle func()

	scatterDur  time.Duration
	assembleDur time.Duration

	phase    Phase
	deadline time.Time
	pending  int
	started  time.Time
}

// NewPhaseController creates an idle controller with the given phase durations.
func NewPhaseController(scatter, assemble time.Duration) *PhaseController {
	return &PhaseController{
		scatterDur:  scatter,
		assembleDur: assemble,
	}
}

// Phase returns the current phase.
func (pc *PhaseController) Phase() Phase {
	return pc.phase
}

// Busy reports whether a transition is in flight.
func (pc *PhaseController) Busy() bool {
	return pc.phase != PhaseIdle
}

// Deadline returns the time the current phase ends. Zero when idle.
func (pc *PhaseController) Deadline() time.Time {
	return pc.deadline
}

// Started returns when the in-flight transition began. Zero when idle.
func (pc *PhaseController) Started() time.Time {
	return pc.started
}

// Begin starts a transition toward index. It is rejected, returning false,
// while another transition is in flight.
func (pc *PhaseController) Begin(now time.Time, index int) bool {
	if pc.phase != PhaseIdle {
		return false
	}
	pc.phase = PhaseScatter
	pc.pending = index
	pc.started = now
	pc.deadline = now.Add(pc.scatterDur)
	if pc.OnScatter != nil {
		pc.OnScatter()
	}
	return true
}

// Update fires every boundary whose deadline is at or before now. Deadlines
// chain from the previous deadline, not from now, so a long frame still
// yields a transition of exactly scatter+assemble.
func (pc *PhaseController) Update(now time.Time) {
	for pc.phase != PhaseIdle && !now.Before(pc.deadline) {
		switch pc.phase {
		case PhaseScatter:
			pc.phase = PhaseAssemble
			pc.deadline = pc.deadline.Add(pc.assembleDur)
			if pc.OnSwap != nil {
				pc.OnSwap(pc.pending)
			}
		case PhaseAssemble:
			pc.reset()
			if pc.OnIdle != nil {
				pc.OnIdle()
			}
		}
	}
}

// Cancel drops the in-flight transition, if any, without firing hooks.
func (pc *PhaseController) Cancel() {
	pc.reset()
}

func (pc *PhaseController) reset() {
	pc.phase = PhaseIdle
	pc.deadline = time.Time{}
	pc.started = time.Time{}
	pc.pending = 0
}
