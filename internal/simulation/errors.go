package simulation

import (
	"errors"
	"fmt"
)

// ErrCapacityExceeded is returned by (*Simulation).AddChamber when adding
// a chamber would exceed the deployment's configured chamber limit
// (spec.md §7, CapacityError). Simulation state is left unchanged.
var ErrCapacityExceeded = errors.New("simulation: chamber capacity exceeded")

// ChamberProgramError records a chamber program that crashed, timed out, or
// otherwise misbehaved during Step. It is never returned as a Go error from
// tick code — the tick always completes — it is only ever surfaced as an
// EventLog payload for observability.
type ChamberProgramError struct {
	ChamberID int
	Cause     error
}

func (e ChamberProgramError) Error() string {
	return fmt.Sprintf("chamber %d: program error: %v", e.ChamberID, e.Cause)
}

// InvariantViolation records a ball whose state failed an engine invariant
// after a chamber call (e.g. a NaN coordinate). Like ChamberProgramError
// this is a logged event, not a returned error; the affected ball's view
// entry reverts to its value from just before the chamber call (after this
// tick's integration and wrap, not its pre-tick state) and the tick proceeds.
type InvariantViolation struct {
	ChamberID int
	BallID    int
	Detail    string
}

func (e InvariantViolation) Error() string {
	return fmt.Sprintf("chamber %d: ball %d: invariant violated: %s", e.ChamberID, e.BallID, e.Detail)
}
