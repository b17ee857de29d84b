package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates particle or clock state holding NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrScenarioNotFound indicates an unknown scenario id.
	ErrScenarioNotFound = errors.New("dynamo: scenario not found")

	// ErrUnknownField indicates an unknown magnetic source kind.
	ErrUnknownField = errors.New("dynamo: unknown field source")

	// ErrUnknownChargeMode indicates an unknown charge distribution mode.
	ErrUnknownChargeMode = errors.New("dynamo: unknown charge mode")

	// ErrUnknownMode indicates an experiment mode other than wave or magnetic.
	ErrUnknownMode = errors.New("dynamo: unknown experiment mode")

	// ErrNotSetup indicates an experiment was run before being built.
	ErrNotSetup = errors.New("dynamo: experiment not setup")
)

// SimulationError wraps an error with the tick at which it was detected.
type SimulationError struct {
	Tick    uint64
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
