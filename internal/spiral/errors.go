package spiral

import "fmt"

// The core has exactly three fatal error classes. Degenerate geometry
// (near-zero chords, collinear edges, collapsed insets) is never an error;
// those cases return empty results at the call site.

// ConfigError reports an invalid render parameter. It is returned before any
// solver or geometry work starts.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// DivergenceError reports a non-finite residual in the root solver.
type DivergenceError struct {
	P, Q int
	Z, T float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("root solver diverged for p=%d q=%d (z=%g t=%g)", e.P, e.Q, e.Z, e.T)
}

// ExhaustionError reports a circle family exceeding its iteration cap.
// This means the parameters are too extreme, not that output was truncated.
type ExhaustionError struct {
	Family int
	Cap    int
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("family %d exceeded %d circles; reduce p, q, or maxDistance", e.Family, e.Cap)
}
