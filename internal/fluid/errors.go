package fluid

import (
	"errors"
	"fmt"
)

// Domain errors for the fluid core.
var (
	// ErrParticleCountDecreased indicates the position array shrank between
	// index rebuilds; removing particles is unsupported.
	ErrParticleCountDecreased = errors.New("fluid: particle count decreased between rebuilds")

	// ErrOutOfGridBounds indicates a particle position outside the
	// representable cell grid. The Morton code space wraps at a fixed bit
	// width, so this is a configuration error, not a recoverable one.
	ErrOutOfGridBounds = errors.New("fluid: position outside representable grid bounds")

	// ErrUnstable indicates a non-finite density or acceleration; the step
	// is aborted before the corrupted value is integrated.
	ErrUnstable = errors.New("fluid: numeric instability (NaN or Inf)")
)

// StepError wraps a step failure with the particle and quantity that
// produced it.
type StepError struct {
	Particle int
	Quantity string
	Wrapped  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%v: %s of particle %d", e.Wrapped, e.Quantity, e.Particle)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
