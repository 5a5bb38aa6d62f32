package planet

import "errors"

var (
	// ErrInvalidConfiguration reports parameters rejected before any buffer is
	// allocated: resolution below 2, non-positive radius, octave bounds,
	// unknown face axis or unknown mode names.
	ErrInvalidConfiguration = errors.New("invalid planet configuration")

	// ErrNumericDegenerate reports noise parameters or intermediate results
	// that are NaN or Inf. A face that hits this is discarded whole.
	ErrNumericDegenerate = errors.New("numerically degenerate planet")
)
