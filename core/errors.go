package core

import "errors"

// Pipeline failure kinds. Only ErrLineNotFound is recoverable per line group.
var (
	ErrLineNotFound        = errors.New("wavelength not found")
	ErrDegenerateAggregate = errors.New("no frames left after exclusion")
	ErrInvalidTrim         = errors.New("invalid trim")
	ErrInvalidExclusion    = errors.New("invalid frame exclusion")
	ErrMissingCalibration  = errors.New("missing flux calibration")
	ErrApertureOutOfRange  = errors.New("aperture outside trimmed rows")
	ErrNoBackgroundRows    = errors.New("no rows left for background")
)
