package core

import "errors"

var (
	// ErrDegenerateVector is returned when a computation needs a direction
	// from a zero-length vector.
	ErrDegenerateVector = errors.New("degenerate zero-length vector")

	// ErrInvalidCanvas is returned for canvas dimensions that are not positive.
	ErrInvalidCanvas = errors.New("invalid canvas dimensions")

	// ErrInvalidViewport is returned for a viewport with a non-positive distance, width or height.
	ErrInvalidViewport = errors.New("invalid viewport")

	// ErrInvalidScene is returned when scene validation fails.
	ErrInvalidScene = errors.New("invalid scene")
)
