package geo

import "errors"

var (
	// ErrDegenerateGeometry indicates a boundary with no extent on one axis.
	ErrDegenerateGeometry = errors.New("geo: degenerate geometry (zero width or height)")

	// ErrInvalidCanvas indicates a non-positive canvas dimension.
	ErrInvalidCanvas = errors.New("geo: canvas dimensions must be positive")
)
