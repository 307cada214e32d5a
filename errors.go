package srsaudit

import "errors"

var (
	// ErrDegenerateDegree is returned when the claimed polynomial degree is
	// below 2, the minimum for which a power sequence is meaningful.
	ErrDegenerateDegree = errors.New("srs-audit: polynomial degree must be at least 2")

	// ErrInsufficientData is returned when a sequence is shorter than the
	// claimed degree. It is raised before any element is touched.
	ErrInsufficientData = errors.New("srs-audit: sequence shorter than claimed degree")
)
