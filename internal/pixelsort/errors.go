package pixelsort

import "errors"

var (
	// ErrInvalidDimensions reports an empty raster, a broken length invariant,
	// or a band split that would leave a band without rows
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrInvalidThreshold reports a negative intensity threshold
	ErrInvalidThreshold = errors.New("invalid threshold")

	// ErrWorkerFailure reports a band worker that panicked or returned a malformed band
	ErrWorkerFailure = errors.New("worker failure")
)
