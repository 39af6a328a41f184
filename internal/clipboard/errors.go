package clipboard

import "errors"

var (
	// ErrExportInFlight is returned when an export is requested while
	// another one has not finished.
	ErrExportInFlight = errors.New("clipboard export already in flight")

	// ErrNoPixels is returned when the image has no pixel data to render.
	ErrNoPixels = errors.New("image has no pixel data")
)
