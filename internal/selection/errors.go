package selection

import "errors"

var (
	// ErrDetachedImage is returned when a selection is requested for an
	// image that is no longer part of the document.
	ErrDetachedImage = errors.New("image is not attached to the document")
)
