package host

import "errors"

// Host collaborator errors.
var (
	// ErrImageNotFound is returned when an image node is no longer
	// part of the document.
	ErrImageNotFound = errors.New("image not found in document")

	// ErrAlreadyRegistered is returned when a component name is
	// already taken in the host registry.
	ErrAlreadyRegistered = errors.New("component already registered")
)
