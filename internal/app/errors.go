package app

import "errors"

var (
	// ErrQuit signals a user-requested exit from the demo event loop.
	ErrQuit = errors.New("quit requested")

	// ErrNilEditor is returned when an extension is created without an
	// editor to attach to.
	ErrNilEditor = errors.New("editor is nil")
)

// InitError wraps a failure while initializing a named component.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "initialize " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
