package module

import "errors"

// Module system errors.
var (
	// ErrUnknownModule is returned when a named module is not in the
	// registry. Unresolvable identifiers are fatal: a silently skipped
	// module would break user-visible behavior unnoticed.
	ErrUnknownModule = errors.New("unknown module")

	// ErrNilConstructor is returned when a spec carries no usable
	// constructor.
	ErrNilConstructor = errors.New("module constructor is nil")

	// ErrScriptNotFound is returned when a scripted module's source
	// file does not exist.
	ErrScriptNotFound = errors.New("module script not found")
)
