package hierarchy

import "errors"

// Construction and lookup errors.
var (
	// ErrDuplicateType is returned when a type symbol is registered twice.
	ErrDuplicateType = errors.New("type already defined")

	// ErrUnknownParent is returned at build time when a type names a parent
	// that was never registered.
	ErrUnknownParent = errors.New("unknown parent type")

	// ErrUnknownType is returned by queries for symbols absent from the hierarchy.
	ErrUnknownType = errors.New("unknown type")

	// ErrCycle is returned at build time when the declared edges contain an
	// inheritance cycle.
	ErrCycle = errors.New("inheritance cycle")
)
