package semi

import (
	"errors"
	"fmt"
	"strings"
)

// Table lookup and construction errors.
var (
	// ErrUnknownVariable is returned for variable types absent from the table.
	ErrUnknownVariable = errors.New("unknown variable type")

	// ErrUnknownRole is returned for roles absent from the role table.
	ErrUnknownRole = errors.New("unknown role")

	// ErrUnknownPredicate is returned for predicates absent from the table.
	ErrUnknownPredicate = errors.New("unknown predicate")

	// ErrNoMatchingSynopsis is returned when no declared synopsis
	// alternative matches an observed argument list. The concrete error is
	// always a *NoSynopsisError carrying per-alternative diagnostics.
	ErrNoMatchingSynopsis = errors.New("no matching synopsis")

	// ErrSchemaFormat is returned by DecodeDocument for structurally
	// malformed input, as opposed to well-formed but semantically
	// inconsistent declarations.
	ErrSchemaFormat = errors.New("malformed SEM-I document")
)

// RejectedSynopsis records why one synopsis alternative failed to match.
type RejectedSynopsis struct {
	// Index is the position of the alternative in declaration order.
	Index int `json:"index" yaml:"index"`

	// Reason describes the first disqualifying role or type mismatch.
	Reason string `json:"reason" yaml:"reason"`
}

// NoSynopsisError reports that none of a predicate's declared synopsis
// alternatives matched the observed arguments. Every alternative is
// listed with the reason it was rejected.
type NoSynopsisError struct {
	Predicate string
	Rejected  []RejectedSynopsis
}

// Error implements the error interface.
func (e *NoSynopsisError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no synopsis of %q matches the observed arguments", e.Predicate)
	for _, r := range e.Rejected {
		fmt.Fprintf(&b, "; alternative %d: %s", r.Index, r.Reason)
	}
	return b.String()
}

// Is makes the error match ErrNoMatchingSynopsis under errors.Is.
func (e *NoSynopsisError) Is(target error) bool {
	return target == ErrNoMatchingSynopsis
}
