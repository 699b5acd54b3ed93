package semi

import (
	"fmt"

	"github.com/c360studio/semi/hierarchy"
)

// PredicateTable maps predicates to their ordered synopsis alternatives
// and matches observed argument lists against them.
type PredicateTable struct {
	names   []string // declaration order
	entries map[string]predicateEntry
	hier    *hierarchy.Hierarchy
}

type predicateEntry struct {
	parents  []string
	synopses []Synopsis
}

// Arg is one observed argument of a predicate instance.
type Arg struct {
	Role  string `json:"role" yaml:"role"`
	Value string `json:"value" yaml:"value"`
}

// newPredicateTable builds the table from normalized declarations.
func newPredicateTable(decls []PredicateDecl, hier *hierarchy.Hierarchy) *PredicateTable {
	t := &PredicateTable{
		entries: make(map[string]predicateEntry, len(decls)),
		hier:    hier,
	}
	for _, d := range decls {
		t.names = append(t.names, d.Name)
		t.entries[d.Name] = predicateEntry{parents: d.Parents, synopses: d.Synopses}
	}
	return t
}

// Predicates returns the declared predicates in declaration order.
func (t *PredicateTable) Predicates() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Contains reports whether the predicate is declared.
func (t *PredicateTable) Contains(predicate string) bool {
	_, ok := t.entries[hierarchy.Normalize(predicate)]
	return ok
}

// Synopses returns the predicate's synopsis alternatives in declaration
// order. A predicate may legitimately have zero synopses (an abstract
// predicate that only anchors the hierarchy).
func (t *PredicateTable) Synopses(predicate string) ([]Synopsis, error) {
	entry, ok := t.entries[hierarchy.Normalize(predicate)]
	if !ok {
		return nil, fmt.Errorf("semi: %q: %w", predicate, ErrUnknownPredicate)
	}
	return entry.synopses, nil
}

// FindSynopsis returns the first synopsis alternative of the predicate
// that matches the observed arguments. An alternative matches when every
// observed argument fills a distinct synopsis position with the same
// role, every non-optional position is filled, and each observed type is
// compatible with the declared type under the hierarchy. Declaration
// order is the author's specificity ranking, so the first match wins.
//
// When no alternative matches, the returned error is a *NoSynopsisError
// listing each rejected alternative with its reason.
func (t *PredicateTable) FindSynopsis(predicate string, observed []Arg) (Synopsis, error) {
	name := hierarchy.Normalize(predicate)
	entry, ok := t.entries[name]
	if !ok {
		return nil, fmt.Errorf("semi: %q: %w", predicate, ErrUnknownPredicate)
	}

	rejected := make([]RejectedSynopsis, 0, len(entry.synopses))
	for i, syn := range entry.synopses {
		reason := t.matchSynopsis(syn, observed)
		if reason == "" {
			return syn, nil
		}
		rejected = append(rejected, RejectedSynopsis{Index: i, Reason: reason})
	}
	if len(entry.synopses) == 0 {
		rejected = append(rejected, RejectedSynopsis{Index: 0, Reason: "predicate declares no synopses"})
	}
	return nil, &NoSynopsisError{Predicate: name, Rejected: rejected}
}

// matchSynopsis checks one alternative against the observed arguments
// and returns the first disqualifying reason, or "" on a match.
func (t *PredicateTable) matchSynopsis(syn Synopsis, observed []Arg) string {
	used := make([]bool, len(syn))
	position := make([]int, len(observed))

	// Every observed argument must claim a distinct synopsis position
	// with the same role name.
	for i, arg := range observed {
		role := normalizeRole(arg.Role)
		pos := -1
		for j, sr := range syn {
			if !used[j] && sr.Role == role {
				pos = j
				break
			}
		}
		if pos < 0 {
			return fmt.Sprintf("no synopsis position for observed role %s", role)
		}
		used[pos] = true
		position[i] = pos
	}

	// Every non-optional position must have been claimed.
	for j, sr := range syn {
		if !used[j] && !sr.Optional {
			return fmt.Sprintf("missing required role %s", sr.Role)
		}
	}

	// The observed type and the declared type must be able to coexist
	// under further specialization.
	for i, arg := range observed {
		sr := syn[position[i]]
		ok, err := t.hier.Compatible(sr.Value, arg.Value)
		if err != nil {
			return fmt.Sprintf("role %s: %v", sr.Role, err)
		}
		if !ok {
			return fmt.Sprintf("role %s: observed type %q is incompatible with declared type %q",
				sr.Role, hierarchy.Normalize(arg.Value), sr.Value)
		}
	}
	return ""
}
