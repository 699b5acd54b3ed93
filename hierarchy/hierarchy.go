// Package hierarchy implements an immutable multiple-inheritance type
// hierarchy: a DAG over case-insensitive type symbols that answers
// ancestor, descendant, subsumption, and compatibility queries.
//
// A Hierarchy is constructed once through a Builder and never mutated
// afterwards. All transitive closures are precomputed at build time, so
// every query is a lock-free read and safe for unlimited concurrent use.
package hierarchy

import (
	"fmt"
	"sort"
	"strings"
)

// Hierarchy is an immutable DAG of type symbols. Symbols are interned to
// small integer indices; all per-symbol data lives in parallel slices
// keyed by that index.
type Hierarchy struct {
	index map[string]int
	names []string

	parents  [][]int
	children [][]int

	// Precomputed closures. Both exclude the symbol itself: Ancestors and
	// Descendants return proper supertypes and subtypes only.
	ancestors   [][]int // nearest-first breadth-first order
	descendants [][]int // lexicographic by symbol name

	ancestorSet   []map[int]struct{}
	descendantSet []map[int]struct{}
}

// Normalize returns the canonical form of a type symbol. Symbols are
// compared case-insensitively and stored in lower case.
func Normalize(symbol string) string {
	return strings.ToLower(symbol)
}

// Len returns the number of types in the hierarchy.
func (h *Hierarchy) Len() int {
	return len(h.names)
}

// Types returns all type symbols in lexicographic order.
func (h *Hierarchy) Types() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	sort.Strings(out)
	return out
}

// Contains reports whether the symbol is registered in the hierarchy.
func (h *Hierarchy) Contains(symbol string) bool {
	_, ok := h.index[Normalize(symbol)]
	return ok
}

// Roots returns the symbols that have no parents, in lexicographic order.
func (h *Hierarchy) Roots() []string {
	var roots []string
	for i, ps := range h.parents {
		if len(ps) == 0 {
			roots = append(roots, h.names[i])
		}
	}
	sort.Strings(roots)
	return roots
}

// Parents returns the direct parents of the symbol in declaration order.
func (h *Hierarchy) Parents(symbol string) ([]string, error) {
	i, err := h.lookup(symbol)
	if err != nil {
		return nil, err
	}
	return h.resolve(h.parents[i]), nil
}

// Children returns the direct children of the symbol in lexicographic order.
func (h *Hierarchy) Children(symbol string) ([]string, error) {
	i, err := h.lookup(symbol)
	if err != nil {
		return nil, err
	}
	out := h.resolve(h.children[i])
	sort.Strings(out)
	return out, nil
}

// Ancestors returns all proper supertypes of the symbol, nearest-first.
// Each ancestor occurs once even when reachable via multiple paths.
// The symbol itself is not included.
func (h *Hierarchy) Ancestors(symbol string) ([]string, error) {
	i, err := h.lookup(symbol)
	if err != nil {
		return nil, err
	}
	return h.resolve(h.ancestors[i]), nil
}

// Descendants returns all proper subtypes of the symbol in lexicographic
// order, each occurring once. The symbol itself is not included.
func (h *Hierarchy) Descendants(symbol string) ([]string, error) {
	i, err := h.lookup(symbol)
	if err != nil {
		return nil, err
	}
	return h.resolve(h.descendants[i]), nil
}

// Subsumes reports whether every instance of b is also a valid instance
// of a: true iff a == b or a is an ancestor of b. Subsumption is a
// partial order over the hierarchy.
func (h *Hierarchy) Subsumes(a, b string) (bool, error) {
	ai, err := h.lookup(a)
	if err != nil {
		return false, err
	}
	bi, err := h.lookup(b)
	if err != nil {
		return false, err
	}
	if ai == bi {
		return true, nil
	}
	_, ok := h.ancestorSet[bi][ai]
	return ok, nil
}

// Compatible reports whether a and b could refer to the same instance
// under some further specialization: true iff they share at least one
// common descendant, counting each type as a descendant of itself.
// Compatibility is symmetric but not transitive.
func (h *Hierarchy) Compatible(a, b string) (bool, error) {
	ai, err := h.lookup(a)
	if err != nil {
		return false, err
	}
	bi, err := h.lookup(b)
	if err != nil {
		return false, err
	}
	if ai == bi {
		return true, nil
	}
	if _, ok := h.ancestorSet[bi][ai]; ok {
		return true, nil
	}
	if _, ok := h.ancestorSet[ai][bi]; ok {
		return true, nil
	}

	// Neither subsumes the other: look for a shared proper descendant.
	small, large := h.descendantSet[ai], h.descendantSet[bi]
	if len(large) < len(small) {
		small, large = large, small
	}
	for d := range small {
		if _, ok := large[d]; ok {
			return true, nil
		}
	}
	return false, nil
}

// lookup normalizes the symbol and returns its interned index.
func (h *Hierarchy) lookup(symbol string) (int, error) {
	i, ok := h.index[Normalize(symbol)]
	if !ok {
		return 0, fmt.Errorf("hierarchy: %q: %w", symbol, ErrUnknownType)
	}
	return i, nil
}

// resolve maps interned indices back to symbol names.
func (h *Hierarchy) resolve(indices []int) []string {
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = h.names[idx]
	}
	return out
}
