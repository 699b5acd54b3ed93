package hierarchy

import (
	"fmt"
	"sort"
)

// Builder accumulates type declarations and assembles them into an
// immutable Hierarchy. Parent references may point at types declared
// later; they are validated when Build is called.
type Builder struct {
	index   map[string]int
	names   []string
	parents [][]string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// AddType registers a type symbol with its direct parents. The symbol and
// parents are case-normalized. Registering the same symbol twice returns
// ErrDuplicateType; parent symbols are not checked until Build.
func (b *Builder) AddType(symbol string, parents ...string) error {
	name := Normalize(symbol)
	if name == "" {
		return fmt.Errorf("hierarchy: empty type symbol")
	}
	if _, ok := b.index[name]; ok {
		return fmt.Errorf("hierarchy: %q: %w", name, ErrDuplicateType)
	}

	// Deduplicate parent edges while preserving declaration order.
	ps := make([]string, 0, len(parents))
	seen := make(map[string]struct{}, len(parents))
	for _, p := range parents {
		pn := Normalize(p)
		if _, ok := seen[pn]; ok {
			continue
		}
		seen[pn] = struct{}{}
		ps = append(ps, pn)
	}

	b.index[name] = len(b.names)
	b.names = append(b.names, name)
	b.parents = append(b.parents, ps)
	return nil
}

// Contains reports whether the symbol has been registered.
func (b *Builder) Contains(symbol string) bool {
	_, ok := b.index[Normalize(symbol)]
	return ok
}

// Build validates the accumulated declarations and returns the finished
// Hierarchy. It fails with ErrUnknownParent if any declared parent was
// never registered and with ErrCycle if the edges are not acyclic.
// On error no partially constructed hierarchy is returned.
func (b *Builder) Build() (*Hierarchy, error) {
	n := len(b.names)
	h := &Hierarchy{
		index:    make(map[string]int, n),
		names:    make([]string, n),
		parents:  make([][]int, n),
		children: make([][]int, n),
	}
	copy(h.names, b.names)
	for name, i := range b.index {
		h.index[name] = i
	}

	// Resolve parent names to indices.
	for i, ps := range b.parents {
		resolved := make([]int, 0, len(ps))
		for _, p := range ps {
			pi, ok := b.index[p]
			if !ok {
				return nil, fmt.Errorf("hierarchy: %q parent of %q: %w", p, b.names[i], ErrUnknownParent)
			}
			if pi == i {
				return nil, fmt.Errorf("hierarchy: %q is its own parent: %w", b.names[i], ErrCycle)
			}
			resolved = append(resolved, pi)
		}
		h.parents[i] = resolved
	}

	if cyclic := findCycleMember(h.parents); cyclic >= 0 {
		return nil, fmt.Errorf("hierarchy: %q participates in a cycle: %w", h.names[cyclic], ErrCycle)
	}

	for i, ps := range h.parents {
		for _, p := range ps {
			h.children[p] = append(h.children[p], i)
		}
	}

	h.ancestors = make([][]int, n)
	h.ancestorSet = make([]map[int]struct{}, n)
	for i := range h.names {
		h.ancestors[i], h.ancestorSet[i] = closureBFS(h.parents, i)
	}

	h.descendants = make([][]int, n)
	h.descendantSet = make([]map[int]struct{}, n)
	for i := range h.names {
		order, set := closureBFS(h.children, i)
		sort.Slice(order, func(a, b int) bool {
			return h.names[order[a]] < h.names[order[b]]
		})
		h.descendants[i] = order
		h.descendantSet[i] = set
	}

	return h, nil
}

// findCycleMember runs a three-color depth-first search over the edge
// relation and returns the index of a node on a cycle, or -1.
func findCycleMember(edges [][]int) int {
	const (
		white = iota
		gray
		black
	)
	color := make([]byte, len(edges))

	var visit func(int) int
	visit = func(u int) int {
		color[u] = gray
		for _, v := range edges[u] {
			switch color[v] {
			case gray:
				return v
			case white:
				if c := visit(v); c >= 0 {
					return c
				}
			}
		}
		color[u] = black
		return -1
	}

	for u := range edges {
		if color[u] == white {
			if c := visit(u); c >= 0 {
				return c
			}
		}
	}
	return -1
}

// closureBFS computes the transitive closure of start over the edge
// relation, excluding start itself. The returned order is breadth-first
// (nearest-first), deduplicated across diamond reconvergence.
func closureBFS(edges [][]int, start int) ([]int, map[int]struct{}) {
	var order []int
	set := make(map[int]struct{})
	queue := append([]int(nil), edges[start]...)
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if _, ok := set[u]; ok {
			continue
		}
		set[u] = struct{}{}
		order = append(order, u)
		queue = append(queue, edges[u]...)
	}
	return order, set
}
