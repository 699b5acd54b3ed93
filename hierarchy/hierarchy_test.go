package hierarchy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestHierarchy constructs the quantifier fragment used across tests:
//
//	*top*
//	  q
//	    a_q
//	    some_q
//	      some_q_indiv
//	  x
func buildTestHierarchy(t *testing.T) *Hierarchy {
	t.Helper()
	b := NewBuilder()
	require.NoError(t, b.AddType("*top*"))
	require.NoError(t, b.AddType("q", "*top*"))
	require.NoError(t, b.AddType("a_q", "q"))
	require.NoError(t, b.AddType("some_q", "q"))
	require.NoError(t, b.AddType("some_q_indiv", "some_q"))
	require.NoError(t, b.AddType("x", "*top*"))
	h, err := b.Build()
	require.NoError(t, err)
	return h
}

func TestBuilderAddType(t *testing.T) {
	t.Run("duplicate symbol", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddType("e"))
		err := b.AddType("e")
		assert.ErrorIs(t, err, ErrDuplicateType)
	})

	t.Run("duplicate is case-insensitive", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddType("e"))
		err := b.AddType("E")
		assert.ErrorIs(t, err, ErrDuplicateType)
	})

	t.Run("empty symbol", func(t *testing.T) {
		b := NewBuilder()
		assert.Error(t, b.AddType(""))
	})

	t.Run("forward parent reference is deferred", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddType("child", "parent"))
		require.NoError(t, b.AddType("parent"))
		_, err := b.Build()
		assert.NoError(t, err)
	})
}

func TestBuilderBuildErrors(t *testing.T) {
	t.Run("unknown parent", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddType("child", "ghost"))
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrUnknownParent)
	})

	t.Run("self parent", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddType("a", "a"))
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrCycle)
	})

	t.Run("two-node cycle", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddType("a", "b"))
		require.NoError(t, b.AddType("b", "a"))
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrCycle)
	})

	t.Run("longer cycle", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddType("top"))
		require.NoError(t, b.AddType("a", "top", "c"))
		require.NoError(t, b.AddType("b", "a"))
		require.NoError(t, b.AddType("c", "b"))
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrCycle)
	})
}

func TestAncestors(t *testing.T) {
	h := buildTestHierarchy(t)

	t.Run("nearest first", func(t *testing.T) {
		got, err := h.Ancestors("some_q_indiv")
		require.NoError(t, err)
		assert.Equal(t, []string{"some_q", "q", "*top*"}, got)
	})

	t.Run("excludes the type itself", func(t *testing.T) {
		got, err := h.Ancestors("q")
		require.NoError(t, err)
		assert.NotContains(t, got, "q")
		assert.Equal(t, []string{"*top*"}, got)
	})

	t.Run("root has no ancestors", func(t *testing.T) {
		got, err := h.Ancestors("*top*")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := h.Ancestors("ghost")
		assert.ErrorIs(t, err, ErrUnknownType)
	})
}

func TestAncestorsDiamond(t *testing.T) {
	// top → {a, b} → c: each ancestor of c occurs exactly once even though
	// top is reachable via both a and b.
	b := NewBuilder()
	require.NoError(t, b.AddType("top"))
	require.NoError(t, b.AddType("a", "top"))
	require.NoError(t, b.AddType("b", "top"))
	require.NoError(t, b.AddType("c", "a", "b"))
	h, err := b.Build()
	require.NoError(t, err)

	got, err := h.Ancestors("c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "top"}, got)

	desc, err := h.Descendants("top")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, desc)
}

func TestDescendants(t *testing.T) {
	h := buildTestHierarchy(t)

	t.Run("lexicographic order, excludes the type itself", func(t *testing.T) {
		got, err := h.Descendants("q")
		require.NoError(t, err)
		assert.Equal(t, []string{"a_q", "some_q", "some_q_indiv"}, got)
	})

	t.Run("callers wanting the inclusive set prepend the query", func(t *testing.T) {
		got, err := h.Descendants("q")
		require.NoError(t, err)
		inclusive := append([]string{"q"}, got...)
		assert.ElementsMatch(t, []string{"a_q", "q", "some_q", "some_q_indiv"}, inclusive)
	})

	t.Run("leaf has no descendants", func(t *testing.T) {
		got, err := h.Descendants("some_q_indiv")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := h.Descendants("ghost")
		assert.ErrorIs(t, err, ErrUnknownType)
	})
}

func TestSubsumes(t *testing.T) {
	h := buildTestHierarchy(t)

	tests := []struct {
		a, b string
		want bool
	}{
		{"q", "q", true},
		{"q", "some_q", true},
		{"q", "some_q_indiv", true},
		{"*top*", "some_q_indiv", true},
		{"some_q", "q", false},
		{"a_q", "some_q", false},
		{"x", "q", false},
	}
	for _, tt := range tests {
		got, err := h.Subsumes(tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Subsumes(%s, %s)", tt.a, tt.b)
	}

	t.Run("unknown symbol", func(t *testing.T) {
		_, err := h.Subsumes("q", "ghost")
		assert.ErrorIs(t, err, ErrUnknownType)
	})
}

func TestSubsumesIsPartialOrder(t *testing.T) {
	h := buildTestHierarchy(t)
	types := h.Types()

	for _, a := range types {
		refl, err := h.Subsumes(a, a)
		require.NoError(t, err)
		assert.True(t, refl, "Subsumes(%s, %s) must be reflexive", a, a)
	}

	for _, a := range types {
		for _, b := range types {
			ab, err := h.Subsumes(a, b)
			require.NoError(t, err)
			ba, err := h.Subsumes(b, a)
			require.NoError(t, err)
			if a != b {
				assert.False(t, ab && ba, "antisymmetry violated for %s, %s", a, b)
			}
			for _, c := range types {
				bc, err := h.Subsumes(b, c)
				require.NoError(t, err)
				ac, err := h.Subsumes(a, c)
				require.NoError(t, err)
				if ab && bc {
					assert.True(t, ac, "transitivity violated for %s, %s, %s", a, b, c)
				}
			}
		}
	}
}

func TestCompatible(t *testing.T) {
	// e and n are incomparable but share the descendant en.
	b := NewBuilder()
	require.NoError(t, b.AddType("*top*"))
	require.NoError(t, b.AddType("e", "*top*"))
	require.NoError(t, b.AddType("n", "*top*"))
	require.NoError(t, b.AddType("en", "e", "n"))
	require.NoError(t, b.AddType("p", "*top*"))
	h, err := b.Build()
	require.NoError(t, err)

	tests := []struct {
		a, b string
		want bool
	}{
		{"e", "e", true},
		{"e", "en", true}, // e subsumes en
		{"en", "e", true},
		{"e", "n", true}, // shared descendant en
		{"e", "p", false},
		{"p", "en", false},
	}
	for _, tt := range tests {
		got, err := h.Compatible(tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Compatible(%s, %s)", tt.a, tt.b)
	}

	t.Run("symmetry", func(t *testing.T) {
		for _, a := range h.Types() {
			for _, b := range h.Types() {
				ab, err := h.Compatible(a, b)
				require.NoError(t, err)
				ba, err := h.Compatible(b, a)
				require.NoError(t, err)
				assert.Equal(t, ab, ba, "Compatible(%s, %s) != Compatible(%s, %s)", a, b, b, a)
			}
		}
	})

	t.Run("subsumption implies compatibility", func(t *testing.T) {
		for _, a := range h.Types() {
			for _, b := range h.Types() {
				sub, err := h.Subsumes(a, b)
				require.NoError(t, err)
				if !sub {
					continue
				}
				comp, err := h.Compatible(a, b)
				require.NoError(t, err)
				assert.True(t, comp, "Subsumes(%s, %s) but not Compatible", a, b)
			}
		}
	})
}

func TestCaseNormalization(t *testing.T) {
	h := buildTestHierarchy(t)

	ok, err := h.Subsumes("Q", "SOME_Q_INDIV")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := h.Ancestors("Some_Q")
	require.NoError(t, err)
	assert.Equal(t, []string{"q", "*top*"}, got)

	assert.True(t, h.Contains("SOME_Q"))
}

func TestStructureQueries(t *testing.T) {
	h := buildTestHierarchy(t)

	assert.Equal(t, 6, h.Len())
	assert.Equal(t, []string{"*top*"}, h.Roots())
	assert.Equal(t, []string{"*top*", "a_q", "q", "some_q", "some_q_indiv", "x"}, h.Types())

	parents, err := h.Parents("some_q_indiv")
	require.NoError(t, err)
	assert.Equal(t, []string{"some_q"}, parents)

	children, err := h.Children("q")
	require.NoError(t, err)
	assert.Equal(t, []string{"a_q", "some_q"}, children)

	_, err = h.Parents("ghost")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestBuildLeavesNothingUsableOnError(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddType("a", "missing"))
	h, err := b.Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownParent))
	assert.Nil(t, h)
}
