package semi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableProperties(t *testing.T) {
	s := buildTestSemI(t)
	vars := s.Variables()

	t.Run("own declarations in order", func(t *testing.T) {
		props, err := vars.Properties("e")
		require.NoError(t, err)
		assert.Equal(t, []PropertyEntry{
			{Name: "TENSE", Value: "tense", DeclaredBy: "e"},
			{Name: "PERF", Value: "bool", DeclaredBy: "e"},
		}, props)
	})

	t.Run("inherited and attributed to the declaring ancestor", func(t *testing.T) {
		props, err := vars.Properties("e2")
		require.NoError(t, err)
		assert.Equal(t, []PropertyEntry{
			{Name: "TENSE", Value: "tense", DeclaredBy: "e"},
			{Name: "PERF", Value: "bool", DeclaredBy: "e"},
		}, props)
	})

	t.Run("no properties", func(t *testing.T) {
		props, err := vars.Properties("u")
		require.NoError(t, err)
		assert.Empty(t, props)
	})

	t.Run("unknown variable type", func(t *testing.T) {
		_, err := vars.Properties("ghost")
		assert.ErrorIs(t, err, ErrUnknownVariable)
	})

	t.Run("case-insensitive lookup", func(t *testing.T) {
		props, err := vars.Properties("E2")
		require.NoError(t, err)
		assert.Len(t, props, 2)
	})
}

func TestVariablePropertyShadowing(t *testing.T) {
	// e redeclares TENSE with a narrower value type; e2 must see the
	// redeclaration, not i's original.
	doc := Document{
		Variables: []VariableDecl{
			{Name: "i", Properties: []Property{{Name: "TENSE", Value: "tense"}}},
			{Name: "e", Parents: []string{"i"}, Properties: []Property{{Name: "TENSE", Value: "real_tense"}}},
			{Name: "e2", Parents: []string{"e"}},
		},
		Properties: []PropertyDecl{
			{Name: "tense"},
			{Name: "real_tense", Parents: []string{"tense"}},
		},
	}
	s, err := Build(doc)
	require.NoError(t, err)

	props, err := s.Properties("e2")
	require.NoError(t, err)
	assert.Equal(t, []PropertyEntry{
		{Name: "TENSE", Value: "real_tense", DeclaredBy: "e"},
	}, props)
}

func TestVariableTableMembership(t *testing.T) {
	s := buildTestSemI(t)
	vars := s.Variables()

	assert.True(t, vars.Contains("e"))
	assert.True(t, vars.Contains("E"))
	assert.False(t, vars.Contains("bool")) // a property type, not a variable

	assert.True(t, vars.ContainsProperty("TENSE"))
	assert.True(t, vars.ContainsProperty("tense")) // property names are case-insensitive
	assert.True(t, vars.ContainsProperty("IND"))
	assert.False(t, vars.ContainsProperty("SF"))
}
