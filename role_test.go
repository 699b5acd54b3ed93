package semi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleValueType(t *testing.T) {
	s := buildTestSemI(t)
	roles := s.Roles()

	tests := []struct {
		role string
		want string
	}{
		{"ARG0", "i"},
		{"ARG1", "u"},
		{"RSTR", "h"},
		{"CARG", "string"},
		{"arg0", "i"}, // lookups are case-normalized
	}
	for _, tt := range tests {
		got, err := roles.ValueType(tt.role)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "ValueType(%s)", tt.role)
	}

	t.Run("unknown role", func(t *testing.T) {
		_, err := roles.ValueType("MARG")
		assert.ErrorIs(t, err, ErrUnknownRole)
	})
}

func TestRoleTableMembership(t *testing.T) {
	s := buildTestSemI(t)
	roles := s.Roles()

	assert.True(t, roles.Contains("ARG0"))
	assert.True(t, roles.Contains("body"))
	assert.False(t, roles.Contains("MARG"))
	assert.Equal(t, []string{"ARG0", "ARG1", "ARG2", "ARG3", "RSTR", "BODY", "CARG"}, roles.Roles())
}
