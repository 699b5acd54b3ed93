package semi

import "fmt"

// RoleTable maps argument roles to the variable type their values must
// carry when the role appears in a predication.
type RoleTable struct {
	names  []string // declaration order
	values map[string]string
}

// newRoleTable builds the table from normalized declarations.
func newRoleTable(decls []RoleDecl) *RoleTable {
	t := &RoleTable{values: make(map[string]string, len(decls))}
	for _, d := range decls {
		if _, ok := t.values[d.Name]; !ok {
			t.names = append(t.names, d.Name)
		}
		t.values[d.Name] = d.Value
	}
	return t
}

// Roles returns the declared roles in declaration order.
func (t *RoleTable) Roles() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Contains reports whether the role is declared.
func (t *RoleTable) Contains(role string) bool {
	_, ok := t.values[normalizeRole(role)]
	return ok
}

// ValueType returns the variable type required for the role's value.
func (t *RoleTable) ValueType(role string) (string, error) {
	v, ok := t.values[normalizeRole(role)]
	if !ok {
		return "", fmt.Errorf("semi: %q: %w", role, ErrUnknownRole)
	}
	return v, nil
}
