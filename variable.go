package semi

import (
	"fmt"

	"github.com/c360studio/semi/hierarchy"
)

// VariableTable maps variable types to the properties they introduce.
// The effective property list of a variable type includes properties
// inherited from ancestor variable types, resolved through the hierarchy.
type VariableTable struct {
	names     []string // declaration order
	entries   map[string]variableEntry
	propNames map[string]struct{}
	hier      *hierarchy.Hierarchy
}

type variableEntry struct {
	parents    []string
	properties []Property
}

// PropertyEntry is one effective property of a variable type, attributed
// to the variable type that declared it.
type PropertyEntry struct {
	// Name is the property name in canonical upper case.
	Name string `json:"name" yaml:"name"`

	// Value is the property's value type.
	Value string `json:"value" yaml:"value"`

	// DeclaredBy is the variable type whose declaration supplied this
	// entry: the queried type itself or the nearest ancestor declaring it.
	DeclaredBy string `json:"declared_by" yaml:"declared_by"`
}

// newVariableTable builds the table from normalized declarations.
func newVariableTable(decls []VariableDecl, hier *hierarchy.Hierarchy) *VariableTable {
	t := &VariableTable{
		entries:   make(map[string]variableEntry, len(decls)),
		propNames: make(map[string]struct{}),
		hier:      hier,
	}
	for _, d := range decls {
		t.names = append(t.names, d.Name)
		t.entries[d.Name] = variableEntry{parents: d.Parents, properties: d.Properties}
		for _, p := range d.Properties {
			t.propNames[p.Name] = struct{}{}
		}
	}
	return t
}

// Variables returns the declared variable types in declaration order.
func (t *VariableTable) Variables() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Contains reports whether the variable type is declared.
func (t *VariableTable) Contains(variableType string) bool {
	_, ok := t.entries[hierarchy.Normalize(variableType)]
	return ok
}

// ContainsProperty reports whether any variable type declares a property
// with the given name.
func (t *VariableTable) ContainsProperty(name string) bool {
	_, ok := t.propNames[normalizeRole(name)]
	return ok
}

// Properties returns the effective property list of a variable type: its
// own declarations first, then inherited properties in nearest-ancestor
// order. A property redeclared by a more specific type shadows the
// ancestor's declaration.
func (t *VariableTable) Properties(variableType string) ([]PropertyEntry, error) {
	name := hierarchy.Normalize(variableType)
	entry, ok := t.entries[name]
	if !ok {
		return nil, fmt.Errorf("semi: %q: %w", variableType, ErrUnknownVariable)
	}

	var out []PropertyEntry
	seen := make(map[string]struct{})
	appendProps := func(declaredBy string, props []Property) {
		for _, p := range props {
			if _, ok := seen[p.Name]; ok {
				continue
			}
			seen[p.Name] = struct{}{}
			out = append(out, PropertyEntry{Name: p.Name, Value: p.Value, DeclaredBy: declaredBy})
		}
	}

	appendProps(name, entry.properties)

	ancestors, err := t.hier.Ancestors(name)
	if err != nil {
		return nil, err
	}
	for _, anc := range ancestors {
		if parent, ok := t.entries[anc]; ok {
			appendProps(anc, parent.properties)
		}
	}
	return out, nil
}
