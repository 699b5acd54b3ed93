package semi

import (
	"fmt"

	"github.com/c360studio/semi/hierarchy"
)

// Top is the implicit root of every SEM-I type hierarchy. Variables,
// property types, and predicates declared without parents attach to it.
const Top = "*top*"

// StringType is the builtin type for literal string values (e.g. the
// value type of CARG). It is always present in the hierarchy, directly
// under Top, unless the SEM-I declares it explicitly.
const StringType = "string"

// SemI is an immutable semantic interface: the variable, property, role,
// and predicate tables of a grammar together with the unified type
// hierarchy they share. Build it from a Document; all query methods are
// safe for concurrent use.
type SemI struct {
	doc        Document
	hier       *hierarchy.Hierarchy
	variables  *VariableTable
	roles      *RoleTable
	predicates *PredicateTable
}

// Build validates a Document and assembles the queryable SemI.
//
// Variables, property types, and predicates share one hierarchy rooted
// at Top; declaring the same symbol twice across those sections is a
// hierarchy.ErrDuplicateType error. Parents must resolve
// (hierarchy.ErrUnknownParent), the edges must be acyclic
// (hierarchy.ErrCycle), and every type referenced by a property list,
// role value, or synopsis must be declared (hierarchy.ErrUnknownType).
// On error nothing usable is returned.
func Build(doc Document) (*SemI, error) {
	norm := normalizeDocument(doc)

	b := hierarchy.NewBuilder()
	if err := b.AddType(Top); err != nil {
		return nil, err
	}
	for _, v := range norm.Variables {
		if err := b.AddType(v.Name, v.Parents...); err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.Name, err)
		}
	}
	for _, p := range norm.Properties {
		if err := b.AddType(p.Name, p.Parents...); err != nil {
			return nil, fmt.Errorf("property type %q: %w", p.Name, err)
		}
	}
	for _, p := range norm.Predicates {
		if err := b.AddType(p.Name, p.Parents...); err != nil {
			return nil, fmt.Errorf("predicate %q: %w", p.Name, err)
		}
	}
	if !b.Contains(StringType) {
		if err := b.AddType(StringType, Top); err != nil {
			return nil, err
		}
	}

	h, err := b.Build()
	if err != nil {
		return nil, err
	}

	if err := validateReferences(norm, h); err != nil {
		return nil, err
	}

	return &SemI{
		doc:        norm,
		hier:       h,
		variables:  newVariableTable(norm.Variables, h),
		roles:      newRoleTable(norm.Roles),
		predicates: newPredicateTable(norm.Predicates, h),
	}, nil
}

// FromMap decodes a generic string-keyed mapping (unmarshaled JSON or
// YAML) and builds the SemI. Structural problems surface as
// ErrSchemaFormat before any semantic validation runs.
func FromMap(raw map[string]any) (*SemI, error) {
	doc, err := DecodeDocument(raw)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// validateReferences checks that every type symbol the tables reference
// is declared in the hierarchy.
func validateReferences(doc Document, h *hierarchy.Hierarchy) error {
	for _, v := range doc.Variables {
		for _, p := range v.Properties {
			if !h.Contains(p.Value) {
				return fmt.Errorf("variable %q: property %s: %q: %w",
					v.Name, p.Name, p.Value, hierarchy.ErrUnknownType)
			}
		}
	}
	for _, r := range doc.Roles {
		if !h.Contains(r.Value) {
			return fmt.Errorf("role %s: %q: %w", r.Name, r.Value, hierarchy.ErrUnknownType)
		}
	}
	for _, p := range doc.Predicates {
		for i, syn := range p.Synopses {
			for _, sr := range syn {
				if !h.Contains(sr.Value) {
					return fmt.Errorf("predicate %q synopsis %d: role %s: %q: %w",
						p.Name, i, sr.Role, sr.Value, hierarchy.ErrUnknownType)
				}
				for _, prop := range sr.Properties {
					if !h.Contains(prop.Value) {
						return fmt.Errorf("predicate %q synopsis %d: role %s: property %s: %q: %w",
							p.Name, i, sr.Role, prop.Name, prop.Value, hierarchy.ErrUnknownType)
					}
				}
			}
		}
	}
	return nil
}

// Source returns the identifier of where the declarations came from.
func (s *SemI) Source() string { return s.doc.Source }

// TypeHierarchy returns the unified type hierarchy.
func (s *SemI) TypeHierarchy() *hierarchy.Hierarchy { return s.hier }

// Variables returns the variable table.
func (s *SemI) Variables() *VariableTable { return s.variables }

// Roles returns the role table.
func (s *SemI) Roles() *RoleTable { return s.roles }

// Predicates returns the predicate table.
func (s *SemI) Predicates() *PredicateTable { return s.predicates }

// Document returns the canonical snapshot of all declarations. Building
// a new SemI from the returned Document yields one observationally
// equivalent to s.
func (s *SemI) Document() Document {
	return copyDocument(s.doc)
}

// ----------------------------------------------------------------------------
// Case-normalized passthrough queries
// ----------------------------------------------------------------------------

// Subsumes reports whether type a subsumes type b.
func (s *SemI) Subsumes(a, b string) (bool, error) { return s.hier.Subsumes(a, b) }

// Compatible reports whether types a and b share a descendant.
func (s *SemI) Compatible(a, b string) (bool, error) { return s.hier.Compatible(a, b) }

// Ancestors returns the proper supertypes of the symbol, nearest-first.
func (s *SemI) Ancestors(symbol string) ([]string, error) { return s.hier.Ancestors(symbol) }

// Descendants returns the proper subtypes of the symbol in lexicographic order.
func (s *SemI) Descendants(symbol string) ([]string, error) { return s.hier.Descendants(symbol) }

// Properties returns the effective property list of a variable type.
func (s *SemI) Properties(variableType string) ([]PropertyEntry, error) {
	return s.variables.Properties(variableType)
}

// RoleValue returns the variable type required for a role's value.
func (s *SemI) RoleValue(role string) (string, error) {
	return s.roles.ValueType(role)
}

// Synopses returns a predicate's synopsis alternatives.
func (s *SemI) Synopses(predicate string) ([]Synopsis, error) {
	return s.predicates.Synopses(predicate)
}

// FindSynopsis matches observed arguments against a predicate's synopses.
func (s *SemI) FindSynopsis(predicate string, observed []Arg) (Synopsis, error) {
	return s.predicates.FindSynopsis(predicate, observed)
}

// ----------------------------------------------------------------------------
// Normalization
// ----------------------------------------------------------------------------

// normalizeDocument returns a deep copy of doc in canonical form: type
// symbols lower case, role and property names upper case, implicit Top
// parents made explicit, nil sequences made empty so the snapshot
// marshals the same regardless of how it was produced.
func normalizeDocument(doc Document) Document {
	norm := Document{
		Source:     doc.Source,
		Variables:  make([]VariableDecl, 0, len(doc.Variables)),
		Properties: make([]PropertyDecl, 0, len(doc.Properties)),
		Roles:      make([]RoleDecl, 0, len(doc.Roles)),
		Predicates: make([]PredicateDecl, 0, len(doc.Predicates)),
	}
	for _, v := range doc.Variables {
		norm.Variables = append(norm.Variables, VariableDecl{
			Name:       hierarchy.Normalize(v.Name),
			Parents:    normalizeParents(v.Parents),
			Properties: normalizeProperties(v.Properties),
		})
	}
	for _, p := range doc.Properties {
		norm.Properties = append(norm.Properties, PropertyDecl{
			Name:    hierarchy.Normalize(p.Name),
			Parents: normalizeParents(p.Parents),
		})
	}
	for _, r := range doc.Roles {
		norm.Roles = append(norm.Roles, RoleDecl{
			Name:  normalizeRole(r.Name),
			Value: hierarchy.Normalize(r.Value),
		})
	}
	for _, p := range doc.Predicates {
		decl := PredicateDecl{
			Name:     hierarchy.Normalize(p.Name),
			Parents:  normalizeParents(p.Parents),
			Synopses: make([]Synopsis, 0, len(p.Synopses)),
		}
		for _, syn := range p.Synopses {
			ns := make(Synopsis, 0, len(syn))
			for _, sr := range syn {
				ns = append(ns, SynopsisRole{
					Role:       normalizeRole(sr.Role),
					Value:      hierarchy.Normalize(sr.Value),
					Properties: normalizeProperties(sr.Properties),
					Optional:   sr.Optional,
				})
			}
			decl.Synopses = append(decl.Synopses, ns)
		}
		norm.Predicates = append(norm.Predicates, decl)
	}
	return norm
}

// normalizeParents lower-cases parent symbols and substitutes the
// implicit Top parent for empty declarations.
func normalizeParents(parents []string) []string {
	if len(parents) == 0 {
		return []string{Top}
	}
	out := make([]string, 0, len(parents))
	for _, p := range parents {
		out = append(out, hierarchy.Normalize(p))
	}
	return out
}

func normalizeProperties(props []Property) []Property {
	out := make([]Property, 0, len(props))
	for _, p := range props {
		out = append(out, Property{Name: normalizeRole(p.Name), Value: hierarchy.Normalize(p.Value)})
	}
	return out
}

// copyDocument deep-copies a Document so callers cannot mutate the
// SemI's internal snapshot through the returned slices.
func copyDocument(doc Document) Document {
	out := Document{
		Source:     doc.Source,
		Variables:  make([]VariableDecl, len(doc.Variables)),
		Properties: make([]PropertyDecl, len(doc.Properties)),
		Roles:      make([]RoleDecl, len(doc.Roles)),
		Predicates: make([]PredicateDecl, len(doc.Predicates)),
	}
	for i, v := range doc.Variables {
		out.Variables[i] = VariableDecl{
			Name:       v.Name,
			Parents:    copySlice(v.Parents),
			Properties: copySlice(v.Properties),
		}
	}
	for i, p := range doc.Properties {
		out.Properties[i] = PropertyDecl{Name: p.Name, Parents: copySlice(p.Parents)}
	}
	copy(out.Roles, doc.Roles)
	for i, p := range doc.Predicates {
		decl := PredicateDecl{
			Name:     p.Name,
			Parents:  copySlice(p.Parents),
			Synopses: make([]Synopsis, len(p.Synopses)),
		}
		for j, syn := range p.Synopses {
			ns := make(Synopsis, len(syn))
			for k, sr := range syn {
				sr.Properties = copySlice(sr.Properties)
				ns[k] = sr
			}
			decl.Synopses[j] = ns
		}
		out.Predicates[i] = decl
	}
	return out
}

// copySlice copies a slice, keeping empty slices non-nil so the snapshot
// marshals identically before and after a round trip.
func copySlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
