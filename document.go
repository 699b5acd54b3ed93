package semi

import (
	"fmt"
	"strings"
)

// Document is the structured snapshot of a SEM-I: every declaration the
// four tables are built from, in declaration order. The shape uses only
// scalars, sequences, and string-keyed structs, so it marshals directly
// to JSON or YAML without further transformation. Build validates a
// Document into a queryable SemI; (*SemI).Document is its lossless
// inverse.
type Document struct {
	// Source identifies where the declarations came from, typically the
	// top SEM-I file path. Informational only.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	Variables  []VariableDecl  `json:"variables" yaml:"variables"`
	Properties []PropertyDecl  `json:"properties" yaml:"properties"`
	Roles      []RoleDecl      `json:"roles" yaml:"roles"`
	Predicates []PredicateDecl `json:"predicates" yaml:"predicates"`
}

// VariableDecl declares a variable type, its supertypes, and the
// properties it introduces.
type VariableDecl struct {
	Name       string     `json:"name" yaml:"name"`
	Parents    []string   `json:"parents" yaml:"parents"`
	Properties []Property `json:"properties" yaml:"properties"`
}

// PropertyDecl declares a property value type (e.g. "+ < bool").
type PropertyDecl struct {
	Name    string   `json:"name" yaml:"name"`
	Parents []string `json:"parents" yaml:"parents"`
}

// RoleDecl declares an argument role and the variable type its values
// must carry.
type RoleDecl struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// PredicateDecl declares a predicate, its supertypes, and its ordered
// synopsis alternatives.
type PredicateDecl struct {
	Name     string     `json:"name" yaml:"name"`
	Parents  []string   `json:"parents" yaml:"parents"`
	Synopses []Synopsis `json:"synopses" yaml:"synopses"`
}

// Synopsis is one ordered argument frame for a predicate.
type Synopsis []SynopsisRole

// SynopsisRole is a single argument specification within a synopsis.
type SynopsisRole struct {
	Role       string     `json:"role" yaml:"role"`
	Value      string     `json:"value" yaml:"value"`
	Properties []Property `json:"properties" yaml:"properties"`
	Optional   bool       `json:"optional" yaml:"optional"`
}

// Property is a (name, value type) pair, used both for the properties a
// variable type introduces and for the extra constraints on a synopsis
// argument.
type Property struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// ----------------------------------------------------------------------------
// Structural decoding
// ----------------------------------------------------------------------------

// DecodeDocument converts a generic string-keyed mapping, the shape
// produced by unmarshaling JSON or YAML into map[string]any, into a
// Document. Structural problems (wrong value kinds, entries missing
// required keys, unknown sections) are reported as ErrSchemaFormat;
// semantic validation is left to Build.
func DecodeDocument(raw map[string]any) (Document, error) {
	var doc Document

	for key := range raw {
		switch key {
		case "source", "variables", "properties", "roles", "predicates":
		default:
			return Document{}, fmt.Errorf("%w: unknown section %q", ErrSchemaFormat, key)
		}
	}

	if v, ok := raw["source"]; ok {
		s, ok := v.(string)
		if !ok {
			return Document{}, fmt.Errorf("%w: source must be a string", ErrSchemaFormat)
		}
		doc.Source = s
	}

	entries, err := decodeSection(raw, "variables")
	if err != nil {
		return Document{}, err
	}
	for i, entry := range entries {
		decl, err := decodeVariable(entry)
		if err != nil {
			return Document{}, fmt.Errorf("variables[%d]: %w", i, err)
		}
		doc.Variables = append(doc.Variables, decl)
	}

	entries, err = decodeSection(raw, "properties")
	if err != nil {
		return Document{}, err
	}
	for i, entry := range entries {
		name, err := requireString(entry, "name")
		if err != nil {
			return Document{}, fmt.Errorf("properties[%d]: %w", i, err)
		}
		parents, err := optionalStrings(entry, "parents")
		if err != nil {
			return Document{}, fmt.Errorf("properties[%d]: %w", i, err)
		}
		doc.Properties = append(doc.Properties, PropertyDecl{Name: name, Parents: parents})
	}

	entries, err = decodeSection(raw, "roles")
	if err != nil {
		return Document{}, err
	}
	for i, entry := range entries {
		name, err := requireString(entry, "name")
		if err != nil {
			return Document{}, fmt.Errorf("roles[%d]: %w", i, err)
		}
		value, err := requireString(entry, "value")
		if err != nil {
			return Document{}, fmt.Errorf("roles[%d]: %w", i, err)
		}
		doc.Roles = append(doc.Roles, RoleDecl{Name: name, Value: value})
	}

	entries, err = decodeSection(raw, "predicates")
	if err != nil {
		return Document{}, err
	}
	for i, entry := range entries {
		decl, err := decodePredicate(entry)
		if err != nil {
			return Document{}, fmt.Errorf("predicates[%d]: %w", i, err)
		}
		doc.Predicates = append(doc.Predicates, decl)
	}

	return doc, nil
}

// decodeSection extracts a named section as a list of string-keyed maps.
// A missing section decodes as empty.
func decodeSection(raw map[string]any, key string) ([]map[string]any, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a sequence", ErrSchemaFormat, key)
	}
	entries := make([]map[string]any, 0, len(list))
	for i, item := range list {
		m, ok := toStringMap(item)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be a mapping", ErrSchemaFormat, key, i)
		}
		entries = append(entries, m)
	}
	return entries, nil
}

func decodeVariable(entry map[string]any) (VariableDecl, error) {
	name, err := requireString(entry, "name")
	if err != nil {
		return VariableDecl{}, err
	}
	parents, err := optionalStrings(entry, "parents")
	if err != nil {
		return VariableDecl{}, err
	}
	props, err := decodeProperties(entry, "properties")
	if err != nil {
		return VariableDecl{}, err
	}
	return VariableDecl{Name: name, Parents: parents, Properties: props}, nil
}

func decodePredicate(entry map[string]any) (PredicateDecl, error) {
	name, err := requireString(entry, "name")
	if err != nil {
		return PredicateDecl{}, err
	}
	parents, err := optionalStrings(entry, "parents")
	if err != nil {
		return PredicateDecl{}, err
	}

	decl := PredicateDecl{Name: name, Parents: parents}

	v, ok := entry["synopses"]
	if !ok || v == nil {
		return decl, nil
	}
	list, ok := v.([]any)
	if !ok {
		return PredicateDecl{}, fmt.Errorf("%w: synopses must be a sequence", ErrSchemaFormat)
	}
	for i, item := range list {
		roles, ok := item.([]any)
		if !ok {
			return PredicateDecl{}, fmt.Errorf("%w: synopses[%d] must be a sequence", ErrSchemaFormat, i)
		}
		syn := make(Synopsis, 0, len(roles))
		for j, r := range roles {
			m, ok := toStringMap(r)
			if !ok {
				return PredicateDecl{}, fmt.Errorf("%w: synopses[%d][%d] must be a mapping", ErrSchemaFormat, i, j)
			}
			sr, err := decodeSynopsisRole(m)
			if err != nil {
				return PredicateDecl{}, fmt.Errorf("synopses[%d][%d]: %w", i, j, err)
			}
			syn = append(syn, sr)
		}
		decl.Synopses = append(decl.Synopses, syn)
	}
	return decl, nil
}

func decodeSynopsisRole(entry map[string]any) (SynopsisRole, error) {
	role, err := requireString(entry, "role")
	if err != nil {
		return SynopsisRole{}, err
	}
	value, err := requireString(entry, "value")
	if err != nil {
		return SynopsisRole{}, err
	}
	props, err := decodeProperties(entry, "properties")
	if err != nil {
		return SynopsisRole{}, err
	}
	sr := SynopsisRole{Role: role, Value: value, Properties: props}
	if v, ok := entry["optional"]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			return SynopsisRole{}, fmt.Errorf("%w: optional must be a boolean", ErrSchemaFormat)
		}
		sr.Optional = b
	}
	return sr, nil
}

func decodeProperties(entry map[string]any, key string) ([]Property, error) {
	v, ok := entry[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a sequence", ErrSchemaFormat, key)
	}
	props := make([]Property, 0, len(list))
	for i, item := range list {
		m, ok := toStringMap(item)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be a mapping", ErrSchemaFormat, key, i)
		}
		name, err := requireString(m, "name")
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		value, err := requireString(m, "value")
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		props = append(props, Property{Name: name, Value: value})
	}
	return props, nil
}

func requireString(entry map[string]any, key string) (string, error) {
	v, ok := entry[key]
	if !ok {
		return "", fmt.Errorf("%w: missing key %q", ErrSchemaFormat, key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %q must be a non-empty string", ErrSchemaFormat, key)
	}
	return s, nil
}

func optionalStrings(entry map[string]any, key string) ([]string, error) {
	v, ok := entry[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be a sequence of strings", ErrSchemaFormat, key)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q must be a sequence of strings", ErrSchemaFormat, key)
		}
		out = append(out, s)
	}
	return out, nil
}

// toStringMap accepts both map[string]any (JSON) and map[any]any
// (yaml.v2-style decoders) mapping shapes.
func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// normalizeRole returns the canonical (upper-case) form of a role or
// property name.
func normalizeRole(name string) string {
	return strings.ToUpper(name)
}
