package reader

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/c360studio/semi"
)

// Entry patterns for the four sections. Optionality of synopsis
// arguments is handled by parseSynopsis, not the regular expressions.
var (
	sectionRe  = regexp.MustCompile(`^([^: ]+):\s*$`)
	includeRe  = regexp.MustCompile(`^include:\s*(.+)$`)
	variableRe = regexp.MustCompile(`^([^ <:.]+)(?: < ([^ &:.]+(?: & [^ &:.]+)*))?(?: : ([^ ]+ [^ ,.]+(?:, [^ ]+ [^ ,.]+)*))?\s*\.\s*$`)
	propertyRe = regexp.MustCompile(`^([^ <.]+)(?: < ([^ &.]+(?: & [^ &.]+)*))?\s*\.\s*$`)
	roleRe     = regexp.MustCompile(`^([^ :]+) : ([^ .]+)\s*\.\s*$`)
	predRe     = regexp.MustCompile(`^([^ <:.]+)(?: < ([^ &:.]+(?: & [^ &:.]+)*))?(?: : (.*[^ .]))?\s*\.\s*$`)
	synRoleRe  = regexp.MustCompile(`^(\S+)\s+([^{\s]+?)\s*(?:\{\s*(.*?)\s*\})?$`)
)

// sectionNames are the valid section headers.
var sectionNames = map[string]bool{
	"variables":  true,
	"properties": true,
	"roles":      true,
	"predicates": true,
}

// ParseError reports a line that could not be parsed.
type ParseError struct {
	File string
	Line int
	Msg  string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// Result is a loaded SEM-I together with every file that contributed to
// it, in load order. The file list feeds the watcher.
type Result struct {
	Document semi.Document
	Files    []string
}

// Loader reads SEM-I files, following include directives.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the SEM-I rooted at path with a default Loader.
func Load(path string) (*Result, error) {
	return NewLoader(nil).Load(path)
}

// Load reads the SEM-I beginning at path, splicing included files. The
// returned Document's Source is the top file path. Included files merge
// the way grammars expect: the latest variable, property type, or role
// declaration for a name wins, predicate parents are replaced when
// redeclared, and predicate synopses accumulate across files.
func (l *Loader) Load(path string) (*Result, error) {
	acc := newAccumulator()
	if err := l.readFile(path, acc); err != nil {
		return nil, err
	}
	doc := acc.document()
	doc.Source = path
	l.logger.Debug("Loaded SEM-I",
		slog.String("path", path),
		slog.Int("files", len(acc.files)),
		slog.Int("variables", len(doc.Variables)),
		slog.Int("predicates", len(doc.Predicates)))
	return &Result{Document: doc, Files: acc.files}, nil
}

// LoadAll reads several SEM-I files into one merged document, applying
// the same merge rules across files as across includes. The Document's
// Source is the first path.
func (l *Loader) LoadAll(paths []string) (*Result, error) {
	acc := newAccumulator()
	for _, p := range paths {
		if err := l.readFile(p, acc); err != nil {
			return nil, err
		}
	}
	doc := acc.document()
	if len(paths) > 0 {
		doc.Source = paths[0]
	}
	l.logger.Debug("Loaded SEM-I set",
		slog.Int("files", len(acc.files)),
		slog.Int("variables", len(doc.Variables)),
		slog.Int("predicates", len(doc.Predicates)))
	return &Result{Document: doc, Files: acc.files}, nil
}

// accumulator collects declarations across included files, keyed for
// last-wins merging while preserving first-seen order.
type accumulator struct {
	files []string
	seen  map[string]bool // absolute paths, guards include cycles

	varOrder  []string
	variables map[string]semi.VariableDecl

	propOrder  []string
	properties map[string]semi.PropertyDecl

	roleOrder []string
	roles     map[string]semi.RoleDecl

	predOrder  []string
	predicates map[string]semi.PredicateDecl
}

func newAccumulator() *accumulator {
	return &accumulator{
		seen:       make(map[string]bool),
		variables:  make(map[string]semi.VariableDecl),
		properties: make(map[string]semi.PropertyDecl),
		roles:      make(map[string]semi.RoleDecl),
		predicates: make(map[string]semi.PredicateDecl),
	}
}

func (a *accumulator) document() semi.Document {
	var doc semi.Document
	for _, name := range a.varOrder {
		doc.Variables = append(doc.Variables, a.variables[name])
	}
	for _, name := range a.propOrder {
		doc.Properties = append(doc.Properties, a.properties[name])
	}
	for _, name := range a.roleOrder {
		doc.Roles = append(doc.Roles, a.roles[name])
	}
	for _, name := range a.predOrder {
		doc.Predicates = append(doc.Predicates, a.predicates[name])
	}
	return doc
}

// readFile parses one file into the accumulator, recursing into includes.
func (l *Loader) readFile(path string, acc *accumulator) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", path, err)
	}
	if acc.seen[abs] {
		l.logger.Debug("Skipping already-included file", slog.String("path", path))
		return nil
	}
	acc.seen[abs] = true
	acc.files = append(acc.files, abs)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open SEM-I file: %w", err)
	}
	defer f.Close()

	basedir := filepath.Dir(path)
	section := ""
	lineno := 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineno++
		line := strings.TrimLeft(scanner.Text(), " \t")

		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if m := sectionRe.FindStringSubmatch(line); m != nil {
			if !sectionNames[m[1]] {
				return &ParseError{File: path, Line: lineno, Msg: fmt.Sprintf("invalid section: %s", m[1])}
			}
			section = m[1]
			continue
		}

		if m := includeRe.FindStringSubmatch(line); m != nil {
			includePath := filepath.Join(basedir, strings.TrimSpace(m[1]))
			if err := l.readFile(includePath, acc); err != nil {
				return err
			}
			continue
		}

		if err := l.parseEntry(section, line, acc); err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				perr.File = path
				perr.Line = lineno
				return perr
			}
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read SEM-I file: %w", err)
	}
	return nil
}

// parseEntry dispatches a declaration line to its section's grammar.
// Lines before the first section header are ignored.
func (l *Loader) parseEntry(section, line string, acc *accumulator) error {
	switch section {
	case "variables":
		m := variableRe.FindStringSubmatch(line)
		if m == nil {
			return &ParseError{Msg: fmt.Sprintf("invalid variable entry: %s", line)}
		}
		props, err := parsePropertyList(m[3], ", ")
		if err != nil {
			return &ParseError{Msg: fmt.Sprintf("invalid variable entry: %s", line)}
		}
		name := m[1]
		if _, ok := acc.variables[name]; !ok {
			acc.varOrder = append(acc.varOrder, name)
		}
		acc.variables[name] = semi.VariableDecl{
			Name:       name,
			Parents:    splitParents(m[2]),
			Properties: props,
		}

	case "properties":
		m := propertyRe.FindStringSubmatch(line)
		if m == nil {
			return &ParseError{Msg: fmt.Sprintf("invalid property entry: %s", line)}
		}
		name := m[1]
		if _, ok := acc.properties[name]; !ok {
			acc.propOrder = append(acc.propOrder, name)
		}
		acc.properties[name] = semi.PropertyDecl{Name: name, Parents: splitParents(m[2])}

	case "roles":
		m := roleRe.FindStringSubmatch(line)
		if m == nil {
			return &ParseError{Msg: fmt.Sprintf("invalid role entry: %s", line)}
		}
		name := m[1]
		if _, ok := acc.roles[name]; !ok {
			acc.roleOrder = append(acc.roleOrder, name)
		}
		acc.roles[name] = semi.RoleDecl{Name: name, Value: m[2]}

	case "predicates":
		m := predRe.FindStringSubmatch(line)
		if m == nil {
			return &ParseError{Msg: fmt.Sprintf("invalid predicate entry: %s", line)}
		}
		name := m[1]
		decl, ok := acc.predicates[name]
		if !ok {
			decl = semi.PredicateDecl{Name: name}
			acc.predOrder = append(acc.predOrder, name)
		}
		if m[2] != "" {
			decl.Parents = splitParents(m[2])
		}
		if m[3] != "" {
			syn, err := parseSynopsis(m[3])
			if err != nil {
				return &ParseError{Msg: fmt.Sprintf("invalid synopsis for %s: %v", name, err)}
			}
			decl.Synopses = append(decl.Synopses, syn)
		}
		acc.predicates[name] = decl
	}
	return nil
}

// splitParents splits a " & "-joined parent list; empty input means the
// declaration relies on the implicit *top* parent.
func splitParents(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, " & ")
}

// parsePropertyList parses "PERF bool, TENSE tense" style lists.
func parsePropertyList(s, sep string) ([]semi.Property, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var props []semi.Property
	for _, pair := range strings.Split(s, sep) {
		fields := strings.Fields(pair)
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed property pair %q", pair)
		}
		props = append(props, semi.Property{Name: fields[0], Value: fields[1]})
	}
	return props, nil
}

// parseSynopsis parses one synopsis: comma-separated argument
// specifications, each "ROLE value" with optional "{ PROP val, ... }"
// constraints, the whole argument bracketed when optional:
//
//	ARG0 e, ARG1 i, ARG2 p { IND + }, [ ARG3 i ]
func parseSynopsis(s string) (semi.Synopsis, error) {
	var syn semi.Synopsis
	for _, item := range splitSynopsisItems(s) {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil, fmt.Errorf("empty argument specification")
		}

		optional := false
		if strings.HasPrefix(item, "[") {
			if !strings.HasSuffix(item, "]") {
				return nil, fmt.Errorf("unbalanced brackets in %q", item)
			}
			optional = true
			item = strings.TrimSpace(item[1 : len(item)-1])
		}

		m := synRoleRe.FindStringSubmatch(item)
		if m == nil {
			return nil, fmt.Errorf("malformed argument %q", item)
		}
		props, err := parsePropertyList(m[3], ",")
		if err != nil {
			return nil, err
		}
		syn = append(syn, semi.SynopsisRole{
			Role:       m[1],
			Value:      m[2],
			Properties: props,
			Optional:   optional,
		})
	}
	return syn, nil
}

// splitSynopsisItems splits a synopsis on commas that are outside
// property braces and optionality brackets.
func splitSynopsisItems(s string) []string {
	var items []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		case ',':
			if depth == 0 {
				items = append(items, s[start:i])
				start = i + 1
			}
		}
	}
	items = append(items, s[start:])
	return items
}
