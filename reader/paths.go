package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolvePaths expands glob patterns to concrete SEM-I files. Supports
// both single-level wildcards (*) and recursive wildcards (**).
//
// Examples:
//   - "./grammar/*.smi" → ["./grammar/erg.smi", "./grammar/core.smi", ...]
//   - "./erg.smi" → ["./erg.smi"]
//   - "./**/*.smi" → all .smi files recursively
//
// Returns only regular files, deduplicated, in pattern order.
func ResolvePaths(patterns []string) ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		paths, err := resolvePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				resolved = append(resolved, p)
			}
		}
	}

	return resolved, nil
}

// resolvePattern expands a single glob pattern to files.
func resolvePattern(pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		abs, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("path is a directory, not a SEM-I file: %s", abs)
		}
		return []string{abs}, nil
	}

	base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
	absBase, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(absBase), rest)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, m := range matches {
		full := filepath.Join(absBase, filepath.FromSlash(m))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, full)
	}
	return files, nil
}

// containsGlob reports whether the pattern uses glob metacharacters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}
