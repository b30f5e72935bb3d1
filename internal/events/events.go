// Package events normalizes captured watcher output lines and compares the
// resulting event set against an expected set.
//
// A raw event is one stdout line from the watcher, `fullPath,eventKind`.
// Normalization strips the base directory's leading path components so runs
// are comparable regardless of where the test tree was rooted. Comparison is
// set-based: order-insensitive and duplicate-insensitive, because watchers
// may merge, reorder or coalesce the underlying OS notifications.
package events

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MalformedLineError reports a raw event line that is not exactly two
// comma-separated fields.
type MalformedLineError struct {
	Line string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed event line %q: want path,kind", e.Line)
}

// Normalize rewrites one raw `fullPath,eventKind` line into
// `relativePath,eventKind`, where relativePath is fullPath with basedir's
// leading path components stripped.
func Normalize(line, basedir string) (string, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 2 {
		return "", &MalformedLineError{Line: line}
	}
	fullPath, kind := fields[0], fields[1]

	skip := len(components(basedir))
	parts := components(fullPath)
	if len(parts) > skip {
		parts = parts[skip:]
	} else {
		parts = nil
	}

	return strings.Join(parts, "/") + "," + kind, nil
}

// components splits a path into its non-empty slash-separated components.
func components(path string) []string {
	var parts []string
	for _, p := range strings.Split(filepath.ToSlash(path), "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Set is an order- and duplicate-insensitive collection of normalized
// `relativePath,eventKind` strings.
type Set map[string]struct{}

// NewSet builds a Set from the given lines, ignoring empty ones.
func NewSet(lines ...string) Set {
	s := make(Set, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			s[line] = struct{}{}
		}
	}
	return s
}

// Equal reports exact set equality (not subset, not multiset).
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for e := range s {
		if _, ok := other[e]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the set's entries in lexical order for stable output.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// NormalizeLines normalizes a batch of captured raw lines into a Set.
//
// In strict mode a malformed line is a data-integrity error; otherwise it is
// skipped with a warning, matching watchers that occasionally emit partial
// lines around termination.
func NormalizeLines(lines []string, basedir string, strict bool, logger *slog.Logger) (Set, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := make(Set, len(lines))
	for _, line := range lines {
		normalized, err := Normalize(line, basedir)
		if err != nil {
			if strict {
				return nil, err
			}
			logger.Warn("skipping malformed event line", "line", line)
			continue
		}
		s[normalized] = struct{}{}
	}
	return s, nil
}

// LoadExpected reads the expected-output file into a Set. Expected lines are
// assumed pre-normalized by the test author; no rewriting is applied.
func LoadExpected(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open expected output: %w", err)
	}
	defer func() { _ = f.Close() }()

	s := make(Set)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			s[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read expected output: %w", err)
	}
	return s, nil
}
