// Package ignorefile manages set-based ignore files (.gitignore,
// .npmignore). Patterns are validated as globs when added, deduplicated,
// and rendered in insertion order so identical inputs produce identical
// files.
package ignorefile

import (
	"strings"

	"github.com/gobwas/glob"

	"github.com/vk/projgen/internal/projerr"
)

// File is one ignore file under construction.
type File struct {
	// Path is the artifact path, e.g. ".gitignore".
	Path string

	patterns []string
	seen     map[string]struct{}
	compiled map[string]glob.Glob
}

// New creates an empty ignore file for the given artifact path.
func New(path string) *File {
	return &File{
		Path:     path,
		seen:     make(map[string]struct{}),
		compiled: make(map[string]glob.Glob),
	}
}

// Exclude adds patterns whose matches are ignored. Invalid glob syntax is
// a configuration error.
func (f *File) Exclude(patterns ...string) error {
	for _, p := range patterns {
		if err := f.add(p); err != nil {
			return err
		}
	}
	return nil
}

// Include adds negated patterns, re-admitting matches that an earlier
// exclude pattern would drop.
func (f *File) Include(patterns ...string) error {
	for _, p := range patterns {
		p = strings.TrimPrefix(p, "!")
		if err := f.add("!" + p); err != nil {
			return err
		}
	}
	return nil
}

func (f *File) add(pattern string) error {
	if pattern == "" || pattern == "!" {
		return projerr.Config(f.Path, "empty ignore pattern")
	}
	if _, ok := f.seen[pattern]; ok {
		return nil
	}
	bare := strings.TrimPrefix(pattern, "!")
	g, err := glob.Compile(strings.TrimSuffix(strings.TrimPrefix(bare, "/"), "/"), '/')
	if err != nil {
		return projerr.Config(f.Path, "invalid ignore pattern %q: %v", pattern, err)
	}
	f.seen[pattern] = struct{}{}
	f.patterns = append(f.patterns, pattern)
	f.compiled[pattern] = g
	return nil
}

// Matches reports whether path is ignored by the current pattern set.
// Patterns apply in insertion order; the last matching pattern wins, with
// a leading "!" re-admitting the path.
func (f *File) Matches(path string) bool {
	path = strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/")
	ignored := false
	for _, p := range f.patterns {
		negated := strings.HasPrefix(p, "!")
		g := f.compiled[p]
		if g.Match(path) {
			ignored = !negated
		}
	}
	return ignored
}

// Patterns returns the pattern list in insertion order.
func (f *File) Patterns() []string {
	return append([]string(nil), f.patterns...)
}

// Render produces the ignore file content.
func (f *File) Render() []byte {
	var b strings.Builder
	for _, p := range f.patterns {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
