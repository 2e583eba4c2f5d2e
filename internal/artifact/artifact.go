// Package artifact holds the in-memory artifact set produced by one
// assembly pass. Artifacts are collected first and written only after the
// whole assembly has succeeded, which preserves the all-or-nothing
// guarantee: a failed assembly commits nothing to disk.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Artifact is a single generated file, addressed relative to the project
// root.
type Artifact struct {
	Path    string
	Content []byte
}

// Set accumulates artifacts during assembly. Paths are unique; registering
// the same path twice is a programmer error surfaced to the caller.
type Set struct {
	byPath map[string]*Artifact
}

// NewSet returns an empty artifact set.
func NewSet() *Set {
	return &Set{byPath: make(map[string]*Artifact)}
}

// Add registers a generated file. The path must be slash-separated and
// relative to the project root.
func (s *Set) Add(path string, content []byte) error {
	if path == "" {
		return fmt.Errorf("artifact path must not be empty")
	}
	if _, ok := s.byPath[path]; ok {
		return fmt.Errorf("artifact %q registered twice", path)
	}
	s.byPath[path] = &Artifact{Path: path, Content: content}
	return nil
}

// All returns the artifacts sorted by path. Sorting makes the synthesis
// output order reproducible for identical inputs.
func (s *Set) All() []*Artifact {
	out := make([]*Artifact, 0, len(s.byPath))
	for _, a := range s.byPath {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Len reports the number of collected artifacts.
func (s *Set) Len() int {
	return len(s.byPath)
}

// WriteAll materializes every artifact under outDir, creating parent
// directories as needed.
func (s *Set) WriteAll(outDir string) error {
	for _, a := range s.All() {
		dst := filepath.Join(outDir, filepath.FromSlash(a.Path))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", a.Path, err)
		}
		if err := os.WriteFile(dst, a.Content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", a.Path, err)
		}
	}
	return nil
}
