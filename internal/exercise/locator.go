// Package exercise resolves exercise names to source files.
package exercise

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNotFound is returned when no search root contains the named exercise.
var ErrNotFound = errors.New("exercise not found")

// Exercise is a discovered exercise source file.
type Exercise struct {
	Name string
	Path string
	// Root is the search root the file was found under.
	Root string
}

// Module returns the top-level directory under Root that holds the exercise,
// or "" when the file sits directly in the root.
func (e Exercise) Module() string {
	rel, err := filepath.Rel(e.Root, e.Path)
	if err != nil {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}

// Locator searches an ordered list of roots for exercise files.
type Locator struct {
	roots    []string
	ext      string
	reserved []string
}

// NewLocator creates a Locator over roots matching files with extension ext
// (".rs").
func NewLocator(roots []string, ext string) *Locator {
	return &Locator{roots: roots, ext: ext}
}

// Reserve marks file stems that share the exercise extension but are not
// exercises, such as generated manifests. Only Exercises honors them.
func (l *Locator) Reserve(stems ...string) {
	l.reserved = append(l.reserved, stems...)
}

// Roots returns the search roots in lookup order.
func (l *Locator) Roots() []string {
	return l.roots
}

// Find returns the first exercise whose file stem equals name exactly.
func (l *Locator) Find(name string) (Exercise, error) {
	for ex := range l.All() {
		if ex.Name == name {
			return ex, nil
		}
	}
	return Exercise{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// List yields every exercise name in traversal order. Names are neither
// sorted nor deduplicated.
func (l *Locator) List() iter.Seq[string] {
	return func(yield func(string) bool) {
		for ex := range l.All() {
			if !yield(ex.Name) {
				return
			}
		}
	}
}

// All yields every exercise across all roots, depth-first in lexical
// directory order. Roots that do not exist are skipped.
func (l *Locator) All() iter.Seq[Exercise] {
	return func(yield func(Exercise) bool) {
		for _, root := range l.roots {
			stop := false
			_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					// Unreadable entries are skipped like missing roots.
					if d != nil && d.IsDir() && path != root {
						return fs.SkipDir
					}
					return nil
				}
				if d.IsDir() || filepath.Ext(path) != l.ext {
					return nil
				}
				ex := Exercise{
					Name: strings.TrimSuffix(d.Name(), l.ext),
					Path: path,
					Root: root,
				}
				if !yield(ex) {
					stop = true
					return fs.SkipAll
				}
				return nil
			})
			if stop {
				return
			}
		}
	}
}

// Exercises yields All without reserved stems. Course totals and listings
// count these.
func (l *Locator) Exercises() iter.Seq[Exercise] {
	return func(yield func(Exercise) bool) {
		for ex := range l.All() {
			if slices.Contains(l.reserved, ex.Name) {
				continue
			}
			if !yield(ex) {
				return
			}
		}
	}
}

// Next returns the next exercise in name's numbered series if it exists.
func (l *Locator) Next(name string) (string, bool) {
	next, ok := NextInSeries(name)
	if !ok {
		return "", false
	}
	if _, err := l.Find(next); err != nil {
		return "", false
	}
	return next, true
}

// HasMarker reports whether the file at path still contains marker.
// The file is read on every call.
func HasMarker(path, marker string) (bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	return strings.Contains(string(b), marker), nil
}
