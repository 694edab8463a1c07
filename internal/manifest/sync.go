package manifest

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Observe reads the immediate subdirectories of root (skipping dotted names)
// and the exercise files directly inside each one. Files whose stem is in
// skip are not members.
func Observe(root, ext string, skip ...string) ([]Module, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	var mods []Module
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		members, err := observeDir(filepath.Join(root, e.Name()), ext, skip)
		if err != nil {
			return nil, err
		}
		mods = append(mods, Module{
			Clean:   CleanName(e.Name()),
			Raw:     e.Name(),
			Members: members,
		})
	}
	return mods, nil
}

func observeDir(dir, ext string, skip []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var members []string
	for _, e := range entries {
		if !e.Type().IsRegular() || filepath.Ext(e.Name()) != ext {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), ext)
		if slices.Contains(skip, stem) {
			continue
		}
		members = append(members, stem)
	}
	return members, nil
}

// WriteFailure records a manifest that could not be written.
type WriteFailure struct {
	Path string
	Err  error
}

// Report summarises one sync pass.
type Report struct {
	Modules  []Module
	Written  []string
	Failures []WriteFailure
}

// OK reports whether every manifest was written.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// Generator rewrites every manifest under an exercises root.
type Generator struct {
	Root    string
	Ext     string
	Dialect Dialect
	Logger  *slog.Logger
}

// NewGenerator creates a Generator for root.
func NewGenerator(root, ext string, d Dialect, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{Root: root, Ext: ext, Dialect: d, Logger: logger}
}

// Sync regenerates all manifests from scratch. A missing root is an error;
// individual write failures are collected in the report and do not stop the
// remaining directories from being processed.
func (g *Generator) Sync() (*Report, error) {
	info, err := os.Stat(g.Root)
	if err != nil {
		return nil, fmt.Errorf("exercises root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("exercises root %s is not a directory", g.Root)
	}

	mods, err := Observe(g.Root, g.Ext, g.Dialect.Stem())
	if err != nil {
		return nil, err
	}

	rep := &Report{Modules: mods}
	for _, m := range mods {
		path := filepath.Join(g.Root, m.Raw, g.Dialect.FileName)
		g.write(rep, path, RenderModule(g.Dialect, m.Members))
	}
	g.write(rep, filepath.Join(g.Root, g.Dialect.FileName), RenderRoot(g.Dialect, mods))
	return rep, nil
}

func (g *Generator) write(rep *Report, path, content string) {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		g.Logger.Warn("manifest write failed", "path", path, "error", err)
		rep.Failures = append(rep.Failures, WriteFailure{Path: path, Err: err})
		return
	}
	g.Logger.Debug("manifest written", "path", path)
	rep.Written = append(rep.Written, path)
}
