// Package manifest regenerates the module index files that expose exercise
// directories to the compiler and IDE tooling.
//
// Rendering is a pure function of an observed directory tree; Observe and
// Generator.Sync are the only parts that touch the filesystem.
package manifest

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// Dialect describes the manifest syntax of one language.
type Dialect struct {
	// FileName is the manifest written into every directory ("mod.rs").
	FileName string

	// ModuleHeader and RootHeader open the per-directory and root manifests.
	ModuleHeader string
	RootHeader   string

	// Member formats a membership declaration for name.
	Member func(name string) string

	// Redirect formats a path redirect pointing a clean module name at its
	// raw directory.
	Redirect func(dir, fileName string) string
}

// Stem returns the manifest's logical name (FileName without extension).
func (d Dialect) Stem() string {
	if i := strings.LastIndexByte(d.FileName, '.'); i > 0 {
		return d.FileName[:i]
	}
	return d.FileName
}

// Rust is the dialect for rustc module trees.
var Rust = Dialect{
	FileName:     "mod.rs",
	ModuleHeader: "// Auto-generated by `progy sync`\n\n",
	RootHeader:   "// Auto-generated by `progy sync`. Do not edit manually.\n\n",
	Member: func(name string) string {
		return fmt.Sprintf("pub mod %s;\n", name)
	},
	Redirect: func(dir, fileName string) string {
		return fmt.Sprintf("#[path = \"%s/%s\"]\n", dir, fileName)
	},
}

// DialectFor returns the manifest dialect for a toolchain profile name.
func DialectFor(profile string) (Dialect, error) {
	switch profile {
	case "", "rust":
		return Rust, nil
	default:
		return Dialect{}, fmt.Errorf("no manifest dialect for profile %q", profile)
	}
}

// Module is one top-level exercise directory.
type Module struct {
	// Clean is the logical module name with any ordering prefix removed.
	Clean string
	// Raw is the directory name on disk.
	Raw string
	// Members are the exercise stems found directly inside the directory.
	Members []string
}

// CleanName strips a leading "<digits>_" ordering prefix: "01_variables"
// becomes "variables". Names without that prefix, or with nothing after it,
// are returned unchanged.
func CleanName(dir string) string {
	idx := strings.IndexByte(dir, '_')
	if idx <= 0 || idx == len(dir)-1 {
		return dir
	}
	for _, r := range dir[:idx] {
		if !unicode.IsDigit(r) {
			return dir
		}
	}
	return dir[idx+1:]
}

// RenderModule renders the manifest for one directory. Members are sorted
// and the manifest's own stem is left out.
func RenderModule(d Dialect, members []string) string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		if m != d.Stem() {
			names = append(names, m)
		}
	}
	slices.Sort(names)

	var b strings.Builder
	b.WriteString(d.ModuleHeader)
	for _, n := range names {
		b.WriteString(d.Member(n))
	}
	return b.String()
}

// RenderRoot renders the root manifest. Modules are ordered by clean name;
// a redirect precedes every module whose clean name differs from its
// directory.
func RenderRoot(d Dialect, mods []Module) string {
	sorted := slices.Clone(mods)
	slices.SortFunc(sorted, func(a, b Module) int {
		if c := strings.Compare(a.Clean, b.Clean); c != 0 {
			return c
		}
		return strings.Compare(a.Raw, b.Raw)
	})

	var b strings.Builder
	b.WriteString(d.RootHeader)
	for _, m := range sorted {
		if m.Clean != m.Raw {
			b.WriteString(d.Redirect(m.Raw, d.FileName))
		}
		b.WriteString(d.Member(m.Clean))
		b.WriteString("\n")
	}
	return b.String()
}
