package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"
)

// ErrVersionTooOld is returned by CheckVersion when the compiler predates the
// profile's minimum release.
var ErrVersionTooOld = errors.New("compiler version too old")

// Streams routes process output. Nil writers capture.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Compiler invokes the external compiler of a Profile.
type Compiler struct {
	profile Profile
	dir     string
}

// NewCompiler creates a Compiler that runs in dir (empty = current directory).
func NewCompiler(profile Profile, dir string) *Compiler {
	return &Compiler{profile: profile, dir: dir}
}

// Profile returns the compiler's profile.
func (c *Compiler) Profile() Profile {
	return c.profile
}

// BuildArgs returns the argument vector for compiling src into out.
func (c *Compiler) BuildArgs(src, out string, test bool) []string {
	args := make([]string, 0, 4)
	if test && c.profile.TestFlag != "" {
		args = append(args, c.profile.TestFlag)
	}
	return append(args, src, "-o", out)
}

// Build compiles src into the executable out.
func (c *Compiler) Build(ctx context.Context, src, out string, test bool, s Streams) Result {
	return Exec(ctx, Process{
		Path:   c.profile.Compiler,
		Args:   c.BuildArgs(src, out, test),
		Dir:    c.dir,
		Stdout: s.Stdout,
		Stderr: s.Stderr,
	})
}

// Run executes a produced binary.
func (c *Compiler) Run(ctx context.Context, bin string, s Streams) Result {
	return Exec(ctx, Process{
		Path:   bin,
		Dir:    c.dir,
		Stdout: s.Stdout,
		Stderr: s.Stderr,
	})
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

// Version asks the compiler for its release number ("1.79.0").
func (c *Compiler) Version(ctx context.Context) (string, error) {
	flag := c.profile.VersionFlag
	if flag == "" {
		flag = "--version"
	}
	res := Exec(ctx, Process{Path: c.profile.Compiler, Args: []string{flag}, Dir: c.dir})
	if res.Outcome == SpawnError {
		return "", fmt.Errorf("run %s: %w", c.profile.Compiler, res.Err)
	}
	if !res.OK() {
		return "", fmt.Errorf("%s %s exited with status %d", c.profile.Compiler, flag, res.ExitCode)
	}
	return ParseVersion(res.Output())
}

// ParseVersion extracts the first x.y.z release number from text.
func ParseVersion(text string) (string, error) {
	m := versionPattern.FindString(text)
	if m == "" {
		return "", fmt.Errorf("no version number in %q", strings.TrimSpace(text))
	}
	return m, nil
}

// CheckVersion returns ErrVersionTooOld if have is older than want.
// An empty want accepts any version.
func CheckVersion(have, want string) error {
	if want == "" {
		return nil
	}
	h, m := "v"+strings.TrimPrefix(have, "v"), "v"+strings.TrimPrefix(want, "v")
	if !semver.IsValid(h) {
		return fmt.Errorf("invalid compiler version %q", have)
	}
	if !semver.IsValid(m) {
		return fmt.Errorf("invalid minimum version %q", want)
	}
	if semver.Compare(h, m) < 0 {
		return fmt.Errorf("%w: have %s, need %s", ErrVersionTooOld, have, want)
	}
	return nil
}

// TempBinary returns a fresh executable path under dir for a build of the
// given kind ("run" or "test"). Each call yields a distinct name so separate
// invocations never share a file.
func TempBinary(dir, kind string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	name := fmt.Sprintf("progy-%s-%s", kind, uuid.NewString())
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(dir, name)
}

// Cleanup removes a temp binary and, on Windows, its debug-symbol file.
// Missing files are ignored.
func Cleanup(bin string) {
	cleanup(bin, runtime.GOOS)
}

func cleanup(bin, goos string) {
	_ = os.Remove(bin)
	if goos == "windows" {
		_ = os.Remove(strings.TrimSuffix(bin, ".exe") + ".pdb")
	}
}
