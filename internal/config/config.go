package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fhorray/progy/internal/toolchain"
)

// Config is the top-level configuration for progy.
// Field tags use mapstructure for viper unmarshalling and yaml for
// `progy config init`.
type Config struct {
	Workspace WorkspaceConfig `mapstructure:"workspace" yaml:"workspace"`
	Toolchain ToolchainConfig `mapstructure:"toolchain" yaml:"toolchain"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// WorkspaceConfig locates the course files. Relative paths resolve against
// the workspace directory.
type WorkspaceConfig struct {
	SearchRoots      []string `mapstructure:"search_roots" yaml:"search_roots"`
	ExercisesDir     string   `mapstructure:"exercises_dir" yaml:"exercises_dir"`
	ProgressFile     string   `mapstructure:"progress_file" yaml:"progress_file"`
	ProgressMarkdown string   `mapstructure:"progress_markdown" yaml:"progress_markdown"`
	HistoryDB        string   `mapstructure:"history_db" yaml:"history_db"`
	TempDir          string   `mapstructure:"temp_dir" yaml:"temp_dir"`
}

// ToolchainConfig selects a built-in profile and optionally overrides its
// fields. Empty overrides keep the profile value.
type ToolchainConfig struct {
	Profile    string `mapstructure:"profile" yaml:"profile"`
	Compiler   string `mapstructure:"compiler" yaml:"compiler"`
	TestFlag   string `mapstructure:"test_flag" yaml:"test_flag"`
	Extension  string `mapstructure:"extension" yaml:"extension"`
	Marker     string `mapstructure:"marker" yaml:"marker"`
	MinVersion string `mapstructure:"min_version" yaml:"min_version"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default values.
const (
	DefaultExercisesDir     = "src/exercises"
	DefaultPracticeDir      = "src/practice"
	DefaultProgressFile     = "progress.json"
	DefaultProgressMarkdown = "PROGRESS.md"
	DefaultHistoryDB        = ".progy/history.db"
	DefaultProfile          = "rust"
	DefaultLogLevel         = "warn"
	DefaultLogFormat        = "text"
)

// DefaultSearchRoots returns the exercise search roots in lookup order.
func DefaultSearchRoots() []string {
	return []string{DefaultExercisesDir, DefaultPracticeDir}
}

// Sentinel validation errors.
var (
	// ErrNoSearchRoots indicates that no exercise search root is configured.
	ErrNoSearchRoots = errors.New("workspace.search_roots must not be empty")
	// ErrEmptyExercisesDir indicates the sync root is unset.
	ErrEmptyExercisesDir = errors.New("workspace.exercises_dir must not be empty")
	// ErrEmptyProgressFile indicates the progress file path is unset.
	ErrEmptyProgressFile = errors.New("workspace.progress_file must not be empty")
	// ErrInvalidExtension indicates the extension does not start with a dot.
	ErrInvalidExtension = errors.New("toolchain.extension must start with '.'")
	// ErrInvalidLogLevel indicates an unknown log level.
	ErrInvalidLogLevel = errors.New("log.level must be one of debug, info, warn, error")
	// ErrInvalidLogFormat indicates an unknown log format.
	ErrInvalidLogFormat = errors.New("log.format must be text or json")
)

// Default returns the configuration used when no file or environment
// override is present.
func Default() Config {
	p := toolchain.Rust()
	return Config{
		Workspace: WorkspaceConfig{
			SearchRoots:      DefaultSearchRoots(),
			ExercisesDir:     DefaultExercisesDir,
			ProgressFile:     DefaultProgressFile,
			ProgressMarkdown: DefaultProgressMarkdown,
			HistoryDB:        DefaultHistoryDB,
		},
		Toolchain: ToolchainConfig{
			Profile:    DefaultProfile,
			Compiler:   p.Compiler,
			TestFlag:   p.TestFlag,
			Extension:  p.Extension,
			Marker:     p.Marker,
			MinVersion: p.MinVersion,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if len(c.Workspace.SearchRoots) == 0 {
		return ErrNoSearchRoots
	}
	if c.Workspace.ExercisesDir == "" {
		return ErrEmptyExercisesDir
	}
	if c.Workspace.ProgressFile == "" {
		return ErrEmptyProgressFile
	}
	if ext := c.Toolchain.Extension; ext != "" && ext[0] != '.' {
		return ErrInvalidExtension
	}
	if _, err := toolchain.Lookup(c.Toolchain.Profile); err != nil {
		return fmt.Errorf("toolchain.profile: %w", err)
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return ErrInvalidLogFormat
	}
	return nil
}

// Profile builds the toolchain profile with config overrides applied.
func (c *Config) Profile() (toolchain.Profile, error) {
	p, err := toolchain.Lookup(c.Toolchain.Profile)
	if err != nil {
		return toolchain.Profile{}, err
	}
	t := c.Toolchain
	if t.Compiler != "" {
		p.Compiler = t.Compiler
	}
	if t.TestFlag != "" {
		p.TestFlag = t.TestFlag
	}
	if t.Extension != "" {
		p.Extension = t.Extension
	}
	if t.Marker != "" {
		p.Marker = t.Marker
	}
	if t.MinVersion != "" {
		p.MinVersion = t.MinVersion
	}
	return p, nil
}

// Paths holds workspace paths resolved against a working directory.
type Paths struct {
	SearchRoots      []string
	ExercisesDir     string
	ProgressFile     string
	ProgressMarkdown string
	HistoryDB        string
	TempDir          string
}

// Resolve joins every relative workspace path onto workdir.
func (c *Config) Resolve(workdir string) Paths {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(workdir, p)
	}
	roots := make([]string, len(c.Workspace.SearchRoots))
	for i, r := range c.Workspace.SearchRoots {
		roots[i] = abs(r)
	}
	return Paths{
		SearchRoots:      roots,
		ExercisesDir:     abs(c.Workspace.ExercisesDir),
		ProgressFile:     abs(c.Workspace.ProgressFile),
		ProgressMarkdown: abs(c.Workspace.ProgressMarkdown),
		HistoryDB:        abs(c.Workspace.HistoryDB),
		TempDir:          abs(c.Workspace.TempDir),
	}
}
