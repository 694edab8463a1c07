package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fhorray/progy/internal/config"
	"github.com/fhorray/progy/internal/console"
	"github.com/fhorray/progy/internal/exercise"
	"github.com/fhorray/progy/internal/logging"
	"github.com/fhorray/progy/internal/manifest"
	"github.com/fhorray/progy/internal/progress"
	"github.com/fhorray/progy/internal/runner"
	"github.com/fhorray/progy/internal/store"
	"github.com/fhorray/progy/internal/toolchain"
)

// workspace bundles everything a command needs, built from the persistent
// flags and the loaded configuration.
type workspace struct {
	workdir  string
	cfg      *config.Config
	paths    config.Paths
	profile  toolchain.Profile
	logger   *slog.Logger
	locator  *exercise.Locator
	compiler *toolchain.Compiler
	progress *progress.Store
	printer  *console.Printer

	history *store.Store
}

// openWorkspace resolves the working directory, loads the configuration and
// wires the locator, compiler and progress store.
func openWorkspace(cmd *cobra.Command) (*workspace, error) {
	workdir, err := resolveWorkdir(cmd)
	if err != nil {
		return nil, err
	}
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadConfig(configPath, workdir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Log.Level
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	logger := logging.New(cmd.ErrOrStderr(), level, cfg.Log.Format)

	profile, err := cfg.Profile()
	if err != nil {
		return nil, fmt.Errorf("toolchain profile: %w", err)
	}

	paths := cfg.Resolve(workdir)
	locator := exercise.NewLocator(paths.SearchRoots, profile.Extension)
	if d, err := manifest.DialectFor(profile.Name); err == nil {
		locator.Reserve(d.Stem())
	}
	logger.Debug("workspace opened",
		"workdir", workdir,
		"profile", profile.Name,
		"compiler", profile.Compiler,
		"roots", paths.SearchRoots)

	return &workspace{
		workdir:  workdir,
		cfg:      cfg,
		paths:    paths,
		profile:  profile,
		logger:   logger,
		locator:  locator,
		compiler: toolchain.NewCompiler(profile, workdir),
		progress: progress.NewStore(paths.ProgressFile),
		printer:  console.NewPrinter(cmd.OutOrStdout(), profile),
	}, nil
}

// resolveWorkdir returns --workdir or the current directory.
func resolveWorkdir(cmd *cobra.Command) (string, error) {
	if dir, _ := cmd.Flags().GetString("workdir"); dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return wd, nil
}

// streamingEngine returns an engine that writes compiler and program output
// straight to the command's streams, with the printer's stage lines between.
func (w *workspace) streamingEngine(cmd *cobra.Command) *runner.Engine {
	e := runner.NewEngine(w.locator, w.compiler, w.logger)
	e.TempDir = w.paths.TempDir
	e.Stdout = cmd.OutOrStdout()
	e.Stderr = cmd.ErrOrStderr()
	e.Observer = w.printer
	return e
}

// capturingEngine returns an engine whose output lands in the reports.
func (w *workspace) capturingEngine() *runner.Engine {
	e := runner.NewEngine(w.locator, w.compiler, w.logger)
	e.TempDir = w.paths.TempDir
	return e
}

// attempts opens the history database. History is optional: failures are
// logged and yield a nil repo.
func (w *workspace) attempts() store.AttemptRepo {
	if w.history != nil {
		return w.history.AttemptRepo()
	}
	path := w.paths.HistoryDB
	if path == "" {
		return nil
	}
	if err := store.EnsureDir(path); err != nil {
		w.logger.Warn("history unavailable", "path", path, "error", err)
		return nil
	}
	st, err := store.Open(path)
	if err != nil {
		w.logger.Warn("history unavailable", "path", path, "error", err)
		return nil
	}
	w.history = st
	return st.AttemptRepo()
}

// session loads the progress record. A corrupt record is a hard error.
func (w *workspace) session() (*runner.Session, error) {
	rec, err := w.progress.Load()
	if err != nil {
		return nil, err
	}
	return runner.NewSession(rec, w.progress, w.attempts(), w.logger), nil
}

// historySession records attempts without loading progress. It only accepts
// run reports.
func (w *workspace) historySession() *runner.Session {
	return runner.NewSession(nil, w.progress, w.attempts(), w.logger)
}

// Close releases the history database if it was opened.
func (w *workspace) Close() error {
	if w.history == nil {
		return nil
	}
	return w.history.Close()
}
