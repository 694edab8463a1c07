package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fhorray/progy/internal/exercise"
	"github.com/fhorray/progy/internal/progress"
	"github.com/fhorray/progy/internal/store"
	"github.com/fhorray/progy/internal/toolchain"
)

// fakeCompiler stands in for rustc. Source files steer it with tokens:
// COMPILE_ERROR fails the build, NO_BINARY succeeds without producing an
// executable and FAILS produces a binary that exits 101.
const fakeCompiler = `#!/bin/sh
if [ "$1" = "--test" ]; then shift; fi
src="$1"
out="$3"
if grep -q COMPILE_ERROR "$src"; then
  echo "error[E0308]: mismatched types" >&2
  exit 1
fi
if grep -q NO_BINARY "$src"; then
  exit 0
fi
if grep -q FAILS "$src"; then
  printf '#!/bin/sh\necho "test result: FAILED"\nexit 101\n' > "$out"
else
  printf '#!/bin/sh\necho "hello from exercise"\n' > "$out"
fi
chmod +x "$out"
`

type fixture struct {
	root    string
	tempDir string
	engine  *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler is a shell script")
	}

	dir := t.TempDir()
	compiler := filepath.Join(dir, "fakerustc")
	require.NoError(t, os.WriteFile(compiler, []byte(fakeCompiler), 0o755))

	root := filepath.Join(dir, "exercises")
	tempDir := filepath.Join(dir, "tmp")
	require.NoError(t, os.MkdirAll(tempDir, 0o755))

	profile := toolchain.Rust()
	profile.Compiler = compiler

	e := NewEngine(exercise.NewLocator([]string{root}, ".rs"), toolchain.NewCompiler(profile, dir), nil)
	e.TempDir = tempDir
	return &fixture{root: root, tempDir: tempDir, engine: e}
}

func (f *fixture) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(f.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (f *fixture) assertNoTempBinaries(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp binaries must be removed")
}

func TestEngine_RunOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		want    Outcome
		wantErr error
	}{
		{"solved", "fn main() {}\n", OutcomeCompleted, nil},
		{"marker present", "// I AM NOT DONE\nfn main() {}\n", OutcomeMarkerPresent, nil},
		{"program exit ignored", "// FAILS\nfn main() {}\n", OutcomeCompleted, nil},
		{"compile error", "// COMPILE_ERROR\n", OutcomeCompileFailed, ErrCompileFailed},
		{"no binary", "// NO_BINARY\n", OutcomeExecSpawnFailed, ErrExecSpawn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			path := f.write(t, "01_variables/variables1.rs", tt.source)

			rep := f.engine.Run(context.Background(), "variables1")

			assert.Equal(t, tt.want, rep.Outcome)
			assert.Equal(t, ModeRun, rep.Mode)
			assert.Equal(t, path, rep.Path)
			assert.Equal(t, "01_variables", rep.Module)
			assert.False(t, rep.TestsPassed, "run mode never reports tests")
			assert.NotEmpty(t, rep.RunID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, rep.Err, tt.wantErr)
			} else {
				assert.NoError(t, rep.Err)
			}
			f.assertNoTempBinaries(t)
		})
	}
}

func TestEngine_TestOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		want       Outcome
		wantPassed bool
		wantErr    error
	}{
		{"passing and solved", "fn main() {}\n", OutcomeCompleted, true, nil},
		{"passing with marker", "// I AM NOT DONE\n", OutcomeMarkerPresent, true, nil},
		{"failing", "// FAILS\n", OutcomeTestsFailed, false, ErrTestsFailed},
		// The marker is never consulted when tests fail.
		{"failing with marker", "// I AM NOT DONE\n// FAILS\n", OutcomeTestsFailed, false, ErrTestsFailed},
		{"compile error", "// COMPILE_ERROR\n", OutcomeCompileFailed, false, ErrCompileFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.write(t, "variables1.rs", tt.source)

			rep := f.engine.Test(context.Background(), "variables1")

			assert.Equal(t, tt.want, rep.Outcome)
			assert.Equal(t, tt.wantPassed, rep.TestsPassed)
			if tt.wantErr != nil {
				assert.ErrorIs(t, rep.Err, tt.wantErr)
			} else {
				assert.NoError(t, rep.Err)
			}
			f.assertNoTempBinaries(t)
		})
	}
}

func TestEngine_NotFoundSpawnsNothing(t *testing.T) {
	f := newFixture(t)
	f.write(t, "variables1.rs", "fn main() {}\n")
	// A compiler that would leave a trace if it ever ran.
	trace := filepath.Join(t.TempDir(), "spawned")
	script := filepath.Join(t.TempDir(), "tracer")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\ntouch "+trace+"\n"), 0o755))
	p := toolchain.Rust()
	p.Compiler = script
	f.engine.Compiler = toolchain.NewCompiler(p, "")

	rep := f.engine.Test(context.Background(), "variables99")

	assert.Equal(t, OutcomeNotFound, rep.Outcome)
	assert.True(t, IsNotFound(rep.Err))
	assert.Equal(t, -1, rep.ExitCode())
	assert.NoFileExists(t, trace)
}

func TestEngine_CompilerUnavailable(t *testing.T) {
	f := newFixture(t)
	f.write(t, "variables1.rs", "fn main() {}\n")
	p := toolchain.Rust()
	p.Compiler = filepath.Join(t.TempDir(), "no-such-rustc")
	f.engine.Compiler = toolchain.NewCompiler(p, "")

	rep := f.engine.Run(context.Background(), "variables1")

	assert.Equal(t, OutcomeCompilerUnavailable, rep.Outcome)
	assert.ErrorIs(t, rep.Err, ErrCompilerUnavailable)
	assert.False(t, rep.Executed())
	f.assertNoTempBinaries(t)
}

func TestEngine_CaptureAndStream(t *testing.T) {
	f := newFixture(t)
	f.write(t, "variables1.rs", "// COMPILE_ERROR\n")

	rep := f.engine.Run(context.Background(), "variables1")
	assert.Contains(t, rep.Output(), "mismatched types")

	f.write(t, "variables1.rs", "fn main() {}\n")
	var stdout, stderr bytes.Buffer
	f.engine.Stdout, f.engine.Stderr = &stdout, &stderr

	rep = f.engine.Run(context.Background(), "variables1")
	assert.Equal(t, OutcomeCompleted, rep.Outcome)
	assert.Contains(t, stdout.String(), "hello from exercise")
	assert.Empty(t, rep.Output())
}

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) Started(mode Mode, ex exercise.Exercise) {
	o.events = append(o.events, "started "+string(mode)+" "+ex.Name)
}

func (o *recordingObserver) Compiled(mode Mode, ex exercise.Exercise) {
	o.events = append(o.events, "compiled "+string(mode)+" "+ex.Name)
}

func TestEngine_Observer(t *testing.T) {
	f := newFixture(t)
	obs := &recordingObserver{}
	f.engine.Observer = obs

	f.write(t, "variables1.rs", "fn main() {}\n")
	f.write(t, "variables2.rs", "// COMPILE_ERROR\n")

	f.engine.Test(context.Background(), "variables1")
	f.engine.Run(context.Background(), "variables2")
	f.engine.Run(context.Background(), "missing")

	assert.Equal(t, []string{
		"started test variables1",
		"compiled test variables1",
		"started run variables2",
	}, obs.events)
}

func TestEngine_UniqueRunIDs(t *testing.T) {
	f := newFixture(t)
	f.write(t, "variables1.rs", "fn main() {}\n")

	a := f.engine.Run(context.Background(), "variables1")
	b := f.engine.Run(context.Background(), "variables1")
	assert.NotEqual(t, a.RunID, b.RunID)
}

// memoryAttempts is an in-memory AttemptRepo.
type memoryAttempts struct {
	data []store.AttemptEventData
	err  error
}

func (m *memoryAttempts) AppendAttempt(_ context.Context, d store.AttemptEventData) error {
	if m.err != nil {
		return m.err
	}
	m.data = append(m.data, d)
	return nil
}

func (m *memoryAttempts) QueryAttempts(context.Context, store.QueryOpts) ([]store.AttemptRecord, error) {
	return nil, nil
}

func (m *memoryAttempts) ExerciseStats(context.Context) ([]store.ExerciseStats, error) {
	return nil, nil
}

func newTestSession(t *testing.T, attempts store.AttemptRepo) *Session {
	t.Helper()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	st := progress.NewStore(filepath.Join(t.TempDir(), "progress.json"))
	s := NewSession(progress.Default(now), st, attempts, nil)
	s.Now = func() time.Time { return now }
	return s
}

func TestSession_ApplyTestPassMarksCompleted(t *testing.T) {
	s := newTestSession(t, nil)

	err := s.Apply(context.Background(), Report{Mode: ModeTest, Name: "variables1", Outcome: OutcomeMarkerPresent, TestsPassed: true})
	require.NoError(t, err)

	ep := s.Record.Exercises["variables1"]
	require.NotNil(t, ep)
	assert.Equal(t, progress.StatusCompleted, ep.Status)
	assert.Equal(t, 1, ep.Attempts)

	// Persisted.
	loaded, err := s.Store.Load()
	require.NoError(t, err)
	assert.Equal(t, progress.StatusCompleted, loaded.StatusOf("variables1"))
}

func TestSession_ApplyTestFailureCountsAttempt(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	fail := Report{Mode: ModeTest, Name: "variables1", Outcome: OutcomeTestsFailed, Err: ErrTestsFailed}
	require.NoError(t, s.Apply(ctx, fail))
	require.NoError(t, s.Apply(ctx, fail))

	ep := s.Record.Exercises["variables1"]
	require.NotNil(t, ep)
	assert.Equal(t, progress.StatusPending, ep.Status)
	assert.Equal(t, 2, ep.Attempts)
}

func TestSession_ApplyIgnoresRunAndUnexecuted(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	reports := []Report{
		{Mode: ModeRun, Name: "variables1", Outcome: OutcomeCompleted},
		{Mode: ModeTest, Name: "variables1", Outcome: OutcomeCompileFailed},
		{Mode: ModeTest, Name: "variables1", Outcome: OutcomeNotFound},
	}
	for _, rep := range reports {
		require.NoError(t, s.Apply(ctx, rep))
	}

	assert.Empty(t, s.Record.Exercises)
	assert.NoFileExists(t, s.Store.Path())
}

func TestSession_RunWithoutRecord(t *testing.T) {
	attempts := &memoryAttempts{}
	s := NewSession(nil, nil, attempts, nil)

	err := s.Apply(context.Background(), Report{Mode: ModeRun, Name: "variables1", Outcome: OutcomeCompleted})
	require.NoError(t, err)
	require.Len(t, attempts.data, 1)
	assert.Equal(t, "run", attempts.data[0].Mode)
}

func TestSession_ApplyAppendsHistory(t *testing.T) {
	attempts := &memoryAttempts{}
	s := newTestSession(t, attempts)
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, Report{RunID: "a", Mode: ModeRun, Name: "variables1", Outcome: OutcomeNotFound}))
	require.NoError(t, s.Apply(ctx, Report{
		RunID: "b", Mode: ModeTest, Name: "variables1", Outcome: OutcomeCompleted, TestsPassed: true,
		Duration: 1500 * time.Millisecond,
	}))

	require.Len(t, attempts.data, 2)
	assert.Equal(t, "not-found", attempts.data[0].Outcome)
	assert.Equal(t, -1, attempts.data[0].ExitCode)
	assert.Equal(t, "test", attempts.data[1].Mode)
	assert.True(t, attempts.data[1].Passed)
	assert.Equal(t, int64(1500), attempts.data[1].DurationMs)
}

func TestSession_HistoryFailureIsNotFatal(t *testing.T) {
	s := newTestSession(t, &memoryAttempts{err: errors.New("disk full")})

	err := s.Apply(context.Background(), Report{Mode: ModeTest, Name: "variables1", Outcome: OutcomeCompleted, TestsPassed: true})
	require.NoError(t, err)
	assert.Equal(t, progress.StatusCompleted, s.Record.StatusOf("variables1"))
}

func TestSession_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	s := newTestSession(t, nil)
	s.Store = progress.NewStore(filepath.Join(blocker, "progress.json"))

	err := s.Apply(context.Background(), Report{Mode: ModeTest, Name: "variables1", Outcome: OutcomeCompleted, TestsPassed: true})
	require.Error(t, err)
}

func TestSession_Advance(t *testing.T) {
	s := newTestSession(t, nil)
	root := "/course/src/exercises"

	err := s.Advance(exercise.Exercise{Name: "functions1", Path: root + "/02_functions/functions1.rs", Root: root})
	require.NoError(t, err)
	assert.Equal(t, "functions1", s.Record.CurrentExercise)
	assert.Equal(t, "02_functions", s.Record.CurrentModule)

	loaded, err := s.Store.Load()
	require.NoError(t, err)
	assert.Equal(t, "functions1", loaded.CurrentExercise)
}

func TestSession_Reset(t *testing.T) {
	s := newTestSession(t, nil)
	progress.MarkCompleted(s.Record, "variables1", time.Now())
	s.Record.CurrentExercise = "functions3"

	require.NoError(t, s.Reset())
	assert.Empty(t, s.Record.Exercises)
	assert.Equal(t, progress.DefaultExercise, s.Record.CurrentExercise)
}
