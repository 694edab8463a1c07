package progress

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://progress.json"

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// CorruptError reports a progress file that exists but cannot be read,
// parsed or validated. It is never replaced with a default record.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt progress file %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Store reads and writes a Record at a fixed path.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore creates a Store for the file at path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the progress file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the record. A missing file yields Default; any other failure
// is returned as *CorruptError.
func (s *Store) Load() (*Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(s.now()), nil
		}
		return nil, &CorruptError{Path: s.path, Err: err}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptError{Path: s.path, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := progressSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &CorruptError{Path: s.path, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &CorruptError{Path: s.path, Err: err}
	}
	if rec.Exercises == nil {
		rec.Exercises = make(map[string]*ExerciseProgress)
	}
	return &rec, nil
}

// Save writes rec as indented JSON, replacing the previous file.
func (s *Store) Save(rec *Record) error {
	data, err := Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create progress dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Marshal renders rec in the stable on-disk form. A nil exercise map is
// written as an empty object.
func Marshal(rec *Record) ([]byte, error) {
	if rec.Exercises == nil {
		cp := *rec
		cp.Exercises = map[string]*ExerciseProgress{}
		rec = &cp
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// progressSchema compiles the embedded schema once.
func progressSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		var def any
		if err := json.Unmarshal(schemaJSON, &def); err != nil {
			compileErr = fmt.Errorf("parse progress schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}
