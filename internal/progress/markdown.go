package progress

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var activeExercisePattern = regexp.MustCompile(`"exercise":\s*"([^"]+)"`)

// ActiveExercise returns the exercise named by the first `"exercise": "<name>"`
// fragment in a PROGRESS.md document. A literal "null" counts as none.
func ActiveExercise(text string) (string, bool) {
	m := activeExercisePattern.FindStringSubmatch(text)
	if m == nil || m[1] == "null" {
		return "", false
	}
	return m[1], true
}

// NextPending returns the first unchecked `- [ ] <name><ext>` item in document
// order. ext includes the leading dot.
func NextPending(text, ext string) (string, bool) {
	re := pendingPattern(ext)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func pendingPattern(ext string) *regexp.Regexp {
	return regexp.MustCompile(`- \[ \] ([a-zA-Z0-9_]+)` + regexp.QuoteMeta(ext))
}

// ReadMarkdown loads the progress markdown file.
func ReadMarkdown(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.ReplaceAll(string(b), "\r\n", "\n"), nil
}
