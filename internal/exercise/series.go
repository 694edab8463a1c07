package exercise

import (
	"strconv"
	"strings"
	"unicode"
)

// NextInSeries increments the numeric suffix that starts at the first digit
// of name: "variables1" becomes "variables2". Names without a number, or whose
// digits are followed by anything else, have no successor.
func NextInSeries(name string) (string, bool) {
	pos := strings.IndexFunc(name, unicode.IsDigit)
	if pos < 0 {
		return "", false
	}
	n, err := strconv.Atoi(name[pos:])
	if err != nil {
		return "", false
	}
	return name[:pos] + strconv.Itoa(n+1), true
}
