package records

import (
	"strconv"
	"strings"
	"unicode"
)

// ParsePoints reads a leading base-10 integer the way spreadsheet totals are
// typed in practice: surrounding whitespace, an optional sign, then digits.
// Anything after the digits is ignored ("150 pts" is 150, "1.5" is 1).
// It reports false when no digits are present.
func ParsePoints(raw string) (int, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// only reachable on overflow
		return 0, false
	}
	return n, true
}
