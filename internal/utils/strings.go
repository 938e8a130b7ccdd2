package utils

import (
	"strconv"
	"strings"
	"unicode"
)

// TrimOrEmpty normalizes user input without turning nil into "nil".
func TrimOrEmpty(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Initials returns up to two upper-case initials, e.g. "Juan Santos" -> "JS".
func Initials(name string) string {
	out := make([]rune, 0, 2)
	for _, part := range strings.Fields(name) {
		for _, r := range part {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// ParseFlag reads boolean-like form input: true/false, 1/0, yes/no, y/n.
func ParseFlag(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true, true
	case "false", "0", "no", "n":
		return false, true
	}
	return false, false
}

// FormatOptionalID renders a nullable id as form text; nil becomes "".
func FormatOptionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
