package validators

import (
	"strings"
	"unicode"
)

// CleanLabel trims a free-text label, drops control characters, folds whitespace runs into
// single spaces and cuts the result to maxRunes runes (0 means no limit).
func CleanLabel(input string, maxRunes int) string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
	out := []rune(strings.Join(fields, " "))
	if maxRunes > 0 && len(out) > maxRunes {
		out = []rune(strings.TrimSpace(string(out[:maxRunes])))
	}
	return string(out)
}
