package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Counter counts literal, whole-word, case-insensitive occurrences of
// phrases in one text. The text is lower-cased once.
type Counter struct {
	lower string
}

// NewCounter returns a Counter over s.
func NewCounter(s string) *Counter {
	return &Counter{lower: strings.ToLower(s)}
}

// Count returns the number of non-overlapping whole-word occurrences of phrase.
func (c *Counter) Count(phrase string) int {
	needle := strings.ToLower(strings.TrimSpace(phrase))
	if needle == "" {
		return 0
	}

	count := 0
	offset := 0
	for offset <= len(c.lower) {
		idx := strings.Index(c.lower[offset:], needle)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(needle)
		if boundaryBefore(c.lower, start) && boundaryAfter(c.lower, end) {
			count++
			offset = end
			continue
		}
		_, size := utf8.DecodeRuneInString(c.lower[start:])
		offset = start + size
	}
	return count
}

// CountOccurrences is a one-shot Counter.Count.
func CountOccurrences(s, phrase string) int {
	return NewCounter(s).Count(phrase)
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
