// Package text provides the text cleanup, UI-chrome detection, literal
// occurrence counting and HTML body extraction shared by every extraction method.
package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMinLength is the minimum normalized length of a substantial fragment.
const DefaultMinLength = 20

var separatorGlyphs = strings.NewReplacer(
	"•", " ", "·", " ", "›", " ", "»", " ", "«", " ", "‹", " ",
	"→", " ", "←", " ", "↑", " ", "↓", " ", "▸", " ", "▶", " ",
	"►", " ", "◆", " ", "■", " ", "▪", " ", "●", " ", "|", " ", "¦", " ",
)

// Normalize replaces UI separator glyphs with spaces and collapses runs of
// whitespace into single spaces. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	return strings.Join(strings.Fields(separatorGlyphs.Replace(s)), " ")
}

var uiPatterns = []*regexp.Regexp{
	// navigation
	regexp.MustCompile(`(?i)^(home|menu|navigation|main menu|search|close|back|back to top|skip to (main )?content|toggle navigation)$`),
	// login
	regexp.MustCompile(`(?i)^(sign|log)\s?(in|up|out)\b`),
	regexp.MustCompile(`(?i)^(login|logout|register|my account|create (an )?account|forgot (your )?password\??)\b`),
	// pagination
	regexp.MustCompile(`(?i)\bpage \d+ of \d+\b`),
	regexp.MustCompile(`(?i)^(prev(ious)?|next|first|last)( page)?$`),
	regexp.MustCompile(`^(\d+ ?){2,}$`),
	// loading
	regexp.MustCompile(`(?i)^(loading|please wait)\b`),
	// cookie banners
	regexp.MustCompile(`(?i)\b(accept|reject|manage) (all )?cookies\b`),
	regexp.MustCompile(`(?i)\b(this|our) (web)?site uses cookies\b`),
	// calls to action
	regexp.MustCompile(`(?i)^(read|learn|see|show|load) more$`),
	regexp.MustCompile(`(?i)^(share|tweet|follow us|subscribe)( on \w+)?$`),
	// language pickers: "English | Deutsch | Français"
	regexp.MustCompile(`^(\p{L}{2,12} ?[|/·•] ?){2,}\p{L}{2,12}$`),
}

// IsUIText reports whether s looks like navigation, login, pagination,
// loading or cookie-banner chrome rather than content.
func IsUIText(s string) bool {
	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		return false
	}
	for _, p := range uiPatterns {
		if p.MatchString(collapsed) {
			return true
		}
	}
	return false
}

// IsSubstantial reports whether s has at least minLength characters after
// normalization and is not UI text.
func IsSubstantial(s string, minLength int) bool {
	return utf8.RuneCountInString(Normalize(s)) >= minLength && !IsUIText(s)
}

// MeaningfulLength counts the letters and digits in s.
func MeaningfulLength(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
