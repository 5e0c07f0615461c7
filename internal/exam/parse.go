package exam

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// DefaultMinutes is the countdown used when a task's time text does not parse.
const DefaultMinutes = 20

var (
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:minutes?|mins?)\b`)
	wordUnit       = regexp.MustCompile(`(?i)\bwords?\b`)
	rangePattern   = regexp.MustCompile(`(\d+)\s*[-–]\s*\d+`)
	firstInt       = regexp.MustCompile(`\d+`)
)

// ParseMinutes returns the first integer followed by a minutes unit, or
// DefaultMinutes when nothing matches.
func ParseMinutes(text string) int {
	m := minutesPattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultMinutes
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return DefaultMinutes
	}
	return n
}

// ParseMinWords derives the submission threshold from a word-count target.
// "~250 words" yields 250, "150-225 words" yields the lower bound 150, and
// anything unparseable yields 1.
func ParseMinWords(text string) int {
	s := strings.ReplaceAll(text, "~", "")
	s = strings.TrimSpace(wordUnit.ReplaceAllString(s, ""))
	if s == "" {
		return 1
	}

	if m := rangePattern.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}

	if m := firstInt.FindString(s); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

// WordCount counts whitespace-separated tokens that contain at least one
// word character. Punctuation-only tokens are not words.
func WordCount(text string) int {
	n := 0
	for _, tok := range strings.Fields(text) {
		if hasWordChar(tok) {
			n++
		}
	}
	return n
}

func hasWordChar(tok string) bool {
	for _, r := range tok {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
