package writing

import (
	"regexp"
	"strings"
)

// boilerplatePatterns match whole lines that generators add around the
// question despite being told not to. Matching is case-insensitive.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)you should spend about \d+ minutes`),
	regexp.MustCompile(`(?i)^(time|time limit|time allowed)\s*:`),
	regexp.MustCompile(`(?i)write at least \d+ words`),
	regexp.MustCompile(`(?i)\d+\s*(-|–|to)\s*\d+\s+words`),
	regexp.MustCompile(`(?i)^(word count|words)\s*:`),
	regexp.MustCompile(`(?i)write about the following( topic)?`),
	regexp.MustCompile(`^#{1,6}\s`),
	regexp.MustCompile(`^\*\*[^*]+\*\*\s*:?\s*$`),
	regexp.MustCompile(`(?i)^(ielts\s+)?(writing\s+)?(task|part)\s*\d+\s*(\(.*\))?\s*[:.]?\s*$`),
	regexp.MustCompile(`(?i)^(question|prompt)\s*:\s*$`),
}

// StripBoilerplate removes instruction lines, headings and labels from a
// generated question and drops markdown bold markers. Applying it twice
// gives the same result as applying it once.
func StripBoilerplate(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isBoilerplate(line) {
			continue
		}
		line = strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
		if line == "" || isBoilerplate(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func isBoilerplate(line string) bool {
	for _, re := range boilerplatePatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
