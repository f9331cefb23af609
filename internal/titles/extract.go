package titles

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Candidate line markers. Models answer numbered lists most of the time,
// but also echo the French "Titre" label from the instructions.
var (
	ordinalPrefix = regexp.MustCompile(`^\d+[.)]\s*`)
	labelPrefix   = regexp.MustCompile(`^Titre\s*\d*\s*[:.\-]?\s*`)
)

// titleQuotes are stripped from both ends of a cleaned candidate.
const titleQuotes = `"'“”`

// minTitleRunes is the length a cleaned candidate must exceed. Shorter
// strings are noise: stray punctuation, section headers, echoes of the
// ordinal itself.
const minTitleRunes = 10

// Extract parses the model's free-text completion into an ordered,
// bounded list of title strings.
//
// A physical line is a candidate when it starts with an ordinal marker
// ("1." or "1)") or with the literal label "Titre" (case-sensitive).
// Candidates are cleaned of their prefix and of surrounding quotes, then
// length-filtered and de-duplicated (first occurrence wins). Input order
// is preserved and the result is truncated to maxCount. No qualifying
// line yields an empty slice, not an error; the caller decides whether
// that is a failure.
func Extract(raw string, maxCount int) []string {
	if maxCount <= 0 {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		var cleaned string
		switch {
		case ordinalPrefix.MatchString(line):
			cleaned = ordinalPrefix.ReplaceAllString(line, "")
		case strings.HasPrefix(line, "Titre"):
			cleaned = labelPrefix.ReplaceAllString(line, "")
		default:
			continue
		}

		cleaned = strings.TrimSpace(strings.Trim(cleaned, titleQuotes))
		if utf8.RuneCountInString(cleaned) <= minTitleRunes {
			continue
		}
		if seen[cleaned] {
			continue
		}
		seen[cleaned] = true

		out = append(out, cleaned)
		if len(out) == maxCount {
			break
		}
	}
	return out
}
