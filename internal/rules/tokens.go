package rules

import (
	"strings"
	"unicode"
)

// Words splits text into lowercase alphanumeric words. Apostrophes and
// hyphens inside a word are kept.
func Words(text string) []string {
	var words []string
	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		w := strings.Trim(b.String(), "'-")
		if w != "" {
			words = append(words, w)
		}
		b.Reset()
	}
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case (r == '\'' || r == '-') && b.Len() > 0:
			b.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return words
}

// ContentWords returns Words minus stopwords and tokens shorter than minLen.
func ContentWords(text string, minLen int) []string {
	var out []string
	for _, w := range Words(text) {
		if len([]rune(w)) < minLen || Stopwords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// WordSet returns the distinct Words of text.
func WordSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, w := range Words(text) {
		set[w] = true
	}
	return set
}

// IsAcronym reports tokens like SOC2, API, or GDPR in their original case.
func IsAcronym(word string) bool {
	letters, upper := 0, 0
	for _, r := range word {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters >= 2 && upper == letters && len(word) <= 8
}

// DomainTerms counts the distinct domain nouns and acronyms in text.
func DomainTerms(text string) int {
	seen := map[string]bool{}
	for _, f := range strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r))
	}) {
		lower := strings.ToLower(f)
		if DomainNouns[lower] || IsAcronym(f) {
			seen[lower] = true
		}
	}
	return len(seen)
}
