package synth

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rcliao/notesuggest/internal/classify"
	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/rules"
)

const (
	maxTitleRunes   = 80
	maxFallbackTerm = 3

	fallbackUpdateTitle = "Timeline adjustment identified"
	fallbackIdeaTitle   = "New opportunity identified"
)

var (
	knownPrefix    = regexp.MustCompile(`^(?i:(?:update|risk|idea|bug)\s*:\s*)+`)
	leadingArticle = regexp.MustCompile(`(?i)^(?:the|a|an)\s+`)
)

// Prefix applies the type prefix. It is idempotent: an existing known
// prefix is replaced, never stacked.
func Prefix(typ model.SuggestionType, title, anchor string) string {
	title = strings.TrimSpace(knownPrefix.ReplaceAllString(title, ""))
	switch {
	case typ == model.TypeProjectUpdate && rules.RiskStatus.Any(anchor):
		return "Risk: " + title
	case typ == model.TypeProjectUpdate:
		return "Update: " + title
	case rules.BugReport.Any(anchor):
		return "Bug: " + title
	default:
		return "Idea: " + title
	}
}

// Unprefixed strips the type prefix from a title.
func Unprefixed(title string) string {
	return strings.TrimSpace(knownPrefix.ReplaceAllString(title, ""))
}

// CleanTitle turns an anchor sentence into a title body: it keeps the main
// clause of a conditional, drops hedges and causal tails, and capitalizes.
func CleanTitle(anchor string) string {
	s := classify.CleanContent(anchor)
	if m := rules.Conditional.Rules[0].Pattern.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	for {
		loc := rules.Hedge.Rules[0].Pattern.FindStringIndex(s)
		if loc == nil || loc[1] == 0 {
			break
		}
		s = s[loc[1]:]
	}
	if m, ok := rules.TitleCut.First(s); ok {
		s = s[:m.Start]
	}
	s = leadingArticle.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.TrimRight(strings.TrimSpace(s), ".!?;:,")
	return truncate(capitalize(s), maxTitleRunes)
}

// DemandTitle titles a feature-demand sentence by its requested object.
func DemandTitle(sentence string) (string, bool) {
	loc := rules.FeatureDemand.Rules[0].Pattern.FindStringIndex(sentence)
	if loc == nil {
		return "", false
	}
	obj := sentence[loc[1]:]
	if m, ok := rules.TitleCut.First(obj); ok {
		obj = obj[:m.Start]
	}
	obj = leadingArticle.ReplaceAllString(strings.TrimSpace(obj), "")
	obj = strings.TrimRight(strings.TrimSpace(obj), ".!?;:,")
	if obj == "" {
		return "", false
	}
	return truncate(capitalize(obj), maxTitleRunes), true
}

// Vague reports a title that is pronoun-led or carries fewer than two
// specific words.
func Vague(title string) bool {
	words := rules.Words(Unprefixed(title))
	if len(words) == 0 {
		return true
	}
	if rules.Pronouns[words[0]] {
		return true
	}
	specific := 0
	for _, w := range words {
		if len(w) < 3 || rules.Stopwords[w] || rules.GenericVocabulary[w] || rules.Pronouns[w] {
			continue
		}
		specific++
	}
	return specific < 2
}

// groundedFallback builds a title from domain terms and acronyms found in
// the evidence, or a fixed type-generic title when there are none.
func groundedFallback(typ model.SuggestionType, delta string, evidence ...string) string {
	var terms []string
	seen := map[string]bool{}
	for _, e := range evidence {
		for _, f := range strings.FieldsFunc(e, func(r rune) bool { return !(unicode.IsLetter(r) || unicode.IsDigit(r)) }) {
			key := strings.ToLower(f)
			if seen[key] || !(rules.DomainNouns[key] || rules.IsAcronym(f)) {
				continue
			}
			seen[key] = true
			terms = append(terms, f)
			if len(terms) == maxFallbackTerm {
				break
			}
		}
		if len(terms) == maxFallbackTerm {
			break
		}
	}
	if len(terms) == 0 {
		if typ == model.TypeProjectUpdate {
			return fallbackUpdateTitle
		}
		return fallbackIdeaTitle
	}
	base := capitalize(strings.Join(terms, " "))
	if typ != model.TypeProjectUpdate {
		return base
	}
	if delta != "" {
		return base + " timeline shifted " + delta
	}
	return base + " timeline change"
}

func capitalize(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	cut := string(r[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-")
}
