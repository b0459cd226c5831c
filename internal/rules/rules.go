// Package rules holds the named, weighted pattern tables that drive every
// stage of the suggestion pipeline. Each family is data: a Set of Rules
// iterated generically, so individual rules can be inspected and tested in
// isolation.
package rules

import (
	"regexp"
	"strings"
)

// Rule is a named regular expression with a weight.
type Rule struct {
	Name    string
	Weight  float64
	Pattern *regexp.Regexp
}

// Def is the uncompiled form of a Rule.
type Def struct {
	Name   string
	Weight float64
	Expr   string
}

// Set is a rule family.
type Set struct {
	Name  string
	Rules []Rule
}

// NewSet compiles defs into a Set. Invalid expressions panic at init.
func NewSet(name string, defs ...Def) Set {
	s := Set{Name: name, Rules: make([]Rule, 0, len(defs))}
	for _, d := range defs {
		s.Rules = append(s.Rules, Rule{Name: d.Name, Weight: d.Weight, Pattern: regexp.MustCompile(d.Expr)})
	}
	return s
}

// Match is a rule hit.
type Match struct {
	Rule   string
	Weight float64
	Start  int
	End    int
	Text   string
}

// Max returns the highest-weighted matching rule. Earlier rules win ties.
func (s Set) Max(text string) (Match, bool) {
	var best Match
	found := false
	for _, r := range s.Rules {
		loc := r.Pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if !found || r.Weight > best.Weight {
			best = Match{Rule: r.Name, Weight: r.Weight, Start: loc[0], End: loc[1], Text: text[loc[0]:loc[1]]}
			found = true
		}
	}
	return best, found
}

// Matches returns every matching rule in table order.
func (s Set) Matches(text string) []Match {
	var out []Match
	for _, r := range s.Rules {
		if loc := r.Pattern.FindStringIndex(text); loc != nil {
			out = append(out, Match{Rule: r.Name, Weight: r.Weight, Start: loc[0], End: loc[1], Text: text[loc[0]:loc[1]]})
		}
	}
	return out
}

// First returns the earliest match by position across all rules.
func (s Set) First(text string) (Match, bool) {
	var best Match
	found := false
	for _, m := range s.Matches(text) {
		if !found || m.Start < best.Start {
			best, found = m, true
		}
	}
	return best, found
}

// Any reports whether any rule matches.
func (s Set) Any(text string) bool {
	for _, r := range s.Rules {
		if r.Pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// Has reports whether the named rule matches.
func (s Set) Has(name, text string) bool {
	for _, r := range s.Rules {
		if r.Name == name {
			return r.Pattern.MatchString(text)
		}
	}
	return false
}

// Names lists rule names in table order.
func (s Set) Names() []string {
	names := make([]string, len(s.Rules))
	for i, r := range s.Rules {
		names[i] = r.Name
	}
	return names
}

// Vocabulary is a lowercase word list.
type Vocabulary map[string]bool

func vocab(words ...string) Vocabulary {
	v := make(Vocabulary, len(words))
	for _, w := range words {
		v[w] = true
	}
	return v
}

// Contains reports whether the lowercased word is in the vocabulary.
func (v Vocabulary) Contains(word string) bool {
	return v[strings.ToLower(word)]
}

// Count returns how many tokens are in the vocabulary.
func (v Vocabulary) Count(tokens []string) int {
	n := 0
	for _, t := range tokens {
		if v[t] {
			n++
		}
	}
	return n
}

// AnyIn reports whether any token is in the vocabulary.
func (v Vocabulary) AnyIn(tokens []string) bool {
	return v.Count(tokens) > 0
}
