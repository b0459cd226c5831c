package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rcliao/notesuggest/internal/model"
)

const (
	denseParagraphChars     = 160
	denseParagraphSentences = 2
)

var (
	checkboxPrefix = regexp.MustCompile(`^\[[ xX]?\]\s*`)
	taskPrefix     = regexp.MustCompile(`(?i)^(?:todo|to-do|action(?: item)?|ai|next step)\s*:\s*`)
	abbreviations  = map[string]bool{"e.g": true, "i.e": true, "vs": true, "etc": true, "mr": true, "ms": true, "dr": true, "approx": true, "incl": true}
)

// Units splits a section into scoring units: the heading, each body line,
// and each sentence of a dense paragraph line.
func Units(sec *model.Section) []model.Unit {
	var units []model.Unit
	add := func(u model.Unit) {
		u.Index = len(units)
		units = append(units, u)
	}
	if sec.HeadingLine != nil {
		add(model.Unit{
			LineIndex: sec.HeadingLine.Index,
			Text:      strings.TrimSpace(sec.HeadingLine.Text),
			Content:   sec.HeadingLine.Content,
			IsHeading: true,
		})
	}
	for _, l := range sec.BodyLines {
		if l.Type == model.LineCode || l.Content == "" {
			continue
		}
		if isDense(l) {
			for _, s := range Sentences(l.Content) {
				add(model.Unit{LineIndex: l.Index, Text: s, Content: s, Sentence: true})
			}
			continue
		}
		add(model.Unit{
			LineIndex: l.Index,
			Text:      strings.TrimSpace(l.Text),
			Content:   CleanContent(l.Content),
			IsBullet:  l.Type == model.LineListItem,
		})
	}
	return units
}

// CleanContent strips checkbox and task-label prefixes.
func CleanContent(s string) string {
	s = checkboxPrefix.ReplaceAllString(strings.TrimSpace(s), "")
	return taskPrefix.ReplaceAllString(s, "")
}

func isDense(l model.Line) bool {
	if l.Type != model.LineParagraph && l.Type != model.LineQuote {
		return false
	}
	return len(l.Content) >= denseParagraphChars && len(Sentences(l.Content)) >= denseParagraphSentences
}

// Sentences splits text at terminal punctuation followed by whitespace and
// an uppercase letter, digit or quote. Every sentence is a byte substring of
// text.
func Sentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		j := i + 1
		if r, _ := utf8.DecodeRuneInString(text[j:]); j >= len(text) || !unicode.IsSpace(r) {
			continue
		}
		for j < len(text) {
			r, size := utf8.DecodeRuneInString(text[j:])
			if !unicode.IsSpace(r) {
				break
			}
			j += size
		}
		if j >= len(text) {
			break
		}
		next, _ := utf8.DecodeRuneInString(text[j:])
		if !(unicode.IsUpper(next) || unicode.IsDigit(next) || next == '"' || next == '\'') {
			continue
		}
		if c == '.' && abbreviation(text[start:i]) {
			continue
		}
		if s := strings.TrimSpace(text[start : i+1]); s != "" {
			out = append(out, s)
		}
		start = j
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func abbreviation(s string) bool {
	if k := strings.LastIndexAny(s, " \t("); k >= 0 {
		s = s[k+1:]
	}
	return abbreviations[strings.ToLower(s)]
}
