// Package segment splits a meeting note into heading-anchored sections.
package segment

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/rules"
)

const (
	// Numbered headings longer than this are treated as list items.
	maxNumberedHeadingChars = 60
	maxNumberedHeadingWords = 8
	tabWidth                = 4
)

var (
	markdownHeading = regexp.MustCompile(`^\s{0,3}(#{1,6})\s+(.*?)\s*#*\s*$`)
	listItem        = regexp.MustCompile(`^(\s*)(?:[-*+•]|\d+(?:\.\d+)*[.)]|\d+(?:\.\d+)+)\s+(.*)$`)
	numberedLine    = regexp.MustCompile(`^(\d+(?:\.\d+)*)[.)]?\s+(\S.*)$`)
	numberedItem    = regexp.MustCompile(`^\s*(?:\d+(?:\.\d+)*[.)]|\d+(?:\.\d+)+)\s+\S`)
	quoteLine       = regexp.MustCompile(`^\s*>\s?(.*)$`)
	fence           = regexp.MustCompile("^\\s*(?:```|~~~)")
)

var quoteReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	" ", " ",
)

// Normalize applies NFKC normalization, unifies line endings and folds
// typographic quotes to ASCII.
func Normalize(text string) string {
	return quoteReplacer.Replace(norm.NFKC.String(text))
}

// Lines parses normalized text into typed lines.
func Lines(text string) []model.Line {
	raw := strings.Split(Normalize(text), "\n")
	lines := make([]model.Line, len(raw))
	inFence := false
	for i, r := range raw {
		r = strings.TrimRightFunc(r, unicode.IsSpace)
		l := model.Line{Index: i, Text: r}
		switch {
		case fence.MatchString(r):
			inFence = !inFence
			l.Type = model.LineCode
		case inFence:
			l.Type = model.LineCode
			l.Content = strings.TrimSpace(r)
		case strings.TrimSpace(r) == "":
			l.Type = model.LineBlank
		default:
			typeLine(&l)
		}
		lines[i] = l
	}
	promoteNumberedHeadings(lines)
	return lines
}

func typeLine(l *model.Line) {
	if m := markdownHeading.FindStringSubmatch(l.Text); m != nil && m[2] != "" {
		l.Type = model.LineHeading
		l.HeadingLevel = len(m[1])
		l.HeadingSource = model.HeadingMarkdown
		l.Content = m[2]
		return
	}
	if m := listItem.FindStringSubmatch(l.Text); m != nil {
		l.Type = model.LineListItem
		l.IndentLevel = indentWidth(m[1]) / 2
		l.Content = strings.TrimSpace(m[2])
		return
	}
	if m := quoteLine.FindStringSubmatch(l.Text); m != nil {
		l.Type = model.LineQuote
		l.Content = strings.TrimSpace(m[1])
		return
	}
	l.Type = model.LineParagraph
	l.Content = strings.TrimSpace(l.Text)
}

func indentWidth(prefix string) int {
	w := 0
	for _, r := range prefix {
		if r == '\t' {
			w += tabWidth
		} else {
			w++
		}
	}
	return w
}

// promoteNumberedHeadings turns isolated, title-like numbered lines into
// headings. A numbered line with a numbered neighbour is a list item.
func promoteNumberedHeadings(lines []model.Line) {
	for i := range lines {
		l := &lines[i]
		if l.Type != model.LineListItem || l.Text != strings.TrimLeft(l.Text, " \t") {
			continue
		}
		m := numberedLine.FindStringSubmatch(l.Text)
		if m == nil || !titleLike(m[2]) {
			continue
		}
		if numberedNeighbour(lines, i, -1) || numberedNeighbour(lines, i, 1) {
			continue
		}
		l.Type = model.LineHeading
		l.HeadingLevel = 2 + strings.Count(m[1], ".")
		l.HeadingSource = model.HeadingNumbered
		l.IndentLevel = 0
		l.Content = strings.TrimSpace(m[2])
	}
}

func numberedNeighbour(lines []model.Line, i, step int) bool {
	for j := i + step; j >= 0 && j < len(lines); j += step {
		if lines[j].Type == model.LineBlank {
			continue
		}
		return numberedItem.MatchString(lines[j].Text)
	}
	return false
}

func titleLike(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxNumberedHeadingChars || len(strings.Fields(s)) > maxNumberedHeadingWords {
		return false
	}
	if strings.ContainsAny(s[len(s)-1:], ".?!,;") {
		return false
	}
	first := []rune(s)[0]
	return unicode.IsUpper(first) || unicode.IsDigit(first)
}

// Segment splits a note into sections. Text before the first heading forms
// an implicit section without a heading. Blank-only spans produce nothing.
func Segment(seq *model.Sequence, noteID, text string) []*model.Section {
	lines := Lines(text)
	var sections []*model.Section
	var heading *model.Line
	start := 0

	flush := func(end int) {
		sec := build(lines, heading, start, end)
		if sec == nil {
			return
		}
		sec.ID = seq.Next("sec")
		sec.NoteID = noteID
		sections = append(sections, sec)
	}

	for i := range lines {
		if lines[i].Type != model.LineHeading {
			continue
		}
		flush(i - 1)
		h := lines[i]
		heading = &h
		start = i
	}
	flush(len(lines) - 1)
	return sections
}

// build assembles the section spanning lines[start:end+1].
func build(lines []model.Line, heading *model.Line, start, end int) *model.Section {
	bodyStart := start
	if heading != nil {
		bodyStart = start + 1
	}
	last := -1
	var body []model.Line
	for i := bodyStart; i <= end && i < len(lines); i++ {
		if lines[i].Type == model.LineBlank {
			continue
		}
		if lines[i].Type == model.LineCode && lines[i].Content == "" {
			continue
		}
		body = append(body, lines[i])
		last = i
	}
	if heading == nil && len(body) == 0 {
		return nil
	}

	sec := &model.Section{StartLine: start, EndLine: start, BodyLines: body}
	if heading != nil {
		sec.HeadingLine = heading
		sec.HeadingText = heading.Content
		sec.HeadingLevel = heading.HeadingLevel
		sec.HeadingSource = heading.HeadingSource
	} else {
		sec.StartLine = body[0].Index
	}
	if last > sec.EndLine {
		sec.EndLine = last
	}

	raw := make([]string, 0, sec.EndLine-sec.StartLine+1)
	for i := sec.StartLine; i <= sec.EndLine; i++ {
		raw = append(raw, lines[i].Text)
	}
	sec.RawText = strings.Join(raw, "\n")
	sec.Features = features(body)
	return sec
}

func features(body []model.Line) model.StructuralFeatures {
	parts := make([]string, 0, len(body))
	f := model.StructuralFeatures{LineCount: len(body)}
	for _, l := range body {
		parts = append(parts, l.Text)
		if l.Type == model.LineListItem {
			f.ListItemCount++
		}
	}
	text := strings.Join(parts, "\n")
	f.CharCount = len(text)
	f.HasDate = rules.DateRef.Any(text)
	f.HasMetric = rules.MetricRef.Any(text)
	f.HasQuarter = rules.QuarterRef.Any(text)
	f.HasVersion = rules.VersionRef.Any(text)
	f.HasLaunchKeyword = rules.LaunchRef.Any(text)
	return f
}
