// Package model defines the core note, section, and suggestion data types.
package model

import "time"

// NoteInput is a meeting note submitted for suggestion generation.
type NoteInput struct {
	NoteID     string     `json:"note_id"`
	RawText    string     `json:"raw_text"`
	AuthorID   string     `json:"author_id,omitempty"`
	AuthoredAt *time.Time `json:"authored_at,omitempty"`
	Source     string     `json:"source,omitempty"`
}

// LineType classifies a single line of note text.
type LineType string

const (
	LineHeading   LineType = "heading"
	LineListItem  LineType = "list_item"
	LineParagraph LineType = "paragraph"
	LineCode      LineType = "code"
	LineQuote     LineType = "quote"
	LineBlank     LineType = "blank"
)

// HeadingSource records how a heading line was recognized.
type HeadingSource string

const (
	HeadingMarkdown HeadingSource = "markdown"
	HeadingNumbered HeadingSource = "numbered"
)

// Line is one parsed line of a note. Index is zero-based.
type Line struct {
	Index         int           `json:"index"`
	Text          string        `json:"text"`
	Type          LineType      `json:"line_type"`
	HeadingLevel  int           `json:"heading_level,omitempty"`
	HeadingSource HeadingSource `json:"heading_source,omitempty"`
	IndentLevel   int           `json:"indent_level,omitempty"`
	// Content is Text with heading/list/quote markers stripped.
	Content string `json:"content"`
}

// StructuralFeatures summarizes the shape of a section body.
type StructuralFeatures struct {
	LineCount        int  `json:"line_count"`
	ListItemCount    int  `json:"list_item_count"`
	CharCount        int  `json:"char_count"`
	HasDate          bool `json:"has_date"`
	HasMetric        bool `json:"has_metric"`
	HasQuarter       bool `json:"has_quarter"`
	HasVersion       bool `json:"has_version"`
	HasLaunchKeyword bool `json:"has_launch_keyword"`
}

// Section is a heading-anchored group of lines. Sections are never mutated
// after segmentation.
type Section struct {
	ID            string             `json:"id"`
	NoteID        string             `json:"note_id"`
	HeadingText   string             `json:"heading_text,omitempty"`
	HeadingLevel  int                `json:"heading_level,omitempty"`
	HeadingSource HeadingSource      `json:"heading_source,omitempty"`
	StartLine     int                `json:"start_line"`
	EndLine       int                `json:"end_line"`
	HeadingLine   *Line              `json:"heading_line,omitempty"`
	BodyLines     []Line             `json:"body_lines"`
	RawText       string             `json:"raw_text"`
	Features      StructuralFeatures `json:"structural_features"`
}

// HasHeading reports whether the section is anchored at a heading line.
func (s *Section) HasHeading() bool {
	return s.HeadingLine != nil
}

// InitiativeSnapshot is a read-only view of an existing initiative used by
// routing.
type InitiativeSnapshot struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}
