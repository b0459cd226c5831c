package model

import "time"

// DecisionStatus is a user's verdict on a suggestion.
type DecisionStatus string

const (
	DecisionDismissed DecisionStatus = "dismissed"
	DecisionApplied   DecisionStatus = "applied"
)

// ValidDecisionStatuses are the allowed decision statuses.
var ValidDecisionStatuses = map[DecisionStatus]bool{
	DecisionDismissed: true,
	DecisionApplied:   true,
}

// Decision is a per-note verdict on a suggestion, keyed by
// (NoteID, SuggestionKey) so it survives regeneration.
type Decision struct {
	ID            string         `json:"id"`
	NoteID        string         `json:"note_id"`
	SuggestionKey string         `json:"suggestion_key"`
	Status        DecisionStatus `json:"status"`
	// InitiativeID is the existing initiative the suggestion was applied to.
	InitiativeID string `json:"initiative_id,omitempty"`
	// NewInitiativeTitle is set when the suggestion created a new initiative.
	NewInitiativeTitle string    `json:"new_initiative_title,omitempty"`
	DecidedBy          string    `json:"decided_by,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
