// Package store persists suggestion decisions and initiative snapshots.
package store

import (
	"context"

	"github.com/rcliao/notesuggest/internal/model"
)

// DecideParams holds parameters for recording a decision.
type DecideParams struct {
	NoteID             string
	SuggestionKey      string
	Status             model.DecisionStatus
	InitiativeID       string
	NewInitiativeTitle string
	DecidedBy          string
}

// ListDecisionsParams holds filters for listing decisions.
type ListDecisionsParams struct {
	NoteID       string
	Status       model.DecisionStatus
	InitiativeID string
	Limit        int
}

// PutInitiativeParams holds parameters for storing an initiative snapshot.
type PutInitiativeParams struct {
	ID          string // empty assigns a new id
	Title       string
	Description string
	Status      string
	Tags        []string
}

// Store defines the decision and initiative storage interface.
type Store interface {
	// Decide upserts the decision for (NoteID, SuggestionKey).
	Decide(ctx context.Context, p DecideParams) (*model.Decision, error)

	// GetDecision returns the decision for a note and suggestion key.
	GetDecision(ctx context.Context, noteID, suggestionKey string) (*model.Decision, error)

	// ListDecisions lists decisions matching the given filters.
	ListDecisions(ctx context.Context, p ListDecisionsParams) ([]model.Decision, error)

	// FilterUndecided drops suggestions that already have a decision.
	FilterUndecided(ctx context.Context, noteID string, suggestions []model.Suggestion) ([]model.Suggestion, error)

	// PutInitiative stores or replaces an initiative snapshot.
	PutInitiative(ctx context.Context, p PutInitiativeParams) (*model.InitiativeSnapshot, error)

	// ListInitiatives returns every initiative snapshot.
	ListInitiatives(ctx context.Context) ([]model.InitiativeSnapshot, error)

	// Close closes the store.
	Close() error
}
