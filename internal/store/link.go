package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rcliao/notesuggest/internal/model"
)

// Dismiss records that a suggestion was dismissed for a note.
func (s *SQLiteStore) Dismiss(ctx context.Context, noteID, suggestionKey, decidedBy string) (*model.Decision, error) {
	return s.Decide(ctx, DecideParams{
		NoteID:        noteID,
		SuggestionKey: suggestionKey,
		Status:        model.DecisionDismissed,
		DecidedBy:     decidedBy,
	})
}

// ApplyExisting records that a suggestion was applied to an existing
// initiative. The initiative must be known to the store.
func (s *SQLiteStore) ApplyExisting(ctx context.Context, noteID, suggestionKey, initiativeID, decidedBy string) (*model.Decision, error) {
	id, err := s.resolveInitiativeID(ctx, initiativeID)
	if err != nil {
		return nil, fmt.Errorf("resolve initiative: %w", err)
	}
	return s.Decide(ctx, DecideParams{
		NoteID:        noteID,
		SuggestionKey: suggestionKey,
		Status:        model.DecisionApplied,
		InitiativeID:  id,
		DecidedBy:     decidedBy,
	})
}

// ApplyNew records that a suggestion created a new initiative with the given
// title, and stores a snapshot of it so later notes can route to it.
func (s *SQLiteStore) ApplyNew(ctx context.Context, noteID, suggestionKey, title, description, decidedBy string) (*model.Decision, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("initiative title is required")
	}
	in, err := s.PutInitiative(ctx, PutInitiativeParams{Title: title, Description: description})
	if err != nil {
		return nil, err
	}
	return s.Decide(ctx, DecideParams{
		NoteID:             noteID,
		SuggestionKey:      suggestionKey,
		Status:             model.DecisionApplied,
		InitiativeID:       in.ID,
		NewInitiativeTitle: title,
		DecidedBy:          decidedBy,
	})
}

// resolveInitiativeID accepts an exact id or a case-insensitive title.
func (s *SQLiteStore) resolveInitiativeID(ctx context.Context, ref string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM initiatives WHERE id = ? OR lower(title) = lower(?)
		 ORDER BY id = ? DESC, updated_at DESC LIMIT 1`, ref, ref, ref).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("initiative %q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return id, nil
}
