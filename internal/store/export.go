package store

import (
	"context"

	"github.com/rcliao/notesuggest/internal/model"
)

// Snapshot is the export format: every initiative and every decision.
type Snapshot struct {
	Initiatives []model.InitiativeSnapshot `json:"initiatives"`
	Decisions   []model.Decision           `json:"decisions"`
}

// ExportAll returns all initiatives and decisions, optionally limited to the
// decisions of one note.
func (s *SQLiteStore) ExportAll(ctx context.Context, noteID string) (*Snapshot, error) {
	initiatives, err := s.ListInitiatives(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + decisionColumns + ` FROM decisions`
	var args []interface{}
	if noteID != "" {
		query += ` WHERE note_id = ?`
		args = append(args, noteID)
	}
	query += ` ORDER BY note_id, created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snap := &Snapshot{Initiatives: initiatives}
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		snap.Decisions = append(snap.Decisions, d)
	}
	return snap, rows.Err()
}

// Import upserts initiatives (keeping their ids) and then decisions. It
// returns the number of records written.
func (s *SQLiteStore) Import(ctx context.Context, snap Snapshot) (int, error) {
	imported := 0
	for _, in := range snap.Initiatives {
		_, err := s.PutInitiative(ctx, PutInitiativeParams{
			ID:          in.ID,
			Title:       in.Title,
			Description: in.Description,
			Status:      in.Status,
			Tags:        in.Tags,
		})
		if err != nil {
			return imported, err
		}
		imported++
	}
	for _, d := range snap.Decisions {
		_, err := s.Decide(ctx, DecideParams{
			NoteID:             d.NoteID,
			SuggestionKey:      d.SuggestionKey,
			Status:             d.Status,
			InitiativeID:       d.InitiativeID,
			NewInitiativeTitle: d.NewInitiativeTitle,
			DecidedBy:          d.DecidedBy,
		})
		if err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
