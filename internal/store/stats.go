package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath          string      `json:"db_path"`
	DBSizeBytes     int64       `json:"db_size_bytes"`
	TotalDecisions  int         `json:"total_decisions"`
	Dismissed       int         `json:"dismissed"`
	Applied         int         `json:"applied"`
	AppliedExisting int         `json:"applied_existing"`
	AppliedNew      int         `json:"applied_new"`
	Initiatives     int         `json:"initiatives"`
	Notes           []NoteStats `json:"notes"`
}

// NoteStats holds per-note decision counts.
type NoteStats struct {
	NoteID    string `json:"note_id"`
	Decisions int    `json:"decisions"`
	Dismissed int    `json:"dismissed"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decisions`).Scan(&st.TotalDecisions)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decisions WHERE status = 'dismissed'`).Scan(&st.Dismissed)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decisions WHERE status = 'applied'`).Scan(&st.Applied)
	s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM decisions WHERE status = 'applied' AND new_initiative_title IS NOT NULL`).Scan(&st.AppliedNew)
	st.AppliedExisting = st.Applied - st.AppliedNew
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM initiatives`).Scan(&st.Initiatives)

	rows, err := s.db.QueryContext(ctx, `
		SELECT note_id, COUNT(*) AS cnt, SUM(status = 'dismissed') AS dismissed
		FROM decisions
		GROUP BY note_id ORDER BY cnt DESC, note_id`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var n NoteStats
		rows.Scan(&n.NoteID, &n.Decisions, &n.Dismissed)
		st.Notes = append(st.Notes, n)
	}

	return st, nil
}
