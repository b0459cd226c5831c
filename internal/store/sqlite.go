package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/notesuggest/internal/model"
)

// ErrNotFound is returned when a decision or initiative does not exist.
var ErrNotFound = errors.New("not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS decisions (
		id                   TEXT PRIMARY KEY,
		note_id              TEXT NOT NULL,
		suggestion_key       TEXT NOT NULL,
		status               TEXT NOT NULL,
		initiative_id        TEXT,
		new_initiative_title TEXT,
		decided_by           TEXT,
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL,
		UNIQUE (note_id, suggestion_key)
	);
	CREATE INDEX IF NOT EXISTS idx_decisions_status ON decisions(status);
	CREATE INDEX IF NOT EXISTS idx_decisions_initiative ON decisions(initiative_id);

	CREATE TABLE IF NOT EXISTS initiatives (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT '',
		tags        TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Decide upserts the decision for (NoteID, SuggestionKey). A later decision
// replaces the earlier one but keeps its id and creation time.
func (s *SQLiteStore) Decide(ctx context.Context, p DecideParams) (*model.Decision, error) {
	if p.NoteID == "" || p.SuggestionKey == "" {
		return nil, fmt.Errorf("note id and suggestion key are required")
	}
	if !model.ValidDecisionStatuses[p.Status] {
		return nil, fmt.Errorf("invalid status %q (valid: dismissed, applied)", p.Status)
	}
	if p.Status == model.DecisionApplied && p.InitiativeID == "" && p.NewInitiativeTitle == "" {
		return nil, fmt.Errorf("applied decision needs an initiative id or a new initiative title")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions (id, note_id, suggestion_key, status, initiative_id, new_initiative_title, decided_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (note_id, suggestion_key) DO UPDATE SET
		   status = excluded.status,
		   initiative_id = excluded.initiative_id,
		   new_initiative_title = excluded.new_initiative_title,
		   decided_by = excluded.decided_by,
		   updated_at = excluded.updated_at`,
		s.newID(), p.NoteID, p.SuggestionKey, string(p.Status),
		nullable(p.InitiativeID), nullable(p.NewInitiativeTitle), nullable(p.DecidedBy), now, now)
	if err != nil {
		return nil, fmt.Errorf("upsert decision: %w", err)
	}
	return s.GetDecision(ctx, p.NoteID, p.SuggestionKey)
}

// GetDecision returns the decision for a note and suggestion key.
func (s *SQLiteStore) GetDecision(ctx context.Context, noteID, suggestionKey string) (*model.Decision, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+decisionColumns+` FROM decisions WHERE note_id = ? AND suggestion_key = ?`,
		noteID, suggestionKey)
	d, err := scanDecision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("decision %s/%s: %w", noteID, suggestionKey, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDecisions lists decisions, most recently updated first.
func (s *SQLiteStore) ListDecisions(ctx context.Context, p ListDecisionsParams) ([]model.Decision, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 100
	}

	where := []string{"1 = 1"}
	var args []interface{}
	if p.NoteID != "" {
		where = append(where, "note_id = ?")
		args = append(args, p.NoteID)
	}
	if p.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(p.Status))
	}
	if p.InitiativeID != "" {
		where = append(where, "initiative_id = ?")
		args = append(args, p.InitiativeID)
	}

	query := fmt.Sprintf(`SELECT %s FROM decisions WHERE %s
		ORDER BY updated_at DESC, id DESC LIMIT ?`, decisionColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decisions []model.Decision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

// FilterUndecided drops suggestions already dismissed or applied for the
// note. Order is preserved.
func (s *SQLiteStore) FilterUndecided(ctx context.Context, noteID string, suggestions []model.Suggestion) ([]model.Suggestion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT suggestion_key FROM decisions WHERE note_id = ?`, noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decided := map[string]bool{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		decided[key] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.Suggestion, 0, len(suggestions))
	for _, sg := range suggestions {
		if !decided[sg.SuggestionKey] {
			out = append(out, sg)
		}
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const decisionColumns = `id, note_id, suggestion_key, status, initiative_id, new_initiative_title,
	decided_by, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDecision(row scanner) (model.Decision, error) {
	var d model.Decision
	var status, createdAt, updatedAt string
	var initiativeID, newTitle, decidedBy sql.NullString

	err := row.Scan(&d.ID, &d.NoteID, &d.SuggestionKey, &status, &initiativeID, &newTitle,
		&decidedBy, &createdAt, &updatedAt)
	if err != nil {
		return d, err
	}

	d.Status = model.DecisionStatus(status)
	d.InitiativeID = initiativeID.String
	d.NewInitiativeTitle = newTitle.String
	d.DecidedBy = decidedBy.String
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return d, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
