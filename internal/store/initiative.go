package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/notesuggest/internal/model"
)

// PutInitiative stores an initiative snapshot, replacing any snapshot with
// the same id.
func (s *SQLiteStore) PutInitiative(ctx context.Context, p PutInitiativeParams) (*model.InitiativeSnapshot, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, fmt.Errorf("initiative title is required")
	}
	id := p.ID
	if id == "" {
		id = s.newID()
	}

	var tagsJSON *string
	if len(p.Tags) > 0 {
		b, _ := json.Marshal(p.Tags)
		s := string(b)
		tagsJSON = &s
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO initiatives (id, title, description, status, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   title = excluded.title,
		   description = excluded.description,
		   status = excluded.status,
		   tags = excluded.tags,
		   updated_at = excluded.updated_at`,
		id, title, p.Description, p.Status, tagsJSON, now, now)
	if err != nil {
		return nil, fmt.Errorf("upsert initiative: %w", err)
	}

	return &model.InitiativeSnapshot{
		ID:          id,
		Title:       title,
		Description: p.Description,
		Status:      p.Status,
		Tags:        p.Tags,
	}, nil
}

// GetInitiative returns one initiative by id.
func (s *SQLiteStore) GetInitiative(ctx context.Context, id string) (*model.InitiativeSnapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, status, tags FROM initiatives WHERE id = ?`, id)
	in, err := scanInitiative(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("initiative %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// ListInitiatives returns every initiative in creation order. Routing
// breaks similarity ties by this order.
func (s *SQLiteStore) ListInitiatives(ctx context.Context) ([]model.InitiativeSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, status, tags FROM initiatives ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInitiatives(rows)
}

// RmInitiative deletes an initiative snapshot. Decisions that reference it
// are left untouched.
func (s *SQLiteStore) RmInitiative(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM initiatives WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("initiative %q: %w", id, ErrNotFound)
	}
	return nil
}

func collectInitiatives(rows *sql.Rows) ([]model.InitiativeSnapshot, error) {
	var out []model.InitiativeSnapshot
	for rows.Next() {
		in, err := scanInitiative(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func scanInitiative(row scanner) (model.InitiativeSnapshot, error) {
	var in model.InitiativeSnapshot
	var tagsJSON sql.NullString
	if err := row.Scan(&in.ID, &in.Title, &in.Description, &in.Status, &tagsJSON); err != nil {
		return in, err
	}
	if tagsJSON.Valid {
		json.Unmarshal([]byte(tagsJSON.String), &in.Tags)
	}
	return in, nil
}
