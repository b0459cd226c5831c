package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/notesuggest/internal/model"
)

// SearchParams holds parameters for searching initiatives.
type SearchParams struct {
	Query  string
	Status string
	Limit  int
}

// SearchInitiatives finds initiatives whose title, description or tags
// contain the query substring, case-insensitively.
func (s *SQLiteStore) SearchInitiatives(ctx context.Context, p SearchParams) ([]model.InitiativeSnapshot, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + strings.ToLower(p.Query) + "%"
	where := []string{"(lower(title) LIKE ? OR lower(description) LIKE ? OR lower(tags) LIKE ?)"}
	args := []interface{}{query, query, query}

	if p.Status != "" {
		where = append(where, "status = ?")
		args = append(args, p.Status)
	}

	sql := fmt.Sprintf(`
		SELECT id, title, description, status, tags
		FROM initiatives
		WHERE %s
		ORDER BY (lower(title) LIKE ?) DESC, updated_at DESC, id
		LIMIT ?`, strings.Join(where, " AND "))
	args = append(args, query, limit)

	rows, err := s.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInitiatives(rows)
}
