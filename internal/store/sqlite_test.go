package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcliao/notesuggest/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDecideAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	d, err := s.Decide(ctx, DecideParams{
		NoteID: "note-1", SuggestionKey: "key-a", Status: model.DecisionDismissed, DecidedBy: "priya",
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if d.ID == "" {
		t.Error("expected non-empty ID")
	}
	if d.Status != model.DecisionDismissed {
		t.Errorf("expected dismissed, got %q", d.Status)
	}

	got, err := s.GetDecision(ctx, "note-1", "key-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DecidedBy != "priya" {
		t.Errorf("expected decided_by priya, got %q", got.DecidedBy)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestDecideUpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	in, _ := s.PutInitiative(ctx, PutInitiativeParams{Title: "Product launch"})

	first, err := s.Dismiss(ctx, "note-1", "key-a", "")
	if err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	second, err := s.ApplyExisting(ctx, "note-1", "key-a", in.ID, "")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected id %s to survive upsert, got %s", first.ID, second.ID)
	}
	if second.Status != model.DecisionApplied || second.InitiativeID != in.ID {
		t.Errorf("unexpected decision after upsert: %+v", second)
	}

	all, _ := s.ListDecisions(ctx, ListDecisionsParams{})
	if len(all) != 1 {
		t.Errorf("expected 1 decision, got %d", len(all))
	}
}

func TestDecideValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tests := []DecideParams{
		{SuggestionKey: "k", Status: model.DecisionDismissed},
		{NoteID: "n", Status: model.DecisionDismissed},
		{NoteID: "n", SuggestionKey: "k", Status: "accepted"},
		{NoteID: "n", SuggestionKey: "k", Status: model.DecisionApplied},
	}
	for _, p := range tests {
		if _, err := s.Decide(ctx, p); err == nil {
			t.Errorf("expected error for %+v", p)
		}
	}
}

func TestGetDecisionNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetDecision(context.Background(), "note-1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListDecisionsFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	in, _ := s.PutInitiative(ctx, PutInitiativeParams{Title: "Billing migration"})

	s.Dismiss(ctx, "note-1", "a", "")
	s.Dismiss(ctx, "note-1", "b", "")
	s.ApplyExisting(ctx, "note-1", "c", in.ID, "")
	s.Dismiss(ctx, "note-2", "a", "")

	tests := []struct {
		name string
		p    ListDecisionsParams
		want int
	}{
		{"all", ListDecisionsParams{}, 4},
		{"by note", ListDecisionsParams{NoteID: "note-1"}, 3},
		{"by status", ListDecisionsParams{Status: model.DecisionDismissed}, 3},
		{"by initiative", ListDecisionsParams{InitiativeID: in.ID}, 1},
		{"limit", ListDecisionsParams{Limit: 2}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListDecisions(ctx, tt.p)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d, got %d", tt.want, len(got))
			}
		})
	}
}

func TestFilterUndecided(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Dismiss(ctx, "note-1", "key-b", "")
	s.Dismiss(ctx, "note-2", "key-c", "")

	in := []model.Suggestion{
		{ID: "sug_1", SuggestionKey: "key-a"},
		{ID: "sug_2", SuggestionKey: "key-b"},
		{ID: "sug_3", SuggestionKey: "key-c"},
	}
	got, err := s.FilterUndecided(ctx, "note-1", in)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 2 || got[0].ID != "sug_1" || got[1].ID != "sug_3" {
		t.Errorf("unexpected filtered suggestions: %+v", got)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	in, _ := s.PutInitiative(ctx, PutInitiativeParams{Title: "Offline mode"})

	s.Dismiss(ctx, "note-1", "a", "")
	s.ApplyExisting(ctx, "note-1", "b", in.ID, "")
	s.ApplyNew(ctx, "note-2", "c", "Audit log export", "", "")

	path := filepath.Join(t.TempDir(), "missing.db")
	st, err := s.Stats(ctx, path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalDecisions != 3 || st.Dismissed != 1 || st.Applied != 2 {
		t.Errorf("unexpected decision counts: %+v", st)
	}
	if st.AppliedNew != 1 || st.AppliedExisting != 1 {
		t.Errorf("expected 1 new and 1 existing, got %d and %d", st.AppliedNew, st.AppliedExisting)
	}
	if st.Initiatives != 2 {
		t.Errorf("expected 2 initiatives, got %d", st.Initiatives)
	}
	if len(st.Notes) != 2 || st.Notes[0].NoteID != "note-1" || st.Notes[0].Dismissed != 1 {
		t.Errorf("unexpected note stats: %+v", st.Notes)
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("stats should not create the db path")
	}
}
