package store

import (
	"context"
	"errors"
	"testing"
)

func TestApplyExistingByTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in, _ := s.PutInitiative(ctx, PutInitiativeParams{Title: "Product Launch"})

	d, err := s.ApplyExisting(ctx, "note-1", "key-a", "product launch", "dana")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if d.InitiativeID != in.ID {
		t.Errorf("expected initiative %s, got %s", in.ID, d.InitiativeID)
	}
	if d.NewInitiativeTitle != "" {
		t.Errorf("expected no new title, got %q", d.NewInitiativeTitle)
	}
}

func TestApplyExistingUnknownInitiative(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ApplyExisting(context.Background(), "note-1", "key-a", "nope", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestApplyNewCreatesInitiative(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d, err := s.ApplyNew(ctx, "note-1", "key-a", "Audit log export", "Customers want an audit log export", "")
	if err != nil {
		t.Fatalf("apply new: %v", err)
	}
	if d.NewInitiativeTitle != "Audit log export" {
		t.Errorf("expected new title, got %q", d.NewInitiativeTitle)
	}

	in, err := s.GetInitiative(ctx, d.InitiativeID)
	if err != nil {
		t.Fatalf("get initiative: %v", err)
	}
	if in.Description != "Customers want an audit log export" {
		t.Errorf("unexpected description %q", in.Description)
	}

	if _, err := s.ApplyNew(ctx, "note-1", "key-b", "  ", "", ""); err == nil {
		t.Error("expected error for blank title")
	}
}
