// README: Session record bookkeeping tests.
package session

import (
	"testing"

	"cabbot/internal/types"
)

func TestNewStateStartsAtPageOne(t *testing.T) {
	s := NewState("u1")
	if s.Cursor != 1 {
		t.Errorf("expected cursor 1, got %d", s.Cursor)
	}
}

func TestRecentTurns(t *testing.T) {
	s := NewState("u1")
	for _, msg := range []string{"a", "b", "c", "d"} {
		s.AppendTurn(RoleUser, msg)
	}

	got := s.RecentTurns(2)
	if len(got) != 2 || got[0].Content != "c" || got[1].Content != "d" {
		t.Errorf("expected the two newest turns oldest-first, got %v", got)
	}
	if len(s.RecentTurns(10)) != 4 {
		t.Error("asking for more turns than exist should return them all")
	}
	if len(s.RecentTurns(0)) != 4 {
		t.Error("n<=0 should return the full transcript")
	}
}

func TestMarkNotifiedDedups(t *testing.T) {
	s := NewState("u1")
	s.MarkNotified([]types.ID{"d1", "d2"})
	s.MarkNotified([]types.ID{"d2", "d3", "d1"})

	if len(s.NotifiedDrivers) != 3 {
		t.Fatalf("expected 3 unique drivers, got %v", s.NotifiedDrivers)
	}
	set := s.NotifiedSet()
	for _, id := range []types.ID{"d1", "d2", "d3"} {
		if !set[id] {
			t.Errorf("driver %s missing from set", id)
		}
	}
}

func TestResetSearch(t *testing.T) {
	s := NewState("u1")
	s.Cursor = 4
	s.MarkNotified([]types.ID{"d1"})
	s.ResetSearch("sig-2")

	if s.Cursor != 1 || s.NotifiedDrivers != nil || s.SearchSignature != "sig-2" {
		t.Errorf("reset incomplete: %+v", s)
	}
}
