// README: Per-user conversation state; the single record the agent loads, mutates, and replaces.
package session

import (
	"time"

	"cabbot/internal/backend"
	"cabbot/internal/modules/prefs"
	"cabbot/internal/modules/trip"
	"cabbot/internal/retry"
	"cabbot/internal/types"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleAction    = "action"
)

// Turn is one entry in the conversation transcript. Action turns record what
// the agent executed so the planner sees its own past tool results.
type Turn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// State is everything remembered about one user between messages. It is
// saved whole on every turn; there are no partial updates.
type State struct {
	UserID          types.ID          `json:"userId"`
	Identity        backend.Customer  `json:"identity"`
	Source          string            `json:"source,omitempty"`
	Turns           []Turn            `json:"turns,omitempty"`
	Trip            *trip.Trip        `json:"trip,omitempty"`
	Preferences     prefs.Preferences `json:"preferences,omitempty"`
	PassengerCount  int               `json:"passengerCount,omitempty"`
	NotifiedDrivers []types.ID        `json:"notifiedDrivers,omitempty"`
	Cursor          int               `json:"cursor,omitempty"`
	SearchSignature string            `json:"searchSignature,omitempty"`
	ErrorTally      retry.Tally       `json:"errorTally,omitempty"`
	PickupHint      *backend.Location `json:"pickupHint,omitempty"`
	DropHint        *backend.Location `json:"dropHint,omitempty"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// NewState returns a fresh record for a first-time or reset user. The driver
// directory is 1-based, so the page cursor starts at 1.
func NewState(userID types.ID) *State {
	return &State{UserID: userID, Cursor: 1}
}

func (s *State) AppendTurn(role, content string) {
	s.Turns = append(s.Turns, Turn{Role: role, Content: content, At: time.Now().UTC()})
}

// RecentTurns returns up to n of the newest transcript entries, oldest first.
func (s *State) RecentTurns(n int) []Turn {
	if n <= 0 || len(s.Turns) <= n {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-n:]
}

// NotifiedSet indexes the drivers already contacted for the current trip.
func (s *State) NotifiedSet() map[types.ID]bool {
	out := make(map[types.ID]bool, len(s.NotifiedDrivers))
	for _, id := range s.NotifiedDrivers {
		out[id] = true
	}
	return out
}

// MarkNotified appends newly contacted drivers, skipping any already present.
func (s *State) MarkNotified(ids []types.ID) {
	seen := s.NotifiedSet()
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		s.NotifiedDrivers = append(s.NotifiedDrivers, id)
	}
}

// ResetSearch clears pagination bookkeeping. Called when the effective filter
// set changes or the trip is rebooked, so the next search starts from page one
// with a clean contacted-driver set.
func (s *State) ResetSearch(signature string) {
	s.Cursor = 1
	s.NotifiedDrivers = nil
	s.SearchSignature = signature
}
