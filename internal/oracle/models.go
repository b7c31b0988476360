// README: Structured planner input and output.
package oracle

import "cabbot/internal/session"

// Input is everything the planner sees for one decision. StateSummary is a
// compact rendering of the session (active trip, stored preferences,
// passenger count); Turns is the recent transcript including action results.
type Input struct {
	StateSummary string
	Turns        []session.Turn
	Today        string
}

// ActionRequest is one tool invocation proposed by the planner. Args are
// loose values straight from the model; every consumer normalizes them
// before use.
type ActionRequest struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// Decision is the planner's structured output for one iteration. An empty
// Actions slice means the conversation turn is complete and Reply goes to
// the user.
type Decision struct {
	Reply   string          `json:"reply"`
	Actions []ActionRequest `json:"actions,omitempty"`
}

// Action names the planner may emit. Anything else is dropped by the agent.
const (
	ActionCreateTrip    = "create_trip"
	ActionModifyTrip    = "modify_trip"
	ActionCancelTrip    = "cancel_trip"
	ActionSearchDrivers = "search_and_notify_drivers"
)
