// README: Planner contract; the agent loop depends on this, not on a concrete model vendor.
package oracle

import "context"

// Planner turns the conversation so far into the next reply and the actions
// to execute. Implementations must return structured output only; free-text
// responses that fail to parse are an error, not a fallback.
type Planner interface {
	Decide(ctx context.Context, in Input) (*Decision, error)
	Close()
}
