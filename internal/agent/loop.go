// README: Plan-act orchestration loop; one call per inbound user message.
package agent

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"cabbot/internal/backend"
	"cabbot/internal/modules/drivers"
	"cabbot/internal/modules/trip"
	"cabbot/internal/oracle"
	"cabbot/internal/session"
	"cabbot/internal/types"
)

// Trips is the trip lifecycle surface the agent drives.
type Trips interface {
	Create(ctx context.Context, cust backend.Customer, route trip.Route, sched trip.Schedule, passengers int) (*trip.Trip, error)
	Modify(ctx context.Context, cust backend.Customer, current *trip.Trip, ch trip.Changes) (*trip.Trip, error)
	Cancel(ctx context.Context, userID types.ID, current *trip.Trip) error
}

// Notifier pushes quote requests to a driver batch.
type Notifier interface {
	NotifyDrivers(ctx context.Context, req backend.NotifyRequest) error
}

const (
	supportPhone = "+919403892230"

	searchSuccessReply = "**Great! We're reaching out to drivers for you.**\n\nYou'll start getting quotes in just a few minutes."
	escalateReply      = "I'm having trouble reaching our systems right now. Please call our support team at " + supportPhone + " and they'll sort this out for you."
	timeoutReply       = "Sorry, that took longer than expected. Please send your message again."
	resetReply         = "Done, we're starting fresh. Where would you like to go?"
	nothingToCancel    = "You don't have an active trip to cancel. Would you like to book one?"

	transcriptWindow = 30
)

// Agent wires the planner to the executable actions around one session record.
type Agent struct {
	planner   oracle.Planner
	sessions  session.Store
	trips     Trips
	paginator *drivers.Paginator
	notifier  Notifier

	maxIterations int
	deadline      time.Duration
}

func New(planner oracle.Planner, sessions session.Store, trips Trips, paginator *drivers.Paginator, notifier Notifier, maxIterations int, deadline time.Duration) *Agent {
	if maxIterations <= 0 {
		maxIterations = 6
	}
	if deadline <= 0 {
		deadline = 30 * time.Second
	}
	return &Agent{
		planner:       planner,
		sessions:      sessions,
		trips:         trips,
		paginator:     paginator,
		notifier:      notifier,
		maxIterations: maxIterations,
		deadline:      deadline,
	}
}

// Envelope is one inbound user message plus the identity the transport
// authenticated. Identity always comes from here, never from planner output.
type Envelope struct {
	UserID     types.ID
	Message    string
	Identity   backend.Customer
	Source     string
	PickupHint *backend.Location
	DropHint   *backend.Location
}

// Reply is the outbound result. The trip flags reflect what was actually
// executed this turn, not what the reply text happens to say.
type Reply struct {
	Text          string
	TripCreated   bool
	TripCancelled bool
}

var resetCommands = map[string]bool{
	"reset":      true,
	"start over": true,
	"restart":    true,
}

// ProcessMessage runs the full turn: load state, plan, execute, persist.
func (a *Agent) ProcessMessage(ctx context.Context, env Envelope) (Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, a.deadline)
	defer cancel()

	msg := strings.TrimSpace(env.Message)
	if resetCommands[strings.ToLower(msg)] {
		if err := a.sessions.Delete(ctx, env.UserID); err != nil {
			log.Printf("agent: reset %s: %v", env.UserID, err)
		}
		return Reply{Text: resetReply}, nil
	}

	st, err := a.sessions.Get(ctx, env.UserID)
	if errors.Is(err, session.ErrNotFound) {
		st = session.NewState(env.UserID)
	} else if err != nil {
		return Reply{}, err
	}
	st.Identity = env.Identity
	st.Identity.ID = env.UserID
	if env.Source != "" {
		st.Source = env.Source
	}
	if env.PickupHint != nil {
		st.PickupHint = env.PickupHint
	}
	if env.DropHint != nil {
		st.DropHint = env.DropHint
	}

	// A cancel request with nothing to cancel never needs the planner.
	if wantsCancel(msg) && !st.Trip.Active() {
		st.AppendTurn(session.RoleUser, msg)
		st.AppendTurn(session.RoleAssistant, nothingToCancel)
		a.persist(st)
		return Reply{Text: nothingToCancel}, nil
	}

	st.AppendTurn(session.RoleUser, msg)
	out := a.run(ctx, st)

	st.AppendTurn(session.RoleAssistant, out.Text)
	a.persist(st)
	return out, nil
}

// run is the plan-act loop. Each iteration asks the planner for a decision
// and executes its actions; action results go back into the transcript so the
// next iteration sees them. The loop ends when the planner emits no actions,
// an action produces a final reply, the iteration ceiling is hit, or the
// deadline expires.
func (a *Agent) run(ctx context.Context, st *session.State) Reply {
	var out Reply
	out.Text = escalateReply

	for i := 0; i < a.maxIterations; i++ {
		if ctx.Err() != nil {
			out.Text = timeoutReply
			return out
		}

		decision, err := a.planner.Decide(ctx, oracle.Input{
			StateSummary: oracle.SummarizeState(st),
			Turns:        st.RecentTurns(transcriptWindow),
			Today:        time.Now().UTC().Format("2006-01-02"),
		})
		if err != nil {
			if ctx.Err() != nil {
				out.Text = timeoutReply
				return out
			}
			log.Printf("agent: planner: %v", err)
			out.Text = escalateReply
			return out
		}
		if decision.Reply != "" {
			out.Text = decision.Reply
		}
		if len(decision.Actions) == 0 {
			return out
		}

		for _, req := range decision.Actions {
			res := a.execute(ctx, st, req)
			if res.note != "" {
				st.AppendTurn(session.RoleAction, req.Name+": "+res.note)
			}
			out.TripCreated = out.TripCreated || res.created
			out.TripCancelled = out.TripCancelled || res.cancelled
			if res.replyOverride != "" {
				out.Text = res.replyOverride
			}
			if res.terminal {
				return out
			}
		}
	}
	// Ceiling hit: a planner that keeps requesting actions is runaway.
	out.Text = escalateReply
	return out
}

// persist saves on a fresh context so a turn that ran out its deadline still
// records what it did.
func (a *Agent) persist(st *session.State) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := a.sessions.Save(ctx, st); err != nil {
		log.Printf("agent: save session %s: %v", st.UserID, err)
	}
}

func wantsCancel(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "cancel")
}
