// README: Action execution; the only place planner args touch domain services.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cabbot/internal/backend"
	"cabbot/internal/modules/drivers"
	"cabbot/internal/modules/prefs"
	"cabbot/internal/modules/trip"
	"cabbot/internal/oracle"
	"cabbot/internal/retry"
	"cabbot/internal/session"
)

// actionResult reports what one executed action did. note feeds the
// transcript for the planner's next iteration; replyOverride and terminal end
// the turn with a deterministic user-facing message.
type actionResult struct {
	note          string
	replyOverride string
	terminal      bool
	created       bool
	cancelled     bool
}

func (a *Agent) execute(ctx context.Context, st *session.State, req oracle.ActionRequest) actionResult {
	switch req.Name {
	case oracle.ActionCreateTrip:
		return a.createTrip(ctx, st, req.Args)
	case oracle.ActionModifyTrip:
		return a.modifyTrip(ctx, st, req.Args)
	case oracle.ActionCancelTrip:
		return a.cancelTrip(ctx, st)
	case oracle.ActionSearchDrivers:
		return a.searchDrivers(ctx, st, req.Args)
	default:
		return actionResult{note: fmt.Sprintf("unknown action %q ignored", req.Name)}
	}
}

func (a *Agent) createTrip(ctx context.Context, st *session.State, args map[string]any) actionResult {
	a.absorbPreferences(st, args)

	route := trip.Route{
		PickupCity:     argString(args, "pickupCity"),
		DropCity:       argString(args, "dropCity"),
		PickupLocation: st.PickupHint,
		DropLocation:   st.DropHint,
	}
	// Same route while a trip is active is a change request, not a new
	// booking. A different route books a second, independent trip; the
	// prior one stays as it was.
	if st.Trip.Active() && st.Trip.Route.SameCities(route) {
		return actionResult{note: "failed: a trip for this route already exists; use modify_trip or cancel_trip"}
	}
	sched := trip.Schedule{
		TripType:  argString(args, "tripType"),
		StartDate: argString(args, "startDate"),
		EndDate:   argString(args, "endDate"),
	}

	t, err := a.trips.Create(ctx, st.Identity, route, sched, st.PassengerCount)
	if err != nil {
		return a.tripFailure(st, "create_trip", err)
	}
	st.Trip = t
	st.ResetSearch("")
	st.ErrorTally.Reset()
	return actionResult{
		note:    fmt.Sprintf("ok: trip %s created, %s to %s on %s", t.ID, t.Route.PickupCity, t.Route.DropCity, t.Schedule.StartDate),
		created: true,
	}
}

func (a *Agent) modifyTrip(ctx context.Context, st *session.State, args map[string]any) actionResult {
	if !st.Trip.Active() {
		return actionResult{note: "failed: no active trip to modify"}
	}
	a.absorbPreferences(st, args)

	t, err := a.trips.Modify(ctx, st.Identity, st.Trip, trip.Changes{
		PickupCity: argString(args, "pickupCity"),
		DropCity:   argString(args, "dropCity"),
		TripType:   argString(args, "tripType"),
		StartDate:  argString(args, "startDate"),
		EndDate:    argString(args, "endDate"),
		Passengers: argInt(args, "passengerCount"),
	})
	if err != nil {
		return a.tripFailure(st, "modify_trip", err)
	}
	st.Trip = t
	st.ResetSearch("")
	st.ErrorTally.Reset()
	return actionResult{note: fmt.Sprintf("ok: trip rebooked as %s, %s to %s on %s", t.ID, t.Route.PickupCity, t.Route.DropCity, t.Schedule.StartDate)}
}

func (a *Agent) cancelTrip(ctx context.Context, st *session.State) actionResult {
	if err := a.trips.Cancel(ctx, st.UserID, st.Trip); err != nil {
		if errors.Is(err, trip.ErrNoActiveTrip) {
			return actionResult{note: "failed: no active trip to cancel"}
		}
		return a.tripFailure(st, "cancel_trip", err)
	}
	st.ResetSearch("")
	st.ErrorTally.Reset()
	return actionResult{note: "ok: trip cancelled", cancelled: true}
}

func (a *Agent) searchDrivers(ctx context.Context, st *session.State, args map[string]any) actionResult {
	if !st.Trip.Active() {
		return actionResult{note: "failed: no active trip; create one before searching for drivers"}
	}
	a.absorbPreferences(st, args)

	stage := retry.StageFor(st.ErrorTally.CountFor("search"))
	if stage == retry.StageEscalate {
		return actionResult{replyOverride: escalateReply, terminal: true}
	}
	effective := retry.Reduce(st.Preferences, stage)

	// Pagination only survives while the effective filter set does.
	signature := st.Trip.Route.PickupCity + "|" + effective.Signature()
	if st.SearchSignature != signature {
		st.ResetSearch(signature)
	}

	batch, err := a.paginator.NextBatch(ctx, drivers.Query{
		City:     st.Trip.Route.PickupCity,
		Filters:  effective.QueryParams(),
		Cursor:   st.Cursor,
		Notified: st.NotifiedSet(),
	})
	if err != nil {
		return a.searchFailure(st, err)
	}

	if len(batch.DriverIDs) == 0 {
		if batch.Exhausted {
			return actionResult{
				replyOverride: "We've already reached out to every available driver for this trip. Quotes should be on their way; hang tight.",
				terminal:      true,
			}
		}
		// The paginator holds its cursor when a page yields nothing new;
		// skip past the page here or the next attempt refetches it.
		st.Cursor = batch.Cursor + 1
		return actionResult{note: "ok: this page held only drivers we already contacted, skipping to the next page"}
	}

	if err := a.notifier.NotifyDrivers(ctx, backend.NotifyRequest{
		TripID:      st.Trip.ID,
		DriverIDs:   batch.DriverIDs,
		TripSummary: tripSummary(st.Trip),
		Customer:    st.Identity,
	}); err != nil {
		return a.searchFailure(st, err)
	}

	st.MarkNotified(batch.DriverIDs)
	st.Cursor = batch.Cursor
	st.ErrorTally.Reset()
	return actionResult{
		note:          fmt.Sprintf("ok: requested quotes from %d drivers", len(batch.DriverIDs)),
		replyOverride: searchSuccessReply,
		terminal:      true,
	}
}

// tripFailure distinguishes the user's problem from the system's. Validation
// errors go back to the planner so it can ask the user; transport errors feed
// the escalation tally.
func (a *Agent) tripFailure(st *session.State, kind string, err error) actionResult {
	var missing *trip.MissingFieldsError
	if errors.As(err, &missing) {
		return actionResult{note: "failed: " + missing.Error()}
	}
	if errors.Is(err, trip.ErrStateNotCity) {
		return actionResult{note: "failed: " + err.Error() + "; ask the user which city they mean"}
	}
	st.ErrorTally.Record(kind)
	if retry.StageFor(st.ErrorTally.CountFor(kind)) == retry.StageEscalate {
		return actionResult{replyOverride: escalateReply, terminal: true}
	}
	return actionResult{note: "failed: " + err.Error()}
}

func (a *Agent) searchFailure(st *session.State, err error) actionResult {
	st.ErrorTally.Record("search")
	if retry.StageFor(st.ErrorTally.CountFor("search")) == retry.StageEscalate {
		return actionResult{replyOverride: escalateReply, terminal: true}
	}
	return actionResult{note: "failed: " + err.Error() + "; retry search_and_notify_drivers"}
}

// absorbPreferences folds planner-supplied preferences and passenger count
// into the session. Runs through the normalizer; malformed values drop here
// and never reach the driver directory.
func (a *Agent) absorbPreferences(st *session.State, args map[string]any) {
	if n := argInt(args, "passengerCount"); n > 0 {
		st.PassengerCount = n
	}
	raw, _ := args["preferences"].(map[string]any)
	if len(raw) == 0 && st.PassengerCount == 0 {
		return
	}
	st.Preferences = prefs.Normalize(st.Preferences, raw, st.PassengerCount)
}

func tripSummary(t *trip.Trip) string {
	s := fmt.Sprintf("%s to %s, %s, %s", t.Route.PickupCity, t.Route.DropCity, t.Schedule.TripType, t.Schedule.StartDate)
	if t.Schedule.TripType == trip.TypeRoundTrip {
		s += " to " + t.Schedule.EndDate
	}
	return s
}

func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

func argInt(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}
