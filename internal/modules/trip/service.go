// README: Trip lifecycle service; create, modify (cancel-then-recreate), cancel.
package trip

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"cabbot/internal/backend"
	"cabbot/internal/types"
)

// API is the slice of the booking backend the lifecycle needs.
type API interface {
	CreateTrip(ctx context.Context, req backend.CreateTripRequest) (types.ID, error)
	CancelTrip(ctx context.Context, tripID types.ID) error
}

// PriceEstimator produces the per-vehicle fare bands attached to a booking.
type PriceEstimator interface {
	Estimate(ctx context.Context, pickupCity, dropCity, tripType string) map[string]backend.PriceRange
}

// Locator resolves a city name into the structured location payload.
type Locator interface {
	ResolveCity(ctx context.Context, city string) backend.Location
}

// EventRecorder receives one row per committed status transition.
type EventRecorder interface {
	AppendEvent(ctx context.Context, userID, tripID types.ID, from, to Status) error
}

// Service owns the trip lifecycle. locator, prices, and store may be nil;
// each degrades independently without blocking a booking.
type Service struct {
	api     API
	prices  PriceEstimator
	locator Locator
	store   EventRecorder
}

func NewService(api API, prices PriceEstimator, locator Locator, store EventRecorder) *Service {
	return &Service{api: api, prices: prices, locator: locator, store: store}
}

// Changes is a partial update for Modify. Empty strings and zero values mean
// "keep the current value".
type Changes struct {
	PickupCity string
	DropCity   string
	TripType   string
	StartDate  string
	EndDate    string
	Passengers int
}

// Create validates the booking details, registers the trip with the backend,
// and returns the new record in the created status.
func (s *Service) Create(ctx context.Context, cust backend.Customer, route Route, sched Schedule, passengers int) (*Trip, error) {
	t, err := s.book(ctx, cust, route, sched, passengers)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, cust.ID, t.ID, StatusNone, StatusCreated)
	return t, nil
}

// book registers a trip with the backend without touching the audit log;
// Create and Modify record their own transitions.
func (s *Service) book(ctx context.Context, cust backend.Customer, route Route, sched Schedule, passengers int) (*Trip, error) {
	// A one-way trip always books with end date equal to start date,
	// whatever the caller supplied.
	if sched.TripType == TypeOneWay {
		sched.EndDate = sched.StartDate
	}
	if err := Validate(route, sched); err != nil {
		return nil, err
	}
	s.resolveLocations(ctx, &route)

	var prices map[string]backend.PriceRange
	if s.prices != nil {
		prices = s.prices.Estimate(ctx, route.PickupCity, route.DropCity, sched.TripType)
	}

	id, err := s.api.CreateTrip(ctx, backend.CreateTripRequest{
		CustomerID:           cust.ID,
		CustomerName:         cust.Name,
		CustomerPhone:        cust.Phone,
		CustomerProfileImage: cust.ProfileImage,
		PickUpLocation:       locationOrCity(route.PickupLocation, route.PickupCity),
		DropLocation:         locationOrCity(route.DropLocation, route.DropCity),
		StartDate:            formatDateForAPI(sched.StartDate),
		EndDate:              formatDateForAPI(sched.EndDate),
		TripType:             sched.TripType,
		EstimatedPrice:       prices,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := &Trip{
		ID:             id,
		Status:         StatusCreated,
		Route:          route,
		Schedule:       sched,
		Passengers:     passengers,
		EstimatedPrice: prices,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return t, nil
}

// Modify rebooks the trip with the merged details. The backend has no update
// call, so the old trip is cancelled and a fresh one created; the new id
// replaces the old and the record moves to the modified status. Cancellation
// of the old id is best effort: a failure there is logged, not surfaced, since
// the user's booking is the new trip.
func (s *Service) Modify(ctx context.Context, cust backend.Customer, current *Trip, ch Changes) (*Trip, error) {
	if !current.Active() {
		return nil, ErrNoActiveTrip
	}
	if !CanTransition(current.Status, StatusModified) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, StatusModified)
	}

	route := current.Route
	sched := current.Schedule
	passengers := current.Passengers
	if v := strings.TrimSpace(ch.PickupCity); v != "" {
		route.PickupCity = v
		route.PickupLocation = nil
	}
	if v := strings.TrimSpace(ch.DropCity); v != "" {
		route.DropCity = v
		route.DropLocation = nil
	}
	if v := strings.TrimSpace(ch.TripType); v != "" {
		sched.TripType = v
		if v == TypeOneWay {
			sched.EndDate = sched.StartDate
		}
	}
	if v := strings.TrimSpace(ch.StartDate); v != "" {
		sched.StartDate = v
		if sched.TripType == TypeOneWay {
			sched.EndDate = v
		}
	}
	if v := strings.TrimSpace(ch.EndDate); v != "" {
		sched.EndDate = v
	}
	if ch.Passengers > 0 {
		passengers = ch.Passengers
	}

	replacement, err := s.book(ctx, cust, route, sched, passengers)
	if err != nil {
		return nil, err
	}
	if cancelErr := s.api.CancelTrip(ctx, current.ID); cancelErr != nil {
		log.Printf("modify trip: cancel superseded trip %s: %v", current.ID, cancelErr)
	}
	replacement.Status = StatusModified
	replacement.CreatedAt = current.CreatedAt
	s.audit(ctx, cust.ID, replacement.ID, current.Status, StatusModified)
	return replacement, nil
}

// Cancel cancels the active trip with the backend and marks it cancelled.
// Without an active trip it returns ErrNoActiveTrip and makes no call.
func (s *Service) Cancel(ctx context.Context, userID types.ID, current *Trip) error {
	if !current.Active() {
		return ErrNoActiveTrip
	}
	if err := s.api.CancelTrip(ctx, current.ID); err != nil {
		return err
	}
	from := current.Status
	current.Status = StatusCancelled
	current.UpdatedAt = time.Now().UTC()
	s.audit(ctx, userID, current.ID, from, StatusCancelled)
	return nil
}

func (s *Service) resolveLocations(ctx context.Context, r *Route) {
	if s.locator == nil {
		return
	}
	if r.PickupLocation == nil && r.PickupCity != "" {
		loc := s.locator.ResolveCity(ctx, r.PickupCity)
		r.PickupLocation = &loc
	}
	if r.DropLocation == nil && r.DropCity != "" {
		loc := s.locator.ResolveCity(ctx, r.DropCity)
		r.DropLocation = &loc
	}
}

func (s *Service) audit(ctx context.Context, userID, tripID types.ID, from, to Status) {
	if s.store == nil {
		return
	}
	if err := s.store.AppendEvent(ctx, userID, tripID, from, to); err != nil {
		log.Printf("trip audit: append event: %v", err)
	}
}

func locationOrCity(loc *backend.Location, city string) backend.Location {
	if loc != nil {
		return *loc
	}
	return backend.Location{City: city}
}

// formatDateForAPI renders a calendar day as the backend's millisecond ISO
// timestamp at midnight UTC.
func formatDateForAPI(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
