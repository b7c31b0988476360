// README: Lifecycle transition and booking-validation tests.
package trip

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusNone, StatusCreated, true},
		{StatusCreated, StatusModified, true},
		{StatusCreated, StatusCancelled, true},
		{StatusModified, StatusModified, true},
		{StatusModified, StatusCancelled, true},
		{StatusNone, StatusCancelled, false},
		{StatusCancelled, StatusModified, false},
		{StatusCancelled, StatusCreated, false},
		{StatusCreated, StatusCreated, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidateCollectsAllMissingFields(t *testing.T) {
	err := Validate(Route{}, Schedule{})
	var missing *MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldsError, got %v", err)
	}
	if len(missing.Fields) != 4 {
		t.Errorf("expected pickup, drop, trip type, and start date flagged together, got %v", missing.Fields)
	}
}

func TestValidateRejectsStateNames(t *testing.T) {
	err := Validate(
		Route{PickupCity: "Maharashtra", DropCity: "Pune"},
		Schedule{TripType: TypeOneWay, StartDate: "2026-09-10"},
	)
	if !errors.Is(err, ErrStateNotCity) {
		t.Fatalf("expected ErrStateNotCity, got %v", err)
	}

	// Goa doubles as a state name but is a bookable destination.
	err = Validate(
		Route{PickupCity: "Pune", DropCity: "Goa"},
		Schedule{TripType: TypeOneWay, StartDate: "2026-09-10"},
	)
	if err != nil {
		t.Fatalf("Goa must be accepted as a destination: %v", err)
	}
}

func TestValidateRoundTripNeedsLaterReturn(t *testing.T) {
	base := Route{PickupCity: "Pune", DropCity: "Goa"}

	err := Validate(base, Schedule{TripType: TypeRoundTrip, StartDate: "2026-09-10"})
	var missing *MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("round trip without return date should fail, got %v", err)
	}

	err = Validate(base, Schedule{TripType: TypeRoundTrip, StartDate: "2026-09-10", EndDate: "2026-09-10"})
	if !errors.As(err, &missing) {
		t.Fatalf("same-day return should fail, got %v", err)
	}

	err = Validate(base, Schedule{TripType: TypeRoundTrip, StartDate: "2026-09-10", EndDate: "2026-09-12"})
	if err != nil {
		t.Fatalf("valid round trip rejected: %v", err)
	}
}

func TestValidateOneWay(t *testing.T) {
	err := Validate(
		Route{PickupCity: "Pune", DropCity: "Mumbai"},
		Schedule{TripType: TypeOneWay, StartDate: "2026-09-10"},
	)
	if err != nil {
		t.Fatalf("valid one-way rejected: %v", err)
	}
}

func TestActive(t *testing.T) {
	if (*Trip)(nil).Active() {
		t.Error("nil trip must not be active")
	}
	if !(&Trip{Status: StatusCreated}).Active() {
		t.Error("created trip must be active")
	}
	if !(&Trip{Status: StatusModified}).Active() {
		t.Error("modified trip must be active")
	}
	if (&Trip{Status: StatusCancelled}).Active() {
		t.Error("cancelled trip must not be active")
	}
}
