// README: Trip lifecycle model; statuses, transitions, and booking-detail validation.
package trip

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cabbot/internal/backend"
	"cabbot/internal/types"
)

type Status string

const (
	StatusNone      Status = "none"
	StatusCreated   Status = "created"
	StatusModified  Status = "modified"
	StatusCancelled Status = "cancelled"
)

// AllowedTransitions is the closed set of legal status moves. A cancelled
// trip is terminal; booking again starts a new Trip value.
var AllowedTransitions = map[Status][]Status{
	StatusNone:     {StatusCreated},
	StatusCreated:  {StatusModified, StatusCancelled},
	StatusModified: {StatusModified, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	for _, next := range AllowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

var (
	ErrNoActiveTrip      = errors.New("no active trip")
	ErrInvalidTransition = errors.New("invalid trip state transition")
	ErrStateNotCity      = errors.New("state name given where a city is required")
)

// MissingFieldsError lists the booking details still required before a trip
// can be created.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing booking details: " + strings.Join(e.Fields, ", ")
}

// Route is where the trip goes. City names are the source of truth; the
// structured locations are resolved from them when a geocoder is available.
type Route struct {
	PickupCity     string            `json:"pickupCity"`
	DropCity       string            `json:"dropCity"`
	PickupLocation *backend.Location `json:"pickupLocation,omitempty"`
	DropLocation   *backend.Location `json:"dropLocation,omitempty"`
}

// SameCities reports whether both routes connect the same pickup and drop
// cities, ignoring case and the richer location objects.
func (r Route) SameCities(other Route) bool {
	return strings.EqualFold(strings.TrimSpace(r.PickupCity), strings.TrimSpace(other.PickupCity)) &&
		strings.EqualFold(strings.TrimSpace(r.DropCity), strings.TrimSpace(other.DropCity))
}

// Schedule is when the trip runs. Dates are calendar days in YYYY-MM-DD.
type Schedule struct {
	TripType  string `json:"tripType"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
}

const (
	TypeOneWay    = "one-way"
	TypeRoundTrip = "round-trip"
)

// Trip is the assistant's record of the user's booking. ID is assigned by
// the booking backend on creation.
type Trip struct {
	ID             types.ID                      `json:"id"`
	Status         Status                        `json:"status"`
	Route          Route                         `json:"route"`
	Schedule       Schedule                      `json:"schedule"`
	Passengers     int                           `json:"passengers,omitempty"`
	EstimatedPrice map[string]backend.PriceRange `json:"estimatedPrice,omitempty"`
	CreatedAt      time.Time                     `json:"createdAt"`
	UpdatedAt      time.Time                     `json:"updatedAt"`
}

// Active reports whether the trip can still be modified or cancelled.
func (t *Trip) Active() bool {
	return t != nil && (t.Status == StatusCreated || t.Status == StatusModified)
}

// indianStates guards against users (or the planner) supplying a state where
// a city is required; the driver directory is keyed by city. Goa is not
// listed: it is booked as a destination in its own right.
var indianStates = map[string]bool{
	"andhra pradesh": true, "arunachal pradesh": true, "assam": true,
	"bihar": true, "chhattisgarh": true, "gujarat": true,
	"haryana": true, "himachal pradesh": true, "jharkhand": true,
	"karnataka": true, "kerala": true, "madhya pradesh": true,
	"maharashtra": true, "manipur": true, "meghalaya": true, "mizoram": true,
	"nagaland": true, "odisha": true, "punjab": true, "rajasthan": true,
	"sikkim": true, "tamil nadu": true, "telangana": true, "tripura": true,
	"uttar pradesh": true, "uttarakhand": true, "west bengal": true,
}

// Validate checks that a route and schedule carry everything trip creation
// needs. It returns a MissingFieldsError naming every absent field at once so
// the user can be asked a single follow-up question.
func Validate(r Route, s Schedule) error {
	var missing []string
	if strings.TrimSpace(r.PickupCity) == "" {
		missing = append(missing, "pickup city")
	}
	if strings.TrimSpace(r.DropCity) == "" {
		missing = append(missing, "drop city")
	}
	switch s.TripType {
	case TypeOneWay:
	case TypeRoundTrip:
		if strings.TrimSpace(s.EndDate) == "" {
			missing = append(missing, "return date")
		}
	case "":
		missing = append(missing, "trip type")
	default:
		missing = append(missing, "trip type")
	}
	if strings.TrimSpace(s.StartDate) == "" {
		missing = append(missing, "start date")
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	for _, city := range []string{r.PickupCity, r.DropCity} {
		if indianStates[strings.ToLower(strings.TrimSpace(city))] {
			return fmt.Errorf("%w: %s", ErrStateNotCity, city)
		}
	}
	start, err := time.Parse("2006-01-02", s.StartDate)
	if err != nil {
		return &MissingFieldsError{Fields: []string{"start date"}}
	}
	if s.TripType == TypeRoundTrip {
		end, err := time.Parse("2006-01-02", s.EndDate)
		if err != nil {
			return &MissingFieldsError{Fields: []string{"return date"}}
		}
		if !end.After(start) {
			return &MissingFieldsError{Fields: []string{"return date after the start date"}}
		}
	}
	return nil
}
