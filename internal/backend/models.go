// README: Wire models for the booking backend and driver directory APIs.
package backend

import "cabbot/internal/types"

// Location is the structured place payload the booking backend expects.
type Location struct {
	City        string `json:"city"`
	Coordinates string `json:"coordinates,omitempty"`
	PlaceName   string `json:"placeName,omitempty"`
}

// Customer identifies the person a trip is booked for. It always comes from
// the authenticated request envelope, never from planner output.
type Customer struct {
	ID           types.ID `json:"customerId"`
	Name         string   `json:"customerName"`
	Phone        string   `json:"customerPhone"`
	ProfileImage string   `json:"customerProfileImage,omitempty"`
}

// PriceRange is a per-vehicle-category fare band in rupees.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// CreateTripRequest is the booking backend's trip creation payload.
type CreateTripRequest struct {
	CustomerID           types.ID              `json:"customerId"`
	CustomerName         string                `json:"customerName"`
	CustomerPhone        string                `json:"customerPhone"`
	CustomerProfileImage string                `json:"customerProfileImage,omitempty"`
	PickUpLocation       Location              `json:"pickUpLocation"`
	DropLocation         Location              `json:"dropLocation"`
	StartDate            string                `json:"startDate"`
	EndDate              string                `json:"endDate"`
	TripType             string                `json:"tripType"`
	EstimatedPrice       map[string]PriceRange `json:"estimatedPrice,omitempty"`
}

type createTripResponse struct {
	TripID types.ID `json:"tripId"`
	ID     types.ID `json:"id"`
}

type cancelTripRequest struct {
	TripID types.ID `json:"tripId"`
}

// NotifyRequest asks the backend to push a quote request to a driver batch.
type NotifyRequest struct {
	TripID      types.ID   `json:"tripId"`
	DriverIDs   []types.ID `json:"driverIds"`
	TripSummary string     `json:"tripSummary,omitempty"`
	Customer    Customer   `json:"customer"`
}

type driverRecord struct {
	ID       types.ID `json:"_id"`
	DriverID types.ID `json:"driverId"`
}

type searchDriversResponse struct {
	Drivers []driverRecord `json:"drivers"`
	Data    []driverRecord `json:"data"`
}

func (r searchDriversResponse) ids() []types.ID {
	rows := r.Drivers
	if len(rows) == 0 {
		rows = r.Data
	}
	out := make([]types.ID, 0, len(rows))
	for _, d := range rows {
		id := d.DriverID
		if id == "" {
			id = d.ID
		}
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
