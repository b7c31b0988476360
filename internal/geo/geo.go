// README: Google Maps wrapper; resolves cities to structured locations and road distances.
package geo

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"cabbot/internal/backend"
)

// Resolver enriches bare city names with coordinates and canonical place
// names, and measures road distance for fare estimation. A nil Resolver is
// valid: callers fall back to the bare city string and a default distance.
type Resolver struct {
	client *maps.Client
}

func NewResolver(apiKey string) (*Resolver, error) {
	if apiKey == "" {
		return nil, nil
	}
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("maps client: %w", err)
	}
	return &Resolver{client: c}, nil
}

// ResolveCity geocodes a city name into the structured location payload the
// booking backend expects. Resolution failures degrade to a bare-city
// location rather than failing the booking.
func (r *Resolver) ResolveCity(ctx context.Context, city string) backend.Location {
	loc := backend.Location{City: city}
	if r == nil || r.client == nil || strings.TrimSpace(city) == "" {
		return loc
	}
	results, err := r.client.Geocode(ctx, &maps.GeocodingRequest{Address: city})
	if err != nil || len(results) == 0 {
		return loc
	}
	best := results[0]
	loc.PlaceName = best.FormattedAddress
	loc.Coordinates = fmt.Sprintf("%f,%f", best.Geometry.Location.Lat, best.Geometry.Location.Lng)
	return loc
}

// DistanceKm returns the driving distance between two cities in kilometres.
// ok is false when the resolver is absent or the route lookup fails.
func (r *Resolver) DistanceKm(ctx context.Context, origin, destination string) (float64, bool) {
	if r == nil || r.client == nil {
		return 0, false
	}
	routes, _, err := r.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
	})
	if err != nil || len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, false
	}
	meters := 0
	for _, leg := range routes[0].Legs {
		meters += leg.Distance.Meters
	}
	if meters <= 0 {
		return 0, false
	}
	return float64(meters) / 1000, true
}
