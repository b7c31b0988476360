// README: Per-vehicle fare band estimation from road distance.
package pricing

import (
	"context"

	"cabbot/internal/backend"
)

// DistanceEstimator measures road distance between two cities in kilometres.
// ok is false when no measurement is available.
type DistanceEstimator interface {
	DistanceKm(ctx context.Context, origin, destination string) (float64, bool)
}

// Fallback distance when no road measurement is available, and the minimum
// fares quoted regardless of distance.
const (
	defaultDistanceKm = 300
	floorMin          = 1500
	floorMax          = 2000
)

type rate struct {
	min, max float64 // rupees per km
}

var baseRates = map[string]rate{
	"hatchback":     {12, 16},
	"sedan":         {14, 18},
	"suv":           {16, 22},
	"innova":        {16, 24},
	"innova_crysta": {18, 26},
	"tempo":         {22, 30},
}

type Service struct {
	distance DistanceEstimator
}

func NewService(distance DistanceEstimator) *Service {
	return &Service{distance: distance}
}

// Estimate computes a fare band per vehicle category for the route. Round
// trips are priced on double the one-way distance. Amounts are rounded to the
// nearest 50 rupees and never fall below the quoted floors.
func (s *Service) Estimate(ctx context.Context, pickupCity, dropCity, tripType string) map[string]backend.PriceRange {
	km := float64(defaultDistanceKm)
	if s != nil && s.distance != nil {
		if d, ok := s.distance.DistanceKm(ctx, pickupCity, dropCity); ok {
			km = d
		}
	}
	if tripType == "round-trip" {
		km *= 2
	}

	out := make(map[string]backend.PriceRange, len(baseRates))
	for vehicle, r := range baseRates {
		min := roundTo50(r.min * km)
		max := roundTo50(r.max * km)
		if min < floorMin {
			min = floorMin
		}
		if max < floorMax {
			max = floorMax
		}
		out[vehicle] = backend.PriceRange{Min: min, Max: max}
	}
	return out
}

// roundTo50 rounds to the nearest multiple of 50.
func roundTo50(v float64) int {
	return ((int(v) + 24) / 50) * 50
}
