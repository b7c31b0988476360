// README: Bounded-retry escalation policy for external-call failures.
package retry

import "cabbot/internal/modules/prefs"

// Stage is a rung on the escalation ladder. Each successive stage offers the
// retried call a subset of the filters offered by the previous one.
type Stage int

const (
	// StageFull retries with the complete filter set.
	StageFull Stage = iota
	// StageVehicleOnly keeps only the vehicle-category filter.
	StageVehicleOnly
	// StageBare drops all filters and retries with route/schedule only.
	StageBare
	// StageEscalate stops retrying; the caller surfaces human support.
	StageEscalate
)

// Tally counts consecutive failures of one external-call kind. A failure of a
// different kind restarts the count for the new kind; any success clears it.
type Tally struct {
	Kind  string `json:"kind,omitempty"`
	Count int    `json:"count,omitempty"`
}

func (t *Tally) Record(kind string) {
	if t.Kind == kind {
		t.Count++
		return
	}
	t.Kind = kind
	t.Count = 1
}

func (t *Tally) Reset() {
	t.Kind = ""
	t.Count = 0
}

// CountFor returns the consecutive-failure count attributable to kind.
// Failures of another kind do not carry over.
func (t Tally) CountFor(kind string) int {
	if t.Kind != kind {
		return 0
	}
	return t.Count
}

// StageFor maps a consecutive-failure count onto the ladder: the initial
// attempt and two retries run with the full filter set, the next retry with
// vehicle category only, the one after with no filters, and anything beyond
// that escalates to human support.
func StageFor(failures int) Stage {
	switch {
	case failures <= 2:
		return StageFull
	case failures == 3:
		return StageVehicleOnly
	case failures == 4:
		return StageBare
	default:
		return StageEscalate
	}
}

// Reduce applies a ladder stage to a preference record. The result for stage
// n is always a subset of the result for stage n-1.
func Reduce(p prefs.Preferences, s Stage) prefs.Preferences {
	switch s {
	case StageFull:
		return p.Clone()
	case StageVehicleOnly:
		return p.VehicleOnly()
	default:
		return prefs.Preferences{}
	}
}
