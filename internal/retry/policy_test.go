// README: Escalation ladder tests (tally bookkeeping, monotonic filter reduction).
package retry

import (
	"testing"

	"cabbot/internal/modules/prefs"
)

func TestTallyCountsConsecutiveSameKind(t *testing.T) {
	var tally Tally
	tally.Record("search_and_notify")
	tally.Record("search_and_notify")
	tally.Record("search_and_notify")

	if tally.CountFor("search_and_notify") != 3 {
		t.Fatalf("expected count 3, got %d", tally.Count)
	}
	if tally.CountFor("create_trip") != 0 {
		t.Fatalf("different kind should not inherit the count")
	}
}

func TestTallyResetsOnKindSwitch(t *testing.T) {
	var tally Tally
	tally.Record("create_trip")
	tally.Record("create_trip")
	tally.Record("search_and_notify")

	if tally.Kind != "search_and_notify" || tally.Count != 1 {
		t.Fatalf("expected fresh count 1 for new kind, got %+v", tally)
	}
}

func TestTallyResetOnSuccess(t *testing.T) {
	var tally Tally
	tally.Record("create_trip")
	tally.Record("create_trip")
	tally.Reset()

	if tally.Count != 0 || tally.Kind != "" {
		t.Fatalf("expected zeroed tally, got %+v", tally)
	}
	if StageFor(tally.Count) != StageFull {
		t.Fatal("reset tally must return to the full filter set")
	}
}

func TestStageLadder(t *testing.T) {
	cases := []struct {
		failures int
		want     Stage
	}{
		{0, StageFull},
		{1, StageFull},
		{2, StageFull},
		{3, StageVehicleOnly},
		{4, StageBare},
		{5, StageEscalate},
		{9, StageEscalate},
	}
	for _, tc := range cases {
		if got := StageFor(tc.failures); got != tc.want {
			t.Errorf("StageFor(%d) = %v, want %v", tc.failures, got, tc.want)
		}
	}
}

// Each rung of the ladder must offer a subset of the filters offered by the
// rung before it.
func TestReduceMonotonic(t *testing.T) {
	yes := true
	full := prefs.Preferences{
		VehicleTypes: []string{"suv"},
		Languages:    []string{"Hindi"},
		Gender:       "male",
		PetAllowed:   &yes,
		MaxAge:       40,
	}

	stages := []Stage{StageFull, StageVehicleOnly, StageBare}
	prev := Reduce(full, stages[0]).QueryParams()
	for _, s := range stages[1:] {
		cur := Reduce(full, s).QueryParams()
		for key, val := range cur {
			if prevVal, ok := prev[key]; !ok || prevVal != val {
				t.Errorf("stage %v introduced filter %q=%q absent from previous stage", s, key, val)
			}
		}
		prev = cur
	}

	if len(Reduce(full, StageBare).QueryParams()) != 0 {
		t.Error("bare stage must carry no filters")
	}
}

func TestReduceVehicleOnly(t *testing.T) {
	full := prefs.Preferences{
		VehicleTypes: []string{"suv", "sedan"},
		Gender:       "female",
		MaxAge:       50,
	}
	got := Reduce(full, StageVehicleOnly)
	params := got.QueryParams()
	if params["vehicleTypes"] != "suv,sedan" {
		t.Errorf("expected vehicle filter kept, got %v", params)
	}
	if len(params) != 1 {
		t.Errorf("expected only the vehicle filter, got %v", params)
	}
}
