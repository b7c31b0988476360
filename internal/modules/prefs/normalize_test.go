// README: Filter normalizer tests (coercion, synonyms, defaulting, merge).
package prefs

import (
	"reflect"
	"testing"
)

func TestNormalizeCoercion(t *testing.T) {
	raw := map[string]any{
		"isPetAllowed":  "yes",
		"married":       1.0, // JSON numbers decode as float64
		"age":           "40",
		"minExperience": 5.0,
		"gender":        " Female ",
		"connections":   "DESC",
		"dlDateOfIssue": "asc",
		"languages":     []any{"English", "Hindi", "english"},
	}
	got := Normalize(Preferences{}, raw, 0)

	if got.PetAllowed == nil || !*got.PetAllowed {
		t.Errorf("isPetAllowed: expected true, got %v", got.PetAllowed)
	}
	if got.Married == nil || !*got.Married {
		t.Errorf("married: expected true, got %v", got.Married)
	}
	if got.MaxAge != 40 {
		t.Errorf("maxAge: expected 40, got %d", got.MaxAge)
	}
	if got.MinExperience != 5 {
		t.Errorf("minExperience: expected 5, got %d", got.MinExperience)
	}
	if got.Gender != "female" {
		t.Errorf("gender: expected female, got %q", got.Gender)
	}
	if got.Connections != OrderDesc {
		t.Errorf("connections: expected desc, got %q", got.Connections)
	}
	if got.LicenceIssued != OrderAsc {
		t.Errorf("dlDateOfIssue: expected asc, got %q", got.LicenceIssued)
	}
	if want := []string{"English", "Hindi"}; !reflect.DeepEqual(got.Languages, want) {
		t.Errorf("languages: expected %v, got %v", want, got.Languages)
	}
}

func TestNormalizeDropsBadValues(t *testing.T) {
	raw := map[string]any{
		"age":           "not-a-number",
		"gender":        "robot",
		"connections":   "sideways",
		"isPetAllowed":  "maybe",
		"favoriteColor": "blue", // unrecognized key
	}
	got := Normalize(Preferences{}, raw, 0)
	if !got.IsZero() {
		t.Errorf("expected all malformed/unknown keys dropped, got %+v", got)
	}
}

func TestNormalizeVehicleSynonyms(t *testing.T) {
	raw := map[string]any{
		"vehicleTypesList": []any{"Tempo Traveller", "SUV", "tempo", "Crysta", "suv"},
	}
	got := Normalize(Preferences{}, raw, 0)
	want := []string{"tempotraveller", "suv", "innova crysta"}
	if !reflect.DeepEqual(got.VehicleTypes, want) {
		t.Errorf("expected %v, got %v", want, got.VehicleTypes)
	}
}

func TestNormalizePassengerDefaulting(t *testing.T) {
	cases := []struct {
		name       string
		passengers int
		raw        map[string]any
		want       []string
	}{
		{"large group forces tempotraveller", 9, nil, []string{"tempotraveller"}},
		{"medium group forces suv", 5, nil, []string{"suv"}},
		{"small group leaves choice alone", 3, nil, nil},
		{"explicit choice kept alongside default", 8,
			map[string]any{"vehicleTypesList": []any{"sedan"}},
			[]string{"sedan", "tempotraveller"}},
		{"default not duplicated", 6,
			map[string]any{"vehicleTypesList": []any{"SUV"}},
			[]string{"suv"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(Preferences{}, tc.raw, tc.passengers)
			if !reflect.DeepEqual(got.VehicleTypes, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got.VehicleTypes)
			}
		})
	}
}

func TestNormalizeMergeOverridesOnlyExpressedKeys(t *testing.T) {
	yes := true
	existing := Preferences{
		VehicleTypes: []string{"sedan"},
		Gender:       "male",
		PetAllowed:   &yes,
		MaxAge:       45,
	}
	got := Normalize(existing, map[string]any{"gender": "female"}, 0)

	if got.Gender != "female" {
		t.Errorf("gender should be overridden, got %q", got.Gender)
	}
	if !reflect.DeepEqual(got.VehicleTypes, []string{"sedan"}) {
		t.Errorf("vehicle types should carry forward, got %v", got.VehicleTypes)
	}
	if got.PetAllowed == nil || !*got.PetAllowed {
		t.Errorf("pet preference should carry forward, got %v", got.PetAllowed)
	}
	if got.MaxAge != 45 {
		t.Errorf("maxAge should carry forward, got %d", got.MaxAge)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := map[string]any{
		"vehicleTypesList": []any{"Tempo Traveller", "sedan"},
		"languages":        []any{"Hindi"},
		"isPetAllowed":     "true",
		"age":              40,
	}
	once := Normalize(Preferences{}, raw, 6)
	twice := Normalize(once, map[string]any{}, 0)
	thrice := Normalize(twice, map[string]any{}, 0)

	if !reflect.DeepEqual(once, twice) || !reflect.DeepEqual(twice, thrice) {
		t.Errorf("normalize not idempotent:\nonce  %+v\ntwice %+v\nthrice %+v", once, twice, thrice)
	}
}

func TestQueryParamsRendering(t *testing.T) {
	no := false
	p := Preferences{
		VehicleTypes:  []string{"suv", "sedan"},
		Languages:     []string{"English", "Hindi"},
		Married:       &no,
		MaxAge:        40,
		Connections:   OrderDesc,
		LicenceIssued: OrderAsc,
	}
	got := p.QueryParams()
	want := map[string]string{
		"vehicleTypes":      "suv,sedan",
		"verifiedLanguages": "English,Hindi",
		"married":           "false",
		"maxAge":            "40",
		"connections":       "desc",
		"dlDateOfIssue":     "asc",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	yes := true
	p := Preferences{VehicleTypes: []string{"suv"}, PetAllowed: &yes}
	c := p.Clone()
	c.VehicleTypes[0] = "sedan"
	*c.PetAllowed = false

	if p.VehicleTypes[0] != "suv" {
		t.Error("clone aliases vehicle slice")
	}
	if !*p.PetAllowed {
		t.Error("clone aliases bool pointer")
	}
}
