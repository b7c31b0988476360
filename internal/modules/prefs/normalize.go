// README: Filter normalizer; the single boundary turning loose planner output into typed preferences.
package prefs

import (
	"strconv"
	"strings"
)

// Passenger-count thresholds for the smart vehicle defaulting.
const (
	largeGroupMin  = 8
	mediumGroupMin = 5

	largeVehicle  = "tempotraveller"
	mediumVehicle = "suv"
)

type fieldKind int

const (
	kindBool fieldKind = iota
	kindInt
	kindGender
	kindOrdering
	kindStringList
)

// schema is the fixed table of recognized preference keys and their declared
// types. Anything not listed here is dropped silently.
var schema = map[string]fieldKind{
	"vehicleTypesList":                 kindStringList,
	"languages":                        kindStringList,
	"gender":                           kindGender,
	"minAge":                           kindInt,
	"maxAge":                           kindInt,
	"age":                              kindInt, // upstream alias for maxAge
	"minExperience":                    kindInt,
	"isPetAllowed":                     kindBool,
	"married":                          kindBool,
	"allowHandicappedPersons":          kindBool,
	"availableForCustomersPersonalCar": kindBool,
	"availableForDrivingInEventWedding": kindBool,
	"availableForPartTimeFullTime":     kindBool,
	"connections":                      kindOrdering,
	"dlDateOfIssue":                    kindOrdering,
}

// vehicleAliases folds specific model spellings into the canonical category
// names the driver directory understands. Unlisted values pass through
// lowercased (the directory accepts both categories and model names).
var vehicleAliases = map[string]string{
	"tempo traveller": "tempotraveller",
	"tempo traveler":  "tempotraveller",
	"tempo":           "tempotraveller",
	"traveller":       "tempotraveller",
	"crysta":          "innova crysta",
	"innova crysta":   "innova crysta",
}

// Normalize merges newly expressed raw preferences into an existing record.
// Coercion is loose and per-key: a value that cannot be coerced is dropped,
// never aborting the whole call. New values override old ones for the same
// key; keys absent from raw carry forward unchanged.
//
// passengerCount drives the smart vehicle defaulting (0 means unknown): it is
// applied to the raw input before the merge, so an explicit vehicle choice in
// raw is extended, not replaced.
func Normalize(existing Preferences, raw map[string]any, passengerCount int) Preferences {
	out := existing.Clone()
	if len(raw) == 0 && passengerCount < mediumGroupMin {
		return out
	}

	vehicles, hadVehicles := coerceStringList(raw["vehicleTypesList"])
	switch {
	case passengerCount >= largeGroupMin:
		vehicles = appendMissing(vehicles, largeVehicle)
		hadVehicles = true
	case passengerCount >= mediumGroupMin:
		vehicles = appendMissing(vehicles, mediumVehicle)
		hadVehicles = true
	}
	if hadVehicles {
		if folded := foldVehicles(vehicles); len(folded) > 0 {
			out.VehicleTypes = folded
		}
	}

	for key, value := range raw {
		kind, known := schema[key]
		if !known || value == nil || key == "vehicleTypesList" {
			continue
		}
		switch kind {
		case kindBool:
			b, ok := coerceBool(value)
			if !ok {
				continue
			}
			setBool(&out, key, b)
		case kindInt:
			n, ok := coerceInt(value)
			if !ok || n <= 0 {
				continue
			}
			switch key {
			case "minAge":
				out.MinAge = n
			case "maxAge", "age":
				out.MaxAge = n
			case "minExperience":
				out.MinExperience = n
			}
		case kindGender:
			s := strings.ToLower(strings.TrimSpace(coerceString(value)))
			if s == "male" || s == "female" {
				out.Gender = s
			}
		case kindOrdering:
			s := strings.ToLower(strings.TrimSpace(coerceString(value)))
			if s != string(OrderAsc) && s != string(OrderDesc) {
				continue
			}
			if key == "connections" {
				out.Connections = Ordering(s)
			} else {
				out.LicenceIssued = Ordering(s)
			}
		case kindStringList:
			if key != "languages" {
				continue
			}
			langs, ok := coerceStringList(value)
			if ok && len(langs) > 0 {
				out.Languages = dedup(langs)
			}
		}
	}
	return out
}

func setBool(p *Preferences, key string, v bool) {
	b := v
	switch key {
	case "isPetAllowed":
		p.PetAllowed = &b
	case "married":
		p.Married = &b
	case "allowHandicappedPersons":
		p.HandicapAccessible = &b
	case "availableForCustomersPersonalCar":
		p.PersonalCarDriver = &b
	case "availableForDrivingInEventWedding":
		p.EventDriver = &b
	case "availableForPartTimeFullTime":
		p.PartTimeFullTime = &b
	}
}

// foldVehicles lowercases, resolves aliases, and removes duplicates while
// preserving first-seen order.
func foldVehicles(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, v := range in {
		name := strings.ToLower(strings.TrimSpace(v))
		if name == "" {
			continue
		}
		if alias, ok := vehicleAliases[name]; ok {
			name = alias
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func appendMissing(list []string, v string) []string {
	for _, have := range list {
		if strings.EqualFold(strings.TrimSpace(have), v) {
			return list
		}
	}
	return append(list, v)
}

func dedup(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, v := range in {
		s := strings.TrimSpace(v)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	return out
}

func coerceBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off":
			return false, true
		}
		return false, false
	case float64:
		return t != 0, true
	case int:
		return t != 0, true
	}
	return false, false
}

func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

// coerceStringList accepts []string, []any of strings, or a comma-separated
// string. The second return reports whether the value was present and usable.
func coerceStringList(v any) ([]string, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case []string:
		return append([]string(nil), t...), true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out, true
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, false
		}
		parts := strings.Split(t, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}
