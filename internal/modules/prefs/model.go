// README: Canonical driver/vehicle preference record.
package prefs

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Ordering is a sort direction for ranked preference fields.
type Ordering string

const (
	OrderAsc  Ordering = "asc"
	OrderDesc Ordering = "desc"
)

// Preferences is the closed, typed representation of user-expressed filters.
// It is produced only by Normalize; downstream components never re-validate it.
// Nil pointer booleans mean "not expressed" as opposed to an explicit false.
type Preferences struct {
	VehicleTypes       []string `json:"vehicleTypesList,omitempty"`
	Languages          []string `json:"languages,omitempty"`
	Gender             string   `json:"gender,omitempty"`
	MinAge             int      `json:"minAge,omitempty"`
	MaxAge             int      `json:"maxAge,omitempty"`
	MinExperience      int      `json:"minExperience,omitempty"`
	PetAllowed         *bool    `json:"isPetAllowed,omitempty"`
	Married            *bool    `json:"married,omitempty"`
	HandicapAccessible *bool    `json:"allowHandicappedPersons,omitempty"`
	PersonalCarDriver  *bool    `json:"availableForCustomersPersonalCar,omitempty"`
	EventDriver        *bool    `json:"availableForDrivingInEventWedding,omitempty"`
	PartTimeFullTime   *bool    `json:"availableForPartTimeFullTime,omitempty"`
	Connections        Ordering `json:"connections,omitempty"`
	LicenceIssued      Ordering `json:"dlDateOfIssue,omitempty"`
}

// Clone returns a deep copy; mutating the copy never aliases the original.
func (p Preferences) Clone() Preferences {
	out := p
	if p.VehicleTypes != nil {
		out.VehicleTypes = append([]string(nil), p.VehicleTypes...)
	}
	if p.Languages != nil {
		out.Languages = append([]string(nil), p.Languages...)
	}
	out.PetAllowed = cloneBool(p.PetAllowed)
	out.Married = cloneBool(p.Married)
	out.HandicapAccessible = cloneBool(p.HandicapAccessible)
	out.PersonalCarDriver = cloneBool(p.PersonalCarDriver)
	out.EventDriver = cloneBool(p.EventDriver)
	out.PartTimeFullTime = cloneBool(p.PartTimeFullTime)
	return out
}

func (p Preferences) IsZero() bool {
	return len(p.VehicleTypes) == 0 && len(p.Languages) == 0 &&
		p.Gender == "" && p.MinAge == 0 && p.MaxAge == 0 && p.MinExperience == 0 &&
		p.PetAllowed == nil && p.Married == nil && p.HandicapAccessible == nil &&
		p.PersonalCarDriver == nil && p.EventDriver == nil && p.PartTimeFullTime == nil &&
		p.Connections == "" && p.LicenceIssued == ""
}

// VehicleOnly keeps only the vehicle-category filter, for retry de-escalation.
func (p Preferences) VehicleOnly() Preferences {
	return Preferences{VehicleTypes: append([]string(nil), p.VehicleTypes...)}
}

// Signature is a stable fingerprint used to invalidate driver pagination when
// the effective filter set changes.
func (p Preferences) Signature() string {
	b, _ := json.Marshal(p)
	return string(b)
}

// QueryParams renders the record as driver-directory API query parameters.
// Booleans are rendered as the strings "true"/"false" per the upstream contract.
func (p Preferences) QueryParams() map[string]string {
	out := map[string]string{}
	if len(p.VehicleTypes) > 0 {
		out["vehicleTypes"] = strings.Join(p.VehicleTypes, ",")
	}
	if len(p.Languages) > 0 {
		out["verifiedLanguages"] = strings.Join(p.Languages, ",")
	}
	if p.Gender != "" {
		out["gender"] = p.Gender
	}
	if p.MinAge > 0 {
		out["minAge"] = strconv.Itoa(p.MinAge)
	}
	if p.MaxAge > 0 {
		out["maxAge"] = strconv.Itoa(p.MaxAge)
	}
	if p.MinExperience > 0 {
		out["minExperience"] = strconv.Itoa(p.MinExperience)
	}
	putBool(out, "isPetAllowed", p.PetAllowed)
	putBool(out, "married", p.Married)
	putBool(out, "allowHandicappedPersons", p.HandicapAccessible)
	putBool(out, "availableForCustomersPersonalCar", p.PersonalCarDriver)
	putBool(out, "availableForDrivingInEventWedding", p.EventDriver)
	putBool(out, "availableForPartTimeFullTime", p.PartTimeFullTime)
	if p.Connections != "" {
		out["connections"] = string(p.Connections)
	}
	if p.LicenceIssued != "" {
		out["dlDateOfIssue"] = string(p.LicenceIssued)
	}
	return out
}

func putBool(m map[string]string, key string, v *bool) {
	if v == nil {
		return
	}
	if *v {
		m[key] = "true"
	} else {
		m[key] = "false"
	}
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	b := *v
	return &b
}
