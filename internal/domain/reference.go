package domain

import "fmt"

// ReferenceKind names one of the four reference-data lists.
// Items in a list are bare strings, unique within the list by exact match.
type ReferenceKind string

const (
	KindUsers     ReferenceKind = "users"
	KindProducts  ReferenceKind = "products"
	KindLocations ReferenceKind = "locations"
	KindPurposes  ReferenceKind = "purposes"
)

// ReferenceKinds lists every kind in display order.
var ReferenceKinds = []ReferenceKind{KindUsers, KindProducts, KindLocations, KindPurposes}

// ParseReferenceKind validates s as a ReferenceKind.
func ParseReferenceKind(s string) (ReferenceKind, error) {
	for _, k := range ReferenceKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown reference list %q", ErrValidation, s)
}

// ReferenceSnapshot holds all four lists at once.
type ReferenceSnapshot struct {
	Users     []string `json:"users"`
	Products  []string `json:"products"`
	Locations []string `json:"locations"`
	Purposes  []string `json:"purposes"`
}

// Set stores items under kind.
func (s *ReferenceSnapshot) Set(kind ReferenceKind, items []string) {
	switch kind {
	case KindUsers:
		s.Users = items
	case KindProducts:
		s.Products = items
	case KindLocations:
		s.Locations = items
	case KindPurposes:
		s.Purposes = items
	}
}
