// Package address tokenizes free-text US postal addresses and normalizes
// street names into canonical matching keys.
package address

import (
	"strings"

	"github.com/rotisserie/eris"
)

var (
	// ErrIncompleteAddress is returned when the house number or street name
	// is missing.
	ErrIncompleteAddress = eris.New("address: incomplete address")

	// ErrAmbiguousParse is returned when tokenization finds repeated or
	// contradictory labels. Callers treat it the same as an incomplete
	// address.
	ErrAmbiguousParse = eris.New("address: ambiguous parse")
)

// Token is a labeled, immutable view of a parsed address. Absent fields are
// empty strings, not errors.
type Token struct {
	HouseNumber     string `json:"house_number,omitempty"`
	PreDirectional  string `json:"pre_directional,omitempty"`
	StreetName      string `json:"street_name,omitempty"`
	StreetType      string `json:"street_type,omitempty"`
	PostDirectional string `json:"post_directional,omitempty"`
	Occupancy       string `json:"occupancy,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	ZIP             string `json:"zip,omitempty"`
}

// FullStreetName joins the directional, name, and type components in order.
func (t Token) FullStreetName() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{t.PreDirectional, t.StreetName, t.StreetType, t.PostDirectional} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// HasStreetInfo reports whether the token carries enough for range matching.
func (t Token) HasStreetInfo() bool {
	return t.HouseNumber != "" && t.StreetName != ""
}
