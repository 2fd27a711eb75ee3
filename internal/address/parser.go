package address

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/sells-group/census-lookup/internal/fips"
)

// zipRE matches a trailing ZIP or ZIP+4.
var zipRE = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?$`)

// occupancyMarkers introduce a unit designator within the street portion.
var occupancyMarkers = map[string]bool{
	"APT": true, "APARTMENT": true, "UNIT": true, "STE": true,
	"SUITE": true, "BLDG": true, "BUILDING": true, "RM": true,
	"ROOM": true, "FL": true, "FLOOR": true, "DEPT": true,
}

// Parse tokenizes a free-text address into labeled fields. It is a
// rule-based stand-in for a CRF tokenizer: any parser producing the same
// Token contract can replace it. Missing fields come back empty; only
// structurally contradictory input returns ErrAmbiguousParse, and blank
// input returns ErrIncompleteAddress.
func Parse(addr string) (Token, error) {
	s := strings.TrimSpace(addr)
	if s == "" {
		return Token{}, ErrIncompleteAddress
	}

	var tok Token

	// ZIP comes off the tail first so state detection sees a clean end.
	if m := zipRE.FindStringSubmatch(s); m != nil {
		tok.ZIP = m[1]
		s = strings.TrimSpace(strings.TrimSuffix(s, m[0]))
		s = strings.TrimRight(s, ",")
	}

	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	// Trailing comma part that resolves as a state is the state; the parts
	// between street and state are the city.
	if len(parts) > 1 {
		last := parts[len(parts)-1]
		if _, err := fips.Normalize(last); err == nil {
			tok.State = last
			parts = parts[:len(parts)-1]
		}
	}
	if len(parts) > 1 {
		tok.City = strings.Join(parts[1:], " ")
	}

	street := parts[0]

	// Without commas the state may trail the street words directly.
	if tok.State == "" {
		words := strings.Fields(street)
		if len(words) > 1 {
			if _, err := fips.Normalize(words[len(words)-1]); err == nil && len(words[len(words)-1]) == 2 {
				tok.State = words[len(words)-1]
				street = strings.Join(words[:len(words)-1], " ")
			}
		}
	}

	if err := parseStreet(street, &tok); err != nil {
		return Token{}, err
	}
	return tok, nil
}

// parseStreet fills the house number, directionals, street name/type, and
// occupancy from the street portion of the address.
func parseStreet(street string, tok *Token) error {
	words := strings.Fields(street)
	if len(words) == 0 {
		return nil
	}

	// House number leads when it starts with a digit.
	if startsWithDigit(words[0]) {
		tok.HouseNumber = strings.TrimRight(words[0], ",")
		words = words[1:]
	}

	// A second standalone number right after the house number contradicts
	// the first, unless it reads as a numbered street ("200 42 St"): then
	// every word after the number must be a type, directional, or unit.
	if tok.HouseNumber != "" && len(words) > 1 && isAllDigits(words[0]) {
		for _, w := range words[1:] {
			upper := Fold(w)
			if streetTypes[upper] == "" && directionals[upper] == "" &&
				!occupancyMarkers[upper] && !strings.HasPrefix(w, "#") && !isAllDigits(w) {
				return ErrAmbiguousParse
			}
		}
	}

	// Occupancy: "#4B" or a marker word plus identifier, anywhere after the
	// street name. Two designators is a contradiction.
	kept := words[:0]
	for i := 0; i < len(words); i++ {
		w := words[i]
		upper := Fold(w)
		switch {
		case strings.HasPrefix(w, "#"):
			if tok.Occupancy != "" {
				return ErrAmbiguousParse
			}
			tok.Occupancy = strings.TrimPrefix(w, "#")
		case occupancyMarkers[upper] && i+1 < len(words):
			if tok.Occupancy != "" {
				return ErrAmbiguousParse
			}
			tok.Occupancy = words[i+1]
			i++
		default:
			kept = append(kept, w)
		}
	}
	words = kept

	if len(words) == 0 {
		return nil
	}

	// Directionals and type split off the folded remainder.
	pre, name, typ, post := SplitStreetName(Fold(strings.Join(words, " ")))
	tok.PreDirectional = pre
	tok.StreetName = name
	tok.StreetType = typ
	tok.PostDirectional = post
	return nil
}

func startsWithDigit(s string) bool {
	for _, r := range s {
		return unicode.IsDigit(r)
	}
	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
