// Package lookup runs the full address-to-variables pipeline: parse, match,
// interpolate, spatially resolve, and join census variables.
package lookup

import "github.com/sells-group/census-lookup/internal/geoid"

// Match type of a result.
const (
	MatchExact        = "exact"        // a range contained the house number
	MatchInterpolated = "interpolated" // nearest same-street range was used
	MatchUnmatched    = "unmatched"
)

// Result is one geocoded address with its census variables. Variables map
// codes to values; a nil value means the variable had no data for the
// geography. Unmatched rows carry Error and empty geography fields.
type Result struct {
	InputAddress  string  `json:"input_address"`
	MatchedStreet string  `json:"matched_street,omitempty"`
	MatchType     string  `json:"match_type"`
	MatchScore    float64 `json:"match_score,omitempty"`

	Longitude *float64 `json:"longitude,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`

	GEOID      string `json:"geoid,omitempty"`
	Level      string `json:"level,omitempty"`
	StateFIPS  string `json:"state_fips,omitempty"`
	CountyFIPS string `json:"county_fips,omitempty"`
	Tract      string `json:"tract,omitempty"`
	BlockGroup string `json:"block_group,omitempty"`
	Block      string `json:"block,omitempty"`

	Variables map[string]*float64 `json:"variables,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// unmatched builds a failed result for an address.
func unmatched(addr, reason string) Result {
	return Result{
		InputAddress: addr,
		MatchType:    MatchUnmatched,
		Error:        reason,
	}
}

// setGeography fills the GEOID-derived fields from a 15-digit block GEOID.
func (r *Result) setGeography(id string, level geoid.Level) error {
	c, err := geoid.Parse(id)
	if err != nil {
		return err
	}
	r.GEOID = id
	r.Level = string(level)
	r.StateFIPS = c.State
	r.CountyFIPS = c.County
	r.Tract = c.Tract
	r.BlockGroup = c.BlockGroup
	r.Block = c.Block
	return nil
}
