// Package match finds the TIGER address range containing a house number and
// interpolates a coordinate along the matched segment.
package match

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/census-lookup/internal/address"
	"github.com/sells-group/census-lookup/internal/tiger"
)

// ErrNoMatch is returned when no address range matches the key.
var ErrNoMatch = eris.New("match: no matching address range")

// Side identifies the side of the street containing the address.
type Side string

const (
	SideLeft  Side = "L"
	SideRight Side = "R"
)

// Scoring holds the score ceilings for each relaxation rung. The values are
// tunable; only their ordering is meaningful.
type Scoring struct {
	Exact              float64 // all street components equal
	TypeRelaxed        float64 // street type ignored
	DirectionalRelaxed float64 // directionals and type ignored
	// OutOfRangePenalty multiplies the rung ceiling when no range contains
	// the house number and the nearest same-street range is used instead.
	OutOfRangePenalty float64
}

// DefaultScoring mirrors the observed behavior of the reference ladder.
func DefaultScoring() Scoring {
	return Scoring{Exact: 1.0, TypeRelaxed: 0.9, DirectionalRelaxed: 0.8, OutOfRangePenalty: 0.5}
}

// Match is a resolved address range: the record, the side whose range won,
// and the score from the relaxation rung that produced it. Exact is false
// when the house number fell outside every same-street range and the nearest
// one was chosen.
type Match struct {
	Record *tiger.RangeRecord
	Side   Side
	Range  tiger.SideRange
	Score  float64
	Exact  bool
}

// streetParts is a record's street name split into canonical components.
type streetParts struct {
	pre, name, typ, post string
}

// Matcher matches normalized keys against one state's address-range records.
// Immutable after construction; safe for concurrent use.
type Matcher struct {
	records []tiger.RangeRecord
	parts   []streetParts
	byName  map[string][]int
	scoring Scoring
}

// NewMatcher indexes the records by folded base street name.
func NewMatcher(records []tiger.RangeRecord, scoring Scoring) *Matcher {
	m := &Matcher{
		records: records,
		parts:   make([]streetParts, len(records)),
		byName:  make(map[string][]int, len(records)),
		scoring: scoring,
	}
	for i, rec := range records {
		pre, name, typ, post := address.SplitStreetName(address.Fold(rec.FullName))
		if name == "" {
			continue
		}
		m.parts[i] = streetParts{pre: pre, name: name, typ: typ, post: post}
		m.byName[name] = append(m.byName[name], i)
	}
	return m
}

// Match resolves a key to the best address range. The relaxation ladder
// tries exact street equality first, then drops the street type, then the
// directionals; the first rung with candidates that contain the house number
// wins. When no rung contains the number, the nearest range from the
// tightest rung that had candidates is returned with a penalized score.
// Returns ErrNoMatch when no record shares the street name.
func (m *Matcher) Match(key address.Key) (Match, error) {
	indices := m.byName[key.StreetName]
	if len(indices) == 0 {
		return Match{}, ErrNoMatch
	}

	type rung struct {
		accept func(streetParts) bool
		score  float64
	}
	rungs := []rung{
		{func(p streetParts) bool {
			return p.typ == key.StreetType && p.pre == key.PreDirectional && p.post == key.PostDirectional
		}, m.scoring.Exact},
		{func(p streetParts) bool {
			return p.pre == key.PreDirectional && p.post == key.PostDirectional
		}, m.scoring.TypeRelaxed},
		{func(streetParts) bool { return true }, m.scoring.DirectionalRelaxed},
	}

	var fallback *Match
	for _, r := range rungs {
		candidates := m.filter(indices, key, r.accept)
		if len(candidates) == 0 {
			continue
		}

		if hit, ok := m.tightestContaining(candidates, key.HouseNumber); ok {
			hit.Score = r.score
			hit.Exact = true
			return hit, nil
		}

		// Remember the nearest range from the tightest rung only.
		if fallback == nil {
			if near, ok := m.nearest(candidates, key.HouseNumber); ok {
				near.Score = r.score * m.scoring.OutOfRangePenalty
				fallback = &near
			}
		}
	}

	if fallback != nil {
		return *fallback, nil
	}
	return Match{}, ErrNoMatch
}

// filter keeps candidates passing the rung's street test, restricted to
// ZIP-matching records when the key has a ZIP and at least one candidate
// agrees with it.
func (m *Matcher) filter(indices []int, key address.Key, accept func(streetParts) bool) []int {
	var out []int
	for _, i := range indices {
		if accept(m.parts[i]) {
			out = append(out, i)
		}
	}
	if key.ZIP == "" {
		return out
	}
	var zipped []int
	for _, i := range out {
		if m.records[i].ZIPL == key.ZIP || m.records[i].ZIPR == key.ZIP {
			zipped = append(zipped, i)
		}
	}
	if len(zipped) > 0 {
		return zipped
	}
	return out
}

// tightestContaining picks the containing side with the smallest span.
// Ties beyond span resolve to insertion order, which keeps results stable.
func (m *Matcher) tightestContaining(indices []int, houseNumber int) (Match, bool) {
	var best Match
	bestSpan := -1
	for _, i := range indices {
		rec := &m.records[i]
		for _, side := range []struct {
			s Side
			r tiger.SideRange
		}{{SideLeft, rec.Left}, {SideRight, rec.Right}} {
			if !side.r.Contains(houseNumber) {
				continue
			}
			if span := side.r.Span(); bestSpan < 0 || span < bestSpan {
				bestSpan = span
				best = Match{Record: rec, Side: side.s, Range: side.r}
			}
		}
	}
	return best, bestSpan >= 0
}

// nearest picks the range whose boundary is closest to the house number.
func (m *Matcher) nearest(indices []int, houseNumber int) (Match, bool) {
	var best Match
	bestDist := -1
	for _, i := range indices {
		rec := &m.records[i]
		for _, side := range []struct {
			s Side
			r tiger.SideRange
		}{{SideLeft, rec.Left}, {SideRight, rec.Right}} {
			if !side.r.OK {
				continue
			}
			if d := side.r.Distance(houseNumber); bestDist < 0 || d < bestDist {
				bestDist = d
				best = Match{Record: rec, Side: side.s, Range: side.r}
			}
		}
	}
	return best, bestDist >= 0
}
