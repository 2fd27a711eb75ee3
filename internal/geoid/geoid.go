// Package geoid parses Census 2020 geographic identifiers.
//
// A full block GEOID is 15 digits; digit prefixes of length 2, 5, 11, and 12
// identify the containing state, county, tract, and block group. Downstream
// consumers key on these lengths, so they are a bit-exact contract.
package geoid

import (
	"github.com/rotisserie/eris"
)

// Level is a geographic hierarchy level.
type Level string

const (
	LevelState      Level = "state"
	LevelCounty     Level = "county"
	LevelTract      Level = "tract"
	LevelBlockGroup Level = "block_group"
	LevelBlock      Level = "block"
)

// Len returns the GEOID prefix length for the level.
func (l Level) Len() int {
	switch l {
	case LevelState:
		return 2
	case LevelCounty:
		return 5
	case LevelTract:
		return 11
	case LevelBlockGroup:
		return 12
	default:
		return 15
	}
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelState, LevelCounty, LevelTract, LevelBlockGroup, LevelBlock:
		return true
	}
	return false
}

// ParseLevel converts a level name to a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if !l.Valid() {
		return "", eris.Errorf("geoid: unknown level %q", s)
	}
	return l, nil
}

// LevelFromLen returns the finest level whose GEOID fits in length n.
func LevelFromLen(n int) Level {
	switch {
	case n >= 15:
		return LevelBlock
	case n >= 12:
		return LevelBlockGroup
	case n >= 11:
		return LevelTract
	case n >= 5:
		return LevelCounty
	default:
		return LevelState
	}
}

// Components holds the pieces of a full 15-digit block GEOID.
type Components struct {
	State      string // 2 digits
	County     string // 3 digits
	Tract      string // 6 digits
	BlockGroup string // 1 digit
	Block      string // 4 digits, first digit is the block group
}

// Parse splits a 15-digit block GEOID into components.
func Parse(id string) (Components, error) {
	if len(id) != 15 {
		return Components{}, eris.Errorf("geoid: want 15 digits, got %d", len(id))
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return Components{}, eris.Errorf("geoid: non-digit in %q", id)
		}
	}
	return Components{
		State:      id[:2],
		County:     id[2:5],
		Tract:      id[5:11],
		BlockGroup: id[11:12],
		Block:      id[11:15],
	}, nil
}

// CountyFIPS returns the 5-digit county identifier (state + county).
func (c Components) CountyFIPS() string { return c.State + c.County }

// TractGEOID returns the 11-digit tract identifier.
func (c Components) TractGEOID() string { return c.State + c.County + c.Tract }

// BlockGroupGEOID returns the 12-digit block group identifier.
func (c Components) BlockGroupGEOID() string {
	return c.State + c.County + c.Tract + c.BlockGroup
}

// Truncate cuts a block GEOID down to the given level's prefix length.
func Truncate(id string, level Level) string {
	n := level.Len()
	if len(id) <= n {
		return id
	}
	return id[:n]
}
