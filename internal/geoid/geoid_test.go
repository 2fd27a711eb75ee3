package geoid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	c, err := Parse("060371011001001")
	require.NoError(t, err)

	assert.Equal(t, "06", c.State)
	assert.Equal(t, "037", c.County)
	assert.Equal(t, "101100", c.Tract)
	assert.Equal(t, "1", c.BlockGroup)
	assert.Equal(t, "1001", c.Block)

	assert.Equal(t, "06037", c.CountyFIPS())
	assert.Equal(t, "06037101100", c.TractGEOID())
	assert.Equal(t, "060371011001", c.BlockGroupGEOID())
}

func TestParse_PrefixContainment(t *testing.T) {
	// Prefixes of length 2/5/11/12 equal the state, county, tract, and
	// block-group identifiers.
	id := "482012231001050"
	c, err := Parse(id)
	require.NoError(t, err)

	assert.Equal(t, id[:2], c.State)
	assert.Equal(t, id[:5], c.CountyFIPS())
	assert.Equal(t, id[:11], c.TractGEOID())
	assert.Equal(t, id[:12], c.BlockGroupGEOID())
	assert.Equal(t, id[11:15], c.Block)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("0603710110010")
	assert.Error(t, err)

	_, err = Parse("06037101100100X")
	assert.Error(t, err)
}

func TestLevelLen(t *testing.T) {
	assert.Equal(t, 2, LevelState.Len())
	assert.Equal(t, 5, LevelCounty.Len())
	assert.Equal(t, 11, LevelTract.Len())
	assert.Equal(t, 12, LevelBlockGroup.Len())
	assert.Equal(t, 15, LevelBlock.Len())
}

func TestLevelFromLen(t *testing.T) {
	assert.Equal(t, LevelBlock, LevelFromLen(15))
	assert.Equal(t, LevelBlockGroup, LevelFromLen(12))
	assert.Equal(t, LevelTract, LevelFromLen(11))
	assert.Equal(t, LevelCounty, LevelFromLen(5))
	assert.Equal(t, LevelState, LevelFromLen(2))
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("tract")
	require.NoError(t, err)
	assert.Equal(t, LevelTract, l)

	_, err = ParseLevel("zip")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	id := "060371011001001"
	assert.Equal(t, "06", Truncate(id, LevelState))
	assert.Equal(t, "06037101100", Truncate(id, LevelTract))
	assert.Equal(t, id, Truncate(id, LevelBlock))
	assert.Equal(t, "06037", Truncate("06037", LevelTract))
}
