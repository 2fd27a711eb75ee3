package census

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/census-lookup/internal/geoid"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ptr(v float64) *float64 { return &v }

func TestPL94Values_BlockLevel(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.LoadPL94(ctx, "06", []Row{
		{GEOID: "060371011001001", Values: map[string]float64{"P1_001N": 42, "H1_001N": 18}},
		{GEOID: "060371011001002", Values: map[string]float64{"P1_001N": 58, "H1_001N": 22}},
	}))

	vals, err := s.PL94Values(ctx, "060371011001001", geoid.LevelBlock, []string{"P1_001N", "H1_001N"})
	require.NoError(t, err)
	assert.Equal(t, ptr(42.0), vals["P1_001N"])
	assert.Equal(t, ptr(18.0), vals["H1_001N"])
}

func TestPL94Values_Aggregates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.LoadPL94(ctx, "06", []Row{
		{GEOID: "060371011001001", Values: map[string]float64{"P1_001N": 42}},
		{GEOID: "060371011001002", Values: map[string]float64{"P1_001N": 58}},
		{GEOID: "060371011002001", Values: map[string]float64{"P1_001N": 100}},
		{GEOID: "060379999991001", Values: map[string]float64{"P1_001N": 7}},
	}))

	// Block group sums its two blocks only.
	vals, err := s.PL94Values(ctx, "060371011001001", geoid.LevelBlockGroup, []string{"P1_001N"})
	require.NoError(t, err)
	assert.Equal(t, ptr(100.0), vals["P1_001N"])

	// Tract adds the second block group.
	vals, err = s.PL94Values(ctx, "060371011001001", geoid.LevelTract, []string{"P1_001N"})
	require.NoError(t, err)
	assert.Equal(t, ptr(200.0), vals["P1_001N"])

	// County covers both tracts.
	vals, err = s.PL94Values(ctx, "060371011001001", geoid.LevelCounty, []string{"P1_001N"})
	require.NoError(t, err)
	assert.Equal(t, ptr(207.0), vals["P1_001N"])
}

func TestPL94Values_MissingVariableIsNil(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.LoadPL94(ctx, "06", []Row{
		{GEOID: "060371011001001", Values: map[string]float64{"P1_001N": 42}},
	}))

	vals, err := s.PL94Values(ctx, "060371011001001", geoid.LevelBlock, []string{"P1_001N", "P2_002N"})
	require.NoError(t, err)
	assert.Equal(t, ptr(42.0), vals["P1_001N"])
	assert.Nil(t, vals["P2_002N"])
}

func TestACSValues_TractForAnyGEOID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.LoadACS(ctx, "06", []Row{
		{GEOID: "06037101100", Values: map[string]float64{"B19013_001E": 65000}},
	}))

	// Block and tract GEOIDs resolve to the same tract row.
	block, err := s.ACSValues(ctx, "060371011001001", []string{"B19013_001E"})
	require.NoError(t, err)
	tract, err := s.ACSValues(ctx, "06037101100", []string{"B19013_001E"})
	require.NoError(t, err)
	assert.Equal(t, ptr(65000.0), block["B19013_001E"])
	assert.Equal(t, block["B19013_001E"], tract["B19013_001E"])
}

func TestLoadPL94_ReloadReplaces(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.LoadPL94(ctx, "06", []Row{
		{GEOID: "060371011001001", Values: map[string]float64{"P1_001N": 42}},
	}))
	require.NoError(t, s.LoadPL94(ctx, "06", []Row{
		{GEOID: "060371011001002", Values: map[string]float64{"P1_001N": 58}},
	}))

	// No double counting after reload.
	vals, err := s.PL94Values(ctx, "060371011001001", geoid.LevelTract, []string{"P1_001N"})
	require.NoError(t, err)
	assert.Equal(t, ptr(58.0), vals["P1_001N"])
}

func TestHasStateAndClear(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	ok, err := s.HasState(ctx, "pl94", "06")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.LoadPL94(ctx, "06", []Row{
		{GEOID: "060371011001001", Values: map[string]float64{"P1_001N": 42}},
	}))

	ok, err = s.HasState(ctx, "pl94", "06")
	require.NoError(t, err)
	assert.True(t, ok)

	states, err := s.LoadedStates(ctx, "pl94")
	require.NoError(t, err)
	assert.Equal(t, []string{"06"}, states)

	require.NoError(t, s.ClearState(ctx, "pl94", "06"))
	ok, err = s.HasState(ctx, "pl94", "06")
	require.NoError(t, err)
	assert.False(t, ok)

	vals, err := s.PL94Values(ctx, "060371011001001", geoid.LevelBlock, []string{"P1_001N"})
	require.NoError(t, err)
	assert.Nil(t, vals["P1_001N"])
}
