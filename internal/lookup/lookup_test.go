package lookup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/census-lookup/internal/census"
	"github.com/sells-group/census-lookup/internal/dataset"
	"github.com/sells-group/census-lookup/internal/geoid"
	"github.com/sells-group/census-lookup/internal/match"
	"github.com/sells-group/census-lookup/internal/spatial"
	"github.com/sells-group/census-lookup/internal/tiger"
)

// stubData serves a fixed California block of downtown-ish geometry.
type stubData struct {
	state    *dataset.State
	store    *census.Store
	stateErr error
	acsErr   error
}

func (s *stubData) EnsureState(_ context.Context, stateFIPS string) (*dataset.State, error) {
	if s.stateErr != nil {
		return nil, s.stateErr
	}
	if stateFIPS != s.state.FIPS {
		return nil, dataset.ErrDatasetUnavailable
	}
	return s.state, nil
}

func (s *stubData) EnsureACS(context.Context, string, []string) error { return s.acsErr }

func (s *stubData) Store() *census.Store { return s.store }

func square(x0, y0, x1, y1 float64) *geom.Polygon {
	flat := []float64{x0, y0, x1, y0, x1, y1, x0, y1, x0, y0}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}

func line(coords ...float64) *geom.LineString {
	return geom.NewLineStringFlat(geom.XY, coords)
}

func testService(t *testing.T) (*Service, *stubData) {
	t.Helper()

	records := []tiger.RangeRecord{
		{
			SegmentID: "seg-main",
			FullName:  "Main St",
			Left:      tiger.SideRange{From: 101, To: 199, Parity: "O", OK: true},
			Right:     tiger.SideRange{From: 100, To: 198, Parity: "E", OK: true},
			ZIPL:      "90012",
			ZIPR:      "90012",
			Line:      line(-118.25, 34.05, -118.24, 34.05),
		},
		{
			SegmentID: "seg-elm",
			FullName:  "Elm St",
			Left:      tiger.SideRange{From: 1, To: 99, Parity: "B", OK: true},
			Line:      line(10, 10, 10.01, 10),
		},
	}
	index, err := spatial.NewIndex([]tiger.BlockPolygon{
		{GEOID: "060371011001001", Polygon: square(-118.30, 34.00, -118.20, 34.10)},
		{GEOID: "060371011001002", Polygon: square(-118.20, 34.00, -118.10, 34.10)},
	})
	require.NoError(t, err)

	store, err := census.OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.LoadPL94(ctx, "06", []census.Row{
		{GEOID: "060371011001001", Values: map[string]float64{"P1_001N": 42, "H1_001N": 18}},
		{GEOID: "060371011001002", Values: map[string]float64{"P1_001N": 58, "H1_001N": 22}},
	}))
	require.NoError(t, store.LoadACS(ctx, "06", []census.Row{
		{GEOID: "06037101100", Values: map[string]float64{"B19013_001E": 65000}},
	}))

	data := &stubData{
		state: &dataset.State{
			FIPS:    "06",
			Matcher: match.NewMatcher(records, match.DefaultScoring()),
			Index:   index,
		},
		store: store,
	}
	return NewService(data, 4), data
}

func TestGeocode(t *testing.T) {
	svc, _ := testService(t)

	res, err := svc.Geocode(context.Background(), Request{
		Address: "123 Main St, Los Angeles, CA 90012",
	})
	require.NoError(t, err)

	assert.Equal(t, MatchExact, res.MatchType)
	assert.Equal(t, 1.0, res.MatchScore)
	assert.Equal(t, "Main St", res.MatchedStreet)
	assert.Empty(t, res.Error)

	require.Len(t, res.GEOID, 15)
	assert.Equal(t, "060371011001001", res.GEOID)
	assert.Equal(t, "06", res.StateFIPS)
	assert.Equal(t, "037", res.CountyFIPS)
	assert.Equal(t, "101100", res.Tract)
	assert.Equal(t, "1", res.BlockGroup)
	assert.Equal(t, res.GEOID[11:15], res.Block)

	require.NotNil(t, res.Variables["P1_001N"])
	assert.Equal(t, 42.0, *res.Variables["P1_001N"])

	require.NotNil(t, res.Longitude)
	assert.InDelta(t, -118.2478, *res.Longitude, 1e-3)
	assert.InDelta(t, 34.05, *res.Latitude, 1e-9)
}

func TestGeocode_DefaultsToPopulation(t *testing.T) {
	svc, _ := testService(t)

	res, err := svc.Geocode(context.Background(), Request{
		Address: "123 Main St, Los Angeles, CA",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Variables["P1_001N"])
}

func TestGeocode_TractAggregation(t *testing.T) {
	svc, _ := testService(t)

	res, err := svc.Geocode(context.Background(), Request{
		Address: "123 Main St, Los Angeles, CA",
		Level:   geoid.LevelTract,
	})
	require.NoError(t, err)
	assert.Equal(t, string(geoid.LevelTract), res.Level)
	require.NotNil(t, res.Variables["P1_001N"])
	assert.Equal(t, 100.0, *res.Variables["P1_001N"])
}

func TestGeocode_ACSSameAtBlockAndTract(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	atBlock, err := svc.Geocode(ctx, Request{
		Address:   "123 Main St, Los Angeles, CA",
		Level:     geoid.LevelBlock,
		Variables: []string{"B19013_001E"},
	})
	require.NoError(t, err)
	atTract, err := svc.Geocode(ctx, Request{
		Address:   "123 Main St, Los Angeles, CA",
		Level:     geoid.LevelTract,
		Variables: []string{"B19013_001E"},
	})
	require.NoError(t, err)

	require.NotNil(t, atBlock.Variables["B19013_001E"])
	require.NotNil(t, atTract.Variables["B19013_001E"])
	assert.Equal(t, 65000.0, *atBlock.Variables["B19013_001E"])
	assert.Equal(t, *atBlock.Variables["B19013_001E"], *atTract.Variables["B19013_001E"])
}

func TestGeocode_MissingVariableIsNull(t *testing.T) {
	svc, _ := testService(t)

	res, err := svc.Geocode(context.Background(), Request{
		Address:   "123 Main St, Los Angeles, CA",
		Variables: []string{"P1_001N", "P2_002N"},
	})
	require.NoError(t, err)
	require.Contains(t, res.Variables, "P2_002N")
	assert.Nil(t, res.Variables["P2_002N"])
}

func TestGeocode_UnmatchedCases(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	// No house number.
	res, err := svc.Geocode(ctx, Request{Address: "Main St, Los Angeles, CA"})
	require.NoError(t, err)
	assert.Equal(t, MatchUnmatched, res.MatchType)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.GEOID)

	// No recognizable state.
	res, err = svc.Geocode(ctx, Request{Address: "123 Main St"})
	require.NoError(t, err)
	assert.Equal(t, MatchUnmatched, res.MatchType)

	// Unknown street.
	res, err = svc.Geocode(ctx, Request{Address: "123 Nowhere Blvd, Los Angeles, CA"})
	require.NoError(t, err)
	assert.Equal(t, MatchUnmatched, res.MatchType)
}

func TestGeocode_NoContainmentKeepsCoordinates(t *testing.T) {
	svc, _ := testService(t)

	// Elm St interpolates far from every indexed block.
	res, err := svc.Geocode(context.Background(), Request{Address: "23 Elm St, Los Angeles, CA"})
	require.NoError(t, err)
	assert.Equal(t, MatchUnmatched, res.MatchType)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.GEOID)
	require.NotNil(t, res.Longitude)
	assert.InDelta(t, 10.0, *res.Latitude, 1e-6)
}

func TestGeocode_DatasetUnavailable(t *testing.T) {
	svc, data := testService(t)
	data.stateErr = dataset.ErrDatasetUnavailable

	_, err := svc.Geocode(context.Background(), Request{Address: "123 Main St, Los Angeles, CA"})
	assert.ErrorIs(t, err, dataset.ErrDatasetUnavailable)
}

func TestGeocodeBatch_PreservesOrderAndIsolatesFailures(t *testing.T) {
	svc, _ := testService(t)

	addresses := []string{
		"123 Main St, Los Angeles, CA 90012",
		"Main St, Los Angeles, CA",
		"185 Main St, Los Angeles, CA",
	}
	results, err := svc.GeocodeBatch(context.Background(), addresses, geoid.LevelBlock, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		assert.Equal(t, addresses[i], res.InputAddress)
	}
	assert.Equal(t, MatchExact, results[0].MatchType)
	assert.Equal(t, MatchUnmatched, results[1].MatchType)
	assert.Equal(t, MatchExact, results[2].MatchType)
}

func TestGeocodeBatch_DatasetErrorIsolatesToRow(t *testing.T) {
	svc, data := testService(t)
	data.stateErr = dataset.ErrDatasetUnavailable

	results, err := svc.GeocodeBatch(context.Background(),
		[]string{"123 Main St, Los Angeles, CA"}, geoid.LevelBlock, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, MatchUnmatched, results[0].MatchType)
	assert.NotEmpty(t, results[0].Error)
}

func TestLookupCoordinates(t *testing.T) {
	svc, _ := testService(t)

	res, err := svc.LookupCoordinates(context.Background(),
		"06", 34.05, -118.25, geoid.LevelBlock, []string{"P1_001N"})
	require.NoError(t, err)
	assert.Equal(t, "060371011001001", res.GEOID)
	require.NotNil(t, res.Variables["P1_001N"])
	assert.Equal(t, 42.0, *res.Variables["P1_001N"])

	res, err = svc.LookupCoordinates(context.Background(),
		"06", 0, 0, geoid.LevelBlock, nil)
	require.NoError(t, err)
	assert.Equal(t, MatchUnmatched, res.MatchType)
}
