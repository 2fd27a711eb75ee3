package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/census-lookup/internal/tiger"
)

// square builds a closed square ring polygon from (x0,y0) to (x1,y1).
func square(x0, y0, x1, y1 float64) *geom.Polygon {
	flat := []float64{x0, y0, x1, y0, x1, y1, x0, y1, x0, y0}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}

func testIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex([]tiger.BlockPolygon{
		{GEOID: "060371011001001", Polygon: square(-118.30, 34.00, -118.20, 34.10)},
		{GEOID: "060371011001002", Polygon: square(-118.20, 34.00, -118.10, 34.10)},
		{GEOID: "060371011002001", Polygon: square(-118.30, 34.10, -118.20, 34.20)},
	})
	require.NoError(t, err)
	return idx
}

func TestLocate(t *testing.T) {
	idx := testIndex(t)
	assert.Equal(t, 3, idx.Size())

	id, err := idx.Locate(-118.25, 34.05)
	require.NoError(t, err)
	assert.Equal(t, "060371011001001", id)

	id, err = idx.Locate(-118.15, 34.05)
	require.NoError(t, err)
	assert.Equal(t, "060371011001002", id)
}

func TestLocate_NoContainment(t *testing.T) {
	idx := testIndex(t)

	_, err := idx.Locate(-120.0, 40.0)
	assert.ErrorIs(t, err, ErrNoContainment)
}

func TestLocate_Deterministic(t *testing.T) {
	idx := testIndex(t)

	first, err := idx.Locate(-118.25, 34.05)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		id, err := idx.Locate(-118.25, 34.05)
		require.NoError(t, err)
		assert.Equal(t, first, id)
	}
}

func TestLocate_OverlapPrefersSmallestGEOID(t *testing.T) {
	// Overlapping polygons model a numerically ambiguous boundary; the
	// lexicographically smallest GEOID wins.
	idx, err := NewIndex([]tiger.BlockPolygon{
		{GEOID: "060371011001009", Polygon: square(0, 0, 1, 1)},
		{GEOID: "060371011001001", Polygon: square(0, 0, 1, 1)},
	})
	require.NoError(t, err)

	id, err := idx.Locate(0.5, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "060371011001001", id)
}

func TestPolygonContains_Hole(t *testing.T) {
	// Outer ring with a hole: even-odd rule excludes the hole.
	flat := []float64{
		0, 0, 10, 0, 10, 10, 0, 10, 0, 0, // outer
		4, 4, 6, 4, 6, 6, 4, 6, 4, 4, // hole
	}
	poly := geom.NewPolygonFlat(geom.XY, flat, []int{10, 20})

	assert.True(t, polygonContains(poly, 2, 2))
	assert.False(t, polygonContains(poly, 5, 5))
	assert.False(t, polygonContains(poly, 11, 5))
}
