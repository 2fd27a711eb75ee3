// Package spatial answers point-in-block containment queries against the
// TIGER block polygons of one state.
package spatial

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/census-lookup/internal/tiger"
)

// ErrNoContainment is returned when no indexed block contains the point.
var ErrNoContainment = eris.New("spatial: no containing block")

// minExtent pads degenerate bounding boxes so the R-tree accepts them.
const minExtent = 1e-9

type entry struct {
	block tiger.BlockPolygon
	rect  rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.rect }

// Index is an immutable two-phase containment index: an R-tree shortlists
// blocks by bounding box, then an exact ray-cast test picks the containing
// polygon. Safe for concurrent readers once built.
type Index struct {
	tree *rtreego.Rtree
	size int
}

// NewIndex builds an index over the given block polygons.
func NewIndex(blocks []tiger.BlockPolygon) (*Index, error) {
	tree := rtreego.NewTree(2, 25, 50)
	for _, b := range blocks {
		bounds := b.Polygon.Bounds()
		w := bounds.Max(0) - bounds.Min(0)
		h := bounds.Max(1) - bounds.Min(1)
		if w < minExtent {
			w = minExtent
		}
		if h < minExtent {
			h = minExtent
		}
		rect, err := rtreego.NewRect(rtreego.Point{bounds.Min(0), bounds.Min(1)}, []float64{w, h})
		if err != nil {
			return nil, eris.Wrapf(err, "spatial: bounds for block %s", b.GEOID)
		}
		tree.Insert(&entry{block: b, rect: rect})
	}
	return &Index{tree: tree, size: len(blocks)}, nil
}

// Size returns the number of indexed blocks.
func (idx *Index) Size() int { return idx.size }

// Locate returns the 15-digit GEOID of the block containing the coordinate.
// A point on a shared boundary resolves to the lexicographically smallest
// GEOID so repeated queries are deterministic. Returns ErrNoContainment when
// the point falls outside every indexed block.
func (idx *Index) Locate(lon, lat float64) (string, error) {
	probe, err := rtreego.NewRect(rtreego.Point{lon, lat}, []float64{minExtent, minExtent})
	if err != nil {
		return "", eris.Wrap(err, "spatial: probe rect")
	}

	var matches []string
	for _, candidate := range idx.tree.SearchIntersect(probe) {
		e := candidate.(*entry)
		if polygonContains(e.block.Polygon, lon, lat) {
			matches = append(matches, e.block.GEOID)
		}
	}

	if len(matches) == 0 {
		return "", ErrNoContainment
	}
	sort.Strings(matches)
	return matches[0], nil
}

// polygonContains runs an even-odd ray cast across every ring, so holes and
// multipart outers need no special casing.
func polygonContains(poly *geom.Polygon, x, y float64) bool {
	inside := false
	for r := 0; r < poly.NumLinearRings(); r++ {
		flat := poly.LinearRing(r).FlatCoords()
		n := len(flat) / 2
		for i, j := 0, n-1; i < n; j, i = i, i+1 {
			xi, yi := flat[2*i], flat[2*i+1]
			xj, yj := flat[2*j], flat[2*j+1]
			if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
				inside = !inside
			}
		}
	}
	return inside
}
