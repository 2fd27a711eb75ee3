package match

import (
	"math"

	"github.com/twpayne/go-geom"

	"github.com/sells-group/census-lookup/internal/tiger"
)

// Position maps a house number to a fraction along the range, clamped to
// [0, 1]. Degenerate ranges (from == to) yield the midpoint so the point
// lands on the segment rather than an endpoint.
func Position(r tiger.SideRange, houseNumber int) float64 {
	span := r.To - r.From
	if span == 0 {
		return 0.5
	}
	t := float64(houseNumber-r.From) / float64(span)
	return math.Min(1, math.Max(0, t))
}

// Interpolate walks the polyline by cumulative arc length and returns the
// coordinate at fraction t. Zero-length lines collapse to the first vertex.
func Interpolate(line *geom.LineString, t float64) (lon, lat float64) {
	flat := line.FlatCoords()
	n := len(flat) / 2
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return flat[0], flat[1]
	}

	total := 0.0
	segs := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		dx := flat[2*(i+1)] - flat[2*i]
		dy := flat[2*(i+1)+1] - flat[2*i+1]
		segs[i] = math.Hypot(dx, dy)
		total += segs[i]
	}
	if total == 0 {
		return flat[0], flat[1]
	}

	target := t * total
	walked := 0.0
	for i, seg := range segs {
		if walked+seg >= target {
			frac := 0.0
			if seg > 0 {
				frac = (target - walked) / seg
			}
			lon = flat[2*i] + frac*(flat[2*(i+1)]-flat[2*i])
			lat = flat[2*i+1] + frac*(flat[2*(i+1)+1]-flat[2*i+1])
			return lon, lat
		}
		walked += seg
	}
	return flat[2*(n-1)], flat[2*(n-1)+1]
}

// Point returns the interpolated coordinate for a house number within a
// matched range.
func Point(m Match, houseNumber int) (lon, lat float64) {
	return Interpolate(m.Record.Line, Position(m.Range, houseNumber))
}
