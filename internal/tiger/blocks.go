package tiger

import (
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// BlockPolygon is one 2020 tabulation block: its 15-digit GEOID and boundary
// rings. Within a state the indexed boundaries partition the land area
// (best effort; coastal and boundary slivers can fall outside every ring).
type BlockPolygon struct {
	GEOID   string
	Polygon *geom.Polygon
}

// ParseBlocks reads a TABBLOCK20 shapefile into block polygons. Rows without
// a 15-digit GEOID or usable geometry are skipped.
func ParseBlocks(shpPath string) ([]BlockPolygon, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "tiger: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fieldIdx := fieldIndex(reader)

	var blocks []BlockPolygon
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		id := attribute(reader, fieldIdx, "GEOID20")
		poly := shapePolygon(shape)
		if len(id) != 15 || poly == nil {
			skipped++
			continue
		}
		blocks = append(blocks, BlockPolygon{GEOID: id, Polygon: poly})
	}

	if skipped > 0 {
		zap.L().Debug("tiger: skipped block records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}
	return blocks, nil
}

// shapePolygon converts a shapefile Polygon to a geom.Polygon, keeping every
// part as a ring (outer rings and holes alike; containment tests use the
// even-odd rule, so the distinction does not matter).
func shapePolygon(shape shp.Shape) *geom.Polygon {
	sp, ok := shape.(*shp.Polygon)
	if !ok || sp == nil || sp.NumParts == 0 || len(sp.Points) < 3 {
		return nil
	}

	flat := make([]float64, 0, len(sp.Points)*2)
	ends := make([]int, 0, sp.NumParts)
	for i := int32(0); i < sp.NumParts; i++ {
		start := sp.Parts[i]
		end := int32(len(sp.Points))
		if i+1 < sp.NumParts {
			end = sp.Parts[i+1]
		}
		for j := start; j < end; j++ {
			flat = append(flat, sp.Points[j].X, sp.Points[j].Y)
		}
		ends = append(ends, len(flat))
	}

	return geom.NewPolygonFlat(geom.XY, flat, ends)
}
