package tiger

import (
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// SideRange is one side of a street segment's house-number span. From/To
// are inclusive and may be descending. Parity is the TIGER code: "O" odd,
// "E" even, "B" both.
type SideRange struct {
	From   int
	To     int
	Parity string
	OK     bool // false when the side carries no range
}

// Contains reports whether the house number lies inside the span and matches
// the side's parity.
func (r SideRange) Contains(houseNumber int) bool {
	if !r.OK {
		return false
	}
	lo, hi := r.From, r.To
	if lo > hi {
		lo, hi = hi, lo
	}
	if houseNumber < lo || houseNumber > hi {
		return false
	}
	return r.parityMatches(houseNumber)
}

// Span is the width of the house-number range.
func (r SideRange) Span() int {
	if r.From > r.To {
		return r.From - r.To
	}
	return r.To - r.From
}

// Distance is how far the house number falls outside the span; zero when
// inside.
func (r SideRange) Distance(houseNumber int) int {
	lo, hi := r.From, r.To
	if lo > hi {
		lo, hi = hi, lo
	}
	switch {
	case houseNumber < lo:
		return lo - houseNumber
	case houseNumber > hi:
		return houseNumber - hi
	default:
		return 0
	}
}

func (r SideRange) parityMatches(houseNumber int) bool {
	odd := houseNumber%2 == 1
	switch r.Parity {
	case "O":
		return odd
	case "E":
		return !odd
	case "B", "":
		return true
	default:
		// Unknown code: fall back to the range start's parity.
		return odd == (r.From%2 == 1)
	}
}

// RangeRecord is one address-range row from a TIGER ADDRFEAT file. Records
// are immutable once loaded and shared read-only across lookups.
type RangeRecord struct {
	SegmentID string
	FullName  string
	Left      SideRange
	Right     SideRange
	ZIPL      string
	ZIPR      string
	Line      *geom.LineString
}

// ParseAddrFeat reads an ADDRFEAT shapefile into range records. Rows without
// a usable name, range, or geometry are skipped.
func ParseAddrFeat(shpPath string) ([]RangeRecord, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "tiger: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fieldIdx := fieldIndex(reader)

	var records []RangeRecord
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		line := polyLineToLineString(shape)
		if line == nil {
			skipped++
			continue
		}

		attr := func(name string) string { return attribute(reader, fieldIdx, name) }
		rec, ok := rangeFromAttrs(attr, line)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	if skipped > 0 {
		zap.L().Debug("tiger: skipped addrfeat records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}
	return records, nil
}

// rangeFromAttrs builds a RangeRecord from an attribute accessor. Returns
// false when the row has no street name or neither side carries a range.
func rangeFromAttrs(attr func(string) string, line *geom.LineString) (RangeRecord, bool) {
	name := attr("FULLNAME")
	if name == "" {
		return RangeRecord{}, false
	}

	rec := RangeRecord{
		SegmentID: attr("LINEARID"),
		FullName:  name,
		ZIPL:      attr("ZIPL"),
		ZIPR:      attr("ZIPR"),
		Line:      line,
		Left:      parseSide(attr("LFROMHN"), attr("LTOHN"), attr("PARITYL")),
		Right:     parseSide(attr("RFROMHN"), attr("RTOHN"), attr("PARITYR")),
	}
	if rec.SegmentID == "" {
		rec.SegmentID = attr("TLID")
	}
	if !rec.Left.OK && !rec.Right.OK {
		return RangeRecord{}, false
	}
	return rec, true
}

// parseSide converts raw from/to attribute values into a SideRange. TIGER
// house numbers are occasionally hyphenated ("12-34"); the leading integer
// wins.
func parseSide(from, to, parity string) SideRange {
	f, okF := houseNumber(from)
	t, okT := houseNumber(to)
	if !okF || !okT {
		return SideRange{}
	}
	return SideRange{From: f, To: t, Parity: strings.ToUpper(parity), OK: true}
}

func houseNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// polyLineToLineString flattens all parts of a shapefile PolyLine into one
// LineString. Segment parts are stored in draw order, so concatenation
// preserves the from→to address direction.
func polyLineToLineString(shape shp.Shape) *geom.LineString {
	pl, ok := shape.(*shp.PolyLine)
	if !ok || pl == nil || len(pl.Points) < 2 {
		return nil
	}
	flat := make([]float64, 0, len(pl.Points)*2)
	for _, p := range pl.Points {
		flat = append(flat, p.X, p.Y)
	}
	return geom.NewLineStringFlat(geom.XY, flat)
}

// fieldIndex builds a lowercase field name → index map for a shapefile.
func fieldIndex(reader *shp.Reader) map[string]int {
	fields := reader.Fields()
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		idx[strings.ToLower(name)] = i
	}
	return idx
}

// attribute reads a named attribute from the current shapefile row, trimming
// DBF padding.
func attribute(reader *shp.Reader, fieldIdx map[string]int, name string) string {
	i, ok := fieldIdx[strings.ToLower(name)]
	if !ok {
		return ""
	}
	val := strings.TrimRight(reader.Attribute(i), "\x00")
	return strings.TrimSpace(val)
}
