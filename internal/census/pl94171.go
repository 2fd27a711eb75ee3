package census

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/census-lookup/internal/fips"
	"github.com/sells-group/census-lookup/internal/geoid"
)

// PL 94-171 legacy format: each state zip holds a pipe-delimited geographic
// header (xxgeo2020.pl) plus numbered segment files. Segment 1 carries tables
// P1 and P2, segment 2 carries P3, P4 and H1.

// summaryLevels maps geographic levels to their SUMLEV codes.
var summaryLevels = map[geoid.Level]string{
	geoid.LevelState:      "040",
	geoid.LevelCounty:     "050",
	geoid.LevelTract:      "140",
	geoid.LevelBlockGroup: "150",
	geoid.LevelBlock:      "750",
}

// Geo header positions after splitting on the pipe. The GEOID field reads
// like "7500000US060371011001001"; everything after US is the bare GEOID.
const (
	geoSumLevIdx   = 2
	geoLogRecNoIdx = 7
	geoGEOIDIdx    = 9
)

const segmentHeaderCols = 5 // FILEID, STUSAB, CHARITER, CIFSN, LOGRECNO

// Row is one geography's variable values at the parsed summary level.
type Row struct {
	GEOID  string
	Values map[string]float64
}

// PL94URL returns the download URL for a state's legacy format zip.
func PL94URL(stateFIPS string) (string, error) {
	name := fips.Name(stateFIPS)
	abbr, ok := fips.Abbr(stateFIPS)
	if !ok || name == "" {
		return "", eris.Errorf("census: unknown state FIPS %q", stateFIPS)
	}
	const base = "https://www2.census.gov/programs-surveys/decennial/2020/data/01-Redistricting_File--PL_94-171"
	return fmt.Sprintf("%s/%s/%s2020.pl.zip",
		base, strings.ReplaceAll(name, " ", "_"), strings.ToLower(abbr)), nil
}

// ParsePL94171 reads a state's legacy format zip and returns rows at the
// requested summary level, keeping only the named variables.
func ParsePL94171(zipPath string, level geoid.Level, variables []string) ([]Row, error) {
	sumlev, ok := summaryLevels[level]
	if !ok {
		return nil, eris.Errorf("census: no summary level for %s", level)
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrapf(err, "census: open %s", zipPath)
	}
	defer func() { _ = zr.Close() }()

	geoFile, abbr, err := findGeoFile(zr)
	if err != nil {
		return nil, err
	}

	geoids, err := parseGeoFile(geoFile, sumlev)
	if err != nil {
		return nil, err
	}

	want := make(map[string]bool, len(variables))
	for _, v := range variables {
		want[v] = true
	}

	values := make(map[string]map[string]float64, len(geoids))
	for seg, columns := range map[string][]string{
		abbr + "000012020.pl": segment1Columns(),
		abbr + "000022020.pl": segment2Columns(),
	} {
		if err := parseSegment(zr, seg, columns, geoids, want, values); err != nil {
			return nil, err
		}
	}

	rows := make([]Row, 0, len(values))
	for id, vals := range values {
		rows = append(rows, Row{GEOID: id, Values: vals})
	}
	zap.L().Debug("census: parsed legacy file",
		zap.String("path", zipPath),
		zap.String("sumlev", sumlev),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

// findGeoFile locates the geographic header inside the zip and derives the
// state abbreviation from its name.
func findGeoFile(zr *zip.ReadCloser) (*zip.File, string, error) {
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "geo2020.pl") {
			base := f.Name[strings.LastIndex(f.Name, "/")+1:]
			if len(base) < 2 {
				continue
			}
			return f, strings.ToLower(base[:2]), nil
		}
	}
	return nil, "", eris.New("census: geographic header missing from zip")
}

// parseGeoFile maps LOGRECNO to bare GEOID for rows at the summary level.
func parseGeoFile(f *zip.File, sumlev string) (map[string]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, eris.Wrapf(err, "census: open %s", f.Name)
	}
	defer func() { _ = rc.Close() }()

	geoids := make(map[string]string)
	scanner := newLineScanner(rc)
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "|")
		if len(parts) <= geoGEOIDIdx || parts[geoSumLevIdx] != sumlev {
			continue
		}
		id := parts[geoGEOIDIdx]
		if i := strings.Index(id, "US"); i >= 0 {
			id = id[i+2:]
		}
		geoids[parts[geoLogRecNoIdx]] = id
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "census: read %s", f.Name)
	}
	return geoids, nil
}

// parseSegment merges one segment file's wanted columns into values by GEOID.
func parseSegment(
	zr *zip.ReadCloser,
	name string,
	columns []string,
	geoids map[string]string,
	want map[string]bool,
	values map[string]map[string]float64,
) error {
	f := fileByName(zr, name)
	if f == nil {
		return eris.Errorf("census: segment %s missing from zip", name)
	}
	rc, err := f.Open()
	if err != nil {
		return eris.Wrapf(err, "census: open %s", name)
	}
	defer func() { _ = rc.Close() }()

	scanner := newLineScanner(rc)
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "|")
		if len(parts) <= segmentHeaderCols {
			continue
		}
		id, ok := geoids[parts[segmentHeaderCols-1]]
		if !ok {
			continue
		}
		row := values[id]
		if row == nil {
			row = make(map[string]float64)
			values[id] = row
		}
		for i, col := range columns {
			idx := segmentHeaderCols + i
			if idx >= len(parts) || !want[col] {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[idx]), 64)
			if err != nil {
				continue
			}
			row[col] = v
		}
	}
	return eris.Wrapf(scanner.Err(), "census: read %s", name)
}

func fileByName(zr *zip.ReadCloser, name string) *zip.File {
	for _, f := range zr.File {
		base := f.Name[strings.LastIndex(f.Name, "/")+1:]
		if base == name {
			return f
		}
	}
	return nil
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return scanner
}

// segment1Columns lists the data columns of segment 1 in file order.
func segment1Columns() []string {
	cols := tableRange("P1", 1, 71)
	return append(cols, tableRange("P2", 1, 73)...)
}

// segment2Columns lists the data columns of segment 2 in file order.
func segment2Columns() []string {
	cols := tableRange("P3", 1, 71)
	cols = append(cols, tableRange("P4", 1, 73)...)
	return append(cols, tableRange("H1", 1, 3)...)
}

func variableCode(table string, i int) string {
	return fmt.Sprintf("%s_%03dN", table, i)
}
