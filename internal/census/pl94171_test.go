package census

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/census-lookup/internal/geoid"
)

// writeLegacyZip builds a minimal two-block legacy format zip.
func writeLegacyZip(t *testing.T) string {
	t.Helper()

	geoLine := func(sumlev, logrecno, id string) string {
		parts := make([]string, 12)
		parts[geoSumLevIdx] = sumlev
		parts[geoLogRecNoIdx] = logrecno
		parts[geoGEOIDIdx] = "7500000US" + id
		return strings.Join(parts, "|")
	}
	segLine := func(logrecno string, cols []string, values map[string]string) string {
		parts := []string{"PLST", "CA", "000", "01", logrecno}
		for _, col := range cols {
			parts = append(parts, values[col])
		}
		return strings.Join(parts, "|")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "ca2020.pl.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)

	write := func(name, content string) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}

	write("cageo2020.pl", strings.Join([]string{
		geoLine("040", "0000001", "06"),
		geoLine("750", "0000002", "060371011001001"),
		geoLine("750", "0000003", "060371011001002"),
	}, "\n"))
	write("ca000012020.pl", strings.Join([]string{
		segLine("0000001", segment1Columns(), map[string]string{"P1_001N": "100", "P2_002N": "22"}),
		segLine("0000002", segment1Columns(), map[string]string{"P1_001N": "42", "P2_002N": "10"}),
		segLine("0000003", segment1Columns(), map[string]string{"P1_001N": "58", "P2_002N": "12"}),
	}, "\n"))
	write("ca000022020.pl", strings.Join([]string{
		segLine("0000001", segment2Columns(), map[string]string{"P3_001N": "74", "H1_001N": "40"}),
		segLine("0000002", segment2Columns(), map[string]string{"P3_001N": "30", "H1_001N": "18"}),
		segLine("0000003", segment2Columns(), map[string]string{"P3_001N": "44", "H1_001N": "22"}),
	}, "\n"))

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestParsePL94171(t *testing.T) {
	path := writeLegacyZip(t)

	rows, err := ParsePL94171(path, geoid.LevelBlock, []string{"P1_001N", "P2_002N", "H1_001N"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := make(map[string]map[string]float64)
	for _, r := range rows {
		byID[r.GEOID] = r.Values
	}
	require.Contains(t, byID, "060371011001001")
	assert.Equal(t, 42.0, byID["060371011001001"]["P1_001N"])
	assert.Equal(t, 10.0, byID["060371011001001"]["P2_002N"])
	assert.Equal(t, 18.0, byID["060371011001001"]["H1_001N"])
	assert.Equal(t, 58.0, byID["060371011001002"]["P1_001N"])

	// Unrequested variables are not carried.
	_, ok := byID["060371011001001"]["P3_001N"]
	assert.False(t, ok)
}

func TestParsePL94171_StateLevel(t *testing.T) {
	path := writeLegacyZip(t)

	rows, err := ParsePL94171(path, geoid.LevelState, []string{"P1_001N"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "06", rows[0].GEOID)
	assert.Equal(t, 100.0, rows[0].Values["P1_001N"])
}

func TestPL94URL(t *testing.T) {
	url, err := PL94URL("06")
	require.NoError(t, err)
	assert.Equal(t,
		"https://www2.census.gov/programs-surveys/decennial/2020/data/01-Redistricting_File--PL_94-171/California/ca2020.pl.zip",
		url,
	)

	url, err = PL94URL("11")
	require.NoError(t, err)
	assert.Contains(t, url, "District_of_Columbia/dc2020.pl.zip")

	_, err = PL94URL("99")
	assert.Error(t, err)
}

func TestSegmentColumnCounts(t *testing.T) {
	assert.Len(t, segment1Columns(), 71+73)
	assert.Len(t, segment2Columns(), 71+73+3)
}
