package dataset

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/census-lookup/internal/tiger"
)

const acsFixture = `[
  ["B19013_001E", "B01002_001E", "state", "county", "tract"],
  ["65000", "34.5", "06", "037", "101100"],
  ["-666666666", "41.0", "06", "037", "101200"]
]`

func TestACSURL(t *testing.T) {
	url := acsURL("06", []string{"B19013_001E", "B01002_001E"})
	assert.Contains(t, url, "https://api.census.gov/data/2020/acs/acs5?")
	assert.Contains(t, url, "get=B19013_001E%2CB01002_001E")
	assert.Contains(t, url, "for=tract%3A%2A")
	assert.Contains(t, url, "in=state%3A06")
}

func TestParseACSFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acs.json")
	require.NoError(t, os.WriteFile(path, []byte(acsFixture), 0o644))

	rows, err := parseACSFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "06037101100", rows[0].GEOID)
	assert.Equal(t, 65000.0, rows[0].Values["B19013_001E"])
	assert.Equal(t, 34.5, rows[0].Values["B01002_001E"])

	// Suppressed sentinel dropped, other value kept.
	assert.Equal(t, "06037101200", rows[1].GEOID)
	_, ok := rows[1].Values["B19013_001E"]
	assert.False(t, ok)
	assert.Equal(t, 41.0, rows[1].Values["B01002_001E"])
}

func TestParseACSFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not": "a table"}`), 0o644))
	_, err := parseACSFile(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[["B19013_001E","state","county","tract"]]`), 0o644))
	_, err = parseACSFile(empty)
	assert.Error(t, err)
}

func testManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(ManagerOptions{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// seedACSCache places a response where FetchFile will find it, so EnsureACS
// loads from disk without a network round trip.
func seedACSCache(t *testing.T, m *Manager, stateFIPS string, variables []string) {
	t.Helper()
	dir := filepath.Join(m.dataDir, "acs5")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, acsFileName(stateFIPS, variables))
	require.NoError(t, os.WriteFile(path, []byte(acsFixture), 0o644))
}

func TestEnsureACS_LoadsFromCache(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()
	vars := []string{"B01002_001E", "B19013_001E"}

	seedACSCache(t, m, "06", vars)
	require.NoError(t, m.EnsureACS(ctx, "06", vars))

	vals, err := m.Store().ACSValues(ctx, "060371011001001", []string{"B19013_001E"})
	require.NoError(t, err)
	require.NotNil(t, vals["B19013_001E"])
	assert.Equal(t, 65000.0, *vals["B19013_001E"])

	loaded, err := m.Store().HasState(ctx, "acs", "06")
	require.NoError(t, err)
	assert.True(t, loaded)
}

func TestEnsureACS_Unavailable(t *testing.T) {
	m := testManager(t)
	// No cache and no reachable endpoint for this bogus state code.
	m.downloader = tiger.NewDownloader(tiger.DownloaderOptions{Timeout: 1})

	err := m.EnsureACS(context.Background(), "00", []string{"B19013_001E"})
	assert.ErrorIs(t, err, ErrDatasetUnavailable)
}

func TestEnsureACS_SingleFlight(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()
	vars := []string{"B01002_001E", "B19013_001E"}
	seedACSCache(t, m, "06", vars)

	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.EnsureACS(ctx, "06", vars); err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Zero(t, failures.Load())

	// One load recorded, not eight.
	assert.Len(t, m.Catalog().Lookup("acs5_tract", "06"), 1)
}

func TestClearState(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()
	vars := []string{"B01002_001E", "B19013_001E"}
	seedACSCache(t, m, "06", vars)
	require.NoError(t, m.EnsureACS(ctx, "06", vars))
	assert.Positive(t, m.DiskUsage("06"))

	require.NoError(t, m.ClearState(ctx, "06"))
	assert.Zero(t, m.DiskUsage("06"))

	loaded, err := m.Store().HasState(ctx, "acs", "06")
	require.NoError(t, err)
	assert.False(t, loaded)
}

func TestCounties(t *testing.T) {
	got := counties([]tiger.BlockPolygon{
		{GEOID: "060371011001001"},
		{GEOID: "060371011001002"},
		{GEOID: "060590011001001"},
	})
	assert.Equal(t, []string{"06037", "06059"}, got)
}

func TestLoadedStates_Empty(t *testing.T) {
	m := testManager(t)
	assert.Empty(t, m.LoadedStates())
}
