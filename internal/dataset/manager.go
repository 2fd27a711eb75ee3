package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/census-lookup/internal/census"
	"github.com/sells-group/census-lookup/internal/geoid"
	"github.com/sells-group/census-lookup/internal/match"
	"github.com/sells-group/census-lookup/internal/spatial"
	"github.com/sells-group/census-lookup/internal/tiger"
)

// ErrDatasetUnavailable is returned when a required dataset is missing and
// cannot be fetched or loaded.
var ErrDatasetUnavailable = eris.New("dataset: required dataset unavailable")

// State is one state's loaded geocoding data.
type State struct {
	FIPS    string
	Matcher *match.Matcher
	Index   *spatial.Index
	Ranges  int
	Blocks  int
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	DataDir        string
	Year           int // TIGER/census vintage (default tiger.DefaultYear)
	Scoring        match.Scoring
	Downloader     *tiger.Downloader
	CountyFetchers int // concurrent ADDRFEAT downloads per state (default 4)
}

// Manager owns the dataset lifecycle: downloads and caches files, parses
// them once, and serves per-state matchers and spatial indexes from memory.
// Concurrent first requests for the same state collapse into a single load.
type Manager struct {
	dataDir        string
	year           int
	scoring        match.Scoring
	countyFetchers int
	downloader     *tiger.Downloader
	store          *census.Store
	catalog        *Catalog

	sf     singleflight.Group
	mu     sync.RWMutex
	states map[string]*State
}

// NewManager opens the store and catalog under opts.DataDir.
func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Year == 0 {
		opts.Year = tiger.DefaultYear
	}
	if opts.CountyFetchers <= 0 {
		opts.CountyFetchers = 4
	}
	if opts.Downloader == nil {
		opts.Downloader = tiger.NewDownloader(tiger.DownloaderOptions{})
	}
	if opts.Scoring == (match.Scoring{}) {
		opts.Scoring = match.DefaultScoring()
	}

	store, err := census.OpenStore(filepath.Join(opts.DataDir, "census.db"))
	if err != nil {
		return nil, err
	}
	catalog, err := OpenCatalog(filepath.Join(opts.DataDir, "catalog.json"))
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Manager{
		dataDir:        opts.DataDir,
		year:           opts.Year,
		scoring:        opts.Scoring,
		countyFetchers: opts.CountyFetchers,
		downloader:     opts.Downloader,
		store:          store,
		catalog:        catalog,
		states:         make(map[string]*State),
	}, nil
}

// Store exposes the census variable store.
func (m *Manager) Store() *census.Store { return m.store }

// Catalog exposes the dataset file catalog.
func (m *Manager) Catalog() *Catalog { return m.catalog }

func (m *Manager) Close() error { return m.store.Close() }

// EnsureState returns the loaded data for a state, fetching and parsing it
// on first use.
func (m *Manager) EnsureState(ctx context.Context, stateFIPS string) (*State, error) {
	m.mu.RLock()
	st, ok := m.states[stateFIPS]
	m.mu.RUnlock()
	if ok {
		return st, nil
	}

	v, err, _ := m.sf.Do("tiger/"+stateFIPS, func() (any, error) {
		m.mu.RLock()
		st, ok := m.states[stateFIPS]
		m.mu.RUnlock()
		if ok {
			return st, nil
		}

		st, err := m.loadState(ctx, stateFIPS)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.states[stateFIPS] = st
		m.mu.Unlock()
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*State), nil
}

// loadState builds a state's spatial index and matcher from TIGER files and
// loads its PL 94-171 counts into the store.
func (m *Manager) loadState(ctx context.Context, stateFIPS string) (*State, error) {
	log := zap.L().With(
		zap.String("component", "dataset.manager"),
		zap.String("state", stateFIPS),
	)
	tigerDir := filepath.Join(m.dataDir, "tiger", fmt.Sprint(m.year))

	blockSHP, err := m.downloader.Fetch(ctx,
		tiger.Blocks.DownloadURL(m.year, stateFIPS),
		tiger.Blocks.MirrorURL(m.year, stateFIPS),
		tigerDir,
	)
	if err != nil {
		return nil, unavailable(err, "fetch block shapefile")
	}
	blocks, err := tiger.ParseBlocks(blockSHP)
	if err != nil {
		return nil, unavailable(err, "parse block shapefile")
	}
	if len(blocks) == 0 {
		return nil, unavailable(nil, "block shapefile is empty")
	}
	if err := m.catalog.Record("tabblock20", stateFIPS, blockSHP,
		tiger.Blocks.DownloadURL(m.year, stateFIPS)); err != nil {
		return nil, err
	}

	index, err := spatial.NewIndex(blocks)
	if err != nil {
		return nil, err
	}

	records, err := m.loadRanges(ctx, stateFIPS, tigerDir, counties(blocks))
	if err != nil {
		return nil, err
	}

	if err := m.ensurePL94(ctx, stateFIPS); err != nil {
		return nil, err
	}

	log.Info("state loaded",
		zap.Int("blocks", len(blocks)),
		zap.Int("ranges", len(records)),
	)
	return &State{
		FIPS:    stateFIPS,
		Matcher: match.NewMatcher(records, m.scoring),
		Index:   index,
		Ranges:  len(records),
		Blocks:  len(blocks),
	}, nil
}

// loadRanges fetches and parses every county's ADDRFEAT file. Counties
// download concurrently; record order stays deterministic by sorting
// counties up front and concatenating in that order.
func (m *Manager) loadRanges(ctx context.Context, stateFIPS, tigerDir string, counties []string) ([]tiger.RangeRecord, error) {
	perCounty := make([][]tiger.RangeRecord, len(counties))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.countyFetchers)
	for i, county := range counties {
		i, county := i, county
		g.Go(func() error {
			shpPath, err := m.downloader.Fetch(ctx,
				tiger.AddrFeat.DownloadURL(m.year, county),
				tiger.AddrFeat.MirrorURL(m.year, county),
				tigerDir,
			)
			if err != nil {
				return unavailable(err, "fetch address ranges for "+county)
			}
			recs, err := tiger.ParseAddrFeat(shpPath)
			if err != nil {
				return unavailable(err, "parse address ranges for "+county)
			}
			if err := m.catalog.Record("addrfeat", stateFIPS, shpPath,
				tiger.AddrFeat.DownloadURL(m.year, county)); err != nil {
				return err
			}
			perCounty[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []tiger.RangeRecord
	for _, recs := range perCounty {
		records = append(records, recs...)
	}
	return records, nil
}

// ensurePL94 loads a state's redistricting counts into the store once.
func (m *Manager) ensurePL94(ctx context.Context, stateFIPS string) error {
	loaded, err := m.store.HasState(ctx, "pl94", stateFIPS)
	if err != nil {
		return err
	}
	if loaded {
		return nil
	}

	url, err := census.PL94URL(stateFIPS)
	if err != nil {
		return err
	}
	zipPath, err := m.downloader.FetchFile(ctx, url, "",
		filepath.Join(m.dataDir, "pl94"), filepath.Base(url))
	if err != nil {
		return unavailable(err, "fetch redistricting file")
	}
	rows, err := census.ParsePL94171(zipPath, geoid.LevelBlock, census.VariableGroups["all"])
	if err != nil {
		return unavailable(err, "parse redistricting file")
	}
	if err := m.store.LoadPL94(ctx, stateFIPS, rows); err != nil {
		return err
	}
	return m.catalog.Record("pl94171", stateFIPS, zipPath, url)
}

// EnsureACS fetches and loads tract-level ACS estimates for a state. Empty
// variables default to the common subset. Concurrent calls for the same
// state collapse.
func (m *Manager) EnsureACS(ctx context.Context, stateFIPS string, variables []string) error {
	if len(variables) == 0 {
		variables = census.DefaultACSVariables
	}
	sort.Strings(variables)

	_, err, _ := m.sf.Do("acs/"+stateFIPS+"/"+acsFileName(stateFIPS, variables), func() (any, error) {
		dir := filepath.Join(m.dataDir, "acs5")
		name := acsFileName(stateFIPS, variables)

		path, err := m.downloader.FetchFile(ctx, acsURL(stateFIPS, variables), "", dir, name)
		if err != nil {
			return nil, unavailable(err, "fetch ACS estimates")
		}
		rows, err := parseACSFile(path)
		if err != nil {
			return nil, unavailable(err, "parse ACS estimates")
		}
		if err := m.store.LoadACS(ctx, stateFIPS, rows); err != nil {
			return nil, err
		}
		return nil, m.catalog.Record("acs5_tract", stateFIPS, path, acsAPIBase)
	})
	return err
}

// ClearState drops a state's cached files, stored rows, and in-memory data.
func (m *Manager) ClearState(ctx context.Context, stateFIPS string) error {
	m.mu.Lock()
	delete(m.states, stateFIPS)
	m.mu.Unlock()

	for _, kind := range []string{"pl94", "acs"} {
		if err := m.store.ClearState(ctx, kind, stateFIPS); err != nil {
			return err
		}
	}
	return m.catalog.Remove("", stateFIPS)
}

// ClearAll drops everything the manager has cached.
func (m *Manager) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	m.states = make(map[string]*State)
	m.mu.Unlock()

	for _, kind := range []string{"pl94", "acs"} {
		states, err := m.store.LoadedStates(ctx, kind)
		if err != nil {
			return err
		}
		for _, st := range states {
			if err := m.store.ClearState(ctx, kind, st); err != nil {
				return err
			}
		}
	}
	return m.catalog.Remove("", "")
}

// LoadedStates lists the states currently held in memory, sorted.
func (m *Manager) LoadedStates() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.states))
	for st := range m.states {
		out = append(out, st)
	}
	sort.Strings(out)
	return out
}

// DiskUsage reports the recorded size of cached files, in bytes. An empty
// state sums everything.
func (m *Manager) DiskUsage(stateFIPS string) int64 {
	return m.catalog.TotalSize(stateFIPS)
}

// counties derives the sorted county FIPS list from block GEOID prefixes.
func counties(blocks []tiger.BlockPolygon) []string {
	seen := make(map[string]bool)
	for _, b := range blocks {
		seen[b.GEOID[:5]] = true
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func unavailable(err error, action string) error {
	if err == nil {
		return eris.Wrap(ErrDatasetUnavailable, "dataset: "+action)
	}
	return eris.Wrapf(ErrDatasetUnavailable, "dataset: %s: %v", action, err)
}
