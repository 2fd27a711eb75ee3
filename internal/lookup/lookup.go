package lookup

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/census-lookup/internal/address"
	"github.com/sells-group/census-lookup/internal/census"
	"github.com/sells-group/census-lookup/internal/dataset"
	"github.com/sells-group/census-lookup/internal/fips"
	"github.com/sells-group/census-lookup/internal/geoid"
	"github.com/sells-group/census-lookup/internal/match"
	"github.com/sells-group/census-lookup/internal/spatial"
)

// DataProvider supplies per-state geocoding data and the variable store.
// *dataset.Manager is the production implementation.
type DataProvider interface {
	EnsureState(ctx context.Context, stateFIPS string) (*dataset.State, error)
	EnsureACS(ctx context.Context, stateFIPS string, variables []string) error
	Store() *census.Store
}

// Service orchestrates the lookup pipeline.
type Service struct {
	data    DataProvider
	workers int
}

// NewService creates a Service. Workers bounds batch concurrency.
func NewService(data DataProvider, workers int) *Service {
	if workers <= 0 {
		workers = 8
	}
	return &Service{data: data, workers: workers}
}

// Request is one lookup: a free-text address, the aggregation level for
// PL 94-171 variables, and the variable codes to join. Empty variables
// default to total population; empty level defaults to block.
type Request struct {
	Address   string
	Level     geoid.Level
	Variables []string
}

func (r *Request) normalize() {
	if r.Level == "" {
		r.Level = geoid.LevelBlock
	}
	if len(r.Variables) == 0 {
		r.Variables = []string{"P1_001N"}
	}
}

// Geocode resolves one address to its block GEOID and variables. Failures
// local to the address (unparseable input, no matching street, no containing
// block) come back as an unmatched Result with a nil error; a missing
// dataset is returned as an error wrapping dataset.ErrDatasetUnavailable.
func (s *Service) Geocode(ctx context.Context, req Request) (Result, error) {
	req.normalize()
	log := zap.L().With(zap.String("component", "lookup"))

	tok, err := address.Parse(req.Address)
	if err != nil {
		return unmatched(req.Address, eris.Cause(err).Error()), nil
	}
	stateFIPS, err := fips.Normalize(tok.State)
	if err != nil {
		return unmatched(req.Address, "address has no recognizable state"), nil
	}

	st, err := s.data.EnsureState(ctx, stateFIPS)
	if err != nil {
		return Result{}, err
	}

	key, err := address.NewKey(tok, stateFIPS)
	if err != nil {
		return unmatched(req.Address, eris.Cause(err).Error()), nil
	}

	m, err := st.Matcher.Match(key)
	if err != nil {
		log.Debug("no address range matched",
			zap.String("address", req.Address),
			zap.String("street", key.StreetName),
		)
		return unmatched(req.Address, "no matching street segment"), nil
	}

	lon, lat := match.Point(m, key.HouseNumber)
	res := Result{
		InputAddress:  req.Address,
		MatchedStreet: m.Record.FullName,
		MatchType:     MatchExact,
		MatchScore:    m.Score,
		Longitude:     &lon,
		Latitude:      &lat,
	}
	if !m.Exact {
		res.MatchType = MatchInterpolated
	}

	id, err := st.Index.Locate(lon, lat)
	if err != nil {
		if eris.Is(err, spatial.ErrNoContainment) {
			res.MatchType = MatchUnmatched
			res.Error = "interpolated point falls outside every block"
			return res, nil
		}
		return Result{}, err
	}
	if err := res.setGeography(id, req.Level); err != nil {
		return Result{}, err
	}

	vars, err := s.joinVariables(ctx, id, req.Level, req.Variables)
	if err != nil {
		return Result{}, err
	}
	res.Variables = vars
	return res, nil
}

// joinVariables fetches the requested PL 94-171 and ACS values for a block
// GEOID. PL 94-171 counts aggregate to the requested level; ACS estimates
// always resolve at the containing tract.
func (s *Service) joinVariables(ctx context.Context, id string, level geoid.Level, variables []string) (map[string]*float64, error) {
	pl94Vars, acsVars := census.SplitVariables(variables)

	out := make(map[string]*float64, len(variables))
	if len(pl94Vars) > 0 {
		vals, err := s.data.Store().PL94Values(ctx, id, level, pl94Vars)
		if err != nil {
			return nil, err
		}
		for k, v := range vals {
			out[k] = v
		}
	}
	if len(acsVars) > 0 {
		if err := s.data.EnsureACS(ctx, id[:2], acsVars); err != nil {
			return nil, err
		}
		vals, err := s.data.Store().ACSValues(ctx, id, acsVars)
		if err != nil {
			return nil, err
		}
		for k, v := range vals {
			out[k] = v
		}
	}
	return out, nil
}

// GeocodeBatch resolves addresses concurrently, preserving input order.
// Every failure, including an unavailable dataset, isolates to its row.
// The returned error is non-nil only when the context is cancelled.
func (s *Service) GeocodeBatch(ctx context.Context, addresses []string, level geoid.Level, variables []string) ([]Result, error) {
	results := make([]Result, len(addresses))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, addr := range addresses {
		i, addr := i, addr
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := s.Geocode(ctx, Request{Address: addr, Level: level, Variables: variables})
			if err != nil {
				res = unmatched(addr, eris.Cause(err).Error())
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// LookupCoordinates resolves a point directly to its block and variables,
// skipping address matching. The state selects which dataset to search.
func (s *Service) LookupCoordinates(ctx context.Context, stateFIPS string, lat, lon float64, level geoid.Level, variables []string) (Result, error) {
	req := Request{Level: level, Variables: variables}
	req.normalize()

	st, err := s.data.EnsureState(ctx, stateFIPS)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		MatchType: MatchExact,
		Longitude: &lon,
		Latitude:  &lat,
	}
	id, err := st.Index.Locate(lon, lat)
	if err != nil {
		if eris.Is(err, spatial.ErrNoContainment) {
			return unmatched("", "point falls outside every block"), nil
		}
		return Result{}, err
	}
	if err := res.setGeography(id, req.Level); err != nil {
		return Result{}, err
	}

	vars, err := s.joinVariables(ctx, id, req.Level, req.Variables)
	if err != nil {
		return Result{}, err
	}
	res.Variables = vars
	return res, nil
}
