package dataset

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/census-lookup/internal/census"
)

// acsAPIBase is the Census data API endpoint for ACS 5-Year estimates.
// Fetched once per state and cached; lookups never touch the network.
const acsAPIBase = "https://api.census.gov/data/2020/acs/acs5"

// acsURL builds the tract-level query for one state's variables.
func acsURL(stateFIPS string, variables []string) string {
	q := url.Values{}
	q.Set("get", strings.Join(variables, ","))
	q.Set("for", "tract:*")
	q.Set("in", "state:"+stateFIPS)
	return acsAPIBase + "?" + q.Encode()
}

// parseACSFile reads a cached API response (a JSON array of string arrays,
// first row the header) into tract-level rows. The trailing state, county,
// and tract columns concatenate into the 11-digit tract GEOID. Sentinel
// negative values the API uses for suppressed estimates are dropped.
func parseACSFile(path string) ([]census.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read ACS file %s", path)
	}

	var table [][]string
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, eris.Wrapf(err, "dataset: parse ACS file %s", path)
	}
	if len(table) < 2 {
		return nil, eris.Errorf("dataset: ACS file %s has no data rows", path)
	}

	header := table[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	stateIdx, okS := col["state"]
	countyIdx, okC := col["county"]
	tractIdx, okT := col["tract"]
	if !okS || !okC || !okT {
		return nil, eris.Errorf("dataset: ACS file %s missing geography columns", path)
	}

	rows := make([]census.Row, 0, len(table)-1)
	for _, rec := range table[1:] {
		if len(rec) != len(header) {
			continue
		}
		id := rec[stateIdx] + rec[countyIdx] + rec[tractIdx]
		values := make(map[string]float64)
		for i, name := range header {
			if _, known := census.ACSVariables[name]; !known {
				continue
			}
			v, err := strconv.ParseFloat(rec[i], 64)
			if err != nil || v <= acsSuppressedFloor {
				continue
			}
			values[name] = v
		}
		rows = append(rows, census.Row{GEOID: id, Values: values})
	}
	return rows, nil
}

// acsSuppressedFloor bounds the API's negative sentinel codes
// (-666666666 and friends).
const acsSuppressedFloor = -1e6

// acsFileName names the cached response for a state and variable set, so
// fetching a different set does not clobber an earlier cache.
func acsFileName(stateFIPS string, variables []string) string {
	h := fnv.New32a()
	for _, v := range variables {
		_, _ = h.Write([]byte(v))
		_, _ = h.Write([]byte{','})
	}
	return fmt.Sprintf("acs5_%s_tract_%08x.json", stateFIPS, h.Sum32())
}
