package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/census-lookup/internal/geoid"
	"github.com/sells-group/census-lookup/internal/lookup"
)

var (
	batchOutput    string
	batchFormat    string
	batchLevel     string
	batchVariables []string
	batchGroup     string
	batchGroupFile string
)

var batchCmd = &cobra.Command{
	Use:   "batch <input.csv>",
	Short: "Geocode a CSV of addresses and export the results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := geoid.ParseLevel(batchLevel)
		if err != nil {
			return err
		}
		variables, err := resolveVariables(batchVariables, batchGroup, batchGroupFile)
		if err != nil {
			return err
		}
		if batchFormat != "csv" && batchFormat != "xlsx" {
			return eris.Errorf("unsupported output format %q", batchFormat)
		}

		addresses, err := readAddresses(args[0])
		if err != nil {
			return err
		}
		if len(addresses) == 0 {
			return eris.Errorf("no addresses found in %s", args[0])
		}

		svc, mgr, err := initService()
		if err != nil {
			return err
		}
		defer mgr.Close()

		results, err := svc.GeocodeBatch(cmd.Context(), addresses, level, variables)
		if err != nil {
			return err
		}

		matched := 0
		for _, r := range results {
			if r.MatchType != lookup.MatchUnmatched {
				matched++
			}
		}
		zap.L().Info("batch complete",
			zap.Int("addresses", len(results)),
			zap.Int("matched", matched),
		)

		out := batchOutput
		if out == "" {
			out = strings.TrimSuffix(args[0], ".csv") + "_results." + batchFormat
		}
		if batchFormat == "xlsx" {
			err = writeResultsXLSX(out, results)
		} else {
			err = writeResultsCSV(out, results)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "wrote %d results (%d matched) to %s\n", len(results), matched, out)
		return nil
	},
}

// readAddresses pulls addresses from a CSV file. A header row with an
// "address" column selects that column; otherwise the first column is used.
func readAddresses(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	col := 0
	first := true
	var addresses []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "read %s", path)
		}
		if len(rec) == 0 {
			continue
		}
		if first {
			first = false
			if idx := headerColumn(rec, "address"); idx >= 0 {
				col = idx
				continue
			}
		}
		if col >= len(rec) {
			continue
		}
		if addr := strings.TrimSpace(rec[col]); addr != "" {
			addresses = append(addresses, addr)
		}
	}
	return addresses, nil
}

func headerColumn(rec []string, name string) int {
	for i, field := range rec {
		if strings.EqualFold(strings.TrimSpace(field), name) {
			return i
		}
	}
	return -1
}

// resultColumns is the fixed column set ahead of the variable columns.
var resultColumns = []string{
	"input_address", "match_type", "match_score", "matched_street",
	"longitude", "latitude",
	"geoid", "level", "state_fips", "county_fips", "tract", "block_group", "block",
	"error",
}

// variableColumns collects every variable code present across results, sorted.
func variableColumns(results []lookup.Result) []string {
	seen := make(map[string]bool)
	for _, r := range results {
		for code := range r.Variables {
			seen[code] = true
		}
	}
	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func resultRow(r lookup.Result, varCols []string) []string {
	row := []string{
		r.InputAddress,
		r.MatchType,
		formatScore(r),
		r.MatchedStreet,
		formatCoord(r.Longitude),
		formatCoord(r.Latitude),
		r.GEOID,
		r.Level,
		r.StateFIPS,
		r.CountyFIPS,
		r.Tract,
		r.BlockGroup,
		r.Block,
		r.Error,
	}
	for _, code := range varCols {
		row = append(row, formatValue(r.Variables[code]))
	}
	return row
}

func formatScore(r lookup.Result) string {
	if r.MatchType == lookup.MatchUnmatched {
		return ""
	}
	return strconv.FormatFloat(r.MatchScore, 'f', 2, 64)
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func writeResultsCSV(path string, results []lookup.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	varCols := variableColumns(results)
	w := csv.NewWriter(f)
	if err := w.Write(append(append([]string(nil), resultColumns...), varCols...)); err != nil {
		return eris.Wrap(err, "write header")
	}
	for _, r := range results {
		if err := w.Write(resultRow(r, varCols)); err != nil {
			return eris.Wrap(err, "write row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "flush csv")
}

func writeResultsXLSX(path string, results []lookup.Result) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Results")
	if err != nil {
		return eris.Wrap(err, "add sheet")
	}

	varCols := variableColumns(results)
	header := sheet.AddRow()
	for _, col := range append(append([]string(nil), resultColumns...), varCols...) {
		header.AddCell().SetString(col)
	}
	for _, r := range results {
		row := sheet.AddRow()
		for _, field := range resultRow(r, varCols) {
			row.AddCell().SetString(field)
		}
	}

	return eris.Wrapf(file.Save(path), "save %s", path)
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "output file (default <input>_results.<format>)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "csv", "output format (csv or xlsx)")
	batchCmd.Flags().StringVar(&batchLevel, "level", "block", "aggregation level (state, county, tract, block_group, block)")
	batchCmd.Flags().StringSliceVar(&batchVariables, "variables", nil, "variable codes to join (default P1_001N)")
	batchCmd.Flags().StringVar(&batchGroup, "group", "", "variable group name")
	batchCmd.Flags().StringVar(&batchGroupFile, "group-file", "", "YAML file with custom variable groups")
	rootCmd.AddCommand(batchCmd)
}
