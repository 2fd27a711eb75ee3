package main

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/census-lookup/internal/fips"
	"github.com/sells-group/census-lookup/internal/geoid"
)

var (
	coordsState     string
	coordsLevel     string
	coordsVariables []string
	coordsGroup     string
	coordsGroupFile string
)

var coordsCmd = &cobra.Command{
	Use:   "coords <lat> <lon>",
	Short: "Resolve a coordinate pair to its census block and variables",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return eris.Wrapf(err, "invalid latitude %q", args[0])
		}
		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return eris.Wrapf(err, "invalid longitude %q", args[1])
		}

		stateFIPS, err := fips.Normalize(coordsState)
		if err != nil {
			return err
		}
		level, err := geoid.ParseLevel(coordsLevel)
		if err != nil {
			return err
		}
		variables, err := resolveVariables(coordsVariables, coordsGroup, coordsGroupFile)
		if err != nil {
			return err
		}

		svc, mgr, err := initService()
		if err != nil {
			return err
		}
		defer mgr.Close()

		result, err := svc.LookupCoordinates(cmd.Context(), stateFIPS, lat, lon, level, variables)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	coordsCmd.Flags().StringVar(&coordsState, "state", "", "state containing the point (FIPS code, abbreviation, or name)")
	coordsCmd.Flags().StringVar(&coordsLevel, "level", "block", "aggregation level (state, county, tract, block_group, block)")
	coordsCmd.Flags().StringSliceVar(&coordsVariables, "variables", nil, "variable codes to join (default P1_001N)")
	coordsCmd.Flags().StringVar(&coordsGroup, "group", "", "variable group name")
	coordsCmd.Flags().StringVar(&coordsGroupFile, "group-file", "", "YAML file with custom variable groups")
	_ = coordsCmd.MarkFlagRequired("state")
	rootCmd.AddCommand(coordsCmd)
}
