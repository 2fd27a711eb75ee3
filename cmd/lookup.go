package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/census-lookup/internal/geoid"
	"github.com/sells-group/census-lookup/internal/lookup"
)

var (
	lookupLevel     string
	lookupVariables []string
	lookupGroup     string
	lookupGroupFile string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <address>",
	Short: "Geocode one address and print its census variables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := geoid.ParseLevel(lookupLevel)
		if err != nil {
			return err
		}
		variables, err := resolveVariables(lookupVariables, lookupGroup, lookupGroupFile)
		if err != nil {
			return err
		}

		svc, mgr, err := initService()
		if err != nil {
			return err
		}
		defer mgr.Close()

		result, err := svc.Geocode(cmd.Context(), lookup.Request{
			Address:   strings.Join(args, " "),
			Level:     level,
			Variables: variables,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	lookupCmd.Flags().StringVar(&lookupLevel, "level", "block", "aggregation level (state, county, tract, block_group, block)")
	lookupCmd.Flags().StringSliceVar(&lookupVariables, "variables", nil, "variable codes to join (default P1_001N)")
	lookupCmd.Flags().StringVar(&lookupGroup, "group", "", "variable group name")
	lookupCmd.Flags().StringVar(&lookupGroupFile, "group-file", "", "YAML file with custom variable groups")
	rootCmd.AddCommand(lookupCmd)
}
