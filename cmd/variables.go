package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/census-lookup/internal/census"
)

var (
	variablesACS   bool
	variablesGroup string
)

var variablesCmd = &cobra.Command{
	Use:   "variables",
	Short: "List available census variables and groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		if variablesGroup != "" {
			return printGroup(variablesGroup)
		}
		if variablesACS {
			printCatalog("ACS 5-Year tract estimates",
				census.ACSTables, census.ACSVariables, census.ACSGroupDescriptions)
			return nil
		}
		printCatalog("PL 94-171 redistricting counts",
			census.Tables, census.Variables, census.GroupDescriptions)
		return nil
	},
}

func printGroup(group string) error {
	var gf *census.GroupFile
	pl94, acs, err := gf.Resolve(group)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, code := range pl94 {
		fmt.Fprintf(w, "%s\t%s\n", code, census.Variables[code])
	}
	for _, code := range acs {
		fmt.Fprintf(w, "%s\t%s\n", code, census.ACSVariables[code])
	}
	return w.Flush()
}

func printCatalog(title string, tables, variables, groups map[string]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\n\nTABLES\n", title)
	for _, table := range sortedKeys(tables) {
		fmt.Fprintf(w, "  %s\t%s\n", table, tables[table])
	}

	fmt.Fprintln(w, "\nVARIABLES")
	for _, code := range sortedKeys(variables) {
		fmt.Fprintf(w, "  %s\t%s\n", code, variables[code])
	}

	fmt.Fprintln(w, "\nGROUPS")
	for _, group := range sortedKeys(groups) {
		fmt.Fprintf(w, "  %s\t%s\n", group, groups[group])
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	variablesCmd.Flags().BoolVar(&variablesACS, "acs", false, "list ACS variables instead of PL 94-171")
	variablesCmd.Flags().StringVar(&variablesGroup, "group", "", "expand one variable group")
	rootCmd.AddCommand(variablesCmd)
}
