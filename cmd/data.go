package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/census-lookup/internal/fips"
)

var (
	dataFetchACS       bool
	dataFetchVariables []string
	dataClearAll       bool
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage the local dataset cache",
}

var dataStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cached datasets and loaded states",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := initManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		ctx := cmd.Context()
		status := struct {
			PL94States []string `json:"pl94_states"`
			ACSStates  []string `json:"acs_states"`
			DiskBytes  int64    `json:"disk_bytes"`
			Files      int      `json:"files"`
		}{
			DiskBytes: mgr.DiskUsage(""),
			Files:     len(mgr.Catalog().Entries()),
		}
		if status.PL94States, err = mgr.Store().LoadedStates(ctx, "pl94"); err != nil {
			return err
		}
		if status.ACSStates, err = mgr.Store().LoadedStates(ctx, "acs"); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	},
}

var dataFetchCmd = &cobra.Command{
	Use:   "fetch <state>...",
	Short: "Download and load one or more states ahead of time",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := initManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		for _, arg := range args {
			stateFIPS, err := fips.Normalize(arg)
			if err != nil {
				return err
			}
			st, err := mgr.EnsureState(cmd.Context(), stateFIPS)
			if err != nil {
				return err
			}
			if dataFetchACS {
				if err := mgr.EnsureACS(cmd.Context(), stateFIPS, dataFetchVariables); err != nil {
					return err
				}
			}
			fmt.Fprintf(os.Stdout, "%s (%s): %d blocks, %d address ranges\n",
				fips.Name(stateFIPS), stateFIPS, st.Blocks, st.Ranges)
		}
		return nil
	},
}

var dataClearCmd = &cobra.Command{
	Use:   "clear [state]",
	Short: "Drop cached files and stored rows for a state, or everything",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := initManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		if len(args) == 0 {
			if !dataClearAll {
				return fmt.Errorf("pass a state or --all")
			}
			if err := mgr.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "cleared all cached datasets")
			return nil
		}

		stateFIPS, err := fips.Normalize(args[0])
		if err != nil {
			return err
		}
		if err := mgr.ClearState(cmd.Context(), stateFIPS); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "cleared %s (%s)\n", fips.Name(stateFIPS), stateFIPS)
		return nil
	},
}

var dataUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show disk usage of cached dataset files",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := initManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tSTATE\tSIZE\tFETCHED\tPATH")
		for _, e := range mgr.Catalog().Entries() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				e.Kind, e.State, formatBytes(e.SizeBytes),
				e.FetchedAt.Format("2006-01-02"), e.Path)
		}
		fmt.Fprintf(w, "total\t\t%s\t\t\n", formatBytes(mgr.DiskUsage("")))
		return w.Flush()
	},
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func init() {
	dataFetchCmd.Flags().BoolVar(&dataFetchACS, "acs", false, "also fetch tract-level ACS estimates")
	dataFetchCmd.Flags().StringSliceVar(&dataFetchVariables, "variables", nil, "ACS variable codes to fetch (default common subset)")
	dataClearCmd.Flags().BoolVar(&dataClearAll, "all", false, "clear every cached state")

	dataCmd.AddCommand(dataStatusCmd, dataFetchCmd, dataClearCmd, dataUsageCmd)
	rootCmd.AddCommand(dataCmd)
}
