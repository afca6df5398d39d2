package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/halvard/celd/internal/celconf"
	"github.com/halvard/celd/internal/engine"
)

// staticBackendNames lists the backends celd always registers at
// startup. celctl has no live channel into a running daemon process, so
// this is a stand-in for a real "what's registered right now" query
// (spec.md §6's CLI was written against a single in-process engine).
var staticBackendNames = []string{"mqtt"}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show CEL engine state",
}

var showStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print enabled state, tracked events, tracked apps, and registered backends",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := celconf.Load(celConfPath)
		if err != nil {
			return fmt.Errorf("loading %s: %w", celConfPath, err)
		}

		eng := engine.Init()
		if err := eng.Reload(src.ToConfigSource()); err != nil {
			return fmt.Errorf("applying %s: %w", celConfPath, err)
		}

		printStatus(cmd, eng)
		return nil
	},
}

func printStatus(cmd *cobra.Command, eng *engine.Engine) {
	cfg := eng.GetConfig()

	fmt.Fprintf(cmd.OutOrStdout(), "enabled: %v\n", cfg.Enabled)

	events := cfg.TrackedEvents.Names()
	sort.Strings(events)
	fmt.Fprintf(cmd.OutOrStdout(), "tracked events: %s\n", joinOrNone(events))

	apps := cfg.TrackedApps.Names()
	sort.Strings(apps)
	fmt.Fprintf(cmd.OutOrStdout(), "tracked apps: %s\n", joinOrNone(apps))

	backends := append([]string{}, staticBackendNames...)
	sort.Strings(backends)
	fmt.Fprintf(cmd.OutOrStdout(), "registered backends: %s\n", joinOrNone(backends))
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	out := items[0]
	for _, s := range items[1:] {
		out += ", " + s
	}
	return out
}

func init() {
	showCmd.AddCommand(showStatusCmd)
	rootCmd.AddCommand(showCmd)
}
