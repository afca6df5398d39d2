// Command celctl is a status-inspection CLI for the CEL engine. It reads
// the same on-disk configuration a running celd daemon would, builds an
// engine from it, and prints a snapshot of its configuration. It has no
// channel back into a live daemon process; "registered backend" names
// reflect what celd always wires up (see cmd/celctl/status.go).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var celConfPath string

var rootCmd = &cobra.Command{
	Use:   "celctl",
	Short: "Inspect the CEL engine's configuration",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&celConfPath, "cel-conf", "/etc/asterisk/cel.conf", "path to the cel.conf-format configuration file")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
