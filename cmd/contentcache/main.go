// Command contentcache exercises the content cache and performance monitor:
// a synthetic benchmark workload with optional Prometheus export, and a
// short demo that prints a trend report.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "contentcache",
	Short:         "Generated-content cache and performance monitor tooling",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(benchCmd())
	rootCmd.AddCommand(demoCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
