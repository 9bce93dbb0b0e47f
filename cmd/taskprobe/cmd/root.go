// Package cmd provides the command-line interface for attaching to
// taskprobe-instrumented processes.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskprobe",
	Short: "Observe task runtime lifecycle probes of instrumented processes.",
	Long: `taskprobe attaches to processes instrumented with the taskprobe ` +
		`runtime hooks and consumes their lifecycle probe stream: task ` +
		`spawns, polls, terminations, and worker thread activity.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
