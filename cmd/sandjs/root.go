package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sandjs [file]",
	Short: "Sandboxed JavaScript runner with a JSON call bridge",
	Long: `sandjs - Load JavaScript, call its functions, get JSON back.

A script file is initialized once in an isolated context; named top-level
functions can then be called with JSON arguments. Long-running scripts are
forcibly terminated when a timeout is set.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun, // Default to run command behavior
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "Execution timeout (0 = none)")

	addRunFlags(rootCmd)
}
