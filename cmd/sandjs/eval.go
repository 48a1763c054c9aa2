package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ostroot/sandjs"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate a standalone expression and print its JSON value",
	Long: `Evaluate a JavaScript expression in a throwaway context and print
the result as JSON.

Examples:
  sandjs eval '5 + 3'
  sandjs eval '({name: "Roger", age: 42})'`,
	Args: cobra.ExactArgs(1),
	Run:  runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) {
	result, err := sandjs.EvalJSON(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(result))
}
