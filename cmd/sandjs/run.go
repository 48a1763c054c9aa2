package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ostroot/sandjs"
	"github.com/ostroot/sandjs/codec"
	"github.com/ostroot/sandjs/script"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Initialize a script and optionally call one of its functions",
	Long: `Initialize a JavaScript source in a fresh context and, with --call,
invoke a named top-level function with JSON arguments.

Source can be provided via:
  - File argument: sandjs run script.js
  - Inline flag: sandjs run -c 'function f(a){return a+1}' --call f --arg 1
  - Stdin: cat script.js | sandjs run --call main

The function result is printed as JSON.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "Source to execute")
	cmd.Flags().String("call", "", "Top-level function to invoke after initialization")
	cmd.Flags().StringArray("arg", nil, "JSON argument for --call (repeatable)")
}

func loadSource(cmd *cobra.Command, args []string) (source, filename string, ok bool) {
	code, _ := cmd.Flags().GetString("code")

	switch {
	case code != "":
		return code, "", true
	case len(args) > 0:
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return string(data), filename, true
	default:
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return "", "", false
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(data) == 0 {
			return "", "", false
		}
		return string(data), "", true
	}
}

func runRun(cmd *cobra.Command, args []string) {
	source, filename, ok := loadSource(cmd, args)
	if !ok {
		cmd.Help()
		return
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	callName, _ := cmd.Flags().GetString("call")
	callArgs, _ := cmd.Flags().GetStringArray("arg")

	opts := []script.Option{script.WithTimeout(timeout)}
	if filename != "" {
		opts = append(opts, script.WithFilename(filename))
	}

	s, err := sandjs.FromString(source, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if callName == "" {
		return
	}

	encoded := make([]codec.Value, len(callArgs))
	for i, a := range callArgs {
		encoded[i] = codec.Value(a)
	}

	result, err := s.CallRaw(callName, encoded...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(result))
}
