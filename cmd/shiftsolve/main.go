// Command shiftsolve is a CLI demo around the core solving pipeline:
// solve a Config file end to end, diagnose an infeasible one without
// solving, or re-validate a previously produced Schedule. Grounded on
// sascodiego-CC-Monitor/cmd/claude-monitor's single-binary cobra root
// command with persistent flags and colored subcommand output.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
)

var (
	configPath string
	noColor    bool
	verbose    bool
)

// newLogger returns a logger that writes solve progress to stderr only
// under --verbose; otherwise solving stays quiet except for its final
// table output.
func newLogger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

var rootCmd = &cobra.Command{
	Use:   "shiftsolve",
	Short: "Shift-scheduling constraint solver",
	Long: `shiftsolve builds and solves a shift-scheduling problem from a JSON
Config file: staff, work shifts, holiday types, hard/soft rules, and
staffing requirements over a date range.`,
}

func main() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
	rootCmd.PersistentPreRun = func(*cobra.Command, []string) {
		if noColor {
			color.NoColor = true
		}
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the JSON Config file (required)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print solve progress to stderr")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(validateCmd)

	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func requireConfigPath() error {
	if configPath == "" {
		return fmt.Errorf("--config is required")
	}
	return nil
}
