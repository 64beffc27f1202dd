package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brunolopes/shiftcore/internal/coreerr"
	"github.com/brunolopes/shiftcore/internal/signature"
	"github.com/brunolopes/shiftcore/internal/solver/driver"
)

var solveOutPath string

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a Config and print the resulting Schedule",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&solveOutPath, "out", "", "write the resulting schedule as JSON to this path")
}

func runSolve(cmd *cobra.Command, args []string) error {
	if err := requireConfigPath(); err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	sig := signature.Compute(cfg)
	infoColor.Printf("input signature: %s\n", sig)

	drv := driver.New(newLogger())
	sched, warnings, err := drv.Solve(context.Background(), cfg, nil)
	if err != nil {
		return handleSolveError(err)
	}

	successColor.Println("solved")
	renderSchedule(sched)
	renderWarnings(warnings)

	if solveOutPath != "" {
		dto := encodeSchedule(sched)
		raw, err := json.MarshalIndent(dto, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding schedule: %w", err)
		}
		if err := os.WriteFile(solveOutPath, raw, 0o644); err != nil {
			return fmt.Errorf("writing schedule file: %w", err)
		}
		infoColor.Printf("schedule written to %s\n", solveOutPath)
	}

	return nil
}

func handleSolveError(err error) error {
	var ce *coreerr.Error
	if errors.As(err, &ce) && ce.Kind == coreerr.KindInfeasible {
		errorColor.Println("infeasible")
		renderCauses(ce.Causes)
		return fmt.Errorf("solve failed: %s", ce.Message)
	}
	return err
}
