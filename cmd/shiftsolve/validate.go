package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brunolopes/shiftcore/internal/calendar"
	"github.com/brunolopes/shiftcore/internal/normalize"
	"github.com/brunolopes/shiftcore/internal/solver/validate"
)

var validateSchedulePath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Re-validate a previously solved Schedule against a Config",
	Long: `validate re-runs the post-solve checks (requirement and holiday-quota
misses) against a Schedule produced earlier by "shiftsolve solve --out",
without re-solving anything.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateSchedulePath, "schedule", "", "path to a schedule JSON file produced by \"solve --out\" (required)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := requireConfigPath(); err != nil {
		return err
	}
	if validateSchedulePath == "" {
		return fmt.Errorf("--schedule is required")
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(validateSchedulePath)
	if err != nil {
		return fmt.Errorf("reading schedule file: %w", err)
	}
	var dto scheduleFileDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return fmt.Errorf("parsing schedule file: %w", err)
	}
	sched, err := decodeSchedule(dto)
	if err != nil {
		return err
	}

	nc, _, err := normalize.Normalize(cfg)
	if err != nil {
		return err
	}
	cal, err := calendar.Build(nc.Start, nc.End, nc.IsPublicHoliday)
	if err != nil {
		return err
	}

	warnings := validate.Validate(nc, cal, sched)
	renderWarnings(warnings)
	return nil
}
