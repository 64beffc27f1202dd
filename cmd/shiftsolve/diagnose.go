package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/brunolopes/shiftcore/internal/calendar"
	"github.com/brunolopes/shiftcore/internal/normalize"
	"github.com/brunolopes/shiftcore/internal/solver/diagnose"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Diagnose why a Config would be infeasible, without solving",
	RunE:  runDiagnose,
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	if err := requireConfigPath(); err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
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

	causes := diagnose.Diagnose(context.Background(), nc, cal)
	renderCauses(causes)
	return nil
}
