package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/brunolopes/shiftcore/internal/domain"
)

// renderSchedule prints the staff x day grid, grounded on
// sascodiego-CC-Monitor/cmd/claude-monitor/reporting.go's
// tablewriter.NewWriter(os.Stdout) + SetHeader + Append + Render shape.
func renderSchedule(s domain.Schedule) {
	table := tablewriter.NewWriter(os.Stdout)
	header := make([]string, len(s.Days)+1)
	header[0] = "Staff"
	for i, d := range s.Days {
		header[i+1] = d.Format("01-02")
	}
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetRowSeparator("-")

	for si, name := range s.StaffOrder {
		row := make([]string, len(s.Days)+1)
		row[0] = name
		for di := range s.Days {
			row[di+1] = string(s.Get(si, di))
		}
		table.Append(row)
	}
	table.Render()
}

func renderWarnings(warnings []domain.Warning) {
	if len(warnings) == 0 {
		successColor.Println("no warnings")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Kind", "Day", "Staff", "Shift", "Actual", "Target", "Message"})
	table.SetBorder(false)

	for _, w := range warnings {
		day := ""
		if w.Day != nil {
			day = w.Day.Format("2006-01-02")
		}
		table.Append([]string{
			string(w.Kind), day, w.Staff, string(w.Shift),
			fmt.Sprint(w.Actual), fmt.Sprint(w.Target), w.Message,
		})
	}
	table.Render()
	warnColor.Printf("%d warning(s)\n", len(warnings))
}

func renderCauses(causes []domain.Cause) {
	if len(causes) == 0 {
		successColor.Println("no causes found")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Family", "Tag", "Explanation"})
	table.SetBorder(false)
	for _, c := range causes {
		table.Append([]string{c.Family, c.Tag, c.HumanReadable})
	}
	table.Render()
}
