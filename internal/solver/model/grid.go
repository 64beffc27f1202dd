// Package model implements ModelBuilder (spec.md §4.3): it materializes
// the decision space over a NormalizedConfig and calendar, and exposes
// every hard constraint family (F1-F14) as a Constraint the engine can
// check against a candidate Grid.
//
// The spec frames the decision space as boolean variables x[s,d,t].
// Nothing in the example pack wires an ILP/CP-SAT library (none is
// available), so this core represents a candidate solution directly as
// a Grid of "which shift type did (staff, day) get" rather than a
// boolean matrix an external solver would populate — F1 (exactly one
// assignment per cell) is then true by construction instead of a
// constraint to check. See DESIGN.md for the full accounting of this
// substitution.
package model

import (
	"time"

	"github.com/brunolopes/shiftcore/internal/domain"
)

// Grid is one candidate assignment: Values[s][d] is the shift type
// assigned to staff s on day d, indexed per Model.StaffIndex/DayIndex.
type Grid struct {
	Values [][]domain.ShiftType
}

// NewGrid allocates an empty grid sized to the model's staff/day counts.
func NewGrid(numStaff, numDays int) *Grid {
	values := make([][]domain.ShiftType, numStaff)
	for i := range values {
		values[i] = make([]domain.ShiftType, numDays)
	}
	return &Grid{Values: values}
}

// Clone returns a deep copy, so local-search mutation never aliases the
// incumbent best grid.
func (g *Grid) Clone() *Grid {
	out := NewGrid(len(g.Values), 0)
	out.Values = make([][]domain.ShiftType, len(g.Values))
	for i, row := range g.Values {
		out.Values[i] = append([]domain.ShiftType(nil), row...)
	}
	return out
}

func (g *Grid) Get(staffIdx, dayIdx int) domain.ShiftType {
	return g.Values[staffIdx][dayIdx]
}

func (g *Grid) Set(staffIdx, dayIdx int, t domain.ShiftType) {
	g.Values[staffIdx][dayIdx] = t
}

// ToSchedule renders a Grid into the caller-facing domain.Schedule,
// preserving Config.Staff order and calendrical day order.
func (g *Grid) ToSchedule(staffNames []string, days []time.Time) domain.Schedule {
	cell := make(map[[2]int]domain.ShiftType, len(staffNames)*len(days))
	for s := range staffNames {
		for d := range days {
			cell[[2]int{s, d}] = g.Values[s][d]
		}
	}
	return domain.Schedule{StaffOrder: staffNames, Days: days, Cell: cell}
}
