// Package diagnose implements the Diagnoser (spec.md §4.5): on
// INFEASIBLE it re-solves a relaxed twin of the model that minimizes the
// count of broken hard constraints instead of the real objective, and
// turns whatever remains broken into human-readable causes.
//
// Grounded on other_examples' paiban scheduler-constraint-builtin
// pattern (Evaluate returning (valid, penalty, []ViolationDetail)): the
// same model.Constraint.Check used by the real solve already returns
// exactly that shape, so the "relaxed twin model" here is just the
// original model solved against a zero objective — every hard
// constraint becomes, in effect, the only thing being minimized.
package diagnose

import (
	"context"
	"time"

	"github.com/brunolopes/shiftcore/internal/calendar"
	"github.com/brunolopes/shiftcore/internal/domain"
	"github.com/brunolopes/shiftcore/internal/normalize"
	"github.com/brunolopes/shiftcore/internal/solver/engine"
	"github.com/brunolopes/shiftcore/internal/solver/model"
	"github.com/brunolopes/shiftcore/internal/solver/objective"
)

// defaultTimeout is the Diagnoser's own budget, independent of the
// primary solve's timeout (spec.md §4.5: "The diagnoser has its own
// timeout (also 300 s)").
const defaultTimeout = 300 * time.Second

// Diagnose rebuilds the model for nc/cal and searches for the
// assignment with the fewest hard-constraint violations. Every
// constraint still broken at the end becomes one domain.Cause.
func Diagnose(ctx context.Context, nc *normalize.NormalizedConfig, cal *calendar.Calendar) []domain.Cause {
	m := model.Build(nc, cal)
	relaxed := &objective.Objective{} // zero objective: pure violation-minimization

	timeout := defaultTimeout
	solveCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res := engine.Solve(solveCtx, m, relaxed)

	causes := make([]domain.Cause, 0, len(res.Violations))
	for _, v := range res.Violations {
		causes = append(causes, domain.Cause{
			Family:        v.Family,
			Tag:           v.Tag,
			HumanReadable: v.HumanReadable,
		})
	}
	return causes
}
