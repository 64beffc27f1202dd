// Package engine is the CP-SAT-class backend SolverDriver invokes
// (spec.md §4.4). No ILP/CP-SAT library is available anywhere in the
// example pack, so this backend is a constructive-greedy-plus-local-search
// heuristic: it builds an initial Grid respecting the cheapest hard
// constraints to check per cell, then hill-climbs a combined cost
// function (hard-violation count dominating the soft Objective), with
// simulated-annealing-style acceptance of sideways moves and randomized
// restarts to diversify away from a single local optimum, until it
// converges, exhausts its restart budget, or the context deadline
// elapses. See DESIGN.md for why this substitutes for an exact backend
// and what "OPTIMAL/INFEASIBLE/UNKNOWN" mean for a heuristic solver.
package engine

import (
	"context"
	"math"
	"math/rand"

	"github.com/brunolopes/shiftcore/internal/domain"
	"github.com/brunolopes/shiftcore/internal/solver/model"
	"github.com/brunolopes/shiftcore/internal/solver/objective"
)

// Status is the backend status spec.md §4.4's table maps to core
// statuses. This backend reports three of them; it has no separate
// FEASIBLE status (a zero-violation grid is reported as OPTIMAL).
type Status string

const (
	StatusOptimal    Status = "OPTIMAL"
	StatusInfeasible Status = "INFEASIBLE"
	StatusUnknown    Status = "UNKNOWN"
)

// Result is one completed (or timed-out) solve attempt.
type Result struct {
	Grid       *model.Grid
	Status     Status
	Objective  float64
	Violations []model.Violation
}

// hardViolationWeight dominates the soft objective in the combined cost
// function so the engine always prefers reducing violations over
// improving the objective, matching a CP-SAT backend's hard/soft
// separation.
const hardViolationWeight = 1_000_000.0

// baseNoImprove is the non-improving-move budget floor for a single
// restart attempt on a trivial instance. Real instances scale this up
// by problem size (see perRestartBudget) so a spec §5-sized problem
// (~30 staff x 31 days x ~8 types, ~7k variables) gets a search budget
// proportional to its size instead of hitting a fixed small cap almost
// immediately.
const baseNoImprove = 2000

// maxRestarts bounds how many times the search reinitializes from a
// fresh randomized construction after exhausting a restart's
// non-improving-move budget. It exists so a genuinely infeasible small
// instance still terminates without waiting out the full ctx deadline;
// ctx's deadline remains the authoritative stopping signal otherwise.
const maxRestarts = 6

// perRestartBudget scales the non-improving-move budget with the
// number of (staff, day) cells, so larger instances get proportionally
// more patience per restart before diversifying.
func perRestartBudget(m *model.Model) int {
	numVars := len(m.StaffNames) * len(m.Days)
	budget := baseNoImprove + numVars*10
	if budget < baseNoImprove {
		return baseNoImprove
	}
	return budget
}

// Solve runs the heuristic backend until ctx is done, the search
// converges on a zero-violation grid, or the randomized-restart budget
// is exhausted. It never blocks past ctx's deadline, and only reports
// StatusInfeasible when ctx has not expired and every restart still
// left hard violations on the table — never from a single local
// optimum alone.
func Solve(ctx context.Context, m *model.Model, obj *objective.Objective) *Result {
	universe := candidateTypes(m)
	rng := rand.New(rand.NewSource(searchSeed(m)))
	budget := perRestartBudget(m)

	// Seed with the deterministic greedy construction so there is
	// always a valid grid to return even if ctx is already done before
	// the first restart gets to run.
	best := constructGreedy(m, universe)
	bestCost, bestViolations := cost(m, obj, best)

	for restart := 0; restart < maxRestarts; restart++ {
		select {
		case <-ctx.Done():
			return finalize(best, bestViolations, true)
		default:
		}

		grid, gridCost, violations, timedOut := localSearch(ctx, m, obj, universe, rng, budget)
		if gridCost < bestCost {
			best, bestCost, bestViolations = grid, gridCost, violations
		}
		if timedOut {
			return finalize(best, bestViolations, true)
		}
		if len(bestViolations) == 0 {
			break
		}
	}

	select {
	case <-ctx.Done():
		return finalize(best, bestViolations, true)
	default:
	}

	return finalize(best, bestViolations, false)
}

// localSearch runs one hill-climbing attempt from a freshly randomized
// initial grid, accepting strictly-improving moves always and sideways
// (equal-cost) moves with a probability that cools as the attempt's
// non-improving streak grows (simulated-annealing-style diversification
// within a single restart, on top of the randomized restarts Solve
// itself performs). It returns once ctx is done or its own
// non-improving-move budget is exhausted.
func localSearch(ctx context.Context, m *model.Model, obj *objective.Objective, universe []domain.ShiftType, rng *rand.Rand, budget int) (*model.Grid, float64, []model.Violation, bool) {
	current := constructRandomized(m, universe, rng)
	currentCost, currentViolations := cost(m, obj, current)

	best := current.Clone()
	bestCost := currentCost
	bestViolations := currentViolations

	if len(m.StaffNames) == 0 || len(m.Days) == 0 {
		return best, bestCost, bestViolations, false
	}

	noImprove := 0
	for noImprove < budget {
		select {
		case <-ctx.Done():
			return best, bestCost, bestViolations, true
		default:
		}

		si := rng.Intn(len(m.StaffNames))
		di := rng.Intn(len(m.Days))
		original := current.Get(si, di)

		bestCand := original
		bestCandCost := currentCost
		bestCandViolations := currentViolations
		sideCand := original
		var sideCandViolations []model.Violation
		foundBetter := false
		for _, cand := range universe {
			if cand == original {
				continue
			}
			current.Set(si, di, cand)
			c, v := cost(m, obj, current)
			if c < bestCandCost {
				bestCandCost, bestCandViolations, bestCand = c, v, cand
				foundBetter = true
			} else if c == currentCost && sideCand == original {
				sideCand, sideCandViolations = cand, v
			}
		}
		current.Set(si, di, original)

		switch {
		case foundBetter:
			current.Set(si, di, bestCand)
			currentCost, currentViolations = bestCandCost, bestCandViolations
			noImprove = 0
		case acceptSideways(rng, noImprove, budget) && sideCand != original:
			current.Set(si, di, sideCand)
			currentViolations = sideCandViolations
			noImprove++
		default:
			noImprove++
		}

		if currentCost < bestCost {
			bestCost = currentCost
			bestViolations = currentViolations
			best = current.Clone()
		}
	}

	return best, bestCost, bestViolations, false
}

// acceptSideways decides whether to take a non-improving move so the
// search can escape a local optimum instead of stalling there, with
// acceptance probability cooling from ~0.3 to ~0 as noImprove
// approaches budget.
func acceptSideways(rng *rand.Rand, noImprove, budget int) bool {
	temperature := 1 - float64(noImprove)/float64(budget)
	if temperature <= 0 {
		return false
	}
	return rng.Float64() < 0.3*math.Max(temperature, 0)
}

func finalize(g *model.Grid, violations []model.Violation, timedOut bool) *Result {
	status := StatusOptimal
	switch {
	case timedOut && len(violations) > 0:
		status = StatusUnknown
	case len(violations) > 0:
		status = StatusInfeasible
	}
	return &Result{Grid: g, Status: status, Violations: violations}
}

func cost(m *model.Model, obj *objective.Objective, g *model.Grid) (float64, []model.Violation) {
	violations := m.CheckAll(g)
	return hardViolationWeight*float64(len(violations)) - obj.Score(g), violations
}

// constructGreedy seeds the search with a cheap per-cell choice: honor a
// concrete hope if one exists, otherwise the first able/admissible shift
// type in universe order. Global constraints (requirement counts,
// consecutive-work windows, ...) are left to the local-search phase.
func constructGreedy(m *model.Model, universe []domain.ShiftType) *model.Grid {
	g := model.NewGrid(len(m.StaffNames), len(m.Days))
	for si := range m.StaffNames {
		staff := m.Config.Staff[si]
		for di := range m.Days {
			if tok, ok := m.Config.Hopes[domain.HopeKey{Staff: staff.Name, Day: m.Days[di]}]; ok && !tok.IsGeneric() {
				g.Set(si, di, domain.ShiftType(tok))
				continue
			}
			g.Set(si, di, pickInitial(m, staff, universe))
		}
	}
	return g
}

// constructRandomized is constructGreedy's counterpart for restarts: it
// shuffles the candidate-type order independently per staff member so
// different restarts seed from different regions of the search space
// instead of all starting from the same deterministic grid.
func constructRandomized(m *model.Model, universe []domain.ShiftType, rng *rand.Rand) *model.Grid {
	g := model.NewGrid(len(m.StaffNames), len(m.Days))
	shuffled := append([]domain.ShiftType(nil), universe...)
	for si := range m.StaffNames {
		staff := m.Config.Staff[si]
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		for di := range m.Days {
			g.Set(si, di, pickInitial(m, staff, shuffled))
		}
	}
	return g
}

func pickInitial(m *model.Model, staff domain.Staff, universe []domain.ShiftType) domain.ShiftType {
	for _, t := range universe {
		if m.IsWork(t) && !staff.Able(t) {
			continue
		}
		return t
	}
	return domain.Vacant
}

func candidateTypes(m *model.Model) []domain.ShiftType {
	types := append([]domain.ShiftType(nil), m.Config.ShiftTypes...)
	if len(types) == 0 {
		types = []domain.ShiftType{domain.Vacant}
	}
	return types
}

// searchSeed derives a deterministic RNG seed from the problem's shape,
// so identical Configs reproduce identical local-search trajectories
// (spec.md §8's "re-solve determinism" property, within the tie-breaker's
// resolution power).
func searchSeed(m *model.Model) int64 {
	return int64(len(m.StaffNames))*1_000_003 + int64(len(m.Days))*97 + int64(len(m.Constraints))
}
