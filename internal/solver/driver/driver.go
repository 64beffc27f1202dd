// Package driver implements SolverDriver (spec.md §4.4): it runs the
// engine backend on a worker goroutine while the foreground polls every
// ~100ms to report progress, enforces the solve timeout, and maps the
// backend status onto the core's five error kinds.
//
// Grounded on two verified patterns: brunoaclopes-vacation-planner's
// internal/holidays/service.go background-goroutine-plus-mutex-status
// shape, and the original Python implementation's
// ThreadPoolExecutor-submit-plus-future.done()-polled-every-0.1s loop
// (see SPEC_FULL.md §C).
package driver

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/brunolopes/shiftcore/internal/calendar"
	"github.com/brunolopes/shiftcore/internal/coreerr"
	"github.com/brunolopes/shiftcore/internal/domain"
	"github.com/brunolopes/shiftcore/internal/normalize"
	"github.com/brunolopes/shiftcore/internal/solver/diagnose"
	"github.com/brunolopes/shiftcore/internal/solver/engine"
	"github.com/brunolopes/shiftcore/internal/solver/model"
	"github.com/brunolopes/shiftcore/internal/solver/objective"
	"github.com/brunolopes/shiftcore/internal/solver/validate"
)

// pollInterval is how often the foreground checks the worker goroutine
// and calls Progress, matching the original's 100ms polling loop.
const pollInterval = 100 * time.Millisecond

// Progress is called from the foreground roughly every pollInterval
// while a solve is in flight. Fraction is min(1, elapsed/timeout).
type Progress func(runID uuid.UUID, elapsed time.Duration, fraction float64)

// Driver runs solves. It is safe for concurrent use: each Solve call
// owns its own worker goroutine and derived context.
type Driver struct {
	logger *log.Logger
}

// New returns a Driver that logs to logger (never nil — pass log.Default()).
func New(logger *log.Logger) *Driver {
	return &Driver{logger: logger}
}

// Solve normalizes cfg, builds the model and objective, and runs the
// backend with a timeout. onProgress may be nil.
func (d *Driver) Solve(ctx context.Context, cfg domain.Config, onProgress Progress) (domain.Schedule, []domain.Warning, error) {
	runID := uuid.New()

	nc, warnings, err := normalize.Normalize(cfg)
	if err != nil {
		return domain.Schedule{}, nil, err
	}

	cal, err := calendar.Build(nc.Start, nc.End, nc.IsPublicHoliday)
	if err != nil {
		return domain.Schedule{}, nil, err
	}

	m := model.Build(nc, cal)
	obj := objective.Build(nc, cal, m)

	timeoutSecs := nc.SolverTimeoutSecs
	solveCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	d.logger.Printf("solve %s: starting (%d staff, %d days, timeout %ds)", runID, len(nc.Staff), len(cal.Days), timeoutSecs)

	resultCh := make(chan *engine.Result, 1)
	start := time.Now()
	go func() {
		resultCh <- engine.Solve(solveCtx, m, obj)
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var res *engine.Result
loop:
	for {
		select {
		case res = <-resultCh:
			break loop
		case <-ticker.C:
			elapsed := time.Since(start)
			fraction := elapsed.Seconds() / float64(timeoutSecs)
			if fraction > 1 {
				fraction = 1
			}
			if onProgress != nil {
				onProgress(runID, elapsed, fraction)
			}
		}
	}

	switch res.Status {
	case engine.StatusOptimal:
		sched := res.Grid.ToSchedule(m.StaffNames, m.Days)
		warnings = append(warnings, validate.Validate(nc, cal, sched)...)
		d.logger.Printf("solve %s: ok (%d warnings)", runID, len(warnings))
		return sched, warnings, nil

	case engine.StatusInfeasible:
		d.logger.Printf("solve %s: infeasible, diagnosing", runID)
		causes := diagnose.Diagnose(ctx, nc, cal)
		return domain.Schedule{}, nil, coreerr.NewInfeasible(causes)

	case engine.StatusUnknown:
		elapsed := time.Since(start).Seconds()
		d.logger.Printf("solve %s: timeout after %.1fs", runID, elapsed)
		return domain.Schedule{}, nil, coreerr.NewTimeout(elapsed, timeoutSecs)

	default:
		return domain.Schedule{}, nil, coreerr.NewInternalError("backend returned unexpected status %q", res.Status)
	}
}
