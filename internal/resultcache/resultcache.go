// Package resultcache memoizes completed solves keyed by
// internal/signature's InputSignature, so a caller re-submitting an
// unchanged Config can skip a re-solve entirely (spec.md §4.4's
// SolverDriver says nothing about this — it is an addition this module
// makes on top of it, not a spec.md component of its own).
//
// Grounded on the teacher's internal/database/database.go: one SQLite
// file, schema created on Open, plain database/sql with the sqlite3
// driver registered for its side effect.
package resultcache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/brunolopes/shiftcore/internal/domain"
)

// Cache is a SQLite-backed store of (signature -> solve result).
type Cache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS solve_cache (
	signature  TEXT PRIMARY KEY,
	schedule   TEXT NOT NULL,
	warnings   TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Open creates (if needed) the directory containing path and the
// solve_cache table, then returns a Cache backed by it.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("resultcache: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("resultcache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("resultcache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns a previously cached (Schedule, Warnings) pair for
// signature. ok is false on a cache miss.
func (c *Cache) Get(signature string) (sched domain.Schedule, warnings []domain.Warning, ok bool, err error) {
	var scheduleJSON, warningsJSON string
	row := c.db.QueryRow(`SELECT schedule, warnings FROM solve_cache WHERE signature = ?`, signature)
	if err := row.Scan(&scheduleJSON, &warningsJSON); err != nil {
		if err == sql.ErrNoRows {
			return domain.Schedule{}, nil, false, nil
		}
		return domain.Schedule{}, nil, false, fmt.Errorf("resultcache: %w", err)
	}

	sched, err = decodeSchedule(scheduleJSON)
	if err != nil {
		return domain.Schedule{}, nil, false, err
	}
	warnings, err = decodeWarnings(warningsJSON)
	if err != nil {
		return domain.Schedule{}, nil, false, err
	}
	return sched, warnings, true, nil
}

// Put stores (or replaces) the result for signature.
func (c *Cache) Put(signature string, sched domain.Schedule, warnings []domain.Warning) error {
	scheduleJSON, err := encodeSchedule(sched)
	if err != nil {
		return err
	}
	warningsJSON, err := encodeWarnings(warnings)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(
		`INSERT INTO solve_cache (signature, schedule, warnings, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(signature) DO UPDATE SET schedule = excluded.schedule, warnings = excluded.warnings, created_at = excluded.created_at`,
		signature, scheduleJSON, warningsJSON, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("resultcache: %w", err)
	}
	return nil
}

// --- JSON wire shapes. Schedule.Cell's [2]int array key isn't a valid
// JSON object key, so the cache stores a flattened cell list instead.

type scheduleDTO struct {
	StaffOrder []string      `json:"staff_order"`
	Days       []string      `json:"days"`
	Cells      []cellDTO     `json:"cells"`
}

type cellDTO struct {
	StaffIdx int              `json:"s"`
	DayIdx   int              `json:"d"`
	Shift    domain.ShiftType `json:"shift"`
}

func encodeSchedule(s domain.Schedule) (string, error) {
	dto := scheduleDTO{
		StaffOrder: s.StaffOrder,
		Days:       make([]string, len(s.Days)),
		Cells:      make([]cellDTO, 0, len(s.Cell)),
	}
	for i, d := range s.Days {
		dto.Days[i] = d.Format("2006-01-02")
	}
	for key, shift := range s.Cell {
		dto.Cells = append(dto.Cells, cellDTO{StaffIdx: key[0], DayIdx: key[1], Shift: shift})
	}
	b, err := json.Marshal(dto)
	if err != nil {
		return "", fmt.Errorf("resultcache: %w", err)
	}
	return string(b), nil
}

func decodeSchedule(raw string) (domain.Schedule, error) {
	var dto scheduleDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return domain.Schedule{}, fmt.Errorf("resultcache: %w", err)
	}
	days := make([]time.Time, len(dto.Days))
	for i, ds := range dto.Days {
		d, err := time.Parse("2006-01-02", ds)
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("resultcache: %w", err)
		}
		days[i] = d
	}
	cell := make(map[[2]int]domain.ShiftType, len(dto.Cells))
	for _, c := range dto.Cells {
		cell[[2]int{c.StaffIdx, c.DayIdx}] = c.Shift
	}
	return domain.Schedule{StaffOrder: dto.StaffOrder, Days: days, Cell: cell}, nil
}

type warningDTO struct {
	Kind    domain.WarningKind `json:"kind"`
	Day     *string            `json:"day,omitempty"`
	Staff   string             `json:"staff,omitempty"`
	Shift   domain.ShiftType   `json:"shift,omitempty"`
	Actual  int                `json:"actual"`
	Target  int                `json:"target"`
	Message string             `json:"message"`
}

func encodeWarnings(warnings []domain.Warning) (string, error) {
	dtos := make([]warningDTO, len(warnings))
	for i, w := range warnings {
		dto := warningDTO{Kind: w.Kind, Staff: w.Staff, Shift: w.Shift, Actual: w.Actual, Target: w.Target, Message: w.Message}
		if w.Day != nil {
			s := w.Day.Format("2006-01-02")
			dto.Day = &s
		}
		dtos[i] = dto
	}
	b, err := json.Marshal(dtos)
	if err != nil {
		return "", fmt.Errorf("resultcache: %w", err)
	}
	return string(b), nil
}

func decodeWarnings(raw string) ([]domain.Warning, error) {
	var dtos []warningDTO
	if err := json.Unmarshal([]byte(raw), &dtos); err != nil {
		return nil, fmt.Errorf("resultcache: %w", err)
	}
	warnings := make([]domain.Warning, len(dtos))
	for i, dto := range dtos {
		w := domain.Warning{Kind: dto.Kind, Staff: dto.Staff, Shift: dto.Shift, Actual: dto.Actual, Target: dto.Target, Message: dto.Message}
		if dto.Day != nil {
			d, err := time.Parse("2006-01-02", *dto.Day)
			if err != nil {
				return nil, fmt.Errorf("resultcache: %w", err)
			}
			w.Day = &d
		}
		warnings[i] = w
	}
	return warnings, nil
}
