package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"child-meal-planner/internal/shared"
)

// timeLayout is how timestamps are written so SQLite date functions can read them.
const timeLayout = "2006-01-02 15:04:05"

// SolveMetric records metadata for a single meal solve.
type SolveMetric struct {
	PlanID     string
	Day        string
	Meal       string
	Status     shared.SolveStatus
	Candidates int
	LatencyMS  int64
	Timestamp  time.Time
}

// Store handles persistence of solve metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const insertSolveMetric = `
INSERT INTO solve_metrics (plan_id, day, meal, status, candidates, latency_ms, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// record saves a single metric to the database.
func (s *Store) record(ctx context.Context, m SolveMetric) error {
	_, err := s.db.ExecContext(ctx, insertSolveMetric, insertArgs(m)...)
	if err != nil {
		return fmt.Errorf("failed to record solve metric: %w", err)
	}
	return nil
}

// RecordAll saves the metadata of a whole plan in one transaction.
func (s *Store) RecordAll(ctx context.Context, metas []shared.SolveMeta) error {
	if len(metas) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, insertSolveMetric)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, meta := range metas {
		m := MapMeta(meta)
		m.Timestamp = now
		if _, err := stmt.ExecContext(ctx, insertArgs(m)...); err != nil {
			return fmt.Errorf("failed to record %s %s: %w", meta.Day, meta.Meal, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit solve metrics: %w", err)
	}
	return nil
}

func insertArgs(m SolveMetric) []any {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return []any{m.PlanID, m.Day, m.Meal, string(m.Status), m.Candidates, m.LatencyMS, ts.UTC().Format(timeLayout)}
}

// DailyUsage summarises the solves of a single day.
type DailyUsage struct {
	Date         string
	Plans        int
	Solves       int
	Optimal      int
	Relaxed      int
	Failed       int
	AvgLatencyMS float64
}

// GetDailyUsage retrieves usage for the last N days, newest first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format(timeLayout)
	rows, err := s.db.QueryContext(ctx, `
		SELECT date(timestamp) AS usage_date,
		       COUNT(DISTINCT plan_id),
		       COUNT(*),
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(AVG(latency_ms), 0)
		FROM solve_metrics
		WHERE timestamp >= ?
		GROUP BY usage_date
		ORDER BY usage_date DESC`,
		string(shared.StatusOptimal), string(shared.StatusRelaxed), string(shared.StatusFailed), since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var (
			u   DailyUsage
			day sql.NullString
		)
		if err := rows.Scan(&day, &u.Plans, &u.Solves, &u.Optimal, &u.Relaxed, &u.Failed, &u.AvgLatencyMS); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		u.Date = "Unknown"
		if day.Valid {
			u.Date = day.String
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// reports how many were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(timeLayout)
	res, err := s.db.ExecContext(ctx, `DELETE FROM solve_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up solve metrics: %w", err)
	}
	return res.RowsAffected()
}

// MapMeta converts planner metadata into a SolveMetric.
func MapMeta(meta shared.SolveMeta) SolveMetric {
	return SolveMetric{
		PlanID:     meta.PlanID,
		Day:        meta.Day,
		Meal:       meta.Meal,
		Status:     meta.Status,
		Candidates: meta.Candidates,
		LatencyMS:  meta.Latency.Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}
}
