package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the storage format of week start dates
const DateLayout = "2006-01-02"

// sqliteTimestampLayout matches SQLite's CURRENT_TIMESTAMP
const sqliteTimestampLayout = "2006-01-02 15:04:05"

// UpsertWeeklyPlan creates the plan for (athlete, week) or replaces its sessions.
// The stored plan is returned; its ID is stable across updates of the same week.
func (db *DB) UpsertWeeklyPlan(ctx context.Context, p *WeeklyPlan) (*WeeklyPlan, error) {
	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}

	durations, err := json.Marshal(p.SessionDurations)
	if err != nil {
		return nil, fmt.Errorf("encoding session durations: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO weekly_plans (id, athlete_id, week_start, session_count, session_durations, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(athlete_id, week_start) DO UPDATE SET
			session_count = excluded.session_count,
			session_durations = excluded.session_durations,
			updated_at = CURRENT_TIMESTAMP
	`, id, p.AthleteID, p.WeekStart.Format(DateLayout), p.SessionCount, string(durations))
	if err != nil {
		return nil, fmt.Errorf("upserting weekly plan: %w", err)
	}

	return db.FindWeeklyPlan(ctx, p.AthleteID, p.WeekStart)
}

// FindWeeklyPlan returns the athlete's plan for the week starting at weekStart.
// Returns ErrPlanNotFound if no plan exists.
func (db *DB) FindWeeklyPlan(ctx context.Context, athleteID int64, weekStart time.Time) (*WeeklyPlan, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, athlete_id, week_start, session_count, session_durations, created_at, updated_at
		FROM weekly_plans
		WHERE athlete_id = ? AND week_start = ?
	`, athleteID, weekStart.Format(DateLayout))

	p, err := scanWeeklyPlan(row, weekStart.Location())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	return p, err
}

// LatestWeeklyPlan returns the most recent plan whose week started on or before t
func (db *DB) LatestWeeklyPlan(ctx context.Context, athleteID int64, t time.Time) (*WeeklyPlan, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, athlete_id, week_start, session_count, session_durations, created_at, updated_at
		FROM weekly_plans
		WHERE athlete_id = ? AND week_start <= ?
		ORDER BY week_start DESC
		LIMIT 1
	`, athleteID, t.Format(DateLayout))

	p, err := scanWeeklyPlan(row, t.Location())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	return p, err
}

func scanWeeklyPlan(row scanner, loc *time.Location) (*WeeklyPlan, error) {
	var p WeeklyPlan
	var weekStart, durations, createdAt, updatedAt string

	if err := row.Scan(&p.ID, &p.AthleteID, &weekStart, &p.SessionCount, &durations, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	p.WeekStart, err = time.ParseInLocation(DateLayout, weekStart, loc)
	if err != nil {
		return nil, fmt.Errorf("parsing week start %q: %w", weekStart, err)
	}
	if err := json.Unmarshal([]byte(durations), &p.SessionDurations); err != nil {
		return nil, fmt.Errorf("decoding session durations: %w", err)
	}
	p.CreatedAt, _ = time.Parse(sqliteTimestampLayout, createdAt)
	p.UpdatedAt, _ = time.Parse(sqliteTimestampLayout, updatedAt)

	return &p, nil
}
