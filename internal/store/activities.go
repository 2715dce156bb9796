package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const activityColumns = `id, athlete_id, name, type, start_date, distance, moving_time, elapsed_time,
	total_elevation_gain, average_watts, max_watts, average_heartrate, max_heartrate,
	suffer_score, source`

// UpsertActivity inserts or updates an activity
func (db *DB) UpsertActivity(ctx context.Context, a *Activity) error {
	source := a.Source
	if source == "" {
		source = SourceStrava
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO activities (`+activityColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			athlete_id = excluded.athlete_id,
			name = excluded.name,
			type = excluded.type,
			start_date = excluded.start_date,
			distance = excluded.distance,
			moving_time = excluded.moving_time,
			elapsed_time = excluded.elapsed_time,
			total_elevation_gain = excluded.total_elevation_gain,
			average_watts = excluded.average_watts,
			max_watts = excluded.max_watts,
			average_heartrate = excluded.average_heartrate,
			max_heartrate = excluded.max_heartrate,
			suffer_score = excluded.suffer_score,
			source = excluded.source,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.AthleteID, a.Name, a.Type, formatTime(a.StartDate),
		a.Distance, a.MovingTime, a.ElapsedTime, a.TotalElevationGain,
		a.AverageWatts, a.MaxWatts, a.AverageHeartrate, a.MaxHeartrate,
		a.SufferScore, source,
	)
	if err != nil {
		return fmt.Errorf("upserting activity %d: %w", a.ID, err)
	}
	return nil
}

// GetActivity retrieves an activity by ID
func (db *DB) GetActivity(ctx context.Context, id int64) (*Activity, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE id = ?
	`, id)

	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListActivitiesSince returns an athlete's activities that started at or after since,
// ordered by start date descending
func (db *DB) ListActivitiesSince(ctx context.Context, athleteID int64, since time.Time) ([]Activity, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE athlete_id = ? AND start_date >= ?
		ORDER BY start_date DESC
	`, athleteID, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

// CountActivities returns the number of stored activities for an athlete
func (db *DB) CountActivities(ctx context.Context, athleteID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities WHERE athlete_id = ?", athleteID).Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...any) error
}

// scanActivity scans a single activity from a row
func scanActivity(row scanner) (*Activity, error) {
	var a Activity
	var startDate string

	err := row.Scan(
		&a.ID, &a.AthleteID, &a.Name, &a.Type, &startDate,
		&a.Distance, &a.MovingTime, &a.ElapsedTime, &a.TotalElevationGain,
		&a.AverageWatts, &a.MaxWatts, &a.AverageHeartrate, &a.MaxHeartrate,
		&a.SufferScore, &a.Source,
	)
	if err != nil {
		return nil, err
	}

	a.StartDate, err = time.Parse(time.RFC3339, startDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start date %q: %w", startDate, err)
	}
	return &a, nil
}

// formatTime stores instants in UTC so lexical comparison matches time order
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
