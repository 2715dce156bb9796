package store

import (
	"context"
	"fmt"
)

// UpsertWorkout inserts or updates a catalog workout, keyed by URL
func (db *DB) UpsertWorkout(ctx context.Context, w *Workout) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO workouts (name, url, duration, category, tss, description)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			name = excluded.name,
			duration = excluded.duration,
			category = excluded.category,
			tss = excluded.tss,
			description = excluded.description
	`, w.Name, w.URL, w.DurationMinutes, w.Category, w.Stress, w.Description)
	if err != nil {
		return fmt.Errorf("upserting workout %q: %w", w.URL, err)
	}
	return nil
}

// ListWorkouts returns the whole catalog ordered by category and duration
func (db *DB) ListWorkouts(ctx context.Context) ([]Workout, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, url, duration, category, tss, description
		FROM workouts
		ORDER BY category ASC, duration ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		var w Workout
		if err := rows.Scan(&w.ID, &w.Name, &w.URL, &w.DurationMinutes, &w.Category, &w.Stress, &w.Description); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// CountWorkouts returns the catalog size
func (db *DB) CountWorkouts(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM workouts").Scan(&count)
	return count, err
}
