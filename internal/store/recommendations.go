package store

import (
	"context"
	"fmt"
	"time"
)

// ReplaceRecommendations atomically swaps the recommendation set of a weekly plan
func (db *DB) ReplaceRecommendations(ctx context.Context, planID string, recs []Recommendation) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recommendations WHERE weekly_plan_id = ?`, planID); err != nil {
		return fmt.Errorf("deleting recommendations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recommendations (
			weekly_plan_id, session_number, category, duration_minutes, target_stress,
			workout_name, workout_url, workout_duration, workout_stress, reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range recs {
		_, err := stmt.ExecContext(ctx,
			planID, r.SessionNumber, r.Category, r.DurationMinutes, r.TargetStress,
			r.WorkoutName, r.WorkoutURL, r.WorkoutDuration, r.WorkoutStress, r.Reason,
		)
		if err != nil {
			return fmt.Errorf("inserting recommendation %d: %w", r.SessionNumber, err)
		}
	}

	return tx.Commit()
}

// ListRecommendations returns a plan's recommendations ordered by session number
func (db *DB) ListRecommendations(ctx context.Context, planID string) ([]Recommendation, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, weekly_plan_id, session_number, category, duration_minutes, target_stress,
			workout_name, workout_url, workout_duration, workout_stress, reason, created_at
		FROM recommendations
		WHERE weekly_plan_id = ?
		ORDER BY session_number ASC
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing recommendations: %w", err)
	}
	defer rows.Close()

	var recs []Recommendation
	for rows.Next() {
		var r Recommendation
		var createdAt string
		err := rows.Scan(
			&r.ID, &r.WeeklyPlanID, &r.SessionNumber, &r.Category, &r.DurationMinutes, &r.TargetStress,
			&r.WorkoutName, &r.WorkoutURL, &r.WorkoutDuration, &r.WorkoutStress, &r.Reason, &createdAt,
		)
		if err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(sqliteTimestampLayout, createdAt)
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
