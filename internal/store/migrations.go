package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (one row per athlete)
		`CREATE TABLE IF NOT EXISTS auth (
			athlete_id INTEGER PRIMARY KEY,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Activities (summary data from /athlete/activities or FIT imports)
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY,
			athlete_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			start_date TEXT NOT NULL,
			distance REAL NOT NULL,
			moving_time INTEGER NOT NULL,
			elapsed_time INTEGER NOT NULL,
			total_elevation_gain REAL,
			average_watts REAL,
			max_watts REAL,
			average_heartrate REAL,
			max_heartrate REAL,
			suffer_score INTEGER,
			source TEXT NOT NULL DEFAULT 'strava',
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_athlete_start ON activities(athlete_id, start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type)`,

		// Weekly plans, one per athlete and week
		`CREATE TABLE IF NOT EXISTS weekly_plans (
			id TEXT PRIMARY KEY,
			athlete_id INTEGER NOT NULL,
			week_start TEXT NOT NULL,
			session_count INTEGER NOT NULL,
			session_durations TEXT NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (athlete_id, week_start)
		)`,

		// Recommendations generated for a weekly plan
		`CREATE TABLE IF NOT EXISTS recommendations (
			id INTEGER PRIMARY KEY,
			weekly_plan_id TEXT NOT NULL,
			session_number INTEGER NOT NULL,
			category TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL,
			target_stress INTEGER NOT NULL,
			workout_name TEXT NOT NULL,
			workout_url TEXT NOT NULL,
			workout_duration INTEGER NOT NULL,
			workout_stress INTEGER NOT NULL,
			reason TEXT NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (weekly_plan_id) REFERENCES weekly_plans(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_recommendations_plan ON recommendations(weekly_plan_id)`,

		// Workout catalog
		`CREATE TABLE IF NOT EXISTS workouts (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			url TEXT NOT NULL UNIQUE,
			duration INTEGER NOT NULL,
			category TEXT NOT NULL,
			tss INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_workouts_category ON workouts(category, duration)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
