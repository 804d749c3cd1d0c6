package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Logged workouts. date is nullable so imported rows with a missing
		// timestamp survive and are simply left out of date statistics.
		`CREATE TABLE IF NOT EXISTS workouts (
			id TEXT PRIMARY KEY,
			date TEXT,
			duration_minutes REAL NOT NULL DEFAULT 0,
			type TEXT,
			calories REAL NOT NULL DEFAULT 0,
			heart_rate REAL NOT NULL DEFAULT 0,
			notes TEXT,
			tags TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_workouts_date ON workouts(date)`,
		`CREATE INDEX IF NOT EXISTS idx_workouts_type ON workouts(type)`,

		// Plans
		`CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			type TEXT,
			created_at TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS plan_days (
			id TEXT PRIMARY KEY,
			plan_id TEXT NOT NULL,
			name TEXT NOT NULL,
			order_index INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_plan_days_plan ON plan_days(plan_id)`,

		`CREATE TABLE IF NOT EXISTS exercises (
			id TEXT PRIMARY KEY,
			day_id TEXT NOT NULL,
			name TEXT NOT NULL,
			exercise_type TEXT NOT NULL,
			order_index INTEGER NOT NULL,
			notes TEXT,
			circuit_name TEXT,
			FOREIGN KEY (day_id) REFERENCES plan_days(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_exercises_day ON exercises(day_id)`,

		`CREATE TABLE IF NOT EXISTS exercise_sets (
			id TEXT PRIMARY KEY,
			exercise_id TEXT NOT NULL,
			set_number INTEGER NOT NULL,
			reps INTEGER NOT NULL,
			weight REAL NOT NULL DEFAULT 0,
			order_index INTEGER NOT NULL,
			FOREIGN KEY (exercise_id) REFERENCES exercises(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_exercise_sets_exercise ON exercise_sets(exercise_id)`,

		`CREATE TABLE IF NOT EXISTS exercise_durations (
			id TEXT PRIMARY KEY,
			exercise_id TEXT NOT NULL,
			seconds INTEGER NOT NULL,
			notes TEXT,
			FOREIGN KEY (exercise_id) REFERENCES exercises(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_exercise_durations_exercise ON exercise_durations(exercise_id)`,

		// App state (key-value store for import bookkeeping)
		`CREATE TABLE IF NOT EXISTS app_state (
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
