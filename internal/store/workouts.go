package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// dateLayout is fixed-width so lexical order in SQLite matches time order
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

const workoutColumns = `id, date, duration_minutes, type, calories, heart_rate, notes, tags`

// formatDate encodes an instant for storage (UTC, millisecond precision)
func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// CreateWorkout inserts a new workout, assigning an ID when empty.
func (s *Store) CreateWorkout(ctx context.Context, w *Workout) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	w.Tags = NormalizeTags(w.Tags)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workouts (`+workoutColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, w.ID, nullableDate(w.Date), w.DurationMinutes, w.Type, w.Calories, w.HeartRate, w.Notes, JoinTags(w.Tags))
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}
	return nil
}

// UpdateWorkout replaces the stored fields of an existing workout
func (s *Store) UpdateWorkout(ctx context.Context, w *Workout) error {
	w.Tags = NormalizeTags(w.Tags)

	result, err := s.db.ExecContext(ctx, `
		UPDATE workouts SET
			date = ?, duration_minutes = ?, type = ?, calories = ?,
			heart_rate = ?, notes = ?, tags = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, nullableDate(w.Date), w.DurationMinutes, w.Type, w.Calories, w.HeartRate, w.Notes, JoinTags(w.Tags), w.ID)
	if err != nil {
		return fmt.Errorf("updating workout: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// GetWorkout retrieves a workout by ID
func (s *Store) GetWorkout(ctx context.Context, id string) (*Workout, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+workoutColumns+`
		FROM workouts
		WHERE id = ?
	`, id)

	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ListWorkouts returns a snapshot of every workout, newest first.
// Workouts without a date come last.
func (s *Store) ListWorkouts(ctx context.Context) ([]Workout, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+workoutColumns+`
		FROM workouts
		ORDER BY date IS NULL, date DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}
	return workouts, rows.Err()
}

// DeleteWorkout removes a workout
func (s *Store) DeleteWorkout(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// WorkoutExistsAt reports whether a workout starting at exactly t is stored.
// Used to skip duplicates when importing.
func (s *Store) WorkoutExistsAt(ctx context.Context, t time.Time) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM workouts WHERE date = ?
	`, formatDate(t)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountWorkouts returns the total number of workouts
func (s *Store) CountWorkouts(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM workouts").Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanWorkout scans a single workout. A date that fails to parse is logged
// and read back as nil rather than failing the whole read.
func scanWorkout(row rowScanner) (*Workout, error) {
	var w Workout
	var date, workoutType, notes, tags sql.NullString

	err := row.Scan(&w.ID, &date, &w.DurationMinutes, &workoutType, &w.Calories, &w.HeartRate, &notes, &tags)
	if err != nil {
		return nil, err
	}

	if date.Valid && date.String != "" {
		t, parseErr := time.Parse(time.RFC3339Nano, date.String)
		if parseErr != nil {
			logrus.WithFields(logrus.Fields{
				"workout_id": w.ID,
				"date":       date.String,
			}).Warn("ignoring unparseable workout date")
		} else {
			w.Date = &t
		}
	}
	w.Type = workoutType.String
	w.Notes = notes.String
	w.Tags = SplitTags(tags.String)

	return &w, nil
}

func nullableDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatDate(*t), Valid: true}
}
