package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreatePlan inserts a plan with all of its days, exercises, sets and
// durations in one transaction. Missing IDs are generated and order indices
// follow slice order.
func (s *Store) CreatePlan(ctx context.Context, p *Plan) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plans (id, name, description, type, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.Type, formatDate(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}

	for i := range p.Days {
		day := &p.Days[i]
		day.PlanID = p.ID
		day.OrderIndex = i
		if err := insertDay(ctx, tx, day); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertDay(ctx context.Context, q querier, day *Day) error {
	if day.ID == "" {
		day.ID = uuid.NewString()
	}
	if day.CreatedAt.IsZero() {
		day.CreatedAt = time.Now()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO plan_days (id, plan_id, name, order_index, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, day.ID, day.PlanID, day.Name, day.OrderIndex, formatDate(day.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting day %q: %w", day.Name, err)
	}

	for i := range day.Exercises {
		ex := &day.Exercises[i]
		ex.DayID = day.ID
		ex.OrderIndex = i
		if err := insertExercise(ctx, q, ex); err != nil {
			return err
		}
	}
	return nil
}

func insertExercise(ctx context.Context, q querier, ex *Exercise) error {
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	if ex.ExerciseType == "" {
		ex.ExerciseType = ExerciseTypeSetsReps
	}
	ex.CircuitName = strings.TrimSpace(ex.CircuitName)

	_, err := q.ExecContext(ctx, `
		INSERT INTO exercises (id, day_id, name, exercise_type, order_index, notes, circuit_name)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ex.ID, ex.DayID, ex.Name, ex.ExerciseType, ex.OrderIndex, ex.Notes, nullableString(ex.CircuitName))
	if err != nil {
		return fmt.Errorf("inserting exercise %q: %w", ex.Name, err)
	}

	for i := range ex.Sets {
		set := &ex.Sets[i]
		if set.ID == "" {
			set.ID = uuid.NewString()
		}
		set.ExerciseID = ex.ID
		set.OrderIndex = i
		if set.SetNumber == 0 {
			set.SetNumber = i + 1
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO exercise_sets (id, exercise_id, set_number, reps, weight, order_index)
			VALUES (?, ?, ?, ?, ?, ?)
		`, set.ID, set.ExerciseID, set.SetNumber, set.Reps, set.Weight, set.OrderIndex)
		if err != nil {
			return fmt.Errorf("inserting set for %q: %w", ex.Name, err)
		}
	}

	for i := range ex.Durations {
		d := &ex.Durations[i]
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		d.ExerciseID = ex.ID
		_, err := q.ExecContext(ctx, `
			INSERT INTO exercise_durations (id, exercise_id, seconds, notes)
			VALUES (?, ?, ?, ?)
		`, d.ID, d.ExerciseID, d.Seconds, d.Notes)
		if err != nil {
			return fmt.Errorf("inserting duration for %q: %w", ex.Name, err)
		}
	}
	return nil
}

// ListPlans returns all plans with their days and exercises, newest first.
func (s *Store) ListPlans(ctx context.Context) ([]Plan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, type, created_at
		FROM plans
		ORDER BY created_at DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}

	var plans []Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range plans {
		days, err := s.listDays(ctx, plans[i].ID)
		if err != nil {
			return nil, err
		}
		plans[i].Days = days
	}
	return plans, nil
}

// GetPlan retrieves a plan with its days and exercises
func (s *Store) GetPlan(ctx context.Context, id string) (*Plan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, type, created_at
		FROM plans
		WHERE id = ?
	`, id)

	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	p.Days, err = s.listDays(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePlan removes a plan and, through cascades, everything it owns
func (s *Store) DeletePlan(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// GetDay retrieves a single plan day with its exercises
func (s *Store) GetDay(ctx context.Context, id string) (*Day, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, plan_id, name, order_index, created_at
		FROM plan_days
		WHERE id = ?
	`, id)

	d, err := scanDay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDayNotFound
	}
	if err != nil {
		return nil, err
	}

	d.Exercises, err = s.ListExercises(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Store) listDays(ctx context.Context, planID string) ([]Day, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, plan_id, name, order_index, created_at
		FROM plan_days
		WHERE plan_id = ?
		ORDER BY order_index, created_at
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing days: %w", err)
	}

	var days []Day
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		days = append(days, *d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range days {
		days[i].Exercises, err = s.ListExercises(ctx, days[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return days, nil
}

// ListExercises returns a day's exercises sorted by order index, with their
// sets and durations attached.
func (s *Store) ListExercises(ctx context.Context, dayID string) ([]Exercise, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, day_id, name, exercise_type, order_index, notes, circuit_name
		FROM exercises
		WHERE day_id = ?
		ORDER BY order_index, rowid
	`, dayID)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}

	var exercises []Exercise
	for rows.Next() {
		var ex Exercise
		var notes, circuit sql.NullString
		if err := rows.Scan(&ex.ID, &ex.DayID, &ex.Name, &ex.ExerciseType, &ex.OrderIndex, &notes, &circuit); err != nil {
			rows.Close()
			return nil, err
		}
		ex.Notes = notes.String
		ex.CircuitName = circuit.String
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range exercises {
		if err := s.loadExerciseDetails(ctx, &exercises[i]); err != nil {
			return nil, err
		}
	}
	return exercises, nil
}

func (s *Store) loadExerciseDetails(ctx context.Context, ex *Exercise) error {
	setRows, err := s.db.QueryContext(ctx, `
		SELECT id, exercise_id, set_number, reps, weight, order_index
		FROM exercise_sets
		WHERE exercise_id = ?
		ORDER BY order_index
	`, ex.ID)
	if err != nil {
		return fmt.Errorf("listing sets: %w", err)
	}
	for setRows.Next() {
		var set ExerciseSet
		if err := setRows.Scan(&set.ID, &set.ExerciseID, &set.SetNumber, &set.Reps, &set.Weight, &set.OrderIndex); err != nil {
			setRows.Close()
			return err
		}
		ex.Sets = append(ex.Sets, set)
	}
	if err := setRows.Err(); err != nil {
		setRows.Close()
		return err
	}
	setRows.Close()

	durRows, err := s.db.QueryContext(ctx, `
		SELECT id, exercise_id, seconds, notes
		FROM exercise_durations
		WHERE exercise_id = ?
		ORDER BY rowid
	`, ex.ID)
	if err != nil {
		return fmt.Errorf("listing durations: %w", err)
	}
	defer durRows.Close()
	for durRows.Next() {
		var d ExerciseDuration
		var notes sql.NullString
		if err := durRows.Scan(&d.ID, &d.ExerciseID, &d.Seconds, &notes); err != nil {
			return err
		}
		d.Notes = notes.String
		ex.Durations = append(ex.Durations, d)
	}
	return durRows.Err()
}

// AddExercise appends an exercise to the end of a day. Its order index is one
// past the day's highest, so gaps left by deletes are never reused.
func (s *Store) AddExercise(ctx context.Context, ex *Exercise) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var dayCount int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM plan_days WHERE id = ?`, ex.DayID).Scan(&dayCount); err != nil {
		return err
	}
	if dayCount == 0 {
		return ErrDayNotFound
	}

	var next int
	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(order_index) + 1, 0) FROM exercises WHERE day_id = ?
	`, ex.DayID).Scan(&next); err != nil {
		return err
	}
	ex.OrderIndex = next

	if err := insertExercise(ctx, tx, ex); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetExercise retrieves a single exercise with its sets and durations
func (s *Store) GetExercise(ctx context.Context, id string) (*Exercise, error) {
	var ex Exercise
	var notes, circuit sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, day_id, name, exercise_type, order_index, notes, circuit_name
		FROM exercises
		WHERE id = ?
	`, id).Scan(&ex.ID, &ex.DayID, &ex.Name, &ex.ExerciseType, &ex.OrderIndex, &notes, &circuit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}
	ex.Notes = notes.String
	ex.CircuitName = circuit.String

	if err := s.loadExerciseDetails(ctx, &ex); err != nil {
		return nil, err
	}
	return &ex, nil
}

// UpdateExerciseCircuit moves an exercise into a circuit, or out of any
// circuit when name is empty.
func (s *Store) UpdateExerciseCircuit(ctx context.Context, exerciseID, name string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE exercises SET circuit_name = ? WHERE id = ?
	`, nullableString(strings.TrimSpace(name)), exerciseID)
	if err != nil {
		return fmt.Errorf("updating circuit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

// UpdateExerciseOrder commits new order indices for a batch of exercises
// atomically. Either every update applies or none do.
func (s *Store) UpdateExerciseOrder(ctx context.Context, updates []OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE exercises SET order_index = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		result, err := stmt.ExecContext(ctx, u.OrderIndex, u.ExerciseID)
		if err != nil {
			return fmt.Errorf("updating order of %s: %w", u.ExerciseID, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("exercise %s: %w", u.ExerciseID, ErrExerciseNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteExercise removes an exercise and its sets and durations
func (s *Store) DeleteExercise(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM exercises WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

func scanPlan(row rowScanner) (*Plan, error) {
	var p Plan
	var description, planType sql.NullString
	var createdAt string
	if err := row.Scan(&p.ID, &p.Name, &description, &planType, &createdAt); err != nil {
		return nil, err
	}
	p.Description = description.String
	p.Type = planType.String

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	p.CreatedAt = t
	return &p, nil
}

func scanDay(row rowScanner) (*Day, error) {
	var d Day
	var createdAt string
	if err := row.Scan(&d.ID, &d.PlanID, &d.Name, &d.OrderIndex, &createdAt); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	d.CreatedAt = t
	return &d, nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
