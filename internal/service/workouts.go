package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"workouttracker/internal/analysis"
	"workouttracker/internal/store"
)

// ErrUnknownType is returned when a workout type is not one of the canonical types
var ErrUnknownType = errors.New("unknown workout type")

// ErrInvalidWorkout is returned when a workout's numbers are out of range
var ErrInvalidWorkout = errors.New("invalid workout")

// WorkoutService logs, edits and deletes workouts by hand
type WorkoutService struct {
	store *store.Store
}

// NewWorkoutService creates a new workout service
func NewWorkoutService(store *store.Store) *WorkoutService {
	return &WorkoutService{store: store}
}

// WorkoutInput is a workout as entered by the user
type WorkoutInput struct {
	Type            string
	Date            time.Time
	DurationMinutes float64
	Calories        float64
	HeartRate       float64
	Tags            []string
	Notes           string
}

// Validate checks the input and returns the canonical workout type
func (in WorkoutInput) Validate() (analysis.WorkoutType, error) {
	t, ok := analysis.ParseWorkoutType(in.Type)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, in.Type)
	}
	if in.Date.IsZero() {
		return "", fmt.Errorf("%w: date is required", ErrInvalidWorkout)
	}
	if in.DurationMinutes < 0 || in.DurationMinutes > MaxDurationMinutes {
		return "", fmt.Errorf("%w: duration %.0f min out of range", ErrInvalidWorkout, in.DurationMinutes)
	}
	if in.Calories < 0 {
		return "", fmt.Errorf("%w: calories cannot be negative", ErrInvalidWorkout)
	}
	if in.HeartRate < 0 || in.HeartRate > MaxValidHeartrate {
		return "", fmt.Errorf("%w: heart rate %.0f out of range", ErrInvalidWorkout, in.HeartRate)
	}
	return t, nil
}

// Add validates and stores a new workout
func (s *WorkoutService) Add(ctx context.Context, in WorkoutInput) (*store.Workout, error) {
	t, err := in.Validate()
	if err != nil {
		return nil, err
	}

	date := in.Date
	w := &store.Workout{
		Date:            &date,
		DurationMinutes: in.DurationMinutes,
		Type:            string(t),
		Calories:        in.Calories,
		HeartRate:       in.HeartRate,
		Notes:           in.Notes,
		Tags:            in.Tags,
	}
	if err := s.store.CreateWorkout(ctx, w); err != nil {
		return nil, fmt.Errorf("saving workout: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"workout_id": w.ID,
		"type":       w.Type,
		"minutes":    w.DurationMinutes,
	}).Info("workout logged")
	return w, nil
}

// Get returns a workout by ID
func (s *WorkoutService) Get(ctx context.Context, id string) (*store.Workout, error) {
	w, err := s.store.GetWorkout(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading workout %s: %w", id, err)
	}
	return w, nil
}

// InputFrom returns the editable fields of a stored workout
func InputFrom(w store.Workout) WorkoutInput {
	in := WorkoutInput{
		Type:            w.Type,
		DurationMinutes: w.DurationMinutes,
		Calories:        w.Calories,
		HeartRate:       w.HeartRate,
		Tags:            w.Tags,
		Notes:           w.Notes,
	}
	if w.Date != nil {
		in.Date = *w.Date
	}
	return in
}

// Update validates in and replaces the stored fields of workout id
func (s *WorkoutService) Update(ctx context.Context, id string, in WorkoutInput) (*store.Workout, error) {
	t, err := in.Validate()
	if err != nil {
		return nil, err
	}

	date := in.Date
	w := &store.Workout{
		ID:              id,
		Date:            &date,
		DurationMinutes: in.DurationMinutes,
		Type:            string(t),
		Calories:        in.Calories,
		HeartRate:       in.HeartRate,
		Notes:           in.Notes,
		Tags:            in.Tags,
	}
	if err := s.store.UpdateWorkout(ctx, w); err != nil {
		return nil, fmt.Errorf("updating workout %s: %w", id, err)
	}

	logrus.WithField("workout_id", id).Info("workout updated")
	return w, nil
}

// Delete removes a workout by ID
func (s *WorkoutService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteWorkout(ctx, id); err != nil {
		return fmt.Errorf("deleting workout %s: %w", id, err)
	}
	logrus.WithField("workout_id", id).Info("workout deleted")
	return nil
}
