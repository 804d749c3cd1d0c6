package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"workouttracker/internal/plan"
	"workouttracker/internal/store"
)

// PlanService reads plans and reorders their exercises
type PlanService struct {
	store *store.Store
}

// NewPlanService creates a new plan service
func NewPlanService(store *store.Store) *PlanService {
	return &PlanService{store: store}
}

// ListPlans returns every plan with its days
func (s *PlanService) ListPlans(ctx context.Context) ([]store.Plan, error) {
	return s.store.ListPlans(ctx)
}

// GetPlan returns one plan with its days
func (s *PlanService) GetPlan(ctx context.Context, id string) (*store.Plan, error) {
	return s.store.GetPlan(ctx, id)
}

// CreatePlan stores a new plan with all of its days and exercises
func (s *PlanService) CreatePlan(ctx context.Context, p *store.Plan) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("plan name is required")
	}
	if err := s.store.CreatePlan(ctx, p); err != nil {
		return fmt.Errorf("creating plan: %w", err)
	}
	return nil
}

// DeletePlan removes a plan with its days and exercises
func (s *PlanService) DeletePlan(ctx context.Context, id string) error {
	if err := s.store.DeletePlan(ctx, id); err != nil {
		return fmt.Errorf("deleting plan %s: %w", id, err)
	}
	logrus.WithField("plan_id", id).Info("plan deleted")
	return nil
}

// DayGroups returns a day's exercises grouped into circuits
func (s *PlanService) DayGroups(ctx context.Context, dayID string) ([]plan.Group, error) {
	exercises, err := s.store.ListExercises(ctx, dayID)
	if err != nil {
		return nil, err
	}
	if len(exercises) == 0 {
		// Distinguish an empty day from a missing one
		if _, err := s.store.GetDay(ctx, dayID); err != nil {
			return nil, err
		}
	}
	return plan.GroupByCircuit(exercises), nil
}

// MoveGroup moves the group at from to position to, renumbers every exercise
// in the day and commits the new order. The returned groups reflect the new
// order even when the commit fails.
func (s *PlanService) MoveGroup(ctx context.Context, dayID string, from, to int) ([]plan.Group, error) {
	groups, err := s.DayGroups(ctx, dayID)
	if err != nil {
		return nil, err
	}

	moved, err := plan.MoveGroup(groups, from, to)
	if err != nil {
		return groups, err
	}

	if err := plan.RenumberAfterReorder(ctx, s.store, moved); err != nil {
		logrus.WithFields(logrus.Fields{
			"day_id": dayID,
			"from":   from,
			"to":     to,
		}).WithError(err).Error("failed to save group order")
		return moved, err
	}

	logrus.WithFields(logrus.Fields{
		"day_id": dayID,
		"from":   from,
		"to":     to,
	}).Debug("group moved")
	return moved, nil
}

// CircuitOptions lists the circuits a new exercise in the day can join
func (s *PlanService) CircuitOptions(ctx context.Context, dayID string) ([]string, error) {
	exercises, err := s.store.ListExercises(ctx, dayID)
	if err != nil {
		return nil, err
	}
	return plan.CircuitOptions(plan.CircuitNames(exercises)), nil
}

// NewCircuit asks for the next free circuit label of a day
const NewCircuit = "new"

// resolveCircuit turns NewCircuit into the day's next free label. Any other
// name is returned trimmed.
func (s *PlanService) resolveCircuit(ctx context.Context, dayID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if !strings.EqualFold(name, NewCircuit) {
		return name, nil
	}
	options, err := s.CircuitOptions(ctx, dayID)
	if err != nil {
		return "", err
	}
	return options[len(options)-1], nil
}

// ExerciseInput describes an exercise added to a day
type ExerciseInput struct {
	Name        string
	Type        string // store.ExerciseTypeSetsReps or store.ExerciseTypeDuration
	CircuitName string
	Notes       string
	Sets        []store.ExerciseSet
	Durations   []store.ExerciseDuration
}

// AddExercise appends an exercise to the end of a day
func (s *PlanService) AddExercise(ctx context.Context, dayID string, in ExerciseInput) (*store.Exercise, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("exercise name is required")
	}
	switch in.Type {
	case "":
		in.Type = store.ExerciseTypeSetsReps
	case store.ExerciseTypeSetsReps, store.ExerciseTypeDuration:
	default:
		return nil, fmt.Errorf("unknown exercise type %q", in.Type)
	}

	circuit, err := s.resolveCircuit(ctx, dayID, in.CircuitName)
	if err != nil {
		return nil, err
	}

	ex := &store.Exercise{
		DayID:        dayID,
		Name:         strings.TrimSpace(in.Name),
		ExerciseType: in.Type,
		CircuitName:  circuit,
		Notes:        in.Notes,
		Sets:         in.Sets,
		Durations:    in.Durations,
	}
	if err := s.store.AddExercise(ctx, ex); err != nil {
		return nil, fmt.Errorf("adding exercise: %w", err)
	}
	return ex, nil
}

// SetCircuit moves an exercise into the named circuit, into the next free
// circuit for NewCircuit, or out of any circuit when name is blank.
func (s *PlanService) SetCircuit(ctx context.Context, exerciseID, name string) (*store.Exercise, error) {
	ex, err := s.store.GetExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	circuit, err := s.resolveCircuit(ctx, ex.DayID, name)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateExerciseCircuit(ctx, exerciseID, circuit); err != nil {
		return nil, fmt.Errorf("updating circuit: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"exercise_id": exerciseID,
		"circuit":     circuit,
	}).Debug("exercise circuit changed")
	ex.CircuitName = circuit
	return ex, nil
}

// RemoveExercise deletes an exercise from its day. The remaining exercises
// keep their order indices.
func (s *PlanService) RemoveExercise(ctx context.Context, exerciseID string) error {
	if err := s.store.DeleteExercise(ctx, exerciseID); err != nil {
		return fmt.Errorf("removing exercise %s: %w", exerciseID, err)
	}
	logrus.WithField("exercise_id", exerciseID).Info("exercise removed")
	return nil
}
