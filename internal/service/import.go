package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"workouttracker/internal/store"
	"workouttracker/internal/strava"
)

// ImportService loads activity exports into the workout store
type ImportService struct {
	store *store.Store
	now   func() time.Time
}

// NewImportService creates a new import service
func NewImportService(store *store.Store) *ImportService {
	return &ImportService{store: store, now: time.Now}
}

// ImportProgress reports progress during an import
type ImportProgress struct {
	Phase     string // PhaseReading or PhaseStoring
	Total     int
	Completed int
}

// ImportResult contains the results of an import
type ImportResult struct {
	ActivitiesRead int
	Stored         int
	Duplicates     int
	Errors         []error
	TotalWorkouts  int // workouts stored after the import
}

// ImportFile reads a Strava activity export and stores every activity that is
// not already present. progress, when non-nil, is closed on return.
func (s *ImportService) ImportFile(ctx context.Context, path string, progress chan<- ImportProgress) (*ImportResult, error) {
	if progress != nil {
		defer close(progress)
	}

	activities, err := strava.ReadActivitiesFile(ctx, path, time.Time{}, func(read int) {
		sendProgress(progress, ImportProgress{Phase: PhaseReading, Completed: read})
	})
	if err != nil {
		return &ImportResult{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	result, err := s.importActivities(ctx, activities, progress)
	if err != nil {
		return result, err
	}

	if err := s.store.SetState(ctx, store.StateLastImportSource, path); err != nil {
		logrus.WithError(err).Warn("failed to record import source")
	}
	return result, nil
}

// ImportActivities stores already-decoded activities, skipping any whose start
// instant matches a stored workout. progress, when non-nil, is closed on return.
func (s *ImportService) ImportActivities(ctx context.Context, activities []strava.Activity, progress chan<- ImportProgress) (*ImportResult, error) {
	if progress != nil {
		defer close(progress)
	}
	return s.importActivities(ctx, activities, progress)
}

func (s *ImportService) importActivities(ctx context.Context, activities []strava.Activity, progress chan<- ImportProgress) (*ImportResult, error) {
	result := &ImportResult{ActivitiesRead: len(activities)}
	sendProgress(progress, ImportProgress{Phase: PhaseStoring, Total: len(activities)})

	for i, a := range activities {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		w := a.ToWorkout()
		if w.Date != nil {
			exists, err := s.store.WorkoutExistsAt(ctx, *w.Date)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("checking activity %d: %w", a.ID, err))
				continue
			}
			if exists {
				result.Duplicates++
				continue
			}
		}

		if err := s.store.CreateWorkout(ctx, &w); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing activity %d: %w", a.ID, err))
			continue
		}
		result.Stored++

		if (i+1)%25 == 0 {
			sendProgress(progress, ImportProgress{Phase: PhaseStoring, Total: len(activities), Completed: i + 1})
		}
	}

	if err := s.store.SetState(ctx, store.StateLastImport, s.now().UTC().Format(time.RFC3339)); err != nil {
		logrus.WithError(err).Warn("failed to record import time")
	}

	total, err := s.store.CountWorkouts(ctx)
	if err != nil {
		logrus.WithError(err).Warn("failed to count workouts")
	}
	result.TotalWorkouts = total

	logrus.WithFields(logrus.Fields{
		"read":       result.ActivitiesRead,
		"stored":     result.Stored,
		"duplicates": result.Duplicates,
		"errors":     len(result.Errors),
		"total":      total,
	}).Info("import finished")

	return result, nil
}

// sendProgress delivers p without blocking when nobody is listening
func sendProgress(progress chan<- ImportProgress, p ImportProgress) {
	if progress == nil {
		return
	}
	select {
	case progress <- p:
	default:
	}
}
