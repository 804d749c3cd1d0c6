package strava

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workouttracker/internal/analysis"
)

const sampleExport = `[
  {"id": 1, "name": "Morning Run", "type": "Run", "sport_type": "TrailRun",
   "start_date": "2024-03-01T07:00:00Z", "moving_time": 1800, "elapsed_time": 2000,
   "average_heartrate": 151.5, "has_heartrate": true},
  {"id": 2, "name": "Lift", "type": "WeightTraining", "sport_type": "",
   "start_date": "2024-03-02T18:30:00Z", "moving_time": 0, "elapsed_time": 3600,
   "calories": 310},
  {"id": 3, "name": "Commute", "type": "Ride", "sport_type": "EBikeRide",
   "start_date": "2023-12-30T08:00:00Z", "moving_time": 900, "kilojoules": 120},
  {"id": 4, "name": "Mystery", "type": "Kitesurf", "start_date": null, "moving_time": 60}
]`

func TestReadActivities(t *testing.T) {
	var progress []int
	activities, err := ReadActivities(context.Background(), strings.NewReader(sampleExport), time.Time{}, func(n int) {
		progress = append(progress, n)
	})
	require.NoError(t, err)
	require.Len(t, activities, 4)
	assert.Equal(t, []int{4}, progress)

	assert.Equal(t, int64(1), activities[0].ID)
	require.NotNil(t, activities[0].StartDate)
	assert.True(t, activities[0].StartDate.Equal(time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)))
	assert.Nil(t, activities[3].StartDate)
}

func TestReadActivitiesAfter(t *testing.T) {
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	activities, err := ReadActivities(context.Background(), strings.NewReader(sampleExport), after, nil)
	require.NoError(t, err)

	// The 2023 ride is dropped, the undated activity is kept
	require.Len(t, activities, 3)
	assert.Equal(t, int64(4), activities[2].ID)
}

func TestReadActivitiesErrors(t *testing.T) {
	_, err := ReadActivities(context.Background(), strings.NewReader(`{"id": 1}`), time.Time{}, nil)
	assert.ErrorIs(t, err, ErrNotAnArray)

	_, err = ReadActivities(context.Background(), strings.NewReader(`[{"id": "x"}]`), time.Time{}, nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ReadActivities(ctx, strings.NewReader(sampleExport), time.Time{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadActivitiesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0644))

	activities, err := ReadActivitiesFile(context.Background(), path, time.Time{}, nil)
	require.NoError(t, err)
	assert.Len(t, activities, 4)

	_, err = ReadActivitiesFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"), time.Time{}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMapActivityType(t *testing.T) {
	tests := []struct {
		in   string
		want analysis.WorkoutType
	}{
		{"Walk", analysis.Walking},
		{"Hike", analysis.Walking},
		{"Run", analysis.Cardio},
		{"Swim", analysis.Cardio},
		{"Ride", analysis.Cycling},
		{"MountainBikeRide", analysis.Cycling},
		{"WeightTraining", analysis.Strength},
		{"weight_training", analysis.Strength},
		{"Crossfit", analysis.Strength},
		{"HighIntensityIntervalTraining", analysis.HIIT},
		{"Yoga", analysis.Yoga},
		{"Pilates", analysis.Flexibility},
		{"Golf", analysis.Golf},
		{"Volleyball", analysis.Volleyball},
		{"Tennis", analysis.Sports},
		{"Kitesurf", analysis.Cardio},
		{"", analysis.Cardio},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapActivityType(tt.in), tt.in)
	}
}

func TestToWorkout(t *testing.T) {
	activities, err := ReadActivities(context.Background(), strings.NewReader(sampleExport), time.Time{}, nil)
	require.NoError(t, err)

	run := activities[0].ToWorkout()
	assert.Equal(t, "Cardio", run.Type)
	assert.Equal(t, 30.0, run.DurationMinutes)
	assert.Equal(t, 151.5, run.HeartRate)
	assert.Equal(t, "Morning Run", run.Notes)
	assert.Equal(t, []string{"TrailRun"}, run.Tags)

	lift := activities[1].ToWorkout()
	assert.Equal(t, "Strength", lift.Type)
	assert.Equal(t, 60.0, lift.DurationMinutes)
	assert.Equal(t, 310.0, lift.Calories)
	assert.Zero(t, lift.HeartRate)
	assert.Equal(t, []string{"WeightTraining"}, lift.Tags)

	ride := activities[2].ToWorkout()
	assert.Equal(t, "Cycling", ride.Type)
	assert.Equal(t, 120.0, ride.Calories)

	mystery := activities[3].ToWorkout()
	assert.Nil(t, mystery.Date)
	assert.Equal(t, "Cardio", mystery.Type)
}
