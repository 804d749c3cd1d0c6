package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workouttracker/internal/analysis"
	"workouttracker/internal/calendar"
	"workouttracker/internal/plan"
	"workouttracker/internal/store"
	"workouttracker/internal/strava"
)

var utc = calendar.New(time.UTC)

// fixedNow is a Wednesday
var fixedNow = time.Date(2024, 3, 13, 18, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func addWorkout(t *testing.T, s *store.Store, typ string, date time.Time, tags ...string) *store.Workout {
	t.Helper()

	w := &store.Workout{Date: &date, Type: typ, DurationMinutes: 30, Tags: tags}
	require.NoError(t, s.CreateWorkout(context.Background(), w))
	return w
}

func TestWorkoutServiceAdd(t *testing.T) {
	s := openTestStore(t)
	svc := NewWorkoutService(s)
	ctx := context.Background()

	w, err := svc.Add(ctx, WorkoutInput{
		Type:            "hiit",
		Date:            fixedNow,
		DurationMinutes: 20,
		HeartRate:       160,
		Tags:            []string{"tabata"},
	})
	require.NoError(t, err)
	assert.Equal(t, "HIIT", w.Type)

	stored, err := s.GetWorkout(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tabata"}, stored.Tags)

	_, err = svc.Add(ctx, WorkoutInput{Type: "Jousting", Date: fixedNow})
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = svc.Add(ctx, WorkoutInput{Type: "Yoga", Date: fixedNow, DurationMinutes: -1})
	assert.ErrorIs(t, err, ErrInvalidWorkout)

	_, err = svc.Add(ctx, WorkoutInput{Type: "Yoga"})
	assert.ErrorIs(t, err, ErrInvalidWorkout)

	require.NoError(t, svc.Delete(ctx, w.ID))
	assert.ErrorIs(t, svc.Delete(ctx, w.ID), store.ErrWorkoutNotFound)
}

func TestWorkoutServiceUpdate(t *testing.T) {
	s := openTestStore(t)
	svc := NewWorkoutService(s)
	ctx := context.Background()

	w, err := svc.Add(ctx, WorkoutInput{Type: "Yoga", Date: fixedNow, DurationMinutes: 30, Tags: []string{"am"}})
	require.NoError(t, err)

	got, err := svc.Get(ctx, w.ID)
	require.NoError(t, err)

	in := InputFrom(*got)
	assert.True(t, in.Date.Equal(fixedNow))
	in.Type = "strength"
	in.DurationMinutes = 50
	_, err = svc.Update(ctx, w.ID, in)
	require.NoError(t, err)

	got, err = svc.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Strength", got.Type)
	assert.Equal(t, 50.0, got.DurationMinutes)
	assert.Equal(t, []string{"am"}, got.Tags)

	in.HeartRate = 400
	_, err = svc.Update(ctx, w.ID, in)
	assert.ErrorIs(t, err, ErrInvalidWorkout)

	_, err = svc.Update(ctx, "missing", InputFrom(*got))
	assert.ErrorIs(t, err, store.ErrWorkoutNotFound)
	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrWorkoutNotFound)

	// Undated workouts need a date before they can be saved
	undated := InputFrom(store.Workout{Type: "Yoga"})
	_, err = svc.Update(ctx, w.ID, undated)
	assert.ErrorIs(t, err, ErrInvalidWorkout)
}

func TestGetDashboardData(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	addWorkout(t, s, "Cardio", fixedNow.Add(-2*time.Hour))
	addWorkout(t, s, "Strength", fixedNow.Add(-3*time.Hour))
	addWorkout(t, s, "Yoga", fixedNow.AddDate(0, 0, -1))
	addWorkout(t, s, "Walking", fixedNow.AddDate(0, 0, -3)) // Sunday, last week
	addWorkout(t, s, "Cycling", fixedNow.AddDate(0, -1, 0))
	addWorkout(t, s, "Golf", fixedNow.AddDate(-1, 0, 0))
	require.NoError(t, s.CreateWorkout(ctx, &store.Workout{Type: "Cardio"}))
	require.NoError(t, s.SetState(ctx, store.StateLastImport, "2024-03-01T10:00:00Z"))

	q := NewQueryService(s, utc).WithClock(func() time.Time { return fixedNow })
	data, err := q.GetDashboardData(ctx)
	require.NoError(t, err)

	assert.Equal(t, calendar.NewDayKey(2024, time.March, 13), data.Today)
	// Mar 13, 12 active; 11 forgiven; 10 active; 9 and 8 missing
	assert.Equal(t, 3, data.CurrentStreak)
	assert.Len(t, data.TodayWorkouts, 2)
	assert.Equal(t, 3, data.WeekCount)
	assert.Equal(t, 4, data.MonthCount)
	assert.Equal(t, 5, data.YearCount)
	assert.Equal(t, 7, data.TotalWorkouts)
	assert.Len(t, data.RecentWorkouts, 6)
	assert.Equal(t, "Cardio", data.RecentWorkouts[0].Type)
	assert.True(t, data.LastImport.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))

	// 4 active days out of 73 elapsed
	assert.InDelta(t, 4.0/73*100, data.YearCompletion, 1e-9)

	// No heart rates, no load
	assert.Zero(t, data.Fitness.CTL)
	assert.Zero(t, data.Fitness.ATL)
}

func TestGetDashboardFitness(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	date := fixedNow.Add(-time.Hour)
	require.NoError(t, s.CreateWorkout(ctx, &store.Workout{
		Date: &date, Type: "Cardio", DurationMinutes: 60, HeartRate: 150,
	}))

	q := NewQueryService(s, utc).WithClock(func() time.Time { return fixedNow })
	data, err := q.GetDashboardData(ctx)
	require.NoError(t, err)
	assert.Equal(t, data.Today, data.Fitness.Day)
	assert.Greater(t, data.Fitness.ATL, data.Fitness.CTL)
	assert.Less(t, data.Fitness.TSB, 0.0)

	// A higher resting rate shrinks the reserve ratio and the load
	lighter, err := q.WithZones(analysis.HRZones{RestingHR: 100, MaxHR: 185}).GetDashboardData(ctx)
	require.NoError(t, err)
	assert.Less(t, lighter.Fitness.ATL, data.Fitness.ATL)
}

func TestGetHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	addWorkout(t, s, "Cardio", fixedNow, "running")
	addWorkout(t, s, "Cardio", fixedNow.Add(-time.Hour))
	addWorkout(t, s, "Strength", fixedNow.AddDate(0, 0, -1), "running")
	addWorkout(t, s, "Yoga", fixedNow.AddDate(-1, 0, 0))

	q := NewQueryService(s, utc).WithClock(func() time.Time { return fixedNow })

	all, err := q.GetHistory(ctx, analysis.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2024, all.Year)
	assert.Len(t, all.Workouts, 4)
	assert.Equal(t, []int{2024, 2023}, all.Years)
	assert.Equal(t, 3, all.Summary.Total)
	assert.Equal(t, 2, all.DayCounts[calendar.NewDayKey(2024, time.March, 13)])

	running, err := q.GetHistory(ctx, analysis.Filter{Year: 2024, Type: "Running"})
	require.NoError(t, err)
	assert.Len(t, running.Workouts, 2)
	assert.Equal(t, 1, running.DayCounts[calendar.NewDayKey(2024, time.March, 13)])
	assert.Equal(t, 2, running.Summary.CurrentStreak)

	past, err := q.GetHistory(ctx, analysis.Filter{Year: 2023})
	require.NoError(t, err)
	assert.Len(t, past.Workouts, 1)
	assert.Equal(t, 1, past.Summary.Total)
	assert.Equal(t, 365, past.Summary.DailyFrequency[0]+past.Summary.DailyFrequency[1]+past.Summary.DailyFrequency[2])
}

type failingSource struct{}

func (failingSource) ListWorkouts(context.Context) ([]store.Workout, error) {
	return nil, errors.New("database is locked")
}

func (failingSource) GetState(context.Context, string) (string, error) {
	return "", nil
}

func TestQueryServiceSourceError(t *testing.T) {
	q := NewQueryService(failingSource{}, utc)

	_, err := q.GetDashboardData(context.Background())
	assert.ErrorContains(t, err, "database is locked")
	_, err = q.GetHistory(context.Background(), analysis.Filter{})
	assert.ErrorContains(t, err, "loading workouts")
}

func seedPlan(t *testing.T, s *store.Store) *store.Plan {
	t.Helper()

	p := &store.Plan{
		Name: "Full Body",
		Type: "strength",
		Days: []store.Day{{
			Name: "Monday",
			Exercises: []store.Exercise{
				{Name: "A"},
				{Name: "B", CircuitName: "Circuit 1"},
				{Name: "C"},
				{Name: "D", CircuitName: "Circuit 1"},
			},
		}},
	}
	require.NoError(t, NewPlanService(s).CreatePlan(context.Background(), p))
	return p
}

func names(groups []plan.Group) [][]string {
	var out [][]string
	for _, g := range groups {
		var n []string
		for _, e := range g.Exercises {
			n = append(n, e.Name)
		}
		out = append(out, n)
	}
	return out
}

func TestPlanServiceMoveGroup(t *testing.T) {
	s := openTestStore(t)
	svc := NewPlanService(s)
	ctx := context.Background()

	p := seedPlan(t, s)
	dayID := p.Days[0].ID

	groups, err := svc.DayGroups(ctx, dayID)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A"}, {"B", "D"}, {"C"}}, names(groups))

	moved, err := svc.MoveGroup(ctx, dayID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"C"}, {"A"}, {"B", "D"}}, names(moved))

	// The new order survives a reload
	groups, err = svc.DayGroups(ctx, dayID)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"C"}, {"A"}, {"B", "D"}}, names(groups))

	exercises, err := s.ListExercises(ctx, dayID)
	require.NoError(t, err)
	for i, ex := range exercises {
		assert.Equal(t, i, ex.OrderIndex)
	}

	_, err = svc.MoveGroup(ctx, dayID, 5, 0)
	assert.ErrorIs(t, err, plan.ErrIndexOutOfRange)

	_, err = svc.DayGroups(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrDayNotFound)
}

func TestPlanServiceAddExercise(t *testing.T) {
	s := openTestStore(t)
	svc := NewPlanService(s)
	ctx := context.Background()

	p := seedPlan(t, s)
	dayID := p.Days[0].ID

	options, err := svc.CircuitOptions(ctx, dayID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Circuit 1", "Circuit 2"}, options)

	ex, err := svc.AddExercise(ctx, dayID, ExerciseInput{Name: " Plank ", Type: store.ExerciseTypeDuration, CircuitName: options[1]})
	require.NoError(t, err)
	assert.Equal(t, "Plank", ex.Name)
	assert.Equal(t, 4, ex.OrderIndex)

	groups, err := svc.DayGroups(ctx, dayID)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A"}, {"B", "D"}, {"C"}, {"Plank"}}, names(groups))
	assert.Equal(t, "Circuit 2", groups[3].Circuit)

	_, err = svc.AddExercise(ctx, dayID, ExerciseInput{Name: "x", Type: "reps"})
	assert.Error(t, err)
	_, err = svc.AddExercise(ctx, dayID, ExerciseInput{Name: "  "})
	assert.Error(t, err)
}

func TestPlanServiceSetCircuit(t *testing.T) {
	s := openTestStore(t)
	svc := NewPlanService(s)
	ctx := context.Background()

	p := seedPlan(t, s)
	dayID := p.Days[0].ID
	ex := p.Days[0].Exercises

	c, err := svc.SetCircuit(ctx, ex[2].ID, "New")
	require.NoError(t, err)
	assert.Equal(t, "Circuit 2", c.CircuitName)

	_, err = svc.SetCircuit(ctx, ex[1].ID, "  ")
	require.NoError(t, err)

	_, err = svc.SetCircuit(ctx, ex[0].ID, " Circuit 2 ")
	require.NoError(t, err)

	groups, err := svc.DayGroups(ctx, dayID)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A", "C"}, {"B"}, {"D"}}, names(groups))
	assert.Equal(t, "Circuit 2", groups[0].Circuit)
	assert.False(t, groups[1].IsCircuit())

	_, err = svc.SetCircuit(ctx, "missing", "Circuit 1")
	assert.ErrorIs(t, err, store.ErrExerciseNotFound)

	added, err := svc.AddExercise(ctx, dayID, ExerciseInput{Name: "E", CircuitName: NewCircuit})
	require.NoError(t, err)
	assert.Equal(t, "Circuit 3", added.CircuitName)
}

func TestPlanServiceRemoveExerciseAndDelete(t *testing.T) {
	s := openTestStore(t)
	svc := NewPlanService(s)
	ctx := context.Background()

	p := seedPlan(t, s)
	dayID := p.Days[0].ID

	require.NoError(t, svc.RemoveExercise(ctx, p.Days[0].Exercises[1].ID))
	assert.ErrorIs(t, svc.RemoveExercise(ctx, p.Days[0].Exercises[1].ID), store.ErrExerciseNotFound)

	ex, err := svc.AddExercise(ctx, dayID, ExerciseInput{Name: "E"})
	require.NoError(t, err)
	assert.Equal(t, 4, ex.OrderIndex)

	groups, err := svc.DayGroups(ctx, dayID)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A"}, {"C"}, {"D"}, {"E"}}, names(groups))

	require.NoError(t, svc.DeletePlan(ctx, p.ID))
	assert.ErrorIs(t, svc.DeletePlan(ctx, p.ID), store.ErrPlanNotFound)
	_, err = svc.DayGroups(ctx, dayID)
	assert.ErrorIs(t, err, store.ErrDayNotFound)
}

const testExport = `[
  {"id": 1, "name": "Run", "type": "Run", "start_date": "2024-03-01T07:00:00Z", "moving_time": 1800},
  {"id": 2, "name": "Ride", "type": "Ride", "start_date": "2024-03-02T07:00:00Z", "moving_time": 3600},
  {"id": 3, "name": "Undated", "type": "Yoga", "moving_time": 600}
]`

func TestImportFile(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	svc := NewImportService(s)

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(testExport), 0644))

	// An existing workout at the same instant is a duplicate
	addWorkout(t, s, "Cardio", time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC))

	progress := make(chan ImportProgress, 100)
	result, err := svc.ImportFile(ctx, path, progress)
	require.NoError(t, err)
	assert.Equal(t, 3, result.ActivitiesRead)
	assert.Equal(t, 2, result.Stored)
	assert.Equal(t, 1, result.Duplicates)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 3, result.TotalWorkouts)

	var phases []string
	for p := range progress {
		phases = append(phases, p.Phase)
	}
	assert.Contains(t, phases, PhaseReading)
	assert.Contains(t, phases, PhaseStoring)

	count, err := s.CountWorkouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	source, err := s.GetState(ctx, store.StateLastImportSource)
	require.NoError(t, err)
	assert.Equal(t, path, source)

	// Importing again only adds another copy of the undated activity
	result, err = svc.ImportFile(ctx, path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stored)
	assert.Equal(t, 2, result.Duplicates)
	assert.Equal(t, 4, result.TotalWorkouts)
}

func TestImportFileMissing(t *testing.T) {
	svc := NewImportService(openTestStore(t))
	_, err := svc.ImportFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImportActivitiesCancelled(t *testing.T) {
	svc := NewImportService(openTestStore(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	date := fixedNow
	_, err := svc.ImportActivities(ctx, []strava.Activity{{ID: 1, Type: "Run", StartDate: &date}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExport(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	svc := NewExportService(s)

	w := addWorkout(t, s, "Cardio", time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC), "easy", "am")
	w.Notes = "felt good, legs fresh"
	require.NoError(t, s.UpdateWorkout(ctx, w))

	var buf bytes.Buffer
	n, err := svc.Export(ctx, &buf, "json")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var decoded []store.Workout
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, w.ID, decoded[0].ID)

	buf.Reset()
	_, err = svc.Export(ctx, &buf, "CSV")
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{w.ID, "2024-03-01T07:00:00Z", "Cardio", "30", "0", "0", "easy;am", "felt good, legs fresh"}, records[1])

	_, err = svc.Export(ctx, &buf, "xml")
	assert.Error(t, err)
}
