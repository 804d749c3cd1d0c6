package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workouttracker/internal/calendar"
	"workouttracker/internal/store"
)

func TestParseDate(t *testing.T) {
	berlin, err := calendar.Load("Europe/Berlin")
	require.NoError(t, err)
	now := time.Date(2024, 3, 13, 18, 0, 0, 0, time.UTC)

	got, err := parseDate(berlin, "", now)
	require.NoError(t, err)
	assert.True(t, got.Equal(now))

	got, err = parseDate(berlin, "2024-03-10", now)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewDayKey(2024, time.March, 10), berlin.Key(got))
	assert.Equal(t, 0, got.Hour())

	got, err = parseDate(berlin, "2024-03-10 07:30", now)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC)))

	got, err = parseDate(berlin, "2024-03-10T07:30:00Z", now)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 3, 10, 7, 30, 0, 0, time.UTC)))

	_, err = parseDate(berlin, "last tuesday", now)
	assert.Error(t, err)
}

func TestReadPlanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	data := `{
		"name": "Push Pull",
		"type": "strength",
		"days": [
			{"name": "Day A", "exercises": [
				{"name": "Squat", "reps": [5, 5], "weights": [100]},
				{"name": "Plank", "circuit": "Circuit 1", "seconds": [60]}
			]}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	p, err := readPlanFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Push Pull", p.Name)
	require.Len(t, p.Days, 1)
	require.Len(t, p.Days[0].Exercises, 2)

	squat := p.Days[0].Exercises[0]
	assert.Equal(t, store.ExerciseTypeSetsReps, squat.ExerciseType)
	require.Len(t, squat.Sets, 2)
	assert.Equal(t, 100.0, squat.Sets[0].Weight)
	assert.Zero(t, squat.Sets[1].Weight)

	plank := p.Days[0].Exercises[1]
	assert.Equal(t, store.ExerciseTypeDuration, plank.ExerciseType)
	assert.Equal(t, "Circuit 1", plank.CircuitName)
	require.Len(t, plank.Durations, 1)
	assert.Equal(t, 60, plank.Durations[0].Seconds)

	_, err = readPlanFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

// writeTestConfig points config, database and log file at a temp directory
func writeTestConfig(t *testing.T) (path, dataDir string) {
	t.Helper()

	dir := t.TempDir()
	dataDir = filepath.Join(dir, "data")
	cfg := map[string]any{
		"calendar": map[string]any{"timezone": "UTC"},
		"data":     map[string]any{"dir": dataDir},
		"logging":  map[string]any{"file": filepath.Join(dir, "test.log"), "level": "warn"},
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	path = filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path, dataDir
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func openDataStore(t *testing.T, dataDir string) *store.Store {
	t.Helper()

	s, err := store.Open(dataDir)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestWorkoutEditAndDeleteCommands(t *testing.T) {
	cfgPath, dataDir := writeTestConfig(t)

	_, err := runCLI(t, cfgPath, "add", "--type", "yoga", "--duration", "30", "--date", "2024-03-10 07:30", "--tags", "am")
	require.NoError(t, err)

	s := openDataStore(t, dataDir)
	workouts, err := s.ListWorkouts(context.Background())
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	id := workouts[0].ID

	out, err := runCLI(t, cfgPath, "edit", id, "--duration", "50", "--notes", "felt strong")
	require.NoError(t, err)
	assert.Contains(t, out, "updated Yoga workout")

	w, err := s.GetWorkout(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 50.0, w.DurationMinutes)
	assert.Equal(t, "felt strong", w.Notes)
	assert.Equal(t, []string{"am"}, w.Tags)
	assert.True(t, w.Date.Equal(time.Date(2024, 3, 10, 7, 30, 0, 0, time.UTC)))

	_, err = runCLI(t, cfgPath, "edit", id, "--heart-rate", "999")
	assert.Error(t, err)

	out, err = runCLI(t, cfgPath, "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted Yoga workout "+id)

	count, err := s.CountWorkouts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = runCLI(t, cfgPath, "delete", id)
	assert.ErrorIs(t, err, store.ErrWorkoutNotFound)
}

func TestPlanEditingCommands(t *testing.T) {
	cfgPath, dataDir := writeTestConfig(t)

	planPath := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(planPath, []byte(`{
		"name": "Full Body",
		"type": "strength",
		"days": [{"name": "Monday", "exercises": [
			{"name": "Squat"},
			{"name": "Row", "circuit": "Circuit 1"},
			{"name": "Plank", "circuit": "Circuit 1"}
		]}]
	}`), 0600))

	_, err := runCLI(t, cfgPath, "plan", "create", planPath)
	require.NoError(t, err)

	s := openDataStore(t, dataDir)
	ctx := context.Background()
	plans, err := s.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	p, err := s.GetPlan(ctx, plans[0].ID)
	require.NoError(t, err)
	day := p.Days[0]

	out, err := runCLI(t, cfgPath, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "day "+day.ID+"  Monday, 3 exercises")

	// Squat into a fresh circuit, Plank out of its circuit
	out, err = runCLI(t, cfgPath, "plan", "set-circuit", day.Exercises[0].ID, "new")
	require.NoError(t, err)
	assert.Contains(t, out, "Circuit 2")
	_, err = runCLI(t, cfgPath, "plan", "set-circuit", day.Exercises[2].ID, "")
	require.NoError(t, err)

	exercises, err := s.ListExercises(ctx, day.ID)
	require.NoError(t, err)
	assert.Equal(t, "Circuit 2", exercises[0].CircuitName)
	assert.Equal(t, "Circuit 1", exercises[1].CircuitName)
	assert.Empty(t, exercises[2].CircuitName)

	_, err = runCLI(t, cfgPath, "plan", "remove-exercise", day.Exercises[1].ID)
	require.NoError(t, err)
	out, err = runCLI(t, cfgPath, "plan", "add-exercise", day.ID, "--name", "Lunge", "--circuit", "new")
	require.NoError(t, err)
	assert.Contains(t, out, "added Lunge at position 3, in Circuit 3")

	_, err = runCLI(t, cfgPath, "plan", "delete", p.ID)
	require.NoError(t, err)
	_, err = s.GetPlan(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrPlanNotFound)

	_, err = runCLI(t, cfgPath, "plan", "delete", p.ID)
	assert.ErrorIs(t, err, store.ErrPlanNotFound)
}

func TestPrintPlans(t *testing.T) {
	var out bytes.Buffer
	printPlans(&out, nil)
	assert.Equal(t, "no plans\n", out.String())

	out.Reset()
	printPlans(&out, []store.Plan{
		{ID: "p1", Name: "Push", Type: "Strength", Days: []store.Day{{ID: "d1", Name: "Day A"}}},
		{ID: "p2", Name: "Couch to 5k", Type: "cardio", Days: []store.Day{{ID: "d2", Name: "Week 1"}}},
		{ID: "p3", Name: "Empty", Type: "strength"},
	})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"p1  Push (Strength)",
		"    day d1  Day A, 0 exercises",
		"p2  Couch to 5k (cardio)",
		"    1 days, not a structured strength plan",
		"p3  Empty (strength)",
		"    0 days, not a structured strength plan",
	}, lines)
}
