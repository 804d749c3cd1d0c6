package analysis

import (
	"testing"
	"time"

	"workouttracker/internal/store"
)

func TestDailyFrequencyHistogram(t *testing.T) {
	workouts := []store.Workout{
		at(2023, time.January, 1),
		at(2023, time.January, 1),
		at(2023, time.January, 1),
		at(2023, time.January, 2),
		at(2023, time.June, 10),
		at(2024, time.January, 1),
		{Type: "Cardio"},
	}

	tests := []struct {
		name string
		year int
		ref  time.Time
		want map[int]int
	}{
		{
			name: "past year covers every day",
			year: 2023,
			ref:  time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
			want: map[int]int{0: 362, 1: 2, 2: 1},
		},
		{
			name: "current year stops at ref day",
			year: 2023,
			ref:  time.Date(2023, 1, 5, 12, 0, 0, 0, time.UTC),
			want: map[int]int{0: 3, 1: 1, 2: 1},
		},
		{
			name: "leap year with no workouts",
			year: 2020,
			ref:  time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
			want: map[int]int{0: 366, 1: 0, 2: 0},
		},
		{
			name: "year that has not started",
			year: 2030,
			ref:  time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
			want: map[int]int{0: 365, 1: 0, 2: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyFrequencyHistogram(utc, workouts, tt.year, tt.ref)
			for bucket, want := range tt.want {
				if got[bucket] != want {
					t.Errorf("bucket %d = %d, want %d", bucket, got[bucket], want)
				}
			}
		})
	}
}

func TestDailyFrequencyHistogramSums(t *testing.T) {
	var workouts []store.Workout
	for d := 1; d <= 28; d += 3 {
		workouts = append(workouts, at(2021, time.February, d))
	}

	for year := 1999; year <= 2025; year++ {
		got := DailyFrequencyHistogram(utc, workouts, year, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		sum := got[FrequencyNone] + got[FrequencyOne] + got[FrequencyTwoOrMore]
		want := 365
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			want = 366
		}
		if sum != want {
			t.Errorf("year %d: histogram sums to %d, want %d", year, sum, want)
		}
	}

	ref := time.Date(2021, 3, 1, 8, 0, 0, 0, time.UTC)
	got := DailyFrequencyHistogram(utc, workouts, 2021, ref)
	if sum := got[0] + got[1] + got[2]; sum != 60 {
		t.Errorf("partial 2021 sums to %d, want 60", sum)
	}
	if got[FrequencyOne] != 10 {
		t.Errorf("single-workout days = %d, want 10", got[FrequencyOne])
	}
}

func TestTypeHistogram(t *testing.T) {
	workouts := []store.Workout{
		ofType(at(2024, 1, 1), "Cardio"),
		ofType(at(2024, 1, 2), "cardio"),
		ofType(at(2024, 1, 3), "HIIT"),
		ofType(at(2024, 1, 4), ""),
		ofType(at(2024, 1, 5), "Underwater Basket Weaving"),
		{Type: "Yoga"},
	}

	got := TypeHistogram(workouts)
	want := map[string]int{"Cardio": 2, "HIIT": 1, "Unknown": 2, "Yoga": 1}
	if len(got) != len(want) {
		t.Fatalf("TypeHistogram() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("TypeHistogram()[%q] = %d, want %d", k, got[k], v)
		}
	}
}

func TestParseWorkoutType(t *testing.T) {
	tests := []struct {
		in     string
		want   WorkoutType
		wantOK bool
	}{
		{"Cardio", Cardio, true},
		{" hiit ", HIIT, true},
		{"YOGA", Yoga, true},
		{"All", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseWorkoutType(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseWorkoutType(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
	if n := len(AllWorkoutTypes()); n != 10 {
		t.Errorf("AllWorkoutTypes() has %d entries, want 10", n)
	}
}
