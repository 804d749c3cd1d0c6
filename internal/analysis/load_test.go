package analysis

import (
	"math"
	"testing"
	"time"

	"workouttracker/internal/calendar"
	"workouttracker/internal/store"
)

func withHR(w store.Workout, minutes, hr float64) store.Workout {
	w.DurationMinutes = minutes
	w.HeartRate = hr
	return w
}

func TestDefaultZones(t *testing.T) {
	zones := DefaultZones()

	if zones.RestingHR != 50 {
		t.Errorf("DefaultZones().RestingHR = %v, want 50", zones.RestingHR)
	}
	if zones.MaxHR != 185 {
		t.Errorf("DefaultZones().MaxHR = %v, want 185", zones.MaxHR)
	}
}

func TestTRIMP(t *testing.T) {
	base := at(2024, time.March, 1)

	tests := []struct {
		name     string
		workout  store.Workout
		zones    HRZones
		expected float64
		delta    float64
	}{
		{
			name:    "hour at 150 bpm",
			workout: withHR(base, 60, 150),
			zones:   DefaultZones(),
			// hrRatio = (150-50)/(185-50) = 0.741
			// TRIMP = 60 * 0.741 * e^(1.92*0.741)
			expected: 184.3,
			delta:    1,
		},
		{
			name:     "no heart rate",
			workout:  withHR(base, 60, 0),
			zones:    DefaultZones(),
			expected: 0,
		},
		{
			name:     "no duration",
			workout:  withHR(base, 0, 150),
			zones:    DefaultZones(),
			expected: 0,
		},
		{
			name:     "zero HR reserve",
			workout:  withHR(base, 60, 150),
			zones:    HRZones{RestingHR: 180, MaxHR: 180},
			expected: 0,
		},
		{
			name:     "below resting clamps to zero",
			workout:  withHR(base, 60, 40),
			zones:    DefaultZones(),
			expected: 0,
		},
		{
			name:    "above max clamps to one",
			workout: withHR(base, 30, 200),
			zones:   DefaultZones(),
			// 30 * 1 * e^1.92
			expected: 30 * math.Exp(1.92),
			delta:    0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TRIMP(tt.workout, tt.zones)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("TRIMP() = %v, want %v ± %v", got, tt.expected, tt.delta)
			}
		})
	}
}

func TestDailyLoads(t *testing.T) {
	workouts := []store.Workout{
		withHR(at(2024, time.March, 1), 60, 150),
		withHR(at(2024, time.March, 1), 60, 150),
		withHR(at(2024, time.March, 2), 60, 0),
		withHR(store.Workout{}, 60, 150),
	}

	loads := DailyLoads(utc, workouts, DefaultZones())
	if len(loads) != 1 {
		t.Fatalf("DailyLoads() has %d days, want 1", len(loads))
	}
	got := loads[calendar.NewDayKey(2024, time.March, 1)]
	if math.Abs(got-368.6) > 2 {
		t.Errorf("load on Mar 1 = %v, want about 368.6", got)
	}
}

func TestFitnessTrend(t *testing.T) {
	day1 := calendar.NewDayKey(2024, time.March, 1)

	t.Run("no loads", func(t *testing.T) {
		if got := FitnessTrend(nil, day1); got != nil {
			t.Errorf("FitnessTrend(nil) = %v, want nil", got)
		}
	})

	t.Run("only future loads", func(t *testing.T) {
		loads := map[calendar.DayKey]float64{day1.AddDays(3): 100}
		if got := FitnessTrend(loads, day1); got != nil {
			t.Errorf("FitnessTrend() = %v, want nil", got)
		}
	})

	t.Run("single day then rest", func(t *testing.T) {
		loads := map[calendar.DayKey]float64{day1: 100}
		metrics := FitnessTrend(loads, day1.Next())
		if len(metrics) != 2 {
			t.Fatalf("FitnessTrend() returned %d days, want 2", len(metrics))
		}

		first := metrics[0]
		if first.Day != day1 {
			t.Errorf("first day = %v, want %v", first.Day, day1)
		}
		if math.Abs(first.CTL-100*2.0/43.0) > 0.001 {
			t.Errorf("CTL = %v, want %v", first.CTL, 100*2.0/43.0)
		}
		if math.Abs(first.ATL-25) > 0.001 {
			t.Errorf("ATL = %v, want 25", first.ATL)
		}
		if math.Abs(first.TSB-(first.CTL-first.ATL)) > 0.001 {
			t.Errorf("TSB = %v, want CTL-ATL", first.TSB)
		}

		second := metrics[1]
		if math.Abs(second.ATL-18.75) > 0.001 {
			t.Errorf("ATL after rest = %v, want 18.75", second.ATL)
		}
		if second.CTL >= first.CTL {
			t.Errorf("CTL should decay on a rest day: %v -> %v", first.CTL, second.CTL)
		}
	})

	t.Run("fills gaps between loaded days", func(t *testing.T) {
		loads := map[calendar.DayKey]float64{day1: 50, day1.AddDays(9): 50}
		metrics := FitnessTrend(loads, day1.AddDays(9))
		if len(metrics) != 10 {
			t.Errorf("FitnessTrend() returned %d days, want 10", len(metrics))
		}
	})

	t.Run("crosses year boundary", func(t *testing.T) {
		dec31 := calendar.NewDayKey(2023, time.December, 31)
		loads := map[calendar.DayKey]float64{dec31: 50}
		metrics := FitnessTrend(loads, calendar.NewDayKey(2024, time.January, 2))
		if len(metrics) != 3 {
			t.Errorf("FitnessTrend() returned %d days, want 3", len(metrics))
		}
	})
}

func TestCurrentFitness(t *testing.T) {
	today := calendar.NewDayKey(2024, time.March, 15)

	got := CurrentFitness(utc, nil, DefaultZones(), today)
	if got.Day != today || got.CTL != 0 || got.ATL != 0 {
		t.Errorf("CurrentFitness(nil) = %+v, want zero metrics for today", got)
	}

	workouts := []store.Workout{
		withHR(daysAgo(today, 2), 60, 150),
		withHR(daysAgo(today, 0), 45, 140),
	}
	got = CurrentFitness(utc, workouts, DefaultZones(), today)
	if got.Day != today {
		t.Errorf("CurrentFitness().Day = %v, want %v", got.Day, today)
	}
	if got.CTL <= 0 || got.ATL <= got.CTL {
		t.Errorf("CurrentFitness() = %+v, want fresh load with ATL above CTL", got)
	}
}

func TestFormDescription(t *testing.T) {
	tests := []struct {
		tsb  float64
		want string
	}{
		{30, "Very fresh (possibly detrained)"},
		{15, "Fresh"},
		{5, "Neutral - good for training"},
		{-5, "Slightly fatigued"},
		{-15, "Tired but building fitness"},
		{-30, "Very fatigued - rest needed"},
	}

	for _, tt := range tests {
		if got := FormDescription(tt.tsb); got != tt.want {
			t.Errorf("FormDescription(%v) = %q, want %q", tt.tsb, got, tt.want)
		}
	}
}
