package analysis

import (
	"math"

	"workouttracker/internal/calendar"
	"workouttracker/internal/store"
)

// HRZones holds the heart rates that bound the athlete's reserve
type HRZones struct {
	RestingHR float64
	MaxHR     float64
}

// DefaultZones returns sensible defaults if not configured
func DefaultZones() HRZones {
	return HRZones{
		RestingHR: 50,
		MaxHR:     185,
	}
}

// TRIMP calculates Training Impulse (Banister model) for a workout from its
// duration and average heart rate:
// TRIMP = duration (min) * ΔHR ratio * e^(b * ΔHR ratio), b = 1.92.
// Workouts without a heart rate carry no load.
func TRIMP(w store.Workout, zones HRZones) float64 {
	if w.HeartRate <= 0 || w.DurationMinutes <= 0 {
		return 0
	}

	hrReserve := zones.MaxHR - zones.RestingHR
	if hrReserve <= 0 {
		return 0
	}

	hrRatio := (w.HeartRate - zones.RestingHR) / hrReserve
	if hrRatio < 0 {
		hrRatio = 0
	}
	if hrRatio > 1 {
		hrRatio = 1
	}

	b := 1.92
	return w.DurationMinutes * hrRatio * math.Exp(b*hrRatio)
}

// DailyLoads sums TRIMP per calendar day. Undated workouts are skipped.
func DailyLoads(cal calendar.Calendar, workouts []store.Workout, zones HRZones) map[calendar.DayKey]float64 {
	loads := make(map[calendar.DayKey]float64)
	for _, w := range workouts {
		if w.Date == nil {
			continue
		}
		if trimp := TRIMP(w, zones); trimp > 0 {
			loads[cal.Key(*w.Date)] += trimp
		}
	}
	return loads
}

// FitnessMetrics represents CTL/ATL/TSB for a day
type FitnessMetrics struct {
	Day calendar.DayKey
	CTL float64 // Chronic Training Load (42-day EMA) - "Fitness"
	ATL float64 // Acute Training Load (7-day EMA) - "Fatigue"
	TSB float64 // Training Stress Balance (CTL - ATL) - "Form"
}

// FitnessTrend runs the CTL and ATL averages from the first loaded day up to
// and including through. Days without load decay both averages. Loads after
// through are ignored.
func FitnessTrend(loads map[calendar.DayKey]float64, through calendar.DayKey) []FitnessMetrics {
	start := through
	found := false
	for day := range loads {
		if !day.After(through) && day.Before(start) {
			start = day
		}
		if !day.After(through) {
			found = true
		}
	}
	if !found {
		return nil
	}

	ctlDecay := 2.0 / (42.0 + 1.0)
	atlDecay := 2.0 / (7.0 + 1.0)

	var metrics []FitnessMetrics
	var ctl, atl float64
	for d := start; !d.After(through); d = d.Next() {
		trimp := loads[d]
		ctl = ctl + ctlDecay*(trimp-ctl)
		atl = atl + atlDecay*(trimp-atl)

		metrics = append(metrics, FitnessMetrics{
			Day: d,
			CTL: ctl,
			ATL: atl,
			TSB: ctl - atl,
		})
	}
	return metrics
}

// CurrentFitness returns the CTL/ATL/TSB values for today, or zero values
// when no workout so far carries a heart rate
func CurrentFitness(cal calendar.Calendar, workouts []store.Workout, zones HRZones, today calendar.DayKey) FitnessMetrics {
	metrics := FitnessTrend(DailyLoads(cal, workouts, zones), today)
	if len(metrics) == 0 {
		return FitnessMetrics{Day: today}
	}
	return metrics[len(metrics)-1]
}

// FormDescription returns a human-readable description of TSB
func FormDescription(tsb float64) string {
	switch {
	case tsb > 25:
		return "Very fresh (possibly detrained)"
	case tsb > 10:
		return "Fresh"
	case tsb > 0:
		return "Neutral - good for training"
	case tsb > -10:
		return "Slightly fatigued"
	case tsb > -25:
		return "Tired but building fitness"
	default:
		return "Very fatigued - rest needed"
	}
}
