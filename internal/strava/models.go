package strava

import (
	"time"

	"workouttracker/internal/store"
)

// Activity is one activity summary from a Strava export or API dump.
// Only the fields the importer uses are decoded.
type Activity struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	SportType        string     `json:"sport_type"`
	StartDate        *time.Time `json:"start_date"`
	MovingTime       int        `json:"moving_time"`       // seconds
	ElapsedTime      int        `json:"elapsed_time"`      // seconds
	Distance         float64    `json:"distance"`          // meters
	AverageHeartrate float64    `json:"average_heartrate"` // bpm
	HasHeartrate     bool       `json:"has_heartrate"`
	Calories         float64    `json:"calories"`   // kcal, only present in detailed exports
	Kilojoules       float64    `json:"kilojoules"` // rides report work instead of calories
}

// DurationMinutes prefers moving time and falls back to elapsed time
func (a Activity) DurationMinutes() float64 {
	secs := a.MovingTime
	if secs <= 0 {
		secs = a.ElapsedTime
	}
	if secs <= 0 {
		return 0
	}
	return float64(secs) / 60
}

// EstimatedCalories returns reported calories, or an estimate from ride work
// (1 kJ of work is roughly 1 kcal burned at typical efficiency).
func (a Activity) EstimatedCalories() float64 {
	if a.Calories > 0 {
		return a.Calories
	}
	return a.Kilojoules
}

// ToWorkout converts an activity into a workout ready to store. The activity
// name becomes the notes and the raw sport type is kept as a tag.
func (a Activity) ToWorkout() store.Workout {
	w := store.Workout{
		Date:            a.StartDate,
		DurationMinutes: a.DurationMinutes(),
		Type:            string(MapActivityType(a.sportType())),
		Calories:        a.EstimatedCalories(),
		Notes:           a.Name,
	}
	if a.HasHeartrate || a.AverageHeartrate > 0 {
		w.HeartRate = a.AverageHeartrate
	}
	if st := a.sportType(); st != "" {
		w.Tags = []string{st}
	}
	return w
}

func (a Activity) sportType() string {
	if a.SportType != "" {
		return a.SportType
	}
	return a.Type
}
