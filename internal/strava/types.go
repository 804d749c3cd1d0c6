package strava

import (
	"strings"

	"workouttracker/internal/analysis"
)

// activityTypes maps lower-cased Strava sport types onto workout types.
// Anything missing falls back to Cardio.
var activityTypes = map[string]analysis.WorkoutType{
	"walk": analysis.Walking,
	"hike": analysis.Walking,

	"run":            analysis.Cardio,
	"trailrun":       analysis.Cardio,
	"virtualrun":     analysis.Cardio,
	"swim":           analysis.Cardio,
	"rowing":         analysis.Cardio,
	"virtualrow":     analysis.Cardio,
	"elliptical":     analysis.Cardio,
	"stairstepper":   analysis.Cardio,
	"nordicski":      analysis.Cardio,
	"backcountryski": analysis.Cardio,

	"ride":              analysis.Cycling,
	"virtualride":       analysis.Cycling,
	"ebikeride":         analysis.Cycling,
	"mountainbikeride":  analysis.Cycling,
	"gravelride":        analysis.Cycling,
	"emountainbikeride": analysis.Cycling,
	"velomobile":        analysis.Cycling,
	"handcycle":         analysis.Cycling,

	"weighttraining": analysis.Strength,
	"crossfit":       analysis.Strength,
	"workout":        analysis.Strength,

	"pilates": analysis.Flexibility,

	"highintensityintervaltraining": analysis.HIIT,

	"yoga": analysis.Yoga,

	"golf": analysis.Golf,

	"volleyball": analysis.Volleyball,

	"soccer":      analysis.Sports,
	"basketball":  analysis.Sports,
	"tennis":      analysis.Sports,
	"badminton":   analysis.Sports,
	"pickleball":  analysis.Sports,
	"racquetball": analysis.Sports,
	"squash":      analysis.Sports,
	"tabletennis": analysis.Sports,
	"cricket":     analysis.Sports,
	"rugby":       analysis.Sports,
	"hockey":      analysis.Sports,
	"boxing":      analysis.Sports,
	"martialarts": analysis.Sports,
}

// MapActivityType maps a Strava sport type such as "WeightTraining" or
// "weight_training" onto a workout type.
func MapActivityType(sportType string) analysis.WorkoutType {
	key := strings.ToLower(strings.TrimSpace(sportType))
	key = strings.NewReplacer("_", "", " ", "", "-", "").Replace(key)
	if t, ok := activityTypes[key]; ok {
		return t
	}
	return analysis.Cardio
}
