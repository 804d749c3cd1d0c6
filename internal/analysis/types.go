package analysis

import "strings"

// WorkoutType is one of the canonical workout categories
type WorkoutType string

const (
	Cardio      WorkoutType = "Cardio"
	Walking     WorkoutType = "Walking"
	Strength    WorkoutType = "Strength"
	Cycling     WorkoutType = "Cycling"
	Flexibility WorkoutType = "Flexibility"
	Volleyball  WorkoutType = "Volleyball"
	Sports      WorkoutType = "Sports"
	HIIT        WorkoutType = "HIIT"
	Yoga        WorkoutType = "Yoga"
	Golf        WorkoutType = "Golf"
)

// UnknownType labels workouts whose type is empty or not canonical
const UnknownType = "Unknown"

// AllTypesFilter is the type filter value that matches everything
const AllTypesFilter = "All"

var allWorkoutTypes = []WorkoutType{
	Cardio, Walking, Strength, Cycling, Flexibility,
	Volleyball, Sports, HIIT, Yoga, Golf,
}

// AllWorkoutTypes returns the canonical types in display order
func AllWorkoutTypes() []WorkoutType {
	out := make([]WorkoutType, len(allWorkoutTypes))
	copy(out, allWorkoutTypes)
	return out
}

// ParseWorkoutType matches s against the canonical types, ignoring case and
// surrounding whitespace.
func ParseWorkoutType(s string) (WorkoutType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range allWorkoutTypes {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

// typeLabel is the histogram bucket for a raw type string
func typeLabel(s string) string {
	if t, ok := ParseWorkoutType(s); ok {
		return string(t)
	}
	return UnknownType
}
