package store

import (
	"strings"
	"time"
)

// Exercise types
const (
	ExerciseTypeSetsReps = "sets_reps"
	ExerciseTypeDuration = "duration"
)

// Workout represents a single logged workout
type Workout struct {
	ID              string     `db:"id" json:"id"`
	Date            *time.Time `db:"date" json:"date"`                         // nullable; malformed rows read back as nil
	DurationMinutes float64    `db:"duration_minutes" json:"duration_minutes"` // minutes
	Type            string     `db:"type" json:"type"`
	Calories        float64    `db:"calories" json:"calories"`     // kcal
	HeartRate       float64    `db:"heart_rate" json:"heart_rate"` // avg bpm
	Notes           string     `db:"notes" json:"notes"`
	Tags            []string   `db:"tags" json:"tags"` // stored comma-joined
}

// Plan is a saved workout plan. Strength plans carry days of exercises.
type Plan struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Type        string    `db:"type"`
	CreatedAt   time.Time `db:"created_at"`
	Days        []Day
}

// IsStructuredStrength reports whether the plan is a strength plan with days
func (p Plan) IsStructuredStrength() bool {
	return strings.EqualFold(p.Type, "strength") && len(p.Days) > 0
}

// Day is one training day within a plan
type Day struct {
	ID         string    `db:"id"`
	PlanID     string    `db:"plan_id"`
	Name       string    `db:"name"`
	OrderIndex int       `db:"order_index"`
	CreatedAt  time.Time `db:"created_at"`
	Exercises  []Exercise
}

// Exercise is a single movement within a day
type Exercise struct {
	ID           string `db:"id"`
	DayID        string `db:"day_id"`
	Name         string `db:"name"`
	ExerciseType string `db:"exercise_type"` // "sets_reps" or "duration"
	OrderIndex   int    `db:"order_index"`
	Notes        string `db:"notes"`
	CircuitName  string `db:"circuit_name"` // empty when not part of a circuit
	Sets         []ExerciseSet
	Durations    []ExerciseDuration
}

// IsSetsBased reports whether the exercise is tracked as sets and reps
func (e Exercise) IsSetsBased() bool {
	return e.ExerciseType == ExerciseTypeSetsReps
}

// IsDurationBased reports whether the exercise is tracked by time
func (e Exercise) IsDurationBased() bool {
	return e.ExerciseType == ExerciseTypeDuration
}

// InCircuit reports whether the exercise belongs to a named circuit
func (e Exercise) InCircuit() bool {
	return strings.TrimSpace(e.CircuitName) != ""
}

// ExerciseSet is one prescribed set of a sets/reps exercise
type ExerciseSet struct {
	ID         string  `db:"id"`
	ExerciseID string  `db:"exercise_id"`
	SetNumber  int     `db:"set_number"`
	Reps       int     `db:"reps"`
	Weight     float64 `db:"weight"`
	OrderIndex int     `db:"order_index"`
}

// ExerciseDuration is a timed block of a duration exercise
type ExerciseDuration struct {
	ID         string `db:"id"`
	ExerciseID string `db:"exercise_id"`
	Seconds    int    `db:"seconds"`
	Notes      string `db:"notes"`
}

// OrderUpdate assigns a new order index to an exercise
type OrderUpdate struct {
	ExerciseID string
	OrderIndex int
}

// JoinTags encodes tags for the legacy comma-separated column.
// Embedded commas are not escaped.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// SplitTags decodes the comma-separated column, trimming whitespace per tag.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return NormalizeTags(strings.Split(s, ","))
}

// NormalizeTags trims each tag and drops empties and repeats, keeping the
// first occurrence order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	return result
}
