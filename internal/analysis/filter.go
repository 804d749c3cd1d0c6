package analysis

import (
	"strings"

	"workouttracker/internal/calendar"
	"workouttracker/internal/store"
)

// Filter narrows a workout list for the history view. Zero values match
// everything.
type Filter struct {
	Year   int    // 0 = any year
	Type   string // "" or "All" = any type
	Search string // case-insensitive substring over type, notes and tags
}

// Active reports whether the filter excludes anything
func (f Filter) Active() bool {
	return f.Year != 0 || !f.anyType() || strings.TrimSpace(f.Search) != ""
}

func (f Filter) anyType() bool {
	t := strings.TrimSpace(f.Type)
	return t == "" || strings.EqualFold(t, AllTypesFilter)
}

// Matches reports whether w passes every part of the filter.
// A year filter excludes workouts without a date.
func (f Filter) Matches(cal calendar.Calendar, w store.Workout) bool {
	if f.Year != 0 {
		if w.Date == nil || cal.YearOf(*w.Date) != f.Year {
			return false
		}
	}
	return f.matchesType(w) && f.matchesSearch(w)
}

// matchesType checks the type field or any tag, case-insensitively
func (f Filter) matchesType(w store.Workout) bool {
	if f.anyType() {
		return true
	}
	want := strings.TrimSpace(f.Type)
	if strings.EqualFold(w.Type, want) {
		return true
	}
	for _, tag := range w.Tags {
		if strings.EqualFold(tag, want) {
			return true
		}
	}
	return false
}

func (f Filter) matchesSearch(w store.Workout) bool {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(w.Type), q) || strings.Contains(strings.ToLower(w.Notes), q) {
		return true
	}
	for _, tag := range w.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Apply returns the matching workouts in their original order
func (f Filter) Apply(cal calendar.Calendar, workouts []store.Workout) []store.Workout {
	out := make([]store.Workout, 0, len(workouts))
	for _, w := range workouts {
		if f.Matches(cal, w) {
			out = append(out, w)
		}
	}
	return out
}
