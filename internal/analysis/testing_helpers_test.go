package analysis

import (
	"time"

	"workouttracker/internal/calendar"
	"workouttracker/internal/store"
)

var utc = calendar.New(time.UTC)

// at returns a workout dated at 10:00 UTC on the given day
func at(year int, month time.Month, day int) store.Workout {
	t := time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
	return store.Workout{Date: &t, Type: "Cardio"}
}

// daysAgo returns a workout dated n days before ref's day
func daysAgo(ref calendar.DayKey, n int) store.Workout {
	k := ref.AddDays(-n)
	return at(k.Year, k.Month, k.Day)
}

func ofType(w store.Workout, typ string, tags ...string) store.Workout {
	w.Type = typ
	w.Tags = tags
	return w
}
