package analysis

import (
	"workouttracker/internal/calendar"
	"workouttracker/internal/store"
)

// ActiveDays counts workouts per calendar day. Workouts without a date are
// skipped.
func ActiveDays(cal calendar.Calendar, workouts []store.Workout) map[calendar.DayKey]int {
	days := make(map[calendar.DayKey]int)
	for _, w := range workouts {
		if w.Date == nil {
			continue
		}
		days[cal.Key(*w.Date)]++
	}
	return days
}

// CurrentStreak walks backward from today and counts active days.
//
// One missed day is forgiven: the first inactive day sets a rest flag and the
// walk continues. Any active day clears the flag again, so only two inactive
// days in a row end the streak. Forgiven days are not counted.
func CurrentStreak(cal calendar.Calendar, workouts []store.Workout, today calendar.DayKey) int {
	if len(workouts) == 0 {
		return 0
	}
	return streakFrom(ActiveDays(cal, workouts), today)
}

func streakFrom(active map[calendar.DayKey]int, today calendar.DayKey) int {
	if len(active) == 0 {
		return 0
	}

	// The walk can never outlast the earliest active day by more than one
	// forgiven day, so this bounds the loop for any input.
	earliest := today
	for day := range active {
		if day.Before(earliest) {
			earliest = day
		}
	}

	streak := 0
	restUsed := false
	for day := today; !day.Before(earliest.Prev()); day = day.Prev() {
		if active[day] > 0 {
			streak++
			restUsed = false
			continue
		}
		if restUsed {
			break
		}
		restUsed = true
	}
	return streak
}
