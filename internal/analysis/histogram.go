package analysis

import (
	"time"

	"workouttracker/internal/calendar"
	"workouttracker/internal/store"
)

// Daily frequency buckets. FrequencyTwoOrMore collects every day with two or
// more workouts.
const (
	FrequencyNone      = 0
	FrequencyOne       = 1
	FrequencyTwoOrMore = 2
)

// DailyFrequencyHistogram classifies each day of year by how many workouts it
// had. The range is Jan 1 through Dec 31, or through the reference day when
// year is the reference year. The three tallies always sum to the number of
// days in the range.
func DailyFrequencyHistogram(cal calendar.Calendar, workouts []store.Workout, year int, ref time.Time) map[int]int {
	hist := map[int]int{
		FrequencyNone:      0,
		FrequencyOne:       0,
		FrequencyTwoOrMore: 0,
	}

	start := calendar.StartOfYear(year)
	end := calendar.EndOfYear(year)
	if refDay := cal.Key(ref); refDay.Year == year {
		end = refDay
	}

	active := ActiveDays(cal, workouts)
	for day := start; !day.After(end); day = day.Next() {
		switch n := active[day]; {
		case n == 0:
			hist[FrequencyNone]++
		case n == 1:
			hist[FrequencyOne]++
		default:
			hist[FrequencyTwoOrMore]++
		}
	}
	return hist
}

// TypeHistogram counts workouts by canonical type. Empty and unrecognised
// types are counted under "Unknown". Undated workouts are included.
func TypeHistogram(workouts []store.Workout) map[string]int {
	hist := make(map[string]int)
	for _, w := range workouts {
		hist[typeLabel(w.Type)]++
	}
	return hist
}
