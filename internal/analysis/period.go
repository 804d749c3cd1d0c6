package analysis

import (
	"math"
	"sort"
	"time"

	"workouttracker/internal/calendar"
	"workouttracker/internal/store"
)

// CountInYear returns the number of workouts dated in year
func CountInYear(cal calendar.Calendar, workouts []store.Workout, year int) int {
	count := 0
	for _, w := range workouts {
		if w.Date != nil && cal.YearOf(*w.Date) == year {
			count++
		}
	}
	return count
}

// CountInMonth returns the number of workouts dated in the given month
func CountInMonth(cal calendar.Calendar, workouts []store.Workout, year int, month time.Month) int {
	count := 0
	for _, w := range workouts {
		if w.Date == nil {
			continue
		}
		if cal.YearOf(*w.Date) == year && cal.MonthOf(*w.Date) == month {
			count++
		}
	}
	return count
}

// CountInWeek returns the number of workouts whose calendar year is year and
// whose ISO week number is week. Late-December days that belong to ISO week 1
// of the following year are therefore not counted in either week 1.
func CountInWeek(cal calendar.Calendar, workouts []store.Workout, year, week int) int {
	count := 0
	for _, w := range workouts {
		if w.Date == nil {
			continue
		}
		if cal.YearOf(*w.Date) == year && cal.WeekOfYearOf(*w.Date) == week {
			count++
		}
	}
	return count
}

// CountInWeekOf returns the number of workouts in the Monday-to-Sunday week
// containing ref. Unlike CountInWeek it spans year boundaries.
func CountInWeekOf(cal calendar.Calendar, workouts []store.Workout, ref time.Time) int {
	refDay := cal.Key(ref)
	monday := refDay.AddDays(-((int(refDay.Weekday()) + 6) % 7))
	sunday := monday.AddDays(6)

	count := 0
	for _, w := range workouts {
		if w.Date == nil {
			continue
		}
		day := cal.Key(*w.Date)
		if !day.Before(monday) && !day.After(sunday) {
			count++
		}
	}
	return count
}

// UniqueActiveDays returns the number of distinct days in year with at least
// one workout.
func UniqueActiveDays(cal calendar.Calendar, workouts []store.Workout, year int) int {
	count := 0
	for day := range ActiveDays(cal, workouts) {
		if day.Year == year {
			count++
		}
	}
	return count
}

// MonthlyCounts returns workouts per month of year, January first
func MonthlyCounts(cal calendar.Calendar, workouts []store.Workout, year int) [12]int {
	var counts [12]int
	for _, w := range workouts {
		if w.Date == nil || cal.YearOf(*w.Date) != year {
			continue
		}
		counts[cal.MonthOf(*w.Date)-1]++
	}
	return counts
}

// AvailableYears returns every year with at least one dated workout, newest first
func AvailableYears(cal calendar.Calendar, workouts []store.Workout) []int {
	seen := make(map[int]bool)
	var years []int
	for _, w := range workouts {
		if w.Date == nil {
			continue
		}
		y := cal.YearOf(*w.Date)
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// daysConsidered is the number of days of year that count toward completion:
// Jan 1 through the reference day inclusive in the reference year, the full
// year otherwise. It is 0 or negative when ref is before Jan 1 of year.
func daysConsidered(year int, refDay calendar.DayKey) int {
	if refDay.Year != year {
		return calendar.DaysInYear(year)
	}
	return calendar.DaysBetween(calendar.StartOfYear(year), refDay) + 1
}

// CompletionPercentage is the share of considered days in year with at least
// one workout, from 0 to 100.
func CompletionPercentage(cal calendar.Calendar, workouts []store.Workout, year int, ref time.Time) float64 {
	total := daysConsidered(year, cal.Key(ref))
	if total <= 0 {
		return 0
	}
	pct := float64(UniqueActiveDays(cal, workouts, year)) / float64(total) * 100
	return math.Min(100, math.Max(0, pct))
}

// weeksElapsed counts whole weeks from Jan 1 of year to the reference day (or
// Dec 31 for other years), with a minimum of one.
func weeksElapsed(year int, refDay calendar.DayKey) int {
	end := calendar.EndOfYear(year)
	if refDay.Year == year {
		end = refDay
	}
	weeks := calendar.DaysBetween(calendar.StartOfYear(year), end) / 7
	if weeks < 1 {
		weeks = 1
	}
	return weeks
}

// AveragePerWeek is the number of workouts in year divided by the whole weeks
// elapsed in it.
func AveragePerWeek(cal calendar.Calendar, workouts []store.Workout, year int, ref time.Time) float64 {
	weeks := weeksElapsed(year, cal.Key(ref))
	if weeks <= 0 {
		return 0
	}
	return float64(CountInYear(cal, workouts, year)) / float64(weeks)
}

// YearSummary bundles the statistics shown for one year
type YearSummary struct {
	Year           int
	Total          int
	ActiveDays     int
	CompletionPct  float64
	AveragePerWeek float64
	CurrentStreak  int
	TotalMinutes   float64
	TotalCalories  float64
	MonthlyCounts  [12]int
	DailyFrequency map[int]int
	TypeBreakdown  map[string]int
}

// Summarize computes every per-year statistic in one pass over a snapshot.
// The streak is always measured back from ref, regardless of year.
func Summarize(cal calendar.Calendar, workouts []store.Workout, year int, ref time.Time) YearSummary {
	var inYear []store.Workout
	var minutes, calories float64
	for _, w := range workouts {
		if w.Date == nil || cal.YearOf(*w.Date) != year {
			continue
		}
		inYear = append(inYear, w)
		minutes += w.DurationMinutes
		calories += w.Calories
	}

	return YearSummary{
		Year:           year,
		Total:          len(inYear),
		ActiveDays:     UniqueActiveDays(cal, inYear, year),
		CompletionPct:  CompletionPercentage(cal, inYear, year, ref),
		AveragePerWeek: AveragePerWeek(cal, inYear, year, ref),
		CurrentStreak:  CurrentStreak(cal, workouts, cal.Key(ref)),
		TotalMinutes:   minutes,
		TotalCalories:  calories,
		MonthlyCounts:  MonthlyCounts(cal, inYear, year),
		DailyFrequency: DailyFrequencyHistogram(cal, inYear, year, ref),
		TypeBreakdown:  TypeHistogram(inYear),
	}
}
