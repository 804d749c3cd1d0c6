package service

import (
	"context"
	"fmt"
	"time"

	"workouttracker/internal/analysis"
	"workouttracker/internal/calendar"
	"workouttracker/internal/store"
)

// WorkoutSource supplies workout snapshots. *store.Store satisfies it.
type WorkoutSource interface {
	ListWorkouts(ctx context.Context) ([]store.Workout, error)
	GetState(ctx context.Context, key string) (string, error)
}

// QueryService provides read-only queries for the TUI and CLI
type QueryService struct {
	store WorkoutSource
	cal   calendar.Calendar
	zones analysis.HRZones
	now   func() time.Time
}

// NewQueryService creates a new query service using the wall clock
func NewQueryService(store WorkoutSource, cal calendar.Calendar) *QueryService {
	return &QueryService{store: store, cal: cal, zones: analysis.DefaultZones(), now: time.Now}
}

// WithZones returns a copy of the service that computes training load with zones
func (q *QueryService) WithZones(zones analysis.HRZones) *QueryService {
	c := *q
	c.zones = zones
	return &c
}

// WithClock returns a copy of the service that reads the time from now
func (q *QueryService) WithClock(now func() time.Time) *QueryService {
	c := *q
	c.now = now
	return &c
}

// Calendar returns the calendar used for day bucketing
func (q *QueryService) Calendar() calendar.Calendar {
	return q.cal
}

// DashboardData contains all data needed for the home screen
type DashboardData struct {
	Today         calendar.DayKey
	CurrentStreak int

	TodayWorkouts []store.Workout

	// Current periods
	WeekCount      int
	MonthCount     int
	YearCount      int
	YearCompletion float64
	AveragePerWeek float64

	TotalWorkouts  int
	RecentWorkouts []store.Workout

	// Training load as of today; zero when no workout has a heart rate
	Fitness analysis.FitnessMetrics

	LastImport time.Time // zero if never imported
}

// GetDashboardData fetches all data needed for the home screen
func (q *QueryService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	workouts, err := q.store.ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading workouts: %w", err)
	}

	now := q.now()
	today := q.cal.Key(now)
	year := today.Year

	data := &DashboardData{
		Today:          today,
		CurrentStreak:  analysis.CurrentStreak(q.cal, workouts, today),
		WeekCount:      analysis.CountInWeekOf(q.cal, workouts, now),
		MonthCount:     analysis.CountInMonth(q.cal, workouts, year, today.Month),
		YearCount:      analysis.CountInYear(q.cal, workouts, year),
		YearCompletion: analysis.CompletionPercentage(q.cal, workouts, year, now),
		AveragePerWeek: analysis.AveragePerWeek(q.cal, workouts, year, now),
		TotalWorkouts:  len(workouts),
		Fitness:        analysis.CurrentFitness(q.cal, workouts, q.zones, today),
	}

	for _, w := range workouts {
		if w.Date != nil && q.cal.Key(*w.Date) == today {
			data.TodayWorkouts = append(data.TodayWorkouts, w)
		}
	}

	// ListWorkouts is newest first with undated workouts last
	for _, w := range workouts {
		if len(data.RecentWorkouts) >= RecentWorkoutsLimit {
			break
		}
		if w.Date != nil {
			data.RecentWorkouts = append(data.RecentWorkouts, w)
		}
	}

	if last, err := q.store.GetState(ctx, store.StateLastImport); err == nil && last != "" {
		if t, err := time.Parse(time.RFC3339, last); err == nil {
			data.LastImport = t
		}
	}

	return data, nil
}

// HistoryData contains everything the history screen shows for one filter
type HistoryData struct {
	Filter   analysis.Filter
	Year     int
	Workouts []store.Workout // matching the whole filter, newest first

	// Per-day counts for the heat map, over workouts matching the filter
	DayCounts map[calendar.DayKey]int

	Summary analysis.YearSummary
	Years   []int // every year with workouts, newest first
}

// GetHistory applies f to a fresh snapshot. A zero year means the current
// year for the summary and heat map while the list spans every year.
func (q *QueryService) GetHistory(ctx context.Context, f analysis.Filter) (*HistoryData, error) {
	workouts, err := q.store.ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading workouts: %w", err)
	}

	now := q.now()
	year := f.Year
	if year == 0 {
		year = q.cal.YearOf(now)
	}

	// Type and search apply to every statistic; the year only narrows the list
	unyeared := f
	unyeared.Year = 0
	typed := unyeared.Apply(q.cal, workouts)

	return &HistoryData{
		Filter:    f,
		Year:      year,
		Workouts:  f.Apply(q.cal, workouts),
		DayCounts: analysis.ActiveDays(q.cal, typed),
		Summary:   analysis.Summarize(q.cal, typed, year, now),
		Years:     analysis.AvailableYears(q.cal, workouts),
	}, nil
}
