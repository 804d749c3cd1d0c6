package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"workouttracker/internal/store"
)

// formatMinutes renders a duration in minutes as "45m" or "1h 30m"
func formatMinutes(minutes float64) string {
	total := int(minutes + 0.5)
	h := total / 60
	m := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// formatWhen renders a workout date relative to now, e.g. "3 days ago".
// Dates older than a month fall back to the calendar date.
func formatWhen(date *time.Time, now time.Time, loc *time.Location) string {
	if date == nil {
		return "-"
	}
	if now.Sub(*date) > 30*24*time.Hour || date.After(now) {
		return date.In(loc).Format("Jan 02 2006")
	}
	return humanize.RelTime(*date, now, "ago", "from now")
}

// formatCount renders an integer with thousands separators
func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

func formatCalories(kcal float64) string {
	if kcal <= 0 {
		return "-"
	}
	return humanize.Comma(int64(kcal+0.5)) + " kcal"
}

func formatHeartRate(bpm float64) string {
	if bpm <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f bpm", bpm)
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "#" + strings.Join(tags, " #")
}

// workoutLine renders a single workout as one list row
func workoutLine(w store.Workout, now time.Time, loc *time.Location) string {
	line := fmt.Sprintf("%-14s  %-12s  %7s  %-24s",
		formatWhen(w.Date, now, loc),
		truncateName(w.Type, 12),
		formatMinutes(w.DurationMinutes),
		truncateName(w.Notes, 24),
	)
	if tags := formatTags(w.Tags); tags != "" {
		line += "  " + truncateName(tags, 30)
	}
	return line
}

func truncateName(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
