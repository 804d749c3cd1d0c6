package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"workouttracker/internal/analysis"
	"workouttracker/internal/calendar"
)

const (
	heatCell        = "■"
	heatMonthsInRow = 4
)

// heatBucket maps a day's workout count onto a daily frequency bucket
func heatBucket(n int) int {
	switch {
	case n <= 0:
		return analysis.FrequencyNone
	case n == 1:
		return analysis.FrequencyOne
	default:
		return analysis.FrequencyTwoOrMore
	}
}

// heatMonths returns the months to draw: the last n months of year, ending at
// today's month when year is the current year.
func heatMonths(year int, today calendar.DayKey, n int) []time.Month {
	if n <= 0 || n > 12 {
		n = 12
	}
	last := time.December
	if today.Year == year {
		last = today.Month
	}
	first := int(last) - n + 1
	if first < 1 {
		first = 1
	}

	var months []time.Month
	for m := first; m <= int(last); m++ {
		months = append(months, time.Month(m))
	}
	return months
}

// renderMonth draws one month as a Monday-first grid of coloured cells
func renderMonth(year int, month time.Month, counts map[calendar.DayKey]int, today calendar.DayKey) string {
	var b strings.Builder
	b.WriteString(monthTitleStyle.Render(month.String()[:3]))
	b.WriteString("\n")
	b.WriteString(helpDescStyle.Render("M T W T F S S"))
	b.WriteString("\n")

	first := calendar.NewDayKey(year, month, 1)
	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("  ", offset))

	col := offset
	for d := 1; d <= calendar.DaysInMonth(year, month); d++ {
		day := calendar.NewDayKey(year, month, d)
		style := heatStyles[heatBucket(counts[day])]
		if day == today {
			style = heatTodayStyle
		}
		if day.After(today) {
			b.WriteString(" ")
		} else {
			b.WriteString(style.Render(heatCell))
		}

		col++
		if col == 7 {
			col = 0
			if d < calendar.DaysInMonth(year, month) {
				b.WriteString("\n")
			}
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

// renderHeatMap lays out the months of a year in rows
func renderHeatMap(year int, counts map[calendar.DayKey]int, today calendar.DayKey, months int) string {
	var rows []string
	var row []string
	for _, m := range heatMonths(year, today, months) {
		cell := lipgloss.NewStyle().Width(16).Height(8).Render(renderMonth(year, m, counts, today))
		row = append(row, cell)
		if len(row) == heatMonthsInRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	legend := helpDescStyle.Render("less ") +
		heatStyles[0].Render(heatCell) + " " +
		heatStyles[1].Render(heatCell) + " " +
		heatStyles[2].Render(heatCell) +
		helpDescStyle.Render(" more")

	rows = append(rows, legend)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
