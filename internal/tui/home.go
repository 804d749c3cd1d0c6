package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"workouttracker/internal/analysis"
	"workouttracker/internal/service"
)

// HomeModel is the home screen model
type HomeModel struct {
	queryService *service.QueryService
	data         *service.DashboardData
	loading      bool
	err          error
}

// NewHomeModel creates a new home model
func NewHomeModel(qs *service.QueryService) HomeModel {
	return HomeModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the home screen
func (m HomeModel) Init() tea.Cmd {
	return m.loadData
}

func (m HomeModel) loadData() tea.Msg {
	data, err := m.queryService.GetDashboardData(context.Background())
	if err != nil {
		return homeDataMsg{err: err}
	}
	return homeDataMsg{data: data}
}

type homeDataMsg struct {
	data *service.DashboardData
	err  error
}

// Update handles messages
func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case homeDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the home screen
func (m HomeModel) View() string {
	if m.loading {
		return "\n  Loading..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil || m.data.TotalWorkouts == 0 {
		return "\n  No workouts yet. Log one with 'workouttracker add' or press '4' to import."
	}

	var sections []string

	// Top row: streak and current periods side by side
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, m.renderStreakCard(), "  ", m.renderPeriodCard())
	sections = append(sections, topRow)

	middle := lipgloss.JoinHorizontal(lipgloss.Top, m.renderToday(), "  ", m.renderFitnessCard())
	sections = append(sections, middle)
	sections = append(sections, m.renderRecent())

	help := statusStyle.Render("Press 'r' to refresh, '2' for history, '3' for plans")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m HomeModel) renderStreakCard() string {
	title := cardTitleStyle.Render("Current Streak")

	days := "days"
	if m.data.CurrentStreak == 1 {
		days = "day"
	}
	streak := metricValueStyle.Render(fmt.Sprintf("%d %s", m.data.CurrentStreak, days))

	lines := []string{
		streak,
		"",
		helpDescStyle.Render("One rest day in a row is allowed"),
	}
	if !m.data.LastImport.IsZero() {
		lines = append(lines, helpDescStyle.Render("Last import "+humanize.Time(m.data.LastImport)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m HomeModel) renderPeriodCard() string {
	title := cardTitleStyle.Render(fmt.Sprintf("%d", m.data.Today.Year))

	lines := []string{
		RenderMetric("This week", formatCount(m.data.WeekCount), ""),
		RenderMetric("This month", formatCount(m.data.MonthCount), ""),
		RenderMetric("This year", formatCount(m.data.YearCount), ""),
		RenderMetric("Per week", fmt.Sprintf("%.1f", m.data.AveragePerWeek), ""),
		RenderMetric("Days active", fmt.Sprintf("%.0f%%", m.data.YearCompletion), ""),
		RenderProgressBar(m.data.YearCompletion/100, 28),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m HomeModel) renderFitnessCard() string {
	title := cardTitleStyle.Render("Training Load")

	f := m.data.Fitness
	if f.CTL == 0 && f.ATL == 0 {
		return cardStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, title,
			helpDescStyle.Render("Log heart rate to track load")))
	}

	tsbTrend := ""
	if f.TSB > 0 {
		tsbTrend = "+"
	}

	lines := []string{
		RenderMetric("Fitness", fmt.Sprintf("%.0f", f.CTL), ""),
		RenderMetric("Fatigue", fmt.Sprintf("%.0f", f.ATL), ""),
		RenderMetric("Form", fmt.Sprintf("%+.0f", f.TSB), tsbTrend),
		helpDescStyle.Render(analysis.FormDescription(f.TSB)),
	}
	return cardStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func (m HomeModel) renderToday() string {
	title := cardTitleStyle.Render("Today")

	if len(m.data.TodayWorkouts) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, helpDescStyle.Render("Nothing logged yet today")))
	}

	var rows []string
	for _, w := range m.data.TodayWorkouts {
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%s  %s  %s  %s",
			RenderType(w.Type),
			formatMinutes(w.DurationMinutes),
			formatCalories(w.Calories),
			formatHeartRate(w.HeartRate),
		)))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func (m HomeModel) renderRecent() string {
	title := cardTitleStyle.Render("Recent Workouts")

	if len(m.data.RecentWorkouts) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No workouts yet"))
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-14s  %-12s  %7s  %-24s", "When", "Type", "Time", "Notes"))

	rows := []string{header}
	now := time.Now()
	loc := m.queryService.Calendar().Location()
	for _, w := range m.data.RecentWorkouts {
		rows = append(rows, tableRowStyle.Render(workoutLine(w, now, loc)))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}
