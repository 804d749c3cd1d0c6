package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	sections = append(sections, m.renderSection("Navigation", []keyHelp{
		{"1", "Home"},
		{"2", "History"},
		{"3", "Plans"},
		{"4", "Import"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Back / close help"},
	}))

	sections = append(sections, m.renderSection("Home", []keyHelp{
		{"r", "Refresh data"},
	}))

	sections = append(sections, m.renderSection("History", []keyHelp{
		{"← / →", "Previous / next year"},
		{"t / T", "Next / previous workout type"},
		{"/", "Search notes, type and tags"},
		{"c", "Clear search"},
		{"tab", "Calendar, workouts or stats"},
		{"j / k", "Scroll"},
	}))

	sections = append(sections, m.renderSection("Plans", []keyHelp{
		{"j / k", "Move cursor"},
		{"enter / h", "Open / back"},
		{"J / K", "Move exercise or circuit down / up"},
	}))

	sections = append(sections, m.renderSection("Import", []keyHelp{
		{"e", "Edit file path"},
		{"enter", "Start import"},
	}))

	sections = append(sections, m.renderStatsHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")).Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderStatsHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")).Render("Stats Explained"))
	lines = append(lines, "")

	stats := []struct {
		name string
		desc string
	}{
		{"Streak", "Active days counted back from today. A single rest day is forgiven, two in a row end the streak."},
		{"Days active", "Share of the year's days with a workout, counting only days so far for the current year."},
		{"Per week", "Workouts in the year divided by whole weeks elapsed."},
		{"Days by workouts", "How many days had no workout, one workout, or two or more."},
		{"Fitness (CTL)", "42 day average of training impulse from duration and heart rate."},
		{"Fatigue (ATL)", "7 day average of training impulse."},
		{"Form (TSB)", "Fitness minus fatigue. Positive = fresh."},
	}

	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	for _, stat := range stats {
		lines = append(lines, "  "+helpKeyStyle.Render(stat.name))
		lines = append(lines, "  "+mutedStyle.Render(stat.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
