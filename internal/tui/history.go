package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"workouttracker/internal/analysis"
	"workouttracker/internal/service"
)

// historyTab selects what the history screen shows below the filter bar
type historyTab int

const (
	tabCalendar historyTab = iota
	tabList
	tabStats
)

var historyTabNames = []string{"Calendar", "Workouts", "Stats"}

// HistoryModel is the history screen model
type HistoryModel struct {
	queryService  *service.QueryService
	filter        analysis.Filter
	typeOptions   []string
	typeIndex     int
	heatmapMonths int

	data    *service.HistoryData
	loading bool
	err     error

	tab       historyTab
	search    textinput.Model
	searching bool

	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

// NewHistoryModel creates a new history model starting on the current year
func NewHistoryModel(qs *service.QueryService, defaultType string, heatmapMonths int, width, height int) HistoryModel {
	options := []string{analysis.AllTypesFilter}
	for _, t := range analysis.AllWorkoutTypes() {
		options = append(options, string(t))
	}

	typeIndex := 0
	for i, o := range options {
		if strings.EqualFold(o, defaultType) {
			typeIndex = i
		}
	}

	ti := textinput.New()
	ti.Placeholder = "search type, notes or tags"
	ti.CharLimit = 64
	ti.Width = 32

	m := HistoryModel{
		queryService:  qs,
		filter:        analysis.Filter{Year: time.Now().In(qs.Calendar().Location()).Year(), Type: options[typeIndex]},
		typeOptions:   options,
		typeIndex:     typeIndex,
		heatmapMonths: heatmapMonths,
		loading:       true,
		search:        ti,
		width:         width,
		height:        height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-12)
		m.ready = true
	}
	return m
}

// Capturing reports whether key presses are going to the search box
func (m HistoryModel) Capturing() bool {
	return m.searching
}

// Init initializes the history screen
func (m HistoryModel) Init() tea.Cmd {
	return m.loadHistory
}

type historyLoadedMsg struct {
	data *service.HistoryData
	err  error
}

func (m HistoryModel) loadHistory() tea.Msg {
	data, err := m.queryService.GetHistory(context.Background(), m.filter)
	return historyLoadedMsg{data: data, err: err}
}

// Update handles messages
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
		m.refreshViewport()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-12)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 12
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}

		switch msg.String() {
		case "/":
			m.searching = true
			return m, m.search.Focus()
		case "left", "h":
			return m.setYear(m.filter.Year - 1)
		case "right", "l":
			return m.setYear(m.filter.Year + 1)
		case "t":
			m.typeIndex = (m.typeIndex + 1) % len(m.typeOptions)
			m.filter.Type = m.typeOptions[m.typeIndex]
			m.loading = true
			return m, m.loadHistory
		case "T":
			m.typeIndex = (m.typeIndex + len(m.typeOptions) - 1) % len(m.typeOptions)
			m.filter.Type = m.typeOptions[m.typeIndex]
			m.loading = true
			return m, m.loadHistory
		case "tab":
			m.tab = (m.tab + 1) % historyTab(len(historyTabNames))
			m.refreshViewport()
			return m, nil
		case "c":
			m.filter.Search = ""
			m.search.SetValue("")
			m.loading = true
			return m, m.loadHistory
		case "r":
			m.loading = true
			return m, m.loadHistory
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m HistoryModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		m.filter.Search = strings.TrimSpace(m.search.Value())
		m.loading = true
		return m, m.loadHistory
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.filter.Search)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// setYear moves to year unless it is past the current year or before the
// oldest year with workouts.
func (m HistoryModel) setYear(year int) (tea.Model, tea.Cmd) {
	current := time.Now().In(m.queryService.Calendar().Location()).Year()
	oldest := current
	if m.data != nil && len(m.data.Years) > 0 {
		oldest = m.data.Years[len(m.data.Years)-1]
	}
	if year > current || year < oldest {
		return m, nil
	}
	m.filter.Year = year
	m.loading = true
	return m, m.loadHistory
}

func (m *HistoryModel) refreshViewport() {
	if !m.ready || m.data == nil {
		return
	}
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// View renders the history screen
func (m HistoryModel) View() string {
	var sections []string
	sections = append(sections, m.renderFilterBar())

	switch {
	case m.loading:
		sections = append(sections, "\n  Loading history...")
	case m.err != nil:
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
	case !m.ready:
		sections = append(sections, "\n  Initializing...")
	default:
		sections = append(sections, m.viewport.View())
	}

	help := "  ←/→: year  t: type  /: search  c: clear search  tab: switch view  j/k: scroll  r: refresh"
	if m.searching {
		help = "  enter: apply search  esc: cancel"
	}
	sections = append(sections, statusStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m HistoryModel) renderFilterBar() string {
	year := navActiveStyle.Render(fmt.Sprintf("◀ %d ▶", m.filter.Year))
	typ := "Type: " + navActiveStyle.Render(m.filter.Type)

	var tabs []string
	for i, name := range historyTabNames {
		if historyTab(i) == m.tab {
			tabs = append(tabs, navActiveStyle.Render("["+name+"]"))
		} else {
			tabs = append(tabs, navInactiveStyle.Render(" "+name+" "))
		}
	}

	search := m.search.View()
	if !m.searching && m.filter.Search == "" {
		search = helpDescStyle.Render("/ to search")
	}

	top := lipgloss.JoinHorizontal(lipgloss.Center,
		year, "   ", typ, "   ", searchStyle.Render(search))
	return lipgloss.JoinVertical(lipgloss.Left, top, strings.Join(tabs, " "))
}

func (m HistoryModel) renderContent() string {
	switch m.tab {
	case tabList:
		return m.renderList()
	case tabStats:
		return m.renderStats()
	default:
		return m.renderCalendar()
	}
}

func (m HistoryModel) renderCalendar() string {
	today := m.queryService.Calendar().Today(time.Now())
	s := m.data.Summary

	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		RenderMetric("Workouts", formatCount(s.Total), ""), "  ",
		RenderMetric("Active days", formatCount(s.ActiveDays), ""), "  ",
		RenderMetric("Streak", fmt.Sprintf("%d", s.CurrentStreak), ""),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		renderHeatMap(m.data.Year, m.data.DayCounts, today, m.heatmapMonths),
		"",
		summary,
	)
}

func (m HistoryModel) renderList() string {
	if len(m.data.Workouts) == 0 {
		return "\n  No workouts match this filter."
	}

	now := time.Now()
	loc := m.queryService.Calendar().Location()

	title := cardTitleStyle.Render(fmt.Sprintf("%s workouts", formatCount(len(m.data.Workouts))))
	header := tableHeaderStyle.Render(fmt.Sprintf("%-14s  %-12s  %7s  %-24s", "When", "Type", "Time", "Notes"))

	rows := []string{title, header}
	for _, w := range m.data.Workouts {
		rows = append(rows, tableRowStyle.Render(workoutLine(w, now, loc)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m HistoryModel) renderStats() string {
	s := m.data.Summary

	overview := []string{
		cardTitleStyle.Render(fmt.Sprintf("%d Summary", s.Year)),
		RenderMetric("Workouts", formatCount(s.Total), ""),
		RenderMetric("Active days", formatCount(s.ActiveDays), ""),
		RenderMetric("Days active", fmt.Sprintf("%.1f%%", s.CompletionPct), ""),
		RenderMetric("Per week", fmt.Sprintf("%.1f", s.AveragePerWeek), ""),
		RenderMetric("Total time", formatMinutes(s.TotalMinutes), ""),
		RenderMetric("Calories", formatCalories(s.TotalCalories), ""),
	}

	freq := []string{
		cardTitleStyle.Render("Days by Workouts"),
		m.renderBar("Rest", s.DailyFrequency[analysis.FrequencyNone], s.DailyFrequency),
		m.renderBar("1 workout", s.DailyFrequency[analysis.FrequencyOne], s.DailyFrequency),
		m.renderBar("2 or more", s.DailyFrequency[analysis.FrequencyTwoOrMore], s.DailyFrequency),
	}

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, overview...)),
		"  ",
		cardStyle.Width(44).Render(lipgloss.JoinVertical(lipgloss.Left, freq...)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, topRow, m.renderTypes(), m.renderMonthlyChart())
}

func (m HistoryModel) renderBar(label string, n int, hist map[int]int) string {
	total := 0
	for _, v := range hist {
		total += v
	}
	pct := 0.0
	if total > 0 {
		pct = float64(n) / float64(total)
	}
	return fmt.Sprintf("%-10s %s %4d", label, RenderProgressBar(pct, 20), n)
}

func (m HistoryModel) renderTypes() string {
	title := cardTitleStyle.Render("By Type")

	types := m.data.Summary.TypeBreakdown
	if len(types) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No workouts"))
	}

	labels := make([]string, 0, len(types))
	for label := range types {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if types[labels[i]] != types[labels[j]] {
			return types[labels[i]] > types[labels[j]]
		}
		return labels[i] < labels[j]
	})

	total := m.data.Summary.Total
	rows := []string{title}
	for _, label := range labels {
		pct := 0.0
		if total > 0 {
			pct = float64(types[label]) / float64(total)
		}
		rows = append(rows, fmt.Sprintf("%-12s %s %4d", RenderType(label), RenderProgressBar(pct, 20), types[label]))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m HistoryModel) renderMonthlyChart() string {
	title := cardTitleStyle.Render("Workouts per Month")

	counts := m.data.Summary.MonthlyCounts
	data := make([]float64, len(counts))
	hasData := false
	for i, c := range counts {
		data[i] = float64(c)
		if c > 0 {
			hasData = true
		}
	}
	if !hasData {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No workouts this year"))
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
		asciigraph.Caption("Jan → Dec"),
	)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}
