package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"workouttracker/internal/plan"
	"workouttracker/internal/service"
	"workouttracker/internal/store"
)

// planLevel is how deep the plans screen is drilled in
type planLevel int

const (
	levelPlans planLevel = iota
	levelDays
	levelDay
)

// PlansModel is the plans screen model. It browses plans, then days, then
// the circuit groups of a single day, where groups can be moved.
type PlansModel struct {
	planService *service.PlanService

	level  planLevel
	plans  []store.Plan
	plan   *store.Plan
	day    *store.Day
	groups []plan.Group
	cursor int

	loading bool
	err     error
	status  string
}

// NewPlansModel creates a new plans model
func NewPlansModel(ps *service.PlanService) PlansModel {
	return PlansModel{
		planService: ps,
		loading:     true,
	}
}

// Init initializes the plans screen
func (m PlansModel) Init() tea.Cmd {
	return m.loadPlans
}

type plansLoadedMsg struct {
	plans []store.Plan
	err   error
}

type dayGroupsMsg struct {
	groups []plan.Group
	err    error
	moved  bool
	cursor int
}

func (m PlansModel) loadPlans() tea.Msg {
	plans, err := m.planService.ListPlans(context.Background())
	return plansLoadedMsg{plans: plans, err: err}
}

func (m PlansModel) loadGroups(dayID string) tea.Cmd {
	return func() tea.Msg {
		groups, err := m.planService.DayGroups(context.Background(), dayID)
		return dayGroupsMsg{groups: groups, err: err}
	}
}

func (m PlansModel) moveGroup(dayID string, from, to int) tea.Cmd {
	return func() tea.Msg {
		groups, err := m.planService.MoveGroup(context.Background(), dayID, from, to)
		return dayGroupsMsg{groups: groups, err: err, moved: true, cursor: to}
	}
}

// Update handles messages
func (m PlansModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case plansLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.plans = msg.plans
		if m.cursor >= len(m.plans) {
			m.cursor = 0
		}
		return m, nil

	case dayGroupsMsg:
		m.loading = false
		m.err = msg.err
		m.status = ""
		switch {
		case msg.moved && msg.err != nil:
			// Keep showing the last committed order
			m.status = "Order not saved"
		case msg.moved:
			m.groups = msg.groups
			m.cursor = msg.cursor
			m.status = "Order saved"
		default:
			m.groups = msg.groups
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m PlansModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < m.itemCount()-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter", "l":
		return m.drillDown()
	case "backspace", "h":
		return m.drillUp(), nil
	case "J":
		if m.level == levelDay && m.cursor < len(m.groups)-1 {
			m.loading = true
			return m, m.moveGroup(m.day.ID, m.cursor, m.cursor+1)
		}
	case "K":
		if m.level == levelDay && m.cursor > 0 {
			m.loading = true
			return m, m.moveGroup(m.day.ID, m.cursor, m.cursor-1)
		}
	case "r":
		m.loading = true
		if m.level == levelDay {
			return m, m.loadGroups(m.day.ID)
		}
		return m, m.loadPlans
	}
	return m, nil
}

func (m PlansModel) itemCount() int {
	switch m.level {
	case levelDays:
		return len(m.plan.Days)
	case levelDay:
		return len(m.groups)
	default:
		return len(m.plans)
	}
}

func (m PlansModel) drillDown() (tea.Model, tea.Cmd) {
	switch m.level {
	case levelPlans:
		if m.cursor >= len(m.plans) {
			return m, nil
		}
		m.plan = &m.plans[m.cursor]
		m.level = levelDays
		m.cursor = 0
	case levelDays:
		if m.cursor >= len(m.plan.Days) {
			return m, nil
		}
		m.day = &m.plan.Days[m.cursor]
		m.level = levelDay
		m.cursor = 0
		m.groups = nil
		m.status = ""
		m.loading = true
		return m, m.loadGroups(m.day.ID)
	}
	return m, nil
}

func (m PlansModel) drillUp() PlansModel {
	switch m.level {
	case levelDay:
		m.level = levelDays
		m.cursor = 0
		m.groups = nil
		m.status = ""
	case levelDays:
		m.level = levelPlans
		m.cursor = 0
		m.plan = nil
	}
	m.err = nil
	return m
}

// View renders the plans screen
func (m PlansModel) View() string {
	var sections []string

	switch m.level {
	case levelDays:
		sections = append(sections, m.renderDays())
	case levelDay:
		sections = append(sections, m.renderDay())
	default:
		sections = append(sections, m.renderPlans())
	}

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
	}
	if m.status != "" {
		style := successStyle
		if m.err != nil {
			style = warningStyle
		}
		sections = append(sections, style.Render("  "+m.status))
	}

	help := "  j/k: move  enter: open  h: back  r: refresh"
	if m.level == levelDay {
		help = "  j/k: select  J/K: move group down/up  h: back  r: refresh"
	}
	sections = append(sections, statusStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m PlansModel) renderPlans() string {
	title := cardTitleStyle.Render("Plans")
	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, title, "  Loading plans...")
	}
	if len(m.plans) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, "  No plans yet.")
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-28s  %-10s  %4s", "Name", "Type", "Days"))
	rows := []string{title, header}
	for i, p := range m.plans {
		line := fmt.Sprintf("%-28s  %-10s  %4d", truncateName(p.Name, 28), truncateName(p.Type, 10), len(p.Days))
		rows = append(rows, m.renderRow(i, line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m PlansModel) renderDays() string {
	title := cardTitleStyle.Render(m.plan.Name)
	var rows []string
	rows = append(rows, title)
	if m.plan.Description != "" {
		rows = append(rows, helpDescStyle.Render(m.plan.Description))
	}
	if len(m.plan.Days) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(rows, "  This plan has no days.")...)
	}
	if !m.plan.IsStructuredStrength() {
		rows = append(rows, helpDescStyle.Render("  Not a strength plan; days have no circuits."))
	}

	for i, d := range m.plan.Days {
		line := fmt.Sprintf("%-28s  %3d exercises", truncateName(d.Name, 28), len(d.Exercises))
		rows = append(rows, m.renderRow(i, line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m PlansModel) renderDay() string {
	title := cardTitleStyle.Render(fmt.Sprintf("%s › %s", m.plan.Name, m.day.Name))
	if m.loading && m.groups == nil {
		return lipgloss.JoinVertical(lipgloss.Left, title, "  Loading exercises...")
	}
	if len(m.groups) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, "  No exercises.")
	}

	rows := []string{title}
	for i, g := range m.groups {
		rows = append(rows, m.renderGroup(i, g))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m PlansModel) renderGroup(i int, g plan.Group) string {
	marker := "  "
	if i == m.cursor {
		marker = "▶ "
	}

	if !g.IsCircuit() {
		line := marker + exerciseLine(g.Exercises[0])
		if i == m.cursor {
			return tableSelectedStyle.Render(line)
		}
		return tableRowStyle.Render(line)
	}

	lines := []string{marker + g.Circuit}
	for _, ex := range g.Exercises {
		lines = append(lines, "    "+exerciseLine(ex))
	}
	box := circuitStyle.Render(strings.Join(lines, "\n"))
	if i == m.cursor {
		return tableSelectedStyle.Render(box)
	}
	return box
}

func (m PlansModel) renderRow(i int, line string) string {
	if i == m.cursor {
		return tableSelectedStyle.Render("▶ " + line)
	}
	return tableRowStyle.Render("  " + line)
}

// exerciseLine describes an exercise and its prescription
func exerciseLine(ex store.Exercise) string {
	switch {
	case ex.IsDurationBased() && len(ex.Durations) > 0:
		parts := make([]string, len(ex.Durations))
		for i, d := range ex.Durations {
			parts[i] = fmt.Sprintf("%ds", d.Seconds)
		}
		return fmt.Sprintf("%-24s %s", truncateName(ex.Name, 24), strings.Join(parts, ", "))
	case ex.IsSetsBased() && len(ex.Sets) > 0:
		parts := make([]string, len(ex.Sets))
		for i, set := range ex.Sets {
			if set.Weight > 0 {
				parts[i] = fmt.Sprintf("%d×%g", set.Reps, set.Weight)
			} else {
				parts[i] = fmt.Sprintf("%d", set.Reps)
			}
		}
		return fmt.Sprintf("%-24s %s", truncateName(ex.Name, 24), strings.Join(parts, ", "))
	}
	return truncateName(ex.Name, 24)
}
