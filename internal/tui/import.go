package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"workouttracker/internal/service"
)

// ImportModel is the import screen model
type ImportModel struct {
	importService *service.ImportService

	path     textinput.Model
	editing  bool
	running  bool
	progress service.ImportProgress
	updates  chan service.ImportProgress

	result *service.ImportResult
	err    error
	done   bool
}

// NewImportModel creates a new import model. defaultPath prefills the prompt.
func NewImportModel(is *service.ImportService, defaultPath string) ImportModel {
	ti := textinput.New()
	ti.Placeholder = "path to activities.json"
	ti.CharLimit = 512
	ti.Width = 56
	ti.SetValue(defaultPath)

	return ImportModel{
		importService: is,
		path:          ti,
	}
}

// Capturing reports whether key presses are going to the path prompt
func (m ImportModel) Capturing() bool {
	return m.editing
}

// Busy reports whether an import is in flight
func (m ImportModel) Busy() bool {
	return m.running
}

// Init initializes the import screen
func (m ImportModel) Init() tea.Cmd {
	return nil
}

// ImportDoneMsg is sent when an import finishes
type ImportDoneMsg struct {
	Result *service.ImportResult
	Err    error
}

type importProgressMsg struct {
	progress service.ImportProgress
	ok       bool
}

// Update handles messages
func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case importProgressMsg:
		if !msg.ok {
			return m, nil
		}
		m.progress = msg.progress
		return m, waitForProgress(m.updates)

	case ImportDoneMsg:
		m.running = false
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, func() tea.Msg { return ImportCompleteMsg{} }

	case tea.KeyMsg:
		if m.editing {
			return m.updatePath(msg)
		}
		if m.running {
			return m, nil
		}
		switch msg.String() {
		case "e", "/":
			m.editing = true
			return m, m.path.Focus()
		case "enter", "i":
			return m.start()
		}
	}
	return m, nil
}

func (m ImportModel) updatePath(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		m.path.Blur()
		return m.start()
	case "esc":
		m.editing = false
		m.path.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

func (m ImportModel) start() (tea.Model, tea.Cmd) {
	path := expandHome(strings.TrimSpace(m.path.Value()))
	if path == "" {
		m.err = fmt.Errorf("enter the path of an activity export first")
		m.done = false
		return m, nil
	}

	m.running = true
	m.done = false
	m.err = nil
	m.result = nil
	m.progress = service.ImportProgress{}
	m.updates = make(chan service.ImportProgress, 16)

	return m, tea.Batch(m.runImport(path, m.updates), waitForProgress(m.updates))
}

func (m ImportModel) runImport(path string, updates chan service.ImportProgress) tea.Cmd {
	return func() tea.Msg {
		result, err := m.importService.ImportFile(context.Background(), path, updates)
		return ImportDoneMsg{Result: result, Err: err}
	}
}

func waitForProgress(updates <-chan service.ImportProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-updates
		return importProgressMsg{progress: p, ok: ok}
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// View renders the import screen
func (m ImportModel) View() string {
	var sections []string

	sections = append(sections, cardTitleStyle.Render("Import Activities"))
	sections = append(sections, "", "  File: "+m.path.View())

	switch {
	case m.running:
		sections = append(sections, m.renderProgress())
	case m.err != nil:
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, m.renderSummary())
		sections = append(sections, "\n"+statusStyle.Render("  Press 'e' to change the path or Enter to retry"))
	case m.done:
		sections = append(sections, successStyle.Render("\n  Import complete!"))
		sections = append(sections, m.renderSummary())
		sections = append(sections, "\n"+statusStyle.Render("  Press '1' to go home"))
	default:
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ImportModel) renderStartPrompt() string {
	lines := []string{
		"",
		"  Reads a Strava activity export (a JSON array of activities)",
		"  and adds every activity not already logged as a workout.",
		"",
	}
	if m.editing {
		lines = append(lines, statusStyle.Render("  enter: import  esc: cancel"))
	} else {
		lines = append(lines, statusStyle.Render("  Press 'e' to edit the path, Enter to import"))
	}
	return strings.Join(lines, "\n")
}

func (m ImportModel) renderProgress() string {
	p := m.progress
	lines := []string{""}

	switch p.Phase {
	case service.PhaseStoring:
		fraction := 0.0
		if p.Total > 0 {
			fraction = float64(p.Completed) / float64(p.Total)
		}
		lines = append(lines, fmt.Sprintf("  Storing workouts %s %s/%s",
			RenderProgressBar(fraction, 30), formatCount(p.Completed), formatCount(p.Total)))
	case service.PhaseReading:
		lines = append(lines, fmt.Sprintf("  Reading activities... %s so far", formatCount(p.Completed)))
	default:
		lines = append(lines, "  Opening export...")
	}

	lines = append(lines, "", statusStyle.Render("  This may take a moment..."))
	return strings.Join(lines, "\n")
}

func (m ImportModel) renderSummary() string {
	if m.result == nil {
		return ""
	}

	r := m.result
	lines := []string{""}

	if r.Stored > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %s workouts added", formatCount(r.Stored))))
	} else if r.ActivitiesRead > 0 {
		lines = append(lines, statusStyle.Render("  No new workouts"))
	}

	if r.Duplicates > 0 {
		lines = append(lines, statusStyle.Render(fmt.Sprintf("  %s already logged", formatCount(r.Duplicates))))
	}
	if r.TotalWorkouts > 0 {
		lines = append(lines, helpDescStyle.Render(fmt.Sprintf("  %s workouts in total", formatCount(r.TotalWorkouts))))
	}

	if len(r.Errors) > 0 {
		lines = append(lines, "")
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d errors occurred", len(r.Errors))))
		for i, err := range r.Errors {
			if i == 3 {
				lines = append(lines, warningStyle.Render(fmt.Sprintf("    … and %d more", len(r.Errors)-3)))
				break
			}
			lines = append(lines, warningStyle.Render("    "+err.Error()))
		}
	}

	return strings.Join(lines, "\n")
}
