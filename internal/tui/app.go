package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"workouttracker/internal/config"
	"workouttracker/internal/service"
)

// Screen identifiers
type Screen int

const (
	ScreenHome Screen = iota
	ScreenHistory
	ScreenPlans
	ScreenImport
	ScreenHelp
)

// Services bundles what the screens read from and write to
type Services struct {
	Query  *service.QueryService
	Plans  *service.PlanService
	Import *service.ImportService
}

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	home        HomeModel
	history     HistoryModel
	plans       PlansModel
	importModel ImportModel
	help        HelpModel

	services Services
	display  config.DisplayConfig

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App with all dependencies. importPath prefills the
// import prompt.
func NewApp(services Services, display config.DisplayConfig, importPath string) *App {
	return &App{
		screen:      ScreenHome,
		services:    services,
		display:     display,
		home:        NewHomeModel(services.Query),
		history:     NewHistoryModel(services.Query, display.DefaultType, display.HeatmapMonths, 0, 0),
		plans:       NewPlansModel(services.Plans),
		importModel: NewImportModel(services.Import, importPath),
		help:        NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.home.Init()
}

// capturing reports whether the current screen owns the keyboard, so global
// keys must not be interpreted
func (a *App) capturing() bool {
	switch a.screen {
	case ScreenHistory:
		return a.history.Capturing()
	case ScreenImport:
		return a.importModel.Capturing() || a.importModel.Busy()
	}
	return false
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.capturing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				a.screen = ScreenHome
				a.home = NewHomeModel(a.services.Query)
				return a, a.home.Init()
			case "2":
				a.screen = ScreenHistory
				return a, a.history.Init()
			case "3":
				a.screen = ScreenPlans
				return a, a.plans.Init()
			case "4":
				a.screen = ScreenImport
				return a, a.importModel.Init()
			case "?":
				if a.screen != ScreenHelp {
					a.prevScreen = a.screen
					a.screen = ScreenHelp
				}
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// The history viewport sizes itself even while hidden
		m, cmd := a.history.Update(msg)
		a.history = m.(HistoryModel)
		if a.screen == ScreenHistory {
			return a, cmd
		}

	case ImportCompleteMsg:
		a.status = "Import finished"
		a.history = NewHistoryModel(a.services.Query, a.display.DefaultType, a.display.HeatmapMonths, a.width, a.height)
		return a, nil
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenHome:
		var m tea.Model
		m, cmd = a.home.Update(msg)
		a.home = m.(HomeModel)
	case ScreenHistory:
		var m tea.Model
		m, cmd = a.history.Update(msg)
		a.history = m.(HistoryModel)
	case ScreenPlans:
		var m tea.Model
		m, cmd = a.plans.Update(msg)
		a.plans = m.(PlansModel)
	case ScreenImport:
		var m tea.Model
		m, cmd = a.importModel.Update(msg)
		a.importModel = m.(ImportModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenHome:
		content = a.home.View()
	case ScreenHistory:
		content = a.history.View()
	case ScreenPlans:
		content = a.plans.View()
	case ScreenImport:
		content = a.importModel.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("Workout Tracker")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Home", ScreenHome},
		{"2", "History", ScreenHistory},
		{"3", "Plans", ScreenPlans},
		{"4", "Import", ScreenImport},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}

// ImportCompleteMsg is sent when an import finishes
type ImportCompleteMsg struct{}
