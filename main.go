package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"workouttracker/internal/calendar"
	"workouttracker/internal/config"
	"workouttracker/internal/logging"
	"workouttracker/internal/service"
	"workouttracker/internal/store"
	"workouttracker/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "workouttracker",
		Short:         "Track workouts, streaks and training plans",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.workouttracker/config.json)")

	root.AddCommand(newTUICmd(&configPath))
	root.AddCommand(newAddCmd(&configPath))
	root.AddCommand(newEditCmd(&configPath))
	root.AddCommand(newDeleteCmd(&configPath))
	root.AddCommand(newStatsCmd(&configPath))
	root.AddCommand(newImportCmd(&configPath))
	root.AddCommand(newExportCmd(&configPath))
	root.AddCommand(newPlanCmd(&configPath))
	return root
}

// app holds everything a command needs once config, logging and the
// database are up
type app struct {
	cfg   *config.Config
	cal   calendar.Calendar
	store *store.Store
	logs  io.Closer
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logrus.WithError(err).Warn("closing database")
	}
	_ = a.logs.Close()
}

func (a *app) queryService() *service.QueryService {
	return service.NewQueryService(a.store, a.cal).WithZones(a.cfg.Athlete.Zones())
}

// loadConfig reads the config file, creating an example one on first run
func loadConfig(cmd *cobra.Command, configPath string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
		if errors.Is(err, config.ErrNoConfig) {
			if err := config.CreateExample(); err != nil {
				return nil, fmt.Errorf("creating example config: %w", err)
			}
			configDir, _ := config.GetConfigDir()
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Created default config at %s/config.json\n", configDir)
			cfg, err = config.Load()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openApp loads config, starts logging and opens the database. interactive
// keeps log output off the terminal.
func openApp(cmd *cobra.Command, configPath string, interactive bool) (*app, error) {
	cfg, err := loadConfig(cmd, configPath)
	if err != nil {
		return nil, err
	}

	logs := logging.Setup(logging.Params{
		FileName:   cfg.Logging.File,
		ToStdout:   cfg.Logging.Stdout && !interactive,
		Level:      cfg.Logging.Level,
		FormatJSON: cfg.Logging.JSON,
	})

	cal, err := cfg.LoadCalendar()
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("loading time zone: %w", err)
	}

	db, err := store.Open(cfg.Data.Dir)
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"command":  cmd.Name(),
		"data_dir": cfg.Data.Dir,
		"timezone": cal.Location().String(),
	}).Debug("starting")

	return &app{cfg: cfg, cal: cal, store: db, logs: logs}, nil
}

func runTUI(cmd *cobra.Command, configPath string) error {
	a, err := openApp(cmd, configPath, true)
	if err != nil {
		return err
	}
	defer a.Close()

	importPath, err := a.store.GetState(cmd.Context(), store.StateLastImportSource)
	if err != nil {
		logrus.WithError(err).Warn("reading last import source")
	}

	model := tui.NewApp(tui.Services{
		Query:  a.queryService(),
		Plans:  service.NewPlanService(a.store),
		Import: service.NewImportService(a.store),
	}, a.cfg.Display, importPath)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func newTUICmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, *configPath)
		},
	}
}
