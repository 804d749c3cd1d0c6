package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"workouttracker/internal/analysis"
	"workouttracker/internal/calendar"
)

// dirName is the per-user directory holding config, database and logs
const dirName = ".workouttracker"

// Config represents the application configuration
type Config struct {
	Calendar CalendarConfig `json:"calendar"`
	Data     DataConfig     `json:"data"`
	Logging  LoggingConfig  `json:"logging"`
	Athlete  AthleteConfig  `json:"athlete"`
	Display  DisplayConfig  `json:"display"`
}

// CalendarConfig controls how workouts are bucketed into days
type CalendarConfig struct {
	Timezone string `json:"timezone"` // IANA name; "" or "Local" for the system zone
}

// DataConfig holds storage locations
type DataConfig struct {
	Dir string `json:"dir"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	File   string `json:"file"`
	Level  string `json:"level"`
	JSON   bool   `json:"json"`
	Stdout bool   `json:"stdout"`
}

// AthleteConfig holds athlete-specific settings used for training load
type AthleteConfig struct {
	RestingHR float64 `json:"resting_hr"`
	MaxHR     float64 `json:"max_hr"`
}

// Zones returns the heart rate zones for training load
func (a AthleteConfig) Zones() analysis.HRZones {
	return analysis.HRZones{RestingHR: a.RestingHR, MaxHR: a.MaxHR}
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DefaultType   string `json:"default_type"`
	HeatmapMonths int    `json:"heatmap_months"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	dir, err := GetConfigDir()
	if err != nil {
		dir = dirName
	}
	return Config{
		Calendar: CalendarConfig{
			Timezone: "Local",
		},
		Data: DataConfig{
			Dir: dir,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(dir, "workouttracker.log"),
			Level: "info",
		},
		Athlete: AthleteConfig{
			RestingHR: analysis.DefaultZones().RestingHR,
			MaxHR:     analysis.DefaultZones().MaxHR,
		},
		Display: DisplayConfig{
			DefaultType:   analysis.AllTypesFilter,
			HeatmapMonths: 12,
		},
	}
}

// Load reads the configuration from ~/.workouttracker/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration at path and fills in defaults
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills missing values from DefaultConfig
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Calendar.Timezone == "" {
		c.Calendar.Timezone = defaults.Calendar.Timezone
	}
	if c.Data.Dir == "" {
		c.Data.Dir = defaults.Data.Dir
	}
	if c.Logging.File == "" {
		c.Logging.File = filepath.Join(c.Data.Dir, "workouttracker.log")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Athlete.RestingHR == 0 {
		c.Athlete.RestingHR = defaults.Athlete.RestingHR
	}
	if c.Athlete.MaxHR == 0 {
		c.Athlete.MaxHR = defaults.Athlete.MaxHR
	}
	if c.Display.DefaultType == "" {
		c.Display.DefaultType = defaults.Display.DefaultType
	}
	if c.Display.HeatmapMonths == 0 {
		c.Display.HeatmapMonths = defaults.Display.HeatmapMonths
	}
}

// Save writes the configuration to ~/.workouttracker/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the configuration to path, creating its directory
func SaveTo(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	return Save(&example)
}

// Validate checks that every setting is usable
func (c *Config) Validate() error {
	if _, err := calendar.Load(c.Calendar.Timezone); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}

	if c.Logging.Level != "" {
		if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error, fatal, got %q", c.Logging.Level)
		}
	}

	if c.Athlete.MaxHR <= c.Athlete.RestingHR {
		return fmt.Errorf("athlete.max_hr (%.0f) must be above athlete.resting_hr (%.0f)", c.Athlete.MaxHR, c.Athlete.RestingHR)
	}

	if t := c.Display.DefaultType; t != "" && !strings.EqualFold(t, analysis.AllTypesFilter) {
		if _, ok := analysis.ParseWorkoutType(t); !ok {
			return fmt.Errorf("display.default_type must be %q or a workout type, got %q", analysis.AllTypesFilter, t)
		}
	}

	if c.Display.HeatmapMonths < 0 || c.Display.HeatmapMonths > 12 {
		return fmt.Errorf("display.heatmap_months must be between 1 and 12, got %d", c.Display.HeatmapMonths)
	}

	return nil
}

// LoadCalendar returns the calendar for the configured time zone
func (c *Config) LoadCalendar() (calendar.Calendar, error) {
	return calendar.Load(c.Calendar.Timezone)
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}
