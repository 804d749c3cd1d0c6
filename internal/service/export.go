package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"workouttracker/internal/store"
)

// ExportService writes every workout out in a portable format
type ExportService struct {
	store *store.Store
}

// NewExportService creates a new export service
func NewExportService(store *store.Store) *ExportService {
	return &ExportService{store: store}
}

var csvHeader = []string{"id", "date", "type", "duration_minutes", "calories", "heart_rate", "tags", "notes"}

// Export writes all workouts to w as "json" or "csv" and returns how many
// were written.
func (s *ExportService) Export(ctx context.Context, w io.Writer, format string) (int, error) {
	workouts, err := s.store.ListWorkouts(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading workouts: %w", err)
	}

	switch strings.ToLower(format) {
	case FormatJSON:
		return len(workouts), writeJSON(w, workouts)
	case FormatCSV:
		return len(workouts), writeCSV(w, workouts)
	default:
		return 0, fmt.Errorf("unsupported export format %q (want json or csv)", format)
	}
}

func writeJSON(w io.Writer, workouts []store.Workout) error {
	if workouts == nil {
		workouts = []store.Workout{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(workouts); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, workouts []store.Workout) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, wo := range workouts {
		date := ""
		if wo.Date != nil {
			date = wo.Date.UTC().Format(time.RFC3339)
		}
		record := []string{
			wo.ID,
			date,
			wo.Type,
			strconv.FormatFloat(wo.DurationMinutes, 'f', -1, 64),
			strconv.FormatFloat(wo.Calories, 'f', -1, 64),
			strconv.FormatFloat(wo.HeartRate, 'f', -1, 64),
			strings.Join(wo.Tags, ";"),
			wo.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing workout %s: %w", wo.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
