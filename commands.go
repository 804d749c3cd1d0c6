package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"workouttracker/internal/analysis"
	"workouttracker/internal/calendar"
	"workouttracker/internal/plan"
	"workouttracker/internal/service"
	"workouttracker/internal/store"
)

// dateLayouts are tried in order when parsing --date
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDate reads s in the calendar's zone. Empty means now.
func parseDate(cal calendar.Calendar, s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, cal.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q (want YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC 3339)", s)
}

func newAddCmd(configPath *string) *cobra.Command {
	var in service.WorkoutInput
	var date string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a workout",
		Example: `  workouttracker add --type Strength --duration 45 --tags gym,push
  workouttracker add --type Yoga --duration 30 --date "2024-03-10 07:30"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			in.Date, err = parseDate(a.cal, date, time.Now())
			if err != nil {
				return err
			}

			w, err := service.NewWorkoutService(a.store).Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s workout %s on %s\n",
				w.Type, w.ID, w.Date.In(a.cal.Location()).Format("Mon Jan 2 2006 15:04"))
			return nil
		},
	}

	types := make([]string, 0, len(analysis.AllWorkoutTypes()))
	for _, t := range analysis.AllWorkoutTypes() {
		types = append(types, string(t))
	}

	cmd.Flags().StringVar(&in.Type, "type", "", "workout type: "+strings.Join(types, "|"))
	cmd.Flags().Float64Var(&in.DurationMinutes, "duration", 0, "duration in minutes")
	cmd.Flags().StringVar(&date, "date", "", "when the workout started (default now)")
	cmd.Flags().Float64Var(&in.Calories, "calories", 0, "energy burned in kcal")
	cmd.Flags().Float64Var(&in.HeartRate, "heart-rate", 0, "average heart rate in bpm")
	cmd.Flags().StringSliceVar(&in.Tags, "tags", nil, "tags")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newDeleteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <workout-id>",
		Short: "Delete a logged workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ws := service.NewWorkoutService(a.store)
			w, err := ws.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := ws.Delete(cmd.Context(), w.ID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s workout %s\n", w.Type, w.ID)
			return nil
		},
	}
}

func newEditCmd(configPath *string) *cobra.Command {
	var edit service.WorkoutInput
	var date string

	cmd := &cobra.Command{
		Use:     "edit <workout-id>",
		Short:   "Change fields of a logged workout",
		Example: `  workouttracker edit 3f2a... --duration 50 --notes "felt strong"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ws := service.NewWorkoutService(a.store)
			w, err := ws.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			in := service.InputFrom(*w)
			flags := cmd.Flags()
			if flags.Changed("type") {
				in.Type = edit.Type
			}
			if flags.Changed("date") {
				if in.Date, err = parseDate(a.cal, date, time.Now()); err != nil {
					return err
				}
			}
			if flags.Changed("duration") {
				in.DurationMinutes = edit.DurationMinutes
			}
			if flags.Changed("calories") {
				in.Calories = edit.Calories
			}
			if flags.Changed("heart-rate") {
				in.HeartRate = edit.HeartRate
			}
			if flags.Changed("tags") {
				in.Tags = edit.Tags
			}
			if flags.Changed("notes") {
				in.Notes = edit.Notes
			}

			updated, err := ws.Update(cmd.Context(), w.ID, in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s workout %s on %s\n",
				updated.Type, updated.ID, updated.Date.In(a.cal.Location()).Format("Mon Jan 2 2006 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&edit.Type, "type", "", "workout type")
	cmd.Flags().Float64Var(&edit.DurationMinutes, "duration", 0, "duration in minutes")
	cmd.Flags().StringVar(&date, "date", "", "when the workout started")
	cmd.Flags().Float64Var(&edit.Calories, "calories", 0, "energy burned in kcal")
	cmd.Flags().Float64Var(&edit.HeartRate, "heart-rate", 0, "average heart rate in bpm")
	cmd.Flags().StringSliceVar(&edit.Tags, "tags", nil, "tags, replacing the current ones")
	cmd.Flags().StringVar(&edit.Notes, "notes", "", "free-form notes")
	return cmd
}

func newStatsCmd(configPath *string) *cobra.Command {
	var filter analysis.Filter
	var chart bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print statistics for a year",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := a.queryService().GetHistory(cmd.Context(), filter)
			if err != nil {
				return err
			}
			printSummary(cmd, data, chart)
			return nil
		},
	}

	cmd.Flags().IntVar(&filter.Year, "year", 0, "calendar year (default current year)")
	cmd.Flags().StringVar(&filter.Type, "type", analysis.AllTypesFilter, "workout type or tag")
	cmd.Flags().StringVar(&filter.Search, "search", "", "only workouts whose type, notes or tags contain this")
	cmd.Flags().BoolVar(&chart, "chart", false, "plot workouts per month")
	return cmd
}

func printSummary(cmd *cobra.Command, data *service.HistoryData, chart bool) {
	out := cmd.OutOrStdout()
	s := data.Summary

	var scope []string
	if t := data.Filter.Type; t != "" && !strings.EqualFold(t, analysis.AllTypesFilter) {
		scope = append(scope, "type "+t)
	}
	if data.Filter.Search != "" {
		scope = append(scope, fmt.Sprintf("search %q", data.Filter.Search))
	}
	if len(scope) > 0 {
		_, _ = fmt.Fprintf(out, "%d (%s)\n", s.Year, strings.Join(scope, ", "))
	} else {
		_, _ = fmt.Fprintf(out, "%d\n", s.Year)
	}

	_, _ = fmt.Fprintf(out, "  workouts        %s\n", humanize.Comma(int64(s.Total)))
	_, _ = fmt.Fprintf(out, "  active days     %s (%.1f%%)\n", humanize.Comma(int64(s.ActiveDays)), s.CompletionPct)
	_, _ = fmt.Fprintf(out, "  per week        %.1f\n", s.AveragePerWeek)
	_, _ = fmt.Fprintf(out, "  current streak  %d\n", s.CurrentStreak)
	_, _ = fmt.Fprintf(out, "  total time      %s min\n", humanize.Comma(int64(s.TotalMinutes+0.5)))
	if s.TotalCalories > 0 {
		_, _ = fmt.Fprintf(out, "  calories        %s kcal\n", humanize.Comma(int64(s.TotalCalories+0.5)))
	}

	_, _ = fmt.Fprintln(out, "\nDays by workouts")
	_, _ = fmt.Fprintf(out, "  none            %d\n", s.DailyFrequency[analysis.FrequencyNone])
	_, _ = fmt.Fprintf(out, "  one             %d\n", s.DailyFrequency[analysis.FrequencyOne])
	_, _ = fmt.Fprintf(out, "  two or more     %d\n", s.DailyFrequency[analysis.FrequencyTwoOrMore])

	if len(s.TypeBreakdown) > 0 {
		labels := make([]string, 0, len(s.TypeBreakdown))
		for label := range s.TypeBreakdown {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		_, _ = fmt.Fprintln(out, "\nBy type")
		for _, label := range labels {
			_, _ = fmt.Fprintf(out, "  %-15s %d\n", label, s.TypeBreakdown[label])
		}
	}

	if chart && s.Total > 0 {
		series := make([]float64, len(s.MonthlyCounts))
		for i, c := range s.MonthlyCounts {
			series[i] = float64(c)
		}
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, asciigraph.Plot(series,
			asciigraph.Height(8),
			asciigraph.Precision(0),
			asciigraph.Caption("workouts per month, Jan to Dec")))
	}

	if len(data.Years) > 0 {
		years := make([]string, len(data.Years))
		for i, y := range data.Years {
			years[i] = strconv.Itoa(y)
		}
		_, _ = fmt.Fprintf(out, "\nyears with workouts: %s\n", strings.Join(years, ", "))
	}
}

func newImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a Strava activity export (JSON array)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := service.NewImportService(a.store).ImportFile(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "read %s activities: %s added, %s already logged, %s workouts in total\n",
				humanize.Comma(int64(result.ActivitiesRead)),
				humanize.Comma(int64(result.Stored)),
				humanize.Comma(int64(result.Duplicates)),
				humanize.Comma(int64(result.TotalWorkouts)))
			for _, e := range result.Errors {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", e)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d activities could not be stored", len(result.Errors))
			}
			return nil
		},
	}
}

func newExportCmd(configPath *string) *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every workout as JSON or CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}

			n, err := service.NewExportService(a.store).Export(cmd.Context(), w, format)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{"format": format, "count": n}).Info("exported workouts")
			if outPath != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s workouts to %s\n", humanize.Comma(int64(n)), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", service.FormatJSON, "output format: json|csv")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	return cmd
}

func newPlanCmd(configPath *string) *cobra.Command {
	planCmd := &cobra.Command{Use: "plan", Short: "Manage workout plans"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List plans with their days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			plans, err := service.NewPlanService(a.store).ListPlans(cmd.Context())
			if err != nil {
				return err
			}
			printPlans(cmd.OutOrStdout(), plans)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <day-id>",
		Short: "Show a day's exercises grouped into circuits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			groups, err := service.NewPlanService(a.store).DayGroups(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printGroups(cmd, groups)
			return nil
		},
	}

	moveCmd := &cobra.Command{
		Use:   "move <day-id> <from> <to>",
		Short: "Move an exercise or circuit to a new position and save the order",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid from position %q", args[1])
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid to position %q", args[2])
			}

			a, err := openApp(cmd, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			groups, err := service.NewPlanService(a.store).MoveGroup(cmd.Context(), args[0], from, to)
			if err != nil {
				return err
			}
			printGroups(cmd, groups)
			return nil
		},
	}

	createCmd := &cobra.Command{
		Use:   "create <file>",
		Short: "Create a plan from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPlanFile(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := service.NewPlanService(a.store).CreatePlan(cmd.Context(), p); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created plan %s with %d days\n", p.ID, len(p.Days))
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <plan-id>",
		Short: "Delete a plan with all of its days and exercises",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := service.NewPlanService(a.store).DeletePlan(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted plan %s\n", args[0])
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove-exercise <exercise-id>",
		Short: "Remove an exercise from its day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := service.NewPlanService(a.store).RemoveExercise(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed exercise %s\n", args[0])
			return nil
		},
	}

	circuitCmd := &cobra.Command{
		Use:   `set-circuit <exercise-id> <name|new|"">`,
		Short: "Move an exercise into a circuit, or out of one with an empty name",
		Example: `  workouttracker plan set-circuit 3f2a... "Circuit 2"
  workouttracker plan set-circuit 3f2a... new
  workouttracker plan set-circuit 3f2a... ""`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ps := service.NewPlanService(a.store)
			ex, err := ps.SetCircuit(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			groups, err := ps.DayGroups(cmd.Context(), ex.DayID)
			if err != nil {
				return err
			}
			printGroups(cmd, groups)
			return nil
		},
	}

	planCmd.AddCommand(listCmd, showCmd, moveCmd, createCmd, deleteCmd,
		newAddExerciseCmd(configPath), removeCmd, circuitCmd)
	return planCmd
}

func newAddExerciseCmd(configPath *string) *cobra.Command {
	var in service.ExerciseInput
	var reps []int
	var seconds []int
	var weight float64

	cmd := &cobra.Command{
		Use:   "add-exercise <day-id>",
		Short: "Append an exercise to a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, *configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ps := service.NewPlanService(a.store)
			for _, r := range reps {
				in.Sets = append(in.Sets, store.ExerciseSet{Reps: r, Weight: weight})
			}
			for _, s := range seconds {
				in.Durations = append(in.Durations, store.ExerciseDuration{Seconds: s})
			}
			if len(in.Durations) > 0 && in.Type == "" {
				in.Type = store.ExerciseTypeDuration
			}

			ex, err := ps.AddExercise(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			where := "standalone"
			if ex.InCircuit() {
				where = "in " + ex.CircuitName
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s at position %d, %s\n", ex.Name, ex.OrderIndex, where)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "exercise name")
	cmd.Flags().StringVar(&in.Type, "type", "", "sets_reps or duration")
	cmd.Flags().StringVar(&in.CircuitName, "circuit", "", `circuit to join, or "`+service.NewCircuit+`" for the next free circuit`)
	cmd.Flags().StringVar(&in.Notes, "notes", "", "notes")
	cmd.Flags().IntSliceVar(&reps, "reps", nil, "reps per set")
	cmd.Flags().Float64Var(&weight, "weight", 0, "weight for every set")
	cmd.Flags().IntSliceVar(&seconds, "seconds", nil, "seconds per timed block")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// printPlans lists plans with their days. Only structured strength plans have
// days worth drilling into.
func printPlans(out io.Writer, plans []store.Plan) {
	if len(plans) == 0 {
		_, _ = fmt.Fprintln(out, "no plans")
		return
	}
	for _, p := range plans {
		_, _ = fmt.Fprintf(out, "%s  %s (%s)\n", p.ID, p.Name, p.Type)
		if !p.IsStructuredStrength() {
			_, _ = fmt.Fprintf(out, "    %d days, not a structured strength plan\n", len(p.Days))
			continue
		}
		for _, d := range p.Days {
			_, _ = fmt.Fprintf(out, "    day %s  %s, %d exercises\n", d.ID, d.Name, len(d.Exercises))
		}
	}
}

func printGroups(cmd *cobra.Command, groups []plan.Group) {
	out := cmd.OutOrStdout()
	if len(groups) == 0 {
		_, _ = fmt.Fprintln(out, "no exercises")
		return
	}
	for i, g := range groups {
		if g.IsCircuit() {
			_, _ = fmt.Fprintf(out, "%2d  %s\n", i, g.Circuit)
			for _, ex := range g.Exercises {
				_, _ = fmt.Fprintf(out, "      %s\n", ex.Name)
			}
			continue
		}
		_, _ = fmt.Fprintf(out, "%2d  %s\n", i, g.Exercises[0].Name)
	}
}

// planFile is the on-disk shape accepted by "plan create"
type planFile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Days        []struct {
		Name      string `json:"name"`
		Exercises []struct {
			Name    string    `json:"name"`
			Type    string    `json:"type"`
			Circuit string    `json:"circuit"`
			Notes   string    `json:"notes"`
			Reps    []int     `json:"reps"`
			Weights []float64 `json:"weights"`
			Seconds []int     `json:"seconds"`
		} `json:"exercises"`
	} `json:"days"`
}

func readPlanFile(path string) (*store.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}

	var pf planFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}

	p := &store.Plan{Name: pf.Name, Description: pf.Description, Type: pf.Type}
	for _, d := range pf.Days {
		day := store.Day{Name: d.Name}
		for _, e := range d.Exercises {
			ex := store.Exercise{
				Name:         e.Name,
				ExerciseType: e.Type,
				CircuitName:  e.Circuit,
				Notes:        e.Notes,
			}
			for i, r := range e.Reps {
				set := store.ExerciseSet{Reps: r}
				if i < len(e.Weights) {
					set.Weight = e.Weights[i]
				}
				ex.Sets = append(ex.Sets, set)
			}
			for _, s := range e.Seconds {
				ex.Durations = append(ex.Durations, store.ExerciseDuration{Seconds: s})
			}
			if ex.ExerciseType == "" {
				ex.ExerciseType = store.ExerciseTypeSetsReps
				if len(ex.Durations) > 0 {
					ex.ExerciseType = store.ExerciseTypeDuration
				}
			}
			day.Exercises = append(day.Exercises, ex)
		}
		p.Days = append(p.Days, day)
	}
	return p, nil
}
