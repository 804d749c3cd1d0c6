package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// ErrNotAnArray is returned when an export does not hold a JSON array
var ErrNotAnArray = errors.New("activity export must be a JSON array")

// progressEvery is how many activities are decoded between progress callbacks
const progressEvery = 100

// ReadActivities decodes a JSON array of activities one element at a time.
// Activities starting before after are dropped; a zero after keeps everything.
// onProgress, when set, receives the running count of decoded activities.
func ReadActivities(ctx context.Context, r io.Reader, after time.Time, onProgress func(read int)) ([]Activity, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, ErrNotAnArray
	}

	var activities []Activity
	read := 0
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return activities, err
		}

		var a Activity
		if err := dec.Decode(&a); err != nil {
			return activities, fmt.Errorf("decoding activity %d: %w", read+1, err)
		}
		read++

		if after.IsZero() || a.StartDate == nil || a.StartDate.After(after) {
			activities = append(activities, a)
		}

		if onProgress != nil && read%progressEvery == 0 {
			onProgress(read)
		}
	}

	if _, err := dec.Token(); err != nil {
		return activities, fmt.Errorf("reading export: %w", err)
	}
	if onProgress != nil && read%progressEvery != 0 {
		onProgress(read)
	}
	return activities, nil
}

// ReadActivitiesFile opens path and reads every activity in it
func ReadActivitiesFile(ctx context.Context, path string, after time.Time, onProgress func(read int)) ([]Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	return ReadActivities(ctx, f, after, onProgress)
}
