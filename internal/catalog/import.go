package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"ridecoach/internal/analysis"
	"ridecoach/internal/store"
)

// Writer stores catalog workouts
type Writer interface {
	UpsertWorkout(ctx context.Context, w *store.Workout) error
	CountWorkouts(ctx context.Context) (int, error)
}

// ImportResult summarizes a bulk import
type ImportResult struct {
	Imported int
	Failed   int
}

// Seed stores the built-in catalog when the stored catalog is empty.
// It reports how many workouts were written.
func Seed(ctx context.Context, w Writer) (int, error) {
	count, err := w.CountWorkouts(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting workouts: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	for i := range Fallback {
		wk := Fallback[i]
		if err := w.UpsertWorkout(ctx, &wk); err != nil {
			return i, err
		}
	}
	log.WithField("workouts", len(Fallback)).Info("seeded workout catalog")
	return len(Fallback), nil
}

// ImportJSON reads workouts from r and upserts them by URL.
// The input is either a JSON array or an object with a "workouts" array.
// Invalid entries are skipped and reported in the returned error.
func ImportJSON(ctx context.Context, r io.Reader, w Writer) (ImportResult, error) {
	var result ImportResult

	data, err := io.ReadAll(r)
	if err != nil {
		return result, fmt.Errorf("reading workouts: %w", err)
	}

	var workouts []store.Workout
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Workouts []store.Workout `json:"workouts"`
		}
		err = json.Unmarshal(trimmed, &wrapped)
		workouts = wrapped.Workouts
	} else {
		err = json.Unmarshal(trimmed, &workouts)
	}
	if err != nil {
		return result, fmt.Errorf("parsing workouts: %w", err)
	}
	if len(workouts) == 0 {
		return result, errors.New("no workouts in input")
	}

	var errs error
	for i := range workouts {
		wk := &workouts[i]
		if err := normalize(wk); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("workout %d: %w", i, err))
			result.Failed++
			continue
		}
		if err := w.UpsertWorkout(ctx, wk); err != nil {
			errs = multierr.Append(errs, err)
			result.Failed++
			continue
		}
		result.Imported++
	}

	log.WithFields(log.Fields{"imported": result.Imported, "failed": result.Failed}).Info("imported workouts")
	return result, errs
}

// normalize validates a workout and canonicalizes its category name
func normalize(w *store.Workout) error {
	w.Name = strings.TrimSpace(w.Name)
	w.URL = strings.TrimSpace(w.URL)
	switch {
	case w.Name == "":
		return errors.New("missing name")
	case w.URL == "":
		return errors.New("missing url")
	case w.DurationMinutes <= 0:
		return fmt.Errorf("%s: duration must be positive", w.Name)
	case w.Stress < 0:
		return fmt.Errorf("%s: negative stress", w.Name)
	}
	c, ok := analysis.ParseCategory(w.Category)
	if !ok {
		return fmt.Errorf("%s: unknown type %q", w.Name, w.Category)
	}
	w.Category = string(c)
	return nil
}
