package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"ridecoach/internal/analysis"
	"ridecoach/internal/store"
)

// ErrCatalogExhausted means there is no workout at all to choose from
var ErrCatalogExhausted = errors.New("catalog: no workouts available")

const (
	durationTolerance      = 15 // minutes
	widerDurationTolerance = 30
)

// Source lists the stored catalog
type Source interface {
	ListWorkouts(ctx context.Context) ([]store.Workout, error)
}

// Matcher picks catalog workouts for planned sessions
type Matcher struct {
	source   Source
	fallback []store.Workout
}

// NewMatcher creates a Matcher over source. The built-in catalog is used
// whenever source is empty.
func NewMatcher(source Source) *Matcher {
	return &Matcher{source: source, fallback: Fallback}
}

// relatedCategories are tried when the exact category has nothing near the duration
var relatedCategories = map[analysis.Category][]analysis.Category{
	analysis.Recovery:  {analysis.Recovery, analysis.Endurance},
	analysis.Endurance: {analysis.Endurance, analysis.Tempo, analysis.Recovery},
	analysis.Tempo:     {analysis.Tempo, analysis.Threshold, analysis.Endurance},
	analysis.Threshold: {analysis.Threshold, analysis.Tempo, analysis.VO2Max},
	analysis.VO2Max:    {analysis.VO2Max, analysis.Threshold, analysis.Mixed},
	analysis.Mixed:     {analysis.Mixed, analysis.Threshold, analysis.Tempo},
}

func related(c analysis.Category) []analysis.Category {
	if r, ok := relatedCategories[c]; ok {
		return r
	}
	return []analysis.Category{c}
}

// Workouts returns the stored catalog, or the built-in one when nothing is stored
func (m *Matcher) Workouts(ctx context.Context) ([]store.Workout, error) {
	workouts, err := m.source.ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	if len(workouts) == 0 {
		log.Debug("workout catalog is empty, using built-in workouts")
		return m.fallback, nil
	}
	return workouts, nil
}

// FindBestMatch returns the workout closest to the requested session.
// The search widens step by step until some candidate exists:
//
//  1. same category within ±15 minutes
//  2. related categories within ±15 minutes
//  3. same category within ±30 minutes
//  4. same category at any duration
//  5. the whole catalog
//
// Candidates are ranked by |Δduration| + |Δstress|; ties keep catalog order.
func (m *Matcher) FindBestMatch(ctx context.Context, category analysis.Category, durationMinutes, targetStress int) (store.Workout, error) {
	workouts, err := m.Workouts(ctx)
	if err != nil {
		return store.Workout{}, err
	}
	if len(workouts) == 0 {
		return store.Workout{}, ErrCatalogExhausted
	}

	within := func(tolerance int) func(store.Workout) bool {
		return func(w store.Workout) bool { return abs(w.DurationMinutes-durationMinutes) <= tolerance }
	}
	inCategories := func(cats ...analysis.Category) func(store.Workout) bool {
		return func(w store.Workout) bool {
			return slices.ContainsFunc(cats, func(c analysis.Category) bool {
				return strings.EqualFold(w.Category, string(c))
			})
		}
	}
	anyDuration := func(store.Workout) bool { return true }

	steps := []struct {
		category func(store.Workout) bool
		duration func(store.Workout) bool
	}{
		{inCategories(category), within(durationTolerance)},
		{inCategories(related(category)...), within(durationTolerance)},
		{inCategories(category), within(widerDurationTolerance)},
		{inCategories(category), anyDuration},
		{anyDuration, anyDuration},
	}

	for i, step := range steps {
		var candidates []store.Workout
		for _, w := range workouts {
			if step.category(w) && step.duration(w) {
				candidates = append(candidates, w)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		if i == len(steps)-1 {
			log.WithField("category", category).Warn("no workouts for category, matching across the whole catalog")
		}
		return closest(candidates, durationMinutes, targetStress), nil
	}

	return store.Workout{}, ErrCatalogExhausted
}

func closest(candidates []store.Workout, durationMinutes, targetStress int) store.Workout {
	best, bestScore := candidates[0], matchScore(candidates[0], durationMinutes, targetStress)
	for _, w := range candidates[1:] {
		if s := matchScore(w, durationMinutes, targetStress); s < bestScore {
			best, bestScore = w, s
		}
	}
	return best
}

func matchScore(w store.Workout, durationMinutes, targetStress int) int {
	return abs(w.DurationMinutes-durationMinutes) + abs(w.Stress-targetStress)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
