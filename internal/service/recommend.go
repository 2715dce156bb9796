package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"ridecoach/internal/analysis"
	"ridecoach/internal/store"
)

// SessionRecommendation is a catalog workout assigned to one planned session
type SessionRecommendation struct {
	SessionNumber   int // 1-based position among the week's training sessions
	Category        analysis.Category
	DurationMinutes int
	TargetStress    int
	Workout         store.Workout
	Reason          string
}

// WeekRecommendations is the output of one planning request
type WeekRecommendations struct {
	Needs    analysis.TrainingNeeds
	Metrics  analysis.TrainingMetrics
	Sessions []SessionRecommendation
}

// RecommendationEngine turns training metrics and a session schedule into workouts
type RecommendationEngine struct {
	matcher CatalogMatcher
}

func NewRecommendationEngine(matcher CatalogMatcher) *RecommendationEngine {
	return &RecommendationEngine{matcher: matcher}
}

// Generate assigns a workout to each of sessionCount sessions.
// durations holds the minutes of each training session, rest days excluded.
func (e *RecommendationEngine) Generate(ctx context.Context, m analysis.TrainingMetrics, sessionCount int, durations []int) (*WeekRecommendations, error) {
	if sessionCount <= 0 {
		return nil, fmt.Errorf("%w: session count must be positive, got %d", ErrInvalidPlanInput, sessionCount)
	}
	if len(durations) != sessionCount {
		return nil, fmt.Errorf("%w: expected %d session durations, got %d", ErrInvalidPlanInput, sessionCount, len(durations))
	}
	for i, d := range durations {
		if d <= 0 {
			return nil, fmt.Errorf("%w: session %d has no duration", ErrInvalidPlanInput, i+1)
		}
	}

	needs := analysis.DetermineTrainingNeeds(m)
	categories := analysis.DistributeCategories(needs, sessionCount, m.LoadRatio)

	out := &WeekRecommendations{Needs: needs, Metrics: m}
	for i, minutes := range durations {
		category := categories[i]
		target := analysis.OptimalStress(m.LoadRatio, minutes)

		workout, err := e.matcher.FindBestMatch(ctx, category, minutes, target)
		if err != nil {
			return nil, fmt.Errorf("matching session %d: %w", i+1, err)
		}

		out.Sessions = append(out.Sessions, SessionRecommendation{
			SessionNumber:   i + 1,
			Category:        category,
			DurationMinutes: minutes,
			TargetStress:    target,
			Workout:         workout,
			Reason:          analysis.SessionRationale(category, i+1, sessionCount, m.LoadRatio),
		})
	}

	log.WithFields(log.Fields{
		"sessions":   sessionCount,
		"primary":    needs.Primary,
		"secondary":  needs.Secondary,
		"load_ratio": m.LoadRatio,
	}).Debug("generated recommendations")

	return out, nil
}
