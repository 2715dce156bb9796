package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"ridecoach/internal/analysis"
	"ridecoach/internal/metrics"
	"ridecoach/internal/store"
)

// PlanService stores weekly schedules and the workouts recommended for them
type PlanService struct {
	activities ActivityStore
	plans      PlanStore
	recs       RecommendationStore
	engine     *RecommendationEngine
	metrics    *metrics.Manager
	manualFTP  int
	now        func() time.Time

	// serializes the upsert-then-replace sequence
	mu sync.Mutex
}

// NewPlanService creates a plan service. manualFTP overrides the estimate when positive.
func NewPlanService(activities ActivityStore, plans PlanStore, recs RecommendationStore, engine *RecommendationEngine, m *metrics.Manager, manualFTP int) *PlanService {
	if m == nil {
		m = metrics.NewTestManager()
	}
	return &PlanService{
		activities: activities,
		plans:      plans,
		recs:       recs,
		engine:     engine,
		metrics:    m,
		manualFTP:  manualFTP,
		now:        time.Now,
	}
}

// PlannedWeek is a stored weekly plan with its recommendations
type PlannedWeek struct {
	Plan            *store.WeeklyPlan
	Recommendations []store.Recommendation
	Needs           analysis.TrainingNeeds
	Metrics         analysis.TrainingMetrics
}

// ValidateSchedule checks a weekly schedule: one entry per day (at most seven),
// zero for rest days, and exactly sessionCount training days.
// It returns the durations of the training days in order.
func ValidateSchedule(sessionCount int, durations []int) ([]int, error) {
	if sessionCount <= 0 {
		return nil, fmt.Errorf("%w: session count must be positive, got %d", ErrInvalidPlanInput, sessionCount)
	}
	if len(durations) > MaxDaysPerWeek {
		return nil, fmt.Errorf("%w: %d days given, a week has %d", ErrInvalidPlanInput, len(durations), MaxDaysPerWeek)
	}

	var sessions []int
	for i, d := range durations {
		if d < 0 {
			return nil, fmt.Errorf("%w: day %d has negative duration", ErrInvalidPlanInput, i+1)
		}
		if d > 0 {
			sessions = append(sessions, d)
		}
	}
	if len(sessions) != sessionCount {
		return nil, fmt.Errorf("%w: expected %d training sessions but found %d", ErrInvalidPlanInput, sessionCount, len(sessions))
	}
	return sessions, nil
}

// ParseDurations reads a comma-separated list of daily minutes such as
// "60,0,45". Blank entries count as rest days.
func ParseDurations(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: no durations given", ErrInvalidPlanInput)
	}
	parts := strings.Split(s, ",")
	durations := make([]int, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: day %d: %q is not a number of minutes", ErrInvalidPlanInput, i+1, p)
		}
		durations[i] = d
	}
	return durations, nil
}

// SessionCount is the number of training days in durations
func SessionCount(durations []int) int {
	n := 0
	for _, d := range durations {
		if d > 0 {
			n++
		}
	}
	return n
}

// PlanWeek saves the schedule for the week containing weekStart and replaces
// its recommendations with freshly generated ones.
func (s *PlanService) PlanWeek(ctx context.Context, athleteID int64, weekStart time.Time, sessionCount int, durations []int) (*PlannedWeek, error) {
	sessions, err := ValidateSchedule(sessionCount, durations)
	if err != nil {
		return nil, err
	}
	weekStart = analysis.WeekStart(weekStart)
	now := s.now()

	activities, err := s.activities.ListActivitiesSince(ctx, athleteID, now.AddDate(0, 0, -InsightsHistoryDays))
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}
	ftp := s.ftp(activities, now)
	m := analysis.CalculateTrainingMetrics(activities, ftp.Watts(), now)

	generated, err := s.engine.Generate(ctx, m, sessionCount, sessions)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.plans.UpsertWeeklyPlan(ctx, &store.WeeklyPlan{
		AthleteID:        athleteID,
		WeekStart:        weekStart,
		SessionCount:     sessionCount,
		SessionDurations: durations,
	})
	if err != nil {
		return nil, fmt.Errorf("saving weekly plan: %w", err)
	}

	recs := toStoreRecommendations(plan.ID, durations, generated.Sessions)
	if err := s.recs.ReplaceRecommendations(ctx, plan.ID, recs); err != nil {
		return nil, fmt.Errorf("saving recommendations: %w", err)
	}
	s.metrics.CounterRecommendations.Add(float64(len(recs)))

	log.WithFields(log.Fields{
		"athlete_id": athleteID,
		"week_start": weekStart.Format(store.DateLayout),
		"sessions":   sessionCount,
		"ftp":        ftp.Value,
	}).Info("planned week")

	return &PlannedWeek{Plan: plan, Recommendations: recs, Needs: generated.Needs, Metrics: m}, nil
}

// toStoreRecommendations numbers each session by its day of the week (1-7),
// skipping the rest days in durations.
func toStoreRecommendations(planID string, durations []int, sessions []SessionRecommendation) []store.Recommendation {
	var days []int
	for i, d := range durations {
		if d > 0 {
			days = append(days, i+1)
		}
	}

	recs := make([]store.Recommendation, 0, len(sessions))
	for i, s := range sessions {
		recs = append(recs, store.Recommendation{
			WeeklyPlanID:    planID,
			SessionNumber:   days[i],
			Category:        string(s.Category),
			DurationMinutes: s.DurationMinutes,
			TargetStress:    s.TargetStress,
			WorkoutName:     s.Workout.Name,
			WorkoutURL:      s.Workout.URL,
			WorkoutDuration: s.Workout.DurationMinutes,
			WorkoutStress:   s.Workout.Stress,
			Reason:          s.Reason,
		})
	}
	return recs
}

// CurrentRecommendations returns the plan for the week containing weekStart and
// its recommendations. Both are empty when the week has not been planned.
func (s *PlanService) CurrentRecommendations(ctx context.Context, athleteID int64, weekStart time.Time) (*store.WeeklyPlan, []store.Recommendation, error) {
	plan, err := s.plans.FindWeeklyPlan(ctx, athleteID, analysis.WeekStart(weekStart))
	if errors.Is(err, store.ErrPlanNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading weekly plan: %w", err)
	}

	recs, err := s.recs.ListRecommendations(ctx, plan.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading recommendations: %w", err)
	}
	return plan, recs, nil
}

func (s *PlanService) ftp(activities []store.Activity, now time.Time) analysis.FTPEstimate {
	if s.manualFTP > 0 {
		return analysis.ManualFTP(s.manualFTP)
	}
	return analysis.EstimateFTP(activities, now)
}
