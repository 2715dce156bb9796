package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"ridecoach/internal/analysis"
	"ridecoach/internal/config"
	"ridecoach/internal/store"
)

// InsightsStore is what the insights view reads
type InsightsStore interface {
	ListActivitiesSince(ctx context.Context, athleteID int64, since time.Time) ([]store.Activity, error)
	LatestWeeklyPlan(ctx context.Context, athleteID int64, t time.Time) (*store.WeeklyPlan, error)
}

// WeekStress is one bar of the weekly stress chart
type WeekStress struct {
	WeekStart time.Time
	Label     string
	Stress    float64
}

// Insights is everything the dashboard shows
type Insights struct {
	AthleteID   int64
	GeneratedAt time.Time

	FTP          analysis.FTPEstimate // manual value when configured
	EstimatedFTP analysis.FTPEstimate
	Load         analysis.LoadSnapshot
	Form         string

	Plan         *store.WeeklyPlan // nil when no week has been planned
	Compliance   analysis.Compliance
	Readiness    analysis.Readiness
	AdaptivePlan analysis.AdaptivePlan
	Summary      string

	Trends             analysis.TrendMetrics
	ZoneMix            analysis.ZoneMix
	Projection         analysis.Projection
	ProjectionHeadline string
	ProjectionMessage  string

	WeeklyStress     []WeekStress
	LoadTrend        []analysis.LoadPoint
	RecentActivities []store.Activity
}

// InsightsService assembles the dashboard from stored activities and plans
type InsightsService struct {
	store     InsightsStore
	defaults  config.PlanConfig
	manualFTP int
	now       func() time.Time
}

// NewInsightsService creates an insights service. defaults shape the adaptive
// plan until the athlete schedules a week.
func NewInsightsService(st InsightsStore, defaults config.PlanConfig, manualFTP int) *InsightsService {
	return &InsightsService{
		store:     st,
		defaults:  defaults,
		manualFTP: manualFTP,
		now:       time.Now,
	}
}

// GetInsights computes fitness, readiness and projections for an athlete
func (s *InsightsService) GetInsights(ctx context.Context, athleteID int64) (*Insights, error) {
	now := s.now()

	activities, err := s.store.ListActivitiesSince(ctx, athleteID, now.AddDate(0, 0, -InsightsHistoryDays))
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	plan, err := s.store.LatestWeeklyPlan(ctx, athleteID, now)
	if errors.Is(err, store.ErrPlanNotFound) {
		plan = nil
	} else if err != nil {
		return nil, fmt.Errorf("loading weekly plan: %w", err)
	}

	in := &Insights{
		AthleteID:    athleteID,
		GeneratedAt:  now,
		EstimatedFTP: analysis.EstimateFTP(activities, now),
		Plan:         plan,
	}
	in.FTP = in.EstimatedFTP
	if s.manualFTP > 0 {
		in.FTP = analysis.ManualFTP(s.manualFTP)
	}
	ftp := in.FTP.Watts()

	history := analysis.ScoreHistory(activities, ftp)
	in.Load = analysis.TrainingLoad(history, now)
	in.Form = analysis.FormDescription(in.Load.Balance)

	actualStress, actualHours := recentVolume(activities, ftp, now)
	sessions, minutes, target := s.defaults.DefaultSessions, s.defaults.DefaultMinutes, s.defaults.DefaultStress
	if plan != nil {
		minutes = plan.PlannedMinutes()
		plannedHours := float64(minutes) / 60
		plannedStress := plannedHours * PlannedStressPerHour
		in.Compliance = analysis.AssessCompliance(plannedStress, actualStress, plannedHours, actualHours)
		sessions, target = plan.SessionCount, int(plannedStress)
	} else {
		in.Compliance = analysis.Compliance{
			ActualStress: actualStress,
			ActualHours:  actualHours,
			Status:       analysis.ComplianceOnTrack,
		}
	}

	in.Readiness = analysis.AssessReadiness(in.Load, in.Compliance)
	in.AdaptivePlan = analysis.GenerateAdaptivePlan(sessions, minutes, in.Readiness, target)
	in.Summary = analysis.Summary(in.FTP, in.Load, in.Readiness)

	in.Trends = analysis.CalculateTrends(activities, ftp, in.Load.Chronic, now)
	// the projection reports the same ramp as the load snapshot
	in.Trends.CTLRampPerWeek = in.Load.Ramp
	in.ZoneMix = analysis.ComputeZoneMix(activities, ftp, now)
	in.Projection = analysis.GenerateProjections(analysis.ProjectionInput{
		CurrentFTP:        in.FTP.Value,
		CurrentChronic:    in.Load.Chronic,
		CurrentBalance:    in.Load.Balance,
		Trends:            in.Trends,
		ZoneMix:           in.ZoneMix,
		RideCount:         in.EstimatedFTP.SampleSize,
		DaysSinceLastRide: analysis.DaysSince(in.EstimatedFTP.LastRideAt, now),
	})
	in.ProjectionHeadline, in.ProjectionMessage = analysis.ProjectionSummary(in.Projection, in.FTP.Value, in.Trends)

	in.WeeklyStress = weeklyStressChart(history, now)
	in.LoadTrend = analysis.LoadTrend(history, now.AddDate(0, 0, -(LoadTrendDays-1)), now)

	in.RecentActivities = activities
	if len(activities) > RecentActivitiesLimit {
		in.RecentActivities = activities[:RecentActivitiesLimit]
	}

	log.WithFields(log.Fields{
		"athlete_id": athleteID,
		"activities": len(activities),
		"ftp":        in.FTP.Value,
		"readiness":  in.Readiness.Status,
	}).Debug("computed insights")

	return in, nil
}

// ActivitySummary is a stored activity scored against the current FTP
type ActivitySummary struct {
	store.Activity
	Stress   float64
	Category analysis.Category
}

// ActivityLog lists the activities of the insights window, newest first,
// each with its stress score and intensity category
func (s *InsightsService) ActivityLog(ctx context.Context, athleteID int64) ([]ActivitySummary, error) {
	now := s.now()
	activities, err := s.store.ListActivitiesSince(ctx, athleteID, now.AddDate(0, 0, -InsightsHistoryDays))
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	ftp := analysis.EstimateFTP(activities, now)
	if s.manualFTP > 0 {
		ftp = analysis.ManualFTP(s.manualFTP)
	}

	out := make([]ActivitySummary, len(activities))
	for i, a := range activities {
		out[i] = ActivitySummary{
			Activity: a,
			Stress:   analysis.StressScore(a, ftp.Watts()),
			Category: analysis.Classify(a, ftp.Watts()),
		}
	}
	return out, nil
}

// recentVolume sums stress and hours over the trailing week
func recentVolume(activities []store.Activity, ftp float64, now time.Time) (stress, hours float64) {
	since := now.AddDate(0, 0, -ActualStressDays)
	for _, a := range activities {
		if a.StartDate.Before(since) || a.StartDate.After(now) {
			continue
		}
		stress += analysis.StressScore(a, ftp)
		hours += float64(a.MovingTime) / 3600
	}
	return stress, hours
}

func weeklyStressChart(history []analysis.DatedScore, now time.Time) []WeekStress {
	from := analysis.WeekStart(now).AddDate(0, 0, -7*(ChartWeeks-1))
	totals := analysis.WeeklyStress(history, from, ChartWeeks)

	chart := make([]WeekStress, len(totals))
	for i, total := range totals {
		start := from.AddDate(0, 0, 7*i)
		chart[i] = WeekStress{WeekStart: start, Label: start.Format("Jan 02"), Stress: total}
	}
	return chart
}
