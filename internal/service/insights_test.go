package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridecoach/internal/analysis"
	"ridecoach/internal/config"
	"ridecoach/internal/store"
)

type fakeInsightsStore struct {
	activities []store.Activity
	plan       *store.WeeklyPlan
	err        error
}

func (f *fakeInsightsStore) ListActivitiesSince(_ context.Context, _ int64, since time.Time) ([]store.Activity, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []store.Activity
	for _, a := range f.activities {
		if !a.StartDate.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeInsightsStore) LatestWeeklyPlan(_ context.Context, _ int64, _ time.Time) (*store.WeeklyPlan, error) {
	if f.plan == nil {
		return nil, store.ErrPlanNotFound
	}
	return f.plan, nil
}

var insightsNow = time.Date(2024, 3, 13, 18, 0, 0, 0, time.UTC)

// hourlyRides returns n one-hour 200 W rides, newest first, one per day
func hourlyRides(n int) []store.Activity {
	out := make([]store.Activity, n)
	for i := range out {
		watts := 200.0
		out[i] = store.Activity{
			ID:           int64(i + 1),
			AthleteID:    42,
			Name:         fmt.Sprintf("Ride %d", i),
			Type:         "Ride",
			StartDate:    insightsNow.Add(-time.Duration(i)*24*time.Hour - time.Hour),
			Distance:     30000,
			MovingTime:   3600,
			ElapsedTime:  3600,
			AverageWatts: &watts,
			Source:       store.SourceStrava,
		}
	}
	return out
}

func newInsightsService(st InsightsStore, manualFTP int) *InsightsService {
	svc := NewInsightsService(st, config.DefaultConfig().Plan, manualFTP)
	svc.now = func() time.Time { return insightsNow }
	return svc
}

func TestGetInsights_NoData(t *testing.T) {
	svc := newInsightsService(&fakeInsightsStore{}, 0)

	in, err := svc.GetInsights(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, int(analysis.DefaultFTP), in.FTP.Value)
	assert.Equal(t, 0, in.FTP.Confidence)
	assert.Zero(t, in.Load.Chronic)
	assert.Nil(t, in.Plan)

	assert.Equal(t, analysis.ComplianceOnTrack, in.Compliance.Status)
	assert.Equal(t, 0, in.Compliance.Percent)
	assert.Equal(t, analysis.StatusBalanced, in.Readiness.Status)

	assert.Len(t, in.AdaptivePlan.Sessions, 4)
	assert.Equal(t, 360, in.AdaptivePlan.TotalDuration)
	assert.Equal(t, 300, in.AdaptivePlan.AdjustedStress)

	require.Len(t, in.WeeklyStress, ChartWeeks)
	for _, w := range in.WeeklyStress {
		assert.Zero(t, w.Stress)
	}
	assert.Empty(t, in.LoadTrend)
	assert.Empty(t, in.RecentActivities)
	assert.NotEmpty(t, in.Summary)
	assert.NotEmpty(t, in.ProjectionHeadline)
}

func TestGetInsights_WithPlan(t *testing.T) {
	st := &fakeInsightsStore{
		activities: hourlyRides(12),
		plan: &store.WeeklyPlan{
			ID:               "plan-1",
			AthleteID:        42,
			WeekStart:        analysis.WeekStart(insightsNow),
			SessionCount:     3,
			SessionDurations: []int{60, 0, 60, 0, 60, 0, 0},
		},
	}
	svc := newInsightsService(st, 0)

	in, err := svc.GetInsights(context.Background(), 42)
	require.NoError(t, err)

	// 20-60 minute rides estimate FTP at 95% of the best average
	assert.Equal(t, 190, in.FTP.Value)
	assert.Equal(t, 12, in.FTP.SampleSize)

	require.NotNil(t, in.Plan)
	assert.InDelta(t, 3.0, in.Compliance.PlannedHours, 1e-9)
	assert.InDelta(t, 3*PlannedStressPerHour, in.Compliance.PlannedStress, 1e-9)
	assert.InDelta(t, 7.0, in.Compliance.ActualHours, 1e-9)
	assert.Positive(t, in.Compliance.ActualStress)
	assert.Equal(t, analysis.ComplianceOver, in.Compliance.Status)

	assert.Len(t, in.AdaptivePlan.Sessions, 3)
	assert.Equal(t, in.Load.Ramp, in.Trends.CTLRampPerWeek)
	assert.Positive(t, in.Load.Chronic)
	assert.Positive(t, in.Load.Acute)

	assert.Len(t, in.RecentActivities, RecentActivitiesLimit)
	assert.Equal(t, int64(1), in.RecentActivities[0].ID)
	assert.Len(t, in.LoadTrend, LoadTrendDays)

	last := in.WeeklyStress[len(in.WeeklyStress)-1]
	assert.True(t, last.WeekStart.Equal(analysis.WeekStart(insightsNow)))
	assert.Equal(t, "Mar 10", last.Label)
	assert.Positive(t, last.Stress)
}

func TestGetInsights_ManualFTP(t *testing.T) {
	svc := newInsightsService(&fakeInsightsStore{activities: hourlyRides(5)}, 250)

	in, err := svc.GetInsights(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 250, in.FTP.Value)
	assert.Equal(t, analysis.SourceManual, in.FTP.Source)
	assert.Equal(t, 190, in.EstimatedFTP.Value)
	assert.Equal(t, analysis.SourceCalculated, in.EstimatedFTP.Source)
}

func TestGetInsights_ProjectionRecencyCountsRidesOnly(t *testing.T) {
	rides := hourlyRides(3)
	for i := range rides {
		rides[i].StartDate = rides[i].StartDate.AddDate(0, 0, -20)
	}
	run := store.Activity{
		ID:          99,
		AthleteID:   42,
		Name:        "Morning Run",
		Type:        "Run",
		StartDate:   insightsNow.Add(-time.Hour),
		MovingTime:  2400,
		ElapsedTime: 2400,
	}
	svc := newInsightsService(&fakeInsightsStore{activities: append([]store.Activity{run}, rides...)}, 0)

	in, err := svc.GetInsights(context.Background(), 42)
	require.NoError(t, err)

	assert.True(t, in.EstimatedFTP.LastRideAt.Equal(rides[0].StartDate))
	confidence, label := analysis.ProjectionConfidence(in.EstimatedFTP.SampleSize, 20, in.Trends.VolatilityFactor)
	assert.Equal(t, confidence, in.Projection.Confidence)
	assert.Equal(t, label, in.Projection.ConfidenceLabel)
}

func TestGetInsights_StoreError(t *testing.T) {
	svc := newInsightsService(&fakeInsightsStore{err: fmt.Errorf("database is locked")}, 0)

	_, err := svc.GetInsights(context.Background(), 42)
	require.ErrorContains(t, err, "database is locked")
}

func TestActivityLog(t *testing.T) {
	svc := newInsightsService(&fakeInsightsStore{activities: hourlyRides(3)}, 200)

	entries, err := svc.ActivityLog(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for _, a := range entries {
		// 200 W for an hour at a 200 W FTP: NP 210, IF 1.05
		assert.InDelta(t, 110.25, a.Stress, 1e-6)
		assert.NotEmpty(t, a.Category)
	}
	assert.Equal(t, int64(1), entries[0].ID)
}
