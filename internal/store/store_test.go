package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestActivities(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	ride := &Activity{
		ID:           100,
		AthleteID:    7,
		Name:         "Morning Ride",
		Type:         "Ride",
		StartDate:    base,
		Distance:     40000,
		MovingTime:   3600,
		ElapsedTime:  3700,
		AverageWatts: ptr(210.0),
		MaxWatts:     ptr(540.0),
	}
	run := &Activity{
		ID:               101,
		AthleteID:        7,
		Name:             "Easy Run",
		Type:             "Run",
		StartDate:        base.Add(-48 * time.Hour),
		Distance:         8000,
		MovingTime:       2700,
		ElapsedTime:      2750,
		AverageHeartrate: ptr(142.0),
	}
	other := &Activity{ID: 102, AthleteID: 8, Name: "Other", Type: "Ride", StartDate: base}

	for _, a := range []*Activity{ride, run, other} {
		require.NoError(t, db.UpsertActivity(ctx, a))
	}

	t.Run("get round-trips nullable fields", func(t *testing.T) {
		got, err := db.GetActivity(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, "Morning Ride", got.Name)
		assert.True(t, got.StartDate.Equal(base))
		require.NotNil(t, got.AverageWatts)
		assert.Equal(t, 210.0, *got.AverageWatts)
		assert.Nil(t, got.AverageHeartrate)
		assert.Equal(t, SourceStrava, got.Source)
	})

	t.Run("missing activity", func(t *testing.T) {
		_, err := db.GetActivity(ctx, 999)
		assert.ErrorIs(t, err, ErrActivityNotFound)
	})

	t.Run("list since is scoped and ordered", func(t *testing.T) {
		got, err := db.ListActivitiesSince(ctx, 7, base.Add(-72*time.Hour))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(100), got[0].ID)
		assert.Equal(t, int64(101), got[1].ID)

		got, err = db.ListActivitiesSince(ctx, 7, base.Add(-time.Hour))
		require.NoError(t, err)
		require.Len(t, got, 1)
	})

	t.Run("upsert updates in place", func(t *testing.T) {
		updated := *ride
		updated.Name = "Renamed Ride"
		require.NoError(t, db.UpsertActivity(ctx, &updated))

		got, err := db.GetActivity(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, "Renamed Ride", got.Name)

		count, err := db.CountActivities(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestAuth(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.GetAuth(ctx)
	assert.ErrorIs(t, err, ErrNoAuth)

	err = db.UpdateTokens(ctx, 1, "a", "r", time.Now())
	assert.ErrorIs(t, err, ErrNoAuth)

	expires := time.Unix(1700000000, 0)
	require.NoError(t, db.SaveAuth(ctx, &Auth{AthleteID: 1, AccessToken: "access", RefreshToken: "refresh", ExpiresAt: expires}))

	got, err := db.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access", got.AccessToken)
	assert.True(t, got.ExpiresAt.Equal(expires))

	later := expires.Add(6 * time.Hour)
	require.NoError(t, db.UpdateTokens(ctx, 1, "access2", "refresh2", later))

	got, err = db.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access2", got.AccessToken)
	assert.Equal(t, "refresh2", got.RefreshToken)
	assert.True(t, got.ExpiresAt.Equal(later))
}

func TestAuthExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, (&Auth{ExpiresAt: now.Add(-time.Minute)}).Expired(now))
	assert.True(t, (&Auth{ExpiresAt: now.Add(30 * time.Second)}).Expired(now))
	assert.False(t, (&Auth{ExpiresAt: now.Add(time.Hour)}).Expired(now))
}

func TestWeeklyPlans(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	week := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := db.FindWeeklyPlan(ctx, 7, week)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	first, err := db.UpsertWeeklyPlan(ctx, &WeeklyPlan{
		AthleteID:        7,
		WeekStart:        week,
		SessionCount:     3,
		SessionDurations: []int{60, 0, 90},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, []int{60, 0, 90}, first.SessionDurations)
	assert.Equal(t, 150, first.PlannedMinutes())
	assert.True(t, first.WeekStart.Equal(week))

	second, err := db.UpsertWeeklyPlan(ctx, &WeeklyPlan{
		AthleteID:        7,
		WeekStart:        week,
		SessionCount:     2,
		SessionDurations: []int{45, 45},
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same week keeps its plan id")
	assert.Equal(t, 2, second.SessionCount)

	latest, err := db.LatestWeeklyPlan(ctx, 7, week.Add(3*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, latest.ID)

	_, err = db.LatestWeeklyPlan(ctx, 7, week.Add(-24*time.Hour))
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestRecommendations(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	plan, err := db.UpsertWeeklyPlan(ctx, &WeeklyPlan{
		AthleteID:        7,
		WeekStart:        time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		SessionCount:     2,
		SessionDurations: []int{60, 60},
	})
	require.NoError(t, err)

	recs := []Recommendation{
		{SessionNumber: 2, Category: "Endurance", DurationMinutes: 60, TargetStress: 70, WorkoutName: "Foundation", WorkoutURL: "u2", WorkoutDuration: 60, WorkoutStress: 55, Reason: "base"},
		{SessionNumber: 1, Category: "Threshold", DurationMinutes: 60, TargetStress: 70, WorkoutName: "Threshold Builder", WorkoutURL: "u1", WorkoutDuration: 60, WorkoutStress: 80, Reason: "build"},
	}
	require.NoError(t, db.ReplaceRecommendations(ctx, plan.ID, recs))

	got, err := db.ListRecommendations(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].SessionNumber)
	assert.Equal(t, "Threshold Builder", got[0].WorkoutName)

	require.NoError(t, db.ReplaceRecommendations(ctx, plan.ID, recs[:1]))
	got, err = db.ListRecommendations(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Foundation", got[0].WorkoutName)

	err = db.ReplaceRecommendations(ctx, "no-such-plan", recs)
	assert.Error(t, err, "foreign key rejects unknown plan")
}

func TestWorkouts(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	w := &Workout{Name: "Sweet Spot", URL: "https://example.com/ss", DurationMinutes: 60, Category: "Tempo", Stress: 75}
	require.NoError(t, db.UpsertWorkout(ctx, w))
	require.NoError(t, db.UpsertWorkout(ctx, &Workout{Name: "Easy Spin", URL: "https://example.com/easy", DurationMinutes: 30, Category: "Recovery", Stress: 20}))

	w.Stress = 78
	require.NoError(t, db.UpsertWorkout(ctx, w))

	count, err := db.CountWorkouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	list, err := db.ListWorkouts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Recovery", list[0].Category)
	assert.Equal(t, 78, list[1].Stress)
}

func TestSyncState(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	v, err := db.GetSyncState(ctx, KeyLastActivitySync)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, db.SetSyncState(ctx, KeyLastActivitySync, "2024-03-10T08:00:00Z"))
	require.NoError(t, db.SetSyncState(ctx, KeyLastActivitySync, "2024-03-11T08:00:00Z"))

	v, err = db.GetSyncState(ctx, KeyLastActivitySync)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11T08:00:00Z", v)
}
