package service

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"ridecoach/internal/analysis"
	"ridecoach/internal/store"
	"ridecoach/internal/strava"
)

// ActivityProvider fetches raw activities from the provider
type ActivityProvider interface {
	FetchRecentActivities(ctx context.Context, accessToken string, lookbackDays int, onProgress func(fetched int)) ([]strava.Activity, error)
}

// TokenRefresher trades a refresh token for a new token pair
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// ActivityStore persists activities
type ActivityStore interface {
	UpsertActivity(ctx context.Context, a *store.Activity) error
	ListActivitiesSince(ctx context.Context, athleteID int64, since time.Time) ([]store.Activity, error)
}

// SyncStore is everything a sync touches
type SyncStore interface {
	ActivityStore
	GetAuth(ctx context.Context) (*store.Auth, error)
	UpdateTokens(ctx context.Context, athleteID int64, accessToken, refreshToken string, expiresAt time.Time) error
	SetSyncState(ctx context.Context, key, value string) error
}

// PlanStore persists weekly plans
type PlanStore interface {
	UpsertWeeklyPlan(ctx context.Context, p *store.WeeklyPlan) (*store.WeeklyPlan, error)
	FindWeeklyPlan(ctx context.Context, athleteID int64, weekStart time.Time) (*store.WeeklyPlan, error)
	LatestWeeklyPlan(ctx context.Context, athleteID int64, t time.Time) (*store.WeeklyPlan, error)
}

// RecommendationStore persists the recommendations of a weekly plan
type RecommendationStore interface {
	ReplaceRecommendations(ctx context.Context, planID string, recs []store.Recommendation) error
	ListRecommendations(ctx context.Context, planID string) ([]store.Recommendation, error)
}

// CatalogMatcher picks the catalog workout closest to a planned session
type CatalogMatcher interface {
	FindBestMatch(ctx context.Context, category analysis.Category, durationMinutes, targetStress int) (store.Workout, error)
}
