package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"ridecoach/internal/analysis"
	"ridecoach/internal/auth"
	"ridecoach/internal/metrics"
	"ridecoach/internal/store"
	"ridecoach/internal/strava"
)

// Sync phases reported on the progress channel
const (
	PhaseAuth       = "auth"
	PhaseActivities = "activities"
	PhaseStore      = "store"
)

// SyncService pulls recent activities from Strava into the store
type SyncService struct {
	provider     ActivityProvider
	refresher    TokenRefresher
	store        SyncStore
	metrics      *metrics.Manager
	lookbackDays int
	now          func() time.Time
}

// NewSyncService creates a sync service fetching lookbackDays of history.
// A nil metrics manager records into a private registry.
func NewSyncService(provider ActivityProvider, refresher TokenRefresher, st SyncStore, m *metrics.Manager, lookbackDays int) *SyncService {
	if m == nil {
		m = metrics.NewTestManager()
	}
	if lookbackDays <= 0 {
		lookbackDays = InsightsHistoryDays
	}
	return &SyncService{
		provider:     provider,
		refresher:    refresher,
		store:        st,
		metrics:      m,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase     string
	Total     int
	Completed int
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	AthleteID         int64
	ActivitiesFetched int
	ActivitiesStored  int
	TokenRefreshed    bool
	Duration          time.Duration

	errs error
}

// Err combines the per-activity failures, or nil if every activity was stored
func (r *SyncResult) Err() error {
	return r.errs
}

// Failures lists the per-activity failures
func (r *SyncResult) Failures() []error {
	return multierr.Errors(r.errs)
}

// Sync refreshes credentials if needed, fetches recent activities and stores them.
// A rejected access token is refreshed exactly once; if Strava still refuses,
// or the refresh itself fails, ErrReconnectRequired is returned.
// Progress updates are sent on progress, which is closed on return.
func (s *SyncService) Sync(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	started := s.now()
	result := &SyncResult{}
	err := s.sync(ctx, progress, result)
	result.Duration = s.now().Sub(started)

	s.metrics.HistSyncDuration.Observe(result.Duration.Seconds())
	s.metrics.CounterSyncs.WithLabelValues(syncStatus(result, err)).Inc()

	logger := log.WithFields(log.Fields{
		"athlete_id": result.AthleteID,
		"fetched":    result.ActivitiesFetched,
		"stored":     result.ActivitiesStored,
		"duration":   result.Duration.Round(time.Millisecond),
	})
	switch {
	case err != nil:
		logger.WithError(err).Error("sync failed")
	case result.errs != nil:
		logger.WithError(result.errs).Warn("sync finished with failures")
	default:
		logger.Info("sync finished")
	}

	return result, err
}

func syncStatus(result *SyncResult, err error) string {
	switch {
	case errors.Is(err, ErrReconnectRequired):
		return metrics.StatusReconnect
	case err != nil:
		return metrics.StatusFailed
	case result.errs != nil:
		return metrics.StatusPartial
	default:
		return metrics.StatusOK
	}
}

func (s *SyncService) sync(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	report(progress, SyncProgress{Phase: PhaseAuth})

	creds, err := s.store.GetAuth(ctx)
	if errors.Is(err, store.ErrNoAuth) {
		return fmt.Errorf("%w: %w", ErrReconnectRequired, err)
	}
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}
	result.AthleteID = creds.AthleteID

	if creds.Expired(s.now()) {
		log.WithField("athlete_id", creds.AthleteID).Debug("access token expired, refreshing")
		if err := s.refresh(ctx, creds); err != nil {
			return err
		}
		result.TokenRefreshed = true
	}

	report(progress, SyncProgress{Phase: PhaseActivities})
	onFetched := func(n int) {
		report(progress, SyncProgress{Phase: PhaseActivities, Completed: n})
	}

	activities, err := s.provider.FetchRecentActivities(ctx, creds.AccessToken, s.lookbackDays, onFetched)
	if errors.Is(err, strava.ErrUnauthorized) && result.TokenRefreshed {
		// the token was refreshed moments ago, a second refresh will not help
		return fmt.Errorf("%w: %w", ErrReconnectRequired, err)
	}
	if errors.Is(err, strava.ErrUnauthorized) {
		log.WithField("athlete_id", creds.AthleteID).Info("access token rejected, refreshing once")
		if err := s.refresh(ctx, creds); err != nil {
			return err
		}
		result.TokenRefreshed = true
		activities, err = s.provider.FetchRecentActivities(ctx, creds.AccessToken, s.lookbackDays, onFetched)
		if errors.Is(err, strava.ErrUnauthorized) {
			return fmt.Errorf("%w: %w", ErrReconnectRequired, err)
		}
	}
	if err != nil {
		return fmt.Errorf("fetching activities: %w", err)
	}
	result.ActivitiesFetched = len(activities)

	for i, a := range activities {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.store.UpsertActivity(ctx, a.ToStore(creds.AthleteID)); err != nil {
			result.errs = multierr.Append(result.errs, fmt.Errorf("storing activity %d: %w", a.ID, err))
		} else {
			result.ActivitiesStored++
		}
		report(progress, SyncProgress{Phase: PhaseStore, Total: len(activities), Completed: i + 1})
	}
	s.metrics.CounterActivitiesUpserted.Add(float64(result.ActivitiesStored))

	if err := s.store.SetSyncState(ctx, store.KeyLastActivitySync, s.now().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("recording sync time: %w", err)
	}

	s.updateGauges(ctx, creds.AthleteID)
	return nil
}

// refresh replaces the tokens of creds in place and persists them
func (s *SyncService) refresh(ctx context.Context, creds *store.Auth) error {
	token, err := s.refresher.Refresh(ctx, creds.RefreshToken)
	if err != nil {
		s.metrics.CounterTokenRefreshes.WithLabelValues(metrics.StatusFailed).Inc()
		if errors.Is(err, auth.ErrRefreshFailed) {
			return fmt.Errorf("%w: %w", ErrReconnectRequired, err)
		}
		return fmt.Errorf("refreshing access token: %w", err)
	}
	s.metrics.CounterTokenRefreshes.WithLabelValues(metrics.StatusOK).Inc()

	creds.AccessToken = token.AccessToken
	creds.RefreshToken = token.RefreshToken
	creds.ExpiresAt = token.Expiry
	if err := s.store.UpdateTokens(ctx, creds.AthleteID, creds.AccessToken, creds.RefreshToken, creds.ExpiresAt); err != nil {
		return fmt.Errorf("saving refreshed tokens: %w", err)
	}
	return nil
}

// updateGauges publishes the post-sync FTP estimate and chronic load
func (s *SyncService) updateGauges(ctx context.Context, athleteID int64) {
	now := s.now()
	activities, err := s.store.ListActivitiesSince(ctx, athleteID, now.AddDate(0, 0, -InsightsHistoryDays))
	if err != nil {
		log.WithError(err).Warn("could not load activities for gauges")
		return
	}
	ftp := analysis.EstimateFTP(activities, now)
	load := analysis.TrainingLoad(analysis.ScoreHistory(activities, ftp.Watts()), now)
	s.metrics.GaugeFTP.Set(ftp.Watts())
	s.metrics.GaugeChronicLoad.Set(load.Chronic)
}

func report(progress chan<- SyncProgress, p SyncProgress) {
	if progress != nil {
		progress <- p
	}
}
