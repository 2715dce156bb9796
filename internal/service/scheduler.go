package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Syncer runs one sync
type Syncer interface {
	Sync(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error)
}

// Scheduler runs Sync on a cron schedule. A run still in progress when the
// next one is due causes that next run to be skipped.
type Scheduler struct {
	syncer   Syncer
	schedule string
	cron     *cron.Cron

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewScheduler parses schedule as a standard five-field cron spec (descriptors like @hourly work too)
func NewScheduler(syncer Syncer, schedule string) (*Scheduler, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}

	logger := cronLogger{entry: log.WithField("component", "scheduler")}
	return &Scheduler{
		syncer:   syncer,
		schedule: schedule,
		cron:     cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
	}, nil
}

// Start registers the sync job and starts the cron goroutine. Jobs run with a
// context derived from ctx and are cancelled by Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return fmt.Errorf("scheduler already started")
	}

	jobCtx, cancel := context.WithCancel(ctx)
	if _, err := s.cron.AddFunc(s.schedule, func() { s.run(jobCtx) }); err != nil {
		cancel()
		return fmt.Errorf("scheduling sync: %w", err)
	}
	s.cancel = cancel
	s.cron.Start()

	log.WithField("schedule", s.schedule).Info("sync scheduler started")
	return nil
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return
	}

	cancel()
	<-s.cron.Stop().Done()
	log.Info("sync scheduler stopped")
}

// RunNow performs one sync immediately on the calling goroutine
func (s *Scheduler) RunNow(ctx context.Context) error {
	_, err := s.syncer.Sync(ctx, nil)
	return err
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	result, err := s.syncer.Sync(ctx, nil)
	if err != nil {
		// already logged by the sync service
		return
	}
	if failures := result.Failures(); len(failures) > 0 {
		log.WithField("failures", len(failures)).Warn("scheduled sync stored only part of the activities")
	}
}

// cronLogger routes cron's internal logging to logrus
type cronLogger struct {
	entry *log.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(kvFields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(kvFields(keysAndValues)).WithError(err).Error(msg)
}

func kvFields(keysAndValues []interface{}) log.Fields {
	fields := make(log.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
