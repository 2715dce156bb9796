package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	log "github.com/sirupsen/logrus"

	"ridecoach/internal/analysis"
	"ridecoach/internal/catalog"
	"ridecoach/internal/fitimport"
	"ridecoach/internal/metrics"
	"ridecoach/internal/service"
)

func (a *app) runSync(ctx context.Context) error {
	progress := make(chan service.SyncProgress, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progress {
			if p.Phase == service.PhaseStore && p.Total > 0 {
				fmt.Printf("\rSaving activities %d/%d", p.Completed, p.Total)
			}
		}
		fmt.Println()
	}()

	result, err := a.sync.Sync(ctx, progress)
	<-done
	if errors.Is(err, service.ErrReconnectRequired) {
		return fmt.Errorf("%w: run 'ridecoach login'", err)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Synced %d of %d activities in %s\n", result.ActivitiesStored, result.ActivitiesFetched, result.Duration.Round(time.Millisecond))
	for _, f := range result.Failures() {
		fmt.Println("  skipped:", f)
	}
	short, daily := a.strava.RateLimitStatus()
	fmt.Printf("Strava requests left: %d (15 min), %d (today)\n", short, daily)
	return nil
}

func (a *app) runPlan(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	week := fs.String("week", "", "any date in the week to plan, YYYY-MM-DD (default: this week)")
	durations := fs.String("durations", "", "minutes per day Sunday to Saturday, 0 for rest, e.g. 60,0,45,0,90,0,0")
	if err := fs.Parse(args); err != nil {
		return err
	}

	weekStart := analysis.WeekStart(time.Now())
	if *week != "" {
		day, err := time.ParseInLocation(time.DateOnly, *week, time.Local)
		if err != nil {
			return fmt.Errorf("parsing -week: %w", err)
		}
		weekStart = analysis.WeekStart(day)
	}

	schedule, err := service.ParseDurations(*durations)
	if err != nil {
		return fmt.Errorf("-durations: %w", err)
	}

	athleteID, err := a.athleteID(ctx)
	if err != nil {
		return err
	}

	planned, err := a.plans.PlanWeek(ctx, athleteID, weekStart, service.SessionCount(schedule), schedule)
	if errors.Is(err, catalog.ErrCatalogExhausted) {
		return fmt.Errorf("%w: import workouts with 'ridecoach import-workouts'", err)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Week of %s\n", analysis.FormatWeekRange(weekStart))
	fmt.Printf("Focus: %s, then %s. %s\n\n", planned.Needs.Primary, planned.Needs.Secondary, planned.Needs.Reasoning)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tTYPE\tMIN\tTARGET\tWORKOUT\tSTRESS")
	for _, r := range planned.Recommendations {
		day := weekStart.AddDate(0, 0, r.SessionNumber-1)
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%d\n",
			day.Format("Mon Jan 2"), r.Category, r.DurationMinutes, r.TargetStress, r.WorkoutName, r.WorkoutStress)
	}
	return w.Flush()
}

func (a *app) importFIT(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return errors.New("usage: ridecoach import-fit <file.fit> [more.fit ...]")
	}
	athleteID, err := a.athleteID(ctx)
	if err != nil {
		return err
	}

	imported := 0
	for _, path := range paths {
		activity, err := fitimport.ParseFile(path, athleteID)
		if err == nil {
			err = a.db.UpsertActivity(ctx, activity)
		}
		if err != nil {
			log.WithError(err).WithField("file", path).Warn("FIT import failed")
			fmt.Printf("  %s: %v\n", path, err)
			continue
		}
		imported++
	}

	fmt.Printf("Imported %d of %d files\n", imported, len(paths))
	if imported == 0 {
		return errors.New("no files imported")
	}
	return nil
}

func (a *app) importWorkouts(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: ridecoach import-workouts <workouts.json>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := catalog.ImportJSON(ctx, f, a.db)
	fmt.Printf("Imported %d workouts, %d skipped\n", result.Imported, result.Failed)
	if err != nil && result.Imported == 0 {
		return err
	}
	if err != nil {
		fmt.Println(err)
	}
	return nil
}

// runDaemon syncs on the configured schedule and serves metrics until ctx is cancelled
func (a *app) runDaemon(ctx context.Context) error {
	scheduler, err := service.NewScheduler(a.sync, a.cfg.Daemon.SyncSchedule)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.registry))
	server := &http.Server{
		Addr:              a.cfg.Daemon.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("serving metrics")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if err := scheduler.RunNow(ctx); err != nil {
		log.WithError(err).Warn("initial sync failed")
	}
	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}

	log.Info("shutting down")
	scheduler.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		log.WithError(shutdownErr).Warn("metrics server shutdown")
	}
	return err
}
