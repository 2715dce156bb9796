package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"ridecoach/internal/auth"
	"ridecoach/internal/catalog"
	"ridecoach/internal/config"
	"ridecoach/internal/logging"
	"ridecoach/internal/metrics"
	"ridecoach/internal/service"
	"ridecoach/internal/store"
	"ridecoach/internal/strava"
	"ridecoach/internal/tui"
)

const usage = `Usage: ridecoach [command] [flags]

Commands:
  (none)            open the dashboard
  login             connect your Strava account
  sync              fetch recent rides from Strava
  plan              plan a week: -durations 60,0,45,0,90,0,0 [-week 2024-03-10]
  import-fit        import one or more .fit files
  import-workouts   import a JSON workout catalog
  daemon            sync on a schedule and serve Prometheus metrics
  help              show this message
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := ""
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}
	switch command {
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	case "", "login", "sync", "plan", "import-fit", "import-workouts", "daemon":
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}

	a, err := newApp(command)
	if err != nil || a == nil {
		return err
	}
	defer a.Close()

	switch command {
	case "login":
		return a.login(ctx)
	case "sync":
		return a.runSync(ctx)
	case "plan":
		return a.runPlan(ctx, args)
	case "import-fit":
		return a.importFIT(ctx, args)
	case "import-workouts":
		return a.importWorkouts(ctx, args)
	case "daemon":
		return a.runDaemon(ctx)
	default:
		return a.runTUI(ctx)
	}
}

// app holds the wiring shared by every command
type app struct {
	cfg       *config.Config
	db        *store.DB
	logCloser io.Closer

	oauth    *oauth2.Config
	registry *prometheus.Registry
	metrics  *metrics.Manager
	strava   *strava.Client

	sync     *service.SyncService
	plans    *service.PlanService
	insights *service.InsightsService
}

// newApp loads the config and wires the services. It returns a nil app when
// the config file still needs editing.
func newApp(command string) (*app, error) {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		path, err := config.CreateExample(configDir)
		if err != nil {
			return nil, fmt.Errorf("creating example config: %w", err)
		}
		fmt.Printf("\nPlease edit the config file at:\n  %s\n\n", path)
		fmt.Println("You need to add your Strava API credentials.")
		fmt.Println("Get them from: https://www.strava.com/settings/api")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil, nil
	}

	// the dashboard owns the terminal, so it never logs to stdout
	toStdout := cfg.Log.ToStdout || command == "daemon"
	if command == "" {
		toStdout = false
	}
	logCloser := logging.Setup(logging.Params{
		FileName:   cfg.Log.File,
		ToStdout:   toStdout,
		Level:      cfg.Log.Level,
		FormatJSON: cfg.Log.JSON,
	})

	db, err := store.Open(store.Path(configDir))
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &app{
		cfg:       cfg,
		db:        db,
		logCloser: logCloser,
	}

	if _, err := catalog.Seed(context.Background(), db); err != nil {
		a.Close()
		return nil, fmt.Errorf("seeding workout catalog: %w", err)
	}

	a.oauth = auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURL:  auth.RedirectURL,
	})
	a.registry = metrics.NewRegistry()
	a.metrics = metrics.NewManager("ridecoach", "", a.registry)
	a.strava = strava.NewClient(nil, strava.BaseURL)

	a.sync = service.NewSyncService(a.strava, auth.NewRefresher(a.oauth), db, a.metrics, cfg.Plan.LookbackDays)
	engine := service.NewRecommendationEngine(catalog.NewMatcher(db))
	a.plans = service.NewPlanService(db, db, db, engine, a.metrics, cfg.Athlete.ManualFTP)
	a.insights = service.NewInsightsService(db, cfg.Plan, cfg.Athlete.ManualFTP)

	return a, nil
}

// Close releases the database and the log file
func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		log.WithError(err).Warn("closing database")
	}
	a.logCloser.Close()
}

// athleteID returns the connected athlete, or an error telling the user to log in
func (a *app) athleteID(ctx context.Context) (int64, error) {
	stored, err := a.db.GetAuth(ctx)
	if errors.Is(err, store.ErrNoAuth) {
		return 0, errors.New("no Strava account connected, run 'ridecoach login' first")
	}
	if err != nil {
		return 0, fmt.Errorf("checking auth: %w", err)
	}
	return stored.AthleteID, nil
}

func (a *app) login(ctx context.Context) error {
	result, err := auth.Authenticate(ctx, a.oauth, os.Stdout)
	if err != nil {
		return fmt.Errorf("authentication: %w", err)
	}

	err = a.db.SaveAuth(ctx, &store.Auth{
		AthleteID:    result.AthleteID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	})
	if err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	fmt.Printf("Successfully authenticated as athlete %d!\n", result.AthleteID)
	return nil
}

func (a *app) runTUI(ctx context.Context) error {
	_, err := a.db.GetAuth(ctx)
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Println("No authentication found. Starting OAuth flow...")
		if err := a.login(ctx); err != nil {
			return err
		}
	} else if err != nil {
		return fmt.Errorf("checking auth: %w", err)
	}

	athleteID, err := a.athleteID(ctx)
	if err != nil {
		return err
	}

	model := tui.NewApp(tui.Services{
		Insights:   a.insights,
		Plans:      a.plans,
		Sync:       a.sync,
		RateLimits: a.strava.RateLimitStatus,
	}, athleteID)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
