package store

import "time"

// Auth represents OAuth tokens for Strava API access
type Auth struct {
	AthleteID    int64     `db:"athlete_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// Expired reports whether the access token is expired (or about to be) at t
func (a *Auth) Expired(t time.Time) bool {
	return !a.ExpiresAt.After(t.Add(60 * time.Second))
}

// Activity sources
const (
	SourceStrava = "strava"
	SourceFIT    = "fit"
)

// Activity represents one completed exercise session.
// Activities are facts: the analysis code only ever reads them.
type Activity struct {
	ID                 int64     `db:"id"`
	AthleteID          int64     `db:"athlete_id"`
	Name               string    `db:"name"`
	Type               string    `db:"type"`
	StartDate          time.Time `db:"start_date"`
	Distance           float64   `db:"distance"`     // meters
	MovingTime         int       `db:"moving_time"`  // seconds
	ElapsedTime        int       `db:"elapsed_time"` // seconds
	TotalElevationGain float64   `db:"total_elevation_gain"`
	AverageWatts       *float64  `db:"average_watts"`     // nullable
	MaxWatts           *float64  `db:"max_watts"`         // nullable
	AverageHeartrate   *float64  `db:"average_heartrate"` // nullable
	MaxHeartrate       *float64  `db:"max_heartrate"`     // nullable
	SufferScore        *int      `db:"suffer_score"`      // nullable, subjective effort
	Source             string    `db:"source"`
}

// WeeklyPlan is the user's schedule for one week.
// A zero entry in SessionDurations is a rest day.
type WeeklyPlan struct {
	ID               string    `db:"id"`
	AthleteID        int64     `db:"athlete_id"`
	WeekStart        time.Time `db:"week_start"` // stored as YYYY-MM-DD
	SessionCount     int       `db:"session_count"`
	SessionDurations []int     `db:"session_durations"` // minutes, stored as JSON
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// PlannedMinutes returns the sum of all session durations
func (p *WeeklyPlan) PlannedMinutes() int {
	total := 0
	for _, d := range p.SessionDurations {
		total += d
	}
	return total
}

// Recommendation assigns a catalog workout to one session of a weekly plan
type Recommendation struct {
	ID              int64     `db:"id"`
	WeeklyPlanID    string    `db:"weekly_plan_id"`
	SessionNumber   int       `db:"session_number"`
	Category        string    `db:"category"`
	DurationMinutes int       `db:"duration_minutes"`
	TargetStress    int       `db:"target_stress"`
	WorkoutName     string    `db:"workout_name"`
	WorkoutURL      string    `db:"workout_url"`
	WorkoutDuration int       `db:"workout_duration"`
	WorkoutStress   int       `db:"workout_stress"`
	Reason          string    `db:"reason"`
	CreatedAt       time.Time `db:"created_at"`
}

// Workout is one entry of the structured workout catalog
type Workout struct {
	ID              int64  `db:"id" json:"-"`
	Name            string `db:"name" json:"name"`
	URL             string `db:"url" json:"url"`
	DurationMinutes int    `db:"duration" json:"duration"`
	Category        string `db:"category" json:"type"`
	Stress          int    `db:"tss" json:"tss"`
	Description     string `db:"description" json:"description"`
}
