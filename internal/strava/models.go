package strava

import (
	"time"

	"ridecoach/internal/store"
)

// Activity represents a Strava activity summary from the API.
// Power and heart-rate fields are absent when the device did not record them.
type Activity struct {
	ID                 int64     `json:"id"`
	Athlete            Athlete   `json:"athlete"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type"`
	StartDate          time.Time `json:"start_date"`
	Distance           float64   `json:"distance"`             // meters
	MovingTime         int       `json:"moving_time"`          // seconds
	ElapsedTime        int       `json:"elapsed_time"`         // seconds
	TotalElevationGain float64   `json:"total_elevation_gain"` // meters
	AverageWatts       *float64  `json:"average_watts"`
	MaxWatts           *float64  `json:"max_watts"`
	Kilojoules         *float64  `json:"kilojoules"`
	DeviceWatts        bool      `json:"device_watts"`
	AverageHeartrate   *float64  `json:"average_heartrate"` // bpm
	MaxHeartrate       *float64  `json:"max_heartrate"`     // bpm
	SufferScore        *int      `json:"suffer_score"`
	HasHeartrate       bool      `json:"has_heartrate"`
}

// Athlete represents a Strava athlete (minimal info in activity response)
type Athlete struct {
	ID int64 `json:"id"`
}

// ToStore converts the API representation into a stored activity owned by athleteID.
// A zero watts or heart-rate reading is treated as missing.
func (a Activity) ToStore(athleteID int64) *store.Activity {
	if athleteID == 0 {
		athleteID = a.Athlete.ID
	}
	return &store.Activity{
		ID:                 a.ID,
		AthleteID:          athleteID,
		Name:               a.Name,
		Type:               a.Type,
		StartDate:          a.StartDate,
		Distance:           a.Distance,
		MovingTime:         a.MovingTime,
		ElapsedTime:        a.ElapsedTime,
		TotalElevationGain: a.TotalElevationGain,
		AverageWatts:       positive(a.AverageWatts),
		MaxWatts:           positive(a.MaxWatts),
		AverageHeartrate:   positive(a.AverageHeartrate),
		MaxHeartrate:       positive(a.MaxHeartrate),
		SufferScore:        a.SufferScore,
		Source:             store.SourceStrava,
	}
}

func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}
