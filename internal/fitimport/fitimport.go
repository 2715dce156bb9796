package fitimport

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/tormoder/fit"

	"ridecoach/internal/store"
)

// ErrNoSession is returned for FIT files without a session summary
var ErrNoSession = errors.New("no sessions found in FIT file")

// Unset FIT timestamps decode to the FIT epoch (1989-12-31)
var fitEpoch = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

// ParseFile decodes the FIT file at path into an activity owned by athleteID
func ParseFile(path string, athleteID int64) (*store.Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, athleteID)
}

// Decode reads a FIT activity file and converts its first session into an activity.
// Imported activities get negative IDs derived from their start time so they
// never collide with Strava IDs, and re-importing a file overwrites the same row.
func Decode(r io.Reader, athleteID int64) (*store.Activity, error) {
	fitFile, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding FIT file: %w", err)
	}

	activity, err := fitFile.Activity()
	if err != nil {
		return nil, fmt.Errorf("reading activity from FIT file: %w", err)
	}

	if len(activity.Sessions) == 0 {
		return nil, ErrNoSession
	}
	return fromSession(activity.Sessions[0], athleteID)
}

func fromSession(s *fit.SessionMsg, athleteID int64) (*store.Activity, error) {
	if !s.StartTime.After(fitEpoch) {
		return nil, errors.New("session has no start time")
	}

	moving := seconds(s.GetTotalTimerTimeScaled())
	elapsed := seconds(s.GetTotalElapsedTimeScaled())
	if moving == 0 {
		moving = elapsed
	}
	if elapsed == 0 {
		elapsed = moving
	}

	activityType := sportType(s)
	a := &store.Activity{
		ID:               -s.StartTime.Unix(),
		AthleteID:        athleteID,
		Name:             fmt.Sprintf("%s %s", activityType, s.StartTime.Format("2006-01-02 15:04")),
		Type:             activityType,
		StartDate:        s.StartTime.UTC(),
		MovingTime:       moving,
		ElapsedTime:      elapsed,
		AverageWatts:     uint16Value(s.AvgPower),
		MaxWatts:         uint16Value(s.MaxPower),
		AverageHeartrate: uint8Value(s.AvgHeartRate),
		MaxHeartrate:     uint8Value(s.MaxHeartRate),
		Source:           store.SourceFIT,
	}
	if d := s.GetTotalDistanceScaled(); !math.IsNaN(d) {
		a.Distance = d
	}
	if s.TotalAscent != 0xFFFF {
		a.TotalElevationGain = float64(s.TotalAscent)
	}
	return a, nil
}

func sportType(s *fit.SessionMsg) string {
	switch s.Sport {
	case fit.SportCycling:
		if s.SubSport == fit.SubSportVirtualActivity || s.SubSport == fit.SubSportIndoorCycling {
			return "VirtualRide"
		}
		return "Ride"
	case fit.SportRunning:
		return "Run"
	default:
		return "Workout"
	}
}

func seconds(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return int(math.Round(v))
}

// uint16Value treats the FIT invalid marker and zero as missing
func uint16Value(v uint16) *float64 {
	if v == 0 || v == 0xFFFF {
		return nil
	}
	f := float64(v)
	return &f
}

func uint8Value(v uint8) *float64 {
	if v == 0 || v == 0xFF {
		return nil
	}
	f := float64(v)
	return &f
}
