package analysis

import (
	"math"
	"strings"
	"time"

	"ridecoach/internal/store"
)

// FTP estimate sources
const (
	SourceCalculated = "calculated"
	SourceManual     = "manual"
)

const (
	ftpLookbackDays    = 90
	minQualifyingSecs  = 900  // rides must be longer than 15 minutes
	bandMinSecs        = 1200 // "near 20 minute" band
	bandMaxSecs        = 3600
	bandFactor         = 0.95
	fallbackFactor     = 0.75
	fullConfidenceRide = 50
)

// FTPEstimate is an approximate functional threshold power.
// It is a heuristic proxy for a 20-minute test, not a physiological measurement.
type FTPEstimate struct {
	Value      int       // watts
	Confidence int       // 0-100
	SampleSize int       // qualifying rides
	Source     string    // calculated or manual
	LastRideAt time.Time // most recent qualifying ride, zero if none
}

// Watts returns the estimate as a float for use in stress formulas
func (e FTPEstimate) Watts() float64 {
	return float64(e.Value)
}

// ManualFTP wraps a user-supplied threshold power
func ManualFTP(watts int) FTPEstimate {
	return FTPEstimate{Value: watts, Confidence: 100, Source: SourceManual}
}

// qualifyingRides filters to rides in the 90-day window with power data
// lasting longer than 15 minutes
func qualifyingRides(activities []store.Activity, now time.Time) []store.Activity {
	cutoff := now.AddDate(0, 0, -ftpLookbackDays)

	var rides []store.Activity
	for _, a := range activities {
		if a.StartDate.Before(cutoff) {
			continue
		}
		if !strings.Contains(strings.ToLower(a.Type), "ride") {
			continue
		}
		if a.MovingTime <= minQualifyingSecs {
			continue
		}
		if a.AverageWatts == nil || *a.AverageWatts <= 0 {
			continue
		}
		rides = append(rides, a)
	}
	return rides
}

// EstimateFTP estimates threshold power from the last 90 days of rides.
//
// Rides lasting 20-60 minutes give max(avg power) × 0.95; without any such
// ride, the best max (or average) power of any qualifying ride × 0.75.
// No qualifying rides yields 200 W with zero confidence.
func EstimateFTP(activities []store.Activity, now time.Time) FTPEstimate {
	rides := qualifyingRides(activities, now)
	if len(rides) == 0 {
		return FTPEstimate{Value: int(DefaultFTP), Confidence: 0, SampleSize: 0, Source: SourceCalculated}
	}

	var bandMax, peakMax float64
	var inBand bool
	var lastRide time.Time
	for _, r := range rides {
		avg := *r.AverageWatts
		if r.MovingTime >= bandMinSecs && r.MovingTime <= bandMaxSecs {
			inBand = true
			bandMax = math.Max(bandMax, avg)
		}

		peak := avg
		if r.MaxWatts != nil && *r.MaxWatts > 0 {
			peak = *r.MaxWatts
		}
		peakMax = math.Max(peakMax, peak)

		if r.StartDate.After(lastRide) {
			lastRide = r.StartDate
		}
	}

	var value float64
	if inBand {
		value = bandMax * bandFactor
	} else {
		value = peakMax * fallbackFactor
	}

	daysSince := int(now.Sub(lastRide).Hours() / 24)

	return FTPEstimate{
		Value:      int(math.Round(value)),
		Confidence: ftpConfidence(len(rides), daysSince),
		SampleSize: len(rides),
		Source:     SourceCalculated,
		LastRideAt: lastRide,
	}
}

// ftpConfidence scores the estimate from sample size and data freshness
func ftpConfidence(rideCount, daysSinceLastRide int) int {
	confidence := math.Min(100, float64(rideCount)/fullConfidenceRide*100)

	if confidence > 70 && daysSinceLastRide < 5 {
		confidence = math.Min(100, confidence+10)
	}
	if daysSinceLastRide > 14 {
		confidence = math.Max(0, confidence-15)
	}
	if rideCount < 10 {
		confidence = math.Max(0, confidence-20)
	}

	return int(clamp(math.Round(confidence), 0, 100))
}

// DaysSince returns whole days between t and now, or -1 when t is zero
func DaysSince(t, now time.Time) int {
	if t.IsZero() {
		return -1
	}
	return int(now.Sub(t).Hours() / 24)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
