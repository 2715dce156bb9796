package analysis

import (
	"math"
	"sort"
	"time"

	"ridecoach/internal/store"
)

// Rolling window lengths in days
const (
	ChronicWindowDays = 42
	AcuteWindowDays   = 7
	rampLookbackDays  = 14
)

// DatedScore is the stress score of one activity at its start time
type DatedScore struct {
	Date  time.Time
	Score float64
}

// LoadSnapshot represents chronic/acute load at one instant
type LoadSnapshot struct {
	Chronic float64 // CTL, 42-day rolling average - "Fitness"
	Acute   float64 // ATL, 7-day rolling average - "Fatigue"
	Balance float64 // TSB, Chronic - Acute - "Form"
	Ramp    float64 // chronic load change per week over the last 14 days
}

// LoadPoint is one day of a load trend
type LoadPoint struct {
	Date    time.Time
	Chronic float64
	Acute   float64
	Balance float64
}

// ScoreHistory scores every activity and returns the history sorted by date
func ScoreHistory(activities []store.Activity, ftp float64) []DatedScore {
	history := make([]DatedScore, 0, len(activities))
	for _, a := range activities {
		history = append(history, DatedScore{Date: a.StartDate, Score: StressScore(a, ftp)})
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})
	return history
}

// RollingAverage sums the scores dated within the last days before now and
// divides by days, not by the number of entries: days without training
// count as zero load.
func RollingAverage(history []DatedScore, now time.Time, days int) float64 {
	if days <= 0 {
		return 0
	}
	cutoff := now.AddDate(0, 0, -days)

	var total float64
	for _, s := range history {
		if s.Date.Before(cutoff) || s.Date.After(now) {
			continue
		}
		total += s.Score
	}
	return total / float64(days)
}

// TrainingLoad computes the load snapshot at now.
// Chronic, acute and balance are rounded to integers, ramp to one decimal.
func TrainingLoad(history []DatedScore, now time.Time) LoadSnapshot {
	if len(history) == 0 {
		return LoadSnapshot{}
	}

	chronic := RollingAverage(history, now, ChronicWindowDays)
	acute := RollingAverage(history, now, AcuteWindowDays)

	return LoadSnapshot{
		Chronic: math.Round(chronic),
		Acute:   math.Round(acute),
		Balance: math.Round(chronic - acute),
		Ramp:    math.Round(rampRate(history, chronic, now)*10) / 10,
	}
}

// rampRate compares chronic load now with chronic load built only from
// entries at least 14 days old, expressed per week
func rampRate(history []DatedScore, chronic float64, now time.Time) float64 {
	asOf := now.AddDate(0, 0, -rampLookbackDays)

	var older []DatedScore
	for _, s := range history {
		if !s.Date.After(asOf) {
			older = append(older, s)
		}
	}
	previous := RollingAverage(older, now, ChronicWindowDays)
	return (chronic - previous) / 2
}

// LoadTrend computes unrounded chronic/acute/balance for every day from
// from to to inclusive, each evaluated at the end of that day
func LoadTrend(history []DatedScore, from, to time.Time) []LoadPoint {
	if len(history) == 0 || to.Before(from) {
		return nil
	}

	start := dayStart(from)
	end := dayStart(to)

	var points []LoadPoint
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		eod := d.AddDate(0, 0, 1).Add(-time.Nanosecond)
		chronic := RollingAverage(history, eod, ChronicWindowDays)
		acute := RollingAverage(history, eod, AcuteWindowDays)
		points = append(points, LoadPoint{
			Date:    d,
			Chronic: chronic,
			Acute:   acute,
			Balance: chronic - acute,
		})
	}
	return points
}

// WeeklyStress sums stress into consecutive 7-day buckets starting at from
func WeeklyStress(history []DatedScore, from time.Time, weeks int) []float64 {
	totals := make([]float64, weeks)
	for _, s := range history {
		if s.Date.Before(from) {
			continue
		}
		idx := int(s.Date.Sub(from) / (7 * 24 * time.Hour))
		if idx < weeks {
			totals[idx] += s.Score
		}
	}
	return totals
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormDescription returns a human-readable description of TSB
func FormDescription(tsb float64) string {
	switch {
	case tsb > 25:
		return "Very fresh (possibly detrained)"
	case tsb > 10:
		return "Fresh and ready to build"
	case tsb > 0:
		return "Neutral - good for training"
	case tsb > -10:
		return "Slightly fatigued"
	case tsb > -25:
		return "Tired but building fitness"
	default:
		return "Very fatigued - rest needed"
	}
}
