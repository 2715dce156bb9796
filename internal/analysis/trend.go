package analysis

import (
	"math"
	"time"

	"ridecoach/internal/store"
)

const (
	trendHalfDays    = 30
	volatilityWeeks  = 8
	volatilityWindow = volatilityWeeks * 7
)

// TrendMetrics describes how fitness has been moving recently
type TrendMetrics struct {
	FTP30dChangePct    float64 // current FTP vs FTP re-estimated from 30-60 days ago
	HRE30dChangePct    float64 // heart-rate efficiency change, positive = improving
	CTLRampPerWeek     float64
	VolatilityFactor   float64 // stddev / mean of weekly stress over 8 weeks
	WeeklyStressMean   float64
	WeeklyStressStdDev float64
}

// ZoneMix is the time-weighted share of recent training by zone family
type ZoneMix struct {
	Recovery    float64 // Recovery + Endurance
	Progression float64 // Tempo and harder
}

// CalculateTrends compares the last 30 days with the 30 days before them
func CalculateTrends(activities []store.Activity, currentFTP, currentChronic float64, now time.Time) TrendMetrics {
	recentStart := now.AddDate(0, 0, -trendHalfDays)
	previousStart := now.AddDate(0, 0, -2*trendHalfDays)

	var recent, previous []store.Activity
	for _, a := range activities {
		switch {
		case !a.StartDate.Before(recentStart):
			recent = append(recent, a)
		case !a.StartDate.Before(previousStart):
			previous = append(previous, a)
		}
	}

	var trends TrendMetrics

	// Without qualifying rides in the older half there is nothing to compare against
	previousFTP := currentFTP
	if est := EstimateFTP(previous, now); est.SampleSize > 0 {
		previousFTP = est.Watts()
	}
	trends.FTP30dChangePct = pctChange(currentFTP, previousFTP)

	// Lower HR per watt is better, so the change is inverted
	hreRecent := heartRateEfficiency(recent)
	hrePrevious := heartRateEfficiency(previous)
	if hreRecent > 0 && hrePrevious > 0 {
		trends.HRE30dChangePct = -pctChange(hreRecent, hrePrevious)
	}

	history := ScoreHistory(activities, currentFTP)
	trends.CTLRampPerWeek = rampRate(history, currentChronic, now)

	weekly := WeeklyStress(history, now.AddDate(0, 0, -volatilityWindow), volatilityWeeks)
	trends.WeeklyStressMean, trends.WeeklyStressStdDev = meanStdDev(weekly)
	if trends.WeeklyStressMean > 0 {
		trends.VolatilityFactor = trends.WeeklyStressStdDev / trends.WeeklyStressMean
	}

	return trends
}

// heartRateEfficiency returns mean HR / mean power over activities that
// carry both signals, or 0 if none do
func heartRateEfficiency(activities []store.Activity) float64 {
	var hr, watts float64
	var n int
	for _, a := range activities {
		if a.AverageHeartrate == nil || *a.AverageHeartrate <= 0 {
			continue
		}
		if a.AverageWatts == nil || *a.AverageWatts <= 0 {
			continue
		}
		hr += *a.AverageHeartrate
		watts += *a.AverageWatts
		n++
	}
	if n == 0 || watts == 0 {
		return 0
	}
	return (hr / float64(n)) / (watts / float64(n))
}

// ComputeZoneMix weights each activity's category by moving time over the
// chronic window
func ComputeZoneMix(activities []store.Activity, ftp float64, now time.Time) ZoneMix {
	cutoff := now.AddDate(0, 0, -ChronicWindowDays)

	var total, recovery, progression float64
	for _, a := range activities {
		if a.StartDate.Before(cutoff) || a.StartDate.After(now) {
			continue
		}
		secs := float64(a.MovingTime)
		total += secs
		switch Classify(a, ftp) {
		case Recovery, Endurance:
			recovery += secs
		default:
			progression += secs
		}
	}
	if total == 0 {
		return ZoneMix{}
	}
	return ZoneMix{Recovery: recovery / total, Progression: progression / total}
}

func pctChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// meanStdDev returns the mean and population standard deviation
func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}
