package analysis

import (
	"math"
	"testing"
	"time"

	"ridecoach/internal/store"
)

func TestCalculateTrends(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty history", func(t *testing.T) {
		trends := CalculateTrends(nil, 250, 0, now)
		if trends != (TrendMetrics{}) {
			t.Errorf("CalculateTrends(nil) = %+v, want zero", trends)
		}
	})

	t.Run("ftp improvement and efficiency", func(t *testing.T) {
		var activities []store.Activity
		// older half: 200 W at 150 bpm
		for i := 35; i < 60; i += 5 {
			a := ride(now.AddDate(0, 0, -i), 1800, 200)
			a.AverageHeartrate = floatPtr(150)
			activities = append(activities, a)
		}
		// recent half: 220 W at 150 bpm
		for i := 1; i < 30; i += 5 {
			a := ride(now.AddDate(0, 0, -i), 1800, 220)
			a.AverageHeartrate = floatPtr(150)
			activities = append(activities, a)
		}

		// previous FTP = round(200 × 0.95) = 190; current 209
		trends := CalculateTrends(activities, 209, 0, now)
		if math.Abs(trends.FTP30dChangePct-10) > 1e-9 {
			t.Errorf("FTP30dChangePct = %v, want 10", trends.FTP30dChangePct)
		}
		// HR/W fell from 0.75 to 0.6818: 9.09% better
		if math.Abs(trends.HRE30dChangePct-(1-200.0/220)*100) > 1e-9 {
			t.Errorf("HRE30dChangePct = %v, want %v", trends.HRE30dChangePct, (1-200.0/220)*100)
		}
		if trends.WeeklyStressMean <= 0 || trends.VolatilityFactor <= 0 {
			t.Errorf("expected positive weekly stats, got %+v", trends)
		}
	})

	t.Run("no qualifying rides in older half means no change", func(t *testing.T) {
		activities := []store.Activity{
			ride(now.AddDate(0, 0, -2), 1800, 250),
			{Type: "Run", StartDate: now.AddDate(0, 0, -40), MovingTime: 3600},
		}
		trends := CalculateTrends(activities, 238, 0, now)
		if trends.FTP30dChangePct != 0 {
			t.Errorf("FTP30dChangePct = %v, want 0", trends.FTP30dChangePct)
		}
		if trends.HRE30dChangePct != 0 {
			t.Errorf("HRE30dChangePct = %v, want 0", trends.HRE30dChangePct)
		}
	})

	t.Run("steady weeks have no volatility", func(t *testing.T) {
		var activities []store.Activity
		for week := 0; week < 8; week++ {
			activities = append(activities, store.Activity{
				Type:       "Ride",
				StartDate:  now.AddDate(0, 0, -56+week*7).Add(time.Hour),
				MovingTime: 3600,
			})
		}
		trends := CalculateTrends(activities, 250, 0, now)
		if trends.WeeklyStressMean != 60 {
			t.Errorf("WeeklyStressMean = %v, want 60", trends.WeeklyStressMean)
		}
		if trends.VolatilityFactor != 0 {
			t.Errorf("VolatilityFactor = %v, want 0", trends.VolatilityFactor)
		}
	})
}

func TestComputeZoneMix(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if mix := ComputeZoneMix(nil, 200, now); mix != (ZoneMix{}) {
		t.Errorf("ComputeZoneMix(nil) = %+v, want zero", mix)
	}

	activities := []store.Activity{
		ride(now.AddDate(0, 0, -1), 3600, 120),  // endurance
		ride(now.AddDate(0, 0, -2), 1800, 190),  // threshold
		ride(now.AddDate(0, 0, -3), 1800, 100),  // recovery
		ride(now.AddDate(0, 0, -60), 3600, 300), // outside the window
	}
	mix := ComputeZoneMix(activities, 200, now)
	if math.Abs(mix.Recovery-0.75) > 1e-9 || math.Abs(mix.Progression-0.25) > 1e-9 {
		t.Errorf("ComputeZoneMix() = %+v, want 0.75/0.25", mix)
	}
}

func TestMeanStdDev(t *testing.T) {
	tests := []struct {
		values []float64
		mean   float64
		stddev float64
	}{
		{nil, 0, 0},
		{[]float64{300}, 300, 0},
		{[]float64{200, 400}, 300, 100},
		{[]float64{2, 4, 4, 4, 5, 5, 7, 9}, 5, 2},
	}

	for _, tt := range tests {
		mean, stddev := meanStdDev(tt.values)
		if math.Abs(mean-tt.mean) > 1e-9 || math.Abs(stddev-tt.stddev) > 1e-9 {
			t.Errorf("meanStdDev(%v) = %v, %v, want %v, %v", tt.values, mean, stddev, tt.mean, tt.stddev)
		}
	}
}
