package analysis

import (
	"testing"
	"time"

	"ridecoach/internal/store"
)

func ride(start time.Time, secs int, avg float64) store.Activity {
	return store.Activity{Type: "Ride", Name: "Ride", StartDate: start, MovingTime: secs, AverageWatts: floatPtr(avg)}
}

func TestEstimateFTP(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		activities []store.Activity
		expected   FTPEstimate
	}{
		{
			name:     "no activities",
			expected: FTPEstimate{Value: 200, Confidence: 0, SampleSize: 0, Source: SourceCalculated},
		},
		{
			name: "no qualifying rides",
			activities: []store.Activity{
				{Type: "Run", StartDate: now, MovingTime: 3600, AverageWatts: floatPtr(300)},
				ride(now, 900, 300),                   // not longer than 15 minutes
				ride(now.AddDate(0, 0, -91), 1800, 300), // outside lookback
				{Type: "Ride", StartDate: now, MovingTime: 3600},
			},
			expected: FTPEstimate{Value: 200, Confidence: 0, SampleSize: 0, Source: SourceCalculated},
		},
		{
			name: "ten rides in the twenty minute band",
			activities: func() []store.Activity {
				var out []store.Activity
				for i := 0; i < 10; i++ {
					out = append(out, ride(now.AddDate(0, 0, -i*3), 1500, 250))
				}
				return out
			}(),
			// round(250 × 0.95) = 238; min(100, 10/50×100) = 20, no penalty at exactly 10
			expected: FTPEstimate{Value: 238, Confidence: 20, SampleSize: 10, Source: SourceCalculated, LastRideAt: now},
		},
		{
			name: "band uses the best average",
			activities: []store.Activity{
				ride(now.AddDate(0, 0, -1), 1200, 230),
				ride(now.AddDate(0, 0, -2), 3600, 260),
				ride(now.AddDate(0, 0, -3), 5400, 300), // outside the band
			},
			// round(260 × 0.95) = 247; 3/50×100 = 6 − 20 → 0
			expected: FTPEstimate{Value: 247, Confidence: 0, SampleSize: 3, Source: SourceCalculated, LastRideAt: now.AddDate(0, 0, -1)},
		},
		{
			name: "fallback to max power outside the band",
			activities: []store.Activity{
				func() store.Activity {
					a := ride(now.AddDate(0, 0, -1), 1000, 200)
					a.MaxWatts = floatPtr(400)
					return a
				}(),
				ride(now.AddDate(0, 0, -2), 7200, 210),
			},
			// round(400 × 0.75) = 300
			expected: FTPEstimate{Value: 300, Confidence: 0, SampleSize: 2, Source: SourceCalculated, LastRideAt: now.AddDate(0, 0, -1)},
		},
		{
			name: "virtual rides qualify",
			activities: []store.Activity{
				{Type: "VirtualRide", StartDate: now.AddDate(0, 0, -1), MovingTime: 2400, AverageWatts: floatPtr(280)},
			},
			expected: FTPEstimate{Value: 266, Confidence: 0, SampleSize: 1, Source: SourceCalculated, LastRideAt: now.AddDate(0, 0, -1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EstimateFTP(tt.activities, now)
			if result != tt.expected {
				t.Errorf("EstimateFTP() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestFTPConfidence(t *testing.T) {
	tests := []struct {
		name      string
		rides     int
		daysSince int
		expected  int
	}{
		{"full sample recent", 50, 1, 100},
		{"boost above seventy", 40, 2, 90},
		{"no boost at exactly seventy", 35, 2, 70},
		{"no boost when not recent", 40, 5, 80},
		{"stale data", 40, 15, 65},
		{"stale and small", 5, 20, 0},
		{"small sample", 8, 1, 0},
		{"twenty rides", 20, 3, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ftpConfidence(tt.rides, tt.daysSince); got != tt.expected {
				t.Errorf("ftpConfidence(%d, %d) = %d, want %d", tt.rides, tt.daysSince, got, tt.expected)
			}
		})
	}
}

func TestManualFTP(t *testing.T) {
	e := ManualFTP(275)
	if e.Value != 275 || e.Source != SourceManual || e.Watts() != 275 {
		t.Errorf("ManualFTP(275) = %+v", e)
	}
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if got := DaysSince(time.Time{}, now); got != -1 {
		t.Errorf("DaysSince(zero) = %d, want -1", got)
	}
	if got := DaysSince(now.Add(-50*time.Hour), now); got != 2 {
		t.Errorf("DaysSince(50h ago) = %d, want 2", got)
	}
}
