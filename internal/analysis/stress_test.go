package analysis

import (
	"math"
	"testing"

	"ridecoach/internal/store"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestStressScore(t *testing.T) {
	tests := []struct {
		name     string
		activity store.Activity
		ftp      float64
		expected float64
		delta    float64
	}{
		{
			name: "power at FTP for one hour",
			activity: store.Activity{
				Type:         "Ride",
				MovingTime:   3600,
				AverageWatts: floatPtr(200),
			},
			ftp: 200,
			// NP = 210, IF = 1.05, TSS = 1 × 210 × 1.05 / 200 × 100
			expected: 110.25,
			delta:    0.001,
		},
		{
			name: "power takes priority over heart rate",
			activity: store.Activity{
				Type:             "Ride",
				MovingTime:       1800,
				AverageWatts:     floatPtr(150),
				AverageHeartrate: floatPtr(160),
			},
			ftp: 250,
			// NP = 157.5, IF = 0.63, TSS = 0.5 × 157.5 × 0.63 / 250 × 100
			expected: 19.845,
			delta:    0.001,
		},
		{
			name: "heart rate only",
			activity: store.Activity{
				Type:             "Ride",
				MovingTime:       3600,
				AverageHeartrate: floatPtr(170),
			},
			ftp:      250,
			expected: 100,
			delta:    0.001,
		},
		{
			name: "heart rate only, half hour at 85 bpm",
			activity: store.Activity{
				Type:             "Ride",
				MovingTime:       1800,
				AverageHeartrate: floatPtr(85),
			},
			ftp:      250,
			expected: 12.5,
			delta:    0.001,
		},
		{
			name:     "run without sensors",
			activity: store.Activity{Type: "Run", MovingTime: 3600},
			ftp:      250,
			expected: 70,
		},
		{
			name:     "ride without sensors",
			activity: store.Activity{Type: "Ride", MovingTime: 7200},
			ftp:      250,
			expected: 120,
		},
		{
			name:     "virtual ride without sensors",
			activity: store.Activity{Type: "VirtualRide", MovingTime: 3600},
			ftp:      250,
			expected: 60,
		},
		{
			name:     "other activity without sensors",
			activity: store.Activity{Type: "Swim", MovingTime: 3600},
			ftp:      250,
			expected: 50,
		},
		{
			name: "zero power falls through to type multiplier",
			activity: store.Activity{
				Type:         "Ride",
				MovingTime:   3600,
				AverageWatts: floatPtr(0),
			},
			ftp:      250,
			expected: 60,
		},
		{
			name: "non-positive FTP uses default",
			activity: store.Activity{
				Type:         "Ride",
				MovingTime:   3600,
				AverageWatts: floatPtr(200),
			},
			ftp:      0,
			expected: 110.25,
			delta:    0.001,
		},
		{
			name:     "zero duration",
			activity: store.Activity{Type: "Ride"},
			ftp:      250,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StressScore(tt.activity, tt.ftp)
			if math.Abs(result-tt.expected) > tt.delta {
				t.Errorf("StressScore() = %v, want %v (±%v)", result, tt.expected, tt.delta)
			}
		})
	}
}

func TestStressScore_ScaleInvariance(t *testing.T) {
	base := store.Activity{Type: "Ride", MovingTime: 5400, AverageWatts: floatPtr(180)}
	reference := StressScore(base, 240)

	for _, k := range []float64{0.5, 1.3, 2, 3.7} {
		scaled := base
		scaled.AverageWatts = floatPtr(180 * k)
		result := StressScore(scaled, 240*k)
		if math.Abs(result-reference) > 1e-9 {
			t.Errorf("k=%v: StressScore() = %v, want %v", k, result, reference)
		}
	}
}

func TestStressScore_NonNegative(t *testing.T) {
	for _, secs := range []int{0, 1, 600, 3600, 36000} {
		for _, a := range []store.Activity{
			{Type: "Ride", MovingTime: secs, AverageWatts: floatPtr(220)},
			{Type: "Run", MovingTime: secs, AverageHeartrate: floatPtr(150)},
			{Type: "Walk", MovingTime: secs},
		} {
			if s := StressScore(a, 250); s < 0 {
				t.Errorf("StressScore(%+v) = %v, want >= 0", a, s)
			}
		}
	}
}

func TestRoundStress(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{110.25, 110},
		{19.5, 20},
		{64.49, 64},
	}
	for _, tt := range tests {
		if got := RoundStress(tt.in); got != tt.want {
			t.Errorf("RoundStress(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		activity store.Activity
		expected Category
	}{
		{"54% is recovery", store.Activity{AverageWatts: floatPtr(108)}, Recovery},
		{"55% is endurance", store.Activity{AverageWatts: floatPtr(110)}, Endurance},
		{"75% is tempo", store.Activity{AverageWatts: floatPtr(150)}, Tempo},
		{"90% is threshold", store.Activity{AverageWatts: floatPtr(180)}, Threshold},
		{"104% is threshold", store.Activity{AverageWatts: floatPtr(208)}, Threshold},
		{"105% is vo2max", store.Activity{AverageWatts: floatPtr(210)}, VO2Max},
		{"120% is anaerobic", store.Activity{AverageWatts: floatPtr(240)}, Anaerobic},
		{"power beats name", store.Activity{Name: "Easy spin", AverageWatts: floatPtr(200)}, Threshold},
		{"easy keyword", store.Activity{Name: "Easy Sunday"}, Recovery},
		{"recovery keyword", store.Activity{Name: "RECOVERY ride"}, Recovery},
		{"long keyword", store.Activity{Name: "Long ride to the coast"}, Endurance},
		{"tempo keyword", store.Activity{Name: "Tempo blocks"}, Tempo},
		{"ftp keyword", store.Activity{Name: "FTP test"}, Threshold},
		{"intervals keyword", store.Activity{Name: "Hill intervals"}, VO2Max},
		{"sprint keyword", store.Activity{Name: "Sprint practice"}, Anaerobic},
		{"earlier rule wins", store.Activity{Name: "Easy tempo"}, Recovery},
		{"no match defaults to endurance", store.Activity{Name: "Morning Ride"}, Endurance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.activity, 200); got != tt.expected {
				t.Errorf("Classify() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	if c, ok := ParseCategory("vo2max"); !ok || c != VO2Max {
		t.Errorf("ParseCategory(vo2max) = %v, %v", c, ok)
	}
	if _, ok := ParseCategory("sweetspot"); ok {
		t.Error("ParseCategory(sweetspot) should fail")
	}
}
