package analysis

import (
	"math"
	"strings"

	"ridecoach/internal/store"
)

// DefaultFTP is the threshold power assumed when nothing better is known
const DefaultFTP = 200.0

// referenceMaxHR is the fixed max heart rate used for HR-based stress estimates
const referenceMaxHR = 170.0

// normalizedPowerFactor approximates normalized power from average power
const normalizedPowerFactor = 1.05

// Category is a training-intensity label for an activity or a planned session
type Category string

const (
	Recovery  Category = "Recovery"
	Endurance Category = "Endurance"
	Tempo     Category = "Tempo"
	Threshold Category = "Threshold"
	VO2Max    Category = "VO2Max"
	Anaerobic Category = "Anaerobic"
	Mixed     Category = "Mixed"
)

// Categories lists every category in intensity order
var Categories = []Category{Recovery, Endurance, Tempo, Threshold, VO2Max, Anaerobic, Mixed}

// ParseCategory maps a case-insensitive name to a Category
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// HighIntensity reports whether the category is threshold or harder
func (c Category) HighIntensity() bool {
	return c == Threshold || c == VO2Max || c == Anaerobic
}

// StressScore computes the Training Stress Score of one activity.
// The result is unrounded; callers round at presentation boundaries.
//
// With power:    TSS = hours × NP × IF / FTP × 100, NP = avg × 1.05, IF = NP / FTP
// With HR only:  TSS = hours × 100 × (avgHR / 170)²
// Otherwise:     TSS = hours × 100 × type multiplier
func StressScore(a store.Activity, ftp float64) float64 {
	if ftp <= 0 {
		ftp = DefaultFTP
	}
	hours := float64(a.MovingTime) / 3600.0

	if a.AverageWatts != nil && *a.AverageWatts > 0 {
		np := *a.AverageWatts * normalizedPowerFactor
		intensity := np / ftp
		return hours * np * intensity / ftp * 100
	}

	if a.AverageHeartrate != nil && *a.AverageHeartrate > 0 {
		ratio := *a.AverageHeartrate / referenceMaxHR
		return hours * 100 * ratio * ratio
	}

	return hours * 100 * typeMultiplier(a.Type)
}

func typeMultiplier(activityType string) float64 {
	switch activityType {
	case "Run":
		return 0.7
	case "Ride", "VirtualRide":
		return 0.6
	default:
		return 0.5
	}
}

// RoundStress rounds a stress score for display or storage
func RoundStress(score float64) int {
	return int(math.Round(score))
}

// intensityBands maps power as a percentage of FTP to a category.
// A band applies when intensity is below its upper bound.
var intensityBands = []struct {
	below    float64
	category Category
}{
	{55, Recovery},
	{75, Endurance},
	{90, Tempo},
	{105, Threshold},
	{120, VO2Max},
}

// nameRules classify activities without power by keywords in their name.
// Rules are evaluated in order; the first rule with a matching keyword wins.
var nameRules = []struct {
	keywords []string
	category Category
}{
	{[]string{"recovery", "easy"}, Recovery},
	{[]string{"endurance", "long"}, Endurance},
	{[]string{"tempo"}, Tempo},
	{[]string{"threshold", "ftp"}, Threshold},
	{[]string{"vo2", "intervals"}, VO2Max},
	{[]string{"sprint", "anaerobic"}, Anaerobic},
}

// Classify assigns a training category to an activity.
// Power data decides when present; otherwise the activity name is matched
// against nameRules, defaulting to Endurance.
func Classify(a store.Activity, ftp float64) Category {
	if ftp <= 0 {
		ftp = DefaultFTP
	}

	if a.AverageWatts != nil && *a.AverageWatts > 0 {
		intensity := *a.AverageWatts / ftp * 100
		for _, band := range intensityBands {
			if intensity < band.below {
				return band.category
			}
		}
		return Anaerobic
	}

	name := strings.ToLower(a.Name)
	for _, rule := range nameRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return Endurance
}
