package analysis

import (
	"math"
	"time"

	"ridecoach/internal/store"
)

// IntensityDistribution is the time share of each category over the chronic window
type IntensityDistribution struct {
	Recovery  float64
	Endurance float64
	Tempo     float64
	Threshold float64
	VO2Max    float64
	Anaerobic float64
}

// Low returns the Recovery + Endurance share
func (d IntensityDistribution) Low() float64 {
	return d.Recovery + d.Endurance
}

// High returns the Threshold + VO2Max + Anaerobic share
func (d IntensityDistribution) High() float64 {
	return d.Threshold + d.VO2Max + d.Anaerobic
}

// TrainingMetrics summarises recent training for the recommendation rules
type TrainingMetrics struct {
	WeeklyStress     float64 // last 7 days
	AcuteStress      float64 // same as WeeklyStress
	ChronicStress    float64 // 42-day sum / 6, a weekly average
	LoadRatio        float64 // acute / chronic, 1.0 without history
	Distribution     IntensityDistribution
	WeeklyHours      float64
	WeeklyDistanceKm float64
	RecentCategories []Category // distinct, in first-seen order
}

// TrainingNeeds is the focus for the coming week
type TrainingNeeds struct {
	Primary   Category
	Secondary Category
	Reasoning string
}

// CalculateTrainingMetrics summarises the last 7 and 42 days of activities
func CalculateTrainingMetrics(activities []store.Activity, ftp float64, now time.Time) TrainingMetrics {
	weekAgo := now.AddDate(0, 0, -AcuteWindowDays)
	chronicStart := now.AddDate(0, 0, -ChronicWindowDays)

	var m TrainingMetrics
	var chronicTotal float64
	var window []store.Activity
	seen := make(map[Category]bool)

	for _, a := range activities {
		if a.StartDate.Before(chronicStart) {
			continue
		}
		window = append(window, a)
		score := StressScore(a, ftp)
		chronicTotal += score

		if a.StartDate.Before(weekAgo) {
			continue
		}
		m.WeeklyStress += score
		m.WeeklyHours += float64(a.MovingTime) / 3600
		m.WeeklyDistanceKm += a.Distance / 1000

		c := Classify(a, ftp)
		if !seen[c] {
			seen[c] = true
			m.RecentCategories = append(m.RecentCategories, c)
		}
	}

	m.AcuteStress = m.WeeklyStress
	m.ChronicStress = chronicTotal / 6
	m.LoadRatio = 1.0
	if m.ChronicStress > 0 {
		m.LoadRatio = m.AcuteStress / m.ChronicStress
	}
	m.Distribution = intensityDistribution(window, ftp)
	return m
}

func intensityDistribution(activities []store.Activity, ftp float64) IntensityDistribution {
	var d IntensityDistribution

	var total float64
	for _, a := range activities {
		total += float64(a.MovingTime)
	}
	if total == 0 {
		return d
	}

	for _, a := range activities {
		share := float64(a.MovingTime) / total
		switch Classify(a, ftp) {
		case Recovery:
			d.Recovery += share
		case Endurance:
			d.Endurance += share
		case Tempo:
			d.Tempo += share
		case Threshold:
			d.Threshold += share
		case VO2Max:
			d.VO2Max += share
		case Anaerobic:
			d.Anaerobic += share
		}
	}
	return d
}

// needsRules are evaluated in order; the first match wins
var needsRules = []struct {
	match func(TrainingMetrics) bool
	needs TrainingNeeds
}{
	{
		func(m TrainingMetrics) bool { return m.LoadRatio > 1.5 },
		TrainingNeeds{Recovery, Endurance, "Training load is high. Focus on recovery to prevent overtraining."},
	},
	{
		func(m TrainingMetrics) bool { return m.LoadRatio < 0.8 && m.WeeklyStress < 300 },
		TrainingNeeds{Threshold, Endurance, "Training load is low. Time to build fitness with structured intervals."},
	},
	{
		func(m TrainingMetrics) bool { return m.Distribution.High() > 0.3 },
		TrainingNeeds{Endurance, Recovery, "Too much high-intensity work. Need more aerobic base building."},
	},
	{
		func(m TrainingMetrics) bool { return m.Distribution.High() < 0.1 && m.WeeklyStress > 200 },
		TrainingNeeds{Threshold, VO2Max, "Good aerobic base. Time to add intensity for performance gains."},
	},
	{
		func(m TrainingMetrics) bool { return m.Distribution.Threshold < 0.05 },
		TrainingNeeds{Threshold, Tempo, "Missing threshold work. Critical for improving FTP and race performance."},
	},
	{
		func(m TrainingMetrics) bool { return m.Distribution.VO2Max < 0.05 && m.WeeklyStress > 250 },
		TrainingNeeds{VO2Max, Threshold, "Need VO2max work to improve top-end fitness and aerobic capacity."},
	},
}

// DetermineTrainingNeeds picks the week's primary and secondary focus
func DetermineTrainingNeeds(m TrainingMetrics) TrainingNeeds {
	for _, rule := range needsRules {
		if rule.match(m) {
			return rule.needs
		}
	}
	return TrainingNeeds{Threshold, Endurance, "Balanced training plan with mix of intensity and volume."}
}

// DistributeCategories assigns a category to each session slot.
// Hard and easy days alternate; above a load ratio of 1.5 threshold and
// VO2max slots become Tempo on even slots and Recovery on odd ones.
func DistributeCategories(needs TrainingNeeds, sessionCount int, loadRatio float64) []Category {
	if sessionCount <= 0 {
		return nil
	}

	var types []Category
	switch sessionCount {
	case 1:
		types = []Category{needs.Primary}
	case 2:
		types = []Category{needs.Primary, Endurance}
	case 3:
		types = []Category{needs.Primary, Endurance, needs.Secondary}
	case 4:
		types = []Category{needs.Primary, Endurance, needs.Secondary, Recovery}
	case 5:
		types = []Category{needs.Primary, Endurance, Tempo, Endurance, needs.Secondary}
	default:
		types = []Category{needs.Primary, Endurance, Tempo, Endurance, needs.Secondary, Recovery}
		for len(types) < sessionCount {
			types = append(types, Endurance)
		}
	}

	if loadRatio > 1.5 {
		for i, c := range types {
			if c == Threshold || c == VO2Max {
				if i%2 == 0 {
					types[i] = Tempo
				} else {
					types[i] = Recovery
				}
			}
		}
	}
	return types
}

// OptimalStress returns the target stress for a session of durationMinutes.
// Roughly 70 per hour, reduced under accumulated fatigue and raised when
// load is low, held between 40 and 120 per hour.
func OptimalStress(loadRatio float64, durationMinutes int) int {
	hours := float64(durationMinutes) / 60
	base := hours * 70

	switch {
	case loadRatio > 1.3:
		base *= 0.7
	case loadRatio < 0.9:
		base *= 1.2
	}

	return int(math.Round(clamp(base, hours*40, hours*120)))
}

var categoryRationale = map[Category]string{
	Recovery:  "Active recovery session to promote adaptation and prevent overtraining.",
	Endurance: "Aerobic base building. Critical for long-term fitness and recovery between hard sessions.",
	Tempo:     "Sweet spot training for maximum fitness gains in minimum time. Highly effective for time-crunched athletes.",
	Threshold: "FTP development. Improves sustainable power and race performance.",
	VO2Max:    "High-intensity intervals to improve maximum aerobic capacity and top-end fitness.",
	Mixed:     "Comprehensive workout combining multiple intensity zones for complete fitness.",
}

// SessionRationale explains why a category was chosen for a session slot.
// sessionNumber is 1-based.
func SessionRationale(category Category, sessionNumber, totalSessions int, loadRatio float64) string {
	reason, ok := categoryRationale[category]
	if !ok {
		reason = "Balanced training session."
	}

	switch {
	case sessionNumber == 1:
		reason += " Starting the week strong with a key workout."
	case sessionNumber == totalSessions:
		reason += " Perfect way to finish the week."
	case sessionNumber == (totalSessions+1)/2:
		reason += " Mid-week session to maintain training stimulus."
	}

	switch {
	case loadRatio > 1.3:
		reason += " Intensity moderated due to accumulated fatigue."
	case loadRatio < 0.9:
		reason += " Time to push hard and build fitness."
	}
	return reason
}
