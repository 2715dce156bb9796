package analysis

import "math"

// SessionTemplate is one slot of an adaptive week
type SessionTemplate struct {
	Name      string
	Zone      string
	Category  Category
	Intensity float64 // intensity factor used to estimate stress
}

// PlannedSession is a concrete prescription produced from a template slot
type PlannedSession struct {
	Name            string
	Zone            string
	Category        Category
	DurationMinutes int
	EstimatedStress int
}

// AdaptivePlan is a week of sessions scaled by readiness
type AdaptivePlan struct {
	Sessions       []PlannedSession
	TotalDuration  int // adjusted minutes
	TotalStress    int // sum of session estimates
	AdjustedStress int // target stress × multiplier, informational
}

// planTemplates by readiness status
var planTemplates = map[string][]SessionTemplate{
	StatusFatigued: {
		{"Recovery Spin", "Z1", Recovery, 0.4},
		{"Endurance Ride", "Z2", Endurance, 0.6},
		{"Easy Tempo", "Z2-Z3", Tempo, 0.7},
		{"Endurance Ride", "Z2", Endurance, 0.6},
	},
	StatusFresh: {
		{"Endurance Ride", "Z2", Endurance, 0.65},
		{"Tempo Session", "Z3", Tempo, 0.85},
		{"Threshold Intervals", "Z4", Threshold, 1.0},
		{"VO2Max Intervals", "Z5", VO2Max, 1.2},
	},
	StatusBalanced: {
		{"Endurance Ride", "Z2", Endurance, 0.65},
		{"Tempo Session", "Z3", Tempo, 0.85},
		{"Threshold Work", "Z4", Threshold, 1.0},
		{"Recovery Ride", "Z1-Z2", Recovery, 0.5},
	},
}

// GenerateAdaptivePlan splits the readiness-adjusted minutes evenly over
// sessionCount sessions drawn from the status template. Weeks with more
// sessions than the template has slots wrap around to its start.
func GenerateAdaptivePlan(sessionCount, totalMinutes int, readiness Readiness, targetStress int) AdaptivePlan {
	adjustedMinutes := int(math.Round(float64(totalMinutes) * readiness.Multiplier))
	adjustedStress := int(math.Round(float64(targetStress) * readiness.Multiplier))

	plan := AdaptivePlan{
		TotalDuration:  adjustedMinutes,
		AdjustedStress: adjustedStress,
	}
	if sessionCount <= 0 {
		return plan
	}

	template, ok := planTemplates[readiness.Status]
	if !ok {
		template = planTemplates[StatusBalanced]
	}

	duration := int(math.Round(float64(adjustedMinutes) / float64(sessionCount)))
	for i := 0; i < sessionCount; i++ {
		slot := template[i%len(template)]
		stress := int(math.Round(float64(duration) / 60 * slot.Intensity * 100))
		plan.Sessions = append(plan.Sessions, PlannedSession{
			Name:            slot.Name,
			Zone:            slot.Zone,
			Category:        slot.Category,
			DurationMinutes: duration,
			EstimatedStress: stress,
		})
		plan.TotalStress += stress
	}
	return plan
}
