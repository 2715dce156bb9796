package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Compliance statuses
const (
	ComplianceUnder   = "under"
	ComplianceOnTrack = "on-track"
	ComplianceOver    = "over"
)

// Readiness statuses
const (
	StatusFresh    = "fresh"
	StatusBalanced = "balanced"
	StatusFatigued = "fatigued"
)

// Compliance compares planned and actual weekly load
type Compliance struct {
	PlannedStress float64
	ActualStress  float64
	PlannedHours  float64
	ActualHours   float64
	Percent       int // rounded actual/planned × 100, 0 when nothing was planned
	Status        string
}

// Readiness is the verdict on how much load the athlete can take next
type Readiness struct {
	Status     string
	Message    string
	Multiplier float64 // applied to next week's volume, 0.85-1.15
}

// AssessCompliance classifies actual vs planned stress:
// under below 80%, over above 110%, otherwise on-track.
func AssessCompliance(plannedStress, actualStress, plannedHours, actualHours float64) Compliance {
	var percent float64
	if plannedStress > 0 {
		percent = actualStress / plannedStress * 100
	}

	status := ComplianceOnTrack
	if percent < 80 {
		status = ComplianceUnder
	}
	if percent > 110 {
		status = ComplianceOver
	}

	return Compliance{
		PlannedStress: plannedStress,
		ActualStress:  actualStress,
		PlannedHours:  plannedHours,
		ActualHours:   actualHours,
		Percent:       int(math.Round(percent)),
		Status:        status,
	}
}

// readinessRules are evaluated in order; the first match wins
var readinessRules = []struct {
	match     func(LoadSnapshot, Compliance) bool
	readiness Readiness
}{
	{
		func(l LoadSnapshot, _ Compliance) bool { return l.Balance > 10 },
		Readiness{StatusFresh, "Well-rested and ready to build. Consider increasing volume.", 1.10},
	},
	{
		func(l LoadSnapshot, c Compliance) bool { return l.Balance < -10 || l.Acute > 100 || c.Percent > 120 },
		Readiness{StatusFatigued, "Signs of overload detected. Reducing volume for recovery.", 0.85},
	},
	{
		func(l LoadSnapshot, _ Compliance) bool { return l.Ramp > 6 },
		Readiness{StatusFatigued, "Training load increasing rapidly. Maintaining volume.", 1.0},
	},
	{
		func(l LoadSnapshot, c Compliance) bool { return c.Percent < 80 && l.Balance > 5 },
		Readiness{StatusFresh, "Training volume below target. Slightly increasing load.", 1.05},
	},
}

// AssessReadiness combines load balance and compliance into a readiness verdict
func AssessReadiness(load LoadSnapshot, compliance Compliance) Readiness {
	for _, rule := range readinessRules {
		if rule.match(load, compliance) {
			return rule.readiness
		}
	}
	return Readiness{StatusBalanced, "Training load is balanced. Maintaining current volume.", 1.0}
}

// Summary renders a short status report of FTP, form, ramp and readiness
func Summary(ftp FTPEstimate, load LoadSnapshot, readiness Readiness) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Estimated FTP: %dW (%d%% confidence from %d rides)\n", ftp.Value, ftp.Confidence, ftp.SampleSize)

	switch {
	case load.Balance > 10:
		fmt.Fprintf(&b, "TSB: +%.0f (well-rested)\n", load.Balance)
	case load.Balance < -10:
		fmt.Fprintf(&b, "TSB: %.0f (fatigued)\n", load.Balance)
	default:
		fmt.Fprintf(&b, "TSB: %+.0f (balanced)\n", load.Balance)
	}

	switch {
	case load.Ramp > 6:
		fmt.Fprintf(&b, "Ramp rate: %.1f/week (aggressive - watch recovery)\n", load.Ramp)
	case load.Ramp > 3:
		fmt.Fprintf(&b, "Ramp rate: %.1f/week (safe build)\n", load.Ramp)
	default:
		fmt.Fprintf(&b, "Ramp rate: %.1f/week (maintenance)\n", load.Ramp)
	}

	b.WriteString("\n")
	b.WriteString(readiness.Message)
	return b.String()
}
