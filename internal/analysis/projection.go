package analysis

import (
	"fmt"
	"math"
)

// Projection model bounds, in percent unless noted
const (
	safeRampMin       = 1.0 // chronic load per week
	safeRampMax       = 6.0
	monthlyTrendMin   = -3.0
	monthlyTrendMax   = 5.0
	hreBoostMin       = -2.0
	hreBoostMax       = 3.0
	loadBoostMin      = -1.5
	loadBoostMax      = 1.5
	projectedMonthMin = -3.0
	projectedMonthMax = 6.0
	maxTotalChange    = 10.0
)

// Confidence labels
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// ProjectionInput gathers everything the projection model consumes
type ProjectionInput struct {
	CurrentFTP        int
	CurrentChronic    float64
	CurrentBalance    float64
	Trends            TrendMetrics
	ZoneMix           ZoneMix
	RideCount         int
	DaysSinceLastRide int // negative when there is no ride
}

// Projection forecasts FTP and chronic load 4 and 6 weeks ahead
type Projection struct {
	FTPIn4Weeks      int
	FTPIn6Weeks      int
	ChronicIn4Weeks  int
	ChronicIn6Weeks  int
	Confidence       int
	ConfidenceLabel  string
	Assumptions      []string
	MonthlyChangePct float64
	Volatility       float64
}

// ProjectChronicLoad extrapolates chronic load with the ramp held to a safe range
func ProjectChronicLoad(current, ramp float64, weeks int) int {
	return int(math.Round(current + clamp(ramp, safeRampMin, safeRampMax)*float64(weeks)))
}

// ProjectFTP applies the composite monthly-change model over weeks.
// It returns the projected FTP and the monthly change percentage after the
// fatigue penalty. The total change is capped at ±10%.
func ProjectFTP(currentFTP int, trends TrendMetrics, mix ZoneMix, balance float64, weeks int) (int, float64) {
	baseline := clamp(trends.FTP30dChangePct, monthlyTrendMin, monthlyTrendMax)
	hreBoost := clamp(trends.HRE30dChangePct*0.5, hreBoostMin, hreBoostMax)
	loadBoost := clamp((trends.CTLRampPerWeek-3)*0.25, loadBoostMin, loadBoostMax)

	var zoneMod float64
	switch {
	case mix.Recovery >= 0.7:
		zoneMod = -0.25
	case mix.Progression >= 0.5:
		zoneMod = 0.1
	}

	monthly := clamp(baseline+hreBoost+loadBoost+zoneMod*baseline, projectedMonthMin, projectedMonthMax)

	switch {
	case balance < -15:
		monthly *= 0.85
	case balance < -10:
		monthly *= 0.90
	}

	total := clamp(monthly*float64(weeks)/4, -maxTotalChange, maxTotalChange)
	projected := int(math.Round(float64(currentFTP) * (1 + total/100)))
	return projected, monthly
}

// ProjectionConfidence blends data volume, recency and volatility.
// Each sub-score is held to [20, 100].
func ProjectionConfidence(rideCount, daysSinceLastRide int, volatility float64) (int, string) {
	volume := clamp(float64(rideCount)/60*100, 20, 100)

	recency := 20.0
	if daysSinceLastRide >= 0 {
		recency = clamp(100-float64(daysSinceLastRide)*2, 20, 100)
	}

	stability := clamp(100-volatility*100, 20, 100)

	confidence := int(math.Round(0.4*volume + 0.3*recency + 0.3*stability))

	label := ConfidenceMedium
	switch {
	case confidence < 60:
		label = ConfidenceLow
	case confidence > 80:
		label = ConfidenceHigh
	}
	return confidence, label
}

// GenerateProjections runs the chronic-load and FTP models for 4 and 6 weeks
func GenerateProjections(in ProjectionInput) Projection {
	ftp4, monthly := ProjectFTP(in.CurrentFTP, in.Trends, in.ZoneMix, in.CurrentBalance, 4)
	ftp6, _ := ProjectFTP(in.CurrentFTP, in.Trends, in.ZoneMix, in.CurrentBalance, 6)
	confidence, label := ProjectionConfidence(in.RideCount, in.DaysSinceLastRide, in.Trends.VolatilityFactor)

	assumptions := []string{
		fmt.Sprintf("Current zone mix: %.0f%% recovery, %.0f%% progression",
			math.Round(in.ZoneMix.Recovery*100), math.Round(in.ZoneMix.Progression*100)),
		fmt.Sprintf("CTL ramp rate: %+.1f/week", in.Trends.CTLRampPerWeek),
		"No illness or injury interruptions",
	}
	if in.Trends.VolatilityFactor > 0.3 {
		assumptions = append(assumptions, "High training volatility detected")
	}
	if in.RideCount < 20 {
		assumptions = append(assumptions, "Limited data - projections less reliable")
	}
	if in.CurrentBalance < -15 {
		assumptions = append(assumptions, "Current fatigue limiting projected gains")
	}

	return Projection{
		FTPIn4Weeks:      ftp4,
		FTPIn6Weeks:      ftp6,
		ChronicIn4Weeks:  ProjectChronicLoad(in.CurrentChronic, in.Trends.CTLRampPerWeek, 4),
		ChronicIn6Weeks:  ProjectChronicLoad(in.CurrentChronic, in.Trends.CTLRampPerWeek, 6),
		Confidence:       confidence,
		ConfidenceLabel:  label,
		Assumptions:      assumptions,
		MonthlyChangePct: monthly,
		Volatility:       in.Trends.VolatilityFactor,
	}
}

// ProjectionSummary returns a headline and a one-paragraph explanation of the
// 6-week outlook
func ProjectionSummary(p Projection, currentFTP int, trends TrendMetrics) (string, string) {
	gain := p.FTPIn6Weeks - currentFTP

	switch {
	case p.Volatility > 0.35 || p.Confidence < 60:
		return "High Volatility / Low Confidence", fmt.Sprintf(
			"Training variability is high; projection confidence %d%%. Normalize weekly TSS to improve predictability.",
			p.Confidence)

	case gain > 5:
		efficiency := "stable"
		if trends.HRE30dChangePct > 0 {
			efficiency = "improving"
		}
		msg := fmt.Sprintf(
			"At %+.1f CTL/wk and %s HR efficiency (%+.1f%%), FTP is projected +%d W in 6 weeks (confidence %d%%).",
			trends.CTLRampPerWeek, efficiency, trends.HRE30dChangePct, gain, p.Confidence)
		if p.MonthlyChangePct > 2 {
			msg += " Keep the Z2/Z3 base with one Z4 focus day."
		}
		return "Projected Build", msg

	case abs(gain) <= 2:
		return "Balanced", fmt.Sprintf(
			"Stable load and efficiency; FTP expected to hold ±%d W in 6 weeks (confidence %d%%). Progress comes from consistency.",
			abs(gain), p.Confidence)

	default:
		return "Maintenance Phase", fmt.Sprintf(
			"Current training pattern projects %+d W in 6 weeks. Consider adding stimulus if building is the goal.",
			gain)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
