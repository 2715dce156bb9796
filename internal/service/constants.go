package service

const (
	// Activity history windows
	InsightsHistoryDays = 90
	ActualStressDays    = 7
	ChartWeeks          = 12
	LoadTrendDays       = 42

	// Planned stress is estimated at a moderate 70 per hour
	PlannedStressPerHour = 70

	// Display limits
	RecentActivitiesLimit = 10

	// A week has at most seven training days
	MaxDaysPerWeek = 7
)
