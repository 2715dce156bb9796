package catalog

import "ridecoach/internal/store"

// Fallback is the built-in catalog used until real workouts are imported
var Fallback = []store.Workout{
	{Name: "Easy Spin", URL: "https://whatsonzwift.com/workouts/easy-spin", DurationMinutes: 30, Category: "Recovery", Stress: 20,
		Description: "Light spinning at 50-60% FTP. Perfect for active recovery."},
	{Name: "Recovery Ride", URL: "https://whatsonzwift.com/workouts/recovery-ride", DurationMinutes: 45, Category: "Recovery", Stress: 28,
		Description: "Easy-paced recovery ride to promote blood flow and adaptation."},

	{Name: "Foundation", URL: "https://whatsonzwift.com/workouts/foundation", DurationMinutes: 60, Category: "Endurance", Stress: 55,
		Description: "Steady endurance ride at 65-75% FTP to build aerobic base."},
	{Name: "Long Steady", URL: "https://whatsonzwift.com/workouts/long-steady", DurationMinutes: 90, Category: "Endurance", Stress: 75,
		Description: "Extended endurance session for building aerobic capacity."},
	{Name: "Aerobic Ride", URL: "https://whatsonzwift.com/workouts/aerobic-ride", DurationMinutes: 75, Category: "Endurance", Stress: 65,
		Description: "Comfortable aerobic pace with slight variations in intensity."},

	{Name: "Tempo Builder", URL: "https://whatsonzwift.com/workouts/tempo-builder", DurationMinutes: 60, Category: "Tempo", Stress: 70,
		Description: "3x10min at 80-85% FTP. Builds sustainable power."},
	{Name: "Sweet Spot Short", URL: "https://whatsonzwift.com/workouts/sweet-spot-short", DurationMinutes: 45, Category: "Tempo", Stress: 60,
		Description: "2x15min at 88-93% FTP. Efficient fitness building."},
	{Name: "Sweet Spot", URL: "https://whatsonzwift.com/workouts/sweet-spot", DurationMinutes: 60, Category: "Tempo", Stress: 75,
		Description: "3x12min at 88-93% FTP. The sweet spot for time-crunched athletes."},

	{Name: "FTP Booster", URL: "https://whatsonzwift.com/workouts/ftp-booster", DurationMinutes: 45, Category: "Threshold", Stress: 65,
		Description: "2x12min at 95-100% FTP. Classic threshold intervals."},
	{Name: "Threshold Builder", URL: "https://whatsonzwift.com/workouts/threshold-builder", DurationMinutes: 60, Category: "Threshold", Stress: 80,
		Description: "3x10min at 95-105% FTP with short recoveries."},
	{Name: "Over-Unders", URL: "https://whatsonzwift.com/workouts/over-unders", DurationMinutes: 60, Category: "Threshold", Stress: 85,
		Description: "Alternating intervals above and below FTP. Brutal but effective."},
	{Name: "FTP Test Prep", URL: "https://whatsonzwift.com/workouts/ftp-test-prep", DurationMinutes: 75, Category: "Threshold", Stress: 90,
		Description: "2x20min at FTP. Perfect for testing or improving threshold."},

	{Name: "VO2 Max Short", URL: "https://whatsonzwift.com/workouts/vo2max-short", DurationMinutes: 45, Category: "VO2Max", Stress: 70,
		Description: "5x3min at 110-120% FTP. Improves maximal oxygen uptake."},
	{Name: "VO2 Booster", URL: "https://whatsonzwift.com/workouts/vo2-booster", DurationMinutes: 60, Category: "VO2Max", Stress: 85,
		Description: "6x4min at 110-115% FTP. Classic VO2max development."},
	{Name: "Tabata Intervals", URL: "https://whatsonzwift.com/workouts/tabata", DurationMinutes: 45, Category: "VO2Max", Stress: 75,
		Description: "20 seconds hard, 10 seconds easy. The ultimate HIIT workout."},
	{Name: "Microbursts", URL: "https://whatsonzwift.com/workouts/microbursts", DurationMinutes: 60, Category: "VO2Max", Stress: 80,
		Description: "15 seconds on, 15 seconds off at 150% FTP. Develops peak power."},

	{Name: "Time Crunched 30", URL: "https://whatsonzwift.com/workouts/time-crunched-30", DurationMinutes: 30, Category: "Threshold", Stress: 45,
		Description: "High-efficiency workout for busy athletes. Mix of tempo and threshold."},
	{Name: "Time Crunched 45", URL: "https://whatsonzwift.com/workouts/time-crunched-45", DurationMinutes: 45, Category: "Mixed", Stress: 60,
		Description: "Maximum training stimulus in minimum time. Sweet spot and threshold."},
	{Name: "Pyramid", URL: "https://whatsonzwift.com/workouts/pyramid", DurationMinutes: 60, Category: "Mixed", Stress: 75,
		Description: "Progressive intervals from 1 to 5 minutes and back down."},
	{Name: "The Gorby", URL: "https://whatsonzwift.com/workouts/gorby", DurationMinutes: 90, Category: "Mixed", Stress: 95,
		Description: "Mix of endurance, tempo, and threshold. Complete workout."},
}
