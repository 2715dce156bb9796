package analysis

import (
	"fmt"
	"math"
	"time"
)

// WeekStart returns midnight of the Sunday on or before t, in t's location
func WeekStart(t time.Time) time.Time {
	d := dayStart(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// NextWeekStarts returns the start of the current week and the n-1 weeks after it
func NextWeekStarts(now time.Time, n int) []time.Time {
	start := WeekStart(now)
	weeks := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		weeks = append(weeks, start.AddDate(0, 0, 7*i))
	}
	return weeks
}

// FormatWeekRange renders a week as "Mar 3-9" or "Mar 31 - Apr 6"
func FormatWeekRange(weekStart time.Time) string {
	end := weekStart.AddDate(0, 0, 6)
	if weekStart.Month() == end.Month() {
		return fmt.Sprintf("%s %d-%d", weekStart.Format("Jan"), weekStart.Day(), end.Day())
	}
	return fmt.Sprintf("%s %d - %s %d", weekStart.Format("Jan"), weekStart.Day(), end.Format("Jan"), end.Day())
}

// WeekLabel names a week relative to now: "This Week", "Next Week",
// "Week N" for later weeks, or its date range for past weeks
func WeekLabel(weekStart, now time.Time) string {
	current := WeekStart(now)
	diff := int(math.Round(weekStart.Sub(current).Hours() / (7 * 24)))

	switch {
	case diff == 0:
		return "This Week"
	case diff == 1:
		return "Next Week"
	case diff > 1:
		return fmt.Sprintf("Week %d", diff+1)
	default:
		return FormatWeekRange(weekStart)
	}
}
