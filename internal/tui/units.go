package tui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"ridecoach/internal/analysis"
)

const metersPerKm = 1000.0

func formatDistance(meters float64) string {
	return fmt.Sprintf("%.1f km", meters/metersPerKm)
}

func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func formatMinutes(minutes int) string {
	return formatDuration(minutes * 60)
}

func formatWatts(w *float64) string {
	if w == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f W", *w)
}

func formatSigned(v float64) string {
	return fmt.Sprintf("%+.1f", v)
}

// formatStress renders an unrounded stress score
func formatStress(score float64) string {
	return humanize.Comma(int64(analysis.RoundStress(score)))
}

// formatAgo renders a timestamp relative to now ("3 days ago"), or "never"
func formatAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

func truncateName(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
