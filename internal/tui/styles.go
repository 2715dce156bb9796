package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	accentColor  = lipgloss.Color("#F97316") // Orange
	freshColor   = lipgloss.Color("#22C55E") // Green
	cautionColor = lipgloss.Color("#EAB308") // Yellow
	dangerColor  = lipgloss.Color("#EF4444") // Red
	mutedColor   = lipgloss.Color("#6B7280") // Gray
	textColor    = lipgloss.Color("#F9FAFB") // Light gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(accentColor).
			Padding(0, 1).
			MarginBottom(1)

	navStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginBottom(1)

	navActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	navInactiveStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginBottom(1)

	metricLabelStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Width(18)

	metricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(textColor)

	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	errorStyle   = lipgloss.NewStyle().Foreground(dangerColor)
	successStyle = lipgloss.NewStyle().Foreground(freshColor)
	warningStyle = lipgloss.NewStyle().Foreground(cautionColor)

	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(freshColor)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(mutedColor)

	progressFullStyle  = lipgloss.NewStyle().Foreground(freshColor)
	progressEmptyStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

// RenderMetric renders a label/value pair with an optional colored note
func RenderMetric(label, value string, note ...string) string {
	parts := []string{metricLabelStyle.Render(label), metricValueStyle.Render(value)}
	if len(note) > 0 && note[0] != "" {
		parts = append(parts, mutedStyle.Render(" "+note[0]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

// statusStyleFor colors readiness and compliance states
func statusStyleFor(status string) lipgloss.Style {
	switch status {
	case "fresh", "on-track":
		return successStyle
	case "fatigued", "over":
		return errorStyle
	case "under":
		return warningStyle
	default:
		return metricValueStyle
	}
}

// RenderProgressBar renders fraction (0-1) as a bar of the given width
func RenderProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(filled, width))
	return progressFullStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// RenderKeyHelp renders a key binding help item
func RenderKeyHelp(key, desc string) string {
	return helpKeyStyle.Render(key) + " " + helpDescStyle.Render(desc)
}
