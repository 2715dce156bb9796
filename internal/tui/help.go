package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

type keyHelp struct {
	key  string
	desc string
}

var helpSections = []struct {
	title string
	keys  []keyHelp
}{
	{"Navigation", []keyHelp{
		{"1", "Dashboard"},
		{"2", "Weekly plan"},
		{"3", "Activities"},
		{"4 or s", "Sync screen"},
		{"?", "Help (this screen)"},
		{"esc", "Close help"},
		{"q", "Quit"},
	}},
	{"Dashboard", []keyHelp{
		{"r", "Recompute insights"},
		{"↑/↓", "Scroll"},
	}},
	{"Weekly Plan", []keyHelp{
		{"←/→", "Previous / next week"},
		{"e", "Enter minutes per day, 0 for rest"},
		{"g", "Regenerate recommendations"},
		{"↑/↓", "Select a session to see why it was chosen"},
	}},
	{"Sync", []keyHelp{
		{"s / enter", "Start sync"},
	}},
}

var glossary = []keyHelp{
	{"FTP", "Functional threshold power, estimated from your best 20-60 minute efforts."},
	{"Stress (TSS)", "Hours × intensity² × 100. One hour at FTP scores 100."},
	{"CTL (Fitness)", "42-day average of daily stress."},
	{"ATL (Fatigue)", "7-day average of daily stress."},
	{"TSB (Form)", "CTL - ATL. Positive means fresh, negative means fatigued."},
	{"Ramp", "How fast CTL is rising per week. Above 6 is aggressive."},
}

// View renders the help screen
func (m HelpModel) View() string {
	sections := []string{cardTitleStyle.Render("Keyboard Shortcuts")}
	for _, s := range helpSections {
		sections = append(sections, renderHelpSection(s.title, s.keys))
	}

	lines := []string{"", sectionStyle.Render("Terms")}
	for _, g := range glossary {
		lines = append(lines, "  "+helpKeyStyle.Render(g.key), "  "+mutedStyle.Render(g.desc))
	}
	sections = append(sections, strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderHelpSection(title string, keys []keyHelp) string {
	lines := []string{"", sectionStyle.Render(title)}
	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}
	return strings.Join(lines, "\n")
}
