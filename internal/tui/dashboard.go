package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"ridecoach/internal/service"
)

// DashboardModel shows fitness, readiness and projections
type DashboardModel struct {
	insights  *service.InsightsService
	athleteID int64
	data      *service.Insights
	viewport  viewport.Model
	loading   bool
	err       error
	ready     bool
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(is *service.InsightsService, athleteID int64, width, height int) DashboardModel {
	m := DashboardModel{
		insights:  is,
		athleteID: athleteID,
		loading:   true,
	}
	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.ready = true
	}
	return m
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

type dashboardDataMsg struct {
	data *service.Insights
	err  error
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.insights.GetInsights(context.Background(), m.athleteID)
	return dashboardDataMsg{data: data, err: err}
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.data != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.loadData
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the dashboard
func (m DashboardModel) View() string {
	switch {
	case m.loading:
		return "\n  Loading dashboard..."
	case m.err != nil:
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	case m.data == nil:
		return "\n  No data available. Press 's' to sync with Strava."
	case !m.ready:
		return m.renderContent()
	}

	footer := statusStyle.Render("r refresh · ↑/↓ scroll · s sync")
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m DashboardModel) renderContent() string {
	if m.data == nil {
		return ""
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, m.renderFitnessCard(), " ", m.renderReadinessCard())
	sections := []string{
		top,
		m.renderProjectionCard(),
		m.renderStressChart(),
		m.renderLoadChart(),
		m.renderRecentRides(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderFitnessCard() string {
	d := m.data
	ftpNote := fmt.Sprintf("%s, %d%% confidence", d.FTP.Source, d.FTP.Confidence)
	if d.FTP.SampleSize > 0 {
		ftpNote += fmt.Sprintf(", %d rides", d.FTP.SampleSize)
	}

	lines := []string{
		cardTitleStyle.Render("Fitness"),
		RenderMetric("FTP", fmt.Sprintf("%d W", d.FTP.Value)),
		mutedStyle.Render(ftpNote),
		"",
		RenderMetric("Fitness (CTL)", fmt.Sprintf("%.0f", d.Load.Chronic)),
		RenderMetric("Fatigue (ATL)", fmt.Sprintf("%.0f", d.Load.Acute)),
		RenderMetric("Form (TSB)", fmt.Sprintf("%.0f", d.Load.Balance)),
		RenderMetric("Ramp", formatSigned(d.Load.Ramp), "CTL/week"),
		"",
		mutedStyle.Render(d.Form),
	}
	return cardStyle.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m DashboardModel) renderReadinessCard() string {
	d := m.data
	lines := []string{
		cardTitleStyle.Render("Readiness"),
		RenderMetric("Status", statusStyleFor(d.Readiness.Status).Render(d.Readiness.Status)),
		mutedStyle.Render(d.Readiness.Message),
		"",
	}

	if d.Plan != nil {
		lines = append(lines,
			RenderMetric("Compliance", fmt.Sprintf("%d%%", d.Compliance.Percent), d.Compliance.Status),
			RenderMetric("Stress", fmt.Sprintf("%s / %s", formatStress(d.Compliance.ActualStress), formatStress(d.Compliance.PlannedStress))),
			RenderMetric("Hours", fmt.Sprintf("%.1f / %.1f", d.Compliance.ActualHours, d.Compliance.PlannedHours)),
		)
	} else {
		lines = append(lines,
			RenderMetric("Last 7 days", formatStress(d.Compliance.ActualStress), "stress"),
			mutedStyle.Render("No week planned yet. Press 2 to plan."),
		)
	}

	lines = append(lines, "", sectionStyle.Render(fmt.Sprintf("Next week: %s, %d sessions", formatMinutes(d.AdaptivePlan.TotalDuration), len(d.AdaptivePlan.Sessions))))
	for _, s := range d.AdaptivePlan.Sessions {
		lines = append(lines, fmt.Sprintf("  %-22s %-4s %6s", truncateName(s.Name, 22), s.Zone, formatMinutes(s.DurationMinutes)))
	}

	return cardStyle.Width(46).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m DashboardModel) renderProjectionCard() string {
	d := m.data
	p := d.Projection
	lines := []string{
		cardTitleStyle.Render("Outlook: " + d.ProjectionHeadline),
		lipgloss.NewStyle().Width(82).Render(d.ProjectionMessage),
		"",
		RenderMetric("FTP in 4 / 6 wk", fmt.Sprintf("%d / %d W", p.FTPIn4Weeks, p.FTPIn6Weeks)),
		RenderMetric("CTL in 4 / 6 wk", fmt.Sprintf("%d / %d", p.ChronicIn4Weeks, p.ChronicIn6Weeks)),
		RenderMetric("Confidence", fmt.Sprintf("%d%%", p.Confidence), p.ConfidenceLabel),
	}
	for _, a := range p.Assumptions {
		lines = append(lines, mutedStyle.Render("• "+a))
	}
	lines = append(lines, "", mutedStyle.Render(d.Summary))
	return cardStyle.Width(88).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m DashboardModel) renderStressChart() string {
	title := cardTitleStyle.Render(fmt.Sprintf("Weekly Stress - last %d weeks", len(m.data.WeeklyStress)))

	values := make([]float64, len(m.data.WeeklyStress))
	empty := true
	for i, w := range m.data.WeeklyStress {
		values[i] = w.Stress
		if w.Stress > 0 {
			empty = false
		}
	}
	if empty {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("No training stress recorded.")))
	}

	first := m.data.WeeklyStress[0].Label
	last := m.data.WeeklyStress[len(m.data.WeeklyStress)-1].Label
	graph := asciigraph.Plot(values,
		asciigraph.Height(8),
		asciigraph.Width(72),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("%s → %s", first, last)),
	)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m DashboardModel) renderLoadChart() string {
	if len(m.data.LoadTrend) < 2 {
		return ""
	}
	title := cardTitleStyle.Render("Fitness and Fatigue")

	chronic := make([]float64, len(m.data.LoadTrend))
	acute := make([]float64, len(m.data.LoadTrend))
	for i, p := range m.data.LoadTrend {
		chronic[i] = p.Chronic
		acute[i] = p.Acute
	}

	graph := asciigraph.PlotMany([][]float64{chronic, acute},
		asciigraph.Height(8),
		asciigraph.Width(72),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.Caption("CTL (green) vs ATL (red)"),
	)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m DashboardModel) renderRecentRides() string {
	title := cardTitleStyle.Render("Recent Activities")
	if len(m.data.RecentActivities) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No activities yet"))
	}

	rows := []string{mutedStyle.Render(fmt.Sprintf("%-12s  %-24s  %9s  %8s  %7s", "When", "Name", "Distance", "Time", "Power"))}
	for _, a := range m.data.RecentActivities {
		rows = append(rows, fmt.Sprintf("%-12s  %-24s  %9s  %8s  %7s",
			truncateName(formatAgo(a.StartDate), 12),
			truncateName(a.Name, 24),
			formatDistance(a.Distance),
			formatDuration(a.MovingTime),
			formatWatts(a.AverageWatts),
		))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(rows, "\n")))
}
