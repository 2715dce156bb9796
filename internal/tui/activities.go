package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ridecoach/internal/service"
)

// ActivitiesModel lists recent activities with their stress and category
type ActivitiesModel struct {
	insights  *service.InsightsService
	athleteID int64
	entries   []service.ActivitySummary
	table     table.Model
	loading   bool
	err       error
}

var activityColumns = []table.Column{
	{Title: "Date", Width: 10},
	{Title: "Name", Width: 26},
	{Title: "Type", Width: 11},
	{Title: "Distance", Width: 9},
	{Title: "Time", Width: 8},
	{Title: "Power", Width: 7},
	{Title: "HR", Width: 5},
	{Title: "Stress", Width: 6},
	{Title: "Category", Width: 10},
}

// NewActivitiesModel creates a new activities model
func NewActivitiesModel(is *service.InsightsService, athleteID int64, height int) ActivitiesModel {
	t := table.New(
		table.WithColumns(activityColumns),
		table.WithFocused(true),
		table.WithHeight(tableHeight(height)),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(mutedColor).
		BorderBottom(true).
		Bold(true).
		Foreground(accentColor)
	styles.Selected = styles.Selected.
		Foreground(textColor).
		Background(accentColor).
		Bold(true)
	t.SetStyles(styles)

	return ActivitiesModel{
		insights:  is,
		athleteID: athleteID,
		table:     t,
		loading:   true,
	}
}

func tableHeight(windowHeight int) int {
	if windowHeight <= 0 {
		return 15
	}
	return max(5, windowHeight-10)
}

// Init initializes the activities screen
func (m ActivitiesModel) Init() tea.Cmd {
	return m.load
}

type activitiesLoadedMsg struct {
	entries []service.ActivitySummary
	err     error
}

func (m ActivitiesModel) load() tea.Msg {
	entries, err := m.insights.ActivityLog(context.Background(), m.athleteID)
	return activitiesLoadedMsg{entries: entries, err: err}
}

// Update handles messages
func (m ActivitiesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activitiesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.entries = msg.entries
		m.table.SetRows(activityRows(msg.entries))
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(tableHeight(msg.Height))

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.load
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func activityRows(entries []service.ActivitySummary) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		hr := "-"
		if e.AverageHeartrate != nil {
			hr = fmt.Sprintf("%.0f", *e.AverageHeartrate)
		}
		rows = append(rows, table.Row{
			e.StartDate.Local().Format("Mon Jan 02"),
			truncateName(e.Name, 26),
			e.Type,
			formatDistance(e.Distance),
			formatDuration(e.MovingTime),
			formatWatts(e.AverageWatts),
			hr,
			formatStress(e.Stress),
			string(e.Category),
		})
	}
	return rows
}

// View renders the activities list
func (m ActivitiesModel) View() string {
	if m.loading {
		return "\n  Loading activities..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}
	if len(m.entries) == 0 {
		return "\n  No activities found. Press 's' to sync with Strava."
	}

	var total float64
	high := 0
	for _, e := range m.entries {
		total += e.Stress
		if e.Category.HighIntensity() {
			high++
		}
	}

	title := cardTitleStyle.Render(fmt.Sprintf("Activities, last %d days (%d)", service.InsightsHistoryDays, len(m.entries)))
	summary := mutedStyle.Render(fmt.Sprintf("Total stress %s · %d high-intensity sessions · categories relative to current FTP",
		formatStress(total), high))
	help := statusStyle.Render("j/k or ↑/↓: move · r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, title, m.table.View(), summary, help)
}
