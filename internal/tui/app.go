package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ridecoach/internal/service"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenPlan
	ScreenActivities
	ScreenSync
	ScreenHelp
)

// Services bundles what the screens read and write
type Services struct {
	Insights   *service.InsightsService
	Plans      *service.PlanService
	Sync       *service.SyncService
	RateLimits func() (short, daily int)
}

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	dashboard  DashboardModel
	plan       PlanModel
	activities ActivitiesModel
	syncScreen SyncModel
	help       HelpModel

	services  Services
	athleteID int64

	width  int
	height int
}

// NewApp creates the root model for one athlete
func NewApp(services Services, athleteID int64) *App {
	return &App{
		screen:     ScreenDashboard,
		services:   services,
		athleteID:  athleteID,
		dashboard:  NewDashboardModel(services.Insights, athleteID, 0, 0),
		plan:       NewPlanModel(services.Plans, athleteID),
		activities: NewActivitiesModel(services.Insights, athleteID, 0),
		syncScreen: NewSyncModel(services.Sync, services.RateLimits),
		help:       NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// capturesKeys reports whether the current screen needs raw keystrokes
func (a *App) capturesKeys() bool {
	return a.syncScreen.Syncing() || (a.screen == ScreenPlan && a.plan.Editing())
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.capturesKeys() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				a.screen = ScreenDashboard
				a.dashboard = NewDashboardModel(a.services.Insights, a.athleteID, a.width, a.height)
				return a, a.dashboard.Init()
			case "2":
				a.screen = ScreenPlan
				return a, a.plan.Init()
			case "3":
				a.screen = ScreenActivities
				return a, a.activities.Init()
			case "4", "s":
				if a.screen != ScreenSync {
					a.screen = ScreenSync
					return a, a.syncScreen.Init()
				}
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// every screen keeps its layout current, not only the visible one
		var m tea.Model
		m, _ = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
		m, _ = a.activities.Update(msg)
		a.activities = m.(ActivitiesModel)
		return a, nil

	case SyncCompleteMsg:
		// refresh the data the sync changed while staying on the summary
		a.dashboard = NewDashboardModel(a.services.Insights, a.athleteID, a.width, a.height)
		return a, tea.Batch(a.dashboard.Init(), a.activities.Init())
	}

	return a, a.updateScreen(msg)
}

// updateScreen routes msg to the screen that owns it
func (a *App) updateScreen(msg tea.Msg) tea.Cmd {
	var m tea.Model
	var cmd tea.Cmd

	switch msg.(type) {
	case dashboardDataMsg:
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
		return cmd
	case activitiesLoadedMsg:
		m, cmd = a.activities.Update(msg)
		a.activities = m.(ActivitiesModel)
		return cmd
	case planLoadedMsg:
		m, cmd = a.plan.Update(msg)
		a.plan = m.(PlanModel)
		return cmd
	case syncProgressMsg, SyncDoneMsg:
		m, cmd = a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
		return cmd
	}

	switch a.screen {
	case ScreenDashboard:
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenPlan:
		m, cmd = a.plan.Update(msg)
		a.plan = m.(PlanModel)
	case ScreenActivities:
		m, cmd = a.activities.Update(msg)
		a.activities = m.(ActivitiesModel)
	case ScreenSync:
		m, cmd = a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
	case ScreenHelp:
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}
	return cmd
}

// View renders the app
func (a *App) View() string {
	var content string
	switch a.screen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenPlan:
		content = a.plan.View()
	case ScreenActivities:
		content = a.activities.View()
	case ScreenSync:
		content = a.syncScreen.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), a.renderNav(), content)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("ridecoach · training load & weekly planning")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "Plan", ScreenPlan},
		{"3", "Activities", ScreenActivities},
		{"4", "Sync", ScreenSync},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}
		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}
	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

// SyncCompleteMsg is sent when a sync succeeds
type SyncCompleteMsg struct{}
