package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ridecoach/internal/service"
)

// SyncModel is the sync screen model
type SyncModel struct {
	syncService *service.SyncService
	rateLimits  func() (short, daily int)
	spinner     spinner.Model

	syncing  bool
	progress service.SyncProgress
	updates  <-chan service.SyncProgress
	finished <-chan SyncDoneMsg

	result *service.SyncResult
	err    error
	done   bool
}

// NewSyncModel creates a new sync model. rateLimits reports the remaining
// Strava requests and may be nil.
func NewSyncModel(ss *service.SyncService, rateLimits func() (int, int)) SyncModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentColor)
	return SyncModel{
		syncService: ss,
		rateLimits:  rateLimits,
		spinner:     s,
	}
}

// Syncing reports whether a sync is in flight
func (m SyncModel) Syncing() bool {
	return m.syncing
}

// Init initializes the sync screen
func (m SyncModel) Init() tea.Cmd {
	return nil
}

// SyncDoneMsg is sent when sync finishes
type SyncDoneMsg struct {
	Result *service.SyncResult
	Err    error
}

type syncProgressMsg service.SyncProgress

// Update handles messages
func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncProgressMsg:
		m.progress = service.SyncProgress(msg)
		return m, waitForSync(m.updates, m.finished)

	case SyncDoneMsg:
		m.syncing = false
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		return m, func() tea.Msg { return SyncCompleteMsg{} }

	case spinner.TickMsg:
		if !m.syncing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !m.syncing {
			switch msg.String() {
			case "enter", "s":
				return m.start()
			}
		}
	}
	return m, nil
}

func (m SyncModel) start() (SyncModel, tea.Cmd) {
	updates := make(chan service.SyncProgress, 16)
	finished := make(chan SyncDoneMsg, 1)
	go func() {
		result, err := m.syncService.Sync(context.Background(), updates)
		finished <- SyncDoneMsg{Result: result, Err: err}
	}()

	m.syncing = true
	m.done = false
	m.err = nil
	m.result = nil
	m.progress = service.SyncProgress{}
	m.updates = updates
	m.finished = finished
	return m, tea.Batch(m.spinner.Tick, waitForSync(updates, finished))
}

// waitForSync relays one progress update, or the final result once the
// sync service closes the progress channel
func waitForSync(updates <-chan service.SyncProgress, finished <-chan SyncDoneMsg) tea.Cmd {
	return func() tea.Msg {
		if p, ok := <-updates; ok {
			return syncProgressMsg(p)
		}
		return <-finished
	}
}

// View renders the sync screen
func (m SyncModel) View() string {
	sections := []string{cardTitleStyle.Render("Strava Sync")}

	switch {
	case m.err != nil:
		msg := m.err.Error()
		if errors.Is(m.err, service.ErrReconnectRequired) {
			msg = "Strava access was revoked or expired. Run 'ridecoach login' to reconnect."
		}
		sections = append(sections,
			errorStyle.Render("  "+msg),
			statusStyle.Render("  Press 's' or Enter to retry"))
	case m.syncing:
		sections = append(sections, m.renderProgress())
	case m.done:
		sections = append(sections, successStyle.Render("  Sync complete!"), m.renderSummary())
	default:
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SyncModel) renderStartPrompt() string {
	lines := []string{
		"  Fetch recent rides from Strava and refresh your fitness numbers.",
		"",
	}
	if m.rateLimits != nil {
		short, daily := m.rateLimits()
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("  API requests left: %d (15 min), %d (today)", short, daily)), "")
	}
	lines = append(lines, statusStyle.Render("  Press 's' or Enter to start sync"))
	return strings.Join(lines, "\n")
}

func (m SyncModel) renderProgress() string {
	p := m.progress
	var step string
	switch p.Phase {
	case service.PhaseActivities:
		step = fmt.Sprintf("Fetching activities (%d so far)", p.Completed)
	case service.PhaseStore:
		step = fmt.Sprintf("Saving activities %d/%d", p.Completed, p.Total)
	default:
		step = "Checking credentials"
	}

	lines := []string{"  " + m.spinner.View() + " " + step}
	if p.Phase == service.PhaseStore && p.Total > 0 {
		lines = append(lines, "  "+RenderProgressBar(float64(p.Completed)/float64(p.Total), 40))
	}
	return strings.Join(lines, "\n")
}

func (m SyncModel) renderSummary() string {
	r := m.result
	if r == nil {
		return ""
	}

	var lines []string
	if r.ActivitiesStored > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d activities synced in %s", r.ActivitiesStored, r.Duration.Round(100*time.Millisecond))))
	} else {
		lines = append(lines, mutedStyle.Render("  No activities in the lookback window"))
	}
	if r.TokenRefreshed {
		lines = append(lines, mutedStyle.Render("  Access token refreshed"))
	}
	if failures := r.Failures(); len(failures) > 0 {
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d activities could not be saved", len(failures))))
	}
	lines = append(lines, "", statusStyle.Render("  Press '1' to go to dashboard"))
	return strings.Join(lines, "\n")
}
