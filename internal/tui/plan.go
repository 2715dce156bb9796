package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ridecoach/internal/analysis"
	"ridecoach/internal/catalog"
	"ridecoach/internal/service"
	"ridecoach/internal/store"
)

const plannableWeeks = 4

// PlanModel shows and edits the weekly schedule and its recommended workouts
type PlanModel struct {
	plans     *service.PlanService
	athleteID int64
	weeks     []time.Time
	week      int

	plan    *store.WeeklyPlan
	recs    []store.Recommendation
	table   table.Model
	input   textinput.Model
	editing bool
	loading bool
	err     error
	notice  string
}

var recommendationColumns = []table.Column{
	{Title: "Day", Width: 10},
	{Title: "Type", Width: 10},
	{Title: "Planned", Width: 8},
	{Title: "Target", Width: 6},
	{Title: "Workout", Width: 30},
	{Title: "Length", Width: 7},
	{Title: "Stress", Width: 6},
}

// NewPlanModel creates a plan screen starting at the current week
func NewPlanModel(ps *service.PlanService, athleteID int64) PlanModel {
	t := table.New(
		table.WithColumns(recommendationColumns),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(accentColor)
	styles.Selected = styles.Selected.Foreground(textColor).Background(accentColor)
	t.SetStyles(styles)

	in := textinput.New()
	in.Placeholder = "60,0,45,0,90,0,0"
	in.Prompt = "Minutes per day (Sun-Sat): "
	in.CharLimit = 40
	in.Width = 30

	return PlanModel{
		plans:     ps,
		athleteID: athleteID,
		weeks:     analysis.NextWeekStarts(time.Now(), plannableWeeks),
		table:     t,
		input:     in,
		loading:   true,
	}
}

// Editing reports whether keystrokes go to the duration input
func (m PlanModel) Editing() bool {
	return m.editing
}

// Init initializes the plan screen
func (m PlanModel) Init() tea.Cmd {
	return m.load
}

type planLoadedMsg struct {
	plan   *store.WeeklyPlan
	recs   []store.Recommendation
	err    error
	notice string
}

func (m PlanModel) load() tea.Msg {
	plan, recs, err := m.plans.CurrentRecommendations(context.Background(), m.athleteID, m.weeks[m.week])
	return planLoadedMsg{plan: plan, recs: recs, err: err}
}

func (m PlanModel) save(durations []int) tea.Cmd {
	weekStart := m.weeks[m.week]
	return func() tea.Msg {
		planned, err := m.plans.PlanWeek(context.Background(), m.athleteID, weekStart, service.SessionCount(durations), durations)
		if err != nil {
			return planLoadedMsg{err: err}
		}
		return planLoadedMsg{
			plan:   planned.Plan,
			recs:   planned.Recommendations,
			notice: fmt.Sprintf("Primary focus: %s, secondary: %s", planned.Needs.Primary, planned.Needs.Secondary),
		}
	}
}

// Update handles messages
func (m PlanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case planLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.notice = msg.notice
		if msg.err == nil {
			m.plan = msg.plan
			m.recs = msg.recs
			m.table.SetRows(recommendationRows(m.weeks[m.week], msg.recs))
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		switch msg.String() {
		case "left", "h":
			if m.week > 0 {
				m.week--
				m.loading = true
				return m, m.load
			}
		case "right", "l":
			if m.week < len(m.weeks)-1 {
				m.week++
				m.loading = true
				return m, m.load
			}
		case "e":
			m.editing = true
			m.err = nil
			if m.plan != nil {
				m.input.SetValue(joinDurations(m.plan.SessionDurations))
			}
			return m, m.input.Focus()
		case "g":
			if m.plan == nil {
				m.err = errors.New("no schedule for this week yet, press e to enter one")
				return m, nil
			}
			m.loading = true
			return m, m.save(m.plan.SessionDurations)
		case "r":
			m.loading = true
			return m, m.load
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m PlanModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		durations, err := service.ParseDurations(m.input.Value())
		if err == nil {
			_, err = service.ValidateSchedule(service.SessionCount(durations), durations)
		}
		if err != nil {
			m.err = err
			return m, nil
		}
		m.editing = false
		m.input.Blur()
		m.loading = true
		return m, m.save(durations)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func recommendationRows(weekStart time.Time, recs []store.Recommendation) []table.Row {
	rows := make([]table.Row, 0, len(recs))
	for _, r := range recs {
		day := weekStart.AddDate(0, 0, r.SessionNumber-1)
		rows = append(rows, table.Row{
			day.Format("Mon Jan 2"),
			r.Category,
			formatMinutes(r.DurationMinutes),
			strconv.Itoa(r.TargetStress),
			truncateName(r.WorkoutName, 30),
			formatMinutes(r.WorkoutDuration),
			strconv.Itoa(r.WorkoutStress),
		})
	}
	return rows
}

func joinDurations(durations []int) string {
	parts := make([]string, len(durations))
	for i, d := range durations {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// View renders the plan screen
func (m PlanModel) View() string {
	weekStart := m.weeks[m.week]
	title := cardTitleStyle.Render(fmt.Sprintf("%s · %s", analysis.WeekLabel(weekStart, time.Now()), analysis.FormatWeekRange(weekStart)))
	sections := []string{title}

	switch {
	case m.loading:
		sections = append(sections, "  Working...")
	case m.plan == nil:
		sections = append(sections, mutedStyle.Render("  No schedule for this week. Press e to enter your available minutes per day."))
	default:
		sections = append(sections,
			RenderMetric("Sessions", strconv.Itoa(m.plan.SessionCount)),
			RenderMetric("Total time", formatMinutes(m.plan.PlannedMinutes())),
			"",
			m.table.View(),
		)
		if i := m.table.Cursor(); i >= 0 && i < len(m.recs) {
			r := m.recs[i]
			sections = append(sections,
				"",
				lipgloss.NewStyle().Width(90).Render(r.Reason),
				mutedStyle.Render(r.WorkoutURL),
			)
		}
	}

	if m.editing {
		sections = append(sections, "", m.input.View(), mutedStyle.Render("  enter: save · esc: cancel · 0 for rest days"))
	}
	if m.notice != "" {
		sections = append(sections, successStyle.Render(m.notice))
	}
	if m.err != nil {
		msg := m.err.Error()
		if errors.Is(m.err, catalog.ErrCatalogExhausted) {
			msg = "The workout catalog is empty. Import workouts with 'ridecoach import-workouts'."
		}
		sections = append(sections, errorStyle.Render("  "+msg))
	}

	sections = append(sections, statusStyle.Render("←/→: change week · e: edit schedule · g: regenerate · r: reload"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
