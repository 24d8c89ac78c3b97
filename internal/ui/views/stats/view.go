package stats

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statsdto "medita/internal/modules/stats/dto"
	"medita/internal/ui/components"
	"medita/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type StatsPort interface {
	Report(ctx context.Context, period string) (statsdto.ReportOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type ReportLoadedMsg struct {
	Report statsdto.ReportOutput
	Err    error
}

var periods = []string{"daily", "weekly", "monthly"}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    StatsPort
	period  string
	report  statsdto.ReportOutput
	err     error
	goal    progress.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port StatsPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{
		port:    port,
		period:  "daily",
		goal:    progress.New(progress.WithSolidFill(string(theme.Green))),
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.goal.Width = min(m.width/2, 50)

	case ReportLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.report = msg.Report
		}

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "d":
			return m.switchPeriod("daily")
		case "w":
			return m.switchPeriod("weekly")
		case "m":
			return m.switchPeriod("monthly")
		case "p":
			return m.switchPeriod(nextPeriod(m.period))
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Computing statistics…")
	}
	if m.err != nil {
		return theme.Error.Render("statistics unavailable: " + m.err.Error())
	}

	r := m.report
	kpis := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total", components.FormatMinutes(int64(r.TotalTime.Seconds()))),
		card("Sessions", fmt.Sprintf("%d", r.Count)),
		card("Average", components.FormatMinutes(int64(r.AverageDuration.Seconds()))),
		card("Streak", fmt.Sprintf("%d days", r.CurrentStreak)),
		card("Longest", fmt.Sprintf("%d days", r.LongestStreak)),
	)

	var goal string
	if r.DailyGoalMinutes > 0 {
		goal = theme.Title.Render("Today") + "  " +
			theme.Muted.Render(fmt.Sprintf("%s of %dm goal", components.FormatMinutes(r.TodaySeconds), r.DailyGoalMinutes)) + "\n" +
			m.goal.ViewAs(r.GoalPercent/100)
	} else {
		goal = theme.Title.Render("Today") + "  " + theme.Muted.Render(components.FormatMinutes(r.TodaySeconds))
	}

	rows := make([]components.BarRow, 0, len(r.Buckets))
	for _, b := range r.Buckets {
		rows = append(rows, components.BarRow{Label: b.Key, Seconds: b.Seconds})
	}
	chartRows := m.height - lipgloss.Height(kpis) - 8
	chart := theme.Title.Render("Time per "+periodNoun(m.period)) + "\n" +
		components.BarChart(rows, m.width-4, max(chartRows, 3))

	footer := theme.Muted.Render("d/w/m: daily · weekly · monthly   p: cycle")
	return lipgloss.JoinVertical(lipgloss.Left, kpis, "", goal, "", chart, "", footer)
}

// Reload recomputes the report for the current period.
func (m Model) Reload() tea.Cmd {
	period := m.period
	return func() tea.Msg {
		report, err := m.port.Report(context.Background(), period)
		return ReportLoadedMsg{Report: report, Err: err}
	}
}

// Period returns the bucket granularity on screen.
func (m Model) Period() string { return m.period }

// SetPeriod changes the granularity and returns the reload command.
func (m *Model) SetPeriod(period string) tea.Cmd {
	m.period = period
	return m.Reload()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) switchPeriod(period string) (Model, tea.Cmd) {
	if period == m.period {
		return m, nil
	}
	cmd := m.SetPeriod(period)
	return m, cmd
}

func nextPeriod(current string) string {
	for i, p := range periods {
		if p == current {
			return periods[(i+1)%len(periods)]
		}
	}
	return periods[0]
}

func periodNoun(period string) string {
	switch period {
	case "weekly":
		return "week"
	case "monthly":
		return "month"
	default:
		return "day"
	}
}

func card(label, value string) string {
	body := theme.Muted.Render(label) + "\n" + theme.Big.Render(value)
	return theme.Pane.Padding(0, 2).MarginRight(1).Render(body)
}
