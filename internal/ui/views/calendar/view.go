package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statsdto "medita/internal/modules/stats/dto"
	"medita/internal/ui/components"
	"medita/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type CalendarPort interface {
	Calendar(ctx context.Context, year int, month time.Month) (statsdto.CalendarOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type MonthLoadedMsg struct {
	Month statsdto.CalendarOutput
	Err   error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port        CalendarPort
	year        int
	month       time.Month
	data        statsdto.CalendarOutput
	selected    int
	goalMinutes int
	err         error
	width       int
	height      int
}

// New opens on the month containing now.
func New(port CalendarPort, now time.Time, goalMinutes int) Model {
	return Model{port: port, year: now.Year(), month: now.Month(), selected: now.Day(), goalMinutes: goalMinutes}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case MonthLoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.data = msg.Month
			m.selected = clamp(m.selected, 1, len(msg.Month.Days))
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "[", "pgup":
			return m, m.shift(-1)
		case "]", "pgdown":
			return m, m.shift(1)
		case "left", "h":
			m.selected = clamp(m.selected-1, 1, len(m.data.Days))
		case "right", "l":
			m.selected = clamp(m.selected+1, 1, len(m.data.Days))
		case "up", "k":
			m.selected = clamp(m.selected-7, 1, len(m.data.Days))
		case "down", "j":
			m.selected = clamp(m.selected+7, 1, len(m.data.Days))
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Error.Render("calendar unavailable: " + m.err.Error())
	}
	header := theme.Title.Render(fmt.Sprintf("%s %d", m.month, m.year))
	grid := m.renderGrid()
	detail := m.renderDetail()
	summary := theme.Muted.Render(fmt.Sprintf("%d active days · %s this month",
		m.data.ActiveDays, components.FormatMinutes(m.data.TotalSeconds)))
	footer := theme.Muted.Render("[/]: month   arrows: day")

	body := lipgloss.JoinHorizontal(lipgloss.Top, grid, "    ", detail)
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", summary, footer)
}

// Reload fetches the month on screen.
func (m Model) Reload() tea.Cmd {
	year, month := m.year, m.month
	return func() tea.Msg {
		out, err := m.port.Calendar(context.Background(), year, month)
		return MonthLoadedMsg{Month: out, Err: err}
	}
}

// Show jumps to a month and returns the reload command.
func (m *Model) Show(year int, month time.Month) tea.Cmd {
	m.year, m.month = year, month
	return m.Reload()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) shift(delta int) tea.Cmd {
	first := time.Date(m.year, m.month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return m.Show(first.Year(), first.Month())
}

// renderGrid lays the month out Monday first, one cell per day.
func (m Model) renderGrid() string {
	var sb strings.Builder
	sb.WriteString(theme.Muted.Render(" Mo  Tu  We  Th  Fr  Sa  Su") + "\n")
	if len(m.data.Days) == 0 {
		return sb.String()
	}
	offset := (int(m.data.Days[0].Weekday) + 6) % 7
	sb.WriteString(strings.Repeat("    ", offset))
	for i, day := range m.data.Days {
		style := theme.Heat(int(day.Seconds/60), m.goalMinutes)
		if day.Sessions > 0 && day.Seconds < 60 {
			style = theme.Heat(1, m.goalMinutes)
		}
		cell := fmt.Sprintf("%3d", day.Day)
		if day.Day == m.selected {
			style = style.Reverse(true)
		}
		sb.WriteString(style.Render(cell) + " ")
		if (offset+i+1)%7 == 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m Model) renderDetail() string {
	if m.selected < 1 || m.selected > len(m.data.Days) {
		return ""
	}
	day := m.data.Days[m.selected-1]
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(day.Date) + "\n")
	if day.Sessions == 0 {
		sb.WriteString(theme.Muted.Render("no sessions"))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("%d session", day.Sessions))
	if day.Sessions != 1 {
		sb.WriteString("s")
	}
	sb.WriteString("\n" + components.FormatMinutes(day.Seconds))
	return sb.String()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
