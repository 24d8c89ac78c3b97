package timer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "medita/internal/modules/session/dto"
	apperrors "medita/internal/platform/errors"
	"medita/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type TimerPort interface {
	GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type ActiveLoadedMsg struct {
	Active sessiondto.ActiveSessionOutput
	Err    error
}

type tickMsg time.Time

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port           TimerPort
	active         sessiondto.ActiveSessionOutput
	hasActive      bool
	defaultMinutes int
	loc            *time.Location
	now            time.Time
	bar            progress.Model
	err            error
	width          int
	height         int
}

// New renders clock times in loc; nil means the process zone.
func New(port TimerPort, defaultMinutes int, loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	bar := progress.New(progress.WithGradient(string(theme.Teal), string(theme.Lavender)), progress.WithoutPercentage())
	return Model{port: port, defaultMinutes: defaultMinutes, loc: loc, bar: bar, now: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Refresh(), tick())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(m.width-8, 60)

	case ActiveLoadedMsg:
		m.err = nil
		switch {
		case msg.Err == nil:
			m.active = msg.Active
			m.hasActive = true
		case errors.Is(msg.Err, apperrors.ErrNoActiveSession):
			m.active = sessiondto.ActiveSessionOutput{}
			m.hasActive = false
		default:
			m.err = msg.Err
		}

	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Timer") + "\n\n")

	if m.err != nil {
		sb.WriteString(theme.Error.Render(m.err.Error()) + "\n")
	}

	if !m.hasActive {
		sb.WriteString(theme.Big.Render(clock(time.Duration(m.defaultMinutes)*time.Minute)) + "\n\n")
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("space: start a %d minute sit   :timer:start <minutes> for another length", m.defaultMinutes)))
		return m.frame(sb.String())
	}

	elapsed, remaining, fraction := m.progress()
	label := "remaining"
	shown := remaining
	if remaining == 0 {
		label = "planned time reached"
		shown = elapsed
	}
	sb.WriteString(theme.Big.Render(clock(shown)) + "  " + theme.Muted.Render(label) + "\n\n")
	sb.WriteString(m.bar.ViewAs(fraction) + "\n\n")
	sb.WriteString(theme.Muted.Render("started ") + m.active.StartedAt.In(m.loc).Format("15:04") +
		theme.Muted.Render("  elapsed ") + clock(elapsed) + "\n")
	if m.active.Notes != "" {
		sb.WriteString(theme.Muted.Render("notes   ") + m.active.Notes + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("space: finish and record"))
	return m.frame(sb.String())
}

// HasActive reports whether a timer is running.
func (m Model) HasActive() bool { return m.hasActive }

// Active returns the running timer, valid when HasActive is true.
func (m Model) Active() sessiondto.ActiveSessionOutput { return m.active }

// Refresh reloads the running timer from storage.
func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		active, err := m.port.GetActive(context.Background())
		return ActiveLoadedMsg{Active: active, Err: err}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

// progress is derived from the stored start time so ticks never drift.
func (m Model) progress() (elapsed, remaining time.Duration, fraction float64) {
	elapsed = m.now.Sub(m.active.StartedAt).Truncate(time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	planned := time.Duration(m.active.PlannedSeconds) * time.Second
	remaining = planned - elapsed
	if remaining < 0 {
		remaining = 0
	}
	if planned > 0 {
		fraction = float64(elapsed) / float64(planned)
	}
	if fraction > 1 {
		fraction = 1
	}
	return elapsed, remaining, fraction
}

func (m Model) frame(body string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		theme.Pane.Padding(1, 4).Render(body))
}

func clock(d time.Duration) string {
	total := int64(d / time.Second)
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}
