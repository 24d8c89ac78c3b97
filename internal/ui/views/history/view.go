package history

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	sessiondto "medita/internal/modules/session/dto"
	"medita/internal/ui/components"
	"medita/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type HistoryPort interface {
	List(ctx context.Context, from, to time.Time) ([]sessiondto.SessionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SessionsLoadedMsg struct {
	Sessions []sessiondto.SessionOutput
	Err      error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	session sessiondto.SessionOutput
	loc     *time.Location
}

func (i sessionItem) Title() string {
	return i.session.Timestamp.In(i.loc).Format("Mon 02 Jan 2006  15:04")
}

func (i sessionItem) Description() string {
	d := components.FormatMinutes(i.session.DurationSeconds)
	if i.session.Notes == "" {
		return d
	}
	return fmt.Sprintf("%s · %s", d, i.session.Notes)
}

func (i sessionItem) FilterValue() string {
	return i.session.Timestamp.In(i.loc).Format("2006-01-02") + " " + i.session.Notes
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   HistoryPort
	loc    *time.Location
	list   list.Model
	width  int
	height int
}

func New(port HistoryPort, loc *time.Location) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "History"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("session", "sessions")

	if loc == nil {
		loc = time.Local
	}
	return Model{port: port, loc: loc, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height)
		return m, nil

	case SessionsLoadedMsg:
		if msg.Err != nil {
			m.list.Title = "History: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "History"
		sessions := slices.Clone(msg.Sessions)
		slices.Reverse(sessions)
		items := make([]list.Item, len(sessions))
		for i, s := range sessions {
			items[i] = sessionItem{session: s, loc: m.loc}
		}
		return m, m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

// Reload fetches every session, newest shown first.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.port.List(context.Background(), time.Time{}, time.Time{})
		return SessionsLoadedMsg{Sessions: sessions, Err: err}
	}
}

// SelectedSessionID returns the highlighted session, if any.
func (m Model) SelectedSessionID() (string, bool) {
	if item, ok := m.list.SelectedItem().(sessionItem); ok {
		return item.session.ID, true
	}
	return "", false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
