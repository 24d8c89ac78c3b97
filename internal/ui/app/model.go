package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "medita/internal/modules/session/dto"
	statsdto "medita/internal/modules/stats/dto"
	transferdto "medita/internal/modules/transfer/dto"
	"medita/internal/ui/components"
	"medita/internal/ui/theme"
	calendarview "medita/internal/ui/views/calendar"
	historyview "medita/internal/ui/views/history"
	statsview "medita/internal/ui/views/stats"
	timerview "medita/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type sessionPort interface {
	Start(ctx context.Context, plannedMinutes int, notes string) (sessiondto.StartOutput, error)
	End(ctx context.Context, sessionID, notes string) (sessiondto.EndOutput, error)
	GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error)
	Add(ctx context.Context, timestamp time.Time, duration time.Duration, notes string) (sessiondto.SessionOutput, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, from, to time.Time) ([]sessiondto.SessionOutput, error)
}

type statsPort interface {
	Report(ctx context.Context, period string) (statsdto.ReportOutput, error)
	Calendar(ctx context.Context, year int, month time.Month) (statsdto.CalendarOutput, error)
}

type transferPort interface {
	Export(ctx context.Context, path, format string) (transferdto.ExportOutput, error)
	Import(ctx context.Context, path, format string, dryRun bool) (transferdto.ImportOutput, error)
}

// Options carries the settings the views need.
type Options struct {
	Location            *time.Location
	DefaultTimerMinutes int
	DailyGoalMinutes    int
	Now                 func() time.Time
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabStats
	tabCalendar
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{
	"Timer", "Stats", "Calendar", "History",
}

// ─── async messages ───────────────────────────────────────────────────────────

// sessionsChangedMsg tells every data-backed view to recompute.
type sessionsChangedMsg struct{ status string }

type actionFailedMsg struct {
	action string
	err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Timer   key.Binding
	Delete  key.Binding
	Period  key.Binding
	Month   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Timer:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/finish timer")),
		Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x x", "delete session")),
		Period:  key.NewBinding(key.WithKeys("d", "w", "m", "p"), key.WithHelp("d/w/m", "stats period")),
		Month:   key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "calendar month")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Timer, k.Delete},
		{k.Period, k.Month},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the timer actions,
// the global help overlay, and the command palette. All business logic is
// delegated to port interfaces; all rendering is delegated to sub-views.
type Model struct {
	session  sessionPort
	stats    statsPort
	transfer transferPort
	opts     Options

	timerView    timerview.Model
	statsView    statsview.Model
	calendarView calendarview.Model
	historyView  historyview.Model

	activeTab     tabID
	keys          keyMap
	help          help.Model
	showHelp      bool
	palette       components.Palette
	pendingDelete string
	status        string
	width         int
	height        int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(session sessionPort, stats statsPort, transfer transferPort, opts Options) Model {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	now := opts.Now().In(opts.Location)
	return Model{
		session:      session,
		stats:        stats,
		transfer:     transfer,
		opts:         opts,
		timerView:    timerview.New(session, opts.DefaultTimerMinutes, opts.Location),
		statsView:    statsview.New(statsPortBridge{p: stats}),
		calendarView: calendarview.New(stats, now, opts.DailyGoalMinutes),
		historyView:  historyview.New(session, opts.Location),
		activeTab:    tabTimer,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timerView.Init(),
		m.statsView.Init(),
		m.calendarView.Init(),
		m.historyView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all key input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		if _, isKey := msg.(tea.KeyMsg); isKey {
			return m, cmd
		}
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case sessionsChangedMsg:
		if msg.status != "" {
			m.status = msg.status
		}
		return m, m.reloadAll()

	case actionFailedMsg:
		m.status = theme.Error.Render(msg.action + ": " + msg.err.Error())
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	// Data messages go to their owning view regardless of the active tab.
	case timerview.ActiveLoadedMsg:
		m.timerView, _ = m.timerView.Update(msg)
		return m, nil
	case statsview.ReportLoadedMsg:
		m.statsView, _ = m.statsView.Update(msg)
		return m, nil
	case calendarview.MonthLoadedMsg:
		m.calendarView, _ = m.calendarView.Update(msg)
		return m, nil
	case historyview.SessionsLoadedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.statsView, cmd = m.statsView.Update(msg)
		return m, tea.Batch(append(cmds, cmd)...)

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the history filter while the user is typing.
		if m.activeTab == tabHistory && m.historyView.Filtering() {
			break
		}

		if msg.String() != "x" {
			m.pendingDelete = ""
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case " ":
			if m.activeTab == tabTimer {
				return m, m.toggleTimerCmd()
			}
		case "x":
			if m.activeTab == tabHistory {
				return m.confirmDelete()
			}
		}
	}

	// The timer sees every non-key message so its ticks keep flowing while
	// another tab is shown. Everything else goes to the active tab.
	var tabCmd tea.Cmd
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		m.timerView, tabCmd = m.timerView.Update(msg)
		cmds = append(cmds, tabCmd)
		if m.activeTab == tabTimer {
			return m, tea.Batch(cmds...)
		}
	}
	switch m.activeTab {
	case tabTimer:
		m.timerView, tabCmd = m.timerView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	case tabCalendar:
		m.calendarView, tabCmd = m.calendarView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = lipgloss.NewStyle().Height(contentH).Render(m.activeView())
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTimer:
		return m.timerView.View()
	case tabStats:
		return m.statsView.View()
	case tabCalendar:
		return m.calendarView.View()
	case tabHistory:
		return m.historyView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "medita  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.timerView.HasActive() {
		left = theme.Hot.Render("● sitting") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	rest := func(n int) string {
		if len(parts) <= n {
			return ""
		}
		return strings.Join(parts[n:], " ")
	}

	switch parts[0] {
	case "timer:start":
		minutes := 0
		notes := rest(1)
		if len(parts) >= 2 {
			if v, err := strconv.Atoi(parts[1]); err == nil {
				minutes = v
				notes = rest(2)
			}
		}
		m.activeTab = tabTimer
		return m, m.startTimerCmd(minutes, notes)

	case "timer:stop":
		return m, m.endTimerCmd(rest(1))

	case "session:add":
		if len(parts) < 4 {
			m.status = "usage: session:add <YYYY-MM-DD> <HH:MM> <minutes> [notes]"
			return m, nil
		}
		ts, err := time.ParseInLocation("2006-01-02 15:04", parts[1]+" "+parts[2], m.opts.Location)
		if err != nil {
			m.status = "invalid date or time"
			return m, nil
		}
		minutes, err := strconv.Atoi(parts[3])
		if err != nil || minutes < 0 {
			m.status = "invalid minutes"
			return m, nil
		}
		return m, m.addSessionCmd(ts, time.Duration(minutes)*time.Minute, rest(4))

	case "session:delete":
		m.activeTab = tabHistory
		return m.confirmDelete()

	case "stats:period":
		if len(parts) < 2 {
			m.status = "usage: stats:period <daily|weekly|monthly>"
			return m, nil
		}
		m.activeTab = tabStats
		return m, m.statsView.SetPeriod(strings.ToLower(parts[1]))

	case "calendar:month":
		if len(parts) < 2 {
			m.status = "usage: calendar:month <YYYY-MM>"
			return m, nil
		}
		month, err := time.Parse("2006-01", parts[1])
		if err != nil {
			m.status = "invalid month"
			return m, nil
		}
		m.activeTab = tabCalendar
		return m, m.calendarView.Show(month.Year(), month.Month())

	case "export":
		if len(parts) < 2 {
			m.status = "usage: export <path>"
			return m, nil
		}
		return m, m.exportCmd(rest(1))

	case "import", "import:dry-run":
		if len(parts) < 2 {
			m.status = "usage: " + parts[0] + " <path>"
			return m, nil
		}
		return m, m.importCmd(rest(1), parts[0] == "import:dry-run")

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// confirmDelete asks for a second x before removing the highlighted session.
func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	id, ok := m.historyView.SelectedSessionID()
	if !ok {
		m.status = "no session selected"
		return m, nil
	}
	if m.pendingDelete != id {
		m.pendingDelete = id
		m.status = "press x again to delete the selected session"
		return m, nil
	}
	m.pendingDelete = ""
	return m, m.deleteSessionCmd(id)
}

func (m Model) reloadAll() tea.Cmd {
	return tea.Batch(
		m.timerView.Refresh(),
		m.statsView.Reload(),
		m.calendarView.Reload(),
		m.historyView.Reload(),
	)
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 4}
	m.timerView, _ = m.timerView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
	m.calendarView, _ = m.calendarView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) toggleTimerCmd() tea.Cmd {
	if m.timerView.HasActive() {
		return m.endTimerCmd("")
	}
	return m.startTimerCmd(0, "")
}

func (m Model) startTimerCmd(minutes int, notes string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Start(context.Background(), minutes, notes)
		if err != nil {
			return actionFailedMsg{action: "start timer", err: err}
		}
		return sessionsChangedMsg{status: fmt.Sprintf("timer started for %s", components.FormatMinutes(out.PlannedSeconds))}
	}
}

func (m Model) endTimerCmd(notes string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.End(context.Background(), "", notes)
		if err != nil {
			return actionFailedMsg{action: "finish timer", err: err}
		}
		return sessionsChangedMsg{status: "recorded " + components.FormatMinutes(out.DurationSeconds)}
	}
}

func (m Model) addSessionCmd(ts time.Time, duration time.Duration, notes string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.session.Add(context.Background(), ts, duration, notes); err != nil {
			return actionFailedMsg{action: "add session", err: err}
		}
		return sessionsChangedMsg{status: "session added for " + ts.Format("2006-01-02 15:04")}
	}
}

func (m Model) deleteSessionCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.Delete(context.Background(), id); err != nil {
			return actionFailedMsg{action: "delete session", err: err}
		}
		return sessionsChangedMsg{status: "session deleted"}
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.transfer.Export(context.Background(), path, "")
		if err != nil {
			return actionFailedMsg{action: "export", err: err}
		}
		return sessionsChangedMsg{status: fmt.Sprintf("exported %d sessions to %s", out.Count, out.Path)}
	}
}

func (m Model) importCmd(path string, dryRun bool) tea.Cmd {
	return func() tea.Msg {
		out, err := m.transfer.Import(context.Background(), path, "", dryRun)
		if err != nil {
			return actionFailedMsg{action: "import", err: err}
		}
		verb := "imported"
		if out.DryRun {
			verb = "would import"
		}
		return sessionsChangedMsg{status: fmt.Sprintf("%s %d · %d duplicates · %d malformed", verb, out.Imported, out.Duplicates, out.Malformed)}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────

type statsPortBridge struct{ p statsPort }

func (b statsPortBridge) Report(ctx context.Context, period string) (statsdto.ReportOutput, error) {
	return b.p.Report(ctx, period)
}
