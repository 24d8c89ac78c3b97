package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Overlay0 = lipgloss.Color("#6c7086")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Teal     = lipgloss.Color("#94e2d5")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")

	App = lipgloss.NewStyle().
		Background(Base).
		Foreground(Text).
		Padding(1, 2)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Error = lipgloss.NewStyle().Foreground(Red)
	Bar   = lipgloss.NewStyle().Foreground(Teal)
	Big   = lipgloss.NewStyle().Foreground(Lavender).Bold(true)
)

// heat is ordered from an empty day to a long one.
var heat = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(Overlay0),
	lipgloss.NewStyle().Foreground(Teal),
	lipgloss.NewStyle().Foreground(Green),
	lipgloss.NewStyle().Foreground(Green).Bold(true),
}

// Heat picks a calendar cell style for a day's minutes relative to the goal.
func Heat(minutes, goalMinutes int) lipgloss.Style {
	switch {
	case minutes <= 0:
		return heat[0]
	case goalMinutes <= 0 || minutes < goalMinutes:
		return heat[1]
	case minutes < 2*goalMinutes:
		return heat[2]
	default:
		return heat[3]
	}
}
