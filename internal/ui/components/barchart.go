package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"medita/internal/ui/theme"
)

// BarRow is one labelled value of a horizontal bar chart.
type BarRow struct {
	Label   string
	Seconds int64
}

// BarChart renders rows as horizontal bars scaled to the largest value.
// Only the last maxRows rows are shown so recent buckets stay visible.
func BarChart(rows []BarRow, width, maxRows int) string {
	if len(rows) == 0 {
		return theme.Muted.Render("no sessions yet")
	}
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[len(rows)-maxRows:]
	}

	labelW := 0
	var peak int64
	for _, r := range rows {
		labelW = max(labelW, lipgloss.Width(r.Label))
		peak = max(peak, r.Seconds)
	}
	barW := width - labelW - 10
	if barW < 4 {
		barW = 4
	}

	var sb strings.Builder
	for i, r := range rows {
		n := 0
		if peak > 0 {
			n = int(r.Seconds * int64(barW) / peak)
		}
		if n == 0 && r.Seconds > 0 {
			n = 1
		}
		label := theme.Muted.Render(fmt.Sprintf("%-*s", labelW, r.Label))
		sb.WriteString(label + " " + theme.Bar.Render(strings.Repeat("█", n)) + " " + FormatMinutes(r.Seconds))
		if i < len(rows)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FormatMinutes renders seconds as "1h 05m", "12m" or "40s".
func FormatMinutes(seconds int64) string {
	switch {
	case seconds >= 3600:
		return fmt.Sprintf("%dh %02dm", seconds/3600, (seconds%3600)/60)
	case seconds >= 60:
		return fmt.Sprintf("%dm", seconds/60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
