package tui

import (
	"strings"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/report"
	"github.com/theirongolddev/salesboard/internal/tui/components"
	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderReportsTab(cw, h int) string {
	widths := components.LayoutRow(cw, 3)
	leftW := widths[0]
	rightW := widths[1] + widths[2]

	chartH := max(6, min(14, h-12))
	left := components.ContentCard("Weeks", a.weekList(components.CardInnerWidth(leftW)), leftW)
	right := components.ContentCard("Weekly Sales vs Target", a.historyChart(components.CardInnerWidth(rightW), chartH), rightW)

	var b strings.Builder
	b.WriteString(components.CardRow([]string{left, right}))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Session", a.sessionInfo(), cw))
	return b.String()
}

// weekList lists tracked weeks newest first, marking the selected one.
func (a App) weekList(innerW int) string {
	t := theme.Active
	rowStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	curStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	cursorStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	points := make(map[string]model.WeekPoint, len(a.history))
	for _, p := range a.history {
		points[p.WeekID] = p
	}

	var lines []string
	for i, id := range a.weeks {
		p := points[id]
		marker := "  "
		style := rowStyle
		if id == a.view.WeekID {
			marker = "● "
			style = curStyle
		}
		if i == a.weekCursor {
			style = cursorStyle.Bold(id == a.view.WeekID)
		}
		ach := cli.NotAvailable
		if p.Target > 0 {
			ach = cli.FormatPercent(p.AchievementPct, 1)
		}
		line := marker + id + "  " + padLeft(a.f.CompactCurrency(p.ActualSales), 10) + "  " + padLeft(ach, 7)
		lines = append(lines, style.Render(padRight(line, innerW)))
	}
	lines = append(lines, "", dim.Render("[enter] select  [n] new week  [g] go to"))
	return strings.Join(lines, "\n")
}

func (a App) historyChart(innerW, h int) string {
	t := theme.Active
	if len(a.history) == 0 {
		return ""
	}
	values := make([]float64, len(a.history))
	labels := make([]string, len(a.history))
	achievement := make([]float64, len(a.history))
	for i, p := range a.history {
		values[i] = p.ActualSales
		// Week number only; the year is implied by order.
		labels[i] = p.WeekID[len(p.WeekID)-2:]
		achievement[i] = p.AchievementPct
	}

	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	out := components.BarChart(values, labels, a.view.WeeklyTarget, t.Sales, innerW, h)
	out += "\n\n" + dim.Render("achievement ") + components.Sparkline(achievement, t.Gain) +
		dim.Render("  ┄ target "+a.f.CompactCurrency(a.view.WeeklyTarget))
	return out
}

func (a App) sessionInfo() string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	saved := "never"
	if !a.savedAt.IsZero() {
		saved = a.savedAt.Local().Format("2006-01-02 15:04")
	}
	archive := a.opts.ArchivePath
	if archive == "" {
		archive = cli.NotAvailable
	}

	exports := report.MetricsFilename(a.view.WeekID) + ", " + report.ChannelsFilename(a.view.WeekID)
	if len(a.lastExport) > 0 {
		exports = strings.Join(a.lastExport, ", ")
	}

	rows := [][2]string{
		{"Archive", archive},
		{"Last saved", saved},
		{"Export dir", a.opts.ExportDir},
		{"Exports", exports},
	}
	var lines []string
	for _, r := range rows {
		lines = append(lines, label.Render(padRight(r[0], 12))+value.Render(r[1]))
	}
	lines = append(lines, "", dim.Render("[x] export CSV  [ctrl+s] save archive  [R] reset actuals"))
	return strings.Join(lines, "\n")
}
