package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/tui/components"
	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	v := a.view
	var b strings.Builder

	// Row 1: headline cards, with deltas against the previous tracked week
	salesDelta, spentDelta, achDelta := "", "", ""
	if p := a.prev; p != nil {
		salesDelta = a.f.FormatDelta(v.TotalActualSales, p.ActualSales) + " vs " + p.WeekID
		spentDelta = a.f.FormatDelta(v.TotalAmountSpent, p.AmountSpent) + " vs " + p.WeekID
		achDelta = fmt.Sprintf("%+.1fpp vs %s", v.TargetAchievementPct-p.AchievementPct, p.WeekID)
	}

	achievement := cli.NotAvailable
	achColor := t.TextDim
	if v.AchievementDefined {
		achievement = cli.FormatPercent(v.TargetAchievementPct, 2)
		achColor = t.ForAchievement(v.TargetAchievementPct / 100)
	}

	cards := []components.Metric{
		{Label: "Weekly Target", Value: a.f.Currency(v.WeeklyTarget), Delta: cli.FormatPercent(v.Distribution.Total, 2) + " distributed"},
		{Label: "Actual Sales", Value: a.f.Currency(v.TotalActualSales), Delta: salesDelta},
		{Label: "Amount Spent", Value: a.f.Currency(v.TotalAmountSpent), Delta: spentDelta},
		{Label: "Overall ROI", Value: cli.FormatROI(v.OverallROI, v.OverallROIDefined), Color: t.ForROI(v.OverallROI, v.OverallROIDefined)},
		{Label: "Target Achievement", Value: achievement, Delta: achDelta, Color: achColor},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(cards[:3], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(cards[3:], cw))
	} else {
		b.WriteString(components.MetricCardRow(cards, cw))
	}
	b.WriteString("\n")

	// Row 2: week progress bar
	innerW := components.CardInnerWidth(cw)
	barW := max(10, innerW-lipgloss.Width("Sales vs target ")-8)
	progress := components.TargetBar("Sales vs target", v.TotalActualSales, v.WeeklyTarget, 15, barW, cli.NotAvailable)
	b.WriteString(components.ContentCard("Week "+v.WeekID, progress, cw))
	b.WriteString("\n")

	// Row 3: per-channel target attainment beside the split
	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Sales vs Channel Target", a.channelTargetBars(halves[0]), halves[0]),
		components.ContentCard("Target Split", a.splitTable(halves[1]), halves[1]),
	}))

	return b.String()
}

func (a App) channelTargetBars(outerW int) string {
	innerW := components.CardInnerWidth(outerW)
	labelW := 20
	if innerW < 50 {
		labelW = 14
	}
	barW := max(6, innerW-labelW-9)

	lines := make([]string, 0, model.NumChannels)
	for _, m := range a.view.Channels {
		lines = append(lines, components.TargetBar(m.Channel.String(), m.ActualSales, m.WeeklyTarget, labelW, barW, cli.NotAvailable))
	}
	return strings.Join(lines, "\n")
}

func (a App) splitTable(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	pctW, amtW := 7, 14
	nameW := max(8, innerW-pctW-amtW-2)

	lines := make([]string, 0, model.NumChannels)
	for _, m := range a.view.Channels {
		name := truncStr(m.Channel.String(), nameW)
		lines = append(lines,
			labelStyle.Render(fmt.Sprintf("%-*s", nameW, name))+
				spaceStyle.Render(" ")+
				valueStyle.Render(fmt.Sprintf("%*s", pctW, cli.FormatPercent(m.TargetPercentage, 1)))+
				spaceStyle.Render(" ")+
				valueStyle.Render(padLeft(a.f.CompactCurrency(m.WeeklyTarget), amtW)))
	}
	return strings.Join(lines, "\n")
}

// padLeft right-aligns s in w display columns.
func padLeft(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}

// padRight left-aligns s in w display columns.
func padRight(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
