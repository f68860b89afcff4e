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

type channelColumn struct {
	title string
	width int
	value func(App, model.ChannelMetrics) string
}

var channelColumns = []channelColumn{
	{"Target %", 9, func(_ App, m model.ChannelMetrics) string { return cli.FormatPercent(m.TargetPercentage, 2) }},
	{"Target", 12, func(a App, m model.ChannelMetrics) string { return a.f.CompactCurrency(m.WeeklyTarget) }},
	{"Spent", 12, func(a App, m model.ChannelMetrics) string { return a.f.CompactCurrency(m.AmountSpent) }},
	{"Sales", 12, func(a App, m model.ChannelMetrics) string { return a.f.CompactCurrency(m.ActualSales) }},
	{"ROI", 10, func(_ App, m model.ChannelMetrics) string { return cli.FormatROI(m.ROI, m.ROIDefined) }},
	{"Conv.", 9, func(_ App, m model.ChannelMetrics) string { return cli.FormatConversion(m.ConversionRate, m.ConversionDefined) }},
}

func (a App) renderChannelsTab(cw int) string {
	if a.isCompactLayout() {
		return components.ContentCard("Channels", a.channelTable(components.CardInnerWidth(cw), 4), cw) +
			"\n" + components.ContentCard(a.selectedChannel().Channel.String(), a.channelDetail(components.CardInnerWidth(cw)), cw)
	}

	widths := components.LayoutRow(cw, 3)
	leftW := widths[0] + widths[1]
	rightW := widths[2]
	return components.CardRow([]string{
		components.ContentCard("Channels", a.channelTable(components.CardInnerWidth(leftW), len(channelColumns)), leftW),
		components.ContentCard(a.selectedChannel().Channel.String(), a.channelDetail(components.CardInnerWidth(rightW)), rightW),
	})
}

func (a App) selectedChannel() model.ChannelMetrics {
	return a.view.Channels[a.chanCursor]
}

// channelTable renders the first ncols columns with the cursor row highlighted.
func (a App) channelTable(innerW, ncols int) string {
	t := theme.Active
	cols := channelColumns[:ncols]

	headStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)

	fixed := 0
	for _, c := range cols {
		fixed += c.width + 1
	}
	nameW := max(10, innerW-fixed-2)

	var b strings.Builder
	head := "  " + padRight("Channel", nameW)
	for _, c := range cols {
		head += " " + padLeft(c.title, c.width)
	}
	b.WriteString(headStyle.Render(head))

	for i, m := range a.view.Channels {
		marker := "  "
		style := rowStyle
		if i == a.chanCursor {
			marker = "▸ "
			style = selStyle
		}
		line := marker + padRight(truncStr(m.Channel.String(), nameW), nameW)
		for _, c := range cols {
			line += " " + padLeft(c.value(a, m), c.width)
		}
		b.WriteString("\n")
		b.WriteString(style.Render(padRight(line, innerW)))
	}

	hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	b.WriteString("\n\n")
	b.WriteString(hint.Render("[j/k] select  [enter] actuals  [p] percentage  [t] target"))
	return b.String()
}

func (a App) channelDetail(innerW int) string {
	t := theme.Active
	m := a.selectedChannel()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	activity := m.SiteVisits
	if m.Channel.ActivityField() == model.FieldCallsMade {
		activity = m.CallsMade
	}

	rows := [][2]string{
		{"Target share", cli.FormatPercent(m.TargetPercentage, 2)},
		{"Channel target", a.f.Currency(m.WeeklyTarget)},
		{model.FieldAmountSpent.String(), a.f.Currency(m.AmountSpent)},
		{model.FieldActualSales.String(), a.f.Currency(m.ActualSales)},
		{m.Channel.ActivityField().String(), a.f.Count(activity)},
		{"ROI", cli.FormatROI(m.ROI, m.ROIDefined)},
		{"Conversion", cli.FormatConversion(m.ConversionRate, m.ConversionDefined)},
	}

	labelW := 18
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(labelStyle.Render(padRight(r[0], labelW)))
		b.WriteString(valueStyle.Render(r[1]))
	}

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(conversionHint(m.Channel)))
	b.WriteString("\n\n")
	b.WriteString(components.TargetBar("Target", m.ActualSales, m.WeeklyTarget, 6, max(6, innerW-14), cli.NotAvailable))
	return b.String()
}

// conversionHint explains the denominator used for a channel's conversion rate.
func conversionHint(c model.Channel) string {
	switch model.ConversionBasisFor(c) {
	case model.BasisCalls:
		return "Conversion = sales / calls made × 100"
	case model.BasisReach:
		return "Conversion = sales / site visits or reach × 100"
	case model.BasisTarget:
		return "Conversion = sales / weekly target × 100"
	default:
		return fmt.Sprintf("No conversion basis for %s", c)
	}
}
