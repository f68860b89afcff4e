package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/pipeline"
	"github.com/theirongolddev/salesboard/internal/tui/components"
	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// rankingEntry is one line of a ranking card.
type rankingEntry struct {
	name    string
	value   float64
	label   string
	defined bool
}

func (a App) renderEfficiencyTab(cw int) string {
	t := theme.Active

	byROI := pipeline.RankByROI(a.view)
	roiRows := make([]rankingEntry, len(byROI))
	for i, m := range byROI {
		roiRows[i] = rankingEntry{m.Channel.String(), m.ROI, cli.FormatROI(m.ROI, m.ROIDefined), m.ROIDefined}
	}

	byConv := pipeline.RankByConversion(a.view)
	convRows := make([]rankingEntry, len(byConv))
	for i, m := range byConv {
		convRows[i] = rankingEntry{
			m.Channel.String() + " (" + m.Basis.String() + ")",
			m.ConversionRate,
			cli.FormatConversion(m.ConversionRate, m.ConversionDefined),
			m.ConversionDefined,
		}
	}

	var b strings.Builder
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("ROI Ranking", rankingBars(roiRows, components.CardInnerWidth(cw), t.Gain), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Conversion Ranking", rankingBars(convRows, components.CardInnerWidth(cw), t.Activity), cw))
	} else {
		b.WriteString(components.CardRow([]string{
			components.ContentCard("ROI Ranking", rankingBars(roiRows, components.CardInnerWidth(halves[0]), t.Gain), halves[0]),
			components.ContentCard("Conversion Ranking", rankingBars(convRows, components.CardInnerWidth(halves[1]), t.Activity), halves[1]),
		}))
	}
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Spend vs Sales", a.spendVsSales(components.CardInnerWidth(cw)), cw))
	return b.String()
}

// rankingBars renders ranked entries as bars scaled to the best positive value.
// Undefined entries keep their place at the bottom with no bar.
func rankingBars(rows []rankingEntry, innerW int, color lipgloss.Color) string {
	t := theme.Active
	nameStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	peak := 0.0
	for _, r := range rows {
		if r.defined && r.value > peak {
			peak = r.value
		}
	}

	nameW := min(30, max(12, innerW/2))
	valW := 10
	barW := max(4, innerW-nameW-valW-5)

	var lines []string
	for i, r := range rows {
		rank := fmt.Sprintf("%d.", i+1)
		line := dimStyle.Render(fmt.Sprintf("%-3s", rank)) +
			nameStyle.Render(padRight(truncStr(r.name, nameW), nameW)) +
			spaceStyle.Render(" ")
		if r.defined {
			barColor := color
			if r.value < 0 {
				barColor = t.Loss
			}
			line += components.HBar(r.value, peak, barW, barColor) +
				spaceStyle.Render(" ") + valueStyle.Render(padLeft(r.label, valW))
		} else {
			line += spaceStyle.Render(strings.Repeat(" ", barW)) +
				spaceStyle.Render(" ") + dimStyle.Render(padLeft(r.label, valW))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// spendVsSales shows each channel's spend and sales on a shared scale.
func (a App) spendVsSales(innerW int) string {
	t := theme.Active
	nameStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)
	legend := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	peak := 0.0
	for _, m := range a.view.Channels {
		peak = max(peak, m.AmountSpent, m.ActualSales)
	}

	nameW := 22
	valW := 12
	barW := max(4, (innerW-nameW-2*valW-4)/2)

	var b strings.Builder
	b.WriteString(legend.Render(padRight("", nameW)) +
		lipgloss.NewStyle().Foreground(t.Spend).Background(t.Surface).Render(padRight("█ spent", barW+valW+2)) +
		lipgloss.NewStyle().Foreground(t.Sales).Background(t.Surface).Render("█ sales"))
	for _, m := range a.view.Channels {
		b.WriteString("\n")
		b.WriteString(nameStyle.Render(padRight(truncStr(m.Channel.String(), nameW-1), nameW)))
		b.WriteString(components.HBar(m.AmountSpent, peak, barW, t.Spend))
		b.WriteString(valueStyle.Render(padLeft(a.f.CompactCurrency(m.AmountSpent), valW)))
		b.WriteString(spaceStyle.Render("  "))
		b.WriteString(components.HBar(m.ActualSales, peak, barW, t.Sales))
		b.WriteString(valueStyle.Render(padLeft(a.f.CompactCurrency(m.ActualSales), valW)))
	}

	if !a.view.OverallROIDefined {
		b.WriteString("\n\n")
		b.WriteString(legend.Render("No spend recorded this week; ROI is " + cli.NotAvailable + " until spend is entered."))
	}
	return b.String()
}
