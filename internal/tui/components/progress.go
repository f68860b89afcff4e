package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a block progress bar followed by its percentage.
// pct is a ratio; values past 1 draw a full bar but keep the real percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	barColor := t.ForAchievement(pct)
	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// TargetBar renders a labeled actual-vs-target bar using bubbles/progress.
// A non-positive target has no achievement and shows the supplied fallback text.
func TargetBar(label string, actual, target float64, labelW, barWidth int, fallback string) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if lipgloss.Width(label) > labelW {
		label = truncate(label, labelW)
	}
	out := labelStyle.Render(label+strings.Repeat(" ", labelW-lipgloss.Width(label))) + spaceStyle.Render(" ")

	if target <= 0 {
		return out + dimStyle.Render(strings.Repeat("░", barWidth)) +
			spaceStyle.Render(" ") + dimStyle.Render(fallback)
	}

	ratio := actual / target
	shown := ratio
	if shown < 0 {
		shown = 0
	}
	if shown > 1 {
		shown = 1
	}
	color := t.ForAchievement(ratio)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	return out + bar.ViewAs(shown) + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%5.1f%%", ratio*100))
}

// HBar renders a single horizontal bar scaled against maxValue.
// Negative values render as an empty bar.
func HBar(value, maxValue float64, width int, color lipgloss.Color) string {
	t := theme.Active
	if width < 1 {
		return ""
	}
	n := 0
	if maxValue > 0 && value > 0 {
		n = int(value / maxValue * float64(width))
		if n == 0 {
			n = 1
		}
	}
	if n > width {
		n = width
	}
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	restStyle := lipgloss.NewStyle().Background(t.Surface)
	return barStyle.Render(strings.Repeat("█", n)) + restStyle.Render(strings.Repeat(" ", width-n))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 {
		return ""
	}
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
