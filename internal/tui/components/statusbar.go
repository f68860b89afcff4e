package components

import (
	"strconv"
	"strings"

	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar reports about the session.
type Status struct {
	WeekID  string
	Weeks   int
	Dirty   bool
	Busy    string // spinner frame plus activity, e.g. "⣾ Saving"
	Message string
	IsError bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	warn := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Loss).Background(t.Surface).Bold(true)

	left := base.Render(" [?]help  [q]uit")

	var mid string
	switch {
	case st.Busy != "":
		mid = accent.Render(st.Busy)
	case st.Message != "" && st.IsError:
		mid = errStyle.Render(st.Message)
	case st.Message != "":
		mid = base.Render(st.Message)
	}

	right := base.Render("Week ") + accent.Render(st.WeekID)
	if st.Weeks > 1 {
		right += base.Render(" · " + strconv.Itoa(st.Weeks) + " weeks")
	}
	if st.Dirty {
		right += warn.Render(" ● unsaved")
	}
	right += base.Render(" ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(right)
	if gap < 2 {
		mid = ""
		gap = width - lipgloss.Width(left) - lipgloss.Width(right)
	}
	if gap < 0 {
		gap = 0
	}
	leftGap := gap / 2
	bar := left +
		base.Render(strings.Repeat(" ", leftGap)) +
		mid +
		base.Render(strings.Repeat(" ", gap-leftGap)) +
		right

	return lipgloss.NewStyle().Background(t.Surface).Width(width).MaxWidth(width).Render(bar)
}
