// Package theme defines color themes for the salesboard dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme assigns colors to the roles the dashboard draws with.
type Theme struct {
	Name string

	Background   lipgloss.Color
	Surface      lipgloss.Color // cards and panels
	SurfaceHover lipgloss.Color // selected row, active tab
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // focused card

	TextDim     lipgloss.Color // hints
	TextMuted   lipgloss.Color // labels
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	Sales    lipgloss.Color // actual sales series
	Spend    lipgloss.Color // amount spent series
	Activity lipgloss.Color // visits, reach and calls
	Target   lipgloss.Color // target reference lines
	Gain     lipgloss.Color // positive ROI
	Loss     lipgloss.Color // negative ROI, errors
	Warn     lipgloss.Color // unbalanced split, notices

	// Scale runs from far below target to target met; see ForAchievement.
	Scale [5]lipgloss.Color
}

// palette is the raw color set a theme is built from.
type palette struct {
	bg, surface, hover, border     string
	dim, muted, text               string
	accent, accentBright           string
	red, orange, yellow, green     string
	greenBright, blue, targetColor string
}

func newTheme(name string, p palette) Theme {
	c := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	return Theme{
		Name:         name,
		Background:   c(p.bg),
		Surface:      c(p.surface),
		SurfaceHover: c(p.hover),
		Border:       c(p.border),
		BorderAccent: c(p.accent),
		TextDim:      c(p.dim),
		TextMuted:    c(p.muted),
		TextPrimary:  c(p.text),
		Accent:       c(p.accent),
		AccentBright: c(p.accentBright),
		Sales:        c(p.green),
		Spend:        c(p.orange),
		Activity:     c(p.blue),
		Target:       c(p.targetColor),
		Gain:         c(p.green),
		Loss:         c(p.red),
		Warn:         c(p.orange),
		Scale:        [5]lipgloss.Color{c(p.red), c(p.orange), c(p.yellow), c(p.green), c(p.greenBright)},
	}
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default: a warm, paper-inspired dark palette.
var FlexokiDark = newTheme("flexoki-dark", palette{
	bg: "#100F0F", surface: "#1C1B1A", hover: "#282726", border: "#403E3C",
	dim: "#575653", muted: "#878580", text: "#FFFCF0",
	accent: "#3AA99F", accentBright: "#5BC8BE",
	red: "#D14D41", orange: "#DA702C", yellow: "#D0A215", green: "#879A39",
	greenBright: "#A3B859", blue: "#4385BE", targetColor: "#D0A215",
})

// CatppuccinMocha is a soft pastel palette.
var CatppuccinMocha = newTheme("catppuccin-mocha", palette{
	bg: "#1E1E2E", surface: "#313244", hover: "#45475A", border: "#585B70",
	dim: "#6C7086", muted: "#A6ADC8", text: "#CDD6F4",
	accent: "#89B4FA", accentBright: "#B4D0FB",
	red: "#F38BA8", orange: "#FAB387", yellow: "#F9E2AF", green: "#A6E3A1",
	greenBright: "#C6F6C1", blue: "#89B4FA", targetColor: "#F5C2E7",
})

// Terminal uses ANSI 16 colors only.
var Terminal = newTheme("terminal", palette{
	bg: "0", surface: "0", hover: "8", border: "8",
	dim: "8", muted: "7", text: "15",
	accent: "6", accentBright: "14",
	red: "1", orange: "3", yellow: "11", green: "2",
	greenBright: "10", blue: "4", targetColor: "5",
})

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// Names lists the available theme names in display order.
func Names() []string {
	out := make([]string, len(All))
	for i, t := range All {
		out[i] = t.Name
	}
	return out
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// ForAchievement maps a target achievement ratio to a Scale color.
// 1.0 means the target was met.
func (t Theme) ForAchievement(ratio float64) lipgloss.Color {
	switch {
	case ratio >= 1:
		return t.Scale[4]
	case ratio >= 0.75:
		return t.Scale[3]
	case ratio >= 0.5:
		return t.Scale[2]
	case ratio >= 0.25:
		return t.Scale[1]
	default:
		return t.Scale[0]
	}
}

// ForROI colors a return on investment: losses red, break-even muted.
func (t Theme) ForROI(roi float64, defined bool) lipgloss.Color {
	switch {
	case !defined:
		return t.TextDim
	case roi < 0:
		return t.Loss
	case roi == 0:
		return t.TextMuted
	default:
		return t.Gain
	}
}
