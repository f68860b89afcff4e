// Package tui provides the interactive Bubble Tea dashboard for salesboard.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/session"
	"github.com/theirongolddev/salesboard/internal/tui/components"
	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Options configures the dashboard.
type Options struct {
	Formatter   cli.Formatter
	ArchivePath string
	ExportDir   string
	// Restore loads the archive before the dashboard is shown.
	Restore bool
}

// App is the root Bubble Tea model. The session store is only touched from
// Update; background commands receive copies.
type App struct {
	store *session.Store
	opts  Options
	f     cli.Formatter

	// Derived from the store after every change
	view    model.MetricsView
	prev    *model.WeekPoint
	history []model.WeekPoint
	weeks   []string

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	loaded    bool

	// Per-tab state
	chanCursor int
	weekCursor int

	// Edit forms
	form *huh.Form
	edit *editValues

	// Week jump prompt
	jumpInput textinput.Model
	jumping   bool

	// Background work
	spinner spinner.Model
	busy    string

	dirty      bool
	status     string
	statusErr  bool
	statusSeq  int
	savedAt    time.Time
	lastExport []string
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
	statusTTL        = 4 * time.Second
)

// NewApp creates the dashboard over st.
func NewApp(st *session.Store, opts Options) App {
	if opts.Formatter.Symbol == "" {
		opts.Formatter = cli.DefaultFormatter()
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		store:     st,
		opts:      opts,
		f:         opts.Formatter,
		spinner:   sp,
		jumpInput: newJumpInput(),
		loaded:    !opts.Restore,
	}
	a.recompute()
	return a
}

func newJumpInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "YYYY-WW"
	ti.CharLimit = 7
	ti.Width = 10
	return ti
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.opts.Restore {
		cmds = append(cmds, restoreCmd(a.opts.ArchivePath), a.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// recompute refreshes every derived view from the store.
func (a *App) recompute() {
	current := a.store.CurrentWeek()
	view, err := a.store.Metrics(current)
	if err == nil {
		a.view = view
	}
	a.weeks = a.store.Weeks()
	a.history = a.store.History()

	a.prev = nil
	for i, p := range a.history {
		if p.WeekID == current && i > 0 {
			prev := a.history[i-1]
			a.prev = &prev
		}
	}

	a.chanCursor = max(0, min(a.chanCursor, model.NumChannels-1))
	for i, id := range a.weeks {
		if id == current {
			a.weekCursor = i
		}
	}
}

// changed is called after every successful store mutation.
func (a *App) changed() {
	a.dirty = true
	a.recompute()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(formWidth(msg.Width))
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.form != nil || a.jumping {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		if a.jumping {
			return a.updateJump(msg)
		}
		return a.updateKey(msg)

	case restoredMsg:
		a.loaded = true
		switch {
		case msg.err != nil:
			a.setStatus("Restore failed: "+msg.err.Error(), true)
		case !msg.ok:
			a.setStatus("No saved archive; starting fresh", false)
		default:
			if err := a.store.Restore(msg.snap); err != nil {
				a.setStatus("Restore failed: "+err.Error(), true)
				break
			}
			a.savedAt = msg.savedAt
			a.recompute()
			a.setStatus(fmt.Sprintf("Restored archive: %d week(s)", len(msg.snap.Ledgers)), false)
		}
		return a, clearStatusCmd(a.statusSeq)

	case savedMsg:
		a.busy = ""
		if msg.err != nil {
			a.setStatus("Save failed: "+msg.err.Error(), true)
		} else {
			a.dirty = false
			a.savedAt = msg.at
			a.setStatus(fmt.Sprintf("Saved %d week(s) to %s", msg.weeks, msg.path), false)
		}
		return a, clearStatusCmd(a.statusSeq)

	case exportedMsg:
		a.busy = ""
		if msg.err != nil {
			a.setStatus("Export failed: "+msg.err.Error(), true)
		} else {
			a.lastExport = msg.paths
			a.setStatus("Exported "+strings.Join(msg.paths, ", "), false)
		}
		return a, clearStatusCmd(a.statusSeq)

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
			a.statusErr = false
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.busy != "" {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages (cursor blinks, etc.) to the active form.
	if a.form != nil {
		return a.updateForm(msg)
	}
	if a.jumping {
		var cmd tea.Cmd
		a.jumpInput, cmd = a.jumpInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.moveCursor(-1)
	case tea.MouseButtonWheelDown:
		a.moveCursor(1)
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabChannels:
		a.chanCursor = max(0, min(a.chanCursor+delta, model.NumChannels-1))
	case tabReports:
		a.weekCursor = max(0, min(a.weekCursor+delta, len(a.weeks)-1))
	}
}

const (
	tabOverview = iota
	tabChannels
	tabEfficiency
	tabReports
)

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "ctrl+s":
		return a.startSave()
	case "x":
		return a.startExport()
	case "t":
		return a.openForm(newEditValues(editTarget, a.view, a.chanCursor))
	case "R":
		return a.openForm(newEditValues(editReset, a.view, a.chanCursor))
	case "n":
		return a.cloneWeek()
	case "[":
		return a.stepWeek(1)
	case "]":
		return a.stepWeek(-1)
	case "g":
		a.jumping = true
		a.jumpInput = newJumpInput()
		a.jumpInput.Focus()
		return a, a.jumpInput.Cursor.BlinkCmd()
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "j", "down":
		a.moveCursor(1)
		return a, nil
	case "k", "up":
		a.moveCursor(-1)
		return a, nil
	}

	switch a.activeTab {
	case tabChannels:
		switch key {
		case "p":
			return a.openForm(newEditValues(editPercentage, a.view, a.chanCursor))
		case "enter", "a":
			return a.openForm(newEditValues(editActuals, a.view, a.chanCursor))
		}
	case tabReports:
		if key == "enter" && a.weekCursor < len(a.weeks) {
			return a.selectWeek(a.weeks[a.weekCursor])
		}
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) cloneWeek() (tea.Model, tea.Cmd) {
	src := a.store.CurrentWeek()
	id, created, err := a.store.CloneWeek(src)
	if err != nil {
		a.setStatus(err.Error(), true)
		return a, clearStatusCmd(a.statusSeq)
	}
	if !created {
		a.setStatus(fmt.Sprintf("Week %s already exists", id), false)
		return a, clearStatusCmd(a.statusSeq)
	}
	a.changed()
	a.setStatus(fmt.Sprintf("Created week %s from %s", id, src), false)
	return a, clearStatusCmd(a.statusSeq)
}

// stepWeek moves the selection through the week list; +1 is older.
func (a App) stepWeek(delta int) (tea.Model, tea.Cmd) {
	idx := 0
	current := a.store.CurrentWeek()
	for i, id := range a.weeks {
		if id == current {
			idx = i
		}
	}
	next := idx + delta
	if next < 0 || next >= len(a.weeks) {
		return a, nil
	}
	return a.selectWeek(a.weeks[next])
}

func (a App) selectWeek(id string) (tea.Model, tea.Cmd) {
	if err := a.store.Select(id); err != nil {
		a.setStatus(err.Error(), true)
		return a, clearStatusCmd(a.statusSeq)
	}
	a.recompute()
	return a, nil
}

func (a App) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.jumping = false
		id := strings.TrimSpace(a.jumpInput.Value())
		if !model.ValidWeekID(id) {
			a.setStatus(fmt.Sprintf("Invalid week %q (want YYYY-WW)", id), true)
			return a, clearStatusCmd(a.statusSeq)
		}
		return a.selectWeek(id)
	case "esc":
		a.jumping = false
		return a, nil
	}

	var cmd tea.Cmd
	a.jumpInput, cmd = a.jumpInput.Update(msg)
	return a, cmd
}

func (a App) startSave() (tea.Model, tea.Cmd) {
	if a.busy != "" {
		return a, nil
	}
	if a.opts.ArchivePath == "" {
		a.setStatus("No archive path configured", true)
		return a, clearStatusCmd(a.statusSeq)
	}
	a.busy = "Saving archive"
	return a, tea.Batch(saveCmd(a.opts.ArchivePath, a.store.Snapshot()), a.spinner.Tick)
}

func (a App) startExport() (tea.Model, tea.Cmd) {
	if a.busy != "" {
		return a, nil
	}
	a.busy = "Exporting CSV"
	return a, tea.Batch(exportCmd(a.opts.ExportDir, a.view, a.f), a.spinner.Tick)
}

func (a *App) setStatus(msg string, isErr bool) {
	a.statusSeq++
	a.status = msg
	a.statusErr = isErr
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  salesboard needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logoStyle.Render("◈ salesboard") +
		subtitleStyle.Render(" · Weekly Sales Ledger") + "\n\n" +
		a.spinner.View() +
		subtitleStyle.Render(" Restoring "+a.opts.ArchivePath)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o c e r", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move through channels / weeks"},
			{"[ ]", "Older / newer week"},
			{"g", "Go to week (YYYY-WW)"},
		}},
		{"Editing", [][2]string{
			{"t", "Set weekly target"},
			{"p", "Set channel percentage (Channels)"},
			{"Enter a", "Enter channel actuals (Channels)"},
			{"R", "Reset this week's actuals"},
			{"n", "New week from the current one"},
		}},
		{"Session", [][2]string{
			{"x", "Export CSV reports"},
			{"^s", "Save session to archive"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderWeekRow(w)

	st := components.Status{
		WeekID:  a.view.WeekID,
		Weeks:   len(a.weeks),
		Dirty:   a.dirty,
		Message: a.status,
		IsError: a.statusErr,
	}
	if a.busy != "" {
		st.Busy = a.spinner.View() + " " + a.busy
	}
	statusBar := components.RenderStatusBar(w, st)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabChannels:
		content = a.renderChannelsTab(cw)
	case tabEfficiency:
		content = a.renderEfficiencyTab(cw)
	case tabReports:
		content = a.renderReportsTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderWeekRow shows the selected week, the split check and the jump prompt.
func (a App) renderWeekRow(w int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	warn := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)

	row := dim.Render(" week ") + accent.Render(a.view.WeekID) +
		dim.Render(" │ target ") + accent.Render(a.f.Currency(a.view.WeeklyTarget))
	if msg := a.view.Distribution.Warning(); msg != "" {
		row += dim.Render(" │ ") + warn.Render("⚠ "+msg)
	}
	if a.jumping {
		row += dim.Render(" │ go to ") + a.jumpInput.View()
	}
	return lipgloss.NewStyle().Background(t.Surface).Width(w).MaxWidth(w).Render(row)
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
