package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

type editKind int

const (
	editTarget editKind = iota
	editPercentage
	editActuals
	editReset
)

// editValues backs a huh form. It lives on the heap so the form's value
// pointers survive App being copied between updates.
type editValues struct {
	kind    editKind
	weekID  string
	channel model.Channel

	target   string
	pct      string
	spent    string
	sales    string
	activity string
	confirm  bool
}

func newEditValues(kind editKind, view model.MetricsView, cursor int) *editValues {
	ch := model.Channel(cursor)
	m := view.Channels[ch]
	return &editValues{
		kind:     kind,
		weekID:   view.WeekID,
		channel:  ch,
		target:   formatInput(view.WeeklyTarget),
		pct:      formatInput(m.TargetPercentage),
		spent:    formatInput(m.AmountSpent),
		sales:    formatInput(m.ActualSales),
		activity: strconv.FormatInt(activityOf(m), 10),
	}
}

func activityOf(m model.ChannelMetrics) int64 {
	if m.Channel.ActivityField() == model.FieldCallsMade {
		return m.CallsMade
	}
	return m.SiteVisits
}

func formatInput(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var errNotNumber = errors.New("enter a number")

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotNumber
	}
	return v, nil
}

func validateAmount(s string) error {
	v, err := parseAmount(s)
	if err != nil {
		return err
	}
	if v < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func validatePercent(s string) error {
	v, err := parseAmount(s)
	if err != nil {
		return err
	}
	if v < 0 || v > 100 {
		return errors.New("must be between 0 and 100")
	}
	return nil
}

func validateCount(s string) error {
	v, err := parseAmount(s)
	if err != nil {
		return err
	}
	if v < 0 || v != math.Trunc(v) {
		return errors.New("must be a whole number")
	}
	if v >= float64(math.MaxInt64) {
		return errors.New("too large")
	}
	return nil
}

func newEditForm(v *editValues) *huh.Form {
	var group *huh.Group
	switch v.kind {
	case editTarget:
		group = huh.NewGroup(
			huh.NewInput().
				Title("Weekly target for "+v.weekID).
				Description("Channel targets are re-derived from their percentages.").
				Value(&v.target).
				Validate(validateAmount),
		)
	case editPercentage:
		group = huh.NewGroup(
			huh.NewInput().
				Title(v.channel.String()+" target %").
				Description("Share of the weekly target, 0 to 100.").
				Value(&v.pct).
				Validate(validatePercent),
		)
	case editActuals:
		group = huh.NewGroup(
			huh.NewNote().Title(v.channel.String()).Description("Actuals for week "+v.weekID),
			huh.NewInput().Title(model.FieldAmountSpent.String()).Value(&v.spent).Validate(validateAmount),
			huh.NewInput().Title(model.FieldActualSales.String()).Value(&v.sales).Validate(validateAmount),
			huh.NewInput().Title(v.channel.ActivityField().String()).Value(&v.activity).Validate(validateCount),
		)
	case editReset:
		group = huh.NewGroup(
			huh.NewConfirm().
				Title("Reset actuals for week "+v.weekID+"?").
				Description("Spend, sales and activity go back to zero. Targets are kept.").
				Affirmative("Reset").
				Negative("Cancel").
				Value(&v.confirm),
		)
	}
	return huh.NewForm(group).WithShowHelp(true)
}

func formWidth(termWidth int) int {
	return max(40, min(termWidth-8, 72))
}

func (a App) openForm(v *editValues) (tea.Model, tea.Cmd) {
	a.edit = v
	a.form = newEditForm(v)
	if a.width > 0 {
		a.form = a.form.WithWidth(formWidth(a.width))
	}
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		a.form = nil
		a.edit = nil
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		v := a.edit
		a.form = nil
		a.edit = nil
		if err := a.applyEdit(v); err != nil {
			a.setStatus(err.Error(), true)
		}
		return a, clearStatusCmd(a.statusSeq)
	case huh.StateAborted:
		a.form = nil
		a.edit = nil
		return a, nil
	}
	return a, cmd
}

// applyEdit writes a completed form to the store.
func (a *App) applyEdit(v *editValues) error {
	switch v.kind {
	case editTarget:
		target, err := parseAmount(v.target)
		if err != nil {
			return err
		}
		if err := a.store.SetWeeklyTarget(v.weekID, target); err != nil {
			return err
		}
		a.setStatus("Weekly target set to "+a.f.Currency(target), false)

	case editPercentage:
		pct, err := parseAmount(v.pct)
		if err != nil {
			return err
		}
		dist, err := a.store.SetChannelPercentage(v.weekID, v.channel, pct)
		if err != nil {
			return err
		}
		if msg := dist.Warning(); msg != "" {
			a.setStatus(msg, true)
		} else {
			a.setStatus(fmt.Sprintf("%s set to %s%%", v.channel, formatInput(pct)), false)
		}

	case editActuals:
		fields := []struct {
			field model.Field
			raw   string
		}{
			{model.FieldAmountSpent, v.spent},
			{model.FieldActualSales, v.sales},
			{v.channel.ActivityField(), v.activity},
		}
		for _, fv := range fields {
			n, err := parseAmount(fv.raw)
			if err != nil {
				return fmt.Errorf("%s: %w", fv.field, err)
			}
			if err := a.store.SetActual(v.weekID, v.channel, fv.field, n); err != nil {
				return err
			}
		}
		a.setStatus("Updated "+v.channel.String(), false)

	case editReset:
		if !v.confirm {
			return nil
		}
		if err := a.store.ResetActuals(v.weekID); err != nil {
			return err
		}
		a.setStatus("Actuals reset for "+v.weekID, false)
	}

	a.changed()
	return nil
}

func (a App) viewForm() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(a.form.View()),
		lipgloss.WithWhitespaceBackground(t.Background))
}
