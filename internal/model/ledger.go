package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Default ledger configuration for a week created from scratch.
const (
	DefaultWeeklyTarget     = 50000.0
	DefaultTargetPercentage = 100.0 / NumChannels

	// percentTolerance absorbs float error when checking the split sums to 100.
	percentTolerance = 1e-6
)

// Field names one user-entered actual on a channel record.
type Field int

// Actual fields, in entry order.
const (
	FieldAmountSpent Field = iota
	FieldActualSales
	FieldSiteVisits
	FieldCallsMade
)

// ErrUnknownField is returned when a field name does not match any actual field.
var ErrUnknownField = errors.New("unknown field")

var fieldKeys = map[Field]string{
	FieldAmountSpent: "amount_spent",
	FieldActualSales: "actual_sales",
	FieldSiteVisits:  "site_visits",
	FieldCallsMade:   "calls_made",
}

var fieldLabels = map[Field]string{
	FieldAmountSpent: "Amount Spent",
	FieldActualSales: "Actual Sales",
	FieldSiteVisits:  "Site Visits/Reach",
	FieldCallsMade:   "Calls Made",
}

// String returns the display label.
func (f Field) String() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Key returns the slug used in API payloads.
func (f Field) Key() string {
	return fieldKeys[f]
}

// IsCount reports whether the field holds a whole-number count.
func (f Field) IsCount() bool {
	return f == FieldSiteVisits || f == FieldCallsMade
}

// ParseField resolves a field slug or label. "reach" and "visits" are accepted
// as aliases for site visits, "calls" for calls made.
func ParseField(s string) (Field, error) {
	want := normalizeName(s)
	switch want {
	case "spent", "spend":
		return FieldAmountSpent, nil
	case "sales":
		return FieldActualSales, nil
	case "visits", "reach", "sitevisitsreach", "sitevisits/reach":
		return FieldSiteVisits, nil
	case "calls":
		return FieldCallsMade, nil
	}
	for f, k := range fieldKeys {
		if normalizeName(k) == want || normalizeName(fieldLabels[f]) == want {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// ChannelRecord is one channel's row inside a weekly ledger.
type ChannelRecord struct {
	Channel          Channel `json:"channel" toml:"channel"`
	TargetPercentage float64 `json:"target_percentage" toml:"target_percentage"`
	WeeklyTarget     float64 `json:"weekly_target" toml:"weekly_target"`
	AmountSpent      float64 `json:"amount_spent" toml:"amount_spent"`
	ActualSales      float64 `json:"actual_sales" toml:"actual_sales"`
	SiteVisits       int64   `json:"site_visits" toml:"site_visits"`
	CallsMade        int64   `json:"calls_made" toml:"calls_made"`
}

// Activity returns the channel's activity count (calls or visits).
func (r ChannelRecord) Activity() int64 {
	if r.Channel.ActivityField() == FieldCallsMade {
		return r.CallsMade
	}
	return r.SiteVisits
}

// Ledger is one tracked week: a target and exactly one record per channel.
// The zero Ledger is not usable; build one with NewLedger or CloneInto.
type Ledger struct {
	WeekID       string                     `json:"week_id" toml:"week_id"`
	WeeklyTarget float64                    `json:"weekly_target" toml:"weekly_target"`
	Channels     [NumChannels]ChannelRecord `json:"channels" toml:"channels"`
}

// NewLedger returns a ledger with an equal split across channels and no actuals.
func NewLedger(weekID string, target float64) Ledger {
	l := Ledger{WeekID: weekID}
	for i := range l.Channels {
		l.Channels[i] = ChannelRecord{
			Channel:          Channel(i),
			TargetPercentage: DefaultTargetPercentage,
		}
	}
	l.SetWeeklyTarget(target)
	return l
}

// CloneInto copies the target configuration into a new week. Actuals are not copied.
func (l Ledger) CloneInto(weekID string) Ledger {
	c := l
	c.WeekID = weekID
	c.ResetActuals()
	return c
}

// Record returns a copy of the record for ch, or a zero record for an unknown channel.
func (l Ledger) Record(ch Channel) ChannelRecord {
	if !ch.Valid() {
		return ChannelRecord{}
	}
	return l.Channels[ch]
}

// SetWeeklyTarget sets the weekly target and re-derives every channel target.
func (l *Ledger) SetWeeklyTarget(target float64) {
	l.WeeklyTarget = target
	l.recomputeTargets()
}

// SetChannelPercentage updates one channel's share and re-derives every channel
// target from the current weekly target. The update is applied even when the
// split no longer sums to 100; the returned Distribution reports that.
// Unknown channels leave the ledger unchanged.
func (l *Ledger) SetChannelPercentage(ch Channel, pct float64) Distribution {
	if !ch.Valid() {
		return l.Distribution()
	}
	l.Channels[ch].TargetPercentage = pct
	l.recomputeTargets()
	return l.Distribution()
}

// SetActual writes one actual field. Count fields are rounded to the nearest
// whole number and saturate at 0 and math.MaxInt64. Unknown channels are ignored.
func (l *Ledger) SetActual(ch Channel, f Field, v float64) {
	if !ch.Valid() {
		return
	}
	r := &l.Channels[ch]
	switch f {
	case FieldAmountSpent:
		r.AmountSpent = v
	case FieldActualSales:
		r.ActualSales = v
	case FieldSiteVisits:
		r.SiteVisits = toCount(v)
	case FieldCallsMade:
		r.CallsMade = toCount(v)
	}
}

// toCount rounds v to a count in [0, math.MaxInt64].
// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
func toCount(v float64) int64 {
	v = math.Round(v)
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= float64(math.MaxInt64):
		return math.MaxInt64
	}
	return int64(v)
}

// ResetActuals zeroes spend, sales, visits and calls on every channel.
func (l *Ledger) ResetActuals() {
	for i := range l.Channels {
		r := &l.Channels[i]
		r.AmountSpent = 0
		r.ActualSales = 0
		r.SiteVisits = 0
		r.CallsMade = 0
	}
}

func (l *Ledger) recomputeTargets() {
	for i := range l.Channels {
		l.Channels[i].WeeklyTarget = l.WeeklyTarget * l.Channels[i].TargetPercentage / 100
	}
}

// Distribution summarises whether the channel split covers the whole target.
type Distribution struct {
	Total    float64 `json:"total"`
	Balanced bool    `json:"balanced"`
}

// Warning returns a user-facing message, or "" when the split is balanced.
func (d Distribution) Warning() string {
	if d.Balanced {
		return ""
	}
	return fmt.Sprintf("Total distribution must equal 100%%. Current total: %s%%",
		strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", d.Total), "0"), "."))
}

// Distribution sums the channel percentages.
func (l Ledger) Distribution() Distribution {
	var total float64
	for _, r := range l.Channels {
		total += r.TargetPercentage
	}
	return Distribution{
		Total:    total,
		Balanced: math.Abs(total-100) <= percentTolerance,
	}
}

// Snapshot is a detached copy of a whole session: every ledger plus the selected week.
type Snapshot struct {
	Current string   `json:"current" toml:"current"`
	Ledgers []Ledger `json:"ledgers" toml:"ledgers"`
}
