package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLedgerDefaults(t *testing.T) {
	l := NewLedger("2026-41", DefaultWeeklyTarget)

	assert.Equal(t, "2026-41", l.WeekID)
	assert.Equal(t, 50000.0, l.WeeklyTarget)
	for i, r := range l.Channels {
		assert.Equal(t, Channel(i), r.Channel)
		assert.Equal(t, 12.5, r.TargetPercentage)
		assert.Equal(t, 6250.0, r.WeeklyTarget, r.Channel.String())
		assert.Zero(t, r.AmountSpent)
		assert.Zero(t, r.ActualSales)
		assert.Zero(t, r.SiteVisits)
		assert.Zero(t, r.CallsMade)
	}
	assert.True(t, l.Distribution().Balanced)
}

func TestSetWeeklyTargetSumsToTarget(t *testing.T) {
	l := NewLedger("2026-41", DefaultWeeklyTarget)
	// Uneven but balanced split.
	pcts := []float64{10, 20, 5, 15, 12.5, 7.5, 25, 5}
	for i, p := range pcts {
		l.SetChannelPercentage(Channel(i), p)
	}
	require.True(t, l.Distribution().Balanced)

	for _, target := range []float64{0, 1, 999.99, 73421.17, 1e7} {
		l.SetWeeklyTarget(target)
		var sum float64
		for _, r := range l.Channels {
			sum += r.WeeklyTarget
		}
		assert.InDelta(t, target, sum, 1e-6, "target %v", target)
	}
}

func TestSetChannelPercentageUsesCurrentTarget(t *testing.T) {
	l := NewLedger("2026-41", 80000)

	d := l.SetChannelPercentage(MetaAds, 20)

	assert.Equal(t, 16000.0, l.Record(MetaAds).WeeklyTarget)
	assert.Equal(t, 10000.0, l.Record(GoogleAds).WeeklyTarget)
	assert.False(t, d.Balanced)
	assert.InDelta(t, 107.5, d.Total, 1e-9)
	assert.Equal(t, "Total distribution must equal 100%. Current total: 107.5%", d.Warning())
}

func TestSetActualIsPureFieldWrite(t *testing.T) {
	l := NewLedger("2026-41", DefaultWeeklyTarget)
	before := l

	l.SetActual(TeleCalling, FieldCallsMade, 199.6)
	l.SetActual(TeleCalling, FieldActualSales, 1000)
	l.SetActual(MetaAds, FieldSiteVisits, 42)
	l.SetActual(MetaAds, FieldAmountSpent, 1000)

	assert.Equal(t, int64(200), l.Record(TeleCalling).CallsMade)
	assert.Equal(t, 1000.0, l.Record(TeleCalling).ActualSales)
	assert.Equal(t, int64(42), l.Record(MetaAds).SiteVisits)
	assert.Equal(t, 1000.0, l.Record(MetaAds).AmountSpent)

	// Targets and percentages untouched.
	for i := range l.Channels {
		assert.Equal(t, before.Channels[i].WeeklyTarget, l.Channels[i].WeeklyTarget)
		assert.Equal(t, before.Channels[i].TargetPercentage, l.Channels[i].TargetPercentage)
	}
}

func TestResetActualsIdempotent(t *testing.T) {
	l := NewLedger("2026-41", 60000)
	l.SetChannelPercentage(OrganicSales, 30)
	for _, ch := range Channels() {
		l.SetActual(ch, FieldAmountSpent, 100)
		l.SetActual(ch, FieldActualSales, 250)
		l.SetActual(ch, FieldSiteVisits, 10)
		l.SetActual(ch, FieldCallsMade, 5)
	}

	l.ResetActuals()
	once := l
	l.ResetActuals()

	assert.Equal(t, once, l)
	assert.Equal(t, 60000.0, l.WeeklyTarget)
	assert.Equal(t, 30.0, l.Record(OrganicSales).TargetPercentage)
	for _, r := range l.Channels {
		assert.Zero(t, r.AmountSpent)
		assert.Zero(t, r.ActualSales)
		assert.Zero(t, r.SiteVisits)
		assert.Zero(t, r.CallsMade)
	}
}

func TestCloneIntoKeepsConfigDropsActuals(t *testing.T) {
	src := NewLedger("2026-40", 72000)
	src.SetChannelPercentage(WhatsappBroadcasting, 5)
	src.SetChannelPercentage(AcademicSchools, 20)
	src.SetActual(GoogleAds, FieldActualSales, 9000)
	src.SetActual(GoogleAds, FieldSiteVisits, 300)

	c := src.CloneInto("2026-41")

	assert.Equal(t, "2026-41", c.WeekID)
	assert.Equal(t, src.WeeklyTarget, c.WeeklyTarget)
	for i := range c.Channels {
		assert.Equal(t, src.Channels[i].TargetPercentage, c.Channels[i].TargetPercentage)
		assert.Equal(t, src.Channels[i].WeeklyTarget, c.Channels[i].WeeklyTarget)
		assert.Zero(t, c.Channels[i].ActualSales)
		assert.Zero(t, c.Channels[i].SiteVisits)
	}
	// Source is not modified.
	assert.Equal(t, 9000.0, src.Record(GoogleAds).ActualSales)
}

func TestParseField(t *testing.T) {
	cases := map[string]Field{
		"amount_spent":      FieldAmountSpent,
		"Actual Sales":      FieldActualSales,
		"reach":             FieldSiteVisits,
		"Site Visits/Reach": FieldSiteVisits,
		"calls":             FieldCallsMade,
		"CALLS_MADE":        FieldCallsMade,
	}
	for in, want := range cases {
		got, err := ParseField(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseField("refunds")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestWeekID(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2026-01-01", "2026-00"}, // Thursday before the first Sunday
		{"2026-01-03", "2026-00"},
		{"2026-01-04", "2026-01"}, // first Sunday
		{"2026-10-17", "2026-41"},
		{"2023-01-01", "2023-01"}, // year starting on Sunday
		{"2024-12-31", "2024-52"},
	}
	for _, tc := range cases {
		d, err := time.Parse("2006-01-02", tc.date)
		require.NoError(t, err)
		got := WeekID(d)
		assert.Equal(t, tc.want, got, tc.date)
		assert.True(t, ValidWeekID(got))
	}
	assert.False(t, ValidWeekID("2026-W41"))
}

func TestSetActualCountBounds(t *testing.T) {
	l := NewLedger("2026-41", DefaultWeeklyTarget)

	cases := []struct {
		in   float64
		want int64
	}{
		{-5, 0},
		{math.NaN(), 0},
		{0.4, 0},
		{7.5, 8},
		{float64(math.MaxInt64), math.MaxInt64},
		{1e300, math.MaxInt64},
		{math.Inf(1), math.MaxInt64},
	}
	for _, c := range cases {
		l.SetActual(MetaAds, FieldSiteVisits, c.in)
		assert.Equal(t, c.want, l.Record(MetaAds).SiteVisits, "input %v", c.in)
	}
}

func TestUnknownChannelIsIgnored(t *testing.T) {
	l := NewLedger("2026-41", DefaultWeeklyTarget)
	before := l
	bad := Channel(NumChannels)

	assert.NotPanics(t, func() {
		d := l.SetChannelPercentage(bad, 40)
		assert.True(t, d.Balanced)
		l.SetActual(bad, FieldActualSales, 100)
		l.SetActual(Channel(-1), FieldActualSales, 100)
	})
	assert.Equal(t, before, l)
	assert.Equal(t, ChannelRecord{}, l.Record(bad))
}
