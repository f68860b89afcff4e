package session

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/salesboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	// Saturday, week 41.
	return &fakeClock{t: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)}
}

func TestNewSeedsCurrentWeek(t *testing.T) {
	clock := newClock()
	s := New(WithClock(clock.Now))

	assert.Equal(t, "2026-41", s.CurrentWeek())
	assert.Equal(t, []string{"2026-41"}, s.Weeks())

	l := s.Current()
	assert.Equal(t, 50000.0, l.WeeklyTarget)
	assert.Equal(t, 6250.0, l.Record(model.MetaAds).WeeklyTarget)
}

func TestNewUsesDefaults(t *testing.T) {
	s := New(WithClock(newClock().Now), WithDefaults(Defaults{WeeklyTarget: 80000}))
	assert.Equal(t, 80000.0, s.Current().WeeklyTarget)
}

func TestCloneWeekNoOpWhenWeekExists(t *testing.T) {
	clock := newClock()
	s := New(WithClock(clock.Now))
	require.NoError(t, s.SetActual("2026-41", model.MetaAds, model.FieldActualSales, 1234))

	id, created, err := s.CloneWeek("2026-41")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "2026-41", id)

	l, err := s.Ledger("2026-41")
	require.NoError(t, err)
	assert.Equal(t, 1234.0, l.Record(model.MetaAds).ActualSales)
	assert.Len(t, s.Weeks(), 1)
}

func TestCloneWeekCreatesAndSelects(t *testing.T) {
	clock := newClock()
	var changes []Change
	s := New(WithClock(clock.Now), WithOnChange(func(c Change) { changes = append(changes, c) }))
	require.NoError(t, s.SetWeeklyTarget("2026-41", 70000))
	_, err := s.SetChannelPercentage("2026-41", model.GoogleAds, 30)
	require.NoError(t, err)
	require.NoError(t, s.SetActual("2026-41", model.GoogleAds, model.FieldActualSales, 9000))

	clock.Advance(7 * 24 * time.Hour)
	id, created, err := s.CloneWeek("2026-41")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "2026-42", id)
	assert.Equal(t, "2026-42", s.CurrentWeek())
	assert.Equal(t, []string{"2026-42", "2026-41"}, s.Weeks())

	l := s.Current()
	assert.Equal(t, 70000.0, l.WeeklyTarget)
	assert.Equal(t, 30.0, l.Record(model.GoogleAds).TargetPercentage)
	assert.Zero(t, l.Record(model.GoogleAds).ActualSales)

	require.NotEmpty(t, changes)
	assert.Equal(t, Change{Kind: ChangeClone, WeekID: "2026-42"}, changes[len(changes)-1])
}

func TestCloneWeekUnknownSource(t *testing.T) {
	s := New(WithClock(newClock().Now))
	_, _, err := s.CloneWeek("1999-01")
	assert.ErrorIs(t, err, ErrUnknownWeek)
}

func TestSelect(t *testing.T) {
	clock := newClock()
	s := New(WithClock(clock.Now))
	clock.Advance(7 * 24 * time.Hour)
	_, _, err := s.CloneWeek("2026-41")
	require.NoError(t, err)

	require.NoError(t, s.Select("2026-41"))
	assert.Equal(t, "2026-41", s.CurrentWeek())

	err = s.Select("2026-99")
	assert.ErrorIs(t, err, ErrUnknownWeek)
	assert.Equal(t, "2026-41", s.CurrentWeek())
}

func TestMutatorsClampInput(t *testing.T) {
	s := New(WithClock(newClock().Now))
	week := s.CurrentWeek()

	require.NoError(t, s.SetWeeklyTarget(week, -10))
	assert.Zero(t, s.Current().WeeklyTarget)

	d, err := s.SetChannelPercentage(week, model.MetaAds, 250)
	require.NoError(t, err)
	assert.Equal(t, 100.0, s.Current().Record(model.MetaAds).TargetPercentage)
	assert.False(t, d.Balanced)

	_, err = s.SetChannelPercentage(week, model.MetaAds, -5)
	require.NoError(t, err)
	assert.Zero(t, s.Current().Record(model.MetaAds).TargetPercentage)

	require.NoError(t, s.SetActual(week, model.TeleCalling, model.FieldCallsMade, -3))
	assert.Zero(t, s.Current().Record(model.TeleCalling).CallsMade)
}

func TestMutatorsRejectUnknownInputs(t *testing.T) {
	s := New(WithClock(newClock().Now))
	week := s.CurrentWeek()

	assert.ErrorIs(t, s.SetWeeklyTarget("2000-01", 1), ErrUnknownWeek)
	assert.ErrorIs(t, s.ResetActuals("2000-01"), ErrUnknownWeek)
	assert.ErrorIs(t, s.SetActual(week, model.Channel(42), model.FieldActualSales, 1), model.ErrUnknownChannel)
	assert.ErrorIs(t, s.SetActual(week, model.MetaAds, model.Field(9), 1), model.ErrUnknownField)
	_, err := s.SetChannelPercentage(week, model.Channel(-1), 10)
	assert.ErrorIs(t, err, model.ErrUnknownChannel)
	_, err = s.Metrics("2000-01")
	assert.ErrorIs(t, err, ErrUnknownWeek)
}

func TestMetricsAndReset(t *testing.T) {
	s := New(WithClock(newClock().Now))
	week := s.CurrentWeek()
	require.NoError(t, s.SetActual(week, model.MetaAds, model.FieldAmountSpent, 1000))
	require.NoError(t, s.SetActual(week, model.MetaAds, model.FieldActualSales, 1500))

	view, err := s.Metrics(week)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, view.Channels[model.MetaAds].ROI, 1e-9)
	assert.InDelta(t, 3.0, view.TargetAchievementPct, 1e-9)

	require.NoError(t, s.ResetActuals(week))
	require.NoError(t, s.ResetActuals(week))
	view, err = s.Metrics(week)
	require.NoError(t, err)
	assert.Zero(t, view.TotalActualSales)
	assert.Zero(t, view.TotalAmountSpent)
}

func TestLedgerReturnsCopy(t *testing.T) {
	s := New(WithClock(newClock().Now))
	l := s.Current()
	l.SetWeeklyTarget(1)

	assert.Equal(t, 50000.0, s.Current().WeeklyTarget)
}

func TestHistoryOldestFirst(t *testing.T) {
	clock := newClock()
	s := New(WithClock(clock.Now))
	clock.Advance(14 * 24 * time.Hour)
	_, _, err := s.CloneWeek("2026-41")
	require.NoError(t, err)

	points := s.History()
	require.Len(t, points, 2)
	assert.Equal(t, "2026-41", points[0].WeekID)
	assert.Equal(t, "2026-43", points[1].WeekID)
}

func TestSnapshotRestore(t *testing.T) {
	clock := newClock()
	s := New(WithClock(clock.Now))
	require.NoError(t, s.SetActual("2026-41", model.OrganicSales, model.FieldActualSales, 777))
	clock.Advance(7 * 24 * time.Hour)
	_, _, err := s.CloneWeek("2026-41")
	require.NoError(t, err)
	require.NoError(t, s.Select("2026-41"))

	snap := s.Snapshot()
	require.Len(t, snap.Ledgers, 2)
	assert.Equal(t, "2026-42", snap.Ledgers[0].WeekID)

	other := New(WithClock(newClock().Now))
	require.NoError(t, other.Restore(snap))
	assert.Equal(t, s.Weeks(), other.Weeks())
	assert.Equal(t, "2026-41", other.CurrentWeek())
	assert.Equal(t, 777.0, other.Current().Record(model.OrganicSales).ActualSales)
}

func TestRestoreRejectsInvalidSnapshots(t *testing.T) {
	good := model.NewLedger("2026-41", 1000)
	cases := map[string]model.Snapshot{
		"empty":     {},
		"bad id":    {Current: "41", Ledgers: []model.Ledger{model.NewLedger("41", 1)}},
		"duplicate": {Current: "2026-41", Ledgers: []model.Ledger{good, good}},
		"current":   {Current: "2026-40", Ledgers: []model.Ledger{good}},
	}
	for name, snap := range cases {
		s := New(WithClock(newClock().Now))
		err := s.Restore(snap)
		assert.ErrorIs(t, err, ErrInvalidSnapshot, name)
		assert.Equal(t, []string{"2026-41"}, s.Weeks(), name)
	}
}

func TestConcurrentUpdates(t *testing.T) {
	s := New(WithClock(newClock().Now))
	week := s.CurrentWeek()

	var wg sync.WaitGroup
	for _, ch := range model.Channels() {
		wg.Add(1)
		go func(ch model.Channel) {
			defer wg.Done()
			for i := 1; i <= 100; i++ {
				_ = s.SetActual(week, ch, model.FieldActualSales, float64(i))
				_, _ = s.Metrics(week)
			}
		}(ch)
	}
	wg.Wait()

	for _, r := range s.Current().Channels {
		assert.Equal(t, 100.0, r.ActualSales, r.Channel.String())
	}
}

func TestSetActualSaturatesHugeCounts(t *testing.T) {
	s := New(WithClock(newClock().Now))
	week := s.CurrentWeek()

	require.NoError(t, s.SetActual(week, model.MetaAds, model.FieldSiteVisits, 1e300))
	require.NoError(t, s.SetActual(week, model.TeleCalling, model.FieldCallsMade, 1e19))
	require.NoError(t, s.SetActual(week, model.GoogleAds, model.FieldSiteVisits, math.Inf(1)))

	l := s.Current()
	assert.Equal(t, int64(math.MaxInt64), l.Record(model.MetaAds).SiteVisits)
	assert.Equal(t, int64(math.MaxInt64), l.Record(model.TeleCalling).CallsMade)
	assert.Equal(t, int64(math.MaxInt64), l.Record(model.GoogleAds).SiteVisits)

	view, err := s.Metrics(week)
	require.NoError(t, err)
	assert.True(t, view.Channels[model.MetaAds].ConversionDefined)
	assert.True(t, view.Channels[model.TeleCalling].ConversionDefined)
}
