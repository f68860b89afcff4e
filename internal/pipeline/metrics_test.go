package pipeline

import (
	"testing"

	"github.com/theirongolddev/salesboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMetricsTeleCallingConversion(t *testing.T) {
	l := model.NewLedger("2026-41", model.DefaultWeeklyTarget)
	l.SetActual(model.TeleCalling, model.FieldCallsMade, 200)
	l.SetActual(model.TeleCalling, model.FieldActualSales, 1000)
	// Visits are ignored for Tele Calling.
	l.SetActual(model.TeleCalling, model.FieldSiteVisits, 10)

	view := ComputeMetrics(l)
	cm := view.Channels[model.TeleCalling]

	assert.Equal(t, model.BasisCalls, cm.Basis)
	assert.True(t, cm.ConversionDefined)
	assert.InDelta(t, 500.0, cm.ConversionRate, 1e-9)
}

func TestComputeMetricsMetaAdsROI(t *testing.T) {
	l := model.NewLedger("2026-41", model.DefaultWeeklyTarget)
	l.SetActual(model.MetaAds, model.FieldAmountSpent, 1000)
	l.SetActual(model.MetaAds, model.FieldActualSales, 1500)
	l.SetActual(model.MetaAds, model.FieldSiteVisits, 3000)

	cm := ComputeMetrics(l).Channels[model.MetaAds]

	assert.True(t, cm.ROIDefined)
	assert.InDelta(t, 0.5, cm.ROI, 1e-9)
	assert.InDelta(t, 50.0, cm.ConversionRate, 1e-9)
}

func TestComputeMetricsZeroSpendROIIsZero(t *testing.T) {
	l := model.NewLedger("2026-41", model.DefaultWeeklyTarget)
	for _, ch := range model.Channels() {
		l.SetActual(ch, model.FieldActualSales, float64(1000*(int(ch)+1)))
	}

	view := ComputeMetrics(l)
	for _, cm := range view.Channels {
		assert.Zero(t, cm.ROI, cm.Channel.String())
		assert.False(t, cm.ROIDefined, cm.Channel.String())
	}
	assert.Zero(t, view.OverallROI)
	assert.False(t, view.OverallROIDefined)
}

func TestComputeMetricsTargetBasedConversion(t *testing.T) {
	l := model.NewLedger("2026-41", 40000)
	l.SetActual(model.WhatsappBroadcasting, model.FieldActualSales, 2000)
	l.SetActual(model.OrganicSales, model.FieldActualSales, 4000)
	l.SetActual(model.OrganicSales, model.FieldSiteVisits, 1)

	view := ComputeMetrics(l)

	assert.InDelta(t, 5.0, view.Channels[model.WhatsappBroadcasting].ConversionRate, 1e-9)
	// Organic Sales divides by the ledger target, not by visits.
	assert.InDelta(t, 10.0, view.Channels[model.OrganicSales].ConversionRate, 1e-9)

	l.SetWeeklyTarget(0)
	view = ComputeMetrics(l)
	assert.Zero(t, view.Channels[model.WhatsappBroadcasting].ConversionRate)
	assert.False(t, view.Channels[model.WhatsappBroadcasting].ConversionDefined)
	assert.Zero(t, view.TargetAchievementPct)
	assert.False(t, view.AchievementDefined)
}

func TestComputeMetricsReachWithoutVisits(t *testing.T) {
	l := model.NewLedger("2026-41", model.DefaultWeeklyTarget)
	l.SetActual(model.GoogleAds, model.FieldActualSales, 5000)

	cm := ComputeMetrics(l).Channels[model.GoogleAds]
	assert.Zero(t, cm.ConversionRate)
	assert.False(t, cm.ConversionDefined)
}

func TestComputeMetricsAggregates(t *testing.T) {
	l := model.NewLedger("2026-41", 50000)
	sales := []float64{5000, 8000, 4000, 6000, 7000, 3000, 2000, 5000}
	spent := []float64{500, 2000, 1500, 1000, 0, 500, 0, 500}
	for i := range sales {
		l.SetActual(model.Channel(i), model.FieldActualSales, sales[i])
		l.SetActual(model.Channel(i), model.FieldAmountSpent, spent[i])
	}

	view := ComputeMetrics(l)

	assert.Equal(t, 40000.0, view.TotalActualSales)
	assert.Equal(t, 6000.0, view.TotalAmountSpent)
	assert.InDelta(t, 80.0, view.TargetAchievementPct, 1e-9)
	assert.True(t, view.AchievementDefined)
	assert.InDelta(t, (40000.0-6000.0)/6000.0, view.OverallROI, 1e-9)
	assert.True(t, view.Distribution.Balanced)
	assert.Equal(t, "2026-41", view.WeekID)
}

func TestComputeMetricsDoesNotMutateLedger(t *testing.T) {
	l := model.NewLedger("2026-41", 50000)
	l.SetActual(model.MetaAds, model.FieldAmountSpent, 100)
	before := l

	_ = ComputeMetrics(l)
	assert.Equal(t, before, l)
}

func TestHistorySortsOldestFirst(t *testing.T) {
	a := model.NewLedger("2026-40", 50000)
	a.SetActual(model.MetaAds, model.FieldActualSales, 25000)
	b := model.NewLedger("2026-41", 60000)
	b.SetActual(model.GoogleAds, model.FieldActualSales, 30000)
	b.SetActual(model.GoogleAds, model.FieldAmountSpent, 3000)
	c := model.NewLedger("2025-52", 10000)

	points := History([]model.Ledger{b, a, c})

	require.Len(t, points, 3)
	assert.Equal(t, "2025-52", points[0].WeekID)
	assert.Equal(t, "2026-40", points[1].WeekID)
	assert.Equal(t, "2026-41", points[2].WeekID)
	assert.InDelta(t, 50.0, points[1].AchievementPct, 1e-9)
	assert.Equal(t, 3000.0, points[2].AmountSpent)
	assert.Equal(t, 60000.0, points[2].Target)
}

func TestRankByROI(t *testing.T) {
	l := model.NewLedger("2026-41", 50000)
	l.SetActual(model.MetaAds, model.FieldAmountSpent, 1000)
	l.SetActual(model.MetaAds, model.FieldActualSales, 1500)
	l.SetActual(model.GoogleAds, model.FieldAmountSpent, 1000)
	l.SetActual(model.GoogleAds, model.FieldActualSales, 4000)
	l.SetActual(model.TeleCalling, model.FieldAmountSpent, 1000)
	l.SetActual(model.TeleCalling, model.FieldActualSales, 500)

	ranked := RankByROI(ComputeMetrics(l))

	require.Len(t, ranked, model.NumChannels)
	assert.Equal(t, model.GoogleAds, ranked[0].Channel)
	assert.Equal(t, model.MetaAds, ranked[1].Channel)
	assert.Equal(t, model.TeleCalling, ranked[2].Channel)
	for _, cm := range ranked[3:] {
		assert.False(t, cm.ROIDefined)
	}
}

func TestRankByConversion(t *testing.T) {
	l := model.NewLedger("2026-41", 50000)
	l.SetActual(model.TeleCalling, model.FieldCallsMade, 100)
	l.SetActual(model.TeleCalling, model.FieldActualSales, 100)
	l.SetActual(model.AcademicSchools, model.FieldSiteVisits, 10)
	l.SetActual(model.AcademicSchools, model.FieldActualSales, 200)

	ranked := RankByConversion(ComputeMetrics(l))

	assert.Equal(t, model.AcademicSchools, ranked[0].Channel)
	assert.Equal(t, model.TeleCalling, ranked[1].Channel)
}
