// Package pipeline derives metrics, rankings and trends from weekly ledgers.
package pipeline

import (
	"sort"

	"github.com/theirongolddev/salesboard/internal/model"
)

// ComputeMetrics derives per-channel ROI and conversion plus ledger totals.
// It does not modify l.
func ComputeMetrics(l model.Ledger) model.MetricsView {
	view := model.MetricsView{
		WeekID:       l.WeekID,
		WeeklyTarget: l.WeeklyTarget,
		Distribution: l.Distribution(),
	}

	for i, r := range l.Channels {
		cm := model.ChannelMetrics{
			Channel:          r.Channel,
			TargetPercentage: r.TargetPercentage,
			WeeklyTarget:     r.WeeklyTarget,
			AmountSpent:      r.AmountSpent,
			ActualSales:      r.ActualSales,
			SiteVisits:       r.SiteVisits,
			CallsMade:        r.CallsMade,
			Basis:            model.ConversionBasisFor(r.Channel),
		}
		cm.ROI, cm.ROIDefined = roi(r.ActualSales, r.AmountSpent)
		cm.ConversionRate, cm.ConversionDefined = conversionRate(cm.Basis, r, l.WeeklyTarget)
		view.Channels[i] = cm

		view.TotalActualSales += r.ActualSales
		view.TotalAmountSpent += r.AmountSpent
	}

	view.OverallROI, view.OverallROIDefined = roi(view.TotalActualSales, view.TotalAmountSpent)
	view.TargetAchievementPct, view.AchievementDefined = percentOf(view.TotalActualSales, l.WeeklyTarget)

	return view
}

// roi returns (sales - spent) / spent, or 0 and false when nothing was spent.
func roi(sales, spent float64) (float64, bool) {
	if spent <= 0 {
		return 0, false
	}
	return (sales - spent) / spent, true
}

// percentOf returns num / den * 100, or 0 and false when den is not positive.
func percentOf(num, den float64) (float64, bool) {
	if den <= 0 {
		return 0, false
	}
	return num / den * 100, true
}

func conversionRate(basis model.ConversionBasis, r model.ChannelRecord, weeklyTarget float64) (float64, bool) {
	switch basis {
	case model.BasisReach:
		return percentOf(r.ActualSales, float64(r.SiteVisits))
	case model.BasisCalls:
		return percentOf(r.ActualSales, float64(r.CallsMade))
	case model.BasisTarget:
		return percentOf(r.ActualSales, weeklyTarget)
	default:
		return 0, false
	}
}

// History summarises each ledger as a trend point, oldest week first.
func History(ledgers []model.Ledger) []model.WeekPoint {
	points := make([]model.WeekPoint, 0, len(ledgers))
	for _, l := range ledgers {
		view := ComputeMetrics(l)
		points = append(points, model.WeekPoint{
			WeekID:         l.WeekID,
			Target:         l.WeeklyTarget,
			ActualSales:    view.TotalActualSales,
			AmountSpent:    view.TotalAmountSpent,
			AchievementPct: view.TargetAchievementPct,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].WeekID < points[j].WeekID
	})
	return points
}

// RankByROI returns the channels sorted by ROI, best first.
// Channels without spend sort after every channel with a defined ROI.
func RankByROI(view model.MetricsView) []model.ChannelMetrics {
	ranked := make([]model.ChannelMetrics, len(view.Channels))
	copy(ranked, view.Channels[:])
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.ROIDefined != b.ROIDefined {
			return a.ROIDefined
		}
		return a.ROI > b.ROI
	})
	return ranked
}

// RankByConversion returns the channels sorted by conversion rate, best first.
func RankByConversion(view model.MetricsView) []model.ChannelMetrics {
	ranked := make([]model.ChannelMetrics, len(view.Channels))
	copy(ranked, view.Channels[:])
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.ConversionDefined != b.ConversionDefined {
			return a.ConversionDefined
		}
		return a.ConversionRate > b.ConversionRate
	})
	return ranked
}
