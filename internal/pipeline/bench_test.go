package pipeline

import (
	"fmt"
	"testing"

	"github.com/theirongolddev/salesboard/internal/model"
)

// benchYear builds a year of ledgers with every actual filled in.
func benchYear() []model.Ledger {
	ledgers := make([]model.Ledger, 52)
	for w := range ledgers {
		l := model.NewLedger(fmt.Sprintf("2026-%02d", w+1), 50000+float64(w)*1000)
		for i, ch := range model.Channels() {
			l.SetActual(ch, model.FieldAmountSpent, float64(500*(i+1)))
			l.SetActual(ch, model.FieldActualSales, float64(1200*(i+1)+w*10))
			l.SetActual(ch, ch.ActivityField(), float64(40*(i+1)))
		}
		ledgers[w] = l
	}
	return ledgers
}

func BenchmarkComputeMetrics(b *testing.B) {
	l := benchYear()[0]

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		view := ComputeMetrics(l)
		_ = view
	}
}

func BenchmarkHistory(b *testing.B) {
	ledgers := benchYear()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		points := History(ledgers)
		if len(points) != len(ledgers) {
			b.Fatalf("got %d points, want %d", len(points), len(ledgers))
		}
	}
}

func BenchmarkRankByROI(b *testing.B) {
	view := ComputeMetrics(benchYear()[0])

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ranked := RankByROI(view)
		_ = ranked
	}
}
