package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so background styling produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no ANSI codes: %q", i, lines[i])
		}
	}
}

func TestCardRowWidthConsistency(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "A", 30)
	tallCard := ContentCard("Tall", "A\nB\nC\nD\nE\nF", 20)

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	want := lipgloss.Width(tallCard) + lipgloss.Width(shortCard)
	for i, line := range lines {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("line %d width = %d, want %d", i, w, want)
		}
	}
}

func TestMetricCardRowFillsWidth(t *testing.T) {
	metrics := []Metric{
		{Label: "Target", Value: "₹50,000.00"},
		{Label: "Actual Sales", Value: "₹40,000.00", Delta: "+₹5.0K"},
		{Label: "Overall ROI", Value: "3900.00%"},
	}
	row := MetricCardRow(metrics, 91)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 91 {
			t.Fatalf("line %d width = %d, want 91", i, w)
		}
	}
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, total := range []int{80, 81, 119, 180} {
		for n := 1; n <= 6; n++ {
			sum := 0
			for _, w := range LayoutRow(total, n) {
				sum += w
			}
			if sum != total {
				t.Fatalf("LayoutRow(%d, %d) sums to %d", total, n, sum)
			}
		}
	}
	if LayoutRow(80, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	for active := range Tabs {
		bar := RenderTabBar(active, 0)
		want := 0
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		want += len(Tabs) - 1
		got := lipgloss.Width(bar)
		if got != want {
			t.Fatalf("active=%d: rendered tab row width %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('e'); got != 2 {
		t.Fatalf("TabIdxByKey('e') = %d, want 2", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestTargetBarWithoutTarget(t *testing.T) {
	out := stripANSI(TargetBar("Meta Ads", 100, 0, 10, 12, "n/a"))
	if !strings.HasSuffix(out, "n/a") {
		t.Fatalf("TargetBar without target = %q, want n/a suffix", out)
	}
}

func TestTargetBarShowsRealPercentPastTarget(t *testing.T) {
	out := stripANSI(TargetBar("Sales", 15000, 10000, 6, 10, "n/a"))
	if !strings.Contains(out, "150.0%") {
		t.Fatalf("TargetBar = %q, want 150.0%%", out)
	}
}

func TestBarChartReferenceLine(t *testing.T) {
	out := stripANSI(BarChart([]float64{10, 20, 30}, []string{"a", "b", "c"}, 25, theme.Active.Accent, 40, 8))
	if !strings.Contains(out, "┄") {
		t.Fatalf("BarChart should draw the reference line:\n%s", out)
	}
	lines := strings.Split(out, "\n")
	if got := strings.Join(strings.Fields(lines[len(lines)-1]), " "); got != "a b c" {
		t.Fatalf("BarChart labels = %q, want \"a b c\"", got)
	}
}

func TestSparklineScales(t *testing.T) {
	got := stripANSI(Sparkline([]float64{0, 50, 100}, theme.Active.Accent))
	if got != "▁▄█" {
		t.Fatalf("Sparkline = %q, want ▁▄█", got)
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{50000, "50k"},
		{12500, "12.5k"},
		{2_000_000, "2M"},
		{40, "40"},
		{0.5, "0.50"},
	}
	for _, tt := range tests {
		if got := formatChartLabel(tt.in); got != tt.want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
