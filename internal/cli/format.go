// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrencySymbol is prefixed to money values when none is configured.
const DefaultCurrencySymbol = "₹"

// NotAvailable is shown in place of a ratio whose denominator was zero.
const NotAvailable = "n/a"

// Formatter renders money and counts with a currency symbol and locale digit grouping.
type Formatter struct {
	Symbol  string
	printer *message.Printer
}

// NewFormatter returns a Formatter for the given symbol and BCP 47 locale.
// An unparseable locale falls back to English grouping.
func NewFormatter(symbol, locale string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return Formatter{Symbol: symbol, printer: message.NewPrinter(tag)}
}

// DefaultFormatter uses the default symbol with English grouping.
func DefaultFormatter() Formatter {
	return NewFormatter(DefaultCurrencySymbol, "en")
}

func (f Formatter) p() *message.Printer {
	if f.printer == nil {
		return message.NewPrinter(language.English)
	}
	return f.printer
}

// Currency formats v with two decimals and digit grouping.
// e.g., 50000 -> "₹50,000.00"
func (f Formatter) Currency(v float64) string {
	if v < 0 {
		return "-" + f.Currency(-v)
	}
	return f.Symbol + f.p().Sprintf("%.2f", v)
}

// CompactCurrency formats v with a magnitude suffix for cards and charts.
// e.g., 1234 -> "₹1.2K", 2500000 -> "₹2.5M"
func (f Formatter) CompactCurrency(v float64) string {
	if v < 0 {
		return "-" + f.CompactCurrency(-v)
	}
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%s%.1fB", f.Symbol, v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%s%.1fM", f.Symbol, v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s%.1fK", f.Symbol, v/1_000)
	default:
		return fmt.Sprintf("%s%.0f", f.Symbol, v)
	}
}

// Count formats a whole number with digit grouping.
func (f Formatter) Count(n int64) string {
	return f.p().Sprintf("%d", n)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a value already expressed in percent.
// e.g., FormatPercent(12.5, 2) -> "12.50%"
func FormatPercent(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64) + "%"
}

// FormatRatio formats a 0-1 ratio as a percentage with two decimals.
// e.g., 0.5 -> "50.00%"
func FormatRatio(r float64) string {
	return FormatPercent(r*100, 2)
}

// FormatROI formats an ROI ratio, or NotAvailable when nothing was spent.
func FormatROI(roi float64, defined bool) string {
	if !defined {
		return NotAvailable
	}
	return FormatRatio(roi)
}

// FormatConversion formats a conversion rate, or NotAvailable when the basis was zero.
func FormatConversion(rate float64, defined bool) string {
	if !defined {
		return NotAvailable
	}
	return FormatPercent(rate, 2)
}

// FormatDelta formats the change between two money values with a sign.
func (f Formatter) FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + f.CompactCurrency(delta)
	}
	return "-" + f.CompactCurrency(-delta)
}

// Clamp01 limits v to [0, 1] for bar and gauge rendering.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
