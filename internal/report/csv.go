// Package report builds the weekly metrics and channel exports.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/model"
)

// Kind selects which export to produce.
type Kind string

const (
	KindMetrics  Kind = "metrics"
	KindChannels Kind = "channels"
	KindAll      Kind = "all"
)

// ParseKind validates an export kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindMetrics, KindChannels, KindAll:
		return k, nil
	}
	return "", fmt.Errorf("unknown export kind %q (want metrics, channels or all)", s)
}

var channelHeader = []string{
	"Channel",
	"Target Percentage",
	"Weekly Target",
	"Amount Spent",
	"Actual Sales",
	"Site Visits/Reach",
	"Calls Made",
	"ROI",
	"Conversion Rate",
}

// MetricsRows returns the headline snapshot as Metric/Value pairs.
// Undefined ratios keep their 0 value so exports stay numeric.
func MetricsRows(view model.MetricsView, f cli.Formatter) [][]string {
	return [][]string{
		{"Total Target", f.Currency(view.WeeklyTarget)},
		{"Total Actual Sales", f.Currency(view.TotalActualSales)},
		{"Total Amount Spent", f.Currency(view.TotalAmountSpent)},
		{"Overall ROI", cli.FormatRatio(view.OverallROI)},
		{"Target Achievement", cli.FormatPercent(view.TargetAchievementPct, 1)},
	}
}

// ChannelRows returns one row per channel in display order.
func ChannelRows(view model.MetricsView, f cli.Formatter) [][]string {
	rows := make([][]string, 0, len(view.Channels))
	for _, cm := range view.Channels {
		rows = append(rows, []string{
			cm.Channel.String(),
			cli.FormatPercent(cm.TargetPercentage, 2),
			f.Currency(cm.WeeklyTarget),
			f.Currency(cm.AmountSpent),
			f.Currency(cm.ActualSales),
			fmt.Sprintf("%d", cm.SiteVisits),
			fmt.Sprintf("%d", cm.CallsMade),
			cli.FormatRatio(cm.ROI),
			cli.FormatPercent(cm.ConversionRate, 2),
		})
	}
	return rows
}

// WriteMetricsCSV writes the headline snapshot with a Metric,Value header.
func WriteMetricsCSV(w io.Writer, view model.MetricsView, f cli.Formatter) error {
	return writeCSV(w, []string{"Metric", "Value"}, MetricsRows(view, f))
}

// WriteChannelsCSV writes the per-channel report.
func WriteChannelsCSV(w io.Writer, view model.MetricsView, f cli.Formatter) error {
	return writeCSV(w, channelHeader, ChannelRows(view, f))
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	return nil
}

// MetricsFilename returns the download name of the headline snapshot.
func MetricsFilename(weekID string) string {
	return "sales_report_" + weekID + ".csv"
}

// ChannelsFilename returns the download name of the channel report.
func ChannelsFilename(weekID string) string {
	return "channel_performance_" + weekID + ".csv"
}

// Export writes the selected kind to w. KindAll writes the metrics snapshot,
// a blank line, then the channel report.
func Export(w io.Writer, kind Kind, view model.MetricsView, f cli.Formatter) error {
	switch kind {
	case KindMetrics:
		return WriteMetricsCSV(w, view, f)
	case KindChannels:
		return WriteChannelsCSV(w, view, f)
	case KindAll:
		if err := WriteMetricsCSV(w, view, f); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		return WriteChannelsCSV(w, view, f)
	}
	return fmt.Errorf("unknown export kind %q", kind)
}

// ExportFiles writes the selected kind into dir and returns the paths written.
func ExportFiles(dir string, kind Kind, view model.MetricsView, f cli.Formatter) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}

	type target struct {
		name  string
		write func(io.Writer, model.MetricsView, cli.Formatter) error
	}
	var targets []target
	if kind == KindMetrics || kind == KindAll {
		targets = append(targets, target{MetricsFilename(view.WeekID), WriteMetricsCSV})
	}
	if kind == KindChannels || kind == KindAll {
		targets = append(targets, target{ChannelsFilename(view.WeekID), WriteChannelsCSV})
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("unknown export kind %q", kind)
	}

	paths := make([]string, 0, len(targets))
	for _, t := range targets {
		path := filepath.Join(dir, t.name)
		if err := writeFile(path, view, f, t.write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ExportAll writes both CSV files into dir.
func ExportAll(dir string, view model.MetricsView, f cli.Formatter) ([]string, error) {
	return ExportFiles(dir, KindAll, view, f)
}

func writeFile(path string, view model.MetricsView, f cli.Formatter,
	write func(io.Writer, model.MetricsView, cli.Formatter) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(file, view, f); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
