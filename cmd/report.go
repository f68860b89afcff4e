package cmd

import (
	"fmt"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/model"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Headline KPIs for the selected week",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	st, err := loadSession()
	if err != nil {
		return err
	}
	view, err := st.Metrics(st.CurrentWeek())
	if err != nil {
		return err
	}
	f := formatter()

	fmt.Println()
	fmt.Println(cli.RenderTitle("SALES LEDGER  Week " + view.WeekID))
	fmt.Println()

	achievement := cli.NotAvailable
	if view.AchievementDefined {
		achievement = cli.FormatPercent(view.TargetAchievementPct, 2)
	}

	prev := prevPoint(st.History(), view.WeekID)
	rows := [][]string{
		{"Weekly Target", f.Currency(view.WeeklyTarget)},
		{"Distributed", cli.FormatPercent(view.Distribution.Total, 2)},
		{"---"},
		{"Actual Sales", withDelta(f, view.TotalActualSales, prev, func(p model.WeekPoint) float64 { return p.ActualSales })},
		{"Amount Spent", withDelta(f, view.TotalAmountSpent, prev, func(p model.WeekPoint) float64 { return p.AmountSpent })},
		{"---"},
		{"Overall ROI", cli.FormatROI(view.OverallROI, view.OverallROIDefined)},
		{"Target Achievement", achievement},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if w := view.Distribution.Warning(); w != "" {
		fmt.Print(cli.RenderWarning(w))
	}
	return nil
}

// prevPoint returns the tracked week just before weekID, if any.
func prevPoint(history []model.WeekPoint, weekID string) *model.WeekPoint {
	for i, p := range history {
		if p.WeekID == weekID && i > 0 {
			prev := history[i-1]
			return &prev
		}
	}
	return nil
}

func withDelta(f cli.Formatter, current float64, prev *model.WeekPoint, pick func(model.WeekPoint) float64) string {
	s := f.Currency(current)
	if prev == nil {
		return s
	}
	return fmt.Sprintf("%s  (%s vs %s)", s, f.FormatDelta(current, pick(*prev)), prev.WeekID)
}
