package cmd

import (
	"fmt"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/model"

	"github.com/spf13/cobra"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Per-channel targets, actuals and efficiency",
	RunE:  runChannels,
}

func init() {
	rootCmd.AddCommand(channelsCmd)
}

func runChannels(_ *cobra.Command, _ []string) error {
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
	fmt.Println(cli.RenderTitle("CHANNELS  Week " + view.WeekID))
	fmt.Println()

	rows := make([][]string, 0, len(view.Channels)+2)
	for _, m := range view.Channels {
		activity := m.SiteVisits
		if m.Channel.ActivityField() == model.FieldCallsMade {
			activity = m.CallsMade
		}
		rows = append(rows, []string{
			m.Channel.String(),
			cli.FormatPercent(m.TargetPercentage, 2),
			f.Currency(m.WeeklyTarget),
			f.Currency(m.AmountSpent),
			f.Currency(m.ActualSales),
			f.Count(activity),
			cli.FormatROI(m.ROI, m.ROIDefined),
			cli.FormatConversion(m.ConversionRate, m.ConversionDefined),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{
		"TOTAL",
		cli.FormatPercent(view.Distribution.Total, 2),
		f.Currency(view.WeeklyTarget),
		f.Currency(view.TotalAmountSpent),
		f.Currency(view.TotalActualSales),
		"",
		cli.FormatROI(view.OverallROI, view.OverallROIDefined),
		"",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Channel Performance",
		Headers: []string{"Channel", "Target %", "Target", "Spent", "Sales", "Visits/Calls", "ROI", "Conv."},
		Rows:    rows,
	}))

	fmt.Println("  Sales vs Channel Target")
	for _, m := range view.Channels {
		fmt.Println(cli.RenderTargetBar(fmt.Sprintf("%-20s", m.Channel.String()), m.ActualSales, m.WeeklyTarget, 30))
	}
	fmt.Println()

	if w := view.Distribution.Warning(); w != "" {
		fmt.Print(cli.RenderWarning(w))
	}
	return nil
}
