package cmd

import (
	"fmt"
	"slices"

	"github.com/theirongolddev/salesboard/internal/cli"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Week-by-week target, sales and achievement",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	st, err := loadSession()
	if err != nil {
		return err
	}
	history := st.History()
	f := formatter()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("WEEKLY HISTORY  %d week(s)", len(history))))
	fmt.Println()

	current := st.CurrentWeek()
	rows := make([][]string, 0, len(history))
	// Newest first, matching the week list everywhere else.
	for _, p := range slices.Backward(history) {
		week := p.WeekID
		if week == current {
			week += " *"
		}
		achievement := cli.NotAvailable
		if p.Target > 0 {
			achievement = cli.FormatPercent(p.AchievementPct, 1)
		}
		rows = append(rows, []string{
			week,
			f.Currency(p.Target),
			f.Currency(p.AmountSpent),
			f.Currency(p.ActualSales),
			achievement,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Week", "Target", "Spent", "Sales", "Achieved"},
		Rows:    rows,
	}))

	if len(history) > 1 {
		sales := make([]float64, len(history))
		for i, p := range history {
			sales[i] = p.ActualSales
		}
		fmt.Printf("  Sales trend  %s\n", cli.RenderSparkline(sales))
	}
	fmt.Print(cli.RenderMuted("* selected week"))
	return nil
}
