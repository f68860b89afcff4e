package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/salesboard/internal/report"

	"github.com/spf13/cobra"
)

var (
	flagExportKind string
	flagExportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the selected week as CSV",
	Long: "Write the metrics snapshot and channel performance reports as CSV.\n" +
		"With --out -, the report is written to stdout instead of files.",
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportKind, "kind", string(report.KindAll), "Report to export: metrics, channels or all")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", ".", "Output directory, or - for stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	kind, err := report.ParseKind(flagExportKind)
	if err != nil {
		return err
	}

	st, err := loadSession()
	if err != nil {
		return err
	}
	view, err := st.Metrics(st.CurrentWeek())
	if err != nil {
		return err
	}

	if flagExportOut == "-" {
		return report.Export(os.Stdout, kind, view, formatter())
	}

	paths, err := report.ExportFiles(flagExportOut, kind, view, formatter())
	if err != nil {
		return err
	}
	if !flagQuiet {
		for _, p := range paths {
			fmt.Printf("  Wrote %s\n", p)
		}
	}
	return nil
}
