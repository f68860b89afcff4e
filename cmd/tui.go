package cmd

import (
	"fmt"

	"github.com/theirongolddev/salesboard/internal/tui"
	"github.com/theirongolddev/salesboard/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	flagTUIRestore   bool
	flagTUIExportDir string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	Long: "Edit the weekly ledger interactively. The session lives in memory;\n" +
		"ctrl+s saves it to the archive and --restore loads the archive at start.",
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&flagTUIRestore, "restore", false, "Load the archive before showing the dashboard")
	tuiCmd.Flags().StringVar(&flagTUIExportDir, "export-dir", ".", "Directory for CSV exports")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(newSession(), tui.Options{
		Formatter:   formatter(),
		ArchivePath: archivePath(),
		ExportDir:   flagTUIExportDir,
		Restore:     flagTUIRestore,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
