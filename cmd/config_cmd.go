package cmd

import (
	"fmt"

	"github.com/theirongolddev/salesboard/internal/config"
	"github.com/theirongolddev/salesboard/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Overrides: %s* environment variables\n", config.EnvPrefix)
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default target:  %s\n", formatter().Currency(cfg.General.DefaultTarget))
	fmt.Printf("    Currency symbol: %s\n", cfg.General.CurrencySymbol)
	fmt.Printf("    Locale:          %s\n", cfg.General.Locale)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Session TTL:   %s\n", cfg.Server.SessionTTL.Duration)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Printf("    PID file:      %s\n", cfg.PIDPath())
	fmt.Println()

	fmt.Println("  [Archive]")
	path := archivePath()
	fmt.Printf("    Path: %s\n", path)
	if store.Exists(path) {
		archive, err := store.Open(path)
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer archive.Close()
		weeks, err := archive.WeekCount()
		if err != nil {
			return err
		}
		savedAt, ok, err := archive.SavedAt()
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf("    Saved: %s (%d week(s))\n", savedAt.Local().Format("2006-01-02 15:04"), weeks)
		} else {
			fmt.Printf("    Saved: %d week(s)\n", weeks)
		}
	} else {
		fmt.Println("    Saved: never")
	}
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	fmt.Println()

	fmt.Println("  Run `salesboard setup` to reconfigure.")
	return nil
}
