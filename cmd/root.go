// Package cmd implements the salesboard CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/config"
	"github.com/theirongolddev/salesboard/internal/logging"
	"github.com/theirongolddev/salesboard/internal/session"
	"github.com/theirongolddev/salesboard/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagWeek      string
	flagArchive   string
	flagQuiet     bool
	flagLogLevel  string
	flagLogFormat string
)

// cfg is the effective configuration, loaded once before any command runs.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "salesboard",
	Short: "Weekly sales ledger dashboard",
	Long: "Track a weekly sales target split across eight marketing channels:\n" +
		"enter spend and sales per channel, then read ROI, conversion and achievement.",
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
	RunE:              runReport,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagWeek, "week", "w", "", "Week to show (YYYY-WW, default: archived selection or this week)")
	rootCmd.PersistentFlags().StringVar(&flagArchive, "archive", "", "SQLite archive path (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text or json (default from config)")
}

// prepare loads the config and installs the logger. Flags win over config.
func prepare(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.Logging.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	format := cfg.Logging.Format
	if flagLogFormat != "" {
		format = flagLogFormat
	}
	if _, err := logging.Setup(os.Stderr, level, format); err != nil {
		return err
	}
	return nil
}

func archivePath() string {
	if flagArchive != "" {
		return flagArchive
	}
	return cfg.ArchivePath()
}

func formatter() cli.Formatter {
	return cli.NewFormatter(cfg.General.CurrencySymbol, cfg.General.Locale)
}

func newSessionDefaults() session.Defaults {
	return session.Defaults{WeeklyTarget: cfg.General.DefaultTarget}
}

func newSession() *session.Store {
	return session.New(session.WithDefaults(newSessionDefaults()))
}

// loadSession is the shared data path used by the report commands.
// It restores the archive when one exists, otherwise starts a fresh session,
// then applies --week.
func loadSession() (*session.Store, error) {
	st := newSession()

	path := archivePath()
	if store.Exists(path) {
		archive, err := store.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening archive: %w", err)
		}
		defer archive.Close()

		snap, ok, err := archive.LoadSnapshot()
		if err != nil {
			return nil, fmt.Errorf("loading archive: %w", err)
		}
		if ok {
			if err := st.Restore(snap); err != nil {
				return nil, err
			}
			slog.Debug("restored archive", "path", path, "weeks", len(snap.Ledgers))
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Loaded %d week(s) from %s\n", len(snap.Ledgers), path)
			}
		}
	}

	if flagWeek != "" {
		if err := st.Select(flagWeek); err != nil {
			return nil, fmt.Errorf("week %s: %w", flagWeek, err)
		}
	}
	return st, nil
}
