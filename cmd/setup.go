package cmd

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/salesboard/internal/config"
	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// locales offered by the wizard; any BCP 47 tag works in config.toml.
var locales = []string{"en", "en-IN", "de", "fr", "es", "ja"}

func runSetup(_ *cobra.Command, _ []string) error {
	next := cfg
	target := strconv.FormatFloat(next.General.DefaultTarget, 'f', -1, 64)
	symbol := next.General.CurrencySymbol
	locale := next.General.Locale
	themeName := next.Appearance.Theme

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to salesboard").
				Description("These defaults seed every new week and format the reports."),
			huh.NewInput().
				Title("Default weekly target").
				Value(&target).
				Validate(func(s string) error {
					_, err := parseTarget(s)
					return err
				}),
			huh.NewInput().
				Title("Currency symbol").
				CharLimit(4).
				Value(&symbol).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("symbol cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Number locale").
				Options(huh.NewOptions(locales...)...).
				Value(&locale),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&themeName),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled; nothing was saved.")
			return nil
		}
		return err
	}

	v, err := parseTarget(target)
	if err != nil {
		return err
	}
	next.General.DefaultTarget = v
	next.General.CurrencySymbol = strings.TrimSpace(symbol)
	next.General.Locale = locale
	next.Appearance.Theme = themeName

	if err := config.Save(next); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `salesboard setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

// parseTarget accepts grouped input such as "1,50,000".
func parseTarget(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < 0 {
		return 0, errors.New("target cannot be negative")
	}
	return v, nil
}
