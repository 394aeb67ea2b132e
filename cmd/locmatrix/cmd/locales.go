package cmd

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/locmatrix/internal/config"
)

var localesCmd = &cobra.Command{
	Use:   "locales",
	Short: "Show the configured locales and locale modes",
	Long: `Locales prints the default locale, the locale columns a crawl uses and
every configured locale mode.

Locale modes are configured as "<Mode display name>: en-US, fr-FR" under
locales.modes and selected with "crawl --mode <id>".

Example:
  locmatrix locales --config locmatrix.yaml`,
	RunE: runLocales,
}

func init() {
	rootCmd.AddCommand(localesCmd)
}

func runLocales(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(config.Overrides{})
	if err != nil {
		return err
	}

	modes, err := cfg.LocaleModes()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Default locale: %s\n", cfg.Locales.Default)
	fmt.Fprintf(out, "Locale columns: %s\n", strings.Join(cfg.EffectiveLocales(), ", "))

	if len(modes) == 0 {
		fmt.Fprintln(out, "Locale modes: none")
		return nil
	}

	width := 0
	for _, mode := range modes {
		width = max(width, runewidth.StringWidth(mode.ID))
	}
	fmt.Fprintln(out, "Locale modes:")
	for _, mode := range modes {
		fmt.Fprintf(out, "  %s  %s: %s\n",
			runewidth.FillRight(mode.ID, width), mode.Name, strings.Join(mode.Locales, ", "))
	}
	return nil
}
