package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/locmatrix/internal/config"
	"github.com/dbsmedya/locmatrix/internal/logger"
	"github.com/dbsmedya/locmatrix/internal/server"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and check the record store",
	Long: `Validate checks the configuration file and opens the configured record
store to make sure a crawl can run.

Checks performed:
  - Configuration syntax and required fields
  - Locale codes, locale order and locale modes
  - Record store connectivity (SQL ping, bundle parsing, API credentials)

Example:
  locmatrix validate --config locmatrix.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, configFile, err := loadConfig(config.Overrides{})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n=== Configuration Validation ===\n")
	if configFile == "" {
		configFile = "(defaults)"
	}
	fmt.Fprintf(out, "Config file: %s\n", configFile)
	fmt.Fprintf(out, "Store: %s\n", cfg.Store.Type)
	fmt.Fprintf(out, "Locales: %s\n\n", strings.Join(cfg.EffectiveLocales(), ", "))

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "❌ %v\n", err)
		return fmt.Errorf("configuration is invalid")
	}
	if _, err := cfg.LocaleModes(); err != nil {
		fmt.Fprintf(out, "❌ %v\n", err)
		return fmt.Errorf("configuration is invalid")
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := cmd.Context()
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(out, "❌ %v\n", err)
		return fmt.Errorf("record store check failed")
	}
	defer func() { _ = closeStore() }()

	if pinger, ok := store.(server.Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			fmt.Fprintf(out, "❌ Record store ping failed: %v\n", err)
			return fmt.Errorf("record store check failed")
		}
	}

	fmt.Fprintln(out, "=== Validation Complete ===")
	fmt.Fprintln(out, "✅ Configuration is valid")
	return nil
}
