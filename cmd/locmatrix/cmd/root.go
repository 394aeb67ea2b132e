package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "locmatrix",
	Short: "Localization coverage matrix for linked content",
	Long: `Crawl the entries, assets and content types reachable from a root entry
and report, field by field and locale by locale, what has been translated.

Features:
  - Recursive link expansion with cycle detection
  - Each record fetched at most once per crawl
  - Records read from the management API, a SQL snapshot or a YAML/JSON bundle
  - Text, Markdown, JSON and YAML output
  - HTTP server with Prometheus metrics`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Path to configuration file (default: ./locmatrix.yaml, then $XDG_CONFIG_HOME/locmatrix/config.yaml)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}
