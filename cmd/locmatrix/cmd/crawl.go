package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/locmatrix/internal/analytics"
	"github.com/dbsmedya/locmatrix/internal/config"
	"github.com/dbsmedya/locmatrix/internal/crawler"
	"github.com/dbsmedya/locmatrix/internal/logger"
	"github.com/dbsmedya/locmatrix/internal/matrix"
	"github.com/dbsmedya/locmatrix/internal/render"
)

var (
	crawlEntry            string
	crawlLocales          []string
	crawlMode             string
	crawlExclude          []string
	crawlFormat           string
	crawlHideLocalized    bool
	crawlHideNonLocalized bool
	crawlUser             string
	crawlRecords          string
	crawlNoColor          bool
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Build the localization matrix of an entry",
	Long: `Crawl expands every link below the given entry and prints one row per
field, with one column per locale.

The crawl follows these steps:
  1. Load the root entry and its content type
  2. Expand link fields recursively, skipping records already on the branch
  3. Stop expanding below entries of excluded content types
  4. Render the rows that pass the filters

Records are read from the store configured under "store" (management API,
SQL snapshot or YAML/JSON bundle). --records reads a bundle without any
configuration file.

Example:
  locmatrix crawl --entry 3x8HKCGv0sSWGq --locales en-US,de-DE
  locmatrix crawl --entry home --records records.yaml --format markdown`,
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().StringVarP(&crawlEntry, "entry", "e", "",
		"Root entry id (required)")
	crawlCmd.MarkFlagRequired("entry")

	crawlCmd.Flags().StringSliceVarP(&crawlLocales, "locales", "l", nil,
		"Locale columns in display order (default: locales.order, then locales.default)")
	crawlCmd.Flags().StringVarP(&crawlMode, "mode", "m", "",
		"Use the locales of a configured locale mode")
	crawlCmd.MarkFlagsMutuallyExclusive("locales", "mode")
	crawlCmd.Flags().StringSliceVar(&crawlExclude, "exclude", nil,
		"Content types whose links are not expanded (overrides crawl.break_on_content_types)")

	crawlCmd.Flags().StringVarP(&crawlFormat, "format", "f", string(render.FormatText),
		"Output format (text, markdown, json, yaml)")
	crawlCmd.Flags().BoolVar(&crawlHideLocalized, "hide-localized", false,
		"Hide fully localized rows")
	crawlCmd.Flags().BoolVar(&crawlHideNonLocalized, "hide-non-localized", false,
		"Hide fully non-localized rows")
	crawlCmd.Flags().BoolVar(&crawlNoColor, "no-color", false,
		"Disable colours in text output")

	crawlCmd.Flags().StringVar(&crawlUser, "user", "",
		"User id reported with the usage analytics")
	crawlCmd.Flags().StringVar(&crawlRecords, "records", "",
		"Read records from this YAML or JSON bundle instead of the configured store")

	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(crawlFormat)
	if err != nil {
		return err
	}

	cfg, configFile, err := loadConfig(config.Overrides{
		Locales:          crawlLocales,
		ExcludedTypes:    crawlExclude,
		HideLocalized:    crawlHideLocalized,
		HideNonLocalized: crawlHideNonLocalized,
	})
	if err != nil {
		return err
	}
	if crawlMode != "" {
		mode, err := cfg.LocaleMode(crawlMode)
		if err != nil {
			return err
		}
		cfg.Locales.Order = mode.Locales
	}
	if crawlRecords != "" {
		cfg.Store.Type = config.StoreFile
		cfg.Store.File.Path = crawlRecords
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	runID := uuid.NewString()
	log = log.WithRun(runID)
	log.Infow("Starting crawl",
		"entry", crawlEntry,
		"config", configFile,
		"store", cfg.Store.Type,
	)

	ctx, cancel := signalContext(cmd.Context(), func(sig os.Signal) {
		log.Warnw("Received shutdown signal - aborting crawl...", "signal", sig.String())
	})
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	filters := cfg.Filters()
	reporter := analytics.New(cfg.Analytics.Host, time.Duration(cfg.Analytics.TimeoutSeconds)*time.Second, log)
	if collector, ok := reporter.(*analytics.Collector); ok {
		log.Debugw("Reporting usage analytics", "session_id", collector.SessionID())
	}
	reporter.LogUser(crawlUser)
	reporter.LogFilters(filters)

	c := crawler.New(store,
		crawler.WithLocales(filters.Locales...),
		crawler.WithExcludedContentTypes(cfg.Crawl.BreakOnContentTypes...),
		crawler.WithDefaultLocale(cfg.Locales.Default),
		crawler.WithReporter(reporter),
		crawler.WithLogger(log),
	)

	start := time.Now()
	rows, err := c.BuildTree(ctx, crawlEntry)
	reporter.LogLoadingTime(time.Since(start))
	defer reporter.Send(context.WithoutCancel(ctx))

	if err != nil {
		reporter.LogError(err)
		if errors.Is(err, context.Canceled) {
			log.Warn("Crawl cancelled by user")
		}
		return fmt.Errorf("crawl failed: %w", err)
	}

	table := matrix.NewTable(c.Locales(), rows)
	reporter.LogRows(table.RowCount())
	usage := c.Usage()

	opts := render.Options{
		Filters: filters,
		Color:   !crawlNoColor && color.SupportColor(),
		Usage:   &usage,
		Title:   crawlEntry,
	}
	if err := render.Render(cmd.OutOrStdout(), table, format, opts); err != nil {
		return fmt.Errorf("failed to render matrix: %w", err)
	}
	return nil
}
