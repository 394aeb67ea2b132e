package cmd

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/locmatrix/internal/config"
	"github.com/dbsmedya/locmatrix/internal/logger"
	"github.com/dbsmedya/locmatrix/internal/server"
)

var (
	serveAddr    string
	serveRecords string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve localization matrices over HTTP",
	Long: `Serve starts an HTTP server that builds a localization matrix per request.

Endpoints:
  GET /api/entries/{id}/matrix   matrix of one entry
      ?locales=en-US,de-DE        locale columns
      ?mode=<id>                  locales of a configured locale mode
      ?exclude=<ct1,ct2>          content types that are not expanded
      ?hide_localized=true        hide fully localized rows
      ?hide_non_localized=true    hide fully non-localized rows
      ?format=json|markdown|yaml|text
  GET /healthz                   store health
  GET /metrics                   Prometheus metrics

The server shuts down gracefully on SIGINT or SIGTERM.

Example:
  locmatrix serve --addr :8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"Listen address (overrides server.addr)")
	serveCmd.Flags().StringVar(&serveRecords, "records", "",
		"Read records from this YAML or JSON bundle instead of the configured store")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, configFile, err := loadConfig(config.Overrides{})
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveRecords != "" {
		cfg.Store.Type = config.StoreFile
		cfg.Store.File.Path = serveRecords
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Infow("Starting server",
		"addr", cfg.Server.Addr,
		"config", configFile,
		"store", cfg.Store.Type,
	)

	ctx, cancel := signalContext(cmd.Context(), func(sig os.Signal) {
		log.Warnw("Received shutdown signal - draining requests...", "signal", sig.String())
	})
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := server.New(cfg, store, server.WithLogger(log), server.WithRegistry(reg))
	if err := srv.Run(ctx); err != nil {
		return err
	}
	log.Info("Server stopped")
	return nil
}
