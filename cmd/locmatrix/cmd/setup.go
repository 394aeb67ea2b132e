package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/dbsmedya/locmatrix/internal/config"
	"github.com/dbsmedya/locmatrix/internal/crawler"
	"github.com/dbsmedya/locmatrix/internal/logger"
	"github.com/dbsmedya/locmatrix/internal/record/cma"
	"github.com/dbsmedya/locmatrix/internal/record/filestore"
	"github.com/dbsmedya/locmatrix/internal/record/sqlstore"
)

// loadConfig resolves and loads the configuration file, then applies the
// persistent and command specific overrides. Without --config a missing
// file falls back to the defaults.
func loadConfig(o config.Overrides) (*config.Config, string, error) {
	path, err := config.FindConfigFile(GetConfigFile())

	var cfg *config.Config
	switch {
	case err == nil:
		if cfg, err = config.Load(path); err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
	case errors.Is(err, config.ErrConfigNotFound) && GetConfigFile() == "":
		cfg, path = config.DefaultConfig(), ""
	default:
		return nil, "", err
	}

	o.LogLevel = logLevel
	o.LogFormat = logFormat
	cfg.ApplyOverrides(o)
	return cfg, path, nil
}

// openStore connects the record store selected by the configuration. The
// returned close function is never nil.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (crawler.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Type {
	case config.StoreCMA, "":
		client, err := cma.New(&cfg.Space, nil, log)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create management API client: %w", err)
		}
		return client, noop, nil

	case config.StoreSQL:
		store, err := sqlstore.Open(ctx, &cfg.Store.SQL, log)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to record database: %w", err)
		}
		return store, store.Close, nil

	case config.StoreFile:
		store, err := filestore.Load(cfg.Store.File.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to load record bundle: %w", err)
		}
		entries, assets, types := store.Len()
		log.Debugw("Loaded record bundle",
			"path", cfg.Store.File.Path,
			"entries", entries,
			"assets", assets,
			"content_types", types)
		return store, noop, nil
	}

	return nil, noop, fmt.Errorf("unknown store type %q", cfg.Store.Type)
}
