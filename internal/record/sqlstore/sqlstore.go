// Package sqlstore serves records from a snapshot table in MySQL, PostgreSQL
// or SQLite. The table holds one row per record:
//
//	CREATE TABLE records (
//	    id   VARCHAR(64)  NOT NULL,
//	    kind VARCHAR(16)  NOT NULL, -- Entry, Asset or ContentType
//	    body TEXT         NOT NULL, -- the record as JSON
//	    PRIMARY KEY (kind, id)
//	);
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver, registered as "pgx"
	_ "modernc.org/sqlite"             // SQLite driver, registered as "sqlite"

	"github.com/dbsmedya/locmatrix/internal/config"
	"github.com/dbsmedya/locmatrix/internal/logger"
	"github.com/dbsmedya/locmatrix/internal/record"
	"github.com/dbsmedya/locmatrix/internal/sqlutil"
)

// Store reads records from the snapshot table.
type Store struct {
	db     *sql.DB
	driver string
	query  string
	log    *logger.Logger
}

// Open connects to the configured database and prepares the lookup query.
func Open(ctx context.Context, cfg *config.DatabaseConfig, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNop()
	}
	db, err := connectWithRetry(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s record store: %w", cfg.Driver, err)
	}

	s, err := New(db, cfg.Driver, cfg.Table, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database handle.
func New(db *sql.DB, driver, table string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if table == "" {
		table = "records"
	}
	quoted, err := sqlutil.QuoteIdentifierSafe(driver, table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT body FROM %s WHERE kind = %s AND id = %s",
		quoted, sqlutil.Placeholder(driver, 1), sqlutil.Placeholder(driver, 2))

	return &Store{db: db, driver: driver, query: query, log: log}, nil
}

// connectWithRetry attempts to connect with exponential backoff.
func connectWithRetry(ctx context.Context, cfg *config.DatabaseConfig, log *logger.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 3
	backoff := time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = connect(cfg)
		if err == nil {
			pingErr := db.PingContext(ctx)
			if pingErr == nil {
				return db, nil
			}
			_ = db.Close()
			err = pingErr
		}

		log.Warnw("Record store connection attempt failed", "driver", cfg.Driver, "attempt", i+1, "error", err)

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", maxRetries, err)
}

// connect creates a database handle with the pool configured.
func connect(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConnections)
	}
	db.SetConnMaxLifetime(10 * time.Minute)

	return db, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetEntry implements crawler.Store.
func (s *Store) GetEntry(ctx context.Context, id string) (*record.Entry, error) {
	var e record.Entry
	if err := s.load(ctx, record.KindEntry, id, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetAsset implements crawler.Store.
func (s *Store) GetAsset(ctx context.Context, id string) (*record.Asset, error) {
	var a record.Asset
	if err := s.load(ctx, record.KindAsset, id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetContentType implements crawler.Store.
func (s *Store) GetContentType(ctx context.Context, id string) (*record.ContentType, error) {
	var ct record.ContentType
	if err := s.load(ctx, record.KindContentType, id, &ct); err != nil {
		return nil, err
	}
	return &ct, nil
}

func (s *Store) load(ctx context.Context, kind, id string, dest any) error {
	var body []byte
	err := s.db.QueryRowContext(ctx, s.query, kind, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return record.NewNotFound(kind, id)
	}
	if err != nil {
		return fmt.Errorf("failed to query %s %q: %w", kind, id, err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return &record.MalformedError{Kind: kind, ID: id, Reason: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	return nil
}
