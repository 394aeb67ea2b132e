package sqlstore

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/dbsmedya/locmatrix/internal/config"
	"github.com/dbsmedya/locmatrix/internal/sqlutil"
)

// BuildDSN constructs the data source name for the configured driver.
func BuildDSN(cfg *config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case sqlutil.DriverMySQL:
		return buildMySQLDSN(cfg), nil
	case sqlutil.DriverPostgres:
		return buildPostgresDSN(cfg), nil
	case sqlutil.DriverSQLite:
		return buildSQLiteDSN(cfg), nil
	default:
		return "", fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

func buildMySQLDSN(cfg *config.DatabaseConfig) string {
	// Format: user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
	)

	if cfg.Database != "" {
		dsn += cfg.Database
	}

	params := "?parseTime=true"
	switch cfg.TLS {
	case "disable":
		params += "&tls=false"
	case "required":
		params += "&tls=true"
	case "preferred", "":
		params += "&tls=preferred"
	}

	return dsn + params
}

func buildPostgresDSN(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Database,
	}

	q := url.Values{}
	switch cfg.TLS {
	case "disable":
		q.Set("sslmode", "disable")
	case "required":
		q.Set("sslmode", "require")
	case "preferred", "":
		q.Set("sslmode", "prefer")
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// buildSQLiteDSN opens the snapshot read-only; the store never writes.
func buildSQLiteDSN(cfg *config.DatabaseConfig) string {
	return "file:" + cfg.Path + "?mode=ro&_pragma=busy_timeout(5000)"
}
