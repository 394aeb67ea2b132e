// Package config provides configuration structures and loading for locmatrix.
package config

// Config represents the complete application configuration.
type Config struct {
	Space     SpaceConfig     `yaml:"space" mapstructure:"space"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Locales   LocalesConfig   `yaml:"locales" mapstructure:"locales"`
	Crawl     CrawlConfig     `yaml:"crawl" mapstructure:"crawl"`
	Analytics AnalyticsConfig `yaml:"analytics" mapstructure:"analytics"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// SpaceConfig identifies the content space read through the management API.
type SpaceConfig struct {
	SpaceID        string `yaml:"space_id" mapstructure:"space_id"`
	EnvironmentID  string `yaml:"environment_id" mapstructure:"environment_id"`
	AccessToken    string `yaml:"access_token" mapstructure:"access_token"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// Store types.
const (
	StoreCMA  = "cma"
	StoreSQL  = "sql"
	StoreFile = "file"
)

// StoreConfig selects where records are read from.
type StoreConfig struct {
	Type string          `yaml:"type" mapstructure:"type"` // cma, sql, or file
	SQL  DatabaseConfig  `yaml:"sql" mapstructure:"sql"`
	File FileStoreConfig `yaml:"file" mapstructure:"file"`
}

// DatabaseConfig represents a SQL snapshot database holding raw records.
type DatabaseConfig struct {
	Driver             string `yaml:"driver" mapstructure:"driver"` // mysql, pgx, or sqlite
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	Path               string `yaml:"path" mapstructure:"path"` // sqlite file
	Table              string `yaml:"table" mapstructure:"table"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// FileStoreConfig points at a YAML or JSON record bundle.
type FileStoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LocalesConfig lists the locales a crawl evaluates.
type LocalesConfig struct {
	Default  string            `yaml:"default" mapstructure:"default"`
	Order    []string          `yaml:"order" mapstructure:"order"`
	Modes    map[string]string `yaml:"modes" mapstructure:"modes"` // id -> "Display Name: en-US, fr-FR"
	ClearAll bool              `yaml:"clear_all" mapstructure:"clear_all"`
}

// CrawlConfig holds crawl and filter settings.
type CrawlConfig struct {
	BreakOnContentTypes     []string `yaml:"break_on_content_types" mapstructure:"break_on_content_types"`
	FilterFullyLocalized    bool     `yaml:"filter_fully_localized" mapstructure:"filter_fully_localized"`
	FilterFullyNonLocalized bool     `yaml:"filter_fully_non_localized" mapstructure:"filter_fully_non_localized"`
}

// AnalyticsConfig configures the usage reporter. An empty host disables sending.
type AnalyticsConfig struct {
	Host           string `yaml:"host" mapstructure:"host"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Space: SpaceConfig{
			EnvironmentID:  "master",
			BaseURL:        "https://api.contentful.com",
			TimeoutSeconds: 30,
		},
		Store: StoreConfig{
			Type: StoreCMA,
			SQL: DatabaseConfig{
				Driver:             "mysql",
				Port:               3306,
				Table:              "records",
				TLS:                "preferred",
				MaxConnections:     10,
				MaxIdleConnections: 5,
			},
		},
		Locales: LocalesConfig{
			Default: "en-US",
		},
		Analytics: AnalyticsConfig{
			TimeoutSeconds: 5,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
	}
}
