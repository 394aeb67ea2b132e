package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// AppName names the configuration directory under the XDG config home.
const AppName = "locmatrix"

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "locmatrix.yaml"

// ErrConfigNotFound is returned when no configuration file could be located.
var ErrConfigNotFound = errors.New("configuration file not found")

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := substituteEnvVars(cfg); err != nil {
		return nil, fmt.Errorf("failed to substitute environment variables: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// FindConfigFile resolves the configuration file path in the following order:
// 1. configPath, if given (it must exist)
// 2. locmatrix.yaml in the current directory
// 3. $XDG_CONFIG_HOME/locmatrix/config.yaml
func FindConfigFile(configPath string) (string, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return configPath, nil
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	candidate := filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}

	return "", ErrConfigNotFound
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) error {
	cfg.Space.SpaceID = expandEnvVar(cfg.Space.SpaceID)
	cfg.Space.EnvironmentID = expandEnvVar(cfg.Space.EnvironmentID)
	cfg.Space.AccessToken = expandEnvVar(cfg.Space.AccessToken)
	cfg.Space.BaseURL = expandEnvVar(cfg.Space.BaseURL)

	cfg.Store.SQL.Host = expandEnvVar(cfg.Store.SQL.Host)
	cfg.Store.SQL.User = expandEnvVar(cfg.Store.SQL.User)
	cfg.Store.SQL.Password = expandEnvVar(cfg.Store.SQL.Password)
	cfg.Store.SQL.Database = expandEnvVar(cfg.Store.SQL.Database)
	cfg.Store.SQL.Path = expandEnvVar(cfg.Store.SQL.Path)
	cfg.Store.File.Path = expandEnvVar(cfg.Store.File.Path)

	cfg.Analytics.Host = expandEnvVar(cfg.Analytics.Host)
	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// normalize trims list values that may be given as comma separated strings.
func (c *Config) normalize() {
	c.Locales.Default = strings.TrimSpace(c.Locales.Default)
	c.Locales.Order = SplitCommaSeparated(c.Locales.Order...)
	c.Crawl.BreakOnContentTypes = SplitCommaSeparated(c.Crawl.BreakOnContentTypes...)
	c.Store.Type = strings.ToLower(strings.TrimSpace(c.Store.Type))
}

// Overrides contains CLI flag values that take precedence over the file.
type Overrides struct {
	LogLevel         string
	LogFormat        string
	Locales          []string
	ExcludedTypes    []string
	HideLocalized    bool
	HideNonLocalized bool
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if locales := SplitCommaSeparated(o.Locales...); len(locales) > 0 {
		c.Locales.Order = locales
	}
	if excluded := SplitCommaSeparated(o.ExcludedTypes...); len(excluded) > 0 {
		c.Crawl.BreakOnContentTypes = excluded
	}
	if o.HideLocalized {
		c.Crawl.FilterFullyLocalized = true
	}
	if o.HideNonLocalized {
		c.Crawl.FilterFullyNonLocalized = true
	}
}
