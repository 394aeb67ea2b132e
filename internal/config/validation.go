package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateStore()...)
	errors = append(errors, c.validateLocales()...)
	errors = append(errors, c.validateLogging()...)

	if c.Analytics.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "analytics.timeout_seconds",
			Message: "timeout_seconds cannot be negative",
		})
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateStore() ValidationErrors {
	var errors ValidationErrors

	switch c.Store.Type {
	case StoreCMA, "":
		errors = append(errors, c.validateSpace()...)
	case StoreSQL:
		errors = append(errors, c.validateDatabase("store.sql", &c.Store.SQL)...)
	case StoreFile:
		if c.Store.File.Path == "" {
			errors = append(errors, ValidationError{
				Field:   "store.file.path",
				Message: "path is required for the file store",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "store.type",
			Message: "type must be 'cma', 'sql', or 'file'",
		})
	}

	return errors
}

func (c *Config) validateSpace() ValidationErrors {
	var errors ValidationErrors

	if c.Space.SpaceID == "" {
		errors = append(errors, ValidationError{
			Field:   "space.space_id",
			Message: "space_id is required",
		})
	}

	if c.Space.AccessToken == "" {
		errors = append(errors, ValidationError{
			Field:   "space.access_token",
			Message: "access_token is required",
		})
	}

	if !strings.HasPrefix(c.Space.BaseURL, "http://") && !strings.HasPrefix(c.Space.BaseURL, "https://") {
		errors = append(errors, ValidationError{
			Field:   "space.base_url",
			Message: "base_url must be an http(s) URL",
		})
	}

	if c.Space.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "space.timeout_seconds",
			Message: "timeout_seconds cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateDatabase(prefix string, db *DatabaseConfig) ValidationErrors {
	var errors ValidationErrors

	switch db.Driver {
	case "sqlite":
		if db.Path == "" {
			errors = append(errors, ValidationError{
				Field:   prefix + ".path",
				Message: "path is required for the sqlite driver",
			})
		}
	case "mysql", "pgx":
		if db.Host == "" {
			errors = append(errors, ValidationError{
				Field:   prefix + ".host",
				Message: "host is required",
			})
		}
		if db.Port <= 0 || db.Port > 65535 {
			errors = append(errors, ValidationError{
				Field:   prefix + ".port",
				Message: "port must be between 1 and 65535",
			})
		}
		if db.User == "" {
			errors = append(errors, ValidationError{
				Field:   prefix + ".user",
				Message: "user is required",
			})
		}
		if db.Database == "" {
			errors = append(errors, ValidationError{
				Field:   prefix + ".database",
				Message: "database name is required",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   prefix + ".driver",
			Message: "driver must be 'mysql', 'pgx', or 'sqlite'",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if db.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLocales() ValidationErrors {
	var errors ValidationErrors

	if c.Locales.Default == "" {
		errors = append(errors, ValidationError{
			Field:   "locales.default",
			Message: "default locale was not set",
		})
	} else if !validLocale(c.Locales.Default) {
		errors = append(errors, ValidationError{
			Field:   "locales.default",
			Message: fmt.Sprintf("%q is not a valid locale code", c.Locales.Default),
		})
	}

	seen := make(map[string]bool)
	for i, locale := range c.Locales.Order {
		field := fmt.Sprintf("locales.order[%d]", i)
		if !validLocale(locale) {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%q is not a valid locale code", locale),
			})
		}
		if seen[locale] {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("locale %q is listed more than once", locale),
			})
		}
		seen[locale] = true
	}

	for id, value := range c.Locales.Modes {
		mode, err := ParseLocaleMode(id, value)
		if err != nil {
			errors = append(errors, ValidationError{
				Field:   "locales.modes." + id,
				Message: err.Error(),
			})
			continue
		}
		for _, locale := range mode.Locales {
			if !validLocale(locale) {
				errors = append(errors, ValidationError{
					Field:   "locales.modes." + id,
					Message: fmt.Sprintf("%q is not a valid locale code", locale),
				})
			}
		}
	}

	return errors
}

// validLocale accepts BCP 47 tags such as en-US, pt-BR or de.
func validLocale(code string) bool {
	_, err := language.Parse(code)
	return err == nil
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
