// Package sqlutil provides SQL dialect helpers for the snapshot record store.
package sqlutil

import (
	"regexp"
	"strconv"
	"strings"
)

// Dialect names match the database/sql driver names.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// QuoteIdentifier quotes an identifier (table name, column name) for the
// given driver: backticks for MySQL, double quotes for PostgreSQL and SQLite.
// Embedded quote characters are escaped by doubling them.
// Example: ("mysql", "my`table") -> "`my``table`"
func QuoteIdentifier(driver, name string) string {
	q := quoteChar(driver)
	return q + strings.ReplaceAll(name, q, q+q) + q
}

func quoteChar(driver string) string {
	if driver == DriverMySQL {
		return "`"
	}
	return `"`
}

// validIdentifierRegex restricts identifiers to alphanumerics and underscores.
// An optional schema prefix ("content.records") is allowed.
var validIdentifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+(\.[a-zA-Z0-9_]+)?$`)

// IsValidIdentifier checks if a name is a valid, optionally schema-qualified identifier.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// QuoteIdentifierSafe validates and quotes an identifier. A schema-qualified
// name is quoted part by part.
func QuoteIdentifierSafe(driver, name string) (string, error) {
	if !IsValidIdentifier(name) {
		return "", &InvalidIdentifierError{Name: name}
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = QuoteIdentifier(driver, p)
	}
	return strings.Join(parts, "."), nil
}

// Placeholder returns the n-th (1-based) bind parameter marker of the driver.
func Placeholder(driver string, n int) string {
	if driver == DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}
