package sqlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		driver   string
		input    string
		expected string
	}{
		{"mysql simple", DriverMySQL, "records", "`records`"},
		{"mysql mixed case", DriverMySQL, "MyTable", "`MyTable`"},
		{"mysql empty", DriverMySQL, "", "``"},
		{"mysql escapes backticks", DriverMySQL, "my`table", "`my``table`"},
		{"postgres simple", DriverPostgres, "records", `"records"`},
		{"postgres escapes quotes", DriverPostgres, `my"table`, `"my""table"`},
		{"sqlite simple", DriverSQLite, "order_items", `"order_items"`},
		{"sqlite leaves backticks", DriverSQLite, "my`table", "\"my`table\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuoteIdentifier(tt.driver, tt.input))
		})
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"records", true},
		{"content_records_2024", true},
		{"snapshot.records", true},
		{"", false},
		{"a.b.c", false},
		{".records", false},
		{"records;", false},
		{"records; DROP TABLE users; --", false},
		{"my-table", false},
		{"my table", false},
		{"tëst", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidIdentifier(tt.input))
		})
	}
}

func TestQuoteIdentifierSafe(t *testing.T) {
	quoted, err := QuoteIdentifierSafe(DriverPostgres, "snapshot.records")
	require.NoError(t, err)
	assert.Equal(t, `"snapshot"."records"`, quoted)

	quoted, err = QuoteIdentifierSafe(DriverMySQL, "records")
	require.NoError(t, err)
	assert.Equal(t, "`records`", quoted)

	_, err = QuoteIdentifierSafe(DriverSQLite, "records`; --")
	require.Error(t, err)

	var invalid *InvalidIdentifierError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "records`; --", invalid.Name)
	assert.Contains(t, err.Error(), "invalid identifier")
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "?", Placeholder(DriverMySQL, 1))
	assert.Equal(t, "?", Placeholder(DriverSQLite, 2))
	assert.Equal(t, "$1", Placeholder(DriverPostgres, 1))
	assert.Equal(t, "$2", Placeholder(DriverPostgres, 2))
}
