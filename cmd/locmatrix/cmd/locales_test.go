package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalesCommandStructure(t *testing.T) {
	assert.NotNil(t, localesCmd)
	assert.Equal(t, "locales", localesCmd.Use)
	assert.NotEmpty(t, localesCmd.Short)
	assert.Contains(t, localesCmd.Long, "Example:")
	assert.NotNil(t, localesCmd.RunE)
}

func TestLocalesCmd_Execute(t *testing.T) {
	configFile := createTempTestConfig(t, map[string]interface{}{
		"locales": map[string]interface{}{
			"default": "en-US",
			"order":   []string{"en-US", "de-DE", "fr-FR"},
			"modes": map[string]interface{}{
				"fr":   "French: fr-FR",
				"dach": "DACH: de-DE, de-AT",
			},
		},
	})

	stdout, _, err := executeCommand(t, "locales", "--config", configFile)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Default locale: en-US")
	assert.Contains(t, stdout, "Locale columns: en-US, de-DE, fr-FR")
	assert.Contains(t, stdout, "  dach  DACH: de-DE, de-AT\n")
	assert.Contains(t, stdout, "  fr    French: fr-FR\n")
	// Modes are listed by id.
	assert.Less(t, strings.Index(stdout, "dach"), strings.Index(stdout, "French"))
}

func TestLocalesCmd_Execute_NoModes(t *testing.T) {
	configFile := createTempTestConfig(t, map[string]interface{}{
		"locales": map[string]interface{}{"default": "de-DE"},
	})

	stdout, _, err := executeCommand(t, "locales", "--config", configFile)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Default locale: de-DE")
	assert.Contains(t, stdout, "Locale columns: de-DE")
	assert.Contains(t, stdout, "Locale modes: none")
}

func TestLocalesCmd_Execute_BadMode(t *testing.T) {
	configFile := createTempTestConfig(t, map[string]interface{}{
		"locales": map[string]interface{}{
			"modes": map[string]interface{}{"broken": "no separator"},
		},
	})

	_, _, err := executeCommand(t, "locales", "--config", configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to parse locale mode broken")
}

