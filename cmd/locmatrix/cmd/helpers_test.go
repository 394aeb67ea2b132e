package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testBundle = `
content_types:
  - sys: {id: page}
    name: Page
    displayField: title
    fields:
      - {id: title, name: Title, type: Symbol, localized: true}
      - {id: slug, name: Slug, type: Symbol, localized: false}
      - id: sections
        name: Sections
        type: Array
        localized: false
        items: {type: Link, linkType: Entry}
entries:
  - sys:
      id: home
      contentType: {sys: {id: page, type: Link, linkType: ContentType}}
    fields:
      title:
        en-US: Home
      slug:
        en-US: /
      sections:
        en-US:
          - sys: {id: intro, type: Link, linkType: Entry}
  - sys:
      id: intro
      contentType: {sys: {id: page, type: Link, linkType: ContentType}}
    fields:
      title:
        en-US: Intro
        de-DE: Einführung
  - sys:
      id: orphan
      contentType: {sys: {id: missing, type: Link, linkType: ContentType}}
    fields: {}
`

// writeTestFile writes content into a fresh temp directory.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// createTempTestConfig creates a temporary YAML config file for testing
func createTempTestConfig(t *testing.T, data map[string]interface{}) string {
	t.Helper()

	yamlData, err := yaml.Marshal(data)
	require.NoError(t, err)
	return writeTestFile(t, "locmatrix.yaml", string(yamlData))
}

// resetFlags restores every flag of cmd to its default and clears the
// changed state cobra keeps between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command with args and returns stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
