// Package render presents a localization matrix as a coloured terminal tree,
// a Markdown document, JSON or YAML.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dbsmedya/locmatrix/internal/crawler"
	"github.com/dbsmedya/locmatrix/internal/matrix"
)

// Format selects an output representation.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists the supported formats in help-text order.
var Formats = []Format{FormatText, FormatMarkdown, FormatJSON, FormatYAML}

// ParseFormat resolves a user supplied format name. "md" and "yml" are
// accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported output format %q (expected one of %s)", name, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Options controls what is rendered.
type Options struct {
	// Filters hides rows the same way the interactive matrix does.
	Filters matrix.Filters
	// Color enables ANSI colours in the text format.
	Color bool
	// Usage is appended as a summary when set.
	Usage *crawler.Usage
	// Title overrides the document heading.
	Title string
}

// DefaultTitle is used when Options.Title is empty.
const DefaultTitle = "Localization matrix"

func (o Options) title() string {
	if o.Title != "" {
		return o.Title
	}
	return DefaultTitle
}

// Render writes the rows of t that are visible under opts.Filters.
func Render(w io.Writer, t *matrix.Table, format Format, opts Options) error {
	if t == nil {
		t = matrix.NewTable(nil, nil)
	}
	visible := t.Filter(opts.Filters)

	switch format {
	case FormatText, "":
		return writeText(w, visible, opts)
	case FormatMarkdown:
		return writeMarkdown(w, visible, opts)
	case FormatJSON:
		return writeJSON(w, visible, opts)
	case FormatYAML:
		return writeYAML(w, visible, opts)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// Cell symbols shared by the text and Markdown formats.
const (
	symbolPresent = "✓"
	symbolEmpty   = "·"
	symbolCycle   = "↻"
	badgeNonLocal = "Non-localizable"
)

// maxNameWidth is the display width after which link names are truncated.
const maxNameWidth = 20

func cellSymbol(c matrix.Cell) string {
	if c.Empty() {
		return symbolEmpty
	}
	if c.Kind == matrix.EntryLevelMarker {
		return matrix.EntryMarker
	}
	return symbolPresent
}
