package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/locmatrix/internal/crawler"
	"github.com/dbsmedya/locmatrix/internal/matrix"
)

// Document is the JSON and YAML representation of a rendered matrix.
type Document struct {
	Title    string         `json:"title" yaml:"title"`
	Locales  []string       `json:"locales" yaml:"locales"`
	Filters  matrix.Filters `json:"filters" yaml:"filters"`
	RowCount int            `json:"row_count" yaml:"row_count"`
	Usage    *crawler.Usage `json:"usage,omitempty" yaml:"usage,omitempty"`
	Rows     []*matrix.Row  `json:"rows" yaml:"rows"`
}

// NewDocument builds the structured view of an already filtered table.
func NewDocument(t *matrix.Table, opts Options) Document {
	locales := t.Locales
	if locales == nil {
		locales = []string{}
	}
	filters := opts.Filters
	if filters.Locales == nil {
		filters.Locales = locales
	}
	return Document{
		Title:    opts.title(),
		Locales:  locales,
		Filters:  filters,
		RowCount: matrix.CountRows(t.Rows),
		Usage:    opts.Usage,
		Rows:     t.Rows,
	}
}

func writeJSON(w io.Writer, t *matrix.Table, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(t, opts)); err != nil {
		return fmt.Errorf("failed to encode matrix as json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, t *matrix.Table, opts Options) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(t, opts)); err != nil {
		return fmt.Errorf("failed to encode matrix as yaml: %w", err)
	}
	return enc.Close()
}
