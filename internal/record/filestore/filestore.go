// Package filestore serves records from a YAML or JSON bundle loaded into
// memory. It backs offline crawls and fixtures.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/locmatrix/internal/record"
)

// Bundle is the on-disk layout.
type Bundle struct {
	Entries      []*record.Entry       `json:"entries" yaml:"entries"`
	Assets       []*record.Asset       `json:"assets" yaml:"assets"`
	ContentTypes []*record.ContentType `json:"content_types" yaml:"content_types"`
}

// Store is an immutable in-memory record store.
type Store struct {
	entries map[string]*record.Entry
	assets  map[string]*record.Asset
	types   map[string]*record.ContentType
}

// Load reads a bundle file. Files ending in .json are decoded as JSON,
// anything else as YAML.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record bundle: %w", err)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}

	s, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("failed to load record bundle %s: %w", path, err)
	}
	return s, nil
}

// Decode reads a bundle in the given format ("json" or "yaml").
func Decode(r io.Reader, format string) (*Store, error) {
	var b Bundle
	switch format {
	case "json":
		if err := json.NewDecoder(r).Decode(&b); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case "yaml":
		if err := yaml.NewDecoder(r).Decode(&b); err != nil && err != io.EOF {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported bundle format %q", format)
	}
	return New(b)
}

// New indexes a bundle. Records without an id or with a duplicate id are
// rejected.
func New(b Bundle) (*Store, error) {
	s := &Store{
		entries: make(map[string]*record.Entry, len(b.Entries)),
		assets:  make(map[string]*record.Asset, len(b.Assets)),
		types:   make(map[string]*record.ContentType, len(b.ContentTypes)),
	}

	for i, e := range b.Entries {
		var id string
		if e != nil {
			id = e.Sys.ID
		}
		_, dup := s.entries[id]
		if err := checkID(record.KindEntry, i, id, dup); err != nil {
			return nil, err
		}
		s.entries[id] = e
	}
	for i, a := range b.Assets {
		var id string
		if a != nil {
			id = a.Sys.ID
		}
		_, dup := s.assets[id]
		if err := checkID(record.KindAsset, i, id, dup); err != nil {
			return nil, err
		}
		s.assets[id] = a
	}
	for i, ct := range b.ContentTypes {
		var id string
		if ct != nil {
			id = ct.Sys.ID
		}
		_, dup := s.types[id]
		if err := checkID(record.KindContentType, i, id, dup); err != nil {
			return nil, err
		}
		s.types[id] = ct
	}
	return s, nil
}

func checkID(kind string, index int, id string, dup bool) error {
	if id == "" {
		return &record.MalformedError{Kind: kind, Reason: fmt.Sprintf("record #%d has no sys.id", index)}
	}
	if dup {
		return &record.MalformedError{Kind: kind, ID: id, Reason: "duplicate id"}
	}
	return nil
}

// Len returns the number of records of each kind.
func (s *Store) Len() (entries, assets, contentTypes int) {
	return len(s.entries), len(s.assets), len(s.types)
}

// GetEntry implements crawler.Store.
func (s *Store) GetEntry(_ context.Context, id string) (*record.Entry, error) {
	if e, ok := s.entries[id]; ok {
		return e, nil
	}
	return nil, record.NewNotFound(record.KindEntry, id)
}

// GetAsset implements crawler.Store.
func (s *Store) GetAsset(_ context.Context, id string) (*record.Asset, error) {
	if a, ok := s.assets[id]; ok {
		return a, nil
	}
	return nil, record.NewNotFound(record.KindAsset, id)
}

// GetContentType implements crawler.Store.
func (s *Store) GetContentType(_ context.Context, id string) (*record.ContentType, error) {
	if ct, ok := s.types[id]; ok {
		return ct, nil
	}
	return nil, record.NewNotFound(record.KindContentType, id)
}
