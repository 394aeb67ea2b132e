package crawler

import (
	"context"
	"sync"

	"github.com/dbsmedya/locmatrix/internal/record"
)

// fakeStore is an in-memory Store that counts calls per kind and id.
type fakeStore struct {
	mu      sync.Mutex
	entries map[string]*record.Entry
	assets  map[string]*record.Asset
	types   map[string]*record.ContentType
	errs    map[string]error
	calls   map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries: make(map[string]*record.Entry),
		assets:  make(map[string]*record.Asset),
		types:   make(map[string]*record.ContentType),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (s *fakeStore) addEntry(e *record.Entry) *fakeStore {
	s.entries[e.Sys.ID] = e
	return s
}

func (s *fakeStore) addAsset(a *record.Asset) *fakeStore {
	s.assets[a.Sys.ID] = a
	return s
}

func (s *fakeStore) addType(ct *record.ContentType) *fakeStore {
	s.types[ct.Sys.ID] = ct
	return s
}

func (s *fakeStore) fail(kind, id string, err error) *fakeStore {
	s.errs[kind+"/"+id] = err
	return s
}

func (s *fakeStore) count(kind, id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[kind+"/"+id]
}

func (s *fakeStore) track(kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[kind+"/"+id]++
	return s.errs[kind+"/"+id]
}

func (s *fakeStore) GetEntry(_ context.Context, id string) (*record.Entry, error) {
	if err := s.track(record.KindEntry, id); err != nil {
		return nil, err
	}
	if e, ok := s.entries[id]; ok {
		return e, nil
	}
	return nil, record.NewNotFound(record.KindEntry, id)
}

func (s *fakeStore) GetAsset(_ context.Context, id string) (*record.Asset, error) {
	if err := s.track(record.KindAsset, id); err != nil {
		return nil, err
	}
	if a, ok := s.assets[id]; ok {
		return a, nil
	}
	return nil, record.NewNotFound(record.KindAsset, id)
}

func (s *fakeStore) GetContentType(_ context.Context, id string) (*record.ContentType, error) {
	if err := s.track(record.KindContentType, id); err != nil {
		return nil, err
	}
	if ct, ok := s.types[id]; ok {
		return ct, nil
	}
	return nil, record.NewNotFound(record.KindContentType, id)
}

func entry(id, contentType string, fields record.Fields) *record.Entry {
	return &record.Entry{
		Sys: record.Sys{
			ID:      id,
			Type:    record.KindEntry,
			Version: 1,
			ContentType: &record.Link{Sys: record.Sys{
				ID: contentType, Type: "Link", LinkType: record.KindContentType,
			}},
		},
		Fields: fields,
	}
}

func asset(id string, fields record.Fields) *record.Asset {
	return &record.Asset{Sys: record.Sys{ID: id, Type: record.KindAsset, Version: 2, PublishedVersion: 1}, Fields: fields}
}

func contentType(id, displayField string, fields ...record.Field) *record.ContentType {
	return &record.ContentType{
		Sys:          record.Sys{ID: id, Type: record.KindContentType},
		Name:         id,
		DisplayField: displayField,
		Fields:       fields,
	}
}

func link(kind, id string) map[string]any {
	return map[string]any{"sys": map[string]any{"type": "Link", "linkType": kind, "id": id}}
}

func links(kind string, ids ...string) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, link(kind, id))
	}
	return out
}

func textField(id string, localized bool) record.Field {
	return record.Field{ID: id, Name: id, Type: "Symbol", Localized: localized}
}

func linkField(id, linkType string, localized bool) record.Field {
	return record.Field{ID: id, Name: id, Type: record.FieldTypeLink, LinkType: linkType, Localized: localized}
}

func linksField(id, linkType string, localized bool) record.Field {
	return record.Field{
		ID: id, Name: id, Type: record.FieldTypeArray, Localized: localized,
		Items: &record.Items{Type: record.FieldTypeLink, LinkType: linkType},
	}
}
