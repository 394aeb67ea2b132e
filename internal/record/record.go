// Package record defines the raw content records served by a record store:
// entries, assets and content types, plus the link values that connect them.
package record

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Record kinds as they appear in sys.type and link.sys.linkType.
const (
	KindEntry       = "Entry"
	KindAsset       = "Asset"
	KindContentType = "ContentType"
)

// Field types that carry links.
const (
	FieldTypeLink  = "Link"
	FieldTypeArray = "Array"
)

// Sys holds the system metadata every record carries.
type Sys struct {
	ID               string `json:"id" yaml:"id"`
	Type             string `json:"type,omitempty" yaml:"type,omitempty"`
	LinkType         string `json:"linkType,omitempty" yaml:"linkType,omitempty"`
	Version          int    `json:"version,omitempty" yaml:"version,omitempty"`
	PublishedVersion int    `json:"publishedVersion,omitempty" yaml:"publishedVersion,omitempty"`
	ArchivedVersion  int    `json:"archivedVersion,omitempty" yaml:"archivedVersion,omitempty"`
	ContentType      *Link  `json:"contentType,omitempty" yaml:"contentType,omitempty"`
}

// Link is a reference to another record.
type Link struct {
	Sys Sys `json:"sys" yaml:"sys"`
}

// ID returns the id of the linked record.
func (l Link) ID() string { return l.Sys.ID }

// Kind returns the linked record kind (Entry or Asset).
func (l Link) Kind() string { return l.Sys.LinkType }

// Fields maps field id -> locale -> raw value.
type Fields map[string]map[string]any

// Value returns the raw value of a field in one locale, or nil.
func (f Fields) Value(fieldID, locale string) any {
	byLocale, ok := f[fieldID]
	if !ok {
		return nil
	}
	return byLocale[locale]
}

// Entry is a structured content record.
type Entry struct {
	Sys    Sys    `json:"sys" yaml:"sys"`
	Fields Fields `json:"fields" yaml:"fields"`
}

// ContentTypeID returns the id of the entry's content type, or "" if the
// entry carries no content type link.
func (e *Entry) ContentTypeID() string {
	if e.Sys.ContentType == nil {
		return ""
	}
	return e.Sys.ContentType.Sys.ID
}

// Asset is a file-bearing record with title, description and file fields.
type Asset struct {
	Sys    Sys    `json:"sys" yaml:"sys"`
	Fields Fields `json:"fields" yaml:"fields"`
}

// ContentType is the schema of an entry.
type ContentType struct {
	Sys          Sys     `json:"sys" yaml:"sys"`
	Name         string  `json:"name" yaml:"name"`
	DisplayField string  `json:"displayField" yaml:"displayField"`
	Fields       []Field `json:"fields" yaml:"fields"`
}

// Field describes one field of a content type.
type Field struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"`
	LinkType  string `json:"linkType,omitempty" yaml:"linkType,omitempty"`
	Localized bool   `json:"localized" yaml:"localized"`
	Disabled  bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Items     *Items `json:"items,omitempty" yaml:"items,omitempty"`
}

// Items describes the element type of an Array field.
type Items struct {
	Type     string `json:"type" yaml:"type"`
	LinkType string `json:"linkType,omitempty" yaml:"linkType,omitempty"`
}

// IsLink reports whether the field holds a single link or an array of links.
func (f Field) IsLink() bool {
	if f.Type == FieldTypeLink {
		return true
	}
	return f.Type == FieldTypeArray && f.Items != nil && f.Items.LinkType != ""
}

// IsArray reports whether the field is an array field.
func (f Field) IsArray() bool {
	return f.Type == FieldTypeArray
}

// AsLink decodes a raw field value shaped like {"sys": {"id": ..., "linkType": ...}}.
func AsLink(v any) (Link, bool) {
	switch l := v.(type) {
	case Link:
		return l, l.Sys.ID != ""
	case *Link:
		if l == nil {
			return Link{}, false
		}
		return *l, l.Sys.ID != ""
	}

	m, ok := asMap(v)
	if !ok {
		return Link{}, false
	}
	sys, ok := asMap(m["sys"])
	if !ok {
		return Link{}, false
	}
	id, _ := sys["id"].(string)
	if id == "" {
		return Link{}, false
	}
	linkType, _ := sys["linkType"].(string)
	typ, _ := sys["type"].(string)
	return Link{Sys: Sys{ID: id, Type: typ, LinkType: linkType}}, true
}

// AsLinks decodes a raw field value holding one link or an array of links.
// Elements that are not link-shaped are skipped.
func AsLinks(v any) []Link {
	if v == nil {
		return nil
	}
	if items, ok := v.([]any); ok {
		links := make([]Link, 0, len(items))
		for _, item := range items {
			if l, ok := AsLink(item); ok {
				links = append(links, l)
			}
		}
		return links
	}
	if typed, ok := v.([]Link); ok {
		return typed
	}
	if l, ok := AsLink(v); ok {
		return []Link{l}
	}
	return nil
}

// Text renders a raw field value as cell text. Link-shaped values render as
// the linked id; an empty result means the value is absent.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := Text(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}

	if l, ok := AsLink(v); ok {
		return l.ID()
	}
	if m, ok := asMap(v); ok {
		if len(m) == 0 {
			return ""
		}
		data, err := json.Marshal(normalizeMap(m))
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
	return fmt.Sprint(v)
}

// asMap normalizes the map shapes produced by encoding/json and yaml.v3.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

// normalizeMap converts nested map[any]any values (yaml.v3) so the result
// can be marshalled by encoding/json.
func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, val := range m {
		if nested, ok := asMap(val); ok {
			out[k] = normalizeMap(nested)
			continue
		}
		out[k] = val
	}
	return out
}

// FileURL extracts the url of an asset file value ({"url": ..., "fileName": ...}).
func FileURL(v any) string {
	m, ok := asMap(v)
	if !ok {
		return ""
	}
	url, _ := m["url"].(string)
	return url
}
