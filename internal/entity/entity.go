// Package entity decorates raw records with the attributes the matrix shows
// for a linked record: id, lifecycle status, display name and content type.
package entity

import (
	"github.com/dbsmedya/locmatrix/internal/record"
)

// Status is the lifecycle state of a record.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusChanged   Status = "changed"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

// UndefinedName is shown when an entry has no value in its display field.
const UndefinedName = "<undefined value>"

// AssetContentTypeID is the pseudo content type id of assets.
const AssetContentTypeID = "asset"

// DefaultLocale is the locale display names are read from unless configured otherwise.
const DefaultLocale = "en-US"

// Entity is an immutable decorated view of an entry or asset.
type Entity struct {
	ID            string `json:"id" yaml:"id"`
	Type          string `json:"type" yaml:"type"` // record.KindEntry or record.KindAsset
	Status        Status `json:"status" yaml:"status"`
	Name          string `json:"name" yaml:"name"`
	ContentTypeID string `json:"content_type_id" yaml:"content_type_id"`

	// Set for entries only.
	Entry       *record.Entry       `json:"-" yaml:"-"`
	ContentType *record.ContentType `json:"-" yaml:"-"`
}

// FromEntry decorates an entry with its resolved content type. The display
// name is read from the content type's display field in nameLocale.
func FromEntry(entry *record.Entry, ct *record.ContentType, nameLocale string) (*Entity, error) {
	if entry == nil {
		return nil, &record.MalformedError{Kind: record.KindEntry, Reason: "nil entry"}
	}
	if entry.Sys.ID == "" {
		return nil, &record.MalformedError{Kind: record.KindEntry, Reason: "missing sys.id"}
	}
	if entry.ContentTypeID() == "" {
		return nil, &record.MalformedError{Kind: record.KindEntry, ID: entry.Sys.ID, Reason: "missing sys.contentType"}
	}
	if ct == nil {
		return nil, &record.MalformedError{Kind: record.KindEntry, ID: entry.Sys.ID, Reason: "content type not resolved"}
	}
	if nameLocale == "" {
		nameLocale = DefaultLocale
	}

	name := UndefinedName
	if ct.DisplayField != "" {
		if v := record.Text(entry.Fields.Value(ct.DisplayField, nameLocale)); v != "" {
			name = v
		}
	}

	return &Entity{
		ID:            entry.Sys.ID,
		Type:          record.KindEntry,
		Status:        StatusOf(entry.Sys),
		Name:          name,
		ContentTypeID: entry.ContentTypeID(),
		Entry:         entry,
		ContentType:   ct,
	}, nil
}

// FromAsset decorates an asset.
func FromAsset(asset *record.Asset) (*Entity, error) {
	if asset == nil {
		return nil, &record.MalformedError{Kind: record.KindAsset, Reason: "nil asset"}
	}
	if asset.Sys.ID == "" {
		return nil, &record.MalformedError{Kind: record.KindAsset, Reason: "missing sys.id"}
	}

	return &Entity{
		ID:            asset.Sys.ID,
		Type:          record.KindAsset,
		Status:        StatusOf(asset.Sys),
		Name:          "Asset",
		ContentTypeID: AssetContentTypeID,
	}, nil
}

// StatusOf derives the lifecycle status from version counters. A published
// record whose version is not ahead of its published version no longer
// resolves consistently and reports deleted.
func StatusOf(sys record.Sys) Status {
	switch {
	case sys.ArchivedVersion != 0:
		return StatusArchived
	case sys.PublishedVersion == 0:
		return StatusDraft
	case sys.Version >= sys.PublishedVersion+2:
		return StatusChanged
	case sys.Version == sys.PublishedVersion+1:
		return StatusPublished
	default:
		return StatusDeleted
	}
}
