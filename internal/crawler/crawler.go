// Package crawler builds the localization row tree of a root entry by
// walking the link graph of a record store.
package crawler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/locmatrix/internal/analytics"
	"github.com/dbsmedya/locmatrix/internal/entity"
	"github.com/dbsmedya/locmatrix/internal/logger"
	"github.com/dbsmedya/locmatrix/internal/matrix"
	"github.com/dbsmedya/locmatrix/internal/metrics"
	"github.com/dbsmedya/locmatrix/internal/record"
)

// Store is the read side of a record store. Every method returns an error
// matching record.ErrNotFound when the id does not exist.
type Store interface {
	GetEntry(ctx context.Context, id string) (*record.Entry, error)
	GetAsset(ctx context.Context, id string) (*record.Asset, error)
	GetContentType(ctx context.Context, id string) (*record.ContentType, error)
}

// Usage summarizes the store activity of the last crawl.
type Usage struct {
	Entries      int     `json:"entries" yaml:"entries"`
	Assets       int     `json:"assets" yaml:"assets"`
	ContentTypes int     `json:"content_types" yaml:"content_types"`
	Queries      int     `json:"queries" yaml:"queries"`
	Hits         int     `json:"hits" yaml:"hits"`
	HitRate      float64 `json:"hit_rate" yaml:"hit_rate"`
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLocales sets the locale columns, in display order.
func WithLocales(locales ...string) Option {
	return func(c *Crawler) {
		c.locales = append([]string(nil), locales...)
	}
}

// WithExcludedContentTypes stops expansion below entries of these content
// types: their link targets are decorated but not expanded.
func WithExcludedContentTypes(ids ...string) Option {
	return func(c *Crawler) {
		for _, id := range ids {
			c.excluded[id] = true
		}
	}
}

// WithDefaultLocale sets the locale display names and non-localized links
// are read from.
func WithDefaultLocale(locale string) Option {
	return func(c *Crawler) {
		if locale != "" {
			c.defaultLocale = locale
		}
	}
}

// WithReporter sets the analytics reporter.
func WithReporter(r analytics.Reporter) Option {
	return func(c *Crawler) {
		if r != nil {
			c.reporter = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Crawler) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMetrics records crawl outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Crawler) {
		c.metrics = m
	}
}

// Crawler expands the link graph below a root entry. A Crawler runs one
// crawl at a time; its cache and counters are reset by every BuildTree.
type Crawler struct {
	store         Store
	locales       []string
	excluded      map[string]bool
	defaultLocale string
	reporter      analytics.Reporter
	log           *logger.Logger
	metrics       *metrics.Metrics

	running atomic.Bool
	cache   atomic.Pointer[cache]
}

// New creates a Crawler reading from store.
func New(store Store, opts ...Option) *Crawler {
	c := &Crawler{
		store:         store,
		excluded:      make(map[string]bool),
		defaultLocale: entity.DefaultLocale,
		reporter:      analytics.NewVoid(nil),
		log:           logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache.Store(newCache())
	return c
}

// Locales returns the locale columns of the crawl.
func (c *Crawler) Locales() []string {
	return append([]string(nil), c.locales...)
}

// Usage returns the store activity of the current or last crawl.
func (c *Crawler) Usage() Usage {
	return c.cache.Load().usage()
}

// node is the result of expanding one record: its field rows and its
// decorated entity.
type node struct {
	rows   []*matrix.Row
	entity *entity.Entity
}

// BuildTree crawls the graph below rootID and returns the top level rows.
// A root that does not exist yields an empty tree. Any store failure other
// than not-found aborts the crawl and no rows are returned.
func (c *Crawler) BuildTree(ctx context.Context, rootID string) ([]*matrix.Row, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, ErrCrawlInProgress
	}
	defer c.running.Store(false)

	c.cache.Store(newCache())
	start := time.Now()
	c.log.Debugw("Starting crawl", "root", rootID, "locales", c.locales)

	n, err := c.entityRows(ctx, rootID, record.KindEntry, "", path{})
	if err != nil {
		c.metrics.ObserveCrawl(metrics.StatusFailure, time.Since(start), 0)
		c.log.Errorw("Crawl failed", "root", rootID, "error", err)
		return nil, err
	}

	rows := []*matrix.Row{}
	if n != nil {
		rows = n.rows
		c.reporter.LogContentType(n.entity.ContentTypeID)
	} else {
		c.log.Warnw("Root entry was not found", "root", rootID)
	}

	usage := c.Usage()
	c.reporter.LogCacheHitRate(usage.HitRate)
	c.metrics.ObserveCrawl(metrics.StatusSuccess, time.Since(start), matrix.CountRows(rows))
	c.log.Infow("Crawl finished",
		"root", rootID,
		"rows", matrix.CountRows(rows),
		"entries", usage.Entries,
		"assets", usage.Assets,
		"content_types", usage.ContentTypes,
		"queries", usage.Queries,
		"cache_hit_rate", usage.HitRate,
		"duration", time.Since(start))

	return rows, nil
}

// entityRows expands one record. It returns nil when the record does not
// exist or is already on the path.
func (c *Crawler) entityRows(ctx context.Context, id, kind, parentContentType string, p path) (*node, error) {
	if p.contains(id) {
		c.log.WithEntity(kind, id).Debugw("Record is nested into its own branch, skipping it", "path", p.extend(id).String())
		return nil, nil
	}
	p = p.extend(id)

	if kind == record.KindAsset {
		return c.assetRows(ctx, id)
	}

	ent, err := c.loadEntry(ctx, id)
	if err != nil || ent == nil {
		return nil, err
	}

	if parentContentType != "" && c.excluded[parentContentType] {
		return &node{rows: []*matrix.Row{}, entity: ent}, nil
	}

	rows := make([]*matrix.Row, 0, len(ent.ContentType.Fields))
	for _, field := range ent.ContentType.Fields {
		if field.Disabled {
			continue
		}

		switch {
		case field.IsLink():
			row, err := c.linkFieldRow(ctx, ent, field, p)
			if err != nil {
				return nil, err
			}
			if row != nil {
				rows = append(rows, row)
			}
		case field.Localized:
			rows = append(rows, matrix.NewLocalizable(fieldLabel(field), c.fieldCells(ent.Entry.Fields, field, true)))
		default:
			rows = append(rows, matrix.NewNonLocalizable(fieldLabel(field)))
		}
	}

	return &node{rows: rows, entity: ent}, nil
}

// linkFieldRow builds the field level row of a link field with one child per
// distinct target. It returns nil when no target survives.
func (c *Crawler) linkFieldRow(ctx context.Context, host *entity.Entity, field record.Field, p path) (*matrix.Row, error) {
	label := fieldLabel(field)
	children := make([]*matrix.Row, 0)

	if field.Localized {
		targets := orderedmap.NewOrderedMap[string, *linkTarget]()
		for _, locale := range c.locales {
			for _, link := range c.links(host.Entry, field, locale) {
				target, ok := targets.Get(link.ID())
				if !ok {
					target = &linkTarget{kind: targetKind(link, field)}
					targets.Set(link.ID(), target)
				}
				target.addLocale(locale)
			}
		}

		for el := targets.Front(); el != nil; el = el.Next() {
			row, err := c.linkRow(ctx, el.Key, el.Value.kind, el.Value.locales, true, host.ContentTypeID, p)
			if err != nil {
				return nil, err
			}
			if row != nil {
				children = append(children, row)
			}
		}
	} else {
		for _, link := range c.links(host.Entry, field, c.defaultLocale) {
			row, err := c.linkRow(ctx, link.ID(), targetKind(link, field), nil, false, host.ContentTypeID, p)
			if err != nil {
				return nil, err
			}
			if row != nil {
				children = append(children, row)
			}
		}
	}

	if len(children) == 0 {
		c.log.Debugw("Link field has no reachable targets, omitting it", "entry", host.ID, "field", field.ID)
		return nil, nil
	}
	if field.Localized {
		return matrix.NewLocalizable(label, c.fieldCells(host.Entry.Fields, field, false), children...), nil
	}
	return matrix.NewNonLocalizable(label, children...), nil
}

// linkRow builds the row of one link target. A target already on the path
// becomes a circular leaf.
func (c *Crawler) linkRow(ctx context.Context, id, kind string, locales []string, localized bool,
	parentContentType string, p path) (*matrix.Row, error) {
	var cells []matrix.Cell
	if localized {
		cells = c.markerCells(locales)
	}

	if p.contains(id) {
		c.log.WithEntity(kind, id).Debugw("Record is nested into its own branch, skipping it", "path", p.extend(id).String())
		ent, err := c.decorate(ctx, id, kind)
		if err != nil || ent == nil {
			return nil, err
		}
		if localized {
			return matrix.NewLocalizableLink(ent.Name, ent, cells, nil, true), nil
		}
		return matrix.NewNonLocalizableLink(ent.Name, ent, nil, true), nil
	}

	n, err := c.entityRows(ctx, id, kind, parentContentType, p)
	if err != nil || n == nil {
		return nil, err
	}
	if localized {
		return matrix.NewLocalizableLink(n.entity.Name, n.entity, cells, n.rows, false), nil
	}
	return matrix.NewNonLocalizableLink(n.entity.Name, n.entity, n.rows, false), nil
}

// assetRows returns the fixed title, description and file rows of an asset.
func (c *Crawler) assetRows(ctx context.Context, id string) (*node, error) {
	asset, err := c.getAsset(ctx, id)
	if err != nil || asset == nil {
		return nil, err
	}
	ent, err := entity.FromAsset(asset)
	if err != nil {
		return nil, err
	}

	title := make([]matrix.Cell, 0, len(c.locales))
	description := make([]matrix.Cell, 0, len(c.locales))
	file := make([]matrix.Cell, 0, len(c.locales))
	for _, locale := range c.locales {
		title = append(title, matrix.NewClickableCell("title", record.Text(asset.Fields.Value("title", locale)), locale, matrix.ScalarText))
		description = append(description, matrix.NewClickableCell("description", record.Text(asset.Fields.Value("description", locale)), locale, matrix.ScalarText))
		file = append(file, matrix.NewClickableCell("file", record.FileURL(asset.Fields.Value("file", locale)), locale, matrix.ScalarImage))
	}

	return &node{
		rows: []*matrix.Row{
			matrix.NewLocalizable("title", title),
			matrix.NewLocalizable("description", description),
			matrix.NewLocalizable("file", file),
		},
		entity: ent,
	}, nil
}

// decorate fetches and decorates a record without expanding it.
func (c *Crawler) decorate(ctx context.Context, id, kind string) (*entity.Entity, error) {
	if kind == record.KindAsset {
		asset, err := c.getAsset(ctx, id)
		if err != nil || asset == nil {
			return nil, err
		}
		return entity.FromAsset(asset)
	}
	return c.loadEntry(ctx, id)
}

// loadEntry fetches an entry and its content type. It returns nil when the
// entry does not exist.
func (c *Crawler) loadEntry(ctx context.Context, id string) (*entity.Entity, error) {
	entry, err := c.getEntry(ctx, id)
	if err != nil || entry == nil {
		return nil, err
	}

	ctID := entry.ContentTypeID()
	if ctID == "" {
		return entity.FromEntry(entry, nil, c.defaultLocale)
	}
	ct, err := c.getContentType(ctx, ctID)
	if err != nil {
		return nil, err
	}
	if ct == nil {
		return nil, &record.MalformedError{
			Kind:   record.KindEntry,
			ID:     id,
			Reason: fmt.Sprintf("content type %q not found", ctID),
		}
	}
	return entity.FromEntry(entry, ct, c.defaultLocale)
}

func (c *Crawler) getEntry(ctx context.Context, id string) (*record.Entry, error) {
	return fetch(ctx, c, record.KindEntry, id, c.store.GetEntry)
}

func (c *Crawler) getAsset(ctx context.Context, id string) (*record.Asset, error) {
	return fetch(ctx, c, record.KindAsset, id, c.store.GetAsset)
}

func (c *Crawler) getContentType(ctx context.Context, id string) (*record.ContentType, error) {
	return fetch(ctx, c, record.KindContentType, id, c.store.GetContentType)
}

// fetch loads one record through the crawl cache. Not-found yields (nil, nil);
// any other store error is wrapped in a *FetchError.
func fetch[T any](ctx context.Context, c *Crawler, kind, id string,
	get func(context.Context, string) (*T, error)) (*T, error) {
	cc := c.cache.Load()
	v, err := cc.load(ctx, kind, id,
		func(ctx context.Context, id string) (any, error) {
			return get(ctx, id)
		},
		func(queries int) {
			c.reporter.LogEntity(analyticsKind(kind))
			c.log.WithEntity(kind, id).Debugf("Loading %s '%s'... total queries: %d. Cache hit rate: %.1f%%", kind, id, queries, cc.hitRate())
		})
	if err != nil {
		if record.IsNotFound(err) {
			c.log.WithEntity(kind, id).Debug("Record was not found, probably it was removed")
			return nil, nil
		}
		return nil, &FetchError{Kind: kind, ID: id, Err: err}
	}
	rec, _ := v.(*T)
	return rec, nil
}

// fieldCells returns one cell per locale with the field value as text.
func (c *Crawler) fieldCells(fields record.Fields, field record.Field, clickable bool) []matrix.Cell {
	label := fieldLabel(field)
	cells := make([]matrix.Cell, 0, len(c.locales))
	for _, locale := range c.locales {
		value := record.Text(fields.Value(field.ID, locale))
		if clickable {
			cells = append(cells, matrix.NewClickableCell(label, value, locale, matrix.ScalarText))
		} else {
			cells = append(cells, matrix.NewCell(locale, value, matrix.ScalarText))
		}
	}
	return cells
}

// markerCells returns one entry level cell per locale, marked when the
// locale references the target.
func (c *Crawler) markerCells(referencing []string) []matrix.Cell {
	refs := make(map[string]bool, len(referencing))
	for _, l := range referencing {
		refs[l] = true
	}
	cells := make([]matrix.Cell, 0, len(c.locales))
	for _, locale := range c.locales {
		value := ""
		if refs[locale] {
			value = matrix.EntryMarker
		}
		cells = append(cells, matrix.NewClickableCell(locale, value, locale, matrix.EntryLevelMarker))
	}
	return cells
}

// links returns the link targets of a field in one locale.
func (c *Crawler) links(entry *record.Entry, field record.Field, locale string) []record.Link {
	if entry == nil {
		return nil
	}
	value := entry.Fields.Value(field.ID, locale)
	if field.IsArray() {
		return record.AsLinks(value)
	}
	if link, ok := record.AsLink(value); ok {
		return []record.Link{link}
	}
	return nil
}

type linkTarget struct {
	kind    string
	locales []string
}

func (t *linkTarget) addLocale(locale string) {
	for _, l := range t.locales {
		if l == locale {
			return
		}
	}
	t.locales = append(t.locales, locale)
}

// targetKind resolves the record kind of a link, falling back to the field's
// declared link type and then to Entry.
func targetKind(link record.Link, field record.Field) string {
	if k := link.Kind(); k != "" {
		return k
	}
	if field.LinkType != "" {
		return field.LinkType
	}
	if field.Items != nil && field.Items.LinkType != "" {
		return field.Items.LinkType
	}
	return record.KindEntry
}

func fieldLabel(field record.Field) string {
	if field.Name != "" {
		return field.Name
	}
	return field.ID
}

func analyticsKind(kind string) analytics.Kind {
	switch kind {
	case record.KindEntry:
		return analytics.KindEntry
	case record.KindAsset:
		return analytics.KindAsset
	default:
		return analytics.KindContentType
	}
}
