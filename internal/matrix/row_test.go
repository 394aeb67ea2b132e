package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dbsmedya/locmatrix/internal/entity"
)

func cells(values ...string) []Cell {
	locales := []string{"en-US", "de-DE", "fr-FR"}
	out := make([]Cell, len(values))
	for i, v := range values {
		out[i] = NewCell(locales[i], v, ScalarText)
	}
	return out
}

func TestFullyLocalized_Leaf(t *testing.T) {
	assert.True(t, NewLocalizable("title", cells("a", "b")).FullyLocalized())
	assert.False(t, NewLocalizable("title", cells("a", "")).FullyLocalized())
	assert.False(t, NewLocalizable("title", cells("", "")).FullyLocalized())
}

func TestFullyNonLocalized_Leaf(t *testing.T) {
	assert.True(t, NewLocalizable("title", cells("", "")).FullyNonLocalized())
	assert.False(t, NewLocalizable("title", cells("a", "")).FullyNonLocalized())
}

func TestFullyLocalized_IgnoresOwnCellsWhenItHasChildren(t *testing.T) {
	// Own cells are empty but every child is localized.
	parent := NewLocalizable("link", cells("", ""),
		NewLocalizable("title", cells("a", "b")),
		NewLocalizable("body", cells("c", "d")),
	)
	assert.True(t, parent.FullyLocalized())
	assert.False(t, parent.FullyNonLocalized())

	// Own cells are full but one child is not.
	parent = NewLocalizable("link", cells("+", "+"),
		NewLocalizable("title", cells("a", "b")),
		NewLocalizable("body", cells("c", "")),
	)
	assert.False(t, parent.FullyLocalized())
}

func TestNonLocalizable_Aggregates(t *testing.T) {
	group := NewNonLocalizable("links",
		NewLocalizable("title", cells("", "")),
		NewLocalizable("body", cells("", "")),
	)
	assert.True(t, group.FullyNonLocalized())
	assert.False(t, group.FullyLocalized())

	// A placeholder is neutral in aggregation.
	placeholder := NewNonLocalizable("sku")
	assert.True(t, placeholder.FullyLocalized())
	assert.True(t, placeholder.FullyNonLocalized())

	withPlaceholder := NewLocalizable("entry", nil,
		NewLocalizable("title", cells("a", "b")),
		placeholder,
	)
	assert.True(t, withPlaceholder.FullyLocalized())
}

func TestVisible_Leaf(t *testing.T) {
	full := NewLocalizable("title", cells("a", "b"))
	empty := NewLocalizable("title", cells("", ""))
	partial := NewLocalizable("title", cells("a", ""))

	none := Filters{}
	hideLocalized := Filters{HideFullyLocalized: true}
	hideNonLocalized := Filters{HideFullyNonLocalized: true}
	both := Filters{HideFullyLocalized: true, HideFullyNonLocalized: true}

	assert.True(t, full.Visible(none))
	assert.False(t, full.Visible(hideLocalized))
	assert.True(t, full.Visible(hideNonLocalized))

	assert.True(t, empty.Visible(hideLocalized))
	assert.False(t, empty.Visible(hideNonLocalized))

	assert.True(t, partial.Visible(both))
}

func TestVisible_ChildlessNonLocalizableIsHidden(t *testing.T) {
	rows := map[string]*Row{
		"placeholder": NewNonLocalizable("sku"),
		"circular":    NewNonLocalizableLink("Page", &entity.Entity{ID: "a"}, nil, true),
		"unexpanded":  NewNonLocalizableLink("Page", &entity.Entity{ID: "b"}, nil, false),
	}
	filters := []Filters{
		{},
		{HideFullyLocalized: true},
		{HideFullyNonLocalized: true},
		{HideFullyLocalized: true, HideFullyNonLocalized: true},
	}

	for name, row := range rows {
		for _, f := range filters {
			assert.False(t, row.Visible(f), "%s with %+v", name, f)
		}
	}
}

func TestVisible_CircularLocalizableLink(t *testing.T) {
	link := NewLocalizableLink("Page", &entity.Entity{ID: "a"}, cells("+", ""), nil, true)
	assert.True(t, link.Visible(Filters{}))
	assert.True(t, link.Visible(Filters{HideFullyLocalized: true, HideFullyNonLocalized: true}))
}

func TestVisible_AnyChild(t *testing.T) {
	full := NewLocalizable("title", cells("a", "b"))
	partial := NewLocalizable("body", cells("a", ""))
	group := NewNonLocalizable("links", full, partial)

	f := Filters{HideFullyLocalized: true}
	assert.True(t, group.Visible(f))

	onlyFull := NewNonLocalizable("links", NewLocalizable("title", cells("a", "b")))
	assert.False(t, onlyFull.Visible(f))

	// Localizable rows with children follow their children too.
	link := NewLocalizableLink("Entry", &entity.Entity{ID: "e1"}, cells("+", ""), []*Row{full}, false)
	assert.False(t, link.Visible(f))
	assert.True(t, link.Visible(Filters{}))
}

func TestLinkRows(t *testing.T) {
	ent := &entity.Entity{ID: "e1", Name: "Entry"}

	circular := NewNonLocalizableLink("Entry", ent, nil, true)
	assert.True(t, circular.IsLink())
	assert.True(t, circular.Circular)
	assert.True(t, circular.IsLeaf())
	assert.Equal(t, NonLocalizable, circular.Kind)

	loc := NewLocalizableLink("Entry", ent, cells("+"), nil, false)
	assert.Equal(t, Localizable, loc.Kind)
	assert.Same(t, ent, loc.Entity)

	assert.False(t, NewLocalizable("title", nil).IsLink())
}

func TestIsLastSibling_UsesIdentity(t *testing.T) {
	a := NewLocalizable("title", cells("a"))
	b := NewLocalizable("title", cells("a")) // equal content, different row
	siblings := []*Row{a, b}

	assert.False(t, IsLastSibling(a, siblings))
	assert.True(t, IsLastSibling(b, siblings))
	assert.False(t, IsLastSibling(a, nil))
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "text", ScalarText.String())
	assert.Equal(t, "image", ScalarImage.String())
	assert.Equal(t, "entry", EntryLevelMarker.String())
	assert.Equal(t, "localizable", Localizable.String())
	assert.Equal(t, "non_localizable", NonLocalizable.String())
}

func TestCell(t *testing.T) {
	c := NewClickableCell("title", "Hello", "en-US", ScalarText)
	assert.False(t, c.Empty())
	assert.Equal(t, "title", c.Field)

	plain := NewCell("en-US", "", EntryLevelMarker)
	assert.Empty(t, plain.Field)
	assert.True(t, plain.Empty())
}
