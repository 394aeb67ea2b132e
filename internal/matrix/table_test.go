package matrix

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/locmatrix/internal/entity"
)

func sampleTree() []*Row {
	return []*Row{
		NewLocalizable("title", cells("a")),
		NewNonLocalizable("links",
			NewNonLocalizable("first", NewLocalizable("name", cells("x"))),
			NewNonLocalizable("second"),
		),
		NewLocalizable("body", cells("")),
	}
}

func TestCountRows(t *testing.T) {
	assert.Equal(t, 0, CountRows(nil))
	assert.Equal(t, 6, CountRows(sampleTree()))
	assert.Equal(t, 6, NewTable([]string{"en-US"}, sampleTree()).RowCount())
}

func TestNewTable_NilRows(t *testing.T) {
	table := NewTable([]string{"en-US"}, nil)
	assert.NotNil(t, table.Rows)
	assert.Empty(t, table.Rows)
}

func TestWalk_OrderDepthAndLines(t *testing.T) {
	type visit struct {
		field string
		depth int
		lines []bool
	}
	var visits []visit

	err := Walk(sampleTree(), func(row *Row, depth int, lines []bool) error {
		visits = append(visits, visit{row.Field, depth, lines})
		return nil
	})
	require.NoError(t, err)

	expected := []visit{
		{"title", 0, []bool{true}},
		{"links", 0, []bool{true}},
		{"first", 1, []bool{true, true}},
		{"name", 2, []bool{true, true, false}},
		{"second", 1, []bool{true, false}},
		{"body", 0, []bool{false}},
	}
	assert.Equal(t, expected, visits)
}

func TestWalk_StopsOnError(t *testing.T) {
	stop := errors.New("stop")
	count := 0
	err := Walk(sampleTree(), func(row *Row, depth int, lines []bool) error {
		count++
		if row.Field == "links" {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, count)
}

func TestTable_JSON(t *testing.T) {
	table := NewTable([]string{"en-US"}, []*Row{
		NewLocalizable("file", []Cell{NewClickableCell("file", "/a.png", "en-US", ScalarImage)}),
	})

	data, err := json.Marshal(table)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"locales": ["en-US"],
		"rows": [{
			"kind": "localizable",
			"field": "file",
			"cells": [{"locale": "en-US", "value": "/a.png", "kind": "image", "field": "file"}]
		}]
	}`, string(data))
}

func TestFilters_Active(t *testing.T) {
	assert.False(t, Filters{}.Active())
	assert.True(t, Filters{HideFullyLocalized: true}.Active())
	assert.True(t, Filters{HideFullyNonLocalized: true}.Active())
}

func TestTable_Filter(t *testing.T) {
	tree := sampleTree()
	table := NewTable([]string{"en-US"}, tree)

	// Without filters only the childless "second" placeholder is dropped.
	all := table.Filter(Filters{})
	assert.Equal(t, 5, all.RowCount())
	assert.Equal(t, table.Locales, all.Locales)
	require.Len(t, all.Rows[1].Children, 1)
	assert.Equal(t, "first", all.Rows[1].Children[0].Field)

	onlyGaps := table.Filter(Filters{HideFullyLocalized: true})
	require.Len(t, onlyGaps.Rows, 1)
	assert.Equal(t, "body", onlyGaps.Rows[0].Field)

	onlyContent := table.Filter(Filters{HideFullyNonLocalized: true})
	assert.Equal(t, 4, onlyContent.RowCount())
	require.Len(t, onlyContent.Rows, 2)
	links := onlyContent.Rows[1]
	require.Len(t, links.Children, 1)
	assert.Equal(t, "first", links.Children[0].Field)

	// The source tree is left untouched.
	assert.Len(t, tree[1].Children, 2)
	assert.NotSame(t, tree[1], links)
}

func TestTable_Filter_DropsCircularNonLocalizedLink(t *testing.T) {
	page := &entity.Entity{ID: "page", Name: "Page"}
	table := NewTable([]string{"en-US"}, []*Row{
		NewNonLocalizable("related",
			NewNonLocalizableLink("Page", page, nil, true),
			NewNonLocalizableLink("Other", &entity.Entity{ID: "other"}, []*Row{
				NewLocalizable("title", cells("x")),
			}, false),
		),
	})

	filtered := table.Filter(Filters{})
	require.Len(t, filtered.Rows, 1)
	related := filtered.Rows[0]
	require.Len(t, related.Children, 1)
	assert.Equal(t, "Other", related.Children[0].Field)

	// The parent disappears once its only visible descendant is filtered out.
	assert.Empty(t, table.Filter(Filters{HideFullyLocalized: true}).Rows)
}
