package matrix

import (
	"github.com/dbsmedya/locmatrix/internal/entity"
)

// RowKind discriminates the Row variants.
type RowKind int

const (
	// Localizable rows carry one cell per locale.
	Localizable RowKind = iota
	// NonLocalizable rows carry no cells; they label a field or group children.
	NonLocalizable
)

// String returns the kind name used in JSON/YAML output.
func (k RowKind) String() string {
	if k == NonLocalizable {
		return "non_localizable"
	}
	return "localizable"
}

// MarshalText implements encoding.TextMarshaler.
func (k RowKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Row is one line of the matrix. A row with a non-nil Entity is a link row:
// it stands for a traversed linked record and its children are that record's
// fields. Rows are compared by pointer identity, never by content.
type Row struct {
	Kind     RowKind        `json:"kind" yaml:"kind"`
	Field    string         `json:"field" yaml:"field"`
	Cells    []Cell         `json:"cells,omitempty" yaml:"cells,omitempty"`
	Children []*Row         `json:"children,omitempty" yaml:"children,omitempty"`
	Entity   *entity.Entity `json:"entity,omitempty" yaml:"entity,omitempty"`

	// Circular marks a link row whose record is already on the traversal
	// path. Circular rows never have children.
	Circular bool `json:"circular,omitempty" yaml:"circular,omitempty"`
}

// NewLocalizable creates a localizable row.
func NewLocalizable(field string, cells []Cell, children ...*Row) *Row {
	return &Row{Kind: Localizable, Field: field, Cells: cells, Children: children}
}

// NewNonLocalizable creates a non-localizable row.
func NewNonLocalizable(field string, children ...*Row) *Row {
	return &Row{Kind: NonLocalizable, Field: field, Children: children}
}

// NewLocalizableLink creates a localizable link row for a record referenced
// from a localized field.
func NewLocalizableLink(name string, ent *entity.Entity, cells []Cell, children []*Row, circular bool) *Row {
	return &Row{Kind: Localizable, Field: name, Cells: cells, Children: children, Entity: ent, Circular: circular}
}

// NewNonLocalizableLink creates a non-localizable link row for a record
// referenced from a non-localized field.
func NewNonLocalizableLink(name string, ent *entity.Entity, children []*Row, circular bool) *Row {
	return &Row{Kind: NonLocalizable, Field: name, Children: children, Entity: ent, Circular: circular}
}

// IsLink reports whether the row stands for a linked record.
func (r *Row) IsLink() bool {
	return r.Entity != nil
}

// IsLeaf reports whether the row has no children.
func (r *Row) IsLeaf() bool {
	return len(r.Children) == 0
}

// FullyLocalized reports whether every cell below this row holds content.
// A leaf localizable row checks its own cells; any other row is fully
// localized iff all of its children are, regardless of its own cells.
func (r *Row) FullyLocalized() bool {
	if r.Kind == Localizable && r.IsLeaf() {
		for _, c := range r.Cells {
			if c.Empty() {
				return false
			}
		}
		return true
	}
	for _, child := range r.Children {
		if !child.FullyLocalized() {
			return false
		}
	}
	return true
}

// FullyNonLocalized reports whether no cell below this row holds content.
// Aggregation follows the same rules as FullyLocalized.
func (r *Row) FullyNonLocalized() bool {
	if r.Kind == Localizable && r.IsLeaf() {
		for _, c := range r.Cells {
			if !c.Empty() {
				return false
			}
		}
		return true
	}
	for _, child := range r.Children {
		if !child.FullyNonLocalized() {
			return false
		}
	}
	return true
}

// Visible reports whether the row is drawn under the given filters.
// A row with children is visible iff any child is visible. A non-localizable
// row only ever delegates to its children, so a childless one (a placeholder,
// a circular or an unexpanded link) is never visible. A localizable leaf is
// visible unless an active filter matches its own cells.
func (r *Row) Visible(f Filters) bool {
	if r.Kind == NonLocalizable || !r.IsLeaf() {
		for _, child := range r.Children {
			if child.Visible(f) {
				return true
			}
		}
		return false
	}

	if f.HideFullyLocalized && r.FullyLocalized() {
		return false
	}
	if f.HideFullyNonLocalized && r.FullyNonLocalized() {
		return false
	}
	return true
}

// IsLastSibling reports whether row is the last element of siblings, by
// identity. Rows that are not in siblings are never last.
func IsLastSibling(row *Row, siblings []*Row) bool {
	return len(siblings) > 0 && siblings[len(siblings)-1] == row
}
