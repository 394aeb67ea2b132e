// Package matrix holds the localization matrix data model: cells, the row
// tree produced by the crawler, the filters applied when presenting it and
// the table that pairs rows with locale columns.
package matrix

// CellKind tells the presentation layer how to draw a cell.
type CellKind int

const (
	// ScalarText is a plain field-level text cell.
	ScalarText CellKind = iota
	// ScalarImage is a field-level cell holding an image url.
	ScalarImage
	// EntryLevelMarker marks that a locale links to the row's record.
	EntryLevelMarker
)

// String returns the kind name used in JSON/YAML output.
func (k CellKind) String() string {
	switch k {
	case ScalarImage:
		return "image"
	case EntryLevelMarker:
		return "entry"
	default:
		return "text"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k CellKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// EntryMarker is the value of an EntryLevelMarker cell whose locale
// references the linked record.
const EntryMarker = "+"

// Cell is one (field, locale) observation. An empty Value means the field
// holds no content in that locale.
type Cell struct {
	Locale string   `json:"locale" yaml:"locale"`
	Value  string   `json:"value" yaml:"value"`
	Kind   CellKind `json:"kind" yaml:"kind"`

	// Field is set on clickable cells. It names the originating field and is
	// only carried through for the presentation layer.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
}

// NewCell creates a non-clickable cell.
func NewCell(locale, value string, kind CellKind) Cell {
	return Cell{Locale: locale, Value: value, Kind: kind}
}

// NewClickableCell creates a cell that remembers its originating field.
func NewClickableCell(field, value, locale string, kind CellKind) Cell {
	return Cell{Locale: locale, Value: value, Kind: kind, Field: field}
}

// Empty reports whether the cell holds no content.
func (c Cell) Empty() bool {
	return c.Value == ""
}

