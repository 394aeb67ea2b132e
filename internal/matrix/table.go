package matrix

// Table pairs the locale columns with the crawled row tree.
type Table struct {
	Locales []string `json:"locales" yaml:"locales"`
	Rows    []*Row   `json:"rows" yaml:"rows"`
}

// NewTable assembles a renderable table.
func NewTable(locales []string, rows []*Row) *Table {
	if rows == nil {
		rows = []*Row{}
	}
	return &Table{Locales: locales, Rows: rows}
}

// RowCount returns the number of rows in the table including all descendants.
func (t *Table) RowCount() int {
	return CountRows(t.Rows)
}

// CountRows counts rows and all of their descendants.
func CountRows(rows []*Row) int {
	count := len(rows)
	for _, row := range rows {
		count += CountRows(row.Children)
	}
	return count
}

// WalkFunc is called for every row in depth-first order. depth is 0 for top
// level rows. lines has one entry per ancestor level plus one for the row
// itself; an entry is true when more siblings follow at that level, which is
// what a tree drawing needs to decide between "├" and "└".
type WalkFunc func(row *Row, depth int, lines []bool) error

// Walk visits rows depth-first, parents before children.
func Walk(rows []*Row, fn WalkFunc) error {
	return walk(rows, nil, fn)
}

func walk(rows []*Row, lines []bool, fn WalkFunc) error {
	for _, row := range rows {
		rowLines := make([]bool, len(lines), len(lines)+1)
		copy(rowLines, lines)
		rowLines = append(rowLines, !IsLastSibling(row, rows))

		if err := fn(row, len(lines), rowLines); err != nil {
			return err
		}
		if err := walk(row.Children, rowLines, fn); err != nil {
			return err
		}
	}
	return nil
}

// Filter returns a table holding only the rows visible under f. Rows are
// shallow copies; cells and entities are shared with the receiver. Since a
// row with children is visible iff one of its children is, dropping hidden
// rows never orphans a visible one.
func (t *Table) Filter(f Filters) *Table {
	return &Table{Locales: t.Locales, Rows: filterRows(t.Rows, f)}
}

func filterRows(rows []*Row, f Filters) []*Row {
	out := make([]*Row, 0, len(rows))
	for _, row := range rows {
		if !row.Visible(f) {
			continue
		}
		cp := *row
		cp.Children = nil
		if len(row.Children) > 0 {
			cp.Children = filterRows(row.Children, f)
		}
		out = append(out, &cp)
	}
	return out
}
