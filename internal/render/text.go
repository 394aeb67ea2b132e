package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/locmatrix/internal/matrix"
)

const columnGap = "  "

var (
	styleHeader   = color.New(color.OpBold)
	stylePresent  = color.New(color.FgGreen)
	styleEmpty    = color.New(color.FgGray)
	styleMarker   = color.New(color.FgCyan, color.OpBold)
	styleBadge    = color.New(color.FgYellow)
	styleCircular = color.New(color.FgMagenta)
	styleStatus   = color.New(color.FgGray)
)

// textLine is one pre-computed output row before padding.
type textLine struct {
	label string
	row   *matrix.Row
}

type textWriter struct {
	out    *bufio.Writer
	widths []int
	colour bool
}

func writeText(w io.Writer, t *matrix.Table, opts Options) error {
	var lines []textLine
	_ = matrix.Walk(t.Rows, func(row *matrix.Row, depth int, rails []bool) error {
		lines = append(lines, textLine{label: treePrefix(depth, rails) + rowLabel(row), row: row})
		return nil
	})

	tw := &textWriter{out: bufio.NewWriter(w), colour: opts.Color}
	labelWidth := runewidth.StringWidth("Field")
	for _, l := range lines {
		labelWidth = max(labelWidth, runewidth.StringWidth(l.label))
	}
	tw.widths = make([]int, len(t.Locales))
	for i, loc := range t.Locales {
		tw.widths[i] = max(runewidth.StringWidth(loc), 1)
	}

	tw.printf("%s\n\n", tw.paint(styleHeader, opts.title()))

	header := []string{tw.paint(styleHeader, runewidth.FillRight("Field", labelWidth))}
	for i, loc := range t.Locales {
		header = append(header, tw.paint(styleHeader, runewidth.FillRight(loc, tw.widths[i])))
	}
	tw.printf("%s\n", strings.TrimRight(strings.Join(header, columnGap), " "))
	tw.printf("%s\n", strings.Repeat("─", labelWidth+tw.cellsWidth()+len(columnGap)))

	if len(lines) == 0 {
		tw.printf("No rows to display\n")
	}
	for _, l := range lines {
		label := runewidth.FillRight(l.label, labelWidth)
		if l.row.IsLink() {
			label = tw.decorate(label, l.row)
		}
		tw.printf("%s%s%s\n", label, columnGap, tw.cells(l.row))
	}

	tw.printf("\nRows: %d\n", matrix.CountRows(t.Rows))
	if opts.Usage != nil {
		u := opts.Usage
		tw.printf("Entries: %d  Assets: %d  Content types: %d  Queries: %d  Cache hit rate: %.1f%%\n",
			u.Entries, u.Assets, u.ContentTypes, u.Queries, u.HitRate)
	}
	return tw.out.Flush()
}

func (tw *textWriter) printf(format string, args ...any) {
	fmt.Fprintf(tw.out, format, args...)
}

// decorate colours the status and cycle marker of an already padded link label.
func (tw *textWriter) decorate(label string, row *matrix.Row) string {
	if status := string(row.Entity.Status); status != "" {
		label = strings.Replace(label, "("+status+")", tw.paint(styleStatus, "("+status+")"), 1)
	}
	if row.Circular {
		label = strings.Replace(label, symbolCycle, tw.paint(styleCircular, symbolCycle), 1)
	}
	return label
}

func (tw *textWriter) paint(style color.Style, s string) string {
	if !tw.colour {
		return s
	}
	return style.Sprint(s)
}

// cellsWidth is the width of all locale columns including gaps.
func (tw *textWriter) cellsWidth() int {
	total := 0
	for i, w := range tw.widths {
		if i > 0 {
			total += len(columnGap)
		}
		total += w
	}
	return total
}

func (tw *textWriter) cells(row *matrix.Row) string {
	if len(tw.widths) == 0 {
		return ""
	}
	if row.Kind == matrix.NonLocalizable {
		return tw.centre(styleBadge, badgeNonLocal, tw.cellsWidth())
	}

	parts := make([]string, len(tw.widths))
	for i := range tw.widths {
		symbol, style := symbolEmpty, styleEmpty
		if i < len(row.Cells) {
			symbol = cellSymbol(row.Cells[i])
			switch symbol {
			case symbolPresent:
				style = stylePresent
			case matrix.EntryMarker:
				style = styleMarker
			}
		}
		parts[i] = tw.centre(style, symbol, tw.widths[i])
	}
	return strings.TrimRight(strings.Join(parts, columnGap), " ")
}

// centre pads s to width and colours only the visible text so that escape
// codes never count towards alignment.
func (tw *textWriter) centre(style color.Style, s string, width int) string {
	pad := width - runewidth.StringWidth(s)
	if pad < 0 {
		pad = 0
	}
	left := pad / 2
	return strings.Repeat(" ", left) + tw.paint(style, s) + strings.Repeat(" ", pad-left)
}

// treePrefix draws the rails of the ancestors followed by the branch of the
// row itself. Top-level rows carry no branch.
func treePrefix(depth int, rails []bool) string {
	if depth == 0 {
		return ""
	}
	var b strings.Builder
	for _, more := range rails[1:depth] {
		if more {
			b.WriteString("│  ")
		} else {
			b.WriteString("   ")
		}
	}
	if rails[depth] {
		b.WriteString("├─ ")
	} else {
		b.WriteString("└─ ")
	}
	return b.String()
}

func rowLabel(row *matrix.Row) string {
	if row.IsLink() {
		label := truncateName(row.Field)
		if row.Entity.Status != "" {
			label += " (" + string(row.Entity.Status) + ")"
		}
		if row.Circular {
			label += " " + symbolCycle
		}
		return label
	}
	if !row.IsLeaf() {
		return fmt.Sprintf("%s [%d]", row.Field, len(row.Children))
	}
	return row.Field
}

func truncateName(name string) string {
	if runewidth.StringWidth(name) <= maxNameWidth {
		return name
	}
	return runewidth.Truncate(name, maxNameWidth+3, "...")
}
