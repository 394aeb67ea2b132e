package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/dbsmedya/locmatrix/internal/matrix"
)

const markdownIndent = "&nbsp;&nbsp;&nbsp;&nbsp;"

func writeMarkdown(w io.Writer, t *matrix.Table, opts Options) error {
	md := markdown.NewMarkdown(w)

	md.H1(opts.title())
	md.PlainText("")
	md.PlainTextf("Locales: %s. Rows: %d.", localeSummary(t.Locales), matrix.CountRows(t.Rows))
	if filters := filterSummary(opts.Filters); filters != "" {
		md.PlainText("")
		md.PlainTextf("Hidden: %s.", filters)
	}
	md.PlainText("")

	if len(t.Rows) == 0 {
		md.PlainText("No rows to display.")
		md.PlainText("")
	} else {
		md.Table(markdownTable(t))
		md.PlainText("")
	}

	if opts.Usage != nil {
		writeMarkdownUsage(md, opts)
	}

	return md.Build()
}

func markdownTable(t *matrix.Table) markdown.TableSet {
	header := append([]string{"Field"}, t.Locales...)
	align := []markdown.TableAlignment{markdown.AlignLeft}
	for range t.Locales {
		align = append(align, markdown.AlignCenter)
	}

	var rows [][]string
	_ = matrix.Walk(t.Rows, func(row *matrix.Row, depth int, _ []bool) error {
		rows = append(rows, markdownRow(row, depth, len(t.Locales)))
		return nil
	})

	return markdown.TableSet{Header: header, Rows: rows, Alignment: align}
}

func markdownRow(row *matrix.Row, depth, columns int) []string {
	out := make([]string, 0, columns+1)
	out = append(out, strings.Repeat(markdownIndent, depth)+markdownLabel(row))

	cells := make([]string, columns)
	if row.Kind == matrix.NonLocalizable {
		if columns > 0 {
			cells[0] = "_" + badgeNonLocal + "_"
		}
	} else {
		for i := range cells {
			cells[i] = symbolEmpty
			if i < len(row.Cells) {
				cells[i] = cellSymbol(row.Cells[i])
			}
		}
	}
	return append(out, cells...)
}

func markdownLabel(row *matrix.Row) string {
	if row.IsLink() {
		label := "**" + escapeCell(truncateName(row.Field)) + "**"
		if row.Entity.Status != "" {
			label += " (" + string(row.Entity.Status) + ")"
		}
		if row.Circular {
			label += " " + symbolCycle
		}
		return label
	}
	if !row.IsLeaf() {
		return fmt.Sprintf("%s [%d]", escapeCell(row.Field), len(row.Children))
	}
	return escapeCell(row.Field)
}

func writeMarkdownUsage(md *markdown.Markdown, opts Options) {
	u := opts.Usage
	md.H2("Crawl usage")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Entries", strconv.Itoa(u.Entries)},
			{"Assets", strconv.Itoa(u.Assets)},
			{"Content types", strconv.Itoa(u.ContentTypes)},
			{"Queries", strconv.Itoa(u.Queries)},
			{"Cache hits", strconv.Itoa(u.Hits)},
			{"Cache hit rate", strconv.FormatFloat(u.HitRate, 'f', 1, 64) + "%"},
		},
		Alignment: []markdown.TableAlignment{markdown.AlignLeft, markdown.AlignRight},
	})
	md.PlainText("")
}

// escapeCell keeps user text from breaking the table layout.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func localeSummary(locales []string) string {
	if len(locales) == 0 {
		return "none"
	}
	return strings.Join(locales, ", ")
}

func filterSummary(f matrix.Filters) string {
	if !f.Active() {
		return ""
	}
	var hidden []string
	if f.HideFullyLocalized {
		hidden = append(hidden, "fully localized rows")
	}
	if f.HideFullyNonLocalized {
		hidden = append(hidden, "fully non-localized rows")
	}
	return strings.Join(hidden, ", ")
}
