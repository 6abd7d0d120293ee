package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// textCharsPerWeight converts a column weight to a character width.
const textCharsPerWeight = 4

// TextWriter renders fixed-width plain text. Widths are measured in display
// cells, so accented and wide characters line up. Pages are separated by a
// form feed.
type TextWriter struct {
	buf    bytes.Buffer
	meta   PageMeta
	width  int
	widths []int
	open   bool
	pages  int
}

// NewTextWriter returns an empty plain-text backend.
func NewTextWriter() *TextWriter {
	return &TextWriter{width: 80}
}

func (w *TextWriter) BeginPage(meta PageMeta) error {
	if w.pages > 0 {
		w.buf.WriteString("\f\n")
	}
	w.meta = meta
	w.open = true
	w.widths = nil
	w.line(center(meta.Title, w.width))
	w.line(strings.Repeat("=", w.width))
	return nil
}

func (w *TextWriter) line(s string) {
	w.buf.WriteString(strings.TrimRight(s, " "))
	w.buf.WriteByte('\n')
}

func (w *TextWriter) WriteBlock(b RowBlock) error {
	if !w.open {
		return fmt.Errorf("block written outside a page")
	}
	switch b.Kind {
	case BlockSpacer:
		w.line("")
	case BlockCategoryBanner:
		w.line("## " + strings.ToUpper(b.Text))
	case BlockClassBanner:
		w.line("-- " + b.Text)
	case BlockHeaderRow:
		w.widths = textWidths(b.Columns)
		if caption := headerCaption(b, w.meta.Locale); caption != "" {
			w.line("   " + caption)
		}
		labels := make([]string, len(b.Columns))
		for i, c := range b.Columns {
			labels[i] = c.Label
		}
		w.line(w.join(labels, b.Columns))
		w.line(strings.Repeat("-", runewidth.StringWidth(w.join(labels, b.Columns))))
	case BlockItemRows:
		if w.widths == nil {
			w.widths = textWidths(b.Columns)
		}
		for _, r := range b.Rows {
			texts := make([]string, len(r.Cells))
			for i, c := range r.Cells {
				texts[i] = c.Text
				if c.Flagged {
					texts[i] = "!" + c.Text
				}
			}
			w.line(w.join(texts, b.Columns))
			if r.Separator {
				w.line("")
			}
		}
		if b.Oversized {
			w.line("   [" + chromeFor(w.meta.Locale).oversized + "]")
		}
	}
	return nil
}

// join lays out one table line, padding text left and numbers right.
func (w *TextWriter) join(texts []string, columns []ColumnSpec) string {
	parts := make([]string, 0, len(texts))
	for i, t := range texts {
		width := textCharsPerWeight * 2
		if i < len(w.widths) {
			width = w.widths[i]
		}
		numeric := i < len(columns) && columns[i].Kind.Numeric()
		parts = append(parts, fit(t, width, numeric))
	}
	return strings.Join(parts, " ")
}

func textWidths(columns []ColumnSpec) []int {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = max(c.Weight, 1) * textCharsPerWeight
	}
	return widths
}

// fit truncates or pads s to exactly width display cells.
func fit(s string, width int, right bool) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	if right {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}

func center(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return strings.Repeat(" ", (width-sw)/2) + s
}

func (w *TextWriter) EndPage() error {
	if !w.open {
		return fmt.Errorf("no page to end")
	}
	w.line(strings.Repeat("=", w.width))
	footer := w.meta.generatedLine()
	page := w.meta.pageLine()
	gap := w.width - runewidth.StringWidth(footer) - runewidth.StringWidth(page)
	w.line(footer + strings.Repeat(" ", max(gap, 1)) + page)
	w.open = false
	w.pages++
	return nil
}

func (w *TextWriter) Bytes() ([]byte, error) {
	if w.pages == 0 {
		return nil, fmt.Errorf("render text: no pages")
	}
	return w.buf.Bytes(), nil
}
