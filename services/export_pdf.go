package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// pdfGridSize is the number of grid columns a PDF row is divided into.
const pdfGridSize = 48

var (
	pdfCharcoal  = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfSlate     = &props.Color{Red: 52, Green: 58, Blue: 64}
	pdfClassBg   = &props.Color{Red: 222, Green: 226, Blue: 230}
	pdfTint      = &props.Color{Red: 245, Green: 245, Blue: 245}
	pdfWhite     = &props.Color{Red: 255, Green: 255, Blue: 255}
	pdfGrey      = &props.Color{Red: 120, Green: 120, Blue: 120}
	pdfFlagged   = &props.Color{Red: 200, Green: 30, Blue: 30}
	pdfSeparator = &props.Color{Red: 60, Green: 60, Blue: 60}
)

// PDFWriter renders pages with maroto/v2. Each layout page becomes exactly
// one maroto page; header and footer are registered once from the first
// page's metadata.
type PDFWriter struct {
	m       core.Maroto
	meta    PageMeta
	current core.Page
}

// NewPDFWriter returns an empty A4 portrait PDF backend.
func NewPDFWriter() *PDFWriter {
	return &PDFWriter{}
}

func (w *PDFWriter) BeginPage(meta PageMeta) error {
	w.meta = meta
	if w.m == nil {
		if err := w.init(meta); err != nil {
			return err
		}
	}
	w.current = page.New()
	return nil
}

func (w *PDFWriter) init(meta PageMeta) error {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithMaxGridSize(pdfGridSize).
		WithPageNumber(props.PageNumber{
			Pattern: chromeFor(meta.Locale).pagePattern,
			Place:   props.RightBottom,
			Size:    7,
			Color:   pdfGrey,
		}).
		Build()

	w.m = maroto.New(cfg)
	if err := w.m.RegisterHeader(pdfHeader(meta)...); err != nil {
		return fmt.Errorf("register PDF header: %w", err)
	}
	if err := w.m.RegisterFooter(pdfFooter(meta)...); err != nil {
		return fmt.Errorf("register PDF footer: %w", err)
	}
	return nil
}

func (w *PDFWriter) WriteBlock(b RowBlock) error {
	if w.current == nil {
		return fmt.Errorf("block written outside a page")
	}
	w.current.Add(pdfRows(b, w.meta.Locale)...)
	return nil
}

func (w *PDFWriter) EndPage() error {
	if w.current == nil {
		return fmt.Errorf("no page to end")
	}
	w.m.AddPages(w.current)
	w.current = nil
	return nil
}

func (w *PDFWriter) Bytes() ([]byte, error) {
	if w.m == nil {
		return nil, fmt.Errorf("generate PDF: no pages")
	}
	doc, err := w.m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// pdfHeader is the title line repeated on every page.
func pdfHeader(meta PageMeta) []core.Row {
	return []core.Row{
		row.New(9).Add(
			col.New(pdfGridSize).Add(
				text.New(meta.Title, props.Text{
					Size:  13,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
		row.New(3).Add(
			col.New(pdfGridSize).Add(
				line.New(props.Line{Color: pdfGrey, Thickness: 0.3}),
			),
		),
	}
}

// pdfFooter carries the generation date and document id; maroto adds the
// page number in the bottom margin.
func pdfFooter(meta PageMeta) []core.Row {
	return []core.Row{
		row.New(6).Add(
			col.New(pdfGridSize).Add(
				text.New(meta.generatedLine(), props.Text{
					Size:  7,
					Align: align.Left,
					Top:   2,
					Color: pdfGrey,
				}),
			),
		),
	}
}

func pdfRows(b RowBlock, loc Locale) []core.Row {
	switch b.Kind {
	case BlockSpacer:
		return []core.Row{row.New(b.Height)}
	case BlockCategoryBanner:
		return []core.Row{pdfBanner(b, 10, pdfSlate, pdfWhite)}
	case BlockClassBanner:
		return []core.Row{pdfBanner(b, 9, pdfClassBg, nil)}
	case BlockHeaderRow:
		return []core.Row{pdfHeaderRow(b, loc)}
	case BlockItemRows:
		return pdfItemRows(b)
	}
	return nil
}

func pdfBanner(b RowBlock, size float64, bg, fg *props.Color) core.Row {
	return row.New(b.Height).Add(
		col.New(pdfGridSize).Add(
			text.New(b.Text, props.Text{
				Size:  size,
				Style: fontstyle.Bold,
				Align: align.Left,
				Left:  2,
				Top:   1.5,
				Color: fg,
			}),
		).WithStyle(&props.Cell{BackgroundColor: bg}),
	)
}

func pdfHeaderRow(b RowBlock, loc Locale) core.Row {
	sizes := gridSizes(b.Columns, pdfGridSize)
	headerCell := &props.Cell{BackgroundColor: pdfCharcoal}
	caption := headerCaption(b, loc)

	cols := make([]core.Col, len(b.Columns))
	for i, c := range b.Columns {
		label := c.Label
		if i == 1 && caption != "" {
			label += " · " + caption
		}
		cols[i] = col.New(sizes[i]).Add(
			text.New(label, props.Text{
				Size:  6.5,
				Style: fontstyle.Bold,
				Align: cellAlign(c.Kind),
				Top:   1.5,
				Left:  0.5,
				Right: 0.5,
				Color: pdfWhite,
			}),
		).WithStyle(headerCell)
	}
	return row.New(b.Height).Add(cols...)
}

func pdfItemRows(b RowBlock) []core.Row {
	sizes := gridSizes(b.Columns, pdfGridSize)
	height := b.Height
	if len(b.Rows) > 0 {
		height = b.Height / float64(len(b.Rows))
	}

	rows := make([]core.Row, 0, len(b.Rows))
	for _, r := range b.Rows {
		var style *props.Cell
		if r.Tinted || r.Separator {
			style = &props.Cell{}
			if r.Tinted {
				style.BackgroundColor = pdfTint
			}
			if r.Separator {
				style.BorderType = border.Bottom
				style.BorderColor = pdfSeparator
				style.BorderThickness = 0.4
			}
		}

		cols := make([]core.Col, len(sizes))
		for i := range sizes {
			var cell Cell
			if i < len(r.Cells) {
				cell = r.Cells[i]
			}
			kind := CellText
			if i < len(b.Columns) {
				kind = b.Columns[i].Kind
			}
			tp := props.Text{
				Size:  6.5,
				Align: cellAlign(kind),
				Top:   1.5,
				Left:  0.5,
				Right: 0.5,
			}
			if cell.Flagged {
				tp.Color = pdfFlagged
				tp.Style = fontstyle.Bold
			}
			c := col.New(sizes[i]).Add(text.New(cell.Text, tp))
			if style != nil {
				c = c.WithStyle(style)
			}
			cols[i] = c
		}
		rows = append(rows, row.New(height).Add(cols...))
	}
	return rows
}

func cellAlign(k CellKind) align.Type {
	if k.Numeric() {
		return align.Right
	}
	return align.Left
}

// gridSizes distributes grid columns proportionally to the column weights.
// Every column gets at least one; the description column (index 1) absorbs
// the rounding difference.
func gridSizes(columns []ColumnSpec, grid int) []int {
	sizes := make([]int, len(columns))
	if len(columns) == 0 {
		return sizes
	}
	total := 0
	for _, c := range columns {
		total += max(c.Weight, 1)
	}

	sum := 0
	for i, c := range columns {
		sizes[i] = max(max(c.Weight, 1)*grid/total, 1)
		sum += sizes[i]
	}

	flex := 0
	if len(columns) > 1 {
		flex = 1
	}
	sizes[flex] += grid - sum
	for sizes[flex] < 1 {
		// Too many columns for the grid; borrow from the widest.
		widest := 0
		for i := range sizes {
			if i != flex && sizes[i] > sizes[widest] {
				widest = i
			}
		}
		if sizes[widest] <= 1 {
			sizes[flex] = 1
			break
		}
		sizes[widest]--
		sizes[flex]++
	}
	return sizes
}
