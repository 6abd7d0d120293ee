package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const excelSheetName = "Liste de prix"

// excelStyleKey identifies one combination of cell styling.
type excelStyleKey struct {
	kind      CellKind
	tinted    bool
	flagged   bool
	separator bool
}

// ExcelWriter renders the document onto a single sheet. Layout pages are
// separated by manual page breaks so the printed sheet follows the same
// pagination as the PDF.
type ExcelWriter struct {
	f      *excelize.File
	sheet  string
	meta   PageMeta
	row    int
	widths map[int]float64

	styles       map[excelStyleKey]int
	headerStyle  int
	catStyle     int
	classStyle   int
	captionStyle int
	breaks       int
}

// NewExcelWriter returns an empty XLSX backend.
func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{widths: make(map[int]float64), styles: make(map[excelStyleKey]int)}
}

// PageBreaks returns the number of manual page breaks inserted so far.
func (w *ExcelWriter) PageBreaks() int { return w.breaks }

func (w *ExcelWriter) BeginPage(meta PageMeta) error {
	w.meta = meta
	if w.f == nil {
		if err := w.init(meta); err != nil {
			return err
		}
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return fmt.Errorf("page break cell: %w", err)
	}
	if err := w.f.InsertPageBreak(w.sheet, cell); err != nil {
		return fmt.Errorf("insert page break: %w", err)
	}
	w.breaks++
	return nil
}

func (w *ExcelWriter) init(meta PageMeta) error {
	w.f = excelize.NewFile()
	w.sheet = excelSheetName
	if err := w.f.SetSheetName(w.f.GetSheetName(0), w.sheet); err != nil {
		return fmt.Errorf("set sheet name: %w", err)
	}

	size := 9 // A4
	portrait := "portrait"
	if err := w.f.SetPageLayout(w.sheet, &excelize.PageLayoutOptions{Size: &size, Orientation: &portrait}); err != nil {
		return fmt.Errorf("set page layout: %w", err)
	}
	if err := w.f.SetHeaderFooter(w.sheet, &excelize.HeaderFooterOptions{
		OddHeader: "&C&\"-,Bold\"" + excelHeaderText(meta.Title),
		OddFooter: "&L" + excelHeaderText(meta.generatedLine()) + "&R" + excelPageField(meta.Locale),
	}); err != nil {
		return fmt.Errorf("set header/footer: %w", err)
	}

	var err error
	if w.catStyle, err = w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#343A40"}, Pattern: 1},
	}); err != nil {
		return fmt.Errorf("create category style: %w", err)
	}
	if w.classStyle, err = w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DEE2E6"}, Pattern: 1},
	}); err != nil {
		return fmt.Errorf("create class style: %w", err)
	}
	if w.headerStyle, err = w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 10},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	}); err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if w.captionStyle, err = w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Size: 9, Color: "#777777"},
	}); err != nil {
		return fmt.Errorf("create caption style: %w", err)
	}

	w.row = 1
	return nil
}

func (w *ExcelWriter) WriteBlock(b RowBlock) error {
	if w.f == nil {
		return fmt.Errorf("block written outside a page")
	}
	switch b.Kind {
	case BlockSpacer:
		w.row++
	case BlockCategoryBanner:
		return w.writeBanner(b.Text, w.catStyle)
	case BlockClassBanner:
		return w.writeBanner(b.Text, w.classStyle)
	case BlockHeaderRow:
		return w.writeHeader(b)
	case BlockItemRows:
		return w.writeItemRows(b)
	}
	return nil
}

func (w *ExcelWriter) writeBanner(caption string, style int) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.f.SetCellValue(w.sheet, cell, sanitizeExcelCell(caption)); err != nil {
		return fmt.Errorf("set banner: %w", err)
	}
	if err := w.f.SetCellStyle(w.sheet, cell, cell, style); err != nil {
		return fmt.Errorf("style banner: %w", err)
	}
	w.row++
	return nil
}

func (w *ExcelWriter) writeHeader(b RowBlock) error {
	if caption := headerCaption(b, w.meta.Locale); caption != "" {
		if err := w.writeBanner(caption, w.captionStyle); err != nil {
			return err
		}
	}
	for i, c := range b.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			return err
		}
		if err := w.f.SetCellValue(w.sheet, cell, c.Label); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := w.f.SetCellStyle(w.sheet, cell, cell, w.headerStyle); err != nil {
			return fmt.Errorf("style header %s: %w", cell, err)
		}
		if err := w.growColumn(i+1, float64(max(c.Weight, 1))*4); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

func (w *ExcelWriter) growColumn(col int, width float64) error {
	if width <= w.widths[col] {
		return nil
	}
	w.widths[col] = width
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	if err := w.f.SetColWidth(w.sheet, name, name, width); err != nil {
		return fmt.Errorf("set col width %s: %w", name, err)
	}
	return nil
}

func (w *ExcelWriter) writeItemRows(b RowBlock) error {
	for _, r := range b.Rows {
		for i, c := range r.Cells {
			cell, err := excelize.CoordinatesToCellName(i+1, w.row)
			if err != nil {
				return err
			}
			if err := w.f.SetCellValue(w.sheet, cell, excelValue(c)); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
			style, err := w.cellStyle(excelStyleKey{kind: c.Kind, tinted: r.Tinted, flagged: c.Flagged, separator: r.Separator})
			if err != nil {
				return err
			}
			if err := w.f.SetCellStyle(w.sheet, cell, cell, style); err != nil {
				return fmt.Errorf("style cell %s: %w", cell, err)
			}
		}
		w.row++
	}
	return nil
}

// excelValue stores money, percent and case counts as numbers and everything
// else as text.
func excelValue(c Cell) any {
	if c.Kind != CellText && c.Value.Valid {
		return c.Value.Float64
	}
	return sanitizeExcelCell(c.Text)
}

func (w *ExcelWriter) cellStyle(key excelStyleKey) (int, error) {
	if id, ok := w.styles[key]; ok {
		return id, nil
	}
	borders := thinBorders()
	if key.separator {
		borders[2].Style = 5 // thick bottom
	}
	style := &excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: borders,
	}
	if key.kind.Numeric() {
		style.Alignment = &excelize.Alignment{Horizontal: "right"}
	}
	switch key.kind {
	case CellMoney:
		fmtCode := `#,##0.00\ "$"`
		if w.meta.Locale == LocaleEN {
			fmtCode = `"$"#,##0.00`
		}
		style.CustomNumFmt = &fmtCode
	case CellPercent:
		fmtCode := `0.0\ "%"`
		style.CustomNumFmt = &fmtCode
	}
	if key.tinted {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{"#F5F5F5"}, Pattern: 1}
	}
	if key.flagged {
		style.Font = &excelize.Font{Size: 10, Bold: true, Color: "#C81E1E"}
	}
	id, err := w.f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("create cell style: %w", err)
	}
	w.styles[key] = id
	return id, nil
}

func (w *ExcelWriter) EndPage() error {
	if w.f == nil {
		return fmt.Errorf("no page to end")
	}
	return nil
}

func (w *ExcelWriter) Bytes() ([]byte, error) {
	if w.f == nil {
		return nil, fmt.Errorf("write excel: no pages")
	}
	defer w.f.Close()
	var buf bytes.Buffer
	if err := w.f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// excelHeaderText escapes the ampersand, which starts a control code in
// print headers and footers.
func excelHeaderText(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '&' {
			out = append(out, '&', '&')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// excelPageField is the localized "page x of y" footer built from Excel's
// &P and &N fields.
func excelPageField(loc Locale) string {
	if loc == LocaleEN {
		return "Page &P of &N"
	}
	return "Page &P de &N"
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
