package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

const htmlStyles = `body{font-family:Helvetica,Arial,sans-serif;font-size:9pt;color:#212529;margin:0}
.page{width:190mm;min-height:267mm;margin:0 auto;padding:10mm 0;page-break-after:always;display:flex;flex-direction:column}
.page:last-child{page-break-after:auto}
.page>header{text-align:center;font-weight:bold;font-size:13pt;border-bottom:1px solid #787878;padding-bottom:2mm;margin-bottom:2mm}
.page>main{flex:1}
.page>footer{display:flex;justify-content:space-between;font-size:7pt;color:#787878}
.category{background:#343a40;color:#fff;font-size:10pt;font-weight:bold;margin:0;padding:1.5mm 2mm}
.class{background:#dee2e6;font-size:9pt;font-weight:bold;margin:0;padding:1.5mm 2mm}
.spacer{height:4mm}
table{width:100%;border-collapse:collapse}
th{background:#212529;color:#fff;font-size:7pt;padding:1mm}
td{font-size:7pt;padding:1mm}
td.num,th.num{text-align:right}
tr.tinted td{background:#f5f5f5}
tr.separator td{border-bottom:1.5px solid #3c3c3c}
td.flagged{color:#c81e1e;font-weight:bold}
caption{text-align:left;font-style:italic;font-size:7pt;color:#777}
`

// htmlTable collects the header and rows of one class on one page.
type htmlTable struct {
	columns []ColumnSpec
	caption string
	rows    []TableRow
}

// HTMLWriter renders each layout page as a <section class="page"> with its
// own header and footer. The markup lives in export_html.templ; run
// `templ generate` after editing it.
type HTMLWriter struct {
	meta  PageMeta
	first PageMeta
	pages []templ.Component
	body  []templ.Component
	table *htmlTable
	open  bool
}

// NewHTMLWriter returns an empty HTML backend.
func NewHTMLWriter() *HTMLWriter {
	return &HTMLWriter{}
}

func (w *HTMLWriter) BeginPage(meta PageMeta) error {
	if len(w.pages) == 0 {
		w.first = meta
	}
	w.meta = meta
	w.body = nil
	w.table = nil
	w.open = true
	return nil
}

func (w *HTMLWriter) WriteBlock(b RowBlock) error {
	if !w.open {
		return fmt.Errorf("block written outside a page")
	}
	if b.Kind != BlockItemRows {
		w.flushTable()
	}
	switch b.Kind {
	case BlockSpacer:
		w.body = append(w.body, blockSpacer())
	case BlockCategoryBanner:
		w.body = append(w.body, categoryBanner(b.Text))
	case BlockClassBanner:
		w.body = append(w.body, classBanner(b.Text))
	case BlockHeaderRow:
		w.table = &htmlTable{columns: b.Columns, caption: headerCaption(b, w.meta.Locale)}
	case BlockItemRows:
		if w.table == nil {
			w.table = &htmlTable{columns: b.Columns}
		}
		w.table.rows = append(w.table.rows, b.Rows...)
	}
	return nil
}

func (w *HTMLWriter) flushTable() {
	if w.table == nil {
		return
	}
	w.body = append(w.body, classTable(*w.table))
	w.table = nil
}

func (w *HTMLWriter) EndPage() error {
	if !w.open {
		return fmt.Errorf("no page to end")
	}
	w.flushTable()
	w.pages = append(w.pages, priceListPage(w.meta, w.body))
	w.body = nil
	w.open = false
	return nil
}

func (w *HTMLWriter) Bytes() ([]byte, error) {
	if len(w.pages) == 0 {
		return nil, fmt.Errorf("render HTML: no pages")
	}
	var buf bytes.Buffer
	if err := priceListDocument(w.first, w.pages).Render(context.Background(), &buf); err != nil {
		return nil, fmt.Errorf("render HTML: %w", err)
	}
	return buf.Bytes(), nil
}

// cellAttrs sets the class of a header or body cell.
func cellAttrs(numeric, flagged bool) templ.Attributes {
	var classes []string
	if numeric {
		classes = append(classes, "num")
	}
	if flagged {
		classes = append(classes, "flagged")
	}
	return classAttrs(classes)
}

func rowAttrs(r TableRow) templ.Attributes {
	var classes []string
	if r.Tinted {
		classes = append(classes, "tinted")
	}
	if r.Separator {
		classes = append(classes, "separator")
	}
	return classAttrs(classes)
}

func classAttrs(classes []string) templ.Attributes {
	if len(classes) == 0 {
		return templ.Attributes{}
	}
	return templ.Attributes{"class": strings.Join(classes, " ")}
}
