package services

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Document is a composed block stream plus the metadata printed around it.
type Document struct {
	Title       string
	GeneratedAt time.Time
	DocumentID  string
	Locale      Locale
	Blocks      []RowBlock
}

// PageMeta is handed to a PageWriter at the start of every page.
type PageMeta struct {
	Number      int
	Total       int
	Title       string
	GeneratedAt time.Time
	DocumentID  string
	Locale      Locale
}

// PageWriter is an output backend. RenderDocument drives it page by page and
// never sends PageBreak blocks; the page boundaries are the Begin/End calls.
type PageWriter interface {
	BeginPage(meta PageMeta) error
	WriteBlock(b RowBlock) error
	EndPage() error
	Bytes() ([]byte, error)
}

// SplitPages cuts a block stream at its PageBreak blocks. The result always
// holds at least one page, possibly empty.
func SplitPages(blocks []RowBlock) [][]RowBlock {
	pages := [][]RowBlock{nil}
	for _, b := range blocks {
		if b.Kind == BlockPageBreak {
			pages = append(pages, nil)
			continue
		}
		pages[len(pages)-1] = append(pages[len(pages)-1], b)
	}
	return pages
}

// RenderDocument commits the document's pages through w and returns the
// encoded output.
func RenderDocument(doc Document, w PageWriter) ([]byte, error) {
	pages := SplitPages(doc.Blocks)
	for i, blocks := range pages {
		meta := PageMeta{
			Number:      i + 1,
			Total:       len(pages),
			Title:       doc.Title,
			GeneratedAt: doc.GeneratedAt,
			DocumentID:  doc.DocumentID,
			Locale:      doc.Locale,
		}
		if err := w.BeginPage(meta); err != nil {
			return nil, fmt.Errorf("begin page %d: %w", meta.Number, err)
		}
		for _, b := range blocks {
			if err := w.WriteBlock(b); err != nil {
				return nil, fmt.Errorf("write %s block on page %d: %w", b.Kind, meta.Number, err)
			}
		}
		if err := w.EndPage(); err != nil {
			return nil, fmt.Errorf("end page %d: %w", meta.Number, err)
		}
	}
	return w.Bytes()
}

// OutputFormat names a PageWriter backend.
type OutputFormat string

const (
	FormatPDF  OutputFormat = "pdf"
	FormatXLSX OutputFormat = "xlsx"
	FormatHTML OutputFormat = "html"
	FormatText OutputFormat = "txt"
)

// OutputFormats lists the supported backends.
var OutputFormats = []OutputFormat{FormatPDF, FormatXLSX, FormatHTML, FormatText}

// ParseOutputFormat accepts a format name, or a file name whose extension
// names the format.
func ParseOutputFormat(s string) (OutputFormat, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimPrefix(ext, ".")
	}
	switch name {
	case "pdf":
		return FormatPDF, nil
	case "xlsx":
		return FormatXLSX, nil
	case "html", "htm":
		return FormatHTML, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("unsupported output format %q", s)
}

// NewPageWriter returns a fresh backend for the format.
func NewPageWriter(format OutputFormat) (PageWriter, error) {
	switch format {
	case FormatPDF:
		return NewPDFWriter(), nil
	case FormatXLSX:
		return NewExcelWriter(), nil
	case FormatHTML:
		return NewHTMLWriter(), nil
	case FormatText:
		return NewTextWriter(), nil
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

// chrome holds the localized page decoration strings.
type chrome struct {
	pagePattern string // maroto pattern, {current} and {total}
	pageOf      string // Sprintf pattern, current then total
	generated   string
	continued   string
	oversized   string
}

var chromeByLocale = map[Locale]chrome{
	LocaleFR: {
		pagePattern: "Page {current} de {total}",
		pageOf:      "Page %d de %d",
		generated:   "Généré le %s",
		continued:   "suite",
		oversized:   "déborde de la page",
	},
	LocaleEN: {
		pagePattern: "Page {current} of {total}",
		pageOf:      "Page %d of %d",
		generated:   "Generated %s",
		continued:   "continued",
		oversized:   "overflows the page",
	},
}

func chromeFor(loc Locale) chrome {
	if c, ok := chromeByLocale[loc]; ok {
		return c
	}
	return chromeByLocale[LocaleFR]
}

const generatedLayout = "2006-01-02 15:04"

func (m PageMeta) generatedLine() string {
	line := fmt.Sprintf(chromeFor(m.Locale).generated, m.GeneratedAt.Format(generatedLayout))
	if m.DocumentID != "" {
		line += " · " + m.DocumentID
	}
	return line
}

func (m PageMeta) pageLine() string {
	return fmt.Sprintf(chromeFor(m.Locale).pageOf, m.Number, m.Total)
}

// headerCaption is the caption of a repeated class header.
func headerCaption(b RowBlock, loc Locale) string {
	if !b.Continued {
		return ""
	}
	return b.Class + " (" + chromeFor(loc).continued + ")"
}
