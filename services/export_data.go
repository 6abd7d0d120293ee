package services

import (
	"database/sql"

	"pricecatalog/catalog"
)

// BlockKind is the type of a RowBlock.
type BlockKind int

const (
	BlockCategoryBanner BlockKind = iota
	BlockClassBanner
	BlockHeaderRow
	BlockItemRows
	BlockPageBreak
	BlockSpacer
)

func (k BlockKind) String() string {
	switch k {
	case BlockCategoryBanner:
		return "CategoryBanner"
	case BlockClassBanner:
		return "ClassBanner"
	case BlockHeaderRow:
		return "HeaderRow"
	case BlockItemRows:
		return "ItemRows"
	case BlockPageBreak:
		return "PageBreak"
	case BlockSpacer:
		return "Spacer"
	}
	return "Unknown"
}

// CellKind tells backends how to align and style a cell.
type CellKind int

const (
	CellText CellKind = iota
	CellQuantity
	CellMoney
	CellPercent
)

// Numeric reports whether the cell is right-aligned.
func (k CellKind) Numeric() bool { return k != CellText }

// Cell is a display-ready table cell. Text is final; Value keeps the number
// behind it for backends that store numbers.
type Cell struct {
	Text  string
	Value sql.NullFloat64
	Kind  CellKind
	// Flagged marks values that must stand out, such as negative margins.
	Flagged bool
}

// TableRow is one rendered price-range row.
type TableRow struct {
	Cells []Cell
	// Tinted rows get the light background; striping follows the item index
	// within its class.
	Tinted bool
	// Separator closes the item's row group with a bold line.
	Separator bool
}

// ColumnSpec describes one table column of a class.
type ColumnSpec struct {
	Label  string
	Kind   CellKind
	Weight int // relative width
}

// RowBlock is the unit the layout never splits across pages.
type RowBlock struct {
	Kind   BlockKind
	Page   int // 1-based
	Height float64

	Category string
	Class    string
	// Text is the banner caption for banner blocks.
	Text string

	Columns []ColumnSpec
	Rows    []TableRow

	ItemID catalog.ItemID
	// Continued marks a header row repeated at the top of a new page.
	Continued bool
	// Oversized marks an item taller than a whole page.
	Oversized bool
}

// CategorySection is the layout input for one category.
type CategorySection struct {
	Name    string
	Classes []ClassSection
}

// ClassSection is the layout input for one class: its banner caption, its
// column header and its items' rows.
type ClassSection struct {
	Name    string
	Title   string
	Columns []ColumnSpec
	Items   []ItemSection
}

// ItemSection holds the rows of one item, one per price range.
type ItemSection struct {
	ID   catalog.ItemID
	Code string
	Rows []TableRow
}
