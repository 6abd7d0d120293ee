package catalog

import (
	"regexp"
	"strings"
)

// PriceColumnCode is the code of one price-list column (one commercial price
// schedule), e.g. "05-GROS".
type PriceColumnCode string

const (
	ColumnExp     PriceColumnCode = "01-EXP"
	ColumnDet     PriceColumnCode = "02-DET"
	ColumnInd     PriceColumnCode = "03-IND"
	ColumnGrosExp PriceColumnCode = "04-GROSEXP"
	ColumnGros    PriceColumnCode = "05-GROS"
	ColumnPds     PriceColumnCode = "08-PDS"
)

// ColumnRole says where a column goes in the rendered table.
type ColumnRole int

const (
	RoleStandard ColumnRole = iota
	RoleCost                // the exposition cost column, hidden by default
	RoleWeight              // rendered as a separate trailing column
)

// ColumnMeta is the display metadata of a column code.
type ColumnMeta struct {
	// Rank is the position in the business priority list, or -1 when the
	// code matches no priority token.
	Rank  int
	Label string
	Role  ColumnRole
}

// priorityTokens is the business ordering of price-list columns.
var priorityTokens = []PriceColumnCode{ColumnExp, ColumnGros, ColumnDet, ColumnInd}

var knownColumns = map[PriceColumnCode]ColumnMeta{
	ColumnExp:     {Rank: 0, Label: "1-EXP", Role: RoleCost},
	ColumnGros:    {Rank: 1, Label: "5-GROS", Role: RoleStandard},
	ColumnDet:     {Rank: 2, Label: "2-DET", Role: RoleStandard},
	ColumnInd:     {Rank: 3, Label: "3-IND", Role: RoleStandard},
	ColumnGrosExp: {Rank: -1, Label: "4-GREXP", Role: RoleStandard},
	ColumnPds:     {Rank: -1, Label: "8-PDS", Role: RoleWeight},
}

var zeroPaddedPrefix = regexp.MustCompile(`^0(\d)-`)

// Meta returns the display metadata of the code. Known codes come from a
// fixed table; other codes get metadata derived by the same rules.
func (c PriceColumnCode) Meta() ColumnMeta {
	if m, ok := knownColumns[c]; ok {
		return m
	}
	return ColumnMeta{Rank: priorityRank(c), Label: abbreviate(c), Role: RoleStandard}
}

// Label is the short display name of the code.
func (c PriceColumnCode) Label() string {
	return c.Meta().Label
}

// Priorities returns the business priority tokens in order.
func Priorities() []PriceColumnCode {
	out := make([]PriceColumnCode, len(priorityTokens))
	copy(out, priorityTokens)
	return out
}

func priorityRank(c PriceColumnCode) int {
	for i, tok := range priorityTokens {
		if strings.Contains(string(c), string(tok)) {
			return i
		}
	}
	return -1
}

func abbreviate(c PriceColumnCode) string {
	if c == ColumnGrosExp {
		return "4-GREXP"
	}
	return zeroPaddedPrefix.ReplaceAllString(string(c), "$1-")
}

// ParseColumnCode normalizes a raw header or flag value into a column code.
func ParseColumnCode(raw string) PriceColumnCode {
	return PriceColumnCode(strings.ToUpper(strings.TrimSpace(raw)))
}
