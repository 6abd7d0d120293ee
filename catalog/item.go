// Package catalog holds the price-list data model: items, their quantity-break
// price ranges, the price-list column codes, and the loaders that produce them.
package catalog

import (
	"database/sql"
	"sort"
)

// ItemID identifies an item across price-list queries.
type ItemID string

// Item is a catalogue article as fetched for a price list. Format and Caisse
// may be absent; Category and Class may be blank and are defaulted at grouping.
type Item struct {
	ID          ItemID
	Code        string
	Description string
	Format      string
	Caisse      sql.NullFloat64 // units per case
	Category    string
	Class       string
}

// PriceRange is one quantity break of an item. An invalid QtyMax means
// "and above".
type PriceRange struct {
	QtyMin  float64
	QtyMax  sql.NullFloat64
	Columns map[PriceColumnCode]sql.NullFloat64
}

// Price returns the price stored under code. Missing keys and null prices
// both come back invalid.
func (r PriceRange) Price(code PriceColumnCode) sql.NullFloat64 {
	if r.Columns == nil {
		return sql.NullFloat64{}
	}
	return r.Columns[code]
}

// Codes returns the column codes present on the range, sorted.
func (r PriceRange) Codes() []PriceColumnCode {
	codes := make([]PriceColumnCode, 0, len(r.Columns))
	for c := range r.Columns {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Catalogue is the input of one price-list composition: the items in query
// order and the ranges of each item in ascending QtyMin order.
type Catalogue struct {
	Items  []Item
	Ranges map[ItemID][]PriceRange
}

// RangesFor returns the ranges of an item, or nil.
func (c Catalogue) RangesFor(id ItemID) []PriceRange {
	if c.Ranges == nil {
		return nil
	}
	return c.Ranges[id]
}

// RangeCount returns the total number of price ranges across all items.
func (c Catalogue) RangeCount() int {
	n := 0
	for _, rs := range c.Ranges {
		n += len(rs)
	}
	return n
}

// Price builds a valid nullable price.
func Price(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}
