// Package services composes price-list documents: format parsing, column
// resolution, pricing metrics, grouping, pagination and rendering backends.
package services

import (
	"database/sql"

	"pricecatalog/catalog"
)

// PricePerUnit divides the selling price by the normalized package quantity.
// It is null when the price is null or the quantity is null or zero.
func PricePerUnit(sell sql.NullFloat64, format string) sql.NullFloat64 {
	if !sell.Valid {
		return sql.NullFloat64{}
	}
	qty := ParseFormat(format).Quantity
	if !qty.Valid || qty.Float64 == 0 {
		return sql.NullFloat64{}
	}
	return valid(sell.Float64 / qty.Float64)
}

// PricePerCase multiplies the selling price by the units per case.
func PricePerCase(sell, caisse sql.NullFloat64) sql.NullFloat64 {
	if !sell.Valid || !caisse.Valid || caisse.Float64 == 0 {
		return sql.NullFloat64{}
	}
	return valid(sell.Float64 * caisse.Float64)
}

// MarginPercent returns (sell-cost)/sell*100. The sign is kept: a negative
// margin means the cost exceeds the selling price.
func MarginPercent(sell, cost sql.NullFloat64) sql.NullFloat64 {
	if !sell.Valid || !cost.Valid || sell.Float64 == 0 {
		return sql.NullFloat64{}
	}
	return valid((sell.Float64 - cost.Float64) / sell.Float64 * 100)
}

// CostOf reads the cost of a range. Cost always comes from the 01-EXP column,
// whichever price list is selected.
func CostOf(r catalog.PriceRange) sql.NullFloat64 {
	return r.Price(catalog.ColumnExp)
}

// CommonUnit returns the normalized unit shared by every item, or "unité"
// when they disagree or there are no items.
func CommonUnit(items []catalog.Item) Unit {
	if len(items) == 0 {
		return UnitCount
	}
	first := ParseFormat(items[0].Format).NormalizedUnit
	for _, it := range items[1:] {
		if ParseFormat(it.Format).NormalizedUnit != first {
			return UnitCount
		}
	}
	return first
}
