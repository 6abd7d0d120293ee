package services

import (
	"sort"

	"pricecatalog/catalog"
)

// DisplayPolicy controls which price-list columns a reader may see.
type DisplayPolicy struct {
	SelectedColumn catalog.PriceColumnCode
	Details        bool
}

// ShowsCost reports whether the exposition cost column is visible. It is
// hidden by default; only details mode or viewing the EXP list reveals it.
func (p DisplayPolicy) ShowsCost() bool {
	return p.Details || p.SelectedColumn == catalog.ColumnExp
}

// ColumnSet is the resolved column layout of one class.
type ColumnSet struct {
	// Ordered is every reference code in business order, before filtering.
	Ordered []catalog.PriceColumnCode
	// Standard are the price columns rendered in the main block.
	Standard []catalog.PriceColumnCode
	// Cost is the trailing exposition column, empty when hidden or absent.
	Cost catalog.PriceColumnCode
	// Weight is the trailing 08-PDS column, empty when absent.
	Weight catalog.PriceColumnCode
}

// Display returns the visible price columns in rendering order.
func (s ColumnSet) Display() []catalog.PriceColumnCode {
	out := make([]catalog.PriceColumnCode, 0, len(s.Standard)+2)
	out = append(out, s.Standard...)
	if s.Cost != "" {
		out = append(out, s.Cost)
	}
	if s.Weight != "" {
		out = append(out, s.Weight)
	}
	return out
}

// OrderColumns sorts codes by business priority: each code goes to the first
// priority token it equals or contains, and codes matching no token follow
// in ascending order. Duplicates are dropped.
func OrderColumns(codes []catalog.PriceColumnCode) []catalog.PriceColumnCode {
	seen := make(map[catalog.PriceColumnCode]bool, len(codes))
	unique := make([]catalog.PriceColumnCode, 0, len(codes))
	for _, c := range codes {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		unique = append(unique, c)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		ri, rj := unique[i].Meta().Rank, unique[j].Meta().Rank
		switch {
		case ri >= 0 && rj >= 0 && ri != rj:
			return ri < rj
		case ri >= 0 && rj < 0:
			return true
		case ri < 0 && rj >= 0:
			return false
		}
		return unique[i] < unique[j]
	})
	return unique
}

// AbbreviateColumnName returns the short display label of a column code:
// "04-GROSEXP" becomes "4-GREXP" and a zero-padded "0N-" prefix loses its zero.
func AbbreviateColumnName(code catalog.PriceColumnCode) string {
	return code.Label()
}

// ResolveColumns orders a class's reference codes and applies the display
// policy. 08-PDS always leaves the standard set for the trailing weight
// column; 01-EXP leaves it too and comes back as the trailing cost column
// only when the policy shows cost.
func ResolveColumns(reference []catalog.PriceColumnCode, policy DisplayPolicy) ColumnSet {
	set := ColumnSet{Ordered: OrderColumns(reference)}
	for _, code := range set.Ordered {
		switch code.Meta().Role {
		case catalog.RoleWeight:
			set.Weight = code
		case catalog.RoleCost:
			if policy.ShowsCost() {
				set.Cost = code
			}
		default:
			set.Standard = append(set.Standard, code)
		}
	}
	return set
}

// ReferenceColumns returns the column codes of a class's schema reference:
// the first price range of the first item that has any ranges.
func ReferenceColumns(items []catalog.Item, cat catalog.Catalogue) []catalog.PriceColumnCode {
	for _, it := range items {
		if ranges := cat.RangesFor(it.ID); len(ranges) > 0 {
			return ranges[0].Codes()
		}
	}
	return nil
}
