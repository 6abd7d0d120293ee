// Package testhelpers provides builders for catalogues, items and price
// ranges used across package tests.
package testhelpers

import (
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"pricecatalog/catalog"
)

// ItemOption customises an item built by NewItem.
type ItemOption func(*catalog.Item)

// NewItem returns an item whose ID and code are both id.
func NewItem(id string, opts ...ItemOption) catalog.Item {
	it := catalog.Item{
		ID:          catalog.ItemID(id),
		Code:        id,
		Description: "Article " + id,
	}
	for _, opt := range opts {
		opt(&it)
	}
	return it
}

func WithFormat(format string) ItemOption {
	return func(it *catalog.Item) { it.Format = format }
}

func WithCaisse(n float64) ItemOption {
	return func(it *catalog.Item) { it.Caisse = catalog.Price(n) }
}

// In places the item in a category and class.
func In(category, class string) ItemOption {
	return func(it *catalog.Item) {
		it.Category = category
		it.Class = class
	}
}

func WithDescription(d string) ItemOption {
	return func(it *catalog.Item) { it.Description = d }
}

// ColumnPrice is one price of a range; see P.
type ColumnPrice struct {
	Code  catalog.PriceColumnCode
	Price sql.NullFloat64
}

// P is a valid price for a column.
func P(code catalog.PriceColumnCode, price float64) ColumnPrice {
	return ColumnPrice{Code: code, Price: catalog.Price(price)}
}

// Null is a column present in the range with no price.
func Null(code catalog.PriceColumnCode) ColumnPrice {
	return ColumnPrice{Code: code}
}

// Range builds a quantity break. A qtyMax of zero or less is open-ended.
func Range(qtyMin, qtyMax float64, prices ...ColumnPrice) catalog.PriceRange {
	r := catalog.PriceRange{
		QtyMin:  qtyMin,
		Columns: make(map[catalog.PriceColumnCode]sql.NullFloat64, len(prices)),
	}
	if qtyMax > 0 {
		r.QtyMax = catalog.Price(qtyMax)
	}
	for _, p := range prices {
		r.Columns[p.Code] = p.Price
	}
	return r
}

// CatalogueBuilder accumulates items and their ranges in insertion order.
type CatalogueBuilder struct {
	cat catalog.Catalogue
}

func NewCatalogue() *CatalogueBuilder {
	return &CatalogueBuilder{cat: catalog.Catalogue{Ranges: make(map[catalog.ItemID][]catalog.PriceRange)}}
}

// Add appends an item with its ranges.
func (b *CatalogueBuilder) Add(it catalog.Item, ranges ...catalog.PriceRange) *CatalogueBuilder {
	b.cat.Items = append(b.cat.Items, it)
	if len(ranges) > 0 {
		b.cat.Ranges[it.ID] = append(b.cat.Ranges[it.ID], ranges...)
	}
	return b
}

// AddN appends n items sharing the same options and ranges, with ids
// prefix-1 to prefix-n.
func (b *CatalogueBuilder) AddN(prefix string, n int, opts []ItemOption, ranges ...catalog.PriceRange) *CatalogueBuilder {
	for i := 1; i <= n; i++ {
		b.Add(NewItem(prefix+"-"+strconv.Itoa(i), opts...), ranges...)
	}
	return b
}

func (b *CatalogueBuilder) Build() catalog.Catalogue {
	return b.cat
}

// WriteFile writes content to name inside a test temp dir and returns the
// full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// AssertContains checks that body contains all specified fragments.
func AssertContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected output to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
