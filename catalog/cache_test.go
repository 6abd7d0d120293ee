package catalog

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCache_AddKeepsFirstOccurrence(t *testing.T) {
	c := NewItemCache(Item{ID: "A", Code: "first"})

	added := c.Add([]Item{
		{ID: "B"},
		{ID: "A", Code: "second"},
		{ID: "C"},
		{ID: "B", Code: "repeat"},
	})

	assert.Equal(t, 2, added)
	assert.Equal(t, 3, c.Len())

	a, ok := c.Get("A")
	require.True(t, ok)
	assert.Equal(t, "first", a.Code)

	b, _ := c.Get("B")
	assert.Empty(t, b.Code)

	ids := make([]ItemID, 0, c.Len())
	for _, it := range c.Items() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []ItemID{"A", "B", "C"}, ids)
}

func TestItemCache_ItemsIsACopy(t *testing.T) {
	c := NewItemCache(Item{ID: "A", Code: "x"})
	items := c.Items()
	items[0].Code = "changed"

	a, _ := c.Get("A")
	assert.Equal(t, "x", a.Code)
}

func TestItemCache_ZeroValue(t *testing.T) {
	var c ItemCache
	assert.Equal(t, 1, c.Add([]Item{{ID: "A"}}))
	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestPriceRange_PriceAndCodes(t *testing.T) {
	r := PriceRange{Columns: map[PriceColumnCode]sql.NullFloat64{
		ColumnGros: Price(4),
		ColumnExp:  {},
	}}

	assert.True(t, r.Price(ColumnGros).Valid)
	assert.False(t, r.Price(ColumnExp).Valid)
	assert.False(t, r.Price(ColumnDet).Valid)
	assert.Equal(t, []PriceColumnCode{ColumnExp, ColumnGros}, r.Codes())

	assert.False(t, PriceRange{}.Price(ColumnGros).Valid)
	assert.Nil(t, Catalogue{}.RangesFor("A"))
}
