package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecatalog/catalog"
)

func testLayoutOptions() LayoutOptions {
	return LayoutOptions{
		PageHeight:           100,
		CategoryBannerHeight: 10,
		ClassBannerHeight:    10,
		HeaderHeight:         5,
		RowHeight:            5,
		CategoryGap:          4,
	}
}

func rowsN(n int) []TableRow {
	rows := make([]TableRow, n)
	for i := range rows {
		rows[i] = TableRow{Cells: []Cell{{Text: fmt.Sprintf("r%d", i)}}}
	}
	return rows
}

func layoutItem(id string, rows int) ItemSection {
	return ItemSection{ID: catalog.ItemID(id), Code: id, Rows: rowsN(rows)}
}

func layoutClass(name string, items ...ItemSection) ClassSection {
	return ClassSection{Name: name, Title: name, Columns: []ColumnSpec{{Label: "Code"}}, Items: items}
}

func layoutCategory(name string, classes ...ClassSection) CategorySection {
	return CategorySection{Name: name, Classes: classes}
}

func blockKinds(blocks []RowBlock) []BlockKind {
	out := make([]BlockKind, len(blocks))
	for i, b := range blocks {
		out[i] = b.Kind
	}
	return out
}

func blocksOnPage(blocks []RowBlock, page int) []RowBlock {
	var out []RowBlock
	for _, b := range blocks {
		if b.Page == page && b.Kind != BlockPageBreak {
			out = append(out, b)
		}
	}
	return out
}

func TestBuildLayout_HeaderRepeatsAndGap(t *testing.T) {
	var items []ItemSection
	for i := 1; i <= 6; i++ {
		items = append(items, layoutItem(fmt.Sprintf("X%d", i), 3))
	}
	sections := []CategorySection{
		layoutCategory("A", layoutClass("X", items...)),
		layoutCategory("B", layoutClass("Y", layoutItem("Y1", 2))),
	}

	blocks := BuildLayout(sections, testLayoutOptions())

	assert.Equal(t, 2, PageCount(blocks))
	assert.Equal(t, []BlockKind{
		BlockCategoryBanner, BlockClassBanner, BlockHeaderRow,
		BlockItemRows, BlockItemRows, BlockItemRows, BlockItemRows, BlockItemRows,
	}, blockKinds(blocksOnPage(blocks, 1)))

	page2 := blocksOnPage(blocks, 2)
	assert.Equal(t, []BlockKind{
		BlockHeaderRow, BlockItemRows,
		BlockSpacer, BlockCategoryBanner, BlockClassBanner, BlockHeaderRow, BlockItemRows,
	}, blockKinds(page2))
	assert.True(t, page2[0].Continued, "repeated header is marked continued")
	assert.Equal(t, "X", page2[0].Class)
	assert.False(t, page2[5].Continued, "first header of a class is not continued")
	assert.Equal(t, "B", page2[3].Text)
	assert.Equal(t, "Y", page2[4].Text)
}

func TestBuildLayout_GapDroppedAtPageTop(t *testing.T) {
	var items []ItemSection
	for i := 1; i <= 6; i++ {
		items = append(items, layoutItem(fmt.Sprintf("X%d", i), 3))
	}
	sections := []CategorySection{
		layoutCategory("A", layoutClass("X", items...)),
		layoutCategory("B", layoutClass("Y", layoutItem("Y1", 12))),
	}

	blocks := BuildLayout(sections, testLayoutOptions())

	assert.Equal(t, 3, PageCount(blocks))
	assert.NotContains(t, blockKinds(blocks), BlockSpacer)
	page3 := blocksOnPage(blocks, 3)
	require.NotEmpty(t, page3)
	assert.Equal(t, BlockCategoryBanner, page3[0].Kind)
}

func TestBuildLayout_ItemsNeverSplit(t *testing.T) {
	var items []ItemSection
	for i := 1; i <= 20; i++ {
		items = append(items, layoutItem(fmt.Sprintf("I%d", i), 1+i%4))
	}
	sections := []CategorySection{layoutCategory("A", layoutClass("X", items...))}
	opts := testLayoutOptions()

	blocks := BuildLayout(sections, opts)

	seen := make(map[catalog.ItemID]int)
	used := make(map[int]float64)
	for _, b := range blocks {
		used[b.Page] += b.Height
		if b.Kind != BlockItemRows {
			continue
		}
		seen[b.ItemID]++
		assert.Len(t, b.Rows, 1+itemIndex(b.ItemID)%4, "item %s rows", b.ItemID)
	}
	for _, it := range items {
		assert.Equal(t, 1, seen[it.ID], "item %s must appear exactly once", it.ID)
	}
	for page, h := range used {
		assert.LessOrEqual(t, h, opts.PageHeight, "page %d overflows", page)
	}
}

func itemIndex(id catalog.ItemID) int {
	var n int
	fmt.Sscanf(string(id), "I%d", &n)
	return n
}

func TestBuildLayout_NoOrphanBanners(t *testing.T) {
	sections := []CategorySection{
		layoutCategory("A",
			layoutClass("X", layoutItem("X1", 15)),
			layoutClass("Y", layoutItem("Y1", 3)),
		),
		layoutCategory("B", layoutClass("Z", layoutItem("Z1", 4), layoutItem("Z2", 4))),
	}

	blocks := BuildLayout(sections, testLayoutOptions())

	for i, b := range blocks {
		if b.Kind != BlockCategoryBanner && b.Kind != BlockClassBanner {
			continue
		}
		j := i + 1
		for j < len(blocks) && (blocks[j].Kind == BlockClassBanner || blocks[j].Kind == BlockHeaderRow) {
			j++
		}
		require.Less(t, j, len(blocks), "banner %q is last", b.Text)
		assert.Equal(t, BlockItemRows, blocks[j].Kind, "banner %q must be followed by rows", b.Text)
		assert.Equal(t, b.Page, blocks[j].Page, "banner %q is separated from its rows", b.Text)
	}
}

func TestBuildLayout_EmptyClassesAndItemsSkipped(t *testing.T) {
	sections := []CategorySection{
		layoutCategory("Empty", layoutClass("Nothing", layoutItem("E1", 0))),
		layoutCategory("A",
			layoutClass("Hollow"),
			layoutClass("X", layoutItem("X0", 0), layoutItem("X1", 2)),
		),
	}

	blocks := BuildLayout(sections, testLayoutOptions())

	assert.Equal(t, []BlockKind{BlockCategoryBanner, BlockClassBanner, BlockHeaderRow, BlockItemRows}, blockKinds(blocks))
	assert.Equal(t, "A", blocks[0].Text)
	assert.Equal(t, "X", blocks[1].Text)
	assert.Equal(t, catalog.ItemID("X1"), blocks[3].ItemID)
}

func TestBuildLayout_Oversized(t *testing.T) {
	sections := []CategorySection{
		layoutCategory("A", layoutClass("X",
			layoutItem("small", 1),
			layoutItem("huge", 25),
			layoutItem("after", 1),
		)),
	}

	blocks := BuildLayout(sections, testLayoutOptions())

	assert.Equal(t, 3, PageCount(blocks))
	page2 := blocksOnPage(blocks, 2)
	require.Len(t, page2, 2)
	assert.Equal(t, BlockHeaderRow, page2[0].Kind)
	assert.True(t, page2[1].Oversized)
	assert.Equal(t, catalog.ItemID("huge"), page2[1].ItemID)

	for _, b := range blocksOnPage(blocks, 3) {
		assert.False(t, b.Oversized)
	}
}

func TestBuildLayout_Striping(t *testing.T) {
	sections := []CategorySection{
		layoutCategory("A",
			layoutClass("X", layoutItem("X1", 2), layoutItem("X2", 2), layoutItem("X3", 1)),
			layoutClass("Y", layoutItem("Y1", 1)),
		),
	}

	blocks := BuildLayout(sections, testLayoutOptions())

	tinted := make(map[catalog.ItemID]bool)
	for _, b := range blocks {
		if b.Kind != BlockItemRows {
			continue
		}
		tinted[b.ItemID] = b.Rows[0].Tinted
		for i, r := range b.Rows {
			assert.Equal(t, b.Rows[0].Tinted, r.Tinted, "rows of %s share a tint", b.ItemID)
			assert.Equal(t, i == len(b.Rows)-1, r.Separator, "separator only on the last row of %s", b.ItemID)
		}
	}
	assert.Equal(t, map[catalog.ItemID]bool{"X1": false, "X2": true, "X3": false, "Y1": false}, tinted)

	// Input rows are left untouched.
	assert.False(t, sections[0].Classes[0].Items[1].Rows[0].Tinted)
}

func TestBuildLayout_Idempotent(t *testing.T) {
	var items []ItemSection
	for i := 1; i <= 30; i++ {
		items = append(items, layoutItem(fmt.Sprintf("I%d", i), 1+i%3))
	}
	sections := []CategorySection{
		layoutCategory("A", layoutClass("X", items[:10]...), layoutClass("Y", items[10:20]...)),
		layoutCategory("B", layoutClass("Z", items[20:]...)),
	}

	first := BuildLayout(sections, testLayoutOptions())
	second := BuildLayout(sections, testLayoutOptions())
	assert.Equal(t, first, second)
}

func TestBuildLayout_PageBreakCarriesEndingPage(t *testing.T) {
	var items []ItemSection
	for i := 1; i <= 12; i++ {
		items = append(items, layoutItem(fmt.Sprintf("I%d", i), 4))
	}
	blocks := BuildLayout([]CategorySection{layoutCategory("A", layoutClass("X", items...))}, testLayoutOptions())

	page := 1
	for _, b := range blocks {
		if b.Kind == BlockPageBreak {
			assert.Equal(t, page, b.Page)
			page++
			continue
		}
		assert.Equal(t, page, b.Page)
	}
	assert.Equal(t, PageCount(blocks), page)
}

func TestBuildLayout_FinalState(t *testing.T) {
	_, state := layout([]CategorySection{layoutCategory("A", layoutClass("X", layoutItem("X1", 1)))}, testLayoutOptions())
	assert.Equal(t, PhaseDone, state.Phase)
	assert.Equal(t, 1, state.Page)
	assert.InDelta(t, 30.0, state.Used, 1e-9)
}

func TestBuildLayout_Empty(t *testing.T) {
	blocks := BuildLayout(nil, LayoutOptions{})
	assert.Empty(t, blocks)
	assert.Equal(t, 1, PageCount(blocks))
}

func TestLayoutOptions_WithDefaults(t *testing.T) {
	got := LayoutOptions{PageHeight: 150, CategoryGap: -1}.WithDefaults()
	want := DefaultLayoutOptions()
	want.PageHeight = 150
	assert.Equal(t, want, got)

	zeroGap := LayoutOptions{}.WithDefaults()
	assert.Zero(t, zeroGap.CategoryGap, "a zero gap is kept")
}
