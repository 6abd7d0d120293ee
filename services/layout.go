package services

// LayoutOptions are the page budget and block heights, in millimetres.
type LayoutOptions struct {
	PageHeight           float64 `yaml:"page_height"`
	CategoryBannerHeight float64 `yaml:"category_banner_height"`
	ClassBannerHeight    float64 `yaml:"class_banner_height"`
	HeaderHeight         float64 `yaml:"header_height"`
	RowHeight            float64 `yaml:"row_height"`
	CategoryGap          float64 `yaml:"category_gap"`
}

// DefaultLayoutOptions fits an A4 portrait page with the PDF backend's
// header and footer.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		PageHeight:           230,
		CategoryBannerHeight: 9,
		ClassBannerHeight:    8,
		HeaderHeight:         7,
		RowHeight:            6,
		CategoryGap:          4,
	}
}

// WithDefaults fills zero fields from DefaultLayoutOptions.
func (o LayoutOptions) WithDefaults() LayoutOptions {
	d := DefaultLayoutOptions()
	if o.PageHeight <= 0 {
		o.PageHeight = d.PageHeight
	}
	if o.CategoryBannerHeight <= 0 {
		o.CategoryBannerHeight = d.CategoryBannerHeight
	}
	if o.ClassBannerHeight <= 0 {
		o.ClassBannerHeight = d.ClassBannerHeight
	}
	if o.HeaderHeight <= 0 {
		o.HeaderHeight = d.HeaderHeight
	}
	if o.RowHeight <= 0 {
		o.RowHeight = d.RowHeight
	}
	if o.CategoryGap < 0 {
		o.CategoryGap = d.CategoryGap
	}
	return o
}

// LayoutPhase is where the builder stands in the hierarchy walk.
type LayoutPhase int

const (
	PhaseAwaitingCategory LayoutPhase = iota
	PhaseInCategory
	PhaseAwaitingClass
	PhaseInClass
	PhaseRenderingItem
	PhasePageBreak
	PhaseDone
)

// LayoutState is the pagination accumulator threaded through every step.
type LayoutState struct {
	Phase LayoutPhase
	Page  int
	Used  float64

	ClassBannerDrawn      bool
	HeaderShownThisPage   bool
	CategoryBannerPending bool
	GapPending            bool
}

// BuildLayout lays the sections out into pages. An item's rows are never
// split; category and class banners are only emitted together with the first
// item that follows them; the class header is repeated on every page the
// class continues on. Classes and items without rows produce nothing.
func BuildLayout(sections []CategorySection, opts LayoutOptions) []RowBlock {
	blocks, _ := layout(sections, opts)
	return blocks
}

func layout(sections []CategorySection, opts LayoutOptions) ([]RowBlock, LayoutState) {
	opts = opts.WithDefaults()
	state := LayoutState{Phase: PhaseAwaitingCategory, Page: 1}
	var blocks []RowBlock

	for _, cat := range sections {
		if !categoryHasRows(cat) {
			continue
		}
		state = state.enterCategory()

		for _, cls := range cat.Classes {
			if !classHasRows(cls) {
				continue
			}
			state = state.enterClass()

			rendered := 0
			for _, item := range cls.Items {
				if len(item.Rows) == 0 {
					continue
				}
				var out []RowBlock
				state, out = state.placeItem(cat.Name, cls, stripe(item, rendered), opts)
				blocks = append(blocks, out...)
				rendered++
			}
			state.Phase = PhaseAwaitingClass
		}
		state.GapPending = true
		state.Phase = PhaseAwaitingCategory
	}

	state.Phase = PhaseDone
	return blocks, state
}

func categoryHasRows(cat CategorySection) bool {
	for _, cls := range cat.Classes {
		if classHasRows(cls) {
			return true
		}
	}
	return false
}

func classHasRows(cls ClassSection) bool {
	for _, item := range cls.Items {
		if len(item.Rows) > 0 {
			return true
		}
	}
	return false
}

// stripe returns a copy of the item with tint and separator flags set. Tint
// alternates by the item's position within its class.
func stripe(item ItemSection, index int) ItemSection {
	rows := make([]TableRow, len(item.Rows))
	copy(rows, item.Rows)
	for i := range rows {
		rows[i].Tinted = index%2 == 1
		rows[i].Separator = i == len(rows)-1
	}
	item.Rows = rows
	return item
}

func (s LayoutState) enterCategory() LayoutState {
	s.Phase = PhaseInCategory
	s.CategoryBannerPending = true
	return s
}

func (s LayoutState) enterClass() LayoutState {
	s.Phase = PhaseInClass
	s.ClassBannerDrawn = false
	s.HeaderShownThisPage = false
	return s
}

// need is the height the item takes on the current page, including every
// banner and header that must travel with it.
func (s LayoutState) need(item ItemSection, opts LayoutOptions) float64 {
	h := float64(len(item.Rows)) * opts.RowHeight
	if !s.HeaderShownThisPage {
		h += opts.HeaderHeight
	}
	if !s.ClassBannerDrawn {
		h += opts.ClassBannerHeight
	}
	if s.CategoryBannerPending {
		h += opts.CategoryBannerHeight
	}
	if s.GapPending && s.Used > 0 {
		h += opts.CategoryGap
	}
	return h
}

// breakPage closes the current page. The header is re-enabled and a pending
// category gap is dropped, since a page top needs no spacing.
func (s LayoutState) breakPage() (LayoutState, RowBlock) {
	br := RowBlock{Kind: BlockPageBreak, Page: s.Page}
	s.Phase = PhasePageBreak
	s.Page++
	s.Used = 0
	s.HeaderShownThisPage = false
	s.GapPending = false
	return s, br
}

func (s LayoutState) placeItem(category string, cls ClassSection, item ItemSection, opts LayoutOptions) (LayoutState, []RowBlock) {
	var out []RowBlock

	if s.Used > 0 && s.Used+s.need(item, opts) > opts.PageHeight {
		var br RowBlock
		s, br = s.breakPage()
		out = append(out, br)
	}
	oversized := s.need(item, opts) > opts.PageHeight
	s.Phase = PhaseRenderingItem

	emit := func(b RowBlock) {
		b.Page = s.Page
		b.Category = category
		if b.Kind != BlockCategoryBanner && b.Kind != BlockSpacer {
			b.Class = cls.Name
		}
		s.Used += b.Height
		out = append(out, b)
	}

	if s.GapPending && s.Used > 0 {
		emit(RowBlock{Kind: BlockSpacer, Height: opts.CategoryGap})
	}
	s.GapPending = false

	if s.CategoryBannerPending {
		emit(RowBlock{Kind: BlockCategoryBanner, Height: opts.CategoryBannerHeight, Text: category})
		s.CategoryBannerPending = false
	}

	continued := s.ClassBannerDrawn
	if !s.ClassBannerDrawn {
		emit(RowBlock{Kind: BlockClassBanner, Height: opts.ClassBannerHeight, Text: cls.Title})
		s.ClassBannerDrawn = true
	}

	if !s.HeaderShownThisPage {
		emit(RowBlock{Kind: BlockHeaderRow, Height: opts.HeaderHeight, Columns: cls.Columns, Continued: continued})
		s.HeaderShownThisPage = true
	}

	emit(RowBlock{
		Kind:      BlockItemRows,
		Height:    float64(len(item.Rows)) * opts.RowHeight,
		Columns:   cls.Columns,
		Rows:      item.Rows,
		ItemID:    item.ID,
		Oversized: oversized,
	})

	return s, out
}

// PageCount returns the number of pages a block stream spans.
func PageCount(blocks []RowBlock) int {
	if len(blocks) == 0 {
		return 1
	}
	return blocks[len(blocks)-1].Page
}
