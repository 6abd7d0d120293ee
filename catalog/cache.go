package catalog

// ItemCache is the working set of items a price list is composed from. It
// keeps items in arrival order and never holds the same identity twice.
type ItemCache struct {
	items []Item
	index map[ItemID]int
}

// NewItemCache returns an empty cache, optionally seeded with items.
func NewItemCache(items ...Item) *ItemCache {
	c := &ItemCache{index: make(map[ItemID]int)}
	c.Add(items)
	return c
}

// Add merges a batch into the cache. Identities already cached, or repeated
// within the batch, are dropped; the first occurrence wins. It returns the
// number of items actually added.
func (c *ItemCache) Add(batch []Item) int {
	if c.index == nil {
		c.index = make(map[ItemID]int)
	}
	added := 0
	for _, it := range batch {
		if _, ok := c.index[it.ID]; ok {
			continue
		}
		c.index[it.ID] = len(c.items)
		c.items = append(c.items, it)
		added++
	}
	return added
}

// Get returns the cached item with the given identity.
func (c *ItemCache) Get(id ItemID) (Item, bool) {
	i, ok := c.index[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Len returns the number of cached items.
func (c *ItemCache) Len() int { return len(c.items) }

// Items returns a copy of the cached items in arrival order.
func (c *ItemCache) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}
