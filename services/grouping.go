package services

import (
	"strings"

	"pricecatalog/catalog"
)

const (
	DefaultCategoryName = "Sans catégorie"
	DefaultClassName    = "Sans classe"
)

// GroupedClass is one class of a category with its items in arrival order.
type GroupedClass struct {
	Name       string
	Items      []catalog.Item
	AllItemIDs []catalog.ItemID
}

// GroupedCategory is one category with its classes in first-seen order.
type GroupedCategory struct {
	Name       string
	Classes    []GroupedClass
	AllItemIDs []catalog.ItemID
}

// GroupItems builds the Category → Class → Item hierarchy in a single pass.
// Categories and classes keep first-seen order and items keep arrival order;
// nothing is sorted.
func GroupItems(items []catalog.Item) []GroupedCategory {
	var categories []GroupedCategory
	catIndex := make(map[string]int)
	classIndex := make(map[string]map[string]int)

	for _, it := range items {
		catName := strings.TrimSpace(it.Category)
		if catName == "" {
			catName = DefaultCategoryName
		}
		className := strings.TrimSpace(it.Class)
		if className == "" {
			className = DefaultClassName
		}

		ci, ok := catIndex[catName]
		if !ok {
			ci = len(categories)
			catIndex[catName] = ci
			classIndex[catName] = make(map[string]int)
			categories = append(categories, GroupedCategory{Name: catName})
		}
		cat := &categories[ci]

		ki, ok := classIndex[catName][className]
		if !ok {
			ki = len(cat.Classes)
			classIndex[catName][className] = ki
			cat.Classes = append(cat.Classes, GroupedClass{Name: className})
		}
		cat.Classes[ki].Items = append(cat.Classes[ki].Items, it)
	}

	for ci := range categories {
		cat := &categories[ci]
		for ki := range cat.Classes {
			cls := &cat.Classes[ki]
			cls.AllItemIDs = make([]catalog.ItemID, len(cls.Items))
			for i, it := range cls.Items {
				cls.AllItemIDs[i] = it.ID
			}
			cat.AllItemIDs = append(cat.AllItemIDs, cls.AllItemIDs...)
		}
	}
	return categories
}
