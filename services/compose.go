package services

import (
	"database/sql"

	"pricecatalog/catalog"
)

// ComposeOptions are the external inputs that shape a price-list document.
type ComposeOptions struct {
	// SelectedColumn is the price list the metrics are computed on. When
	// empty, each class uses its first standard column.
	SelectedColumn catalog.PriceColumnCode
	Details        bool
	Locale         Locale
	Layout         LayoutOptions
}

func (o ComposeOptions) policy() DisplayPolicy {
	return DisplayPolicy{SelectedColumn: o.SelectedColumn, Details: o.Details}
}

// ComposeDocument runs the whole pipeline: grouping, column resolution,
// metrics and pagination. Identical input always yields the same blocks.
func ComposeDocument(cat catalog.Catalogue, opts ComposeOptions) []RowBlock {
	return BuildLayout(BuildSections(cat, opts), opts.Layout)
}

// BuildSections resolves every class into display-ready rows, in grouping
// order.
func BuildSections(cat catalog.Catalogue, opts ComposeOptions) []CategorySection {
	groups := GroupItems(cat.Items)
	sections := make([]CategorySection, 0, len(groups))
	for _, g := range groups {
		section := CategorySection{Name: g.Name}
		for _, cls := range g.Classes {
			section.Classes = append(section.Classes, buildClassSection(cls, cat, opts))
		}
		sections = append(sections, section)
	}
	return sections
}

type tableLabels struct {
	code, description, format, caisse, qty string
	perCase, margin, unitPrefix            string
	units                                  map[Unit]string
}

var labelsByLocale = map[Locale]tableLabels{
	LocaleFR: {
		code: "Code", description: "Description", format: "Format", caisse: "Caisse", qty: "Qté",
		perCase: "$/caisse", margin: "Marge", unitPrefix: "$/",
		units: map[Unit]string{UnitLitre: "L", UnitKilogram: "KG", UnitCount: "unité"},
	},
	LocaleEN: {
		code: "Code", description: "Description", format: "Size", caisse: "Case", qty: "Qty",
		perCase: "$/case", margin: "Margin", unitPrefix: "$/",
		units: map[Unit]string{UnitLitre: "L", UnitKilogram: "KG", UnitCount: "unit"},
	},
}

func labelsFor(loc Locale) tableLabels {
	if l, ok := labelsByLocale[loc]; ok {
		return l
	}
	return labelsByLocale[LocaleFR]
}

// classLayout is the resolved column plan of one class.
type classLayout struct {
	set      ColumnSet
	selected catalog.PriceColumnCode
	unit     Unit
	columns  []ColumnSpec
}

func planClass(cls GroupedClass, cat catalog.Catalogue, opts ComposeOptions) classLayout {
	set := ResolveColumns(ReferenceColumns(cls.Items, cat), opts.policy())
	selected := opts.SelectedColumn
	if selected == "" && len(set.Standard) > 0 {
		selected = set.Standard[0]
	}
	unit := CommonUnit(cls.Items)
	lb := labelsFor(opts.Locale)

	columns := []ColumnSpec{
		{Label: lb.code, Kind: CellText, Weight: 3},
		{Label: lb.description, Kind: CellText, Weight: 8},
		{Label: lb.format, Kind: CellText, Weight: 2},
		{Label: lb.caisse, Kind: CellQuantity, Weight: 2},
		{Label: lb.qty, Kind: CellQuantity, Weight: 2},
	}
	for _, code := range set.Standard {
		columns = append(columns, ColumnSpec{Label: AbbreviateColumnName(code), Kind: CellMoney, Weight: 3})
	}
	columns = append(columns,
		ColumnSpec{Label: lb.unitPrefix + lb.units[unit], Kind: CellMoney, Weight: 3},
		ColumnSpec{Label: lb.perCase, Kind: CellMoney, Weight: 3},
	)
	if set.Cost != "" {
		columns = append(columns,
			ColumnSpec{Label: lb.margin, Kind: CellPercent, Weight: 2},
			ColumnSpec{Label: AbbreviateColumnName(set.Cost), Kind: CellMoney, Weight: 3},
		)
	}
	if set.Weight != "" {
		columns = append(columns, ColumnSpec{Label: AbbreviateColumnName(set.Weight), Kind: CellMoney, Weight: 3})
	}

	return classLayout{set: set, selected: selected, unit: unit, columns: columns}
}

func buildClassSection(cls GroupedClass, cat catalog.Catalogue, opts ComposeOptions) ClassSection {
	plan := planClass(cls, cat, opts)
	section := ClassSection{Name: cls.Name, Title: cls.Name, Columns: plan.columns}
	for _, it := range cls.Items {
		section.Items = append(section.Items, ItemSection{
			ID:   it.ID,
			Code: it.Code,
			Rows: buildItemRows(it, cat.RangesFor(it.ID), plan, opts.Locale),
		})
	}
	return section
}

func buildItemRows(it catalog.Item, ranges []catalog.PriceRange, plan classLayout, loc Locale) []TableRow {
	rows := make([]TableRow, 0, len(ranges))
	for i, r := range ranges {
		cells := make([]Cell, 0, len(plan.columns))
		if i == 0 {
			format := it.Format
			if format == "" {
				format = Placeholder
			}
			caisse := Placeholder
			if it.Caisse.Valid {
				caisse = formatQty(it.Caisse.Float64, loc)
			}
			cells = append(cells,
				Cell{Text: it.Code},
				Cell{Text: it.Description},
				Cell{Text: format},
				Cell{Text: caisse, Value: it.Caisse, Kind: CellQuantity},
			)
		} else {
			cells = append(cells, Cell{}, Cell{}, Cell{}, Cell{Kind: CellQuantity})
		}
		cells = append(cells, Cell{Text: formatQtyRange(r.QtyMin, r.QtyMax, loc), Kind: CellQuantity})

		for _, code := range plan.set.Standard {
			cells = append(cells, moneyCell(r.Price(code), loc))
		}

		sell := r.Price(plan.selected)
		cells = append(cells,
			moneyCell(PricePerUnit(sell, it.Format), loc),
			moneyCell(PricePerCase(sell, it.Caisse), loc),
		)
		if plan.set.Cost != "" {
			margin := MarginPercent(sell, CostOf(r))
			cells = append(cells,
				Cell{Text: FormatPercent(margin, loc), Value: margin, Kind: CellPercent, Flagged: margin.Valid && margin.Float64 < 0},
				moneyCell(r.Price(plan.set.Cost), loc),
			)
		}
		if plan.set.Weight != "" {
			cells = append(cells, moneyCell(r.Price(plan.set.Weight), loc))
		}
		rows = append(rows, TableRow{Cells: cells})
	}
	return rows
}

func moneyCell(v sql.NullFloat64, loc Locale) Cell {
	return Cell{Text: FormatMoney(v, loc), Value: v, Kind: CellMoney}
}

// ClassColumns summarises the resolved columns of one class.
type ClassColumns struct {
	Category   string
	Class      string
	Reference  []catalog.PriceColumnCode
	Display    []catalog.PriceColumnCode
	Selected   catalog.PriceColumnCode
	CommonUnit Unit
}

// DescribeColumns reports the column resolution of every class, in grouping
// order.
func DescribeColumns(cat catalog.Catalogue, opts ComposeOptions) []ClassColumns {
	var out []ClassColumns
	for _, g := range GroupItems(cat.Items) {
		for _, cls := range g.Classes {
			plan := planClass(cls, cat, opts)
			out = append(out, ClassColumns{
				Category:   g.Name,
				Class:      cls.Name,
				Reference:  plan.set.Ordered,
				Display:    plan.set.Display(),
				Selected:   plan.selected,
				CommonUnit: plan.unit,
			})
		}
	}
	return out
}
