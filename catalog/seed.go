package catalog

import "database/sql"

// ── Definition structs ───────────────────────────────────────────────────

type breakDef struct {
	qtyMin float64
	qtyMax float64 // 0 = and above
	prices map[PriceColumnCode]float64
}

type itemDef struct {
	id          string
	code        string
	description string
	format      string
	caisse      float64 // 0 = unknown
	category    string
	class       string
	breaks      []breakDef
}

// demoPrices derives a full column set from the exposition cost.
func demoPrices(cost float64) map[PriceColumnCode]float64 {
	return map[PriceColumnCode]float64{
		ColumnExp:     cost,
		ColumnDet:     round2(cost * 1.65),
		ColumnInd:     round2(cost * 1.45),
		ColumnGrosExp: round2(cost * 1.18),
		ColumnGros:    round2(cost * 1.30),
		ColumnPds:     round2(cost * 1.22),
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func twoBreaks(cost float64) []breakDef {
	return []breakDef{
		{qtyMin: 1, qtyMax: 11, prices: demoPrices(cost)},
		{qtyMin: 12, prices: demoPrices(round2(cost * 0.94))},
	}
}

func threeBreaks(cost float64) []breakDef {
	return []breakDef{
		{qtyMin: 1, qtyMax: 5, prices: demoPrices(cost)},
		{qtyMin: 6, qtyMax: 23, prices: demoPrices(round2(cost * 0.95))},
		{qtyMin: 24, prices: demoPrices(round2(cost * 0.90))},
	}
}

var demoItems = []itemDef{
	{"ENT-001", "DG500", "Dégraissant industriel concentré", "500ML", 12, "Entretien", "Dégraissants", threeBreaks(4.10)},
	{"ENT-002", "DG1L", "Dégraissant industriel concentré", "1L", 12, "Entretien", "Dégraissants", threeBreaks(7.25)},
	{"ENT-003", "DG4L", "Dégraissant industriel concentré", "4L", 4, "Entretien", "Dégraissants", twoBreaks(24.80)},
	{"ENT-004", "DGX20", "Dégraissant pour friteuses", "20L", 0, "Entretien", "Dégraissants", twoBreaks(96.00)},
	{"ENT-010", "NV750", "Nettoyant vitres prêt à l'emploi", "750ML", 12, "Entretien", "Nettoyants", twoBreaks(3.35)},
	{"ENT-011", "NVA", "Nettoyant vitres en aérosol", "1 AERO", 12, "Entretien", "Nettoyants", twoBreaks(5.90)},
	{"ENT-012", "NM2K", "Nettoyant à plancher en poudre", "2KG", 6, "Entretien", "Nettoyants", threeBreaks(14.40)},
	{"ENT-013", "LING", "Lingettes désinfectantes", "", 0, "Entretien", "Nettoyants", twoBreaks(8.75)},
	{"HYG-001", "SM500", "Savon à mains moussant", "500ML", 12, "Hygiène", "Savons", threeBreaks(2.95)},
	{"HYG-002", "SM4L", "Savon à mains moussant, recharge", "4L", 4, "Hygiène", "Savons", twoBreaks(18.60)},
	{"HYG-003", "SP250", "Savon en poudre abrasif", "500G", 24, "Hygiène", "Savons", twoBreaks(3.10)},
	{"HYG-010", "DSF", "Désinfectant pour surfaces", "4L", 4, "Hygiène", "Désinfectants", threeBreaks(21.30)},
	{"HYG-011", "DSF1", "Désinfectant pour surfaces", "1L", 12, "Hygiène", "Désinfectants", twoBreaks(6.45)},
	{"HYG-012", "GELH", "Gel hydroalcoolique", "1,5L", 6, "Hygiène", "Désinfectants", twoBreaks(11.90)},
}

// DemoCatalogue returns a fixed catalogue covering every known column code,
// mixed package formats, a missing format and missing case counts.
func DemoCatalogue() Catalogue {
	cache := NewItemCache()
	ranges := make(map[ItemID][]PriceRange, len(demoItems))

	for _, d := range demoItems {
		item := Item{
			ID:          ItemID(d.id),
			Code:        d.code,
			Description: d.description,
			Format:      d.format,
			Category:    d.category,
			Class:       d.class,
		}
		if d.caisse > 0 {
			item.Caisse = sql.NullFloat64{Float64: d.caisse, Valid: true}
		}
		cache.Add([]Item{item})

		for _, b := range d.breaks {
			pr := PriceRange{QtyMin: b.qtyMin, Columns: make(map[PriceColumnCode]sql.NullFloat64, len(b.prices))}
			if b.qtyMax > 0 {
				pr.QtyMax = sql.NullFloat64{Float64: b.qtyMax, Valid: true}
			}
			for code, p := range b.prices {
				pr.Columns[code] = Price(p)
			}
			ranges[item.ID] = append(ranges[item.ID], pr)
		}
	}

	return Catalogue{Items: cache.Items(), Ranges: ranges}
}
