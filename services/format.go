package services

import (
	"database/sql"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Unit is a normalized physical unit used for per-unit pricing.
type Unit string

const (
	UnitLitre    Unit = "L"
	UnitKilogram Unit = "KG"
	UnitCount    Unit = "unité"
)

// NormalizedFormat is the parsed form of an item's package format.
type NormalizedFormat struct {
	Quantity       sql.NullFloat64
	RawUnit        string
	NormalizedUnit Unit
}

var (
	formatPattern = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(\p{L}+)$`)
	upper         = cases.Upper(language.Und)
)

// ParseFormat parses a package format such as "500ML" or "1 AERO". ML and G
// are converted to L and KG; L and KG keep their quantity. Any other unit
// counts as a single "unité" whatever number precedes it, so "6 AERO" is one
// unit for per-unit pricing. It never fails.
func ParseFormat(format string) NormalizedFormat {
	format = strings.TrimSpace(format)
	if format == "" {
		return NormalizedFormat{RawUnit: string(UnitCount), NormalizedUnit: UnitCount}
	}

	m := formatPattern.FindStringSubmatch(format)
	if m == nil {
		return NormalizedFormat{Quantity: valid(1), RawUnit: format, NormalizedUnit: UnitCount}
	}

	qty, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return NormalizedFormat{Quantity: valid(1), RawUnit: format, NormalizedUnit: UnitCount}
	}
	unit := upper.String(m[2])

	switch unit {
	case "ML":
		return NormalizedFormat{Quantity: valid(qty / 1000), RawUnit: unit, NormalizedUnit: UnitLitre}
	case "G":
		return NormalizedFormat{Quantity: valid(qty / 1000), RawUnit: unit, NormalizedUnit: UnitKilogram}
	case "L":
		return NormalizedFormat{Quantity: valid(qty), RawUnit: unit, NormalizedUnit: UnitLitre}
	case "KG":
		return NormalizedFormat{Quantity: valid(qty), RawUnit: unit, NormalizedUnit: UnitKilogram}
	}
	return NormalizedFormat{Quantity: valid(1), RawUnit: unit, NormalizedUnit: UnitCount}
}

func valid(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

// Locale selects one of the two supported display conventions.
type Locale string

const (
	LocaleFR Locale = "fr"
	LocaleEN Locale = "en"
)

// Placeholder is shown for every value that cannot be computed.
const Placeholder = "—"

// ParseLocale maps a language tag to a supported locale, defaulting to French.
func ParseLocale(s string) Locale {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "en") {
		return LocaleEN
	}
	return LocaleFR
}

var canadianEnglish = language.MustParse("en-CA")

func (l Locale) printer() *message.Printer {
	if l == LocaleEN {
		return message.NewPrinter(canadianEnglish)
	}
	return message.NewPrinter(language.CanadianFrench)
}

// FormatMoney formats an amount with two decimals in the locale's currency
// convention: "12,50 $" in French, "$12.50" in English.
func FormatMoney(amount sql.NullFloat64, loc Locale) string {
	if !amount.Valid || math.IsNaN(amount.Float64) || math.IsInf(amount.Float64, 0) {
		return Placeholder
	}
	// Sign is taken after rounding so -0.001 prints as zero.
	v := math.Round(amount.Float64*100) / 100
	negative := v < 0
	if negative {
		v = -v
	}

	digits := loc.printer().Sprintf("%.2f", v)
	var result string
	if loc == LocaleEN {
		result = "$" + digits
	} else {
		result = digits + " $"
	}
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPercent formats a percentage with one decimal: "12,5 %" or "12.5%".
func FormatPercent(p sql.NullFloat64, loc Locale) string {
	if !p.Valid || math.IsNaN(p.Float64) || math.IsInf(p.Float64, 0) {
		return Placeholder
	}
	v := math.Round(p.Float64*10) / 10
	if v == 0 {
		v = 0 // drop negative zero
	}
	digits := loc.printer().Sprintf("%.1f", v)
	if loc == LocaleEN {
		return digits + "%"
	}
	return digits + " %"
}

// formatQty returns a string representation of the quantity value.
// Whole numbers are formatted without decimals; fractional values get 2 decimal places.
func formatQty(qty float64, loc Locale) string {
	if qty == math.Trunc(qty) {
		return loc.printer().Sprintf("%.0f", qty)
	}
	return loc.printer().Sprintf("%.2f", qty)
}

// formatQtyRange renders a quantity break as "1-11", or "12+" when open-ended.
func formatQtyRange(qtyMin float64, qtyMax sql.NullFloat64, loc Locale) string {
	if !qtyMax.Valid {
		return formatQty(qtyMin, loc) + "+"
	}
	return formatQty(qtyMin, loc) + "-" + formatQty(qtyMax.Float64, loc)
}
