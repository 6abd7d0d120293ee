package services

import (
	"database/sql"
	"math"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantQty  sql.NullFloat64
		wantRaw  string
		wantUnit Unit
	}{
		{"millilitres", "500ML", valid(0.5), "ML", UnitLitre},
		{"litres", "1L", valid(1), "L", UnitLitre},
		{"four litres", "4L", valid(4), "L", UnitLitre},
		{"kilograms", "2KG", valid(2), "KG", UnitKilogram},
		{"grams", "500G", valid(0.5), "G", UnitKilogram},
		{"lower case", "750ml", valid(0.75), "ML", UnitLitre},
		{"comma decimal", "1,5L", valid(1.5), "L", UnitLitre},
		{"space before unit", "20 L", valid(20), "L", UnitLitre},
		{"aerosol counts as one", "1 AERO", valid(1), "AERO", UnitCount},
		{"unknown unit ignores number", "6 AERO", valid(1), "AERO", UnitCount},
		{"empty", "", sql.NullFloat64{}, "unité", UnitCount},
		{"blank", "   ", sql.NullFloat64{}, "unité", UnitCount},
		{"no match keeps input", "BOITE", valid(1), "BOITE", UnitCount},
		{"number only", "12", valid(1), "12", UnitCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFormat(tt.input)
			if got.Quantity.Valid != tt.wantQty.Valid || math.Abs(got.Quantity.Float64-tt.wantQty.Float64) > 1e-9 {
				t.Errorf("ParseFormat(%q).Quantity = %+v, want %+v", tt.input, got.Quantity, tt.wantQty)
			}
			if got.RawUnit != tt.wantRaw {
				t.Errorf("ParseFormat(%q).RawUnit = %q, want %q", tt.input, got.RawUnit, tt.wantRaw)
			}
			if got.NormalizedUnit != tt.wantUnit {
				t.Errorf("ParseFormat(%q).NormalizedUnit = %q, want %q", tt.input, got.NormalizedUnit, tt.wantUnit)
			}
		})
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name   string
		amount sql.NullFloat64
		loc    Locale
		expect string
	}{
		{"french", valid(12.5), LocaleFR, "12,50 $"},
		{"english", valid(12.5), LocaleEN, "$12.50"},
		{"french zero", valid(0), LocaleFR, "0,00 $"},
		{"french negative", valid(-3.2), LocaleFR, "-3,20 $"},
		{"english negative", valid(-3.2), LocaleEN, "-$3.20"},
		{"french rounds to zero from below", valid(-0.001), LocaleFR, "0,00 $"},
		{"english rounds to zero from below", valid(-0.004), LocaleEN, "$0.00"},
		{"null", sql.NullFloat64{}, LocaleFR, Placeholder},
		{"NaN", valid(math.NaN()), LocaleEN, Placeholder},
		{"infinite", valid(math.Inf(1)), LocaleFR, Placeholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatMoney(tt.amount, tt.loc)
			if got != tt.expect {
				t.Errorf("FormatMoney(%v, %s) = %q, want %q", tt.amount, tt.loc, got, tt.expect)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		name   string
		p      sql.NullFloat64
		loc    Locale
		expect string
	}{
		{"french", valid(12.5), LocaleFR, "12,5 %"},
		{"english", valid(12.5), LocaleEN, "12.5%"},
		{"negative", valid(-20), LocaleEN, "-20.0%"},
		{"rounds to zero from below", valid(-0.04), LocaleFR, "0,0 %"},
		{"null", sql.NullFloat64{}, LocaleEN, Placeholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatPercent(tt.p, tt.loc)
			if got != tt.expect {
				t.Errorf("FormatPercent(%v, %s) = %q, want %q", tt.p, tt.loc, got, tt.expect)
			}
		})
	}
}

func TestFormatQtyRange(t *testing.T) {
	tests := []struct {
		name   string
		min    float64
		max    sql.NullFloat64
		expect string
	}{
		{"bounded", 1, valid(11), "1-11"},
		{"open ended", 12, sql.NullFloat64{}, "12+"},
		{"single quantity", 6, valid(6), "6-6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatQtyRange(tt.min, tt.max, LocaleFR)
			if got != tt.expect {
				t.Errorf("formatQtyRange(%v, %v) = %q, want %q", tt.min, tt.max, got, tt.expect)
			}
		})
	}
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		input  string
		expect Locale
	}{
		{"fr", LocaleFR},
		{"fr-CA", LocaleFR},
		{"en", LocaleEN},
		{"EN-ca", LocaleEN},
		{"", LocaleFR},
		{"de", LocaleFR},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLocale(tt.input); got != tt.expect {
				t.Errorf("ParseLocale(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}
