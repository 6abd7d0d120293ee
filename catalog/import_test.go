package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV_Valid(t *testing.T) {
	input := "Item Code,Qty Min,05-GROS\nA,1,4.50\nB,1,3\n"
	headers, rows, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseCSV() error = %v", err)
	}
	if len(headers) != 3 {
		t.Errorf("expected 3 headers, got %d", len(headers))
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 data rows, got %d", len(rows))
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	_, _, err := parseCSV(strings.NewReader("Item Code,Qty Min\n"))
	if err == nil {
		t.Fatal("expected error for header-only file")
	}
	if !strings.Contains(err.Error(), "at least one data row") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMapHeaders(t *testing.T) {
	t.Run("fields by label and key", func(t *testing.T) {
		m := mapHeaders([]string{"Item Code *", "qty_min", "  Description ", "CLASS"})
		want := []string{"item_code", "qty_min", "description", "class"}
		for i, w := range want {
			if m.fields[i] != w {
				t.Errorf("fields[%d] = %q, want %q", i, m.fields[i], w)
			}
			if m.columns[i] != "" {
				t.Errorf("columns[%d] = %q, want empty", i, m.columns[i])
			}
		}
	})

	t.Run("other headers are price columns", func(t *testing.T) {
		m := mapHeaders([]string{"Item Code", " 05-gros ", "", "08-PDS"})
		if m.columns[1] != ColumnGros {
			t.Errorf("columns[1] = %q, want %q", m.columns[1], ColumnGros)
		}
		if m.columns[2] != "" || m.fields[2] != "" {
			t.Errorf("blank header should be ignored, got %q/%q", m.fields[2], m.columns[2])
		}
		if m.columns[3] != ColumnPds {
			t.Errorf("columns[3] = %q, want %q", m.columns[3], ColumnPds)
		}
	})
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		valid bool
		err   bool
	}{
		{"4.50", 4.5, true, false},
		{"4,50", 4.5, true, false},
		{" 12 ", 12, true, false},
		{"3,25 $", 3.25, true, false},
		{"1 200", 1200, true, false},
		{"", 0, false, false},
		{"   ", 0, false, false},
		{"abc", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseNumber(tt.input)
			if (err != nil) != tt.err {
				t.Fatalf("parseNumber(%q) error = %v, wantErr %v", tt.input, err, tt.err)
			}
			if got.Valid != tt.valid || got.Float64 != tt.want {
				t.Errorf("parseNumber(%q) = %+v, want {%v %v}", tt.input, got, tt.want, tt.valid)
			}
		})
	}
}

const sampleCSV = `Item ID,Item Code,Description,Format,Caisse,Category,Class,Qty Min,Qty Max,05-GROS,01-EXP,02-DET
SAV-1,SM500,Savon moussant,500ML,12,Hygiène,Savons,1,11,"4,50",3.10,
SAV-1,SM500,Savon moussant,500ML,12,Hygiène,Savons,12,,"4,20",3.10,5
DG-1,DG1L,Dégraissant,1L,,Entretien,Dégraissants,1,,7.25,5.00,9.90
`

func TestParseCatalogueFile_CSV(t *testing.T) {
	cat, result, err := ParseCatalogueFile(strings.NewReader(sampleCSV), "prix.csv")
	if err != nil {
		t.Fatalf("ParseCatalogueFile() error = %v", err)
	}
	if result.TotalRows != 3 || result.ValidRows != 3 || result.ErrorRows != 0 {
		t.Errorf("result = %+v, want 3 total, 3 valid", result)
	}
	if len(cat.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(cat.Items))
	}
	if cat.Items[0].ID != "SAV-1" || cat.Items[1].ID != "DG-1" {
		t.Errorf("items out of file order: %v, %v", cat.Items[0].ID, cat.Items[1].ID)
	}

	sav := cat.Items[0]
	if !sav.Caisse.Valid || sav.Caisse.Float64 != 12 {
		t.Errorf("Caisse = %+v, want 12", sav.Caisse)
	}
	if cat.Items[1].Caisse.Valid {
		t.Errorf("blank Caisse should be null, got %+v", cat.Items[1].Caisse)
	}

	ranges := cat.RangesFor("SAV-1")
	if len(ranges) != 2 {
		t.Fatalf("expected 2 ranges for SAV-1, got %d", len(ranges))
	}
	if ranges[0].QtyMin != 1 || !ranges[0].QtyMax.Valid || ranges[0].QtyMax.Float64 != 11 {
		t.Errorf("first range = %+v", ranges[0])
	}
	if ranges[1].QtyMax.Valid {
		t.Errorf("open-ended range should have null QtyMax, got %+v", ranges[1].QtyMax)
	}
	if p := ranges[0].Price(ColumnGros); !p.Valid || p.Float64 != 4.5 {
		t.Errorf("05-GROS = %+v, want 4.5", p)
	}
	if p, ok := ranges[0].Columns[ColumnDet]; !ok || p.Valid {
		t.Errorf("blank 02-DET should be present and null, got %+v (present %v)", p, ok)
	}
	if cat.RangeCount() != 3 {
		t.Errorf("RangeCount() = %d, want 3", cat.RangeCount())
	}
}

func TestParseCatalogueFile_RowErrors(t *testing.T) {
	input := `Item Code,Qty Min,Qty Max,05-GROS
A,1,5,2.00
,1,,1.00
B,x,,1.00
C,1,,cher
D,10,2,1.00
A,3,,1.90
A,1,,1.80
`
	cat, result, err := ParseCatalogueFile(strings.NewReader(input), "PRIX.CSV")
	if err != nil {
		t.Fatalf("ParseCatalogueFile() error = %v", err)
	}

	wantRows := []int{3, 4, 5, 6, 7, 8}
	if len(result.Errors) != len(wantRows) {
		t.Fatalf("expected %d errors, got %d: %v", len(wantRows), len(result.Errors), result.Errors)
	}
	for i, row := range wantRows {
		if result.Errors[i].Row != row {
			t.Errorf("error %d on row %d, want %d (%s)", i, result.Errors[i].Row, row, result.Errors[i].Message)
		}
	}
	if result.Errors[0].Field != "Item Code" {
		t.Errorf("expected missing Item Code, got %q", result.Errors[0].Field)
	}
	if result.Errors[2].Field != "05-GROS" {
		t.Errorf("expected bad price on 05-GROS, got %q", result.Errors[2].Field)
	}
	if !strings.Contains(result.Errors[4].Message, "overlaps") {
		t.Errorf("row 7 should overlap, got %q", result.Errors[4].Message)
	}
	if !strings.Contains(result.Errors[5].Message, "duplicate") {
		t.Errorf("row 8 should be a duplicate break, got %q", result.Errors[5].Message)
	}
	if result.ErrorRows != 6 || result.ValidRows != 1 {
		t.Errorf("ErrorRows = %d, ValidRows = %d", result.ErrorRows, result.ValidRows)
	}

	if len(cat.Items) != 1 || cat.Items[0].ID != "A" {
		t.Fatalf("expected only item A, got %v", cat.Items)
	}
	if n := len(cat.RangesFor("A")); n != 1 {
		t.Errorf("expected 1 kept range for A, got %d", n)
	}
}

func TestParseCatalogueFile_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Item Code", "Category", "Class", "Qty Min", "05-GROS"},
		{"SM500", "Hygiène", "Savons", 1, 4.5},
		{"SM500", "Hygiène", "Savons", 12, 4.2},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("SetSheetRow() error = %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	f.Close()

	cat, result, err := ParseCatalogueFile(&buf, "prix.xlsx")
	if err != nil {
		t.Fatalf("ParseCatalogueFile() error = %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(cat.Items) != 1 || cat.Items[0].ID != "SM500" {
		t.Fatalf("items = %v, want SM500 keyed by its code", cat.Items)
	}
	ranges := cat.RangesFor("SM500")
	if len(ranges) != 2 || ranges[1].QtyMin != 12 {
		t.Fatalf("ranges = %+v", ranges)
	}
	if !ranges[0].QtyMax.Valid || ranges[0].QtyMax.Float64 != 11 {
		t.Errorf("first range should close below the next break, got %+v", ranges[0].QtyMax)
	}
	if ranges[1].QtyMax.Valid {
		t.Errorf("last range should stay open-ended, got %+v", ranges[1].QtyMax)
	}
}

func TestParseCatalogueFile_BlankQtyMaxClosesAtNextBreak(t *testing.T) {
	input := "item_code,qty_min,05-GROS\nA,24,8\nA,1,10\nA,12,9\nB,0.5,3\nB,2.5,2\n"

	cat, result, err := ParseCatalogueFile(strings.NewReader(input), "prix.csv")
	if err != nil {
		t.Fatalf("ParseCatalogueFile() error = %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	tests := []struct {
		id      ItemID
		wantMin []float64
		wantMax []float64 // 0 = open-ended
	}{
		{"A", []float64{1, 12, 24}, []float64{11, 23, 0}},
		{"B", []float64{0.5, 2.5}, []float64{1.5, 0}},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			ranges := cat.RangesFor(tt.id)
			if len(ranges) != len(tt.wantMin) {
				t.Fatalf("expected %d ranges, got %d", len(tt.wantMin), len(ranges))
			}
			for i, r := range ranges {
				if r.QtyMin != tt.wantMin[i] {
					t.Errorf("range %d QtyMin = %g, want %g", i, r.QtyMin, tt.wantMin[i])
				}
				if tt.wantMax[i] == 0 {
					if r.QtyMax.Valid {
						t.Errorf("range %d should be open-ended, got %g", i, r.QtyMax.Float64)
					}
					continue
				}
				if !r.QtyMax.Valid || r.QtyMax.Float64 != tt.wantMax[i] {
					t.Errorf("range %d QtyMax = %+v, want %g", i, r.QtyMax, tt.wantMax[i])
				}
			}
		})
	}
}

func TestParseCatalogueFile_ExplicitOverlapRejected(t *testing.T) {
	input := "item_code,qty_min,qty_max,05-GROS\nA,1,12,10\nA,12,,9\n"

	cat, result, err := ParseCatalogueFile(strings.NewReader(input), "prix.csv")
	if err != nil {
		t.Fatalf("ParseCatalogueFile() error = %v", err)
	}
	if len(result.Errors) != 1 || result.Errors[0].Row != 3 {
		t.Fatalf("expected one overlap on row 3, got %v", result.Errors)
	}
	if n := len(cat.RangesFor("A")); n != 1 {
		t.Errorf("expected 1 kept range, got %d", n)
	}
}

func TestParseCatalogueFile_UnsupportedFormat(t *testing.T) {
	_, _, err := ParseCatalogueFile(strings.NewReader("x"), "prix.ods")
	if err == nil {
		t.Fatal("expected error for .ods")
	}
	if !strings.Contains(err.Error(), "unsupported file format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGenerateErrorReport_WithErrors(t *testing.T) {
	errs := []ValidationError{
		{Row: 2, Field: "Item Code", Message: "Item Code is required"},
		{Row: 4, Field: "05-GROS", Message: `05-GROS must be a number, got "cher"`},
	}

	result, err := GenerateErrorReport(errs)
	if err != nil {
		t.Fatalf("GenerateErrorReport() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	if sheet != "Errors" {
		t.Errorf("expected sheet name 'Errors', got %q", sheet)
	}
	a1, _ := f.GetCellValue(sheet, "A1")
	c1, _ := f.GetCellValue(sheet, "C1")
	if a1 != "Row #" || c1 != "Error" {
		t.Errorf("unexpected headers: %q, %q", a1, c1)
	}
	a3, _ := f.GetCellValue(sheet, "A3")
	b3, _ := f.GetCellValue(sheet, "B3")
	if a3 != "4" || b3 != "05-GROS" {
		t.Errorf("unexpected second error row: %q, %q", a3, b3)
	}
}

func TestClosingQty(t *testing.T) {
	tests := []struct {
		from, next, want float64
	}{
		{1, 12, 11},
		{12, 24, 23},
		{0.5, 2.5, 1.5},
		{1, 1.5, 1},
	}
	for _, tt := range tests {
		if got := closingQty(tt.from, tt.next); got != tt.want {
			t.Errorf("closingQty(%g, %g) = %g, want %g", tt.from, tt.next, got, tt.want)
		}
	}
}
