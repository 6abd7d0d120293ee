package catalog

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is returned after parsing and validating a price-list file.
type ValidationResult struct {
	TotalRows int               `json:"total_rows"`
	ValidRows int               `json:"valid_rows"`
	ErrorRows int               `json:"error_rows"`
	Errors    []ValidationError `json:"errors"`
	FileName  string            `json:"-"`
}

// importField is a fixed (non price-column) header of the import file.
type importField struct {
	Key      string
	Label    string
	Required bool
}

var importFields = []importField{
	{Key: "item_id", Label: "Item ID"},
	{Key: "item_code", Label: "Item Code", Required: true},
	{Key: "description", Label: "Description"},
	{Key: "format", Label: "Format"},
	{Key: "caisse", Label: "Caisse"},
	{Key: "category", Label: "Category"},
	{Key: "class", Label: "Class"},
	{Key: "qty_min", Label: "Qty Min", Required: true},
	{Key: "qty_max", Label: "Qty Max"},
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return rows[0], rows[1:], nil
}

// headerMapping says what each uploaded column holds: a fixed field key or a
// price column code. Exactly one of the two is set for a used column.
type headerMapping struct {
	fields  []string
	columns []PriceColumnCode
}

// mapHeaders maps uploaded column headers to field keys or price column codes.
// Fixed fields match on key or label, case-insensitively; any other non-empty
// header is taken as a price column code.
func mapHeaders(headers []string) headerMapping {
	lookup := make(map[string]string, len(importFields)*2)
	for _, f := range importFields {
		lookup[f.Key] = f.Key
		lookup[strings.ToLower(f.Label)] = f.Key
	}

	m := headerMapping{
		fields:  make([]string, len(headers)),
		columns: make([]PriceColumnCode, len(headers)),
	}
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		if norm == "" {
			continue
		}
		if key, ok := lookup[norm]; ok {
			m.fields[i] = key
			continue
		}
		m.columns[i] = ParseColumnCode(h)
	}
	return m
}

// parseNumber converts a cell to a nullable number. Blank cells are null; the
// decimal separator may be '.' or ','.
func parseNumber(s string) (sql.NullFloat64, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("$", "", " ", "", "\u00a0", "", "\u202f", "").Replace(s)
	if s == "" {
		return sql.NullFloat64{}, nil
	}
	v, err := cast.ToFloat64E(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return sql.NullFloat64{}, err
	}
	return sql.NullFloat64{Float64: v, Valid: true}, nil
}

// sourcedRange remembers the file row a range came from, for error reporting.
type sourcedRange struct {
	row   int
	price PriceRange
}

// ParseCatalogueFile parses a CSV or XLSX price-list file with one row per
// price range. Rows with errors are skipped and reported in the result; an
// error is returned only when the file cannot be read at all.
func ParseCatalogueFile(file io.Reader, fileName string) (*Catalogue, *ValidationResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, nil, err
	}

	mapping := mapHeaders(headers)
	result := &ValidationResult{TotalRows: len(dataRows), FileName: fileName}
	cache := NewItemCache()
	pending := make(map[ItemID][]sourcedRange)

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		item, pr, rowErrors := parseRow(rowNum, row, mapping)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			continue
		}
		cache.Add([]Item{item})
		pending[item.ID] = append(pending[item.ID], sourcedRange{row: rowNum, price: pr})
	}

	cat := &Catalogue{Items: cache.Items(), Ranges: make(map[ItemID][]PriceRange, len(pending))}
	for id, ranges := range pending {
		kept, rangeErrors := orderRanges(ranges)
		result.Errors = append(result.Errors, rangeErrors...)
		cat.Ranges[id] = kept
	}

	sort.SliceStable(result.Errors, func(i, j int) bool { return result.Errors[i].Row < result.Errors[j].Row })
	errorRowSet := make(map[int]bool)
	for _, e := range result.Errors {
		errorRowSet[e.Row] = true
	}
	result.ErrorRows = len(errorRowSet)
	result.ValidRows = result.TotalRows - result.ErrorRows

	return cat, result, nil
}

// parseRow maps one data row to its item attributes and price range.
func parseRow(rowNum int, row []string, mapping headerMapping) (Item, PriceRange, []ValidationError) {
	var errs []ValidationError
	values := make(map[string]string)
	pr := PriceRange{Columns: make(map[PriceColumnCode]sql.NullFloat64)}

	for i := range mapping.fields {
		value := ""
		if i < len(row) {
			value = strings.TrimSpace(row[i])
		}
		if key := mapping.fields[i]; key != "" {
			values[key] = value
			continue
		}
		code := mapping.columns[i]
		if code == "" {
			continue
		}
		price, err := parseNumber(value)
		if err != nil {
			errs = append(errs, ValidationError{Row: rowNum, Field: string(code), Message: fmt.Sprintf("%s must be a number, got %q", code, value)})
			continue
		}
		pr.Columns[code] = price
	}

	for _, f := range importFields {
		if f.Required && values[f.Key] == "" {
			errs = append(errs, ValidationError{Row: rowNum, Field: f.Label, Message: fmt.Sprintf("%s is required", f.Label)})
		}
	}

	numbers := make(map[string]sql.NullFloat64, 3)
	for _, key := range []string{"qty_min", "qty_max", "caisse"} {
		n, err := parseNumber(values[key])
		if err != nil {
			errs = append(errs, ValidationError{Row: rowNum, Field: fieldLabel(key), Message: fmt.Sprintf("%s must be a number, got %q", fieldLabel(key), values[key])})
			continue
		}
		numbers[key] = n
	}
	if len(errs) > 0 {
		return Item{}, PriceRange{}, errs
	}

	pr.QtyMin = numbers["qty_min"].Float64
	pr.QtyMax = numbers["qty_max"]
	if pr.QtyMax.Valid && pr.QtyMax.Float64 < pr.QtyMin {
		return Item{}, PriceRange{}, []ValidationError{{Row: rowNum, Field: "Qty Max", Message: "Qty Max must not be lower than Qty Min"}}
	}

	id := values["item_id"]
	if id == "" {
		id = values["item_code"]
	}
	item := Item{
		ID:          ItemID(id),
		Code:        values["item_code"],
		Description: values["description"],
		Format:      values["format"],
		Caisse:      numbers["caisse"],
		Category:    values["category"],
		Class:       values["class"],
	}
	return item, pr, nil
}

// orderRanges sorts an item's ranges by QtyMin and drops the ones that repeat
// a QtyMin or start inside an explicitly bounded range kept before them. A
// blank Qty Max means "up to the next break": it is closed just below the next
// kept QtyMin, and only the last range stays open-ended.
func orderRanges(ranges []sourcedRange) ([]PriceRange, []ValidationError) {
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].price.QtyMin < ranges[j].price.QtyMin })

	var kept []PriceRange
	var errs []ValidationError
	for _, sr := range ranges {
		if n := len(kept); n > 0 {
			prev := &kept[n-1]
			switch {
			case sr.price.QtyMin == prev.QtyMin:
				errs = append(errs, ValidationError{Row: sr.row, Field: "Qty Min", Message: fmt.Sprintf("duplicate quantity break %g", sr.price.QtyMin)})
				continue
			case prev.QtyMax.Valid && prev.QtyMax.Float64 >= sr.price.QtyMin:
				errs = append(errs, ValidationError{Row: sr.row, Field: "Qty Min", Message: fmt.Sprintf("quantity break %g overlaps the previous range", sr.price.QtyMin)})
				continue
			case !prev.QtyMax.Valid:
				prev.QtyMax = sql.NullFloat64{Float64: closingQty(prev.QtyMin, sr.price.QtyMin), Valid: true}
			}
		}
		kept = append(kept, sr.price)
	}
	return kept, errs
}

// closingQty is the upper bound of a range starting at from and followed by a
// break at next: one unit below next, or from itself when the gap is smaller.
func closingQty(from, next float64) float64 {
	if next-1 >= from {
		return next - 1
	}
	return from
}

func fieldLabel(key string) string {
	for _, f := range importFields {
		if f.Key == key {
			return f.Label
		}
	}
	return key
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
