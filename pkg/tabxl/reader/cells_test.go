package reader

import (
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
	"github.com/xuri/excelize/v2"
)

func TestReadFile(t *testing.T) {
	// Create a temporary Excel file for testing
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Header1")
	f.SetCellValue(sheetName, "B1", "Header2")
	f.SetCellValue(sheetName, "C1", "Flag")
	f.SetCellValue(sheetName, "A2", 100)
	f.SetCellValue(sheetName, "B2", 200.5)
	f.SetCellValue(sheetName, "C2", true)
	f.SetCellValue(sheetName, "A3", "Text")
	f.SetCellValue(sheetName, "C3", false)

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	set, err := ReadFile(tmpFile, DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if set.Name != "test.xlsx" {
		t.Errorf("Expected set name 'test.xlsx', got %q", set.Name)
	}
	if len(set.Tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(set.Tables))
	}
	table := set.Tables[0]

	expectedColumns := []models.Column{
		{Name: "Header1", Kind: models.KindText},
		{Name: "Header2", Kind: models.KindNumber},
		{Name: "Flag", Kind: models.KindBoolean},
	}
	if !reflect.DeepEqual(table.Columns, expectedColumns) {
		t.Errorf("Expected columns %v, got %v", expectedColumns, table.Columns)
	}

	expectedRows := [][]any{
		{"100", 200.5, true},
		{"Text", nil, false},
	}
	if !reflect.DeepEqual(table.Rows, expectedRows) {
		t.Errorf("Expected rows %v, got %v", expectedRows, table.Rows)
	}
}

func TestBuildTable(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		opts     Options
		columns  []models.Column
		expected [][]any
	}{
		{
			name: "header and numbers",
			rows: [][]string{{"Name", "Age"}, {"Alice", "15"}, {"Bob", "60"}},
			columns: []models.Column{
				{Name: "Name", Kind: models.KindText},
				{Name: "Age", Kind: models.KindNumber},
			},
			expected: [][]any{{"Alice", 15.0}, {"Bob", 60.0}},
		},
		{
			name: "no header",
			rows: [][]string{{"Alice", "15"}},
			opts: Options{UseHeaderRow: Bool(false)},
			columns: []models.Column{
				{Name: "Column0", Kind: models.KindText},
				{Name: "Column1", Kind: models.KindNumber},
			},
			expected: [][]any{{"Alice", 15.0}},
		},
		{
			name: "no inference",
			rows: [][]string{{"Name", "Age"}, {"Alice", "15"}, {"Bob", ""}},
			opts: Options{InferColumnTypes: Bool(false)},
			columns: []models.Column{
				{Name: "Name", Kind: models.KindText},
				{Name: "Age", Kind: models.KindText},
			},
			expected: [][]any{{"Alice", "15"}, {"Bob", nil}},
		},
		{
			name: "blank and duplicate headers",
			rows: [][]string{{"", "", ""}, {"A", "", "A"}, {"1", "", "x"}, {}},
			columns: []models.Column{
				{Name: "A", Kind: models.KindNumber},
				{Name: "Column1", Kind: models.KindUnknown},
				{Name: "A_1", Kind: models.KindText},
			},
			expected: [][]any{{1.0, nil, "x"}},
		},
		{
			name:     "header only",
			rows:     [][]string{{"Name", "Age"}},
			columns:  []models.Column{{Name: "Name", Kind: models.KindUnknown}, {Name: "Age", Kind: models.KindUnknown}},
			expected: [][]any{},
		},
		{
			name:     "empty sheet",
			rows:     [][]string{{}, {""}},
			columns:  nil,
			expected: nil,
		},
		{
			name:     "mixed column stays text",
			rows:     [][]string{{"V"}, {"1"}, {"TRUE"}, {"0x10"}},
			columns:  []models.Column{{Name: "V", Kind: models.KindText}},
			expected: [][]any{{"1"}, {"TRUE"}, {"0x10"}},
		},
	}

	for _, tt := range tests {
		table := buildTable(grid{name: "S", rows: untypedRows(tt.rows)}, tt.opts)
		if !reflect.DeepEqual(table.Columns, tt.columns) {
			t.Errorf("%s: columns = %v, expected %v", tt.name, table.Columns, tt.columns)
		}
		if !reflect.DeepEqual(table.Rows, tt.expected) {
			t.Errorf("%s: rows = %v, expected %v", tt.name, table.Rows, tt.expected)
		}
	}
}

func TestReadFile_StoredTypes(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	when := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	f.SetCellStr(sheetName, "A1", "Code")
	f.SetCellStr(sheetName, "B1", "Ratio")
	f.SetCellStr(sheetName, "C1", "When")
	f.SetCellStr(sheetName, "D1", "Note")
	for i, code := range []string{"007", "42", "1e3", " 5 "} {
		f.SetCellStr(sheetName, fmt.Sprintf("A%d", i+2), code)
	}
	f.SetCellFloat(sheetName, "B2", 1.0/3, -1, 64)
	f.SetCellFloat(sheetName, "B3", 123456789.123456789, -1, 64)
	f.SetCellValue(sheetName, "B4", int64(9007199254740991))
	f.SetCellFloat(sheetName, "B5", -0.1, -1, 64)
	f.SetCellValue(sheetName, "C2", when)
	f.SetCellStr(sheetName, "D2", "")
	f.SetCellStr(sheetName, "D3", "x")

	tmpFile := filepath.Join(t.TempDir(), "typed.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	set, err := ReadFile(tmpFile, DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	table := set.Tables[0]

	expectedColumns := []models.Column{
		{Name: "Code", Kind: models.KindText},
		{Name: "Ratio", Kind: models.KindNumber},
		{Name: "When", Kind: models.KindDate},
		{Name: "Note", Kind: models.KindText},
	}
	if !reflect.DeepEqual(table.Columns, expectedColumns) {
		t.Errorf("Expected columns %v, got %v", expectedColumns, table.Columns)
	}

	codes := []any{"007", "42", "1e3", " 5 "}
	ratios := []any{1.0 / 3, 123456789.123456789, 9007199254740991.0, -0.1}
	notes := []any{"", "x", nil, nil}
	for r, row := range table.Rows {
		if row[0] != codes[r] {
			t.Errorf("row %d: expected code %q, got %#v", r, codes[r], row[0])
		}
		if row[1] != ratios[r] {
			t.Errorf("row %d: expected ratio %v, got %#v", r, ratios[r], row[1])
		}
		if row[3] != notes[r] {
			t.Errorf("row %d: expected note %#v, got %#v", r, notes[r], row[3])
		}
	}
	got, ok := table.Rows[0][2].(time.Time)
	if !ok || got.Sub(when).Abs() > time.Millisecond {
		t.Errorf("Expected date %v, got %#v", when, table.Rows[0][2])
	}
}

func TestReadColumn(t *testing.T) {
	serial := "45356.5" // 2024-03-05 12:00
	tests := []struct {
		name   string
		cells  []cell
		kind   models.Kind
		values []any
	}{
		{
			name:   "numeric-looking strings stay text",
			cells:  []cell{{"007", classText}, {"42", classText}, {"TRUE", classText}},
			kind:   models.KindText,
			values: []any{"007", "42", "TRUE"},
		},
		{
			name:   "raw numbers keep full precision",
			cells:  []cell{{"0.3333333333333333", classNumber}, {}, {"1E-3", classNumber}},
			kind:   models.KindNumber,
			values: []any{1.0 / 3, nil, 0.001},
		},
		{
			name:   "stored booleans",
			cells:  []cell{{"1", classBool}, {"0", classBool}},
			kind:   models.KindBoolean,
			values: []any{true, false},
		},
		{
			name:   "dates",
			cells:  []cell{{serial, classDate}, {"2024-03-05T12:00:00Z", classDate}},
			kind:   models.KindDate,
			values: []any{time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)},
		},
		{
			name:   "mixed types fall back to text",
			cells:  []cell{{"15", classNumber}, {"1", classBool}, {serial, classDate}, {"", classText}},
			kind:   models.KindText,
			values: []any{"15", "TRUE", "2024-03-05 12:00:00", ""},
		},
		{
			name:   "untyped text is guessed",
			cells:  []cell{{"15", classUntyped}, {"2.5", classUntyped}},
			kind:   models.KindNumber,
			values: []any{15.0, 2.5},
		},
		{
			name:   "no values",
			cells:  []cell{{}, {}},
			kind:   models.KindUnknown,
			values: []any{nil, nil},
		},
	}

	for _, tt := range tests {
		rows := make([][]cell, len(tt.cells))
		for i, x := range tt.cells {
			rows[i] = []cell{x}
		}
		kind, values := readColumn(rows, 0, true, false)
		if kind != tt.kind {
			t.Errorf("%s: kind = %v, expected %v", tt.name, kind, tt.kind)
		}
		if !reflect.DeepEqual(values, tt.values) {
			t.Errorf("%s: values = %#v, expected %#v", tt.name, values, tt.values)
		}
	}
}

func TestIsDateFormatCode(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"yyyy-mm-dd", true},
		{"[$-409]h:mm AM/PM", true},
		{"mm:ss", true},
		{"0.00", false},
		{`0.0 "days"`, false},
		{"[Red]#,##0", false},
		{"General", false},
	}

	for _, tt := range tests {
		if got := isDateFormatCode(tt.code); got != tt.expected {
			t.Errorf("isDateFormatCode(%q) = %v, expected %v", tt.code, got, tt.expected)
		}
	}
}

func TestReadFile_Legacy(t *testing.T) {
	set, err := ReadFile(filepath.Join("testdata", "people.xls"), DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(set.Tables) != 2 {
		t.Fatalf("Expected 2 tables, got %d", len(set.Tables))
	}

	people := set.Tables[0]
	expectedColumns := []models.Column{
		{Name: "Name", Kind: models.KindText},
		{Name: "Age", Kind: models.KindNumber},
		{Name: "Score", Kind: models.KindNumber},
	}
	if people.Name != "People" || !reflect.DeepEqual(people.Columns, expectedColumns) {
		t.Errorf("Expected People with columns %v, got %q %v", expectedColumns, people.Name, people.Columns)
	}
	expectedRows := [][]any{{"Alice", 15.0, 2.5}, {"Bob", 60.0, 0.125}}
	if !reflect.DeepEqual(people.Rows, expectedRows) {
		t.Errorf("Expected rows %v, got %v", expectedRows, people.Rows)
	}

	// Row 1 of Notes has no record at all.
	notes := set.Tables[1]
	if notes.Name != "Notes" {
		t.Errorf("Expected table 'Notes', got %q", notes.Name)
	}
	if expected := [][]any{{nil}, {"Café"}}; !reflect.DeepEqual(notes.Rows, expected) {
		t.Errorf("Expected rows %v, got %v", expected, notes.Rows)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"123", 123, true},
		{"123.45", 123.45, true},
		{"-100", -100, true},
		{" 1e3 ", 1000, true},
		{"hello", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"0x1p-2", 0, false},
	}

	for _, tt := range tests {
		result, ok := parseNumber(tt.input)
		if ok != tt.ok || result != tt.expected {
			t.Errorf("parseNumber(%q) = %v, %v, expected %v, %v",
				tt.input, result, ok, tt.expected, tt.ok)
		}
	}
}
