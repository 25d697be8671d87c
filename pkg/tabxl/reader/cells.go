package reader

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
	"github.com/xuri/excelize/v2"
)

// cellClass is what a cell's stored type says about its value.
type cellClass uint8

const (
	classEmpty cellClass = iota
	classText
	classNumber
	classBool
	classDate
	// classUntyped is text whose type the container does not record (legacy
	// workbooks); its kind is guessed from the text.
	classUntyped
)

type cell struct {
	text  string
	class cellClass
}

// grid is one sheet, row-major, possibly ragged.
type grid struct {
	name     string
	rows     [][]cell
	date1904 bool
}

// untypedRows wraps plain text rows. Empty text is an empty cell.
func untypedRows(rows [][]string) [][]cell {
	out := make([][]cell, len(rows))
	for r, row := range rows {
		out[r] = make([]cell, len(row))
		for c, s := range row {
			if s != "" {
				out[r][c] = cell{text: s, class: classUntyped}
			}
		}
	}
	return out
}

// sheetScanner classifies the cells of an xlsx workbook by their stored type and
// number format.
type sheetScanner struct {
	f          *excelize.File
	dateStyles map[int]bool
}

// extractGrids reads every sheet of an xlsx workbook. With raw set, cells hold
// their stored values (full-precision numbers, 1/0 booleans, date serials);
// otherwise they hold the text Excel would display.
func extractGrids(f *excelize.File, raw bool) ([]grid, error) {
	s := &sheetScanner{f: f, dateStyles: map[int]bool{}}
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	var grids []grid
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: raw})
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
		}
		cells, err := s.scan(sheetName, rows)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
		}
		grids = append(grids, grid{name: sheetName, rows: cells, date1904: date1904})
	}
	return grids, nil
}

func (s *sheetScanner) scan(sheet string, rows [][]string) ([][]cell, error) {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	out := make([][]cell, len(rows))
	for r, row := range rows {
		out[r] = make([]cell, width)
		for c := range width {
			text := ""
			if c < len(row) {
				text = row[c]
			}
			class, err := s.classify(sheet, c, r, text)
			if err != nil {
				return nil, err
			}
			if class != classEmpty {
				out[r][c] = cell{text: text, class: class}
			}
		}
	}
	return out, nil
}

// classify maps the stored type of a cell to its class. String cells are text
// even when empty or numeric-looking; only number cells become numbers.
func (s *sheetScanner) classify(sheet string, col, row int, text string) (cellClass, error) {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return classEmpty, err
	}
	typ, err := s.f.GetCellType(sheet, name)
	if err != nil {
		return classEmpty, err
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return classText, nil
	case excelize.CellTypeBool:
		return classBool, nil
	case excelize.CellTypeDate:
		return classDate, nil
	case excelize.CellTypeFormula, excelize.CellTypeError:
		if text == "" {
			return classEmpty, nil
		}
		return classText, nil
	}

	if text == "" {
		return classEmpty, nil
	}
	if _, ok := parseNumber(text); !ok {
		return classText, nil
	}
	date, err := s.isDateCell(sheet, name)
	if err != nil {
		return classEmpty, err
	}
	if date {
		return classDate, nil
	}
	return classNumber, nil
}

func (s *sheetScanner) isDateCell(sheet, name string) (bool, error) {
	id, err := s.f.GetCellStyle(sheet, name)
	if err != nil || id == 0 {
		return false, err
	}
	if date, ok := s.dateStyles[id]; ok {
		return date, nil
	}
	style, err := s.f.GetStyle(id)
	if err != nil {
		return false, err
	}
	date := isDateNumFmt(style.NumFmt)
	if style.CustomNumFmt != nil {
		date = isDateFormatCode(*style.CustomNumFmt)
	}
	s.dateStyles[id] = date
	return date, nil
}

// isDateNumFmt reports whether a built-in number format shows a date or time.
func isDateNumFmt(id int) bool {
	return 14 <= id && id <= 22 || 27 <= id && id <= 36 || 45 <= id && id <= 47 || 50 <= id && id <= 58
}

// isDateFormatCode reports whether a custom format code has date or time tokens
// outside quoted literals and bracketed sections.
func isDateFormatCode(code string) bool {
	var quoted, bracketed bool
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracketed = true
		case r == ']':
			bracketed = false
		case bracketed:
		case r == 'y', r == 'd', r == 'h', r == 's':
			return true
		}
	}
	return false
}

// buildTable turns a grid into a table. Leading and trailing empty rows are
// dropped; empty rows between values are kept.
func buildTable(g grid, opts Options) *models.Table {
	table := models.NewTable(g.name)
	first, last, width := dataExtent(g.rows)
	if first < 0 {
		return table
	}

	body := g.rows[first : last+1]
	var names []string
	if opts.ShouldUseHeaderRow() {
		names = headerNames(body[0], width)
		body = body[1:]
	} else {
		names = make([]string, width)
		for i := range names {
			names[i] = positionalColumn(i)
		}
	}

	table.Rows = make([][]any, len(body))
	for r := range body {
		table.Rows[r] = make([]any, width)
	}
	for c, name := range names {
		kind, values := readColumn(body, c, opts.ShouldInferColumnTypes(), g.date1904)
		table.Columns = append(table.Columns, models.Column{Name: name, Kind: kind})
		for r, v := range values {
			table.Rows[r][c] = v
		}
	}
	return table
}

func positionalColumn(i int) string {
	return "Column" + strconv.Itoa(i)
}

// headerNames trims header cells, names blank ones by position and suffixes
// repeated names with _1, _2...
func headerNames(header []cell, width int) []string {
	names := make([]string, width)
	used := make(map[string]int, width)
	for i := range names {
		name := strings.TrimSpace(cellAt(header, i).text)
		if name == "" {
			name = positionalColumn(i)
		}
		if n, dup := used[name]; dup {
			used[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		used[name] = 0
		names[i] = name
	}
	return names
}

// readColumn returns the kind and values of column c. With inference, a column
// whose cells are all numbers reads as float64, all booleans as bool, all dates
// as time.Time, and anything else as string. Empty cells read nil.
func readColumn(rows [][]cell, c int, infer, date1904 bool) (models.Kind, []any) {
	values := make([]any, len(rows))
	if !infer {
		for r, row := range rows {
			if x := cellAt(row, c); x.class != classEmpty {
				values[r] = x.text
			}
		}
		return models.KindText, values
	}

	kind := models.KindUnknown
	for _, row := range rows {
		x := cellAt(row, c)
		if x.class == classEmpty {
			continue
		}
		k := x.kind(date1904)
		switch kind {
		case models.KindUnknown:
			kind = k
		case k:
		default:
			kind = models.KindText
		}
	}

	for r, row := range rows {
		x := cellAt(row, c)
		if x.class == classEmpty {
			continue
		}
		switch kind {
		case models.KindNumber:
			values[r], _ = parseNumber(x.text)
		case models.KindBoolean:
			values[r], _ = x.boolean()
		case models.KindDate:
			values[r], _ = x.date(date1904)
		default:
			values[r] = x.display(date1904)
		}
	}
	return kind, values
}

// kind is the column kind the cell alone would give.
func (x cell) kind(date1904 bool) models.Kind {
	switch x.class {
	case classNumber:
		return models.KindNumber
	case classBool:
		return models.KindBoolean
	case classDate:
		if _, ok := x.date(date1904); ok {
			return models.KindDate
		}
	case classUntyped:
		if _, ok := parseNumber(x.text); ok {
			return models.KindNumber
		}
		if _, ok := parseBool(x.text); ok {
			return models.KindBoolean
		}
	}
	return models.KindText
}

func (x cell) boolean() (bool, bool) {
	if x.class == classBool {
		switch x.text {
		case "1":
			return true, true
		case "0":
			return false, true
		}
	}
	return parseBool(x.text)
}

// date reads a date serial, or ISO 8601 text for cells stored as dates.
func (x cell) date(date1904 bool) (time.Time, bool) {
	if serial, ok := parseNumber(x.text); ok {
		t, err := excelize.ExcelDateToTime(serial, date1904)
		return t, err == nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02"} {
		if t, err := time.Parse(layout, x.text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// display is the text of a cell in a text column.
func (x cell) display(date1904 bool) string {
	switch x.class {
	case classBool:
		if b, ok := x.boolean(); ok {
			return strings.ToUpper(strconv.FormatBool(b))
		}
	case classDate:
		if t, ok := x.date(date1904); ok {
			return t.Format(time.DateTime)
		}
	}
	return x.text
}

// parseNumber parses decimal cell text. Hex literals, NaN and infinities are
// left as text.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.TrimLeft(s, "+-"), "0x") || strings.HasPrefix(strings.TrimLeft(s, "+-"), "0X") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE":
		return true, true
	case "FALSE":
		return false, true
	}
	return false, false
}
