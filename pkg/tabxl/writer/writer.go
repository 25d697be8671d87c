package writer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/coerce"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/errs"
	"github.com/ukaji3/tabxl-go/pkg/tabxl/models"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet every new excelize workbook starts with.
const defaultSheet = "Sheet1"

// Write serializes wb into xlsx bytes. The header row is always written; data
// rows follow in source order. The output contains no timestamps, so writing the
// same workbook twice yields identical bytes.
func Write(wb *Workbook) ([]byte, error) {
	if wb == nil {
		return nil, fmt.Errorf("%w: workbook is nil", errs.ErrInvalidInput)
	}

	f := excelize.NewFile()
	defer f.Close()

	names := uniqueNames(wb.Sheets)
	for i, sheet := range wb.Sheets {
		if err := addSheet(f, i, names[i]); err != nil {
			return nil, errs.NewSerializationError(names[i], "", err)
		}
		if err := writeSheet(f, names[i], sheet); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errs.NewSerializationError("", "", err)
	}
	log.Debugf("encoded workbook: %d sheets, %d bytes", len(wb.Sheets), buf.Len())
	return buf.Bytes(), nil
}

func addSheet(f *excelize.File, index int, name string) error {
	if index == 0 {
		return f.SetSheetName(defaultSheet, name)
	}
	_, err := f.NewSheet(name)
	return err
}

// uniqueNames resolves sheet names, suffixing case-insensitive duplicates with " (n)".
func uniqueNames(sheets []Sheet) []string {
	names := make([]string, len(sheets))
	seen := make(map[string]struct{}, len(sheets))
	for i, s := range sheets {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		candidate := name
		for n := 2; ; n++ {
			if _, dup := seen[strings.ToLower(candidate)]; !dup {
				break
			}
			candidate = fmt.Sprintf("%s (%d)", name, n)
		}
		seen[strings.ToLower(candidate)] = struct{}{}
		names[i] = candidate
	}
	return names
}

func writeSheet(f *excelize.File, name string, sheet Sheet) error {
	if len(sheet.Columns) > excelize.MaxColumns {
		return errs.NewSerializationError(name, "",
			fmt.Errorf("%d columns exceed the limit of %d", len(sheet.Columns), excelize.MaxColumns))
	}

	for i, c := range sheet.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := setCell(f, name, cell, coerce.Text(c.Name())); err != nil {
			return errs.NewSerializationError(name, cell, err)
		}
	}
	if sheet.Rows == nil {
		return nil
	}

	row := 1
	for values := range sheet.Rows {
		row++
		if row > excelize.TotalRows {
			return errs.NewSerializationError(name, "",
				fmt.Errorf("more than %d data rows", excelize.TotalRows-1))
		}
		if len(values) != len(sheet.Columns) {
			panic(fmt.Sprintf("writer: sheet %q row %d has %d values for %d columns", name, row, len(values), len(sheet.Columns)))
		}
		for i, c := range sheet.Columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			var v models.CellValue
			if fm, ok := sheet.Formulas.Lookup(c.Name()); ok {
				v = coerce.Formula(fm(uint32(row)))
			} else {
				v = coerce.Value(values[i], c.Schema.Kind)
			}
			if err := setCell(f, name, cell, v); err != nil {
				return errs.NewSerializationError(name, cell, err)
			}
		}
	}
	log.Debugf("wrote sheet %q: %d columns, %d rows", name, len(sheet.Columns), row-1)
	return nil
}

func setCell(f *excelize.File, sheet, cell string, v models.CellValue) error {
	switch v.Kind {
	case models.CellEmpty:
		return nil
	case models.CellText:
		s := v.Value.(string)
		if err := checkXMLText(s); err != nil {
			return err
		}
		// The cell limit counts UTF-16 code units; excelize truncates past it.
		if n := utf16Len(s); n > excelize.TotalCellChars {
			return fmt.Errorf("text of %d characters exceeds the cell limit of %d", n, excelize.TotalCellChars)
		}
		return f.SetCellStr(sheet, cell, s)
	case models.CellNumber:
		switch n := v.Value.(type) {
		case int64:
			return f.SetCellValue(sheet, cell, n)
		case float64:
			return f.SetCellFloat(sheet, cell, n, -1, 64)
		case uint64:
			return f.SetCellDefault(sheet, cell, strconv.FormatUint(n, 10))
		case decimal.Decimal:
			return f.SetCellDefault(sheet, cell, n.String())
		}
	case models.CellBoolean:
		return f.SetCellBool(sheet, cell, v.Value.(bool))
	case models.CellDate:
		return f.SetCellValue(sheet, cell, v.Value.(time.Time))
	case models.CellFormula:
		s := v.Value.(string)
		if err := checkXMLText(s); err != nil {
			return err
		}
		return f.SetCellFormula(sheet, cell, s)
	}
	return fmt.Errorf("unsupported %v cell value of type %T", v.Kind, v.Value)
}

// checkXMLText rejects text XML 1.0 cannot carry. excelize would replace it with
// U+FFFD.
func checkXMLText(s string) error {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return fmt.Errorf("invalid UTF-8 at byte %d", i)
			}
		}
		if !isXMLChar(r) {
			return fmt.Errorf("character %U at byte %d is not allowed in XML", r, i)
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r' ||
		0x20 <= r && r <= 0xD7FF ||
		0xE000 <= r && r <= 0xFFFD ||
		0x10000 <= r && r <= utf8.MaxRune
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
