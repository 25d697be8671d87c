package models

// CellKind is the kind of value a single spreadsheet cell holds.
type CellKind uint8

const (
	// CellEmpty is a cell with no value. Nothing is written for it.
	CellEmpty CellKind = iota
	// CellText holds a string.
	CellText
	// CellNumber holds an int64, uint64, float64 or decimal.Decimal.
	CellNumber
	// CellBoolean holds a bool.
	CellBoolean
	// CellDate holds a time.Time.
	CellDate
	// CellFormula holds formula text (without the leading '=').
	CellFormula
)

func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "empty"
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellBoolean:
		return "boolean"
	case CellDate:
		return "date"
	case CellFormula:
		return "formula"
	}
	return "invalid"
}

// CellValue is a coerced cell value ready to be written.
type CellValue struct {
	// Kind selects which Go type Value holds.
	Kind CellKind
	// Value is nil for CellEmpty, string for CellText and CellFormula, bool for
	// CellBoolean, time.Time for CellDate and a numeric type for CellNumber.
	Value any
}

// IsEmpty reports whether the cell carries no value.
func (c CellValue) IsEmpty() bool {
	return c.Kind == CellEmpty
}
