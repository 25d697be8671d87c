package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/extrame/xls"
	"github.com/richardlehane/mscfb"
)

// readCompound reads an OLE compound file. Only BIFF workbooks (a "Workbook" or
// "Book" stream) are decoded; encrypted OOXML packages are rejected.
func readCompound(data []byte) ([]grid, error) {
	stream, err := workbookStream(data)
	if err != nil {
		return nil, err
	}
	grids, err := readBIFF(data)
	if err != nil {
		return nil, fmt.Errorf("%s stream: %w", stream, err)
	}
	return grids, nil
}

func workbookStream(data []byte) (string, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	for {
		entry, err := doc.Next()
		if err == io.EOF {
			return "", errors.New("compound file holds no workbook stream")
		}
		if err != nil {
			return "", err
		}
		switch entry.Name {
		case "Workbook", "Book":
			return entry.Name, nil
		case "EncryptedPackage":
			return "", errors.New("encrypted workbooks are not supported")
		}
	}
}

// biffColumns is the column count of a BIFF8 sheet.
const biffColumns = 256

// readBIFF decodes the sheets of a legacy workbook. The decoder panics on some
// malformed records, which is reported as an error.
func readBIFF(data []byte) (grids []grid, err error) {
	defer func() {
		if r := recover(); r != nil {
			grids, err = nil, fmt.Errorf("malformed workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	for i := range wb.NumSheets() {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		rows := make([][]string, 0, int(sheet.MaxRow)+1)
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheetRow(sheet, r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			// Rows made from cell records alone carry no column range.
			width := row.LastCol()
			if width <= 0 {
				width = biffColumns
			}
			cells := make([]string, width)
			for c := max(row.FirstCol(), 0); c < len(cells); c++ {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}
		grids = append(grids, grid{name: sheet.Name, rows: untypedRows(rows)})
	}
	if len(grids) == 0 {
		return nil, errors.New("workbook has no worksheets")
	}
	return grids, nil
}

// sheetRow returns row r, or nil when the sheet has no record for it. The
// decoder dereferences missing rows.
func sheetRow(sheet *xls.WorkSheet, r int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(r)
}
