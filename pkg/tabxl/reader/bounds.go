package reader

// dataExtent returns the first and last row holding a value and the number of
// columns up to the rightmost value. first and last are -1 for an empty sheet.
func dataExtent(rows [][]cell) (first, last, width int) {
	first, last = -1, -1
	for r, row := range rows {
		for c, x := range row {
			if x.class == classEmpty {
				continue
			}
			if first < 0 {
				first = r
			}
			last = r
			width = max(width, c+1)
		}
	}
	return
}

// cellAt returns the cell of a ragged row, an empty cell past its end.
func cellAt(row []cell, col int) cell {
	if col < len(row) {
		return row[col]
	}
	return cell{}
}
