package tablexport

import (
	"errors"
	"fmt"
)

// ErrEmptyTable is returned when a source has no rows to export.
var ErrEmptyTable = errors.New("table has no rows to export")

func errRowOutOfRange(i int) error {
	return fmt.Errorf("row %d not found", i+1)
}

// cellSpan records where a non-skipped cell landed in the output grid and the
// raw spans it carried, for the merge computation.
type cellSpan struct {
	col     int // output column where the cell starts
	colSpan int
	rowSpan int
}

// Extract walks the source and reconstructs the dense text matrix. Merge
// regions are not computed; this is the cheap path for CSV output. When
// excludeHidden is set, hidden rows and cells contribute nothing to the grid.
func Extract(src RowSource, excludeHidden bool) ([][]string, error) {
	rowCount := src.RowCount()
	if rowCount == 0 {
		return nil, ErrEmptyTable
	}

	tracker := newSpanTracker()
	result := make([][]string, 0, rowCount)

	for i := 0; i < rowCount; i++ {
		hidden, err := src.RowHidden(i)
		if err != nil {
			return nil, err
		}
		if excludeHidden && hidden {
			continue
		}
		cells, err := src.Row(i)
		if err != nil {
			return nil, err
		}
		rowData, _ := walkRow(cells, i, tracker, excludeHidden)
		result = append(result, rowData)
	}

	return result, nil
}

// ExtractWithMerges walks the source and reconstructs both the dense matrix
// and the merge regions, expressed in output coordinates. A rowspan that
// crosses hidden rows shrinks to its visible footprint when excludeHidden is
// set, so the emitted regions always refer to rows that actually exist in the
// output.
func ExtractWithMerges(src RowSource, excludeHidden bool) (*TableData, error) {
	rowCount := src.RowCount()
	if rowCount == 0 {
		return nil, ErrEmptyTable
	}

	td := &TableData{Rows: make([][]string, 0, rowCount)}
	if hc, ok := src.(HeaderCounter); ok {
		td.HeaderRowCount = hc.HeaderRowCount()
	}

	tracker := newSpanTracker()
	outputRow := 0

	for i := 0; i < rowCount; i++ {
		hidden, err := src.RowHidden(i)
		if err != nil {
			return nil, err
		}
		if excludeHidden && hidden {
			continue
		}
		cells, err := src.Row(i)
		if err != nil {
			return nil, err
		}
		rowData, spans := walkRow(cells, i, tracker, excludeHidden)

		merges, err := computeMergeRanges(src, spans, i, outputRow, excludeHidden)
		if err != nil {
			return nil, err
		}
		td.Merges = append(td.Merges, merges...)

		td.Rows = append(td.Rows, rowData)
		outputRow++
	}

	return td, nil
}

// walkRow emits one output row. Before each physical cell (and after the
// last) it drains every tracker entry due at the current output column; the
// drain must loop, since stacked rowspans from different earlier rows can
// resolve at adjacent columns.
func walkRow(cells []Cell, rowIdx int, tracker *spanTracker, excludeHidden bool) ([]string, []cellSpan) {
	var rowData []string
	var spans []cellSpan
	col := 0

	for _, cell := range cells {
		for {
			text, ok := tracker.Take(rowIdx, col)
			if !ok {
				break
			}
			rowData = append(rowData, text)
			col++
		}

		if excludeHidden && cell.Hidden {
			continue
		}

		colSpan := max(cell.ColSpan, 1)
		rowSpan := max(cell.RowSpan, 1)

		spans = append(spans, cellSpan{col: col, colSpan: colSpan, rowSpan: rowSpan})
		tracker.Record(rowIdx, col, colSpan, rowSpan, cell.Text)

		rowData = append(rowData, cell.Text)
		for c := 1; c < colSpan; c++ {
			rowData = append(rowData, "")
		}
		col += colSpan
	}

	// Rowspans from above can extend past the last physical cell of this row.
	for {
		text, ok := tracker.Take(rowIdx, col)
		if !ok {
			break
		}
		rowData = append(rowData, text)
		col++
	}

	return rowData, spans
}

// computeMergeRanges derives the merge regions for one emitted row. Trivial
// 1x1 regions are skipped.
func computeMergeRanges(src RowSource, spans []cellSpan, rowIdx, outputRow int, excludeHidden bool) ([]MergeRange, error) {
	var merges []MergeRange
	for _, sp := range spans {
		covered, err := countVisibleRows(src, rowIdx, sp.rowSpan, excludeHidden)
		if err != nil {
			return nil, err
		}

		lastRow := outputRow + covered
		lastCol := sp.col + sp.colSpan - 1

		if lastRow > outputRow || lastCol > sp.col {
			merges = append(merges, MergeRange{
				FirstRow: outputRow,
				FirstCol: sp.col,
				LastRow:  lastRow,
				LastCol:  lastCol,
			})
		}
	}
	return merges, nil
}

// countVisibleRows returns how many of the rowspan-1 rows below rowIdx are
// actually emitted. Rows past the end of the table are not counted.
func countVisibleRows(src RowSource, rowIdx, rowSpan int, excludeHidden bool) (int, error) {
	if rowSpan <= 1 {
		return 0, nil
	}
	covered := 0
	for r := 1; r < rowSpan; r++ {
		next := rowIdx + r
		if next >= src.RowCount() {
			break
		}
		hidden, err := src.RowHidden(next)
		if err != nil {
			return 0, err
		}
		if !excludeHidden || !hidden {
			covered++
		}
	}
	return covered, nil
}
