package tablexport

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"
)

// excelMaxColumns is the hard column limit of the XLSX format. Exceeding it
// aborts the export; nothing is silently truncated.
const excelMaxColumns = 16384

const (
	autoWidthPadding = 2
	autoWidthMin     = 8.0
	autoWidthMax     = 60.0
)

// writeXLSX encodes one or more sheets into a workbook. Cells are always
// written as strings so cell content can never execute as a formula. Merge
// regions are applied as a post-pass that rewrites the top-left cell's text
// and merges the rectangle; freeze panes default to the header boundary.
func writeXLSX(w io.Writer, sheets []Sheet, o *Options, rep *reporter) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	if err := rep.report(0); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	totalSheets := len(sheets)
	for idx, sheet := range sheets {
		name := sheet.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", idx+1)
		}
		if idx == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("name sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %q: %w", name, err)
		}

		// Row writing covers the 0-80% progress range, split evenly per sheet.
		start := float64(idx) / float64(totalSheets) * 80.0
		span := 80.0 / float64(totalSheets)
		if err := writeSheet(f, name, sheet.Data, o, rep, start, span); err != nil {
			return err
		}
	}

	if err := rep.report(90); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return rep.report(100)
}

func writeSheet(f *excelize.File, name string, td *TableData, o *Options, rep *reporter, progressStart, progressSpan float64) error {
	if td == nil || len(td.Rows) == 0 {
		return ErrEmptyTable
	}
	totalRows := len(td.Rows)

	for i, row := range td.Rows {
		for j, text := range row {
			if j >= excelMaxColumns {
				return fmt.Errorf("column %d exceeds the xlsx column limit (%d)", j+1, excelMaxColumns)
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("cell reference row %d col %d: %w", i+1, j+1, err)
			}
			if err := f.SetCellStr(name, cell, text); err != nil {
				return fmt.Errorf("write cell %s!%s: %w", name, cell, err)
			}
		}
		if i%10 == 0 || i == totalRows-1 {
			progress := progressStart + float64(i+1)/float64(totalRows)*progressSpan
			if err := rep.report(progress); err != nil {
				return err
			}
		}
	}

	if err := applyMerges(f, name, td); err != nil {
		return err
	}

	if o.autoWidth {
		if err := applyAutoWidths(f, name, td.Rows); err != nil {
			return err
		}
	}

	return applyFreezePanes(f, name, td, o)
}

// applyMerges merges each region and re-writes the surviving top-left cell
// with its real text, since merging blanks the covered cells.
func applyMerges(f *excelize.File, name string, td *TableData) error {
	for _, m := range td.Merges {
		text := ""
		if m.FirstRow < len(td.Rows) && m.FirstCol < len(td.Rows[m.FirstRow]) {
			text = td.Rows[m.FirstRow][m.FirstCol]
		}

		topLeft, err := excelize.CoordinatesToCellName(m.FirstCol+1, m.FirstRow+1)
		if err != nil {
			return fmt.Errorf("merge reference row %d col %d: %w", m.FirstRow+1, m.FirstCol+1, err)
		}
		bottomRight, err := excelize.CoordinatesToCellName(m.LastCol+1, m.LastRow+1)
		if err != nil {
			return fmt.Errorf("merge reference row %d col %d: %w", m.LastRow+1, m.LastCol+1, err)
		}

		if err := f.MergeCell(name, topLeft, bottomRight); err != nil {
			return fmt.Errorf("merge cells %s:%s: %w", topLeft, bottomRight, err)
		}
		if err := f.SetCellStr(name, topLeft, text); err != nil {
			return fmt.Errorf("write merged cell %s: %w", topLeft, err)
		}
	}
	return nil
}

// applyAutoWidths sizes each column to its widest cell's display width,
// measured in terminal columns (CJK-aware), clamped to a sane range.
func applyAutoWidths(f *excelize.File, name string, rows [][]string) error {
	var widths []int
	for _, row := range rows {
		for j, text := range row {
			for len(widths) <= j {
				widths = append(widths, 0)
			}
			if w := runewidth.StringWidth(text); w > widths[j] {
				widths[j] = w
			}
		}
	}
	for j, w := range widths {
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return fmt.Errorf("column name %d: %w", j+1, err)
		}
		width := min(max(float64(w+autoWidthPadding), autoWidthMin), autoWidthMax)
		if err := f.SetColWidth(name, col, col, width); err != nil {
			return fmt.Errorf("set width of column %s: %w", col, err)
		}
	}
	return nil
}

// applyFreezePanes freezes the configured rows/columns, or the header rows
// when no explicit override is set.
func applyFreezePanes(f *excelize.File, name string, td *TableData, o *Options) error {
	rows, cols := td.HeaderRowCount, 0
	if o.freezeSet {
		rows, cols = o.freezeRows, o.freezeCols
	}
	if rows <= 0 && cols <= 0 {
		return nil
	}

	topLeft, err := excelize.CoordinatesToCellName(cols+1, rows+1)
	if err != nil {
		return fmt.Errorf("freeze reference row %d col %d: %w", rows+1, cols+1, err)
	}
	activePane := "bottomLeft"
	switch {
	case rows > 0 && cols > 0:
		activePane = "bottomRight"
	case cols > 0:
		activePane = "topRight"
	}

	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		XSplit:      cols,
		YSplit:      rows,
		TopLeftCell: topLeft,
		ActivePane:  activePane,
	}); err != nil {
		return fmt.Errorf("set freeze panes on %s: %w", name, err)
	}
	return nil
}
