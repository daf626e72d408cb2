package tablexport

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportTableBatch exports a table in batches, yielding to the scheduler
// between batches so other work can run during a large export. CSV output is
// streamed to w as each batch completes; XLSX output is extracted in batches
// and then written as a whole, since the workbook container cannot be
// streamed row by row.
func ExportTableBatch(ctx context.Context, doc *Document, tableID string, w io.Writer, opts ...Option) error {
	o := applyOptions(opts)
	if err := o.validate(); err != nil {
		return err
	}
	table, err := doc.ResolveTable(tableID)
	if err != nil {
		return err
	}

	rep := o.reporter()
	if o.format == FormatXLSX {
		return batchXLSX(ctx, table, w, o, rep)
	}
	return batchCSV(ctx, table, w, o, rep)
}

func batchCSV(ctx context.Context, src RowSource, w io.Writer, o *Options, rep *reporter) error {
	rowCount := src.RowCount()
	if rowCount == 0 {
		return ErrEmptyTable
	}

	if err := rep.report(0); err != nil {
		return err
	}
	if o.withBOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("write bom: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	tracker := newSpanTracker()
	emitted := 0

	for start := 0; start < rowCount; start += o.batchSize {
		end := min(start+o.batchSize, rowCount)
		for i := start; i < end; i++ {
			hidden, err := src.RowHidden(i)
			if err != nil {
				return err
			}
			if o.excludeHidden && hidden {
				continue
			}
			cells, err := src.Row(i)
			if err != nil {
				return err
			}
			rowData, _ := walkRow(cells, i, tracker, o.excludeHidden)
			if err := cw.Write(safeCSVRow(rowData)); err != nil {
				return fmt.Errorf("write csv record %d: %w", i+1, err)
			}
			emitted++
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return fmt.Errorf("flush csv: %w", err)
		}

		if err := rep.report(float64(end) / float64(rowCount) * 100); err != nil {
			return err
		}
		if end < rowCount {
			if err := o.scheduler.YieldNow(ctx); err != nil {
				return err
			}
		}
	}

	if emitted == 0 {
		return ErrEmptyTable
	}
	return nil
}

// batchXLSX extracts rows in batches over the 0-80% progress range, then
// assembles and writes the workbook.
func batchXLSX(ctx context.Context, src RowSource, w io.Writer, o *Options, rep *reporter) error {
	td, err := batchExtract(ctx, src, o, rep)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	name := o.sheetName
	if name == "" {
		name = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return fmt.Errorf("name sheet %q: %w", name, err)
	}

	// Row-level progress was already covered by the extraction phase.
	silent := &reporter{logger: o.logger}
	if err := writeSheet(f, name, td, o, silent, 0, 0); err != nil {
		return err
	}

	if err := rep.report(90); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return rep.report(100)
}

func batchExtract(ctx context.Context, src RowSource, o *Options, rep *reporter) (*TableData, error) {
	rowCount := src.RowCount()
	if rowCount == 0 {
		return nil, ErrEmptyTable
	}

	if err := rep.report(0); err != nil {
		return nil, err
	}

	td := &TableData{Rows: make([][]string, 0, rowCount)}
	if hc, ok := src.(HeaderCounter); ok {
		td.HeaderRowCount = hc.HeaderRowCount()
	}

	tracker := newSpanTracker()
	outputRow := 0

	for start := 0; start < rowCount; start += o.batchSize {
		end := min(start+o.batchSize, rowCount)
		for i := start; i < end; i++ {
			hidden, err := src.RowHidden(i)
			if err != nil {
				return nil, err
			}
			if o.excludeHidden && hidden {
				continue
			}
			cells, err := src.Row(i)
			if err != nil {
				return nil, err
			}
			rowData, spans := walkRow(cells, i, tracker, o.excludeHidden)
			if len(rowData) > excelMaxColumns {
				return nil, fmt.Errorf("column %d exceeds the xlsx column limit (%d)", len(rowData), excelMaxColumns)
			}

			merges, err := computeMergeRanges(src, spans, i, outputRow, o.excludeHidden)
			if err != nil {
				return nil, err
			}
			td.Merges = append(td.Merges, merges...)

			td.Rows = append(td.Rows, rowData)
			outputRow++
		}

		if err := rep.report(float64(end) / float64(rowCount) * 80); err != nil {
			return nil, err
		}
		if end < rowCount {
			if err := o.scheduler.YieldNow(ctx); err != nil {
				return nil, err
			}
		}
	}

	if len(td.Rows) == 0 {
		return nil, ErrEmptyTable
	}
	return td, nil
}

// ExportRecordsChunked exports structured records to CSV in chunks, yielding
// to the scheduler between chunks. Progress is reported after each chunk and
// always ends at 100. XLSX output cannot be chunked and is written in one
// pass.
func ExportRecordsChunked(ctx context.Context, columns []Column, records []Record, w io.Writer, opts ...Option) error {
	o := applyOptions(opts)
	if err := o.validate(); err != nil {
		return err
	}

	td, err := BuildTableData(columns, records)
	if err != nil {
		return err
	}
	if o.format == FormatXLSX {
		return encodeTableData(w, td, o)
	}

	rep := o.reporter()
	if err := rep.report(0); err != nil {
		return err
	}
	if o.withBOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("write bom: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	header := td.Rows[:td.HeaderRowCount]
	data := td.Rows[td.HeaderRowCount:]
	for i, row := range header {
		if err := cw.Write(safeCSVRow(row)); err != nil {
			return fmt.Errorf("write csv record %d: %w", i+1, err)
		}
	}

	total := len(data)
	for start := 0; start < total; start += o.chunkSize {
		end := min(start+o.chunkSize, total)
		for i := start; i < end; i++ {
			if err := cw.Write(safeCSVRow(data[i])); err != nil {
				return fmt.Errorf("write csv record %d: %w", td.HeaderRowCount+i+1, err)
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return fmt.Errorf("flush csv: %w", err)
		}

		if err := rep.report(float64(end) / float64(total) * 100); err != nil {
			return err
		}
		if end < total {
			if err := o.scheduler.YieldNow(ctx); err != nil {
				return err
			}
		}
	}

	if total == 0 {
		cw.Flush()
		if err := cw.Error(); err != nil {
			return fmt.Errorf("flush csv: %w", err)
		}
		return rep.report(100)
	}
	return nil
}
