package tablexport

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// defaultBaseFilename is used when a file export is requested without a name.
const defaultBaseFilename = "table_export"

// ExportTable extracts the table with the given id from doc and writes it to
// w in the configured format. CSV output flattens merged regions into
// repeated and empty cells; XLSX output reconstructs them as real merges.
func ExportTable(doc *Document, tableID string, w io.Writer, opts ...Option) error {
	o := applyOptions(opts)
	if err := o.validate(); err != nil {
		return err
	}
	table, err := doc.ResolveTable(tableID)
	if err != nil {
		return err
	}
	return exportSource(table, w, o)
}

// ExportTableBytes is ExportTable rendered into memory.
func ExportTableBytes(doc *Document, tableID string, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := ExportTable(doc, tableID, &buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportTableFile writes the table to a file in the current directory and
// returns the final filename. The filename is validated before any extraction
// work starts, and a partially written file is removed on failure.
func ExportTableFile(doc *Document, tableID string, opts ...Option) (string, error) {
	o := applyOptions(opts)
	if err := o.validate(); err != nil {
		return "", err
	}

	name := o.filename
	if name == "" {
		name = defaultBaseFilename
	}
	if err := ValidateFilename(name); err != nil {
		return "", err
	}
	name = ensureExtension(name, o.format.extension())

	table, err := doc.ResolveTable(tableID)
	if err != nil {
		return "", err
	}

	f, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if err := exportSource(table, f, o); err != nil {
		f.Close()
		os.Remove(name)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return name, nil
}

func exportSource(src RowSource, w io.Writer, o *Options) error {
	rep := o.reporter()
	switch o.format {
	case FormatXLSX:
		td, err := ExtractWithMerges(src, o.excludeHidden)
		if err != nil {
			return err
		}
		return writeXLSX(w, []Sheet{{Name: o.sheetName, Data: td}}, o, rep)
	default:
		rows, err := Extract(src, o.excludeHidden)
		if err != nil {
			return err
		}
		return writeCSV(w, rows, o.withBOM, rep)
	}
}

// ExportRows writes already-flattened rows to w. Merges cannot be expressed
// this way; use ExportRecords for structured data.
func ExportRows(rows [][]string, w io.Writer, opts ...Option) error {
	o := applyOptions(opts)
	if err := o.validate(); err != nil {
		return err
	}
	td := &TableData{Rows: rows}
	return encodeTableData(w, td, o)
}

// ExportRecords builds a table from a column tree and flat records and writes
// it to w. Nested columns become merged header rows; cell directives in the
// records become merged data regions.
func ExportRecords(columns []Column, records []Record, w io.Writer, opts ...Option) error {
	o := applyOptions(opts)
	if err := o.validate(); err != nil {
		return err
	}
	td, err := BuildTableData(columns, records)
	if err != nil {
		return err
	}
	return encodeTableData(w, td, o)
}

// ExportTree flattens nested records depth-first, indenting the designated
// column by nesting depth, and writes the result to w.
func ExportTree(columns []Column, records []Record, w io.Writer, opts ...Option) error {
	o := applyOptions(opts)
	if err := o.validate(); err != nil {
		return err
	}
	td, err := BuildTableDataFromTree(columns, records, o.indentColumn, o.childrenKey)
	if err != nil {
		return err
	}
	return encodeTableData(w, td, o)
}

func encodeTableData(w io.Writer, td *TableData, o *Options) error {
	rep := o.reporter()
	switch o.format {
	case FormatXLSX:
		return writeXLSX(w, []Sheet{{Name: o.sheetName, Data: td}}, o, rep)
	default:
		return writeCSV(w, td.Rows, o.withBOM, rep)
	}
}

// SheetConfig names one table to place on one worksheet of a multi-sheet
// workbook.
type SheetConfig struct {
	TableID       string
	SheetName     string
	ExcludeHidden bool
}

// ExportTablesXLSX extracts several tables from doc and writes them as one
// workbook with a sheet per table. Unnamed sheets get Sheet1, Sheet2, and so
// on in order.
func ExportTablesXLSX(doc *Document, configs []SheetConfig, w io.Writer, opts ...Option) error {
	o := applyOptions(opts)
	o.format = FormatXLSX
	if err := o.validate(); err != nil {
		return err
	}
	if len(configs) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	sheets := make([]Sheet, 0, len(configs))
	for _, cfg := range configs {
		table, err := doc.ResolveTable(cfg.TableID)
		if err != nil {
			return err
		}
		td, err := ExtractWithMerges(table, cfg.ExcludeHidden)
		if err != nil {
			return fmt.Errorf("table %q: %w", cfg.TableID, err)
		}
		sheets = append(sheets, Sheet{Name: cfg.SheetName, Data: td})
	}
	return writeXLSX(w, sheets, o, o.reporter())
}
