package tablexport

import (
	"encoding/csv"
	"fmt"
	"io"
)

// utf8BOM is prepended to CSV output when requested, so spreadsheet
// applications pick up the encoding of non-ASCII content.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// writeCSV encodes rows as RFC 4180 CSV with CRLF line endings. Every field
// is screened for formula injection before writing.
func writeCSV(w io.Writer, rows [][]string, withBOM bool, rep *reporter) error {
	if len(rows) == 0 {
		return ErrEmptyTable
	}

	if err := rep.report(0); err != nil {
		return err
	}

	if withBOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("write bom: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	for i, row := range rows {
		if err := cw.Write(safeCSVRow(row)); err != nil {
			return fmt.Errorf("write csv record %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return rep.report(100)
}

func safeCSVRow(row []string) []string {
	safe := make([]string, len(row))
	for i, field := range row {
		safe[i] = escapeFormulaInjection(field)
	}
	return safe
}
