package tablexport

import (
	"fmt"
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Record is one row of structured input data.
type Record = map[string]any

// CellValue marks a record field as a merge directive: the cell's text plus
// the columns and rows it spans. Zero ColSpan/RowSpan mean unset and default
// to 1. Covered marks a cell overlapped by another cell's merge; it emits an
// empty string and no merge region. The map form {"value": ..., "colSpan":
// ..., "rowSpan": ...} is accepted too, where an explicit span of 0 means
// covered.
type CellValue struct {
	Value   any
	ColSpan int
	RowSpan int
	Covered bool
}

// cellInfo is the normalized form of a cell value after directive detection.
type cellInfo struct {
	value   string
	colSpan int
	rowSpan int
	covered bool
}

// parseCellValue normalizes a scalar or directive cell value. A plain map is
// treated as a directive only when it carries at least one of the value,
// colSpan or rowSpan keys; unrelated maps are stringified like any scalar.
func parseCellValue(v any) cellInfo {
	switch t := v.(type) {
	case CellValue:
		info := cellInfo{
			value:   valueToString(t.Value),
			colSpan: max(t.ColSpan, 1),
			rowSpan: max(t.RowSpan, 1),
			covered: t.Covered,
		}
		return info
	case *CellValue:
		if t != nil {
			return parseCellValue(*t)
		}
	case map[string]any:
		value, hasValue := t["value"]
		colRaw, hasCol := t["colSpan"]
		rowRaw, hasRow := t["rowSpan"]
		if hasValue || hasCol || hasRow {
			info := cellInfo{value: valueToString(value), colSpan: 1, rowSpan: 1}
			if hasCol {
				if n, ok := asInt(colRaw); ok {
					info.colSpan = n
				}
			}
			if hasRow {
				if n, ok := asInt(rowRaw); ok {
					info.rowSpan = n
				}
			}
			if info.colSpan == 0 || info.rowSpan == 0 {
				info.covered = true
				info.colSpan = 1
				info.rowSpan = 1
			}
			return info
		}
	}
	return cellInfo{value: valueToString(v), colSpan: 1, rowSpan: 1}
}

// boundColumn is a leaf column resolved for data extraction: either a plain
// field lookup or a compiled expression.
type boundColumn struct {
	title   string
	key     string
	program *vm.Program
}

// bindLeafColumns compiles computed columns once per export.
func bindLeafColumns(leaves []Column) ([]boundColumn, error) {
	bound := make([]boundColumn, 0, len(leaves))
	for _, leaf := range leaves {
		b := boundColumn{title: leaf.Title, key: leaf.Key}
		if leaf.Expr != "" {
			program, err := expr.Compile(leaf.Expr, expr.AllowUndefinedVariables())
			if err != nil {
				return nil, fmt.Errorf("column %q: compile expression %q: %w", leaf.Title, leaf.Expr, err)
			}
			b.program = program
		}
		bound = append(bound, b)
	}
	return bound, nil
}

// value resolves the column against a record. A missing field yields a nil
// value (and so an empty cell); a failing expression is a hard error.
func (b boundColumn) value(rec Record) (any, error) {
	if b.program != nil {
		out, err := expr.Run(b.program, map[string]any(rec))
		if err != nil {
			return nil, fmt.Errorf("column %q: evaluate expression: %w", b.title, err)
		}
		return out, nil
	}
	return rec[b.key], nil
}

// BuildTableData lays out records under a column tree: multi-row headers with
// their merge regions on top, one data row per record below. Cell values may
// carry CellValue merge directives; their regions are offset by the header
// height so they refer to final output rows.
func BuildTableData(columns []Column, records []Record) (*TableData, error) {
	if err := validateColumns(columns, 0); err != nil {
		return nil, err
	}
	depth := columnDepth(columns)
	headerRows, merges, err := buildHeaderRows(columns, depth)
	if err != nil {
		return nil, err
	}

	bound, err := bindLeafColumns(leafColumns(columns))
	if err != nil {
		return nil, err
	}

	rows := headerRows
	headerRowCount := len(headerRows)

	for i, rec := range records {
		row := make([]string, 0, len(bound))
		for colIdx, b := range bound {
			raw, err := b.value(rec)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i+1, err)
			}
			info := parseCellValue(raw)

			if info.covered {
				row = append(row, "")
				continue
			}
			row = append(row, info.value)

			if info.colSpan > 1 || info.rowSpan > 1 {
				firstRow := i + headerRowCount
				merges = append(merges, MergeRange{
					FirstRow: firstRow,
					FirstCol: colIdx,
					LastRow:  firstRow + info.rowSpan - 1,
					LastCol:  colIdx + info.colSpan - 1,
				})
			}
		}
		rows = append(rows, row)
	}

	return &TableData{
		Rows:           rows,
		Merges:         merges,
		HeaderRowCount: headerRowCount,
	}, nil
}

// RowsFromSlices converts raw 2D data of arbitrary scalar types into the
// string matrix the encoders consume. No spans are involved.
func RowsFromSlices(data [][]any) [][]string {
	rows := make([][]string, len(data))
	for i, src := range data {
		row := make([]string, len(src))
		for j, v := range src {
			row[j] = valueToString(v)
		}
		rows[i] = row
	}
	return rows
}

// valueToString renders a cell value the way it should appear in the export.
func valueToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case float32:
		return int(t), true
	}
	return 0, false
}
