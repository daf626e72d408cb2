package tablexport

import (
	"fmt"
	"strings"
)

// indentUnit is prepended once per nesting level to the designated indent
// column when flattening record trees.
const indentUnit = "    "

// DefaultChildrenKey is the record field searched for child records when no
// other key is configured.
const DefaultChildrenKey = "children"

// BuildTableDataFromTree flattens a tree of records depth-first under a
// column tree: headers on top, then one row per record in pre-order, children
// following their parent. When indentKey names a leaf column, that column's
// text is indented by the record's nesting depth.
func BuildTableDataFromTree(columns []Column, records []Record, indentKey, childrenKey string) (*TableData, error) {
	if err := validateColumns(columns, 0); err != nil {
		return nil, err
	}
	if childrenKey == "" {
		childrenKey = DefaultChildrenKey
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
	if err := flattenTree(records, bound, indentKey, childrenKey, 0, &rows); err != nil {
		return nil, err
	}

	return &TableData{
		Rows:           rows,
		Merges:         merges,
		HeaderRowCount: headerRowCount,
	}, nil
}

// flattenTree appends one row per record in pre-order, recursing into the
// children field. The depth cap guards against cyclic record structures.
func flattenTree(records []Record, bound []boundColumn, indentKey, childrenKey string, depth int, rows *[][]string) error {
	if depth >= maxTreeDepth {
		return fmt.Errorf("record nesting exceeds the maximum of %d levels; check for cyclic data", maxTreeDepth)
	}

	for i, rec := range records {
		row := make([]string, 0, len(bound))
		for _, b := range bound {
			raw, err := b.value(rec)
			if err != nil {
				return fmt.Errorf("record %d at depth %d: %w", i+1, depth, err)
			}
			text := valueToString(raw)
			if indentKey != "" && b.key == indentKey && depth > 0 {
				text = indentFor(depth) + text
			}
			row = append(row, text)
		}
		*rows = append(*rows, row)

		children := childRecords(rec[childrenKey])
		if len(children) > 0 {
			if err := flattenTree(children, bound, indentKey, childrenKey, depth+1, rows); err != nil {
				return err
			}
		}
	}
	return nil
}

func indentFor(depth int) string {
	return strings.Repeat(indentUnit, depth)
}

// childRecords coerces a children field into a record list. Values that are
// not record lists yield nothing, matching the leniency of absent children.
func childRecords(v any) []Record {
	switch t := v.(type) {
	case nil:
		return nil
	case []Record:
		return t
	case []any:
		var out []Record
		for _, item := range t {
			if rec, ok := item.(map[string]any); ok {
				out = append(out, rec)
			}
		}
		return out
	}
	return nil
}
