package tablexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTableDataFromTreeIndentsByDepth(t *testing.T) {
	cols := []Column{
		{Title: "Name", Key: "name"},
		{Title: "Count", Key: "count"},
	}
	records := []Record{
		{
			"name": "root", "count": 3,
			"children": []any{
				map[string]any{
					"name": "child", "count": 2,
					"children": []any{
						map[string]any{"name": "leaf", "count": 1},
					},
				},
			},
		},
		{"name": "sibling", "count": 0},
	}

	td, err := BuildTableDataFromTree(cols, records, "name", "")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Name", "Count"},
		{"root", "3"},
		{"    child", "2"},
		{"        leaf", "1"},
		{"sibling", "0"},
	}, td.Rows)
}

func TestBuildTableDataFromTreeOnlyIndentColumnShifts(t *testing.T) {
	cols := []Column{
		{Title: "Name", Key: "name"},
		{Title: "Note", Key: "note"},
	}
	records := []Record{
		{
			"name": "a", "note": "top",
			"children": []Record{{"name": "b", "note": "nested"}},
		},
	}

	td, err := BuildTableDataFromTree(cols, records, "name", "children")
	require.NoError(t, err)
	// The non-indent column keeps its text untouched at every depth.
	assert.Equal(t, []string{"    b", "nested"}, td.Rows[2])
}

func TestBuildTableDataFromTreeCustomChildrenKey(t *testing.T) {
	cols := []Column{{Title: "Name", Key: "name"}}
	records := []Record{
		{
			"name":  "parent",
			"items": []Record{{"name": "child"}},
			// A stray field under the default key must be ignored.
			"children": []Record{{"name": "wrong"}},
		},
	}

	td, err := BuildTableDataFromTree(cols, records, "name", "items")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Name"},
		{"parent"},
		{"    child"},
	}, td.Rows)
}

func TestBuildTableDataFromTreeNoIndentColumn(t *testing.T) {
	cols := []Column{{Title: "Name", Key: "name"}}
	records := []Record{
		{"name": "a", "children": []Record{{"name": "b"}}},
	}

	td, err := BuildTableDataFromTree(cols, records, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, td.Rows[2])
}

func TestBuildTableDataFromTreeDepthCap(t *testing.T) {
	cols := []Column{{Title: "Name", Key: "name"}}

	// Self-referential record: flattening must stop at the depth cap rather
	// than recurse forever.
	rec := Record{"name": "cycle"}
	rec["children"] = []Record{rec}

	_, err := BuildTableDataFromTree(cols, []Record{rec}, "name", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting exceeds")
}

func TestChildRecordsCoercion(t *testing.T) {
	assert.Nil(t, childRecords(nil))
	assert.Nil(t, childRecords("not a list"))
	assert.Len(t, childRecords([]Record{{}}), 1)
	assert.Len(t, childRecords([]any{map[string]any{}, "junk"}), 1)
}
