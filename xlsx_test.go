package tablexport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func reopenWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWriteXLSXCellsAndMerges(t *testing.T) {
	td := &TableData{
		Rows: [][]string{
			{"Header", "", "Other"},
			{"a", "b", "c"},
		},
		Merges:         []MergeRange{{FirstRow: 0, FirstCol: 0, LastRow: 0, LastCol: 1}},
		HeaderRowCount: 1,
	}

	var buf bytes.Buffer
	o := defaultOptions()
	require.NoError(t, writeXLSX(&buf, []Sheet{{Data: td}}, o, nil))

	f := reopenWorkbook(t, &buf)
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())

	v, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Header", v)
	v, err = f.GetCellValue("Sheet1", "B2")
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	merges, err := f.GetMergeCells("Sheet1")
	require.NoError(t, err)
	require.Len(t, merges, 1)
	assert.Equal(t, "A1", merges[0].GetStartAxis())
	assert.Equal(t, "B1", merges[0].GetEndAxis())
	assert.Equal(t, "Header", merges[0].GetCellValue())
}

func TestWriteXLSXFormulaStaysText(t *testing.T) {
	td := &TableData{Rows: [][]string{{"=1+1"}}}

	var buf bytes.Buffer
	require.NoError(t, writeXLSX(&buf, []Sheet{{Data: td}}, defaultOptions(), nil))

	f := reopenWorkbook(t, &buf)
	v, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "=1+1", v)
	formula, err := f.GetCellFormula("Sheet1", "A1")
	require.NoError(t, err)
	assert.Empty(t, formula)
}

func TestWriteXLSXMultipleSheets(t *testing.T) {
	one := &TableData{Rows: [][]string{{"first"}}}
	two := &TableData{Rows: [][]string{{"second"}}}

	var buf bytes.Buffer
	sheets := []Sheet{
		{Name: "Summary", Data: one},
		{Data: two},
	}
	require.NoError(t, writeXLSX(&buf, sheets, defaultOptions(), nil))

	f := reopenWorkbook(t, &buf)
	assert.Equal(t, []string{"Summary", "Sheet2"}, f.GetSheetList())

	v, err := f.GetCellValue("Sheet2", "A1")
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}

func TestWriteXLSXFreezesHeaderRows(t *testing.T) {
	td := &TableData{
		Rows:           [][]string{{"H"}, {"a"}},
		HeaderRowCount: 1,
	}

	var buf bytes.Buffer
	require.NoError(t, writeXLSX(&buf, []Sheet{{Data: td}}, defaultOptions(), nil))

	f := reopenWorkbook(t, &buf)
	panes, err := f.GetPanes("Sheet1")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
	assert.Equal(t, 0, panes.XSplit)
}

func TestWriteXLSXFreezeOverride(t *testing.T) {
	td := &TableData{Rows: [][]string{{"a", "b"}, {"c", "d"}}}

	o := defaultOptions()
	WithFreezePanes(2, 1)(o)

	var buf bytes.Buffer
	require.NoError(t, writeXLSX(&buf, []Sheet{{Data: td}}, o, nil))

	f := reopenWorkbook(t, &buf)
	panes, err := f.GetPanes("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, 2, panes.YSplit)
	assert.Equal(t, 1, panes.XSplit)
}

func TestWriteXLSXColumnLimit(t *testing.T) {
	row := make([]string, excelMaxColumns+1)
	td := &TableData{Rows: [][]string{row}}

	var buf bytes.Buffer
	err := writeXLSX(&buf, []Sheet{{Data: td}}, defaultOptions(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column limit")
}

func TestWriteXLSXEmptySheet(t *testing.T) {
	var buf bytes.Buffer
	err := writeXLSX(&buf, []Sheet{{Data: &TableData{}}}, defaultOptions(), nil)
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestWriteXLSXProgressSequence(t *testing.T) {
	var reports []float64
	rep := &reporter{sink: ProgressFunc(func(p float64) error {
		reports = append(reports, p)
		return nil
	})}

	td := &TableData{Rows: [][]string{{"a"}, {"b"}, {"c"}}}
	var buf bytes.Buffer
	require.NoError(t, writeXLSX(&buf, []Sheet{{Data: td}}, defaultOptions(), rep))

	require.NotEmpty(t, reports)
	assert.Equal(t, 0.0, reports[0])
	assert.Equal(t, 100.0, reports[len(reports)-1])
	for i := 1; i < len(reports); i++ {
		assert.GreaterOrEqual(t, reports[i], reports[i-1])
	}
}
