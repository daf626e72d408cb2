package tablexport

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleTableHTML = `<table id="simple">
	<tr><td>A</td><td>B</td></tr>
	<tr><td>C</td><td>D</td></tr>
</table>`

func TestExportTableCSV(t *testing.T) {
	doc := mustParse(t, simpleTableHTML)

	var buf bytes.Buffer
	require.NoError(t, ExportTable(doc, "simple", &buf))
	assert.Equal(t, "A,B\r\nC,D\r\n", buf.String())
}

func TestExportTableBytes(t *testing.T) {
	doc := mustParse(t, simpleTableHTML)

	data, err := ExportTableBytes(doc, "simple", WithBOM(true))
	require.NoError(t, err)
	assert.Equal(t, append([]byte{0xEF, 0xBB, 0xBF}, []byte("A,B\r\nC,D\r\n")...), data)
}

func TestExportTableXLSX(t *testing.T) {
	doc := mustParse(t, `<table id="t">
		<thead><tr><th rowspan="2">Name</th><th colspan="2">Contact</th></tr>
		<tr><th>Email</th><th>Phone</th></tr></thead>
		<tbody><tr><td>Ada</td><td>ada@example.com</td><td>555</td></tr></tbody>
	</table>`)

	var buf bytes.Buffer
	require.NoError(t, ExportTable(doc, "t", &buf, WithFormat(FormatXLSX)))

	f := reopenWorkbook(t, &buf)
	v, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Name", v)

	merges, err := f.GetMergeCells("Sheet1")
	require.NoError(t, err)
	assert.Len(t, merges, 2)

	// Both thead rows are frozen.
	panes, err := f.GetPanes("Sheet1")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 2, panes.YSplit)
}

func TestExportTableUnknownID(t *testing.T) {
	doc := mustParse(t, simpleTableHTML)
	var buf bytes.Buffer
	err := ExportTable(doc, "nope", &buf)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestExportTableFileAppendsExtension(t *testing.T) {
	t.Chdir(t.TempDir())
	doc := mustParse(t, simpleTableHTML)

	name, err := ExportTableFile(doc, "simple", WithFilename("report"))
	require.NoError(t, err)
	assert.Equal(t, "report.csv", name)

	data, err := os.ReadFile("report.csv")
	require.NoError(t, err)
	assert.Equal(t, "A,B\r\nC,D\r\n", string(data))
}

func TestExportTableFileDefaultName(t *testing.T) {
	t.Chdir(t.TempDir())
	doc := mustParse(t, simpleTableHTML)

	name, err := ExportTableFile(doc, "simple")
	require.NoError(t, err)
	assert.Equal(t, "table_export.csv", name)
}

func TestExportTableFileRejectsTraversal(t *testing.T) {
	t.Chdir(t.TempDir())
	doc := mustParse(t, simpleTableHTML)

	_, err := ExportTableFile(doc, "simple", WithFilename("../evil"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path separators")

	entries, err := os.ReadDir(".")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportTableFileCleansUpOnFailure(t *testing.T) {
	t.Chdir(t.TempDir())
	doc := mustParse(t, `<table id="empty"></table>`)

	_, err := ExportTableFile(doc, "empty", WithFilename("partial"))
	require.Error(t, err)

	_, statErr := os.Stat("partial.csv")
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportRows(t *testing.T) {
	var buf bytes.Buffer
	err := ExportRows([][]string{{"x", "y"}}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "x,y\r\n", buf.String())
}

func TestExportRecordsXLSXWithHeaderMerges(t *testing.T) {
	cols := nestedColumns()
	records := []Record{
		{"name": "Ada", "email": "ada@example.com", "phone": "555"},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportRecords(cols, records, &buf,
		WithFormat(FormatXLSX), WithSheetName("People")))

	f := reopenWorkbook(t, &buf)
	assert.Equal(t, []string{"People"}, f.GetSheetList())

	merges, err := f.GetMergeCells("People")
	require.NoError(t, err)
	assert.Len(t, merges, 2)

	v, err := f.GetCellValue("People", "B3")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", v)
}

func TestExportTreeCSV(t *testing.T) {
	cols := []Column{{Title: "Name", Key: "name"}}
	records := []Record{
		{"name": "top", "children": []Record{{"name": "sub"}}},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportTree(cols, records, &buf, WithIndentColumn("name")))
	// Fields with leading spaces come out quoted.
	assert.Equal(t, "Name\r\ntop\r\n\"    sub\"\r\n", buf.String())
}

func TestExportTablesXLSX(t *testing.T) {
	doc := mustParse(t, `
		<table id="one"><tr><td>first</td></tr></table>
		<table id="two"><tr><td>second</td></tr></table>`)

	var buf bytes.Buffer
	configs := []SheetConfig{
		{TableID: "one", SheetName: "First"},
		{TableID: "two"},
	}
	require.NoError(t, ExportTablesXLSX(doc, configs, &buf))

	f := reopenWorkbook(t, &buf)
	assert.Equal(t, []string{"First", "Sheet2"}, f.GetSheetList())

	v, err := f.GetCellValue("Sheet2", "A1")
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}

func TestExportInvalidOptions(t *testing.T) {
	var buf bytes.Buffer
	err := ExportRows([][]string{{"a"}}, &buf, WithBatchSize(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch size")
}
