package tablexport

// Cell is one physical cell as supplied by a RowSource. ColSpan and RowSpan
// values below 1 are treated as 1.
type Cell struct {
	Text    string
	ColSpan int
	RowSpan int
	Hidden  bool
}

// MergeRange is a rectangular merge region in output coordinates (0-based,
// inclusive, counted after hidden rows and columns have been dropped).
// FirstRow <= LastRow and FirstCol <= LastCol always hold; a 1x1 region is
// never produced.
type MergeRange struct {
	FirstRow int
	FirstCol int
	LastRow  int
	LastCol  int
}

// TableData is the reconstructed dense grid of a table: one string per
// logical cell, the merge regions to re-apply in spreadsheet output, and the
// number of leading header rows (used for freeze-pane placement).
type TableData struct {
	Rows           [][]string
	Merges         []MergeRange
	HeaderRowCount int
}

// Sheet pairs a worksheet name with its table data for multi-sheet XLSX
// output.
type Sheet struct {
	Name string
	Data *TableData
}
