package tablexport

// RowSource is the abstract table the grid walk reads from. Implementations
// exist for parsed HTML tables (HTMLTable) and in-memory data (SliceSource);
// the extraction algorithm never touches a document directly.
type RowSource interface {
	// RowCount returns the number of physical rows.
	RowCount() int
	// Row returns the physical cells of row i (0-based). An error means the
	// row cannot be read at all and aborts the extraction.
	Row(i int) ([]Cell, error)
	// RowHidden reports whether row i is hidden. It must be cheap: the merge
	// computation scans forward over rows covered by a rowspan.
	RowHidden(i int) (bool, error)
}

// HeaderCounter is implemented by sources that know how many leading rows
// belong to the table header (an HTML thead, for instance). ExtractWithMerges
// uses it to fill TableData.HeaderRowCount.
type HeaderCounter interface {
	HeaderRowCount() int
}

// SliceSource adapts an in-memory cell grid to RowSource.
type SliceSource struct {
	Cells      [][]Cell
	HiddenRows map[int]bool
	HeaderRows int
}

func (s *SliceSource) RowCount() int { return len(s.Cells) }

func (s *SliceSource) Row(i int) ([]Cell, error) {
	if i < 0 || i >= len(s.Cells) {
		return nil, errRowOutOfRange(i)
	}
	return s.Cells[i], nil
}

func (s *SliceSource) RowHidden(i int) (bool, error) {
	if i < 0 || i >= len(s.Cells) {
		return false, errRowOutOfRange(i)
	}
	return s.HiddenRows[i], nil
}

func (s *SliceSource) HeaderRowCount() int { return s.HeaderRows }
