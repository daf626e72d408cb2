package tablexport

import (
	"fmt"
)

const (
	// maxTreeDepth bounds recursion over caller-supplied trees, so cyclic or
	// adversarially deep configurations cannot exhaust the stack.
	maxTreeDepth = 64

	// maxHeaderCells bounds the header matrix allocation.
	maxHeaderCells = 100_000
)

// Column is one node of a column-definition tree. A node with children is a
// group header spanning its leaves; a node without children is a leaf and
// must carry either Key (a record field name) or Expr (an expr-lang
// expression evaluated against the record). Depth-first leaf order defines
// the output column order.
type Column struct {
	Title    string   `yaml:"title" json:"title"`
	Key      string   `yaml:"key,omitempty" json:"key,omitempty"`
	Expr     string   `yaml:"expr,omitempty" json:"expr,omitempty"`
	Children []Column `yaml:"children,omitempty" json:"children,omitempty"`
}

func (c Column) isLeaf() bool { return len(c.Children) == 0 }

// validateColumns checks the tree shape: non-empty, every leaf bound to a key
// or expression, nesting within maxTreeDepth.
func validateColumns(cols []Column, depth int) error {
	if depth >= maxTreeDepth {
		return fmt.Errorf("column nesting exceeds the maximum of %d levels; check for cyclic configuration", maxTreeDepth)
	}
	if len(cols) == 0 {
		return fmt.Errorf("column list must not be empty")
	}
	for i, c := range cols {
		if c.Title == "" {
			return fmt.Errorf("column %d is missing a title", i+1)
		}
		if c.isLeaf() {
			if c.Key == "" && c.Expr == "" {
				return fmt.Errorf("leaf column %q needs a key or an expr", c.Title)
			}
			continue
		}
		if err := validateColumns(c.Children, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// columnDepth returns the maximum depth of the tree: 1 for a flat list of
// leaves.
func columnDepth(cols []Column) int {
	depth := 0
	for _, c := range cols {
		d := 1
		if !c.isLeaf() {
			d = 1 + columnDepth(c.Children)
		}
		if d > depth {
			depth = d
		}
	}
	return depth
}

// leafCount returns the number of leaves under a node, which is the node's
// effective colspan in the header.
func leafCount(c Column) int {
	if c.isLeaf() {
		return 1
	}
	n := 0
	for _, child := range c.Children {
		n += leafCount(child)
	}
	return n
}

// leafColumns collects the leaves depth-first, left to right. Their order is
// the output column order and aligns 1:1 with emitted data columns.
func leafColumns(cols []Column) []Column {
	var leaves []Column
	for _, c := range cols {
		if c.isLeaf() {
			leaves = append(leaves, c)
			continue
		}
		leaves = append(leaves, leafColumns(c.Children)...)
	}
	return leaves
}

// buildHeaderRows lays the column tree out as maxDepth header rows of width
// total-leaf-count and derives the header merge regions: a leaf at row r
// stretches down with rowspan maxDepth-r, a group spans its leaf count.
func buildHeaderRows(cols []Column, maxDepth int) ([][]string, []MergeRange, error) {
	totalCols := 0
	for _, c := range cols {
		totalCols += leafCount(c)
	}
	if totalCols*maxDepth > maxHeaderCells {
		return nil, nil, fmt.Errorf("header too large (%d x %d exceeds the %d cell limit)", totalCols, maxDepth, maxHeaderCells)
	}

	headerRows := make([][]string, maxDepth)
	for i := range headerRows {
		headerRows[i] = make([]string, totalCols)
	}
	var merges []MergeRange

	fillHeaderCells(cols, 0, 0, maxDepth, headerRows, &merges)
	return headerRows, merges, nil
}

// fillHeaderCells recursively places node titles and records merges, returning
// the number of columns consumed.
func fillHeaderCells(cols []Column, row, colStart, maxDepth int, headerRows [][]string, merges *[]MergeRange) int {
	col := colStart

	for _, c := range cols {
		if c.isLeaf() {
			rowSpan := maxDepth - row
			headerRows[row][col] = c.Title
			if rowSpan > 1 {
				*merges = append(*merges, MergeRange{
					FirstRow: row,
					FirstCol: col,
					LastRow:  row + rowSpan - 1,
					LastCol:  col,
				})
			}
			col++
			continue
		}

		width := leafCount(c)
		headerRows[row][col] = c.Title
		if width > 1 {
			*merges = append(*merges, MergeRange{
				FirstRow: row,
				FirstCol: col,
				LastRow:  row,
				LastCol:  col + width - 1,
			})
		}
		fillHeaderCells(c.Children, row+1, col, maxDepth, headerRows, merges)
		col += width
	}

	return col - colStart
}
