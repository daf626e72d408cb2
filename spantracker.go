package tablexport

type spanKey struct {
	row int // absolute source row index
	col int // output column index
}

// spanTracker holds cell text that an active rowspan has pre-filled into
// future rows. Entries are consumed exactly once, in column-ascending order,
// as later rows reach the covered positions. A tracker lives for a single
// extraction; entries left over after the last row (spans overflowing the
// table bounds) are silently dropped.
type spanTracker struct {
	pending map[spanKey]string
}

func newSpanTracker() *spanTracker {
	return &spanTracker{pending: make(map[spanKey]string)}
}

// Record pre-fills the positions covered by a cell at (row, col) with the
// given spans. The first covered column of each row carries the cell text,
// the remaining colspan columns carry empty strings. No-op when rowSpan <= 1.
func (t *spanTracker) Record(row, col, colSpan, rowSpan int, text string) {
	if rowSpan <= 1 {
		return
	}
	for r := 1; r < rowSpan; r++ {
		for c := 0; c < colSpan; c++ {
			fill := ""
			if c == 0 {
				fill = text
			}
			t.pending[spanKey{row + r, col + c}] = fill
		}
	}
}

// Take removes and returns the pending text at (row, col), if any.
func (t *spanTracker) Take(row, col int) (string, bool) {
	k := spanKey{row, col}
	text, ok := t.pending[k]
	if ok {
		delete(t.pending, k)
	}
	return text, ok
}
