package tablexport

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Document wraps a parsed HTML document and provides table lookup by element
// id. It plays the role a browser document would: the grid walk itself only
// ever sees the RowSource returned by ResolveTable.
type Document struct {
	root *html.Node
}

// ParseDocument parses an HTML document from r.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseDocumentString parses an HTML document from a string.
func ParseDocumentString(s string) (*Document, error) {
	return ParseDocument(strings.NewReader(s))
}

// ResolveTable finds the table for the given element id. The id may point at
// a <table> directly, or at a container element whose first descendant
// <table> is used.
func (d *Document) ResolveTable(id string) (*HTMLTable, error) {
	if id == "" {
		return nil, fmt.Errorf("table id must not be empty")
	}
	el := findByID(d.root, id)
	if el == nil {
		return nil, fmt.Errorf("no element with id %q", id)
	}
	table := el
	if !isElement(el, "table") {
		table = findElement(el, "table")
		if table == nil {
			return nil, fmt.Errorf("element %q is not a table and contains no <table>", id)
		}
	}
	return newHTMLTable(table), nil
}

// HTMLTable adapts a parsed <table> element to RowSource. Rows are ordered
// the way a browser orders table.rows: thead rows first, then body rows, then
// tfoot rows.
type HTMLTable struct {
	rows       []*html.Node
	headerRows int
}

func newHTMLTable(table *html.Node) *HTMLTable {
	t := &HTMLTable{}

	var head, body, foot []*html.Node
	collectRows(table, &head, &body, &foot)

	t.rows = append(t.rows, head...)
	t.rows = append(t.rows, body...)
	t.rows = append(t.rows, foot...)
	t.headerRows = len(head)
	return t
}

// collectRows gathers tr nodes grouped by section. tr elements that sit
// directly under the table (no tbody) count as body rows.
func collectRows(table *html.Node, head, body, foot *[]*html.Node) {
	for section := table.FirstChild; section != nil; section = section.NextSibling {
		if section.Type != html.ElementNode {
			continue
		}
		switch section.Data {
		case "thead":
			appendRows(section, head)
		case "tbody":
			appendRows(section, body)
		case "tfoot":
			appendRows(section, foot)
		case "tr":
			*body = append(*body, section)
		}
	}
}

func appendRows(section *html.Node, out *[]*html.Node) {
	for n := section.FirstChild; n != nil; n = n.NextSibling {
		if isElement(n, "tr") {
			*out = append(*out, n)
		}
	}
}

func (t *HTMLTable) RowCount() int { return len(t.rows) }

func (t *HTMLTable) HeaderRowCount() int { return t.headerRows }

func (t *HTMLTable) Row(i int) ([]Cell, error) {
	if i < 0 || i >= len(t.rows) {
		return nil, errRowOutOfRange(i)
	}
	var cells []Cell
	for n := t.rows[i].FirstChild; n != nil; n = n.NextSibling {
		if !isElement(n, "td") && !isElement(n, "th") {
			continue
		}
		cells = append(cells, Cell{
			Text:    innerText(n),
			ColSpan: spanAttr(n, "colspan"),
			RowSpan: spanAttr(n, "rowspan"),
			Hidden:  isHiddenNode(n),
		})
	}
	return cells, nil
}

func (t *HTMLTable) RowHidden(i int) (bool, error) {
	if i < 0 || i >= len(t.rows) {
		return false, errRowOutOfRange(i)
	}
	return isHiddenNode(t.rows[i]), nil
}

// findByID returns the first element with the given id attribute.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attrVal(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// findElement returns the first descendant element with the given tag name.
func findElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, tag) {
			return c
		}
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}

// spanAttr reads a colspan/rowspan attribute, defaulting to 1 for absent or
// invalid values.
func spanAttr(n *html.Node, key string) int {
	v := strings.TrimSpace(attrVal(n, key))
	if v == "" {
		return 1
	}
	span, err := strconv.Atoi(v)
	if err != nil || span < 1 {
		return 1
	}
	return span
}

// isHiddenNode reports whether an element is hidden via the hidden attribute
// or an inline display:none style. Without a live layout engine this is the
// closest equivalent of a computed-style check.
func isHiddenNode(n *html.Node) bool {
	if hasAttr(n, "hidden") {
		return true
	}
	style := strings.ToLower(attrVal(n, "style"))
	style = strings.ReplaceAll(style, " ", "")
	return strings.Contains(style, "display:none")
}

// innerText concatenates the text content of a node, collapsing runs of
// whitespace the way rendered text does. Script and style bodies are skipped.
func innerText(n *html.Node) string {
	var b strings.Builder
	collectText(n, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
