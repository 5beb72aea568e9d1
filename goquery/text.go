package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/techdoc"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockElements start and end on their own line when flattened.
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Body: true, atom.Caption: true, atom.Dd: true, atom.Details: true,
	atom.Div: true, atom.Dl: true, atom.Dt: true, atom.Fieldset: true,
	atom.Figcaption: true, atom.Figure: true, atom.Footer: true, atom.Form: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true, atom.Summary: true,
	atom.Table: true, atom.Tbody: true, atom.Tfoot: true, atom.Thead: true, atom.Tr: true,
	atom.Ul: true,
}

// skippedElements contribute no text.
var skippedElements = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true, atom.Noscript: true,
	atom.Template: true, atom.Svg: true, atom.Iframe: true,
}

// PlainText flattens HTML into text. Block elements become line breaks,
// table cells are separated by spaces, and <pre> keeps its line structure.
// Whitespace runs outside <pre> collapse to one space.
func PlainText(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", techdoc.Errorf(techdoc.EINVALID, "failed to parse HTML: %v", err)
	}

	w := &textWriter{}
	for _, n := range doc.Nodes {
		w.walk(n, false)
	}
	return strings.TrimSpace(w.String()), nil
}

// textWriter accumulates flattened text. Spaces are emitted lazily so that
// line breaks never carry leading or trailing whitespace.
type textWriter struct {
	buf          []byte
	pendingSpace bool
}

func (w *textWriter) walk(n *html.Node, inPre bool) {
	switch n.Type {
	case html.TextNode:
		if inPre {
			w.flushSpace()
			w.buf = append(w.buf, n.Data...)
			return
		}
		w.writeCollapsed(n.Data)
		return
	case html.ElementNode:
		if skippedElements[n.DataAtom] {
			return
		}
		switch n.DataAtom {
		case atom.Br:
			w.newline()
			return
		case atom.Td, atom.Th:
			w.space()
		}
	case html.DocumentNode:
	default:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		w.newline()
	}
	pre := inPre || n.DataAtom == atom.Pre
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, pre)
	}
	if block {
		w.newline()
	}
}

func (w *textWriter) writeCollapsed(s string) {
	if s == "" {
		return
	}
	if isSpace(s[0]) {
		w.space()
	}
	fields := strings.Fields(s)
	for i, f := range fields {
		if i > 0 {
			w.space()
		}
		w.flushSpace()
		w.buf = append(w.buf, f...)
	}
	if len(fields) > 0 && isSpace(s[len(s)-1]) {
		w.space()
	}
}

// space requests a separator before the next word on the same line.
func (w *textWriter) space() {
	if len(w.buf) > 0 && w.buf[len(w.buf)-1] != '\n' {
		w.pendingSpace = true
	}
}

func (w *textWriter) flushSpace() {
	if w.pendingSpace {
		w.buf = append(w.buf, ' ')
		w.pendingSpace = false
	}
}

// newline ends the current line unless it is already empty.
func (w *textWriter) newline() {
	w.pendingSpace = false
	if len(w.buf) > 0 && w.buf[len(w.buf)-1] != '\n' {
		w.buf = append(w.buf, '\n')
	}
}

func (w *textWriter) String() string {
	return string(w.buf)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
