package snapshot

import (
	"strings"
	"unicode/utf8"

	"github.com/hellenic-development/scene-extractor/pkg/oracle"
)

// El returns an element node.
func El(tag string, rect oracle.Rect, style oracle.Style, children ...*Node) *Node {
	if style == nil {
		style = oracle.Style{}
	}
	return &Node{Tag: tag, Rect: rect, Style: style, Children: children}
}

// Txt returns a text node with the given fragments.
func Txt(data string, runs ...Run) *Node {
	return &Node{Text: &data, Runs: runs}
}

// Attr sets an attribute and returns n.
func (n *Node) Attr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[key] = value
	return n
}

// WithPseudo sets the computed style of a generated box and returns n.
func (n *Node) WithPseudo(p oracle.Pseudo, st oracle.Style) *Node {
	if n.Pseudo == nil {
		n.Pseudo = map[oracle.Pseudo]oracle.Style{}
	}
	n.Pseudo[p] = st
	return n
}

// WithLayout sets the untransformed border box and returns n.
func (n *Node) WithLayout(r oracle.Rect) *Node {
	n.LayoutRect = &r
	return n
}

// Lines lays out words on successive rows starting at (x, y). Every rune is
// charW wide and every row lineH tall. The returned text node holds the
// rows joined by single spaces, so source data carries no line breaks; one
// run per word (including its trailing space) records where it rendered.
func Lines(x, y, charW, lineH float64, rows ...string) *Node {
	var (
		sb   strings.Builder
		runs []Run
		pos  int
	)
	for i, row := range rows {
		words := strings.Fields(row)
		cx := x
		for j, w := range words {
			text := w
			last := i == len(rows)-1 && j == len(words)-1
			if !last {
				text += " "
			}
			n := utf8.RuneCountInString(text)
			runs = append(runs, Run{
				Start: pos,
				End:   pos + n,
				Rects: []oracle.Rect{{X: cx, Y: y + float64(i)*lineH, W: float64(n) * charW, H: lineH}},
			})
			sb.WriteString(text)
			pos += n
			cx += float64(n) * charW
		}
	}
	return Txt(sb.String(), runs...)
}

// Rect is shorthand for an oracle.Rect literal.
func Rect(x, y, w, h float64) oracle.Rect {
	return oracle.Rect{X: x, Y: y, W: w, H: h}
}
