package snapshot

import (
	"maps"

	"github.com/hellenic-development/scene-extractor/pkg/oracle"
)

type element struct {
	doc      *Document
	node     *Node
	parent   *element
	self     oracle.Element
	children []oracle.Node
	override map[string]string
}

func (e *element) base() *element { return e }

func (e *element) NodeType() oracle.NodeType { return oracle.ElementNode }

func (e *element) Tag() string { return e.node.Tag }

func (e *element) Attr(name string) (string, bool) {
	v, ok := e.node.Attrs[name]
	return v, ok
}

func (e *element) Attrs() map[string]string { return maps.Clone(e.node.Attrs) }

func (e *element) Parent() oracle.Element {
	if e.parent == nil {
		return nil
	}
	return e.parent.self
}

func (e *element) ChildNodes() []oracle.Node {
	out := make([]oracle.Node, len(e.children))
	copy(out, e.children)
	return out
}

func (e *element) ComputedStyle(p oracle.Pseudo) oracle.Style {
	if p != oracle.PseudoNone {
		st, ok := e.node.Pseudo[p]
		if !ok {
			return nil
		}
		return maps.Clone(st)
	}
	st := maps.Clone(e.node.Style)
	if st == nil {
		st = oracle.Style{}
	}
	maps.Copy(st, e.override)
	return st
}

func (e *element) Rect() oracle.Rect {
	if e.node.LayoutRect != nil && e.neutralized() {
		return *e.node.LayoutRect
	}
	return e.node.Rect
}

// neutralized reports whether the transform of e or of an ancestor is
// currently overridden to none.
func (e *element) neutralized() bool {
	for p := e; p != nil; p = p.parent {
		if p.override["transform"] == "none" {
			return true
		}
	}
	return false
}

type textNode struct {
	node   *Node
	parent *element
}

func (t *textNode) NodeType() oracle.NodeType { return oracle.TextNode }

func (t *textNode) Data() string { return *t.node.Text }

// RangeRects collects the fragments overlapping [start, end). A fragment
// that is only partly covered, and rendered as a single rectangle, is cut
// proportionally to the covered runes.
func (t *textNode) RangeRects(start, end int) []oracle.Rect {
	layout := t.parent != nil && t.parent.neutralized()
	var out []oracle.Rect
	for _, r := range t.node.Runs {
		lo, hi := max(start, r.Start), min(end, r.End)
		if lo >= hi {
			continue
		}
		rects := r.Rects
		if layout && len(r.LayoutRects) > 0 {
			rects = r.LayoutRects
		}
		if (lo == r.Start && hi == r.End) || len(rects) != 1 {
			out = append(out, rects...)
			continue
		}
		span := float64(r.End - r.Start)
		f0 := float64(lo-r.Start) / span
		f1 := float64(hi-r.Start) / span
		rr := rects[0]
		out = append(out, oracle.Rect{X: rr.X + f0*rr.W, Y: rr.Y, W: (f1 - f0) * rr.W, H: rr.H})
	}
	return out
}
