// Package oracle defines the read (and scoped-write) surface the extractor
// needs from a renderer: computed styles, resolved geometry, sub-range text
// rectangles, outline sampling and font state.
//
// The extractor never computes layout itself. Anything that can answer these
// questions (a live browser bridge, a recorded snapshot, a test fixture) can
// drive an extraction.
package oracle

import (
	"context"
	"strings"
)

// NodeType distinguishes element nodes from text nodes.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Node is either an Element or a Text.
type Node interface {
	NodeType() NodeType
}

// Text is a run of character data owned by an element.
type Text interface {
	Node
	Data() string
	// RangeRects returns the rendered rectangles covering the rune range
	// [start, end) of Data, in root-relative coordinates. Collapsed
	// whitespace may yield no rectangles.
	RangeRects(start, end int) []Rect
}

// Pseudo selects a generated-content box of an element.
type Pseudo string

const (
	PseudoNone   Pseudo = ""
	PseudoBefore Pseudo = "::before"
	PseudoAfter  Pseudo = "::after"
)

// Element is a rendered element of the visual tree.
type Element interface {
	Node
	// Tag returns the lower-case tag name.
	Tag() string
	Attr(name string) (string, bool)
	// Parent returns the parent element, or nil at the document root.
	Parent() Element
	ChildNodes() []Node
	// ComputedStyle returns the resolved style of the element or of one of
	// its generated boxes. A nil Style means the pseudo box does not exist.
	ComputedStyle(p Pseudo) Style
	// Rect returns the border box in root-relative coordinates, as
	// currently rendered.
	Rect() Rect
}

// Geometry is implemented by vector primitives that can be sampled along
// their outline.
type Geometry interface {
	TotalLength() (float64, error)
	PointAtLength(d float64) (x, y float64, err error)
}

// Subpath is one connected piece of an outline.
type Subpath struct {
	Geometry
	Closed bool
}

// Compound is implemented by geometries whose outline may consist of
// several disconnected subpaths. Sampling each one separately avoids the
// bridge a single walk would draw between them.
type Compound interface {
	Subpaths() ([]Subpath, error)
}

// Attributed is implemented by elements that can enumerate their
// attributes.
type Attributed interface {
	Attrs() map[string]string
}

// FontFace is an entry of the renderer's active font set.
type FontFace struct {
	Family string
	Weight string
	Style  string
	Source string
	Status string
}

// StyleSource is a style sheet known to the renderer. Linked sheets carry an
// Href; inline blocks carry Text.
type StyleSource struct {
	Href string
	Text string
}

// Probe describes a temporary measurement element.
type Probe struct {
	Text  string
	Style Style
}

// Context is the document-wide half of the oracle.
type Context interface {
	// FontsReady blocks until the renderer reports that web fonts have
	// settled.
	FontsReady(ctx context.Context) error
	FontFaces() []FontFace
	StyleSources() []StyleSource
	// Markup returns the source document, if known. It may be empty.
	Markup() string
	// Viewport returns the source viewport size.
	Viewport() (w, h float64)
	// Lookup resolves an element by id anywhere in the document.
	Lookup(id string) (Element, bool)
	// SetStyle overrides one inline style property of el. The returned
	// restore func reverts the override.
	SetStyle(el Element, prop, value string) (restore func(), err error)
	// InsertProbe appends a hidden, off-screen element to parent. The
	// returned remove func detaches it again.
	InsertProbe(parent Element, p Probe) (probe Element, remove func(), err error)
}

// Style is a computed style: property name to resolved string value.
type Style map[string]string

// Get returns the trimmed value of prop, or "" when absent.
func (s Style) Get(prop string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(s[prop])
}

// First returns the first non-empty value among props.
func (s Style) First(props ...string) string {
	for _, p := range props {
		if v := s.Get(p); v != "" {
			return v
		}
	}
	return ""
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Union returns the smallest rectangle containing r and o. An empty
// operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.W <= 0 && r.H <= 0 {
		return o
	}
	if o.W <= 0 && o.H <= 0 {
		return r
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.Right(), o.Right())
	y1 := max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// TextContent concatenates all text below el in document order.
func TextContent(el Element) string {
	var sb strings.Builder
	var walk func(Element)
	walk = func(e Element) {
		for _, c := range e.ChildNodes() {
			switch n := c.(type) {
			case Text:
				sb.WriteString(n.Data())
			case Element:
				walk(n)
			}
		}
	}
	walk(el)
	return sb.String()
}

// ChildElements returns the element children of el.
func ChildElements(el Element) []Element {
	var out []Element
	for _, c := range el.ChildNodes() {
		if e, ok := c.(Element); ok {
			out = append(out, e)
		}
	}
	return out
}
