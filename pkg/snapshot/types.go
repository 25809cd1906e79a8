// Package snapshot implements the style and geometry oracle on top of a
// recorded rendering: a JSON document in which the renderer has already
// resolved every computed style, border box and text fragment rectangle.
//
// A snapshot can also be assembled in memory with the builder helpers,
// which is how fixtures for the extractor are written.
package snapshot

import "github.com/hellenic-development/scene-extractor/pkg/oracle"

// Snapshot is the root of a recorded rendering.
type Snapshot struct {
	ID           string               `json:"id,omitempty"`
	Viewport     Size                 `json:"viewport"`
	Markup       string               `json:"markup,omitempty"`
	Fonts        []oracle.FontFace    `json:"fonts,omitempty"`
	StyleSources []oracle.StyleSource `json:"styleSources,omitempty"`
	Root         *Node                `json:"root"`
}

// Size is a width and height in source pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Node is an element or, when Text is set, a text node.
type Node struct {
	Tag    string                        `json:"tag,omitempty"`
	Attrs  map[string]string             `json:"attrs,omitempty"`
	Style  oracle.Style                  `json:"style,omitempty"`
	Pseudo map[oracle.Pseudo]oracle.Style `json:"pseudo,omitempty"`
	Rect   oracle.Rect                   `json:"rect"`
	// LayoutRect is the border box with the element's own transform
	// removed. It is reported while the transform of the element or of
	// one of its ancestors is overridden to "none".
	LayoutRect *oracle.Rect `json:"layoutRect,omitempty"`
	Children   []*Node      `json:"children,omitempty"`

	Text *string `json:"text,omitempty"`
	Runs []Run   `json:"runs,omitempty"`
}

// Run is a rendered fragment of a text node covering the rune range
// [Start, End).
type Run struct {
	Start       int           `json:"start"`
	End         int           `json:"end"`
	Rects       []oracle.Rect `json:"rects"`
	LayoutRects []oracle.Rect `json:"layoutRects,omitempty"`
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.Text != nil }
