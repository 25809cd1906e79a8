package extractor

import (
	"strings"
	"unicode/utf8"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
	"github.com/hellenic-development/scene-extractor/pkg/oracle"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
	"github.com/hellenic-development/scene-extractor/pkg/textseg"
)

// snippetLength is the number of runes a text node's name keeps.
const snippetLength = 24

// insets returns top, right, bottom and left widths of the properties
// prefix+side+suffix, e.g. "border-" "-width".
func insets(st oracle.Style, prefix, suffix string, ref float64) [4]float64 {
	var out [4]float64
	for i, side := range []string{"top", "right", "bottom", "left"} {
		out[i] = max(0, cssvalue.LengthOr(st.Get(prefix+side+suffix), ref, textseg.FontSize(st), 0))
	}
	return out
}

func shrink(r oracle.Rect, in [4]float64) oracle.Rect {
	return oracle.Rect{
		X: r.X + in[3],
		Y: r.Y + in[0],
		W: max(0, r.W-in[1]-in[3]),
		H: max(0, r.H-in[0]-in[2]),
	}
}

// paddingBox is the border box minus the border.
func paddingBox(st oracle.Style, r oracle.Rect) oracle.Rect {
	return shrink(r, insets(st, "border-", "-width", r.W))
}

// contentBox is the padding box minus the padding.
func contentBox(st oracle.Style, r oracle.Rect) oracle.Rect {
	pb := paddingBox(st, r)
	return shrink(pb, insets(st, "padding-", "", r.W))
}

// unionBox returns the smallest box containing a and b. Empty boxes are
// ignored.
func unionBox(a, b scene.BBox) scene.BBox {
	if a.W <= 0 && a.H <= 0 {
		return b
	}
	if b.W <= 0 && b.H <= 0 {
		return a
	}
	x0, y0 := min(a.X, b.X), min(a.Y, b.Y)
	x1, y1 := max(a.X+a.W, b.X+b.W), max(a.Y+a.H, b.Y+b.H)
	return scene.BBox{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func unionBoxes(nodes []*scene.Node) scene.BBox {
	var u scene.BBox
	for _, n := range nodes {
		u = unionBox(u, n.BBox)
	}
	return u
}

// nodeName picks a display name: id, then data-name, then the first class,
// then the tag.
func nodeName(el oracle.Element) string {
	for _, attr := range []string{"id", "data-name"} {
		if v, ok := el.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if v, ok := el.Attr("class"); ok {
		if f := strings.Fields(v); len(f) > 0 {
			return f[0]
		}
	}
	return strings.ToLower(el.Tag())
}

// snippet names a text node after the start of its content.
func snippet(s string) string {
	s = textseg.CollapseWhitespace(s)
	if utf8.RuneCountInString(s) <= snippetLength {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:snippetLength]))
}
