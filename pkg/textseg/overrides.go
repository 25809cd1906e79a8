package textseg

import (
	"math"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
	"github.com/hellenic-development/scene-extractor/pkg/oracle"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
)

// XTolerance is how far, in source pixels, a line's left edge may sit from
// the content edge before it counts as offset.
const XTolerance = 0.5

// Base is the node-level style every line is compared against.
type Base struct {
	Color  scene.Color
	Weight int
	Italic bool
	// Left is the content-box left edge. It is only compared when CompareX
	// is set, which callers do for start-aligned text.
	Left     float64
	CompareX bool
}

// BaseFromStyle derives the comparison base of a text element.
func BaseFromStyle(st oracle.Style, contentLeft float64) Base {
	c, _ := cssvalue.ParseColor(st.Get("color"))
	align := Alignment(st.Get("text-align"))
	return Base{
		Color:    c,
		Weight:   ParseWeight(st.Get("font-weight")),
		Italic:   IsItalic(st.Get("font-style")),
		Left:     contentLeft,
		CompareX: align == "left" || align == "justify",
	}
}

// Overrides compares every line with base and returns one record for each
// line that differs, carrying only the differing attributes. host is the
// element that owns the text; lines painted by host itself inherit base.
// Uniform text yields nil.
func Overrides(lines []Line, host oracle.Element, base Base, scale float64) []scene.LineOverride {
	var out []scene.LineOverride
	for i, l := range lines {
		o := scene.LineOverride{Line: i}
		changed := false
		if l.Owner != nil && l.Owner != host {
			st := l.Owner.ComputedStyle(oracle.PseudoNone)
			if c, ok := cssvalue.ParseColor(st.Get("color")); ok && !sameColor(c, base.Color) {
				o.Color = &c
				changed = true
			}
			if op := cssvalue.NumberOr(st.Get("opacity"), 1); math.Abs(op-1) > 1e-3 {
				o.Opacity = &op
				changed = true
			}
			if w := ParseWeight(st.Get("font-weight")); w != base.Weight {
				o.Weight = &w
				changed = true
			}
			if it := IsItalic(st.Get("font-style")); it != base.Italic {
				o.Italic = &it
				changed = true
			}
		}
		if base.CompareX && l.HasRect && math.Abs(l.Rect.X-base.Left) > XTolerance {
			x := (l.Rect.X - base.Left) * scale
			o.X = &x
			changed = true
		}
		if changed {
			out = append(out, o)
		}
	}
	return out
}

func sameColor(a, b scene.Color) bool {
	const eps = 1.0 / 512
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps && math.Abs(a.A-b.A) < eps
}
