// Package effects decomposes box-level paint from computed styles: borders
// and outlines, corner radii, shadows, gradients and clip regions.
//
// Parsers are forgiving. A value they cannot read resolves to "absent"
// (nil or false) instead of an error, the same way an unsupported
// declaration is ignored by a renderer.
package effects

import (
	"strings"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
	"github.com/hellenic-development/scene-extractor/pkg/oracle"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
)

var sideNames = [4]string{"top", "right", "bottom", "left"}

// ParseSide reads one border edge from its width, style and color values.
func ParseSide(width, style, color string, scale float64) scene.Side {
	w := cssvalue.LengthOr(width, 0, cssvalue.RootFontSize, 0)
	st := strings.ToLower(strings.TrimSpace(style))
	if st == "" {
		st = "none"
	}
	c, _ := cssvalue.ParseColor(color)
	return scene.Side{
		Width:   w * scale,
		Style:   st,
		Color:   c,
		Visible: w > 0 && st != "none" && st != "hidden" && cssvalue.Visible(c),
	}
}

// ParseBorder reads the four border sides of st. It returns nil when no side
// is visible.
func ParseBorder(st oracle.Style, scale float64) *scene.Border {
	var sides [4]scene.Side
	for i, name := range sideNames {
		prefix := "border-" + name + "-"
		sides[i] = ParseSide(st.Get(prefix+"width"), st.Get(prefix+"style"), st.Get(prefix+"color"), scale)
	}
	return combineSides(sides, 0)
}

// ParseOutline reads the outline ring of st, a single side drawn on all four
// edges and pushed out by outline-offset.
func ParseOutline(st oracle.Style, scale float64) *scene.Border {
	side := ParseSide(st.Get("outline-width"), st.Get("outline-style"), st.Get("outline-color"), scale)
	if strings.EqualFold(side.Style, "auto") && side.Width > 0 && cssvalue.Visible(side.Color) {
		side.Style = "solid"
		side.Visible = true
	}
	offset := cssvalue.LengthOr(st.Get("outline-offset"), 0, cssvalue.RootFontSize, 0) * scale
	return combineSides([4]scene.Side{side, side, side, side}, offset)
}

func combineSides(sides [4]scene.Side, offset float64) *scene.Border {
	rep := -1
	for i, s := range sides {
		if s.Visible {
			rep = i
			break
		}
	}
	if rep < 0 {
		return nil
	}
	uniform := true
	for _, s := range sides[1:] {
		if s != sides[0] {
			uniform = false
			break
		}
	}
	if uniform {
		rep = 0
	}
	r := sides[rep]
	return &scene.Border{
		Uniform: uniform,
		Width:   r.Width,
		Style:   r.Style,
		Color:   r.Color,
		Offset:  offset,
		Sides:   sides,
	}
}
