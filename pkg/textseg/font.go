package textseg

import (
	"strconv"
	"strings"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
	"github.com/hellenic-development/scene-extractor/pkg/fontinv"
	"github.com/hellenic-development/scene-extractor/pkg/oracle"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
)

// DefaultLineHeight is the multiplier used for line-height: normal.
const DefaultLineHeight = 1.2

// FontSize returns the computed font size in source pixels.
func FontSize(st oracle.Style) float64 {
	return cssvalue.LengthOr(st.Get("font-size"), cssvalue.RootFontSize, cssvalue.RootFontSize, cssvalue.RootFontSize)
}

// Family returns the first family of a font-family list, unquoted.
func Family(value string) string {
	parts := cssvalue.SplitTopLevel(value, ',')
	if len(parts) == 0 {
		return ""
	}
	return cssvalue.Unquote(parts[0])
}

// ParseWeight maps a font-weight value to its numeric form.
func ParseWeight(v string) int {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "normal":
		return 400
	case "bold":
		return 700
	case "lighter":
		return 300
	case "bolder":
		return 700
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		return n
	}
	return 400
}

// IsItalic reports whether a font-style value slants the text.
func IsItalic(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "italic" || strings.HasPrefix(v, "oblique")
}

// Alignment normalizes text-align to left, center, right or justify.
func Alignment(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center", "-webkit-center":
		return "center"
	case "right", "end", "-webkit-right":
		return "right"
	case "justify":
		return "justify"
	}
	return "left"
}

// FontFromStyle builds the base font descriptor of a text node. Sizes are
// in target pixels.
func FontFromStyle(st oracle.Style, scale float64) scene.Font {
	size := FontSize(st)
	lh := size * DefaultLineHeight
	if v := st.Get("line-height"); v != "" && !strings.EqualFold(v, "normal") {
		if px, ok := cssvalue.ResolveLength(v, size, size); ok {
			lh = px
			// A unitless line-height is a multiplier.
			if n, isNum := cssvalue.ParseNumber(v); isNum {
				lh = n * size
			}
		}
	}
	tracking := 0.0
	if ls, ok := cssvalue.ResolveLength(st.Get("letter-spacing"), size, size); ok && size > 0 {
		tracking = ls / size * 1000
	}
	color, _ := cssvalue.ParseColor(st.Get("color"))
	family := Family(st.Get("font-family"))
	weight := ParseWeight(st.Get("font-weight"))
	italic := IsItalic(st.Get("font-style"))

	f := scene.Font{
		Family:         family,
		Style:          fontinv.StyleName(weight, italic),
		PostScriptName: fontinv.PostScriptName(family, weight, italic),
		Weight:         weight,
		Italic:         italic,
		Size:           size * scale,
		LineHeight:     lh * scale,
		Tracking:       tracking,
		Color:          color,
		Alignment:      Alignment(st.Get("text-align")),
	}
	if w, ok := cssvalue.ResolveLength(st.First("-webkit-text-stroke-width", "text-stroke-width"), size, size); ok && w > 0 {
		sw := w * scale
		f.StrokeWidth = &sw
		if c, ok := cssvalue.ParseColor(st.First("-webkit-text-stroke-color", "text-stroke-color")); ok {
			f.StrokeColor = &c
		} else {
			f.StrokeColor = &color
		}
	}
	return f
}
