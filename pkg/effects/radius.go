package effects

import (
	"math"
	"strings"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
	"github.com/hellenic-development/scene-extractor/pkg/oracle"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
)

var cornerProps = [4]string{
	"border-top-left-radius",
	"border-top-right-radius",
	"border-bottom-right-radius",
	"border-bottom-left-radius",
}

// ParseRadii resolves the four corner radii of a w×h box in source pixels.
// Longhands win over the border-radius shorthand. The result is clamped.
func ParseRadii(st oracle.Style, w, h float64) scene.Radii {
	var corners [4]scene.Corner
	longhand := false
	for i, p := range cornerProps {
		v := st.Get(p)
		if v == "" {
			continue
		}
		longhand = true
		corners[i] = parseCorner(cssvalue.Fields(v), w, h)
	}
	if !longhand {
		if short := st.Get("border-radius"); short != "" {
			corners = ParseRadiusShorthand(short, w, h)
		}
	}
	return ClampRadii(scene.Radii{
		TopLeft:     corners[0],
		TopRight:    corners[1],
		BottomRight: corners[2],
		BottomLeft:  corners[3],
	}, w, h)
}

// ParseRadiusShorthand expands "h1 h2 h3 h4 / v1 v2 v3 v4" into corners
// ordered top-left, top-right, bottom-right, bottom-left.
func ParseRadiusShorthand(v string, w, h float64) [4]scene.Corner {
	horiz, vert := v, ""
	if i := strings.IndexByte(v, '/'); i >= 0 {
		horiz, vert = v[:i], v[i+1:]
	}
	hs := expandFour(cssvalue.Fields(horiz))
	vs := hs
	if strings.TrimSpace(vert) != "" {
		vs = expandFour(cssvalue.Fields(vert))
	}
	var out [4]scene.Corner
	for i := range out {
		out[i] = scene.Corner{
			X: radiusLength(hs[i], w),
			Y: radiusLength(vs[i], h),
		}
	}
	return out
}

// expandFour applies the 1-to-4 value expansion shared by box shorthands.
func expandFour(toks []string) [4]string {
	switch len(toks) {
	case 0:
		return [4]string{"0", "0", "0", "0"}
	case 1:
		return [4]string{toks[0], toks[0], toks[0], toks[0]}
	case 2:
		return [4]string{toks[0], toks[1], toks[0], toks[1]}
	case 3:
		return [4]string{toks[0], toks[1], toks[2], toks[1]}
	}
	return [4]string{toks[0], toks[1], toks[2], toks[3]}
}

func parseCorner(toks []string, w, h float64) scene.Corner {
	if len(toks) == 0 {
		return scene.Corner{}
	}
	x := radiusLength(toks[0], w)
	y := x
	if len(toks) > 1 {
		y = radiusLength(toks[1], h)
	} else if strings.HasSuffix(toks[0], "%") {
		y = radiusLength(toks[0], h)
	}
	return scene.Corner{X: x, Y: y}
}

func radiusLength(tok string, ref float64) float64 {
	return math.Max(0, cssvalue.LengthOr(tok, ref, cssvalue.RootFontSize, 0))
}

// ClampRadii shrinks all radii proportionally so that adjacent corners never
// overlap along an edge, then sets Scalar to the largest resulting radius.
func ClampRadii(r scene.Radii, w, h float64) scene.Radii {
	f := 1.0
	ratio := func(edge, a, b float64) {
		if sum := a + b; sum > 0 {
			f = math.Min(f, edge/sum)
		}
	}
	ratio(w, r.TopLeft.X, r.TopRight.X)
	ratio(w, r.BottomLeft.X, r.BottomRight.X)
	ratio(h, r.TopLeft.Y, r.BottomLeft.Y)
	ratio(h, r.TopRight.Y, r.BottomRight.Y)
	f = math.Max(0, f)
	if f < 1 {
		for _, c := range []*scene.Corner{&r.TopLeft, &r.TopRight, &r.BottomRight, &r.BottomLeft} {
			c.X *= f
			c.Y *= f
		}
	}
	r.Scalar = 0
	for _, c := range []scene.Corner{r.TopLeft, r.TopRight, r.BottomRight, r.BottomLeft} {
		r.Scalar = math.Max(r.Scalar, math.Max(c.X, c.Y))
	}
	return r
}

// ScaleRadii multiplies every radius by s.
func ScaleRadii(r scene.Radii, s float64) scene.Radii {
	for _, c := range []*scene.Corner{&r.TopLeft, &r.TopRight, &r.BottomRight, &r.BottomLeft} {
		c.X *= s
		c.Y *= s
	}
	r.Scalar *= s
	return r
}

// IsZero reports whether no corner is rounded.
func IsZero(r scene.Radii) bool {
	return r.Scalar <= 0
}
