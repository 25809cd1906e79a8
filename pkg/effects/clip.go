package effects

import (
	"math"
	"strings"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
)

// Kappa is the cubic Bezier handle ratio that approximates a quarter circle.
const Kappa = 0.5523

// Clip shape kinds.
const (
	ShapePolygon = "polygon"
	ShapeInset   = "inset"
	ShapeCircle  = "circle"
	ShapeEllipse = "ellipse"
)

// ClipShape is an inline clip-path basic shape resolved against the clipped
// element's own box, in source pixels relative to that box.
type ClipShape struct {
	Kind string

	// circle and ellipse
	CX, CY float64
	RX, RY float64

	// inset
	X, Y, W, H float64
	Radii      scene.Radii

	// polygon
	Points [][2]float64
}

// ParseClipShape parses polygon(), inset(), circle() and ellipse() against a
// w×h box. Other values, including url() references, report ok=false.
func ParseClipShape(value string, w, h float64) (ClipShape, bool) {
	name, args, ok := cssvalue.Func(value)
	if !ok {
		return ClipShape{}, false
	}
	switch name {
	case ShapePolygon:
		return parsePolygon(args, w, h)
	case ShapeInset:
		return parseInset(args, w, h)
	case ShapeCircle:
		return parseCircle(args, w, h)
	case ShapeEllipse:
		return parseEllipse(args, w, h)
	}
	return ClipShape{}, false
}

func parsePolygon(args string, w, h float64) (ClipShape, bool) {
	parts := cssvalue.SplitTopLevel(args, ',')
	if len(parts) > 0 {
		switch strings.ToLower(parts[0]) {
		case "nonzero", "evenodd":
			parts = parts[1:]
		}
	}
	if len(parts) < 3 {
		return ClipShape{}, false
	}
	pts := make([][2]float64, 0, len(parts))
	for _, p := range parts {
		toks := cssvalue.Fields(p)
		if len(toks) != 2 {
			return ClipShape{}, false
		}
		x, ok1 := cssvalue.ResolveLength(toks[0], w, cssvalue.RootFontSize)
		y, ok2 := cssvalue.ResolveLength(toks[1], h, cssvalue.RootFontSize)
		if !ok1 || !ok2 {
			return ClipShape{}, false
		}
		pts = append(pts, [2]float64{x, y})
	}
	return ClipShape{Kind: ShapePolygon, Points: pts}, true
}

func parseInset(args string, w, h float64) (ClipShape, bool) {
	toks := cssvalue.Fields(args)
	round := len(toks)
	for i, t := range toks {
		if strings.EqualFold(t, "round") {
			round = i
			break
		}
	}
	if round == 0 || round > 4 {
		return ClipShape{}, false
	}
	sides := expandFour(toks[:round])
	var v [4]float64
	for i, t := range sides {
		ref := h
		if i%2 == 1 {
			ref = w
		}
		x, ok := cssvalue.ResolveLength(t, ref, cssvalue.RootFontSize)
		if !ok {
			return ClipShape{}, false
		}
		v[i] = x
	}
	s := ClipShape{
		Kind: ShapeInset,
		X:    v[3],
		Y:    v[0],
		W:    math.Max(0, w-v[1]-v[3]),
		H:    math.Max(0, h-v[0]-v[2]),
	}
	if round < len(toks) {
		corners := ParseRadiusShorthand(strings.Join(toks[round+1:], " "), s.W, s.H)
		s.Radii = ClampRadii(scene.Radii{
			TopLeft:     corners[0],
			TopRight:    corners[1],
			BottomRight: corners[2],
			BottomLeft:  corners[3],
		}, s.W, s.H)
	}
	return s, true
}

// splitAt separates "<size> at <position>" tokens.
func splitAt(args string) (size, pos []string) {
	toks := cssvalue.Fields(args)
	for i, t := range toks {
		if strings.EqualFold(t, "at") {
			return toks[:i], toks[i+1:]
		}
	}
	return toks, nil
}

func parseCircle(args string, w, h float64) (ClipShape, bool) {
	size, pos := splitAt(args)
	if len(size) > 1 {
		return ClipShape{}, false
	}
	cx, cy, ok := cssvalue.ParsePosition(pos, w, h, cssvalue.RootFontSize)
	if !ok {
		return ClipShape{}, false
	}
	r := math.Min(math.Min(cx, w-cx), math.Min(cy, h-cy))
	if len(size) == 1 {
		switch strings.ToLower(size[0]) {
		case "closest-side":
		case "farthest-side":
			r = math.Max(math.Max(cx, w-cx), math.Max(cy, h-cy))
		default:
			ref := math.Hypot(w, h) / math.Sqrt2
			v, ok := cssvalue.ResolveLength(size[0], ref, cssvalue.RootFontSize)
			if !ok {
				return ClipShape{}, false
			}
			r = v
		}
	}
	r = math.Max(0, r)
	return ClipShape{Kind: ShapeCircle, CX: cx, CY: cy, RX: r, RY: r}, true
}

func parseEllipse(args string, w, h float64) (ClipShape, bool) {
	size, pos := splitAt(args)
	if len(size) != 0 && len(size) != 2 {
		return ClipShape{}, false
	}
	cx, cy, ok := cssvalue.ParsePosition(pos, w, h, cssvalue.RootFontSize)
	if !ok {
		return ClipShape{}, false
	}
	rx := math.Min(cx, w-cx)
	ry := math.Min(cy, h-cy)
	if len(size) == 2 {
		if rx, ok = ellipseRadius(size[0], cx, w); !ok {
			return ClipShape{}, false
		}
		if ry, ok = ellipseRadius(size[1], cy, h); !ok {
			return ClipShape{}, false
		}
	}
	return ClipShape{Kind: ShapeEllipse, CX: cx, CY: cy, RX: math.Max(0, rx), RY: math.Max(0, ry)}, true
}

func ellipseRadius(tok string, c, extent float64) (float64, bool) {
	switch strings.ToLower(tok) {
	case "closest-side":
		return math.Min(c, extent-c), true
	case "farthest-side":
		return math.Max(c, extent-c), true
	}
	return cssvalue.ResolveLength(tok, extent, cssvalue.RootFontSize)
}

// Shape returns the outline of c in source pixels.
func (c ClipShape) Shape() scene.Shape {
	switch c.Kind {
	case ShapeCircle, ShapeEllipse:
		return EllipseShape(c.CX, c.CY, c.RX, c.RY)
	case ShapeInset:
		return RoundedRectShape(c.X, c.Y, c.W, c.H, c.Radii)
	}
	return PolygonShape(c.Points, true)
}

// Path returns the clip path of c in node-local target units.
func (c ClipShape) Path(scale float64) *scene.ClipPath {
	s := ScaleShape(c.Shape(), scale, scale)
	return &scene.ClipPath{Shape: &s}
}

// PolygonShape builds a straight-edged shape through pts.
func PolygonShape(pts [][2]float64, closed bool) scene.Shape {
	n := len(pts)
	s := scene.Shape{
		Vertices: make([][2]float64, n),
		In:       make([][2]float64, n),
		Out:      make([][2]float64, n),
		Closed:   closed,
	}
	copy(s.Vertices, pts)
	return s
}

// EllipseShape builds a four-vertex Bezier ellipse, clockwise from the top.
func EllipseShape(cx, cy, rx, ry float64) scene.Shape {
	kx, ky := rx*Kappa, ry*Kappa
	return scene.Shape{
		Vertices: [][2]float64{{cx, cy - ry}, {cx + rx, cy}, {cx, cy + ry}, {cx - rx, cy}},
		In:       [][2]float64{{-kx, 0}, {0, -ky}, {kx, 0}, {0, ky}},
		Out:      [][2]float64{{kx, 0}, {0, ky}, {-kx, 0}, {0, -ky}},
		Closed:   true,
	}
}

// RoundedRectShape builds a rectangle whose corners are quarter-ellipse
// Bezier arcs. Square corners collapse to a single vertex.
func RoundedRectShape(x, y, w, h float64, r scene.Radii) scene.Shape {
	tl, tr, br, bl := r.TopLeft, r.TopRight, r.BottomRight, r.BottomLeft
	type vtx struct{ p, in, out [2]float64 }
	raw := []vtx{
		{p: [2]float64{x + tl.X, y}, in: [2]float64{-tl.X * Kappa, 0}},
		{p: [2]float64{x + w - tr.X, y}, out: [2]float64{tr.X * Kappa, 0}},
		{p: [2]float64{x + w, y + tr.Y}, in: [2]float64{0, -tr.Y * Kappa}},
		{p: [2]float64{x + w, y + h - br.Y}, out: [2]float64{0, br.Y * Kappa}},
		{p: [2]float64{x + w - br.X, y + h}, in: [2]float64{br.X * Kappa, 0}},
		{p: [2]float64{x + bl.X, y + h}, out: [2]float64{-bl.X * Kappa, 0}},
		{p: [2]float64{x, y + h - bl.Y}, in: [2]float64{0, bl.Y * Kappa}},
		{p: [2]float64{x, y + tl.Y}, out: [2]float64{0, -tl.Y * Kappa}},
	}
	// Merge coincident neighbors: the first keeps its in tangent, the second
	// contributes its out tangent.
	var merged []vtx
	for _, v := range raw {
		if n := len(merged); n > 0 && merged[n-1].p == v.p {
			merged[n-1].out = v.out
			continue
		}
		merged = append(merged, v)
	}
	if n := len(merged); n > 1 && merged[0].p == merged[n-1].p {
		merged[0].in = merged[n-1].in
		merged = merged[:n-1]
	}
	s := scene.Shape{Closed: true}
	for _, v := range merged {
		s.Vertices = append(s.Vertices, v.p)
		s.In = append(s.In, v.in)
		s.Out = append(s.Out, v.out)
	}
	return s
}

// ScaleShape scales vertices and tangents per axis.
func ScaleShape(s scene.Shape, sx, sy float64) scene.Shape {
	out := scene.Shape{
		Vertices: make([][2]float64, len(s.Vertices)),
		In:       make([][2]float64, len(s.In)),
		Out:      make([][2]float64, len(s.Out)),
		Closed:   s.Closed,
	}
	for i, v := range s.Vertices {
		out.Vertices[i] = [2]float64{v[0] * sx, v[1] * sy}
	}
	for i, v := range s.In {
		out.In[i] = [2]float64{v[0] * sx, v[1] * sy}
	}
	for i, v := range s.Out {
		out.Out[i] = [2]float64{v[0] * sx, v[1] * sy}
	}
	return out
}

// TranslateShape offsets the vertices of s. Tangents are relative and
// unchanged.
func TranslateShape(s scene.Shape, dx, dy float64) scene.Shape {
	out := ScaleShape(s, 1, 1)
	for i := range out.Vertices {
		out.Vertices[i][0] += dx
		out.Vertices[i][1] += dy
	}
	return out
}
