package effects

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
	"github.com/hellenic-development/scene-extractor/pkg/oracle"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
)

// BoundingBoxLimit is the largest coordinate magnitude still read as a
// fraction of the clipped box when a clip definition declares no units.
const BoundingBoxLimit = 1.01

// Resolver looks up elements by id.
type Resolver interface {
	Lookup(id string) (oracle.Element, bool)
}

// ErrClipNotFound is returned when a url(#id) reference does not resolve.
var ErrClipNotFound = errors.New("clip definition not found")

// ClipUnits is the coordinate system of a clip definition's children.
type ClipUnits int

const (
	UnitsBoundingBox ClipUnits = iota
	UnitsAbsolute
)

// ResolveClipReference resolves a clip-path url(#id) against a w×h box and
// returns the union of its children in node-local target units. Children
// that cannot be converted are skipped and reported in the returned error,
// which may accompany a non-nil path.
func ResolveClipReference(value string, r Resolver, w, h, scale float64) (*scene.ClipPath, error) {
	target, ok := cssvalue.URL(value)
	if !ok || !strings.HasPrefix(target, "#") {
		return nil, fmt.Errorf("clip reference %q: not a fragment url", value)
	}
	def, ok := r.Lookup(strings.TrimPrefix(target, "#"))
	if !ok {
		return nil, fmt.Errorf("clip reference %q: %w", value, ErrClipNotFound)
	}

	var prims []oracle.Element
	collectPrimitives(def, &prims)
	units := DetectUnits(def, prims)

	sx, sy, ox, oy := w, h, 0.0, 0.0
	if units == UnitsAbsolute {
		sx, sy, ox, oy = 1, 1, 0, 0
		if vb, ok := definitionViewport(def); ok && vb.W > 0 && vb.H > 0 {
			sx, sy = w/vb.W, h/vb.H
			ox, oy = vb.X, vb.Y
		}
	}
	mapPt := func(p [2]float64) [2]float64 {
		return [2]float64{(p[0] - ox) * sx * scale, (p[1] - oy) * sy * scale}
	}

	var (
		shapes []scene.Shape
		errs   []error
	)
	for _, el := range prims {
		parts, err := primitiveShapes(el)
		if err != nil {
			errs = append(errs, fmt.Errorf("clip child <%s>: %w", el.Tag(), err))
			continue
		}
		for _, s := range parts {
			for i, v := range s.Vertices {
				s.Vertices[i] = mapPt(v)
			}
			for i := range s.In {
				s.In[i] = [2]float64{s.In[i][0] * sx * scale, s.In[i][1] * sy * scale}
				s.Out[i] = [2]float64{s.Out[i][0] * sx * scale, s.Out[i][1] * sy * scale}
			}
			shapes = append(shapes, s)
		}
	}
	err := errors.Join(errs...)
	switch len(shapes) {
	case 0:
		if err == nil {
			err = fmt.Errorf("clip reference %q: no usable children", value)
		}
		return nil, err
	case 1:
		return &scene.ClipPath{Shape: &shapes[0]}, err
	}
	return &scene.ClipPath{Union: shapes}, err
}

// DetectUnits decides the coordinate system of a clip definition. An
// explicit clipPathUnits attribute wins; otherwise any coordinate with a
// magnitude above BoundingBoxLimit means absolute units.
func DetectUnits(def oracle.Element, prims []oracle.Element) ClipUnits {
	if u, ok := attr(def, "clipPathUnits"); ok {
		if strings.EqualFold(u, "objectBoundingBox") {
			return UnitsBoundingBox
		}
		return UnitsAbsolute
	}
	for _, el := range prims {
		for _, v := range primitiveCoords(el) {
			if math.Abs(v) > BoundingBoxLimit {
				return UnitsAbsolute
			}
		}
	}
	return UnitsBoundingBox
}

func collectPrimitives(el oracle.Element, out *[]oracle.Element) {
	for _, c := range oracle.ChildElements(el) {
		switch c.Tag() {
		case "g":
			collectPrimitives(c, out)
		case "rect", "circle", "ellipse", "polygon", "polyline", "path":
			*out = append(*out, c)
		default:
			if _, ok := c.(oracle.Geometry); ok {
				*out = append(*out, c)
			}
		}
	}
}

// definitionViewport finds the viewBox, or the width/height, of the svg
// that owns a clip definition.
func definitionViewport(def oracle.Element) (oracle.Rect, bool) {
	for p := def.Parent(); p != nil; p = p.Parent() {
		if p.Tag() != "svg" {
			continue
		}
		if vb, ok := attr(p, "viewBox"); ok {
			nums := numbers(vb)
			if len(nums) == 4 {
				return oracle.Rect{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}, true
			}
		}
		w, okW := numAttr(p, "width")
		h, okH := numAttr(p, "height")
		if okW && okH {
			return oracle.Rect{W: w, H: h}, true
		}
		if r := p.Rect(); !r.Empty() {
			return oracle.Rect{W: r.W, H: r.H}, true
		}
		return oracle.Rect{}, false
	}
	return oracle.Rect{}, false
}

// primitiveShapes converts one clip child into shapes in the definition's
// own coordinate frame. Paths yield one shape per subpath.
func primitiveShapes(el oracle.Element) ([]scene.Shape, error) {
	if el.Tag() == "path" {
		d, _ := attr(el, "d")
		segs, ok := cssvalue.TokenizePath(d)
		if !ok {
			return nil, fmt.Errorf("malformed path data")
		}
		if !cssvalue.HasCurves(segs) {
			return straightPath(segs)
		}
		return sampledShapes(el, cssvalue.IsClosed(segs))
	}
	if !primitiveTags[el.Tag()] {
		return sampledShapes(el, false)
	}
	s, err := primitiveShape(el)
	if err != nil {
		return nil, err
	}
	return []scene.Shape{s}, nil
}

var primitiveTags = map[string]bool{
	"rect":     true,
	"circle":   true,
	"ellipse":  true,
	"polygon":  true,
	"polyline": true,
}

func primitiveShape(el oracle.Element) (scene.Shape, error) {
	switch el.Tag() {
	case "rect":
		x, _ := numAttr(el, "x")
		y, _ := numAttr(el, "y")
		w, _ := numAttr(el, "width")
		h, _ := numAttr(el, "height")
		if w <= 0 || h <= 0 {
			return scene.Shape{}, ErrDegenerate
		}
		rx, okX := numAttr(el, "rx")
		ry, okY := numAttr(el, "ry")
		if !okY {
			ry = rx
		}
		if !okX {
			rx = ry
		}
		c := scene.Corner{X: math.Min(rx, w/2), Y: math.Min(ry, h/2)}
		return RoundedRectShape(x, y, w, h, scene.Radii{TopLeft: c, TopRight: c, BottomRight: c, BottomLeft: c}), nil
	case "circle":
		cx, _ := numAttr(el, "cx")
		cy, _ := numAttr(el, "cy")
		r, _ := numAttr(el, "r")
		if r <= 0 {
			return scene.Shape{}, ErrDegenerate
		}
		return EllipseShape(cx, cy, r, r), nil
	case "ellipse":
		cx, _ := numAttr(el, "cx")
		cy, _ := numAttr(el, "cy")
		rx, _ := numAttr(el, "rx")
		ry, _ := numAttr(el, "ry")
		if rx <= 0 || ry <= 0 {
			return scene.Shape{}, ErrDegenerate
		}
		return EllipseShape(cx, cy, rx, ry), nil
	}
	raw, _ := attr(el, "points")
	nums := numbers(raw)
	if len(nums) < 4 || len(nums)%2 != 0 {
		return scene.Shape{}, ErrDegenerate
	}
	pts := make([][2]float64, 0, len(nums)/2)
	for i := 0; i < len(nums); i += 2 {
		pts = append(pts, [2]float64{nums[i], nums[i+1]})
	}
	return PolygonShape(pts, el.Tag() == "polygon"), nil
}

// sampledShapes samples the outline of el. Compound geometries are sampled
// one subpath at a time.
func sampledShapes(el oracle.Element, closed bool) ([]scene.Shape, error) {
	if c, ok := el.(oracle.Compound); ok {
		subs, err := c.Subpaths()
		if err != nil {
			return nil, err
		}
		var (
			shapes []scene.Shape
			errs   []error
		)
		for _, sub := range subs {
			pts, err := SampleOutline(sub, sub.Closed)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			shapes = append(shapes, PolygonShape(pts, sub.Closed))
		}
		if len(shapes) == 0 {
			if len(errs) == 0 {
				return nil, ErrDegenerate
			}
			return nil, errors.Join(errs...)
		}
		return shapes, nil
	}
	g, ok := el.(oracle.Geometry)
	if !ok {
		return nil, fmt.Errorf("outline cannot be sampled")
	}
	pts, err := SampleOutline(g, closed)
	if err != nil {
		return nil, err
	}
	return []scene.Shape{PolygonShape(pts, closed)}, nil
}

// straightPath converts line-only path data into one polygon per subpath.
func straightPath(segs []cssvalue.PathSegment) ([]scene.Shape, error) {
	abs, ok := cssvalue.Absolute(segs)
	if !ok {
		return nil, fmt.Errorf("malformed path data")
	}
	var shapes []scene.Shape
	for _, sub := range cssvalue.SplitSubpaths(abs) {
		var pts [][2]float64
		closed := false
		for _, s := range sub {
			switch s.Cmd {
			case 'M', 'L':
				p := [2]float64{s.Args[0], s.Args[1]}
				if n := len(pts); n > 0 && pts[n-1] == p {
					continue
				}
				pts = append(pts, p)
			case 'Z':
				closed = true
			}
		}
		if closed && len(pts) > 1 && pts[0] == pts[len(pts)-1] {
			pts = pts[:len(pts)-1]
		}
		if len(pts) < 2 {
			continue
		}
		shapes = append(shapes, PolygonShape(pts, closed))
	}
	if len(shapes) == 0 {
		return nil, ErrDegenerate
	}
	return shapes, nil
}

// primitiveCoords lists the positional numbers of a clip child for unit
// detection. Arc rotation and flags are excluded.
func primitiveCoords(el oracle.Element) []float64 {
	var out []float64
	add := func(names ...string) {
		for _, n := range names {
			if v, ok := numAttr(el, n); ok {
				out = append(out, v)
			}
		}
	}
	switch el.Tag() {
	case "rect":
		add("x", "y", "width", "height")
	case "circle":
		add("cx", "cy", "r")
	case "ellipse":
		add("cx", "cy", "rx", "ry")
	case "polygon", "polyline":
		raw, _ := attr(el, "points")
		out = numbers(raw)
	case "path":
		d, _ := attr(el, "d")
		segs, _ := cssvalue.TokenizePath(d)
		abs, _ := cssvalue.Absolute(segs)
		for _, s := range abs {
			if s.Cmd == 'A' {
				out = append(out, s.Args[0], s.Args[1], s.Args[5], s.Args[6])
				continue
			}
			out = append(out, s.Args...)
		}
	}
	return out
}

// attr reads an attribute by its SVG name, falling back to the lower-cased
// form that HTML parsers produce.
func attr(el oracle.Element, name string) (string, bool) {
	if v, ok := el.Attr(name); ok {
		return strings.TrimSpace(v), true
	}
	if lower := strings.ToLower(name); lower != name {
		if v, ok := el.Attr(lower); ok {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func numAttr(el oracle.Element, name string) (float64, bool) {
	v, ok := attr(el, name)
	if !ok {
		return 0, false
	}
	return cssvalue.ResolveLength(v, 0, cssvalue.RootFontSize)
}

func numbers(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, ok := cssvalue.ParseNumber(f)
		if !ok {
			return nil
		}
		out = append(out, v)
	}
	return out
}
