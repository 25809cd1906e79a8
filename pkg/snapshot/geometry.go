package snapshot

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/gg"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
	"github.com/hellenic-development/scene-extractor/pkg/oracle"
)

// FlattenTolerance is the maximum distance between a curve and the polyline
// that replaces it when measuring outlines.
const FlattenTolerance = 0.05

// arcSteps is the number of line segments per elliptical arc command.
const arcSteps = 16

var shapeTags = map[string]bool{
	"path":     true,
	"circle":   true,
	"ellipse":  true,
	"rect":     true,
	"line":     true,
	"polyline": true,
	"polygon":  true,
}

// ErrNoOutline is returned for shape elements whose attributes do not
// describe an outline.
var ErrNoOutline = errors.New("element has no outline")

// shapeElement is an SVG primitive that can be sampled along its outline.
type shapeElement struct {
	*element
	parts []polyline
	err   error
	done  bool
}

// polyline is one flattened subpath with the running arc length at every
// vertex.
type polyline struct {
	pts    []gg.Point
	acc    []float64
	closed bool
}

func newPolyline(p *gg.Path, closed bool) polyline {
	l := polyline{pts: p.Flatten(FlattenTolerance), closed: closed}
	l.acc = make([]float64, len(l.pts))
	for i := 1; i < len(l.pts); i++ {
		l.acc[i] = l.acc[i-1] + l.pts[i-1].Distance(l.pts[i])
	}
	return l
}

func (l polyline) length() float64 {
	if len(l.acc) == 0 {
		return 0
	}
	return l.acc[len(l.acc)-1]
}

func (l polyline) TotalLength() (float64, error) { return l.length(), nil }

func (l polyline) PointAtLength(d float64) (float64, float64, error) {
	if len(l.pts) == 0 {
		return 0, 0, ErrNoOutline
	}
	d = max(0, min(d, l.length()))
	i := sort.SearchFloat64s(l.acc, d)
	if i == 0 {
		return l.pts[0].X, l.pts[0].Y, nil
	}
	seg := l.acc[i] - l.acc[i-1]
	if seg == 0 {
		return l.pts[i].X, l.pts[i].Y, nil
	}
	t := (d - l.acc[i-1]) / seg
	p := l.pts[i-1].Lerp(l.pts[i], t)
	return p.X, p.Y, nil
}

// TotalLength sums the lengths of all subpaths. Moves between subpaths do
// not count.
func (s *shapeElement) TotalLength() (float64, error) {
	if err := s.flatten(); err != nil {
		return 0, err
	}
	var total float64
	for _, l := range s.parts {
		total += l.length()
	}
	return total, nil
}

func (s *shapeElement) PointAtLength(d float64) (float64, float64, error) {
	if err := s.flatten(); err != nil {
		return 0, 0, err
	}
	if len(s.parts) == 0 {
		return 0, 0, ErrNoOutline
	}
	for i, l := range s.parts {
		if d <= l.length() || i == len(s.parts)-1 {
			return l.PointAtLength(d)
		}
		d -= l.length()
	}
	return 0, 0, ErrNoOutline
}

func (s *shapeElement) Subpaths() ([]oracle.Subpath, error) {
	if err := s.flatten(); err != nil {
		return nil, err
	}
	out := make([]oracle.Subpath, len(s.parts))
	for i, l := range s.parts {
		out[i] = oracle.Subpath{Geometry: l, Closed: l.closed}
	}
	return out, nil
}

// flatten converts the outline to polylines once, one per subpath.
// Subpaths without length are dropped.
func (s *shapeElement) flatten() error {
	if s.done {
		return s.err
	}
	s.done = true
	paths, closed, err := s.outline()
	if err != nil {
		s.err = fmt.Errorf("<%s>: %w", s.node.Tag, err)
		return s.err
	}
	for i, p := range paths {
		if l := newPolyline(p, closed[i]); l.length() > 0 {
			s.parts = append(s.parts, l)
		}
	}
	return nil
}

func (s *shapeElement) num(name string) float64 {
	v, _ := cssvalue.ResolveLength(s.node.Attrs[name], 0, cssvalue.RootFontSize)
	return v
}

// outline builds one path per subpath of the element, with whether each
// one is closed.
func (s *shapeElement) outline() ([]*gg.Path, []bool, error) {
	p := gg.NewPath()
	closed := true
	switch s.node.Tag {
	case "circle":
		p.Circle(s.num("cx"), s.num("cy"), s.num("r"))
	case "ellipse":
		p.Ellipse(s.num("cx"), s.num("cy"), s.num("rx"), s.num("ry"))
	case "rect":
		x, y, w, h := s.num("x"), s.num("y"), s.num("width"), s.num("height")
		rx, ry := s.cornerRadii(w, h)
		if rx > 0 && ry > 0 {
			roundedRect(p, x, y, w, h, rx, ry)
		} else {
			p.Rectangle(x, y, w, h)
		}
	case "line":
		p.MoveTo(s.num("x1"), s.num("y1"))
		p.LineTo(s.num("x2"), s.num("y2"))
		closed = false
	case "polyline", "polygon":
		nums := strings.FieldsFunc(s.node.Attrs["points"], func(r rune) bool {
			return r == ',' || r == ' ' || r == '\n' || r == '\t'
		})
		if len(nums) < 4 || len(nums)%2 != 0 {
			return nil, nil, ErrNoOutline
		}
		for i := 0; i < len(nums); i += 2 {
			x, ok1 := cssvalue.ParseNumber(nums[i])
			y, ok2 := cssvalue.ParseNumber(nums[i+1])
			if !ok1 || !ok2 {
				return nil, nil, ErrNoOutline
			}
			if i == 0 {
				p.MoveTo(x, y)
			} else {
				p.LineTo(x, y)
			}
		}
		closed = s.node.Tag == "polygon"
		if closed {
			p.Close()
		}
	case "path":
		return subpathsFromData(s.node.Attrs["d"])
	}
	return []*gg.Path{p}, []bool{closed}, nil
}

// cornerRadii resolves rx and ry of a rect. A missing radius takes the
// other's value and both are clamped to half the box.
func (s *shapeElement) cornerRadii(w, h float64) (float64, float64) {
	rx, okX := cssvalue.ResolveLength(s.node.Attrs["rx"], 0, cssvalue.RootFontSize)
	ry, okY := cssvalue.ResolveLength(s.node.Attrs["ry"], 0, cssvalue.RootFontSize)
	switch {
	case okX && !okY:
		ry = rx
	case okY && !okX:
		rx = ry
	}
	return max(0, min(rx, w/2)), max(0, min(ry, h/2))
}

// roundedRect traces a rectangle whose corners are quarter ellipses with
// radii rx and ry.
func roundedRect(p *gg.Path, x, y, w, h, rx, ry float64) {
	const kappa = 0.5522847498
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(x+rx, y)
	p.LineTo(x+w-rx, y)
	p.CubicTo(x+w-rx+kx, y, x+w, y+ry-ky, x+w, y+ry)
	p.LineTo(x+w, y+h-ry)
	p.CubicTo(x+w, y+h-ry+ky, x+w-rx+kx, y+h, x+w-rx, y+h)
	p.LineTo(x+rx, y+h)
	p.CubicTo(x+rx-kx, y+h, x, y+h-ry+ky, x, y+h-ry)
	p.LineTo(x, y+ry)
	p.CubicTo(x, y+ry-ky, x+rx-kx, y, x+rx, y)
	p.Close()
}

// PathFromData builds a gg path from SVG path data. Elliptical arcs are
// approximated by line segments.
func PathFromData(d string) (*gg.Path, error) {
	abs, err := absoluteData(d)
	if err != nil {
		return nil, err
	}
	p := gg.NewPath()
	for _, s := range abs {
		appendSegment(p, s)
	}
	return p, nil
}

// subpathsFromData builds one gg path per subpath of SVG path data.
func subpathsFromData(d string) ([]*gg.Path, []bool, error) {
	abs, err := absoluteData(d)
	if err != nil {
		return nil, nil, err
	}
	var (
		paths  []*gg.Path
		closed []bool
	)
	for _, sub := range cssvalue.SplitSubpaths(abs) {
		p := gg.NewPath()
		isClosed := false
		for _, s := range sub {
			appendSegment(p, s)
			isClosed = isClosed || s.Cmd == 'Z'
		}
		paths = append(paths, p)
		closed = append(closed, isClosed)
	}
	return paths, closed, nil
}

func absoluteData(d string) ([]cssvalue.AbsSegment, error) {
	segs, ok := cssvalue.TokenizePath(d)
	if !ok {
		return nil, fmt.Errorf("malformed path data %q", d)
	}
	abs, ok := cssvalue.Absolute(segs)
	if !ok {
		return nil, fmt.Errorf("malformed path data %q", d)
	}
	return abs, nil
}

func appendSegment(p *gg.Path, s cssvalue.AbsSegment) {
	a := s.Args
	switch s.Cmd {
	case 'M':
		p.MoveTo(a[0], a[1])
	case 'L':
		p.LineTo(a[0], a[1])
	case 'C':
		p.CubicTo(a[0], a[1], a[2], a[3], a[4], a[5])
	case 'Q':
		p.QuadraticTo(a[0], a[1], a[2], a[3])
	case 'A':
		cur := p.CurrentPoint()
		for _, pt := range cssvalue.ArcPoints(cur.X, cur.Y, a, arcSteps) {
			p.LineTo(pt[0], pt[1])
		}
	case 'Z':
		p.Close()
	}
}
