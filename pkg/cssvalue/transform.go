package cssvalue

import (
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

// RotationTolerance bounds the error accepted when classifying a matrix as
// a pure rotation.
const RotationTolerance = 0.001

// FromCSS builds a matrix from CSS matrix(a, b, c, d, e, f) order.
func FromCSS(a, b, c, d, e, f float64) gg.Matrix {
	return gg.Matrix{A: a, B: c, C: e, D: b, E: d, F: f}
}

// ToCSS returns m in CSS matrix(a, b, c, d, e, f) order.
func ToCSS(m gg.Matrix) [6]float64 {
	return [6]float64{m.A, m.D, m.B, m.E, m.C, m.F}
}

// MatrixString formats m as a CSS matrix() value.
func MatrixString(m gg.Matrix) string {
	v := ToCSS(m)
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = formatNumber(x)
	}
	return "matrix(" + strings.Join(parts, ", ") + ")"
}

// ParseTransform parses a transform list into one matrix. Functions are
// composed left to right. "none" and "" yield the identity. Lengths in
// translate() are resolved against the w×h box.
func ParseTransform(s string, w, h float64) (gg.Matrix, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return gg.Identity(), true
	}
	m := gg.Identity()
	for _, fn := range Fields(s) {
		step, ok := parseTransformFunc(fn, w, h)
		if !ok {
			return gg.Identity(), false
		}
		m = m.Multiply(step)
	}
	return m, true
}

func parseTransformFunc(fn string, w, h float64) (gg.Matrix, bool) {
	name, raw, ok := Func(fn)
	if !ok {
		return gg.Matrix{}, false
	}
	args := Args(raw)
	num := func(i int, def float64) (float64, bool) {
		if i >= len(args) {
			return def, true
		}
		return ParseNumber(args[i])
	}
	length := func(i int, ref float64) (float64, bool) {
		if i >= len(args) {
			return 0, true
		}
		return ResolveLength(args[i], ref, RootFontSize)
	}
	angle := func(i int) (float64, bool) {
		if i >= len(args) {
			return 0, true
		}
		d, ok := ParseAngle(args[i])
		return d * math.Pi / 180, ok
	}

	switch name {
	case "matrix":
		if len(args) != 6 {
			return gg.Matrix{}, false
		}
		var v [6]float64
		for i := range v {
			x, ok := ParseNumber(args[i])
			if !ok {
				return gg.Matrix{}, false
			}
			v[i] = x
		}
		return FromCSS(v[0], v[1], v[2], v[3], v[4], v[5]), true
	case "matrix3d":
		if len(args) != 16 {
			return gg.Matrix{}, false
		}
		var v [16]float64
		for i := range v {
			x, ok := ParseNumber(args[i])
			if !ok {
				return gg.Matrix{}, false
			}
			v[i] = x
		}
		// Column-major 4x4; keep the 2D affine part.
		return FromCSS(v[0], v[1], v[4], v[5], v[12], v[13]), true
	case "translate", "translate3d":
		x, ok1 := length(0, w)
		y, ok2 := length(1, h)
		return gg.Translate(x, y), ok1 && ok2
	case "translatex":
		x, ok := length(0, w)
		return gg.Translate(x, 0), ok
	case "translatey":
		y, ok := length(0, h)
		return gg.Translate(0, y), ok
	case "scale", "scale3d":
		sx, ok1 := num(0, 1)
		sy, ok2 := num(1, sx)
		return gg.Scale(sx, sy), ok1 && ok2
	case "scalex":
		sx, ok := num(0, 1)
		return gg.Scale(sx, 1), ok
	case "scaley":
		sy, ok := num(0, 1)
		return gg.Scale(1, sy), ok
	case "rotate", "rotatez":
		a, ok := angle(0)
		return gg.Rotate(a), ok
	case "skew":
		ax, ok1 := angle(0)
		ay, ok2 := angle(1)
		return gg.Shear(math.Tan(ax), math.Tan(ay)), ok1 && ok2
	case "skewx":
		a, ok := angle(0)
		return gg.Shear(math.Tan(a), 0), ok
	case "skewy":
		a, ok := angle(0)
		return gg.Shear(0, math.Tan(a)), ok
	}
	return gg.Matrix{}, false
}

// Decomposed is the part of an affine matrix the scene graph can carry.
type Decomposed struct {
	Rotation       float64 // degrees, clockwise on screen
	ScaleX, ScaleY float64
	TX, TY         float64
}

// Decompose extracts rotation (via atan2), axis scales and translation.
// Skew is discarded.
func Decompose(m gg.Matrix) Decomposed {
	sx := math.Hypot(m.A, m.D)
	det := m.A*m.E - m.B*m.D
	sy := 0.0
	if sx != 0 {
		sy = det / sx
	}
	return Decomposed{
		Rotation: math.Atan2(m.D, m.A) * 180 / math.Pi,
		ScaleX:   sx,
		ScaleY:   sy,
		TX:       m.C,
		TY:       m.F,
	}
}

// IsPureRotation reports whether m rotates without translating, scaling or
// skewing: translation ≈ 0, both axis scales ≈ 1 and determinant ≈ 1.
func IsPureRotation(m gg.Matrix) bool {
	if math.Abs(m.C) > RotationTolerance || math.Abs(m.F) > RotationTolerance {
		return false
	}
	if math.Abs(math.Hypot(m.A, m.D)-1) > RotationTolerance ||
		math.Abs(math.Hypot(m.B, m.E)-1) > RotationTolerance {
		return false
	}
	return math.Abs(m.A*m.E-m.B*m.D-1) <= RotationTolerance
}

// IsIdentity reports whether m is the identity within tolerance.
func IsIdentity(m gg.Matrix) bool {
	id := gg.Identity()
	return near(m.A, id.A) && near(m.B, id.B) && near(m.C, id.C) &&
		near(m.D, id.D) && near(m.E, id.E) && near(m.F, id.F)
}

// Compose builds translate·rotate·scale, the order an interactive editor
// applies its own transform components in.
func Compose(tx, ty, rotationDeg, sx, sy float64) gg.Matrix {
	return gg.Translate(tx, ty).
		Multiply(gg.Rotate(rotationDeg * math.Pi / 180)).
		Multiply(gg.Scale(sx, sy))
}

// RotatedBounds returns the axis-aligned bounds of the w×h box at (x, y)
// rotated by deg around the box-relative pivot (ox, oy).
func RotatedBounds(x, y, w, h, deg, ox, oy float64) (rx, ry, rw, rh float64) {
	px, py := x+ox, y+oy
	m := gg.Translate(px, py).
		Multiply(gg.Rotate(deg * math.Pi / 180)).
		Multiply(gg.Translate(-px, -py))
	corners := []gg.Point{gg.Pt(x, y), gg.Pt(x+w, y), gg.Pt(x+w, y+h), gg.Pt(x, y+h)}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		p := m.TransformPoint(c)
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return minX, minY, maxX - minX, maxY - minY
}

func near(a, b float64) bool { return math.Abs(a-b) <= RotationTolerance }

func formatNumber(v float64) string {
	if math.Abs(v) < 1e-9 {
		return "0"
	}
	s := strings.TrimRight(strings.TrimRight(strconv.FormatFloat(v, 'f', 6, 64), "0"), ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
