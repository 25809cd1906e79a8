package cssvalue

import (
	"math"
	"strings"
	"unicode"
)

// PathSegment is one command of SVG path data with its raw argument
// tokens. Implicit repetitions are expanded into separate segments.
type PathSegment struct {
	Cmd  byte
	Args []string
}

var pathArity = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

// TokenizePath splits path data into segments. Percent-suffixed numbers are
// kept verbatim so callers can resolve them. ok=false on malformed data.
func TokenizePath(d string) ([]PathSegment, bool) {
	toks := pathTokens(d)
	var segs []PathSegment
	var cmd byte
	for i := 0; i < len(toks); {
		t := toks[i]
		if len(t) == 1 && isPathCommand(t[0]) {
			cmd = t[0]
			i++
			if upper(cmd) == 'Z' {
				segs = append(segs, PathSegment{Cmd: cmd})
				continue
			}
		} else if cmd == 0 || upper(cmd) == 'Z' {
			return nil, false
		}
		n := pathArity[upper(cmd)]
		if i+n > len(toks) {
			return nil, false
		}
		args := make([]string, n)
		for j := 0; j < n; j++ {
			a := toks[i+j]
			if len(a) == 1 && isPathCommand(a[0]) {
				return nil, false
			}
			args[j] = a
		}
		segs = append(segs, PathSegment{Cmd: cmd, Args: args})
		i += n
		// Extra coordinate pairs after a moveto are implicit linetos.
		switch cmd {
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		}
	}
	return segs, len(segs) > 0
}

// HasCurves reports whether any segment draws a curve or arc.
func HasCurves(segs []PathSegment) bool {
	for _, s := range segs {
		switch upper(s.Cmd) {
		case 'C', 'S', 'Q', 'T', 'A':
			return true
		}
	}
	return false
}

// IsClosed reports whether the data contains a closepath command.
func IsClosed(segs []PathSegment) bool {
	for _, s := range segs {
		if upper(s.Cmd) == 'Z' {
			return true
		}
	}
	return false
}

// AbsSegment is a path command with absolute numeric arguments. Only M, L,
// C, Q, A and Z appear: H/V become L, S becomes C and T becomes Q.
type AbsSegment struct {
	Cmd  byte
	Args []float64
}

// Absolute resolves relative and shorthand commands. Non-numeric arguments
// make the whole path invalid.
func Absolute(segs []PathSegment) ([]AbsSegment, bool) {
	var out []AbsSegment
	var cx, cy, sx, sy float64
	var lastCtrlX, lastCtrlY float64
	var prev byte
	for _, s := range segs {
		c := upper(s.Cmd)
		rel := s.Cmd != c
		v := make([]float64, len(s.Args))
		for i, a := range s.Args {
			n, ok := ParseNumber(a)
			if !ok {
				return nil, false
			}
			v[i] = n
		}
		if rel {
			switch c {
			case 'H':
				v[0] += cx
			case 'V':
				v[0] += cy
			case 'A':
				v[5] += cx
				v[6] += cy
			default:
				for i := 0; i+1 < len(v); i += 2 {
					v[i] += cx
					v[i+1] += cy
				}
			}
		}
		switch c {
		case 'M':
			cx, cy = v[0], v[1]
			sx, sy = cx, cy
			out = append(out, AbsSegment{Cmd: 'M', Args: v})
		case 'L':
			cx, cy = v[0], v[1]
			out = append(out, AbsSegment{Cmd: 'L', Args: v})
		case 'H':
			cx = v[0]
			out = append(out, AbsSegment{Cmd: 'L', Args: []float64{cx, cy}})
		case 'V':
			cy = v[0]
			out = append(out, AbsSegment{Cmd: 'L', Args: []float64{cx, cy}})
		case 'C':
			lastCtrlX, lastCtrlY = v[2], v[3]
			cx, cy = v[4], v[5]
			out = append(out, AbsSegment{Cmd: 'C', Args: v})
		case 'S':
			x1, y1 := cx, cy
			if prev == 'C' || prev == 'S' {
				x1, y1 = 2*cx-lastCtrlX, 2*cy-lastCtrlY
			}
			lastCtrlX, lastCtrlY = v[0], v[1]
			out = append(out, AbsSegment{Cmd: 'C', Args: []float64{x1, y1, v[0], v[1], v[2], v[3]}})
			cx, cy = v[2], v[3]
		case 'Q':
			lastCtrlX, lastCtrlY = v[0], v[1]
			cx, cy = v[2], v[3]
			out = append(out, AbsSegment{Cmd: 'Q', Args: v})
		case 'T':
			x1, y1 := cx, cy
			if prev == 'Q' || prev == 'T' {
				x1, y1 = 2*cx-lastCtrlX, 2*cy-lastCtrlY
			}
			lastCtrlX, lastCtrlY = x1, y1
			out = append(out, AbsSegment{Cmd: 'Q', Args: []float64{x1, y1, v[0], v[1]}})
			cx, cy = v[0], v[1]
		case 'A':
			cx, cy = v[5], v[6]
			out = append(out, AbsSegment{Cmd: 'A', Args: v})
		case 'Z':
			cx, cy = sx, sy
			out = append(out, AbsSegment{Cmd: 'Z'})
		}
		prev = c
	}
	return out, true
}

// ArcPoints approximates an SVG elliptical arc from (x0, y0) by n points
// (excluding the start point), using the endpoint-to-center conversion.
func ArcPoints(x0, y0 float64, a []float64, n int) [][2]float64 {
	rx, ry := math.Abs(a[0]), math.Abs(a[1])
	phi := a[2] * math.Pi / 180
	large, sweep := a[3] != 0, a[4] != 0
	x1, y1 := a[5], a[6]
	if rx == 0 || ry == 0 || (x0 == x1 && y0 == y1) {
		return [][2]float64{{x1, y1}}
	}
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)
	dx, dy := (x0-x1)/2, (y0-y1)/2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy

	lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}
	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx
	cx := cosPhi*cxp - sinPhi*cyp + (x0+x1)/2
	cy := sinPhi*cxp + cosPhi*cyp + (y0+y1)/2

	theta1 := math.Atan2((y1p-cyp)/ry, (x1p-cxp)/rx)
	theta2 := math.Atan2((-y1p-cyp)/ry, (-x1p-cxp)/rx)
	delta := theta2 - theta1
	if sweep && delta < 0 {
		delta += 2 * math.Pi
	} else if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	}

	pts := make([][2]float64, 0, n)
	for i := 1; i <= n; i++ {
		t := theta1 + delta*float64(i)/float64(n)
		x := cx + rx*math.Cos(t)*cosPhi - ry*math.Sin(t)*sinPhi
		y := cy + rx*math.Cos(t)*sinPhi + ry*math.Sin(t)*cosPhi
		pts = append(pts, [2]float64{x, y})
	}
	pts[len(pts)-1] = [2]float64{x1, y1}
	return pts
}

func pathTokens(d string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(d); i++ {
		c := d[i]
		switch {
		case isPathCommand(c) && !(c == 'e' || c == 'E'):
			flush()
			toks = append(toks, string(c))
		case c == ',' || unicode.IsSpace(rune(c)):
			flush()
		case c == '-' || c == '+':
			// A sign starts a new number unless it follows an exponent.
			s := cur.String()
			if s != "" && !strings.HasSuffix(s, "e") && !strings.HasSuffix(s, "E") {
				flush()
			}
			cur.WriteByte(c)
		case c == '.':
			if strings.Contains(cur.String(), ".") && !strings.ContainsAny(cur.String(), "eE") {
				flush()
			}
			cur.WriteByte(c)
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return toks
}

func isPathCommand(c byte) bool {
	_, ok := pathArity[upper(c)]
	return ok && unicode.IsLetter(rune(c))
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// SplitSubpaths groups absolute segments into subpaths, starting a new one
// at every moveto.
func SplitSubpaths(abs []AbsSegment) [][]AbsSegment {
	var out [][]AbsSegment
	for i, s := range abs {
		if s.Cmd == 'M' || i == 0 {
			out = append(out, nil)
		}
		out[len(out)-1] = append(out[len(out)-1], s)
	}
	return out
}
