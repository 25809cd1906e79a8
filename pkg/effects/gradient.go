package effects

import (
	"math"
	"strings"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
)

// Gradient types.
const (
	GradientLinear = "linear"
	GradientRadial = "radial"
)

var sideAngles = map[string]float64{
	"top":    0,
	"right":  90,
	"bottom": 180,
	"left":   270,
}

// cornerAngle returns the angle of a "to <corner>" gradient on a w×h box.
// The gradient line is perpendicular to the diagonal joining the two
// neighboring corners, so the angle depends on the aspect ratio.
func cornerAngle(keywords string, w, h float64) (float64, bool) {
	a := 45.0
	if w > 0 || h > 0 {
		a = math.Atan2(h, w) * 180 / math.Pi
	}
	switch keywords {
	case "top right", "right top":
		return a, true
	case "bottom right", "right bottom":
		return 180 - a, true
	case "bottom left", "left bottom":
		return 180 + a, true
	case "top left", "left top":
		return 360 - a, true
	}
	return 0, false
}

var radialExtents = map[string]bool{
	"closest-side":    true,
	"closest-corner":  true,
	"farthest-side":   true,
	"farthest-corner": true,
}

type rawStop struct {
	color  scene.Color
	offset float64
	set    bool
}

// ParseGradient decomposes the first gradient layer of a background-image
// value against a w×h box. It returns nil for url() layers, unsupported
// gradient kinds and malformed input.
func ParseGradient(value string, w, h float64) *scene.Gradient {
	for _, layer := range cssvalue.SplitTopLevel(value, ',') {
		name, args, ok := cssvalue.Func(layer)
		if !ok {
			continue
		}
		switch name {
		case "linear-gradient", "repeating-linear-gradient":
			g := parseLinear(args, w, h)
			if g != nil {
				g.Repeating = strings.HasPrefix(name, "repeating-")
			}
			return g
		case "radial-gradient", "repeating-radial-gradient":
			g := parseRadial(args, w, h)
			if g != nil {
				g.Repeating = strings.HasPrefix(name, "repeating-")
			}
			return g
		}
	}
	return nil
}

func parseLinear(args string, w, h float64) *scene.Gradient {
	parts := cssvalue.SplitTopLevel(args, ',')
	if len(parts) == 0 {
		return nil
	}
	angle := 180.0
	first := strings.ToLower(parts[0])
	if a, ok := cssvalue.ParseAngle(first); ok {
		angle = a
		parts = parts[1:]
	} else if strings.HasPrefix(first, "to ") {
		keywords := strings.Join(strings.Fields(first)[1:], " ")
		a, ok := sideAngles[keywords]
		if !ok {
			if a, ok = cornerAngle(keywords, w, h); !ok {
				return nil
			}
		}
		angle = a
		parts = parts[1:]
	}
	rad := angle * math.Pi / 180
	lineLength := math.Abs(w*math.Sin(rad)) + math.Abs(h*math.Cos(rad))
	stops, ok := parseStops(parts, lineLength)
	if !ok {
		return nil
	}
	return &scene.Gradient{Type: GradientLinear, Angle: angle, Stops: stops}
}

func parseRadial(args string, w, h float64) *scene.Gradient {
	parts := cssvalue.SplitTopLevel(args, ',')
	if len(parts) == 0 {
		return nil
	}
	g := &scene.Gradient{
		Type:    GradientRadial,
		Shape:   "ellipse",
		Extent:  "farthest-corner",
		CenterX: 0.5,
		CenterY: 0.5,
	}
	if !startsWithColor(parts[0]) {
		toks := cssvalue.Fields(strings.ToLower(parts[0]))
		at := len(toks)
		for i, t := range toks {
			if t == "at" {
				at = i
				break
			}
		}
		for _, t := range toks[:at] {
			switch {
			case t == "circle" || t == "ellipse":
				g.Shape = t
			case radialExtents[t]:
				g.Extent = t
			default:
				if _, ok := cssvalue.ResolveLength(t, w, cssvalue.RootFontSize); !ok {
					return nil
				}
				g.Extent = t
			}
		}
		if at < len(toks) {
			x, y, ok := cssvalue.ParsePosition(toks[at+1:], w, h, cssvalue.RootFontSize)
			if !ok {
				return nil
			}
			if w > 0 {
				g.CenterX = x / w
			}
			if h > 0 {
				g.CenterY = y / h
			}
		}
		parts = parts[1:]
	}
	stops, ok := parseStops(parts, math.Max(w, h)/2)
	if !ok {
		return nil
	}
	g.Stops = stops
	return g
}

func startsWithColor(part string) bool {
	toks := cssvalue.Fields(part)
	return len(toks) > 0 && cssvalue.IsColor(toks[0])
}

// parseStops reads color stops. Positions may be percentages or lengths
// along a gradient line of the given length. A stop with two positions
// expands into two stops. Missing offsets are spread evenly between their
// known neighbors.
func parseStops(parts []string, lineLength float64) ([]scene.GradientStop, bool) {
	var raw []rawStop
	for _, p := range parts {
		toks := cssvalue.Fields(p)
		if len(toks) == 0 {
			return nil, false
		}
		c, ok := cssvalue.ParseColor(toks[0])
		if !ok {
			// Interpolation hints ("30%") carry no color; skip them.
			if len(toks) == 1 {
				if _, isLen := cssvalue.ResolveLength(toks[0], 1, cssvalue.RootFontSize); isLen {
					continue
				}
			}
			return nil, false
		}
		if len(toks) == 1 {
			raw = append(raw, rawStop{color: c})
			continue
		}
		for _, t := range toks[1:] {
			off, ok := stopOffset(t, lineLength)
			if !ok {
				return nil, false
			}
			raw = append(raw, rawStop{color: c, offset: off, set: true})
		}
	}
	if len(raw) < 2 {
		return nil, false
	}
	if !raw[0].set {
		raw[0].offset, raw[0].set = 0, true
	}
	if last := len(raw) - 1; !raw[last].set {
		raw[last].offset, raw[last].set = 1, true
	}
	for i := 1; i < len(raw); i++ {
		if raw[i].set {
			continue
		}
		j := i
		for !raw[j].set {
			j++
		}
		from, to := raw[i-1].offset, raw[j].offset
		n := float64(j - i + 1)
		for k := i; k < j; k++ {
			raw[k].offset = from + (to-from)*float64(k-i+1)/n
			raw[k].set = true
		}
	}
	stops := make([]scene.GradientStop, len(raw))
	prev := math.Inf(-1)
	for i, r := range raw {
		off := math.Max(prev, r.offset)
		prev = off
		stops[i] = scene.GradientStop{Offset: off, Color: r.color}
	}
	return stops, true
}

func stopOffset(tok string, lineLength float64) (float64, bool) {
	if strings.HasSuffix(tok, "%") {
		v, ok := cssvalue.ParseNumber(strings.TrimSuffix(tok, "%"))
		return v / 100, ok
	}
	v, ok := cssvalue.ResolveLength(tok, lineLength, cssvalue.RootFontSize)
	if !ok || lineLength <= 0 {
		return 0, false
	}
	return v / lineLength, true
}
