package cssvalue

import (
	"math"
	"strconv"
	"strings"
)

// RootFontSize is the rem base.
const RootFontSize = 16.0

// Unit is the unit of a parsed length.
type Unit string

const (
	UnitPx      Unit = "px"
	UnitPercent Unit = "%"
	UnitEm      Unit = "em"
	UnitRem     Unit = "rem"
	UnitPt      Unit = "pt"
)

// Length is a number with a unit.
type Length struct {
	Value float64
	Unit  Unit
}

// ParseLength parses tokens like "12px", "50%", "1.5em" or a bare number
// (px). Keywords such as "auto" and unsupported units report ok=false.
func ParseLength(tok string) (Length, bool) {
	tok = strings.ToLower(strings.TrimSpace(tok))
	if tok == "" {
		return Length{}, false
	}
	for _, u := range []Unit{UnitRem, UnitPx, UnitPercent, UnitEm, UnitPt} {
		if strings.HasSuffix(tok, string(u)) {
			v, ok := ParseNumber(strings.TrimSuffix(tok, string(u)))
			if !ok {
				return Length{}, false
			}
			return Length{Value: v, Unit: u}, true
		}
	}
	v, ok := ParseNumber(tok)
	if !ok {
		return Length{}, false
	}
	return Length{Value: v, Unit: UnitPx}, true
}

// Resolve converts l to pixels against a reference dimension (for %) and a
// font size (for em).
func (l Length) Resolve(ref, fontSize float64) float64 {
	switch l.Unit {
	case UnitPercent:
		return l.Value / 100 * ref
	case UnitEm:
		return l.Value * fontSize
	case UnitRem:
		return l.Value * RootFontSize
	case UnitPt:
		return l.Value * 96 / 72
	default:
		return l.Value
	}
}

// ResolveLength resolves a length token to pixels. ok=false is the "unset"
// sentinel: auto, empty and unparseable tokens never resolve.
func ResolveLength(tok string, ref, fontSize float64) (float64, bool) {
	tok = strings.TrimSpace(tok)
	if name, args, isFunc := Func(tok); isFunc && name == "calc" {
		return resolveCalc(args, ref, fontSize)
	}
	l, ok := ParseLength(tok)
	if !ok {
		return 0, false
	}
	return l.Resolve(ref, fontSize), true
}

// LengthOr resolves tok, returning def when it is unset.
func LengthOr(tok string, ref, fontSize, def float64) float64 {
	if v, ok := ResolveLength(tok, ref, fontSize); ok {
		return v
	}
	return def
}

// resolveCalc handles sums and differences of lengths, which is what
// computed styles leave behind ("calc(50% - 12px)").
func resolveCalc(expr string, ref, fontSize float64) (float64, bool) {
	fields := Fields(expr)
	if len(fields) == 0 {
		return 0, false
	}
	total := 0.0
	sign := 1.0
	expectTerm := true
	for _, f := range fields {
		if !expectTerm {
			switch f {
			case "+":
				sign = 1
			case "-":
				sign = -1
			default:
				return 0, false
			}
			expectTerm = true
			continue
		}
		v, ok := ResolveLength(f, ref, fontSize)
		if !ok {
			return 0, false
		}
		total += sign * v
		expectTerm = false
	}
	if expectTerm {
		return 0, false
	}
	return total, true
}

// Span is the resolved extent of a box along one axis.
type Span struct {
	Start, Size float64
}

// ResolveSpan applies the absolute-positioning rules along one axis: start
// and size win; a missing size is derived from start and end against the
// container; a missing start is derived from end and size.
func ResolveSpan(start, end, size string, container, fontSize, intrinsic float64) Span {
	s, hasStart := ResolveLength(start, container, fontSize)
	e, hasEnd := ResolveLength(end, container, fontSize)
	w, hasSize := ResolveLength(size, container, fontSize)
	switch {
	case !hasSize && hasStart && hasEnd:
		w = container - s - e
	case !hasSize:
		w = intrinsic
	}
	if !hasStart {
		if hasEnd {
			s = container - e - w
		} else {
			s = 0
		}
	}
	return Span{Start: s, Size: math.Max(0, w)}
}

// ParseNumber parses a plain float. NaN and infinities are rejected.
func ParseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NumberOr parses s, returning def on failure.
func NumberOr(s string, def float64) float64 {
	if v, ok := ParseNumber(s); ok {
		return v
	}
	return def
}

// ParseAngle parses deg, rad, grad and turn units into degrees. A bare 0 is
// accepted.
func ParseAngle(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasSuffix(s, "deg"):
		return ParseNumber(strings.TrimSuffix(s, "deg"))
	case strings.HasSuffix(s, "grad"):
		v, ok := ParseNumber(strings.TrimSuffix(s, "grad"))
		return v * 0.9, ok
	case strings.HasSuffix(s, "rad"):
		v, ok := ParseNumber(strings.TrimSuffix(s, "rad"))
		return v * 180 / math.Pi, ok
	case strings.HasSuffix(s, "turn"):
		v, ok := ParseNumber(strings.TrimSuffix(s, "turn"))
		return v * 360, ok
	}
	v, ok := ParseNumber(s)
	if ok && v == 0 {
		return 0, true
	}
	return 0, false
}
