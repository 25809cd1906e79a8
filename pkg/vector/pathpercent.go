package vector

import (
	"math"
	"strconv"
	"strings"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
)

type role int

const (
	roleNone role = iota
	roleX
	roleY
)

// argRoles maps the arguments of a command to the axis they measure.
// Commands not listed alternate x, y.
var argRoles = map[byte][]role{
	'H': {roleX},
	'V': {roleY},
	'A': {roleX, roleY, roleNone, roleNone, roleNone, roleX, roleY},
	'Z': {},
}

// NormalizePathPercent rewrites percent coordinates in path data to
// absolute numbers, x-role values against w and y-role values against h.
// Data without percentages, or data that does not parse, is returned
// unchanged.
func NormalizePathPercent(d string, w, h float64) string {
	if !strings.Contains(d, "%") {
		return d
	}
	segs, ok := cssvalue.TokenizePath(d)
	if !ok {
		return d
	}
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		var sb strings.Builder
		sb.WriteByte(s.Cmd)
		roles := roleFor(s.Cmd, len(s.Args))
		for i, a := range s.Args {
			sb.WriteByte(' ')
			sb.WriteString(resolveArg(a, roles[i], w, h))
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, " ")
}

func roleFor(cmd byte, n int) []role {
	up := cmd
	if up >= 'a' && up <= 'z' {
		up -= 'a' - 'A'
	}
	if r, ok := argRoles[up]; ok {
		return r
	}
	out := make([]role, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = roleX
		} else {
			out[i] = roleY
		}
	}
	return out
}

func resolveArg(a string, r role, w, h float64) string {
	if !strings.HasSuffix(a, "%") || r == roleNone {
		return a
	}
	v, ok := cssvalue.ParseNumber(strings.TrimSuffix(a, "%"))
	if !ok {
		return a
	}
	ref := w
	if r == roleY {
		ref = h
	}
	return formatNumber(v / 100 * ref)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}
