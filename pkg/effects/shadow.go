package effects

import (
	"strings"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
)

var defaultShadowColor = scene.Color{A: 1}

// ParseShadows parses a box-shadow list in declaration order. Entries with
// fewer than two offsets are dropped; "none" yields nil.
func ParseShadows(value string, scale float64) []scene.Shadow {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "none") {
		return nil
	}
	var out []scene.Shadow
	for _, entry := range cssvalue.SplitTopLevel(value, ',') {
		if s, ok := parseShadow(entry, scale); ok {
			out = append(out, s)
		}
	}
	return out
}

func parseShadow(entry string, scale float64) (scene.Shadow, bool) {
	var (
		lengths  []float64
		inset    bool
		color    scene.Color
		hasColor bool
	)
	for _, tok := range cssvalue.Fields(entry) {
		if strings.EqualFold(tok, "inset") {
			inset = true
			continue
		}
		if v, ok := cssvalue.ResolveLength(tok, 0, cssvalue.RootFontSize); ok {
			lengths = append(lengths, v)
			continue
		}
		// A later color token replaces an earlier one.
		if c, ok := cssvalue.ParseColor(tok); ok {
			color, hasColor = c, true
		}
	}
	if len(lengths) < 2 {
		return scene.Shadow{}, false
	}
	if !hasColor {
		color = defaultShadowColor
	}
	s := scene.Shadow{
		X:     lengths[0] * scale,
		Y:     lengths[1] * scale,
		Color: color,
		Inset: inset,
	}
	if len(lengths) > 2 {
		s.Blur = lengths[2] * scale
	}
	if len(lengths) > 3 {
		s.Spread = lengths[3] * scale
	}
	return s, true
}
