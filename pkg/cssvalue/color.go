package cssvalue

import (
	"strings"

	"github.com/gogpu/gg"

	"github.com/hellenic-development/scene-extractor/pkg/scene"
)

var namedColors = map[string]string{
	"black":   "000000",
	"white":   "ffffff",
	"red":     "ff0000",
	"green":   "008000",
	"lime":    "00ff00",
	"blue":    "0000ff",
	"yellow":  "ffff00",
	"cyan":    "00ffff",
	"aqua":    "00ffff",
	"magenta": "ff00ff",
	"fuchsia": "ff00ff",
	"gray":    "808080",
	"grey":    "808080",
	"silver":  "c0c0c0",
	"maroon":  "800000",
	"olive":   "808000",
	"navy":    "000080",
	"purple":  "800080",
	"teal":    "008080",
	"orange":  "ffa500",
	"pink":    "ffc0cb",
	"gold":    "ffd700",
	"indigo":  "4b0082",
	"violet":  "ee82ee",
	"brown":   "a52a2a",
}

// ParseColor parses a resolved color value. Supported forms are
// rgb()/rgba() in comma, space and slash syntax, hsl()/hsla(), hex (3, 4, 6
// and 8 digits), "transparent" and common named colors.
func ParseColor(s string) (scene.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return scene.Color{}, false
	case s == "transparent":
		return scene.Color{}, true
	case strings.HasPrefix(s, "#"):
		if !isHex(s[1:]) {
			return scene.Color{}, false
		}
		switch len(s) - 1 {
		case 3, 4, 6, 8:
			return fromRGBA(gg.Hex(s)), true
		}
		return scene.Color{}, false
	}
	if hex, ok := namedColors[s]; ok {
		return fromRGBA(gg.Hex(hex)), true
	}

	name, args, ok := Func(s)
	if !ok {
		return scene.Color{}, false
	}
	comps, alpha, ok := colorArgs(args)
	if !ok || len(comps) != 3 {
		return scene.Color{}, false
	}
	switch name {
	case "rgb", "rgba":
		var c [3]float64
		for i, tok := range comps {
			if strings.HasSuffix(tok, "%") {
				v, ok := ParseNumber(strings.TrimSuffix(tok, "%"))
				if !ok {
					return scene.Color{}, false
				}
				c[i] = v / 100
				continue
			}
			v, ok := ParseNumber(tok)
			if !ok {
				return scene.Color{}, false
			}
			c[i] = v / 255
		}
		return scene.Color{R: clamp01(c[0]), G: clamp01(c[1]), B: clamp01(c[2]), A: alpha}, true
	case "hsl", "hsla":
		h, ok := ParseAngle(comps[0])
		if !ok {
			h, ok = ParseNumber(comps[0])
		}
		if !ok {
			return scene.Color{}, false
		}
		sat, ok1 := ParseNumber(strings.TrimSuffix(comps[1], "%"))
		light, ok2 := ParseNumber(strings.TrimSuffix(comps[2], "%"))
		if !ok1 || !ok2 {
			return scene.Color{}, false
		}
		c := fromRGBA(gg.HSL(h, clamp01(sat/100), clamp01(light/100)))
		c.A = alpha
		return c, true
	}
	return scene.Color{}, false
}

// colorArgs splits "r, g, b, a", "r g b / a" and friends into three
// components and an alpha (default 1).
func colorArgs(args string) ([]string, float64, bool) {
	alpha := 1.0
	var comps []string
	if slash := strings.IndexByte(args, '/'); slash >= 0 {
		a, ok := parseAlpha(args[slash+1:])
		if !ok {
			return nil, 0, false
		}
		alpha = a
		comps = Fields(args[:slash])
	} else {
		comps = Args(args)
	}
	if len(comps) == 4 {
		a, ok := parseAlpha(comps[3])
		if !ok {
			return nil, 0, false
		}
		alpha = a
		comps = comps[:3]
	}
	return comps, alpha, true
}

func parseAlpha(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		v, ok := ParseNumber(strings.TrimSuffix(s, "%"))
		return clamp01(v / 100), ok
	}
	v, ok := ParseNumber(s)
	return clamp01(v), ok
}

// IsColor reports whether tok parses as a color.
func IsColor(tok string) bool {
	_, ok := ParseColor(tok)
	return ok
}

// Visible reports whether a color contributes any paint.
func Visible(c scene.Color) bool { return c.A > 0.001 }

func fromRGBA(c gg.RGBA) scene.Color {
	return scene.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
