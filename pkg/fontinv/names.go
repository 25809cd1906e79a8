// Package fontinv builds the font inventory of an artifact: the font
// resources its style sheets reference and the normalized family and
// variant names its text actually uses.
package fontinv

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var genericFamilies = map[string]bool{
	"serif":         true,
	"sans-serif":    true,
	"monospace":     true,
	"cursive":       true,
	"fantasy":       true,
	"system-ui":     true,
	"ui-serif":      true,
	"ui-sans-serif": true,
	"ui-monospace":  true,
	"inherit":       true,
	"initial":       true,
}

// IsGeneric reports whether family is a generic or keyword family that no
// font resource can satisfy.
func IsGeneric(family string) bool {
	return genericFamilies[strings.ToLower(strings.TrimSpace(family))]
}

// WeightName buckets a numeric weight.
func WeightName(weight int) string {
	switch {
	case weight < 500:
		return "Regular"
	case weight < 600:
		return "Medium"
	case weight < 700:
		return "SemiBold"
	case weight < 800:
		return "Bold"
	case weight < 900:
		return "ExtraBold"
	}
	return "Black"
}

// Variant returns the style suffix of a weight and slant, such as "Bold",
// "BoldItalic" or "Italic" (regular italic).
func Variant(weight int, italic bool) string {
	w := WeightName(weight)
	if !italic {
		return w
	}
	if w == "Regular" {
		return "Italic"
	}
	return w + "Italic"
}

// StyleName is the human form of Variant: "Bold Italic", "Regular".
func StyleName(weight int, italic bool) string {
	w := WeightName(weight)
	if !italic {
		return w
	}
	if w == "Regular" {
		return "Italic"
	}
	return w + " Italic"
}

// BaseName title-cases the words of a family and strips the spaces:
// "open sans" becomes "OpenSans".
func BaseName(family string) string {
	family = strings.Trim(strings.TrimSpace(family), `"'`)
	// A Caser is stateful, so each call gets its own.
	title := cases.Title(language.Und, cases.NoLower).String(family)
	return strings.Join(strings.Fields(title), "")
}

// PostScriptName is BaseName(family) + "-" + Variant(weight, italic).
func PostScriptName(family string, weight int, italic bool) string {
	base := BaseName(family)
	if base == "" {
		return ""
	}
	return base + "-" + Variant(weight, italic)
}

// parseFaceWeight reads a font-face weight descriptor. Ranges ("100 900")
// use their lower bound.
func parseFaceWeight(v string) int {
	f := strings.Fields(strings.ToLower(v))
	if len(f) == 0 {
		return 400
	}
	switch f[0] {
	case "normal":
		return 400
	case "bold":
		return 700
	}
	if n, err := strconv.Atoi(f[0]); err == nil {
		return n
	}
	return 400
}
