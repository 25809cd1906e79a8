package extractor

import (
	"net/url"
	"strings"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
	"github.com/hellenic-development/scene-extractor/pkg/effects"
	"github.com/hellenic-development/scene-extractor/pkg/oracle"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
)

// nonVisualTags never produce scene nodes.
var nonVisualTags = map[string]bool{
	"script":   true,
	"style":    true,
	"head":     true,
	"meta":     true,
	"link":     true,
	"template": true,
	"noscript": true,
	"title":    true,
}

// assetTags are replaced elements; an element holding one is never text.
var assetTags = map[string]bool{
	"img":     true,
	"svg":     true,
	"video":   true,
	"canvas":  true,
	"picture": true,
	"iframe":  true,
	"object":  true,
	"embed":   true,
	"audio":   true,
}

// formattingTags may appear inside text without splitting it into
// separate nodes.
var formattingTags = map[string]bool{
	"a":      true,
	"abbr":   true,
	"b":      true,
	"bdi":    true,
	"bdo":    true,
	"br":     true,
	"cite":   true,
	"code":   true,
	"del":    true,
	"dfn":    true,
	"em":     true,
	"font":   true,
	"i":      true,
	"ins":    true,
	"kbd":    true,
	"label":  true,
	"mark":   true,
	"q":      true,
	"s":      true,
	"samp":   true,
	"small":  true,
	"span":   true,
	"strike": true,
	"strong": true,
	"sub":    true,
	"sup":    true,
	"time":   true,
	"u":      true,
	"var":    true,
	"wbr":    true,
}

// Classify maps a tag to the node kind it produces. Everything that is not
// a replaced media element is a group; text is decided separately.
func Classify(tag string) scene.Kind {
	switch strings.ToLower(tag) {
	case "svg":
		return scene.KindVector
	case "img":
		return scene.KindImage
	case "video":
		return scene.KindVideo
	}
	return scene.KindGroup
}

// isTextLike reports whether el can be exported as one text node: it holds
// text, no replaced children, only formatting descendants that stay in the
// inline flow, and at most one painted formatting branch.
func isTextLike(el oracle.Element) bool {
	if strings.TrimSpace(oracle.TextContent(el)) == "" {
		return false
	}
	painted := 0
	for _, c := range oracle.ChildElements(el) {
		if !inlineFormatting(c) {
			return false
		}
		if hasPaint(c.ComputedStyle(oracle.PseudoNone)) {
			painted++
		}
	}
	return painted <= 1
}

// inlineFormatting reports whether el and all of its descendants are
// formatting tags without their own position, transform or display.
func inlineFormatting(el oracle.Element) bool {
	tag := strings.ToLower(el.Tag())
	if assetTags[tag] || !formattingTags[tag] {
		return false
	}
	st := el.ComputedStyle(oracle.PseudoNone)
	switch st.Get("position") {
	case "", "static", "relative":
	default:
		return false
	}
	if t := st.Get("transform"); t != "" && t != "none" {
		return false
	}
	switch st.Get("display") {
	case "", "inline", "contents":
	default:
		if tag != "br" {
			return false
		}
	}
	for _, c := range oracle.ChildElements(el) {
		if !inlineFormatting(c) {
			return false
		}
	}
	return true
}

// hasPaint reports whether a style draws anything besides its text:
// a visible background, a gradient or image, a border, an outline or a
// box shadow.
func hasPaint(st oracle.Style) bool {
	if c, ok := cssvalue.ParseColor(st.Get("background-color")); ok && cssvalue.Visible(c) {
		return true
	}
	if bg := st.Get("background-image"); bg != "" && bg != "none" {
		return true
	}
	if effects.ParseBorder(st, 1) != nil || effects.ParseOutline(st, 1) != nil {
		return true
	}
	if sh := st.Get("box-shadow"); sh != "" && sh != "none" {
		return true
	}
	return false
}

// bareURL reports whether text is nothing but an absolute http(s) URL or
// an image data URL.
func bareURL(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" || strings.ContainsAny(text, " \t\n") {
		return "", false
	}
	if strings.HasPrefix(text, "data:image/") {
		return text, true
	}
	u, err := url.Parse(text)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return text, true
}
