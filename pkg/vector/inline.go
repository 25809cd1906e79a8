// Package vector turns live SVG subtrees into self-contained markup.
package vector

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
	"github.com/hellenic-development/scene-extractor/pkg/oracle"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// PaintProps are baked onto primitive shapes and text.
var PaintProps = []string{
	"fill",
	"stroke",
	"stroke-width",
	"stroke-dasharray",
	"stroke-linecap",
	"stroke-linejoin",
	"stroke-opacity",
	"fill-opacity",
	"opacity",
}

// FontProps are baked onto text runs.
var FontProps = []string{
	"font-family",
	"font-size",
	"font-weight",
	"font-style",
}

var primitiveTags = map[string]bool{
	"path":     true,
	"circle":   true,
	"ellipse":  true,
	"rect":     true,
	"line":     true,
	"polyline": true,
	"polygon":  true,
}

var textTags = map[string]bool{
	"text":     true,
	"tspan":    true,
	"textpath": true,
}

// knownAttrs is read from elements that cannot enumerate their attributes.
var knownAttrs = []string{
	"id", "class", "viewBox", "width", "height", "x", "y", "x1", "y1", "x2", "y2",
	"cx", "cy", "r", "rx", "ry", "d", "points", "transform", "fill", "stroke",
	"stroke-width", "opacity", "preserveAspectRatio", "href", "xlink:href",
	"offset", "stop-color", "stop-opacity", "gradientUnits", "clip-path", "mask",
}

// Inline clones the SVG subtree rooted at el and returns its markup with
// the resolved paint of every primitive, and the resolved font of every
// text run, written onto the clone. Explicit attributes are kept unless
// they are indirect (currentColor, var() or inherit). Percent coordinates
// in path data are resolved against the asset's viewport.
func Inline(el oracle.Element) (string, error) {
	vw, vh := Viewport(el)
	root := clone(el, vw, vh)
	if _, ok := attr(root, "xmlns"); !ok && el.Tag() == "svg" {
		setAttr(root, "xmlns", svgNamespace)
	}
	r := el.Rect()
	if _, ok := attr(root, "width"); !ok && r.W > 0 {
		setAttr(root, "width", formatNumber(r.W))
	}
	if _, ok := attr(root, "height"); !ok && r.H > 0 {
		setAttr(root, "height", formatNumber(r.H))
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("failed to render <%s>: %w", el.Tag(), err)
	}
	return buf.String(), nil
}

func clone(el oracle.Element, vw, vh float64) *html.Node {
	tag := el.Tag()
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	attrs := attributes(el)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		v := attrs[k]
		if tag == "path" && k == "d" {
			v = NormalizePathPercent(v, vw, vh)
		}
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: v})
	}

	lower := strings.ToLower(tag)
	if primitiveTags[lower] || textTags[lower] {
		bake(n, el.ComputedStyle(oracle.PseudoNone), PaintProps)
	}
	if textTags[lower] {
		bake(n, el.ComputedStyle(oracle.PseudoNone), FontProps)
	}

	for _, c := range el.ChildNodes() {
		switch cn := c.(type) {
		case oracle.Text:
			n.AppendChild(&html.Node{Type: html.TextNode, Data: cn.Data()})
		case oracle.Element:
			n.AppendChild(clone(cn, vw, vh))
		}
	}
	return n
}

func attributes(el oracle.Element) map[string]string {
	if a, ok := el.(oracle.Attributed); ok {
		return a.Attrs()
	}
	out := make(map[string]string)
	for _, k := range knownAttrs {
		if v, ok := el.Attr(k); ok {
			out[k] = v
		}
	}
	return out
}

// bake copies resolved style values onto n where n has no usable value.
func bake(n *html.Node, st oracle.Style, props []string) {
	for _, p := range props {
		v := st.Get(p)
		if v == "" {
			continue
		}
		if cur, ok := attr(n, p); ok && !Indirect(cur) {
			continue
		}
		setAttr(n, p, v)
	}
}

// Indirect reports whether an attribute value defers to context instead of
// naming a value.
func Indirect(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "currentcolor" || v == "inherit" || strings.HasPrefix(v, "var(")
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Viewport returns the coordinate frame of an svg element: its viewBox
// size, else its width and height attributes, else its rendered box.
func Viewport(el oracle.Element) (w, h float64) {
	if vb, ok := el.Attr("viewBox"); ok {
		parts := strings.FieldsFunc(vb, func(r rune) bool { return r == ',' || r == ' ' })
		if len(parts) == 4 {
			pw, ok1 := cssvalue.ParseNumber(parts[2])
			ph, ok2 := cssvalue.ParseNumber(parts[3])
			if ok1 && ok2 && pw > 0 && ph > 0 {
				return pw, ph
			}
		}
	}
	r := el.Rect()
	w, h = r.W, r.H
	if v, ok := el.Attr("width"); ok {
		if px, ok := cssvalue.ResolveLength(v, r.W, cssvalue.RootFontSize); ok && px > 0 {
			w = px
		}
	}
	if v, ok := el.Attr("height"); ok {
		if px, ok := cssvalue.ResolveLength(v, r.H, cssvalue.RootFontSize); ok && px > 0 {
			h = px
		}
	}
	return w, h
}
