// Package extractor walks a rendered element tree and builds the scene
// graph: one node per visual element, classified once, with text,
// generated content and background images synthesized as extra children.
//
// All geometry and style is read from an oracle. Measurements that need the
// document changed (neutralized rotations, editor transforms, measurement
// probes) go through a per-element scope that reverts them before the
// element's node is returned.
package extractor

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gogpu/gg"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
	"github.com/hellenic-development/scene-extractor/pkg/effects"
	"github.com/hellenic-development/scene-extractor/pkg/fontinv"
	"github.com/hellenic-development/scene-extractor/pkg/oracle"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
	"github.com/hellenic-development/scene-extractor/pkg/textseg"
	"github.com/hellenic-development/scene-extractor/pkg/vector"
)

// ErrInvisibleRoot is returned when the root element renders nothing.
var ErrInvisibleRoot = errors.New("root element is not visible")

// Logger receives soft failures: clip children that could not be
// converted, probes that failed, overrides the renderer refused.
type Logger interface {
	Warnf(format string, args ...any)
}

// Options configure a Builder.
type Options struct {
	// Scale maps source pixels to target pixels. Zero means 1.
	Scale  float64
	Logger Logger
}

// Builder converts an element tree into scene nodes. A Builder is not safe
// for concurrent use; every extraction runs on a single goroutine.
type Builder struct {
	rc     oracle.Context
	scale  float64
	logger Logger

	// Root origin, subtracted from every rect.
	ox, oy float64

	fonts []fontinv.Usage
	seen  map[fontinv.Usage]bool
}

// New creates a builder reading from rc.
func New(rc oracle.Context, opts Options) *Builder {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	return &Builder{rc: rc, scale: scale, logger: opts.Logger}
}

// Build converts the tree under root. A root that is hidden or has no area
// fails with ErrInvisibleRoot.
func (b *Builder) Build(root oracle.Element) (*scene.Node, error) {
	b.fonts = nil
	b.seen = make(map[fontinv.Usage]bool)

	r := root.Rect()
	if r.Empty() {
		return nil, fmt.Errorf("<%s> has no area: %w", root.Tag(), ErrInvisibleRoot)
	}
	b.ox, b.oy = r.X, r.Y

	n := b.element(root)
	if n == nil {
		return nil, fmt.Errorf("<%s>: %w", root.Tag(), ErrInvisibleRoot)
	}
	return n, nil
}

// Fonts returns the font usages met by the last Build, in first-seen order.
func (b *Builder) Fonts() []fontinv.Usage {
	return slices.Clone(b.fonts)
}

// element builds the node of el, or nil when el renders nothing.
func (b *Builder) element(el oracle.Element) *scene.Node {
	tag := strings.ToLower(el.Tag())
	if nonVisualTags[tag] {
		return nil
	}

	sc := newScope(b.rc)
	defer sc.release()

	b.applyEditorTransform(sc, el)

	st := el.ComputedStyle(oracle.PseudoNone)
	if st.Get("display") == "none" {
		return nil
	}
	opacity := cssvalue.NumberOr(st.Get("opacity"), 1)
	if opacity <= 0 {
		return nil
	}
	hidden := st.Get("visibility") == "hidden" || st.Get("visibility") == "collapse"

	r := el.Rect()
	m, ok := cssvalue.ParseTransform(st.Get("transform"), r.W, r.H)
	if !ok {
		m = gg.Identity()
	}
	identity := cssvalue.IsIdentity(m)
	pure := !identity && cssvalue.IsPureRotation(m)

	// A pure rotation is measured unrotated and re-expanded afterwards;
	// children are then laid out in the element's own frame.
	if pure {
		if err := sc.setStyle(el, "transform", "none"); err != nil {
			b.warnf("%v", err)
			pure = false
		} else {
			r = el.Rect()
		}
	}

	n := &scene.Node{
		Kind:  Classify(tag),
		Name:  nodeName(el),
		BBox:  b.bbox(r),
		Style: b.style(st, r, m, identity, pure),
	}
	n.Style.Opacity = opacity
	n.Border = effects.ParseBorder(st, b.scale)
	n.Outline = effects.ParseOutline(st, b.scale)
	n.Clip = b.clip(st, r)
	if mask := st.First("mask-image", "-webkit-mask-image"); mask != "" && mask != "none" {
		n.Hints.Mask = true
	}

	painted := hasPaint(st)
	switch n.Kind {
	case scene.KindVector, scene.KindImage, scene.KindVideo:
		if hidden || r.Empty() {
			return nil
		}
		n.Asset = b.asset(el, n.Kind, st, r)
		n.Hints.Asset = true
	default:
		if hidden {
			painted = false
			n.Style.Fill, n.Style.Gradient, n.Style.Shadows = nil, nil, nil
			n.Border, n.Outline = nil, nil
			n.Hints.Hidden = true
			n.Children = b.children(el, st, true)
		} else {
			b.content(el, st, r, n, painted)
		}
		if len(n.Children) == 0 && n.Kind == scene.KindGroup && (hidden || r.Empty()) {
			return nil
		}
	}

	if n.Kind == scene.KindGroup && len(n.Children) > 0 {
		u := unionBoxes(n.Children)
		switch {
		case painted:
			n.BBox = unionBox(n.BBox, u)
		case n.Clip == nil || !n.Clip.Enabled:
			n.BBox = u
		}
	}

	if pure {
		o := cssvalue.ResolveOrigin(st.Get("transform-origin"), r.W, r.H, b.scale)
		own := b.bbox(r)
		px, py := own.X+o.TargetX, own.Y+o.TargetY
		x, y, w, h := cssvalue.RotatedBounds(n.BBox.X, n.BBox.Y, n.BBox.W, n.BBox.H,
			cssvalue.Decompose(m).Rotation, px-n.BBox.X, py-n.BBox.Y)
		n.BBox = scene.BBox{X: x, Y: y, W: w, H: h}
	}

	n.Hints.Isolate = (n.Clip != nil && n.Clip.Enabled) || opacity < 1 || !identity || len(n.Children) > 0
	return n
}

// content fills in the children of a visible group: background image,
// generated content and either collapsed text or the element's children.
// An unpainted text-like element without other children becomes a text
// node itself.
func (b *Builder) content(el oracle.Element, st oracle.Style, r oracle.Rect, n *scene.Node, painted bool) {
	var lead, trail []*scene.Node
	if bg := b.backgroundImage(st, r); bg != nil {
		lead = append(lead, bg)
	}
	if before := b.pseudo(el, oracle.PseudoBefore, st, r); before != nil {
		lead = append(lead, before)
	}
	if after := b.pseudo(el, oracle.PseudoAfter, st, r); after != nil {
		trail = append(trail, after)
	}
	standalone := !painted && len(lead) == 0 && len(trail) == 0

	var body []*scene.Node
	src, isURL := "", false
	if len(oracle.ChildElements(el)) == 0 {
		src, isURL = bareURL(oracle.TextContent(el))
	}
	switch {
	case isURL:
		if standalone {
			n.Kind = scene.KindImage
			n.Asset = &scene.Asset{Src: src, Width: n.BBox.W, Height: n.BBox.H}
			n.Hints.Asset = true
			return
		}
		body = append(body, &scene.Node{
			Kind:  scene.KindImage,
			Name:  n.Name + " image",
			BBox:  n.BBox,
			Style: scene.Style{Opacity: 1},
			Hints: scene.Hints{Asset: true, Layer: scene.LayerContent},
			Asset: &scene.Asset{Src: src, Width: n.BBox.W, Height: n.BBox.H},
		})
	case isTextLike(el):
		box := contentBox(st, r)
		t := b.text(el, st, textseg.Tokenize(el), box)
		if t == nil {
			break
		}
		if standalone {
			n.Kind = scene.KindText
			n.Name = snippet(t.Content)
			n.Text = t
			n.Hints.Text = true
			return
		}
		body = append(body, &scene.Node{
			Kind:  scene.KindText,
			Name:  snippet(t.Content),
			BBox:  b.bbox(box),
			Style: scene.Style{Opacity: 1},
			Hints: scene.Hints{Text: true, Layer: scene.LayerContent},
			Text:  t,
		})
	default:
		body = b.children(el, st, false)
	}

	n.Children = slices.Concat(lead, body, trail)
}

// children builds the child nodes of el in document order. Loose text
// between child elements becomes its own text node. Under a hidden
// element only element children are visited.
func (b *Builder) children(el oracle.Element, st oracle.Style, hidden bool) []*scene.Node {
	var out []*scene.Node
	for _, c := range el.ChildNodes() {
		switch c := c.(type) {
		case oracle.Element:
			if cn := b.element(c); cn != nil {
				out = append(out, cn)
			}
		case oracle.Text:
			if hidden || strings.TrimSpace(c.Data()) == "" {
				continue
			}
			if cn := b.looseText(el, st, c); cn != nil {
				out = append(out, cn)
			}
		}
	}
	return out
}

// looseText builds a text node for a text run that sits directly inside a
// group next to other elements.
func (b *Builder) looseText(host oracle.Element, st oracle.Style, t oracle.Text) *scene.Node {
	t2 := b.text(host, st, textseg.TokenizeText(t, host), contentBox(st, host.Rect()))
	if t2 == nil || len(t2.LineBoxes) == 0 {
		return nil
	}
	box := t2.LineBoxes[0]
	for _, lb := range t2.LineBoxes[1:] {
		box = unionBox(box, lb)
	}
	return &scene.Node{
		Kind:  scene.KindText,
		Name:  snippet(t2.Content),
		BBox:  box,
		Style: scene.Style{Opacity: 1},
		Hints: scene.Hints{Text: true},
		Text:  t2,
	}
}

// text reconstructs the rendered lines of units. Lines without measured
// rectangles fall back to the content box.
func (b *Builder) text(host oracle.Element, st oracle.Style, units []textseg.Unit, content oracle.Rect) *scene.Text {
	textseg.Measure(units)
	preserve := textseg.PreservesWhitespace(st.Get("white-space"))
	lines := textseg.Segment(units, textseg.FontSize(st), preserve)
	if len(lines) == 0 {
		return nil
	}

	t := &scene.Text{
		Content: textseg.Content(lines, preserve),
		Font:    textseg.FontFromStyle(st, b.scale),
	}
	b.useFont(st)
	for _, l := range lines {
		t.Lines = append(t.Lines, l.Text)
		lr := content
		if l.HasRect {
			lr = l.Rect
		}
		t.LineBoxes = append(t.LineBoxes, b.bbox(lr))
		if l.Owner != nil && l.Owner != host {
			b.useFont(l.Owner.ComputedStyle(oracle.PseudoNone))
		}
	}
	t.Overrides = textseg.Overrides(lines, host, textseg.BaseFromStyle(st, content.X), b.scale)
	return t
}

func (b *Builder) useFont(st oracle.Style) {
	family := textseg.Family(st.Get("font-family"))
	if family == "" {
		return
	}
	u := fontinv.Usage{
		Family: family,
		Weight: textseg.ParseWeight(st.Get("font-weight")),
		Italic: textseg.IsItalic(st.Get("font-style")),
	}
	if b.seen[u] {
		return
	}
	b.seen[u] = true
	b.fonts = append(b.fonts, u)
}

func (b *Builder) style(st oracle.Style, r oracle.Rect, m gg.Matrix, identity, pure bool) scene.Style {
	s := scene.Style{Opacity: 1}
	if c, ok := cssvalue.ParseColor(st.Get("background-color")); ok && cssvalue.Visible(c) {
		s.Fill = &c
	}
	s.Gradient = effects.ParseGradient(st.Get("background-image"), r.W, r.H)
	s.Shadows = effects.ParseShadows(st.Get("box-shadow"), b.scale)

	if !identity {
		css := cssvalue.ToCSS(m)
		css[4] *= b.scale
		css[5] *= b.scale
		d := cssvalue.Decompose(m)
		s.Transform = &scene.Transform{
			Matrix:   css,
			Rotation: d.Rotation,
			ScaleX:   d.ScaleX,
			ScaleY:   d.ScaleY,
			Rotate:   pure,
		}
		o := cssvalue.ResolveOrigin(st.Get("transform-origin"), r.W, r.H, b.scale)
		s.Origin = &scene.Origin{X: o.X, Y: o.Y, TargetX: o.TargetX, TargetY: o.TargetY}
	}

	if z, err := strconv.Atoi(st.Get("z-index")); err == nil {
		s.ZIndex = &z
	}
	if bm := st.Get("mix-blend-mode"); bm != "" && bm != "normal" {
		s.BlendMode = bm
	}
	return s
}

// clip describes overflow clipping, clip-path and corner radii. It returns
// nil when the element neither clips nor rounds its corners.
func (b *Builder) clip(st oracle.Style, r oracle.Rect) *scene.Clip {
	radii := effects.ScaleRadii(effects.ParseRadii(st, r.W, r.H), b.scale)
	overflow := overflowMode(st)
	c := &scene.Clip{
		Enabled:  overflow != "visible",
		Radius:   radii,
		Overflow: overflow,
	}

	if cp := st.Get("clip-path"); cp != "" && cp != "none" {
		if _, _, isFunc := cssvalue.Func(cp); isFunc && strings.HasPrefix(strings.ToLower(cp), "url(") {
			path, err := effects.ResolveClipReference(cp, b.rc, r.W, r.H, b.scale)
			if err != nil {
				b.warnf("clip-path %s: %v", cp, err)
			}
			if path != nil {
				c.Path = path
				c.Enabled = true
			}
		} else if shape, ok := effects.ParseClipShape(cp, r.W, r.H); ok {
			c.Path = shape.Path(b.scale)
			c.Enabled = true
		}
	}

	if !c.Enabled && effects.IsZero(radii) {
		return nil
	}
	return c
}

// overflowMode returns the first clipping overflow value, or "visible".
func overflowMode(st oracle.Style) string {
	vals := []string{st.Get("overflow-x"), st.Get("overflow-y")}
	vals = append(vals, strings.Fields(st.Get("overflow"))...)
	for _, v := range vals {
		switch v {
		case "hidden", "clip", "scroll", "auto":
			return v
		}
	}
	return "visible"
}

func (b *Builder) asset(el oracle.Element, kind scene.Kind, st oracle.Style, r oracle.Rect) *scene.Asset {
	a := &scene.Asset{
		ObjectFit: st.Get("object-fit"),
		Width:     r.W * b.scale,
		Height:    r.H * b.scale,
	}
	switch kind {
	case scene.KindVector:
		svg, err := vector.Inline(el)
		if err != nil {
			b.warnf("inline <%s>: %v", el.Tag(), err)
		}
		a.SVG = svg
	case scene.KindImage:
		a.Src = attrFirst(el, "currentSrc", "src", "data-src")
	case scene.KindVideo:
		a.Src = attrFirst(el, "currentSrc", "src")
		if a.Src == "" {
			for _, c := range oracle.ChildElements(el) {
				if c.Tag() == "source" {
					if a.Src = attrFirst(c, "src"); a.Src != "" {
						break
					}
				}
			}
		}
	}
	return a
}

// backgroundImage synthesizes the leading image child for the first url()
// layer of background-image.
func (b *Builder) backgroundImage(st oracle.Style, r oracle.Rect) *scene.Node {
	for _, layer := range cssvalue.SplitTopLevel(st.Get("background-image"), ',') {
		src, ok := cssvalue.URL(layer)
		if !ok {
			continue
		}
		fit := "fill"
		switch size := st.Get("background-size"); size {
		case "cover", "contain":
			fit = size
		}
		box := b.bbox(r)
		return &scene.Node{
			Kind:  scene.KindImage,
			Name:  "background",
			BBox:  box,
			Style: scene.Style{Opacity: 1},
			Hints: scene.Hints{Asset: true, Layer: scene.LayerBackground},
			Asset: &scene.Asset{Src: src, ObjectFit: fit, Width: box.W, Height: box.H},
		}
	}
	return nil
}

func (b *Builder) applyEditorTransform(sc *scope, el oracle.Element) {
	m, ok := editorTransform(el)
	if !ok {
		return
	}
	if err := sc.setStyle(el, "transform", cssvalue.MatrixString(m)); err != nil {
		b.warnf("%v", err)
	}
}

// editorTransform recomposes the translate, rotate and scale an editor
// stored on el as data attributes.
func editorTransform(el oracle.Element) (gg.Matrix, bool) {
	var tx, ty, rot float64
	sx, sy := 1.0, 1.0
	found := false

	if v, ok := el.Attr("data-editor-translate"); ok {
		if p := cssvalue.Fields(strings.ReplaceAll(v, ",", " ")); len(p) >= 2 {
			tx = cssvalue.LengthOr(p[0], 0, cssvalue.RootFontSize, 0)
			ty = cssvalue.LengthOr(p[1], 0, cssvalue.RootFontSize, 0)
			found = true
		}
	}
	if v, ok := el.Attr("data-editor-rotate"); ok {
		if a, ok := cssvalue.ParseAngle(v); ok {
			rot, found = a, true
		} else if n, ok := cssvalue.ParseNumber(v); ok {
			rot, found = n, true
		}
	}
	if v, ok := el.Attr("data-editor-scale"); ok {
		p := cssvalue.Fields(strings.ReplaceAll(v, ",", " "))
		if len(p) >= 1 {
			if n, ok := cssvalue.ParseNumber(p[0]); ok {
				sx, sy, found = n, n, true
			}
		}
		if len(p) >= 2 {
			if n, ok := cssvalue.ParseNumber(p[1]); ok {
				sy = n
			}
		}
	}
	if !found {
		return gg.Matrix{}, false
	}
	return cssvalue.Compose(tx, ty, rot, sx, sy), true
}

func (b *Builder) bbox(r oracle.Rect) scene.BBox {
	return scene.BBox{
		X: (r.X - b.ox) * b.scale,
		Y: (r.Y - b.oy) * b.scale,
		W: max(0, r.W) * b.scale,
		H: max(0, r.H) * b.scale,
	}
}

func (b *Builder) warnf(format string, args ...any) {
	if b.logger != nil {
		b.logger.Warnf(format, args...)
	}
}

func attrFirst(el oracle.Element, names ...string) string {
	for _, n := range names {
		if v, ok := el.Attr(n); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
