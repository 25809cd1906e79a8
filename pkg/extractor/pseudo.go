package extractor

import (
	"strings"

	"github.com/gogpu/gg"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
	"github.com/hellenic-development/scene-extractor/pkg/effects"
	"github.com/hellenic-development/scene-extractor/pkg/oracle"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
	"github.com/hellenic-development/scene-extractor/pkg/textseg"
)

// pseudo builds the node of one generated box of host. Painted boxes become
// groups, with a text child when they carry content; unpainted boxes with
// content become text nodes. Boxes without content or area are dropped.
func (b *Builder) pseudo(host oracle.Element, which oracle.Pseudo, hostStyle oracle.Style, hostRect oracle.Rect) *scene.Node {
	st := host.ComputedStyle(which)
	if st == nil || st.Get("display") == "none" {
		return nil
	}
	text, ok := pseudoContent(host, st.Get("content"))
	if !ok {
		return nil
	}
	opacity := cssvalue.NumberOr(st.Get("opacity"), 1)
	if opacity <= 0 || st.Get("visibility") == "hidden" {
		return nil
	}
	painted := hasPaint(st)
	if strings.TrimSpace(text) == "" && !painted {
		return nil
	}

	var measured oracle.Rect
	if text != "" {
		r, err := textseg.MeasureProbe(b.rc, host, text, st)
		if err != nil {
			b.warnf("measure %s of <%s>: %v", which, host.Tag(), err)
		} else {
			measured = r
		}
	}
	r := pseudoBox(which, st, hostStyle, hostRect, measured)
	if r.Empty() {
		return nil
	}

	name := string(which)
	layer := scene.LayerBackground
	if which == oracle.PseudoAfter {
		layer = scene.LayerOverlay
	}

	var textNode *scene.Node
	if strings.TrimSpace(text) != "" {
		box := b.bbox(contentBox(st, r))
		textNode = &scene.Node{
			Kind:  scene.KindText,
			Name:  name,
			BBox:  box,
			Style: scene.Style{Opacity: 1},
			Hints: scene.Hints{Text: true, Layer: layer},
			Text: &scene.Text{
				Content:   text,
				Lines:     []string{text},
				LineBoxes: []scene.BBox{box},
				Font:      textseg.FontFromStyle(st, b.scale),
			},
		}
		b.useFont(st)
	}
	if !painted {
		textNode.Style.Opacity = opacity
		textNode.Hints.Isolate = opacity < 1
		return textNode
	}

	n := &scene.Node{
		Kind:    scene.KindGroup,
		Name:    name,
		BBox:    b.bbox(r),
		Style:   b.style(st, r, gg.Identity(), true, false),
		Hints:   scene.Hints{Layer: layer},
		Border:  effects.ParseBorder(st, b.scale),
		Outline: effects.ParseOutline(st, b.scale),
		Clip:    b.clip(st, r),
	}
	n.Style.Opacity = opacity
	if textNode != nil {
		n.Children = []*scene.Node{textNode}
	}
	n.Hints.Isolate = (n.Clip != nil && n.Clip.Enabled) || opacity < 1 || len(n.Children) > 0
	return n
}

// pseudoContent resolves the content property of a generated box to its
// text. Strings are concatenated and attr() reads the host. ok is false
// for none, normal and content that produces no box.
func pseudoContent(host oracle.Element, value string) (string, bool) {
	switch value {
	case "", "none", "normal":
		return "", false
	}
	var sb strings.Builder
	for i := 0; i < len(value); i++ {
		switch c := value[i]; {
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(value) && value[j] != c {
				if value[j] == '\\' {
					j++
				}
				j++
			}
			sb.WriteString(unescapeContent(value[i+1 : min(j, len(value))]))
			i = j
		case strings.HasPrefix(value[i:], "attr("):
			end := strings.IndexByte(value[i:], ')')
			if end < 0 {
				return sb.String(), true
			}
			v, _ := host.Attr(strings.TrimSpace(value[i+len("attr(") : i+end]))
			sb.WriteString(v)
			i += end
		}
	}
	return sb.String(), true
}

// unescapeContent resolves the backslash escapes allowed in CSS strings.
func unescapeContent(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			sb.WriteByte(s[i])
			continue
		}
		j := i + 1
		for j < len(s) && j-i <= 6 && isHex(s[j]) {
			j++
		}
		if j == i+1 {
			sb.WriteByte(s[j])
			i = j
			continue
		}
		var r rune
		for _, c := range s[i+1 : j] {
			r = r*16 + hexValue(byte(c))
		}
		sb.WriteRune(r)
		if j < len(s) && s[j] == ' ' {
			j++
		}
		i = j - 1
	}
	return sb.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func hexValue(c byte) rune {
	switch {
	case c >= 'a':
		return rune(c-'a') + 10
	case c >= 'A':
		return rune(c-'A') + 10
	}
	return rune(c - '0')
}

// pseudoBox places a generated box. Absolutely positioned boxes resolve
// their insets against the host's padding box; in-flow boxes sit at the
// start (::before) or end (::after) of the host's content box. Missing
// sizes fall back to the measured text.
func pseudoBox(which oracle.Pseudo, st, hostStyle oracle.Style, hostRect oracle.Rect, measured oracle.Rect) oracle.Rect {
	fs := textseg.FontSize(st)
	switch st.Get("position") {
	case "absolute", "fixed":
		pad := paddingBox(hostStyle, hostRect)
		x := cssvalue.ResolveSpan(st.Get("left"), st.Get("right"), st.Get("width"), pad.W, fs, measured.W)
		y := cssvalue.ResolveSpan(st.Get("top"), st.Get("bottom"), st.Get("height"), pad.H, fs, measured.H)
		return oracle.Rect{X: pad.X + x.Start, Y: pad.Y + y.Start, W: x.Size, H: y.Size}
	}
	content := contentBox(hostStyle, hostRect)
	w := cssvalue.LengthOr(st.Get("width"), content.W, fs, measured.W)
	h := cssvalue.LengthOr(st.Get("height"), content.H, fs, measured.H)
	if which == oracle.PseudoAfter {
		return oracle.Rect{X: content.X, Y: content.Bottom() - h, W: w, H: h}
	}
	return oracle.Rect{X: content.X, Y: content.Y, W: w, H: h}
}
