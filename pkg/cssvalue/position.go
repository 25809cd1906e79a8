package cssvalue

import "strings"

var horizontalKeywords = map[string]string{"left": "0%", "right": "100%"}
var verticalKeywords = map[string]string{"top": "0%", "bottom": "100%"}

// NormalizePosition turns a one- or two-token position into an ordered
// (x, y) pair of length tokens. Keywords map to percentages, a single token
// is mirrored to the other axis ("30%" => "30% 30%", "left" => "0% 50%"),
// and vertical-first keyword pairs are swapped ("bottom center" =>
// "50% 100%"). Tokens past the second are ignored.
func NormalizePosition(tokens []string) (x, y string) {
	switch len(tokens) {
	case 0:
		return "50%", "50%"
	case 1:
		t := strings.ToLower(tokens[0])
		switch {
		case t == "center":
			return "50%", "50%"
		case horizontalKeywords[t] != "":
			return horizontalKeywords[t], "50%"
		case verticalKeywords[t] != "":
			return "50%", verticalKeywords[t]
		}
		return t, t
	}

	a, b := strings.ToLower(tokens[0]), strings.ToLower(tokens[1])
	if verticalKeywords[a] != "" || horizontalKeywords[b] != "" {
		a, b = b, a
	}
	return keywordToken(a, horizontalKeywords), keywordToken(b, verticalKeywords)
}

func keywordToken(t string, keywords map[string]string) string {
	if t == "center" {
		return "50%"
	}
	if v, ok := keywords[t]; ok {
		return v
	}
	return t
}

func isPositionKeyword(t string) bool {
	return t == "center" || horizontalKeywords[t] != "" || verticalKeywords[t] != ""
}

// edge is one axis of a three- or four-value position: a keyword and an
// optional offset measured from that edge.
type edge struct {
	keyword string
	offset  string
}

// ParsePosition resolves a one- to four-token position (such as the part
// after "at" in a shape function) to a point inside a w×h box. Three- and
// four-value forms pair each keyword with an offset from that edge, so
// "right 20px bottom 10px" is 20px from the right and 10px from the
// bottom. ok is false for malformed positions.
func ParsePosition(tokens []string, w, h, fontSize float64) (x, y float64, ok bool) {
	if len(tokens) > 4 {
		return 0, 0, false
	}
	if len(tokens) <= 2 {
		xt, yt := NormalizePosition(tokens)
		x, okx := ResolveLength(xt, w, fontSize)
		y, oky := ResolveLength(yt, h, fontSize)
		return x, y, okx && oky
	}

	var edges []edge
	for i := 0; i < len(tokens); i++ {
		kw := strings.ToLower(tokens[i])
		if !isPositionKeyword(kw) {
			return 0, 0, false
		}
		e := edge{keyword: kw}
		if i+1 < len(tokens) && !isPositionKeyword(strings.ToLower(tokens[i+1])) {
			e.offset = tokens[i+1]
			i++
		}
		edges = append(edges, e)
	}
	if len(edges) != 2 {
		return 0, 0, false
	}
	ex, ey := edges[0], edges[1]
	if verticalKeywords[ex.keyword] != "" || horizontalKeywords[ey.keyword] != "" {
		ex, ey = ey, ex
	}
	if verticalKeywords[ex.keyword] != "" || horizontalKeywords[ey.keyword] != "" {
		return 0, 0, false
	}
	x, okx := edgeOffset(ex, w, fontSize)
	y, oky := edgeOffset(ey, h, fontSize)
	return x, y, okx && oky
}

func edgeOffset(e edge, size, fontSize float64) (float64, bool) {
	far := e.keyword == "right" || e.keyword == "bottom"
	if e.offset == "" {
		switch {
		case e.keyword == "center":
			return size / 2, true
		case far:
			return size, true
		}
		return 0, true
	}
	if e.keyword == "center" {
		return 0, false
	}
	d, ok := ResolveLength(e.offset, size, fontSize)
	if !ok {
		return 0, false
	}
	if far {
		return size - d, true
	}
	return d, true
}

// ResolvePosition is ParsePosition with malformed positions falling back to
// the box center.
func ResolvePosition(tokens []string, w, h, fontSize float64) (float64, float64) {
	x, y, ok := ParsePosition(tokens, w, h, fontSize)
	if !ok {
		return w / 2, h / 2
	}
	return x, y
}

// Origin is a transform origin relative to the element's own box, in the
// authored frame and in the target-scaled frame.
type Origin struct {
	X, Y             float64
	TargetX, TargetY float64
}

// ResolveOrigin resolves a transform-origin value against a w×h box and the
// export scale. An empty value means the CSS default of the box center. A z
// component, if present, is dropped.
func ResolveOrigin(value string, w, h, scale float64) Origin {
	toks := Fields(value)
	if len(toks) > 2 {
		toks = toks[:2]
	}
	x, y := ResolvePosition(toks, w, h, RootFontSize)
	return Origin{X: x, Y: y, TargetX: x * scale, TargetY: y * scale}
}
