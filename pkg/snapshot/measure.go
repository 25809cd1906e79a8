package snapshot

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/hellenic-development/scene-extractor/pkg/cssvalue"
	"github.com/hellenic-development/scene-extractor/pkg/oracle"
)

// faceHeight is the em box of the fixed face used for probe measurement.
const faceHeight = 13.0

// MeasureText estimates the box of text set in the font described by st.
// A recording carries no font files, so widths come from the fixed 7×13
// face scaled to the requested font size. Lines split on newlines only
// when white-space preserves them.
func MeasureText(text string, st oracle.Style) (w, h float64) {
	size := cssvalue.LengthOr(st.Get("font-size"), cssvalue.RootFontSize, cssvalue.RootFontSize, cssvalue.RootFontSize)
	lineHeight := size * 1.2
	if v := st.Get("line-height"); v != "" && v != "normal" {
		if n, ok := cssvalue.ParseNumber(v); ok {
			lineHeight = n * size
		} else if px, ok := cssvalue.ResolveLength(v, size, size); ok {
			lineHeight = px
		}
	}
	spacing := cssvalue.LengthOr(st.Get("letter-spacing"), size, size, 0)

	var lines []string
	switch st.Get("white-space") {
	case "pre", "pre-wrap", "pre-line", "break-spaces":
		lines = strings.Split(text, "\n")
	default:
		lines = []string{strings.Join(strings.Fields(text), " ")}
	}
	for _, l := range lines {
		adv := font.MeasureString(basicfont.Face7x13, l)
		lw := float64(adv)/64*size/faceHeight + spacing*float64(utf8.RuneCountInString(l))
		w = max(w, lw)
	}
	return w, lineHeight * float64(len(lines))
}
