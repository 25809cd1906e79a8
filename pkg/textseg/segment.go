package textseg

import (
	"math"
	"strings"

	"github.com/hellenic-development/scene-extractor/pkg/oracle"
)

// LineTolerance is the fraction of the font size by which a unit's top may
// drift from its line's first unit and still belong to that line.
const LineTolerance = 0.35

// Line is one rendered line of text.
type Line struct {
	Text    string
	Rect    oracle.Rect
	HasRect bool
	// Owner paints the first non-whitespace unit of the line.
	Owner oracle.Element
	// Hard is set when a forced break ends the line.
	Hard bool

	firstTop float64
	hasTop   bool
}

// Segment groups measured units into lines. A unit joins the current line
// while its top stays within LineTolerance × fontSize of the line's first
// measured unit; a break unit always starts a new line. Unless preserve is
// set, whitespace is collapsed and lines that end up empty are dropped.
func Segment(units []Unit, fontSize float64, preserve bool) []Line {
	tol := LineTolerance * fontSize
	var lines []Line
	cur := &Line{}
	var sb strings.Builder
	flush := func() {
		cur.Text = sb.String()
		sb.Reset()
		lines = append(lines, *cur)
		cur = &Line{}
	}
	for _, u := range units {
		if u.Break {
			cur.Hard = true
			flush()
			continue
		}
		if u.HasRect {
			if cur.hasTop && math.Abs(u.Rect.Y-cur.firstTop) > tol {
				flush()
			}
			if !cur.hasTop {
				cur.firstTop, cur.hasTop = u.Rect.Y, true
			}
			cur.Rect = cur.Rect.Union(u.Rect)
			cur.HasRect = true
		}
		if cur.Owner == nil && !u.Blank() {
			cur.Owner = u.Owner
		}
		sb.WriteString(u.Text)
	}
	flush()

	out := lines[:0]
	for _, l := range lines {
		if !preserve {
			l.Text = CollapseWhitespace(l.Text)
			if l.Text == "" {
				continue
			}
		}
		out = append(out, l)
	}
	return out
}

// CollapseWhitespace folds whitespace runs into single spaces and trims the
// ends, the way normal white-space handling renders text.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// PreservesWhitespace reports whether a white-space value keeps spaces and
// newlines as authored.
func PreservesWhitespace(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "pre", "pre-wrap", "break-spaces":
		return true
	}
	return false
}

// Content returns the logical text of lines. Forced breaks become
// newlines; soft wraps were whitespace in the source and read as a single
// space, or as the preserved whitespace itself when preserve is set.
func Content(lines []Line, preserve bool) string {
	var sb strings.Builder
	for i, l := range lines {
		sb.WriteString(l.Text)
		if i == len(lines)-1 {
			break
		}
		switch {
		case l.Hard:
			sb.WriteByte('\n')
		case !preserve:
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
