// Package textseg rebuilds the rendered line structure of text. Source
// line breaks say nothing about wrapping, so lines are recovered from the
// rectangles the renderer reports for each word.
package textseg

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hellenic-development/scene-extractor/pkg/oracle"
)

// Unit is a word with its trailing whitespace, or an explicit break.
type Unit struct {
	Text  string
	Node  oracle.Text
	Start int // rune offset into Node.Data()
	End   int
	// Owner is the element whose computed style paints the unit.
	Owner oracle.Element
	Break bool

	Rect    oracle.Rect
	HasRect bool
}

// Blank reports whether the unit holds only whitespace.
func (u Unit) Blank() bool { return strings.TrimSpace(u.Text) == "" }

// Tokenize walks the text below el in document order, through formatting
// children, and splits it into units. <br> yields a break unit.
func Tokenize(el oracle.Element) []Unit {
	var units []Unit
	var walk func(owner oracle.Element)
	walk = func(owner oracle.Element) {
		for _, c := range owner.ChildNodes() {
			switch n := c.(type) {
			case oracle.Text:
				units = append(units, splitWords(n, owner)...)
			case oracle.Element:
				if n.Tag() == "br" {
					units = append(units, Unit{Owner: owner, Break: true})
					continue
				}
				walk(n)
			}
		}
	}
	walk(el)
	return units
}

// TokenizeText splits a single text node painted by owner.
func TokenizeText(t oracle.Text, owner oracle.Element) []Unit {
	return splitWords(t, owner)
}

// splitWords cuts data into "word + trailing whitespace" runs. Leading
// whitespace forms a unit of its own.
func splitWords(t oracle.Text, owner oracle.Element) []Unit {
	data := t.Data()
	var units []Unit
	start := 0 // rune index of the current unit
	runeIdx := 0
	seenSpace := false
	byteStart := 0
	for i, r := range data {
		space := unicode.IsSpace(r)
		if !space && seenSpace && runeIdx > start {
			units = append(units, Unit{Text: data[byteStart:i], Node: t, Start: start, End: runeIdx, Owner: owner})
			start, byteStart = runeIdx, i
			seenSpace = false
		}
		if space {
			seenSpace = true
		}
		runeIdx++
	}
	if runeIdx > start {
		units = append(units, Unit{Text: data[byteStart:], Node: t, Start: start, End: utf8.RuneCountInString(data), Owner: owner})
	}
	return units
}

// Measure fills in each unit's rendered rectangle as the union of the
// rectangles the renderer reports for its range.
func Measure(units []Unit) {
	for i := range units {
		u := &units[i]
		if u.Break || u.Node == nil {
			continue
		}
		var r oracle.Rect
		for _, rr := range u.Node.RangeRects(u.Start, u.End) {
			if rr.W <= 0 && rr.H <= 0 {
				continue
			}
			r = r.Union(rr)
			u.HasRect = true
		}
		u.Rect = r
	}
}
