package textseg

import (
	"testing"

	"github.com/hellenic-development/scene-extractor/pkg/oracle"
	"github.com/hellenic-development/scene-extractor/pkg/snapshot"
)

func paragraph(t *testing.T, style oracle.Style, children ...*snapshot.Node) (*snapshot.Document, oracle.Element) {
	t.Helper()
	p := snapshot.El("p", snapshot.Rect(0, 0, 200, 40), style, children...)
	d, err := snapshot.New(&snapshot.Snapshot{Root: snapshot.El("body", snapshot.Rect(0, 0, 400, 400), nil, p)})
	if err != nil {
		t.Fatal(err)
	}
	return d, d.Root().ChildNodes()[0].(oracle.Element)
}

func lines(el oracle.Element, fontSize float64) []Line {
	units := Tokenize(el)
	Measure(units)
	return Segment(units, fontSize, false)
}

func TestTokenize(t *testing.T) {
	_, p := paragraph(t, nil,
		snapshot.Txt("  Hello  wide world"),
		snapshot.El("br", snapshot.Rect(0, 0, 0, 0), nil),
		snapshot.El("em", snapshot.Rect(0, 0, 0, 0), nil, snapshot.Txt("again")),
	)
	units := Tokenize(p)
	want := []string{"  ", "Hello  ", "wide ", "world", "", "again"}
	if len(units) != len(want) {
		t.Fatalf("Tokenize() = %d units, want %d", len(units), len(want))
	}
	for i, w := range want {
		if units[i].Text != w {
			t.Errorf("unit %d = %q, want %q", i, units[i].Text, w)
		}
	}
	if !units[4].Break {
		t.Error("<br> did not produce a break unit")
	}
	if units[1].Start != 2 || units[1].End != 9 {
		t.Errorf("unit 1 range = [%d, %d), want [2, 9)", units[1].Start, units[1].End)
	}
	if units[5].Owner.Tag() != "em" {
		t.Errorf("unit 5 owner = %s, want em", units[5].Owner.Tag())
	}
}

func TestSegmentWrapsWithoutBreaks(t *testing.T) {
	_, p := paragraph(t, oracle.Style{"font-size": "16px"},
		snapshot.Lines(0, 0, 8, 20, "Hello world", "this is a line"),
	)
	got := lines(p, 16)
	want := []string{"Hello world", "this is a line"}
	if len(got) != len(want) {
		t.Fatalf("Segment() = %d lines, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Text != w {
			t.Errorf("line %d = %q, want %q", i, got[i].Text, w)
		}
	}
	if r := got[1].Rect; r.Y != 20 || r.X != 0 || r.W != 14*8 {
		t.Errorf("line 1 rect = %+v", r)
	}
	if c := Content(got, false); c != "Hello world this is a line" {
		t.Errorf("Content() = %q, want the source text without wrap newlines", c)
	}
}

func TestContent(t *testing.T) {
	tests := []struct {
		name     string
		units    []Unit
		preserve bool
		want     string
	}{
		{
			name: "soft wrap",
			units: []Unit{
				{Text: "one  ", HasRect: true, Rect: snapshot.Rect(0, 0, 10, 16)},
				{Text: "two", HasRect: true, Rect: snapshot.Rect(0, 20, 10, 16)},
			},
			want: "one two",
		},
		{
			name: "forced break",
			units: []Unit{
				{Text: "one", HasRect: true, Rect: snapshot.Rect(0, 0, 10, 16)},
				{Break: true},
				{Text: "two", HasRect: true, Rect: snapshot.Rect(0, 20, 10, 16)},
			},
			want: "one\ntwo",
		},
		{
			name: "preserved soft wrap",
			units: []Unit{
				{Text: "one  ", HasRect: true, Rect: snapshot.Rect(0, 0, 10, 16)},
				{Text: "two", HasRect: true, Rect: snapshot.Rect(0, 20, 10, 16)},
			},
			preserve: true,
			want:     "one  two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ls := Segment(tt.units, 16, tt.preserve)
			if len(ls) != 2 {
				t.Fatalf("Segment() = %d lines, want 2", len(ls))
			}
			if got := Content(ls, tt.preserve); got != tt.want {
				t.Errorf("Content() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSegmentTolerance(t *testing.T) {
	// A 4px baseline shift stays on the line at 16px (tolerance 5.6px).
	units := []Unit{
		{Text: "a ", HasRect: true, Rect: snapshot.Rect(0, 0, 10, 16)},
		{Text: "b ", HasRect: true, Rect: snapshot.Rect(10, 4, 10, 16)},
		{Text: "c", HasRect: true, Rect: snapshot.Rect(0, 10, 10, 16)},
	}
	got := Segment(units, 16, false)
	if len(got) != 2 || got[0].Text != "a b" || got[1].Text != "c" {
		t.Errorf("Segment() = %+v", got)
	}
}

func TestSegmentBreakForcesLine(t *testing.T) {
	units := []Unit{
		{Text: "one", HasRect: true, Rect: snapshot.Rect(0, 0, 10, 16)},
		{Break: true},
		{Text: "two", HasRect: true, Rect: snapshot.Rect(20, 0, 10, 16)},
	}
	if got := Segment(units, 16, false); len(got) != 2 {
		t.Errorf("Segment() = %d lines, want 2", len(got))
	}
}

func TestOverridesOnlyDifferingLine(t *testing.T) {
	style := oracle.Style{"font-size": "16px", "color": "rgb(0, 0, 0)", "font-weight": "400"}
	_, p := paragraph(t, style,
		snapshot.Lines(0, 0, 8, 20, "Hello world"),
		snapshot.El("span", snapshot.Rect(0, 20, 112, 20), oracle.Style{"color": "rgb(255, 0, 0)", "font-weight": "400"},
			snapshot.Lines(0, 20, 8, 20, "this is a line"),
		),
	)
	ls := lines(p, 16)
	if len(ls) != 2 {
		t.Fatalf("lines = %d, want 2", len(ls))
	}
	got := Overrides(ls, p, BaseFromStyle(style, 0), 1)
	if len(got) != 1 {
		t.Fatalf("Overrides() = %d records, want 1", len(got))
	}
	o := got[0]
	if o.Line != 1 {
		t.Errorf("override line = %d, want 1", o.Line)
	}
	if o.Color == nil || o.Color.R != 1 {
		t.Errorf("override color = %+v, want red", o.Color)
	}
	if o.Opacity != nil || o.Weight != nil || o.Italic != nil || o.X != nil {
		t.Errorf("override carries extra fields: %+v", o)
	}
}

func TestOverridesUniformText(t *testing.T) {
	style := oracle.Style{"font-size": "16px", "color": "rgb(0, 0, 0)"}
	_, p := paragraph(t, style, snapshot.Lines(0, 0, 8, 20, "Hello world", "this is a line"))
	if got := Overrides(lines(p, 16), p, BaseFromStyle(style, 0), 1); got != nil {
		t.Errorf("Overrides() = %+v, want nil", got)
	}
}

func TestOverridesXOffset(t *testing.T) {
	units := []Unit{
		{Text: "indented", HasRect: true, Rect: snapshot.Rect(30, 0, 80, 16)},
	}
	base := Base{Left: 10, CompareX: true}
	got := Overrides(Segment(units, 16, false), nil, base, 2)
	if len(got) != 1 || got[0].X == nil || *got[0].X != 40 {
		t.Errorf("Overrides() = %+v, want x offset 40", got)
	}
	base.CompareX = false
	if got := Overrides(Segment(units, 16, false), nil, base, 2); got != nil {
		t.Errorf("Overrides(centered) = %+v, want nil", got)
	}
}

func TestFontFromStyle(t *testing.T) {
	f := FontFromStyle(oracle.Style{
		"font-family":               `"Open Sans", Arial, sans-serif`,
		"font-size":                 "20px",
		"font-weight":               "bold",
		"font-style":                "italic",
		"line-height":               "1.5",
		"letter-spacing":            "2px",
		"color":                     "#ff0000",
		"text-align":                "center",
		"-webkit-text-stroke-width": "1px",
	}, 2)

	if f.Family != "Open Sans" || f.Weight != 700 || !f.Italic {
		t.Errorf("font = %+v", f)
	}
	if f.PostScriptName != "OpenSans-BoldItalic" || f.Style != "Bold Italic" {
		t.Errorf("names = %q / %q", f.PostScriptName, f.Style)
	}
	if f.Size != 40 || f.LineHeight != 60 || f.Tracking != 100 {
		t.Errorf("metrics = size %v, line height %v, tracking %v", f.Size, f.LineHeight, f.Tracking)
	}
	if f.Alignment != "center" {
		t.Errorf("alignment = %q", f.Alignment)
	}
	if f.StrokeWidth == nil || *f.StrokeWidth != 2 || f.StrokeColor == nil || f.StrokeColor.R != 1 {
		t.Errorf("stroke = %v / %v", f.StrokeWidth, f.StrokeColor)
	}
}

func TestMeasureProbe(t *testing.T) {
	d, p := paragraph(t, nil)
	r, err := MeasureProbe(d, p, "abcd", oracle.Style{"font-size": "13px"})
	if err != nil {
		t.Fatalf("MeasureProbe() error = %v", err)
	}
	if r.W != 28 {
		t.Errorf("probe width = %v, want 28", r.W)
	}
	if d.Pending() != 0 || len(p.ChildNodes()) != 0 {
		t.Errorf("probe left behind: pending %d, children %d", d.Pending(), len(p.ChildNodes()))
	}
}

// panicking wraps a document so that measured probes panic on Rect.
type panicking struct {
	*snapshot.Document
	removed int
}

type explodingProbe struct{ oracle.Element }

func (explodingProbe) Rect() oracle.Rect { panic("layout lost") }

func (p *panicking) InsertProbe(parent oracle.Element, pr oracle.Probe) (oracle.Element, func(), error) {
	el, remove, err := p.Document.InsertProbe(parent, pr)
	if err != nil {
		return nil, nil, err
	}
	return explodingProbe{el}, func() { p.removed++; remove() }, nil
}

func TestMeasureProbeRemovesOnPanic(t *testing.T) {
	d, el := paragraph(t, nil)
	rc := &panicking{Document: d}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		MeasureProbe(rc, el, "boom", oracle.Style{})
	}()

	if rc.removed != 1 || d.Pending() != 0 {
		t.Errorf("probe not removed after panic: removed %d, pending %d", rc.removed, d.Pending())
	}
}

func TestPreservesWhitespace(t *testing.T) {
	for v, want := range map[string]bool{"pre": true, "pre-wrap": true, "break-spaces": true, "normal": false, "nowrap": false, "": false} {
		if got := PreservesWhitespace(v); got != want {
			t.Errorf("PreservesWhitespace(%q) = %v, want %v", v, got, want)
		}
	}
}
