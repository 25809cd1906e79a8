package extractor

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/hellenic-development/scene-extractor/pkg/oracle"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
	"github.com/hellenic-development/scene-extractor/pkg/snapshot"
)

func doc(t *testing.T, children ...*snapshot.Node) *snapshot.Document {
	t.Helper()
	d, err := snapshot.New(&snapshot.Snapshot{
		Viewport: snapshot.Size{Width: 400, Height: 400},
		Root:     snapshot.El("body", snapshot.Rect(0, 0, 400, 400), nil, children...),
	})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func build(t *testing.T, d *snapshot.Document) *scene.Node {
	t.Helper()
	n, err := New(d, Options{Scale: 1}).Build(d.Root())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if d.Pending() != 0 {
		t.Errorf("Build() left %d mutations behind", d.Pending())
	}
	return n
}

func run(start, end int, x, y, w, h float64) snapshot.Run {
	return snapshot.Run{Start: start, End: end, Rects: []oracle.Rect{snapshot.Rect(x, y, w, h)}}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func sameBox(got, want scene.BBox) bool {
	return near(got.X, want.X) && near(got.Y, want.Y) && near(got.W, want.W) && near(got.H, want.H)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		tag  string
		want scene.Kind
	}{
		{tag: "svg", want: scene.KindVector},
		{tag: "IMG", want: scene.KindImage},
		{tag: "video", want: scene.KindVideo},
		{tag: "div", want: scene.KindGroup},
		{tag: "p", want: scene.KindGroup},
		{tag: "canvas", want: scene.KindGroup},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := Classify(tt.tag); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func paragraph() *snapshot.Node {
	return snapshot.El("p", snapshot.Rect(0, 0, 200, 20), oracle.Style{"font-size": "16px", "color": "rgb(0, 0, 0)", "font-family": "Inter"},
		snapshot.Txt("Hello ", run(0, 6, 0, 0, 48, 20)),
		snapshot.El("em", snapshot.Rect(48, 0, 40, 20), oracle.Style{"font-style": "italic", "color": "rgb(0, 0, 0)"},
			snapshot.Txt("world", run(0, 5, 48, 0, 40, 20)),
		),
	)
}

func TestParagraphIsText(t *testing.T) {
	root := build(t, doc(t, paragraph()))
	if len(root.Children) != 1 {
		t.Fatalf("root children = %d, want 1", len(root.Children))
	}
	p := root.Children[0]
	if p.Kind != scene.KindText {
		t.Fatalf("p kind = %q, want text", p.Kind)
	}
	if !p.Hints.Text || p.Text == nil {
		t.Fatal("text node carries no text")
	}
	if p.Text.Content != "Hello world" || len(p.Text.Lines) != 1 {
		t.Errorf("text = %q in %d lines", p.Text.Content, len(p.Text.Lines))
	}
	if !sameBox(p.Text.LineBoxes[0], scene.BBox{X: 0, Y: 0, W: 88, H: 20}) {
		t.Errorf("line box = %+v", p.Text.LineBoxes[0])
	}
	if p.Text.Font.Family != "Inter" || p.Text.Font.PostScriptName != "Inter-Regular" {
		t.Errorf("font = %+v", p.Text.Font)
	}
	if p.Name != "Hello world" {
		t.Errorf("name = %q", p.Name)
	}
	// The unpainted body collapses onto its only child.
	if !sameBox(root.BBox, p.BBox) {
		t.Errorf("root bbox = %+v, want %+v", root.BBox, p.BBox)
	}
}

func TestTwoStyledBranchesStayGroup(t *testing.T) {
	chip := func(x float64) *snapshot.Node {
		return snapshot.El("span", snapshot.Rect(x, 0, 40, 20), oracle.Style{"background-color": "rgb(255, 0, 0)"},
			snapshot.Txt("tag", run(0, 3, x, 0, 24, 20)),
		)
	}
	root := build(t, doc(t, snapshot.El("p", snapshot.Rect(0, 0, 200, 20), nil, chip(0), chip(50))))
	p := root.Children[0]
	if p.Kind != scene.KindGroup || len(p.Children) != 2 {
		t.Fatalf("p = %s with %d children, want group with 2", p.Kind, len(p.Children))
	}
	for _, c := range p.Children {
		if c.Kind != scene.KindGroup || len(c.Children) != 1 || c.Children[0].Kind != scene.KindText {
			t.Errorf("chip = %s with %d children, want painted group with a text child", c.Kind, len(c.Children))
		}
	}
}

func TestPaintedWrapperGetsTextChild(t *testing.T) {
	style := oracle.Style{
		"background-color": "rgb(255, 0, 0)",
		"padding-top":      "10px",
		"padding-right":    "10px",
		"padding-bottom":   "10px",
		"padding-left":     "10px",
		"font-size":        "16px",
	}
	root := build(t, doc(t, snapshot.El("div", snapshot.Rect(0, 0, 200, 60), style, snapshot.Lines(10, 10, 8, 20, "Hi there"))))

	div := root.Children[0]
	if div.Kind != scene.KindGroup || div.Style.Fill == nil {
		t.Fatalf("div = %s, fill %v; want painted group", div.Kind, div.Style.Fill)
	}
	if len(div.Children) != 1 || div.Children[0].Kind != scene.KindText {
		t.Fatalf("div children = %+v, want one text node", div.Children)
	}
	txt := div.Children[0]
	if !sameBox(txt.BBox, scene.BBox{X: 10, Y: 10, W: 180, H: 40}) {
		t.Errorf("text bbox = %+v, want the content box", txt.BBox)
	}
	if txt.Hints.Layer != scene.LayerContent || txt.Text.Lines[0] != "Hi there" {
		t.Errorf("text child = %+v", txt)
	}
	if !sameBox(div.BBox, scene.BBox{X: 0, Y: 0, W: 200, H: 60}) {
		t.Errorf("painted bbox = %+v, want own box", div.BBox)
	}
	if !div.Hints.Isolate {
		t.Error("group with children not isolated")
	}
}

func rotated(children ...*snapshot.Node) *snapshot.Node {
	return snapshot.El("div", snapshot.Rect(25, -25, 50, 100), oracle.Style{
		"transform":        "matrix(0, 1, -1, 0, 0, 0)",
		"background-color": "rgb(255, 0, 0)",
	}, children...).WithLayout(snapshot.Rect(0, 0, 100, 50))
}

func TestPureRotationBBox(t *testing.T) {
	root := build(t, doc(t, rotated()))
	n := root.Children[0]

	if !sameBox(n.BBox, scene.BBox{X: 25, Y: -25, W: 50, H: 100}) {
		t.Errorf("bbox = %+v, want 50x100 centered on the layout box", n.BBox)
	}
	tr := n.Style.Transform
	if tr == nil || !tr.Rotate || !near(tr.Rotation, 90) {
		t.Fatalf("transform = %+v, want pure 90° rotation", tr)
	}
	if o := n.Style.Origin; o == nil || !near(o.X, 50) || !near(o.Y, 25) {
		t.Errorf("origin = %+v, want box center", o)
	}
	if !n.Hints.Isolate {
		t.Error("transformed node not isolated")
	}
}

func TestRotationMeasuresChildrenUnrotated(t *testing.T) {
	child := snapshot.El("div", snapshot.Rect(40, 0, 10, 10), oracle.Style{"background-color": "rgb(0, 0, 255)"}).
		WithLayout(snapshot.Rect(10, 10, 10, 10))
	root := build(t, doc(t, rotated(child)))
	c := root.Children[0].Children[0]
	if !sameBox(c.BBox, scene.BBox{X: 10, Y: 10, W: 10, H: 10}) {
		t.Errorf("child bbox = %+v, want its layout box", c.BBox)
	}
}

func TestEditorTransform(t *testing.T) {
	el := snapshot.El("div", snapshot.Rect(0, 0, 100, 50), oracle.Style{"background-color": "rgb(255, 0, 0)"}).
		Attr("data-editor-rotate", "90deg")
	d := doc(t, el)
	n := build(t, d).Children[0]
	if tr := n.Style.Transform; tr == nil || !near(tr.Rotation, 90) {
		t.Fatalf("transform = %+v, want editor rotation", tr)
	}
	if got := d.Root().ChildNodes()[0].(oracle.Element).ComputedStyle(oracle.PseudoNone).Get("transform"); got != "" {
		t.Errorf("transform after build = %q, want the original", got)
	}

	m, ok := editorTransform(elementOf(t, snapshot.El("div", snapshot.Rect(0, 0, 1, 1), nil).
		Attr("data-editor-translate", "10px, 20px").
		Attr("data-editor-scale", "2")))
	if !ok || !near(m.C, 10) || !near(m.F, 20) || !near(m.A, 2) || !near(m.E, 2) {
		t.Errorf("editorTransform() = %+v, %v", m, ok)
	}
}

func elementOf(t *testing.T, n *snapshot.Node) oracle.Element {
	t.Helper()
	d, err := snapshot.New(&snapshot.Snapshot{Root: n})
	if err != nil {
		t.Fatal(err)
	}
	return d.Root()
}

func TestIdempotent(t *testing.T) {
	d := doc(t, paragraph(), rotated(), snapshot.El("div", snapshot.Rect(0, 100, 50, 50), nil).
		WithPseudo(oracle.PseudoBefore, oracle.Style{"content": `"New"`, "font-size": "13px", "position": "absolute"}))
	b := New(d, Options{Scale: 2})
	first, err := b.Build(d.Root())
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.Build(d.Root())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("second Build() differs from the first")
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", d.Pending())
	}
}

// exploding is a context whose probes panic.
type exploding struct {
	*snapshot.Document
}

func (exploding) InsertProbe(oracle.Element, oracle.Probe) (oracle.Element, func(), error) {
	panic("renderer lost")
}

func TestMutationsRevertedOnPanic(t *testing.T) {
	host := snapshot.El("div", snapshot.Rect(0, 0, 50, 50), nil).
		WithPseudo(oracle.PseudoBefore, oracle.Style{"content": `"x"`})
	d := doc(t, rotated(host))

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		New(exploding{d}, Options{}).Build(d.Root())
	}()

	if d.Pending() != 0 {
		t.Errorf("Pending() after panic = %d, want 0", d.Pending())
	}
	el := d.Root().ChildNodes()[0].(oracle.Element)
	if got := el.Rect(); got != snapshot.Rect(25, -25, 50, 100) {
		t.Errorf("rotated element still neutralized: %+v", got)
	}
}

// failingProbes is a context whose text probes cannot be measured. With
// insertErr set the insertion itself fails; otherwise the probe is inserted
// and then reports a negative size.
type failingProbes struct {
	*snapshot.Document
	insertErr error
}

type brokenProbe struct {
	oracle.Element
}

func (brokenProbe) Rect() oracle.Rect { return oracle.Rect{W: -1, H: -1} }

func (f failingProbes) InsertProbe(parent oracle.Element, p oracle.Probe) (oracle.Element, func(), error) {
	if f.insertErr != nil {
		return nil, nil, f.insertErr
	}
	probe, remove, err := f.Document.InsertProbe(parent, p)
	if err != nil {
		return nil, nil, err
	}
	return brokenProbe{probe}, remove, nil
}

type warnings []string

func (w *warnings) Warnf(format string, args ...any) {
	*w = append(*w, fmt.Sprintf(format, args...))
}

func TestPseudoSurvivesFailedMeasurement(t *testing.T) {
	for name, insertErr := range map[string]error{
		"insert fails":  errors.New("renderer lost"),
		"measure fails": nil,
	} {
		t.Run(name, func(t *testing.T) {
			host := snapshot.El("div", snapshot.Rect(0, 0, 200, 100), nil,
				snapshot.El("p", snapshot.Rect(0, 40, 200, 20), nil, snapshot.Txt("Body", run(0, 4, 0, 40, 32, 20))),
			).
				WithPseudo(oracle.PseudoBefore, oracle.Style{
					"content":          `"New"`,
					"position":         "absolute",
					"left":             "10px",
					"top":              "5px",
					"width":            "30px",
					"height":           "10px",
					"background-color": "rgb(255, 0, 0)",
				})
			d := doc(t, host)

			var warned warnings
			root, err := New(failingProbes{Document: d, insertErr: insertErr}, Options{Logger: &warned}).Build(d.Root())
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if d.Pending() != 0 {
				t.Errorf("Pending() = %d, want 0", d.Pending())
			}
			if len(warned) != 1 {
				t.Errorf("warnings = %q, want one", warned)
			}

			n := root.Children[0]
			if len(n.Children) != 2 {
				t.Fatalf("children = %d, want before and body", len(n.Children))
			}
			before := n.Children[0]
			if before.Kind != scene.KindGroup || before.Name != string(oracle.PseudoBefore) {
				t.Fatalf("::before = %+v", before)
			}
			if !sameBox(before.BBox, scene.BBox{X: 10, Y: 5, W: 30, H: 10}) {
				t.Errorf("::before bbox = %+v, want 30x10 at (10, 5)", before.BBox)
			}
			if len(before.Children) != 1 || before.Children[0].Text == nil || before.Children[0].Text.Content != "New" {
				t.Errorf("::before text = %+v", before.Children)
			}
		})
	}
}

func TestInvisibleRoot(t *testing.T) {
	for name, root := range map[string]*snapshot.Node{
		"display none": snapshot.El("body", snapshot.Rect(0, 0, 100, 100), oracle.Style{"display": "none"}),
		"zero size":    snapshot.El("body", snapshot.Rect(0, 0, 0, 0), nil),
		"transparent":  snapshot.El("body", snapshot.Rect(0, 0, 100, 100), oracle.Style{"opacity": "0"}),
	} {
		t.Run(name, func(t *testing.T) {
			d, err := snapshot.New(&snapshot.Snapshot{Root: root})
			if err != nil {
				t.Fatal(err)
			}
			if _, err := New(d, Options{}).Build(d.Root()); !errors.Is(err, ErrInvisibleRoot) {
				t.Errorf("Build() error = %v, want ErrInvisibleRoot", err)
			}
		})
	}
}

func TestInvisibleChildrenExcluded(t *testing.T) {
	box := func(st oracle.Style, children ...*snapshot.Node) *snapshot.Node {
		return snapshot.El("div", snapshot.Rect(0, 0, 10, 10), st, children...)
	}
	root := build(t, doc(t,
		box(oracle.Style{"display": "none", "background-color": "red"}),
		box(oracle.Style{"opacity": "0", "background-color": "red"}),
		box(oracle.Style{"visibility": "hidden", "background-color": "red"}),
		snapshot.El("div", snapshot.Rect(0, 0, 0, 0), nil),
		snapshot.El("script", snapshot.Rect(0, 0, 10, 10), nil),
		box(oracle.Style{"visibility": "hidden"},
			box(oracle.Style{"visibility": "visible", "background-color": "rgb(0, 0, 255)"}).Attr("id", "shown"),
		).Attr("id", "ghost"),
	))

	if len(root.Children) != 1 {
		t.Fatalf("root children = %d, want only the hidden wrapper", len(root.Children))
	}
	ghost := root.Children[0]
	if ghost.Name != "ghost" || !ghost.Hints.Hidden || ghost.Style.Fill != nil {
		t.Errorf("hidden wrapper = %+v", ghost)
	}
	if len(ghost.Children) != 1 || ghost.Children[0].Name != "shown" {
		t.Errorf("visible descendant missing: %+v", ghost.Children)
	}
}

func TestGroupBBoxUnion(t *testing.T) {
	kid := func(x, y float64) *snapshot.Node {
		return snapshot.El("div", snapshot.Rect(x, y, 10, 10), oracle.Style{"background-color": "rgb(0, 0, 0)"})
	}
	tests := []struct {
		name  string
		style oracle.Style
		want  scene.BBox
	}{
		{
			name:  "unpainted replaced by children",
			style: nil,
			want:  scene.BBox{X: 20, Y: 20, W: 110, H: 30},
		},
		{
			name:  "painted merged with children",
			style: oracle.Style{"background-color": "rgb(255, 255, 255)"},
			want:  scene.BBox{X: 0, Y: 0, W: 130, H: 100},
		},
		{
			name:  "clipped keeps own box",
			style: oracle.Style{"overflow": "hidden"},
			want:  scene.BBox{X: 0, Y: 0, W: 100, H: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapper := snapshot.El("section", snapshot.Rect(0, 0, 100, 100), tt.style, kid(20, 20), kid(120, 40))
			n := build(t, doc(t, wrapper)).Children[0]
			if !sameBox(n.BBox, tt.want) {
				t.Errorf("bbox = %+v, want %+v", n.BBox, tt.want)
			}
		})
	}
}

func TestPseudoContent(t *testing.T) {
	host := snapshot.El("div", snapshot.Rect(0, 0, 200, 100), nil,
		snapshot.El("p", snapshot.Rect(0, 40, 200, 20), nil, snapshot.Txt("Body", run(0, 4, 0, 40, 32, 20))),
	).
		WithPseudo(oracle.PseudoBefore, oracle.Style{
			"content":   `"New"`,
			"position":  "absolute",
			"left":      "10px",
			"top":       "5px",
			"font-size": "13px",
		}).
		WithPseudo(oracle.PseudoAfter, oracle.Style{
			"content":          `""`,
			"position":         "absolute",
			"right":            "0px",
			"bottom":           "0px",
			"width":            "20px",
			"height":           "10px",
			"background-color": "rgb(0, 0, 255)",
		})
	d := doc(t, host)
	n := build(t, d).Children[0]

	if len(n.Children) != 3 {
		t.Fatalf("children = %d, want before, body, after", len(n.Children))
	}
	before, body, after := n.Children[0], n.Children[1], n.Children[2]
	if before.Kind != scene.KindText || before.Text.Content != "New" || before.Hints.Layer != scene.LayerBackground {
		t.Errorf("::before = %+v", before)
	}
	if !near(before.BBox.X, 10) || !near(before.BBox.Y, 5) || !near(before.BBox.W, 21) {
		t.Errorf("::before bbox = %+v, want 21px wide at (10, 5)", before.BBox)
	}
	if body.Kind != scene.KindText {
		t.Errorf("body kind = %q", body.Kind)
	}
	if after.Kind != scene.KindGroup || after.Style.Fill == nil || after.Hints.Layer != scene.LayerOverlay {
		t.Errorf("::after = %+v", after)
	}
	if !sameBox(after.BBox, scene.BBox{X: 180, Y: 90, W: 20, H: 10}) {
		t.Errorf("::after bbox = %+v", after.BBox)
	}
	if len(d.Root().ChildNodes()[0].(oracle.Element).ChildNodes()) != 1 {
		t.Error("probe left in the document")
	}
}

func TestPseudoContentValue(t *testing.T) {
	el := elementOf(t, snapshot.El("a", snapshot.Rect(0, 0, 1, 1), nil).Attr("data-count", "3"))
	tests := []struct {
		value  string
		want   string
		wantOK bool
	}{
		{value: "none", wantOK: false},
		{value: "normal", wantOK: false},
		{value: `""`, want: "", wantOK: true},
		{value: `"Read more"`, want: "Read more", wantOK: true},
		{value: `"(" attr(data-count) ")"`, want: "(3)", wantOK: true},
		{value: `"\2014 quote"`, want: "—quote", wantOK: true},
		{value: `"\2014  quote"`, want: "— quote", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := pseudoContent(el, tt.value)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("pseudoContent(%q) = %q, %v; want %q, %v", tt.value, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBackgroundImageChild(t *testing.T) {
	el := snapshot.El("div", snapshot.Rect(0, 0, 100, 50), oracle.Style{
		"background-image": `url("bg.png"), linear-gradient(red, blue)`,
		"background-size":  "cover",
	})
	n := build(t, doc(t, el)).Children[0]
	if len(n.Children) != 1 {
		t.Fatalf("children = %d, want background image", len(n.Children))
	}
	bg := n.Children[0]
	if bg.Kind != scene.KindImage || bg.Hints.Layer != scene.LayerBackground || bg.Asset.Src != "bg.png" || bg.Asset.ObjectFit != "cover" {
		t.Errorf("background child = %+v", bg)
	}
	if n.Style.Gradient == nil {
		t.Error("gradient layer dropped from style")
	}
}

func TestBareURLBecomesImage(t *testing.T) {
	el := snapshot.El("div", snapshot.Rect(0, 0, 100, 50), nil, snapshot.Txt("https://example.com/cat.png"))
	n := build(t, doc(t, el)).Children[0]
	if n.Kind != scene.KindImage || n.Asset == nil || n.Asset.Src != "https://example.com/cat.png" {
		t.Errorf("node = %+v, want image", n)
	}
}

func TestAssets(t *testing.T) {
	root := build(t, doc(t,
		snapshot.El("img", snapshot.Rect(0, 0, 40, 30), oracle.Style{"object-fit": "cover"}).Attr("src", "a.jpg"),
		snapshot.El("video", snapshot.Rect(0, 30, 40, 30), nil,
			snapshot.El("source", snapshot.Rect(0, 0, 0, 0), nil).Attr("src", "clip.mp4"),
		),
		snapshot.El("svg", snapshot.Rect(0, 60, 40, 40), nil,
			snapshot.El("circle", snapshot.Rect(0, 60, 40, 40), oracle.Style{"fill": "rgb(0, 0, 0)"}).
				Attr("cx", "20").Attr("cy", "20").Attr("r", "20"),
		).Attr("viewBox", "0 0 40 40"),
	))
	if len(root.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(root.Children))
	}
	img, video, svg := root.Children[0], root.Children[1], root.Children[2]
	if img.Kind != scene.KindImage || img.Asset.Src != "a.jpg" || img.Asset.ObjectFit != "cover" {
		t.Errorf("img = %+v", img.Asset)
	}
	if video.Kind != scene.KindVideo || video.Asset.Src != "clip.mp4" {
		t.Errorf("video = %+v", video.Asset)
	}
	if svg.Kind != scene.KindVector || svg.Asset.SVG == "" || !svg.Hints.Asset {
		t.Errorf("svg = %+v", svg.Asset)
	}
	if len(svg.Children) != 0 {
		t.Error("vector asset exposes children")
	}
}

func TestClipAndHints(t *testing.T) {
	el := snapshot.El("div", snapshot.Rect(0, 0, 200, 100), oracle.Style{
		"clip-path":     "circle(closest-side at 25% 50%)",
		"opacity":       "0.5",
		"mask-image":    "linear-gradient(black, transparent)",
		"z-index":       "3",
		"border-radius": "8px",
	})
	n := build(t, doc(t, el)).Children[0]
	if n.Clip == nil || !n.Clip.Enabled || n.Clip.Path == nil || n.Clip.Path.Shape == nil {
		t.Fatalf("clip = %+v", n.Clip)
	}
	if v := n.Clip.Path.Shape.Vertices[0]; !near(v[0], 50) || !near(v[1], 0) {
		t.Errorf("clip top vertex = %v, want (50, 0)", v)
	}
	if n.Clip.Radius.Scalar != 8 {
		t.Errorf("radius = %+v", n.Clip.Radius)
	}
	if !n.Hints.Isolate || !n.Hints.Mask {
		t.Errorf("hints = %+v", n.Hints)
	}
	if n.Style.ZIndex == nil || *n.Style.ZIndex != 3 || n.Style.Opacity != 0.5 {
		t.Errorf("style = %+v", n.Style)
	}
}

func TestFontsCollected(t *testing.T) {
	d := doc(t, paragraph())
	b := New(d, Options{})
	if _, err := b.Build(d.Root()); err != nil {
		t.Fatal(err)
	}
	fonts := b.Fonts()
	if len(fonts) != 1 || fonts[0].Family != "Inter" || fonts[0].Weight != 400 {
		t.Errorf("Fonts() = %+v", fonts)
	}
}

func TestNodeName(t *testing.T) {
	tests := []struct {
		name string
		node *snapshot.Node
		want string
	}{
		{name: "id", node: snapshot.El("div", oracle.Rect{}, nil).Attr("id", "hero").Attr("class", "a"), want: "hero"},
		{name: "data-name", node: snapshot.El("div", oracle.Rect{}, nil).Attr("data-name", "Card"), want: "Card"},
		{name: "class", node: snapshot.El("div", oracle.Rect{}, nil).Attr("class", "  title big"), want: "title"},
		{name: "tag", node: snapshot.El("DIV", oracle.Rect{}, nil), want: "div"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nodeName(elementOf(t, tt.node)); got != tt.want {
				t.Errorf("nodeName() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := snippet("  a  much longer headline than fits  "); got != "a much longer headline t" {
		t.Errorf("snippet() = %q", got)
	}
}
