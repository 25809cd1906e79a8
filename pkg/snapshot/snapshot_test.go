package snapshot

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hellenic-development/scene-extractor/pkg/oracle"
)

const sampleJSON = `{
  "id": "demo",
  "viewport": {"width": 1920, "height": 1080},
  "fonts": [{"family": "Inter", "weight": "400", "style": "normal", "status": "loaded"}],
  "root": {
    "tag": "div",
    "attrs": {"id": "stage"},
    "style": {"background-color": "rgb(0, 0, 0)"},
    "rect": {"x": 0, "y": 0, "w": 1920, "h": 1080},
    "children": [
      {"text": "Hello world", "runs": [{"start": 0, "end": 11, "rects": [{"x": 10, "y": 20, "w": 110, "h": 20}]}]},
      {"tag": "svg", "rect": {"x": 0, "y": 0, "w": 100, "h": 100}, "children": [
        {"tag": "line", "attrs": {"id": "l", "x1": "0", "y1": "0", "x2": "30", "y2": "40"}, "rect": {"x": 0, "y": 0, "w": 30, "h": 40}}
      ]}
    ]
  }
}`

func load(t *testing.T) *Document {
	t.Helper()
	s, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	d, err := New(s)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func TestDecode(t *testing.T) {
	d := load(t)
	if w, h := d.Viewport(); w != 1920 || h != 1080 {
		t.Errorf("Viewport() = %vx%v", w, h)
	}
	root := d.Root()
	if root.Tag() != "div" {
		t.Errorf("Root().Tag() = %q", root.Tag())
	}
	kids := root.ChildNodes()
	if len(kids) != 2 {
		t.Fatalf("ChildNodes() = %d, want 2", len(kids))
	}
	txt, ok := kids[0].(oracle.Text)
	if !ok || txt.Data() != "Hello world" {
		t.Fatalf("first child = %#v, want text", kids[0])
	}
	if got := root.ComputedStyle(oracle.PseudoNone).Get("background-color"); got != "rgb(0, 0, 0)" {
		t.Errorf("background-color = %q", got)
	}
	if root.ComputedStyle(oracle.PseudoBefore) != nil {
		t.Error("missing pseudo box returned a style")
	}
	if el, ok := d.Lookup("l"); !ok || el.Parent().Tag() != "svg" {
		t.Error("Lookup(l) failed")
	}
	if len(d.FontFaces()) != 1 {
		t.Errorf("FontFaces() = %v", d.FontFaces())
	}

	if _, err := Decode([]byte(`{"viewport": {}}`)); !errors.Is(err, ErrNotFound) {
		t.Errorf("Decode(no root) error = %v, want ErrNotFound", err)
	}
	if _, err := Decode([]byte(`{`)); err == nil {
		t.Error("Decode(garbage) error = nil")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.ID != "demo" {
		t.Errorf("ID = %q, want demo", s.ID)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load(missing) error = nil")
	}
}

func TestRangeRects(t *testing.T) {
	txt := load(t).Root().ChildNodes()[0].(oracle.Text)

	tests := []struct {
		name       string
		start, end int
		want       oracle.Rect
	}{
		{name: "whole run", start: 0, end: 11, want: Rect(10, 20, 110, 20)},
		{name: "first word", start: 0, end: 6, want: Rect(10, 20, 60, 20)},
		{name: "second word", start: 6, end: 11, want: Rect(70, 20, 50, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := txt.RangeRects(tt.start, tt.end)
			if len(got) != 1 {
				t.Fatalf("RangeRects() = %v, want one rect", got)
			}
			g := got[0]
			if math.Abs(g.X-tt.want.X) > 1e-9 || math.Abs(g.W-tt.want.W) > 1e-9 || g.Y != tt.want.Y {
				t.Errorf("RangeRects() = %+v, want %+v", g, tt.want)
			}
		})
	}

	if got := txt.RangeRects(20, 30); len(got) != 0 {
		t.Errorf("RangeRects(out of range) = %v", got)
	}
}

func TestSetStyleLayoutRect(t *testing.T) {
	inner := El("span", Rect(0, 0, 10, 10), nil).WithLayout(Rect(5, 5, 10, 10))
	rotated := El("div", Rect(25, -25, 50, 100), oracle.Style{"transform": "matrix(0, 1, -1, 0, 0, 0)"}, inner).
		WithLayout(Rect(0, 0, 100, 50))
	d, err := New(&Snapshot{Root: El("body", Rect(0, 0, 200, 200), nil, rotated)})
	if err != nil {
		t.Fatal(err)
	}
	el := d.Root().ChildNodes()[0].(oracle.Element)
	child := el.ChildNodes()[0].(oracle.Element)

	restore, err := d.SetStyle(el, "transform", "none")
	if err != nil {
		t.Fatalf("SetStyle() error = %v", err)
	}
	if got := el.Rect(); got != Rect(0, 0, 100, 50) {
		t.Errorf("Rect() while neutralized = %+v", got)
	}
	if got := child.Rect(); got != Rect(5, 5, 10, 10) {
		t.Errorf("child Rect() while neutralized = %+v", got)
	}
	if got := el.ComputedStyle(oracle.PseudoNone).Get("transform"); got != "none" {
		t.Errorf("transform while neutralized = %q", got)
	}
	if d.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", d.Pending())
	}

	restore()
	restore()
	if d.Pending() != 0 {
		t.Errorf("Pending() after restore = %d, want 0", d.Pending())
	}
	if got := el.Rect(); got != Rect(25, -25, 50, 100) {
		t.Errorf("Rect() after restore = %+v", got)
	}
	if got := el.ComputedStyle(oracle.PseudoNone).Get("transform"); got != "matrix(0, 1, -1, 0, 0, 0)" {
		t.Errorf("transform after restore = %q", got)
	}
}

func TestInsertProbe(t *testing.T) {
	d := load(t)
	root := d.Root()
	before := len(root.ChildNodes())

	probe, remove, err := d.InsertProbe(root, oracle.Probe{Text: "abcd", Style: oracle.Style{"font-size": "26px"}})
	if err != nil {
		t.Fatalf("InsertProbe() error = %v", err)
	}
	if len(root.ChildNodes()) != before+1 {
		t.Error("probe not attached")
	}
	r := probe.Rect()
	if math.Abs(r.W-56) > 1e-9 || math.Abs(r.H-31.2) > 1e-9 {
		t.Errorf("probe rect = %+v, want 56x31.2", r)
	}
	if oracle.TextContent(probe) != "abcd" {
		t.Errorf("probe text = %q", oracle.TextContent(probe))
	}

	remove()
	if len(root.ChildNodes()) != before || d.Pending() != 0 {
		t.Errorf("probe not removed: children %d, pending %d", len(root.ChildNodes()), d.Pending())
	}

	other := load(t)
	if _, _, err := d.InsertProbe(other.Root(), oracle.Probe{Text: "x"}); err == nil {
		t.Error("InsertProbe(foreign parent) error = nil")
	}
}

func TestGeometry(t *testing.T) {
	d := load(t)
	el, _ := d.Lookup("l")
	g, ok := el.(oracle.Geometry)
	if !ok {
		t.Fatal("line element does not expose geometry")
	}
	total, err := g.TotalLength()
	if err != nil || math.Abs(total-50) > 1e-9 {
		t.Fatalf("TotalLength() = %v, %v; want 50", total, err)
	}
	x, y, err := g.PointAtLength(25)
	if err != nil || math.Abs(x-15) > 1e-9 || math.Abs(y-20) > 1e-9 {
		t.Errorf("PointAtLength(25) = (%v, %v), %v; want (15, 20)", x, y, err)
	}

	if _, ok := d.Root().(oracle.Geometry); ok {
		t.Error("div exposes geometry")
	}
}

func TestPathFromData(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want float64
		tol  float64
	}{
		{name: "relative lines", d: "m0 0 h10 v10 h-10 z", want: 40, tol: 1e-9},
		{name: "circle by arcs", d: "M 10 0 A 10 10 0 0 1 -10 0 A 10 10 0 0 1 10 0 Z", want: 2 * math.Pi * 10, tol: 0.5},
		{name: "cubic", d: "M0,0 C0,0 10,0 10,0", want: 10, tol: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(&Snapshot{Root: El("svg", Rect(0, 0, 10, 10), nil, El("path", Rect(0, 0, 10, 10), nil).Attr("d", tt.d))})
			if err != nil {
				t.Fatal(err)
			}
			g := d.Root().ChildNodes()[0].(oracle.Geometry)
			got, err := g.TotalLength()
			if err != nil {
				t.Fatalf("TotalLength() error = %v", err)
			}
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("TotalLength() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := PathFromData("M 0 0 L"); err == nil {
		t.Error("PathFromData(truncated) error = nil")
	}
}

func TestGeometrySubpaths(t *testing.T) {
	d, err := New(&Snapshot{Root: El("svg", Rect(0, 0, 40, 10), nil,
		El("path", Rect(0, 0, 40, 10), nil).Attr("d", "M0 0 L10 0 M20 0 L30 0 L30 10 Z"),
	)})
	if err != nil {
		t.Fatal(err)
	}
	el := d.Root().ChildNodes()[0]

	total, err := el.(oracle.Geometry).TotalLength()
	if err != nil || math.Abs(total-(10+10+10+math.Hypot(10, 10))) > 1e-9 {
		t.Errorf("TotalLength() = %v, %v; the move between subpaths must not count", total, err)
	}
	// 15 units in: 10 along the first subpath, then 5 into the second.
	x, y, err := el.(oracle.Geometry).PointAtLength(15)
	if err != nil || math.Abs(x-25) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Errorf("PointAtLength(15) = (%v, %v), %v; want (25, 0)", x, y, err)
	}

	subs, err := el.(oracle.Compound).Subpaths()
	if err != nil {
		t.Fatalf("Subpaths() error = %v", err)
	}
	if len(subs) != 2 || subs[0].Closed || !subs[1].Closed {
		t.Fatalf("subpaths = %+v, want open then closed", subs)
	}
	if l, _ := subs[0].TotalLength(); math.Abs(l-10) > 1e-9 {
		t.Errorf("first subpath length = %v, want 10", l)
	}
}

func TestRectCornerRadii(t *testing.T) {
	// A 100x50 rect with rx clamped to 50 and ry 10 is a 50x10 ellipse split
	// by two 30 unit sides.
	ellipse := math.Pi * (3*(50+10) - math.Sqrt((3*50+10)*(50+3*10)))
	tests := []struct {
		name  string
		attrs map[string]string
		want  float64
	}{
		{name: "square", attrs: map[string]string{}, want: 300},
		{name: "rx and ry", attrs: map[string]string{"rx": "80", "ry": "10"}, want: 60 + ellipse},
		{name: "ry only", attrs: map[string]string{"ry": "10"}, want: 2*80 + 2*30 + 2*math.Pi*10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := El("rect", Rect(0, 0, 100, 50), nil).Attr("width", "100").Attr("height", "50")
			for k, v := range tt.attrs {
				n = n.Attr(k, v)
			}
			d, err := New(&Snapshot{Root: El("svg", Rect(0, 0, 100, 50), nil, n)})
			if err != nil {
				t.Fatal(err)
			}
			got, err := d.Root().ChildNodes()[0].(oracle.Geometry).TotalLength()
			if err != nil {
				t.Fatalf("TotalLength() error = %v", err)
			}
			if math.Abs(got-tt.want) > 0.5 {
				t.Errorf("TotalLength() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLines(t *testing.T) {
	n := Lines(0, 0, 8, 20, "Hello world", "this is a line")
	if *n.Text != "Hello world this is a line" {
		t.Errorf("text = %q", *n.Text)
	}
	if len(n.Runs) != 6 {
		t.Fatalf("runs = %d, want 6", len(n.Runs))
	}
	if third := n.Runs[2]; third.Start != 12 || third.Rects[0].Y != 20 || third.Rects[0].X != 0 {
		t.Errorf("third run = %+v", third)
	}
}

func TestFetch(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/flaky":
			if calls.Add(1) < 3 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(sampleJSON))
		case "/missing":
			calls.Add(1)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient()
	c.backoff = time.Millisecond

	s, err := c.Fetch(context.Background(), srv.URL+"/flaky")
	if err != nil {
		t.Fatalf("Fetch(flaky) error = %v", err)
	}
	if s.ID != "demo" || calls.Load() != 3 {
		t.Errorf("Fetch(flaky) id = %q after %d calls, want demo after 3", s.ID, calls.Load())
	}

	calls.Store(0)
	if _, err := c.Fetch(context.Background(), srv.URL+"/missing"); err == nil {
		t.Error("Fetch(missing) error = nil")
	}
	if calls.Load() != 1 {
		t.Errorf("Fetch(missing) made %d calls, want 1", calls.Load())
	}
}
