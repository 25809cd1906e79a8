package scene

import (
	"encoding/json"
	"math"
	"testing"
)

func TestSanitize(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)
	sw := math.Inf(-1)

	doc := &Document{
		Viewport: Viewport{Scale: nan},
		Root: &Node{
			Kind: KindGroup,
			BBox: BBox{X: nan, Y: 1, W: -4, H: inf},
			Style: Style{
				Opacity:   nan,
				Transform: &Transform{Matrix: [6]float64{1, 0, 0, 1, inf, 2}},
				Shadows:   []Shadow{{Blur: nan}},
			},
			Children: []*Node{{
				Kind: KindText,
				Text: &Text{
					LineBoxes: []BBox{{W: nan, H: 3}},
					Font:      Font{Size: inf, StrokeWidth: &sw},
				},
				Clip: &Clip{Path: &ClipPath{Shape: &Shape{Vertices: [][2]float64{{nan, 1}}}}},
			}},
		},
	}

	Sanitize(doc)

	if doc.Viewport.Scale != 0 {
		t.Errorf("Viewport.Scale = %v, want 0", doc.Viewport.Scale)
	}
	want := BBox{X: 0, Y: 1, W: 0, H: 0}
	if doc.Root.BBox != want {
		t.Errorf("Root.BBox = %+v, want %+v", doc.Root.BBox, want)
	}
	if doc.Root.Style.Transform.Matrix[4] != 0 || doc.Root.Style.Transform.Matrix[5] != 2 {
		t.Errorf("Transform.Matrix = %v", doc.Root.Style.Transform.Matrix)
	}
	child := doc.Root.Children[0]
	if child.Text.Font.Size != 0 || *child.Text.Font.StrokeWidth != 0 {
		t.Errorf("Font not sanitized: %+v", child.Text.Font)
	}
	if child.Clip.Path.Shape.Vertices[0][0] != 0 {
		t.Errorf("clip vertex not sanitized: %v", child.Clip.Path.Shape.Vertices)
	}

	// Every number must survive a JSON round trip once sanitized.
	if _, err := json.Marshal(doc); err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
}

func TestWalkOrder(t *testing.T) {
	root := &Node{Name: "a", Children: []*Node{
		{Name: "b", Children: []*Node{{Name: "c"}}},
		{Name: "d"},
	}}

	var got []string
	Walk(root, func(n *Node) { got = append(got, n.Name) })

	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("Walk() visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Walk()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
