package scene

import "math"

// Sanitize replaces every non-finite number in doc with 0 and clamps negative
// box sizes to 0. It is the last step of assembly: nothing that reaches the
// importer may carry NaN or Inf.
func Sanitize(doc *Document) {
	if doc == nil {
		return
	}
	fix(&doc.Timing.FPS)
	fix(&doc.Timing.Duration)
	fix(&doc.Viewport.TargetWidth)
	fix(&doc.Viewport.TargetHeight)
	fix(&doc.Viewport.SourceWidth)
	fix(&doc.Viewport.SourceHeight)
	fix(&doc.Viewport.Scale)
	Walk(doc.Root, sanitizeNode)
}

// Walk calls fn for n and every descendant, parents before children.
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

func sanitizeNode(n *Node) {
	fixBox(&n.BBox)

	s := &n.Style
	fix(&s.Opacity)
	fixColorPtr(s.Fill)
	if g := s.Gradient; g != nil {
		fix(&g.Angle)
		fix(&g.CenterX)
		fix(&g.CenterY)
		for i := range g.Stops {
			fix(&g.Stops[i].Offset)
			fixColor(&g.Stops[i].Color)
		}
	}
	if t := s.Transform; t != nil {
		for i := range t.Matrix {
			fix(&t.Matrix[i])
		}
		fix(&t.Rotation)
		fix(&t.ScaleX)
		fix(&t.ScaleY)
	}
	if o := s.Origin; o != nil {
		fix(&o.X)
		fix(&o.Y)
		fix(&o.TargetX)
		fix(&o.TargetY)
	}
	for i := range s.Shadows {
		sh := &s.Shadows[i]
		fix(&sh.X)
		fix(&sh.Y)
		fix(&sh.Blur)
		fix(&sh.Spread)
		fixColor(&sh.Color)
	}

	fixBorder(n.Border)
	fixBorder(n.Outline)

	if c := n.Clip; c != nil {
		for _, corner := range []*Corner{&c.Radius.TopLeft, &c.Radius.TopRight, &c.Radius.BottomRight, &c.Radius.BottomLeft} {
			fix(&corner.X)
			fix(&corner.Y)
		}
		fix(&c.Radius.Scalar)
		if p := c.Path; p != nil {
			if p.Shape != nil {
				fixShape(p.Shape)
			}
			for i := range p.Union {
				fixShape(&p.Union[i])
			}
		}
	}

	if t := n.Text; t != nil {
		for i := range t.LineBoxes {
			fixBox(&t.LineBoxes[i])
		}
		for i := range t.Overrides {
			o := &t.Overrides[i]
			fixColorPtr(o.Color)
			if o.Opacity != nil {
				fix(o.Opacity)
			}
			if o.X != nil {
				fix(o.X)
			}
		}
		f := &t.Font
		fix(&f.Size)
		fix(&f.LineHeight)
		fix(&f.Tracking)
		fixColor(&f.Color)
		if f.StrokeWidth != nil {
			fix(f.StrokeWidth)
		}
		fixColorPtr(f.StrokeColor)
	}

	if a := n.Asset; a != nil {
		fix(&a.Width)
		fix(&a.Height)
	}
}

func fixBorder(b *Border) {
	if b == nil {
		return
	}
	fix(&b.Width)
	fix(&b.Offset)
	fixColor(&b.Color)
	for i := range b.Sides {
		fix(&b.Sides[i].Width)
		fixColor(&b.Sides[i].Color)
	}
}

func fixShape(s *Shape) {
	for _, pts := range [][][2]float64{s.Vertices, s.In, s.Out} {
		for i := range pts {
			fix(&pts[i][0])
			fix(&pts[i][1])
		}
	}
}

func fixBox(b *BBox) {
	fix(&b.X)
	fix(&b.Y)
	fix(&b.W)
	fix(&b.H)
	if b.W < 0 {
		b.W = 0
	}
	if b.H < 0 {
		b.H = 0
	}
}

func fixColorPtr(c *Color) {
	if c != nil {
		fixColor(c)
	}
}

func fixColor(c *Color) {
	fix(&c.R)
	fix(&c.G)
	fix(&c.B)
	fix(&c.A)
}

func fix(v *float64) {
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		*v = 0
	}
}
