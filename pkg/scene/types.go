package scene

import "encoding/json"

// FormatVersion identifies the wire layout of Document.
const FormatVersion = "1.0"

// Kind is the closed set of scene node variants.
type Kind string

const (
	KindGroup  Kind = "group"
	KindText   Kind = "text"
	KindImage  Kind = "image"
	KindVideo  Kind = "video"
	KindVector Kind = "vector"
)

// Layer is the semantic ordering hint of a synthesized or pseudo node.
type Layer string

const (
	LayerBackground Layer = "background"
	LayerContent    Layer = "content"
	LayerOverlay    Layer = "overlay"
)

// Document is the complete export handed to a host importer.
// It carries the root node plus every document-level setting the importer needs
// (timing, viewport mapping, font inventory) so that no further context is required.
type Document struct {
	ID       string          `json:"id"`
	Version  string          `json:"version"`
	Fonts    FontInventory   `json:"fonts"`
	Timing   Timing          `json:"timing"`
	Viewport Viewport        `json:"viewport"`
	Root     *Node           `json:"root"`
	Motion   json.RawMessage `json:"motion,omitempty"`
}

// FontInventory lists font resources referenced by the artifact and the normalized
// family names with their style-variant suffixes (e.g. "Inter" -> ["Bold", "Regular"]).
type FontInventory struct {
	URLs     []string            `json:"urls"`
	Families map[string][]string `json:"families"`
}

// Timing holds the composition settings: frame rate, duration in seconds and the
// target resolution with its human label ("4K", "1080p").
type Timing struct {
	FPS      float64 `json:"fps"`
	Duration float64 `json:"duration"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Label    string  `json:"label"`
}

// Viewport maps source (authored) pixels to target pixels. Scale is the single
// uniform factor applied to every linear measurement in the document.
type Viewport struct {
	TargetWidth  float64 `json:"targetWidth"`
	TargetHeight float64 `json:"targetHeight"`
	SourceWidth  float64 `json:"sourceWidth"`
	SourceHeight float64 `json:"sourceHeight"`
	Scale        float64 `json:"scale"`
}

// Node describes one visual element of the artifact.
// BBox is global (root-relative) in target space; clip paths below it are node-local.
type Node struct {
	Kind     Kind    `json:"kind"`
	Name     string  `json:"name"`
	BBox     BBox    `json:"bbox"`
	Style    Style   `json:"style"`
	Hints    Hints   `json:"hints"`
	Children []*Node `json:"children,omitempty"`
	Border   *Border `json:"border,omitempty"`
	Outline  *Border `json:"outline,omitempty"`
	Clip     *Clip   `json:"clip,omitempty"`
	Text     *Text   `json:"text,omitempty"`
	Asset    *Asset  `json:"asset,omitempty"`
}

// BBox is an axis-aligned box. W and H are never negative.
type BBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Color is an RGBA color with components in the range 0 to 1.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Style is the paint and compositing state of a node.
// Transform is the composed 2D matrix of the element itself, with translation in
// target units; Origin locates its pivot relative to the node's own box.
type Style struct {
	Fill      *Color     `json:"fill,omitempty"`
	Gradient  *Gradient  `json:"gradient,omitempty"`
	Opacity   float64    `json:"opacity"`
	Transform *Transform `json:"transform,omitempty"`
	Origin    *Origin    `json:"origin,omitempty"`
	ZIndex    *int       `json:"zIndex,omitempty"`
	BlendMode string     `json:"blendMode,omitempty"`
	Shadows   []Shadow   `json:"shadows,omitempty"`
}

// Transform is an affine matrix in CSS order (a, b, c, d, e, f) plus its
// decomposed rotation (degrees) and axis scales.
type Transform struct {
	Matrix   [6]float64 `json:"matrix"`
	Rotation float64    `json:"rotation"`
	ScaleX   float64    `json:"scaleX"`
	ScaleY   float64    `json:"scaleY"`
	Rotate   bool       `json:"pureRotation,omitempty"`
}

// Origin is a transform origin in the authored frame (X, Y, source pixels) and
// the target-scaled frame, both relative to the node's box.
type Origin struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	TargetX float64 `json:"targetX"`
	TargetY float64 `json:"targetY"`
}

// Shadow is one entry of a box-shadow list, in declaration order.
type Shadow struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Blur   float64 `json:"blur"`
	Spread float64 `json:"spread"`
	Color  Color   `json:"color"`
	Inset  bool    `json:"inset,omitempty"`
}

// Gradient is a decomposed CSS gradient.
// Angle is in degrees for linear gradients; Center/Shape/Extent apply to radial ones.
type Gradient struct {
	Type      string         `json:"type"`
	Angle     float64        `json:"angle,omitempty"`
	Shape     string         `json:"shape,omitempty"`
	Extent    string         `json:"extent,omitempty"`
	CenterX   float64        `json:"centerX,omitempty"`
	CenterY   float64        `json:"centerY,omitempty"`
	Repeating bool           `json:"repeating,omitempty"`
	Stops     []GradientStop `json:"stops"`
}

// GradientStop is a color at a fractional offset (0..1).
type GradientStop struct {
	Offset float64 `json:"offset"`
	Color  Color   `json:"color"`
}

// Hints tell the importer how to realize a node.
type Hints struct {
	Isolate bool  `json:"isolate"`
	Mask    bool  `json:"mask,omitempty"`
	Text    bool  `json:"text,omitempty"`
	Asset   bool  `json:"asset,omitempty"`
	Hidden  bool  `json:"hidden,omitempty"`
	Layer   Layer `json:"layer,omitempty"`
}

// Border holds the four sides of a border (or the single ring of an outline) and the
// representative side used when the importer can only draw one stroke.
type Border struct {
	Uniform bool    `json:"uniform"`
	Width   float64 `json:"width"`
	Style   string  `json:"style"`
	Color   Color   `json:"color"`
	Offset  float64 `json:"offset,omitempty"`
	Sides   [4]Side `json:"sides"`
}

// Side is one border edge, ordered top, right, bottom, left in Border.Sides.
type Side struct {
	Width   float64 `json:"width"`
	Style   string  `json:"style"`
	Color   Color   `json:"color"`
	Visible bool    `json:"visible"`
}

// Corner is an elliptical corner radius.
type Corner struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Radii are the four corner radii after overlap clamping.
type Radii struct {
	TopLeft     Corner  `json:"topLeft"`
	TopRight    Corner  `json:"topRight"`
	BottomRight Corner  `json:"bottomRight"`
	BottomLeft  Corner  `json:"bottomLeft"`
	Scalar      float64 `json:"scalar"`
}

// Clip describes the visible region of a node.
type Clip struct {
	Enabled  bool      `json:"enabled"`
	Radius   Radii     `json:"radius"`
	Overflow string    `json:"overflow"`
	Path     *ClipPath `json:"path,omitempty"`
}

// ClipPath is either a single shape or a union of shapes, in node-local target units.
type ClipPath struct {
	Shape *Shape  `json:"shape,omitempty"`
	Union []Shape `json:"union,omitempty"`
}

// Shape is a polyline with Bezier tangents. In and Out are offsets relative to the
// vertex they belong to; zero tangents mean straight segments.
type Shape struct {
	Vertices [][2]float64 `json:"vertices"`
	In       [][2]float64 `json:"inTangents"`
	Out      [][2]float64 `json:"outTangents"`
	Closed   bool         `json:"closed"`
}

// Text is the reconstructed content of a text node.
// Lines and LineBoxes are parallel; Overrides only lists lines that differ from Font.
type Text struct {
	Content   string         `json:"content"`
	Lines     []string       `json:"lines"`
	LineBoxes []BBox         `json:"lineBoxes"`
	Overrides []LineOverride `json:"overrides,omitempty"`
	Font      Font           `json:"font"`
}

// LineOverride is a per-line delta against the node's base font descriptor.
// Only differing attributes are set.
type LineOverride struct {
	Line    int      `json:"line"`
	Color   *Color   `json:"color,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
	Weight  *int     `json:"weight,omitempty"`
	Italic  *bool    `json:"italic,omitempty"`
	X       *float64 `json:"x,omitempty"`
}

// Font is the base font descriptor of a text node. Size and LineHeight are in
// target pixels; Tracking is in thousandths of the font size.
type Font struct {
	Family         string   `json:"family"`
	Style          string   `json:"style"`
	PostScriptName string   `json:"postScriptName"`
	Weight         int      `json:"weight"`
	Italic         bool     `json:"italic,omitempty"`
	Size           float64  `json:"size"`
	LineHeight     float64  `json:"lineHeight"`
	Tracking       float64  `json:"tracking"`
	Color          Color    `json:"color"`
	Alignment      string   `json:"alignment"`
	StrokeWidth    *float64 `json:"strokeWidth,omitempty"`
	StrokeColor    *Color   `json:"strokeColor,omitempty"`
}

// Asset references the media behind image, video and vector nodes.
// Vector assets carry their self-contained markup in SVG.
type Asset struct {
	Src       string  `json:"src,omitempty"`
	SVG       string  `json:"svg,omitempty"`
	ObjectFit string  `json:"objectFit,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
}
