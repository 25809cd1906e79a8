package cssvalue

import (
	"math"
	"testing"

	"github.com/hellenic-development/scene-extractor/pkg/scene"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestResolveLength(t *testing.T) {
	tests := []struct {
		name   string
		tok    string
		ref    float64
		want   float64
		wantOK bool
	}{
		{name: "pixels", tok: "12px", ref: 100, want: 12, wantOK: true},
		{name: "percent", tok: "50%", ref: 200, want: 100, wantOK: true},
		{name: "em", tok: "2em", ref: 0, want: 32, wantOK: true},
		{name: "rem", tok: "1.5rem", ref: 0, want: 24, wantOK: true},
		{name: "bare number", tok: "7", ref: 0, want: 7, wantOK: true},
		{name: "calc", tok: "calc(50% - 12px)", ref: 200, want: 88, wantOK: true},
		{name: "auto is unset", tok: "auto", ref: 100, wantOK: false},
		{name: "empty is unset", tok: "", ref: 100, wantOK: false},
		{name: "garbage is unset", tok: "12qq", ref: 100, wantOK: false},
		{name: "broken calc", tok: "calc(50% -)", ref: 100, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveLength(tt.tok, tt.ref, 16)
			if ok != tt.wantOK {
				t.Fatalf("ResolveLength(%q) ok = %v, want %v", tt.tok, ok, tt.wantOK)
			}
			if ok && !approx(got, tt.want) {
				t.Errorf("ResolveLength(%q) = %v, want %v", tt.tok, got, tt.want)
			}
		})
	}
}

func TestResolveSpan(t *testing.T) {
	tests := []struct {
		name             string
		start, end, size string
		want             Span
	}{
		{name: "explicit", start: "10px", size: "40px", want: Span{Start: 10, Size: 40}},
		{name: "derived from both insets", start: "10px", end: "20px", size: "auto", want: Span{Start: 10, Size: 70}},
		{name: "anchored to end", end: "10px", size: "30px", want: Span{Start: 60, Size: 30}},
		{name: "intrinsic fallback", start: "0", size: "auto", want: Span{Start: 0, Size: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveSpan(tt.start, tt.end, tt.size, 100, 16, 5)
			if got != tt.want {
				t.Errorf("ResolveSpan() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseAngle(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"90deg", 90, true},
		{"0.5turn", 180, true},
		{"100grad", 90, true},
		{"3.14159265rad", 180, true},
		{"0", 0, true},
		{"12", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseAngle(tt.in)
		if ok != tt.ok || (ok && math.Abs(got-tt.want) > 1e-4) {
			t.Errorf("ParseAngle(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSplitTopLevel(t *testing.T) {
	got := SplitTopLevel("rgba(0, 0, 0, 0.5) 0 2px 4px, inset 0 0 1px red", ',')
	want := []string{"rgba(0, 0, 0, 0.5) 0 2px 4px", "inset 0 0 1px red"}
	if len(got) != len(want) {
		t.Fatalf("SplitTopLevel() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SplitTopLevel()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	fields := Fields("rgb(1 2 3) 4px  5px")
	if len(fields) != 3 || fields[0] != "rgb(1 2 3)" {
		t.Errorf("Fields() = %q", fields)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want scene.Color
		ok   bool
	}{
		{in: "rgb(255, 0, 0)", want: scene.Color{R: 1, A: 1}, ok: true},
		{in: "rgba(0, 0, 255, 0.5)", want: scene.Color{B: 1, A: 0.5}, ok: true},
		{in: "rgb(0 255 0 / 25%)", want: scene.Color{G: 1, A: 0.25}, ok: true},
		{in: "#fff", want: scene.Color{R: 1, G: 1, B: 1, A: 1}, ok: true},
		{in: "#00000080", want: scene.Color{A: 128.0 / 255}, ok: true},
		{in: "transparent", want: scene.Color{}, ok: true},
		{in: "white", want: scene.Color{R: 1, G: 1, B: 1, A: 1}, ok: true},
		{in: "hsl(0, 100%, 50%)", want: scene.Color{R: 1, A: 1}, ok: true},
		{in: "#ggg", ok: false},
		{in: "rgb(1, 2)", ok: false},
		{in: "currentcolor", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseColor(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if !ok {
				return
			}
			if !approx(got.R, tt.want.R) || !approx(got.G, tt.want.G) || !approx(got.B, tt.want.B) || !approx(got.A, tt.want.A) {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTransform(t *testing.T) {
	m, ok := ParseTransform("matrix(0, 1, -1, 0, 0, 0)", 100, 50)
	if !ok {
		t.Fatal("ParseTransform(matrix) failed")
	}
	if !IsPureRotation(m) {
		t.Errorf("IsPureRotation(%v) = false, want true", m)
	}
	if d := Decompose(m); !approx(d.Rotation, 90) {
		t.Errorf("Decompose().Rotation = %v, want 90", d.Rotation)
	}

	m, ok = ParseTransform("translate(10px, 50%) scale(2)", 100, 50)
	if !ok {
		t.Fatal("ParseTransform(translate scale) failed")
	}
	css := ToCSS(m)
	want := [6]float64{2, 0, 0, 2, 10, 25}
	for i := range want {
		if !approx(css[i], want[i]) {
			t.Fatalf("ToCSS() = %v, want %v", css, want)
		}
	}
	if IsPureRotation(m) {
		t.Error("scaled matrix reported as pure rotation")
	}

	if _, ok := ParseTransform("wobble(3)", 0, 0); ok {
		t.Error("ParseTransform(unknown) ok = true, want false")
	}
	if m, ok := ParseTransform("none", 0, 0); !ok || !IsIdentity(m) {
		t.Error("ParseTransform(none) is not identity")
	}
}

func TestIsPureRotation(t *testing.T) {
	tests := []struct {
		name string
		css  [6]float64
		want bool
	}{
		{name: "identity", css: [6]float64{1, 0, 0, 1, 0, 0}, want: true},
		{name: "45deg", css: [6]float64{math.Sqrt2 / 2, math.Sqrt2 / 2, -math.Sqrt2 / 2, math.Sqrt2 / 2, 0, 0}, want: true},
		{name: "translated", css: [6]float64{0, 1, -1, 0, 5, 0}, want: false},
		{name: "scaled", css: [6]float64{1.2, 0, 0, 1.2, 0, 0}, want: false},
		{name: "mirrored", css: [6]float64{-1, 0, 0, 1, 0, 0}, want: false},
		{name: "skewed", css: [6]float64{1, 0, 0.5, 1, 0, 0}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.css
			if got := IsPureRotation(FromCSS(c[0], c[1], c[2], c[3], c[4], c[5])); got != tt.want {
				t.Errorf("IsPureRotation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveOrigin(t *testing.T) {
	tests := []struct {
		value string
		x, y  float64
	}{
		{value: "", x: 50, y: 25},
		{value: "50px 25px 0px", x: 50, y: 25},
		{value: "left", x: 0, y: 25},
		{value: "bottom center", x: 50, y: 50},
		{value: "center bottom", x: 50, y: 50},
		{value: "right top", x: 100, y: 0},
		{value: "30%", x: 30, y: 15},
		{value: "left top 10px", x: 0, y: 0},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			o := ResolveOrigin(tt.value, 100, 50, 2)
			if !approx(o.X, tt.x) || !approx(o.Y, tt.y) {
				t.Errorf("ResolveOrigin(%q) = (%v, %v), want (%v, %v)", tt.value, o.X, o.Y, tt.x, tt.y)
			}
			if !approx(o.TargetX, tt.x*2) || !approx(o.TargetY, tt.y*2) {
				t.Errorf("ResolveOrigin(%q) target = (%v, %v)", tt.value, o.TargetX, o.TargetY)
			}
		})
	}
}

func TestRotatedBounds(t *testing.T) {
	x, y, w, h := RotatedBounds(0, 0, 100, 50, 90, 50, 25)
	if !approx(w, 50) || !approx(h, 100) {
		t.Errorf("RotatedBounds size = %vx%v, want 50x100", w, h)
	}
	if !approx(x+w/2, 50) || !approx(y+h/2, 25) {
		t.Errorf("RotatedBounds center = (%v, %v), want (50, 25)", x+w/2, y+h/2)
	}
}

func TestMatrixStringRoundTrip(t *testing.T) {
	m := Compose(10, -4, 30, 1.5, 1.5)
	back, ok := ParseTransform(MatrixString(m), 0, 0)
	if !ok {
		t.Fatalf("ParseTransform(%q) failed", MatrixString(m))
	}
	a, b := ToCSS(m), ToCSS(back)
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-5 {
			t.Fatalf("round trip = %v, want %v", b, a)
		}
	}
}
