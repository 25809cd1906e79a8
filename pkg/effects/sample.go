package effects

import (
	"errors"
	"fmt"
	"math"

	"github.com/hellenic-development/scene-extractor/pkg/oracle"
)

// Sampling bounds for curved outlines.
const (
	MinSamples    = 8
	MaxSamples    = 64
	SampleSpacing = 8.0
)

// ErrDegenerate reports an outline with no measurable length.
var ErrDegenerate = errors.New("degenerate outline")

// SampleCount returns how many arc-length samples an outline of the given
// length gets: one per SampleSpacing units, clamped to [MinSamples, MaxSamples].
func SampleCount(length float64) int {
	n := int(math.Round(length / SampleSpacing))
	return max(MinSamples, min(MaxSamples, n))
}

// SampleOutline approximates g by evenly spaced points along its arc
// length. A closed outline omits the end point, which repeats the start.
func SampleOutline(g oracle.Geometry, closed bool) ([][2]float64, error) {
	total, err := g.TotalLength()
	if err != nil {
		return nil, fmt.Errorf("total length: %w", err)
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, ErrDegenerate
	}
	n := SampleCount(total)
	last := n
	if closed {
		last = n - 1
	}
	pts := make([][2]float64, 0, last+1)
	for i := 0; i <= last; i++ {
		x, y, err := g.PointAtLength(total * float64(i) / float64(n))
		if err != nil {
			return nil, fmt.Errorf("point at length: %w", err)
		}
		if math.IsNaN(x) || math.IsNaN(y) {
			return nil, ErrDegenerate
		}
		pts = append(pts, [2]float64{x, y})
	}
	return pts, nil
}
