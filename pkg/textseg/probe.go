package textseg

import (
	"fmt"

	"github.com/hellenic-development/scene-extractor/pkg/oracle"
)

// probeProps are copied from the measured box onto the probe so that it
// lays text out identically.
var probeProps = []string{
	"font-family",
	"font-size",
	"font-weight",
	"font-style",
	"font-variant",
	"letter-spacing",
	"word-spacing",
	"line-height",
	"text-transform",
	"white-space",
	"color",
}

// ProbeStyle derives the style of a hidden, off-screen measurement element
// from st.
func ProbeStyle(st oracle.Style) oracle.Style {
	ps := oracle.Style{
		"position":   "absolute",
		"visibility": "hidden",
		"left":       "-99999px",
		"top":        "0px",
		"display":    "inline-block",
	}
	for _, p := range probeProps {
		if v := st.Get(p); v != "" {
			ps[p] = v
		}
	}
	if ps["white-space"] == "" {
		ps["white-space"] = "pre"
	}
	return ps
}

// MeasureProbe measures text laid out with the font of st by inserting a
// probe under parent. The probe is always removed again, even when
// measuring fails or panics.
func MeasureProbe(rc oracle.Context, parent oracle.Element, text string, st oracle.Style) (oracle.Rect, error) {
	probe, remove, err := rc.InsertProbe(parent, oracle.Probe{Text: text, Style: ProbeStyle(st)})
	if err != nil {
		return oracle.Rect{}, fmt.Errorf("insert probe: %w", err)
	}
	defer remove()

	r := probe.Rect()
	if r.W < 0 || r.H < 0 {
		return oracle.Rect{}, fmt.Errorf("probe %q: negative size", text)
	}
	return r, nil
}
