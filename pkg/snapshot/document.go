package snapshot

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/hellenic-development/scene-extractor/pkg/oracle"
)

// ErrNotFound is returned when a snapshot has no root element.
var ErrNotFound = errors.New("snapshot root not found")

// Document serves a Snapshot through the oracle interfaces. It tracks the
// scoped mutations (style overrides and probes) applied to it.
type Document struct {
	snap   *Snapshot
	root   oracle.Element
	ids    map[string]oracle.Element
	active int
}

// New builds the oracle view of s.
func New(s *Snapshot) (*Document, error) {
	if s == nil || s.Root == nil || s.Root.IsText() {
		return nil, ErrNotFound
	}
	d := &Document{snap: s, ids: map[string]oracle.Element{}}
	d.root = d.wrap(s.Root, nil)
	return d, nil
}

// Root returns the root element.
func (d *Document) Root() oracle.Element { return d.root }

// Snapshot returns the underlying recording.
func (d *Document) Snapshot() *Snapshot { return d.snap }

// Pending returns the number of style overrides and probes currently in
// effect. It drops back to zero once every mutation has been reverted.
func (d *Document) Pending() int { return d.active }

func (d *Document) wrap(n *Node, parent *element) oracle.Element {
	e := &element{doc: d, node: n, parent: parent}
	var self oracle.Element = e
	if shapeTags[n.Tag] {
		self = &shapeElement{element: e}
	}
	e.self = self
	if id := n.Attrs["id"]; id != "" {
		if _, dup := d.ids[id]; !dup {
			d.ids[id] = self
		}
	}
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if c.IsText() {
			e.children = append(e.children, &textNode{node: c, parent: e})
			continue
		}
		e.children = append(e.children, d.wrap(c, e))
	}
	return self
}

// FontsReady reports readiness immediately: a recording is taken after
// fonts have loaded.
func (d *Document) FontsReady(ctx context.Context) error {
	return ctx.Err()
}

func (d *Document) FontFaces() []oracle.FontFace { return slices.Clone(d.snap.Fonts) }

func (d *Document) StyleSources() []oracle.StyleSource { return slices.Clone(d.snap.StyleSources) }

func (d *Document) Markup() string { return d.snap.Markup }

func (d *Document) Viewport() (float64, float64) {
	return d.snap.Viewport.Width, d.snap.Viewport.Height
}

func (d *Document) Lookup(id string) (oracle.Element, bool) {
	el, ok := d.ids[id]
	return el, ok
}

// SetStyle overrides one computed property of el until the returned func is
// called. Calling restore more than once has no further effect.
func (d *Document) SetStyle(el oracle.Element, prop, value string) (func(), error) {
	e, err := d.own(el)
	if err != nil {
		return nil, err
	}
	if e.override == nil {
		e.override = map[string]string{}
	}
	prev, had := e.override[prop]
	e.override[prop] = value
	d.active++
	done := false
	return func() {
		if done {
			return
		}
		done = true
		if had {
			e.override[prop] = prev
		} else {
			delete(e.override, prop)
		}
		d.active--
	}, nil
}

// InsertProbe appends a measurement element to parent. Its box is measured
// from the probe text and font; see MeasureText.
func (d *Document) InsertProbe(parent oracle.Element, p oracle.Probe) (oracle.Element, func(), error) {
	pe, err := d.own(parent)
	if err != nil {
		return nil, nil, err
	}
	text := p.Text
	w, h := MeasureText(text, p.Style)
	origin := pe.Rect()
	n := &Node{
		Tag:   "span",
		Style: maps.Clone(p.Style),
		Rect:  oracle.Rect{X: origin.X, Y: origin.Y, W: w, H: h},
	}
	n.Children = []*Node{Txt(text, Run{Start: 0, End: len([]rune(text)), Rects: []oracle.Rect{n.Rect}})}
	probe := &element{doc: d, node: n, parent: pe}
	probe.self = probe
	probe.children = []oracle.Node{&textNode{node: n.Children[0], parent: probe}}
	pe.children = append(pe.children, probe)
	d.active++

	done := false
	return probe, func() {
		if done {
			return
		}
		done = true
		if i := slices.IndexFunc(pe.children, func(c oracle.Node) bool { return c == oracle.Node(probe) }); i >= 0 {
			pe.children = slices.Delete(pe.children, i, i+1)
		}
		d.active--
	}, nil
}

func (d *Document) own(el oracle.Element) (*element, error) {
	b, ok := el.(interface{ base() *element })
	if !ok || b.base().doc != d {
		return nil, fmt.Errorf("element <%s> does not belong to this snapshot", el.Tag())
	}
	return b.base(), nil
}
