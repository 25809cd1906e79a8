package sceneextractor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hellenic-development/scene-extractor/pkg/extractor"
	"github.com/hellenic-development/scene-extractor/pkg/fontinv"
	"github.com/hellenic-development/scene-extractor/pkg/oracle"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
	"github.com/hellenic-development/scene-extractor/pkg/snapshot"
)

// Version is the release of the extractor.
const Version = "0.1.0"

// Defaults applied by Extract to zero-valued options.
const (
	DefaultWidth    = 3840
	DefaultHeight   = 2160
	DefaultFPS      = 30
	DefaultDuration = 10
)

// ErrInvisibleRoot is returned when the root element is hidden or has no
// area. It is the only structural failure of an extraction.
var ErrInvisibleRoot = extractor.ErrInvisibleRoot

// Options configures the extraction. Every field is optional.
type Options struct {
	ArtifactID       string // empty = random UUID
	TargetWidth      int    // target composition width in pixels
	TargetHeight     int    // target composition height in pixels
	FPS              float64
	Duration         float64         // seconds
	ResolutionLabel  string          // empty = derived from the target height
	UseViewportScale bool            // scale from the source viewport instead of the root box
	Motion           json.RawMessage // passed through untouched
	Logger           Logger          // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

// applyDefaults fills the zero-valued settings.
func (o *Options) applyDefaults() {
	if o.TargetWidth <= 0 {
		o.TargetWidth = DefaultWidth
	}
	if o.TargetHeight <= 0 {
		o.TargetHeight = DefaultHeight
	}
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.Duration <= 0 {
		o.Duration = DefaultDuration
	}
	if o.ResolutionLabel == "" {
		o.ResolutionLabel = LabelFor(o.TargetWidth, o.TargetHeight)
	}
}

// Extract builds the scene document of the tree under root.
//
// It waits once for the renderer's fonts, derives the uniform scale that
// fits the source into the target resolution, walks the tree, gathers the
// font inventory and attaches the motion payload as is. The returned
// document holds no references to the source tree and contains only finite
// numbers.
func Extract(ctx context.Context, root oracle.Element, rc oracle.Context, opts Options) (*scene.Document, error) {
	opts.applyDefaults()
	if root == nil {
		return nil, fmt.Errorf("extract: %w", ErrInvisibleRoot)
	}

	opts.logInfo("Waiting for fonts...")
	if err := rc.FontsReady(ctx); err != nil {
		return nil, fmt.Errorf("wait for fonts: %w", err)
	}

	r := root.Rect()
	sw, sh := r.W, r.H
	if opts.UseViewportScale {
		sw, sh = rc.Viewport()
	}
	if sw <= 0 || sh <= 0 {
		return nil, fmt.Errorf("measure <%s>: %w", root.Tag(), ErrInvisibleRoot)
	}
	tw, th := float64(opts.TargetWidth), float64(opts.TargetHeight)
	scale := min(tw/sw, th/sh)
	opts.logInfo("Source %gx%g, target %s (%dx%d), scale %.4g", sw, sh, opts.ResolutionLabel, opts.TargetWidth, opts.TargetHeight, scale)

	var logger extractor.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	}
	b := extractor.New(rc, extractor.Options{Scale: scale, Logger: logger})

	opts.logInfo("Building scene graph...")
	node, err := b.Build(root)
	if err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}

	opts.logInfo("Collecting fonts...")
	fonts := fontinv.Collect(rc.StyleSources(), rc.Markup(), rc.FontFaces(), b.Fonts())
	if len(fonts.Families) == 0 {
		opts.logWarn("No font families found")
	}

	id := opts.ArtifactID
	if id == "" {
		id = uuid.NewString()
	}

	doc := &scene.Document{
		ID:      id,
		Version: scene.FormatVersion,
		Fonts:   fonts,
		Timing: scene.Timing{
			FPS:      opts.FPS,
			Duration: opts.Duration,
			Width:    opts.TargetWidth,
			Height:   opts.TargetHeight,
			Label:    opts.ResolutionLabel,
		},
		Viewport: scene.Viewport{
			TargetWidth:  tw,
			TargetHeight: th,
			SourceWidth:  sw,
			SourceHeight: sh,
			Scale:        scale,
		},
		Root:   node,
		Motion: opts.Motion,
	}
	scene.Sanitize(doc)
	return doc, nil
}

// ExtractSnapshot extracts the root of a recorded rendering. A snapshot
// that carries an ID supplies the artifact ID unless opts sets one.
func ExtractSnapshot(ctx context.Context, snap *snapshot.Snapshot, opts Options) (*scene.Document, error) {
	d, err := snapshot.New(snap)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	if opts.ArtifactID == "" {
		opts.ArtifactID = snap.ID
	}
	return Extract(ctx, d.Root(), d, opts)
}
