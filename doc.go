// Package sceneextractor turns a rendered, styled element tree (a designed
// "artifact") into a portable scene graph that a content-creation tool can
// rebuild as native layers: groups, text, images, videos and vectors with
// their boxes, paint, borders, clips and transforms.
//
// The extractor never computes layout and never rasterizes. Every size,
// position and resolved style value is read from a style and geometry
// oracle (package oracle), so the same pipeline runs against a live
// renderer or against a recorded snapshot (package snapshot). The CLI lives
// in cmd/scene-extractor; this root package exposes the pipeline as a Go
// API.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named sceneextractor:
//
//	import "github.com/hellenic-development/scene-extractor" // package sceneextractor
//
// # Quick start
//
//	snap, err := snapshot.Load("artifact.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := sceneextractor.ExtractSnapshot(ctx, snap, sceneextractor.Options{
//	    TargetWidth:  1920,
//	    TargetHeight: 1080,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, _ := json.MarshalIndent(doc, "", "  ")
//	os.WriteFile("scene.json", out, 0644)
//
// Callers holding their own oracle implementation use [Extract] directly.
//
// # Scale
//
// All linear measurements are multiplied by one uniform factor, the
// largest that fits the source into the target resolution:
// min(targetW/sourceW, targetH/sourceH). The source size is the root
// element's box, or the renderer's viewport when
// [Options.UseViewportScale] is set.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages and soft failures (unresolvable clip references, failed text
// probes). A nil Logger silences all output.
//
//	type myLogger struct{}
//	func (l *myLogger) Infof(f string, a ...any)  { log.Printf("[INFO]  "+f, a...) }
//	func (l *myLogger) Warnf(f string, a ...any)  { log.Printf("[WARN]  "+f, a...) }
//	func (l *myLogger) Errorf(f string, a ...any) { log.Printf("[ERROR] "+f, a...) }
//
// # Options files
//
// [LoadOptions] reads the same settings from a YAML or TOML file:
//
//	resolution: 1080p
//	fps: 60
//	duration: 12.5
//	motion: timeline.json
//
// The motion file is attached to the document verbatim.
package sceneextractor
