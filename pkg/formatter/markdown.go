// Package formatter renders human-readable reports of scene documents.
package formatter

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hellenic-development/scene-extractor/pkg/assets"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
)

// ToMarkdown transforms a scene document into a markdown report.
// The output covers the composition settings, the viewport mapping, the font
// inventory, node statistics and an indented outline of the scene graph,
// followed by the exported assets when there are any.
func ToMarkdown(doc *scene.Document, exported []assets.ExportedAsset) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Scene Report - %s\n\n", doc.ID))
	sb.WriteString("This document summarizes the scene graph extracted from the artifact.\n\n")

	// Composition
	sb.WriteString("## Composition\n\n")
	sb.WriteString(fmt.Sprintf("- **Resolution**: %dx%d (%s)\n", doc.Timing.Width, doc.Timing.Height, doc.Timing.Label))
	sb.WriteString(fmt.Sprintf("- **Frame Rate**: %g fps\n", doc.Timing.FPS))
	sb.WriteString(fmt.Sprintf("- **Duration**: %gs\n", doc.Timing.Duration))
	sb.WriteString(fmt.Sprintf("- **Format Version**: %s\n", doc.Version))
	if len(doc.Motion) > 0 {
		sb.WriteString(fmt.Sprintf("- **Motion Payload**: %d bytes\n", len(doc.Motion)))
	}
	sb.WriteString("\n")

	// Viewport
	vp := doc.Viewport
	sb.WriteString("## Viewport\n\n")
	sb.WriteString("| Source | Target | Scale |\n")
	sb.WriteString("|--------|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| %.0fx%.0f | %.0fx%.0f | %.4g |\n\n", vp.SourceWidth, vp.SourceHeight, vp.TargetWidth, vp.TargetHeight, vp.Scale))

	// Fonts
	if len(doc.Fonts.Families) > 0 || len(doc.Fonts.URLs) > 0 {
		sb.WriteString("## Fonts\n\n")
		for _, family := range slices.Sorted(maps.Keys(doc.Fonts.Families)) {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", family, strings.Join(doc.Fonts.Families[family], ", ")))
		}
		if len(doc.Fonts.URLs) > 0 {
			sb.WriteString("\n### Resources\n\n")
			for _, u := range doc.Fonts.URLs {
				sb.WriteString(fmt.Sprintf("- `%s`\n", u))
			}
		}
		sb.WriteString("\n")
	}

	// Statistics
	counts := map[scene.Kind]int{}
	scene.Walk(doc.Root, func(n *scene.Node) { counts[n.Kind]++ })
	sb.WriteString("## Nodes\n\n")
	sb.WriteString("| Kind | Count |\n")
	sb.WriteString("|------|-------|\n")
	for _, k := range []scene.Kind{scene.KindGroup, scene.KindText, scene.KindImage, scene.KindVideo, scene.KindVector} {
		if counts[k] > 0 {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", k, counts[k]))
		}
	}
	sb.WriteString("\n")

	// Outline
	if doc.Root != nil {
		sb.WriteString("## Scene Graph\n\n")
		writeOutline(&sb, doc.Root, 0)
		sb.WriteString("\n")
	}

	// Exported Assets
	if len(exported) > 0 {
		sb.WriteString("## Exported Assets\n\n")
		sb.WriteString("| Asset | Kind | File | Source |\n")
		sb.WriteString("|-------|------|------|--------|\n")
		for _, asset := range exported {
			name := asset.Name
			if name == "" {
				name = asset.FileName
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | `%s` | %s |\n", name, asset.Kind, asset.FileName, asset.Source))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// writeOutline writes one bullet per node: kind, name, box and the flags an
// importer acts on.
func writeOutline(sb *strings.Builder, n *scene.Node, depth int) {
	b := n.BBox
	sb.WriteString(fmt.Sprintf("%s- **%s** %s `%.0f,%.0f %.0fx%.0f`", strings.Repeat("  ", depth), n.Kind, escape(n.Name), b.X, b.Y, b.W, b.H))
	if flags := nodeFlags(n); len(flags) > 0 {
		sb.WriteString(" _" + strings.Join(flags, ", ") + "_")
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		writeOutline(sb, c, depth+1)
	}
}

func nodeFlags(n *scene.Node) []string {
	var flags []string
	if n.Hints.Layer != "" {
		flags = append(flags, string(n.Hints.Layer))
	}
	if n.Hints.Isolate {
		flags = append(flags, "isolated")
	}
	if n.Clip != nil && n.Clip.Enabled {
		flags = append(flags, "clipped")
	}
	if n.Hints.Mask {
		flags = append(flags, "masked")
	}
	if n.Hints.Hidden {
		flags = append(flags, "hidden")
	}
	if t := n.Style.Transform; t != nil && t.Rotation != 0 {
		flags = append(flags, fmt.Sprintf("rotated %g°", t.Rotation))
	}
	if n.Style.Opacity < 1 {
		flags = append(flags, fmt.Sprintf("opacity %g", n.Style.Opacity))
	}
	if n.Text != nil && len(n.Text.Lines) > 1 {
		flags = append(flags, fmt.Sprintf("%d lines", len(n.Text.Lines)))
	}
	return flags
}

// escape keeps node names from breaking the markdown structure.
func escape(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`", "|", `\|`).Replace(s)
}
