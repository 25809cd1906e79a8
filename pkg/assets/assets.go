// Package assets lists the media referenced by a scene document and
// exports it next to the document: inlined vectors are written as SVG
// files, data URLs are decoded and remote images and videos are
// downloaded.
package assets

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hellenic-development/scene-extractor/pkg/scene"
)

const maxParallelDownloads = 5

// Asset is one media reference found in a scene document.
type Asset struct {
	// Path locates the node: child indexes from the root joined by "/".
	// The root itself is "".
	Path string
	Name string
	Kind scene.Kind
	Src  string
	SVG  string
}

// ExportedAsset is an asset written to disk.
type ExportedAsset struct {
	Path     string
	Name     string
	Kind     scene.Kind
	FileName string
	Source   string
}

// ExportResult holds the results of an export.
type ExportResult struct {
	Assets []ExportedAsset
	Errors []error // non-fatal per-asset failures
}

// Collect walks doc and returns its image, video and vector assets in
// document order. Nodes without a source or markup are skipped.
func Collect(doc *scene.Document) []Asset {
	if doc == nil || doc.Root == nil {
		return nil
	}
	var out []Asset
	collect(doc.Root, "", &out)
	return out
}

func collect(n *scene.Node, at string, out *[]Asset) {
	if n.Asset != nil && (n.Asset.Src != "" || n.Asset.SVG != "") {
		*out = append(*out, Asset{
			Path: at,
			Name: n.Name,
			Kind: n.Kind,
			Src:  n.Asset.Src,
			SVG:  n.Asset.SVG,
		})
	}
	for i, c := range n.Children {
		p := strconv.Itoa(i)
		if at != "" {
			p = at + "/" + p
		}
		collect(c, p, out)
	}
}

// Exporter writes assets to a directory.
type Exporter struct {
	Client *http.Client
}

// Export writes list into dir with the default exporter.
func Export(ctx context.Context, list []Asset, dir string) (*ExportResult, error) {
	return (&Exporter{}).Export(ctx, list, dir)
}

// Export creates dir and writes every asset, downloading remote sources
// concurrently. File names derive from the node names and never collide.
// Individual failures are reported in ExportResult.Errors; the error
// return is reserved for a missing output directory and cancellation.
func (e *Exporter) Export(ctx context.Context, list []Asset, dir string) (*ExportResult, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", dir, err)
	}

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}

	// Names are assigned up front so that the result does not depend on
	// download order.
	usedNames := make(map[string]bool)
	names := make([]string, len(list))
	for i, a := range list {
		fileName := buildFileName(a.Name, a.Path, extension(a))
		ext := filepath.Ext(fileName)
		base := strings.TrimSuffix(fileName, ext)
		// A suffixed name may itself belong to a later node ("card-2").
		for n := 2; usedNames[fileName]; n++ {
			fileName = fmt.Sprintf("%s-%d%s", base, n, ext)
		}
		usedNames[fileName] = true
		names[i] = fileName
	}

	result := &ExportResult{Assets: make([]ExportedAsset, 0, len(list))}
	written := make([]bool, len(list))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDownloads)
	for i, a := range list {
		g.Go(func() error {
			destPath := filepath.Join(dir, names[i])
			if err := write(gctx, client, a, destPath); err != nil {
				mu.Lock()
				result.Errors = append(result.Errors, fmt.Errorf("failed to export %s: %w", displayName(a), err))
				mu.Unlock()
				return nil
			}
			written[i] = true
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return result, err
	}

	for i, a := range list {
		if !written[i] {
			continue
		}
		result.Assets = append(result.Assets, ExportedAsset{
			Path:     a.Path,
			Name:     a.Name,
			Kind:     a.Kind,
			FileName: names[i],
			Source:   source(a),
		})
	}
	return result, nil
}

func write(ctx context.Context, client *http.Client, a Asset, destPath string) error {
	switch {
	case a.SVG != "":
		return os.WriteFile(destPath, []byte(a.SVG), 0644)
	case strings.HasPrefix(a.Src, "data:"):
		data, _, err := decodeDataURL(a.Src)
		if err != nil {
			return err
		}
		return os.WriteFile(destPath, data, 0644)
	case strings.HasPrefix(a.Src, "http://"), strings.HasPrefix(a.Src, "https://"):
		return downloadFile(ctx, client, a.Src, destPath)
	}
	return fmt.Errorf("unsupported source %q", a.Src)
}

// downloadFile performs an HTTP GET and saves the response body to destPath.
func downloadFile(ctx context.Context, client *http.Client, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP GET failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d downloading asset", resp.StatusCode)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", destPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("failed to write file %q: %w", destPath, err)
	}

	return nil
}

// decodeDataURL returns the payload and media type of a data: URL.
func decodeDataURL(s string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URL")
	}
	mediaType, _, _ := strings.Cut(meta, ";")
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decode data URL: %w", err)
		}
		return data, mediaType, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URL: %w", err)
	}
	return []byte(text), mediaType, nil
}

// mediaExtensions maps media types to file extensions.
var mediaExtensions = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/avif":    "avif",
	"image/svg+xml": "svg",
	"video/mp4":     "mp4",
	"video/webm":    "webm",
}

// extension picks the file extension of an asset from its markup, media
// type or URL path, falling back to the node kind.
func extension(a Asset) string {
	if a.SVG != "" {
		return "svg"
	}
	if strings.HasPrefix(a.Src, "data:") {
		meta, _, _ := strings.Cut(strings.TrimPrefix(a.Src, "data:"), ",")
		mediaType, _, _ := strings.Cut(meta, ";")
		if ext, ok := mediaExtensions[strings.ToLower(mediaType)]; ok {
			return ext
		}
	} else if u, err := url.Parse(a.Src); err == nil {
		if ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), "."); ext != "" && len(ext) <= 5 {
			return ext
		}
	}
	if a.Kind == scene.KindVideo {
		return "mp4"
	}
	return "png"
}

func source(a Asset) string {
	if a.SVG != "" {
		return "inline"
	}
	if strings.HasPrefix(a.Src, "data:") {
		return "data"
	}
	return a.Src
}

func displayName(a Asset) string {
	if a.Name != "" {
		return a.Name
	}
	return "asset " + a.Path
}

// buildFileName creates a sanitized filename from a node name.
// Uses kebab-case and falls back to the node path if the name is empty.
func buildFileName(nodeName, nodePath, ext string) string {
	name := toKebabCase(nodeName)
	if name == "" {
		name = toKebabCase(strings.ReplaceAll(nodePath, "/", "-"))
	}
	if name == "" {
		name = "asset"
	}
	return fmt.Sprintf("%s.%s", name, ext)
}

// toKebabCase converts a string to kebab-case format (lowercase with hyphens).
func toKebabCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}

	return result.String()
}
