package sceneextractor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// OptionsFile is the on-disk form of Options, read by LoadOptions from YAML
// or TOML.
type OptionsFile struct {
	ArtifactID    string  `yaml:"artifactId" toml:"artifact_id"`
	Resolution    string  `yaml:"resolution" toml:"resolution"` // "1920x1080" or a label such as "4K"
	Width         int     `yaml:"width" toml:"width"`
	Height        int     `yaml:"height" toml:"height"`
	FPS           float64 `yaml:"fps" toml:"fps"`
	Duration      float64 `yaml:"duration" toml:"duration"`
	Label         string  `yaml:"label" toml:"label"`
	ViewportScale bool    `yaml:"viewportScale" toml:"viewport_scale"`
	// Motion names a JSON file holding the motion payload, relative to the
	// options file.
	Motion string `yaml:"motion" toml:"motion"`
}

// LoadOptions reads an options file. The format is chosen by extension:
// .yaml and .yml for YAML, .toml for TOML. The returned Options have no
// Logger.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read options: %w", err)
	}

	var f OptionsFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".toml":
		err = toml.Unmarshal(data, &f)
	default:
		return Options{}, fmt.Errorf("options file %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return Options{}, fmt.Errorf("decode options %s: %w", path, err)
	}

	return f.Options(filepath.Dir(path))
}

// Options converts f. dir resolves a relative motion file.
func (f OptionsFile) Options(dir string) (Options, error) {
	opts := Options{
		ArtifactID:       f.ArtifactID,
		TargetWidth:      f.Width,
		TargetHeight:     f.Height,
		FPS:              f.FPS,
		Duration:         f.Duration,
		ResolutionLabel:  f.Label,
		UseViewportScale: f.ViewportScale,
	}

	if f.Resolution != "" {
		w, h, err := ParseResolution(f.Resolution)
		if err != nil {
			return Options{}, err
		}
		opts.TargetWidth, opts.TargetHeight = w, h
	}

	if f.Motion != "" {
		p := f.Motion
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		motion, err := LoadMotion(p)
		if err != nil {
			return Options{}, err
		}
		opts.Motion = motion
	}

	return opts, nil
}

// LoadMotion reads a motion payload. The content must be valid JSON; it is
// otherwise passed through untouched.
func LoadMotion(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read motion: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("motion file %s is not valid JSON", path)
	}
	return json.RawMessage(data), nil
}

// namedResolutions maps the labels accepted by ParseResolution.
var namedResolutions = map[string][2]int{
	"4k":    {3840, 2160},
	"2160p": {3840, 2160},
	"1440p": {2560, 1440},
	"1080p": {1920, 1080},
	"720p":  {1280, 720},
}

// ParseResolution parses "WIDTHxHEIGHT" (e.g. "1920x1080") or one of the
// labels 4K, 2160p, 1440p, 1080p and 720p.
func ParseResolution(s string) (int, int, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if r, ok := namedResolutions[trimmed]; ok {
		return r[0], r[1], nil
	}

	ws, hs, ok := strings.Cut(trimmed, "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid resolution %q (want WIDTHxHEIGHT)", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution width %q: %w", ws, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution height %q: %w", hs, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("resolution must be positive, got %dx%d", w, h)
	}
	return w, h, nil
}

// LabelFor names a target resolution after its height: 2160 is "4K", 1440,
// 1080 and 720 get a "p" suffix, anything else is "WIDTHxHEIGHT".
func LabelFor(width, height int) string {
	switch height {
	case 2160:
		return "4K"
	case 1440, 1080, 720:
		return strconv.Itoa(height) + "p"
	}
	return fmt.Sprintf("%dx%d", width, height)
}
