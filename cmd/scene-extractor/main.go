package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sceneextractor "github.com/hellenic-development/scene-extractor"
	"github.com/hellenic-development/scene-extractor/pkg/assets"
	"github.com/hellenic-development/scene-extractor/pkg/formatter"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
	"github.com/hellenic-development/scene-extractor/pkg/snapshot"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const version = sceneextractor.Version

// maxParallelJobs bounds how many snapshots are extracted at once.
const maxParallelJobs = 4

var (
	sources       []string
	outputPath    string
	configPath    string
	reportPath    string
	assetsDir     string
	resolution    string
	fps           float64
	duration      float64
	artifactID    string
	viewportScale bool
	motionPath    string
	verbose       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scene-extractor",
		Short: "Extract scene graphs from rendered artifacts",
		Long:  "A tool to turn a recorded rendering of a designed artifact into a layered scene graph for content-creation tools",
		Run:   run,
	}

	rootCmd.Flags().StringArrayVarP(&sources, "snapshot", "s", nil, "Snapshot file or URL (required, repeatable)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "scene.json", "Output JSON file (a directory when several snapshots are given)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Options file (.yaml, .yml or .toml)")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "Also write a markdown report to this file")
	rootCmd.Flags().StringVar(&assetsDir, "assets-dir", "", "Export images, videos and vectors to this directory")
	rootCmd.Flags().StringVarP(&resolution, "resolution", "r", "", "Target resolution, e.g. \"1920x1080\" or \"4K\"")
	rootCmd.Flags().Float64Var(&fps, "fps", 0, "Frame rate of the composition")
	rootCmd.Flags().Float64Var(&duration, "duration", 0, "Duration of the composition in seconds")
	rootCmd.Flags().StringVar(&artifactID, "id", "", "Artifact ID (single snapshot only)")
	rootCmd.Flags().BoolVar(&viewportScale, "viewport-scale", false, "Scale from the source viewport instead of the root box")
	rootCmd.Flags().StringVar(&motionPath, "motion", "", "JSON file attached to the document as motion payload")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.MarkFlagRequired("snapshot")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("scene-extractor version %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newLogger creates the stderr logger. Timestamps are formatted as
// "HH:MM:SS.ms".
func newLogger() *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// job is the extraction of one snapshot.
type job struct {
	source     string
	name       string
	outputPath string
	reportPath string
	assetsDir  string

	doc      *scene.Document
	exported []assets.ExportedAsset
	elapsed  time.Duration
}

func run(cmd *cobra.Command, args []string) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	cyan.Println("\n🎬 Scene Extractor")
	cyan.Println("==================")
	cyan.Println()

	opts, err := buildOptions(cmd)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if artifactID != "" && len(sources) > 1 {
		red.Println("Error: --id can only be used with a single snapshot")
		os.Exit(1)
	}

	jobs, err := planJobs(sources)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger()
	errs, err := runJobs(cmd.Context(), jobs, maxParallelJobs, func(ctx context.Context, j *job) error {
		l := logger
		if len(jobs) > 1 {
			l = logger.With("snapshot", j.name)
		}
		err := j.run(ctx, opts, l)
		if err != nil {
			l.Error("extraction failed", "err", err)
		}
		return err
	})
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	var failed []string
	for i, err := range errs {
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", jobs[i].source, err))
		}
	}

	// Display extracted stats.
	cyan.Println("\n📊 Extraction Summary:")
	for _, j := range jobs {
		if j.doc == nil {
			continue
		}
		printSummary(j)
	}

	if len(failed) > 0 {
		for _, f := range failed {
			red.Printf("✗ %s\n", f)
		}
		os.Exit(1)
	}

	green.Printf("\n✨ Successfully extracted %d scene(s)\n\n", len(jobs))
}

// runJobs runs do for every job with at most limit in flight. A failed job
// does not stop the others: per-job errors are returned in job order, and
// the error return is reserved for cancellation.
func runJobs(ctx context.Context, jobs []*job, limit int, do func(context.Context, *job) error) ([]error, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	errs := make([]error, len(jobs))
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			errs[i] = do(gctx, j)
			return nil
		})
	}
	err := g.Wait()
	return errs, err
}

// buildOptions loads the options file, if any, and applies the flags the
// user set on top of it.
func buildOptions(cmd *cobra.Command) (sceneextractor.Options, error) {
	var opts sceneextractor.Options
	if configPath != "" {
		loaded, err := sceneextractor.LoadOptions(configPath)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("resolution") {
		w, h, err := sceneextractor.ParseResolution(resolution)
		if err != nil {
			return opts, err
		}
		opts.TargetWidth, opts.TargetHeight = w, h
		opts.ResolutionLabel = ""
	}
	if flags.Changed("fps") {
		opts.FPS = fps
	}
	if flags.Changed("duration") {
		opts.Duration = duration
	}
	if flags.Changed("viewport-scale") {
		opts.UseViewportScale = viewportScale
	}
	if artifactID != "" {
		opts.ArtifactID = artifactID
	}
	if motionPath != "" {
		motion, err := sceneextractor.LoadMotion(motionPath)
		if err != nil {
			return opts, err
		}
		opts.Motion = motion
	}
	return opts, nil
}

// planJobs derives the output locations of every source. With a single
// source the paths are used as given; with several, the output path is a
// directory and reports and assets are split per source.
func planJobs(srcs []string) ([]*job, error) {
	multi := len(srcs) > 1
	seen := map[string]bool{}
	jobs := make([]*job, 0, len(srcs))
	for _, src := range srcs {
		name := sourceName(src)
		if seen[name] {
			return nil, fmt.Errorf("two snapshots named %q", name)
		}
		seen[name] = true

		j := &job{source: src, name: name, outputPath: outputPath, reportPath: reportPath, assetsDir: assetsDir}
		if multi {
			j.outputPath = filepath.Join(outputPath, name+".json")
			if reportPath != "" {
				ext := filepath.Ext(reportPath)
				j.reportPath = strings.TrimSuffix(reportPath, ext) + "-" + name + ext
			}
			if assetsDir != "" {
				j.assetsDir = filepath.Join(assetsDir, name)
			}
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// sourceName is the base name of a snapshot file or URL without extension.
func sourceName(src string) string {
	base := src
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	base = filepath.Base(strings.TrimRight(base, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return "scene"
	}
	return base
}

func (j *job) run(ctx context.Context, opts sceneextractor.Options, logger *log.Logger) error {
	start := time.Now()
	opts.Logger = logger

	logger.Info("Loading snapshot", "source", j.source)
	var snap *snapshot.Snapshot
	var err error
	if strings.HasPrefix(j.source, "http://") || strings.HasPrefix(j.source, "https://") {
		snap, err = snapshot.NewClient().Fetch(ctx, j.source)
	} else {
		snap, err = snapshot.Load(j.source)
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	doc, err := sceneextractor.ExtractSnapshot(ctx, snap, opts)
	if err != nil {
		return err
	}

	if j.assetsDir != "" {
		list := assets.Collect(doc)
		logger.Info("Exporting assets", "count", len(list), "dir", j.assetsDir)
		result, err := assets.Export(ctx, list, j.assetsDir)
		if err != nil {
			return fmt.Errorf("export assets: %w", err)
		}
		for _, e := range result.Errors {
			logger.Warn(e.Error())
		}
		j.exported = result.Assets
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	if err := writeFile(j.outputPath, out); err != nil {
		return err
	}
	logger.Debug("Wrote scene", "path", j.outputPath, "bytes", len(out))

	if j.reportPath != "" {
		if err := writeFile(j.reportPath, []byte(formatter.ToMarkdown(doc, j.exported))); err != nil {
			return err
		}
		logger.Debug("Wrote report", "path", j.reportPath)
	}

	j.doc = doc
	j.elapsed = time.Since(start).Round(time.Millisecond)
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func printSummary(j *job) {
	doc := j.doc
	counts := map[scene.Kind]int{}
	scene.Walk(doc.Root, func(n *scene.Node) { counts[n.Kind]++ })

	color.New(color.FgGreen).Printf("\n  %s → %s (%s)\n", j.source, j.outputPath, j.elapsed)
	fmt.Printf("  • Resolution: %dx%d (%s), scale %.4g\n", doc.Timing.Width, doc.Timing.Height, doc.Timing.Label, doc.Viewport.Scale)
	fmt.Printf("  • Nodes: %d groups, %d text, %d images, %d videos, %d vectors\n",
		counts[scene.KindGroup],
		counts[scene.KindText],
		counts[scene.KindImage],
		counts[scene.KindVideo],
		counts[scene.KindVector])
	fmt.Printf("  • Font Families: %d\n", len(doc.Fonts.Families))
	if len(j.exported) > 0 {
		fmt.Printf("  • Exported Assets: %d\n", len(j.exported))
	}
	if j.reportPath != "" {
		fmt.Printf("  • Report: %s\n", j.reportPath)
	}
}
