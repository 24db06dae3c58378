package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/uniknow/c4puml/pkg/cache"
	c4errors "github.com/uniknow/c4puml/pkg/errors"
	c4io "github.com/uniknow/c4puml/pkg/io"
	"github.com/uniknow/c4puml/pkg/observability"
	"github.com/uniknow/c4puml/pkg/render/dot"
	"github.com/uniknow/c4puml/pkg/render/plantuml"
	"github.com/uniknow/c4puml/pkg/view"
)

// Runner executes the pipeline against a cache.
//
// A Runner holds no per-run state: each run builds its own exporter, so one
// Runner may serve concurrent runs as long as its Cache is safe for
// concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL overrides TTLDiagrams and TTLArtifact when positive.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// selects the default keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// ExecuteFile runs the pipeline on the workspace file at path.
func (r *Runner) ExecuteFile(ctx context.Context, path string, opts Options) (*Result, error) {
	if err := c4errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	return r.Execute(ctx, data, opts)
}

// Execute runs the pipeline on workspace JSON. The returned error covers
// failures of the run as a whole; per-view failures are reported in
// [Result.ViewErrors].
func (r *Runner) Execute(ctx context.Context, data []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{}

	loadStart := time.Now()
	ws, err := c4io.DecodeWorkspace(data)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.WorkspaceName = ws.Name
	result.WorkspaceHash = cache.Hash(data)
	result.Stats.LoadTime = time.Since(loadStart)

	views, err := SelectViews(ws.Views, opts.Views)
	if err != nil {
		return nil, err
	}
	result.Stats.ViewCount = len(views)
	opts.Logger.Debug("loaded workspace",
		"name", ws.Name,
		"elements", ws.Model.ElementCount(),
		"views", len(views),
		"duration", result.Stats.LoadTime)

	exportStart := time.Now()
	diagrams, viewErrs, hit, err := r.ExportWithCacheInfo(ctx, views, result.WorkspaceHash, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Diagrams = diagrams
	result.ViewErrors = viewErrs
	result.CacheInfo.DiagramsHit = hit
	result.Stats.ExportTime = time.Since(exportStart)
	for _, d := range diagrams {
		result.Stats.FrameCount += len(d.Frames)
	}
	opts.Logger.Info("exported diagrams",
		"diagrams", len(diagrams),
		"frames", result.Stats.FrameCount,
		"failed", len(viewErrs),
		"cached", hit,
		"duration", result.Stats.ExportTime)

	if opts.Wants(FormatDOT) || opts.Wants(FormatSVG) {
		renderStart := time.Now()
		artifacts, hit, err := r.RenderWithCacheInfo(ctx, views, diagrams, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		result.CacheInfo.ArtifactsHit = hit
		result.Stats.RenderTime = time.Since(renderStart)
		opts.Logger.Info("rendered artifacts",
			"artifacts", len(artifacts),
			"formats", opts.Formats,
			"cached", hit,
			"duration", result.Stats.RenderTime)
	}
	return result, nil
}

// SelectViews returns the views named by keys in that order, or every view
// of set when keys is empty.
func SelectViews(set *view.Set, keys []string) ([]*view.View, error) {
	if len(keys) == 0 {
		return set.Views(), nil
	}
	views := make([]*view.View, 0, len(keys))
	for _, key := range keys {
		v, ok := set.View(key)
		if !ok {
			return nil, c4errors.New(c4errors.ErrCodeViewNotFound, "no view with key %q", key)
		}
		views = append(views, v)
	}
	return views, nil
}

// NewExporter builds an exporter configured from opts.
func NewExporter(opts Options) (*plantuml.Exporter, error) {
	exp := plantuml.New(
		plantuml.WithLogger(opts.Logger),
		plantuml.WithLegend(opts.Legend),
		plantuml.WithSequenceDiagrams(opts.Sequence),
	)
	for _, inc := range opts.Includes {
		var err error
		if inc.URL != "" {
			err = exp.AddIncludeURL(inc.URL, inc.Label)
		} else {
			err = exp.AddIncludeFile(inc.File, inc.Label)
		}
		if err != nil {
			return nil, err
		}
	}
	return exp, nil
}

// ExportWithCacheInfo renders views to PlantUML and reports whether the
// diagrams came from the cache. Only complete exports are cached, so a
// failing view is reported again on the next run.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, views []*view.View, workspaceHash string, opts Options) ([]*plantuml.Diagram, []*ViewError, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, false, err
	}

	cacheKey := r.Keyer.DiagramKey(workspaceHash, opts.DiagramKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		} else if hit {
			diagrams, err := c4io.ReadDiagramsJSON(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "diagrams")
				return diagrams, nil, true, nil
			}
			opts.Logger.Debug("discarding unreadable cache entry", "err", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "diagrams")

	exp, err := NewExporter(opts)
	if err != nil {
		return nil, nil, false, err
	}
	hooks := observability.Export()
	start := time.Now()
	hooks.OnExportStart(ctx, len(views))

	var (
		diagrams []*plantuml.Diagram
		viewErrs []*ViewError
	)
	for _, v := range views {
		if err := ctx.Err(); err != nil {
			hooks.OnExportComplete(ctx, len(diagrams), time.Since(start), err)
			return nil, nil, false, err
		}
		viewStart := time.Now()
		d, err := exp.ExportView(v)
		frames := 0
		if d != nil {
			frames = len(d.Frames)
		}
		hooks.OnViewRendered(ctx, v.Key, frames, time.Since(viewStart), err)
		if err != nil {
			opts.Logger.Warn("view failed to render", "key", v.Key, "err", err)
			viewErrs = append(viewErrs, &ViewError{Key: v.Key, Err: err})
			continue
		}
		diagrams = append(diagrams, d)
	}

	exportErr := joinViewErrors(viewErrs)
	hooks.OnExportComplete(ctx, len(diagrams), time.Since(start), exportErr)

	if exportErr == nil {
		var buf bytes.Buffer
		if err := c4io.WriteDiagramsJSON(diagrams, &buf); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), r.ttl(TTLDiagrams)); err != nil {
				opts.Logger.Warn("cache write failed", "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "diagrams", buf.Len())
			}
		}
	}
	return diagrams, viewErrs, false, nil
}

// RenderWithCacheInfo draws the views that have a diagram as DOT and SVG,
// as requested by opts.Formats. It reports whether every SVG came from the
// cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, views []*view.View, diagrams []*plantuml.Diagram, opts Options) ([]Artifact, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	exported := make(map[string]bool, len(diagrams))
	for _, d := range diagrams {
		exported[d.Key] = true
	}

	var (
		artifacts []Artifact
		svgs      int
		hits      int
	)
	for _, v := range views {
		if !exported[v.Key] {
			continue
		}
		src := dot.ToDOT(v, dot.Options{Detailed: opts.Detailed})
		if opts.Wants(FormatDOT) {
			artifacts = append(artifacts, Artifact{Key: v.Key, Format: FormatDOT, Data: []byte(src)})
		}
		if !opts.Wants(FormatSVG) {
			continue
		}

		svgs++
		svg, hit, err := r.renderSVG(ctx, src, opts)
		if err != nil {
			return nil, false, fmt.Errorf("view %s: %w", v.Key, err)
		}
		if hit {
			hits++
		}
		artifacts = append(artifacts, Artifact{Key: v.Key, Format: FormatSVG, Data: svg})
	}
	return artifacts, svgs > 0 && hits == svgs, nil
}

func (r *Runner) renderSVG(ctx context.Context, src string, opts Options) ([]byte, bool, error) {
	cacheKey := r.Keyer.ArtifactKey(cache.Hash([]byte(src)), opts.ArtifactKeyOpts(FormatSVG))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	svg, err := dot.RenderSVG(ctx, src)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, cacheKey, svg, r.ttl(TTLArtifact)); err != nil {
		opts.Logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(svg))
	}
	return svg, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(fallback time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return fallback
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
