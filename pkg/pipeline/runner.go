package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartlabels/pkg/cache"
	"github.com/matzehuels/chartlabels/pkg/chart"
	"github.com/matzehuels/chartlabels/pkg/errors"
	"github.com/matzehuels/chartlabels/pkg/geom"
	chartio "github.com/matzehuels/chartlabels/pkg/io"
	"github.com/matzehuels/chartlabels/pkg/labels/layout"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; each run gets
// its own chart and layout engine, so multiple goroutines can share one
// Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Scheduler arms the negotiation timers. Nil uses real timers.
	Scheduler layout.Scheduler
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Load returns the document of a run: opts.Document when set, otherwise
// the file at opts.Path.
func (r *Runner) Load(opts Options) (*chart.Document, error) {
	if opts.Document != nil {
		return opts.Document, nil
	}
	return chartio.Import(opts.Path)
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	doc, err := r.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	hash, err := HashDocument(*doc)
	if err != nil {
		return nil, err
	}
	result := &Result{DocHash: hash, Artifacts: make(map[string][]byte)}

	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, hash, opts); ok {
			r.Logger.Debug("artifacts from cache", "doc", hash[:12], "formats", opts.Formats)
			result.Artifacts = artifacts
			result.CacheHit = true
			return result, nil
		}
	}

	// Stage 1: Layout and negotiation
	layoutStart := time.Now()
	s, err := r.layoutChart(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	placements := chartio.NewPlacements(s.chart, s.entries)
	result.Chart = s.chart
	result.Placements = &placements
	result.Stats.Labels = len(s.entries)
	result.Stats.Hidden = s.hidden()
	result.Stats.Rounds = s.rounds
	result.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Info("laid out labels",
		"labels", result.Stats.Labels,
		"hidden", result.Stats.Hidden,
		"rounds", result.Stats.Rounds,
		"padding", s.chart.Options().Padding,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	for _, format := range opts.Formats {
		data, err := renderFormat(s, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		result.Artifacts[format] = data
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
		}
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// cachedArtifacts returns every requested format from cache, or false when
// any of them is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, hash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)))
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "error", err)
			return nil, false
		}
		if !hit {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

// Lookup lays out the document and returns the placement of the label
// drawn at p, searching from the label drawn last.
func (r *Runner) Lookup(ctx context.Context, opts Options, p geom.Point) (*chartio.Placement, error) {
	l, err := r.Layout(ctx, opts)
	if err != nil {
		return nil, err
	}
	hit := l.Lookup(p)
	if hit == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no label at (%g, %g)", p.X, p.Y)
	}
	return hit, nil
}

// Placements lays out the document without rendering.
func (r *Runner) Placements(ctx context.Context, opts Options) (*chart.Chart, chartio.Placements, error) {
	l, err := r.Layout(ctx, opts)
	if err != nil {
		return nil, chartio.Placements{}, err
	}
	return l.Chart(), l.Placements, nil
}

// Layout lays out the document without rendering and keeps the engine
// state, so the result can be queried many times.
func (r *Runner) Layout(ctx context.Context, opts Options) (*Layout, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	doc, err := r.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	s, err := r.layoutChart(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return &Layout{
		Placements: chartio.NewPlacements(s.chart, s.entries),
		Rounds:     s.rounds,
		s:          s,
	}, nil
}

// Layout is a laid out chart.
type Layout struct {
	Placements chartio.Placements
	Rounds     int

	s *session
}

// Chart returns the laid out chart.
func (l *Layout) Chart() *chart.Chart { return l.s.chart }

// Lookup returns the placement of the label drawn at p, or nil.
func (l *Layout) Lookup(p geom.Point) *chartio.Placement {
	hit := l.s.engine.Lookup(l.s.entries, p)
	if hit == nil {
		return nil
	}
	return l.Placements.Find(hit.Set(), hit.Index())
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

