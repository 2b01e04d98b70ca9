package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ledwall/pkg/cache"
	"github.com/matzehuels/ledwall/pkg/catalog"
	"github.com/matzehuels/ledwall/pkg/errors"
	"github.com/matzehuels/ledwall/pkg/observability"
	"github.com/matzehuels/ledwall/pkg/wall"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, catalog and logger. Each
// call works on its own copy of the catalog, so multiple goroutines can
// safely share one Runner.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Catalog catalog.Catalog
	// TTL overrides the per-kind cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The catalog starts as [catalog.Defaults]; replace Runner.Catalog to use
// a merged user catalog.
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
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Catalog: catalog.Defaults(),
	}
}

// Execute runs the complete compute → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Compute
	computeStart := time.Now()
	res, computeHit, err := r.ComputeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = res
	result.Stats.ComputeTime = time.Since(computeStart)
	result.Stats.TotalModules = res.TotalModules
	result.Stats.Processors = res.ProcessorsNeeded
	result.CacheInfo.ComputeHit = computeHit

	opts.Logger.Info("computed layout",
		"modules", res.TotalModules,
		"processors", res.ProcessorsNeeded,
		"outputs", res.TotalOutputsNeeded,
		"cached", computeHit,
		"duration", result.Stats.ComputeTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, hash, renderHit, err := r.renderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.LayoutHash = hash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Input resolves the catalog IDs of opts against a snapshot of the runner's
// catalog and returns the normalized engine input.
func (r *Runner) Input(opts Options) (wall.Input, error) {
	if err := opts.ValidateForCompute(); err != nil {
		return wall.Input{}, err
	}
	cat := r.snapshot()
	m, err := cat.Module(opts.ModuleID)
	if err != nil {
		return wall.Input{}, err
	}
	p, err := cat.Processor(opts.ProcessorID)
	if err != nil {
		return wall.Input{}, err
	}
	in := wall.Input{
		Module:          m,
		Processor:       p,
		Catalog:         cat.ProcessorList(),
		Mode:            wall.InputMode(opts.Mode),
		Width:           opts.Width,
		Height:          opts.Height,
		Pattern:         wall.WiringPattern(opts.Pattern),
		GroupIndexStart: opts.GroupIndexStart,
	}
	// By-size limits depend on the module, so they are checked here.
	if err := in.CheckSize(); err != nil {
		return wall.Input{}, err
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return wall.Input{}, err
	}
	return in, nil
}

// ComputeWithCacheInfo computes a layout with caching and returns cache hit info.
// In strict mode any capacity warning fails the call with CAPACITY_EXCEEDED,
// whether the layout was computed or read from cache.
func (r *Runner) ComputeWithCacheInfo(ctx context.Context, opts Options) (*wall.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForCompute(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnComputeStart(ctx, opts.ModuleID, opts.ProcessorID)
	start := time.Now()

	res, hit, err := r.compute(ctx, opts)
	if err == nil && opts.Strict && len(res.Warnings) > 0 {
		err = strictError(res)
	}

	total, processors := 0, 0
	if res != nil {
		total, processors = res.TotalModules, res.ProcessorsNeeded
	}
	hooks.OnComputeComplete(ctx, total, processors, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	return res, hit, nil
}

func (r *Runner) compute(ctx context.Context, opts Options) (*wall.Result, bool, error) {
	in, err := r.Input(opts)
	if err != nil {
		return nil, false, err
	}

	// Hash the resolved entries, not just their IDs, so catalog edits
	// invalidate cached layouts.
	inputsHash, err := cache.HashJSON(struct {
		Module    catalog.Module
		Processor catalog.Processor
		Catalog   []catalog.Processor
	}{in.Module, in.Processor, in.Catalog})
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash layout inputs")
	}
	keyOpts := opts.ComputeKeyOpts(inputsHash)
	keyOpts.Width, keyOpts.Height = in.Width, in.Height
	cacheKey := r.Keyer.LayoutKey(keyOpts)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached wall.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, cacheKey)
				return &cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "key", cacheKey, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, cacheKey)
	}

	res := wall.Compute(in)
	for _, w := range res.Warnings {
		opts.Logger.Warn("capacity warning", "warning", w)
	}

	if data, err := json.Marshal(res); err == nil {
		r.store(ctx, opts.Logger, cacheKey, data, cache.TTLLayout)
	}
	return res, false, nil
}

// Compute is a convenience wrapper that calls ComputeWithCacheInfo and discards the cache hit info.
func (r *Runner) Compute(ctx context.Context, opts Options) (*wall.Result, error) {
	res, _, err := r.ComputeWithCacheInfo(ctx, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *wall.Result, opts Options) (map[string][]byte, bool, error) {
	artifacts, _, hit, err := r.renderWithCacheInfo(ctx, res, opts)
	return artifacts, hit, err
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, res *wall.Result, opts Options) (map[string][]byte, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}

	// Compute cache key from layout data
	layoutHash, err := cache.HashJSON(res)
	if err != nil {
		return nil, "", false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	// Serve cached formats and render only the rest
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, cacheKey)
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, cacheKey)
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, layoutHash, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, res, renderOpts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, opts.Logger, cacheKey, data, cache.TTLArtifact)
		artifacts[format] = data
	}

	return artifacts, layoutHash, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *wall.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// snapshot returns a private copy of the catalog for one computation.
func (r *Runner) snapshot() catalog.Catalog {
	if len(r.Catalog.Modules) == 0 && len(r.Catalog.Processors) == 0 {
		return catalog.Defaults()
	}
	return r.Catalog.Clone()
}

// store writes to the cache. Cache failures are logged, never returned:
// a broken cache must not fail a layout.
func (r *Runner) store(ctx context.Context, logger *log.Logger, key string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
