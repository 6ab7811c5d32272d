package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tatweel/pkg/cache"
	"github.com/matzehuels/tatweel/pkg/fonts"
	tio "github.com/matzehuels/tatweel/pkg/io"
	"github.com/matzehuels/tatweel/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it so the caching rules live in one place.
//
// The Runner keeps no results besides parsed fonts, which are immutable.
// Multiple goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the expiry of cached pages and artifacts when positive.
	TTL time.Duration

	fonts sync.Map // path -> *fonts.Font
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

// Execute runs the complete font → justify → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Font
	fontStart := time.Now()
	f, err := r.LoadFont(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	result.Stats.FontTime = time.Since(fontStart)

	// Stage 2: Justify
	justifyStart := time.Now()
	doc, justifyHit, err := r.JustifyWithCacheInfo(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("justify: %w", err)
	}
	result.Document = doc
	result.Stats.JustifyTime = time.Since(justifyStart)
	result.Stats.Paragraphs = len(doc.Page.Paragraphs)
	result.Stats.Lines = len(doc.Page.Lines())
	result.Stats.Kashidas = doc.Page.Kashidas()
	result.CacheInfo.JustifyHit = justifyHit

	if data, err := tio.Marshal(doc); err == nil {
		result.PageHash = cache.Hash(data)
	}

	r.Logger.Info("justified text",
		"paragraphs", result.Stats.Paragraphs,
		"lines", result.Stats.Lines,
		"kashidas", result.Stats.Kashidas,
		"goal", doc.Goal,
		"duration", result.Stats.JustifyTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, f, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadFont returns the font named by opts, parsing each path once per
// runner.
func (r *Runner) LoadFont(ctx context.Context, opts Options) (*fonts.Font, error) {
	if f, ok := r.fonts.Load(opts.FontPath); ok {
		return f.(*fonts.Font), nil
	}
	f, err := LoadFont(ctx, opts.FontPath)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded font", "name", f.Name(), "upem", f.Upem())
	actual, _ := r.fonts.LoadOrStore(opts.FontPath, f)
	return actual.(*fonts.Font), nil
}

// JustifyWithCacheInfo justifies opts.Text with caching and returns cache
// hit info.
func (r *Runner) JustifyWithCacheInfo(ctx context.Context, f *fonts.Font, opts Options) (*tio.Document, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForJustify(); err != nil {
		return nil, false, err
	}

	textHash := cache.Hash([]byte(opts.Text))
	cacheKey := r.Keyer.PageKey(textHash, opts.PageKeyOpts(f.Hash(), f.Upem()))
	hooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			doc, err := tio.Unmarshal(data)
			if err == nil && doc.Text == opts.Text {
				hooks.OnCacheHit(ctx, "page")
				return doc, true, nil
			}
		}
		hooks.OnCacheMiss(ctx, "page")
	}

	doc, err := Justify(ctx, f, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := tio.Marshal(doc); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLPage)); err != nil {
			r.Logger.Warn("cache write failed", "key", "page", "err", err)
		} else {
			hooks.OnCacheSet(ctx, "page", len(data))
		}
	}
	return doc, false, nil
}

// Justify is a convenience wrapper that calls JustifyWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Justify(ctx context.Context, f *fonts.Font, opts Options) (*tio.Document, error) {
	doc, _, err := r.JustifyWithCacheInfo(ctx, f, opts)
	return doc, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. JSON output is cheap and never cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *tio.Document, f *fonts.Font, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	data, err := tio.Marshal(doc)
	if err != nil {
		return nil, false, fmt.Errorf("serialize page for cache key: %w", err)
	}
	pageHash := cache.Hash(data)
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if format == FormatJSON {
			artifacts[format] = data
			continue
		}
		cacheKey := r.Keyer.ArtifactKey(pageHash, opts.ArtifactKeyOpts(format))
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			hooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = cached
			continue
		}
		hooks.OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, doc, f, renderOpts)
	if err != nil {
		return nil, false, err
	}

	for format, out := range rendered {
		artifacts[format] = out
		cacheKey := r.Keyer.ArtifactKey(pageHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, out, r.ttl(cache.TTLArtifact)); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(out))
		}
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc *tio.Document, f *fonts.Font, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, f, opts)
	return artifacts, err
}

// GraphWithCacheInfo renders a paragraph's breakpoint graph with caching.
func (r *Runner) GraphWithCacheInfo(ctx context.Context, f *fonts.Font, opts Options, gopts GraphOptions) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForJustify(); err != nil {
		return nil, false, err
	}
	if gopts.Format == "" {
		gopts.Format = FormatSVG
	}

	pageKey := r.Keyer.PageKey(cache.Hash([]byte(opts.Text)), opts.PageKeyOpts(f.Hash(), f.Upem()))
	cacheKey := r.Keyer.GraphKey(pageKey, cache.GraphKeyOpts{
		Paragraph: gopts.Paragraph,
		Kashida:   gopts.Kashida,
		Format:    gopts.Format,
		Detailed:  gopts.Detailed,
	})
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			hooks.OnCacheHit(ctx, "graph")
			return data, true, nil
		}
		hooks.OnCacheMiss(ctx, "graph")
	}

	data, err := Graph(ctx, f, opts, gopts)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLGraph); err == nil {
		hooks.OnCacheSet(ctx, "graph", len(data))
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
