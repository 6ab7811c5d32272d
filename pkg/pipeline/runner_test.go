package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/tatweel/pkg/cache"
	"github.com/matzehuels/tatweel/pkg/errors"
	"github.com/matzehuels/tatweel/pkg/fonts"
	tio "github.com/matzehuels/tatweel/pkg/io"
	"github.com/matzehuels/tatweel/pkg/observability"
)

// wideGoal leaves any short text loose on one line, which is accepted.
const wideGoal = 100000

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRunnerExecute(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	opts := Options{Text: "hello world\n\nsecond paragraph", Goal: wideGoal, Formats: []string{FormatJSON, FormatSVG}}

	result, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Stats.Paragraphs != 2 || result.Stats.Lines != 2 {
		t.Errorf("stats = %+v, want 2 paragraphs of one line", result.Stats)
	}
	if result.CacheInfo.JustifyHit || result.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", result.CacheInfo)
	}
	if result.Document.Font.Name != fonts.DefaultName {
		t.Errorf("font = %q, want bundled font", result.Document.Font.Name)
	}
	if len(result.PageHash) != 64 {
		t.Errorf("PageHash = %q", result.PageHash)
	}

	doc, err := tio.ReadJSON(bytes.NewReader(result.Artifacts[FormatJSON]))
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if doc.Goal != wideGoal || !doc.Page.Paragraphs[1][0].LastLine {
		t.Errorf("json artifact = %+v", doc)
	}
	if !strings.Contains(string(result.Artifacts[FormatSVG]), "second paragraph") {
		t.Error("svg artifact missing text")
	}

	again, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.JustifyHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", again.CacheInfo)
	}
	if again.PageHash != result.PageHash {
		t.Error("cached page differs from the computed one")
	}

	opts.Refresh = true
	fresh, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if fresh.CacheInfo.JustifyHit {
		t.Error("refresh should bypass the page cache")
	}
}

func TestRunnerCacheKeyFollowsSettings(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Text: "hello world", Goal: wideGoal}); err != nil {
		t.Fatal(err)
	}
	result, err := r.Execute(ctx, Options{Text: "hello world", Goal: wideGoal + 1})
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheInfo.JustifyHit {
		t.Error("a different goal must not reuse the cached page")
	}
}

func TestRunnerUnableToLayout(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Execute(context.Background(), Options{Text: "hello world", Goal: 10})
	if !errors.Is(err, errors.ErrCodeUnableToLayout) {
		t.Errorf("Execute error = %v, want UNABLE_TO_LAYOUT", err)
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Execute(context.Background(), Options{Text: "x", Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Execute error = %v, want INVALID_FORMAT", err)
	}
}

func TestRunnerLoadFontOnce(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	a, err := r.LoadFont(ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := r.LoadFont(ctx, Options{})
	if a != b {
		t.Error("font should be parsed once per path")
	}

	if _, err := r.LoadFont(ctx, Options{FontPath: "/nonexistent/font.ttf"}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("LoadFont(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestRunnerGraph(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	f, err := r.LoadFont(ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Text: "one two three four\n\nfive", Goal: wideGoal}

	dot, hit, err := r.GraphWithCacheInfo(ctx, f, opts, GraphOptions{Format: FormatDOT})
	if err != nil {
		t.Fatalf("GraphWithCacheInfo: %v", err)
	}
	if hit || !strings.HasPrefix(string(dot), "digraph G {") {
		t.Errorf("hit=%v dot=%s", hit, dot)
	}
	if _, hit, _ = r.GraphWithCacheInfo(ctx, f, opts, GraphOptions{Format: FormatDOT}); !hit {
		t.Error("second graph request should hit the cache")
	}

	_, _, err = r.GraphWithCacheInfo(ctx, f, opts, GraphOptions{Paragraph: 2, Format: FormatDOT})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("out of range paragraph error = %v, want INVALID_INPUT", err)
	}
	_, _, err = r.GraphWithCacheInfo(ctx, f, opts, GraphOptions{Paragraph: 1, Format: "json"})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("json graph error = %v, want INVALID_FORMAT", err)
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	fonts, justified, rendered atomic.Int32
}

func (h *countingHooks) OnFontLoad(context.Context, string, time.Duration, error) {
	h.fonts.Add(1)
}

func (h *countingHooks) OnJustifyComplete(context.Context, int, time.Duration, error) {
	h.justified.Add(1)
}

func (h *countingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.rendered.Add(1)
}

func TestRunnerHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), Options{Text: "hooked", Goal: wideGoal, Formats: []string{FormatSVG}}); err != nil {
		t.Fatal(err)
	}
	if hooks.fonts.Load() != 1 || hooks.justified.Load() != 1 || hooks.rendered.Load() != 1 {
		t.Errorf("hook calls: font %d, justify %d, render %d",
			hooks.fonts.Load(), hooks.justified.Load(), hooks.rendered.Load())
	}
}
