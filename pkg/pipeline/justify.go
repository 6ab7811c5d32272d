package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/tatweel/pkg/config"
	"github.com/matzehuels/tatweel/pkg/fonts"
	tio "github.com/matzehuels/tatweel/pkg/io"
	"github.com/matzehuels/tatweel/pkg/justify"
	"github.com/matzehuels/tatweel/pkg/observability"
	"github.com/matzehuels/tatweel/pkg/shaping"
)

// NewJustifier builds a justifier for f from opts. Options must already have
// their justify defaults set.
func NewJustifier(f *fonts.Font, opts Options) (*justify.Justifier, error) {
	features, err := shaping.ParseFeatures(opts.Features)
	if err != nil {
		return nil, err
	}
	vars, err := config.Variations(opts.Variations)
	if err != nil {
		return nil, err
	}
	cost, err := justify.ParseCostPolicy(opts.Cost)
	if err != nil {
		return nil, err
	}
	selector, err := justify.ParseSelector(opts.Selector)
	if err != nil {
		return nil, err
	}

	return justify.New(f.Factory(shaping.WithFeatures(features)), opts.GoalWidth(f.Upem()), vars,
		justify.WithLogger(opts.Logger),
		justify.WithCost(cost),
		justify.WithSelector(selector),
		justify.WithTolerance(opts.Tolerance),
		justify.WithMaxIterations(opts.MaxIterations),
		justify.WithPerLocation(opts.PerLocation),
		justify.Parallel(opts.Parallel),
	)
}

// Justify lays out opts.Text with f and returns the page as a document.
func Justify(ctx context.Context, f *fonts.Font, opts Options) (*tio.Document, error) {
	if err := opts.ValidateForJustify(); err != nil {
		return nil, err
	}
	j, err := NewJustifier(f, opts)
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnJustifyStart(ctx, len(justify.Paragraphs(opts.Text)))
	start := time.Now()

	page, err := j.Page(ctx, opts.Text)

	lines := 0
	if page != nil {
		lines = len(page.Lines())
	}
	hooks.OnJustifyComplete(ctx, lines, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return &tio.Document{
		Font: tio.FontInfo{Name: f.Name(), Hash: f.Hash(), Upem: f.Upem()},
		Goal: j.Goal(),
		Text: opts.Text,
		Page: page,
	}, nil
}
