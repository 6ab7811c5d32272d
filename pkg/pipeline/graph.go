package pipeline

import (
	"context"

	"github.com/matzehuels/tatweel/pkg/errors"
	"github.com/matzehuels/tatweel/pkg/fonts"
	"github.com/matzehuels/tatweel/pkg/justify"
	"github.com/matzehuels/tatweel/pkg/render"
	"github.com/matzehuels/tatweel/pkg/render/graph"
)

// GraphOptions selects the paragraph and output of a graph rendering.
type GraphOptions struct {
	Paragraph int
	Kashida   bool
	Format    string
	Detailed  bool
}

// Graph renders the breakpoint graph of one paragraph of opts.Text. The
// chosen line sequence is highlighted when the paragraph can be laid out; a
// paragraph without one still renders so the dead ends can be inspected.
func Graph(ctx context.Context, f *fonts.Font, opts Options, gopts GraphOptions) ([]byte, error) {
	if err := opts.ValidateForJustify(); err != nil {
		return nil, err
	}
	if gopts.Format == "" {
		gopts.Format = FormatSVG
	}
	if err := ValidateGraphFormat(gopts.Format); err != nil {
		return nil, err
	}

	paras := justify.Paragraphs(opts.Text)
	if gopts.Paragraph < 0 || gopts.Paragraph >= len(paras) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "paragraph %d out of range (text has %d)", gopts.Paragraph, len(paras))
	}
	p := paras[gopts.Paragraph]

	j, err := NewJustifier(f, opts)
	if err != nil {
		return nil, err
	}
	g := j.Graph(opts.Text, p, gopts.Kashida)
	path, err := j.Paragraph(ctx, j.NewShaper(), opts.Text, p)
	if err != nil {
		opts.Logger.Warn("paragraph has no line sequence", "paragraph", gopts.Paragraph, "err", err)
	}

	dot := graph.ToDOT(g, opts.Text, graph.Options{Path: path, Cost: j.Cost(), Detailed: gopts.Detailed})
	switch gopts.Format {
	case render.FormatDOT:
		return []byte(dot), nil
	case render.FormatPNG:
		return graph.RenderPNG(ctx, dot, DefaultPNGScale)
	case render.FormatPDF:
		return graph.RenderPDF(ctx, dot)
	default:
		return graph.RenderSVG(ctx, dot)
	}
}
