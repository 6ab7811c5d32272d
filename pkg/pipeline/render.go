package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/matzehuels/tatweel/pkg/fonts"
	tio "github.com/matzehuels/tatweel/pkg/io"
	"github.com/matzehuels/tatweel/pkg/observability"
	"github.com/matzehuels/tatweel/pkg/render/svg"
)

// Render generates output artifacts in the requested formats. f supplies the
// space advance and, with EmbedFont, the embedded font data; it may be nil.
func Render(ctx context.Context, doc *tio.Document, f *fonts.Font, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFormats(ctx, doc, f, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(ctx context.Context, doc *tio.Document, f *fonts.Font, opts Options) (map[string][]byte, error) {
	svgOpts := svgOptions(f, opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = tio.Marshal(doc)
		case FormatSVG:
			data = svg.RenderSVG(doc, svgOpts...)
		case FormatPNG:
			data, err = svg.RenderPNG(ctx, doc, DefaultPNGScale, svgOpts...)
		case FormatPDF:
			data, err = svg.RenderPDF(ctx, doc, svgOpts...)
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func svgOptions(f *fonts.Font, opts Options) []svg.SVGOption {
	out := []svg.SVGOption{
		svg.WithGeometry(opts.Width, opts.Margin),
		svg.WithFontSize(opts.FontSize, opts.LineHeight),
		svg.WithColors(opts.TextColor, opts.BgColor),
	}
	if f == nil {
		return out
	}
	out = append(out, svg.WithSpaceAdvance(SpaceAdvance(f)))
	if opts.EmbedFont {
		out = append(out, svg.WithFont(svg.FontFamily, f.Data()))
	} else {
		out = append(out, svg.WithFont(familyName(f), nil))
	}
	return out
}

// familyName guesses a CSS family from the font's file name.
func familyName(f *fonts.Font) string {
	name := filepath.Base(f.Name())
	return name[:len(name)-len(filepath.Ext(name))]
}
