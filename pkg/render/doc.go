// Package render turns justified pages and breakpoint graphs into images.
//
// # Overview
//
//   - Page previews (in the [svg] subpackage)
//   - Breakpoint graph diagrams (in the [graph] subpackage)
//   - Generic format conversion from SVG to PDF or PNG
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). Both subpackages build on them.
//
//	doc := svg.RenderSVG(d, svg.WithFontSize(80, 1.25))
//	pdf, err := render.ToPDF(ctx, doc)
//	png, err := render.ToPNG(ctx, doc, 2.0) // 2x scale
//
// # Page Previews
//
// The preview draws every line as SVG text with its settled variation
// coordinates in font-variation-settings. Glyph drawing is left to the
// viewer's font engine, so an embedded or installed copy of the font must
// support the same axes.
//
// # Graph Diagrams
//
// The graph subpackage writes a paragraph's breakpoint graph as DOT, with
// the chosen path highlighted, and lays it out with Graphviz.
//
//	dot := graph.ToDOT(g, text, graph.Options{Path: lines})
//	out, err := graph.RenderSVG(ctx, dot)
//
// [svg]: github.com/matzehuels/tatweel/pkg/render/svg
// [graph]: github.com/matzehuels/tatweel/pkg/render/graph
package render
