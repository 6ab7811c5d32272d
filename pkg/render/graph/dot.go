package graph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tatweel/pkg/justify"
	"github.com/matzehuels/tatweel/pkg/render"
)

// Options configures graph rendering.
type Options struct {
	// Path is the selected line sequence to highlight.
	Path []justify.Line

	// Cost labels each edge with its cost when set.
	Cost justify.CostPolicy

	// Detailed includes the word before each break in node labels.
	Detailed bool
}

// maxWord caps the word shown in detailed node labels, in runes.
const maxWord = 16

// ToDOT converts g to Graphviz DOT. text is the page g was built from.
func ToDOT(g *justify.Graph, text string, opts Options) string {
	onPath := make(map[justify.Span]bool, len(opts.Path))
	for _, l := range opts.Path {
		onPath[l.Span()] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	if g.Kashida {
		buf.WriteString("  label=\"with kashida\";\n")
	}
	buf.WriteString("\n")

	for _, b := range g.Breaks {
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(b), strings.Join(nodeAttrs(g, text, b, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, l := range g.Lines() {
		attrs := edgeAttrs(l, opts.Cost, onPath[l.Span()])
		fmt.Fprintf(&buf, "  %q -> %q", nodeID(l.Start), nodeID(l.End))
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, " [%s]", strings.Join(attrs, ", "))
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(offset int) string { return strconv.Itoa(offset) }

func nodeAttrs(g *justify.Graph, text string, b int, detailed bool) []string {
	label := nodeID(b)
	if detailed && b > g.Start {
		label += "\n" + wordBefore(text, g.Start, b)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if b == g.Start || b == g.End {
		attrs = append(attrs, "shape=doublecircle")
	}
	if !g.Reachable(b) {
		attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey", "fontcolor=grey40")
	}
	return attrs
}

func edgeAttrs(l justify.Line, cost justify.CostPolicy, highlight bool) []string {
	var attrs []string
	if cost != nil {
		attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(l.Cost(cost), 'g', 4, 64)))
	}
	if l.Kashidas > 0 {
		attrs = append(attrs, "style=dashed")
	}
	if highlight {
		attrs = append(attrs, "color=red", "penwidth=3")
	}
	return attrs
}

// wordBefore returns the last word of text[start:end], truncated.
func wordBefore(text string, start, end int) string {
	s := strings.TrimSpace(text[start:end])
	if i := strings.LastIndexAny(s, " \t\n"); i >= 0 {
		s = s[i+1:]
	}
	if utf8.RuneCountInString(s) > maxWord {
		s = string([]rune(s)[:maxWord]) + "…"
	}
	return s
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based root element with one
// whose viewBox starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
