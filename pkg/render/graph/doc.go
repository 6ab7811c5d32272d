// Package graph renders a paragraph's breakpoint graph with Graphviz.
//
// # Overview
//
// Nodes are breakpoint offsets and edges are the spans that fit the goal
// width. Reachable nodes are drawn solid, unreachable ones dashed and grey.
// When the chosen line sequence is passed in [Options], its edges are drawn
// thick and red.
//
// # Usage
//
//	g := j.Graph(text, span, false)
//	dot := graph.ToDOT(g, text, graph.Options{Path: lines, Cost: j.Cost()})
//	svg, err := graph.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := graph.RenderPDF(ctx, dot)
//	png, err := graph.RenderPNG(ctx, dot, 2.0)
//
// # Options
//
//   - Path: lines to highlight
//   - Cost: when set, edges are labelled with their cost
//   - Detailed: when true, node labels include the word ending at the break
//
// The DOT source can also be written out directly and rendered with the
// dot command-line tool.
package graph
