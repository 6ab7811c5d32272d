package graph_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/tatweel/pkg/justify"
	"github.com/matzehuels/tatweel/pkg/render/graph"
)

func ExampleToDOT() {
	text := "hello world!"
	g := &justify.Graph{
		Start:  0,
		End:    12,
		Breaks: []int{0, 6, 12},
		Nodes:  map[int]bool{0: true, 6: true, 12: true},
		Edges: map[justify.Span]justify.Line{
			{Start: 0, End: 6}:  {Start: 0, End: 6},
			{Start: 6, End: 12}: {Start: 6, End: 12},
			{Start: 0, End: 12}: {Start: 0, End: 12},
		},
	}
	path := []justify.Line{{Start: 0, End: 6}, {Start: 6, End: 12}}

	dot := graph.ToDOT(g, text, graph.Options{Path: path})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "0" -> "6" [color=red, penwidth=3];
	// "0" -> "12";
	// "6" -> "12" [color=red, penwidth=3];
}

func ExampleRenderSVG() {
	g := &justify.Graph{
		End:    5,
		Breaks: []int{0, 5},
		Nodes:  map[int]bool{0: true, 5: true},
		Edges:  map[justify.Span]justify.Line{{Start: 0, End: 5}: {Start: 0, End: 5}},
	}
	dot := graph.ToDOT(g, "hello", graph.Options{})

	svg, err := graph.RenderSVG(context.Background(), dot)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Generated SVG (%d bytes)\n", len(svg))
	// Output varies based on Graphviz installation
}
