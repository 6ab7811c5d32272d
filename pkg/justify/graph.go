package justify

import (
	"cmp"
	"slices"

	"github.com/matzehuels/tatweel/pkg/breaks"
)

// Graph holds the feasible lines of one paragraph. Nodes are breakpoint byte
// offsets reachable from Start; an edge exists only for a span that fits.
type Graph struct {
	Start   int
	End     int
	Breaks  []int
	Nodes   map[int]bool
	Edges   map[Span]Line
	Kashida bool
}

// Reachable reports whether some sequence of fitting lines ends at offset.
func (g *Graph) Reachable(offset int) bool { return g.Nodes[offset] }

// Lines returns every edge ordered by start then end offset.
func (g *Graph) Lines() []Line {
	out := make([]Line, 0, len(g.Edges))
	for _, l := range g.Edges {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b Line) int {
		return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(a.End, b.End))
	})
	return out
}

// From returns the edges leaving offset ordered by end offset.
func (g *Graph) From(offset int) []Line {
	var out []Line
	for _, b := range g.Breaks {
		if l, ok := g.Edges[Span{offset, b}]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Build enumerates the lines of paragraph p within text.
//
// Only reachable breakpoints are used as line starts. From each start the scan
// walks forward through later breakpoints: targets whose next character may
// not begin a line are skipped, fitting spans become edges, loose spans are
// passed over, and the first tight span ends the scan because every longer
// span from the same start is tighter still.
func Build(s *Solver, ex *breaks.Extractor, text string, p Span, withKashida bool) *Graph {
	bps := ex.Extract(text[p.Start:p.End])
	for i := range bps {
		bps[i] += p.Start
	}

	g := &Graph{
		Start:   p.Start,
		End:     p.End,
		Breaks:  bps,
		Nodes:   map[int]bool{p.Start: true},
		Edges:   map[Span]Line{},
		Kashida: withKashida,
	}

	for i, from := range bps {
		if !g.Nodes[from] {
			continue
		}
		for _, to := range bps[i+1:] {
			if ex.StartsForbidden(text, to) {
				continue
			}
			span := Span{from, to}
			var r Result
			if withKashida {
				r = s.SolveKashida(text, span)
			} else {
				r = s.Solve(text, span)
			}
			if r.Outcome == TooTight {
				break
			}
			if r.Outcome == Fit {
				g.Nodes[to] = true
				g.Edges[span] = r.Line
			}
		}
	}
	return g
}
