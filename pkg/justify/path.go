package justify

import (
	"container/heap"
	"math"
	"strings"

	"seehuhn.de/go/dag"

	"github.com/matzehuels/tatweel/pkg/errors"
)

// PathSelector chooses the sequence of lines from g.Start to g.End with the
// least total cost under policy. It fails with [errors.ErrCodeUnableToLayout]
// when no sequence exists.
type PathSelector interface {
	Name() string
	Select(g *Graph, policy CostPolicy) ([]Line, error)
}

// Selector names accepted by [ParseSelector].
const (
	SelectorDijkstra = "dijkstra"
	SelectorDAG      = "dag"
)

// ParseSelector returns the selector registered under name. The empty string
// selects [Dijkstra].
func ParseSelector(name string) (PathSelector, error) {
	switch strings.ToLower(name) {
	case "", SelectorDijkstra:
		return Dijkstra{}, nil
	case SelectorDAG:
		return DAG{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig,
		"unknown path selector %q (want %s or %s)", name, SelectorDijkstra, SelectorDAG)
}

func noPath(g *Graph) error {
	return errors.New(errors.ErrCodeUnableToLayout,
		"no line sequence covers bytes %d-%d", g.Start, g.End)
}

// =============================================================================
// Dijkstra
// =============================================================================

// Dijkstra runs Dijkstra's algorithm over the breakpoint offsets. Ties are
// broken toward the smaller offset so the result is deterministic.
type Dijkstra struct{}

func (Dijkstra) Name() string { return SelectorDijkstra }

func (Dijkstra) Select(g *Graph, policy CostPolicy) ([]Line, error) {
	if !g.Reachable(g.End) {
		return nil, noPath(g)
	}

	dist := map[int]float64{g.Start: 0}
	prev := map[int]Line{}
	done := map[int]bool{}

	pq := &queue{{offset: g.Start}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(entry)
		if done[cur.offset] {
			continue
		}
		done[cur.offset] = true
		if cur.offset == g.End {
			break
		}
		for _, l := range g.From(cur.offset) {
			d := cur.dist + policy.Cost(l)
			if old, ok := dist[l.End]; ok && d >= old {
				continue
			}
			dist[l.End] = d
			prev[l.End] = l
			heap.Push(pq, entry{offset: l.End, dist: d})
		}
	}

	if !done[g.End] {
		return nil, noPath(g)
	}
	var path []Line
	for at := g.End; at != g.Start; {
		l := prev[at]
		path = append(path, l)
		at = l.Start
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

type entry struct {
	offset int
	dist   float64
}

type queue []entry

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].offset < q[j].offset
}
func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)   { *q = append(*q, x.(entry)) }
func (q *queue) Pop() any {
	old := *q
	e := old[len(old)-1]
	*q = old[:len(old)-1]
	return e
}

// =============================================================================
// DAG
// =============================================================================

// DAG exploits that every edge points forward: vertices are the breakpoint
// indices and the shortest path is found by dynamic programming. Costs are
// scaled by [DAGCostScale] and rounded to integers.
type DAG struct{}

// DAGCostScale is the fixed-point scale applied to line costs by [DAG].
const DAGCostScale = 1000

func (DAG) Name() string { return SelectorDAG }

func (DAG) Select(g *Graph, policy CostPolicy) ([]Line, error) {
	if !g.Reachable(g.End) || len(g.Breaks) < 2 {
		return nil, noPath(g)
	}

	bg := &breakGraph{g: g, policy: policy}
	ee, err := dag.ShortestPath[int, int64](bg, len(g.Breaks)-1)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnableToLayout, err,
			"no line sequence covers bytes %d-%d", g.Start, g.End)
	}

	path := make([]Line, 0, len(ee))
	v := 0
	for _, e := range ee {
		to := bg.To(v, e)
		l, ok := g.Edges[Span{g.Breaks[v], g.Breaks[to]}]
		if !ok {
			return nil, noPath(g)
		}
		path = append(path, l)
		v = to
	}
	if v != len(g.Breaks)-1 {
		return nil, noPath(g)
	}
	return path, nil
}

// breakGraph adapts a Graph to the dag package. An edge value is the index of
// the target breakpoint.
type breakGraph struct {
	g      *Graph
	policy CostPolicy
}

func (b *breakGraph) AppendEdges(ee []int, v int) []int {
	from := b.g.Breaks[v]
	if !b.g.Nodes[from] {
		return ee
	}
	for j := v + 1; j < len(b.g.Breaks); j++ {
		if _, ok := b.g.Edges[Span{from, b.g.Breaks[j]}]; ok {
			ee = append(ee, j)
		}
	}
	return ee
}

func (b *breakGraph) Length(v int, e int) int64 {
	l := b.g.Edges[Span{b.g.Breaks[v], b.g.Breaks[e]}]
	c := math.Round(b.policy.Cost(l) * DAGCostScale)
	limit := int64(math.MaxInt64) / int64(len(b.g.Breaks))
	if c >= float64(limit) {
		return limit
	}
	return int64(c)
}

func (b *breakGraph) To(_ int, e int) int { return e }

// Ensure the selectors implement PathSelector.
var (
	_ PathSelector = Dijkstra{}
	_ PathSelector = DAG{}
)
