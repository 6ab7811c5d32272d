package justify

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tatweel/pkg/breaks"
	"github.com/matzehuels/tatweel/pkg/errors"
	"github.com/matzehuels/tatweel/pkg/observability"
	"github.com/matzehuels/tatweel/pkg/shaping"
	"github.com/matzehuels/tatweel/pkg/variation"
)

// ParagraphSeparator splits a page into paragraphs.
const ParagraphSeparator = "\n\n"

// ShaperFactory returns a new shaper that the caller owns exclusively.
type ShaperFactory func() shaping.Shaper

// Option configures a [Justifier].
type Option func(*Justifier)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(j *Justifier) {
		if l != nil {
			j.logger = l
		}
	}
}

// WithCost sets the line cost policy. The default is [PriorityCost].
func WithCost(p CostPolicy) Option {
	return func(j *Justifier) {
		if p != nil {
			j.cost = p
		}
	}
}

// WithSelector sets the path selector. The default is [Dijkstra].
func WithSelector(s PathSelector) Option {
	return func(j *Justifier) {
		if s != nil {
			j.selector = s
		}
	}
}

// WithTolerance sets the accepted distance from the goal width in font
// units.
func WithTolerance(units int) Option {
	return func(j *Justifier) { j.tolerance = units }
}

// WithMaxIterations caps bisection steps per axis.
func WithMaxIterations(n int) Option {
	return func(j *Justifier) { j.maxIterations = n }
}

// WithPerLocation sets the most kashidas placed at one location.
func WithPerLocation(n int) Option {
	return func(j *Justifier) { j.perLocation = n }
}

// WithForbidden replaces the characters that may not start a line.
func WithForbidden(runes ...rune) Option {
	return func(j *Justifier) { j.breakOpts = append(j.breakOpts, breaks.WithForbidden(runes...)) }
}

// Parallel lays out up to n paragraphs concurrently, each with its own
// shaper. Values below 2 keep the page sequential.
func Parallel(n int) Option {
	return func(j *Justifier) { j.parallel = n }
}

// Justifier lays out pages for one font, goal width and variation set. It is
// safe for concurrent use; every call obtains its own shapers.
type Justifier struct {
	newShaper ShaperFactory
	goal      int
	vars      []variation.Variation

	tolerance     int
	maxIterations int
	perLocation   int
	parallel      int
	breakOpts     []breaks.Option

	cost     CostPolicy
	selector PathSelector
	logger   *log.Logger
}

// New returns a justifier targeting goal font units with vars, primary
// variation first.
func New(newShaper ShaperFactory, goal int, vars []variation.Variation, opts ...Option) (*Justifier, error) {
	if newShaper == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "shaper factory is required")
	}
	if err := errors.ValidateGoalWidth(goal); err != nil {
		return nil, err
	}
	if err := variation.ValidateList(vars); err != nil {
		return nil, err
	}

	j := &Justifier{
		newShaper:     newShaper,
		goal:          goal,
		vars:          variation.ResetAll(vars),
		tolerance:     DefaultTolerance,
		maxIterations: DefaultMaxIterations,
		perLocation:   DefaultPerLocation,
		parallel:      1,
		cost:          PriorityCost{},
		selector:      Dijkstra{},
		logger:        log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(j)
	}
	if j.tolerance < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "tolerance must not be negative, got %d", j.tolerance)
	}
	return j, nil
}

// NewShaper returns a fresh shaper from the justifier's factory.
func (j *Justifier) NewShaper() shaping.Shaper { return j.newShaper() }

// Goal returns the goal width in font units.
func (j *Justifier) Goal() int { return j.goal }

// Variations returns a copy of the configured variations.
func (j *Justifier) Variations() []variation.Variation { return variation.ResetAll(j.vars) }

// Cost returns the line cost policy.
func (j *Justifier) Cost() CostPolicy { return j.cost }

// Solver returns a solver bound to s with the justifier's settings.
func (j *Justifier) Solver(s shaping.Shaper) *Solver {
	return &Solver{
		Shaper:        s,
		Goal:          j.goal,
		Tolerance:     j.tolerance,
		MaxIterations: j.maxIterations,
		PerLocation:   j.perLocation,
		Variations:    j.vars,
	}
}

// Extractor returns a breakpoint extractor with the justifier's forbidden
// set.
func (j *Justifier) Extractor() *breaks.Extractor {
	return breaks.New(j.breakOpts...)
}

// Paragraphs splits text on blank lines and returns the byte range of every
// paragraph with surrounding whitespace excluded. Empty paragraphs are
// dropped.
func Paragraphs(text string) []Span {
	var out []Span
	start := 0
	for {
		end := strings.Index(text[start:], ParagraphSeparator)
		if end < 0 {
			end = len(text)
		} else {
			end += start
		}
		if sp, ok := trimSpan(text, Span{start, end}); ok {
			out = append(out, sp)
		}
		if end == len(text) {
			return out
		}
		start = end + len(ParagraphSeparator)
	}
}

func trimSpan(text string, sp Span) (Span, bool) {
	s := text[sp.Start:sp.End]
	trimmed := strings.TrimLeftFunc(s, isSpace)
	sp.Start += len(s) - len(trimmed)
	sp.End = sp.Start + len(strings.TrimRightFunc(trimmed, isSpace))
	return sp, sp.End > sp.Start
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}

// Paragraph lays out the paragraph p of text with s.
//
// The whole paragraph is first tried as one line with kashida allowed. If it
// fits, or is too short to fill the line, that single line is the result.
// Otherwise the breakpoint graph is searched without kashida, then with
// kashida. The final line always has LastLine set.
func (j *Justifier) Paragraph(ctx context.Context, s shaping.Shaper, text string, p Span) ([]Line, error) {
	return j.paragraph(ctx, s, text, -1, p)
}

func (j *Justifier) paragraph(ctx context.Context, s shaping.Shaper, text string, index int, p Span) ([]Line, error) {
	solver := j.Solver(s)

	single := solver.SolveKashida(text, p)
	if single.Outcome != TooTight {
		l := single.Line
		l.LastLine = true
		j.logger.Debug("single line", "start", p.Start, "end", p.End,
			"outcome", single.Outcome, "width", single.Width, "kashidas", l.Kashidas)
		return []Line{l}, nil
	}

	ex := j.Extractor()
	var err error
	for _, withKashida := range []bool{false, true} {
		g := Build(solver, ex, text, p, withKashida)
		observability.Justify().OnGraphBuilt(ctx, index, len(g.Nodes), len(g.Edges), withKashida)
		j.logger.Debug("breakpoint graph", "start", p.Start, "end", p.End,
			"breaks", len(g.Breaks), "nodes", len(g.Nodes), "edges", len(g.Edges), "kashida", withKashida)

		var lines []Line
		lines, err = j.selector.Select(g, j.cost)
		if err == nil {
			lines[len(lines)-1].LastLine = true
			return lines, nil
		}
	}
	return nil, err
}

// Graph builds the breakpoint graph of paragraph p with a fresh shaper.
func (j *Justifier) Graph(text string, p Span, withKashida bool) *Graph {
	return Build(j.Solver(j.newShaper()), j.Extractor(), text, p, withKashida)
}

// Page lays out every paragraph of text. A paragraph that cannot be laid out
// fails the page; no partial result is returned.
//
// ctx is checked between paragraphs only. A single paragraph search always
// terminates because bisection is capped and graph scans stop at the first
// tight span.
func (j *Justifier) Page(ctx context.Context, text string) (*Page, error) {
	paras := Paragraphs(text)
	out := &Page{Paragraphs: make([][]Line, len(paras))}

	j.logger.Debug("justifying page", "paragraphs", len(paras), "goal", j.goal,
		"cost", j.cost.Name(), "selector", j.selector.Name(), "parallel", j.parallel)

	if j.parallel < 2 || len(paras) < 2 {
		s := j.newShaper()
		for i, p := range paras {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			lines, err := j.layout(ctx, s, text, i, p)
			if err != nil {
				return nil, err
			}
			out.Paragraphs[i] = lines
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.parallel)
	for i, p := range paras {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lines, err := j.layout(gctx, j.newShaper(), text, i, p)
			if err != nil {
				return err
			}
			out.Paragraphs[i] = lines
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *Justifier) layout(ctx context.Context, s shaping.Shaper, text string, i int, p Span) ([]Line, error) {
	hooks := observability.Justify()
	hooks.OnParagraphStart(ctx, i, p.Len())
	start := time.Now()

	lines, err := j.paragraph(ctx, s, text, i, p)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeUnableToLayout, err,
			"paragraph %d (bytes %d-%d) cannot be laid out", i, p.Start, p.End)
	}
	hooks.OnParagraphComplete(ctx, i, len(lines), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	j.logger.Debug("paragraph laid out", "index", i, "lines", len(lines), "duration", time.Since(start))
	return lines, nil
}
