package justify

import (
	"strings"

	"github.com/matzehuels/tatweel/pkg/kashida"
	"github.com/matzehuels/tatweel/pkg/shaping"
	"github.com/matzehuels/tatweel/pkg/variation"
)

// Solver defaults.
const (
	DefaultTolerance     = 5
	DefaultMaxIterations = 30
	DefaultPerLocation   = 1
)

// Solver fits spans of one text to a goal width with one shaper. It is not
// safe for concurrent use because the shaper is not.
type Solver struct {
	Shaper shaping.Shaper

	// Goal is the target width in font units.
	Goal int
	// Tolerance is the accepted distance from Goal, inclusive.
	Tolerance int
	// MaxIterations caps bisection steps per axis.
	MaxIterations int
	// PerLocation is the most kashidas placed at any one location.
	PerLocation int
	// Variations are the ordered dimensions to move, primary first. Their
	// current values are ignored; every solve starts from the ideal.
	Variations []variation.Variation

	trials int
}

// Trials returns the number of shaping calls made so far.
func (s *Solver) Trials() int { return s.trials }

func (s *Solver) tolerance() int {
	if s.Tolerance < 0 {
		return 0
	}
	return s.Tolerance
}

func (s *Solver) maxIterations() int {
	if s.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return s.MaxIterations
}

func (s *Solver) perLocation() int {
	if s.PerLocation <= 0 {
		return DefaultPerLocation
	}
	return s.PerLocation
}

func (s *Solver) measure(text string, vars []variation.Variation) int {
	s.trials++
	return shaping.Width(s.Shaper.Shape(text, vars))
}

func (s *Solver) classify(width int) Outcome {
	switch tol := s.tolerance(); {
	case width > s.Goal+tol:
		return TooTight
	case width < s.Goal-tol:
		return TooLoose
	}
	return Fit
}

// Solve fits text[span.Start:span.End] without kashida.
func (s *Solver) Solve(text string, span Span) Result {
	line := strings.TrimSpace(text[span.Start:span.End])
	r := s.chain(line)
	r.Line.Start, r.Line.End = span.Start, span.End
	return r
}

// SolveKashida fits the span, inserting kashidas when the plain text does not
// already fit at the ideal values. Text in scripts without kashida behaves
// exactly as [Solver.Solve].
//
// Counts are tried from the largest (every location filled PerLocation times)
// down to one; the first count that fits wins and the search stops at the
// first count that is too loose. When none fits the plain result is returned
// with no kashidas.
func (s *Solver) SolveKashida(text string, span Span) Result {
	line := strings.TrimSpace(text[span.Start:span.End])

	ideal := variation.ResetAll(s.Variations)
	if w := s.measure(line, ideal); s.classify(w) == Fit {
		return Result{
			Outcome: Fit,
			Line:    Line{Start: span.Start, End: span.End, Variations: ideal},
			Width:   w,
		}
	}

	locs := kashida.Locate(line, kashida.Detect(line))
	for k := len(locs) * s.perLocation(); k > 0; k-- {
		r := s.chain(kashida.Insert(line, locs, k))
		if r.Outcome == Fit {
			r.Line.Start, r.Line.End = span.Start, span.End
			r.Line.Kashidas = k
			return r
		}
		// Fewer kashidas only narrow the line further.
		if r.Outcome == TooLoose {
			break
		}
	}
	return s.Solve(text, span)
}

// chain runs the axis fallback chain over the variations in order. Axis i is
// solved with every earlier axis pinned where it failed and every later axis
// at its ideal. Only the last axis' outcome is final.
func (s *Solver) chain(text string) Result {
	vars := variation.ResetAll(s.Variations)
	if len(vars) == 0 {
		w := s.measure(text, vars)
		return Result{Outcome: s.classify(w), Line: Line{Variations: vars}, Width: w}
	}

	var r Result
	for i := range vars {
		r = s.solveAxis(text, vars, i)
		if r.Outcome == Fit {
			break
		}
	}
	r.Line.Variations = vars
	return r
}

// solveAxis moves vars[i] alone, leaving it at the value of the last trial.
// The width response must be monotonic in the axis value; its direction is
// read from the two extremes, so the narrow end may be Max.
func (s *Solver) solveAxis(text string, vars []variation.Variation, i int) Result {
	v := &vars[i]

	v.Set(v.Min)
	wMin := s.measure(text, vars)
	if s.classify(wMin) == Fit {
		return Result{Outcome: Fit, Width: wMin}
	}
	v.Set(v.Max)
	wMax := s.measure(text, vars)

	narrow, wide := v.Min, v.Max
	wNarrow, wWide := wMin, wMax
	if wMin > wMax {
		narrow, wide = wide, narrow
		wNarrow, wWide = wWide, wNarrow
	}

	switch o := s.classify(wNarrow); {
	case o != TooLoose:
		v.Set(narrow)
		return Result{Outcome: o, Width: wNarrow}
	case s.classify(wWide) != TooTight:
		v.Set(wide)
		return Result{Outcome: s.classify(wWide), Width: wWide}
	}

	w, prev := 0, -1
	for range s.maxIterations() {
		mid := (narrow + wide) / 2
		v.Set(mid)
		w = s.measure(text, vars)
		switch s.classify(w) {
		case Fit:
			return Result{Outcome: Fit, Width: w}
		case TooTight:
			wide = mid
		case TooLoose:
			narrow = mid
		}
		if w == prev {
			break
		}
		prev = w
	}
	return Result{Outcome: Fit, Width: w, BestEffort: true}
}
