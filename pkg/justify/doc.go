// Package justify lays out paragraphs so that every line matches a goal width
// by moving variable-font axes instead of stretching inter-word space.
//
// # Overview
//
// The engine has four layers, each usable on its own:
//
//   - [Solver] fits one span of text: it bisects each variation in priority
//     order until the shaped width lands within the tolerance band, reporting
//     a tagged [Outcome] ([Fit], [TooTight] or [TooLoose]).
//   - The kashida augmenter wraps the solver for Arabic text, inserting
//     tatweels at located join points and retrying with fewer until one fits.
//   - [Build] enumerates every feasible span between legal breakpoints of a
//     paragraph into a [Graph].
//   - A [PathSelector] picks the cheapest sequence of lines through the graph.
//
// [Justifier] ties them together for a page: it splits the text into
// paragraphs on blank lines, tries each paragraph as one line first, and
// falls back to the graph search, retrying with kashida when the plain search
// finds no path. Any paragraph that cannot be laid out fails the whole page.
//
// # Ownership
//
// A [shaping.Shaper] is stateful, so every search owns its shaper for the
// duration of a call. [Justifier.Page] obtains shapers from a
// [ShaperFactory]: one for the whole page when running sequentially, one per
// paragraph when [Parallel] is set.
//
// # Usage
//
//	j, err := justify.New(font.Factory(), goal, vars,
//	    justify.WithLogger(logger),
//	    justify.WithCost(justify.SquaredCost{}),
//	)
//	if err != nil {
//	    return err
//	}
//	page, err := j.Page(ctx, text)
package justify
