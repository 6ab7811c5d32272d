// Package pkg provides the core libraries for tatweel paragraph
// justification.
//
// # Overview
//
// Tatweel fits every line of a paragraph but the last to one goal width. It
// widens or narrows a line by moving variable-font axes and word spacing in
// priority order and, for Arabic script, by inserting kashida (U+0640
// TATWEEL) at calligraphically preferred joins. Candidate lines form a
// breakpoint graph per paragraph; the cheapest path through it is the
// paragraph's layout.
//
// # Architecture
//
// The typical data flow:
//
//	Text + Font + Variations
//	         ↓
//	    [breaks] (legal line-break offsets)
//	         ↓
//	    [justify] solver (fit one span: axis chain, then kashida)
//	         ↓
//	    [justify] graph + path selector (cheapest line sequence)
//	         ↓
//	    [io] JSON lines, [render/svg] preview, [render/graph] debug graph
//
// # Quick Start
//
//	f, _ := fonts.Load("Raqq.ttf")
//	vars, _ := config.Variations(cfg.Font.Variations)
//	j, _ := justify.New(f.Factory(), cfg.GoalWidth(f.Upem()), vars)
//	page, _ := j.Page(ctx, text)
//	for _, l := range page.Lines() {
//	    fmt.Println(l.Shaped(text), l.Variations)
//	}
//
// # Main Packages
//
// ## Layout
//
// [variation] - Justification dimensions: font axes and word spacing, with
// bounds, ideal value and priority.
//
// [shaping] - The shaper capability and its HarfBuzz implementation.
//
// [fonts] - Font loading; one font hands out independent shapers.
//
// [breaks] - Unicode line-break opportunities and characters that may not
// start a line.
//
// [kashida] - Kashida insertion points and insertion.
//
// [justify] - Width-fit solver, breakpoint graph, path selectors and the
// paragraph/page orchestrator.
//
// ## Output
//
// [io] - JSON import/export of justified pages.
//
// [render/svg] - SVG preview; [render] converts SVG to PDF/PNG.
//
// [render/graph] - Breakpoint graph as DOT and Graphviz SVG.
//
// ## Infrastructure
//
// [pipeline] - Font → justify → render with caching, used by the CLI and
// the HTTP API alike.
//
// [cache] - File, Redis and null caches with content-addressed keys.
//
// [config] - TOML configuration.
//
// [store] - Job store for the HTTP API (memory, MongoDB).
//
// [server] - HTTP API.
//
// [observability] - Hooks for metrics and tracing.
//
// [errors] - Coded errors shared by every layer.
//
// # Testing
//
//	go test ./pkg/...                  # All tests
//	go test ./pkg/justify/...          # Specific package
//	go test -run Example ./pkg/...     # Examples only
//
// Redis and MongoDB tests run when TATWEEL_REDIS_ADDR and TATWEEL_MONGO_URI
// are set.
package pkg
