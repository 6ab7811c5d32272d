// Package shaping defines the shaping capability the justification engine
// consumes and provides a HarfBuzz implementation backed by go-text.
//
// # Ownership
//
// A [Shaper] carries mutable state: applying variation values is a side
// effect read back by the next call to Shape. A Shaper must therefore be owned
// by one search at a time. Use [fonts.Font.NewShaper] to obtain an
// independent instance per goroutine.
//
// # Units
//
// Advances and offsets are expressed in font design units, so a line width
// is the sum of x-advances and can be compared with a goal width computed
// from the font's units per em.
//
// [fonts.Font.NewShaper]: github.com/matzehuels/tatweel/pkg/fonts.Font.NewShaper
package shaping

import "github.com/matzehuels/tatweel/pkg/variation"

// Glyph is one positioned glyph of a shaped run.
type Glyph struct {
	ID       uint32 `json:"id"`
	Cluster  int    `json:"cluster"`
	XAdvance int32  `json:"x_advance"`
	YAdvance int32  `json:"y_advance"`
	XOffset  int32  `json:"x_offset"`
	YOffset  int32  `json:"y_offset"`
}

// Shaper converts text plus active variation values into glyphs.
//
// Implementations must tolerate repeated calls with different values for the
// same text. Variations of kind spacing scale the space glyph's advance.
type Shaper interface {
	Shape(text string, vars []variation.Variation) []Glyph
}

// Width returns the total horizontal advance of glyphs.
func Width(glyphs []Glyph) int {
	w := 0
	for _, g := range glyphs {
		w += int(g.XAdvance)
	}
	return w
}

// Measure shapes text and returns its width.
func Measure(s Shaper, text string, vars []variation.Variation) int {
	return Width(s.Shape(text, vars))
}
