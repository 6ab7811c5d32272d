package justify

import (
	"math"

	"github.com/matzehuels/tatweel/pkg/kashida"
	"github.com/matzehuels/tatweel/pkg/shaping"
	"github.com/matzehuels/tatweel/pkg/variation"
)

// Advances of the stretch shaper, in font units.
const (
	letterMin      = 100 // a letter at axis value 0; each axis unit adds one
	spaceAdvance   = 50  // a space at spacing 1.0
	tatweelAdvance = 150
)

// stretchShaper is a deterministic stand-in for a variable font: every
// letter is letterMin plus the axis value wide and the space scales with the
// spacing variation. Advances are rounded cumulatively so the total width is
// continuous in the axis value.
type stretchShaper struct {
	calls int
}

func (f *stretchShaper) Shape(text string, vars []variation.Variation) []shaping.Glyph {
	f.calls++
	letter, space := float64(letterMin), float64(spaceAdvance)
	for _, v := range vars {
		switch v.Kind {
		case variation.KindAxis:
			letter = letterMin + v.Value
		case variation.KindSpacing:
			space = spaceAdvance * v.Value
		}
	}

	var glyphs []shaping.Glyph
	pos, prev := 0.0, 0
	for i, r := range text {
		adv := letter
		switch r {
		case ' ':
			adv = space
		case kashida.Tatweel:
			adv = tatweelAdvance
		}
		pos += adv
		x := int(math.Round(pos))
		glyphs = append(glyphs, shaping.Glyph{ID: uint32(r), Cluster: i, XAdvance: int32(x - prev)})
		prev = x
	}
	return glyphs
}

func newStretchShaper() shaping.Shaper { return &stretchShaper{} }

// funcShaper returns one glyph whose advance is computed from the first
// variation's value.
type funcShaper func(v float64) int

func (f funcShaper) Shape(_ string, vars []variation.Variation) []shaping.Glyph {
	return []shaping.Glyph{{XAdvance: int32(f(vars[0].Value))}}
}

func wdth() variation.Variation {
	return variation.NewAxis(variation.MustParseTag("wdth"), 0, 100, 50)
}

// Ensure the fakes implement Shaper.
var (
	_ shaping.Shaper = (*stretchShaper)(nil)
	_ shaping.Shaper = funcShaper(nil)
)
