package shaping

import (
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/tatweel/pkg/variation"
)

// Option configures a [Face].
type Option func(*Face)

// WithFeatures sets the OpenType features applied to every run.
func WithFeatures(features []Feature) Option {
	return func(f *Face) {
		f.features = f.features[:0]
		for _, ft := range features {
			f.features = append(f.features, shaping.FontFeature{Tag: ot.Tag(ft.Tag.Uint32()), Value: ft.Value})
		}
	}
}

// WithLanguage sets the BCP 47 language passed to the shaper.
func WithLanguage(lang string) Option {
	return func(f *Face) { f.lang = language.NewLanguage(lang) }
}

// Face is a HarfBuzz shaper bound to one go-text font face. It owns the face's
// variation coordinates and is not safe for concurrent use.
type Face struct {
	face     *font.Face
	hb       shaping.HarfbuzzShaper
	features []shaping.FontFeature
	lang     language.Language

	size     fixed.Int26_6
	space    font.GID
	hasSpace bool
}

// NewFace wraps face. The face must not be shared with another Face.
func NewFace(face *font.Face, opts ...Option) *Face {
	f := &Face{
		face: face,
		size: fixed.I(int(face.Upem())),
	}
	f.space, f.hasSpace = face.NominalGlyph(' ')
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Upem returns the font's units per em.
func (f *Face) Upem() int { return int(f.face.Upem()) }

// SpaceAdvance returns the default advance of the space glyph in font units.
func (f *Face) SpaceAdvance() (int, bool) {
	if !f.hasSpace {
		return 0, false
	}
	return int(f.face.HorizontalAdvance(f.space)), true
}

// Shape applies the axis values in vars to the face and shapes text at a
// size of one em, so advances come back in font units.
func (f *Face) Shape(text string, vars []variation.Variation) []Glyph {
	f.applyAxes(vars)

	runes := []rune(text)
	script := dominantScript(runes)
	out := f.hb.Shape(shaping.Input{
		Text:         runes,
		RunStart:     0,
		RunEnd:       len(runes),
		Direction:    direction(script),
		Face:         f.face,
		FontFeatures: f.features,
		Size:         f.size,
		Script:       script,
		Language:     f.lang,
	})

	spacing := 1.0
	if sv, ok := variation.Spacing(vars); ok {
		spacing = sv.Value
	}

	glyphs := make([]Glyph, len(out.Glyphs))
	for i, g := range out.Glyphs {
		adv := int32(g.XAdvance.Round())
		if f.hasSpace && g.GlyphID == f.space && spacing != 1 {
			adv = int32(float64(adv) * spacing)
		}
		glyphs[i] = Glyph{
			ID:       uint32(g.GlyphID),
			Cluster:  g.ClusterIndex,
			XAdvance: adv,
			YAdvance: int32(g.YAdvance.Round()),
			XOffset:  int32(g.XOffset.Round()),
			YOffset:  int32(g.YOffset.Round()),
		}
	}
	return glyphs
}

func (f *Face) applyAxes(vars []variation.Variation) {
	var axes []font.Variation
	for _, v := range vars {
		if v.Kind != variation.KindAxis {
			continue
		}
		axes = append(axes, font.Variation{Tag: ot.Tag(v.Tag.Uint32()), Value: float32(v.Value)})
	}
	f.face.SetVariations(axes)
}

// dominantScript returns the first strong script in runes.
func dominantScript(runes []rune) language.Script {
	for _, r := range runes {
		if s := language.LookupScript(r); s.Strong() {
			return s
		}
	}
	return language.Latin
}

func direction(s language.Script) di.Direction {
	switch s {
	case language.Arabic, language.Hebrew, language.Syriac, language.Thaana, language.Nko:
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// Ensure Face implements Shaper.
var _ Shaper = (*Face)(nil)
