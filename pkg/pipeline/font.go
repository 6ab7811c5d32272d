package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/tatweel/pkg/fonts"
	"github.com/matzehuels/tatweel/pkg/observability"
)

// LoadFont reads the font at path, or returns the bundled font when path is
// empty.
func LoadFont(ctx context.Context, path string) (*fonts.Font, error) {
	start := time.Now()
	var (
		f   *fonts.Font
		err error
	)
	name := path
	if path == "" {
		name = fonts.DefaultName
		f, err = fonts.Default()
	} else {
		f, err = fonts.Load(path)
	}
	observability.Pipeline().OnFontLoad(ctx, name, time.Since(start), err)
	return f, err
}

// SpaceAdvance returns the advance of the font's space glyph in font units,
// or zero when it has none.
func SpaceAdvance(f *fonts.Font) int {
	adv, _ := f.NewShaper().SpaceAdvance()
	return adv
}
