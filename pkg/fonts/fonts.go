// Package fonts loads font files and hands out independent shapers.
//
// A parsed [Font] is immutable and safe for concurrent use. Each call to
// [Font.NewShaper] wraps it in a fresh go-text face with its own variation
// coordinates, which is what lets paragraphs be justified in parallel.
//
// The Go Regular font from golang.org/x/image is bundled as a fallback so the
// CLI and tests work without a font file. It has no variation axes; only the
// spacing variation has an effect with it.
package fonts

import (
	"bytes"
	"os"
	"sync"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/tatweel/pkg/cache"
	"github.com/matzehuels/tatweel/pkg/errors"
	"github.com/matzehuels/tatweel/pkg/shaping"
)

// DefaultName identifies the bundled fallback font.
const DefaultName = "Go Regular"

// Font is a parsed font file.
type Font struct {
	name string
	hash string
	data []byte
	font *font.Font
}

// Load reads and parses the font file at path.
func Load(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "font %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeFontLoad, err, "read font %s", path)
	}
	return Parse(path, data)
}

// Parse parses font data. name is used for display only.
func Parse(name string, data []byte) (*Font, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontLoad, err, "parse font %s", name)
	}
	return &Font{name: name, hash: cache.Hash(data), data: data, font: face.Font}, nil
}

var (
	defaultFont     *Font
	defaultFontErr  error
	defaultFontOnce sync.Once
)

// Default returns the bundled fallback font. The result is parsed once.
func Default() (*Font, error) {
	defaultFontOnce.Do(func() {
		defaultFont, defaultFontErr = Parse(DefaultName, goregular.TTF)
	})
	return defaultFont, defaultFontErr
}

// Name returns the display name given at load time.
func (f *Font) Name() string { return f.name }

// Hash returns the SHA-256 of the font data, used in cache keys.
func (f *Font) Hash() string { return f.hash }

// Data returns the raw font file. Callers must not modify it.
func (f *Font) Data() []byte { return f.data }

// Upem returns the font's units per em.
func (f *Font) Upem() int { return int(f.font.Upem()) }

// NewShaper returns a shaper with its own face. Shapers returned by separate
// calls may be used from different goroutines.
func (f *Font) NewShaper(opts ...shaping.Option) *shaping.Face {
	return shaping.NewFace(font.NewFace(f.font), opts...)
}

// Factory returns a function producing shapers configured with opts, for
// callers that create one shaper per worker.
func (f *Font) Factory(opts ...shaping.Option) func() shaping.Shaper {
	return func() shaping.Shaper { return f.NewShaper(opts...) }
}
