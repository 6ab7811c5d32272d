// Package pipeline provides the justification pipeline shared by the CLI and
// the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Font: load the font file (or the bundled fallback) once per path
//  2. Justify: lay out every paragraph against the goal width
//  3. Render: produce the requested artifacts (JSON, SVG, PNG, PDF)
//
// The justify and render stages are cached by content: the page key covers
// the text, the font data and every search setting, so a changed font file or
// variation range never returns a stale page.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Text:     text,
//	    FontPath: "fonts/Raqq.ttf",
//	    Formats:  []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	f, err := runner.LoadFont(ctx, opts)
//	doc, err := runner.Justify(ctx, f, opts)
//	artifacts, err := runner.Render(ctx, doc, f, opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tatweel/pkg/cache"
	"github.com/matzehuels/tatweel/pkg/config"
	"github.com/matzehuels/tatweel/pkg/errors"
	tio "github.com/matzehuels/tatweel/pkg/io"
	"github.com/matzehuels/tatweel/pkg/justify"
	"github.com/matzehuels/tatweel/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultCost is the default line cost policy.
	DefaultCost = justify.CostPriority

	// DefaultSelector is the default path selector.
	DefaultSelector = justify.SelectorDijkstra

	// DefaultPNGScale is the resolution multiplier for PNG output.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = render.FormatSVG
	FormatPNG  = render.FormatPNG
	FormatPDF  = render.FormatPDF
	FormatDOT  = render.FormatDOT
)

// ValidFormats is the set of supported page output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidGraphFormats is the set of supported breakpoint graph formats.
var ValidGraphFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input
	Text string `json:"text"`

	// Font options. FontPath is never taken from API requests.
	FontPath string   `json:"-"`
	Features []string `json:"features,omitempty"`

	// Geometry. Goal is in font units; when zero it is derived from Width,
	// Margin and FontSize.
	Goal       int     `json:"goal,omitempty"`
	Width      int     `json:"width,omitempty"`
	Margin     int     `json:"margin,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"`
	LineHeight float64 `json:"line_height,omitempty"`

	// Search options
	Variations    []config.VariationConfig `json:"variations,omitempty"`
	Cost          string                   `json:"cost,omitempty"`
	Selector      string                   `json:"selector,omitempty"`
	Tolerance     int                      `json:"tolerance,omitempty"`
	MaxIterations int                      `json:"max_iterations,omitempty"`
	PerLocation   int                      `json:"per_location,omitempty"`
	Parallel      int                      `json:"parallel,omitempty"`
	Refresh       bool                     `json:"refresh,omitempty"`

	// Render options
	Formats   []string     `json:"formats,omitempty"`
	TextColor config.Color `json:"text_color,omitempty"`
	BgColor   config.Color `json:"bg_color,omitempty"`
	EmbedFont bool         `json:"embed_font,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// FromConfig returns options matching a configuration file. The font path is
// resolved against the file's directory.
func FromConfig(c *config.Config, text string) Options {
	return Options{
		Text:          text,
		FontPath:      c.Resolve(c.Font.Path),
		Features:      c.Font.Features,
		Width:         c.Width,
		Margin:        c.Margin,
		FontSize:      c.Font.Size,
		LineHeight:    c.Font.LineHeight,
		Variations:    c.Font.Variations,
		Cost:          c.Cost,
		Selector:      c.Selector,
		Tolerance:     c.Tolerance,
		MaxIterations: c.MaxIterations,
		PerLocation:   c.PerLocation,
		Parallel:      c.Parallel,
		TextColor:     c.TextColor,
		BgColor:       c.BgColor,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the justified page with its text.
	Document *tio.Document

	// PageHash is the content hash of the justified page.
	PageHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Paragraphs  int
	Lines       int
	Kashidas    int
	FontTime    time.Duration
	JustifyTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	JustifyHit bool // Whether the page came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// Clone returns a copy of o that shares no slices with it, so decoding a
// request over the copy leaves o untouched.
func (o Options) Clone() Options {
	o.Features = slices.Clone(o.Features)
	o.Variations = slices.Clone(o.Variations)
	o.Formats = slices.Clone(o.Formats)
	return o
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a page format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, formatList(ValidFormats))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateGraphFormat checks that a graph format is valid.
func ValidateGraphFormat(format string) error {
	if !ValidGraphFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid graph format: %q (must be one of: %s)", format, formatList(ValidGraphFormats))
	}
	return nil
}

func formatList(set map[string]bool) string {
	var names []string
	for name := range set {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForJustify(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForJustify checks the text and search settings and applies their
// defaults.
func (o *Options) ValidateForJustify() error {
	if err := errors.ValidateText(o.Text); err != nil {
		return err
	}
	o.SetJustifyDefaults()

	if o.Goal < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "goal must not be negative, got %d", o.Goal)
	}
	if o.Goal == 0 && 2*o.Margin >= o.Width {
		return errors.New(errors.ErrCodeInvalidInput, "margin %d leaves no room in width %d", o.Margin, o.Width)
	}
	if o.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font size must be positive")
	}
	if o.Tolerance < 0 || o.MaxIterations < 0 || o.PerLocation < 0 || o.Parallel < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "tolerance, max_iterations, per_location and parallel must not be negative")
	}
	if _, err := justify.ParseCostPolicy(o.Cost); err != nil {
		return err
	}
	if _, err := justify.ParseSelector(o.Selector); err != nil {
		return err
	}
	if _, err := config.Variations(o.Variations); err != nil {
		return err
	}
	return nil
}

// SetJustifyDefaults sets default values for the justify stage.
func (o *Options) SetJustifyDefaults() {
	if o.Width == 0 {
		o.Width = config.DefaultWidth
	}
	if o.Margin == 0 {
		o.Margin = config.DefaultMargin
	}
	if o.FontSize == 0 {
		o.FontSize = config.DefaultFontSize
	}
	if o.Cost == "" {
		o.Cost = DefaultCost
	}
	if o.Selector == "" {
		o.Selector = DefaultSelector
	}
	if o.Tolerance == 0 {
		o.Tolerance = justify.DefaultTolerance
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = justify.DefaultMaxIterations
	}
	if o.PerLocation == 0 {
		o.PerLocation = justify.DefaultPerLocation
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.LineHeight == 0 {
		o.LineHeight = config.DefaultLineHeight
	}
	if o.TextColor == 0 {
		o.TextColor = config.DefaultTextColor
	}
	if o.BgColor == 0 {
		o.BgColor = config.DefaultBgColor
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetJustifyDefaults()
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// GoalWidth returns the goal in font units for a font with upem units per
// em.
func (o *Options) GoalWidth(upem int) int {
	if o.Goal > 0 {
		return o.Goal
	}
	return config.GoalWidth(o.Width, o.Margin, o.FontSize, upem)
}

// PageKeyOpts returns cache key options for the justify stage.
func (o *Options) PageKeyOpts(fontHash string, upem int) cache.PageKeyOpts {
	names := make([]string, len(o.Variations))
	for i, v := range o.Variations {
		names[i] = fmt.Sprintf("%s:%g:%g:%g", v.Name, v.Min, v.Max, v.Rest)
	}
	return cache.PageKeyOpts{
		FontHash:    fontHash,
		Goal:        o.GoalWidth(upem),
		Variations:  names,
		Features:    o.Features,
		Cost:        o.Cost,
		Selector:    o.Selector,
		Tolerance:   o.Tolerance,
		Iterations:  o.MaxIterations,
		PerLocation: o.PerLocation,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Width:      o.Width,
		Margin:     o.Margin,
		FontSize:   o.FontSize,
		LineHeight: o.LineHeight,
		TextColor:  fmt.Sprintf("%08x", uint32(o.TextColor)),
		BgColor:    fmt.Sprintf("%08x", uint32(o.BgColor)),
		EmbedFont:  o.EmbedFont,
	}
}
