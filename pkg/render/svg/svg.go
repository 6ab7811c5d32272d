// Package svg renders justified pages as SVG text previews.
//
// Each line becomes one <text> element centred in the printable area, with
// its axis values in font-variation-settings and its spacing variation as
// word-spacing. Lines keep their kashidas. Glyph outlines come from the
// viewer, so the font is either embedded with [WithFont] or referenced by
// family name.
package svg

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/go-text/typesetting/language"

	"github.com/matzehuels/tatweel/pkg/config"
	tio "github.com/matzehuels/tatweel/pkg/io"
	"github.com/matzehuels/tatweel/pkg/justify"
	"github.com/matzehuels/tatweel/pkg/kashida"
	"github.com/matzehuels/tatweel/pkg/render"
	"github.com/matzehuels/tatweel/pkg/variation"
)

// FontFamily is the family name used for an embedded font.
const FontFamily = "tatweel-preview"

// SVGOption configures page rendering.
type SVGOption func(*renderer)

type renderer struct {
	width        int
	margin       int
	fontSize     float64
	lineHeight   float64
	textColor    config.Color
	bgColor      config.Color
	family       string
	fontData     []byte
	spaceAdvance int
}

// WithGeometry sets the canvas width and margin in pixels.
func WithGeometry(width, margin int) SVGOption {
	return func(r *renderer) { r.width, r.margin = width, margin }
}

// WithFontSize sets the font size in pixels and the line height as a
// multiple of it.
func WithFontSize(size, lineHeight float64) SVGOption {
	return func(r *renderer) { r.fontSize, r.lineHeight = size, lineHeight }
}

// WithColors sets the text and background colors.
func WithColors(text, bg config.Color) SVGOption {
	return func(r *renderer) { r.textColor, r.bgColor = text, bg }
}

// WithFont embeds font data as a data URI. Without it the preview refers to
// family by name.
func WithFont(family string, data []byte) SVGOption {
	return func(r *renderer) { r.family, r.fontData = family, data }
}

// WithSpaceAdvance sets the unscaled advance of the space glyph, needed to
// express the spacing variation as word-spacing.
func WithSpaceAdvance(units int) SVGOption {
	return func(r *renderer) { r.spaceAdvance = units }
}

// FromConfig returns the options matching a configuration file.
func FromConfig(c *config.Config) []SVGOption {
	return []SVGOption{
		WithGeometry(c.Width, c.Margin),
		WithFontSize(c.Font.Size, c.Font.LineHeight),
		WithColors(c.TextColor, c.BgColor),
	}
}

func newRenderer(opts ...SVGOption) renderer {
	r := renderer{
		width:      config.DefaultWidth,
		margin:     config.DefaultMargin,
		fontSize:   config.DefaultFontSize,
		lineHeight: config.DefaultLineHeight,
		textColor:  config.DefaultTextColor,
		bgColor:    config.DefaultBgColor,
		family:     FontFamily,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG renders every line of d, top to bottom. Paragraphs follow each
// other without a gap.
func RenderSVG(d *tio.Document, opts ...SVGOption) []byte {
	r := newRenderer(opts...)

	var lines []justify.Line
	if d.Page != nil {
		lines = d.Page.Lines()
	}
	step := r.fontSize * r.lineHeight
	height := float64(len(lines))*step + float64(2*r.margin)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %.1f" width="%d" height="%.0f">`+"\n",
		r.width, height, r.width, height)
	r.renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s" fill-opacity="%.3f"/>`+"\n",
		r.bgColor.Hex(), r.bgColor.Opacity())

	fmt.Fprintf(&buf, `  <g font-family="%s" font-size="%.2f" fill="%s" fill-opacity="%.3f" text-anchor="middle">`+"\n",
		escape(r.family), r.fontSize, r.textColor.Hex(), r.textColor.Opacity())
	x := float64(r.width) / 2
	for i, l := range lines {
		y := float64(r.margin) + float64(i)*step + r.fontSize
		r.renderLine(&buf, d, l, x, y)
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) renderDefs(buf *bytes.Buffer) {
	if len(r.fontData) == 0 {
		return
	}
	fmt.Fprintf(buf, "  <defs><style>@font-face { font-family: %q; src: url(data:font/ttf;base64,%s); }</style></defs>\n",
		r.family, base64.StdEncoding.EncodeToString(r.fontData))
}

func (r *renderer) renderLine(buf *bytes.Buffer, d *tio.Document, l justify.Line, x, y float64) {
	text := l.Shaped(d.Text)

	attrs := []string{fmt.Sprintf(`x="%.2f" y="%.2f"`, x, y)}
	if kashida.Detect(text) == language.Arabic {
		attrs = append(attrs, `direction="rtl"`)
	}
	if s := axisSettings(l.Variations); s != "" {
		attrs = append(attrs, fmt.Sprintf(`style="font-variation-settings: %s"`, s))
	}
	if ws := r.wordSpacing(l.Variations, d.Font.Upem); ws != 0 {
		attrs = append(attrs, fmt.Sprintf(`word-spacing="%.2f"`, ws))
	}
	if l.LastLine {
		attrs = append(attrs, `class="last"`)
	}
	fmt.Fprintf(buf, "    <text %s>%s</text>\n", strings.Join(attrs, " "), escape(text))
}

// wordSpacing is the extra space width in pixels implied by the spacing
// variation.
func (r *renderer) wordSpacing(vs []variation.Variation, upem int) float64 {
	sp, ok := variation.Spacing(vs)
	if !ok || r.spaceAdvance == 0 || upem == 0 {
		return 0
	}
	extra := (sp.Value - 1) * float64(r.spaceAdvance) * r.fontSize / float64(upem)
	return math.Round(extra*100) / 100
}

func axisSettings(vs []variation.Variation) string {
	var parts []string
	for _, v := range variation.Axes(vs) {
		parts = append(parts, fmt.Sprintf("'%s' %.3f", v.Tag, v.Value))
	}
	return strings.Join(parts, ", ")
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// RenderPDF renders the preview as PDF via SVG conversion.
func RenderPDF(ctx context.Context, d *tio.Document, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(d, opts...))
}

// RenderPNG renders the preview as PNG via SVG conversion.
func RenderPNG(ctx context.Context, d *tio.Document, scale float64, opts ...SVGOption) ([]byte, error) {
	return render.ToPNG(ctx, RenderSVG(d, opts...), scale)
}
