package justify

import (
	"strings"

	"github.com/matzehuels/tatweel/pkg/kashida"
	"github.com/matzehuels/tatweel/pkg/variation"
)

// Span is a half-open byte range [Start, End) into the page text.
type Span struct {
	Start int `json:"start" bson:"start"`
	End   int `json:"end" bson:"end"`
}

// Len returns the span length in bytes.
func (s Span) Len() int { return s.End - s.Start }

// Line is one laid-out line: the byte range of the page it covers, the settled
// variation values, and the number of kashidas inserted into it.
//
// Offsets index the full page text, not the paragraph. LastLine marks the
// final line of a paragraph, which renderers align instead of justifying.
type Line struct {
	Start      int                   `json:"start" bson:"start"`
	End        int                   `json:"end" bson:"end"`
	Variations []variation.Variation `json:"variations" bson:"variations"`
	Kashidas   int                   `json:"kashidas,omitempty" bson:"kashidas,omitempty"`
	LastLine   bool                  `json:"last_line,omitempty" bson:"last_line,omitempty"`
}

// Span returns the byte range of the line.
func (l Line) Span() Span { return Span{l.Start, l.End} }

// Text returns the line's text from page with surrounding whitespace removed,
// the form that is shaped.
func (l Line) Text(page string) string {
	return strings.TrimSpace(page[l.Start:l.End])
}

// Shaped returns the text as it was measured: [Line.Text] with the line's
// kashidas placed back at their locations.
func (l Line) Shaped(page string) string {
	text := l.Text(page)
	if l.Kashidas == 0 {
		return text
	}
	return kashida.Insert(text, kashida.Locate(text, kashida.Detect(text)), l.Kashidas)
}

// Cost scores the line with policy. Lower is better.
func (l Line) Cost(policy CostPolicy) float64 {
	return policy.Cost(l)
}

// Page is the result of laying out a text: the lines of each non-empty
// paragraph, in order.
type Page struct {
	Paragraphs [][]Line `json:"paragraphs" bson:"paragraphs"`
}

// Lines flattens the page into one slice.
func (p *Page) Lines() []Line {
	n := 0
	for _, para := range p.Paragraphs {
		n += len(para)
	}
	out := make([]Line, 0, n)
	for _, para := range p.Paragraphs {
		out = append(out, para...)
	}
	return out
}

// Kashidas returns the total number of kashidas inserted across the page.
func (p *Page) Kashidas() int {
	n := 0
	for _, para := range p.Paragraphs {
		for _, l := range para {
			n += l.Kashidas
		}
	}
	return n
}
