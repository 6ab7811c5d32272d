// Package breaks locates legal line-break offsets in a paragraph.
//
// Break opportunities come from the Unicode line breaking algorithm (UAX #14)
// as implemented by the go-text segmenter. Offsets are byte offsets into the
// paragraph, ascending, and always include 0 and len(text).
//
// Some characters must never start a line. The default set holds U+06DD
// ARABIC END OF AYAH, which would otherwise be orphaned at the start of the
// next line; [Extractor.StartsForbidden] reports such targets so the graph
// builder can skip them.
package breaks

import (
	"slices"
	"unicode/utf8"

	"github.com/go-text/typesetting/segmenter"
)

// EndOfAyah is the verse-end mark that may not start a line.
const EndOfAyah = '۝'

// Option configures an [Extractor].
type Option func(*Extractor)

// WithForbidden replaces the set of characters that may not start a line.
func WithForbidden(runes ...rune) Option {
	return func(e *Extractor) {
		e.forbidden = make(map[rune]bool, len(runes))
		for _, r := range runes {
			e.forbidden[r] = true
		}
	}
}

// Extractor finds break opportunities. It holds a reusable segmenter and is
// not safe for concurrent use.
type Extractor struct {
	seg       segmenter.Segmenter
	forbidden map[rune]bool
}

// New returns an extractor with the default forbidden set.
func New(opts ...Option) *Extractor {
	e := &Extractor{forbidden: map[rune]bool{EndOfAyah: true}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the ascending break offsets of text, including 0 and
// len(text).
func (e *Extractor) Extract(text string) []int {
	if text == "" {
		return []int{0}
	}
	runes := []rune(text)
	byteAt := runeToByteOffsets(text, len(runes))

	out := []int{0}
	e.seg.Init(runes)
	iter := e.seg.LineIterator()
	for iter.Next() {
		line := iter.Line()
		end := byteAt[line.Offset+len(line.Text)]
		if end > out[len(out)-1] {
			out = append(out, end)
		}
	}
	if out[len(out)-1] != len(text) {
		out = append(out, len(text))
	}
	return out
}

// StartsForbidden reports whether the character at byte offset in text may
// not start a line.
func (e *Extractor) StartsForbidden(text string, offset int) bool {
	if offset < 0 || offset >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[offset:])
	return e.forbidden[r]
}

// Forbidden returns the forbidden leading characters in ascending order.
func (e *Extractor) Forbidden() []rune {
	out := make([]rune, 0, len(e.forbidden))
	for r := range e.forbidden {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// Extract is a convenience wrapper using a default extractor.
func Extract(text string) []int {
	return New().Extract(text)
}

// runeToByteOffsets maps rune index i to its byte offset, with index n
// mapping to len(text).
func runeToByteOffsets(text string, n int) []int {
	offsets := make([]int, 0, n+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
