package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/tatweel/pkg/justify"
	"github.com/matzehuels/tatweel/pkg/variation"
)

// FontInfo identifies the font a document was justified with.
type FontInfo struct {
	Name string `json:"name"`
	Hash string `json:"hash,omitempty"`
	Upem int    `json:"upem"`
}

// Document is a justified page together with its text.
type Document struct {
	Font FontInfo
	Goal int
	Text string
	Page *justify.Page
}

type document struct {
	Font       FontInfo    `json:"font"`
	Goal       int         `json:"goal"`
	Text       string      `json:"text"`
	Paragraphs []paragraph `json:"paragraphs"`
}

type paragraph struct {
	Lines []line `json:"lines"`
}

type line struct {
	Start      int                   `json:"start"`
	End        int                   `json:"end"`
	Text       string                `json:"text,omitempty"`
	Variations []variation.Variation `json:"variations"`
	Kashidas   int                   `json:"kashidas,omitempty"`
	LastLine   bool                  `json:"last_line,omitempty"`
}

// WriteJSON encodes d as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(d *Document, w io.Writer) error {
	out := document{Font: d.Font, Goal: d.Goal, Text: d.Text}
	if d.Page != nil {
		out.Paragraphs = make([]paragraph, len(d.Page.Paragraphs))
		for i, para := range d.Page.Paragraphs {
			lines := make([]line, len(para))
			for j, l := range para {
				lines[j] = line{
					Start:      l.Start,
					End:        l.End,
					Variations: l.Variations,
					Kashidas:   l.Kashidas,
					LastLine:   l.LastLine,
				}
				if l.Start >= 0 && l.End <= len(d.Text) && l.Start <= l.End {
					lines[j].Text = l.Text(d.Text)
				}
			}
			out.Paragraphs[i] = paragraph{Lines: lines}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Marshal returns the JSON encoding of d.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes d to a JSON file at path.
func ExportJSON(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}
