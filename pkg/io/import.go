package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/tatweel/pkg/errors"
	"github.com/matzehuels/tatweel/pkg/justify"
)

// ReadJSON decodes a document from r.
//
// Every line must satisfy 0 <= start < end <= len(text), and lines must not
// overlap or go backwards across the whole document. Variations are taken as
// written. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}

	page := &justify.Page{Paragraphs: make([][]justify.Line, 0, len(data.Paragraphs))}
	prev := 0
	for i, para := range data.Paragraphs {
		lines := make([]justify.Line, 0, len(para.Lines))
		for j, l := range para.Lines {
			if l.Start < prev || l.Start >= l.End || l.End > len(data.Text) {
				return nil, errors.New(errors.ErrCodeInvalidFormat,
					"paragraph %d line %d: range [%d, %d) invalid for text of %d bytes", i, j, l.Start, l.End, len(data.Text))
			}
			prev = l.End
			lines = append(lines, justify.Line{
				Start:      l.Start,
				End:        l.End,
				Variations: l.Variations,
				Kashidas:   l.Kashidas,
				LastLine:   l.LastLine,
			})
		}
		page.Paragraphs = append(page.Paragraphs, lines)
	}

	return &Document{Font: data.Font, Goal: data.Goal, Text: data.Text, Page: page}, nil
}

// Unmarshal decodes a document from data.
func Unmarshal(data []byte) (*Document, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads a document from the JSON file at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
