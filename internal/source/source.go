// Package source decodes advanced dictionary documents into ordered entries.
// Entry order is significant and is preserved for every format.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/stenomix/internal/apperr"
	"github.com/starford/stenomix/internal/models"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format implied by a file name.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}

// IsSource reports whether path names a dictionary source document.
func IsSource(path string) bool {
	_, ok := FormatOf(path)
	return ok
}

// Decode parses data in the given format.
func Decode(format Format, data []byte) ([]models.Entry, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatYAML:
		return DecodeYAML(data)
	}
	return nil, fmt.Errorf("source: unsupported format %q", format)
}

// DecodeFile parses data using the format implied by path.
func DecodeFile(path string, data []byte) ([]models.Entry, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("source: %s: unknown extension", path)
	}
	entries, err := Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// StrokeList is an entry value: a single stroke definition or a list.
type StrokeList []string

// UnmarshalJSON accepts a string or an array of strings.
func (l *StrokeList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = StrokeList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("stroke definitions must be a string or a list of strings: %w", apperr.ErrParse)
	}
	*l = list
	return nil
}

// DecodeJSON parses a JSON object of translation -> strokes. The object is
// walked pair by pair, so a repeated translation yields one entry per
// occurrence.
func DecodeJSON(data []byte) ([]models.Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("source: decode json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("source: decode json: document must be an object: %w", apperr.ErrParse)
	}

	entries := []models.Entry{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("source: decode json: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("source: decode json: unexpected token %v: %w", tok, apperr.ErrParse)
		}
		var strokes StrokeList
		if err := dec.Decode(&strokes); err != nil {
			return nil, fmt.Errorf("source: decode json: %q: %w", key, err)
		}
		entries = append(entries, models.Entry{Translation: key, Strokes: strokes})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("source: decode json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("source: decode json: trailing data after object: %w", apperr.ErrParse)
	}
	return entries, nil
}

// DecodeYAML parses a YAML mapping of translation -> strokes.
func DecodeYAML(data []byte) ([]models.Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("source: decode yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return []models.Entry{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("source: line %d: document must be a mapping: %w", root.Line, apperr.ErrParse)
	}

	entries := make([]models.Entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		strokes, err := yamlStrokes(val)
		if err != nil {
			return nil, fmt.Errorf("source: line %d: %q: %w", val.Line, key.Value, err)
		}
		entries = append(entries, models.Entry{Translation: key.Value, Strokes: strokes})
	}
	return entries, nil
}

func yamlStrokes(n *yaml.Node) ([]string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("stroke definitions must be strings: %w", apperr.ErrParse)
			}
			out = append(out, c.Value)
		}
		return out, nil
	}
	return nil, fmt.Errorf("stroke definitions must be a string or a list of strings: %w", apperr.ErrParse)
}
