package dictionary

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Simple is a compiled dictionary: stroke strings mapped to translations.
// Iteration order is last-writer order.
type Simple struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewSimple returns an empty dictionary.
func NewSimple() *Simple {
	return &Simple{m: orderedmap.New[string, string]()}
}

// Set maps strokes to text and moves the key to the back. It returns the
// previous translation, if any.
func (s *Simple) Set(strokes, text string) (string, bool) {
	prev, ok := s.m.Delete(strokes)
	s.m.Set(strokes, text)
	return prev, ok
}

// Get returns the translation of strokes.
func (s *Simple) Get(strokes string) (string, bool) {
	return s.m.Get(strokes)
}

// Len returns the number of entries.
func (s *Simple) Len() int {
	return s.m.Len()
}

// Each calls fn for every entry in order until fn returns false.
func (s *Simple) Each(fn func(strokes, text string) bool) {
	for p := s.m.Oldest(); p != nil; p = p.Next() {
		if !fn(p.Key, p.Value) {
			return
		}
	}
}

// Keys returns the stroke strings in order.
func (s *Simple) Keys() []string {
	keys := make([]string, 0, s.m.Len())
	s.Each(func(k, _ string) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// MarshalJSON encodes the dictionary as a JSON object in iteration order.
func (s *Simple) MarshalJSON() ([]byte, error) {
	return s.m.MarshalJSON()
}
