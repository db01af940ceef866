// Package models defines the domain types shared by the compiler's layers.
package models

import "time"

// Entry is one raw source entry: a translation definition and the stroke
// definitions that produce it, in document order.
type Entry struct {
	Translation string   `json:"translation"`
	Strokes     []string `json:"strokes"`
}

// SourceMetadata describes a dictionary source document on disk.
type SourceMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompiledEntry is one line of a compiled (simple) dictionary.
type CompiledEntry struct {
	Source      string `json:"source"`
	Strokes     string `json:"strokes"`
	Translation string `json:"translation"`
}
