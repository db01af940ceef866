// Package storage defines the dictionary directory abstraction.
package storage

import "github.com/starford/stenomix/internal/models"

// Provider is the interface for dictionary file operations.
type Provider interface {
	// List returns metadata for every source document under dir (relative to root).
	List(dir string) ([]models.SourceMetadata, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to root).
	Delete(path string) error
}
