package api

import (
	"github.com/starford/stenomix/internal/compiler"
	"github.com/starford/stenomix/internal/dictionary"
	"github.com/starford/stenomix/internal/index"
	"github.com/starford/stenomix/internal/models"
)

// CompileResponse is the compiled dictionary with its diagnostics. The
// dictionary keeps the order in which entries were produced.
type CompileResponse = compiler.Result

// Diagnostic is a non-fatal compile finding (aliased from the domain layer).
type Diagnostic = dictionary.Diagnostic

// DictionaryListResponse wraps the indexed source documents.
type DictionaryListResponse struct {
	Dictionaries []index.SourceRow `json:"dictionaries" validate:"required"`
}

// LookupResponse lists the translations of one stroke sequence.
type LookupResponse struct {
	Strokes string                 `json:"strokes" example:"KAT/TPAOD" validate:"required"`
	Entries []models.CompiledEntry `json:"entries" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// BuildResponse reports a rebuild of the output directory.
type BuildResponse = compiler.Report
