package dictionary

import (
	"fmt"
	"strings"

	"github.com/starford/stenomix/internal/apperr"
	"github.com/starford/stenomix/internal/steno"
)

// ParseError reports a stroke definition the grammar does not cover.
type ParseError struct {
	Definition string
	Offset     int
	Reason     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse stroke definition %q at offset %d: %s", e.Definition, e.Offset, e.Reason)
}

func (e *ParseError) Unwrap() error { return apperr.ErrParse }

// LookupError reports a mixin name missing from the active namespace.
type LookupError struct {
	Name string
	Side steno.Side
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("mixin %s does not exist on the %s side", e.Name, e.Side)
}

func (e *LookupError) Unwrap() error { return apperr.ErrLookup }

// CycleError reports a mixin whose resolution leads back to itself.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "mixin cycle: " + strings.Join(e.Chain, " -> ")
}

func (e *CycleError) Unwrap() error { return apperr.ErrCycle }

// EntryError ties a failure to the source entry that triggered it.
type EntryError struct {
	Translation string
	Strokes     string
	Err         error
}

func (e *EntryError) Error() string {
	if e.Strokes == "" {
		return fmt.Sprintf("entry %q: %v", e.Translation, e.Err)
	}
	return fmt.Sprintf("entry {%q: %q}: %v", e.Translation, e.Strokes, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

func limitError(what string, n, limit int) error {
	return fmt.Errorf("%s: %d exceeds limit of %d: %w", what, n, limit, apperr.ErrLimit)
}
