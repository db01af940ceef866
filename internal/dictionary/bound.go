package dictionary

import (
	"github.com/starford/stenomix/internal/optiongroup"
	"github.com/starford/stenomix/internal/steno"
)

// BoundSequence pairs a stroke definition with one selection of its
// translation's option groups. Its expansion is computed once.
type BoundSequence struct {
	def  *StrokeDefinition
	sel  optiongroup.Selection
	text string

	resolved []steno.Sequence
	done     bool
}

// Definition returns the underlying stroke definition.
func (b *BoundSequence) Definition() *StrokeDefinition { return b.def }

// Selection returns the bound selection.
func (b *BoundSequence) Selection() optiongroup.Selection { return b.sel }

// Text returns the translation text rendered for the selection.
func (b *BoundSequence) Text() string { return b.text }
