package translation

import (
	"strings"

	"github.com/starford/stenomix/internal/steno"
)

// Flags is the metadata carried by the trailing "|flags" suffix of a
// translation definition.
type Flags struct {
	// EntryOnly ("e") suppresses mixin registration.
	EntryOnly bool
	// MixinOnly ("m") suppresses dictionary entry registration.
	MixinOnly bool
	// LeftOnly ("l") and RightOnly ("r") restrict the mixin namespaces.
	// Neither (or both) registers the mixin on both sides.
	LeftOnly  bool
	RightOnly bool
	// SideChange ("L" / "R") is applied whenever the mixin is referenced.
	SideChange steno.SideChange
}

func parseFlags(meta string) (Flags, bool) {
	f := Flags{
		EntryOnly: strings.Contains(meta, "e"),
		MixinOnly: strings.Contains(meta, "m"),
		LeftOnly:  strings.Contains(meta, "l"),
		RightOnly: strings.Contains(meta, "r"),
	}
	toLeft, toRight := strings.Contains(meta, "L"), strings.Contains(meta, "R")
	switch {
	case toLeft && toRight:
		return f, false
	case toLeft:
		f.SideChange = steno.ToLeft
	case toRight:
		f.SideChange = steno.ToRight
	}
	return f, true
}

// IsEntry reports whether the translation registers dictionary entries.
func (f Flags) IsEntry() bool { return !f.MixinOnly }

// IsMixin reports whether the translation registers a mixin.
func (f Flags) IsMixin() bool { return !f.EntryOnly }

// MixinSides returns the namespaces a mixin is registered under.
func (f Flags) MixinSides() []steno.Side {
	switch {
	case f.LeftOnly && !f.RightOnly:
		return []steno.Side{steno.Left}
	case f.RightOnly && !f.LeftOnly:
		return []steno.Side{steno.Right}
	default:
		return []steno.Side{steno.Left, steno.Right}
	}
}
