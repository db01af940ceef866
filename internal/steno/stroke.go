package steno

// Stroke is one chord: bit i is set when layout key i is pressed.
// The zero value is the empty chord.
type Stroke uint64

// Has reports whether key i is part of the chord.
func (s Stroke) Has(i int) bool {
	return s&(1<<uint(i)) != 0
}

// IsEmpty reports whether no key is pressed.
func (s Stroke) IsEmpty() bool {
	return s == 0
}

// Add returns the union of both chords.
func (s Stroke) Add(o Stroke) Stroke {
	return s | o
}

// Subtract returns s without the keys of o.
func (s Stroke) Subtract(o Stroke) Stroke {
	return s &^ o
}

// Apply merges o into s using the given action.
func (s Stroke) Apply(o Stroke, a Action) Stroke {
	if a == Subtract {
		return s.Subtract(o)
	}
	return s.Add(o)
}
