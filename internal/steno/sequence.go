package steno

// Sequence is an ordered, non-empty list of strokes.
type Sequence []Stroke

// NewSequence returns a sequence of the given strokes, or a single empty
// stroke when none are given.
func NewSequence(strokes ...Stroke) Sequence {
	if len(strokes) == 0 {
		return Sequence{0}
	}
	return append(Sequence(nil), strokes...)
}

// Combine splices other onto s. Only the boundary chords are merged: the
// first stroke of other is added to (or subtracted from) the last stroke of
// s, the remaining strokes of other are appended unchanged.
// Neither operand is modified.
func (s Sequence) Combine(other Sequence, a Action) Sequence {
	if len(other) == 0 {
		return append(Sequence(nil), s...)
	}
	if len(s) == 0 {
		return append(Sequence(nil), other...)
	}

	out := make(Sequence, len(s), len(s)+len(other)-1)
	copy(out, s)
	last := len(out) - 1
	out[last] = out[last].Apply(other[0], a)
	return append(out, other[1:]...)
}

// Equal reports whether both sequences hold the same strokes.
func (s Sequence) Equal(o Sequence) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}
