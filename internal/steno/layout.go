// Package steno models a steno keyboard layout, single chords (strokes) and
// ordered chord sequences together with the add/subtract splicing algebra
// used to build them from fragments.
package steno

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxKeys is the largest layout a Stroke bit mask can represent.
const MaxKeys = 64

// Default English steno layout (Plover order) with the vowel bank
// A O * E U as its break range.
const (
	DefaultKeys       = "STKPWHRAO*EUFRPBLGTSDZ"
	DefaultBreakStart = 7
	DefaultBreakEnd   = 12
)

// Layout is an ordered chord alphabet. Keys in [BreakStart, BreakEnd) form the
// break range that separates the left bank from the right bank.
// A Layout is immutable once built.
type Layout struct {
	keys       []rune
	breakStart int
	breakEnd   int
}

// NewLayout validates and builds a layout.
func NewLayout(keys string, breakStart, breakEnd int) (*Layout, error) {
	rs := []rune(keys)
	err := validation.Errors{
		"keys":        validation.Validate(rs, validation.Required, validation.Length(1, MaxKeys)),
		"break_start": validation.Validate(breakStart, validation.Min(0), validation.Max(breakEnd)),
		"break_end":   validation.Validate(breakEnd, validation.Min(breakStart), validation.Max(len(rs))),
	}.Filter()
	if err != nil {
		return nil, fmt.Errorf("steno: invalid layout: %w", err)
	}

	// Banks may share letters (S, T, P and R appear on both sides of the
	// standard layout); a key may only repeat across regions.
	seen := make(map[rune]struct{}, len(rs))
	for i, r := range rs {
		if r == '-' || r == '/' || r == ' ' {
			return nil, fmt.Errorf("steno: invalid layout: reserved key %q", r)
		}
		if i == breakStart || i == breakEnd {
			clear(seen)
		}
		if _, dup := seen[r]; dup {
			return nil, fmt.Errorf("steno: invalid layout: duplicate key %q", r)
		}
		seen[r] = struct{}{}
	}

	return &Layout{keys: rs, breakStart: breakStart, breakEnd: breakEnd}, nil
}

// DefaultLayout returns the standard English steno layout.
func DefaultLayout() *Layout {
	l, err := NewLayout(DefaultKeys, DefaultBreakStart, DefaultBreakEnd)
	if err != nil {
		panic(err)
	}
	return l
}

// Len returns the number of keys.
func (l *Layout) Len() int { return len(l.keys) }

// Key returns the i-th key symbol.
func (l *Layout) Key(i int) rune { return l.keys[i] }

// Keys returns the key symbols in layout order.
func (l *Layout) Keys() string { return string(l.keys) }

// BreakStart returns the first index of the break range.
func (l *Layout) BreakStart() int { return l.breakStart }

// BreakEnd returns the index just past the break range.
func (l *Layout) BreakEnd() int { return l.breakEnd }

// ParseStroke reads a chord literal such as "TKAOG" or "-T".
//
// Input characters must match layout keys in layout order. A "-" seen while
// the layout position is still before the end of the break range jumps to
// the right bank. Text that is not fully consumed yields the empty stroke;
// this is intentionally not an error.
func (l *Layout) ParseStroke(text string) Stroke {
	in := []rune(text)
	var s Stroke

	i, j := 0, 0
	for i < len(in) && j < len(l.keys) {
		switch {
		case in[i] == l.keys[j]:
			s |= 1 << uint(j)
			i++
		case in[i] == '-' && j < l.breakEnd:
			i++
			j = l.breakEnd - 1
		}
		j++
	}

	if i < len(in) {
		return 0
	}
	return s
}

// FormatStroke renders a stroke in canonical form: keys in layout order, with
// a "-" standing in for a blank break range.
func (l *Layout) FormatStroke(s Stroke) string {
	var b strings.Builder

	blankBreak := true
	for i := l.breakStart; i < l.breakEnd; i++ {
		if s.Has(i) {
			blankBreak = false
			break
		}
	}

	for i, k := range l.keys {
		if blankBreak && i == l.breakStart {
			b.WriteByte('-')
		}
		if s.Has(i) {
			b.WriteRune(k)
		}
	}
	if blankBreak && l.breakStart == len(l.keys) {
		b.WriteByte('-')
	}

	return b.String()
}

// ParseSequence reads a "/"-separated list of chord literals.
func (l *Layout) ParseSequence(text string) Sequence {
	parts := strings.Split(text, "/")
	seq := make(Sequence, len(parts))
	for i, p := range parts {
		seq[i] = l.ParseStroke(p)
	}
	return seq
}

// FormatSequence renders every stroke and joins them with "/".
func (l *Layout) FormatSequence(seq Sequence) string {
	parts := make([]string, len(seq))
	for i, s := range seq {
		parts[i] = l.FormatStroke(s)
	}
	return strings.Join(parts, "/")
}
