package dictionary

import (
	"strings"

	"github.com/starford/stenomix/internal/steno"
)

// Mixin is a named, reusable stroke fragment. Built-in mixins carry fixed
// sequences; user mixins accumulate bound definitions whose expansions are
// resolved once, on first use.
type Mixin struct {
	name        string
	change      steno.SideChange
	builtin     bool
	static      []steno.Sequence
	definitions []*BoundSequence

	resolved []steno.Sequence
	done     bool
}

// Name returns the name the mixin was first registered under.
func (m *Mixin) Name() string { return m.name }

// SideChange returns the namespace switch caused by referencing the mixin.
func (m *Mixin) SideChange() steno.SideChange { return m.change }

type mixinKey struct {
	side steno.Side
	name string
}

// Table maps (side, name) pairs to mixins. Several keys may share a Mixin.
type Table struct {
	mixins map[mixinKey]*Mixin
}

func newTable(layout *steno.Layout) *Table {
	t := &Table{mixins: make(map[mixinKey]*Mixin)}
	both := []steno.Side{steno.Left, steno.Right}

	empty := steno.NewSequence()
	t.builtin("", both, steno.NoChange, empty)
	t.builtin("-", both, steno.ToRight, empty)
	t.builtin("+", both, steno.ToLeft, empty)
	t.builtin("/", both, steno.ToLeft, steno.NewSequence(0, 0))

	for i := 0; i < layout.Len(); i++ {
		key := string(layout.Key(i))
		name := strings.ToLower(key)
		switch {
		case i < layout.BreakStart():
			t.builtin(name, []steno.Side{steno.Left}, steno.NoChange,
				steno.NewSequence(layout.ParseStroke(key)))
		case i >= layout.BreakEnd():
			t.builtin(name, []steno.Side{steno.Right}, steno.NoChange,
				steno.NewSequence(layout.ParseStroke("-"+key)))
		default:
			t.builtin(name, both, steno.ToRight,
				steno.NewSequence(layout.ParseStroke(key)))
		}
	}
	return t
}

func (t *Table) builtin(name string, sides []steno.Side, change steno.SideChange, seq steno.Sequence) {
	m := &Mixin{name: name, change: change, builtin: true, static: []steno.Sequence{seq}}
	for _, side := range sides {
		t.mixins[mixinKey{side, name}] = m
	}
}

// Lookup returns the mixin registered under name on the given side.
func (t *Table) Lookup(name string, side steno.Side) (*Mixin, error) {
	m, ok := t.mixins[mixinKey{side, name}]
	if !ok {
		return nil, &LookupError{Name: name, Side: side}
	}
	return m, nil
}

// registerConflict describes a key that could not take a registration.
type registerConflict struct {
	name     string
	side     steno.Side
	existing *Mixin
}

// register adds defs under every spelling of text on the given sides.
// Keys that already hold a mixin with the same side change get the
// definitions appended; built-ins and mixins with a different side change
// are left alone and reported.
func (t *Table) register(text string, sides []steno.Side, change steno.SideChange, defs []*BoundSequence) []registerConflict {
	var (
		conflicts []registerConflict
		fresh     *Mixin
		extended  = make(map[*Mixin]struct{})
	)

	for _, name := range mixinSpellings(text) {
		for _, side := range sides {
			key := mixinKey{side, name}
			existing, ok := t.mixins[key]
			if !ok {
				if fresh == nil {
					fresh = &Mixin{name: text, change: change, definitions: append([]*BoundSequence(nil), defs...)}
				}
				t.mixins[key] = fresh
				continue
			}
			if existing == fresh {
				continue
			}
			if existing.builtin || existing.change != change {
				conflicts = append(conflicts, registerConflict{name: name, side: side, existing: existing})
				continue
			}
			if _, done := extended[existing]; !done {
				existing.definitions = append(existing.definitions, defs...)
				existing.resolved, existing.done = nil, false
				extended[existing] = struct{}{}
			}
		}
	}
	return conflicts
}

// Len returns the number of (side, name) keys in the table.
func (t *Table) Len() int {
	return len(t.mixins)
}
