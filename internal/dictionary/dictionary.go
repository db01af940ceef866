// Package dictionary compiles advanced dictionary entries into a simple
// dictionary. It owns the stroke-definition language, the mixin table with
// its left and right namespaces, and the expansion of every entry.
package dictionary

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/starford/stenomix/internal/models"
	"github.com/starford/stenomix/internal/steno"
	"github.com/starford/stenomix/internal/translation"
)

// ErrorPolicy decides what a failing entry does to the compilation.
type ErrorPolicy string

const (
	// PolicyAbort stops at the first failing definition.
	PolicyAbort ErrorPolicy = "abort"
	// PolicySkip drops the failing definition and records a diagnostic.
	PolicySkip ErrorPolicy = "skip"
)

// Limits bounds the work a single dictionary may do. Zero disables a limit.
type Limits struct {
	MaxDepth        int `yaml:"max_depth"`
	MaxExpansions   int `yaml:"max_expansions"`
	MaxPermutations int `yaml:"max_permutations"`
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:        64,
		MaxExpansions:   100000,
		MaxPermutations: 10000,
	}
}

// Option configures a Dictionary.
type Option func(*Dictionary)

// WithErrorPolicy sets the error policy.
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(d *Dictionary) {
		d.policy = p
	}
}

// WithLimits sets the resource limits.
func WithLimits(l Limits) Option {
	return func(d *Dictionary) {
		d.limits = l
	}
}

// Dictionary accumulates entries and mixins. It is not safe for concurrent
// use; compile independent documents with independent dictionaries.
type Dictionary struct {
	layout  *steno.Layout
	table   *Table
	entries *orderedmap.OrderedMap[string, []*BoundSequence]
	policy  ErrorPolicy
	limits  Limits
	diags   []Diagnostic
	chain   []*Mixin
}

// New returns a dictionary with the built-in mixins of layout registered.
func New(layout *steno.Layout, opts ...Option) *Dictionary {
	d := &Dictionary{
		layout:  layout,
		table:   newTable(layout),
		entries: orderedmap.New[string, []*BoundSequence](),
		policy:  PolicyAbort,
		limits:  DefaultLimits(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Layout returns the key layout.
func (d *Dictionary) Layout() *steno.Layout { return d.layout }

// Diagnostics returns the findings recorded so far.
func (d *Dictionary) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), d.diags...)
}

// AddEntries ingests entries in order.
func (d *Dictionary) AddEntries(entries []models.Entry) error {
	for _, e := range entries {
		if err := d.AddEntry(e); err != nil {
			return err
		}
	}
	return nil
}

// AddEntry ingests one entry: every permutation of its translation is bound
// to every stroke definition, then registered as mixin and/or entry.
func (d *Dictionary) AddEntry(e models.Entry) error {
	t, err := translation.Parse(e.Translation)
	if err != nil {
		return d.fail(e.Translation, "", err)
	}
	perms, err := t.Permutations(d.limits.MaxPermutations)
	if err != nil {
		return d.fail(e.Translation, "", err)
	}

	defs := make([]*StrokeDefinition, len(e.Strokes))
	for i, s := range e.Strokes {
		defs[i] = newStrokeDefinition(s, t)
	}

	byText := orderedmap.New[string, []*BoundSequence]()
	for _, sel := range perms {
		text, err := t.Lookup(sel)
		if err != nil {
			return d.fail(e.Translation, "", err)
		}
		bounds, _ := byText.Get(text)
		for _, def := range defs {
			bounds = append(bounds, &BoundSequence{def: def, sel: sel, text: text})
		}
		byText.Set(text, bounds)
	}

	flags := t.Flags()
	for p := byText.Oldest(); p != nil; p = p.Next() {
		if flags.IsMixin() {
			for _, c := range d.table.register(p.Key, flags.MixinSides(), flags.SideChange, p.Value) {
				d.diags = append(d.diags, Diagnostic{
					Kind:        DiagMixinConflict,
					Translation: e.Translation,
					Message:     mixinConflictMessage(c, flags.SideChange),
				})
			}
		}
		if flags.IsEntry() {
			bounds, _ := d.entries.Get(p.Key)
			d.entries.Set(p.Key, append(bounds, p.Value...))
		}
	}
	return nil
}

func mixinConflictMessage(c registerConflict, change steno.SideChange) string {
	if c.existing.builtin {
		return fmt.Sprintf("mixin %s on the %s side is built in and cannot be redefined", c.name, c.side)
	}
	return fmt.Sprintf("mixin %s on the %s side already changes side to %s, redefinition with %s ignored",
		c.name, c.side, c.existing.change, change)
}

// fail applies the error policy to a failing entry or definition.
func (d *Dictionary) fail(text, strokes string, err error) error {
	entryErr := &EntryError{Translation: text, Strokes: strokes, Err: err}
	if d.policy != PolicySkip {
		return entryErr
	}
	d.diags = append(d.diags, Diagnostic{
		Kind:        DiagEntryError,
		Translation: text,
		Definition:  strokes,
		Message:     err.Error(),
	})
	return nil
}

// ToSimple expands every entry into the simple dictionary. A stroke string
// produced twice maps to the later entry and records a conflict.
func (d *Dictionary) ToSimple() (*Simple, error) {
	out := NewSimple()

	for p := d.entries.Oldest(); p != nil; p = p.Next() {
		text := p.Key
		for _, b := range p.Value {
			seqs, err := d.expandBound(b)
			if err != nil {
				if ferr := d.fail(text, b.def.source, err); ferr != nil {
					return nil, ferr
				}
				continue
			}
			for _, seq := range seqs {
				key := d.layout.FormatSequence(seq)
				if prev, ok := out.Set(key, text); ok && prev != text {
					d.diags = append(d.diags, Diagnostic{
						Kind:        DiagOutputConflict,
						Translation: text,
						Definition:  b.def.source,
						Strokes:     key,
						Message:     fmt.Sprintf("%s was mapped to %q, now %q", key, prev, text),
					})
				}
			}
		}
	}
	return out, nil
}

// Mixin returns the stroke strings a mixin expands to, looked up the way an
// unquoted or quoted name in a stroke definition would be.
func (d *Dictionary) Mixin(name string, side steno.Side) ([]string, error) {
	m, err := d.table.Lookup(name, side)
	if err != nil {
		return nil, err
	}
	seqs, err := d.resolve(m)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(seqs))
	for i, s := range seqs {
		out[i] = d.layout.FormatSequence(s)
	}
	return out, nil
}

// Expand compiles a single stroke definition outside of any entry.
func (d *Dictionary) Expand(def string) ([]string, error) {
	seqs, err := d.expand(newStrokeDefinition(def, nil), nil)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(seqs))
	for i, s := range seqs {
		out[i] = d.layout.FormatSequence(s)
	}
	return out, nil
}
