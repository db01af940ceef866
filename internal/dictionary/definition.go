package dictionary

import (
	"strconv"

	"github.com/starford/stenomix/internal/optiongroup"
	"github.com/starford/stenomix/internal/steno"
	"github.com/starford/stenomix/internal/translation"
)

type partKind int

const (
	partMixin partKind = iota
	// partFill stands in for an empty stroke alternative; it resolves to
	// the mixin named by the matching translation alternative.
	partFill
)

type strokePart struct {
	kind   partKind
	action steno.Action
	mixin  *Mixin
	fill   optiongroup.List[string]
	side   steno.Side
}

// StrokeDefinition is one stroke-side definition string of an entry. It is
// parsed on first expansion and caches its expansions per selection.
type StrokeDefinition struct {
	source      string
	translation *translation.Translation

	parts  optiongroup.List[strokePart]
	parsed bool
	err    error
	cache  map[string][]steno.Sequence
}

func newStrokeDefinition(source string, t *translation.Translation) *StrokeDefinition {
	return &StrokeDefinition{source: source, translation: t}
}

// Source returns the definition string.
func (s *StrokeDefinition) Source() string { return s.source }

// scope is the parse state of one open stroke group. tgroup is the
// translation group the stroke group is bound to, if any.
type scope struct {
	action   steno.Action
	side     steno.Side
	openSide steno.Side
	tgroup   *optiongroup.Group[string]
	alt      int
}

// translationList returns the translation alternative that mirrors the
// current stroke alternative.
func (sc *scope) translationList(root *translation.Translation, depth int) optiongroup.List[string] {
	if depth == 0 {
		if root == nil {
			return nil
		}
		return root.Parts()
	}
	if sc.tgroup == nil || sc.alt >= len(sc.tgroup.Alternatives) {
		return nil
	}
	return sc.tgroup.Alternatives[sc.alt]
}

func boundGroup(list optiongroup.List[string], bound int) *optiongroup.Group[string] {
	for _, g := range list.Groups() {
		if g.Bound == bound {
			return g
		}
	}
	return nil
}

// parse builds the part tree, resolving mixin names against the table.
func (s *StrokeDefinition) parse(table *Table) error {
	if s.parsed {
		return s.err
	}
	s.parsed = true
	s.parts, s.err = parseStrokes(s.source, s.translation, table)
	return s.err
}

func parseStrokes(def string, t *translation.Translation, table *Table) (optiongroup.List[strokePart], error) {
	tokens, err := tokenize(def)
	if err != nil {
		return nil, err
	}

	b := optiongroup.NewBuilder[strokePart]()
	scopes := []*scope{{side: steno.Left, openSide: steno.Left}}

	for _, tok := range tokens {
		sc := scopes[len(scopes)-1]

		switch {
		case tok.text == "&":
			sc.action = steno.Add
		case tok.text == "^":
			sc.action = steno.Subtract
		case tok.kind == tokOpen:
			bound := -1
			if digits := tok.text[1:]; digits != "" {
				n, err := strconv.Atoi(digits)
				if err != nil {
					return nil, &ParseError{Definition: def, Offset: tok.offset, Reason: "invalid bound index " + strconv.Quote(digits)}
				}
				bound = n
			}
			parentList := sc.translationList(t, len(scopes)-1)
			b.Open(strokePart{action: sc.action}, bound)
			g := b.Current()
			scopes = append(scopes, &scope{
				side:     sc.side,
				openSide: sc.side,
				tgroup:   boundGroup(parentList, g.Bound),
			})
		case tok.text == ",":
			if err := b.Next(); err != nil {
				return nil, &ParseError{Definition: def, Offset: tok.offset, Reason: err.Error()}
			}
			sc.alt++
			sc.action = steno.Add
			sc.side = sc.openSide
		case tok.text == "]":
			if g := b.Current(); g != nil {
				fillIn(g, sc)
			}
			if _, err := b.Close(); err != nil {
				return nil, &ParseError{Definition: def, Offset: tok.offset, Reason: err.Error()}
			}
			scopes = scopes[:len(scopes)-1]
		default:
			name := tok.text
			if tok.kind == tokName || tok.kind == tokQuoted {
				name = lookupName(tok)
			}
			m, err := table.Lookup(name, sc.side)
			if err != nil {
				return nil, err
			}
			b.Add(strokePart{kind: partMixin, action: sc.action, mixin: m})
			sc.side = m.change.Apply(sc.side)
		}
	}

	parts, err := b.Finish()
	if err != nil {
		return nil, &ParseError{Definition: def, Offset: len(def), Reason: err.Error()}
	}
	return parts, nil
}

// fillIn gives every empty stroke alternative of g a reference to the text
// of the translation alternative at the same index.
func fillIn(g *optiongroup.Group[strokePart], sc *scope) {
	if sc.tgroup == nil {
		return
	}
	for i, talt := range sc.tgroup.Alternatives {
		if i >= len(g.Alternatives) {
			g.Alternatives = append(g.Alternatives, nil)
		}
		if len(g.Alternatives[i]) > 0 {
			continue
		}
		g.Alternatives[i] = optiongroup.List[strokePart]{{
			Value: strokePart{kind: partFill, fill: talt, side: sc.openSide},
		}}
	}
}
