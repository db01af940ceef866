// Package translation parses the output-text side of an advanced dictionary
// entry: literal text with nestable "[a,b,...]" option groups and a trailing
// "|flags" metadata suffix.
package translation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/starford/stenomix/internal/apperr"
	"github.com/starford/stenomix/internal/optiongroup"
)

// tokenRe splits a translation body. Every byte belongs to exactly one
// token: an escape, a group delimiter, or a run of literal text.
var tokenRe = regexp.MustCompile(`(?s)\\.|[\[\],]|[^\[\],\\]+|\\`)

// ParseError reports a translation definition that is not well formed.
type ParseError struct {
	Definition string
	Offset     int
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("translation: cannot parse %q at offset %d: %v", e.Definition, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Translation is a parsed translation definition.
type Translation struct {
	source string
	text   string
	flags  Flags
	parts  optiongroup.List[string]
}

// Parse parses a translation definition such as "[cat,dog] food|e".
// The metadata suffix is split off at the last "|".
func Parse(def string) (*Translation, error) {
	t := &Translation{source: def, text: def}

	if i := strings.LastIndex(def, "|"); i >= 0 {
		flags, ok := parseFlags(def[i+1:])
		if !ok {
			return nil, &ParseError{Definition: def, Offset: i + 1,
				Err: fmt.Errorf("flags request both L and R: %w", apperr.ErrParse)}
		}
		t.flags = flags
		t.text = def[:i]
	}

	parts, err := parseBody(t.text)
	if err != nil {
		return nil, &ParseError{Definition: def, Offset: err.offset, Err: err.err}
	}
	t.parts = parts
	return t, nil
}

type bodyError struct {
	offset int
	err    error
}

func parseBody(body string) (optiongroup.List[string], *bodyError) {
	b := optiongroup.NewBuilder[string]()

	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			b.Add(lit.String())
			lit.Reset()
		}
	}

	for _, loc := range tokenRe.FindAllStringIndex(body, -1) {
		tok := body[loc[0]:loc[1]]
		switch {
		case tok == "[":
			flush()
			b.Open("", -1)
		case tok == ",":
			if b.Depth() == 0 {
				// A comma outside any group is plain text.
				lit.WriteString(tok)
				continue
			}
			flush()
			if err := b.Next(); err != nil {
				return nil, &bodyError{offset: loc[0], err: err}
			}
		case tok == "]":
			flush()
			if _, err := b.Close(); err != nil {
				return nil, &bodyError{offset: loc[0], err: err}
			}
		case len(tok) == 2 && tok[0] == '\\' && strings.IndexByte(`[],\`, tok[1]) >= 0:
			lit.WriteByte(tok[1])
		default:
			lit.WriteString(tok)
		}
	}
	flush()

	parts, err := b.Finish()
	if err != nil {
		return nil, &bodyError{offset: len(body), err: err}
	}
	return parts, nil
}

// Source returns the definition string as given, flags included.
func (t *Translation) Source() string { return t.source }

// Text returns the definition without its flags suffix.
func (t *Translation) Text() string { return t.text }

// Flags returns the parsed metadata.
func (t *Translation) Flags() Flags { return t.flags }

// Parts returns the parsed part list.
func (t *Translation) Parts() optiongroup.List[string] { return t.parts }

// OptionGroup returns the i-th top-level option group in encounter order,
// or nil when there is none.
func (t *Translation) OptionGroup(i int) *optiongroup.Group[string] {
	groups := t.parts.Groups()
	if i < 0 || i >= len(groups) {
		return nil
	}
	return groups[i]
}

// Permutations enumerates every selection of the translation's groups.
func (t *Translation) Permutations(limit int) ([]optiongroup.Selection, error) {
	return optiongroup.Permutate(t.parts, limit)
}

// Lookup renders the text chosen by sel.
func (t *Translation) Lookup(sel optiongroup.Selection) (string, error) {
	return Render(t.parts, sel)
}

// Render concatenates the literal parts of list, resolving every group to
// the alternative sel picks for it.
func Render(list optiongroup.List[string], sel optiongroup.Selection) (string, error) {
	var b strings.Builder
	if err := render(&b, list, sel); err != nil {
		return "", err
	}
	return b.String(), nil
}

func render(b *strings.Builder, list optiongroup.List[string], sel optiongroup.Selection) error {
	for _, n := range list {
		if !n.IsGroup() {
			b.WriteString(n.Value)
			continue
		}
		c := sel.At(n.Group.Bound)
		alt, err := n.Group.Alternative(c)
		if err != nil {
			return fmt.Errorf("translation: %w", err)
		}
		if err := render(b, alt, c.Sub); err != nil {
			return err
		}
	}
	return nil
}
