// Package optiongroup implements part lists whose elements may be groups of
// mutually exclusive alternatives, selections that pick one alternative per
// group (recursively), and the enumeration of every possible selection.
//
// Both definition languages build their trees with this package: the
// translation side over text fragments, the stroke side over mixin
// references.
package optiongroup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/starford/stenomix/internal/apperr"
)

// Node is one element of a List. It is either an atom (Group is nil) or an
// option group; for a group, Value carries the group's own annotation.
type Node[T any] struct {
	Value T
	Group *Group[T]
}

// IsGroup reports whether the node is an option group.
func (n Node[T]) IsGroup() bool {
	return n.Group != nil
}

// List is an ordered part list.
type List[T any] []Node[T]

// Groups returns the list's top-level option groups in encounter order.
func (l List[T]) Groups() []*Group[T] {
	var out []*Group[T]
	for _, n := range l {
		if n.Group != nil {
			out = append(out, n.Group)
		}
	}
	return out
}

// Group is a set of alternatives. Bound is the selection slot the group
// reads its choice from.
type Group[T any] struct {
	Alternatives []List[T]
	Bound        int
}

// Alternative returns the alternative picked by c.
func (g *Group[T]) Alternative(c Choice) (List[T], error) {
	if c.Index < 0 || c.Index >= len(g.Alternatives) {
		return nil, fmt.Errorf("optiongroup: alternative %d out of range (group has %d): %w",
			c.Index, len(g.Alternatives), apperr.ErrLookup)
	}
	return g.Alternatives[c.Index], nil
}

// Choice picks alternative Index of one group; Sub holds the choices for
// the groups nested inside that alternative.
type Choice struct {
	Index int
	Sub   Selection
}

// Selection holds one Choice per group of a part list, by group slot.
type Selection []Choice

// At returns the choice for slot i. Missing slots default to alternative 0
// with an empty nested selection.
func (s Selection) At(i int) Choice {
	if i < 0 || i >= len(s) {
		return Choice{}
	}
	return s[i]
}

// Key renders the selection canonically, e.g. "0(1),2". Equal selections
// produce equal keys; it is used for memoization.
func (s Selection) Key() string {
	var b strings.Builder
	s.writeKey(&b)
	return b.String()
}

func (s Selection) writeKey(b *strings.Builder) {
	for i, c := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(c.Index))
		if len(c.Sub) > 0 {
			b.WriteByte('(')
			c.Sub.writeKey(b)
			b.WriteByte(')')
		}
	}
}

func (s Selection) String() string {
	return "[" + s.Key() + "]"
}
