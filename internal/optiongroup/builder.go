package optiongroup

import (
	"fmt"

	"github.com/starford/stenomix/internal/apperr"
)

var (
	errStrayComma   = fmt.Errorf("',' outside of an option group: %w", apperr.ErrParse)
	errStrayClose   = fmt.Errorf("unmatched ']': %w", apperr.ErrParse)
	errUnclosedOpen = fmt.Errorf("unclosed '[': %w", apperr.ErrParse)
)

type frame[T any] struct {
	group *Group[T]
	value T
	// next implicit slot for a group opened in the current alternative
	counter int
}

// Builder assembles a List from a flat token stream. It keeps an explicit
// stack of open groups; the bottom frame is the implicit root whose single
// alternative becomes the result.
type Builder[T any] struct {
	stack []*frame[T]
}

// NewBuilder returns a builder positioned at the root list.
func NewBuilder[T any]() *Builder[T] {
	root := &frame[T]{group: &Group[T]{Alternatives: []List[T]{nil}}}
	return &Builder[T]{stack: []*frame[T]{root}}
}

func (b *Builder[T]) top() *frame[T] {
	return b.stack[len(b.stack)-1]
}

// Depth returns the number of open groups.
func (b *Builder[T]) Depth() int {
	return len(b.stack) - 1
}

// Add appends an atom to the current alternative.
func (b *Builder[T]) Add(v T) {
	f := b.top()
	last := len(f.group.Alternatives) - 1
	f.group.Alternatives[last] = append(f.group.Alternatives[last], Node[T]{Value: v})
}

// Open starts a group annotated with v. A negative bound assigns the next
// slot of the current alternative (0 for its first group, then 1, ...).
func (b *Builder[T]) Open(v T, bound int) {
	f := b.top()
	if bound < 0 {
		bound = f.counter
	}
	f.counter++
	b.stack = append(b.stack, &frame[T]{
		group: &Group[T]{Alternatives: []List[T]{nil}, Bound: bound},
		value: v,
	})
}

// Next starts a new alternative in the innermost open group.
func (b *Builder[T]) Next() error {
	if b.Depth() == 0 {
		return errStrayComma
	}
	f := b.top()
	f.group.Alternatives = append(f.group.Alternatives, nil)
	f.counter = 0
	return nil
}

// Current returns the innermost open group, or nil at the root.
func (b *Builder[T]) Current() *Group[T] {
	if b.Depth() == 0 {
		return nil
	}
	return b.top().group
}

// CurrentValue returns the annotation of the innermost open group.
func (b *Builder[T]) CurrentValue() T {
	return b.top().value
}

// Close finishes the innermost group and appends it to its parent.
func (b *Builder[T]) Close() (*Group[T], error) {
	if b.Depth() == 0 {
		return nil, errStrayClose
	}
	f := b.top()
	b.stack = b.stack[:len(b.stack)-1]

	parent := b.top()
	last := len(parent.group.Alternatives) - 1
	parent.group.Alternatives[last] = append(parent.group.Alternatives[last], Node[T]{Value: f.value, Group: f.group})
	return f.group, nil
}

// Finish returns the completed root list.
func (b *Builder[T]) Finish() (List[T], error) {
	if b.Depth() != 0 {
		return nil, errUnclosedOpen
	}
	return b.stack[0].group.Alternatives[0], nil
}
