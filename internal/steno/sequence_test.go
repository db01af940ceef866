package steno

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine_SingleStrokeFusesIntoBoundary(t *testing.T) {
	l := DefaultLayout()
	x := l.ParseSequence("KA")
	y := l.ParseSequence("-T")

	got := x.Combine(y, Add)
	require.Len(t, got, 1)
	assert.Equal(t, x[0]|y[0], got[0])
	assert.Equal(t, "KAT", l.FormatSequence(got))
}

func TestCombine_MultiStrokeAppends(t *testing.T) {
	l := DefaultLayout()
	x := l.ParseSequence("KA")
	y := l.ParseSequence("-T/TKAOG")

	got := x.Combine(y, Add)
	require.Len(t, got, 2)
	assert.Equal(t, "KAT/TKAOG", l.FormatSequence(got))
}

func TestCombine_SlashFragmentStartsNewStroke(t *testing.T) {
	l := DefaultLayout()
	got := l.ParseSequence("KAT").Combine(Sequence{0, 0}, Add)
	assert.Equal(t, "KAT/-", l.FormatSequence(got))
}

func TestCombine_AddIsOrAndCommutative(t *testing.T) {
	l := DefaultLayout()
	a := l.ParseSequence("KA")
	b := l.ParseSequence("TA")

	ab := a.Combine(b, Add)
	ba := b.Combine(a, Add)
	assert.True(t, ab.Equal(ba))
	assert.Equal(t, a[0]|b[0], ab[0])
}

func TestCombine_SubtractIsAndNot(t *testing.T) {
	l := DefaultLayout()
	a := l.ParseSequence("TKAOG")
	b := l.ParseSequence("AO")

	got := a.Combine(b, Subtract)
	assert.Equal(t, a[0]&^b[0], got[0])
	assert.Equal(t, "TK-G", l.FormatSequence(got))

	// Subtraction is not undone by adding the same keys back when they were
	// never present in the first place.
	c := l.ParseSequence("KAT")
	d := l.ParseSequence("S")
	restored := c.Combine(d, Subtract).Combine(d, Add)
	assert.False(t, restored.Equal(c))
}

func TestCombine_DoesNotMutateOperands(t *testing.T) {
	l := DefaultLayout()
	a := l.ParseSequence("KA")
	b := l.ParseSequence("-T/S")
	_ = a.Combine(b, Add)
	assert.Equal(t, "KA", l.FormatSequence(a))
	assert.Equal(t, "-T/S-", l.FormatSequence(b))
}

func TestSideChange_Apply(t *testing.T) {
	assert.Equal(t, Right, ToRight.Apply(Left))
	assert.Equal(t, Left, ToLeft.Apply(Right))
	assert.Equal(t, Right, NoChange.Apply(Right))
}
