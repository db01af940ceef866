package optiongroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/stenomix/internal/apperr"
)

// buildTree builds "a[b[c,d],e]f[g,h,i]" as a List[string].
func buildTree(t *testing.T) List[string] {
	t.Helper()
	b := NewBuilder[string]()
	b.Add("a")
	b.Open("", -1)
	b.Add("b")
	b.Open("", -1)
	b.Add("c")
	require.NoError(t, b.Next())
	b.Add("d")
	_, err := b.Close()
	require.NoError(t, err)
	require.NoError(t, b.Next())
	b.Add("e")
	_, err = b.Close()
	require.NoError(t, err)
	b.Add("f")
	b.Open("", -1)
	b.Add("g")
	require.NoError(t, b.Next())
	b.Add("h")
	require.NoError(t, b.Next())
	b.Add("i")
	_, err = b.Close()
	require.NoError(t, err)

	list, err := b.Finish()
	require.NoError(t, err)
	return list
}

func TestBuilder_Shape(t *testing.T) {
	list := buildTree(t)
	require.Len(t, list, 4)

	groups := list.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, 0, groups[0].Bound)
	assert.Equal(t, 1, groups[1].Bound)
	assert.Len(t, groups[0].Alternatives, 2)
	assert.Len(t, groups[1].Alternatives, 3)

	nested := groups[0].Alternatives[0].Groups()
	require.Len(t, nested, 1)
	assert.Equal(t, 0, nested[0].Bound, "slots restart inside each alternative")
}

func TestBuilder_ExplicitBound(t *testing.T) {
	b := NewBuilder[string]()
	b.Open("", 3)
	_, err := b.Close()
	require.NoError(t, err)
	b.Open("", -1)
	g, err := b.Close()
	require.NoError(t, err)
	assert.Equal(t, 1, g.Bound)
}

func TestBuilder_Unbalanced(t *testing.T) {
	b := NewBuilder[string]()
	assert.ErrorIs(t, b.Next(), apperr.ErrParse)

	_, err := b.Close()
	assert.ErrorIs(t, err, apperr.ErrParse)

	b.Open("", -1)
	_, err = b.Finish()
	assert.ErrorIs(t, err, apperr.ErrParse)
}

func TestPermutate_NestedCount(t *testing.T) {
	list := buildTree(t)

	sels, err := Permutate(list, 0)
	require.NoError(t, err)
	// First group: alternative 0 has 2 nested choices, alternative 1 has none -> 3.
	// Second group: 3. Product: 9.
	require.Len(t, sels, 9)

	seen := make(map[string]struct{}, len(sels))
	for _, s := range sels {
		_, dup := seen[s.Key()]
		assert.False(t, dup, "duplicate selection %s", s)
		seen[s.Key()] = struct{}{}
	}

	assert.Equal(t, "0(0),0", sels[0].Key())
	assert.Equal(t, "0(0),1", sels[1].Key(), "last group varies fastest")
	assert.Equal(t, "1,2", sels[8].Key())
}

func TestPermutate_NoGroups(t *testing.T) {
	b := NewBuilder[string]()
	b.Add("plain")
	list, err := b.Finish()
	require.NoError(t, err)

	sels, err := Permutate(list, 0)
	require.NoError(t, err)
	require.Len(t, sels, 1)
	assert.Empty(t, sels[0])
}

func TestPermutate_Limit(t *testing.T) {
	_, err := Permutate(buildTree(t), 5)
	assert.ErrorIs(t, err, apperr.ErrLimit)
}

func TestSelection_AtDefaults(t *testing.T) {
	s := Selection{{Index: 2, Sub: Selection{{Index: 1}}}}
	assert.Equal(t, 2, s.At(0).Index)
	assert.Equal(t, Choice{}, s.At(1))
	assert.Equal(t, Choice{}, Selection(nil).At(0))
}

func TestGroup_AlternativeOutOfRange(t *testing.T) {
	g := &Group[string]{Alternatives: []List[string]{nil}}
	_, err := g.Alternative(Choice{Index: 1})
	assert.ErrorIs(t, err, apperr.ErrLookup)
}
