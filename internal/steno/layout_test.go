package steno

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayout_Validation(t *testing.T) {
	tests := []struct {
		name       string
		keys       string
		start, end int
		wantErr    bool
	}{
		{"default", DefaultKeys, DefaultBreakStart, DefaultBreakEnd, false},
		{"empty break range", "ABC", 1, 1, false},
		{"no keys", "", 0, 0, true},
		{"break past end", "ABC", 1, 4, true},
		{"inverted break", "ABCD", 3, 1, true},
		{"duplicate key in left bank", "ABAC", 3, 3, true},
		{"duplicate key in break range", "XAAY", 1, 3, true},
		{"same key on both banks", "SAS", 1, 2, false},
		{"reserved hyphen", "A-B", 1, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayout(tt.keys, tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultLayout_Builds(t *testing.T) {
	l, err := NewLayout(DefaultKeys, DefaultBreakStart, DefaultBreakEnd)
	require.NoError(t, err)
	assert.Equal(t, DefaultKeys, l.Keys())
	assert.NotPanics(t, func() { DefaultLayout() })
}

func TestParseStroke_RoundTrip(t *testing.T) {
	l := DefaultLayout()
	for _, s := range []string{
		"KAT", "TKAOG", "TEFT", "-T", "S-", "-", "*", "STKPWHRAO*EUFRPBLGTSDZ", "-FRPBLG", "A", "KWR-",
	} {
		assert.Equal(t, s, l.FormatStroke(l.ParseStroke(s)), "round trip of %q", s)
	}
}

func TestParseStroke_HyphenSelectsBank(t *testing.T) {
	l := DefaultLayout()

	left := l.ParseStroke("T")
	right := l.ParseStroke("-T")
	assert.NotEqual(t, left, right)
	assert.True(t, left.Has(1))
	assert.True(t, right.Has(18))
}

func TestParseStroke_UnneededHyphenDropped(t *testing.T) {
	l := DefaultLayout()
	// The vowel is present, so the hyphen adds nothing to the canonical form.
	assert.Equal(t, "KAT", l.FormatStroke(l.ParseStroke("KA-T")))
}

func TestParseStroke_MalformedIsEmpty(t *testing.T) {
	l := DefaultLayout()
	for _, s := range []string{"TK?", "AK", "ZZ", "x"} {
		assert.True(t, l.ParseStroke(s).IsEmpty(), "stroke %q", s)
	}
}

func TestFormatStroke_EmptyStroke(t *testing.T) {
	l := DefaultLayout()
	assert.Equal(t, "-", l.FormatStroke(0))
}

func TestSequence_ParseFormat(t *testing.T) {
	l := DefaultLayout()
	seq := l.ParseSequence("KAT/TKAOG")
	require.Len(t, seq, 2)
	assert.Equal(t, "KAT/TKAOG", l.FormatSequence(seq))
}
