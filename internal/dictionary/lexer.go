package dictionary

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokSpecial tokenKind = iota + 1
	tokOpen
	tokName
	tokQuoted
)

// strokeTokenRe has one capture group per token kind; whitespace matches
// without a group and is skipped.
var strokeTokenRe = regexp.MustCompile(`\s+` +
	`|([*/+\-&^\],])` +
	`|(\[[0-9]*)` +
	`|([A-Z][a-z_]*)` +
	`|("(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*')`)

var tokenKinds = []tokenKind{tokSpecial, tokOpen, tokName, tokQuoted}

type token struct {
	kind   tokenKind
	text   string
	offset int
}

// tokenize splits a stroke definition. Every byte must belong to a token or
// to whitespace; the first uncovered byte is reported.
func tokenize(def string) ([]token, error) {
	var out []token
	pos := 0
	for _, m := range strokeTokenRe.FindAllStringSubmatchIndex(def, -1) {
		if m[0] != pos {
			break
		}
		pos = m[1]
		for g, kind := range tokenKinds {
			start, end := m[2*(g+1)], m[2*(g+1)+1]
			if start >= 0 {
				out = append(out, token{kind: kind, text: def[start:end], offset: start})
				break
			}
		}
	}
	if pos != len(def) {
		r, _ := utf8.DecodeRuneInString(def[pos:])
		return nil, &ParseError{Definition: def, Offset: pos, Reason: "unexpected character " + strconv.QuoteRune(r)}
	}
	return out, nil
}

// lookupName maps an unquoted token to its table spelling: the first rune
// is lowercased, the rest is kept. Quoted tokens are used verbatim.
func lookupName(t token) string {
	if t.kind == tokQuoted {
		return t.text
	}
	r, size := utf8.DecodeRuneInString(t.text)
	if r == utf8.RuneError {
		return t.text
	}
	return string(unicode.ToLower(r)) + t.text[size:]
}

var simpleNameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z ]*$`)

// mixinSpellings returns every table name a translation text registers
// under: double quoted, single quoted and, for plain words, the simplified
// unquoted form.
func mixinSpellings(text string) []string {
	names := []string{quoteName(text, '"'), quoteName(text, '\'')}
	if simpleNameRe.MatchString(text) {
		names = append(names, strings.ReplaceAll(strings.ToLower(text), " ", "_"))
	}
	return names
}

func quoteName(text string, q byte) string {
	var b strings.Builder
	b.WriteByte(q)
	for i := 0; i < len(text); i++ {
		if text[i] == q || text[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(text[i])
	}
	b.WriteByte(q)
	return b.String()
}
