// Package sink serializes compiled dictionaries.
package sink

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/starford/stenomix/internal/dictionary"
)

// Options controls the JSON layout.
type Options struct {
	// SortKeys orders entries by stroke string; otherwise the dictionary's
	// own (last-writer) order is kept.
	SortKeys bool
}

// WriteJSON writes d as a JSON object with one entry per line, the layout
// steno engines expect. Non-ASCII text and HTML characters are written
// verbatim.
func WriteJSON(w io.Writer, d *dictionary.Simple, opts Options) error {
	keys := d.Keys()
	if opts.SortKeys {
		sort.Strings(keys)
	}

	bw := bufio.NewWriter(w)
	if len(keys) == 0 {
		_, _ = bw.WriteString("{}\n")
		return bw.Flush()
	}

	_, _ = bw.WriteString("{\n")
	for i, k := range keys {
		v, _ := d.Get(k)
		ks, err := encodeString(k)
		if err != nil {
			return err
		}
		vs, err := encodeString(v)
		if err != nil {
			return err
		}
		_, _ = bw.Write(ks)
		_, _ = bw.WriteString(": ")
		_, _ = bw.Write(vs)
		if i < len(keys)-1 {
			_ = bw.WriteByte(',')
		}
		_ = bw.WriteByte('\n')
	}
	_, _ = bw.WriteString("}\n")
	return bw.Flush()
}

// MarshalJSON returns the WriteJSON rendering of d.
func MarshalJSON(d *dictionary.Simple, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, d, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("sink: encode %q: %w", s, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
