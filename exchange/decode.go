// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package exchange

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// A textDecoder incrementally decodes a UTF-8 byte stream. A rune
// split across chunk boundaries is never emitted in pieces: the
// trailing incomplete bytes of a chunk (at most three) are carried
// over and prepended to the next chunk. Ill-formed sequences decode to
// U+FFFD, matching the standard streaming decoder.
type textDecoder struct {
	t     transform.Transformer
	carry []byte
}

func newTextDecoder() *textDecoder {
	return &textDecoder{t: unicode.UTF8.NewDecoder()}
}

// Write decodes as much of p as ends on a rune boundary and returns
// the decoded text, which may be empty.
func (d *textDecoder) Write(p []byte) string {
	return d.decode(p, false)
}

// Flush decodes any carried bytes as the final input and returns the
// decoded text, which may be empty. The decoder must not be written
// to after Flush.
func (d *textDecoder) Flush() string {
	return d.decode(nil, true)
}

func (d *textDecoder) decode(p []byte, atEOF bool) string {
	src := p
	if len(d.carry) > 0 {
		src = append(d.carry, p...)
		d.carry = nil
	}
	if len(src) == 0 && !atEOF {
		return ""
	}

	var out []byte
	dst := make([]byte, len(src)+utf8MaxExpansion)
	for {
		nDst, nSrc, err := d.t.Transform(dst, src, atEOF)
		out = append(out, dst[:nDst]...)
		src = src[nSrc:]
		if err == transform.ErrShortDst {
			continue
		}
		// nil or ErrShortSrc: anything left in src is an incomplete
		// trailing rune to carry into the next chunk.
		break
	}
	if len(src) > 0 {
		d.carry = append(d.carry[:0], src...)
	}
	return string(out)
}

// utf8MaxExpansion covers the worst case of a short chunk decoding to
// replacement runes (3 bytes each).
const utf8MaxExpansion = 16

// An accumulator collects a buffered-mode response body: as
// incrementally decoded text when the classified type is textual, as
// raw bytes otherwise.
type accumulator struct {
	textual bool
	dec     *textDecoder
	text    strings.Builder
	data    bytes.Buffer
}

func newAccumulator(textual bool) *accumulator {
	a := &accumulator{textual: textual}
	if textual {
		a.dec = newTextDecoder()
	}
	return a
}

func (a *accumulator) write(p []byte) {
	if a.textual {
		a.text.WriteString(a.dec.Write(p))
		return
	}
	a.data.Write(p)
}

// finish flushes any pending partial decoder state.
func (a *accumulator) finish() {
	if a.textual {
		a.text.WriteString(a.dec.Flush())
	}
}
