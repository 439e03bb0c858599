// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"io"
	"io/ioutil"

	"github.com/go-fetchx/fetchx/fault"
)

const badBodyTypeMsg = "fetchx/request: invalid type (for body use nil, " +
	"string, []byte, io.Reader or io.ReadCloser)"

// A BodyKind discriminates the variants of the Body tagged union.
type BodyKind int

const (
	// BodyAbsent indicates no request body at all: no Content-Length
	// header is derived and nothing is written to the transport.
	BodyAbsent BodyKind = iota
	// BodyText indicates a UTF-8 text body.
	BodyText
	// BodyBytes indicates a raw byte body.
	BodyBytes
)

// A Body is the request payload carried by a Spec: absent, a UTF-8
// string, or a byte sequence. The zero value is the absent body.
//
// Body is an explicit tagged union rather than an interface{} so that
// the text/bytes distinction survives normalization and can be
// round-tripped without re-sniffing.
type Body struct {
	kind BodyKind
	text string
	data []byte
}

// TextBody returns a Body holding the given UTF-8 text.
func TextBody(s string) Body {
	return Body{kind: BodyText, text: s}
}

// BytesBody returns a Body holding the given bytes.
func BytesBody(b []byte) Body {
	return Body{kind: BodyBytes, data: b}
}

// NewBody converts a generic body parameter into a Body.
//
// The body parameter may be nil (absent body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. If body is an io.Reader, it is
// read to the end and buffered. If body is an io.ReadCloser, it is
// closed after buffering. Read and close errors, and unsupported
// types, are reported as Config faults.
func NewBody(body interface{}) (Body, error) {
	switch x := body.(type) {
	case nil:
		return Body{}, nil
	case string:
		return TextBody(x), nil
	case []byte:
		return BytesBody(x), nil
	case io.ReadCloser:
		b, err := ioutil.ReadAll(x)
		if err != nil {
			return Body{}, fault.Wrap(fault.Config, err)
		}
		err = x.Close()
		if err != nil {
			return Body{}, fault.Wrap(fault.Config, err)
		}
		return BytesBody(b), nil
	case io.Reader:
		return NewBody(ioutil.NopCloser(x))
	default:
		return Body{}, fault.New(fault.Config, badBodyTypeMsg)
	}
}

// Kind returns the union variant the body holds.
func (b Body) Kind() BodyKind {
	return b.kind
}

// Absent reports whether the body is the absent variant.
func (b Body) Absent() bool {
	return b.kind == BodyAbsent
}

// Len returns the body length in bytes. An absent body has length
// zero.
func (b Body) Len() int {
	switch b.kind {
	case BodyText:
		return len(b.text)
	case BodyBytes:
		return len(b.data)
	default:
		return 0
	}
}

// Bytes returns the body content as bytes. Text bodies are encoded as
// UTF-8; the absent body yields nil.
func (b Body) Bytes() []byte {
	switch b.kind {
	case BodyText:
		return []byte(b.text)
	case BodyBytes:
		return b.data
	default:
		return nil
	}
}

// Text returns the body content as a string. Byte bodies are
// interpreted as UTF-8; the absent body yields the empty string.
func (b Body) Text() string {
	switch b.kind {
	case BodyText:
		return b.text
	case BodyBytes:
		return string(b.data)
	default:
		return ""
	}
}
