// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// A Kind is the taxonomy bucket of an error produced during an HTTP
// exchange, as reported by function KindOf().
//
// The kind None means the error does not belong to the exchange
// taxonomy at all (for example a nil error). All other kinds identify
// where in the exchange lifecycle the error arose, which is normally
// more useful to callers than the error text.
type Kind int

const (
	// None indicates a nil error, or an error that did not originate
	// in an HTTP exchange and carries no timeout signal.
	None Kind = iota
	// Config indicates invalid caller input detected synchronously
	// before any network activity: a bad URL, an out-of-range port, a
	// body of an unsupported type, and so on.
	Config
	// Redirect indicates the redirect protocol could not be followed,
	// either because the hop budget was exhausted or because the
	// outbound body had already been streamed and cannot be replayed.
	Redirect
	// ContentType indicates the response's classified content type did
	// not match the type the caller declared it expected.
	ContentType
	// Overflow indicates the response payload, declared or actual,
	// exceeds the configured byte limit.
	Overflow
	// Timeout indicates the whole-exchange deadline was exceeded.
	//
	// Function KindOf() will return Timeout if the error or any of its
	// wrapped causes has a Timeout() function that reports true.
	Timeout
	// Decode indicates a response body could not be decoded as
	// requested, for example malformed JSON, or well-formed JSON whose
	// top-level value is not an object.
	Decode
	// Transport indicates a failure surfaced by the transport adapter:
	// connection establishment, TLS negotiation, or a broken stream.
	Transport
	// Cancel indicates the caller tore the exchange down via Close()
	// before it finished. It is the only caller-initiated kind.
	Cancel

	// kindSentinel provides the total number of kinds typed as a Kind.
	kindSentinel

	// numKinds provides the total number of kinds typed as an int.
	numKinds = int(kindSentinel)
)

var kindNames = []string{
	"None",
	"Config",
	"Redirect",
	"ContentType",
	"Overflow",
	"Timeout",
	"Decode",
	"Transport",
	"Cancel",
}

// Name returns the name of the kind.
func (k Kind) Name() string {
	if k < 0 || int(k) >= numKinds {
		return "Invalid"
	}
	return kindNames[int(k)]
}

// String returns the name of the kind.
func (k Kind) String() string {
	return k.Name()
}

// An Error is a typed exchange error. It couples a Kind with a message
// and an optional wrapped cause.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

// New returns an error of the given kind with the given message.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Wrap returns an error of the given kind whose cause is err. The
// message of the returned error is err's message. Wrap panics if err
// is nil.
func Wrap(kind Kind, err error) *Error {
	if err == nil {
		panic("fetchx/fault: nil error")
	}
	return &Error{kind: kind, msg: err.Error(), cause: err}
}

// Kind returns the taxonomy bucket the error belongs to.
func (e *Error) Kind() Kind {
	return e.kind
}

// Error returns the error message.
func (e *Error) Error() string {
	return "fetchx: " + e.msg
}

// Unwrap returns the wrapped cause, which may be nil.
func (e *Error) Unwrap() error {
	return e.cause
}

// Timeout reports whether the error represents a deadline being
// exceeded, satisfying the timeout probing convention used by net/url
// and net/http.
func (e *Error) Timeout() bool {
	return e.kind == Timeout
}

// KindOf returns the taxonomy kind of the given error. A nil error
// produces None.
//
// In assessing the kind, KindOf looks at wrapped cause errors contained
// within err, not just err itself: the first *Error found determines
// the kind. An error outside the taxonomy is classified as Timeout if
// it or any of its wrapped causes has a Timeout() function that reports
// true, and None otherwise.
func KindOf(err error) Kind {
	if err == nil {
		return None
	}

	var fe *Error
	if errors.As(err, &fe) {
		return fe.kind
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	return None
}

type hasTimeout interface {
	Timeout() bool
}
