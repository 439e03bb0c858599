// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

// A SignalKind identifies the signal type when installing or running a
// Handler on a Stream.
type SignalKind int

const (
	// SignalHeaders identifies the signal delivered when response
	// headers arrive. The signal's Status and Header fields are set;
	// header names are lower-cased.
	SignalHeaders SignalKind = iota
	// SignalType identifies the signal delivered immediately after
	// SignalHeaders with the classified content-type tag in the
	// signal's Type field.
	SignalType
	// SignalData identifies the signal delivered for each body chunk.
	// The signal's Data field holds raw bytes, unless text decoding is
	// active (see Stream.SetEncoding), in which case the Text field
	// holds decoded UTF-8 and Data is nil.
	SignalData
	// SignalEnd identifies the terminal signal of a successful
	// exchange. No signal follows it.
	SignalEnd
	// SignalError identifies the terminal signal of a failed exchange.
	// The signal's Err field is set. No signal follows it.
	SignalError
	// kindSentinel provides the total number of signal kinds typed as
	// a SignalKind.
	kindSentinel

	// numKinds provides the total number of signal kinds as an int.
	numKinds = int(kindSentinel)
)

var kindNames = []string{
	"Headers",
	"Type",
	"Data",
	"End",
	"Error",
}

// Kinds returns a slice containing all signal kinds a Stream can
// deliver, in the order in which they would occur.
func Kinds() []SignalKind {
	return []SignalKind{
		SignalHeaders,
		SignalType,
		SignalData,
		SignalEnd,
		SignalError,
	}
}

// Name returns the name of the signal kind.
func (k SignalKind) Name() string {
	return kindNames[int(k)]
}

// String returns the name of the signal kind.
func (k SignalKind) String() string {
	return k.Name()
}

// A Signal is one lifecycle event of a streaming exchange. Kind
// selects which of the remaining fields are meaningful.
type Signal struct {
	// Kind is the signal type.
	Kind SignalKind
	// Status is the HTTP status code (SignalHeaders).
	Status int
	// Header contains the response headers with lower-cased names
	// (SignalHeaders).
	Header map[string][]string
	// Type is the classified content-type tag (SignalType).
	Type string
	// Data holds one chunk of raw body bytes (SignalData, when text
	// decoding is off).
	Data []byte
	// Text holds decoded UTF-8 body text (SignalData, when text
	// decoding is on). Characters are never split across signals.
	Text string
	// Err is the terminal error (SignalError).
	Err error
}
