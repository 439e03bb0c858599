// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package exchange

// A State identifies where an Exchange is in its lifecycle.
//
// The lifecycle is Idle → Connecting → HeadersPending →
// (Redirecting → Connecting)* → BodyStreaming → Complete, with Failed
// and Closed reachable from any non-terminal state. Complete, Failed
// and Closed are terminal: once an exchange reaches one of them its
// state never changes again.
type State int

const (
	// Idle is the initial state, before Start.
	Idle State = iota
	// Connecting means a physical request has been opened and response
	// headers have not yet arrived.
	Connecting
	// HeadersPending means response headers have arrived and are being
	// classified.
	HeadersPending
	// Redirecting means a redirect response is being followed: the old
	// connection is torn down and a new one is about to be opened.
	Redirecting
	// BodyStreaming means response body bytes are being received.
	BodyStreaming
	// Complete means the exchange finished successfully.
	Complete
	// Failed means the exchange finished with an error.
	Failed
	// Closed means the caller tore the exchange down before it
	// finished.
	Closed

	// stateSentinel provides the total number of states typed as a
	// State.
	stateSentinel

	// numStates provides the total number of states typed as an int.
	numStates = int(stateSentinel)
)

var stateNames = []string{
	"Idle",
	"Connecting",
	"HeadersPending",
	"Redirecting",
	"BodyStreaming",
	"Complete",
	"Failed",
	"Closed",
}

// Name returns the name of the state.
func (s State) Name() string {
	if s < 0 || int(s) >= numStates {
		return "Invalid"
	}
	return stateNames[int(s)]
}

// String returns the name of the state.
func (s State) String() string {
	return s.Name()
}

// Terminal reports whether the state is one of the three terminal
// states.
func (s State) Terminal() bool {
	return s == Complete || s == Failed || s == Closed
}
