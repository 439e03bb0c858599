// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package exchange implements the execution state machine that drives one
logical HTTP exchange: it opens physical requests through a
transport.Adapter, follows redirects under a replay-limited protocol,
enforces the whole-exchange deadline and the payload byte limit while
bytes are still arriving, classifies the response content type, and
completes exactly once no matter how many competing signals (natural
end, transport error, timer fire, caller cancellation) arrive.

An Exchange runs in one of two modes, selected by the Spec. In buffered
mode the body is accumulated — as incrementally decoded UTF-8 text when
the classified type is textual, as raw bytes otherwise — and the
exchange completes with a Response. In streaming mode incoming headers,
classified type, body chunks and the terminal outcome are forwarded to
a Sink as they happen, and the outbound side can be fed incrementally
through Write and End.

The state machine advances purely in response to externally delivered
events. Events arrive on transport and timer goroutines and are
serialized by the exchange's mutex; events from a connection that has
been torn down (a finished exchange, or a previous redirect hop) are
silently ignored.
*/
package exchange
