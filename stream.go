// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"github.com/go-fetchx/fetchx/exchange"
	"github.com/go-fetchx/fetchx/fault"
)

// A Stream is the caller-facing handle of a streaming exchange. It is
// created by Client.Stream in an idle state: register signal handlers
// with PushBack, then call Start. Body data, headers, and the terminal
// outcome arrive as Signals; the outbound body, if any, is fed with
// Write and finalized with End.
//
// Signals for one Stream are delivered serially and in order: Headers,
// Type, zero or more Data, then exactly one of End or Error. After a
// terminal signal no further signals are delivered. Close tears the
// stream down silently: it yields no signal at all.
type Stream struct {
	ex       *exchange.Exchange
	handlers HandlerGroup
}

// PushBack adds a signal handler to the back of the handler chain for
// the given signal kind. Handlers must be registered before Start;
// registration after Start races with delivery.
func (s *Stream) PushBack(kind SignalKind, h Handler) {
	s.handlers.PushBack(kind, h)
}

// Start begins the exchange. It does nothing if the stream has already
// started or finished.
func (s *Stream) Start() {
	s.ex.Start()
}

// Write sends outbound body bytes. It fails if the stream has not
// started or has finished.
func (s *Stream) Write(p []byte) error {
	return s.ex.Write(p)
}

// End finalizes the outbound body. Call it after the last Write; for
// requests without an outbound body it is unnecessary.
func (s *Stream) End() error {
	return s.ex.End()
}

// SetEncoding controls how body data is delivered: with encoding
// "utf-8" (or "utf8"), SignalData signals carry decoded text in their
// Text field, with multi-byte characters never split across signals;
// with the empty encoding, chunks are delivered as raw bytes in Data.
// Any other encoding fails with a Config fault.
func (s *Stream) SetEncoding(encoding string) error {
	switch encoding {
	case "utf-8", "utf8", "UTF-8":
		return s.ex.SetTextDecoding(true)
	case "":
		return s.ex.SetTextDecoding(false)
	default:
		return fault.New(fault.Config, "unsupported encoding "+encoding)
	}
}

// Close cancels the exchange and releases its connection. It is
// idempotent, safe to call at any time, and silent: no signal is
// delivered as a consequence of Close.
func (s *Stream) Close() {
	s.ex.Close()
}

// State returns the current lifecycle state of the underlying
// exchange.
func (s *Stream) State() exchange.State {
	return s.ex.State()
}

// streamSink adapts the exchange sink callbacks onto the stream's
// handler chains.
type streamSink struct {
	s *Stream
}

func (k *streamSink) OnHeaders(status int, header map[string][]string) {
	k.s.handlers.run(Signal{Kind: SignalHeaders, Status: status, Header: header})
}

func (k *streamSink) OnType(tag string) {
	k.s.handlers.run(Signal{Kind: SignalType, Type: tag})
}

func (k *streamSink) OnData(p []byte) {
	k.s.handlers.run(Signal{Kind: SignalData, Data: p})
}

func (k *streamSink) OnText(text string) {
	k.s.handlers.run(Signal{Kind: SignalData, Text: text})
}

func (k *streamSink) OnEnd() {
	k.s.handlers.run(Signal{Kind: SignalEnd})
}

func (k *streamSink) OnError(err error) {
	k.s.handlers.run(Signal{Kind: SignalError, Err: err})
}
