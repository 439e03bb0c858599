// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package exchange

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-fetchx/fetchx/fault"
	"github.com/go-fetchx/fetchx/mimetype"
	"github.com/go-fetchx/fetchx/redirect"
	"github.com/go-fetchx/fetchx/request"
	"github.com/go-fetchx/fetchx/transport"
)

// ErrClosed is the terminal error of an exchange torn down by the
// caller via Close before it finished.
var ErrClosed error = fault.New(fault.Cancel, "exchange closed")

// A Sink receives the lifecycle of a streaming-mode exchange. Sink
// methods are never called concurrently, headers always precede data,
// data is delivered in receipt order, and exactly one of OnEnd or
// OnError is called last — unless the caller closes the exchange
// first, in which case delivery simply stops.
//
// Sink methods may call back into the Exchange (including Close).
type Sink interface {
	// OnHeaders delivers the response status and headers (lower-cased
	// names).
	OnHeaders(status int, header map[string][]string)
	// OnType delivers the classified content-type tag. It is called
	// immediately after OnHeaders.
	OnType(tag string)
	// OnData delivers one chunk of raw body bytes. It is not called
	// while text decoding is active.
	OnData(p []byte)
	// OnText delivers decoded UTF-8 text while text decoding is
	// active. Only complete characters are delivered.
	OnText(s string)
	// OnEnd signals successful completion.
	OnEnd()
	// OnError signals terminal failure.
	OnError(err error)
}

// A Config carries the collaborators an Exchange is constructed with.
// Nil fields take package defaults.
type Config struct {
	// Transport opens physical requests. Nil means transport.Default.
	Transport transport.Adapter
	// Mime classifies content types. Nil means mimetype.Default.
	Mime mimetype.Lookup
	// Sink receives streaming-mode lifecycle signals. It is required
	// when the spec selects streaming mode and ignored in buffered
	// mode.
	Sink Sink
}

// An Exchange drives one logical HTTP exchange, which may span
// multiple physical connections due to redirects. Create one with New,
// start it with Start, and either wait on Done and collect Result
// (buffered mode) or receive lifecycle signals through the configured
// Sink (streaming mode).
//
// An Exchange may be touched from multiple goroutines; all entry
// points are safe for concurrent use. It cannot be reused: one
// Exchange executes exactly one logical exchange.
type Exchange struct {
	mu sync.Mutex
	// emitMu serializes sink emission so that no signal can be
	// delivered after the terminal one.
	emitMu sync.Mutex

	spec    *request.Spec
	adapter transport.Adapter
	mime    mimetype.Lookup
	sink    Sink
	hasOut  bool

	state      State
	conn       transport.Conn
	gen        int
	timer      *time.Timer
	timerArmed bool
	hops       int
	wroteBody  bool
	received   int64
	finished   bool

	status int
	header map[string][]string
	tag    string
	acc    *accumulator

	textMode bool
	dec      *textDecoder

	resp *Response
	err  error
	done chan struct{}
}

// bodylessMethods lists the methods whose streaming-mode requests are
// finalized immediately instead of waiting for caller writes.
var bodylessMethods = map[string]bool{
	"GET":     true,
	"HEAD":    true,
	"OPTIONS": true,
	"TRACE":   true,
	"CONNECT": true,
}

// New returns an exchange for the given spec. The spec is copied, so
// the caller's value is never modified and may be reused. New panics
// if spec is nil, or if the spec selects streaming mode and cfg.Sink
// is nil.
func New(spec *request.Spec, cfg Config) *Exchange {
	if spec == nil {
		panic("fetchx/exchange: nil spec")
	}
	if !spec.Buffer && cfg.Sink == nil {
		panic("fetchx/exchange: nil sink for streaming exchange")
	}
	adapter := cfg.Transport
	if adapter == nil {
		adapter = transport.Default
	}
	table := cfg.Mime
	if table == nil {
		table = mimetype.Default
	}
	s := spec.Clone()
	x := &Exchange{
		spec:    s,
		adapter: adapter,
		mime:    table,
		done:    make(chan struct{}),
	}
	if s.Buffer {
		x.hasOut = !s.Body.Absent()
	} else {
		x.sink = cfg.Sink
		x.hasOut = !s.Body.Absent() || !bodylessMethods[s.Method]
	}
	return x
}

// Start opens the first physical connection and arms the
// whole-exchange timer. The timer is armed exactly once: redirect hops
// reuse the original deadline. Start does nothing if the exchange has
// already started or finished; failures to open are reported through
// the usual terminal path, not returned.
func (x *Exchange) Start() {
	x.mu.Lock()
	if x.state != Idle || x.finished {
		x.mu.Unlock()
		return
	}
	if x.spec.Timeout > 0 && !x.timerArmed {
		x.timerArmed = true
		x.timer = time.AfterFunc(x.spec.Timeout, x.onTimeout)
	}
	conn, gen, err := x.openLocked()
	x.mu.Unlock()
	if err != nil {
		x.fail(gen, err)
		return
	}
	x.finalizeOutbound(conn, gen)
}

// openLocked opens a physical request for the current spec. The caller
// must hold x.mu.
func (x *Exchange) openLocked() (transport.Conn, int, error) {
	x.gen++
	gen := x.gen
	conn, err := x.adapter.Open(transport.Request{
		Method:    x.spec.Method,
		URL:       x.spec.URL,
		Header:    x.spec.Header,
		HasBody:   x.hasOut,
		StrictSSL: x.spec.StrictSSL,
	}, &connListener{x: x, gen: gen})
	if err != nil {
		return nil, gen, err
	}
	x.conn = conn
	x.state = Connecting
	return conn, gen, nil
}

// finalizeOutbound sends the spec's inline body, if any, and finalizes
// the outbound side unless the caller is expected to feed it
// incrementally. It runs without the lock: pipe writes can block until
// the transport consumes them.
func (x *Exchange) finalizeOutbound(conn transport.Conn, gen int) {
	body := x.spec.Body
	if !body.Absent() {
		if err := conn.Write(body.Bytes()); err != nil {
			x.fail(gen, err)
			return
		}
		x.mu.Lock()
		if !x.staleLocked(gen) {
			x.wroteBody = true
		}
		x.mu.Unlock()
		if err := conn.End(); err != nil {
			x.fail(gen, err)
		}
		return
	}
	if !x.hasOut {
		_ = conn.End()
	}
	// Otherwise the caller drives the outbound side via Write and End.
}

// Write sends outbound body bytes (streaming mode). It fails if the
// exchange has not started or has finished.
func (x *Exchange) Write(p []byte) error {
	x.mu.Lock()
	if x.finished {
		x.mu.Unlock()
		return fault.New(fault.Cancel, "exchange finished")
	}
	conn := x.conn
	if conn == nil {
		x.mu.Unlock()
		return fault.New(fault.Config, "exchange not started")
	}
	if len(p) > 0 {
		x.wroteBody = true
	}
	x.mu.Unlock()
	return conn.Write(p)
}

// End finalizes the outbound body (streaming mode).
func (x *Exchange) End() error {
	x.mu.Lock()
	conn := x.conn
	x.mu.Unlock()
	if conn == nil {
		return fault.New(fault.Config, "exchange not started")
	}
	return conn.End()
}

// SetTextDecoding turns incremental UTF-8 decoding of body data on or
// off for a streaming exchange: while on, body data is delivered
// through Sink.OnText as complete characters instead of Sink.OnData.
// It fails on a buffered exchange.
func (x *Exchange) SetTextDecoding(on bool) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.spec.Buffer {
		return fault.New(fault.Config, "text decoding applies to streaming exchanges only")
	}
	if on && !x.textMode {
		x.dec = newTextDecoder()
	}
	x.textMode = on
	return nil
}

// Close tears the exchange down: the live connection, if any, is
// aborted and the timer cleared. If the exchange already finished,
// Close does nothing. Otherwise the exchange transitions to Closed
// with ErrClosed as its result — silently: no further signals are
// delivered to the sink. Close is idempotent and never panics.
func (x *Exchange) Close() {
	x.mu.Lock()
	if x.finished {
		x.mu.Unlock()
		return
	}
	x.teardownLocked()
	x.err = ErrClosed
	x.finishLocked(Closed)
	x.mu.Unlock()
}

// Done returns a channel that is closed when the exchange reaches a
// terminal state.
func (x *Exchange) Done() <-chan struct{} {
	return x.done
}

// Result returns the terminal response and error. In buffered mode
// exactly one of the two is non-nil once the exchange is done; call it
// after Done is closed. Streaming exchanges never produce a Response.
func (x *Exchange) Result() (*Response, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.resp, x.err
}

// State returns the current lifecycle state.
func (x *Exchange) State() State {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state
}

// staleLocked reports whether an event from generation gen should be
// ignored: the exchange finished, or the event is from a connection
// belonging to a previous redirect hop.
func (x *Exchange) staleLocked(gen int) bool {
	return x.finished || gen != x.gen
}

// finishLocked performs the terminal transition exactly once. The
// caller must hold x.mu and must have checked x.finished.
func (x *Exchange) finishLocked(s State) {
	x.finished = true
	x.state = s
	if x.timer != nil {
		x.timer.Stop()
		x.timer = nil
	}
	close(x.done)
}

// teardownLocked releases the live connection, if any. The caller must
// hold x.mu.
func (x *Exchange) teardownLocked() {
	if x.conn != nil {
		x.conn.Abort()
		x.conn = nil
	}
}

func (x *Exchange) onTimeout() {
	x.fail(-1, fault.New(fault.Timeout, "exchange timed out"))
}

// fail performs the Failed transition, ignoring stale and post-terminal
// signals. A negative gen means the signal is not tied to a particular
// connection (timer fire, open failure follow-up).
func (x *Exchange) fail(gen int, err error) {
	x.mu.Lock()
	if x.finished || (gen >= 0 && gen != x.gen) {
		x.mu.Unlock()
		return
	}
	x.teardownLocked()
	x.err = err
	x.finishLocked(Failed)
	sink := x.sink
	x.mu.Unlock()
	if sink != nil {
		x.emitMu.Lock()
		sink.OnError(err)
		x.emitMu.Unlock()
	}
}

func (x *Exchange) onHeaders(gen int, status int, header http.Header) {
	x.mu.Lock()
	if x.staleLocked(gen) {
		x.mu.Unlock()
		return
	}
	x.state = HeadersPending

	if loc := header.Get("Location"); loc != "" {
		x.redirectLocked(loc)
		return
	}

	tag := x.mime.Tag(header.Get("Content-Type"))
	if x.spec.Expect != "" && tag != x.spec.Expect {
		x.mu.Unlock()
		x.fail(gen, fault.New(fault.ContentType, "unexpected content type "+tag+" (expected "+x.spec.Expect+")"))
		return
	}

	// Short-circuit a declared overflow before transferring the body.
	if x.spec.Buffer && x.spec.Limit > 0 {
		if cl := header.Get("Content-Length"); cl != "" && isOverflow(cl, x.spec.Limit) {
			x.mu.Unlock()
			x.fail(gen, fault.New(fault.Overflow, "declared content length exceeds limit"))
			return
		}
	}

	x.state = BodyStreaming
	x.status = status
	x.header = lowerHeader(header)
	x.tag = tag
	if x.spec.Buffer {
		x.acc = newAccumulator(x.mime.Textual(tag))
		x.mu.Unlock()
		return
	}
	sink := x.sink
	lowered := x.header
	x.mu.Unlock()
	x.emitMu.Lock()
	x.mu.Lock()
	finished := x.finished
	x.mu.Unlock()
	if !finished {
		sink.OnHeaders(status, lowered)
		sink.OnType(tag)
	}
	x.emitMu.Unlock()
}

// redirectLocked follows a Location header: it validates the hop
// budget and replay constraint, tears down the current connection,
// resolves the new URL relative to the current one, and opens the next
// hop. The caller must hold x.mu; redirectLocked releases it.
func (x *Exchange) redirectLocked(location string) {
	if redirect.Exceeded(x.hops, x.spec.MaxRedirects) {
		x.mu.Unlock()
		x.fail(-1, fault.New(fault.Redirect, "too many redirects"))
		return
	}
	if !x.spec.Buffer && x.wroteBody {
		x.mu.Unlock()
		x.fail(-1, fault.New(fault.Redirect, "cannot resend body"))
		return
	}
	u, err := redirect.Resolve(x.spec.URL, location)
	if err != nil {
		x.mu.Unlock()
		x.fail(-1, err)
		return
	}

	x.hops++
	x.state = Redirecting
	x.teardownLocked()
	x.spec.URL = u

	conn, gen, err := x.openLocked()
	x.mu.Unlock()
	if err != nil {
		x.fail(gen, err)
		return
	}
	x.finalizeOutbound(conn, gen)
}

func (x *Exchange) onData(gen int, p []byte) {
	x.mu.Lock()
	if x.staleLocked(gen) {
		x.mu.Unlock()
		return
	}
	x.received += int64(len(p))

	if x.spec.Buffer {
		// The live counter is the real enforcement: declared lengths
		// can lie or be absent entirely.
		if x.spec.Limit > 0 && x.received > x.spec.Limit {
			x.mu.Unlock()
			x.fail(gen, fault.New(fault.Overflow, "payload exceeds limit"))
			return
		}
		x.acc.write(p)
		x.mu.Unlock()
		return
	}

	sink := x.sink
	textMode := x.textMode
	var s string
	if textMode {
		s = x.dec.Write(p)
	}
	x.mu.Unlock()

	x.emitMu.Lock()
	x.mu.Lock()
	finished := x.finished
	x.mu.Unlock()
	if !finished {
		if textMode {
			if s != "" {
				sink.OnText(s)
			}
		} else {
			sink.OnData(p)
		}
	}
	x.emitMu.Unlock()
}

func (x *Exchange) onEnd(gen int) {
	x.mu.Lock()
	if x.staleLocked(gen) {
		x.mu.Unlock()
		return
	}

	if x.spec.Buffer {
		x.acc.finish()
		resp := &Response{
			StatusCode: x.status,
			Header:     x.header,
			Type:       x.tag,
			textual:    x.acc.textual,
		}
		if x.acc.textual {
			resp.text = x.acc.text.String()
		} else {
			resp.data = x.acc.data.Bytes()
		}
		x.resp = resp
		x.finishLocked(Complete)
		x.mu.Unlock()
		return
	}

	var tail string
	if x.textMode {
		tail = x.dec.Flush()
	}
	sink := x.sink
	x.finishLocked(Complete)
	x.mu.Unlock()
	x.emitMu.Lock()
	if tail != "" {
		sink.OnText(tail)
	}
	sink.OnEnd()
	x.emitMu.Unlock()
}

// connListener binds transport events from one physical connection to
// its generation, so a stale connection can never deliver into a later
// hop.
type connListener struct {
	x   *Exchange
	gen int
}

func (l *connListener) OnHeaders(status int, header http.Header) {
	l.x.onHeaders(l.gen, status, header)
}

func (l *connListener) OnData(p []byte) {
	l.x.onData(l.gen, p)
}

func (l *connListener) OnEnd() {
	l.x.onEnd(l.gen)
}

func (l *connListener) OnError(err error) {
	l.x.fail(l.gen, err)
}
