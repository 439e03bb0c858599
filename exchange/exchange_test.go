// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package exchange

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-fetchx/fetchx/fault"
	"github.com/go-fetchx/fetchx/request"
	"github.com/go-fetchx/fetchx/transport"
)

// fakeConn records the outbound side of one physical request.
type fakeConn struct {
	mu      sync.Mutex
	wrote   bytes.Buffer
	ended   bool
	aborted bool
}

func (c *fakeConn) Write(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wrote.Write(p)
	return nil
}

func (c *fakeConn) End() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ended = true
	return nil
}

func (c *fakeConn) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aborted = true
}

func (c *fakeConn) written() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wrote.String()
}

func (c *fakeConn) wasAborted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aborted
}

type fakeOpen struct {
	req  transport.Request
	lis  transport.Listener
	conn *fakeConn
}

// fakeAdapter records every Open and lets the test deliver inbound
// events by hand.
type fakeAdapter struct {
	mu      sync.Mutex
	opens   []*fakeOpen
	openErr error
}

func (a *fakeAdapter) Open(r transport.Request, l transport.Listener) (transport.Conn, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.openErr != nil {
		return nil, a.openErr
	}
	o := &fakeOpen{req: r, lis: l, conn: &fakeConn{}}
	a.opens = append(a.opens, o)
	return o.conn, nil
}

func (a *fakeAdapter) open(i int) *fakeOpen {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.opens[i]
}

func (a *fakeAdapter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.opens)
}

// recordSink records streaming signals in delivery order.
type recordSink struct {
	mu     sync.Mutex
	order  []string
	status int
	tag    string
	data   bytes.Buffer
	text   strings.Builder
	err    error
}

func (s *recordSink) OnHeaders(status int, header map[string][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, "headers")
	s.status = status
}

func (s *recordSink) OnType(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, "type")
	s.tag = tag
}

func (s *recordSink) OnData(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, "data")
	s.data.Write(p)
}

func (s *recordSink) OnText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, "text")
	s.text.WriteString(text)
}

func (s *recordSink) OnEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, "end")
}

func (s *recordSink) OnError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, "error")
	s.err = err
}

func (s *recordSink) signals() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

func mustSpec(t *testing.T, input interface{}, buffer bool) *request.Spec {
	t.Helper()
	spec, err := request.Normalize(input, buffer)
	require.NoError(t, err)
	return spec
}

func jsonHeader() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return h
}

func TestBufferedSuccess(t *testing.T) {
	a := &fakeAdapter{}
	x := New(mustSpec(t, "http://example.com/items", true), Config{Transport: a})
	x.Start()

	o := a.open(0)
	assert.Equal(t, "GET", o.req.Method)
	assert.False(t, o.req.HasBody)
	assert.True(t, o.conn.ended)

	o.lis.OnHeaders(200, jsonHeader())
	o.lis.OnData([]byte(`{"a"`))
	o.lis.OnData([]byte(`:1}`))
	o.lis.OnEnd()

	<-x.Done()
	resp, err := x.Result()
	require.NoError(t, err)
	assert.Equal(t, Complete, x.State())
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "json", resp.Type)
	assert.Equal(t, []string{"application/json"}, resp.Header["content-type"])
	m, err := resp.JSON()
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, m)
}

func TestBufferedBinary(t *testing.T) {
	a := &fakeAdapter{}
	x := New(mustSpec(t, "http://example.com/img", true), Config{Transport: a})
	x.Start()

	o := a.open(0)
	h := http.Header{}
	h.Set("Content-Type", "image/png")
	o.lis.OnHeaders(200, h)
	o.lis.OnData([]byte{0x89, 0x50})
	o.lis.OnEnd()

	<-x.Done()
	resp, err := x.Result()
	require.NoError(t, err)
	assert.Equal(t, "bin", resp.Type)
	assert.Equal(t, []byte{0x89, 0x50}, resp.Bytes())
}

func TestBufferedTextSplitRune(t *testing.T) {
	a := &fakeAdapter{}
	x := New(mustSpec(t, "http://example.com/t", true), Config{Transport: a})
	x.Start()

	o := a.open(0)
	h := http.Header{}
	h.Set("Content-Type", "text/plain; charset=utf-8")
	o.lis.OnHeaders(200, h)
	b := []byte("héllo")
	o.lis.OnData(b[:2]) // splits é
	o.lis.OnData(b[2:])
	o.lis.OnEnd()

	<-x.Done()
	resp, err := x.Result()
	require.NoError(t, err)
	assert.Equal(t, "héllo", resp.Text())
}

func TestRedirectChainWithinBudget(t *testing.T) {
	a := &fakeAdapter{}
	spec := mustSpec(t, request.Options{URL: "http://example.com/a", MaxRedirects: 2}, true)
	x := New(spec, Config{Transport: a})
	x.Start()

	h := http.Header{}
	h.Set("Location", "/b")
	a.open(0).lis.OnHeaders(301, h)
	assert.True(t, a.open(0).conn.wasAborted())

	require.Equal(t, 2, a.count())
	assert.Equal(t, "http://example.com/b", a.open(1).req.URL.String())

	h = http.Header{}
	h.Set("Location", "http://other.example.org/c")
	a.open(1).lis.OnHeaders(302, h)
	assert.True(t, a.open(1).conn.wasAborted())

	require.Equal(t, 3, a.count())
	assert.Equal(t, "http://other.example.org/c", a.open(2).req.URL.String())

	a.open(2).lis.OnHeaders(200, jsonHeader())
	a.open(2).lis.OnData([]byte("{}"))
	a.open(2).lis.OnEnd()

	<-x.Done()
	resp, err := x.Result()
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRedirectTooMany(t *testing.T) {
	a := &fakeAdapter{}
	spec := mustSpec(t, request.Options{URL: "http://example.com/a", MaxRedirects: 1}, true)
	x := New(spec, Config{Transport: a})
	x.Start()

	h := http.Header{}
	h.Set("Location", "/b")
	a.open(0).lis.OnHeaders(301, h)
	require.Equal(t, 2, a.count())
	a.open(1).lis.OnHeaders(301, h)

	<-x.Done()
	_, err := x.Result()
	require.Error(t, err)
	assert.Equal(t, fault.Redirect, fault.KindOf(err))
	assert.EqualError(t, err, "fetchx: too many redirects")
	assert.Equal(t, Failed, x.State())
	assert.True(t, a.open(1).conn.wasAborted())
}

func TestRedirectCannotResendBody(t *testing.T) {
	a := &fakeAdapter{}
	sink := &recordSink{}
	spec := mustSpec(t, request.Options{URL: "http://example.com/up", Method: "POST"}, false)
	x := New(spec, Config{Transport: a, Sink: sink})
	x.Start()

	o := a.open(0)
	assert.True(t, o.req.HasBody)
	require.NoError(t, x.Write([]byte("partial")))

	h := http.Header{}
	h.Set("Location", "/elsewhere")
	o.lis.OnHeaders(307, h)

	<-x.Done()
	_, err := x.Result()
	require.Error(t, err)
	assert.Equal(t, fault.Redirect, fault.KindOf(err))
	assert.EqualError(t, err, "fetchx: cannot resend body")
	assert.Equal(t, 1, a.count())
	assert.Equal(t, []string{"error"}, sink.signals())
}

func TestRedirectBufferedResendsBody(t *testing.T) {
	a := &fakeAdapter{}
	spec := mustSpec(t, request.Options{URL: "http://example.com/up", Method: "POST", Body: "payload"}, true)
	x := New(spec, Config{Transport: a})
	x.Start()

	o := a.open(0)
	assert.Equal(t, "payload", o.conn.written())
	assert.True(t, o.conn.ended)

	h := http.Header{}
	h.Set("Location", "/elsewhere")
	o.lis.OnHeaders(307, h)

	require.Equal(t, 2, a.count())
	o2 := a.open(1)
	assert.Equal(t, "payload", o2.conn.written())

	o2.lis.OnHeaders(200, jsonHeader())
	o2.lis.OnEnd()

	<-x.Done()
	_, err := x.Result()
	assert.NoError(t, err)
}

func TestContentLengthPrecheck(t *testing.T) {
	a := &fakeAdapter{}
	spec := mustSpec(t, request.Options{URL: "http://example.com/big", Limit: 1000}, true)
	x := New(spec, Config{Transport: a})
	x.Start()

	o := a.open(0)
	h := jsonHeader()
	h.Set("Content-Length", "9999999999999999999")
	o.lis.OnHeaders(200, h)

	<-x.Done()
	_, err := x.Result()
	require.Error(t, err)
	assert.Equal(t, fault.Overflow, fault.KindOf(err))
	assert.True(t, o.conn.wasAborted())

	// Late data from the torn-down connection is ignored.
	o.lis.OnData([]byte("x"))
	_, err2 := x.Result()
	assert.Same(t, err, err2)
}

func TestActualOverflow(t *testing.T) {
	a := &fakeAdapter{}
	spec := mustSpec(t, request.Options{URL: "http://example.com/lies", Limit: 10}, true)
	x := New(spec, Config{Transport: a})
	x.Start()

	o := a.open(0)
	// No Content-Length header at all: the live counter must catch it.
	o.lis.OnHeaders(200, jsonHeader())
	o.lis.OnData([]byte("123456"))
	o.lis.OnData([]byte("789012"))

	<-x.Done()
	_, err := x.Result()
	require.Error(t, err)
	assert.Equal(t, fault.Overflow, fault.KindOf(err))
}

func TestExpectMismatch(t *testing.T) {
	a := &fakeAdapter{}
	spec := mustSpec(t, request.Options{URL: "http://example.com/api", Expect: "json"}, true)
	x := New(spec, Config{Transport: a})
	x.Start()

	h := http.Header{}
	h.Set("Content-Type", "text/html")
	a.open(0).lis.OnHeaders(200, h)

	<-x.Done()
	_, err := x.Result()
	require.Error(t, err)
	assert.Equal(t, fault.ContentType, fault.KindOf(err))
}

func TestTransportError(t *testing.T) {
	a := &fakeAdapter{}
	x := New(mustSpec(t, "http://example.com", true), Config{Transport: a})
	x.Start()

	cause := fault.New(fault.Transport, "connection refused")
	a.open(0).lis.OnError(cause)

	<-x.Done()
	_, err := x.Result()
	assert.Same(t, error(cause), err)
	assert.Equal(t, Failed, x.State())
}

func TestTimeout(t *testing.T) {
	a := &fakeAdapter{}
	spec := mustSpec(t, request.Options{URL: "http://example.com/slow", Timeout: 20 * time.Millisecond}, true)
	x := New(spec, Config{Transport: a})
	x.Start()

	select {
	case <-x.Done():
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
	_, err := x.Result()
	require.Error(t, err)
	assert.Equal(t, fault.Timeout, fault.KindOf(err))
	assert.True(t, a.open(0).conn.wasAborted())
}

func TestTerminalOnce(t *testing.T) {
	a := &fakeAdapter{}
	x := New(mustSpec(t, "http://example.com", true), Config{Transport: a})
	x.Start()

	o := a.open(0)
	o.lis.OnHeaders(200, jsonHeader())

	// Natural end and a transport error race; exactly one must win,
	// and the second must be a silent no-op.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		o.lis.OnEnd()
	}()
	go func() {
		defer wg.Done()
		o.lis.OnError(errors.New("late failure"))
	}()
	wg.Wait()

	<-x.Done()
	assert.True(t, x.State().Terminal())
	resp, err := x.Result()
	if err != nil {
		assert.Nil(t, resp)
		assert.Equal(t, Failed, x.State())
	} else {
		assert.NotNil(t, resp)
		assert.Equal(t, Complete, x.State())
	}
}

func TestClose(t *testing.T) {
	t.Run("buffered", func(t *testing.T) {
		a := &fakeAdapter{}
		x := New(mustSpec(t, "http://example.com", true), Config{Transport: a})
		x.Start()
		x.Close()
		<-x.Done()
		_, err := x.Result()
		assert.Same(t, ErrClosed, err)
		assert.Equal(t, Closed, x.State())
		assert.True(t, a.open(0).conn.wasAborted())

		// Idempotent, and late events stay ignored.
		x.Close()
		a.open(0).lis.OnHeaders(200, jsonHeader())
		assert.Equal(t, Closed, x.State())
	})
	t.Run("streaming is silent", func(t *testing.T) {
		a := &fakeAdapter{}
		sink := &recordSink{}
		x := New(mustSpec(t, "http://example.com", false), Config{Transport: a, Sink: sink})
		x.Start()
		a.open(0).lis.OnHeaders(200, jsonHeader())
		x.Close()
		a.open(0).lis.OnData([]byte("late"))
		a.open(0).lis.OnEnd()
		assert.Equal(t, []string{"headers", "type"}, sink.signals())
	})
	t.Run("after completion is a no-op", func(t *testing.T) {
		a := &fakeAdapter{}
		x := New(mustSpec(t, "http://example.com", true), Config{Transport: a})
		x.Start()
		o := a.open(0)
		o.lis.OnHeaders(200, jsonHeader())
		o.lis.OnEnd()
		<-x.Done()
		x.Close()
		_, err := x.Result()
		assert.NoError(t, err)
		assert.Equal(t, Complete, x.State())
	})
}

func TestStreamingSignalOrder(t *testing.T) {
	a := &fakeAdapter{}
	sink := &recordSink{}
	x := New(mustSpec(t, "http://example.com/feed", false), Config{Transport: a, Sink: sink})
	x.Start()

	o := a.open(0)
	assert.False(t, o.req.HasBody) // GET streams finalize outbound immediately
	o.lis.OnHeaders(200, jsonHeader())
	o.lis.OnData([]byte("chunk1"))
	o.lis.OnData([]byte("chunk2"))
	o.lis.OnEnd()

	<-x.Done()
	assert.Equal(t, []string{"headers", "type", "data", "data", "end"}, sink.signals())
	assert.Equal(t, 200, sink.status)
	assert.Equal(t, "json", sink.tag)
	assert.Equal(t, "chunk1chunk2", sink.data.String())
}

func TestStreamingTextDecoding(t *testing.T) {
	a := &fakeAdapter{}
	sink := &recordSink{}
	x := New(mustSpec(t, "http://example.com/text", false), Config{Transport: a, Sink: sink})
	require.NoError(t, x.SetTextDecoding(true))
	x.Start()

	o := a.open(0)
	h := http.Header{}
	h.Set("Content-Type", "text/plain")
	o.lis.OnHeaders(200, h)
	b := []byte("a🚀b")
	o.lis.OnData(b[:2]) // "a" plus the first byte of the rocket
	o.lis.OnData(b[2:])
	o.lis.OnEnd()

	<-x.Done()
	assert.Equal(t, "a🚀b", sink.text.String())
	for _, sig := range sink.signals() {
		assert.NotEqual(t, "data", sig)
	}
}

func TestStaleConnectionIgnored(t *testing.T) {
	a := &fakeAdapter{}
	spec := mustSpec(t, request.Options{URL: "http://example.com/a", MaxRedirects: 3}, true)
	x := New(spec, Config{Transport: a})
	x.Start()

	h := http.Header{}
	h.Set("Location", "/b")
	stale := a.open(0)
	stale.lis.OnHeaders(301, h)
	require.Equal(t, 2, a.count())

	// The first hop's connection tries to keep talking.
	stale.lis.OnData([]byte("zombie"))
	stale.lis.OnEnd()
	stale.lis.OnError(errors.New("zombie error"))
	assert.False(t, x.State().Terminal())

	live := a.open(1)
	live.lis.OnHeaders(200, jsonHeader())
	live.lis.OnData([]byte(`{"ok":true}`))
	live.lis.OnEnd()

	<-x.Done()
	resp, err := x.Result()
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Text())
}

func TestOpenFailure(t *testing.T) {
	a := &fakeAdapter{openErr: fault.New(fault.Transport, "no route to host")}
	x := New(mustSpec(t, "http://example.com", true), Config{Transport: a})
	x.Start()
	<-x.Done()
	_, err := x.Result()
	assert.Equal(t, fault.Transport, fault.KindOf(err))
}

func TestNewPanics(t *testing.T) {
	assert.Panics(t, func() { New(nil, Config{}) })
	assert.Panics(t, func() {
		New(mustSpec(t, request.Options{URL: "http://example.com"}, false), Config{})
	})
}

func TestSetTextDecodingBuffered(t *testing.T) {
	x := New(mustSpec(t, "http://example.com", true), Config{Transport: &fakeAdapter{}})
	err := x.SetTextDecoding(true)
	assert.Equal(t, fault.Config, fault.KindOf(err))
}
