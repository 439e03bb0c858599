// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/net/http2"

	"github.com/go-fetchx/fetchx/fault"
)

const readChunkSize = 32 * 1024

// Default is the default adapter, backed by net/http with HTTP/2
// enabled. It is shared: connections are pooled across all exchanges
// that use it.
var Default Adapter = NewAdapter()

// NewAdapter returns a net/http-backed adapter with its own connection
// pools. Most callers can use Default; construct a separate adapter to
// isolate connection pools.
func NewAdapter() Adapter {
	return &netAdapter{
		strict:   newClient(false),
		insecure: newClient(true),
	}
}

type netAdapter struct {
	strict   *http.Client
	insecure *http.Client
}

func newClient(insecureSkipVerify bool) *http.Client {
	t := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: insecureSkipVerify},
	}
	_ = http2.ConfigureTransport(t)
	return &http.Client{
		Transport: t,
		// The engine owns the redirect protocol, so the net/http layer
		// must surface 3XX responses untouched.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *netAdapter) Open(r Request, l Listener) (Conn, error) {
	ctx, cancel := context.WithCancel(context.Background())

	var body io.ReadCloser
	var pw *io.PipeWriter
	if r.HasBody {
		var pr *io.PipeReader
		pr, pw = io.Pipe()
		body = pr
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL.String(), body)
	if err != nil {
		cancel()
		return nil, fault.Wrap(fault.Transport, err)
	}
	req.Header = make(http.Header, len(r.Header))
	for k, vs := range r.Header {
		req.Header[k] = append([]string(nil), vs...)
	}
	// net/http takes the outbound length from the request field, not
	// the header map.
	if cl := req.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			req.ContentLength = n
		}
		req.Header.Del("Content-Length")
	}

	client := a.strict
	if !r.StrictSSL {
		client = a.insecure
	}

	c := &netConn{pw: pw, cancel: cancel}
	go receive(client, req, l)
	return c, nil
}

// receive performs the blocking round trip and pumps the inbound side
// into the listener. It runs on its own goroutine; because it is the
// only goroutine touching the listener, event delivery is serial.
func receive(client *http.Client, req *http.Request, l Listener) {
	resp, err := client.Do(req)
	if err != nil {
		l.OnError(fault.Wrap(fault.Transport, err))
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	l.OnHeaders(resp.StatusCode, resp.Header)
	buf := make([]byte, readChunkSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			p := make([]byte, n)
			copy(p, buf[:n])
			l.OnData(p)
		}
		if err == io.EOF {
			l.OnEnd()
			return
		}
		if err != nil {
			l.OnError(fault.Wrap(fault.Transport, err))
			return
		}
	}
}

type netConn struct {
	mu     sync.Mutex
	pw     *io.PipeWriter
	cancel context.CancelFunc
	ended  bool
}

func (c *netConn) Write(p []byte) error {
	c.mu.Lock()
	pw, ended := c.pw, c.ended
	c.mu.Unlock()
	if pw == nil {
		return fault.New(fault.Config, "fetchx/transport: request opened without a body")
	}
	if ended {
		return fault.New(fault.Config, "fetchx/transport: outbound body already finalized")
	}
	_, err := pw.Write(p)
	if err != nil {
		return fault.Wrap(fault.Transport, err)
	}
	return nil
}

func (c *netConn) End() error {
	c.mu.Lock()
	pw := c.pw
	c.ended = true
	c.mu.Unlock()
	if pw != nil {
		return pw.Close()
	}
	return nil
}

func (c *netConn) Abort() {
	c.mu.Lock()
	pw := c.pw
	c.ended = true
	c.mu.Unlock()
	if pw != nil {
		_ = pw.CloseWithError(context.Canceled)
	}
	c.cancel()
}
