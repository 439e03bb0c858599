// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"net/http"
	urlpkg "net/url"
)

// A Request describes one physical HTTP request to be opened by an
// Adapter. It is a flattened snapshot: the adapter must not retain or
// modify the URL or Header values after Open returns.
type Request struct {
	// Method is the upper-case HTTP method.
	Method string
	// URL is the absolute target URL (scheme http or https).
	URL *urlpkg.URL
	// Header contains the complete request headers to send.
	Header http.Header
	// HasBody indicates the caller will deliver an outbound body
	// through Conn.Write followed by Conn.End. When false, the request
	// is sent with no body and Conn.Write fails.
	HasBody bool
	// StrictSSL indicates whether transport-layer certificate
	// validation is enforced.
	StrictSSL bool
}

// A Listener receives the inbound side of a physical request. An
// adapter delivers listener events serially and in order: OnHeaders,
// then zero or more OnData calls, then exactly one of OnEnd or
// OnError. OnError may also be delivered before OnHeaders if the
// request fails outright.
type Listener interface {
	// OnHeaders delivers the response status code and headers.
	OnHeaders(status int, header http.Header)
	// OnData delivers one chunk of the response body. The chunk is
	// owned by the listener; the adapter does not reuse it.
	OnData(p []byte)
	// OnEnd signals the end of the response body.
	OnEnd()
	// OnError signals that the request failed. No further events
	// follow.
	OnError(err error)
}

// A Conn is the outbound half of one physical request.
type Conn interface {
	// Write sends outbound body bytes. It fails if the request was
	// opened without a body or the outbound side is finished.
	Write(p []byte) error
	// End finalizes the outbound body. It must be called once all
	// body bytes are written, including when no bytes are written at
	// all; for a request opened with HasBody false it is a no-op.
	End() error
	// Abort cancels the in-flight request and releases its resources.
	// Abort is idempotent and safe to call at any time.
	Abort()
}

// An Adapter opens physical HTTP requests. It is the engine's only
// window onto the network stack.
//
// Implementations of Adapter must be safe for concurrent use by
// multiple goroutines.
type Adapter interface {
	// Open starts the request described by r, delivering the inbound
	// side to l. The returned Conn controls the outbound side. Open
	// itself only fails on malformed input; network failures are
	// delivered asynchronously via l.OnError.
	Open(r Request, l Listener) (Conn, error)
}
