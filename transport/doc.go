// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package transport defines the narrow capability boundary between the
exchange engine and the network stack, and provides a default
implementation backed by net/http.

The engine drives the boundary through three small interfaces. An
Adapter opens one physical request and returns a Conn for the outbound
side; the adapter delivers the inbound side asynchronously to a
Listener (headers, data chunks, end of body, error). An adapter must
deliver listener events one at a time and in order: OnHeaders first,
then zero or more OnData calls in receipt order, then exactly one of
OnEnd or OnError. After Abort is called on the Conn, any event may
still be in flight; the engine is responsible for ignoring events from
a connection it has torn down.

The default adapter disables net/http's own redirect following
(the engine owns the redirect protocol), streams outbound bodies
through an in-memory pipe, and enables HTTP/2 on both its strict and
insecure TLS configurations.
*/
package transport
