// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"net/url"

	"github.com/go-fetchx/fetchx/exchange"
	"github.com/go-fetchx/fetchx/mimetype"
	"github.com/go-fetchx/fetchx/request"
	"github.com/go-fetchx/fetchx/transport"
)

// A Client executes declaratively described HTTP exchanges. Its zero
// value is a valid configuration.
//
// The zero value client uses transport.Default to open physical
// requests and mimetype.Default to classify content types.
//
// Client carries no per-exchange state and is safe for concurrent use
// by multiple goroutines. The default transport adapter pools
// connections, so Client instances should be reused instead of created
// as needed.
//
// On top of the raw exchange engine, Client adds the familiar per-verb
// methods (Get, Head, Post, PostForm), normalization of loose input
// via Request and Stream, and implements the fetchx.Executor
// interface.
type Client struct {
	// Transport specifies the mechanics of opening physical HTTP
	// requests.
	//
	// If Transport is nil, transport.Default is used.
	Transport transport.Adapter
	// Mime resolves content-type tags and classifies responses.
	//
	// If Mime is nil, mimetype.Default is used.
	Mime mimetype.Lookup
}

// Do executes a buffered exchange for the given spec and returns the
// terminal response.
//
// The spec's Buffer field is ignored: Do always buffers, since a
// one-shot call has nowhere to deliver incremental data. Use Stream
// for incremental delivery.
//
// An error is returned if the exchange failed for any reason: invalid
// configuration, transport failure, the redirect protocol, a content
// type mismatch, the byte limit, or the whole-exchange deadline. The
// returned error is always classifiable via fault.KindOf. A non-2XX
// status code is not an error.
func (c *Client) Do(spec *request.Spec) (*exchange.Response, error) {
	s := spec.Clone()
	s.Buffer = true
	x := exchange.New(s, exchange.Config{
		Transport: c.Transport,
		Mime:      c.mime(),
	})
	x.Start()
	<-x.Done()
	return x.Result()
}

// Request normalizes loose input (a URL string, a request.Options
// value, or a *request.Options) and executes it as a buffered
// exchange, using the same policies followed by Do.
func (c *Client) Request(input interface{}) (*exchange.Response, error) {
	spec, err := request.NormalizeWith(input, true, c.mime())
	if err != nil {
		return nil, err
	}
	return c.Do(spec)
}

// Stream normalizes loose input into a streaming exchange and returns
// its handle. The stream is idle: register signal handlers on it, then
// call Start.
func (c *Client) Stream(input interface{}) (*Stream, error) {
	spec, err := request.NormalizeWith(input, false, c.mime())
	if err != nil {
		return nil, err
	}
	s := &Stream{}
	s.ex = exchange.New(spec, exchange.Config{
		Transport: c.Transport,
		Mime:      c.mime(),
		Sink:      &streamSink{s: s},
	})
	return s, nil
}

// Get issues a GET to the specified URL, using the same policies
// followed by Do.
//
// To make a request with custom headers, use request.Normalize and
// Client.Do.
func (c *Client) Get(url string) (*exchange.Response, error) {
	return Get(c, url)
}

// Head issues a HEAD to the specified URL, using the same policies
// followed by Do.
//
// To make a request with custom headers, use request.Normalize and
// Client.Do.
func (c *Client) Head(url string) (*exchange.Response, error) {
	return Head(c, url)
}

// Post issues a POST to the specified URL, using the same policies
// followed by Do.
//
// The typeTag parameter is a logical content-type tag (for example
// "json" or "form"); it may be empty to send no Content-Type header.
// The body parameter may be nil for an empty body, or may be any of
// the types supported by request.NewBody, namely: string; []byte;
// io.Reader; and io.ReadCloser.
func (c *Client) Post(url, typeTag string, body interface{}) (*exchange.Response, error) {
	return Post(c, url, typeTag, body)
}

// PostForm issues a POST to the specified URL, with data's keys and
// values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.Normalize and Client.Do.
func (c *Client) PostForm(url string, data url.Values) (*exchange.Response, error) {
	return PostForm(c, url, data)
}

func (c *Client) mime() mimetype.Lookup {
	if c.Mime == nil {
		return mimetype.Default
	}
	return c.Mime
}
