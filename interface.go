// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"net/url"

	"github.com/go-fetchx/fetchx/exchange"
	"github.com/go-fetchx/fetchx/request"
)

// Doer is the interface that wraps the basic Do method.
//
// Do executes a buffered exchange for a normalized request spec and
// returns the terminal response (and error, if any). Client implements
// the Doer interface, and any other Doer implementation must behave
// substantially the same as Client.Do.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Doer interface {
	Do(spec *request.Spec) (*exchange.Response, error)
}

// Getter is the interface that wraps the basic Get method.
//
// Get normalizes the given URL, executes a buffered GET exchange, and
// returns the terminal response (and error, if any). Client implements
// the Getter interface.
//
// Any Doer can be used to emulate a Getter via the Get function.
type Getter interface {
	Get(url string) (*exchange.Response, error)
}

// Header is the interface that wraps the basic Head method.
//
// Head normalizes the given URL, executes a buffered HEAD exchange,
// and returns the terminal response (and error, if any). Client
// implements the Header interface.
//
// Any Doer can be used to emulate a Header via the Head function.
type Header interface {
	Head(url string) (*exchange.Response, error)
}

// Poster is the interface that wraps the basic Post method.
//
// Post normalizes the given URL, content-type tag and body, executes a
// buffered POST exchange, and returns the terminal response (and
// error, if any). Client implements the Poster interface.
//
// The body parameter may be nil for an empty body, or may be any of
// the types supported by request.NewBody, namely: string; []byte;
// io.Reader; and io.ReadCloser.
//
// Any Doer can be used to emulate a Poster via the Post function.
type Poster interface {
	Post(url, typeTag string, body interface{}) (*exchange.Response, error)
}

// FormPoster is the interface that wraps the basic PostForm method.
//
// PostForm executes a buffered POST exchange whose body is data's keys
// and values URL-encoded, with the Content-Type header set to
// application/x-www-form-urlencoded. Client implements the FormPoster
// interface.
//
// Any Doer can be used to emulate a FormPoster via the PostForm
// function.
type FormPoster interface {
	PostForm(url string, data url.Values) (*exchange.Response, error)
}

// Streamer is the interface that wraps the basic Stream method.
//
// Stream normalizes loose input into a streaming exchange and returns
// its idle handle. Client implements the Streamer interface. Streamer
// is not part of Executor, because incremental delivery cannot be
// emulated on top of a one-shot Doer.
type Streamer interface {
	Stream(input interface{}) (*Stream, error)
}

// Executor is the interface that groups the basic Do, Get, Head, Post,
// and PostForm methods.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Executor interface {
	Doer
	Getter
	Header
	Poster
	FormPoster
}

// Get uses the specified Doer to issue a GET to the specified URL,
// using the same policies as d.Do.
//
// To make a request with custom headers, use request.Normalize and
// d.Do.
func Get(d Doer, url string) (*exchange.Response, error) {
	spec, err := request.Normalize(url, true)
	if err != nil {
		return nil, err
	}
	return d.Do(spec)
}

// Head uses the specified Doer to issue a HEAD to the specified URL,
// using the same policies as d.Do.
//
// To make a request with custom headers, use request.Normalize and
// d.Do.
func Head(d Doer, url string) (*exchange.Response, error) {
	spec, err := request.Normalize(request.Options{Method: "HEAD", URL: url}, true)
	if err != nil {
		return nil, err
	}
	return d.Do(spec)
}

// Post uses the specified Doer to issue a POST to the specified URL,
// using the same policies as d.Do.
//
// The body parameter may be nil for an empty body, or may be any of
// the types supported by Client.Post and request.NewBody, namely:
// string; []byte; io.Reader; and io.ReadCloser.
//
// To make a request with custom headers, use request.Normalize and
// d.Do.
func Post(d Doer, url, typeTag string, body interface{}) (*exchange.Response, error) {
	spec, err := request.Normalize(request.Options{
		Method: "POST",
		URL:    url,
		Body:   body,
		Type:   typeTag,
	}, true)
	if err != nil {
		return nil, err
	}
	return d.Do(spec)
}

// PostForm uses the specified Doer to issue a POST to the specified
// URL, with data's keys and values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.Normalize and d.Do.
func PostForm(d Doer, url string, data url.Values) (*exchange.Response, error) {
	spec, err := request.Normalize(request.Options{
		Method: "POST",
		URL:    url,
		Form:   data,
	}, true)
	if err != nil {
		return nil, err
	}
	return d.Do(spec)
}

// Inflate converts any non-nil Doer into an Executor. This may be
// helpful for interop across library boundaries, i.e. if code that
// only has access to a Doer needs to call a function that requires an
// Executor.
func Inflate(d Doer) Executor {
	if d == nil {
		panic("fetchx: nil doer")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	doer Doer
}

func (i inflated) Do(spec *request.Spec) (*exchange.Response, error) {
	return i.doer.Do(spec)
}

func (i inflated) Get(url string) (*exchange.Response, error) {
	return Get(i.doer, url)
}

func (i inflated) Head(url string) (*exchange.Response, error) {
	return Head(i.doer, url)
}

func (i inflated) Post(url, typeTag string, body interface{}) (*exchange.Response, error) {
	return Post(i.doer, url, typeTag, body)
}

func (i inflated) PostForm(url string, data url.Values) (*exchange.Response, error) {
	return PostForm(i.doer, url, data)
}
