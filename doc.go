// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package fetchx executes declaratively described HTTP calls: given a
URL string or a request.Options value, it normalizes the input into a
canonical request.Spec, drives the exchange through redirects under a
whole-exchange timeout and a payload byte limit, and surfaces the
outcome either as a fully buffered exchange.Response or as an
incremental stream of typed lifecycle signals.

Create a Client to begin making requests. The zero value is a valid
configuration:

	client := &fetchx.Client{}
	resp, err := client.Get("https://www.example.com")
	...
	resp, err := client.Request(request.Options{
		Method: "POST",
		URL:    "https://www.example.com/upload",
		JSON:   payload,
		Expect: "json",
	})
	...
	m, err := resp.JSON()

For control over how physical requests are opened, inject a custom
transport adapter; for control over content-type classification,
inject a custom mime table:

	client := &fetchx.Client{
		Transport: myAdapter, // implements transport.Adapter
		Mime:      myTable,   // implements mimetype.Lookup
	}

For incremental delivery, open a Stream, register signal handlers, and
start it:

	s, err := client.Stream("https://www.example.com/events")
	...
	s.PushBack(fetchx.SignalData, fetchx.HandlerFunc(func(sig fetchx.Signal) {
		process(sig.Data)
	}))
	s.PushBack(fetchx.SignalEnd, fetchx.HandlerFunc(func(fetchx.Signal) {
		finish()
	}))
	s.Start()

Package fetchx provides basic interfaces for each method of the client
(Doer, Getter, Header, Poster, FormPoster, and Streamer); a combined
interface that composes the one-shot methods (Executor); and utility
functions for working with a Doer (Inflate, Get, Head, Post, and
PostForm).

All terminal failures are typed: see package fault for the taxonomy.
*/
package fetchx
