// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Spec (a canonical, validated
description of one logical HTTP exchange) and Options (the loose caller
input it is normalized from), plus the Body tagged union carried by
both.

A Spec describes everything the exchange engine needs to drive a
logical request: method, URL, headers, body, credentials, the expected
and declared content-type tags, and the safety envelope (byte limit,
whole-exchange timeout, redirect budget). Specs are produced by
Normalize and are not modified by the engine; the engine copies the
Spec it is handed, so a Spec may be reused across exchanges.

Create a spec from a bare URL:

	spec, err := request.Normalize("example.com/items", true)
	...

or from Options when more control is needed:

	spec, err := request.Normalize(request.Options{
		Method: "POST",
		URL:    "https://example.com/items",
		JSON:   map[string]interface{}{"name": "widget"},
		Expect: "json",
	}, true)
	...

Normalization is strict: URL, scheme, and port validation failures, and
fields of unsupported types, are reported as Config faults before any
network activity happens.
*/
package request
