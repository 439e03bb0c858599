// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package redirect

import (
	urlpkg "net/url"

	"github.com/go-fetchx/fetchx/fault"
)

// DefaultMax is the default redirect hop budget for an exchange.
const DefaultMax = 5

// Exceeded reports whether following one more redirect would exceed
// the hop budget. followed is the number of hops already taken and max
// is the budget; a non-positive max forbids redirects entirely.
func Exceeded(followed, max int) bool {
	return followed >= max
}

// Resolve resolves a Location header value against the URL of the
// request that produced it, per RFC 3986 relative resolution. The
// returned URL is a new value: base is never modified, and the result
// carries no fragment and no embedded credentials.
//
// Resolve fails with a Redirect fault if location cannot be parsed or
// if the resolved URL's scheme is not http or https.
func Resolve(base *urlpkg.URL, location string) (*urlpkg.URL, error) {
	if location == "" {
		return nil, fault.New(fault.Redirect, "empty Location header")
	}
	ref, err := urlpkg.Parse(location)
	if err != nil {
		return nil, fault.New(fault.Redirect, "malformed Location header: "+location)
	}
	u := base.ResolveReference(ref)
	u.Fragment = ""
	u.User = nil
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fault.New(fault.Redirect, "redirect to unsupported protocol "+u.Scheme+":")
	}
	return u, nil
}
