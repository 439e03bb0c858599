// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package redirect implements the replay-limited redirect protocol
// used by the exchange engine: resolving a Location header value
// relative to the URL of the request that produced it, re-validating
// the resulting scheme, and accounting for the hop budget.
//
// The engine performs no other internal retries; following a redirect
// is the only case in which one logical exchange issues more than one
// physical request.
package redirect
