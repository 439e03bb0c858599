// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/base64"
	"net/http"
	urlpkg "net/url"
	"time"
)

// DefaultLimit is the default maximum response payload size in bytes.
const DefaultLimit int64 = 20 << 20 // 20 MiB

// DefaultAgent is the User-Agent header value derived when the caller
// supplies none.
const DefaultAgent = "fetchx/1.0"

// A Spec is the canonical, validated description of one logical HTTP
// exchange, produced by Normalize.
//
// A Spec's URL never carries embedded credentials (they are extracted
// into Username and Password) and never carries a fragment. The
// exchange engine treats a Spec as immutable: it copies the Spec
// before execution, so the same Spec may be executed any number of
// times, concurrently or otherwise. The engine's copy has its URL
// replaced wholesale on each redirect hop; everything else is constant
// across the exchange.
type Spec struct {
	// Method is the HTTP method (GET, POST, PUT, etc.), always
	// upper-case. Normalize defaults it to GET.
	Method string

	// URL is the target resource. Scheme is always http or https.
	URL *urlpkg.URL

	// Username and Password carry HTTP basic credentials, extracted
	// from URL userinfo or set explicitly. They are combined into an
	// Authorization header if at least one is non-empty.
	Username string
	Password string

	// Header contains the complete request headers: caller-supplied
	// values merged with derived values (User-Agent, Content-Type,
	// Content-Length, Authorization). Derived values win over
	// caller-supplied values for the fields they cover, regardless of
	// the casing the caller used.
	Header http.Header

	// Body is the request payload: absent, text, or bytes.
	Body Body

	// Type is the logical content-type tag of the body ("json",
	// "form", ...). Empty means no Content-Type header was derived.
	Type string

	// Expect, if non-empty, requires the response's classified
	// content-type tag to equal it exactly; a mismatch fails the
	// exchange with a ContentType fault.
	Expect string

	// Limit is the maximum allowed response payload size in bytes.
	// Zero or negative disables the limit. Normalize defaults it to
	// DefaultLimit.
	Limit int64

	// Timeout bounds the whole exchange, including all redirect hops.
	// Zero disables the deadline.
	Timeout time.Duration

	// MaxRedirects is the redirect hop budget. Normalize defaults it
	// to redirect.DefaultMax.
	MaxRedirects int

	// Buffer selects buffered mode (accumulate and decode the entire
	// body before completing) over streaming mode (deliver incremental
	// data signals).
	Buffer bool

	// StrictSSL indicates whether transport-layer certificate
	// validation is enforced. Normalize defaults it to true.
	StrictSSL bool
}

// BasicAuth returns the value of the Authorization header derived from
// the spec's credentials, and whether any credentials are present.
func (s *Spec) BasicAuth() (string, bool) {
	if s.Username == "" && s.Password == "" {
		return "", false
	}
	return "Basic " + basicAuth(s.Username, s.Password), true
}

// Clone returns a copy of the spec that shares no mutable state with
// the original: the URL value and the header map are both duplicated.
func (s *Spec) Clone() *Spec {
	s2 := new(Spec)
	*s2 = *s
	if s.URL != nil {
		u := *s.URL
		s2.URL = &u
	}
	if s.Header != nil {
		h := make(http.Header, len(s.Header))
		for k, vs := range s.Header {
			h[k] = append([]string(nil), vs...)
		}
		s2.Header = h
	}
	return s2
}

// basicAuth is lifted verbatim from net/http/client.go.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
// "To receive authorization, the client sends the userid and password,
// separated by a single colon (":") character, within a base64
// encoded string in the credentials."
// It is not meant to be urlencoded.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}
