// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/json"
	"net/http"
	urlpkg "net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"

	"github.com/go-fetchx/fetchx/fault"
	"github.com/go-fetchx/fetchx/mimetype"
	"github.com/go-fetchx/fetchx/redirect"
)

// Options is the loose caller input Normalize turns into a Spec. The
// zero value of every field means "not supplied". Options values are
// never modified by Normalize.
type Options struct {
	// URL is the target resource. It may omit the scheme, in which
	// case "http://" is assumed. URI is an accepted alias; URL wins if
	// both are set.
	URL string
	URI string

	// Method is the HTTP method. Empty means GET. Case is not
	// significant; the spec always carries the upper-case form.
	Method string

	// SSL forces the scheme to https, whatever the URL said.
	SSL bool

	// Host, Port, Path and Query, when supplied, override the
	// corresponding component of the parsed URL. An IPv6 literal Host
	// (one containing a colon) is bracketed automatically. Query may
	// be a raw query string or a url.Values.
	Host  string
	Port  int
	Path  string
	Query interface{}

	// Header contains caller-supplied request headers. Names are
	// canonicalized; values are copied. Derived headers (User-Agent,
	// Content-Type, Content-Length, Authorization) cannot be shadowed
	// by caller entries for the same field under a different casing.
	Header http.Header

	// Username and Password set HTTP basic credentials explicitly,
	// taking precedence over credentials embedded in the URL.
	Username string
	Password string

	// JSON, when non-nil, is serialized into the request body and sets
	// the content-type tag to "json". Form does the same with "form";
	// it may be a url.Values or a map[string]string. An explicit Body
	// or Type, if also given, is applied afterward and wins.
	JSON interface{}
	Form interface{}

	// Body is the request payload: nil, string, []byte, io.Reader or
	// io.ReadCloser (readers are buffered, closers closed).
	Body interface{}

	// Type is the logical content-type tag of the body ("json",
	// "form", ...). It must be known to the mime table in use.
	Type string

	// Expect, if non-empty, requires the response's classified tag to
	// equal it exactly.
	Expect string

	// Limit is the maximum response payload size in bytes. Zero takes
	// the DefaultLimit; a negative value disables the limit.
	Limit int64

	// Timeout bounds the whole exchange including redirects. Zero
	// disables the deadline.
	Timeout time.Duration

	// MaxRedirects is the redirect hop budget. Zero takes
	// redirect.DefaultMax; a negative value forbids redirects.
	MaxRedirects int

	// InsecureSSL disables transport-layer certificate validation.
	InsecureSSL bool
}

// Normalize wraps NormalizeWith using the default mime table.
//
// Parameter input may be a URL string, an Options value, or an
// *Options. Parameter buffer selects buffered mode (see Spec.Buffer).
func Normalize(input interface{}, buffer bool) (*Spec, error) {
	return NormalizeWith(input, buffer, mimetype.Default)
}

// NormalizeWith turns loose caller input into a canonical, validated
// Spec, resolving content-type tags through the given mime table.
//
// Parameter input may be a URL string (shorthand for Options{URL: ...}),
// an Options value, or a non-nil *Options. Any other input, any field
// of an unsupported type, and any URL, scheme or port validation
// failure produces a Config fault. Normalize never modifies input.
func NormalizeWith(input interface{}, buffer bool, table mimetype.Lookup) (*Spec, error) {
	var opts Options
	switch x := input.(type) {
	case string:
		opts = Options{URL: x}
	case Options:
		opts = x
	case *Options:
		if x == nil {
			return nil, fault.New(fault.Config, "fetchx/request: nil options")
		}
		opts = *x
	default:
		return nil, fault.New(fault.Config, "fetchx/request: input must be a URL string or Options")
	}

	u, err := parseTarget(&opts)
	if err != nil {
		return nil, err
	}

	spec := &Spec{
		URL:          u,
		Username:     opts.Username,
		Password:     opts.Password,
		Expect:       opts.Expect,
		Timeout:      opts.Timeout,
		Buffer:       buffer,
		StrictSSL:    !opts.InsecureSSL,
		Limit:        opts.Limit,
		MaxRedirects: opts.MaxRedirects,
	}

	// Embedded userinfo moves into the credential fields; explicit
	// options win over it.
	if u.User != nil {
		if spec.Username == "" {
			spec.Username = u.User.Username()
		}
		if spec.Password == "" {
			spec.Password, _ = u.User.Password()
		}
		u.User = nil
	}
	u.Fragment = ""

	if err := resolveMethod(spec, &opts); err != nil {
		return nil, err
	}
	if err := resolveBody(spec, &opts); err != nil {
		return nil, err
	}
	if err := resolveNumbers(spec, &opts); err != nil {
		return nil, err
	}
	if err := validateTarget(u); err != nil {
		return nil, err
	}
	if err := mergeHeaders(spec, &opts, table); err != nil {
		return nil, err
	}
	return spec, nil
}

func parseTarget(opts *Options) (*urlpkg.URL, error) {
	raw := opts.URL
	if raw == "" {
		raw = opts.URI
	}
	if raw == "" {
		return nil, fault.New(fault.Config, "fetchx/request: missing url")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := urlpkg.Parse(raw)
	if err != nil {
		return nil, fault.Wrap(fault.Config, err)
	}
	if opts.SSL {
		u.Scheme = "https"
	}
	if opts.Host != "" {
		host := opts.Host
		if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
			host = "[" + host + "]"
		}
		if port := u.Port(); port != "" {
			u.Host = host + ":" + port
		} else {
			u.Host = host
		}
	}
	if opts.Port != 0 {
		if opts.Port < 1 || opts.Port > 65535 {
			return nil, fault.New(fault.Config, "fetchx/request: port out of range: "+strconv.Itoa(opts.Port))
		}
		host := u.Hostname()
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		u.Host = host + ":" + strconv.Itoa(opts.Port)
	}
	if opts.Path != "" {
		u.Path = opts.Path
	}
	switch q := opts.Query.(type) {
	case nil:
	case string:
		u.RawQuery = strings.TrimPrefix(q, "?")
	case urlpkg.Values:
		u.RawQuery = q.Encode()
	default:
		return nil, fault.New(fault.Config, "fetchx/request: invalid type (for query use string or url.Values)")
	}
	u.Host = removeEmptyPort(u.Host)
	return u, nil
}

func resolveMethod(spec *Spec, opts *Options) error {
	method := opts.Method
	if method == "" {
		method = "GET"
	}
	method = strings.ToUpper(method)
	if !httpguts.ValidHeaderFieldName(method) {
		return fault.New(fault.Config, "fetchx/request: invalid method "+strconv.Quote(opts.Method))
	}
	spec.Method = method
	return nil
}

// resolveBody applies the body-producing fields in later-wins order:
// the JSON and Form conveniences first, then the explicit Body and
// Type fields on top.
func resolveBody(spec *Spec, opts *Options) error {
	if opts.JSON != nil {
		b, err := json.Marshal(opts.JSON)
		if err != nil {
			return fault.Wrap(fault.Config, err)
		}
		spec.Body = BytesBody(b)
		spec.Type = "json"
	}
	if opts.Form != nil {
		var values urlpkg.Values
		switch f := opts.Form.(type) {
		case urlpkg.Values:
			values = f
		case map[string]string:
			values = make(urlpkg.Values, len(f))
			for k, v := range f {
				values.Set(k, v)
			}
		default:
			return fault.New(fault.Config, "fetchx/request: invalid type (for form use url.Values or map[string]string)")
		}
		spec.Body = TextBody(values.Encode())
		spec.Type = "form"
	}
	if opts.Body != nil {
		b, err := NewBody(opts.Body)
		if err != nil {
			return err
		}
		spec.Body = b
	}
	if opts.Type != "" {
		spec.Type = opts.Type
	}
	return nil
}

func resolveNumbers(spec *Spec, opts *Options) error {
	if opts.Timeout < 0 {
		return fault.New(fault.Config, "fetchx/request: negative timeout")
	}
	switch {
	case opts.Limit < 0:
		spec.Limit = 0
	case opts.Limit == 0:
		spec.Limit = DefaultLimit
	}
	switch {
	case opts.MaxRedirects < 0:
		spec.MaxRedirects = 0
	case opts.MaxRedirects == 0:
		spec.MaxRedirects = redirect.DefaultMax
	}
	return nil
}

func validateTarget(u *urlpkg.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return fault.New(fault.Config, "fetchx/request: unsupported protocol "+u.Scheme+":")
	}
	if u.Host == "" {
		return fault.New(fault.Config, "fetchx/request: missing host")
	}
	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return fault.New(fault.Config, "fetchx/request: port out of range: "+port)
		}
	}
	return nil
}

func mergeHeaders(spec *Spec, opts *Options, table mimetype.Lookup) error {
	h := make(http.Header)
	for name, values := range opts.Header {
		for _, v := range values {
			h.Add(name, v)
		}
	}
	if h.Get("User-Agent") == "" {
		h.Set("User-Agent", DefaultAgent)
	}
	if spec.Type != "" {
		m, ok := table.MIME(spec.Type)
		if !ok {
			return fault.New(fault.Config, "fetchx/request: unknown content type tag "+strconv.Quote(spec.Type))
		}
		h.Set("Content-Type", m)
	}
	if !spec.Body.Absent() {
		h.Set("Content-Length", strconv.Itoa(spec.Body.Len()))
	}
	if auth, ok := spec.BasicAuth(); ok {
		h.Set("Authorization", auth)
	}
	spec.Header = h
	return nil
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
