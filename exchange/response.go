// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package exchange

import (
	"encoding/json"
	"net/http"
	urlpkg "net/url"
	"strings"

	"github.com/go-fetchx/fetchx/fault"
)

// A Response is the terminal snapshot of a successful buffered
// exchange: status code, headers, the classified content-type tag, and
// the accumulated body. The body is held either as decoded text or as
// raw bytes, chosen by the textual classification of the content type;
// the accessor methods convert on demand.
type Response struct {
	// StatusCode is the HTTP status code of the terminal response.
	StatusCode int

	// Header contains the response headers of the terminal response,
	// with lower-cased names.
	Header map[string][]string

	// Type is the classified content-type tag ("json", "html", "bin",
	// ...).
	Type string

	textual bool
	text    string
	data    []byte
}

// Text returns the body as UTF-8 text. A body collected as raw bytes
// is decoded on the fly.
func (r *Response) Text() string {
	if r.textual {
		return r.text
	}
	return string(r.data)
}

// Bytes returns the body as raw bytes. A body collected as text is
// re-encoded as UTF-8.
func (r *Response) Bytes() []byte {
	if r.textual {
		return []byte(r.text)
	}
	return r.data
}

// JSON decodes the body as a JSON object. An empty (or all-whitespace)
// body yields an empty map. Malformed JSON, and well-formed JSON whose
// top-level value is not an object, fail with a Decode fault.
func (r *Response) JSON() (map[string]interface{}, error) {
	s := strings.TrimSpace(r.Text())
	if s == "" {
		return map[string]interface{}{}, nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fault.Wrap(fault.Decode, err)
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fault.New(fault.Decode, "top-level JSON value is not an object")
	}
	return m, nil
}

// Form decodes the body as URL-encoded form data. A key that appears
// once maps to its string value; a key that appears more than once
// maps to a []string holding every value in order. Malformed encoding
// fails with a Decode fault.
func (r *Response) Form() (map[string]interface{}, error) {
	values, err := urlpkg.ParseQuery(r.Text())
	if err != nil {
		return nil, fault.Wrap(fault.Decode, err)
	}
	m := make(map[string]interface{}, len(values))
	for k, vs := range values {
		if len(vs) == 1 {
			m[k] = vs[0]
		} else {
			m[k] = append([]string(nil), vs...)
		}
	}
	return m, nil
}

// lowerHeader copies h with lower-cased names. Values are copied, not
// shared.
func lowerHeader(h http.Header) map[string][]string {
	m := make(map[string][]string, len(h))
	for k, vs := range h {
		m[strings.ToLower(k)] = append([]string(nil), vs...)
	}
	return m
}
