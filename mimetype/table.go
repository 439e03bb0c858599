// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package mimetype

import (
	"mime"
	"strings"
)

// A Lookup resolves short content-type tags to MIME strings, derives a
// tag from a Content-Type header value, and classifies tags as textual.
//
// Implementations of Lookup must be safe for concurrent use by
// multiple goroutines.
type Lookup interface {
	// MIME returns the MIME string for a tag, and whether the tag is
	// known to the table.
	MIME(tag string) (string, bool)
	// Tag returns the short tag for a Content-Type header value. An
	// empty or unrecognized value produces the tag "bin".
	Tag(contentType string) string
	// Textual reports whether bodies of the given tag are text, and
	// should be accumulated as UTF-8 rather than raw bytes.
	Textual(tag string) bool
}

// Default is the default lookup table. It covers the tags the engine
// itself derives ("json", "form") plus the common interchange formats.
var Default Lookup = table{}

var tagToMIME = map[string]string{
	"json": "application/json",
	"form": "application/x-www-form-urlencoded",
	"html": "text/html",
	"xml":  "application/xml",
	"txt":  "text/plain",
	"js":   "application/javascript",
	"css":  "text/css",
	"csv":  "text/csv",
	"bin":  "application/octet-stream",
}

var mimeToTag = map[string]string{
	"application/json":                  "json",
	"text/json":                         "json",
	"application/x-www-form-urlencoded": "form",
	"text/html":                         "html",
	"application/xhtml+xml":             "html",
	"application/xml":                   "xml",
	"text/xml":                          "xml",
	"text/plain":                        "txt",
	"application/javascript":            "js",
	"text/javascript":                   "js",
	"text/css":                          "css",
	"text/csv":                          "csv",
}

var textualTags = map[string]bool{
	"json": true,
	"form": true,
	"html": true,
	"xml":  true,
	"txt":  true,
	"js":   true,
	"css":  true,
	"csv":  true,
}

type table struct{}

func (table) MIME(tag string) (string, bool) {
	m, ok := tagToMIME[tag]
	return m, ok
}

func (table) Tag(contentType string) string {
	if contentType == "" {
		return "bin"
	}
	media, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Fall back to the bare value before any parameters.
		media = strings.TrimSpace(strings.ToLower(strings.SplitN(contentType, ";", 2)[0]))
	}
	if tag, ok := mimeToTag[media]; ok {
		return tag
	}
	// Structured syntax suffixes (RFC 6839).
	if strings.HasSuffix(media, "+json") {
		return "json"
	}
	if strings.HasSuffix(media, "+xml") {
		return "xml"
	}
	if strings.HasPrefix(media, "text/") {
		return "txt"
	}
	return "bin"
}

func (table) Textual(tag string) bool {
	return textualTags[tag]
}
