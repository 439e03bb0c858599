// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package mimetype maps between short content-type tags (like "json",
// "html", "bin") and MIME strings, and classifies tags as textual or
// binary. The exchange engine consumes the Lookup interface; Default
// is a table-driven implementation suitable for most callers.
//
// The Lookup is injected into the engine rather than resolved through
// a package-level global, so alternative tables can be supplied
// without import-order tricks.
package mimetype
