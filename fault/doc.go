// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package fault defines the error taxonomy for HTTP exchange execution
// and classifies arbitrary errors into it. Every terminal failure
// surfaced by the engine is a *fault.Error carrying one of the Kind
// values, so callers can branch on Kind instead of matching message
// strings.
//
// Package fault is extremely lightweight, as it depends only on the
// standard library package "errors", so it doesn't bring any
// significant dependencies when imported as a standalone package.
package fault
